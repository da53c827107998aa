package phasor

import (
	"encoding/binary"
	"fmt"
	"math"
)

// SampleFormat identifies a raw PCM encoding. The same table governs bytes
// ingested by SampleBank.AddPCM and bytes produced by Fill. Multi-byte
// formats are little-endian.
type SampleFormat int

const (
	FormatU8 SampleFormat = iota
	FormatI16
	FormatI32
	FormatF32
	FormatF64
)

func (f SampleFormat) Valid() bool {
	return f >= FormatU8 && f <= FormatF64
}

// Width returns the size of one encoded sample in bytes.
func (f SampleFormat) Width() int {
	switch f {
	case FormatU8:
		return 1
	case FormatI16:
		return 2
	case FormatI32, FormatF32:
		return 4
	case FormatF64:
		return 8
	}
	return 0
}

func (f SampleFormat) String() string {
	switch f {
	case FormatU8:
		return "u8"
	case FormatI16:
		return "i16"
	case FormatI32:
		return "i32"
	case FormatF32:
		return "f32"
	case FormatF64:
		return "f64"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Decode converts raw little-endian PCM bytes into normalized float64
// amplitudes. Integer formats map onto [-1, 1); float formats pass through
// unchanged.
func (f SampleFormat) Decode(data []byte) ([]float64, error) {
	w := f.Width()
	if w == 0 {
		return nil, fmt.Errorf("decode: %w: unrecognized sample format %d", ErrInvalidInput, int(f))
	}
	if len(data)%w != 0 {
		return nil, fmt.Errorf("decode: %w: %d bytes is not a multiple of the %v sample width", ErrInvalidInput, len(data), f)
	}
	out := make([]float64, len(data)/w)
	for i := range out {
		b := data[i*w:]
		switch f {
		case FormatU8:
			out[i] = (float64(b[0]) - 128) / 128
		case FormatI16:
			out[i] = float64(int16(binary.LittleEndian.Uint16(b))) / 32768
		case FormatI32:
			out[i] = float64(int32(binary.LittleEndian.Uint32(b))) / 2147483648
		case FormatF32:
			out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		case FormatF64:
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(b))
		}
	}
	return out, nil
}

// Encode writes the samples into dst in this format. dst must hold at least
// len(src) * Width() bytes.
func (f SampleFormat) Encode(src []float64, dst []byte) error {
	w := f.Width()
	if w == 0 {
		return fmt.Errorf("encode: %w: unrecognized sample format %d", ErrInvalidInput, int(f))
	}
	if len(dst) < len(src)*w {
		return fmt.Errorf("encode: %w: %d bytes cannot hold %d %v samples", ErrInvalidInput, len(dst), len(src), f)
	}
	for i, v := range src {
		f.put(dst[i*w:], v)
	}
	return nil
}

// put encodes a single sample into dst[:Width()]. The format must be valid.
func (f SampleFormat) put(dst []byte, v float64) {
	switch f {
	case FormatU8:
		dst[0] = byte(quantize(v, 128, 128, 0, 255))
	case FormatI16:
		binary.LittleEndian.PutUint16(dst, uint16(int16(quantize(v, 32768, 0, math.MinInt16, math.MaxInt16))))
	case FormatI32:
		binary.LittleEndian.PutUint32(dst, uint32(int32(quantize(v, 2147483648, 0, math.MinInt32, math.MaxInt32))))
	case FormatF32:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(v)))
	case FormatF64:
		binary.LittleEndian.PutUint64(dst, math.Float64bits(v))
	}
}

// quantize clamps v to [-1, 1], scales and offsets it onto an integer
// range, rounds, then clamps onto that range.
func quantize(v, scale, offset, lo, hi float64) float64 {
	if v < -1 {
		v = -1
	} else if v > 1 {
		v = 1
	}
	q := math.Round(v*scale + offset)
	if q < lo {
		q = lo
	} else if q > hi {
		q = hi
	}
	return q
}
