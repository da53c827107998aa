package phasor

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// SampleRate is the rate assumed by the WAV/raw exporters and the natural
// fill interval for real-time output.
const SampleRate = 44100

// Wav encodes a rendered mono buffer as a 44100 Hz .wav file. pcm16 selects
// 16-bit integer samples; otherwise the data is written as 32-bit floats.
func Wav(buffer []float64, pcm16 bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	wavHeader(len(buffer), pcm16, buf)
	if err := rawToBuffer(buffer, pcm16, buf); err != nil {
		return nil, fmt.Errorf("Wav failed: %v", err)
	}
	return buf.Bytes(), nil
}

// Raw encodes a rendered mono buffer as headerless samples, 16-bit integer
// or 32-bit float depending on pcm16.
func Raw(buffer []float64, pcm16 bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := rawToBuffer(buffer, pcm16, buf); err != nil {
		return nil, fmt.Errorf("Raw failed: %v", err)
	}
	return buf.Bytes(), nil
}

func rawToBuffer(data []float64, pcm16 bool, buf *bytes.Buffer) error {
	format := FormatF32
	if pcm16 {
		format = FormatI16
	}
	encoded := make([]byte, len(data)*format.Width())
	if err := format.Encode(data, encoded); err != nil {
		return err
	}
	_, err := buf.Write(encoded)
	return err
}

// wavHeader writes a wave header for either float32 or int16 mono audio at
// 44100 Hz. Float audio gets the WAVE_FORMAT_IEEE_FLOAT chunk layout with
// the fact chunk; see
// http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
func wavHeader(bufferLength int, pcm16 bool, buf *bytes.Buffer) {
	numChannels := 1
	var bytesPerSample, chunkSize, fmtChunkSize, waveFormat int
	var factChunk bool
	if pcm16 {
		bytesPerSample = 2
		chunkSize = 36 + bytesPerSample*bufferLength
		fmtChunkSize = 16
		waveFormat = 1 // PCM
		factChunk = false
	} else {
		bytesPerSample = 4
		chunkSize = 50 + bytesPerSample*bufferLength
		fmtChunkSize = 18
		waveFormat = 3 // IEEE float
		factChunk = true
	}
	buf.Write([]byte("RIFF"))
	binary.Write(buf, binary.LittleEndian, uint32(chunkSize))
	buf.Write([]byte("WAVE"))
	buf.Write([]byte("fmt "))
	binary.Write(buf, binary.LittleEndian, uint32(fmtChunkSize))
	binary.Write(buf, binary.LittleEndian, uint16(waveFormat))
	binary.Write(buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(buf, binary.LittleEndian, uint32(SampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(SampleRate*numChannels*bytesPerSample)) // avgBytesPerSec
	binary.Write(buf, binary.LittleEndian, uint16(numChannels*bytesPerSample))            // blockAlign
	binary.Write(buf, binary.LittleEndian, uint16(8*bytesPerSample))                      // bits per sample
	if fmtChunkSize > 16 {
		binary.Write(buf, binary.LittleEndian, uint16(0)) // size of extension
	}
	if factChunk {
		buf.Write([]byte("fact"))
		binary.Write(buf, binary.LittleEndian, uint32(4))            // fact chunk size
		binary.Write(buf, binary.LittleEndian, uint32(bufferLength)) // sample length
	}
	buf.Write([]byte("data"))
	binary.Write(buf, binary.LittleEndian, uint32(bytesPerSample*bufferLength))
}
