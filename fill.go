package phasor

import "fmt"

// Fill renders n samples into dst, encoded in the given format. Sample i is
// taken at start + i*interval; the addition is exact fixed-point
// nanosecond math, so arbitrarily long fills stay aligned with n
// independent Sample calls. An unrecognized format or a dst too short for n
// encoded samples is invalid input; the sampling itself never fails.
func Fill(synth Synth, bank *SampleBank, start, interval Time, dst []byte, n int, format SampleFormat, phaseOffset float64) error {
	width := format.Width()
	if width == 0 {
		return fmt.Errorf("fill: %w: unrecognized sample format %d", ErrInvalidInput, int(format))
	}
	if n < 0 || len(dst) < n*width {
		return fmt.Errorf("fill: %w: %d bytes cannot hold %d %v samples", ErrInvalidInput, len(dst), n, format)
	}
	t := start
	for i := 0; i < n; i++ {
		format.put(dst[i*width:], synth.Sample(bank, t, phaseOffset))
		t = t.Add(interval)
	}
	return nil
}

// Render is the offline counterpart of Fill: n samples starting at start,
// spaced interval apart, as raw float64 amplitudes.
func Render(synth Synth, bank *SampleBank, start, interval Time, n int, phaseOffset float64) []float64 {
	buffer := make([]float64, n)
	t := start
	for i := range buffer {
		buffer[i] = synth.Sample(bank, t, phaseOffset)
		t = t.Add(interval)
	}
	return buffer
}
