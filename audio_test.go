package phasor_test

import (
	"math"
	"testing"

	"github.com/phasoraudio/phasor"
)

func TestSynthReaderStreamsFloat32(t *testing.T) {
	const n = 16
	interval := phasor.PeriodOf(44100)
	synth := testSynth(t)
	reference := phasor.Render(synth.Clone(), nil, phasor.Time{}, interval, n, 0)

	reader := phasor.NewSynthReader(synth, nil, phasor.Time{}, interval, 0)
	buffer := make([]byte, n*4)
	read, err := reader.Read(buffer)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if read != n*4 {
		t.Fatalf("read %d bytes, expected %d", read, n*4)
	}
	decoded, err := phasor.FormatF32.Decode(buffer)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	for i := range decoded {
		if math.Abs(decoded[i]-reference[i]) > tolerance {
			t.Fatalf("sample %d: streamed %v, rendered %v", i, decoded[i], reference[i])
		}
	}
}

func TestSynthReaderAdvances(t *testing.T) {
	const n = 8
	interval := phasor.TimeFromSeconds(0.25)
	reader := phasor.NewSynthReader(testSynth(t), nil, phasor.Time{}, interval, 0)
	if _, err := reader.Read(make([]byte, n*4)); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := reader.Now(); got != phasor.TimeFromSeconds(2) {
		t.Errorf("clock advanced to %v, expected 2s", got)
	}
	// A partial trailing sample is not consumed.
	if read, err := reader.Read(make([]byte, 3)); err != nil || read != 0 {
		t.Errorf("short read returned (%d, %v), expected (0, nil)", read, err)
	}
	if got := reader.Now(); got != phasor.TimeFromSeconds(2) {
		t.Errorf("short read moved the clock to %v", got)
	}
}
