package phasor_test

import (
	"math"
	"testing"

	"github.com/phasoraudio/phasor"
)

func TestPeak(t *testing.T) {
	if got := phasor.Peak([]float64{0.1, -0.9, 0.5}); math.Abs(got-0.9) > tolerance {
		t.Errorf("Peak = %v, expected 0.9", got)
	}
	if got := phasor.Peak(nil); got != 0 {
		t.Errorf("Peak of an empty buffer = %v, expected 0", got)
	}
}

func TestRMS(t *testing.T) {
	if got := phasor.RMS([]float64{0.5, -0.5, 0.5, -0.5}); math.Abs(got-0.5) > tolerance {
		t.Errorf("RMS = %v, expected 0.5", got)
	}
	if got := phasor.RMS(nil); got != 0 {
		t.Errorf("RMS of an empty buffer = %v, expected 0", got)
	}
}

func TestRMSOfSine(t *testing.T) {
	op := mustOperator(t, phasor.SineWave(), flat, phasor.DefaultModifiers())
	op.Play(441, 1) // an integer number of periods per second
	buffer := phasor.Render(op, nil, phasor.Time{}, phasor.PeriodOf(44100), 44100, 0)
	if got := phasor.RMS(buffer); math.Abs(got-1/math.Sqrt2) > 1e-3 {
		t.Errorf("RMS of a full scale sine = %v, expected %v", got, 1/math.Sqrt2)
	}
}

func TestDecibels(t *testing.T) {
	if got := phasor.Decibels(1); got != 0 {
		t.Errorf("Decibels(1) = %v, expected 0", got)
	}
	if got := phasor.Decibels(0.5); math.Abs(got+6.0206) > 1e-3 {
		t.Errorf("Decibels(0.5) = %v, expected about -6.02", got)
	}
}
