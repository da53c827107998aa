package phasor_test

import (
	"errors"
	"math"
	"testing"

	"github.com/phasoraudio/phasor"
)

const tolerance = 1e-6

// flat is an envelope with no attack, no decay and a short release, so the
// waveform under test is visible unscaled.
var flat = phasor.Envelope{HalvingRate: math.Inf(1), ReleaseTime: phasor.TimeFromSeconds(0.1)}

func mustOperator(t *testing.T, w phasor.Waveform, e phasor.Envelope, m phasor.Modifiers) *phasor.Operator {
	t.Helper()
	op, err := phasor.NewOperator(w, e, m)
	if err != nil {
		t.Fatalf("NewOperator failed: %v", err)
	}
	return op
}

func at(s float64) phasor.Time { return phasor.TimeFromSeconds(s) }

func TestOperatorIdleIsSilent(t *testing.T) {
	op := mustOperator(t, phasor.SineWave(), flat, phasor.DefaultModifiers())
	if got := op.Sample(nil, at(1), 0); got != 0 {
		t.Errorf("untriggered operator output %v, expected 0", got)
	}
}

func TestOperatorAttack(t *testing.T) {
	envelope := phasor.Envelope{AttackTime: at(1), HalvingRate: math.Inf(1), ReleaseTime: at(1)}
	op := mustOperator(t, phasor.ConstantWave(1), envelope, phasor.DefaultModifiers())
	op.Play(440, 1)
	if got := op.Sample(nil, at(10), 0); got != 0 {
		t.Errorf("amplitude at the trigger anchor = %v, expected 0", got)
	}
	if got := op.Sample(nil, at(10.5), 0); math.Abs(got-0.5) > tolerance {
		t.Errorf("amplitude halfway through the attack = %v, expected 0.5", got)
	}
	if got := op.Sample(nil, at(11), 0); math.Abs(got-1) > tolerance {
		t.Errorf("amplitude at the end of the attack = %v, expected 1", got)
	}
}

func TestOperatorHalving(t *testing.T) {
	envelope := phasor.Envelope{HalvingRate: 2, ReleaseTime: at(1)}
	op := mustOperator(t, phasor.ConstantWave(1), envelope, phasor.DefaultModifiers())
	op.Play(440, 1)
	if got := op.Sample(nil, at(0), 0); math.Abs(got-1) > tolerance {
		t.Errorf("amplitude at trigger = %v, expected 1", got)
	}
	if got := op.Sample(nil, at(2), 0); math.Abs(got-0.5) > tolerance {
		t.Errorf("amplitude after one half-life = %v, expected 0.5", got)
	}
	if got := op.Sample(nil, at(4), 0); math.Abs(got-0.25) > tolerance {
		t.Errorf("amplitude after two half-lives = %v, expected 0.25", got)
	}
}

func TestOperatorOutOfOrderSampling(t *testing.T) {
	envelope := phasor.Envelope{AttackTime: at(1), HalvingRate: math.Inf(1), ReleaseTime: at(1)}
	op := mustOperator(t, phasor.ConstantWave(1), envelope, phasor.DefaultModifiers())
	op.Play(440, 1)
	first := op.Sample(nil, at(5.5), 0) // anchors at 5.5
	if got := op.Sample(nil, at(3), 0); got != 0 {
		t.Errorf("sampling before the anchor should clamp to elapsed zero, got %v", got)
	}
	if got := op.Sample(nil, at(5.5), 0); got != first {
		t.Errorf("re-sampling the anchor time = %v, expected %v again", got, first)
	}
}

func TestOperatorReleaseFreezesAndFades(t *testing.T) {
	envelope := phasor.Envelope{HalvingRate: math.Inf(1), ReleaseTime: at(2)}
	op := mustOperator(t, phasor.ConstantWave(1), envelope, phasor.DefaultModifiers())
	op.Play(440, 1)
	op.Sample(nil, at(0), 0)
	op.Release()
	if got := op.Sample(nil, at(1), 0); math.Abs(got-1) > tolerance {
		t.Errorf("amplitude at the release anchor = %v, expected the frozen level 1", got)
	}
	if got := op.Sample(nil, at(2), 0); math.Abs(got-0.5) > tolerance {
		t.Errorf("amplitude halfway through the release = %v, expected 0.5", got)
	}
	if got := op.Sample(nil, at(3), 0); got != 0 {
		t.Errorf("amplitude at the end of the release = %v, expected 0", got)
	}
	if got := op.Sample(nil, at(10), 0); got != 0 {
		t.Errorf("amplitude long after the release = %v, expected 0", got)
	}
	// An expired ramp must not corrupt earlier times.
	if got := op.Sample(nil, at(2), 0); math.Abs(got-0.5) > tolerance {
		t.Errorf("re-sampling inside the release after expiry = %v, expected 0.5", got)
	}
}

func TestOperatorZeroReleaseTime(t *testing.T) {
	envelope := phasor.Envelope{HalvingRate: math.Inf(1)}
	op := mustOperator(t, phasor.ConstantWave(1), envelope, phasor.DefaultModifiers())
	op.Play(440, 1)
	op.Sample(nil, at(0), 0)
	op.Release()
	if got := op.Sample(nil, at(0.001), 0); got != 0 {
		t.Errorf("release with zero release time output %v, expected immediate silence", got)
	}
}

func TestOperatorCut(t *testing.T) {
	op := mustOperator(t, phasor.ConstantWave(1), flat, phasor.DefaultModifiers())
	op.Play(440, 1)
	if got := op.Sample(nil, at(0), 0); got == 0 {
		t.Fatal("operator should be audible after Play")
	}
	op.Cut()
	if got := op.Sample(nil, at(0.1), 0); got != 0 {
		t.Errorf("cut operator output %v, expected 0", got)
	}
}

func TestOperatorRetrigger(t *testing.T) {
	envelope := phasor.Envelope{AttackTime: at(1), HalvingRate: math.Inf(1), ReleaseTime: at(1)}
	op := mustOperator(t, phasor.ConstantWave(1), envelope, phasor.DefaultModifiers())
	op.Play(440, 1)
	op.Sample(nil, at(0), 0)
	if got := op.Sample(nil, at(1), 0); math.Abs(got-1) > tolerance {
		t.Fatalf("attack should be complete, got %v", got)
	}
	op.Play(440, 1)
	if got := op.Sample(nil, at(10), 0); got != 0 {
		t.Errorf("retrigger should restart the attack from zero, got %v", got)
	}
}

func TestOperatorSineFrequency(t *testing.T) {
	op := mustOperator(t, phasor.SineWave(), flat, phasor.DefaultModifiers())
	op.Play(440, 1)
	op.Sample(nil, at(0), 0)
	quarter := 1.0 / (4 * 440)
	if got := op.Sample(nil, at(quarter), 0); math.Abs(got-1) > tolerance {
		t.Errorf("440 Hz sine at a quarter period = %v, expected 1", got)
	}
	if got := op.Sample(nil, at(3*quarter), 0); math.Abs(got+1) > tolerance {
		t.Errorf("440 Hz sine at three quarter periods = %v, expected -1", got)
	}
}

func TestOperatorModifiers(t *testing.T) {
	// A 1 Hz sawtooth sampled at 0.25 s reads -0.5 unmodified.
	base := mustOperator(t, phasor.SawtoothWave(), flat, phasor.DefaultModifiers())
	base.Play(1, 1)
	base.Sample(nil, at(0), 0)
	if got := base.Sample(nil, at(0.25), 0); math.Abs(got+0.5) > tolerance {
		t.Fatalf("unmodified sawtooth = %v, expected -0.5", got)
	}

	faster := phasor.DefaultModifiers()
	faster.FrequencyMultiplier = 2
	op := mustOperator(t, phasor.SawtoothWave(), flat, faster)
	op.Play(1, 1)
	op.Sample(nil, at(0), 0)
	if got := op.Sample(nil, at(0.25), 0); math.Abs(got) > tolerance {
		t.Errorf("doubled frequency sawtooth = %v, expected 0", got)
	}

	quieter := phasor.DefaultModifiers()
	quieter.VolumeMultiplier = 0.5
	op = mustOperator(t, phasor.SawtoothWave(), flat, quieter)
	op.Play(1, 1)
	op.Sample(nil, at(0), 0)
	if got := op.Sample(nil, at(0.25), 0); math.Abs(got+0.25) > tolerance {
		t.Errorf("half volume sawtooth = %v, expected -0.25", got)
	}

	shifted := phasor.DefaultModifiers()
	shifted.ConstantPhaseOffset = 0.5
	op = mustOperator(t, phasor.SawtoothWave(), flat, shifted)
	op.Play(1, 1)
	op.Sample(nil, at(0), 0)
	if got := op.Sample(nil, at(0.25), 0); math.Abs(got-0.5) > tolerance {
		t.Errorf("phase shifted sawtooth = %v, expected 0.5", got)
	}
}

func TestOperatorVolume(t *testing.T) {
	op := mustOperator(t, phasor.ConstantWave(1), flat, phasor.DefaultModifiers())
	op.Play(440, 0.25)
	if got := op.Sample(nil, at(0), 0); math.Abs(got-0.25) > tolerance {
		t.Errorf("volume 0.25 output %v", got)
	}
}

func TestOperatorCloneIndependence(t *testing.T) {
	op := mustOperator(t, phasor.ConstantWave(1), flat, phasor.DefaultModifiers())
	clone := op.Clone()
	op.Play(440, 1)
	if got := clone.Sample(nil, at(0), 0); got != 0 {
		t.Errorf("clone should not hear the original's trigger, got %v", got)
	}
	clone.Play(440, 0.5)
	op.Cut()
	if got := clone.Sample(nil, at(0), 0); math.Abs(got-0.5) > tolerance {
		t.Errorf("clone should keep playing after the original was cut, got %v", got)
	}
}

func TestNewOperatorValidation(t *testing.T) {
	if _, err := phasor.NewOperator(phasor.PulseWave(1.5), flat, phasor.DefaultModifiers()); !errors.Is(err, phasor.ErrInvalidInput) {
		t.Errorf("duty cycle above 1 should be invalid input, got %v", err)
	}
	if _, err := phasor.NewOperator(phasor.Waveform{Kind: phasor.Thin}, flat, phasor.DefaultModifiers()); !errors.Is(err, phasor.ErrInvalidInput) {
		t.Errorf("thin wave without a base should be invalid input, got %v", err)
	}
	if _, err := phasor.NewOperator(phasor.Waveform{Kind: phasor.WaveformKind(99)}, flat, phasor.DefaultModifiers()); !errors.Is(err, phasor.ErrInvalidInput) {
		t.Errorf("unknown waveform kind should be invalid input, got %v", err)
	}
}
