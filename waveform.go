package phasor

import (
	"fmt"
	"math"
)

type WaveformKind int

const (
	Sine WaveformKind = iota
	Pulse
	Triangle
	Sawtooth
	InvertedSawtooth
	PCM
	Constant
	// Thin squeezes the base waveform's whole period into the first
	// ActiveFraction of the phase domain and is silent for the rest of it.
	Thin
	// Cut plays the base waveform unchanged up to ActiveFraction of the
	// period and is silent for the rest of it.
	Cut
	// Absolute rectifies the base waveform.
	Absolute
)

// Waveform is the periodic (or PCM) shape of an operator, immutable once
// the operator is created. Which fields are meaningful depends on Kind:
// DutyCycle for Pulse, Offset for Constant, SampleID for PCM, and Base plus
// ActiveFraction for the wrapper kinds.
type Waveform struct {
	Kind           WaveformKind
	DutyCycle      float64
	Offset         float64
	SampleID       SampleID
	Base           *Waveform
	ActiveFraction float64
}

func SineWave() Waveform     { return Waveform{Kind: Sine} }
func TriangleWave() Waveform { return Waveform{Kind: Triangle} }
func SawtoothWave() Waveform { return Waveform{Kind: Sawtooth} }

func InvertedSawtoothWave() Waveform { return Waveform{Kind: InvertedSawtooth} }

// PulseWave returns a pulse wave that is +1 for the first dutyCycle of each
// period and -1 for the rest.
func PulseWave(dutyCycle float64) Waveform {
	return Waveform{Kind: Pulse, DutyCycle: dutyCycle}
}

// ConstantWave ignores phase entirely and always outputs offset.
func ConstantWave(offset float64) Waveform {
	return Waveform{Kind: Constant, Offset: offset}
}

// PCMWave plays the bank sample with the given id, or silence when the bank
// sampled against has no such entry.
func PCMWave(id SampleID) Waveform {
	return Waveform{Kind: PCM, SampleID: id}
}

func ThinWave(base Waveform, activeFraction float64) Waveform {
	return Waveform{Kind: Thin, Base: &base, ActiveFraction: activeFraction}
}

func CutWave(base Waveform, activeFraction float64) Waveform {
	return Waveform{Kind: Cut, Base: &base, ActiveFraction: activeFraction}
}

func AbsoluteWave(base Waveform) Waveform {
	return Waveform{Kind: Absolute, Base: &base}
}

func (w *Waveform) validate() error {
	switch w.Kind {
	case Sine, Triangle, Sawtooth, InvertedSawtooth, PCM, Constant:
		return nil
	case Pulse:
		if w.DutyCycle < 0 || w.DutyCycle > 1 || math.IsNaN(w.DutyCycle) {
			return fmt.Errorf("pulse wave: %w: duty cycle %v outside [0, 1]", ErrInvalidInput, w.DutyCycle)
		}
		return nil
	case Thin, Cut:
		if w.ActiveFraction < 0 || w.ActiveFraction > 1 || math.IsNaN(w.ActiveFraction) {
			return fmt.Errorf("%v wave: %w: active fraction %v outside [0, 1]", w.Kind, ErrInvalidInput, w.ActiveFraction)
		}
		fallthrough
	case Absolute:
		if w.Base == nil {
			return fmt.Errorf("%v wave: %w: missing base waveform", w.Kind, ErrInvalidInput)
		}
		return w.Base.validate()
	}
	return fmt.Errorf("waveform: %w: unknown kind %d", ErrInvalidInput, int(w.Kind))
}

func (k WaveformKind) String() string {
	switch k {
	case Sine:
		return "sine"
	case Pulse:
		return "pulse"
	case Triangle:
		return "triangle"
	case Sawtooth:
		return "sawtooth"
	case InvertedSawtooth:
		return "inverted-sawtooth"
	case PCM:
		return "pcm"
	case Constant:
		return "constant"
	case Thin:
		return "thin"
	case Cut:
		return "cut"
	case Absolute:
		return "absolute"
	}
	return fmt.Sprintf("waveform(%d)", int(k))
}

// at evaluates the waveform. period is the unwrapped position in the period
// domain (elapsed time x effective frequency); the phase argument is its
// sub-period fraction plus the combined external and constant phase
// offsets, wrapped into [0, 1). PCM playback keeps the unwrapped period so
// long samples can run past a single period.
func (w *Waveform) at(bank *SampleBank, period Time, phaseOffset float64) float64 {
	wrapped := Time{Nanos: period.Nanos}
	phase := fracEuclid(wrapped.Float() + fracEuclid(phaseOffset))
	switch w.Kind {
	case Sine:
		return math.Sin(2 * math.Pi * phase)
	case Pulse:
		if phase < w.DutyCycle {
			return 1
		}
		return -1
	case Triangle:
		if phase < 0.5 {
			return phase*4 - 1
		}
		return 3 - phase*4
	case Sawtooth:
		return phase*2 - 1
	case InvertedSawtooth:
		return 1 - phase*2
	case Constant:
		return w.Offset
	case PCM:
		s := bank.lookup(w.SampleID)
		if s == nil {
			return 0
		}
		return s.at(period, phaseOffset)
	case Thin:
		if w.ActiveFraction <= 0 || phase > w.ActiveFraction {
			return 0
		}
		// The offset is already folded into phase; the base sees none.
		return w.Base.at(bank, TimeFromSeconds(phase/w.ActiveFraction), 0)
	case Cut:
		if phase > w.ActiveFraction {
			return 0
		}
		return w.Base.at(bank, TimeFromSeconds(phase), 0)
	case Absolute:
		return math.Abs(w.Base.at(bank, period, phaseOffset))
	}
	return 0
}

// fracEuclid wraps x into [0, 1), mapping negative values onto the end of
// the interval.
func fracEuclid(x float64) float64 {
	f := x - math.Floor(x)
	if f >= 1 { // possible for tiny negative x through rounding
		return 0
	}
	return f
}
