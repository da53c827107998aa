package phasor

// Modifiers are static per-operator scalings applied on every sample:
// frequency and volume multipliers plus a constant addition to the phase
// argument, measured in periods.
type Modifiers struct {
	FrequencyMultiplier float64
	VolumeMultiplier    float64
	ConstantPhaseOffset float64
}

// DefaultModifiers leave the operator's frequency, volume and phase
// untouched.
func DefaultModifiers() Modifiers {
	return Modifiers{FrequencyMultiplier: 1, VolumeMultiplier: 1}
}

type triggerState int

const (
	stateIdle triggerState = iota
	statePlaying
	stateReleasing
)

// Operator is the leaf synthesiser: one waveform shaped by one envelope,
// scaled by static modifiers. All of its mutable state is the trigger
// history; the waveform, envelope and modifiers are fixed at construction.
type Operator struct {
	Waveform  Waveform
	Envelope  Envelope
	Modifiers Modifiers

	state     triggerState
	frequency float64
	volume    float64

	// Anchors are captured lazily: Play and Release only mark the state,
	// and the first Sample call afterwards records its time as the anchor.
	// Phase and envelope are then measured against these absolute
	// timestamps rather than accumulated per sample, so long renders do
	// not drift and out-of-order sampling stays well defined.
	anchored         bool
	anchor           Time
	releaseAnchored  bool
	releaseAnchor    Time
	releaseAmplitude float64
}

// NewOperator validates the waveform settings and returns an idle operator.
func NewOperator(waveform Waveform, envelope Envelope, modifiers Modifiers) (*Operator, error) {
	if err := waveform.validate(); err != nil {
		return nil, err
	}
	return &Operator{Waveform: waveform, Envelope: envelope, Modifiers: modifiers}, nil
}

// Play (re)triggers the operator at the given frequency (Hz) and volume.
// Retriggering an already-playing operator resets both the phase and the
// envelope anchor; there is no legato carry-over.
func (o *Operator) Play(frequency, volume float64) {
	o.state = statePlaying
	o.frequency = frequency
	o.volume = volume
	o.anchored = false
	o.releaseAnchored = false
}

// Release starts the envelope's release ramp if the operator is playing;
// idle and already-releasing operators are left alone.
func (o *Operator) Release() {
	if o.state == statePlaying {
		o.state = stateReleasing
		o.releaseAnchored = false
	}
}

// Cut silences the operator immediately, regardless of any in-flight
// envelope.
func (o *Operator) Cut() {
	o.state = stateIdle
	o.anchored = false
	o.releaseAnchored = false
}

// Sample evaluates the operator at an absolute time. Apart from anchor
// capture this is a pure function of (t, trigger history, phaseOffset):
// sampling the same time twice yields the same value, and times before the
// anchor clamp to elapsed zero.
func (o *Operator) Sample(bank *SampleBank, t Time, phaseOffset float64) float64 {
	if o.state == stateIdle {
		return 0
	}
	if !o.anchored {
		o.anchor, o.anchored = t, true
	}
	elapsed := t.Sub(o.anchor)

	var amplitude float64
	if o.state == stateReleasing {
		if !o.releaseAnchored {
			o.releaseAnchor, o.releaseAnchored = t, true
			o.releaseAmplitude = o.Envelope.amplitude(elapsed)
		}
		release := o.Envelope.ReleaseTime.Float()
		if release <= 0 {
			return 0
		}
		progress := t.Sub(o.releaseAnchor).Float() / release
		if progress >= 1 {
			// Ramp finished: idle forever, observable only through output.
			return 0
		}
		amplitude = o.releaseAmplitude * (1 - progress)
	} else {
		amplitude = o.Envelope.amplitude(elapsed)
	}

	period := elapsed.Mul(o.frequency * o.Modifiers.FrequencyMultiplier)
	value := o.Waveform.at(bank, period, phaseOffset+o.Modifiers.ConstantPhaseOffset)
	return value * amplitude * o.volume * o.Modifiers.VolumeMultiplier
}

// Clone returns a copy with its own independent trigger state. The waveform
// tree is immutable and may be shared.
func (o *Operator) Clone() Synth {
	c := *o
	return &c
}
