// Package phasor is a phase-modulation audio synthesis engine. Hosts build a
// tree of operators and combinators, trigger it as a voice with Play /
// Release / Cut, and sample it at absolute times, one value at a time or in
// batch through Fill. The tree is a pure function of the sampled time, the
// trigger history and the external phase offset, so the same tree can drive
// a real-time callback and an offline render at any resolution.
package phasor

import "errors"

// ErrInvalidInput is the failure mode of every constructor and of the batch
// fill driver: structurally malformed settings, too few combinator children,
// or an unrecognized sample format. The sampling path itself never fails;
// degenerate inputs degrade to silence instead.
var ErrInvalidInput = errors.New("invalid input")

// Synth is a sampleable synthesiser node: a leaf Operator, an interior
// Combinator, or a Program. Sampling is driven entirely by the absolute time
// passed in; the only state a node carries is its trigger history.
//
// A Synth handle must not be mutated from multiple goroutines at once. The
// bank passed to Sample may be shared between synths and goroutines as long
// as nobody is concurrently adding to it; it may also be nil, which silences
// PCM waveforms.
type Synth interface {
	// Sample evaluates the node at an absolute time. The phase offset is
	// added to the phase argument of every leaf waveform reached through
	// this node (subject to combinator semantics) and is measured in
	// periods.
	Sample(bank *SampleBank, t Time, phaseOffset float64) float64
	// Play (re)triggers the node. Phase and envelope are anchored at the
	// time of the first Sample call that follows. Frequency must be
	// positive; that is the caller's obligation, not checked here.
	Play(frequency, volume float64)
	// Release moves a playing node into the release ramp of its envelope,
	// anchored at the next Sample call. A no-op on idle nodes.
	Release()
	// Cut silences the node immediately, discarding any release ramp.
	Cut()
	// Clone returns a deep copy with its own independent trigger state.
	Clone() Synth
}
