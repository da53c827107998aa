package phasor

import "math"

// Envelope shapes the amplitude of a triggered operator over its lifetime:
// a linear attack from 0 to 1 over AttackTime, then exponential decay with
// HalvingRate as the half-life in seconds (+Inf holds the level forever).
// ReleaseTime is the length of the linear fade started by Release; the fade
// begins from whatever amplitude the envelope had at the release anchor.
type Envelope struct {
	AttackTime  Time
	HalvingRate float64
	ReleaseTime Time
}

// amplitude returns the playing-state envelope level at the given elapsed
// time since the trigger anchor. Release handling lives in the operator,
// which freezes this value at the release anchor.
func (e *Envelope) amplitude(elapsed Time) float64 {
	if elapsed.Less(e.AttackTime) {
		return elapsed.Float() / e.AttackTime.Float()
	}
	decay := elapsed.Sub(e.AttackTime).Float()
	if decay <= 0 {
		return 1
	}
	return math.Pow(0.5, decay/e.HalvingRate)
}
