package phasor

import (
	"fmt"
	"math"
	"math/bits"
)

const nanosPerSec = 1_000_000_000

// Time is a fixed-point instant or span: whole seconds plus a sub-second
// nanosecond count. The same representation serves absolute timestamps,
// envelope spans and the period domain used by PCM playback, where one
// "second" is one waveform period. Keeping time in integer nanoseconds is
// what makes long renders driftless; float64 seconds only appear at the
// very edge of phase and envelope math.
type Time struct {
	Seconds uint64
	Nanos   uint32 // always < 1e9
}

var maxTime = Time{Seconds: math.MaxUint64, Nanos: nanosPerSec - 1}

// TimeFromSeconds converts float64 seconds into a Time, clamping negative
// and NaN inputs to zero and saturating values beyond the representable
// range.
func TimeFromSeconds(s float64) Time {
	if s <= 0 || math.IsNaN(s) {
		return Time{}
	}
	if s >= math.MaxUint64 {
		return maxTime
	}
	sec := math.Floor(s)
	nanos := uint32((s - sec) * nanosPerSec)
	if nanos >= nanosPerSec { // float rounding at the top of the fraction
		nanos = nanosPerSec - 1
	}
	return Time{Seconds: uint64(sec), Nanos: nanos}
}

// PeriodOf returns the length of one period of the given frequency, e.g.
// the natural fill interval when rendering at a fixed sample rate. A
// non-positive frequency yields zero.
func PeriodOf(frequency float64) Time {
	if frequency <= 0 {
		return Time{}
	}
	return TimeFromSeconds(1 / frequency)
}

// Float returns the time as float64 seconds.
func (t Time) Float() float64 {
	return float64(t.Seconds) + float64(t.Nanos)/nanosPerSec
}

func (t Time) IsZero() bool {
	return t.Seconds == 0 && t.Nanos == 0
}

func (t Time) Less(u Time) bool {
	if t.Seconds != u.Seconds {
		return t.Seconds < u.Seconds
	}
	return t.Nanos < u.Nanos
}

// Add returns t + u, carrying nanoseconds at the 1e9 boundary and
// saturating instead of wrapping if the seconds overflow.
func (t Time) Add(u Time) Time {
	nanos := t.Nanos + u.Nanos // both < 1e9, cannot overflow uint32
	sec, carry := bits.Add64(t.Seconds, u.Seconds, uint64(nanos/nanosPerSec))
	if carry != 0 {
		return maxTime
	}
	return Time{Seconds: sec, Nanos: nanos % nanosPerSec}
}

// Sub returns t - u, saturating at zero.
func (t Time) Sub(u Time) Time {
	if t.Less(u) {
		return Time{}
	}
	sec := t.Seconds - u.Seconds
	nanos := t.Nanos
	if nanos < u.Nanos {
		sec--
		nanos += nanosPerSec
	}
	return Time{Seconds: sec, Nanos: nanos - u.Nanos}
}

// Mul scales t by a float64 factor, clamping negative factors to zero and
// saturating on overflow. Used to move between the time and period domains
// (elapsed seconds x frequency = elapsed periods).
func (t Time) Mul(f float64) Time {
	return TimeFromSeconds(t.Float() * f)
}

// Mod returns t modulo m in total nanoseconds. A zero m yields zero, which
// pins degenerate loop windows to their loop point rather than failing.
func (t Time) Mod(m Time) Time {
	if m.IsZero() {
		return Time{}
	}
	if t.Less(m) {
		return t
	}
	hi, lo := t.totalNanos()
	mhi, mlo := m.totalNanos()
	if mhi == 0 {
		r := hi % mlo
		_, r = bits.Div64(r, lo, mlo)
		return Time{Seconds: r / nanosPerSec, Nanos: uint32(r % nanosPerSec)}
	}
	// The divisor is wider than 64 bits of nanoseconds (a window of
	// centuries); shift-and-subtract on the 128-bit remainder.
	shift := bits.LeadingZeros64(mhi) - bits.LeadingZeros64(hi)
	dhi, dlo := shl128(mhi, mlo, uint(shift))
	rhi, rlo := hi, lo
	for ; shift >= 0; shift-- {
		if cmp128(rhi, rlo, dhi, dlo) >= 0 {
			rhi, rlo = sub128(rhi, rlo, dhi, dlo)
		}
		dhi, dlo = shr128(dhi, dlo, 1)
	}
	return timeFromNanos128(rhi, rlo)
}

func (t Time) String() string {
	return fmt.Sprintf("%d.%09ds", t.Seconds, t.Nanos)
}

// totalNanos returns the time as a 128-bit nanosecond count. The high word
// is always below 1e9, so dividing back by 1e9 stays within bits.Div64's
// contract.
func (t Time) totalNanos() (hi, lo uint64) {
	hi, lo = bits.Mul64(t.Seconds, nanosPerSec)
	var carry uint64
	lo, carry = bits.Add64(lo, uint64(t.Nanos), 0)
	hi += carry
	return hi, lo
}

func timeFromNanos128(hi, lo uint64) Time {
	sec, rem := bits.Div64(hi, lo, nanosPerSec)
	return Time{Seconds: sec, Nanos: uint32(rem)}
}

func cmp128(ahi, alo, bhi, blo uint64) int {
	switch {
	case ahi != bhi:
		if ahi < bhi {
			return -1
		}
		return 1
	case alo != blo:
		if alo < blo {
			return -1
		}
		return 1
	}
	return 0
}

func sub128(ahi, alo, bhi, blo uint64) (hi, lo uint64) {
	var borrow uint64
	lo, borrow = bits.Sub64(alo, blo, 0)
	hi, _ = bits.Sub64(ahi, bhi, borrow)
	return hi, lo
}

func shl128(hi, lo uint64, n uint) (uint64, uint64) {
	if n == 0 {
		return hi, lo
	}
	return hi<<n | lo>>(64-n), lo << n
}

func shr128(hi, lo uint64, n uint) (uint64, uint64) {
	if n == 0 {
		return hi, lo
	}
	return hi >> n, lo>>n | hi<<(64-n)
}
