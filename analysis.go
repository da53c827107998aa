package phasor

import (
	"math"

	"github.com/viterin/vek"
)

// Level helpers for hosts that want to meter rendered buffers before
// picking volumes or normalizing output. Vectorized; cost is linear in the
// buffer length.

// Peak returns the largest absolute amplitude in the buffer.
func Peak(buffer []float64) float64 {
	if len(buffer) == 0 {
		return 0
	}
	tmp := make([]float64, len(buffer))
	vek.Abs_Into(tmp, buffer)
	return vek.Max(tmp)
}

// RMS returns the root-mean-square level of the buffer.
func RMS(buffer []float64) float64 {
	if len(buffer) == 0 {
		return 0
	}
	tmp := make([]float64, len(buffer))
	vek.Mul_Into(tmp, buffer, buffer)
	return math.Sqrt(vek.Mean(tmp))
}

// Decibels converts a linear amplitude to dBFS, with 1.0 as full scale.
func Decibels(amplitude float64) float64 {
	return 20 * math.Log10(amplitude)
}
