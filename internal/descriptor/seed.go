// Package descriptor synthesizes acoustic descriptors for tracks that have no
// measured values. Everything here is a pure function of the track identity
// and metadata: no clock, no global randomness.
package descriptor

import (
	"hash/fnv"
	"math"
)

// Rand maps seed to a pseudo-random value in [0,1). Equal seeds give equal
// values on every run and platform.
func Rand(seed string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))

	x := math.Sin(float64(h.Sum32())) * 10000
	f := x - math.Floor(x)
	if f >= 1 { // guards float rounding of values just below an integer
		return 0
	}
	return f
}

// Range maps Rand(seed) onto [lo, hi).
func Range(seed string, lo, hi float64) float64 {
	return lo + Rand(seed)*(hi-lo)
}
