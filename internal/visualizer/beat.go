// Package visualizer renders the six procedural scenes, cross-fades between
// them and draws the navigation transition overlay. Frames are plain
// *image.RGBA surfaces; the Fyne adapter only displays them.
package visualizer

import "math"

// MinTempo floors tempo before it is used as a divisor.
const MinTempo = 1.0

// SafeTempo returns tempo floored to MinTempo. NaN and infinities map to MinTempo.
func SafeTempo(tempo float64) float64 {
	if math.IsNaN(tempo) || math.IsInf(tempo, 0) || tempo < MinTempo {
		return MinTempo
	}
	return tempo
}

// BeatPhase is a sawtooth in [0,1) that restarts on every beat:
// (t mod 60/tempo) / (60/tempo), with t in seconds.
func BeatPhase(t, tempo float64) float64 {
	beat := 60 / SafeTempo(tempo)
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	p := math.Mod(t, beat) / beat
	if p >= 1 {
		return 0
	}
	return p
}

// Pulse maps a beat phase onto sin(phase*2π)*depth+1.
func Pulse(phase, depth float64) float64 {
	return math.Sin(phase*2*math.Pi)*depth + 1
}

// Smoothstep eases t in [0,1] with zero slope at both ends.
func Smoothstep(t float64) float64 {
	t = clamp01(t)
	return t * t * (3 - 2*t)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// TempoScale is tempo relative to 120 BPM, the reference pace of every scene.
func TempoScale(tempo float64) float64 {
	return SafeTempo(tempo) / 120
}
