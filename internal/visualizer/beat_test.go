package visualizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBeatPhase(t *testing.T) {
	assert.Equal(t, 0.0, BeatPhase(0, 120))
	assert.InDelta(t, 0.5, BeatPhase(0.25, 120), 1e-9)
	assert.InDelta(t, 0.0, BeatPhase(0.5, 120), 1e-9)
	assert.InDelta(t, 0.75, BeatPhase(10.75, 60), 1e-9)
}

func TestBeatPhase_DegenerateTempo(t *testing.T) {
	for _, tempo := range []float64{0, -40, math.NaN(), math.Inf(1)} {
		p := BeatPhase(30, tempo)
		assert.False(t, math.IsNaN(p), "tempo %v", tempo)
		assert.InDelta(t, 0.5, p, 1e-9, "tempo %v floors to one beat per minute", tempo)
	}
}

func TestBeatPhase_AlwaysInUnitRange(t *testing.T) {
	for tempo := 1.0; tempo < 300; tempo += 7.3 {
		for ts := 0.0; ts < 20; ts += 0.37 {
			p := BeatPhase(ts, tempo)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.Less(t, p, 1.0)
		}
	}
}

func TestSmoothstep(t *testing.T) {
	assert.Equal(t, 0.0, Smoothstep(-1))
	assert.Equal(t, 0.0, Smoothstep(0))
	assert.Equal(t, 0.5, Smoothstep(0.5))
	assert.Equal(t, 1.0, Smoothstep(1))
	assert.Equal(t, 1.0, Smoothstep(3))
	assert.Less(t, Smoothstep(0.1), 0.1, "eases in")
}

func TestSafeTempo(t *testing.T) {
	assert.Equal(t, 128.0, SafeTempo(128))
	assert.Equal(t, MinTempo, SafeTempo(0.2))
	assert.Equal(t, MinTempo, SafeTempo(math.NaN()))
}
