package descriptor

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestRand(t *testing.T) {
	a := Rand("track-1-tempo")
	assert.Equal(t, a, Rand("track-1-tempo"))
	assert.NotEqual(t, a, Rand("track-1-energy"))

	for i := 0; i < 10000; i++ {
		v := Rand(fmt.Sprintf("seed-%d", i))
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := Range(fmt.Sprintf("r-%d", i), -0.15, 0.15)
		require.GreaterOrEqual(t, v, -0.15)
		require.Less(t, v, 0.15)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name, artists string
		want          Tendencies
	}{
		{"Night Drive", "Neon Fox", Tendencies{}},
		{"Deep House Mix", "DJ Someone", Tendencies{Electronic: true}},
		{"Synthwave Sunset", "", Tendencies{Electronic: true}},
		{"Song (Unplugged)", "Band", Tendencies{Acoustic: true}},
		{"Lullaby", "Piano Guys", Tendencies{Acoustic: true}},
		{"Block Party", "Lil Trap", Tendencies{HipHop: true}},
		{"Cypher", "Hip Hop Crew", Tendencies{HipHop: true}},
		{"Symphony No. 5", "Berlin Philharmonic", Tendencies{Classical: true}},
		{"Piano Concerto", "Orchestra", Tendencies{Acoustic: true, Classical: true}},
		{"Live at Symphony Hall", "", Tendencies{Acoustic: true, Classical: true}},
		{"Synth Trap", "", Tendencies{Electronic: true, HipHop: true}},
		{"TECHNO BUNKER", "", Tendencies{Electronic: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.name, tt.artists))
		})
	}
}

func TestTempoBand(t *testing.T) {
	tests := []struct {
		name   string
		g      Tendencies
		lo, hi float64
	}{
		{"none", Tendencies{}, 90, 140},
		{"acoustic only", Tendencies{Acoustic: true}, 90, 140},
		{"acoustic classical", Tendencies{Acoustic: true, Classical: true}, 60, 120},
		{"electronic beats classical", Tendencies{Electronic: true, Classical: true}, 120, 180},
		{"classical beats hip-hop", Tendencies{Classical: true, HipHop: true}, 60, 120},
		{"hip-hop", Tendencies{HipHop: true}, 80, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := tempoBand(tt.g)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestSynthesize_OverlappingBucketsApplyIndependently(t *testing.T) {
	for i := 0; i < 200; i++ {
		meta := domain.TrackMetadata{
			ID:         fmt.Sprintf("concerto-%d", i),
			Name:       "Piano Concerto No. 2",
			Artists:    "London Symphony Orchestra",
			Popularity: intPtr(50),
		}
		d := Synthesize(meta)

		// classical band 60-120 shifted by (50/100)*20-10 = 0
		require.GreaterOrEqual(t, d.Tempo, 60.0, meta.ID)
		require.LessOrEqual(t, d.Tempo, 120.0, meta.ID)

		// classical +0.4 on top of base 0.05, jitter >= -0.05
		require.GreaterOrEqual(t, d.Instrumentalness, 0.4, meta.ID)

		// base 0.5, classical -0.3, jitter <= 0.15
		require.LessOrEqual(t, d.Danceability, 0.35, meta.ID)

		// base 0.5, acoustic -0.2 and classical -0.15, jitter <= 0.15
		require.LessOrEqual(t, d.Energy, 0.3, meta.ID)

		// base 0.3, acoustic +0.4, jitter >= -0.2
		require.GreaterOrEqual(t, d.Acousticness, 0.5, meta.ID)
	}
}

func TestSynthesize_LoudnessFromUnroundedEnergy(t *testing.T) {
	meta := domain.TrackMetadata{ID: "A", Name: "Night Drive", Artists: "Neon Fox", Popularity: intPtr(80)}
	d := Synthesize(meta)

	rawEnergy := clamp(0.8*0.4+0.3+Range("A-energy", -0.15, 0.15), 0.1, 0.95)
	assert.Equal(t, round2(-20+rawEnergy*17), d.Loudness)
}

func TestSynthesize_Deterministic(t *testing.T) {
	meta := domain.TrackMetadata{ID: "6rqhFgbbKwnb9MLmUQDhG6", Name: "Night Drive", Artists: "Neon Fox", Popularity: intPtr(80), DurationMs: 200000}

	first := Synthesize(meta)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Synthesize(meta))
	}

	other := meta
	other.ID = "another-track"
	assert.NotEqual(t, first, Synthesize(other))
}

func TestSynthesize_EndToEnd(t *testing.T) {
	meta := domain.TrackMetadata{ID: "A", Name: "Night Drive", Artists: "Neon Fox", Popularity: intPtr(80), DurationMs: 200000}
	d := Synthesize(meta)

	require.Equal(t, Tendencies{}, Classify(meta.Name, meta.Artists))

	// band 90-140 shifted by (80/100)*20-10 = +6
	pop := 80.0 / 100
	expectedTempo := math.Round(Range("A-tempo", 90, 140) + pop*20 - 10)
	assert.Equal(t, expectedTempo, d.Tempo)
	assert.GreaterOrEqual(t, d.Tempo, 96.0)
	assert.LessOrEqual(t, d.Tempo, 146.0)

	// energy base 0.62 plus jitter in [-0.15, 0.15]
	rawEnergy := pop*0.4 + 0.3 + Range("A-energy", -0.15, 0.15)
	assert.InDelta(t, 0.62, pop*0.4+0.3, 1e-12)
	assert.InDelta(t, rawEnergy, d.Energy, 0.005+1e-9)
	assert.GreaterOrEqual(t, d.Energy, 0.47)
	assert.LessOrEqual(t, d.Energy, 0.77)

	expectedValence := math.Round(clamp(rawEnergy*0.4+Range("A-valence", 0, 0.6), 0.05, 0.95)*100) / 100
	assert.Equal(t, expectedValence, d.Valence)

	assert.Equal(t, int64(200000), d.DurationMs)
	assert.Equal(t, domain.ProvenanceSynthetic, d.Provenance)

	// rounding precision is stable across re-runs
	again := Synthesize(meta)
	assert.Equal(t, d.Tempo, again.Tempo)
	assert.Equal(t, d.Energy, again.Energy)
	assert.Equal(t, d.Valence, again.Valence)
}

func TestSynthesize_Defaults(t *testing.T) {
	withDefaults := Synthesize(domain.TrackMetadata{ID: "x"})
	explicit := Synthesize(domain.TrackMetadata{ID: "x", Popularity: intPtr(50), DurationMs: 180000})
	assert.Equal(t, explicit, withDefaults)
}

func TestSynthesize_LongClassicalIsInstrumental(t *testing.T) {
	d := Synthesize(domain.TrackMetadata{ID: "bwv", Name: "Cello Sonata", Artists: "Anon", Popularity: intPtr(20), DurationMs: 9 * 60 * 1000})
	// base 0.05 + 0.15 + 0.4 and jitter >= -0.05
	assert.GreaterOrEqual(t, d.Instrumentalness, 0.55)
	assert.GreaterOrEqual(t, d.Tempo, 60.0-6)
	assert.LessOrEqual(t, d.Tempo, 120.0-6)
}

func TestSynthesize_RangeInvariants(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))
	words := []string{"house", "piano", "trap", "symphony", "night", "drive", "love", "", "EDM", "live"}

	for i := 0; i < 10000; i++ {
		meta := domain.TrackMetadata{
			ID:      fmt.Sprintf("id-%d-%d", i, r.Int64()),
			Name:    words[r.IntN(len(words))] + " " + words[r.IntN(len(words))],
			Artists: words[r.IntN(len(words))],
		}
		if r.IntN(4) != 0 {
			meta.Popularity = intPtr(r.IntN(101))
		}
		if r.IntN(4) != 0 {
			meta.DurationMs = r.Int64N(15 * 60 * 1000)
		}

		d := Synthesize(meta)
		require.GreaterOrEqual(t, d.Tempo, 50.0, meta.ID)
		require.LessOrEqual(t, d.Tempo, 190.0, meta.ID)
		require.Equal(t, math.Round(d.Tempo), d.Tempo)
		require.True(t, within(d.Energy, 0.1, 0.95), "energy %v", d.Energy)
		require.True(t, within(d.Danceability, 0.2, 0.95), "danceability %v", d.Danceability)
		require.True(t, within(d.Valence, 0.05, 0.95), "valence %v", d.Valence)
		require.True(t, within(d.Acousticness, 0, 0.9), "acousticness %v", d.Acousticness)
		require.True(t, within(d.Instrumentalness, 0, 0.6), "instrumentalness %v", d.Instrumentalness)
		require.True(t, within(d.Speechiness, 0.03, 0.4), "speechiness %v", d.Speechiness)
		require.True(t, within(d.Loudness, -20, -3), "loudness %v", d.Loudness)
		require.True(t, d.Key >= 0 && d.Key <= 11, "key %d", d.Key)
		require.Contains(t, []int{0, 1}, d.Mode)
		require.Contains(t, []int{3, 4, 5, 6}, d.TimeSignature)
		require.Equal(t, d.Mode == 1, d.Valence > 0.5)
	}
}

func TestResolve(t *testing.T) {
	meta := domain.TrackMetadata{ID: "abc", Name: "Song"}

	measured := &domain.Descriptors{Tempo: 128.4, Energy: 0.9, Danceability: 0.8, Valence: 0.1, Provenance: domain.ProvenanceSynthetic}
	got, synthetic := Resolve(measured, meta)
	assert.False(t, synthetic)
	assert.Equal(t, 128.4, got.Tempo)
	assert.Equal(t, domain.ProvenanceMeasured, got.Provenance)

	for _, m := range []*domain.Descriptors{nil, {Tempo: 0, Energy: 0.9}, {Tempo: math.NaN()}} {
		got, synthetic = Resolve(m, meta)
		assert.True(t, synthetic)
		assert.Equal(t, Synthesize(meta), got)
	}
}

func within(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
