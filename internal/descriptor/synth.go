package descriptor

import (
	"math"
	"regexp"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

// Tendencies are the coarse genre leanings inferred from a track's name and
// artists. Buckets are independent; a title can match several.
type Tendencies struct {
	Electronic bool
	Acoustic   bool
	HipHop     bool
	Classical  bool
}

var (
	electronicPattern = regexp.MustCompile(`(?i)edm|electronic|techno|house|dubstep|synth`)
	acousticPattern   = regexp.MustCompile(`(?i)acoustic|unplugged|live|piano|guitar`)
	hipHopPattern     = regexp.MustCompile(`(?i)rap|hip hop|hip-hop|trap|drill`)
	classicalPattern  = regexp.MustCompile(`(?i)symphony|concerto|sonata|classical|orchestra`)
)

// Classify matches "name artists" against each keyword bucket.
func Classify(name, artists string) Tendencies {
	text := name + " " + artists
	return Tendencies{
		Electronic: electronicPattern.MatchString(text),
		Acoustic:   acousticPattern.MatchString(text),
		HipHop:     hipHopPattern.MatchString(text),
		Classical:  classicalPattern.MatchString(text),
	}
}

const (
	defaultPopularity = 50
	defaultDurationMs = 180000
	longTrackMs       = 5 * 60 * 1000
)

// Synthesize derives a full descriptor set from track metadata. Each feature
// draws from its own seed "<id>-<feature>" so features vary independently.
func Synthesize(meta domain.TrackMetadata) domain.Descriptors {
	id := meta.ID
	genre := Classify(meta.Name, meta.Artists)

	popularity := defaultPopularity
	if meta.Popularity != nil {
		popularity = *meta.Popularity
	}
	pop := clamp(float64(popularity)/100, 0, 1)

	duration := meta.DurationMs
	if duration <= 0 {
		duration = defaultDurationMs
	}

	lo, hi := tempoBand(genre)
	tempo := Range(id+"-tempo", lo, hi) + pop*20 - 10

	energy := pop*0.4 + 0.3
	if genre.Electronic {
		energy += 0.2
	}
	if genre.Acoustic {
		energy -= 0.2
	}
	if genre.Classical {
		energy -= 0.15
	}
	energy = clamp(energy+Range(id+"-energy", -0.15, 0.15), 0.1, 0.95)

	dance := pop*0.5 + 0.25
	if genre.Electronic || genre.HipHop {
		dance += 0.15
	}
	if genre.Classical {
		dance -= 0.3
	}
	dance = clamp(dance+Range(id+"-dance", -0.15, 0.15), 0.2, 0.95)

	valence := clamp(energy*0.4+Range(id+"-valence", 0, 0.6), 0.05, 0.95)

	acoustic := (1-pop)*0.4 + 0.1
	if genre.Acoustic {
		acoustic += 0.4
	}
	if genre.Electronic {
		acoustic -= 0.3
	}
	acoustic = clamp(acoustic+Range(id+"-acoustic", -0.2, 0.2), 0, 0.9)

	instrumental := 0.05
	if duration > longTrackMs {
		instrumental += 0.15
	}
	if genre.Classical {
		instrumental += 0.4
	}
	if genre.Electronic {
		instrumental += 0.1
	}
	instrumental = clamp(instrumental+Range(id+"-instrumental", -0.05, 0.15), 0, 0.6)

	speech := 0.06
	if genre.HipHop {
		speech += 0.25
	}
	speech = clamp(speech+Range(id+"-speech", -0.03, 0.1), 0.03, 0.4)

	loudness := -20 + energy*17
	energy = round2(energy)
	valence = round2(valence)

	key := int(math.Floor(Range(id+"-key", 0, 12)))
	if key > 11 {
		key = 11
	}

	mode := 0
	if valence > 0.5 {
		mode = 1
	}

	return domain.Descriptors{
		Tempo:            math.Round(tempo),
		Energy:           energy,
		Danceability:     round2(dance),
		Valence:          valence,
		Acousticness:     round2(acoustic),
		Instrumentalness: round2(instrumental),
		Speechiness:      round2(speech),
		Loudness:         round2(loudness),
		Key:              key,
		Mode:             mode,
		TimeSignature:    timeSignature(Rand(id + "-time")),
		DurationMs:       duration,
		Provenance:       domain.ProvenanceSynthetic,
	}
}

// Resolve prefers measured descriptors when they carry a usable tempo and
// synthesizes otherwise. The boolean reports whether synthesis was used.
func Resolve(measured *domain.Descriptors, meta domain.TrackMetadata) (domain.Descriptors, bool) {
	if measured != nil && measured.Tempo > 0 && !math.IsNaN(measured.Tempo) {
		d := *measured
		d.Provenance = domain.ProvenanceMeasured
		return d, false
	}
	return Synthesize(meta), true
}

// tempoBand picks one band when several buckets match: electronic, then
// classical, then hip-hop. Acoustic has no band of its own.
func tempoBand(g Tendencies) (lo, hi float64) {
	switch {
	case g.Electronic:
		return 120, 180
	case g.Classical:
		return 60, 120
	case g.HipHop:
		return 80, 100
	default:
		return 90, 140
	}
}

func timeSignature(r float64) int {
	switch {
	case r > 0.95:
		return 3
	case r > 0.90:
		return 5
	case r > 0.85:
		return 6
	default:
		return 4
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
