package spotify

import (
	"strings"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

// currentlyPlaying is the /me/player/currently-playing response.
type currentlyPlaying struct {
	IsPlaying  bool          `json:"is_playing"`
	ProgressMs int64         `json:"progress_ms"`
	Type       string        `json:"currently_playing_type"`
	Item       *spotifyTrack `json:"item"`
}

type spotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	DurationMs int64           `json:"duration_ms"`
	Popularity *int            `json:"popularity"`
	Artists    []spotifyArtist `json:"artists"`
	Album      spotifyAlbum    `json:"album"`
}

type spotifyArtist struct {
	Name string `json:"name"`
}

type spotifyAlbum struct {
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
}

type spotifyImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// audioFeatures is the /audio-features/{id} response.
type audioFeatures struct {
	ID               string  `json:"id"`
	Tempo            float64 `json:"tempo"`
	Energy           float64 `json:"energy"`
	Danceability     float64 `json:"danceability"`
	Valence          float64 `json:"valence"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Speechiness      float64 `json:"speechiness"`
	Loudness         float64 `json:"loudness"`
	Key              int     `json:"key"`
	Mode             int     `json:"mode"`
	TimeSignature    int     `json:"time_signature"`
	DurationMs       int64   `json:"duration_ms"`
}

// largestImage picks the widest album image; Spotify lists them largest
// first but does not promise it.
func (a spotifyAlbum) largestImage() string {
	best, width := "", -1
	for _, img := range a.Images {
		if img.Width > width {
			best, width = img.URL, img.Width
		}
	}
	return best
}

func (t spotifyTrack) toMetadata() domain.TrackMetadata {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return domain.TrackMetadata{
		ID:         t.ID,
		Name:       t.Name,
		Artists:    strings.Join(names, ", "),
		Popularity: t.Popularity,
		DurationMs: t.DurationMs,
	}
}

func (f audioFeatures) toDomain() domain.Descriptors {
	return domain.Descriptors{
		Tempo:            f.Tempo,
		Energy:           f.Energy,
		Danceability:     f.Danceability,
		Valence:          f.Valence,
		Acousticness:     f.Acousticness,
		Instrumentalness: f.Instrumentalness,
		Speechiness:      f.Speechiness,
		Loudness:         f.Loudness,
		Key:              f.Key,
		Mode:             f.Mode,
		TimeSignature:    f.TimeSignature,
		DurationMs:       f.DurationMs,
		Provenance:       domain.ProvenanceMeasured,
	}
}
