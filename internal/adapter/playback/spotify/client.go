// Package spotify polls the Spotify Web API for the listener's current
// track and its audio features.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/ports"
)

// Endpoints of the public Spotify service.
const (
	DefaultBaseURL  = "https://api.spotify.com/v1"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

const sourceName = "spotify"

// Credentials authorize the client through the refresh-token grant.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string // DefaultTokenURL when empty
}

// Complete reports whether every field needed for a refresh is set.
func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// Client is an HTTP client for the Spotify adapter.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger

	mu       sync.Mutex
	features map[string]*domain.Descriptors // nil value caches a failed lookup
}

// compile-time interface assertion
var _ ports.PlaybackSource = (*Client)(nil)

// NewClient constructs a new Spotify client. httpClient must add the
// Authorization header, as the oauth2 client does.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     slog.Default(),
		features:   make(map[string]*domain.Descriptors),
	}
}

// NewClientFromCredentials builds a client whose transport refreshes access
// tokens on demand. ctx scopes the token refresh requests.
func NewClientFromCredentials(ctx context.Context, creds Credentials, baseURL string) *Client {
	tokenURL := creds.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	cfg := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		Scopes: []string{"user-read-currently-playing", "user-read-playback-state"},
	}
	httpClient := cfg.Client(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken})
	httpClient.Timeout = 10 * time.Second
	return NewClient(httpClient, baseURL)
}

// SetLogger replaces the default logger.
func (c *Client) SetLogger(logger *slog.Logger) {
	c.logger = logger.With(slog.String("adapter", sourceName))
}

// Name identifies the source in logs.
func (c *Client) Name() string { return sourceName }

// NowPlaying maps the current playback state onto a sample. A 204 response
// means nothing is playing. Descriptors are attached when the audio
// features lookup succeeds and left nil otherwise.
func (c *Client) NowPlaying(ctx context.Context) (domain.PlaybackSample, error) {
	var cp currentlyPlaying
	status, err := c.getJSON(ctx, "now_playing", "/me/player/currently-playing", &cp)
	if err != nil {
		return domain.PlaybackSample{}, err
	}
	if status == http.StatusNoContent {
		return domain.PlaybackSample{}, nil
	}

	sample := domain.PlaybackSample{
		IsPlaying: cp.IsPlaying,
		Progress:  time.Duration(cp.ProgressMs) * time.Millisecond,
	}
	if cp.Item == nil {
		// Ads and some podcast episodes come without an item.
		return sample, nil
	}
	sample.Track = cp.Item.toMetadata()
	sample.ArtworkRef = cp.Item.Album.largestImage()
	if sample.Track.ID != "" {
		sample.Descriptors = c.cachedFeatures(ctx, sample.Track.ID)
	}
	return sample, nil
}

// AudioFeatures fetches measured descriptors for a track.
func (c *Client) AudioFeatures(ctx context.Context, trackID string) (domain.Descriptors, error) {
	var af audioFeatures
	if _, err := c.getJSON(ctx, "audio_features", "/audio-features/"+url.PathEscape(trackID), &af); err != nil {
		return domain.Descriptors{}, err
	}
	return af.toDomain(), nil
}

func (c *Client) cachedFeatures(ctx context.Context, id string) *domain.Descriptors {
	c.mu.Lock()
	d, ok := c.features[id]
	c.mu.Unlock()
	if ok {
		return d
	}

	feat, err := c.AudioFeatures(ctx, id)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		c.logger.Debug("audio features unavailable, descriptors will be synthesized",
			slog.String("track_id", id), slog.Any("error", err))
	} else {
		d = &feat
	}
	c.mu.Lock()
	c.features[id] = d
	c.mu.Unlock()
	return d
}

// getJSON performs a GET and decodes a 200 body into out. A 204 returns
// the status with no error and out untouched.
func (c *Client) getJSON(ctx context.Context, op, path string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, domain.NewPlaybackSourceError(sourceName, op, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	// A failed request is not retried; the next poll asks again.
	resp, err := c.httpClient.Do(req)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			status := 0
			if rerr.Response != nil {
				status = rerr.Response.StatusCode
			}
			return 0, domain.NewPlaybackSourceError(sourceName, op, status,
				fmt.Errorf("token refresh: %w", domain.ErrUnauthorized))
		}
		return 0, domain.NewPlaybackSourceError(sourceName, op, 0, fmt.Errorf("spotify adapter: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return resp.StatusCode, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return resp.StatusCode, domain.NewPlaybackSourceError(sourceName, op, resp.StatusCode, domain.ErrUnauthorized)
	case resp.StatusCode != http.StatusOK:
		return resp.StatusCode, domain.NewPlaybackSourceError(sourceName, op, resp.StatusCode,
			fmt.Errorf("spotify adapter: status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, domain.NewPlaybackSourceError(sourceName, op, resp.StatusCode,
			fmt.Errorf("spotify adapter: %w", err))
	}
	return resp.StatusCode, nil
}
