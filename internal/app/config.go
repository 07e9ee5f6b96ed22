package app

import (
	"image"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/logger"
)

// SpotifyConfig holds the credentials of the Spotify playback source.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	// BaseURL overrides the Web API root, mostly for tests.
	BaseURL string
}

// Configured reports whether a refresh token flow is possible.
func (c SpotifyConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier
	AppID string

	// AppName is the display name
	AppName string

	// LogLevel controls logging verbosity
	LogLevel slog.Level

	// LogFormat is "text" or "json"
	LogFormat string

	// PollInterval is the playback polling period
	PollInterval time.Duration

	// FPS is the default render rate; a saved setting overrides it
	FPS int

	// Viewport is the size frames are composed at before scaling to the window
	Viewport image.Point

	// CrossfadeDuration is the default renderer switch fade
	CrossfadeDuration time.Duration

	// ColorCount and ExtractQuality tune artwork colour extraction
	ColorCount     int
	ExtractQuality int

	// ReadoutAddr is the readout server listen address; empty disables it
	ReadoutAddr string

	Spotify SpotifyConfig

	// UseMockPlayback forces the scripted demo source even with credentials
	UseMockPlayback bool

	// MockHold is how many polls the demo source stays on one track
	MockHold int

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration, with
// environment overrides applied.
func DefaultConfig() Config {
	loggerCfg := logger.DefaultConfig()
	return Config{
		AppID:             "com.ambience.app",
		AppName:           "Ambience",
		LogLevel:          loggerCfg.Level,
		LogFormat:         loggerCfg.Format,
		PollInterval:      envDuration("AMBIENCE_POLL_INTERVAL", 5*time.Second),
		FPS:               envInt("AMBIENCE_FPS", 30),
		Viewport:          image.Pt(960, 540),
		CrossfadeDuration: envDuration("AMBIENCE_CROSSFADE", 2*time.Second),
		ColorCount:        envInt("AMBIENCE_COLOR_COUNT", 8),
		ExtractQuality:    envInt("AMBIENCE_EXTRACT_QUALITY", 10),
		ReadoutAddr:       envString("AMBIENCE_READOUT_ADDR", "127.0.0.1:7777"),
		Spotify: SpotifyConfig{
			ClientID:     envString("SPOTIFY_CLIENT_ID", ""),
			ClientSecret: envString("SPOTIFY_CLIENT_SECRET", ""),
			RefreshToken: envString("SPOTIFY_REFRESH_TOKEN", ""),
			BaseURL:      envString("SPOTIFY_API_URL", ""),
		},
		UseMockPlayback: envBool("AMBIENCE_MOCK", false),
		MockHold:        envInt("AMBIENCE_MOCK_HOLD", 6),
	}
}

// Validate rejects values no component can work with.
func (c Config) Validate() error {
	switch {
	case c.PollInterval <= 0:
		return domain.NewValidationError("poll_interval", c.PollInterval, "must be positive")
	case c.FPS < 1 || c.FPS > 120:
		return domain.NewValidationError("fps", c.FPS, "must be between 1 and 120")
	case c.Viewport.X <= 0 || c.Viewport.Y <= 0:
		return domain.NewValidationError("viewport", c.Viewport, "must be positive")
	case c.CrossfadeDuration <= 0:
		return domain.NewValidationError("crossfade", c.CrossfadeDuration, "must be positive")
	case c.ColorCount < 1 || c.ColorCount > 16:
		return domain.NewValidationError("color_count", c.ColorCount, "must be between 1 and 16")
	case c.ExtractQuality < 1:
		return domain.NewValidationError("extract_quality", c.ExtractQuality, "must be at least 1")
	}
	return nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(envString(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(envString(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

// envDuration accepts Go durations ("750ms", "5s") or plain milliseconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	raw := envString(key, "")
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
