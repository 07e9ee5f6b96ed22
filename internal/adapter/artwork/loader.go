// Package artwork resolves artwork references into decoded images.
// Supported refs are http(s) URLs, file:// URLs, plain paths to image files
// and plain paths to tagged audio files with an embedded picture.
package artwork

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/ports"
)

// DefaultMaxBytes caps a single artwork download or file read.
const DefaultMaxBytes = 16 << 20

var audioExtensions = map[string]bool{
	".mp3": true, ".m4a": true, ".m4b": true, ".mp4": true,
	".flac": true, ".ogg": true, ".dsf": true,
}

// Loader implements ports.ArtworkLoader.
type Loader struct {
	logger   *slog.Logger
	client   *http.Client
	maxBytes int64
	schemes  map[string]ports.ArtworkLoader
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithMaxBytes caps reads at n bytes.
func WithMaxBytes(n int64) Option {
	return func(l *Loader) { l.maxBytes = n }
}

// WithScheme delegates refs of the given URL scheme to another loader.
func WithScheme(scheme string, loader ports.ArtworkLoader) Option {
	return func(l *Loader) { l.schemes[strings.ToLower(scheme)] = loader }
}

// NewLoader creates a loader with a 10s HTTP client.
func NewLoader(logger *slog.Logger, opts ...Option) *Loader {
	l := &Loader{
		logger:   logger.With(slog.String("adapter", "artwork")),
		client:   &http.Client{Timeout: 10 * time.Second},
		maxBytes: DefaultMaxBytes,
		schemes:  make(map[string]ports.ArtworkLoader),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and decodes the artwork behind ref.
func (l *Loader) Load(ctx context.Context, ref string) (image.Image, error) {
	if ref == "" {
		return nil, domain.NewArtworkError("load", ref, domain.ErrArtworkUnavailable)
	}
	scheme := ""
	if u, err := url.Parse(ref); err == nil && len(u.Scheme) > 1 {
		scheme = strings.ToLower(u.Scheme)
	}

	if delegate, ok := l.schemes[scheme]; ok {
		return delegate.Load(ctx, ref)
	}
	switch scheme {
	case "http", "https":
		return l.fetch(ctx, ref)
	case "file":
		u, _ := url.Parse(ref)
		return l.readFile(ctx, ref, u.Path)
	case "":
		return l.readFile(ctx, ref, ref)
	default:
		return nil, domain.NewArtworkError("load", ref, fmt.Errorf("scheme %q: %w", scheme, domain.ErrUnsupportedArtwork))
	}
}

func (l *Loader) fetch(ctx context.Context, ref string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, domain.NewArtworkError("fetch", ref, err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, domain.NewArtworkError("fetch", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewArtworkError("fetch", ref,
			fmt.Errorf("status %d: %w", resp.StatusCode, domain.ErrArtworkUnavailable))
	}
	data, err := l.readAll(resp.Body)
	if err != nil {
		return nil, domain.NewArtworkError("fetch", ref, err)
	}
	l.logger.Debug("artwork downloaded", slog.String("url", ref), slog.Int("bytes", len(data)))
	return decode(ref, data)
}

func (l *Loader) readFile(ctx context.Context, ref, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewArtworkError("read", ref, err)
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %v", domain.ErrArtworkUnavailable, err)
		}
		return nil, domain.NewArtworkError("read", ref, err)
	}
	defer f.Close()

	if audioExtensions[strings.ToLower(filepath.Ext(path))] {
		return embeddedPicture(ref, f)
	}
	data, err := l.readAll(f)
	if err != nil {
		return nil, domain.NewArtworkError("read", ref, err)
	}
	return decode(ref, data)
}

// embeddedPicture decodes the cover stored in an audio file's tags.
func embeddedPicture(ref string, r io.ReadSeeker) (image.Image, error) {
	metadata, err := tag.ReadFrom(r)
	if err != nil {
		return nil, domain.NewArtworkError("tags", ref, fmt.Errorf("%w: %v", domain.ErrUnsupportedArtwork, err))
	}
	picture := metadata.Picture()
	if picture == nil || len(picture.Data) == 0 {
		return nil, domain.NewArtworkError("tags", ref, domain.ErrArtworkUnavailable)
	}
	return decode(ref, picture.Data)
}

func (l *Loader) readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("artwork larger than %d bytes", l.maxBytes)
	}
	return data, nil
}

func decode(ref string, data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domain.NewArtworkError("decode", ref, fmt.Errorf("%w: %v", domain.ErrUnsupportedArtwork, err))
	}
	return img, nil
}

var _ ports.ArtworkLoader = (*Loader)(nil)
