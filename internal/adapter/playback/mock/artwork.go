package mock

import (
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/ports"
)

// Scheme prefixes artwork refs served by Artwork.
const Scheme = "mock"

const artworkSize = 96

// Artwork renders a deterministic four-hue gradient per ref name.
type Artwork struct{}

// Load renders the artwork for a "mock://name" ref.
func (Artwork) Load(ctx context.Context, ref string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewArtworkError("load", ref, err)
	}
	name, ok := strings.CutPrefix(ref, Scheme+"://")
	if !ok || name == "" {
		return nil, domain.NewArtworkError("load", ref, fmt.Errorf("not a %s ref: %w", Scheme, domain.ErrUnsupportedArtwork))
	}
	return Render(name), nil
}

// Render paints the gradient for name.
func Render(name string) *image.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	base := float64(h.Sum32() % 360)

	corners := [4]colorful.Color{
		colorful.Hsv(base, 0.85, 0.25),
		colorful.Hsv(mod360(base+40), 0.8, 0.7),
		colorful.Hsv(mod360(base+160), 0.7, 0.9),
		colorful.Hsv(mod360(base+220), 0.6, 0.5),
	}
	img := image.NewRGBA(image.Rect(0, 0, artworkSize, artworkSize))
	for y := 0; y < artworkSize; y++ {
		v := float64(y) / (artworkSize - 1)
		left := corners[0].BlendLab(corners[3], v)
		right := corners[1].BlendLab(corners[2], v)
		for x := 0; x < artworkSize; x++ {
			c := left.BlendLab(right, float64(x)/(artworkSize-1)).Clamped()
			r, g, b := c.RGB255()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 0xff})
		}
	}
	return img
}

func mod360(v float64) float64 {
	for v >= 360 {
		v -= 360
	}
	return v
}

var _ ports.ArtworkLoader = Artwork{}
