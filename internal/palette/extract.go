package palette

import (
	"image"
	"image/color"
	"math"
	"sort"

	xdraw "golang.org/x/image/draw"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

// ExtractOptions tunes dominant colour extraction.
type ExtractOptions struct {
	// ColorCount is the number of colours requested (1-16, default 8).
	ColorCount int

	// Quality is the sampling stride in pixels; 1 samples every pixel (default 10).
	Quality int

	// MaxDimension bounds the longest side after downscaling (default 128).
	MaxDimension int
}

// DefaultExtractOptions mirrors the engine defaults.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{ColorCount: 8, Quality: 10, MaxDimension: 128}
}

func (o ExtractOptions) normalized() ExtractOptions {
	def := DefaultExtractOptions()
	if o.ColorCount <= 0 {
		o.ColorCount = def.ColorCount
	}
	if o.ColorCount > 16 {
		o.ColorCount = 16
	}
	if o.Quality <= 0 {
		o.Quality = def.Quality
	}
	if o.MaxDimension <= 0 {
		o.MaxDimension = def.MaxDimension
	}
	return o
}

const (
	quantBits      = 5
	quantShift     = 8 - quantBits
	alphaThreshold = 125
	nearWhite      = 250
)

// bin is one cell of the 5-bit-per-channel histogram. Sums keep the exact
// mean colour of the pixels that fell into it.
type bin struct {
	rq, gq, bq       uint8
	count            int
	rSum, gSum, bSum int
}

type box struct {
	bins       []bin
	population int
	volume     int
	min, max   [3]uint8
}

// Extract returns up to opts.ColorCount dominant colours of img, most
// prevalent first. Transparent and near-white pixels are ignored.
// It returns domain.ErrNoColors when nothing is left to sample.
func Extract(img image.Image, opts ExtractOptions) ([]color.RGBA, error) {
	if img == nil {
		return nil, domain.ErrNoColors
	}
	opts = opts.normalized()

	sample := downscale(img, opts.MaxDimension)
	bins := histogram(sample, opts.Quality)
	if len(bins) == 0 {
		return nil, domain.ErrNoColors
	}

	boxes := medianCut(bins, opts.ColorCount)
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].population > boxes[j].population
	})

	out := make([]color.RGBA, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, b.average())
	}
	return out, nil
}

// downscale returns an NRGBA copy of img whose longest side is at most maxDim.
func downscale(img image.Image, maxDim int) *image.NRGBA {
	src := img.Bounds()
	w, h := src.Dx(), src.Dy()
	if w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}

	scale := 1.0
	if longest := max(w, h); longest > maxDim {
		scale = float64(maxDim) / float64(longest)
	}
	tw := max(int(math.Round(float64(w)*scale)), 1)
	th := max(int(math.Round(float64(h)*scale)), 1)

	dst := image.NewNRGBA(image.Rect(0, 0, tw, th))
	if scale == 1 {
		xdraw.Draw(dst, dst.Bounds(), img, src.Min, xdraw.Src)
		return dst
	}
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, src, xdraw.Src, nil)
	return dst
}

func histogram(img *image.NRGBA, stride int) []bin {
	cells := make(map[int]*bin)
	b := img.Bounds()

	for y := b.Min.Y; y < b.Max.Y; y += stride {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := 0; x < b.Dx(); x += stride {
			px := row[x*4 : x*4+4]
			r, g, bl, a := px[0], px[1], px[2], px[3]
			if a < alphaThreshold {
				continue
			}
			if r > nearWhite && g > nearWhite && bl > nearWhite {
				continue
			}

			rq, gq, bq := r>>quantShift, g>>quantShift, bl>>quantShift
			key := int(rq)<<(2*quantBits) | int(gq)<<quantBits | int(bq)
			c, ok := cells[key]
			if !ok {
				c = &bin{rq: rq, gq: gq, bq: bq}
				cells[key] = c
			}
			c.count++
			c.rSum += int(r)
			c.gSum += int(g)
			c.bSum += int(bl)
		}
	}

	out := make([]bin, 0, len(cells))
	for _, c := range cells {
		out = append(out, *c)
	}
	// map iteration order is random; keep the result deterministic
	sort.Slice(out, func(i, j int) bool {
		return out[i].key() < out[j].key()
	})
	return out
}

func (b bin) key() int {
	return int(b.rq)<<(2*quantBits) | int(b.gq)<<quantBits | int(b.bq)
}

func (b bin) axis(i int) uint8 {
	switch i {
	case 0:
		return b.rq
	case 1:
		return b.gq
	default:
		return b.bq
	}
}

func newBox(bins []bin) box {
	bx := box{bins: bins, min: [3]uint8{255, 255, 255}}
	for _, b := range bins {
		bx.population += b.count
		for i := 0; i < 3; i++ {
			v := b.axis(i)
			if v < bx.min[i] {
				bx.min[i] = v
			}
			if v > bx.max[i] {
				bx.max[i] = v
			}
		}
	}
	bx.volume = 1
	for i := 0; i < 3; i++ {
		bx.volume *= int(bx.max[i]-bx.min[i]) + 1
	}
	return bx
}

func (bx box) splittable() bool {
	return len(bx.bins) > 1
}

func (bx box) longestAxis() int {
	best, span := 0, -1
	for i := 0; i < 3; i++ {
		if s := int(bx.max[i]) - int(bx.min[i]); s > span {
			best, span = i, s
		}
	}
	return best
}

// split cuts the box at the population median along its longest axis.
func (bx box) split() (box, box, bool) {
	if !bx.splittable() {
		return box{}, box{}, false
	}
	axis := bx.longestAxis()
	ordered := append([]bin(nil), bx.bins...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].axis(axis) < ordered[j].axis(axis)
	})

	half := bx.population / 2
	acc, at := 0, 0
	for i, b := range ordered {
		acc += b.count
		if acc >= half {
			at = i + 1
			break
		}
	}
	if at <= 0 || at >= len(ordered) {
		at = len(ordered) / 2
	}
	return newBox(ordered[:at]), newBox(ordered[at:]), true
}

func (bx box) score() float64 {
	return float64(bx.population) * math.Log(float64(bx.volume)+1)
}

func medianCut(bins []bin, target int) []box {
	boxes := []box{newBox(bins)}
	for len(boxes) < target {
		best := -1
		for i, bx := range boxes {
			if bx.splittable() && (best < 0 || bx.score() > boxes[best].score()) {
				best = i
			}
		}
		if best < 0 {
			break
		}
		left, right, ok := boxes[best].split()
		if !ok {
			break
		}
		boxes[best] = left
		boxes = append(boxes, right)
	}
	return boxes
}

func (bx box) average() color.RGBA {
	var r, g, b, n int
	for _, c := range bx.bins {
		r += c.rSum
		g += c.gSum
		b += c.bSum
		n += c.count
	}
	if n == 0 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{
		R: uint8((r + n/2) / n),
		G: uint8((g + n/2) / n),
		B: uint8((b + n/2) / n),
		A: 0xff,
	}
}
