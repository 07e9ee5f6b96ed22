package visualizer

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Surface is an RGBA canvas with alpha-blended drawing primitives.
// It is not safe for concurrent use; each Runner owns one.
type Surface struct {
	img  *image.RGBA
	face font.Face
}

// NewSurface allocates a transparent w×h surface.
func NewSurface(w, h int) *Surface {
	return &Surface{
		img:  image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1))),
		face: basicfont.Face7x13,
	}
}

// OverscanSize returns viewport scaled by the per-axis overscan factors.
func OverscanSize(viewport image.Point, sx, sy float64) image.Point {
	return image.Pt(
		int(math.Ceil(float64(viewport.X)*sx)),
		int(math.Ceil(float64(viewport.Y)*sy)),
	)
}

// Image exposes the backing image.
func (s *Surface) Image() *image.RGBA { return s.img }

// Width of the surface in pixels.
func (s *Surface) Width() int { return s.img.Rect.Dx() }

// Height of the surface in pixels.
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Clear makes every pixel transparent.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// Fill paints the whole surface with c.
func (s *Surface) Fill(c color.RGBA) {
	p := s.img.Pix
	for i := 0; i < len(p); i += 4 {
		p[i], p[i+1], p[i+2], p[i+3] = c.R, c.G, c.B, c.A
	}
}

// Fade scales every pixel toward transparent by amount in [0,1]. Repeated
// fades reach exact zero, so trails vanish completely.
func (s *Surface) Fade(amount float64) {
	k := uint32(math.Round((1 - clamp01(amount)) * 256))
	if k >= 256 {
		return
	}
	p := s.img.Pix
	for i := range p {
		p[i] = uint8(uint32(p[i]) * k >> 8)
	}
}

// Blend composites c with opacity alpha over the pixel at (x, y).
func (s *Surface) Blend(x, y int, c color.RGBA, alpha float64) {
	if !(image.Point{x, y}.In(s.img.Rect)) {
		return
	}
	a := clamp01(alpha) * float64(c.A) / 255
	if a <= 0 {
		return
	}
	i := s.img.PixOffset(x, y)
	p := s.img.Pix[i : i+4 : i+4]
	inv := 1 - a
	p[0] = uint8(float64(c.R)*a + float64(p[0])*inv + 0.5)
	p[1] = uint8(float64(c.G)*a + float64(p[1])*inv + 0.5)
	p[2] = uint8(float64(c.B)*a + float64(p[2])*inv + 0.5)
	p[3] = uint8(255*a + float64(p[3])*inv + 0.5)
}

// FillRect blends c over r.
func (s *Surface) FillRect(r image.Rectangle, c color.RGBA, alpha float64) {
	r = r.Intersect(s.img.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s.Blend(x, y, c, alpha)
		}
	}
}

// StrokeRect outlines r with the given line width.
func (s *Surface) StrokeRect(r image.Rectangle, width int, c color.RGBA, alpha float64) {
	width = max(width, 1)
	s.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), c, alpha)
	s.FillRect(image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), c, alpha)
	s.FillRect(image.Rect(r.Min.X, r.Min.Y+width, r.Min.X+width, r.Max.Y-width), c, alpha)
	s.FillRect(image.Rect(r.Max.X-width, r.Min.Y+width, r.Max.X, r.Max.Y-width), c, alpha)
}

// Line draws a segment with a square brush of the given width.
func (s *Surface) Line(x0, y0, x1, y1, width float64, c color.RGBA, alpha float64) {
	dx, dy := x1-x0, y1-y0
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps > 8192 {
		steps = 8192
	}
	half := int(math.Max(width, 1) / 2)
	if steps == 0 {
		s.dot(int(x0), int(y0), half, c, alpha)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		s.dot(int(math.Round(x0+dx*t)), int(math.Round(y0+dy*t)), half, c, alpha)
	}
}

func (s *Surface) dot(x, y, half int, c color.RGBA, alpha float64) {
	if half <= 0 {
		s.Blend(x, y, c, alpha)
		return
	}
	s.FillRect(image.Rect(x-half, y-half, x+half+1, y+half+1), c, alpha)
}

// Polyline connects consecutive points.
func (s *Surface) Polyline(pts []Point, width float64, c color.RGBA, alpha float64) {
	for i := 1; i < len(pts); i++ {
		s.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, width, c, alpha)
	}
}

// Point is a position in surface pixels.
type Point struct{ X, Y float64 }

// FillCircle draws a solid disc.
func (s *Surface) FillCircle(cx, cy, r float64, c color.RGBA, alpha float64) {
	if r <= 0 {
		return
	}
	r2 := r * r
	for y := int(cy - r); y <= int(cy+r); y++ {
		for x := int(cx - r); x <= int(cx+r); x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy <= r2 {
				s.Blend(x, y, c, alpha)
			}
		}
	}
}

// Circle draws a ring of the given width.
func (s *Surface) Circle(cx, cy, r, width float64, c color.RGBA, alpha float64) {
	if r <= 0 {
		return
	}
	segments := int(math.Max(16, math.Min(720, r*2*math.Pi/2)))
	prevX, prevY := cx+r, cy
	for i := 1; i <= segments; i++ {
		a := float64(i) / float64(segments) * 2 * math.Pi
		x, y := cx+math.Cos(a)*r, cy+math.Sin(a)*r
		s.Line(prevX, prevY, x, y, width, c, alpha)
		prevX, prevY = x, y
	}
}

// Glow draws a disc whose opacity falls off quadratically from the centre.
func (s *Surface) Glow(cx, cy, r float64, c color.RGBA, alpha float64) {
	if r <= 0 {
		return
	}
	for y := int(cy - r); y <= int(cy+r); y++ {
		for x := int(cx - r); x <= int(cx+r); x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			d := math.Sqrt(dx*dx+dy*dy) / r
			if d < 1 {
				f := 1 - d
				s.Blend(x, y, c, alpha*f*f)
			}
		}
	}
}

// Text draws str with its baseline at (x, y) using a fixed 7x13 face.
func (s *Surface) Text(x, y int, str string, c color.RGBA, alpha float64) {
	a := clamp01(alpha) * float64(c.A) / 255
	if a <= 0 {
		return
	}
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(a*255 + 0.5)}),
		Face: s.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(str)
}

// CompositeOnto blends the rectangle of s starting at sp onto dst at its
// origin, scaled by opacity. Both images use premultiplied alpha.
func (s *Surface) CompositeOnto(dst *image.RGBA, sp image.Point, opacity float64) {
	compositeOver(dst, s.img, sp, opacity)
}

func compositeOver(dst, src *image.RGBA, sp image.Point, opacity float64) {
	op := uint32(math.Round(clamp01(opacity) * 255))
	if op == 0 {
		return
	}
	w := min(dst.Rect.Dx(), src.Rect.Max.X-sp.X)
	h := min(dst.Rect.Dy(), src.Rect.Max.Y-sp.Y)
	for y := 0; y < h; y++ {
		if sp.Y+y < src.Rect.Min.Y {
			continue
		}
		di := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y)
		si := src.PixOffset(sp.X, sp.Y+y)
		for x := 0; x < w; x++ {
			if sp.X+x < src.Rect.Min.X {
				si += 4
				di += 4
				continue
			}
			sa := uint32(src.Pix[si+3]) * op / 255
			if sa != 0 {
				inv := 255 - sa
				for k := 0; k < 3; k++ {
					sc := uint32(src.Pix[si+k]) * op / 255
					dst.Pix[di+k] = uint8(sc + uint32(dst.Pix[di+k])*inv/255)
				}
				dst.Pix[di+3] = uint8(sa + uint32(dst.Pix[di+3])*inv/255)
			}
			si += 4
			di += 4
		}
	}
}
