// Package raster implements render.Surface on an in-memory RGBA image.
// It backs screenshots and lets the renderer run without a GPU.
package raster

import (
	"image"
	"image/draw"
	gomath "math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/Faultbox/perspective-toy/internal/render"
	"github.com/Faultbox/perspective-toy/pkg/math"
)

// dotSegments is the number of sides used to approximate a dot.
const dotSegments = 24

var _ render.Surface = (*Surface)(nil)

// Surface draws into an *image.RGBA.
type Surface struct {
	render.StyleStack

	img        *image.RGBA
	z          *vector.Rasterizer
	face       font.Face
	background render.Color
	lineWidth  float64
}

// New creates a surface of the given size cleared to the background color.
func New(width, height int) *Surface {
	s := &Surface{
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		z:          vector.NewRasterizer(width, height),
		face:       basicfont.Face7x13,
		background: render.ColorBackground,
		lineWidth:  1,
	}
	s.Clear()
	return s
}

// Image returns the backing image.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// SetBackground sets the color used by Clear.
func (s *Surface) SetBackground(c render.Color) {
	s.background = c
}

// SetLineWidth sets the stroke width in pixels.
func (s *Surface) SetLineWidth(w float64) {
	s.lineWidth = w
}

func (s *Surface) Size() (float64, float64) {
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// Clear fills the whole image with the background color and resets the
// color state.
func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.background.NRGBA()), image.Point{}, draw.Src)
	s.Reset(render.ColorFore, render.ColorFore)
}

func (s *Surface) SetStrokeColor(c render.Color) { s.Stroke = c }
func (s *Surface) SetFillColor(c render.Color)   { s.Fill = c }

func (s *Surface) StrokeLine(x1, y1, x2, y2 float64) {
	s.paint(s.Stroke, func(z *vector.Rasterizer) {
		s.quad(z, x1, y1, x2, y2)
	})
}

func (s *Surface) StrokeRect(x, y, w, h float64) {
	s.StrokePolygon([]math.Vec2{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}})
}

func (s *Surface) StrokePolygon(pts []math.Vec2) {
	if len(pts) < 2 {
		return
	}
	// One path per edge: overlapping quads of opposite winding would
	// cancel at the corners.
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		s.StrokeLine(a.X, a.Y, b.X, b.Y)
	}
}

func (s *Surface) FillPolygon(pts []math.Vec2) {
	if len(pts) < 3 {
		return
	}
	s.paint(s.Fill, func(z *vector.Rasterizer) {
		z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
		for _, p := range pts[1:] {
			z.LineTo(float32(p.X), float32(p.Y))
		}
		z.ClosePath()
	})
}

func (s *Surface) FillDot(x, y, radius float64) {
	s.paint(s.Fill, func(z *vector.Rasterizer) {
		z.MoveTo(float32(x+radius), float32(y))
		for i := 1; i < dotSegments; i++ {
			a := 2 * gomath.Pi * float64(i) / dotSegments
			z.LineTo(float32(x+radius*gomath.Cos(a)), float32(y+radius*gomath.Sin(a)))
		}
		z.ClosePath()
	})
}

func (s *Surface) MeasureText(text string) render.TextMetrics {
	m := s.face.Metrics()
	return render.TextMetrics{
		Width:   float64(font.MeasureString(s.face, text)) / 64,
		Ascent:  float64(m.Ascent) / 64,
		Descent: float64(m.Descent) / 64,
	}
}

func (s *Surface) FillText(text string, x, y float64) {
	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(s.Fill.NRGBA()),
		Face: s.face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(text)
}

// paint rasterizes one path built by fn and composites it in color c.
func (s *Surface) paint(c render.Color, fn func(z *vector.Rasterizer)) {
	b := s.img.Bounds()
	s.z.Reset(b.Dx(), b.Dy())
	fn(s.z)
	s.z.Draw(s.img, b, image.NewUniform(c.NRGBA()), image.Point{})
}

// quad adds the outline of a line segment widened to the line width.
func (s *Surface) quad(z *vector.Rasterizer, x1, y1, x2, y2 float64) {
	dx, dy := x2-x1, y2-y1
	length := gomath.Hypot(dx, dy)
	if length == 0 {
		return
	}
	half := s.lineWidth / 2
	nx, ny := -dy/length*half, dx/length*half

	z.MoveTo(float32(x1+nx), float32(y1+ny))
	z.LineTo(float32(x2+nx), float32(y2+ny))
	z.LineTo(float32(x2-nx), float32(y2-ny))
	z.LineTo(float32(x1-nx), float32(y1-ny))
	z.ClosePath()
}
