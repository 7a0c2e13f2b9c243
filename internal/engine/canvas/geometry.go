package canvas

import (
	gomath "math"

	"github.com/Faultbox/perspective-toy/internal/render"
	"github.com/Faultbox/perspective-toy/pkg/math"
)

const (
	// solidStride is pos(2) + color(4).
	solidStride = 6
	// textStride is pos(2) + uv(2) + color(4).
	textStride = 8

	dotSegments = 24
)

// orthoMatrix maps logical pixels with a top-left origin to clip space.
func orthoMatrix(width, height float64) [16]float32 {
	left, right := float32(0), float32(width)
	bottom, top := float32(height), float32(0)
	near, far := float32(-1), float32(1)
	return [16]float32{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -2 / (far - near), 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), -(far + near) / (far - near), 1,
	}
}

// lineQuad returns the corners of a segment widened to width. A zero
// length segment reports false.
func lineQuad(x1, y1, x2, y2, width float64) ([4]math.Vec2, bool) {
	dx, dy := x2-x1, y2-y1
	length := gomath.Hypot(dx, dy)
	if length == 0 || gomath.IsNaN(length) || gomath.IsInf(length, 0) {
		return [4]math.Vec2{}, false
	}
	half := width / 2
	nx, ny := -dy/length*half, dx/length*half
	return [4]math.Vec2{
		{X: x1 + nx, Y: y1 + ny},
		{X: x2 + nx, Y: y2 + ny},
		{X: x2 - nx, Y: y2 - ny},
		{X: x1 - nx, Y: y1 - ny},
	}, true
}

// circle approximates a circle with n points.
func circle(x, y, radius float64, n int) []math.Vec2 {
	pts := make([]math.Vec2, n)
	for i := range pts {
		a := 2 * gomath.Pi * float64(i) / float64(n)
		pts[i] = math.Vec2{X: x + radius*gomath.Cos(a), Y: y + radius*gomath.Sin(a)}
	}
	return pts
}

// appendFan triangulates a convex polygon as a fan around its first point.
func appendFan(dst []float32, pts []math.Vec2, c render.Color) []float32 {
	for i := 1; i+1 < len(pts); i++ {
		dst = appendSolid(dst, pts[0], c)
		dst = appendSolid(dst, pts[i], c)
		dst = appendSolid(dst, pts[i+1], c)
	}
	return dst
}

func appendSolid(dst []float32, p math.Vec2, c render.Color) []float32 {
	return append(dst, float32(p.X), float32(p.Y), c.R, c.G, c.B, c.A)
}

// appendGlyph adds two triangles covering a glyph cell.
func appendGlyph(dst []float32, x, y, w, h float64, uv [4]float32, c render.Color) []float32 {
	x0, y0 := float32(x), float32(y)
	x1, y1 := float32(x+w), float32(y+h)
	u0, v0, u1, v1 := uv[0], uv[1], uv[2], uv[3]

	return append(dst,
		x0, y0, u0, v0, c.R, c.G, c.B, c.A,
		x1, y0, u1, v0, c.R, c.G, c.B, c.A,
		x1, y1, u1, v1, c.R, c.G, c.B, c.A,

		x0, y0, u0, v0, c.R, c.G, c.B, c.A,
		x1, y1, u1, v1, c.R, c.G, c.B, c.A,
		x0, y1, u0, v1, c.R, c.G, c.B, c.A,
	)
}
