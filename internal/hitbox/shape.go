package hitbox

import "github.com/Faultbox/perspective-toy/pkg/math"

// HitTest is the hit area of a region. It is either a Rect or a PathSet.
type HitTest interface {
	// Contains reports whether (x, y) lies inside the hit area.
	Contains(x, y float64) bool
	hitTest()
}

// Rect is an axis-aligned rectangle. Its bounds are inclusive.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside or on the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W &&
		y >= r.Y && y <= r.Y+r.H
}

func (Rect) hitTest() {}

// CenteredRect returns a size x size square centred on (cx, cy).
func CenteredRect(cx, cy, size float64) Rect {
	return Rect{X: cx - size/2, Y: cy - size/2, W: size, H: size}
}

// PathSet is a set of closed polygons. A point is inside the set when it
// is inside any one of them.
type PathSet []Polygon

// Polygon is a closed outline; the last vertex connects back to the first.
type Polygon []math.Vec2

// Contains reports whether (x, y) lies inside any polygon of the set.
func (ps PathSet) Contains(x, y float64) bool {
	for _, p := range ps {
		if p.Contains(x, y) {
			return true
		}
	}
	return false
}

func (PathSet) hitTest() {}

// Contains reports whether (x, y) lies inside the polygon using the
// even-odd rule. Polygons with fewer than three vertices contain nothing.
func (p Polygon) Contains(x, y float64) bool {
	n := len(p)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := p[i].X, p[i].Y
		xj, yj := p[j].X, p[j].Y
		if (yi > y) != (yj > y) {
			crossX := xi + (y-yi)*(xj-xi)/(yj-yi)
			if x < crossX {
				inside = !inside
			}
		}
	}
	return inside
}
