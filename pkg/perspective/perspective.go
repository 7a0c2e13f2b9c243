// Package perspective computes vanishing-point projections and the line
// constructions used to draw one- and two-point perspective boxes.
//
// All functions are pure. Coordinates are surface pixels with Y growing
// downward, and every vanishing point lies on the horizon.
package perspective

import (
	"errors"
	gomath "math"

	"github.com/Faultbox/perspective-toy/pkg/math"
)

// DefaultDepth is the fraction of the distance toward a vanishing point
// used for a box's receding face.
const DefaultDepth = 0.25

// epsilon below which two slopes or coordinates are considered equal.
const epsilon = 1e-9

var (
	// ErrParallel is returned when two lines never meet (or coincide).
	ErrParallel = errors.New("perspective: lines are parallel")

	// ErrDegenerateLine is returned when a line is given by two identical points.
	ErrDegenerateLine = errors.New("perspective: line endpoints coincide")
)

// VanishingPointCoords returns the position of a vanishing point on the horizon.
func VanishingPointCoords(posX, horizonY float64) math.Vec2 {
	return math.Vec2{X: posX, Y: horizonY}
}

// ProjectToward moves p toward the vanishing point vp by fraction.
// 0 leaves p unchanged, 1 lands exactly on vp. Values outside [0, 1]
// extrapolate along the same line.
func ProjectToward(p math.Vec2, fraction float64, vp math.Vec2) math.Vec2 {
	return p.Lerp(vp, fraction)
}

// line is y = m*x + b, or x = b when vertical.
type line struct {
	m, b     float64
	vertical bool
}

func slopeIntercept(p1, p2 math.Vec2) (line, error) {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	if gomath.Abs(dx) < epsilon {
		if gomath.Abs(dy) < epsilon {
			return line{}, ErrDegenerateLine
		}
		return line{b: p1.X, vertical: true}, nil
	}
	m := dy / dx
	return line{m: m, b: p1.Y - m*p1.X}, nil
}

// LineIntersection returns the point where the line through a1,a2 crosses
// the line through b1,b2. Vertical lines are solved by substituting
// x = const into the other line's equation, so the result is always finite
// when err is nil.
func LineIntersection(a1, a2, b1, b2 math.Vec2) (math.Vec2, error) {
	la, err := slopeIntercept(a1, a2)
	if err != nil {
		return math.Vec2{}, err
	}
	lb, err := slopeIntercept(b1, b2)
	if err != nil {
		return math.Vec2{}, err
	}

	switch {
	case la.vertical && lb.vertical:
		return math.Vec2{}, ErrParallel
	case la.vertical:
		return math.Vec2{X: la.b, Y: lb.m*la.b + lb.b}, nil
	case lb.vertical:
		return math.Vec2{X: lb.b, Y: la.m*lb.b + la.b}, nil
	}

	if gomath.Abs(la.m-lb.m) < epsilon {
		return math.Vec2{}, ErrParallel
	}

	x := (lb.b - la.b) / (la.m - lb.m)
	p := math.Vec2{X: x, Y: la.m*x + la.b}
	if !p.IsFinite() {
		return math.Vec2{}, ErrParallel
	}
	return p, nil
}
