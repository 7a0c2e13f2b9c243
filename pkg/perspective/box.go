package perspective

import (
	"fmt"

	"github.com/Faultbox/perspective-toy/pkg/math"
)

// Segment is a straight line between two points.
type Segment struct {
	A, B math.Vec2
}

// Polygon is a closed outline given by its vertices.
type Polygon []math.Vec2

// OnePointBox is a box drawn toward a single vanishing point.
// Corner order everywhere is top-left, top-right, bottom-left, bottom-right.
type OnePointBox struct {
	Front [4]math.Vec2
	Back  [4]math.Vec2

	// Guides run from each front corner to the vanishing point.
	Guides []Segment
	// Edges are the visible box edges: front face, depth edges, back face.
	Edges []Segment
}

// OnePointCube builds a one-point box whose front face is the axis-aligned
// rectangle (x, y, width, height). Each back corner is its front corner
// projected toward vp by depth.
func OnePointCube(x, y, width, height, depth float64, vp math.Vec2) OnePointBox {
	var b OnePointBox
	b.Front = [4]math.Vec2{
		{X: x, Y: y},
		{X: x + width, Y: y},
		{X: x, Y: y + height},
		{X: x + width, Y: y + height},
	}
	for i, c := range b.Front {
		b.Back[i] = ProjectToward(c, depth, vp)
		b.Guides = append(b.Guides, Segment{c, vp})
	}

	f, k := b.Front, b.Back
	b.Edges = []Segment{
		// front face
		{f[0], f[1]}, {f[1], f[3]}, {f[3], f[2]}, {f[2], f[0]},
		// depth
		{f[0], k[0]}, {f[1], k[1]}, {f[2], k[2]}, {f[3], k[3]},
		// back face
		{k[0], k[1]}, {k[0], k[2]}, {k[1], k[3]}, {k[2], k[3]},
	}
	return b
}

// Faces returns the six face outlines of the box, usable as a hit area.
func (b OnePointBox) Faces() []Polygon {
	f, k := b.Front, b.Back
	return []Polygon{
		{f[0], f[1], f[3], f[2]},
		{k[0], k[1], k[3], k[2]},
		{f[0], f[1], k[1], k[0]},
		{f[2], f[3], k[3], k[2]},
		{f[0], f[2], k[2], k[0]},
		{f[1], f[3], k[3], k[1]},
	}
}

// TwoPointBox is a box drawn corner-on between two vanishing points.
type TwoPointBox struct {
	// NearTop and NearBottom are the ends of the true-length near edge.
	NearTop, NearBottom math.Vec2

	// Receding points: the near corners moved toward VP1 and VP2.
	Top1, Top2       math.Vec2
	Bottom1, Bottom2 math.Vec2

	// FarTop and FarBottom close the box behind the near edge.
	FarTop, FarBottom math.Vec2

	Guides []Segment
	Edges  []Segment
}

// TwoPointCube builds a two-point box whose near vertical edge runs from
// (x, y) to (x, y+height). The near corners are projected toward both
// vanishing points by depth; each far corner is where the line from one
// receding point toward the opposite vanishing point crosses its mirror.
func TwoPointCube(x, y, height, depth float64, vp1, vp2 math.Vec2) (TwoPointBox, error) {
	var b TwoPointBox
	b.NearTop = math.Vec2{X: x, Y: y}
	b.NearBottom = math.Vec2{X: x, Y: y + height}

	b.Top1 = ProjectToward(b.NearTop, depth, vp1)
	b.Top2 = ProjectToward(b.NearTop, depth, vp2)
	b.Bottom1 = ProjectToward(b.NearBottom, depth, vp1)
	b.Bottom2 = ProjectToward(b.NearBottom, depth, vp2)

	var err error
	b.FarTop, err = LineIntersection(b.Top1, vp2, b.Top2, vp1)
	if err != nil {
		return TwoPointBox{}, fmt.Errorf("far top corner: %w", err)
	}
	b.FarBottom, err = LineIntersection(b.Bottom1, vp2, b.Bottom2, vp1)
	if err != nil {
		return TwoPointBox{}, fmt.Errorf("far bottom corner: %w", err)
	}

	b.Guides = []Segment{
		{b.NearTop, vp1}, {b.NearBottom, vp1},
		{b.NearTop, vp2}, {b.NearBottom, vp2},
		{b.FarTop, vp1}, {b.FarTop, vp2},
		{b.FarBottom, vp1}, {b.FarBottom, vp2},
	}
	b.Edges = []Segment{
		// perspective edges
		{b.NearTop, b.Top1}, {b.NearTop, b.Top2},
		{b.Top1, b.FarTop}, {b.Top2, b.FarTop},
		{b.NearBottom, b.Bottom1}, {b.NearBottom, b.Bottom2},
		{b.Bottom1, b.FarBottom}, {b.Bottom2, b.FarBottom},
		// verticals
		{b.NearTop, b.NearBottom},
		{b.Top1, b.Bottom1},
		{b.Top2, b.Bottom2},
		{b.FarTop, b.FarBottom},
	}
	return b, nil
}

// Faces returns the six face outlines of the box, usable as a hit area.
func (b TwoPointBox) Faces() []Polygon {
	return []Polygon{
		{b.NearTop, b.Top1, b.Bottom1, b.NearBottom},
		{b.NearTop, b.Top2, b.Bottom2, b.NearBottom},
		{b.Top1, b.FarTop, b.FarBottom, b.Bottom1},
		{b.Top2, b.FarTop, b.FarBottom, b.Bottom2},
		{b.NearTop, b.Top1, b.FarTop, b.Top2},
		{b.NearBottom, b.Bottom1, b.FarBottom, b.Bottom2},
	}
}
