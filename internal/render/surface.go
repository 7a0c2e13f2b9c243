package render

import "github.com/Faultbox/perspective-toy/pkg/math"

// Surface is a 2D drawing target. Coordinates are pixels from the
// top-left corner. Stroke and fill colors are state that Save and
// Restore push and pop.
type Surface interface {
	Size() (w, h float64)
	Clear()

	SetStrokeColor(c Color)
	SetFillColor(c Color)

	StrokeLine(x1, y1, x2, y2 float64)
	StrokeRect(x, y, w, h float64)
	StrokePolygon(pts []math.Vec2)
	FillPolygon(pts []math.Vec2)
	FillDot(x, y, radius float64)

	MeasureText(text string) TextMetrics
	// FillText draws text with its baseline at y.
	FillText(text string, x, y float64)

	Save()
	Restore()
}

// TextMetrics is the extent of a run of text.
type TextMetrics struct {
	Width   float64
	Ascent  float64
	Descent float64
}

// Height is the full line height of the measured text.
func (m TextMetrics) Height() float64 {
	return m.Ascent + m.Descent
}

// StyleStack implements the Save/Restore color state for surfaces.
type StyleStack struct {
	Stroke, Fill Color
	saved        [][2]Color
}

// Save pushes the current colors.
func (s *StyleStack) Save() {
	s.saved = append(s.saved, [2]Color{s.Stroke, s.Fill})
}

// Restore pops the colors pushed by the matching Save. Unbalanced calls
// are ignored.
func (s *StyleStack) Restore() {
	n := len(s.saved)
	if n == 0 {
		return
	}
	s.Stroke, s.Fill = s.saved[n-1][0], s.saved[n-1][1]
	s.saved = s.saved[:n-1]
}

// Reset drops every saved entry and restores the given defaults.
func (s *StyleStack) Reset(stroke, fill Color) {
	s.saved = s.saved[:0]
	s.Stroke, s.Fill = stroke, fill
}
