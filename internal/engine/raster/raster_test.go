package raster

import (
	"image/color"
	"testing"

	"github.com/Faultbox/perspective-toy/internal/hitbox"
	"github.com/Faultbox/perspective-toy/internal/render"
	"github.com/Faultbox/perspective-toy/internal/scene"
	"github.com/Faultbox/perspective-toy/pkg/math"
)

func near(a, b color.RGBA) bool {
	d := func(x, y uint8) bool {
		if x > y {
			return x-y <= 2
		}
		return y-x <= 2
	}
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func rgba(c render.Color) color.RGBA {
	n := c.NRGBA()
	return color.RGBA{n.R, n.G, n.B, n.A}
}

func TestClear(t *testing.T) {
	s := New(20, 10)
	if w, h := s.Size(); w != 20 || h != 10 {
		t.Fatalf("Size() = %v x %v", w, h)
	}

	want := rgba(render.ColorBackground)
	for _, p := range [][2]int{{0, 0}, {19, 9}, {10, 5}} {
		if got := s.Image().RGBAAt(p[0], p[1]); got != want {
			t.Errorf("pixel %v = %v, want %v", p, got, want)
		}
	}
}

func TestFillDot(t *testing.T) {
	s := New(100, 100)
	s.SetFillColor(render.ColorRed)
	s.FillDot(50, 50, 4)

	if got := s.Image().RGBAAt(50, 50); !near(got, rgba(render.ColorRed)) {
		t.Errorf("dot centre = %v, want red", got)
	}
	if got := s.Image().RGBAAt(60, 50); got != rgba(render.ColorBackground) {
		t.Errorf("outside dot = %v, want background", got)
	}
}

func TestStrokeLine(t *testing.T) {
	s := New(100, 100)
	s.SetLineWidth(2)
	s.SetStrokeColor(render.ColorFore)
	s.StrokeLine(10, 20, 90, 20)

	for _, x := range []int{20, 50, 80} {
		if got := s.Image().RGBAAt(x, 20); !near(got, rgba(render.ColorFore)) {
			t.Errorf("pixel (%d, 20) = %v, want stroke color", x, got)
		}
	}
	if got := s.Image().RGBAAt(50, 40); got != rgba(render.ColorBackground) {
		t.Errorf("pixel off the line = %v", got)
	}
}

func TestFillPolygonAndRect(t *testing.T) {
	s := New(100, 100)
	s.SetFillColor(render.ColorBlue)
	s.FillPolygon([]math.Vec2{{X: 10, Y: 10}, {X: 40, Y: 10}, {X: 40, Y: 40}, {X: 10, Y: 40}})
	if got := s.Image().RGBAAt(25, 25); !near(got, rgba(render.ColorBlue)) {
		t.Errorf("inside polygon = %v", got)
	}

	s.SetLineWidth(2)
	s.SetStrokeColor(render.ColorRed)
	s.StrokeRect(50, 50, 30, 30)
	if got := s.Image().RGBAAt(65, 50); !near(got, rgba(render.ColorRed)) {
		t.Errorf("rect top edge = %v", got)
	}
	if got := s.Image().RGBAAt(65, 65); got != rgba(render.ColorBackground) {
		t.Errorf("rect interior = %v, want background", got)
	}
}

func TestText(t *testing.T) {
	s := New(100, 40)

	m := s.MeasureText("abc")
	if m.Width != 21 || m.Height() != 13 {
		t.Errorf("MeasureText = %+v", m)
	}

	s.SetFillColor(render.ColorFore)
	s.FillText("HHH", 10, 20)
	bg := rgba(render.ColorBackground)
	painted := false
	for y := 8; y < 22 && !painted; y++ {
		for x := 10; x < 31; x++ {
			if s.Image().RGBAAt(x, y) != bg {
				painted = true
				break
			}
		}
	}
	if !painted {
		t.Error("FillText left the image untouched")
	}
}

func TestSaveRestore(t *testing.T) {
	s := New(10, 10)
	s.SetStrokeColor(render.ColorBlue)
	s.Save()
	s.SetStrokeColor(render.ColorRed)
	s.Restore()
	if s.Stroke != render.ColorBlue {
		t.Errorf("stroke after restore = %+v", s.Stroke)
	}
}

func TestRendersScene(t *testing.T) {
	store := scene.NewStore(scene.Options{HorizonY: 200, CanvasWidth: 400, CanvasHeight: 400})
	store.AddDefaultCube()
	s := New(400, 400)

	r, err := render.New(s, store, hitbox.NewRegistry(), render.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	r.Render()

	// vanishing point dot at the canvas centre on the horizon
	if got := s.Image().RGBAAt(200, 200); !near(got, rgba(render.ColorFore)) {
		t.Errorf("vanishing point pixel = %v", got)
	}
	if got := s.Image().RGBAAt(5, 100); got != rgba(render.ColorBackground) {
		t.Errorf("empty area = %v", got)
	}
}
