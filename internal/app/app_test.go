package app

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/perspective-toy/internal/config"
	"github.com/Faultbox/perspective-toy/internal/engine/events"
	"github.com/Faultbox/perspective-toy/internal/engine/raster"
	"github.com/Faultbox/perspective-toy/internal/render"
	"github.com/Faultbox/perspective-toy/internal/scene"
)

type fakeDisplay struct {
	w, h     int
	swaps    int
	closed   bool
	closeErr error
}

func (d *fakeDisplay) Size() (int, int)         { return d.w, d.h }
func (d *fakeDisplay) DrawableSize() (int, int) { return d.w * 2, d.h * 2 }
func (d *fakeDisplay) SwapBuffers()             { d.swaps++ }

func (d *fakeDisplay) Close() error {
	d.closed = true
	return d.closeErr
}

type fakeCanvas struct {
	*raster.Surface
	flushes int
	resized [4]int
	closed  bool
}

func (c *fakeCanvas) Resize(w, h, fbw, fbh int) { c.resized = [4]int{w, h, fbw, fbh} }
func (c *fakeCanvas) Flush()                    { c.flushes++ }
func (c *fakeCanvas) Close()                    { c.closed = true }

func (c *fakeCanvas) ReadPixels() ([]byte, int, int) {
	b := c.Image().Bounds()
	return c.Image().Pix, b.Dx(), b.Dy()
}

func newTestApp(t *testing.T) (*App, *fakeDisplay, *fakeCanvas) {
	t.Helper()
	cfg := config.Default()
	cfg.Screenshot.Dir = t.TempDir()

	d := &fakeDisplay{w: 800, h: 600}
	c := &fakeCanvas{Surface: raster.New(800, 600)}
	a, err := New(cfg, d, c)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a, d, c
}

func TestFrameScheduler(t *testing.T) {
	var f FrameScheduler
	if f.Take() {
		t.Fatal("Take() on idle scheduler")
	}
	f.Request()
	f.Request()
	f.Request()
	if !f.Pending() {
		t.Fatal("expected a pending frame")
	}
	if !f.Take() {
		t.Fatal("Take() = false")
	}
	if f.Take() {
		t.Error("three requests produced more than one frame")
	}
	if f.Requests() != 3 {
		t.Errorf("Requests() = %d, want 3", f.Requests())
	}
}

func TestNewValidates(t *testing.T) {
	cfg := config.Default()
	d := &fakeDisplay{w: 10, h: 10}
	c := &fakeCanvas{Surface: raster.New(10, 10)}

	tests := []struct {
		name    string
		cfg     *config.Config
		display Display
		canvas  Canvas
		want    error
	}{
		{"nil config", nil, d, c, ErrNoConfig},
		{"nil display", cfg, nil, c, ErrNoDisplay},
		{"nil canvas", cfg, d, nil, ErrNoCanvas},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg, tt.display, tt.canvas); !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewStartsWithCube(t *testing.T) {
	a, _, _ := newTestApp(t)
	if n := len(a.Store().Cubes()); n != 1 {
		t.Errorf("len(Cubes()) = %d, want 1", n)
	}

	cfg := config.Default()
	cfg.Scene.StartWithCube = false
	b, err := New(cfg, &fakeDisplay{w: 800, h: 600}, &fakeCanvas{Surface: raster.New(800, 600)})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(b.Store().Cubes()); n != 0 {
		t.Errorf("len(Cubes()) = %d, want 0", n)
	}
}

func TestFrameDrawsOncePerBurst(t *testing.T) {
	a, d, c := newTestApp(t)

	if !a.Frame() {
		t.Fatal("initial frame not drawn")
	}
	if a.Frame() {
		t.Fatal("frame drawn with nothing pending")
	}

	a.Store().SetHorizon(300)
	a.Store().SetHorizon(310)
	a.Store().AddVanishingPoint(50)
	if !a.Frame() {
		t.Fatal("mutations did not request a frame")
	}
	if a.Frame() {
		t.Error("burst of mutations drew more than one frame")
	}
	if d.swaps != 2 || c.flushes != 2 {
		t.Errorf("swaps, flushes = %d, %d; want 2, 2", d.swaps, c.flushes)
	}
}

func TestResize(t *testing.T) {
	a, _, c := newTestApp(t)
	a.Frame()

	a.HandleEvent(events.Event{Type: events.EventWindowResize, Width: 640, Height: 300})

	if w, h := a.Store().CanvasSize(); w != 640 || h != 300 {
		t.Errorf("CanvasSize() = %v, %v", w, h)
	}
	if c.resized != [4]int{640, 300, 1600, 1200} {
		t.Errorf("canvas resized to %v", c.resized)
	}
	// The default horizon at 400 is outside the new height.
	if got := a.Store().HorizonY(); got != 150 {
		t.Errorf("HorizonY() = %v, want 150", got)
	}
	if !a.Frame() {
		t.Error("resize did not request a frame")
	}
}

func TestKeys(t *testing.T) {
	a, _, _ := newTestApp(t)
	key := func(k sdl.Keycode) {
		a.HandleEvent(events.Event{Type: events.EventKeyDown, Key: k})
	}

	key(sdl.K_UP)
	if got := a.Store().HorizonY(); got != 390 {
		t.Errorf("HorizonY() after Up = %v, want 390", got)
	}
	key(sdl.K_DOWN)
	key(sdl.K_DOWN)
	if got := a.Store().HorizonY(); got != 410 {
		t.Errorf("HorizonY() after Down = %v, want 410", got)
	}

	key(sdl.K_2)
	c := a.Store().Cubes()[0]
	if c.Mode != scene.TwoPoint || len(c.VanishingPoints) != 2 {
		t.Errorf("cube = %+v, want two-point", c)
	}
	key(sdl.K_1)
	if c := a.Store().Cubes()[0]; c.Mode != scene.OnePoint {
		t.Errorf("mode = %v, want 1p", c.Mode)
	}

	key(sdl.K_DELETE)
	if n := len(a.Store().Cubes()); n != 0 {
		t.Errorf("len(Cubes()) = %d after Delete", n)
	}
	key(sdl.K_DELETE)
	key(sdl.K_1)

	a.running = true
	key(sdl.K_ESCAPE)
	if a.running {
		t.Error("Escape did not stop the loop")
	}
}

func TestPointerEventsReachRouter(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.Frame()

	vp := a.Store().VanishingPoints()[0]
	y := a.Store().HorizonY()
	a.HandleEvent(events.Event{Type: events.EventPointerDown, X: vp.PosX, Y: y})
	a.HandleEvent(events.Event{Type: events.EventPointerMove, X: vp.PosX + 10, Y: y - 5, DX: 10, DY: -5})
	a.HandleEvent(events.Event{Type: events.EventPointerUp, X: vp.PosX + 10, Y: y - 5})

	if got, _ := a.Store().VanishingPoint(vp.ID); got.PosX != vp.PosX+10 {
		t.Errorf("PosX = %v, want %v", got.PosX, vp.PosX+10)
	}
	if got := a.Store().HorizonY(); got != y {
		t.Errorf("horizon moved to %v", got)
	}
}

func TestScreenshot(t *testing.T) {
	a, _, _ := newTestApp(t)

	path, err := a.Screenshot()
	if err != nil {
		t.Fatalf("Screenshot() error = %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Errorf("screenshot size = %dx%d", b.Dx(), b.Dy())
	}
}

func TestShiftF12ReadsFramebuffer(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.Frame()

	a.HandleEvent(events.Event{Type: events.EventKeyDown, Key: sdl.K_F12, Shift: true})
	if !a.Frame() {
		t.Fatal("capture did not request a frame")
	}

	matches, err := filepath.Glob(filepath.Join(a.cfg.Screenshot.Dir, "*.png"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Errorf("found %d screenshots, want 1", len(matches))
	}
}

func TestApplyConfig(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.Frame()

	cfg := config.Default()
	cfg.Scene.DepthFraction = 0.5
	cfg.Input.DragDeadZone = 0
	a.ApplyConfig(cfg)

	if got := a.renderer.Options().Depth; got != 0.5 {
		t.Errorf("Depth = %v, want 0.5", got)
	}
	if !a.Frame() {
		t.Error("config change did not request a frame")
	}

	bad := config.Default()
	bad.Scene.HandleSize = -1
	a.ApplyConfig(bad)
	if got := a.renderer.Options().HandleSize; got != cfg.Scene.HandleSize {
		t.Errorf("invalid config applied: HandleSize = %v", got)
	}
}

func TestClose(t *testing.T) {
	a, d, c := newTestApp(t)
	d.closeErr = errors.New("boom")

	err := a.Close()
	if !errors.Is(err, d.closeErr) {
		t.Errorf("Close() error = %v, want boom", err)
	}
	if !d.closed || !c.closed {
		t.Error("display or canvas not closed")
	}

	// Mutations after Close no longer request frames.
	a.frames.Take()
	a.Store().SetHorizon(10)
	if a.frames.Pending() {
		t.Error("draw handler still registered")
	}
}

var _ render.Surface = (*fakeCanvas)(nil)
