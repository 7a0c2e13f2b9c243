// Package app wires the scene store, renderer and input router to a
// window and runs the main loop.
package app

import (
	"errors"
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/perspective-toy/internal/config"
	"github.com/Faultbox/perspective-toy/internal/engine/events"
	"github.com/Faultbox/perspective-toy/internal/engine/raster"
	"github.com/Faultbox/perspective-toy/internal/engine/screenshot"
	"github.com/Faultbox/perspective-toy/internal/hitbox"
	"github.com/Faultbox/perspective-toy/internal/input"
	"github.com/Faultbox/perspective-toy/internal/logger"
	"github.com/Faultbox/perspective-toy/internal/render"
	"github.com/Faultbox/perspective-toy/internal/scene"
)

var (
	ErrNoConfig  = errors.New("app: nil config")
	ErrNoDisplay = errors.New("app: nil display")
	ErrNoCanvas  = errors.New("app: nil canvas")
)

const (
	// horizonStep is how far Up/Down move the horizon.
	horizonStep = 10
	// idleWaitMS bounds how long the loop sleeps waiting for events.
	idleWaitMS = 100

	drawHandlerID = "draw"
)

// Display is the window frames are presented to.
type Display interface {
	Size() (int, int)
	DrawableSize() (int, int)
	SwapBuffers()
	Close() error
}

// Canvas is a surface that batches drawing until Flush.
type Canvas interface {
	render.Surface
	Resize(width, height, fbWidth, fbHeight int)
	Flush()
	ReadPixels() ([]byte, int, int)
	Close()
}

// App owns the scene and everything that draws or edits it.
type App struct {
	cfg     *config.Config
	display Display
	canvas  Canvas

	store    *scene.Store
	boxes    *hitbox.Registry
	renderer *render.Renderer
	router   *input.Router
	frames   FrameScheduler
	shots    *screenshot.Capture
	watcher  *config.Watcher

	running   bool
	captureGL bool

	log *zap.Logger
}

// New builds the application around an open display and canvas.
func New(cfg *config.Config, display Display, canvas Canvas) (*App, error) {
	switch {
	case cfg == nil:
		return nil, ErrNoConfig
	case display == nil:
		return nil, ErrNoDisplay
	case canvas == nil:
		return nil, ErrNoCanvas
	}

	a := &App{
		cfg:     cfg,
		display: display,
		canvas:  canvas,
		boxes:   hitbox.NewRegistry(),
		shots:   screenshot.New(cfg.Screenshot.Dir, cfg.Screenshot.Prefix),
		log:     logger.Named("app"),
	}

	w, h := display.Size()
	a.store = scene.NewStore(scene.Options{
		HorizonY:     cfg.Scene.HorizonY,
		CanvasWidth:  float64(w),
		CanvasHeight: float64(h),
	})
	a.store.SetCanvasSize(float64(w), float64(h))

	var err error
	a.renderer, err = render.New(canvas, a.store, a.boxes, renderOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	a.router = input.New(a.store, a.boxes)
	a.router.SetDragDeadZone(cfg.Input.DragDeadZone)

	a.store.AddHandler(scene.Handler{
		ID:    drawHandlerID,
		After: func(scene.State) { a.frames.Request() },
	})

	if cfg.Scene.StartWithCube {
		a.store.AddDefaultCube()
	}
	a.frames.Request()

	a.log.Info("app initialized",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Float64("horizon", a.store.HorizonY()),
	)
	return a, nil
}

func renderOptions(cfg *config.Config) render.Options {
	return render.Options{
		Depth:      cfg.Scene.DepthFraction,
		HandleSize: cfg.Scene.HandleSize,
		DotRadius:  cfg.Scene.DotRadius,
	}
}

// Store returns the scene store.
func (a *App) Store() *scene.Store {
	return a.store
}

// WatchConfig reloads drawing and input settings whenever the file at
// path changes. An empty path is ignored.
func (a *App) WatchConfig(path string) error {
	if path == "" {
		return nil
	}
	w, err := config.Watch(path)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	a.watcher = w
	a.log.Info("watching config", zap.String("path", path))
	return nil
}

// Run processes events and draws frames until the window is closed or
// Escape is pressed. The loop sleeps while no frame is pending.
func (a *App) Run() error {
	queue := events.NewQueue()
	a.running = true

	a.log.Info("starting main loop")
	for a.running {
		for _, e := range queue.Poll(!a.frames.Pending(), idleWaitMS) {
			a.HandleEvent(e)
		}
		a.pollConfig()
		a.Frame()
	}
	a.log.Info("main loop stopped", zap.Int("redraw_requests", a.frames.Requests()))
	return nil
}

// Quit stops Run after the current iteration.
func (a *App) Quit() {
	a.running = false
}

// HandleEvent dispatches one translated event.
func (a *App) HandleEvent(e events.Event) {
	switch e.Type {
	case events.EventQuit:
		a.Quit()
	case events.EventWindowResize:
		a.resize(e.Width, e.Height)
	case events.EventKeyDown:
		a.handleKey(e)
	case events.EventPointerDown:
		a.router.PointerDown(e.X, e.Y)
	case events.EventPointerUp:
		a.router.PointerUp(e.X, e.Y)
	case events.EventPointerMove:
		a.router.PointerMove(e.X, e.Y, e.DX, e.DY)
	}
}

// Frame draws and presents a frame if one is pending.
func (a *App) Frame() bool {
	if !a.frames.Take() {
		return false
	}

	a.renderer.Render()
	a.canvas.Flush()

	if a.captureGL {
		a.captureGL = false
		pixels, w, h := a.canvas.ReadPixels()
		if path, err := a.shots.FromPixels(pixels, w, h); err != nil {
			a.log.Error("framebuffer screenshot failed", zap.Error(err))
		} else {
			a.log.Info("framebuffer screenshot saved", zap.String("path", path))
		}
	}

	a.display.SwapBuffers()
	return true
}

// Screenshot renders the current scene offscreen and writes it as PNG.
func (a *App) Screenshot() (string, error) {
	w, h := a.store.CanvasSize()
	surface := raster.New(int(w), int(h))
	a.renderer.RenderTo(surface)

	path, err := a.shots.FromImage(surface.Image())
	if err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	a.log.Info("screenshot saved", zap.String("path", path))
	return path, nil
}

func (a *App) resize(width, height int) {
	fbw, fbh := a.display.DrawableSize()
	a.canvas.Resize(width, height, fbw, fbh)
	a.store.SetCanvasSize(float64(width), float64(height))
	a.log.Debug("resized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("fb_width", fbw),
		zap.Int("fb_height", fbh),
	)
}

func (a *App) handleKey(e events.Event) {
	switch e.Key {
	case sdl.K_ESCAPE:
		a.Quit()
	case sdl.K_UP:
		a.store.SetHorizon(a.store.HorizonY() - horizonStep)
	case sdl.K_DOWN:
		a.store.SetHorizon(a.store.HorizonY() + horizonStep)
	case sdl.K_1:
		a.setLatestMode(scene.OnePoint)
	case sdl.K_2:
		a.setLatestMode(scene.TwoPoint)
	case sdl.K_DELETE, sdl.K_BACKSPACE:
		if c, ok := a.latestCube(); ok {
			if err := a.store.RemoveCube(c.ID); err != nil {
				a.log.Warn("remove cube", zap.Error(err))
			}
		}
	case sdl.K_F12:
		if e.Shift {
			a.captureGL = true
			a.frames.Request()
			return
		}
		if _, err := a.Screenshot(); err != nil {
			a.log.Error("screenshot failed", zap.Error(err))
		}
	}
}

func (a *App) latestCube() (scene.Cube, bool) {
	cubes := a.store.Cubes()
	if len(cubes) == 0 {
		return scene.Cube{}, false
	}
	return cubes[len(cubes)-1], true
}

func (a *App) setLatestMode(mode scene.Projection) {
	c, ok := a.latestCube()
	if !ok {
		return
	}
	if err := a.store.SetCubeMode(c.ID, mode); err != nil {
		a.log.Warn("set cube mode", zap.Int("cube", c.ID), zap.Stringer("mode", mode), zap.Error(err))
	}
}

func (a *App) pollConfig() {
	if a.watcher == nil {
		return
	}
	select {
	case cfg := <-a.watcher.Changes():
		a.ApplyConfig(cfg)
	default:
	}
}

// ApplyConfig applies the settings that can change while running:
// drawing sizes, the drag dead zone and the screenshot directory.
func (a *App) ApplyConfig(cfg *config.Config) {
	if err := cfg.Validate(); err != nil {
		a.log.Warn("ignoring invalid config", zap.Error(err))
		return
	}
	a.cfg = cfg
	a.renderer.SetOptions(renderOptions(cfg))
	a.router.SetDragDeadZone(cfg.Input.DragDeadZone)
	a.shots.SetOutputDir(cfg.Screenshot.Dir)
	a.frames.Request()

	a.log.Info("config applied",
		zap.Float64("depth", cfg.Scene.DepthFraction),
		zap.Float64("drag_dead_zone", cfg.Input.DragDeadZone),
	)
}

// Close stops the config watcher and releases the canvas and display.
func (a *App) Close() error {
	a.log.Info("closing app")

	var err error
	if a.watcher != nil {
		err = multierr.Append(err, a.watcher.Close())
	}
	a.store.RemoveHandler(drawHandlerID)
	a.canvas.Close()
	err = multierr.Append(err, a.display.Close())
	return err
}
