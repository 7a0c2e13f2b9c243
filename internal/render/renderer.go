// Package render draws the scene onto a Surface and registers the
// interactive regions for everything it draws.
package render

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/perspective-toy/internal/hitbox"
	"github.com/Faultbox/perspective-toy/internal/logger"
	"github.com/Faultbox/perspective-toy/internal/scene"
	"github.com/Faultbox/perspective-toy/pkg/math"
	"github.com/Faultbox/perspective-toy/pkg/perspective"
)

var (
	ErrNoSurface  = errors.New("render: nil surface")
	ErrNoStore    = errors.New("render: nil store")
	ErrNoRegistry = errors.New("render: nil region registry")
)

// Options controls construction and handle sizes.
type Options struct {
	// Depth is the fraction toward the vanishing point used for back faces.
	Depth float64
	// HandleSize is the side of the square hit area around dots and the
	// height of the horizon hit band.
	HandleSize float64
	DotRadius  float64
}

// DefaultOptions returns the stock sizes.
func DefaultOptions() Options {
	return Options{
		Depth:      perspective.DefaultDepth,
		HandleSize: 10,
		DotRadius:  4,
	}
}

// Renderer draws the scene held by a store.
type Renderer struct {
	surface Surface
	store   *scene.Store
	boxes   *hitbox.Registry
	opts    Options
	log     *zap.Logger

	skipped int
}

// frame is the target of one draw pass.
type frame struct {
	s     Surface
	boxes *hitbox.Registry
}

// New creates a renderer drawing to surface and registering regions in boxes.
func New(surface Surface, store *scene.Store, boxes *hitbox.Registry, opts Options) (*Renderer, error) {
	switch {
	case surface == nil:
		return nil, ErrNoSurface
	case store == nil:
		return nil, ErrNoStore
	case boxes == nil:
		return nil, ErrNoRegistry
	}
	return &Renderer{
		surface: surface,
		store:   store,
		boxes:   boxes,
		opts:    opts,
		log:     logger.Named("render"),
	}, nil
}

// SetOptions replaces the drawing options used by the next frame.
func (r *Renderer) SetOptions(opts Options) {
	r.opts = opts
}

// Options returns the current drawing options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Skipped returns how many primitives the last frame dropped because a
// coordinate was not finite.
func (r *Renderer) Skipped() int {
	return r.skipped
}

// Render clears the surface and the region registry, then draws the UI
// chrome, the horizon, every cube and every vanishing point in that order.
func (r *Renderer) Render() {
	r.draw(frame{s: r.surface, boxes: r.boxes})
}

// RenderTo draws the current scene onto another surface, such as an
// offscreen image. The live region registry is left untouched.
func (r *Renderer) RenderTo(s Surface) {
	r.draw(frame{s: s, boxes: hitbox.NewRegistry()})
}

func (r *Renderer) draw(f frame) {
	f.s.Clear()
	f.boxes.Clear()
	r.skipped = 0

	f.s.Save()
	defer f.s.Restore()
	f.s.SetStrokeColor(ColorFore)
	f.s.SetFillColor(ColorFore)

	r.drawChrome(f)
	r.drawHorizon(f)
	for _, c := range r.store.Cubes() {
		if !(math.Vec2{X: c.X, Y: c.Y}).IsFinite() || !(math.Vec2{X: c.Width, Y: c.Height}).IsFinite() {
			r.skipped++
			r.log.Debug("skipping cube with non-finite placement", zap.Int("cube", c.ID))
			continue
		}
		switch c.Mode {
		case scene.OnePoint:
			r.drawOnePoint(f, c)
		case scene.TwoPoint:
			r.drawTwoPoint(f, c)
		}
	}
	for _, vp := range r.store.VanishingPoints() {
		r.drawVanishingPoint(f, vp)
	}
}

func (r *Renderer) hovering(ids ...string) bool {
	for _, id := range ids {
		if r.store.IsHovering(id) {
			return true
		}
	}
	return false
}

func (r *Renderer) dragging(ids ...string) bool {
	for _, id := range ids {
		if r.store.IsDragging(id) {
			return true
		}
	}
	return false
}

// pick applies the drag > hover > default precedence.
func pick(drag, hover bool) Color {
	switch {
	case drag:
		return ColorDragging
	case hover:
		return ColorHover
	}
	return ColorFore
}

func (r *Renderer) vanishingPoint(id int) (math.Vec2, bool) {
	vp, ok := r.store.VanishingPoint(id)
	if !ok {
		return math.Vec2{}, false
	}
	return perspective.VanishingPointCoords(vp.PosX, r.store.HorizonY()), true
}

// line strokes seg unless an endpoint is NaN or infinite.
func (r *Renderer) line(f frame, seg perspective.Segment) {
	if !seg.A.IsFinite() || !seg.B.IsFinite() {
		r.skipped++
		r.log.Debug("skipping non-finite segment",
			zap.Float64("ax", seg.A.X), zap.Float64("ay", seg.A.Y),
			zap.Float64("bx", seg.B.X), zap.Float64("by", seg.B.Y))
		return
	}
	f.s.StrokeLine(seg.A.X, seg.A.Y, seg.B.X, seg.B.Y)
}

func (r *Renderer) lines(f frame, segs []perspective.Segment) {
	for _, seg := range segs {
		r.line(f, seg)
	}
}

func finite(p perspective.Polygon) bool {
	for _, v := range p {
		if !v.IsFinite() {
			return false
		}
	}
	return true
}

// hitArea keeps the finite faces of a box.
func hitArea(faces []perspective.Polygon) hitbox.PathSet {
	ps := make(hitbox.PathSet, 0, len(faces))
	for _, face := range faces {
		if finite(face) {
			ps = append(ps, hitbox.Polygon(face))
		}
	}
	return ps
}

func (r *Renderer) drawHorizon(f frame) {
	f.s.Save()
	defer f.s.Restore()

	w, _ := f.s.Size()
	y := r.store.HorizonY()
	f.s.SetStrokeColor(pick(r.dragging(HorizonID), r.hovering(HorizonID)))
	r.line(f, perspective.Segment{A: math.Vec2{X: 0, Y: y}, B: math.Vec2{X: w, Y: y}})

	band := r.opts.HandleSize
	f.boxes.Add(hitbox.Region{
		ID:     HorizonID,
		Shape:  hitbox.Rect{X: 0, Y: y - band/2, W: w, H: band},
		Action: hitbox.Action{Kind: hitbox.KindHorizon, Draggable: true},
	})
}

func (r *Renderer) drawVanishingPoint(f frame, vp scene.VanishingPoint) {
	f.s.Save()
	defer f.s.Restore()

	id := VanishingPointID(vp.ID)
	p := perspective.VanishingPointCoords(vp.PosX, r.store.HorizonY())
	if !p.IsFinite() {
		r.skipped++
		r.log.Debug("skipping non-finite vanishing point", zap.Int("id", vp.ID))
		return
	}
	f.s.SetFillColor(pick(r.dragging(id), r.hovering(id)))
	f.s.FillDot(p.X, p.Y, r.opts.DotRadius)

	f.boxes.Add(hitbox.Region{
		ID:     id,
		Shape:  hitbox.CenteredRect(p.X, p.Y, r.opts.HandleSize),
		Action: hitbox.Action{Kind: hitbox.KindVanishingPoint, Target: vp.ID, Draggable: true},
	})
}

// cubeStyle is the stroke state shared by both cube kinds.
type cubeStyle struct {
	guide, edge Color
	highlight   bool
}

func (r *Renderer) cubeStyle(c scene.Cube) cubeStyle {
	body, handle, btn := CubeID(c.ID), CubeHandleID(c.ID), CubeButtonID(c.ID)
	hover := r.hovering(body, handle, btn)
	drag := r.dragging(body, handle)

	st := cubeStyle{guide: ColorSubtle, edge: pick(drag, hover), highlight: hover || drag}
	if hover {
		st.guide = ColorHoverSubtle
	}
	if r.hovering(ClearID) {
		st.edge = ColorRed
	}
	return st
}

func (r *Renderer) drawOnePoint(f frame, c scene.Cube) {
	vp, ok := r.vanishingPoint(c.VanishingPoints[0])
	if !ok {
		r.log.Warn("cube references missing vanishing point", zap.Int("cube", c.ID))
		return
	}

	f.s.Save()
	defer f.s.Restore()

	box := perspective.OnePointCube(c.X, c.Y, c.Width, c.Height, r.opts.Depth, vp)
	st := r.cubeStyle(c)

	if st.highlight {
		f.s.SetFillColor(st.edge.WithAlpha(0.12))
		f.s.FillPolygon(box.Faces()[0])
	}

	f.s.SetStrokeColor(st.guide)
	r.lines(f, box.Guides)

	f.s.SetStrokeColor(st.edge)
	f.s.StrokeRect(c.X, c.Y, c.Width, c.Height)
	// depth edges; the front face is the rect above
	r.lines(f, box.Edges[4:8])
	back := perspective.Polygon{box.Back[0], box.Back[1], box.Back[3], box.Back[2]}
	if finite(back) {
		f.s.StrokePolygon(back)
	} else {
		r.lines(f, box.Edges[8:])
	}

	r.registerCube(f, c, hitArea(box.Faces()))
}

func (r *Renderer) drawTwoPoint(f frame, c scene.Cube) {
	vp1, ok1 := r.vanishingPoint(c.VanishingPoints[0])
	vp2, ok2 := r.vanishingPoint(c.VanishingPoints[1])
	if !ok1 || !ok2 {
		r.log.Warn("cube references missing vanishing point", zap.Int("cube", c.ID))
		return
	}

	f.s.Save()
	defer f.s.Restore()

	st := r.cubeStyle(c)
	box, err := perspective.TwoPointCube(c.X, c.Y, c.Height, r.opts.Depth, vp1, vp2)
	if err != nil {
		// Only the near edge can be drawn; keep it draggable.
		r.log.Debug("two-point construction skipped", zap.Int("cube", c.ID), zap.Error(err))
		f.s.SetStrokeColor(st.edge)
		f.s.StrokeLine(c.X, c.Y, c.X, c.Y+c.Height)
		r.registerCube(f, c, nil)
		return
	}

	if st.highlight {
		f.s.SetFillColor(st.edge.WithAlpha(0.12))
		faces := box.Faces()
		f.s.FillPolygon(faces[0])
		f.s.FillPolygon(faces[1])
	}

	f.s.SetStrokeColor(st.guide)
	r.lines(f, box.Guides)

	f.s.SetStrokeColor(st.edge)
	r.lines(f, box.Edges)

	r.registerCube(f, c, hitArea(box.Faces()))
}

// registerCube adds the body region, then the handle dot on top of it at
// the cube's anchor corner. Clicking the body toggles its projection and
// dragging it moves the cube.
func (r *Renderer) registerCube(f frame, c scene.Cube, body hitbox.PathSet) {
	if len(body) > 0 {
		f.boxes.Add(hitbox.Region{
			ID:     CubeID(c.ID),
			Shape:  body,
			Action: hitbox.Action{Kind: hitbox.KindCube, Target: c.ID, Clickable: true, Draggable: true},
		})
	}

	handle := CubeHandleID(c.ID)
	f.s.SetFillColor(pick(r.dragging(handle), r.hovering(handle, CubeButtonID(c.ID))))
	f.s.FillDot(c.X, c.Y, r.opts.DotRadius)
	f.boxes.Add(hitbox.Region{
		ID:     handle,
		Shape:  hitbox.CenteredRect(c.X, c.Y, r.opts.HandleSize),
		Action: hitbox.Action{Kind: hitbox.KindCubeHandle, Target: c.ID, Draggable: true},
	})
}
