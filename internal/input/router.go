// Package input turns pointer events into store operations by hit-testing
// them against the regions registered by the last render.
package input

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/perspective-toy/internal/hitbox"
	"github.com/Faultbox/perspective-toy/internal/logger"
	"github.com/Faultbox/perspective-toy/internal/scene"
)

// DefaultDragDeadZone is how far, in pixels, the pointer must travel
// after pressing a clickable region before the press becomes a drag.
const DefaultDragDeadZone = 4

// Router dispatches pointer events. It must be driven from the same
// goroutine that renders.
type Router struct {
	store    *scene.Store
	boxes    *hitbox.Registry
	deadZone float64
	log      *zap.Logger

	// pressed is a region that accepts both click and drag, waiting to
	// see which one the gesture turns out to be.
	pressed *press

	target    hitbox.Region
	targetGen uint64
}

type press struct {
	region hitbox.Region
	gen    uint64
	x, y   float64
}

// New creates a router over store and the region registry filled by the renderer.
func New(store *scene.Store, boxes *hitbox.Registry) *Router {
	return &Router{
		store:    store,
		boxes:    boxes,
		deadZone: DefaultDragDeadZone,
		log:      logger.Named("input"),
	}
}

// SetDragDeadZone changes the click/drag threshold. Negative values are
// treated as zero.
func (r *Router) SetDragDeadZone(px float64) {
	r.deadZone = max(px, 0)
}

// PointerDown handles a button press at (x, y).
func (r *Router) PointerDown(x, y float64) {
	region, ok := r.boxes.QueryTopmost(x, y)
	if !ok || !region.Action.Draggable {
		return
	}
	if region.Action.Clickable {
		r.pressed = &press{region: region, gen: r.boxes.Generation(), x: x, y: y}
		return
	}
	r.startDrag(region)
}

// PointerUp handles a button release at (x, y). It ends an active drag,
// or else clicks the topmost region under the pointer.
func (r *Router) PointerUp(x, y float64) {
	r.pressed = nil
	if _, dragging := r.store.Dragging(); dragging {
		r.store.StopDragging()
		return
	}

	region, ok := r.boxes.QueryTopmost(x, y)
	if !ok || !region.Action.Clickable {
		return
	}
	r.click(region.Action)
}

// PointerMove handles motion to (x, y) by (dx, dy) since the last event.
func (r *Router) PointerMove(x, y, dx, dy float64) {
	if p := r.pressed; p != nil {
		if gomath.Hypot(x-p.x, y-p.y) > r.deadZone {
			r.pressed = nil
			if region, ok := r.resolvePress(p); ok {
				r.startDrag(region)
				// Catch up on the motion swallowed by the dead zone.
				r.drag(x, y, x-p.x, y-p.y)
			} else {
				r.log.Debug("pressed region no longer drawn", zap.String("id", p.region.ID))
			}
		}
	} else if _, dragging := r.store.Dragging(); dragging {
		r.drag(x, y, dx, dy)
	}

	r.updateHover(x, y)
}

// resolvePress returns the pressed region as it exists in the current
// registry generation.
func (r *Router) resolvePress(p *press) (hitbox.Region, bool) {
	if p.gen == r.boxes.Generation() {
		return p.region, true
	}
	return r.boxes.Get(p.region.ID)
}

func (r *Router) startDrag(region hitbox.Region) {
	r.target = region
	r.targetGen = r.boxes.Generation()
	r.store.StartDragging(region.ID)
}

// resolveTarget returns the drag target as it exists in the current
// registry generation.
func (r *Router) resolveTarget() (hitbox.Region, bool) {
	if r.targetGen == r.boxes.Generation() {
		return r.target, true
	}
	id, _ := r.store.Dragging()
	region, ok := r.boxes.Get(id)
	if !ok {
		return hitbox.Region{}, false
	}
	r.target = region
	r.targetGen = r.boxes.Generation()
	return region, true
}

func (r *Router) drag(x, y, dx, dy float64) {
	region, ok := r.resolveTarget()
	if !ok {
		id, _ := r.store.Dragging()
		r.log.Debug("drag target no longer drawn", zap.String("id", id))
		r.store.StopDragging()
		return
	}

	a := region.Action
	var err error
	switch a.Kind {
	case hitbox.KindHorizon:
		r.store.SetHorizon(y)
	case hitbox.KindVanishingPoint:
		err = r.store.MoveVanishingPoint(a.Target, dx)
	case hitbox.KindCube, hitbox.KindCubeHandle:
		err = r.store.TranslateCube(a.Target, dx, dy)
	}
	if err != nil {
		r.log.Debug("drag target gone", zap.Stringer("kind", a.Kind), zap.Int("target", a.Target), zap.Error(err))
		r.store.StopDragging()
	}
}

func (r *Router) click(a hitbox.Action) {
	var err error
	switch a.Kind {
	case hitbox.KindAddCube:
		r.store.AddDefaultCube()
	case hitbox.KindCubeButton:
		err = r.store.CycleCube(a.Target)
	case hitbox.KindCube:
		err = r.store.ToggleCubeMode(a.Target)
	case hitbox.KindClear:
		r.store.Clear()
	}
	if err != nil {
		r.log.Debug("click target gone", zap.Stringer("kind", a.Kind), zap.Int("target", a.Target), zap.Error(err))
	}
}

// updateHover hovers the topmost region under the pointer. Hover is
// exclusive, so hovering it clears every other id.
func (r *Router) updateHover(x, y float64) {
	hits := r.boxes.Query(x, y)
	if len(hits) == 0 {
		for _, id := range r.store.HoveredIDs() {
			r.store.StopHovering(id)
		}
		return
	}
	top := hits[len(hits)-1]
	if !r.store.IsHovering(top.ID) {
		r.store.StartHovering(top.ID)
	}
}
