// Package scene owns the application state: vanishing points, cubes, the
// horizon, canvas size and pointer interaction state.
//
// State is private to Store. Every change goes through Store.apply, which
// runs the registered handlers around the mutation: all Before callbacks
// in registration order, the mutation, then all After callbacks in
// reverse registration order.
package scene

import (
	"slices"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"github.com/Faultbox/perspective-toy/internal/logger"
)

// Handler observes mutations. Either callback may be nil.
// Callbacks receive a copy of the state; changing it has no effect.
type Handler struct {
	ID     string
	Before func(State)
	After  func(State)
}

// Options configures a new Store.
type Options struct {
	HorizonY     float64
	CanvasWidth  float64
	CanvasHeight float64
}

// Store is the single source of truth for the scene.
type Store struct {
	state    State
	handlers []Handler
	lastID   int
	log      *zap.Logger
}

// NewStore creates a store with an empty scene.
func NewStore(opts Options) *Store {
	s := &Store{
		state: newState(),
		log:   logger.Named("scene"),
	}
	s.state.HorizonY = opts.HorizonY
	s.state.CanvasWidth = opts.CanvasWidth
	s.state.CanvasHeight = opts.CanvasHeight
	return s
}

// AddHandler registers h. A handler with the same id is replaced and the
// new one moves to the end of the order.
func (s *Store) AddHandler(h Handler) {
	s.RemoveHandler(h.ID)
	s.handlers = append(s.handlers, h)
}

// RemoveHandler unregisters the handler with the given id.
func (s *Store) RemoveHandler(id string) {
	s.handlers = slices.DeleteFunc(s.handlers, func(h Handler) bool {
		return h.ID == id
	})
}

// apply is the only path that mutates state.
func (s *Store) apply(fn func(*State)) {
	handlers := slices.Clone(s.handlers)

	if hasBefore(handlers) {
		snap := s.Snapshot()
		for _, h := range handlers {
			if h.Before != nil {
				h.Before(snap)
			}
		}
	}

	fn(&s.state)

	if hasAfter(handlers) {
		snap := s.Snapshot()
		for i := len(handlers) - 1; i >= 0; i-- {
			if h := handlers[i]; h.After != nil {
				h.After(snap)
			}
		}
	}
}

func hasBefore(hs []Handler) bool {
	return slices.ContainsFunc(hs, func(h Handler) bool { return h.Before != nil })
}

func hasAfter(hs []Handler) bool {
	return slices.ContainsFunc(hs, func(h Handler) bool { return h.After != nil })
}

func (s *Store) nextID() int {
	s.lastID++
	return s.lastID
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	var out State
	if err := copier.CopyWithOption(&out, &s.state, copier.Option{DeepCopy: true}); err != nil {
		s.log.Error("state snapshot failed", zap.Error(err))
		return newState()
	}
	if out.VanishingPoints == nil {
		out.VanishingPoints = make(map[int]VanishingPoint)
	}
	if out.Cubes == nil {
		out.Cubes = make(map[int]Cube)
	}
	if out.Hovered == nil {
		out.Hovered = make(map[string]bool)
	}
	return out
}

// HorizonY returns the Y coordinate shared by every vanishing point.
func (s *Store) HorizonY() float64 {
	return s.state.HorizonY
}

// CanvasSize returns the drawing surface size last reported.
func (s *Store) CanvasSize() (w, h float64) {
	return s.state.CanvasWidth, s.state.CanvasHeight
}

// VanishingPoint looks up a vanishing point by id.
func (s *Store) VanishingPoint(id int) (VanishingPoint, bool) {
	vp, ok := s.state.VanishingPoints[id]
	return vp, ok
}

// VanishingPoints returns every vanishing point ordered by id.
func (s *Store) VanishingPoints() []VanishingPoint {
	out := make([]VanishingPoint, 0, len(s.state.VanishingPoints))
	for _, vp := range s.state.VanishingPoints {
		out = append(out, vp)
	}
	slices.SortFunc(out, func(a, b VanishingPoint) int { return a.ID - b.ID })
	return out
}

// Cube looks up a cube by id.
func (s *Store) Cube(id int) (Cube, bool) {
	c, ok := s.state.Cubes[id]
	if !ok {
		return Cube{}, false
	}
	c.VanishingPoints = slices.Clone(c.VanishingPoints)
	return c, true
}

// Cubes returns every cube ordered by id.
func (s *Store) Cubes() []Cube {
	out := make([]Cube, 0, len(s.state.Cubes))
	for _, c := range s.state.Cubes {
		c.VanishingPoints = slices.Clone(c.VanishingPoints)
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Cube) int { return a.ID - b.ID })
	return out
}

// IsHovering reports whether the region id is hovered.
func (s *Store) IsHovering(id string) bool {
	return s.state.Hovered[id]
}

// HoveredIDs returns the hovered region ids in sorted order.
func (s *Store) HoveredIDs() []string {
	out := make([]string, 0, len(s.state.Hovered))
	for id := range s.state.Hovered {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// IsDragging reports whether the region id is the current drag target.
func (s *Store) IsDragging(id string) bool {
	return s.state.Dragging && s.state.DragTarget == id
}

// Dragging reports whether a drag session is active and its target id.
func (s *Store) Dragging() (string, bool) {
	return s.state.DragTarget, s.state.Dragging
}
