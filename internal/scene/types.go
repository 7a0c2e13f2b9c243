package scene

import (
	"errors"
	"fmt"
)

// Projection is the perspective mode of a cube.
type Projection int

const (
	OnePoint Projection = iota + 1
	TwoPoint
)

func (p Projection) String() string {
	switch p {
	case OnePoint:
		return "1p"
	case TwoPoint:
		return "2p"
	default:
		return fmt.Sprintf("Projection(%d)", int(p))
	}
}

// VanishingPoints returns how many vanishing points the mode needs.
func (p Projection) VanishingPoints() int {
	switch p {
	case OnePoint:
		return 1
	case TwoPoint:
		return 2
	default:
		return 0
	}
}

var (
	ErrUnknownCube           = errors.New("scene: unknown cube")
	ErrUnknownVanishingPoint = errors.New("scene: unknown vanishing point")
	ErrInvalidCube           = errors.New("scene: invalid cube")
)

// VanishingPoint sits on the shared horizon at X = PosX.
type VanishingPoint struct {
	ID   int
	PosX float64
}

// Cube is a box drawn in one- or two-point perspective.
// X, Y is the top-left corner of the front face (one-point) or the top of
// the near edge (two-point).
type Cube struct {
	ID              int
	Mode            Projection
	X, Y            float64
	Width, Height   float64
	VanishingPoints []int
}

// State is the whole scene. Values handed out by the store are copies.
type State struct {
	VanishingPoints map[int]VanishingPoint
	Cubes           map[int]Cube
	HorizonY        float64
	CanvasWidth     float64
	CanvasHeight    float64
	Dragging        bool
	DragTarget      string
	Hovered         map[string]bool
}

func newState() State {
	return State{
		VanishingPoints: make(map[int]VanishingPoint),
		Cubes:           make(map[int]Cube),
		Hovered:         make(map[string]bool),
	}
}

// validateCube checks the vanishing point count against the mode and that
// every referenced vanishing point exists.
func (s *State) validateCube(c Cube) error {
	want := c.Mode.VanishingPoints()
	if want == 0 {
		return fmt.Errorf("%w: mode %v", ErrInvalidCube, c.Mode)
	}
	if len(c.VanishingPoints) != want {
		return fmt.Errorf("%w: %v needs %d vanishing points, got %d",
			ErrInvalidCube, c.Mode, want, len(c.VanishingPoints))
	}
	for _, id := range c.VanishingPoints {
		if _, ok := s.VanishingPoints[id]; !ok {
			return fmt.Errorf("%w: vanishing point %d: %w", ErrInvalidCube, id, ErrUnknownVanishingPoint)
		}
	}
	return nil
}

// referenced reports whether any cube other than skip uses vanishing point id.
func (s *State) referenced(id, skip int) bool {
	for _, c := range s.Cubes {
		if c.ID == skip {
			continue
		}
		for _, ref := range c.VanishingPoints {
			if ref == id {
				return true
			}
		}
	}
	return false
}

// releaseVanishingPoints deletes the given vanishing points unless a cube
// other than owner still references them.
func (s *State) releaseVanishingPoints(owner int, ids []int) {
	for _, id := range ids {
		if !s.referenced(id, owner) {
			delete(s.VanishingPoints, id)
		}
	}
}
