package scene

import (
	"fmt"
	gomath "math"
	"slices"

	"go.uber.org/zap"
)

// Default cube size cap, as a fraction of the canvas and in pixels.
const (
	maxDefaultCubeSize  = 100
	defaultCubeFraction = 5
)

// SetHorizon moves the horizon, and with it every vanishing point.
func (s *Store) SetHorizon(y float64) {
	s.apply(func(st *State) {
		st.HorizonY = y
	})
}

// SetCanvasSize records the drawing surface size. A horizon that falls
// outside the new height is moved to half height.
func (s *Store) SetCanvasSize(w, h float64) {
	s.apply(func(st *State) {
		st.CanvasWidth = w
		st.CanvasHeight = h
		if st.HorizonY < 0 || st.HorizonY > h {
			st.HorizonY = h / 2
		}
	})
}

// AddVanishingPoint allocates a free-standing vanishing point.
func (s *Store) AddVanishingPoint(posX float64) VanishingPoint {
	vp := VanishingPoint{ID: s.nextID(), PosX: posX}
	s.apply(func(st *State) {
		st.VanishingPoints[vp.ID] = vp
	})
	return vp
}

// UpdateVanishingPoint sets the X position of a vanishing point.
func (s *Store) UpdateVanishingPoint(id int, posX float64) error {
	if _, ok := s.state.VanishingPoints[id]; !ok {
		return fmt.Errorf("update %d: %w", id, ErrUnknownVanishingPoint)
	}
	s.apply(func(st *State) {
		vp := st.VanishingPoints[id]
		vp.PosX = posX
		st.VanishingPoints[id] = vp
	})
	return nil
}

// MoveVanishingPoint shifts a vanishing point along the horizon by dx.
func (s *Store) MoveVanishingPoint(id int, dx float64) error {
	vp, ok := s.state.VanishingPoints[id]
	if !ok {
		return fmt.Errorf("move %d: %w", id, ErrUnknownVanishingPoint)
	}
	return s.UpdateVanishingPoint(id, vp.PosX+dx)
}

// RemoveVanishingPoint deletes a vanishing point. Cubes that reference it
// are removed too, along with any of their other vanishing points that
// no remaining cube uses.
func (s *Store) RemoveVanishingPoint(id int) error {
	if _, ok := s.state.VanishingPoints[id]; !ok {
		return fmt.Errorf("remove %d: %w", id, ErrUnknownVanishingPoint)
	}
	s.apply(func(st *State) {
		delete(st.VanishingPoints, id)
		for cid, c := range st.Cubes {
			if slices.Contains(c.VanishingPoints, id) {
				delete(st.Cubes, cid)
				st.releaseVanishingPoints(cid, c.VanishingPoints)
			}
		}
	})
	s.log.Debug("vanishing point removed", zap.Int("id", id))
	return nil
}

// ClearVanishingPoints removes every vanishing point and therefore every cube.
func (s *Store) ClearVanishingPoints() {
	s.apply(func(st *State) {
		clear(st.VanishingPoints)
		clear(st.Cubes)
	})
}

// AddCube validates c, allocates its id and inserts it. The vanishing
// points it references must already exist.
func (s *Store) AddCube(c Cube) (Cube, error) {
	if err := s.state.validateCube(c); err != nil {
		return Cube{}, err
	}
	c.ID = s.nextID()
	c.VanishingPoints = slices.Clone(c.VanishingPoints)
	s.apply(func(st *State) {
		st.Cubes[c.ID] = c
	})
	return c, nil
}

// AddDefaultCube adds a one-point cube two thirds of the way down the
// canvas with a fresh vanishing point at the canvas centre.
func (s *Store) AddDefaultCube() Cube {
	w, h := s.state.CanvasWidth, s.state.CanvasHeight
	size := gomath.Min(maxDefaultCubeSize, gomath.Min(w/defaultCubeFraction, h/defaultCubeFraction))

	vp := VanishingPoint{ID: s.nextID(), PosX: w / 2}
	c := Cube{
		ID:              s.nextID(),
		Mode:            OnePoint,
		X:               w / 2,
		Y:               h / 3 * 2,
		Width:           size,
		Height:          size,
		VanishingPoints: []int{vp.ID},
	}
	s.apply(func(st *State) {
		st.VanishingPoints[vp.ID] = vp
		st.Cubes[c.ID] = c
	})
	s.log.Debug("cube added", zap.Int("id", c.ID), zap.Int("vp", vp.ID))
	return c
}

// UpdateCube replaces the cube with c.ID. Vanishing points the old cube
// used and the new one does not are released.
func (s *Store) UpdateCube(c Cube) error {
	old, ok := s.state.Cubes[c.ID]
	if !ok {
		return fmt.Errorf("update %d: %w", c.ID, ErrUnknownCube)
	}
	if err := s.state.validateCube(c); err != nil {
		return err
	}
	c.VanishingPoints = slices.Clone(c.VanishingPoints)
	s.apply(func(st *State) {
		st.Cubes[c.ID] = c
		var dropped []int
		for _, id := range old.VanishingPoints {
			if !slices.Contains(c.VanishingPoints, id) {
				dropped = append(dropped, id)
			}
		}
		st.releaseVanishingPoints(c.ID, dropped)
	})
	return nil
}

// MoveCube places a cube's anchor corner at (x, y).
func (s *Store) MoveCube(id int, x, y float64) error {
	if _, ok := s.state.Cubes[id]; !ok {
		return fmt.Errorf("move %d: %w", id, ErrUnknownCube)
	}
	s.apply(func(st *State) {
		c := st.Cubes[id]
		c.X, c.Y = x, y
		st.Cubes[id] = c
	})
	return nil
}

// TranslateCube shifts a cube by (dx, dy).
func (s *Store) TranslateCube(id int, dx, dy float64) error {
	c, ok := s.state.Cubes[id]
	if !ok {
		return fmt.Errorf("translate %d: %w", id, ErrUnknownCube)
	}
	return s.MoveCube(id, c.X+dx, c.Y+dy)
}

// SetCubeMode switches a cube's projection, allocating fresh vanishing
// points for the new mode and releasing the old ones.
func (s *Store) SetCubeMode(id int, mode Projection) error {
	c, ok := s.state.Cubes[id]
	if !ok {
		return fmt.Errorf("set mode %d: %w", id, ErrUnknownCube)
	}
	if mode.VanishingPoints() == 0 {
		return fmt.Errorf("%w: mode %v", ErrInvalidCube, mode)
	}
	if c.Mode == mode {
		return nil
	}

	w := s.state.CanvasWidth
	var fresh []VanishingPoint
	switch mode {
	case OnePoint:
		fresh = []VanishingPoint{{ID: s.nextID(), PosX: w / 2}}
	case TwoPoint:
		fresh = []VanishingPoint{
			{ID: s.nextID(), PosX: w / 3},
			{ID: s.nextID(), PosX: w / 3 * 2},
		}
	}

	old := c.VanishingPoints
	c.Mode = mode
	c.VanishingPoints = make([]int, 0, len(fresh))
	for _, vp := range fresh {
		c.VanishingPoints = append(c.VanishingPoints, vp.ID)
	}

	s.apply(func(st *State) {
		for _, vp := range fresh {
			st.VanishingPoints[vp.ID] = vp
		}
		st.Cubes[id] = c
		st.releaseVanishingPoints(id, old)
	})
	s.log.Debug("cube mode changed", zap.Int("id", id), zap.Stringer("mode", mode))
	return nil
}

// ToggleCubeMode swaps a cube between one-point and two-point projection.
func (s *Store) ToggleCubeMode(id int) error {
	c, ok := s.state.Cubes[id]
	if !ok {
		return fmt.Errorf("toggle %d: %w", id, ErrUnknownCube)
	}
	if c.Mode == OnePoint {
		return s.SetCubeMode(id, TwoPoint)
	}
	return s.SetCubeMode(id, OnePoint)
}

// CycleCube advances a cube through its button states: a one-point cube
// becomes two-point, a two-point cube is removed.
func (s *Store) CycleCube(id int) error {
	c, ok := s.state.Cubes[id]
	if !ok {
		return fmt.Errorf("cycle %d: %w", id, ErrUnknownCube)
	}
	if c.Mode == OnePoint {
		return s.SetCubeMode(id, TwoPoint)
	}
	return s.RemoveCube(id)
}

// RemoveCube deletes a cube and every vanishing point only it referenced.
func (s *Store) RemoveCube(id int) error {
	c, ok := s.state.Cubes[id]
	if !ok {
		return fmt.Errorf("remove %d: %w", id, ErrUnknownCube)
	}
	s.apply(func(st *State) {
		delete(st.Cubes, id)
		st.releaseVanishingPoints(id, c.VanishingPoints)
	})
	s.log.Debug("cube removed", zap.Int("id", id))
	return nil
}

// ClearCubes removes every cube and the vanishing points they used.
// Free-standing vanishing points stay.
func (s *Store) ClearCubes() {
	s.apply(func(st *State) {
		for id, c := range st.Cubes {
			delete(st.Cubes, id)
			for _, vp := range c.VanishingPoints {
				delete(st.VanishingPoints, vp)
			}
		}
	})
}

// Clear removes every cube and vanishing point.
func (s *Store) Clear() {
	s.apply(func(st *State) {
		clear(st.Cubes)
		clear(st.VanishingPoints)
	})
}

// StartDragging begins a drag session on region id.
func (s *Store) StartDragging(id string) {
	s.apply(func(st *State) {
		st.Dragging = true
		st.DragTarget = id
	})
}

// StopDragging ends the drag session, if any.
func (s *Store) StopDragging() {
	s.apply(func(st *State) {
		st.Dragging = false
		st.DragTarget = ""
	})
}

// StartHovering marks region id as hovered. At most one region is
// hovered at a time, so any other hovered id is cleared.
func (s *Store) StartHovering(id string) {
	s.apply(func(st *State) {
		clear(st.Hovered)
		st.Hovered[id] = true
	})
}

// StopHovering clears the hover mark on region id.
func (s *Store) StopHovering(id string) {
	if !s.state.Hovered[id] {
		return
	}
	s.apply(func(st *State) {
		delete(st.Hovered, id)
	})
}
