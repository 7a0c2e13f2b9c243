package input

import (
	"testing"

	"github.com/Faultbox/perspective-toy/internal/engine/raster"
	"github.com/Faultbox/perspective-toy/internal/hitbox"
	"github.com/Faultbox/perspective-toy/internal/render"
	"github.com/Faultbox/perspective-toy/internal/scene"
)

func setup() (*scene.Store, *hitbox.Registry, *Router) {
	store := scene.NewStore(scene.Options{HorizonY: 400, CanvasWidth: 800, CanvasHeight: 800})
	boxes := hitbox.NewRegistry()
	return store, boxes, New(store, boxes)
}

func addHorizon(boxes *hitbox.Registry, y float64) {
	boxes.Add(hitbox.Region{
		ID:     "horizon",
		Shape:  hitbox.Rect{X: 0, Y: y - 5, W: 800, H: 10},
		Action: hitbox.Action{Kind: hitbox.KindHorizon, Draggable: true},
	})
}

func addVanishingPoint(boxes *hitbox.Registry, vp scene.VanishingPoint, y float64) string {
	id := render.VanishingPointID(vp.ID)
	boxes.Add(hitbox.Region{
		ID:     id,
		Shape:  hitbox.CenteredRect(vp.PosX, y, 10),
		Action: hitbox.Action{Kind: hitbox.KindVanishingPoint, Target: vp.ID, Draggable: true},
	})
	return id
}

func addCubeBody(boxes *hitbox.Registry, c scene.Cube) string {
	id := render.CubeID(c.ID)
	boxes.Add(hitbox.Region{
		ID:     id,
		Shape:  hitbox.Rect{X: c.X, Y: c.Y, W: c.Width, H: c.Height},
		Action: hitbox.Action{Kind: hitbox.KindCube, Target: c.ID, Clickable: true, Draggable: true},
	})
	return id
}

func addButton(boxes *hitbox.Registry, id string, x float64, a hitbox.Action) {
	a.Clickable = true
	boxes.Add(hitbox.Region{ID: id, Shape: hitbox.Rect{X: x, Y: 10, W: 30, H: 20}, Action: a})
}

func TestDragVanishingPoint(t *testing.T) {
	store, boxes, r := setup()
	vp := store.AddVanishingPoint(400)
	addHorizon(boxes, 400)
	id := addVanishingPoint(boxes, vp, 400)

	r.PointerDown(400, 400)
	target, dragging := store.Dragging()
	if !dragging || target != id {
		t.Fatalf("Dragging() = %q, %v; want %q, true", target, dragging, id)
	}

	r.PointerMove(410, 395, 10, -5)
	got, _ := store.VanishingPoint(vp.ID)
	if got.PosX != 410 {
		t.Errorf("PosX = %v, want 410", got.PosX)
	}
	if store.HorizonY() != 400 {
		t.Errorf("horizon moved to %v", store.HorizonY())
	}

	r.PointerUp(410, 395)
	if _, dragging := store.Dragging(); dragging {
		t.Error("drag session still active after release")
	}
}

func TestDragHorizon(t *testing.T) {
	store, boxes, r := setup()
	addHorizon(boxes, 400)

	r.PointerDown(100, 402)
	if !store.IsDragging("horizon") {
		t.Fatal("horizon drag not started")
	}
	r.PointerMove(100, 350, 0, -52)
	if store.HorizonY() != 350 {
		t.Errorf("HorizonY() = %v, want 350", store.HorizonY())
	}
	r.PointerUp(100, 350)
	if store.IsDragging("horizon") {
		t.Error("horizon still dragging")
	}
}

func TestClickFiresOnRelease(t *testing.T) {
	store, boxes, r := setup()
	addButton(boxes, render.AddCubeID, 10, hitbox.Action{Kind: hitbox.KindAddCube})

	r.PointerDown(20, 20)
	if _, dragging := store.Dragging(); dragging {
		t.Fatal("click-only region started a drag")
	}
	if n := len(store.Cubes()); n != 0 {
		t.Fatalf("click fired on press: %d cubes", n)
	}

	r.PointerUp(20, 20)
	if n := len(store.Cubes()); n != 1 {
		t.Errorf("len(Cubes()) = %d, want 1", n)
	}
}

func TestNoOpOnEmptySpace(t *testing.T) {
	store, _, r := setup()
	calls := 0
	store.AddHandler(scene.Handler{ID: "count", After: func(scene.State) { calls++ }})

	r.PointerDown(5, 5)
	r.PointerMove(6, 6, 1, 1)
	r.PointerUp(6, 6)

	if calls != 0 {
		t.Errorf("%d mutations for gestures on empty space", calls)
	}
}

func TestClickDragRegionWithinDeadZoneClicks(t *testing.T) {
	store, boxes, r := setup()
	c := store.AddDefaultCube()
	addCubeBody(boxes, c)

	x, y := c.X+10, c.Y+10
	r.PointerDown(x, y)
	if _, dragging := store.Dragging(); dragging {
		t.Fatal("press on click+drag region should not start a drag yet")
	}
	r.PointerMove(x+2, y+1, 2, 1)
	r.PointerUp(x+2, y+1)

	got, _ := store.Cube(c.ID)
	if got.Mode != scene.TwoPoint {
		t.Errorf("mode = %v, want 2p after click", got.Mode)
	}
	if got.X != c.X || got.Y != c.Y {
		t.Errorf("cube moved to (%v, %v)", got.X, got.Y)
	}
}

func TestClickDragRegionPastDeadZoneDrags(t *testing.T) {
	store, boxes, r := setup()
	c := store.AddDefaultCube()
	id := addCubeBody(boxes, c)

	x, y := c.X+10, c.Y+10
	r.PointerDown(x, y)
	r.PointerMove(x+3, y, 3, 0)
	if _, dragging := store.Dragging(); dragging {
		t.Fatal("drag started inside the dead zone")
	}
	r.PointerMove(x+10, y-2, 7, -2)
	if !store.IsDragging(id) {
		t.Fatal("drag not started past the dead zone")
	}
	got, _ := store.Cube(c.ID)
	if got.X != c.X+10 || got.Y != c.Y-2 {
		t.Errorf("after promotion cube at (%v, %v), want (%v, %v)", got.X, got.Y, c.X+10, c.Y-2)
	}

	r.PointerMove(x+15, y-2, 5, 0)
	got, _ = store.Cube(c.ID)
	if got.X != c.X+15 {
		t.Errorf("X = %v, want %v", got.X, c.X+15)
	}

	r.PointerUp(x+15, y-2)
	got, _ = store.Cube(c.ID)
	if got.Mode != scene.OnePoint {
		t.Error("release after a drag must not click")
	}
}

func TestPressedRegionFollowsRegistry(t *testing.T) {
	t.Run("removed before promotion", func(t *testing.T) {
		store, boxes, r := setup()
		c := store.AddDefaultCube()
		addCubeBody(boxes, c)

		x, y := c.X+10, c.Y+10
		r.PointerDown(x, y)
		boxes.Clear()
		r.PointerMove(x+10, y, 10, 0)

		if _, dragging := store.Dragging(); dragging {
			t.Error("drag started on a region that is no longer drawn")
		}
		if got, _ := store.Cube(c.ID); got.X != c.X {
			t.Errorf("cube moved to X = %v", got.X)
		}
	})

	t.Run("redrawn before promotion", func(t *testing.T) {
		store, boxes, r := setup()
		c := store.AddDefaultCube()
		id := addCubeBody(boxes, c)

		x, y := c.X+10, c.Y+10
		r.PointerDown(x, y)
		boxes.Clear()
		addCubeBody(boxes, c)
		r.PointerMove(x+10, y, 10, 0)

		if !store.IsDragging(id) {
			t.Fatal("drag not started on the redrawn region")
		}
		if got, _ := store.Cube(c.ID); got.X != c.X+10 {
			t.Errorf("X = %v, want %v", got.X, c.X+10)
		}
		if r.targetGen != boxes.Generation() {
			t.Errorf("targetGen = %d, want %d", r.targetGen, boxes.Generation())
		}
	})
}

func TestSetDragDeadZone(t *testing.T) {
	store, boxes, r := setup()
	c := store.AddDefaultCube()
	addCubeBody(boxes, c)
	r.SetDragDeadZone(0)

	r.PointerDown(c.X+10, c.Y+10)
	r.PointerMove(c.X+11, c.Y+10, 1, 0)
	if _, dragging := store.Dragging(); !dragging {
		t.Error("any motion should drag with a zero dead zone")
	}
}

func TestHoverFollowsTopmost(t *testing.T) {
	store, boxes, r := setup()
	vp := store.AddVanishingPoint(400)
	addHorizon(boxes, 400)
	id := addVanishingPoint(boxes, vp, 400)

	r.PointerMove(100, 400, 0, 0)
	if !store.IsHovering("horizon") {
		t.Fatal("horizon not hovered")
	}

	r.PointerMove(401, 400, 301, 0)
	if got := store.HoveredIDs(); len(got) != 1 || got[0] != id {
		t.Errorf("HoveredIDs() = %v, want [%s]", got, id)
	}

	r.PointerMove(100, 100, -301, -300)
	if got := store.HoveredIDs(); len(got) != 0 {
		t.Errorf("HoveredIDs() = %v, want none", got)
	}
}

func TestStaleDragTargetIsReResolved(t *testing.T) {
	store, boxes, r := setup()
	vp := store.AddVanishingPoint(400)
	addVanishingPoint(boxes, vp, 400)

	r.PointerDown(400, 400)

	// A new frame registers the same entity again.
	boxes.Clear()
	addVanishingPoint(boxes, vp, 400)
	r.PointerMove(405, 400, 5, 0)
	if got, _ := store.VanishingPoint(vp.ID); got.PosX != 405 {
		t.Errorf("PosX = %v, want 405", got.PosX)
	}

	// The next frame no longer draws it.
	boxes.Clear()
	r.PointerMove(410, 400, 5, 0)
	if got, _ := store.VanishingPoint(vp.ID); got.PosX != 405 {
		t.Errorf("stale target moved: PosX = %v", got.PosX)
	}
	if _, dragging := store.Dragging(); dragging {
		t.Error("drag should end when its target disappears")
	}
}

func TestDragRemovedCubeStops(t *testing.T) {
	store, boxes, r := setup()
	c := store.AddDefaultCube()
	boxes.Add(hitbox.Region{
		ID:     render.CubeHandleID(c.ID),
		Shape:  hitbox.CenteredRect(c.X, c.Y, 10),
		Action: hitbox.Action{Kind: hitbox.KindCubeHandle, Target: c.ID, Draggable: true},
	})

	r.PointerDown(c.X, c.Y)
	if err := store.RemoveCube(c.ID); err != nil {
		t.Fatal(err)
	}
	r.PointerMove(c.X+5, c.Y, 5, 0)

	if _, dragging := store.Dragging(); dragging {
		t.Error("drag should end when the cube is gone")
	}
}

func TestCubeButtonAndClear(t *testing.T) {
	store, boxes, r := setup()
	c := store.AddDefaultCube()
	addButton(boxes, render.CubeButtonID(c.ID), 50, hitbox.Action{Kind: hitbox.KindCubeButton, Target: c.ID})
	addButton(boxes, render.ClearID, 100, hitbox.Action{Kind: hitbox.KindClear})

	r.PointerUp(60, 20)
	if got, _ := store.Cube(c.ID); got.Mode != scene.TwoPoint {
		t.Fatalf("mode = %v, want 2p", got.Mode)
	}
	r.PointerUp(60, 20)
	if _, ok := store.Cube(c.ID); ok {
		t.Fatal("second click should remove the cube")
	}

	store.AddDefaultCube()
	store.AddVanishingPoint(10)
	r.PointerUp(110, 20)
	if len(store.Cubes()) != 0 || len(store.VanishingPoints()) != 0 {
		t.Error("CLR should remove every cube and vanishing point")
	}
}

func TestRoutesRenderedRegions(t *testing.T) {
	store, boxes, r := setup()
	renderer, err := render.New(raster.New(800, 800), store, boxes, render.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	renderer.Render()

	add, ok := boxes.Get(render.AddCubeID)
	if !ok {
		t.Fatal("ADD button not registered")
	}
	rect := add.Shape.(hitbox.Rect)
	cx, cy := rect.X+rect.W/2, rect.Y+rect.H/2

	r.PointerDown(cx, cy)
	r.PointerUp(cx, cy)
	if n := len(store.Cubes()); n != 1 {
		t.Fatalf("len(Cubes()) = %d after clicking ADD", n)
	}

	renderer.Render()
	vp := store.VanishingPoints()[0]
	r.PointerDown(vp.PosX, 400)
	r.PointerMove(vp.PosX+10, 395, 10, -5)
	r.PointerUp(vp.PosX+10, 395)
	if got, _ := store.VanishingPoint(vp.ID); got.PosX != vp.PosX+10 {
		t.Errorf("PosX = %v, want %v", got.PosX, vp.PosX+10)
	}
}
