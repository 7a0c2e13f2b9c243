// Package hitbox keeps the per-frame set of interactive regions and
// answers which of them lie under the pointer.
//
// The registry is cleared and rebuilt on every render. Region ids are
// stable across frames only because the renderer derives them from the
// entity they belong to ("vp3", "cube7", ...), which keeps hover and drag
// state keyed by id meaningful from one frame to the next.
package hitbox

// Kind identifies which entity or control a region stands for.
type Kind int

const (
	KindNone Kind = iota
	KindHorizon
	KindVanishingPoint
	KindCube
	KindCubeHandle
	KindAddCube
	KindCubeButton
	KindClear
)

var kindNames = map[Kind]string{
	KindNone:           "none",
	KindHorizon:        "horizon",
	KindVanishingPoint: "vanishing_point",
	KindCube:           "cube",
	KindCubeHandle:     "cube_handle",
	KindAddCube:        "add_cube",
	KindCubeButton:     "cube_button",
	KindClear:          "clear",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Action describes what a region does when interacted with. The input
// router resolves Target by Kind and calls the matching store operation.
type Action struct {
	Kind      Kind
	Target    int
	Clickable bool
	Draggable bool
}

// Region is one interactive area of the current frame.
type Region struct {
	ID     string
	Shape  HitTest
	Action Action
}

// Contains reports whether the region's hit area accepts (x, y).
func (r Region) Contains(x, y float64) bool {
	return r.Shape != nil && r.Shape.Contains(x, y)
}

// Registry is an ordered set of regions with upsert-by-id semantics.
// Later regions are drawn on top of earlier ones.
type Registry struct {
	regions    []Region
	index      map[string]int
	generation uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		regions: make([]Region, 0, 32),
		index:   make(map[string]int),
	}
}

// Clear removes every region and starts a new generation.
func (r *Registry) Clear() {
	r.regions = r.regions[:0]
	clear(r.index)
	r.generation++
}

// Generation counts how many times the registry has been cleared.
// A region read in one generation must not be used after the next Clear.
func (r *Registry) Generation() uint64 {
	return r.generation
}

// Add inserts region, replacing any region with the same id.
// The replacement moves to the top of the z-order.
func (r *Registry) Add(region Region) {
	r.Remove(region.ID)
	r.index[region.ID] = len(r.regions)
	r.regions = append(r.regions, region)
}

// Remove deletes the region with the given id, if present.
func (r *Registry) Remove(id string) {
	ix, ok := r.index[id]
	if !ok {
		return
	}
	copy(r.regions[ix:], r.regions[ix+1:])
	r.regions[len(r.regions)-1] = Region{}
	r.regions = r.regions[:len(r.regions)-1]
	delete(r.index, id)
	for i := ix; i < len(r.regions); i++ {
		r.index[r.regions[i].ID] = i
	}
}

// Get returns the region with the given id.
func (r *Registry) Get(id string) (Region, bool) {
	ix, ok := r.index[id]
	if !ok {
		return Region{}, false
	}
	return r.regions[ix], true
}

// Len returns the number of regions.
func (r *Registry) Len() int {
	return len(r.regions)
}

// Query returns every region containing (x, y) in registration order.
func (r *Registry) Query(x, y float64) []Region {
	var hits []Region
	for _, region := range r.regions {
		if region.Contains(x, y) {
			hits = append(hits, region)
		}
	}
	return hits
}

// QueryTopmost returns the most recently added region containing (x, y).
func (r *Registry) QueryTopmost(x, y float64) (Region, bool) {
	for i := len(r.regions) - 1; i >= 0; i-- {
		if r.regions[i].Contains(x, y) {
			return r.regions[i], true
		}
	}
	return Region{}, false
}
