package render

import "strconv"

// Region ids of the fixed controls.
const (
	HorizonID  = "horizon"
	AddCubeID  = "addCube"
	ClearID    = "clearCube"
	cubesLabel = "CUBES"
)

// VanishingPointID is the region id of a vanishing point dot.
func VanishingPointID(id int) string { return "vp" + strconv.Itoa(id) }

// CubeID is the region id of a cube body.
func CubeID(id int) string { return "cube" + strconv.Itoa(id) }

// CubeHandleID is the region id of a cube's drag handle.
func CubeHandleID(id int) string { return "cubeHandle" + strconv.Itoa(id) }

// CubeButtonID is the region id of a cube's header button.
func CubeButtonID(id int) string { return "cubeBtn" + strconv.Itoa(id) }
