package scene

import "github.com/talgya/ski-resort/internal/world"

// Vec3 is a point in world space. Y is up.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// CellMesh is the sharp top face of one cell: six triangles fanning out from
// the center, three vertices each. The center sits at the cell's own height
// and each corner at the shared corner height, so neighbors meet without gaps.
type CellMesh [18]Vec3

// BuildCellMesh builds the top face of pos from the current grid.
func BuildCellMesh(g *world.Grid, pos world.HexCoord) CellMesh {
	cx, cz := world.AxialToPlanar(pos)
	h, _ := g.Height(pos)
	center := Vec3{X: cx, Y: float64(h), Z: cz}

	var corners [6]Vec3
	for i, c := range world.Corners {
		ox, oz := c.Offset()
		corners[i] = Vec3{X: cx + ox, Y: g.CornerHeight(pos, c), Z: cz + oz}
	}

	var m CellMesh
	for i := range corners {
		m[i*3] = center
		m[i*3+1] = corners[i]
		m[i*3+2] = corners[(i+1)%6]
	}
	return m
}

// Corners returns the six rim vertices of the mesh in corner order.
func (m CellMesh) Corners() [6]Vec3 {
	var out [6]Vec3
	for i := range out {
		out[i] = m[i*3+1]
	}
	return out
}
