package world

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
)

// Grid holds the complete terrain state: per-cell height, per-cell surface,
// and the registry of placed objects. The height and surface maps always
// share one key set.
type Grid struct {
	heights  map[HexCoord]int
	surfaces map[HexCoord]Surface
	objects  *Registry

	// Footprints resolves multi-cell structure footprints. Nil means every
	// structure covers only its anchor cell.
	Footprints FootprintSource

	Width  int       `json:"width"`
	Length int       `json:"length"`
	Config GenConfig `json:"config"`
}

// NewGrid creates an empty grid. Cells are added by Generate.
func NewGrid(width, length int, cfg GenConfig) *Grid {
	return &Grid{
		heights:    make(map[HexCoord]int),
		surfaces:   make(map[HexCoord]Surface),
		objects:    NewRegistry(),
		Width:      width,
		Length:     length,
		Config:     cfg,
		Footprints: cfg.Footprints,
	}
}

// setCell writes both maps so their key sets never diverge.
func (g *Grid) setCell(pos HexCoord, height int, surface Surface) {
	g.heights[pos] = height
	g.surfaces[pos] = surface
}

// HasCell reports whether pos is part of the grid.
func (g *Grid) HasCell(pos HexCoord) bool {
	_, ok := g.heights[pos]
	return ok
}

// Height returns the height of a cell.
func (g *Grid) Height(pos HexCoord) (int, bool) {
	h, ok := g.heights[pos]
	return h, ok
}

// Surface returns the surface of a cell. A cell with a height but no surface
// is reported as ErrIntegrity.
func (g *Grid) Surface(pos HexCoord) (Surface, error) {
	s, ok := g.surfaces[pos]
	if ok {
		return s, nil
	}
	if g.HasCell(pos) {
		return 0, fmt.Errorf("cell %v has a height but no surface: %w", pos, ErrIntegrity)
	}
	return 0, fmt.Errorf("surface of %v: %w", pos, ErrUnknownCell)
}

// CellCount returns the number of cells.
func (g *Grid) CellCount() int {
	return len(g.heights)
}

// Cells returns every cell coordinate ordered by q, then r.
func (g *Grid) Cells() []HexCoord {
	return slices.SortedFunc(maps.Keys(g.heights), compareCoords)
}

func compareCoords(a, b HexCoord) int {
	if c := cmp.Compare(a.Q, b.Q); c != 0 {
		return c
	}
	return cmp.Compare(a.R, b.R)
}

// Objects exposes the placed-object registry for read access.
func (g *Grid) Objects() *Registry {
	return g.objects
}

// Raise lifts a cell by one.
func (g *Grid) Raise(pos HexCoord) (Change, error) {
	h, ok := g.heights[pos]
	if !ok {
		return Change{}, fmt.Errorf("raise %v: %w", pos, ErrUnknownCell)
	}
	g.heights[pos] = h + 1
	return g.terrainChange(pos), nil
}

// Lower drops a cell by one. Fails with ErrBelowZero at height 0.
func (g *Grid) Lower(pos HexCoord) (Change, error) {
	h, ok := g.heights[pos]
	if !ok {
		return Change{}, fmt.Errorf("lower %v: %w", pos, ErrUnknownCell)
	}
	if h <= 0 {
		return Change{}, fmt.Errorf("lower %v at height %d: %w", pos, h, ErrBelowZero)
	}
	g.heights[pos] = h - 1
	return g.terrainChange(pos), nil
}

func (g *Grid) terrainChange(pos HexCoord) Change {
	return Change{Kind: ChangeTerrain, Cell: pos, Affected: g.neighborhood(pos)}
}

// neighborhood returns pos and its existing neighbors: every cell whose
// corner heights read the height of pos.
func (g *Grid) neighborhood(pos HexCoord) []HexCoord {
	cells := []HexCoord{pos}
	for _, n := range pos.Neighbors() {
		if g.HasCell(n) {
			cells = append(cells, n)
		}
	}
	return cells
}

// SetSurface switches a cell between Normal and Piste. Every other transition,
// including anything touching Water, fails with ErrSurfaceTransition.
func (g *Grid) SetSurface(pos HexCoord, desired Surface) (Change, error) {
	current, err := g.Surface(pos)
	if err != nil {
		return Change{}, err
	}
	allowed := (current == SurfaceNormal && desired == SurfacePiste) ||
		(current == SurfacePiste && desired == SurfaceNormal)
	if !allowed {
		return Change{}, fmt.Errorf("set surface of %v from %v to %v: %w", pos, current, desired, ErrSurfaceTransition)
	}
	g.surfaces[pos] = desired
	return Change{Kind: ChangeMaterial, Cell: pos, Affected: []HexCoord{pos}}, nil
}

// PushObject stores an object without validation and returns its id.
func (g *Grid) PushObject(o Object) InstanceID {
	return g.objects.Push(o)
}

// Object returns a placed object by id.
func (g *Grid) Object(id InstanceID) (Object, bool) {
	return g.objects.Get(id)
}

// ObjectsAt returns the ids of all objects whose footprint covers pos.
func (g *Grid) ObjectsAt(pos HexCoord) []InstanceID {
	return g.objects.At(pos, g.Footprints)
}

// RemoveObject deletes a placed object.
func (g *Grid) RemoveObject(id InstanceID) (Change, error) {
	o, ok := g.objects.Get(id)
	if !ok {
		return Change{}, fmt.Errorf("remove %d: %w", id, ErrUnknownInstance)
	}
	cells := o.Cells(g.Footprints)
	if _, err := g.objects.Remove(id); err != nil {
		return Change{}, err
	}
	// A lift pushed without nodes covers nothing.
	var anchor HexCoord
	if len(cells) > 0 {
		anchor = cells[0]
	}
	return Change{Kind: ChangeDespawn | ChangeSelection, Cell: anchor, Instance: id, Affected: cells}, nil
}

// PlaceStructure validates and stores a structure. Every footprint cell must
// exist and be free of other objects.
func (g *Grid) PlaceStructure(s Structure) (InstanceID, Change, error) {
	cells := s.Cells(g.Footprints)
	if err := g.checkFree(cells); err != nil {
		return 0, Change{}, fmt.Errorf("place structure %d: %w", s.Type, err)
	}
	id := g.objects.Push(s)
	return id, Change{Kind: ChangeSpawn, Cell: s.Position, Instance: id, Affected: cells}, nil
}

// PlaceLift validates and stores a lift over the union of its node footprints.
func (g *Grid) PlaceLift(l Lift) (InstanceID, Change, error) {
	if len(l.Nodes) == 0 {
		return 0, Change{}, fmt.Errorf("place lift: %w", ErrEmptyLift)
	}
	cells := l.Cells(g.Footprints)
	if err := g.checkFree(cells); err != nil {
		return 0, Change{}, fmt.Errorf("place lift: %w", err)
	}
	id := g.objects.Push(l)
	return id, Change{Kind: ChangeSpawn, Cell: l.Nodes[0].Structure.Position, Instance: id, Affected: cells}, nil
}

func (g *Grid) checkFree(cells []HexCoord) error {
	for _, c := range cells {
		if !g.HasCell(c) {
			return fmt.Errorf("cell %v: %w", c, ErrUnknownCell)
		}
		if ids := g.ObjectsAt(c); len(ids) > 0 {
			return fmt.Errorf("cell %v holds instance %d: %w", c, ids[0], ErrOccupied)
		}
	}
	return nil
}

// CornerHeight returns the mean height of the cells sharing a corner: the
// cell itself plus the neighbors across the corner's two edges, skipping
// neighbors outside the grid. It never fails; a missing center cell averages
// whatever neighbors exist, or yields 0.
func (g *Grid) CornerHeight(pos HexCoord, c Corner) float64 {
	sum, n := 0, 0
	if h, ok := g.heights[pos]; ok {
		sum += h
		n++
	}
	for _, e := range c.Edges() {
		if h, ok := g.heights[pos.Add(e.Delta())]; ok {
			sum += h
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// CornerHeights returns the six corner heights in Corners order.
func (g *Grid) CornerHeights(pos HexCoord) [6]float64 {
	var out [6]float64
	for i, c := range Corners {
		out[i] = g.CornerHeight(pos, c)
	}
	return out
}

// Slope is the spread between the highest and lowest corner of a cell.
func (g *Grid) Slope(pos HexCoord) float64 {
	corners := g.CornerHeights(pos)
	lo, hi := corners[0], corners[0]
	for _, h := range corners[1:] {
		lo = min(lo, h)
		hi = max(hi, h)
	}
	return hi - lo
}

// CheckIntegrity verifies that the height and surface maps share one key set.
func (g *Grid) CheckIntegrity() error {
	if len(g.heights) != len(g.surfaces) {
		return fmt.Errorf("%d heights vs %d surfaces: %w", len(g.heights), len(g.surfaces), ErrIntegrity)
	}
	for pos := range g.heights {
		if _, ok := g.surfaces[pos]; !ok {
			return fmt.Errorf("cell %v has no surface: %w", pos, ErrIntegrity)
		}
	}
	return nil
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(width=%d, length=%d, cells=%d, objects=%d)",
		g.Width, g.Length, g.CellCount(), g.objects.Len())
}
