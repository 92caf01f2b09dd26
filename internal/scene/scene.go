// Package scene keeps the renderer-facing state derived from the grid: cell
// meshes, cell materials, object seats and the hover outline. It is rebuilt
// incrementally from the change descriptors of each frame.
package scene

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/talgya/ski-resort/internal/catalog"
	"github.com/talgya/ski-resort/internal/engine"
	"github.com/talgya/ski-resort/internal/world"
)

// Highlight is how an object is drawn relative to the cursor.
type Highlight uint8

const (
	HighlightNone Highlight = iota
	HighlightHovered
	HighlightSelected
)

func (h Highlight) String() string {
	switch h {
	case HighlightHovered:
		return "hovered"
	case HighlightSelected:
		return "selected"
	default:
		return "none"
	}
}

func (h Highlight) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Highlight) UnmarshalText(b []byte) error {
	switch string(b) {
	case "hovered":
		*h = HighlightHovered
	case "selected":
		*h = HighlightSelected
	default:
		*h = HighlightNone
	}
	return nil
}

// Seat is one placed model: a structure, or one node of a lift.
type Seat struct {
	Type     world.StructureTypeID `json:"type"`
	Asset    string                `json:"asset"`
	Cell     world.HexCoord        `json:"cell"`
	Rotation world.Rotation        `json:"rotation"`
	Origin   Vec3                  `json:"origin"`
}

// Placement is the rendered form of one registry entry.
type Placement struct {
	Instance  world.InstanceID `json:"instance"`
	Kind      string           `json:"kind"`
	Seats     []Seat           `json:"seats"`
	Highlight Highlight        `json:"highlight"`
}

// HoverIndicator outlines the hovered cell at its corner heights.
type HoverIndicator struct {
	Visible bool           `json:"visible"`
	Cell    world.HexCoord `json:"cell"`
	Corners [6]Vec3        `json:"corners"`
}

// Stats counts rebuild work, for logs and tests.
type Stats struct {
	Refreshes      int `json:"refreshes"`
	MeshBuilds     int `json:"mesh_builds"`
	MaterialBuilds int `json:"material_builds"`
	Reseats        int `json:"reseats"`
}

// Scene is the derived state. It is only touched from the frame loop, so
// readers go through engine.Loop.View.
type Scene struct {
	catalog    *catalog.Catalog
	meshes     map[world.HexCoord]CellMesh
	materials  map[world.HexCoord]world.Material
	placements map[world.InstanceID]*Placement
	hover      HoverIndicator
	stats      Stats
}

// New creates an empty scene. Call Build before the first frame.
func New(cat *catalog.Catalog) *Scene {
	return &Scene{
		catalog:    cat,
		meshes:     make(map[world.HexCoord]CellMesh),
		materials:  make(map[world.HexCoord]world.Material),
		placements: make(map[world.InstanceID]*Placement),
	}
}

// Build derives everything from scratch.
func (sc *Scene) Build(s *engine.Session) {
	clear(sc.meshes)
	clear(sc.materials)
	clear(sc.placements)
	cells := s.Grid.Cells()
	for _, pos := range cells {
		sc.rebuildMesh(s.Grid, pos)
		sc.reclassify(s.Grid, pos)
	}
	for id, o := range s.Grid.Objects().All() {
		sc.spawn(s.Grid, id, o)
	}
	sc.refreshCursor(s)
	slog.Debug("scene built", "cells", len(cells), "placements", len(sc.placements))
}

// Refresh applies one frame of changes. It satisfies engine.Refresher.
func (sc *Scene) Refresh(s *engine.Session, changes []world.Change) {
	sc.stats.Refreshes++

	var kinds world.ChangeKind
	meshCells := make(map[world.HexCoord]bool)
	materialCells := make(map[world.HexCoord]bool)
	for _, ch := range changes {
		kinds |= ch.Kind
		if ch.Kind.Has(world.ChangeMesh) {
			for _, c := range ch.Affected {
				meshCells[c] = true
			}
		}
		if ch.Kind.Has(world.ChangeMaterial) {
			for _, c := range ch.Affected {
				materialCells[c] = true
			}
		}
		if ch.Kind.Has(world.ChangeDespawn) {
			delete(sc.placements, ch.Instance)
		}
		if ch.Kind.Has(world.ChangeSpawn) {
			o, ok := s.Grid.Object(ch.Instance)
			if !ok {
				// Spawned and removed within the same frame.
				continue
			}
			sc.spawn(s.Grid, ch.Instance, o)
		}
	}

	for pos := range meshCells {
		sc.rebuildMesh(s.Grid, pos)
	}
	for pos := range materialCells {
		sc.reclassify(s.Grid, pos)
	}
	if kinds.Has(world.ChangeStructureHeights) {
		sc.reseat(s.Grid)
	}
	if kinds&(world.ChangeHoverIndicator|world.ChangeSelection|world.ChangeSpawn|world.ChangeDespawn) != 0 {
		sc.refreshCursor(s)
	}
}

func (sc *Scene) rebuildMesh(g *world.Grid, pos world.HexCoord) {
	if !g.HasCell(pos) {
		delete(sc.meshes, pos)
		return
	}
	sc.meshes[pos] = BuildCellMesh(g, pos)
	sc.stats.MeshBuilds++
}

// reclassify hides a cell whose material cannot be derived.
func (sc *Scene) reclassify(g *world.Grid, pos world.HexCoord) {
	m, err := world.ClassifyMaterial(g, pos)
	if err != nil {
		slog.Error("cell material unavailable", "cell", pos, "error", err)
		delete(sc.materials, pos)
		return
	}
	sc.materials[pos] = m
	sc.stats.MaterialBuilds++
}

func (sc *Scene) spawn(g *world.Grid, id world.InstanceID, o world.Object) {
	p := &Placement{Instance: id, Kind: o.Kind().String()}
	switch v := o.(type) {
	case world.Structure:
		p.Seats = []Seat{sc.seat(g, v)}
	case world.Lift:
		for _, n := range v.Nodes {
			p.Seats = append(p.Seats, sc.seat(g, n.Structure))
		}
	}
	sc.placements[id] = p
}

func (sc *Scene) seat(g *world.Grid, s world.Structure) Seat {
	out := Seat{Type: s.Type, Cell: s.Position, Rotation: s.Facing()}
	if st, ok := sc.catalog.Get(s.Type); ok {
		out.Asset = st.Asset
	} else {
		slog.Error("placed structure type missing from catalog", "type", s.Type)
	}
	x, z := world.AxialToPlanar(s.Position)
	h, _ := g.Height(s.Position)
	out.Origin = Vec3{X: x, Y: float64(h), Z: z}
	return out
}

// reseat moves every seat onto the current height of its cell.
func (sc *Scene) reseat(g *world.Grid) {
	for _, p := range sc.placements {
		for i := range p.Seats {
			h, _ := g.Height(p.Seats[i].Cell)
			p.Seats[i].Origin.Y = float64(h)
		}
		sc.stats.Reseats++
	}
}

func (sc *Scene) refreshCursor(s *engine.Session) {
	sc.hover = HoverIndicator{}
	if c := s.Cursor.HoverCell; c != nil && s.Grid.HasCell(*c) {
		sc.hover = HoverIndicator{Visible: true, Cell: *c, Corners: BuildCellMesh(s.Grid, *c).Corners()}
	}

	for _, p := range sc.placements {
		p.Highlight = HighlightNone
	}
	if id, ok := s.Cursor.Hover.Current(); ok {
		if p, ok := sc.placements[id]; ok {
			p.Highlight = HighlightHovered
		}
	}
	if s.Cursor.Tool.Kind == engine.ToolSelect {
		id := s.Cursor.Tool.Selected
		if p, ok := sc.placements[id]; ok {
			p.Highlight = HighlightSelected
		} else {
			slog.Error("selected object has no placement", "instance", id)
		}
	}
}

// Mesh returns the cached mesh of a cell.
func (sc *Scene) Mesh(pos world.HexCoord) (CellMesh, bool) {
	m, ok := sc.meshes[pos]
	return m, ok
}

// Material returns the cached material of a cell. A cell without one is hidden.
func (sc *Scene) Material(pos world.HexCoord) (world.Material, bool) {
	m, ok := sc.materials[pos]
	return m, ok
}

// Placement returns a copy of the placement of an instance.
func (sc *Scene) Placement(id world.InstanceID) (Placement, bool) {
	p, ok := sc.placements[id]
	if !ok {
		return Placement{}, false
	}
	out := *p
	out.Seats = slices.Clone(p.Seats)
	return out, true
}

// Placements returns copies of every placement ordered by instance id.
func (sc *Scene) Placements() []Placement {
	ids := slices.Sorted(maps.Keys(sc.placements))
	out := make([]Placement, 0, len(ids))
	for _, id := range ids {
		p, _ := sc.Placement(id)
		out = append(out, p)
	}
	return out
}

// Hover returns the hover outline.
func (sc *Scene) Hover() HoverIndicator {
	return sc.hover
}

// Stats returns rebuild counters.
func (sc *Scene) Stats() Stats {
	return sc.stats
}
