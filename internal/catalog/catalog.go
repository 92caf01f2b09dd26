// Package catalog holds the read-only list of placeable structure types.
// It is built once at startup, either from the built-in table or from a JSON
// file, and never modified afterwards.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/talgya/ski-resort/internal/world"
)

// Well-known structure type ids.
const (
	TypeTree        world.StructureTypeID = 1
	TypeRedBox      world.StructureTypeID = 111
	TypeBlueSphere  world.StructureTypeID = 222
	TypeLiftStation world.StructureTypeID = 300
	TypeLiftPillar  world.StructureTypeID = 301
)

// FootprintCell is one cell covered by a structure, relative to its anchor.
// Height and Bottom are palette data for the renderer; the grid only uses
// Offset.
type FootprintCell struct {
	Offset world.HexCoord `json:"offset"`
	Height uint16         `json:"height"`
	Bottom *uint16        `json:"bottom,omitempty"`
}

// StructureType is a catalog entry.
type StructureType struct {
	ID    world.StructureTypeID `json:"id"`
	Name  string                `json:"name"`
	Asset string                `json:"asset"` // Opaque handle for the renderer

	// Footprint lists covered cells. Empty with MeshFootprint set means the
	// renderer derives the shape from the mesh; the grid then treats the
	// structure as covering only its anchor cell.
	Footprint     []FootprintCell `json:"footprint,omitempty"`
	MeshFootprint bool            `json:"mesh_footprint"`
	HasRotation   bool            `json:"has_rotation"`
}

// Catalog is an immutable set of structure types keyed by id.
type Catalog struct {
	types map[world.StructureTypeID]StructureType
	order []world.StructureTypeID
}

var (
	ErrDuplicateType = errors.New("duplicate structure type id")
	ErrInvalidType   = errors.New("invalid structure type")
)

// New builds a catalog, rejecting duplicate ids and unnamed entries.
func New(types []StructureType) (*Catalog, error) {
	c := &Catalog{types: make(map[world.StructureTypeID]StructureType, len(types))}
	for _, t := range types {
		if t.Name == "" {
			return nil, fmt.Errorf("structure type %d has no name: %w", t.ID, ErrInvalidType)
		}
		if _, dup := c.types[t.ID]; dup {
			return nil, fmt.Errorf("structure type %d: %w", t.ID, ErrDuplicateType)
		}
		t.Footprint = slices.Clone(t.Footprint)
		c.types[t.ID] = t
		c.order = append(c.order, t.ID)
	}
	slices.Sort(c.order)
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New([]StructureType{
		{ID: TypeTree, Name: "Tree", Asset: "scenes/tree", MeshFootprint: true, HasRotation: true},
		{ID: TypeRedBox, Name: "Red Box", Asset: "scenes/red_box", MeshFootprint: true},
		{ID: TypeBlueSphere, Name: "Blue Sphere", Asset: "scenes/blue_sphere", MeshFootprint: true},
		{
			ID: TypeLiftStation, Name: "Lift Station", Asset: "scenes/lift_station", HasRotation: true,
			Footprint: []FootprintCell{
				{Offset: world.HexCoord{}, Height: 3},
				{Offset: world.EdgeTopCenter.Delta(), Height: 2},
			},
		},
		{ID: TypeLiftPillar, Name: "Lift Pillar", Asset: "scenes/lift_pillar", MeshFootprint: true},
	})
	if err != nil {
		// The built-in table is static; failing here is a programming error.
		panic(err)
	}
	return c
}

// Load reads a catalog from a JSON file holding an array of structure types.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var types []StructureType
	if err := json.Unmarshal(data, &types); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(types)
}

// Get returns the structure type with the given id.
func (c *Catalog) Get(id world.StructureTypeID) (StructureType, bool) {
	t, ok := c.types[id]
	return t, ok
}

// Types returns every entry in ascending id order, for populating a palette.
func (c *Catalog) Types() []StructureType {
	out := make([]StructureType, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.types[id])
	}
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Footprint returns the footprint offsets of a structure type. It satisfies
// world.FootprintSource.
func (c *Catalog) Footprint(id world.StructureTypeID) ([]world.HexCoord, bool) {
	t, ok := c.types[id]
	if !ok || len(t.Footprint) == 0 {
		return nil, false
	}
	offsets := make([]world.HexCoord, len(t.Footprint))
	for i, f := range t.Footprint {
		offsets[i] = f.Offset
	}
	return offsets, true
}
