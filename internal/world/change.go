package world

import "strings"

// ChangeKind is a bit set describing which downstream state a mutation invalidated.
type ChangeKind uint16

const (
	ChangeMesh             ChangeKind = 1 << iota // Cell meshes need rebuilding
	ChangeMaterial                                // Cell materials need reclassifying
	ChangeStructureHeights                        // Placed objects need re-seating on the terrain
	ChangeHoverIndicator                          // The hover outline needs redrawing
	ChangeSpawn                                   // An object instance was added
	ChangeDespawn                                 // An object instance was removed
	ChangeSelection                               // Selection or hover highlight changed
)

// ChangeTerrain is what every height edit invalidates.
const ChangeTerrain = ChangeMesh | ChangeMaterial | ChangeStructureHeights | ChangeHoverIndicator

var changeNames = []struct {
	kind ChangeKind
	name string
}{
	{ChangeMesh, "mesh"},
	{ChangeMaterial, "material"},
	{ChangeStructureHeights, "structure_heights"},
	{ChangeHoverIndicator, "hover_indicator"},
	{ChangeSpawn, "spawn"},
	{ChangeDespawn, "despawn"},
	{ChangeSelection, "selection"},
}

// Has reports whether every bit of k2 is set in k.
func (k ChangeKind) Has(k2 ChangeKind) bool {
	return k&k2 == k2
}

func (k ChangeKind) String() string {
	var parts []string
	for _, n := range changeNames {
		if k.Has(n.kind) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Change describes the effect of one successful mutation.
// Affected lists the cells whose derived geometry (corner heights, slope,
// material) may differ after the mutation.
type Change struct {
	Kind     ChangeKind `json:"kind"`
	Cell     HexCoord   `json:"cell"`
	Instance InstanceID `json:"instance"`
	Affected []HexCoord `json:"affected,omitempty"`
}
