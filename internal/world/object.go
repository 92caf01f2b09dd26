package world

import "slices"

// InstanceID identifies one placed object for the lifetime of a session.
type InstanceID uint32

// StructureTypeID references an entry of the structure catalog.
type StructureTypeID uint16

// ObjectKind tags the variants of Object.
type ObjectKind uint8

const (
	KindStructure ObjectKind = iota
	KindLift
)

func (k ObjectKind) String() string {
	switch k {
	case KindStructure:
		return "Structure"
	case KindLift:
		return "Lift"
	default:
		return "Unknown"
	}
}

// Object is a placed object. The set of variants is closed: Structure and Lift.
// Switch on the concrete type to handle each.
type Object interface {
	Kind() ObjectKind
	// Cells returns the grid cells covered by the object.
	Cells(src FootprintSource) []HexCoord
	isObject()
}

// FootprintSource resolves the footprint offsets of a structure type, relative
// to its anchor cell at RotationA. Types with no explicit footprint return false.
type FootprintSource interface {
	Footprint(id StructureTypeID) ([]HexCoord, bool)
}

// Structure is a single building-like object anchored at one cell.
type Structure struct {
	Type     StructureTypeID `json:"type"`
	Position HexCoord        `json:"position"`
	Rotation *Rotation       `json:"rotation,omitempty"`
}

func (Structure) Kind() ObjectKind { return KindStructure }
func (Structure) isObject()        {}

// Facing returns the structure's rotation, defaulting to A.
func (s Structure) Facing() Rotation {
	if s.Rotation == nil {
		return RotationA
	}
	return *s.Rotation
}

// Cells returns the anchor cell, or the rotated catalog footprint when the
// structure type defines one.
func (s Structure) Cells(src FootprintSource) []HexCoord {
	var offsets []HexCoord
	if src != nil {
		if fp, ok := src.Footprint(s.Type); ok {
			offsets = fp
		}
	}
	if len(offsets) == 0 {
		return []HexCoord{s.Position}
	}
	rot := s.Facing()
	cells := make([]HexCoord, 0, len(offsets))
	for _, o := range offsets {
		cells = append(cells, s.Position.Add(o.Rotate(rot)))
	}
	return cells
}

// NodeKind distinguishes the parts of a lift.
type NodeKind uint8

const (
	NodeStation NodeKind = iota
	NodePillar
)

func (k NodeKind) String() string {
	switch k {
	case NodeStation:
		return "Station"
	case NodePillar:
		return "Pillar"
	default:
		return "Unknown"
	}
}

// LiftNode is one station or pillar of a lift, anchored like a structure.
type LiftNode struct {
	Kind      NodeKind  `json:"kind"`
	Structure Structure `json:"structure"`
}

// Lift is a composite object made of an ordered run of nodes.
type Lift struct {
	Nodes []LiftNode `json:"nodes"`
}

func (Lift) Kind() ObjectKind { return KindLift }
func (Lift) isObject()        {}

// Cells returns the union of all node footprints, in node order.
func (l Lift) Cells(src FootprintSource) []HexCoord {
	seen := make(map[HexCoord]bool)
	var cells []HexCoord
	for _, n := range l.Nodes {
		for _, c := range n.Structure.Cells(src) {
			if !seen[c] {
				seen[c] = true
				cells = append(cells, c)
			}
		}
	}
	return cells
}

// clone detaches the object from caller-owned memory so registry entries stay immutable.
func clone(o Object) Object {
	switch v := o.(type) {
	case Structure:
		if v.Rotation != nil {
			r := *v.Rotation
			v.Rotation = &r
		}
		return v
	case Lift:
		nodes := slices.Clone(v.Nodes)
		for i := range nodes {
			nodes[i].Structure = clone(nodes[i].Structure).(Structure)
		}
		return Lift{Nodes: nodes}
	default:
		return o
	}
}
