package engine

import (
	"fmt"

	"github.com/talgya/ski-resort/internal/world"
)

// ToolKind tags the variants of Tool.
type ToolKind uint8

const (
	ToolNone    ToolKind = iota // Pointer only; clicking an object selects it
	ToolSelect                  // An object is selected (Tool.Selected)
	ToolPlace                   // Clicking a cell places Cursor.SelectedType
	ToolSurface                 // Primary paints piste, secondary removes it
	ToolTerrain                 // Primary raises, secondary lowers
	ToolRemove                  // Clicking an object removes it
)

var toolNames = [...]string{"none", "select", "place", "surface", "terrain", "remove"}

func (k ToolKind) String() string {
	if int(k) < len(toolNames) {
		return toolNames[k]
	}
	return "unknown"
}

func (k ToolKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ToolKind) UnmarshalText(b []byte) error {
	for i, n := range toolNames {
		if n == string(b) {
			*k = ToolKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown tool %q", b)
}

// Tool is the active cursor tool. Selected is only meaningful for ToolSelect.
type Tool struct {
	Kind     ToolKind         `json:"kind"`
	Selected world.InstanceID `json:"selected,omitempty"`
}

// SelectTool returns the tool that has instance id selected.
func SelectTool(id world.InstanceID) Tool {
	return Tool{Kind: ToolSelect, Selected: id}
}

// Picks reports whether clicking an object with this tool selects it.
func (t Tool) Picks() bool {
	return t.Kind == ToolNone || t.Kind == ToolSelect
}

func (t Tool) String() string {
	if t.Kind == ToolSelect {
		return fmt.Sprintf("select(%d)", t.Selected)
	}
	return t.Kind.String()
}

// ObjectType is what the Place tool puts down: a structure type, or a lift.
type ObjectType struct {
	Kind      world.ObjectKind      `json:"kind"`
	Structure world.StructureTypeID `json:"structure,omitempty"`
}

// StructureType returns the placement type for a catalog structure.
func StructureType(id world.StructureTypeID) ObjectType {
	return ObjectType{Kind: world.KindStructure, Structure: id}
}

// LiftType is the placement type for lifts.
var LiftType = ObjectType{Kind: world.KindLift}

// HoverObjects are the objects under the pointer. With more than one, Index
// picks the one that clicks act on.
type HoverObjects struct {
	IDs   []world.InstanceID `json:"ids,omitempty"`
	Index int                `json:"index"`
}

// Current returns the object clicks act on.
func (h HoverObjects) Current() (world.InstanceID, bool) {
	if len(h.IDs) == 0 {
		return 0, false
	}
	return h.IDs[h.Index%len(h.IDs)], true
}

// Cycle moves to the next hovered object.
func (h *HoverObjects) Cycle() {
	if len(h.IDs) > 1 {
		h.Index = (h.Index + 1) % len(h.IDs)
	}
}

// Cursor is transient pointer state. It is never persisted.
type Cursor struct {
	Tool         Tool            `json:"tool"`
	HoverCell    *world.HexCoord `json:"hover_cell,omitempty"`
	Hover        HoverObjects    `json:"hover"`
	SelectedType *ObjectType     `json:"selected_type,omitempty"`
	Rotation     world.Rotation  `json:"rotation"`

	// PendingLift collects lift nodes between the first and the final click.
	PendingLift []world.LiftNode `json:"pending_lift,omitempty"`
}
