package engine

import (
	"fmt"

	"github.com/talgya/ski-resort/internal/world"
)

// Button is a pointer button.
type Button uint8

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

func (b Button) String() string {
	if b == ButtonSecondary {
		return "secondary"
	}
	return "primary"
}

func (b Button) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Button) UnmarshalText(text []byte) error {
	switch string(text) {
	case "primary", "":
		*b = ButtonPrimary
	case "secondary":
		*b = ButtonSecondary
	default:
		return fmt.Errorf("unknown button %q", text)
	}
	return nil
}

// IntentKind tags a discrete input event from the host.
type IntentKind uint8

const (
	IntentClickCell     IntentKind = iota // Cell clicked with Button
	IntentHoverEnter                      // Pointer entered Cell
	IntentHoverLeave                      // Pointer left Cell
	IntentHoverObject                     // Pointer entered object Instance
	IntentUnhoverObject                   // Pointer left object Instance
	IntentClickObject                     // Object Instance clicked with Button
	IntentCycleHover                      // Step through stacked hovered objects
	IntentSetTool                         // Switch to Tool
	IntentSelectType                      // Pick Type for the Place tool
	IntentRotate                          // Turn the placement facing one step
)

var intentNames = [...]string{
	"click_cell", "hover_enter", "hover_leave", "hover_object", "unhover_object",
	"click_object", "cycle_hover", "set_tool", "select_type", "rotate",
}

func (k IntentKind) String() string {
	if int(k) < len(intentNames) {
		return intentNames[k]
	}
	return "unknown"
}

func (k IntentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *IntentKind) UnmarshalText(b []byte) error {
	for i, n := range intentNames {
		if n == string(b) {
			*k = IntentKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown intent %q", b)
}

// Intent is one input event. Only the fields named by Kind are read.
type Intent struct {
	Kind     IntentKind       `json:"kind"`
	Cell     world.HexCoord   `json:"cell"`
	Button   Button           `json:"button"`
	Instance world.InstanceID `json:"instance"`
	Tool     Tool             `json:"tool"`
	Type     *ObjectType      `json:"type,omitempty"`
}

// Click builds a cell click intent.
func Click(cell world.HexCoord, b Button) Intent {
	return Intent{Kind: IntentClickCell, Cell: cell, Button: b}
}

// ClickObject builds an object click intent.
func ClickObject(id world.InstanceID, b Button) Intent {
	return Intent{Kind: IntentClickObject, Instance: id, Button: b}
}

// HoverEnter builds a hover intent for a cell.
func HoverEnter(cell world.HexCoord) Intent {
	return Intent{Kind: IntentHoverEnter, Cell: cell}
}

// HoverLeave builds an unhover intent for a cell.
func HoverLeave(cell world.HexCoord) Intent {
	return Intent{Kind: IntentHoverLeave, Cell: cell}
}

// UseTool builds a tool switch intent.
func UseTool(t Tool) Intent {
	return Intent{Kind: IntentSetTool, Tool: t}
}

// Choose builds a placement type intent.
func Choose(t ObjectType) Intent {
	return Intent{Kind: IntentSelectType, Type: &t}
}
