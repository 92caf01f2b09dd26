// Package engine applies input intents to the terrain grid and drives the
// per-frame refresh of everything derived from it.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/talgya/ski-resort/internal/catalog"
	"github.com/talgya/ski-resort/internal/world"
)

// Session owns the grid and the cursor. Handle is the only path that mutates
// either; callers must not run it concurrently (Loop serializes it).
type Session struct {
	Grid    *world.Grid
	Catalog *catalog.Catalog
	Cursor  Cursor
}

// NewSession wires the catalog in as the grid's footprint source.
func NewSession(g *world.Grid, cat *catalog.Catalog) *Session {
	g.Footprints = cat
	return &Session{Grid: g, Catalog: cat}
}

// Handle applies one intent and returns the changes it caused. A refused
// intent logs why and returns nothing; it never leaves the grid half-edited.
func (s *Session) Handle(in Intent) []world.Change {
	switch in.Kind {
	case IntentClickCell:
		return s.clickCell(in.Cell, in.Button)
	case IntentHoverEnter:
		return s.hoverEnter(in.Cell)
	case IntentHoverLeave:
		return s.hoverLeave(in.Cell)
	case IntentHoverObject:
		return s.hoverObject(in.Instance)
	case IntentUnhoverObject:
		return s.unhoverObject(in.Instance)
	case IntentClickObject:
		return s.clickObject(in.Instance, in.Button)
	case IntentCycleHover:
		if len(s.Cursor.Hover.IDs) < 2 {
			return nil
		}
		s.Cursor.Hover.Cycle()
		id, _ := s.Cursor.Hover.Current()
		return []world.Change{{Kind: world.ChangeSelection, Instance: id}}
	case IntentSetTool:
		return s.setTool(in.Tool)
	case IntentSelectType:
		return s.selectType(in.Type)
	case IntentRotate:
		s.Cursor.Rotation = s.Cursor.Rotation.Next()
		return []world.Change{{Kind: world.ChangeHoverIndicator}}
	default:
		slog.Warn("unknown intent ignored", "kind", in.Kind)
		return nil
	}
}

// reject logs a refused intent. Broken invariants are errors; anything a
// user can provoke by clicking is a warning.
func reject(msg string, err error, args ...any) {
	args = append(args, "error", err)
	if errors.Is(err, world.ErrIntegrity) {
		slog.Error(msg, args...)
		return
	}
	slog.Warn(msg, args...)
}

func (s *Session) clickCell(pos world.HexCoord, b Button) []world.Change {
	if !s.Grid.HasCell(pos) {
		// The host only reports cells it was given by the grid.
		slog.Error("click on a cell outside the grid", "cell", pos)
		return nil
	}

	switch s.Cursor.Tool.Kind {
	case ToolTerrain:
		var ch world.Change
		var err error
		if b == ButtonPrimary {
			ch, err = s.Grid.Raise(pos)
		} else {
			ch, err = s.Grid.Lower(pos)
		}
		if err != nil {
			reject("terrain edit refused", err, "cell", pos, "button", b)
			return nil
		}
		return []world.Change{ch}

	case ToolSurface:
		want := world.SurfacePiste
		if b == ButtonSecondary {
			want = world.SurfaceNormal
		}
		ch, err := s.Grid.SetSurface(pos, want)
		if err != nil {
			reject("surface edit refused", err, "cell", pos, "surface", want)
			return nil
		}
		return []world.Change{ch}

	case ToolPlace:
		return s.place(pos, b)

	default:
		id, ok := s.target(pos)
		if !ok {
			if s.Cursor.Tool.Kind == ToolRemove {
				slog.Warn("nothing to remove", "cell", pos)
				return nil
			}
			return s.deselect()
		}
		return s.clickObject(id, b)
	}
}

// target picks the object a click on pos acts on: the hovered one when the
// pointer is over pos, else the lowest id covering it.
func (s *Session) target(pos world.HexCoord) (world.InstanceID, bool) {
	if s.Cursor.HoverCell != nil && *s.Cursor.HoverCell == pos {
		if id, ok := s.Cursor.Hover.Current(); ok {
			return id, true
		}
	}
	ids := s.Grid.ObjectsAt(pos)
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

func (s *Session) clickObject(id world.InstanceID, b Button) []world.Change {
	if _, ok := s.Grid.Object(id); !ok {
		reject("click on a missing object", fmt.Errorf("instance %d: %w", id, world.ErrUnknownInstance))
		return nil
	}
	switch {
	case s.Cursor.Tool.Kind == ToolRemove && b == ButtonPrimary:
		return s.remove(id)
	case s.Cursor.Tool.Picks() && b == ButtonPrimary:
		s.Cursor.Tool = SelectTool(id)
		return []world.Change{{Kind: world.ChangeSelection, Instance: id}}
	case s.Cursor.Tool.Picks():
		return s.deselect()
	}
	return nil
}

func (s *Session) deselect() []world.Change {
	if s.Cursor.Tool.Kind != ToolSelect {
		return nil
	}
	prev := s.Cursor.Tool.Selected
	s.Cursor.Tool = Tool{}
	return []world.Change{{Kind: world.ChangeSelection, Instance: prev}}
}

func (s *Session) remove(id world.InstanceID) []world.Change {
	ch, err := s.Grid.RemoveObject(id)
	if err != nil {
		reject("remove refused", err, "instance", id)
		return nil
	}
	if s.Cursor.Tool.Kind == ToolSelect && s.Cursor.Tool.Selected == id {
		s.Cursor.Tool = Tool{}
	}
	if i := slices.Index(s.Cursor.Hover.IDs, id); i >= 0 {
		s.Cursor.Hover.IDs = slices.Delete(slices.Clone(s.Cursor.Hover.IDs), i, i+1)
		s.Cursor.Hover.Index = 0
	}
	slog.Info("object removed", "instance", id, "cell", ch.Cell)
	return []world.Change{ch}
}

func (s *Session) place(pos world.HexCoord, b Button) []world.Change {
	t := s.Cursor.SelectedType
	if t == nil {
		slog.Warn("place with no type selected", "cell", pos)
		return nil
	}
	if t.Kind == world.KindLift {
		if b == ButtonSecondary {
			return s.commitLift()
		}
		return s.addLiftNode(pos)
	}
	if b != ButtonPrimary {
		return nil
	}

	st, ok := s.Catalog.Get(t.Structure)
	if !ok {
		slog.Error("selected type missing from catalog", "type", t.Structure)
		return nil
	}
	id, ch, err := s.Grid.PlaceStructure(s.structure(st, pos))
	if err != nil {
		reject("placement refused", err, "cell", pos, "type", st.Name)
		return nil
	}
	slog.Info("structure placed", "instance", id, "type", st.Name, "cell", pos)
	return []world.Change{ch}
}

// structure anchors a catalog type at pos, facing the cursor rotation when
// the type can turn.
func (s *Session) structure(st catalog.StructureType, pos world.HexCoord) world.Structure {
	out := world.Structure{Type: st.ID, Position: pos}
	if st.HasRotation {
		r := s.Cursor.Rotation
		out.Rotation = &r
	}
	return out
}

// liftNode builds a station or pillar from the catalog.
func (s *Session) liftNode(kind world.NodeKind, pos world.HexCoord) (world.LiftNode, bool) {
	id := catalog.TypeLiftPillar
	if kind == world.NodeStation {
		id = catalog.TypeLiftStation
	}
	st, ok := s.Catalog.Get(id)
	if !ok {
		slog.Error("lift part missing from catalog", "type", id, "node", kind)
		return world.LiftNode{}, false
	}
	return world.LiftNode{Kind: kind, Structure: s.structure(st, pos)}, true
}

// addLiftNode appends a node to the lift being drawn. The first node is a
// station, the rest are pillars until the lift is committed.
func (s *Session) addLiftNode(pos world.HexCoord) []world.Change {
	for _, n := range s.Cursor.PendingLift {
		if n.Structure.Position == pos {
			slog.Warn("lift already has a node here", "cell", pos)
			return nil
		}
	}
	if ids := s.Grid.ObjectsAt(pos); len(ids) > 0 {
		reject("lift node refused", fmt.Errorf("cell %v holds instance %d: %w", pos, ids[0], world.ErrOccupied))
		return nil
	}
	kind := world.NodePillar
	if len(s.Cursor.PendingLift) == 0 {
		kind = world.NodeStation
	}
	node, ok := s.liftNode(kind, pos)
	if !ok {
		return nil
	}
	s.Cursor.PendingLift = append(s.Cursor.PendingLift, node)
	return []world.Change{{Kind: world.ChangeHoverIndicator, Cell: pos}}
}

// commitLift turns the last pending node into the top station and places the lift.
func (s *Session) commitLift() []world.Change {
	nodes := s.Cursor.PendingLift
	s.Cursor.PendingLift = nil
	if len(nodes) == 0 {
		reject("lift refused", world.ErrEmptyLift)
		return nil
	}
	if len(nodes) < 2 {
		slog.Warn("lift needs two stations", "nodes", len(nodes))
		return nil
	}
	top, ok := s.liftNode(world.NodeStation, nodes[len(nodes)-1].Structure.Position)
	if !ok {
		return nil
	}
	nodes[len(nodes)-1] = top

	id, ch, err := s.Grid.PlaceLift(world.Lift{Nodes: nodes})
	if err != nil {
		reject("lift refused", err, "nodes", len(nodes))
		return nil
	}
	slog.Info("lift placed", "instance", id, "nodes", len(nodes))
	return []world.Change{ch}
}

func (s *Session) hoverEnter(pos world.HexCoord) []world.Change {
	if !s.Grid.HasCell(pos) {
		slog.Error("hover on a cell outside the grid", "cell", pos)
		return nil
	}
	s.Cursor.HoverCell = &pos
	s.Cursor.Hover = HoverObjects{IDs: s.Grid.ObjectsAt(pos)}
	return []world.Change{{Kind: world.ChangeHoverIndicator | world.ChangeSelection, Cell: pos}}
}

// hoverLeave ignores a leave for a cell other than the hovered one; the host
// may deliver the enter of the next cell first.
func (s *Session) hoverLeave(pos world.HexCoord) []world.Change {
	if s.Cursor.HoverCell == nil || *s.Cursor.HoverCell != pos {
		return nil
	}
	s.Cursor.HoverCell = nil
	s.Cursor.Hover = HoverObjects{}
	return []world.Change{{Kind: world.ChangeHoverIndicator | world.ChangeSelection, Cell: pos}}
}

func (s *Session) hoverObject(id world.InstanceID) []world.Change {
	if _, ok := s.Grid.Object(id); !ok {
		reject("hover on a missing object", fmt.Errorf("instance %d: %w", id, world.ErrUnknownInstance))
		return nil
	}
	if i := slices.Index(s.Cursor.Hover.IDs, id); i >= 0 {
		s.Cursor.Hover.Index = i
	} else {
		s.Cursor.Hover = HoverObjects{IDs: []world.InstanceID{id}}
	}
	return []world.Change{{Kind: world.ChangeSelection, Instance: id}}
}

func (s *Session) unhoverObject(id world.InstanceID) []world.Change {
	if cur, ok := s.Cursor.Hover.Current(); !ok || cur != id || len(s.Cursor.Hover.IDs) > 1 {
		return nil
	}
	s.Cursor.Hover = HoverObjects{}
	return []world.Change{{Kind: world.ChangeSelection, Instance: id}}
}

func (s *Session) setTool(t Tool) []world.Change {
	if t.Kind > ToolRemove {
		slog.Warn("unknown tool ignored", "tool", t.Kind)
		return nil
	}
	if t.Kind == ToolSelect {
		if _, ok := s.Grid.Object(t.Selected); !ok {
			reject("select refused", fmt.Errorf("instance %d: %w", t.Selected, world.ErrUnknownInstance))
			return nil
		}
	}
	s.Cursor.Tool = t
	s.Cursor.PendingLift = nil
	return []world.Change{{Kind: world.ChangeSelection | world.ChangeHoverIndicator, Instance: t.Selected}}
}

// selectType picks what the Place tool puts down and switches to it. A nil
// type clears the choice.
func (s *Session) selectType(t *ObjectType) []world.Change {
	if t == nil {
		s.Cursor.SelectedType = nil
		s.Cursor.PendingLift = nil
		return []world.Change{{Kind: world.ChangeSelection}}
	}
	if t.Kind == world.KindStructure {
		if _, ok := s.Catalog.Get(t.Structure); !ok {
			slog.Warn("unknown structure type", "type", t.Structure)
			return nil
		}
	}
	chosen := *t
	s.Cursor.SelectedType = &chosen
	s.Cursor.PendingLift = nil
	s.Cursor.Tool = Tool{Kind: ToolPlace}
	return []world.Change{{Kind: world.ChangeSelection | world.ChangeHoverIndicator}}
}

// NodeInspection describes one part of a selected lift.
type NodeInspection struct {
	Kind     string         `json:"kind"`
	Name     string         `json:"name"`
	Position world.HexCoord `json:"position"`
}

// Inspection describes the selected object for an inspector panel.
type Inspection struct {
	ID       world.InstanceID `json:"id"`
	Kind     string           `json:"kind"`
	Name     string           `json:"name,omitempty"`
	Position world.HexCoord   `json:"position"`
	Rotation string           `json:"rotation,omitempty"`
	Cells    []world.HexCoord `json:"cells"`
	Nodes    []NodeInspection `json:"nodes,omitempty"`
}

// Inspect describes the selected object. It reports false when nothing is
// selected. A selection pointing at a missing object is logged and cleared.
func (s *Session) Inspect() (Inspection, bool) {
	if s.Cursor.Tool.Kind != ToolSelect {
		return Inspection{}, false
	}
	id := s.Cursor.Tool.Selected
	o, ok := s.Grid.Object(id)
	if !ok {
		// DropStaleSelection clears it on the next frame.
		return Inspection{}, false
	}

	out := Inspection{ID: id, Kind: o.Kind().String(), Cells: o.Cells(s.Grid.Footprints)}
	switch v := o.(type) {
	case world.Structure:
		out.Name = s.typeName(v.Type)
		out.Position = v.Position
		if v.Rotation != nil {
			out.Rotation = v.Rotation.String()
		}
	case world.Lift:
		out.Name = fmt.Sprintf("Lift (%d nodes)", len(v.Nodes))
		if len(v.Nodes) > 0 {
			out.Position = v.Nodes[0].Structure.Position
		}
		for _, n := range v.Nodes {
			out.Nodes = append(out.Nodes, NodeInspection{
				Kind:     n.Kind.String(),
				Name:     s.typeName(n.Structure.Type),
				Position: n.Structure.Position,
			})
		}
	}
	return out, true
}

// DropStaleSelection clears a selection whose object no longer exists and
// reports the selection change.
func (s *Session) DropStaleSelection() (world.Change, bool) {
	if s.Cursor.Tool.Kind != ToolSelect {
		return world.Change{}, false
	}
	id := s.Cursor.Tool.Selected
	if _, ok := s.Grid.Object(id); ok {
		return world.Change{}, false
	}
	slog.Error("selection points at a missing object", "instance", id)
	s.Cursor.Tool = Tool{}
	return world.Change{Kind: world.ChangeSelection, Instance: id}, true
}

func (s *Session) typeName(id world.StructureTypeID) string {
	if st, ok := s.Catalog.Get(id); ok {
		return st.Name
	}
	return fmt.Sprintf("type %d", id)
}
