package engine

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/talgya/ski-resort/internal/world"
)

func TestLoopAppliesInOrderThenRefreshes(t *testing.T) {
	l := NewLoop(newSession(t))

	var refreshed [][]world.Change
	l.AddRefresher(RefresherFunc(func(s *Session, changes []world.Change) {
		if h, _ := s.Grid.Height(interior); h != 2 {
			t.Errorf("refresher saw height %d, expected both raises applied", h)
		}
		refreshed = append(refreshed, changes)
	}))
	var journaled uint64
	l.OnFrame = func(frame uint64, changes []world.Change) { journaled = frame }

	l.Submit(UseTool(Tool{Kind: ToolTerrain}))
	l.Submit(Click(interior, ButtonPrimary))
	l.Submit(Click(interior, ButtonPrimary))
	if l.Pending() != 3 {
		t.Fatalf("expected 3 pending intents, got %d", l.Pending())
	}

	changes := l.Step()
	if len(changes) != 3 {
		t.Fatalf("expected tool change plus two terrain changes, got %v", changes)
	}
	if len(refreshed) != 1 {
		t.Errorf("expected one refresh per frame, got %d", len(refreshed))
	}
	if journaled != 1 || l.Frame() != 1 {
		t.Errorf("expected frame 1 journaled, got %d (frame %d)", journaled, l.Frame())
	}
}

func TestLoopIdleFrame(t *testing.T) {
	l := NewLoop(newSession(t))
	calls := 0
	l.AddRefresher(RefresherFunc(func(*Session, []world.Change) { calls++ }))
	l.OnFrame = func(uint64, []world.Change) { calls++ }

	if changes := l.Step(); changes != nil {
		t.Errorf("expected no changes, got %v", changes)
	}
	if calls != 0 {
		t.Errorf("expected idle frame to skip refresh and journal, got %d calls", calls)
	}
	if l.Frame() != 1 {
		t.Errorf("expected frame counter to advance, got %d", l.Frame())
	}
}

func TestLoopRunStopsOnCancel(t *testing.T) {
	l := NewLoop(newSession(t))
	l.Interval = time.Millisecond
	l.Submit(UseTool(Tool{Kind: ToolTerrain}))
	l.Submit(Click(interior, ButtonPrimary))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for l.Pending() > 0 || l.Frame() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("loop did not drain the queue")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancel")
	}

	l.View(func(s *Session) {
		if h, _ := s.Grid.Height(interior); h != 1 {
			t.Errorf("expected height 1, got %d", h)
		}
	})
}

func TestIntentFromJSON(t *testing.T) {
	var in Intent
	data := `{"kind":"click_cell","cell":{"q":1,"r":2},"button":"secondary"}`
	if err := json.Unmarshal([]byte(data), &in); err != nil {
		t.Fatal(err)
	}
	if in.Kind != IntentClickCell || in.Cell != (world.HexCoord{Q: 1, R: 2}) || in.Button != ButtonSecondary {
		t.Errorf("unexpected intent %+v", in)
	}

	data = `{"kind":"set_tool","tool":{"kind":"terrain"}}`
	if err := json.Unmarshal([]byte(data), &in); err != nil {
		t.Fatal(err)
	}
	if in.Tool.Kind != ToolTerrain {
		t.Errorf("expected terrain tool, got %v", in.Tool)
	}

	if err := json.Unmarshal([]byte(`{"kind":"jump"}`), &in); err == nil {
		t.Error("expected unknown intent kind to fail")
	}
}

func TestStepClearsStaleSelection(t *testing.T) {
	l := NewLoop(newSession(t))
	id := placeBox(t, l.Session, interior)
	l.Session.Handle(ClickObject(id, ButtonPrimary))
	if _, err := l.Session.Grid.RemoveObject(id); err != nil {
		t.Fatal(err)
	}

	var refreshed []world.Change
	l.AddRefresher(RefresherFunc(func(s *Session, changes []world.Change) {
		refreshed = changes
	}))
	changes := l.Step()
	if len(changes) != 1 || changes[0].Kind != world.ChangeSelection || changes[0].Instance != id {
		t.Fatalf("expected one selection change, got %v", changes)
	}
	if len(refreshed) != 1 {
		t.Errorf("expected refreshers to see the selection change, got %v", refreshed)
	}
	if l.Session.Cursor.Tool.Kind != ToolNone {
		t.Errorf("expected selection cleared, got %v", l.Session.Cursor.Tool)
	}
	if changes := l.Step(); len(changes) != 0 {
		t.Errorf("expected idle frame afterwards, got %v", changes)
	}
}
