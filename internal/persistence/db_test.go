package persistence

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/talgya/ski-resort/internal/world"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordBeforeSession(t *testing.T) {
	db := openTemp(t)
	err := db.RecordChanges(1, []world.Change{{Kind: world.ChangeMaterial}})
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
	if err := db.RecordChanges(1, nil); err != nil {
		t.Errorf("expected empty frame to be a no-op, got %v", err)
	}
}

func TestJournalRoundTrip(t *testing.T) {
	db := openTemp(t)
	g := world.Generate(5, 5, world.FlatTestConfig())

	id, err := db.BeginSession(g)
	if err != nil {
		t.Fatal(err)
	}
	if id == "" || db.SessionID() != id {
		t.Fatalf("expected session id to be tracked, got %q", db.SessionID())
	}

	pos := world.OffsetToAxial(2, 2)
	raise, err := g.Raise(pos)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.RecordChanges(3, []world.Change{raise}); err != nil {
		t.Fatal(err)
	}
	_, spawn, err := g.PlaceStructure(world.Structure{Type: 111, Position: pos})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.RecordChanges(4, []world.Change{spawn}); err != nil {
		t.Fatal(err)
	}

	recent, err := db.RecentChanges(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(recent))
	}
	if recent[0].Frame != 4 || recent[0].Kind != "spawn" || recent[0].InstanceID != uint32(spawn.Instance) {
		t.Errorf("unexpected newest change %+v", recent[0])
	}
	if recent[1].Kind != world.ChangeTerrain.String() || recent[1].Q != pos.Q || recent[1].R != pos.R {
		t.Errorf("unexpected oldest change %+v", recent[1])
	}

	limited, err := db.RecentChanges(1)
	if err != nil || len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d (%v)", len(limited), err)
	}

	sessions, err := db.Sessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].Seed != 42 || sessions[0].Width != 5 {
		t.Errorf("unexpected sessions %+v", sessions)
	}
}

func TestNewSessionScopesRecentChanges(t *testing.T) {
	db := openTemp(t)
	g := world.Generate(5, 5, world.FlatTestConfig())
	if _, err := db.BeginSession(g); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordChanges(1, []world.Change{{Kind: world.ChangeMaterial}}); err != nil {
		t.Fatal(err)
	}
	if _, err := db.BeginSession(g); err != nil {
		t.Fatal(err)
	}
	recent, err := db.RecentChanges(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 0 {
		t.Errorf("expected no changes in the new session, got %d", len(recent))
	}
}

func TestMeta(t *testing.T) {
	db := openTemp(t)
	if err := db.SaveMeta("last_frame", "10"); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveMeta("last_frame", "20"); err != nil {
		t.Fatal(err)
	}
	v, err := db.GetMeta("last_frame")
	if err != nil || v != "20" {
		t.Errorf("expected 20, got %q (%v)", v, err)
	}
}
