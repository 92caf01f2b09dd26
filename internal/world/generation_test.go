package world

import (
	"slices"
	"testing"
)

func TestGenerateShape(t *testing.T) {
	g := Generate(5, 4, FlatTestConfig())
	// Odd columns (1, 3) get one extra row.
	if g.CellCount() != 5*4+2 {
		t.Fatalf("expected 22 cells, got %d", g.CellCount())
	}
	for col := 0; col < 5; col++ {
		for row := 0; row < 4+col%2; row++ {
			if !g.HasCell(OffsetToAxial(col, row)) {
				t.Errorf("missing cell at offset (%d,%d)", col, row)
			}
		}
	}
	if g.HasCell(OffsetToAxial(0, 4)) {
		t.Error("even column must not get the extra row")
	}
}

func TestGenerateEmpty(t *testing.T) {
	for _, dims := range [][2]int{{0, 0}, {0, 5}, {5, 0}} {
		g := Generate(dims[0], dims[1], DefaultGenConfig())
		if g.CellCount() != 0 {
			t.Errorf("%v: expected empty grid, got %d cells", dims, g.CellCount())
		}
		if err := g.CheckIntegrity(); err != nil {
			t.Error(err)
		}
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 1234
	a := Generate(15, 12, cfg)
	b := Generate(15, 12, cfg)
	for _, pos := range a.Cells() {
		ha, _ := a.Height(pos)
		hb, _ := b.Height(pos)
		if ha != hb {
			t.Fatalf("cell %v: heights differ %d vs %d", pos, ha, hb)
		}
	}
	if !slices.Equal(a.Objects().IDs(), b.Objects().IDs()) {
		t.Error("decoration differs between identical seeds")
	}
}

func TestGenerateRandomSeedRecorded(t *testing.T) {
	g := Generate(3, 3, DefaultGenConfig())
	if g.Config.Seed == 0 {
		t.Error("expected the chosen seed to be recorded")
	}
}

func TestGenerateSlopeRisesAlongZ(t *testing.T) {
	cfg := FlatTestConfig()
	cfg.SlopeHeight = 40
	g := Generate(5, 20, cfg)
	low, _ := g.Height(OffsetToAxial(2, 0))
	high, _ := g.Height(OffsetToAxial(2, 19))
	if high <= low {
		t.Errorf("expected far row above near row, got %d vs %d", high, low)
	}
	for _, pos := range g.Cells() {
		if h, _ := g.Height(pos); h < 0 {
			t.Fatalf("cell %v: negative height %d", pos, h)
		}
	}
}

func TestGenerateWaterBelowThreshold(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 99
	cfg.PeakHeight = 50
	cfg.PeakWidth = 5
	cfg.SlopeHeight = 0
	g := Generate(30, 30, cfg)
	counts := SurfaceCounts(g)
	if counts[SurfaceWater] == 0 {
		t.Fatal("expected some water with deep noise")
	}
	if counts[SurfacePiste] != 0 {
		t.Error("generation must never produce piste")
	}
	for _, pos := range g.Cells() {
		s, _ := g.Surface(pos)
		h, _ := g.Height(pos)
		if s == SurfaceWater && h != 0 {
			t.Errorf("water cell %v: expected clamped height 0, got %d", pos, h)
		}
	}
}

func TestDecorationAvoidsWaterAndTreeLine(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 5
	cfg.TreeDensity = 1
	g := Generate(20, 20, cfg)
	if g.Objects().Len() == 0 {
		t.Fatal("expected trees")
	}
	for id, o := range g.Objects().All() {
		s, ok := o.(Structure)
		if !ok {
			t.Fatalf("instance %d: expected structure, got %T", id, o)
		}
		if s.Type != cfg.TreeType {
			t.Errorf("instance %d: expected tree type, got %d", id, s.Type)
		}
		if surf, _ := g.Surface(s.Position); surf == SurfaceWater {
			t.Errorf("tree %d placed on water at %v", id, s.Position)
		}
		if h, _ := g.Height(s.Position); float64(h) >= cfg.TreeLine {
			t.Errorf("tree %d above the tree line at height %d", id, h)
		}
	}
}

func TestFlatScenario(t *testing.T) {
	cfg := FlatTestConfig()
	cfg.PeakHeight = 0
	cfg.PeakWidth = 30
	cfg.SlopeHeight = 0
	g := Generate(5, 5, cfg)

	for _, pos := range g.Cells() {
		if h, _ := g.Height(pos); h != 0 {
			t.Errorf("cell %v: expected height 0, got %d", pos, h)
		}
		if s, _ := g.Surface(pos); s != SurfaceNormal {
			t.Errorf("cell %v: expected Normal, got %v", pos, s)
		}
	}

	origin := HexCoord{}
	id, _, err := g.PlaceStructure(Structure{Type: 111, Position: origin})
	if err != nil {
		t.Fatal(err)
	}
	if got := g.ObjectsAt(origin); !slices.Equal(got, []InstanceID{id}) {
		t.Fatalf("expected exactly [%d], got %v", id, got)
	}
	if _, err := g.RemoveObject(id); err != nil {
		t.Fatal(err)
	}
	if got := g.ObjectsAt(origin); len(got) != 0 {
		t.Errorf("expected empty after removal, got %v", got)
	}
}
