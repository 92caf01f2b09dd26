package world

import (
	"errors"
	"testing"
)

func classify(t *testing.T, g *Grid, pos HexCoord) Material {
	t.Helper()
	m, err := ClassifyMaterial(g, pos)
	if err != nil {
		t.Fatalf("classify %v: %v", pos, err)
	}
	return m
}

func TestClassifyFlatIsSnow(t *testing.T) {
	g := flatGrid(t)
	if m := classify(t, g, interior); m != MaterialSnow {
		t.Errorf("expected Snow, got %v", m)
	}
	if classify(t, g, interior) != classify(t, g, interior) {
		t.Error("classification changed without a mutation")
	}
}

func TestClassifySlopeThresholds(t *testing.T) {
	g := flatGrid(t)
	n := interior.Add(EdgeTopRight.Delta())

	// Raising one neighbor by h gives two corners at h/3, so slope = h/3.
	steps := []struct {
		height int
		want   Material
	}{
		{9, MaterialSnow},  // slope 3, not above SnowMaxSlope
		{10, MaterialDirt}, // slope 3.33
		{12, MaterialDirt}, // slope 4, not above DirtMaxSlope
		{13, MaterialRock}, // slope 4.33
	}
	current := 0
	for _, s := range steps {
		for current < s.height {
			if _, err := g.Raise(n); err != nil {
				t.Fatal(err)
			}
			current++
		}
		if m := classify(t, g, interior); m != s.want {
			t.Errorf("neighbor at %d (slope %.2f): expected %v, got %v", s.height, g.Slope(interior), s.want, m)
		}
	}
}

func TestClassifySurfaceWins(t *testing.T) {
	g := flatGrid(t)
	n := interior.Add(EdgeBottomLeft.Delta())
	for i := 0; i < 20; i++ {
		g.Raise(n)
	}
	if m := classify(t, g, interior); m != MaterialRock {
		t.Fatalf("expected Rock before piste, got %v", m)
	}
	if _, err := g.SetSurface(interior, SurfacePiste); err != nil {
		t.Fatal(err)
	}
	if m := classify(t, g, interior); m != MaterialPiste {
		t.Errorf("expected Piste, got %v", m)
	}
	g.surfaces[interior] = SurfaceWater
	if m := classify(t, g, interior); m != MaterialWater {
		t.Errorf("expected Water, got %v", m)
	}
}

func TestClassifyMissingSurface(t *testing.T) {
	g := flatGrid(t)
	delete(g.surfaces, interior)
	if _, err := ClassifyMaterial(g, interior); !errors.Is(err, ErrIntegrity) {
		t.Errorf("expected ErrIntegrity, got %v", err)
	}
}

func TestMaterialCounts(t *testing.T) {
	g := flatGrid(t)
	counts := MaterialCounts(g)
	if counts[MaterialSnow] != g.CellCount() {
		t.Errorf("expected all %d cells snow, got %v", g.CellCount(), counts)
	}
}
