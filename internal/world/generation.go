// Terrain generation using simplex noise plus a linear slope bias along z,
// which gives the field its ski-hill shape.
package world

import (
	"log/slog"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/ski-resort/internal/entropy"
)

// WaterHeight is the raw generated height below which a cell becomes water.
const WaterHeight = -3.0

// GenConfig holds terrain generation parameters.
type GenConfig struct {
	PeakHeight  float64         `json:"peak_height"`  // Noise amplitude (1–50)
	PeakWidth   float64         `json:"peak_width"`   // Noise frequency divisor (1–50)
	SlopeHeight float64         `json:"slope_height"` // Height gained across the full length (1–50)
	Seed        int64           `json:"seed"`         // Random seed (0 = random)
	TreeDensity float64         `json:"tree_density"` // Tree chance at height 0 (0 disables decoration)
	TreeLine    float64         `json:"tree_line"`    // Height at which tree chance reaches 0
	TreeType    StructureTypeID `json:"tree_type"`    // Structure placed by the decoration pass

	// Footprints is installed on the grid before decoration so trees
	// respect multi-cell footprints. Nil means single-cell structures.
	Footprints FootprintSource `json:"-"`
}

// DefaultGenConfig returns the standard resort terrain.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		PeakHeight:  10,
		PeakWidth:   30,
		SlopeHeight: 40,
		Seed:        0,
		TreeDensity: 0.15,
		TreeLine:    30,
		TreeType:    1,
	}
}

// FlatTestConfig returns a seeded, perfectly flat, undecorated configuration.
func FlatTestConfig() GenConfig {
	return GenConfig{
		PeakHeight:  0,
		PeakWidth:   30,
		SlopeHeight: 0,
		Seed:        42,
		TreeDensity: 0,
		TreeLine:    30,
		TreeType:    1,
	}
}

// Generate creates a grid of width columns by length rows (odd columns get
// one extra row) with heights, surfaces, and decoration.
func Generate(width, length int, cfg GenConfig) *Grid {
	seed := cfg.Seed
	if seed == 0 {
		seed = entropy.Seed()
	}
	cfg.Seed = seed
	if cfg.PeakWidth <= 0 {
		cfg.PeakWidth = 1
	}

	g := NewGrid(width, length, cfg)
	if width <= 0 || length <= 0 {
		return g
	}

	noise := opensimplex.New(seed)
	maxZ := float64(length) * Sqrt3

	for col := 0; col < width; col++ {
		// The extra row on odd columns avoids sharp corners along the edge.
		for row := 0; row < length+col%2; row++ {
			pos := OffsetToAxial(col, row)
			x, z := AxialToPlanar(pos)

			raw := noise.Eval2(x/cfg.PeakWidth, z/cfg.PeakWidth)*cfg.PeakHeight +
				z/maxZ*cfg.SlopeHeight

			surface := SurfaceNormal
			if raw < WaterHeight {
				surface = SurfaceWater
			}
			// Heights are whole, non-negative units.
			g.setCell(pos, max(int(raw), 0), surface)
		}
	}

	decorate(g, rand.New(rand.NewSource(seed+100)))

	return g
}

// decorate scatters trees over dry land, thinning out towards the tree line.
func decorate(g *Grid, rng *rand.Rand) {
	cfg := g.Config
	if cfg.TreeDensity <= 0 || cfg.TreeLine <= 0 {
		return
	}
	placed := 0
	for _, pos := range g.Cells() {
		if g.surfaces[pos] == SurfaceWater {
			continue
		}
		chance := cfg.TreeDensity * (1 - float64(g.heights[pos])/cfg.TreeLine)
		if chance <= 0 || rng.Float64() >= chance {
			continue
		}
		rot := RotationFromInt(rng.Intn(6))
		if _, _, err := g.PlaceStructure(Structure{Type: cfg.TreeType, Position: pos, Rotation: &rot}); err != nil {
			slog.Debug("skipped tree", "cell", pos, "error", err)
			continue
		}
		placed++
	}
	slog.Debug("decoration placed", "trees", placed)
}

// SurfaceCounts returns a summary of surface distribution.
func SurfaceCounts(g *Grid) map[Surface]int {
	counts := make(map[Surface]int)
	for _, s := range g.surfaces {
		counts[s]++
	}
	return counts
}
