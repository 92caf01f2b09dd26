package world

// Material is the visual ground type picked for a cell.
type Material uint8

const (
	MaterialSnow Material = iota
	MaterialPiste
	MaterialWater
	MaterialRock
	MaterialDirt
)

// Slope thresholds for natural ground. Anything steeper than DirtMaxSlope is rock.
const (
	SnowMaxSlope = 3
	DirtMaxSlope = 4
)

func (m Material) String() string {
	switch m {
	case MaterialSnow:
		return "Snow"
	case MaterialPiste:
		return "Piste"
	case MaterialWater:
		return "Water"
	case MaterialRock:
		return "Rock"
	case MaterialDirt:
		return "Dirt"
	default:
		return "Unknown"
	}
}

// ClassifyMaterial picks the material of a cell from its surface and slope.
// It reads neighbor heights, so it must be re-run for the whole neighborhood
// of any height edit.
func ClassifyMaterial(g *Grid, pos HexCoord) (Material, error) {
	surface, err := g.Surface(pos)
	if err != nil {
		return 0, err
	}
	switch surface {
	case SurfacePiste:
		return MaterialPiste, nil
	case SurfaceWater:
		return MaterialWater, nil
	}
	slope := g.Slope(pos)
	switch {
	case slope > DirtMaxSlope:
		return MaterialRock, nil
	case slope > SnowMaxSlope:
		return MaterialDirt, nil
	default:
		return MaterialSnow, nil
	}
}

// MaterialCounts returns a summary of material distribution.
func MaterialCounts(g *Grid) map[Material]int {
	counts := make(map[Material]int)
	for _, pos := range g.Cells() {
		m, err := ClassifyMaterial(g, pos)
		if err != nil {
			continue
		}
		counts[m]++
	}
	return counts
}
