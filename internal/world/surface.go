package world

// Surface is the ground covering of a cell.
type Surface uint8

const (
	SurfaceNormal Surface = iota // Untouched ground
	SurfacePiste                 // Groomed run, only reachable from Normal
	SurfaceWater                 // Set at generation time below the water height
)

func (s Surface) String() string {
	switch s {
	case SurfaceNormal:
		return "Normal"
	case SurfacePiste:
		return "Piste"
	case SurfaceWater:
		return "Water"
	default:
		return "Unknown"
	}
}
