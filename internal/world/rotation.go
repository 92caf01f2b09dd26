package world

// Rotation is a facing in 60° steps, named after the corners of a flat-top hex:
//
//	  /F-A\
//	 E     B
//	  \D-C/
//
// A is the default facing.
type Rotation uint8

const (
	RotationA Rotation = iota
	RotationB
	RotationC
	RotationD
	RotationE
	RotationF
)

// Rotations lists every facing in clockwise order.
var Rotations = [6]Rotation{RotationA, RotationB, RotationC, RotationD, RotationE, RotationF}

// RotationFromInt wraps any integer onto the six facings.
func RotationFromInt(v int) Rotation {
	v %= 6
	if v < 0 {
		v += 6
	}
	return Rotation(v)
}

// Next returns the facing one step clockwise.
func (r Rotation) Next() Rotation { return RotationFromInt(int(r) + 1) }

// Prev returns the facing one step counter-clockwise.
func (r Rotation) Prev() Rotation { return RotationFromInt(int(r) - 1) }

// IsEven reports whether the facing points at an even corner (A, C, E).
func (r Rotation) IsEven() bool { return r%2 == 0 }

func (r Rotation) String() string {
	return string(rune('A' + int(r%6)))
}

// Rotate turns an axial offset clockwise about the origin by the given facing.
// One step maps each edge direction onto the next one in Edges order.
func (h HexCoord) Rotate(r Rotation) HexCoord {
	for i := 0; i < int(r%6); i++ {
		h = HexCoord{Q: -h.R, R: h.Q + h.R}
	}
	return h
}
