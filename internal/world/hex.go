// Package world provides the hex grid, terrain, and placed-object model.
// Uses axial coordinates (q, r) for the hex grid and a flat-top layout for
// planar (x, z) positions.
package world

import (
	"fmt"
	"math"
)

// Sqrt3 is used throughout the flat-top layout formulas.
var Sqrt3 = math.Sqrt(3)

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Add returns the component-wise sum of two coordinates.
func (h HexCoord) Add(o HexCoord) HexCoord {
	return HexCoord{Q: h.Q + o.Q, R: h.R + o.R}
}

func (h HexCoord) String() string {
	return fmt.Sprintf("(%d,%d)", h.Q, h.R)
}

// AxialToPlanar converts an axial coordinate to the planar (x, z) position of
// the cell center in a flat-top layout with unit corner radius.
func AxialToPlanar(h HexCoord) (x, z float64) {
	x = float64(h.Q) * 3 / 2
	z = float64(h.Q)*Sqrt3/2 + float64(h.R)*Sqrt3
	return x, z
}

// OffsetToAxial converts odd-q vertical offset coordinates to axial.
func OffsetToAxial(col, row int) HexCoord {
	return HexCoord{Q: col, R: row - floorDiv(col+1, 2)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// EdgeDirection names one of the six edges of a flat-top hex.
// "Top" is the -z side.
type EdgeDirection uint8

const (
	EdgeTopCenter EdgeDirection = iota
	EdgeTopRight
	EdgeBottomRight
	EdgeBottomCenter
	EdgeBottomLeft
	EdgeTopLeft
)

// Edges lists all edge directions in clockwise order starting at the top.
var Edges = [6]EdgeDirection{
	EdgeTopCenter, EdgeTopRight, EdgeBottomRight,
	EdgeBottomCenter, EdgeBottomLeft, EdgeTopLeft,
}

var edgeDeltas = [6]HexCoord{
	EdgeTopCenter:    {Q: 0, R: -1},
	EdgeTopRight:     {Q: 1, R: -1},
	EdgeBottomRight:  {Q: 1, R: 0},
	EdgeBottomCenter: {Q: 0, R: 1},
	EdgeBottomLeft:   {Q: -1, R: 1},
	EdgeTopLeft:      {Q: -1, R: 0},
}

// Delta returns the axial offset to the neighbor across this edge.
func (e EdgeDirection) Delta() HexCoord {
	return edgeDeltas[e]
}

func (e EdgeDirection) String() string {
	switch e {
	case EdgeTopCenter:
		return "TopCenter"
	case EdgeTopRight:
		return "TopRight"
	case EdgeBottomRight:
		return "BottomRight"
	case EdgeBottomCenter:
		return "BottomCenter"
	case EdgeBottomLeft:
		return "BottomLeft"
	case EdgeTopLeft:
		return "TopLeft"
	default:
		return "Unknown"
	}
}

// Corner names one of the six vertices of a flat-top hex.
type Corner uint8

const (
	CornerTopRight Corner = iota
	CornerMiddleRight
	CornerBottomRight
	CornerBottomLeft
	CornerMiddleLeft
	CornerTopLeft
)

// Corners lists all corners in clockwise order, matching the mesh winding.
var Corners = [6]Corner{
	CornerTopRight, CornerMiddleRight, CornerBottomRight,
	CornerBottomLeft, CornerMiddleLeft, CornerTopLeft,
}

var cornerOffsets = [6][2]float64{
	CornerTopRight:    {0.5, -math.Sqrt(3) / 2},
	CornerMiddleRight: {1, 0},
	CornerBottomRight: {0.5, math.Sqrt(3) / 2},
	CornerBottomLeft:  {-0.5, math.Sqrt(3) / 2},
	CornerMiddleLeft:  {-1, 0},
	CornerTopLeft:     {-0.5, -math.Sqrt(3) / 2},
}

var cornerEdges = [6][2]EdgeDirection{
	CornerTopRight:    {EdgeTopCenter, EdgeTopRight},
	CornerMiddleRight: {EdgeTopRight, EdgeBottomRight},
	CornerBottomRight: {EdgeBottomRight, EdgeBottomCenter},
	CornerBottomLeft:  {EdgeBottomCenter, EdgeBottomLeft},
	CornerMiddleLeft:  {EdgeBottomLeft, EdgeTopLeft},
	CornerTopLeft:     {EdgeTopLeft, EdgeTopCenter},
}

// Offset returns the planar (x, z) offset of the corner from the cell center.
func (c Corner) Offset() (x, z float64) {
	o := cornerOffsets[c]
	return o[0], o[1]
}

// Edges returns the two edges that meet at this corner.
func (c Corner) Edges() [2]EdgeDirection {
	return cornerEdges[c]
}

// IsEven reports whether the corner is shared with the even corner lattice
// (TopRight, BottomRight, MiddleLeft).
func (c Corner) IsEven() bool {
	return c%2 == 0
}

func (c Corner) String() string {
	switch c {
	case CornerTopRight:
		return "TopRight"
	case CornerMiddleRight:
		return "MiddleRight"
	case CornerBottomRight:
		return "BottomRight"
	case CornerBottomLeft:
		return "BottomLeft"
	case CornerMiddleLeft:
		return "MiddleLeft"
	case CornerTopLeft:
		return "TopLeft"
	default:
		return "Unknown"
	}
}

// Neighbors returns the six adjacent hex coordinates in edge order.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, e := range Edges {
		result[i] = h.Add(e.Delta())
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	// Max of the three absolute differences in cube coordinates.
	return max(dq, dr, ds)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
