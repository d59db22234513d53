// Package coords converts between display space and array space.
//
// Stack frames are shown flipped vertically and then transposed, which is a
// 90 degree rotation relative to native storage. In display space X is the
// column component and Y is the row component counted from the bottom edge.
// In array space row 0 is the top of the image. This package is the only
// place where that flip happens; every other package works in array space.
package coords

import (
	"math"

	"leemiv/internal/models"
)

// DisplayPoint is a display-space coordinate with any toolkit offset already
// removed by the caller.
type DisplayPoint struct {
	X int
	Y int
}

// ToArraySpace maps a display point onto the array pixel it shows.
func ToArraySpace(p DisplayPoint, height int) models.Pixel {
	return models.Pixel{Row: (height - 1) - p.Y, Col: p.X}
}

// ToDisplaySpace is the inverse of ToArraySpace.
func ToDisplaySpace(px models.Pixel, height int) DisplayPoint {
	return DisplayPoint{X: px.Col, Y: (height - 1) - px.Row}
}

// FromView floors fractional view coordinates and maps them to array space.
// Flooring (rather than truncation) keeps points just left of or below the
// image outside it.
func FromView(x, y float64, height int) models.Pixel {
	return ToArraySpace(DisplayPoint{X: int(math.Floor(x)), Y: int(math.Floor(y))}, height)
}

// Mapper binds the conversions to one stack shape.
type Mapper struct {
	Rows int
	Cols int
}

// NewMapper returns a mapper for a stack with the given rows and columns.
func NewMapper(rows, cols int) Mapper {
	return Mapper{Rows: rows, Cols: cols}
}

// ToArray maps a display point to array space.
func (m Mapper) ToArray(p DisplayPoint) models.Pixel {
	return ToArraySpace(p, m.Rows)
}

// ToDisplay maps an array pixel to display space.
func (m Mapper) ToDisplay(px models.Pixel) DisplayPoint {
	return ToDisplaySpace(px, m.Rows)
}

// Contains reports whether the array pixel lies inside [0, Rows) x [0, Cols).
func (m Mapper) Contains(px models.Pixel) bool {
	return px.Row >= 0 && px.Row < m.Rows && px.Col >= 0 && px.Col < m.Cols
}
