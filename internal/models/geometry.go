package models

import "fmt"

// Pixel is an array-space coordinate: Row indexes the first stack dimension
// (0 = top of the image) and Col the second.
type Pixel struct {
	Row int
	Col int
}

func (p Pixel) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Rect is an array-space rectangle with half-open bounds: it covers rows
// [Top, Bottom) and columns [Left, Right).
type Rect struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

// RectFromCorners returns the rectangle spanning two clicked pixels, both of
// which are included. The lesser coordinate wins per axis, so the order of the
// two corners does not matter.
func RectFromCorners(a, b Pixel) Rect {
	return Rect{
		Top:    min(a.Row, b.Row),
		Left:   min(a.Col, b.Col),
		Bottom: max(a.Row, b.Row) + 1,
		Right:  max(a.Col, b.Col) + 1,
	}
}

// CenteredRect returns the 2r x 2r square [row-r, row+r) x [col-r, col+r).
func CenteredRect(center Pixel, r int) Rect {
	return Rect{
		Top:    center.Row - r,
		Left:   center.Col - r,
		Bottom: center.Row + r,
		Right:  center.Col + r,
	}
}

// Height is the number of rows covered.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Width is the number of columns covered.
func (r Rect) Width() int { return r.Right - r.Left }

// PixelCount is the exact number of pixels the rectangle indexes.
func (r Rect) PixelCount() int { return r.Height() * r.Width() }

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.Height() <= 0 || r.Width() <= 0 }

// Center returns the pixel at the middle of the rectangle. For even sides this
// is the lower-right pixel of the central 2x2 block, which makes
// CenteredRect(c, r).Center() == c.
func (r Rect) Center() Pixel {
	return Pixel{Row: (r.Top + r.Bottom) / 2, Col: (r.Left + r.Right) / 2}
}

// Within reports whether every pixel of the rectangle indexes inside an
// array of the given rows and columns.
func (r Rect) Within(rows, cols int) bool {
	return !r.Empty() && r.Top >= 0 && r.Left >= 0 && r.Bottom <= rows && r.Right <= cols
}

func (r Rect) String() string {
	return fmt.Sprintf("rows [%d, %d) cols [%d, %d)", r.Top, r.Bottom, r.Left, r.Right)
}
