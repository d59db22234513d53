// Package raster converts straight segments into the integer lattice points
// that approximate them.
package raster

import (
	"image"

	"leemiv/internal/models"
)

// Line returns the lattice points from (x0, y0) to (x1, y1) inclusive using
// Bresenham's integer error accumulation. It works in all eight octants, has
// length max(|dx|, |dy|) + 1 and contains both endpoints exactly once.
//
// Ties in the error term are broken from the lexicographically smaller
// endpoint, so Line(b, a) is always the exact reverse of Line(a, b).
func Line(x0, y0, x1, y1 int) []image.Point {
	if x1 < x0 || (x1 == x0 && y1 < y0) {
		pts := bresenham(x1, y1, x0, y0)
		reverse(pts)
		return pts
	}
	return bresenham(x0, y0, x1, y1)
}

// Path rasterizes the segment between two array pixels, treating columns as
// x and rows as y.
func Path(a, b models.Pixel) []models.Pixel {
	pts := Line(a.Col, a.Row, b.Col, b.Row)
	out := make([]models.Pixel, len(pts))
	for i, p := range pts {
		out[i] = models.Pixel{Row: p.Y, Col: p.X}
	}
	return out
}

func bresenham(x0, y0, x1, y1 int) []image.Point {
	dx, sx := absSign(x1 - x0)
	dy, sy := absSign(y1 - y0)

	// Step along the major axis once per point; the minor axis advances
	// whenever the accumulated error crosses zero.
	if dx >= dy {
		pts := make([]image.Point, 0, dx+1)
		err := 2*dy - dx
		y := y0
		for i := 0; i <= dx; i++ {
			pts = append(pts, image.Point{X: x0 + i*sx, Y: y})
			if err > 0 {
				y += sy
				err -= 2 * dx
			}
			err += 2 * dy
		}
		return pts
	}

	pts := make([]image.Point, 0, dy+1)
	err := 2*dx - dy
	x := x0
	for i := 0; i <= dy; i++ {
		pts = append(pts, image.Point{X: x, Y: y0 + i*sy})
		if err > 0 {
			x += sx
			err -= 2 * dy
		}
		err += 2 * dx
	}
	return pts
}

func absSign(d int) (int, int) {
	if d < 0 {
		return -d, -1
	}
	return d, 1
}

func reverse(pts []image.Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}
