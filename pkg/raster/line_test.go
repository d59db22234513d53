package raster

import (
	"image"
	"math/rand"
	"testing"

	"leemiv/internal/models"
)

func TestSinglePoint(t *testing.T) {
	pts := Line(0, 0, 0, 0)
	if len(pts) != 1 || pts[0] != (image.Point{}) {
		t.Errorf("Expected [(0,0)], got %v", pts)
	}
}

func TestHorizontal(t *testing.T) {
	pts := Line(0, 0, 4, 0)
	if len(pts) != 5 {
		t.Fatalf("Expected 5 points, got %d", len(pts))
	}
	for i, p := range pts {
		if p != (image.Point{X: i, Y: 0}) {
			t.Errorf("Expected point %d to be (%d,0), got %v", i, i, p)
		}
	}
}

func TestKnownSegment(t *testing.T) {
	got := Line(0, 0, 6, 2)
	want := []image.Point{{0, 0}, {1, 0}, {2, 1}, {3, 1}, {4, 1}, {5, 2}, {6, 2}}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Point %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

// TestAllOctants checks length, endpoints, connectivity and reversal for
// random segments in every direction
func TestAllOctants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 500; trial++ {
		x0, y0 := rng.Intn(41)-20, rng.Intn(41)-20
		x1, y1 := rng.Intn(41)-20, rng.Intn(41)-20

		pts := Line(x0, y0, x1, y1)
		dx, _ := absSign(x1 - x0)
		dy, _ := absSign(y1 - y0)
		if len(pts) != max(dx, dy)+1 {
			t.Fatalf("Line(%d,%d,%d,%d) has %d points, want %d", x0, y0, x1, y1, len(pts), max(dx, dy)+1)
		}
		if pts[0] != (image.Point{X: x0, Y: y0}) || pts[len(pts)-1] != (image.Point{X: x1, Y: y1}) {
			t.Fatalf("Line(%d,%d,%d,%d) endpoints are %v and %v", x0, y0, x1, y1, pts[0], pts[len(pts)-1])
		}
		seen := make(map[image.Point]bool)
		for i, p := range pts {
			if seen[p] {
				t.Fatalf("Line(%d,%d,%d,%d) repeats %v", x0, y0, x1, y1, p)
			}
			seen[p] = true
			if i > 0 {
				sx, _ := absSign(p.X - pts[i-1].X)
				sy, _ := absSign(p.Y - pts[i-1].Y)
				if sx > 1 || sy > 1 {
					t.Fatalf("Line(%d,%d,%d,%d) jumps from %v to %v", x0, y0, x1, y1, pts[i-1], p)
				}
			}
		}

		back := Line(x1, y1, x0, y0)
		for i := range pts {
			if back[len(back)-1-i] != pts[i] {
				t.Fatalf("Line(%d,%d,%d,%d) is not the reverse of its swap: %v vs %v", x0, y0, x1, y1, pts, back)
			}
		}
	}
}

func TestPath(t *testing.T) {
	path := Path(models.Pixel{Row: 2, Col: 1}, models.Pixel{Row: 2, Col: 4})
	if len(path) != 4 {
		t.Fatalf("Expected 4 pixels, got %d", len(path))
	}
	for i, px := range path {
		if px.Row != 2 || px.Col != 1+i {
			t.Errorf("Pixel %d: expected (2, %d), got %v", i, 1+i, px)
		}
	}
}
