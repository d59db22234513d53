package visualization

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"leemiv/internal/models"
	"leemiv/pkg/coords"
)

// testStack builds a rows x cols x samples stack with value 100*n + 10*r + c
func testStack(t *testing.T, rows, cols, samples int) *models.ImageStack {
	t.Helper()
	stack, err := models.NewImageStack(rows, cols, samples)
	if err != nil {
		t.Fatalf("Failed to create stack: %v", err)
	}
	for n := 0; n < samples; n++ {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				stack.Set(r, c, n, float64(100*n+10*r+c))
			}
		}
	}
	return stack
}

// TestDisplayArrayMatchesMapper verifies the displayed array agrees with the coordinate mapper
func TestDisplayArrayMatchesMapper(t *testing.T) {
	rows, cols := 4, 6
	stack := testStack(t, rows, cols, 2)
	viewer := NewViewer(stack)

	disp, err := viewer.DisplayArray(1)
	if err != nil {
		t.Fatalf("DisplayArray failed: %v", err)
	}
	r, c := disp.Dims()
	if r != cols || c != rows {
		t.Fatalf("Expected display shape %dx%d, got %dx%d", cols, rows, r, c)
	}

	for x := 0; x < cols; x++ {
		for y := 0; y < rows; y++ {
			px := coords.ToArraySpace(coords.DisplayPoint{X: x, Y: y}, rows)
			if got, want := disp.At(x, y), stack.At(px.Row, px.Col, 1); got != want {
				t.Errorf("Display (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}

	if _, err := viewer.DisplayArray(2); !errors.Is(err, models.ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds, got %v", err)
	}
}

func TestFrameImage(t *testing.T) {
	viewer := NewViewer(testStack(t, 3, 3, 1))
	img, err := viewer.FrameImage(0)
	if err != nil {
		t.Fatalf("FrameImage failed: %v", err)
	}
	gray, ok := img.(*image.Gray16)
	if !ok {
		t.Fatalf("Expected *image.Gray16, got %T", img)
	}
	if gray.Gray16At(0, 0).Y != 0 {
		t.Errorf("Expected minimum to be black, got %d", gray.Gray16At(0, 0).Y)
	}
	if gray.Gray16At(2, 2).Y != 65535 {
		t.Errorf("Expected maximum to be white, got %d", gray.Gray16At(2, 2).Y)
	}

	// A flat frame must not divide by zero
	flat, _ := models.NewImageStack(2, 2, 1)
	if _, err := NewViewer(flat).FrameImage(0); err != nil {
		t.Errorf("FrameImage on a flat frame failed: %v", err)
	}
}

// TestSaveFrameSequence verifies one file is written per frame
func TestSaveFrameSequence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	viewer := NewViewer(testStack(t, 5, 4, 3))
	if err := viewer.SaveFrameSequence(dir); err != nil {
		t.Fatalf("SaveFrameSequence failed: %v", err)
	}
	for _, name := range []string{"frame_000.png", "frame_001.png", "frame_002.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}
}

func TestPlotCurves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iv.png")
	curves := []models.Curve{
		{Axis: []float64{1, 2, 3}, Values: []float64{3, 1, 2}, Label: "beam 0"},
		{Axis: []float64{1, 2, 3}, Values: []float64{1, 2, 3}, Label: "beam 1"},
	}
	if err := PlotCurves(path, "I(V)", "Energy (eV)", "Intensity", curves); err != nil {
		t.Fatalf("PlotCurves failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("Expected a non-empty plot file: %v", err)
	}

	if err := PlotCurves(path, "", "", "", nil); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestPaletteWraps(t *testing.T) {
	if Color(0) != Color(len(DefaultPalette)) {
		t.Errorf("Expected palette to wrap")
	}
}
