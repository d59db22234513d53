package stackio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/tiff"

	"leemiv/internal/models"
)

// grayFrame returns a w x h Gray16 image whose pixel (x, y) is base + 10*y + x
func grayFrame(w, h int, base uint16) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray16(x, y, color.Gray16{Y: base + uint16(10*y+x)})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

// TestLoadStackOrder verifies frames are ordered by file number, not name
func TestLoadStackOrder(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "img10.png"), grayFrame(4, 3, 3000))
	writePNG(t, filepath.Join(dir, "img2.png"), grayFrame(4, 3, 2000))
	writePNG(t, filepath.Join(dir, "img1.png"), grayFrame(4, 3, 1000))
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)

	stack, err := LoadStack(dir, 2)
	if err != nil {
		t.Fatalf("LoadStack failed: %v", err)
	}
	rows, cols, n := stack.Dims()
	if rows != 3 || cols != 4 || n != 3 {
		t.Fatalf("Expected dims (3, 4, 3), got (%d, %d, %d)", rows, cols, n)
	}

	// pixel row 2, col 1 is 10*2+1 = 21 above each frame's base
	spec := stack.Spectrum(2, 1)
	want := []float64{1021, 2021, 3021}
	for i := range want {
		if spec[i] != want[i] {
			t.Errorf("Expected spectrum %v, got %v", want, spec)
			break
		}
	}
}

func TestLoadStackTIFF(t *testing.T) {
	dir := t.TempDir()
	for i, base := range []uint16{100, 200} {
		var buf bytes.Buffer
		if err := tiff.Encode(&buf, grayFrame(2, 2, base), nil); err != nil {
			t.Fatalf("Failed to encode tiff: %v", err)
		}
		name := filepath.Join(dir, "scan_"+string(rune('0'+i))+".tif")
		if err := os.WriteFile(name, buf.Bytes(), 0644); err != nil {
			t.Fatalf("Failed to write tiff: %v", err)
		}
	}

	stack, err := LoadStack(dir, 1)
	if err != nil {
		t.Fatalf("LoadStack failed: %v", err)
	}
	if stack.At(1, 1, 0) != 111 || stack.At(1, 1, 1) != 211 {
		t.Errorf("Unexpected tiff intensities %v", stack.Spectrum(1, 1))
	}
}

func TestLoadStackRejects(t *testing.T) {
	empty := t.TempDir()
	if _, err := LoadStack(empty, 1); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty dir, got %v", err)
	}

	mixed := t.TempDir()
	writePNG(t, filepath.Join(mixed, "a1.png"), grayFrame(4, 4, 0))
	writePNG(t, filepath.Join(mixed, "a2.png"), grayFrame(5, 4, 0))
	if _, err := LoadStack(mixed, 2); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for mismatched frames, got %v", err)
	}

	broken := t.TempDir()
	os.WriteFile(filepath.Join(broken, "x1.png"), []byte("not a png"), 0644)
	if _, err := LoadStack(broken, 1); err == nil {
		t.Errorf("Expected decode error")
	}
}

func TestExtractNumber(t *testing.T) {
	tests := map[string]int{
		"frame_0042.png": 42,
		"/data/e12.tif":  12,
		"plain.png":      0,
		"s1_e3.jpg":      13,
	}
	for name, want := range tests {
		if got := extractNumber(name); got != want {
			t.Errorf("extractNumber(%q) = %d, want %d", name, got, want)
		}
	}
}

func TestWriteCurve(t *testing.T) {
	var buf bytes.Buffer
	c := models.Curve{Axis: []float64{2.5, 2.6}, Values: []float64{100, 0.125}}
	if err := WriteCurve(&buf, c); err != nil {
		t.Fatalf("WriteCurve failed: %v", err)
	}
	if got, want := buf.String(), "2.5\t100\n2.6\t0.125\n"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	if err := WriteCurve(&buf, models.Curve{Axis: []float64{1}, Values: nil}); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestWriteCurves(t *testing.T) {
	dir := t.TempDir()
	var jobs []Job
	for _, name := range []string{"a0.txt", "a1.txt", "sub/a2.txt"} {
		jobs = append(jobs, Job{
			Path:  filepath.Join(dir, name),
			Curve: models.Curve{Axis: []float64{0, 1}, Values: []float64{5, 6}},
		})
	}
	if err := WriteCurves(jobs, 3); err != nil {
		t.Fatalf("WriteCurves failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "sub", "a2.txt"))
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 2 {
		t.Errorf("Expected 2 lines, got %q", data)
	}
}
