// Package visualization renders stack frames the way a display toolkit sees
// them and plots extracted curves.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"leemiv/internal/models"
)

// Viewer renders the frames of an image stack.
type Viewer struct {
	stack *models.ImageStack

	// dimensions of the stack
	rows    int
	cols    int
	samples int
}

// NewViewer creates a viewer over a loaded stack
func NewViewer(stack *models.ImageStack) *Viewer {
	rows, cols, samples := stack.Dims()
	return &Viewer{stack: stack, rows: rows, cols: cols, samples: samples}
}

// DisplayArray returns frame n flipped vertically and then transposed, which
// is the orientation a display toolkit receives. Element (X, Y) of the result
// is the intensity shown at display coordinate (X, Y), so
// DisplayArray(n).At(X, Y) == stack.At(rows-1-Y, X, n).
func (v *Viewer) DisplayArray(n int) (*mat.Dense, error) {
	if err := v.checkFrame(n); err != nil {
		return nil, err
	}
	frame := v.stack.Frame(n)

	flipped := mat.NewDense(v.rows, v.cols, nil)
	for r := 0; r < v.rows; r++ {
		flipped.SetRow(r, frame.RawRowView(v.rows-1-r))
	}

	var out mat.Dense
	out.CloneFrom(flipped.T())
	return &out, nil
}

// FrameImage renders frame n in array orientation (row 0 at the top) as a
// 16-bit gray image, scaled so the frame's minimum is black and its maximum
// white.
func (v *Viewer) FrameImage(n int) (image.Image, error) {
	if err := v.checkFrame(n); err != nil {
		return nil, err
	}
	frame := v.stack.Frame(n)
	lo, hi := mat.Min(frame), mat.Max(frame)
	scale := 0.0
	if hi > lo {
		scale = 65535 / (hi - lo)
	}

	img := image.NewGray16(image.Rect(0, 0, v.cols, v.rows))
	for y := 0; y < v.rows; y++ {
		for x := 0; x < v.cols; x++ {
			value := math.Max(0, math.Min(65535, (frame.At(y, x)-lo)*scale))
			img.SetGray16(x, y, color.Gray16{Y: uint16(math.Round(value))})
		}
	}
	return img, nil
}

// SaveFrame saves a rendered frame as a PNG image
func (v *Viewer) SaveFrame(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SaveFrameSequence renders and saves every frame of the stack
func (v *Viewer) SaveFrameSequence(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for n := 0; n < v.samples; n++ {
		img, err := v.FrameImage(n)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("frame_%03d.png", n))
		if err := v.SaveFrame(img, filename); err != nil {
			return err
		}
	}

	return nil
}

func (v *Viewer) checkFrame(n int) error {
	if n < 0 || n >= v.samples {
		return fmt.Errorf("frame %d outside [0, %d): %w", n, v.samples, models.ErrOutOfBounds)
	}
	return nil
}
