package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ImageStack is a 3D intensity array of shape (H, W, N): H rows, W columns and
// N spectral (energy) or temporal samples. Each of the N frames is stored as a
// dense H x W matrix, row 0 being the top of the logical image.
//
// A stack is read-only once loading completes. Reloading an experiment
// replaces the stack wholesale rather than mutating it.
type ImageStack struct {
	frames []*mat.Dense
	rows   int
	cols   int
}

// NewImageStack creates a zero-filled stack with the given shape.
func NewImageStack(rows, cols, samples int) (*ImageStack, error) {
	if rows <= 0 || cols <= 0 || samples <= 0 {
		return nil, fmt.Errorf("stack shape (%d, %d, %d) must be positive: %w",
			rows, cols, samples, ErrInvalidInput)
	}
	frames := make([]*mat.Dense, samples)
	for n := range frames {
		frames[n] = mat.NewDense(rows, cols, nil)
	}
	return &ImageStack{frames: frames, rows: rows, cols: cols}, nil
}

// StackFromFrames builds a stack from already decoded frames. All frames must
// share the same shape. The frames are used directly, not copied.
func StackFromFrames(frames []*mat.Dense) (*ImageStack, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames given: %w", ErrInvalidInput)
	}
	rows, cols := frames[0].Dims()
	for n, f := range frames {
		r, c := f.Dims()
		if r != rows || c != cols {
			return nil, fmt.Errorf("frame %d has shape %dx%d, expected %dx%d: %w",
				n, r, c, rows, cols, ErrInvalidInput)
		}
	}
	return &ImageStack{frames: frames, rows: rows, cols: cols}, nil
}

// Dims returns the stack shape (H, W, N).
func (s *ImageStack) Dims() (rows, cols, samples int) {
	return s.rows, s.cols, len(s.frames)
}

// At returns the intensity at array-space (row, col) in frame n.
func (s *ImageStack) At(row, col, n int) float64 {
	return s.frames[n].At(row, col)
}

// Set stores an intensity. It is meant for loaders and tests; extraction code
// never writes to a stack.
func (s *ImageStack) Set(row, col, n int, v float64) {
	s.frames[n].Set(row, col, v)
}

// Frame returns frame n. Callers must not modify it.
func (s *ImageStack) Frame(n int) *mat.Dense {
	return s.frames[n]
}

// Spectrum returns a fresh copy of the full spectral sequence at (row, col).
func (s *ImageStack) Spectrum(row, col int) []float64 {
	out := make([]float64, len(s.frames))
	for n, f := range s.frames {
		out[n] = f.At(row, col)
	}
	return out
}

// Contains reports whether (row, col) indexes inside the stack.
func (s *ImageStack) Contains(p Pixel) bool {
	return p.Row >= 0 && p.Row < s.rows && p.Col >= 0 && p.Col < s.cols
}
