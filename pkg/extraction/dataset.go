// Package extraction turns selections on an image stack into intensity
// curves: per-pixel spectra, window means and spatial line profiles.
package extraction

import (
	"fmt"

	"leemiv/internal/models"
	"leemiv/pkg/smoothing"
)

// Dataset is one loaded experiment: the stack, the axis labelling its third
// dimension, and the smoothing cache mirroring the stack's shape.
type Dataset struct {
	Stack *models.ImageStack
	Axis  models.SpectralAxis
	Cache *smoothing.Cache
}

// NewDataset pairs a stack with its axis. The axis must label every frame.
func NewDataset(stack *models.ImageStack, axis models.SpectralAxis) (*Dataset, error) {
	d := &Dataset{}
	if err := d.Replace(stack, axis); err != nil {
		return nil, err
	}
	return d, nil
}

// Replace swaps in a newly loaded stack. The cache is reset to the new
// shape, so nothing smoothed from the previous stack survives. Callers must
// discard in-flight extractions before calling Replace.
func (d *Dataset) Replace(stack *models.ImageStack, axis models.SpectralAxis) error {
	if stack == nil {
		return fmt.Errorf("nil stack: %w", models.ErrInvalidInput)
	}
	rows, cols, samples := stack.Dims()
	if axis.Len() != samples {
		return fmt.Errorf("axis has %d labels for %d frames: %w", axis.Len(), samples, models.ErrInvalidInput)
	}

	d.Stack = stack
	d.Axis = axis
	if d.Cache == nil {
		d.Cache = smoothing.NewCache(rows, cols, samples)
	} else {
		d.Cache.Reset(rows, cols, samples)
	}
	return nil
}

// Dims returns the stack shape.
func (d *Dataset) Dims() (rows, cols, samples int) {
	return d.Stack.Dims()
}
