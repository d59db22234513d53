package models

import (
	"fmt"
	"math"
)

// Axis units.
const (
	UnitEnergy = "eV"
	UnitTime   = "s"
)

// SpectralAxis labels the third stack dimension index-for-index. It is built
// once at load time and never modified afterwards.
type SpectralAxis struct {
	values []float64
	unit   string
}

// EnergyAxis builds n energy labels starting at start and advancing by step.
// Each label is rounded to two decimals before the next step is added, which
// keeps long sweeps free of accumulated binary rounding noise.
func EnergyAxis(start, step float64, n int) (SpectralAxis, error) {
	if n <= 0 {
		return SpectralAxis{}, fmt.Errorf("axis length %d must be positive: %w", n, ErrInvalidInput)
	}
	values := make([]float64, n)
	values[0] = start
	for k := 1; k < n; k++ {
		values[k] = round2(values[k-1] + step)
	}
	return SpectralAxis{values: values, unit: UnitEnergy}, nil
}

// TimeAxis builds n time labels k*step seconds.
func TimeAxis(step float64, n int) (SpectralAxis, error) {
	if n <= 0 {
		return SpectralAxis{}, fmt.Errorf("axis length %d must be positive: %w", n, ErrInvalidInput)
	}
	if step <= 0 {
		return SpectralAxis{}, fmt.Errorf("time step %g must be positive: %w", step, ErrInvalidInput)
	}
	values := make([]float64, n)
	for k := range values {
		values[k] = float64(k) * step
	}
	return SpectralAxis{values: values, unit: UnitTime}, nil
}

// IndexAxis returns the synthetic axis 0..n-1 used for line profiles.
func IndexAxis(n int) []float64 {
	out := make([]float64, n)
	for k := range out {
		out[k] = float64(k)
	}
	return out
}

// Len returns the number of labels.
func (a SpectralAxis) Len() int { return len(a.values) }

// Unit returns "eV" or "s".
func (a SpectralAxis) Unit() string { return a.unit }

// At returns label k.
func (a SpectralAxis) At(k int) float64 { return a.values[k] }

// Values returns a copy of the labels.
func (a SpectralAxis) Values() []float64 {
	out := make([]float64, len(a.values))
	copy(out, a.values)
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
