// Package aggregate combines extracted curves: averaging several beams,
// normalizing to reflectivity and subtracting background.
package aggregate

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"leemiv/internal/models"
)

// Average returns the elementwise mean of at least two curves of equal
// length. The axis and label of the first curve are carried over.
func Average(curves ...models.Curve) (models.Curve, error) {
	if len(curves) < 2 {
		return models.Curve{}, fmt.Errorf("averaging needs at least 2 curves, got %d: %w",
			len(curves), models.ErrDegenerateAggregate)
	}
	n := curves[0].Len()
	if n == 0 {
		return models.Curve{}, fmt.Errorf("cannot average empty curves: %w", models.ErrDegenerateAggregate)
	}
	sum := make([]float64, n)
	for i, c := range curves {
		if c.Len() != n {
			return models.Curve{}, fmt.Errorf("curve %d has %d samples, expected %d: %w",
				i, c.Len(), n, models.ErrInvalidInput)
		}
		floats.Add(sum, c.Values)
	}
	floats.Scale(1/float64(len(curves)), sum)

	return models.Curve{Axis: copyOf(curves[0].Axis), Values: sum, Label: curves[0].Label}, nil
}

// Normalize divides a curve by its maximum.
func Normalize(c models.Curve) (models.Curve, error) {
	if c.Len() == 0 {
		return models.Curve{}, fmt.Errorf("cannot normalize an empty curve: %w", models.ErrDegenerateAggregate)
	}
	peak := floats.Max(c.Values)
	if peak == 0 {
		return models.Curve{}, fmt.Errorf("curve %q has zero maximum: %w", c.Label, models.ErrDegenerateAggregate)
	}
	values := copyOf(c.Values)
	floats.Scale(1/peak, values)
	return models.Curve{Axis: copyOf(c.Axis), Values: values, Label: c.Label}, nil
}

// NormalizeValues is Normalize on a bare sequence.
func NormalizeValues(values []float64) ([]float64, error) {
	c, err := Normalize(models.Curve{Values: values})
	if err != nil {
		return nil, err
	}
	return c.Values, nil
}

// SubtractBackground returns the beam curve minus the elementwise mean of
// its background curves.
func SubtractBackground(beam models.Curve, backgrounds []models.Curve) (models.Curve, error) {
	if len(backgrounds) == 0 {
		return models.Curve{}, fmt.Errorf("no background curves for %q: %w", beam.Label, models.ErrDegenerateAggregate)
	}
	mean := make([]float64, beam.Len())
	for i, bg := range backgrounds {
		if bg.Len() != beam.Len() {
			return models.Curve{}, fmt.Errorf("background %d has %d samples, beam has %d: %w",
				i, bg.Len(), beam.Len(), models.ErrInvalidInput)
		}
		floats.Add(mean, bg.Values)
	}
	floats.Scale(1/float64(len(backgrounds)), mean)

	values := make([]float64, beam.Len())
	floats.SubTo(values, beam.Values, mean)
	return models.Curve{Axis: copyOf(beam.Axis), Values: values, Label: beam.Label}, nil
}

func copyOf(s []float64) []float64 {
	if s == nil {
		return nil
	}
	out := make([]float64, len(s))
	copy(out, s)
	return out
}
