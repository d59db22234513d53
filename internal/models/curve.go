package models

import "fmt"

// Curve is an extracted intensity sequence paired with its axis. Curves are
// produced per extraction call and never retained by the core.
type Curve struct {
	// Axis holds energy/time labels, or path positions for line profiles
	Axis []float64

	// Values holds one intensity per axis label
	Values []float64

	// Label names the curve for plots and output files
	Label string
}

// Len returns the number of samples.
func (c Curve) Len() int { return len(c.Values) }

// Validate checks that the axis and values line up.
func (c Curve) Validate() error {
	if len(c.Axis) != len(c.Values) {
		return fmt.Errorf("curve %q has %d axis labels for %d values: %w",
			c.Label, len(c.Axis), len(c.Values), ErrInvalidInput)
	}
	return nil
}
