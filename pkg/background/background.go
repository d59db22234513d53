// Package background derives the background regions that surround a LEED
// beam window. The intensity of a beam is judged against the diffuse
// background around it, so each beam gets six smaller windows placed just
// outside its edge.
//
// Two layouts are available. Quadrant puts one box above, one below and two
// on each side of the beam. Circular spaces six boxes evenly on a ring.
// Placement is all-or-nothing: if any one box would leave the image, no
// regions are returned.
package background

import (
	"fmt"
	"strings"

	"leemiv/internal/models"
	"leemiv/pkg/selection"
)

// MinBeamSide is the smallest beam side length backgrounds can be derived for.
const MinBeamSide = 10

// Params tunes the box geometry.
type Params struct {
	// Buffer is the pixel gap between the beam edge and the inner edge of
	// each background box
	Buffer int

	// BeamToBackgroundRatio is beam side / background side
	BeamToBackgroundRatio int

	// GapSizeRatio divides the leftover side length to get the vertical
	// offset of the side boxes from the horizontal center line (quadrant only)
	GapSizeRatio int
}

// Geometry is the resolved sizes for one beam.
type Geometry struct {
	// R1 is the beam half-width, R2 the background half-width
	R1, R2 int
	Buffer int
	Gap    int
}

// Strategy lays out the six background regions around a beam center.
type Strategy interface {
	Name() string
	DefaultParams() Params
	Layout(center models.Pixel, g Geometry) []selection.Region
}

// ParseStrategy returns the strategy with the given name.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "quadrant":
		return Quadrant{}, nil
	case "circular":
		return Circular{}, nil
	}
	return nil, fmt.Errorf("unknown background strategy %q: %w", name, models.ErrInvalidInput)
}

// Validate checks that every parameter is usable.
func (p Params) Validate() error {
	if p.Buffer < 0 {
		return fmt.Errorf("buffer %d must not be negative: %w", p.Buffer, models.ErrInvalidInput)
	}
	if p.BeamToBackgroundRatio <= 0 {
		return fmt.Errorf("beam to background ratio %d must be positive: %w", p.BeamToBackgroundRatio, models.ErrInvalidInput)
	}
	if p.GapSizeRatio <= 0 {
		return fmt.Errorf("gap size ratio %d must be positive: %w", p.GapSizeRatio, models.ErrInvalidInput)
	}
	return nil
}

// Resolve computes the geometry for a beam of the given side length. Odd
// sides are rounded up to the next even length.
func (p Params) Resolve(side int) (Geometry, error) {
	if err := p.Validate(); err != nil {
		return Geometry{}, err
	}
	if side%2 != 0 {
		side++
	}
	if side < MinBeamSide {
		return Geometry{}, fmt.Errorf("beam side %d is smaller than %d: %w", side, MinBeamSide, models.ErrInvalidInput)
	}

	bg := side / p.BeamToBackgroundRatio
	g := Geometry{
		R1:     side / 2,
		R2:     bg / 2,
		Buffer: p.Buffer,
		Gap:    (side - 2*bg) / p.GapSizeRatio,
	}
	if g.R2 <= 0 {
		return Geometry{}, fmt.Errorf("background box for beam side %d is empty: %w", side, models.ErrInvalidInput)
	}
	return g, nil
}

// Placer validates layouts against an image of fixed shape.
type Placer struct {
	rows, cols int
}

// NewPlacer creates a placer for an image of rows x cols pixels.
func NewPlacer(rows, cols int) *Placer {
	return &Placer{rows: rows, cols: cols}
}

// Place derives backgrounds for a beam window with the strategy's default
// parameters.
func (p *Placer) Place(beam selection.Selection, s Strategy) ([]selection.Region, error) {
	return p.PlaceWith(beam, s, s.DefaultParams())
}

// PlaceWith derives backgrounds with explicit parameters. The beam side is
// the shorter side of its rectangle.
func (p *Placer) PlaceWith(beam selection.Selection, s Strategy, params Params) ([]selection.Region, error) {
	if beam.Kind != selection.KindWindow {
		return nil, fmt.Errorf("backgrounds need a beam window, got %s: %w", beam.Kind, models.ErrInvalidInput)
	}
	side := min(beam.Rect.Height(), beam.Rect.Width())
	g, err := params.Resolve(side)
	if err != nil {
		return nil, fmt.Errorf("beam #%d: %w", beam.ID, err)
	}

	regions := s.Layout(beam.Rect.Center(), g)
	for _, r := range regions {
		if !r.Rect().Within(p.rows, p.cols) {
			return nil, fmt.Errorf("%s background %s of beam #%d too close to image edge: %w",
				s.Name(), r.Role, beam.ID, models.ErrOutOfBounds)
		}
	}
	return regions, nil
}
