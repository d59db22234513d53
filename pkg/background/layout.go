package background

import (
	"math"

	"leemiv/internal/models"
	"leemiv/pkg/selection"
)

// Quadrant places a box directly above and below the beam and two boxes on
// each side, offset up and down from the horizontal center line by Gap.
type Quadrant struct{}

func (Quadrant) Name() string { return "quadrant" }

func (Quadrant) DefaultParams() Params {
	return Params{Buffer: 5, BeamToBackgroundRatio: 3, GapSizeRatio: 4}
}

func (Quadrant) Layout(c models.Pixel, g Geometry) []selection.Region {
	d := g.R1 + g.Buffer + g.R2
	dv := g.Gap + g.R2
	at := func(dRow, dCol int, role selection.Role) selection.Region {
		return selection.Region{
			Center:    models.Pixel{Row: c.Row + dRow, Col: c.Col + dCol},
			HalfWidth: g.R2,
			Role:      role,
		}
	}
	return []selection.Region{
		at(-d, 0, selection.RoleTop),
		at(d, 0, selection.RoleBottom),
		at(-dv, d, selection.RoleRightUpper),
		at(dv, d, selection.RoleRightLower),
		at(-dv, -d, selection.RoleLeftUpper),
		at(dv, -d, selection.RoleLeftLower),
	}
}

// Circular spaces six boxes 60 degrees apart on a ring of radius
// R1+Buffer+R2, starting straight above the beam and going counter-clockwise.
type Circular struct{}

var arcRoles = [...]selection.Role{
	selection.RoleArc90,
	selection.RoleArc150,
	selection.RoleArc210,
	selection.RoleArc270,
	selection.RoleArc330,
	selection.RoleArc30,
}

func (Circular) Name() string { return "circular" }

func (Circular) DefaultParams() Params {
	return Params{Buffer: 10, BeamToBackgroundRatio: 3, GapSizeRatio: 4}
}

func (Circular) Layout(c models.Pixel, g Geometry) []selection.Region {
	radius := float64(g.R1 + g.Buffer + g.R2)
	out := make([]selection.Region, len(arcRoles))
	for k, role := range arcRoles {
		phi := math.Pi/2 + float64(k)*math.Pi/3
		// Rows grow downward, so "up" on screen is a negative row offset
		out[k] = selection.Region{
			Center: models.Pixel{
				Row: c.Row - int(math.Round(radius*math.Sin(phi))),
				Col: c.Col + int(math.Round(radius*math.Cos(phi))),
			},
			HalfWidth: g.R2,
			Role:      role,
		}
	}
	return out
}
