// Package selection holds the user's spatial selections in array space and
// enforces the capacity and in-bounds rules before anything is stored.
package selection

import (
	"fmt"

	"leemiv/internal/models"
)

// Kind is the selection variant.
type Kind int

const (
	// KindPoint extracts a single pixel's spectrum.
	KindPoint Kind = iota
	// KindWindow averages a rectangle per spectral sample.
	KindWindow
	// KindLine samples the rasterized path between two pixels.
	KindLine
	// KindBackground is a window derived from a beam window.
	KindBackground
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindWindow:
		return "window"
	case KindLine:
		return "line"
	case KindBackground:
		return "background"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ID identifies a stored selection. IDs are never reused within a store.
type ID int

// Role tags a background region with the slot it occupies around its beam.
type Role int

// Quadrant layout slots.
const (
	RoleTop Role = iota
	RoleBottom
	RoleRightUpper
	RoleRightLower
	RoleLeftUpper
	RoleLeftLower
)

// Circular layout slots, named by their angle in degrees.
const (
	RoleArc90 Role = iota + 6
	RoleArc150
	RoleArc210
	RoleArc270
	RoleArc330
	RoleArc30
)

// RoleManual tags a background drawn by hand rather than placed automatically.
const RoleManual Role = 12

var roleNames = map[Role]string{
	RoleTop:        "top",
	RoleBottom:     "bottom",
	RoleRightUpper: "right-upper",
	RoleRightLower: "right-lower",
	RoleLeftUpper:  "left-upper",
	RoleLeftLower:  "left-lower",
	RoleArc90:      "arc-90",
	RoleArc150:     "arc-150",
	RoleArc210:     "arc-210",
	RoleArc270:     "arc-270",
	RoleArc330:     "arc-330",
	RoleArc30:      "arc-30",
	RoleManual:     "manual",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Selection is one stored selection with its array-space geometry. Which
// geometry fields are meaningful depends on Kind:
//
//   - KindPoint: Pixel
//   - KindWindow, KindBackground: Rect (HalfWidth set when built around a center)
//   - KindLine: Start, End
type Selection struct {
	ID    ID
	Kind  Kind
	Color int

	Pixel     models.Pixel
	Rect      models.Rect
	Start     models.Pixel
	End       models.Pixel
	HalfWidth int

	// Parent and Role are only set for backgrounds
	Parent ID
	Role   Role
}

func (s Selection) String() string {
	switch s.Kind {
	case KindPoint:
		return fmt.Sprintf("point #%d at %v", s.ID, s.Pixel)
	case KindLine:
		return fmt.Sprintf("line #%d from %v to %v", s.ID, s.Start, s.End)
	case KindBackground:
		return fmt.Sprintf("background #%d (%s of #%d) %v", s.ID, s.Role, s.Parent, s.Rect)
	}
	return fmt.Sprintf("window #%d %v", s.ID, s.Rect)
}

// Region is a derived background rectangle waiting to be stored.
type Region struct {
	Center    models.Pixel
	HalfWidth int
	Role      Role
}

// Rect returns the region's 2r x 2r rectangle.
func (r Region) Rect() models.Rect {
	return models.CenteredRect(r.Center, r.HalfWidth)
}
