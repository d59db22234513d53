package selection

import (
	"fmt"
	"slices"

	"leemiv/internal/models"
	"leemiv/pkg/coords"
)

// BackgroundsPerBeam is the number of background regions derived for, or
// attachable to, one beam window.
const BackgroundsPerBeam = 6

// anchor is the provisional first click of a two-click selection. It is kept
// in both spaces so a caller can draw it, but it is never a Selection.
type anchor struct {
	kind    Kind
	parent  ID
	display coords.DisplayPoint
	pixel   models.Pixel
}

// Store holds the selections made on one stack. Point, window and line
// selections are each limited to capacity live entries (one per palette
// color); backgrounds do not count toward that limit.
//
// Every operation either succeeds completely or leaves the store unchanged.
type Store struct {
	mapper   coords.Mapper
	capacity int

	next    ID
	items   []Selection
	pending *anchor
}

// NewStore creates a store for a stack of rows x cols pixels.
func NewStore(rows, cols, capacity int) *Store {
	return &Store{
		mapper:   coords.NewMapper(rows, cols),
		capacity: capacity,
		next:     1,
	}
}

// Capacity returns the per-kind selection limit.
func (s *Store) Capacity() int { return s.capacity }

// Mapper returns the coordinate mapper bound to the store's stack shape.
func (s *Store) Mapper() coords.Mapper { return s.mapper }

// AddPoint stores a single-pixel selection.
func (s *Store) AddPoint(px models.Pixel) (Selection, error) {
	if err := s.checkCapacity(KindPoint); err != nil {
		return Selection{}, err
	}
	if !s.mapper.Contains(px) {
		return Selection{}, fmt.Errorf("point %v outside %dx%d image: %w",
			px, s.mapper.Rows, s.mapper.Cols, models.ErrOutOfBounds)
	}
	return s.insert(Selection{Kind: KindPoint, Pixel: px}), nil
}

// AddWindow stores a rectangular window.
func (s *Store) AddWindow(rect models.Rect) (Selection, error) {
	if err := s.checkCapacity(KindWindow); err != nil {
		return Selection{}, err
	}
	if err := s.checkRect(rect); err != nil {
		return Selection{}, err
	}
	return s.insert(Selection{Kind: KindWindow, Rect: rect}), nil
}

// AddCentered stores a 2*halfWidth square window centered on a pixel. The
// click is rejected when the square would reach past any image edge.
func (s *Store) AddCentered(center models.Pixel, halfWidth int) (Selection, error) {
	if halfWidth <= 0 {
		return Selection{}, fmt.Errorf("half-width %d must be positive: %w", halfWidth, models.ErrInvalidInput)
	}
	if err := s.checkCapacity(KindWindow); err != nil {
		return Selection{}, err
	}
	rect := models.CenteredRect(center, halfWidth)
	if err := s.checkRect(rect); err != nil {
		return Selection{}, fmt.Errorf("click at %v too close to image edge: %w", center, err)
	}
	return s.insert(Selection{Kind: KindWindow, Rect: rect, Pixel: center, HalfWidth: halfWidth}), nil
}

// AddLine stores a line segment between two pixels.
func (s *Store) AddLine(a, b models.Pixel) (Selection, error) {
	if err := s.checkCapacity(KindLine); err != nil {
		return Selection{}, err
	}
	for _, px := range []models.Pixel{a, b} {
		if !s.mapper.Contains(px) {
			return Selection{}, fmt.Errorf("line endpoint %v outside image: %w", px, models.ErrOutOfBounds)
		}
	}
	return s.insert(Selection{Kind: KindLine, Start: a, End: b}), nil
}

// SetBackgrounds replaces the backgrounds attached to a window. Either every
// region is valid and stored, or nothing changes.
func (s *Store) SetBackgrounds(parent ID, regions []Region) ([]Selection, error) {
	beam, ok := s.Get(parent)
	if !ok || beam.Kind != KindWindow {
		return nil, fmt.Errorf("no beam window #%d: %w", parent, models.ErrInvalidInput)
	}
	if len(regions) > BackgroundsPerBeam {
		return nil, fmt.Errorf("%d backgrounds exceed %d per beam: %w",
			len(regions), BackgroundsPerBeam, models.ErrCapacityExceeded)
	}
	for _, r := range regions {
		if r.HalfWidth <= 0 {
			return nil, fmt.Errorf("background half-width %d must be positive: %w", r.HalfWidth, models.ErrInvalidInput)
		}
		if err := s.checkRect(r.Rect()); err != nil {
			return nil, fmt.Errorf("background %s of #%d: %w", r.Role, parent, err)
		}
	}

	s.dropChildren(parent)
	out := make([]Selection, 0, len(regions))
	for _, r := range regions {
		out = append(out, s.insert(Selection{
			Kind:      KindBackground,
			Color:     beam.Color,
			Rect:      r.Rect(),
			Pixel:     r.Center,
			HalfWidth: r.HalfWidth,
			Parent:    parent,
			Role:      r.Role,
		}))
	}
	return out, nil
}

// Click feeds one resolved display-space click into the store.
//
// Points complete on a single click. Windows and lines take two: the first
// click records a provisional anchor and returns done == false, the second
// finalizes the selection. A click of a different kind discards any anchor.
func (s *Store) Click(kind Kind, p coords.DisplayPoint) (sel Selection, done bool, err error) {
	switch kind {
	case KindPoint:
		sel, err = s.AddPoint(s.mapper.ToArray(p))
		if err != nil {
			return Selection{}, false, err
		}
		s.pending = nil
		return sel, true, nil
	case KindWindow, KindLine:
		return s.twoClick(anchor{kind: kind, display: p, pixel: s.mapper.ToArray(p)})
	}
	return Selection{}, false, fmt.Errorf("kind %s cannot be clicked directly: %w", kind, models.ErrInvalidInput)
}

// ClickBackground draws a background window by hand around a beam window,
// using the same two-click protocol as windows.
func (s *Store) ClickBackground(parent ID, p coords.DisplayPoint) (Selection, bool, error) {
	beam, ok := s.Get(parent)
	if !ok || beam.Kind != KindWindow {
		return Selection{}, false, fmt.Errorf("no beam window #%d: %w", parent, models.ErrInvalidInput)
	}
	return s.twoClick(anchor{kind: KindBackground, parent: parent, display: p, pixel: s.mapper.ToArray(p)})
}

func (s *Store) twoClick(click anchor) (Selection, bool, error) {
	if err := s.checkCapacity(click.kind); err != nil {
		return Selection{}, false, err
	}
	if click.kind == KindBackground && len(s.children(click.parent)) >= BackgroundsPerBeam {
		return Selection{}, false, fmt.Errorf("beam #%d already has %d backgrounds: %w",
			click.parent, BackgroundsPerBeam, models.ErrCapacityExceeded)
	}
	if !s.mapper.Contains(click.pixel) {
		return Selection{}, false, fmt.Errorf("click %v outside image: %w", click.pixel, models.ErrOutOfBounds)
	}

	first := s.pending
	if first == nil || first.kind != click.kind || first.parent != click.parent {
		s.pending = &click
		return Selection{}, false, nil
	}

	var sel Selection
	switch click.kind {
	case KindLine:
		sel = s.insert(Selection{Kind: KindLine, Start: first.pixel, End: click.pixel})
	case KindWindow:
		sel = s.insert(Selection{Kind: KindWindow, Rect: models.RectFromCorners(first.pixel, click.pixel)})
	case KindBackground:
		beam, _ := s.Get(click.parent)
		rect := models.RectFromCorners(first.pixel, click.pixel)
		sel = s.insert(Selection{
			Kind:   KindBackground,
			Color:  beam.Color,
			Rect:   rect,
			Pixel:  rect.Center(),
			Parent: click.parent,
			Role:   RoleManual,
		})
	}
	s.pending = nil
	return sel, true, nil
}

// Pending reports whether a two-click selection is half finished, and where
// its anchor is in display space.
func (s *Store) Pending() (coords.DisplayPoint, bool) {
	if s.pending == nil {
		return coords.DisplayPoint{}, false
	}
	return s.pending.display, true
}

// CancelPending discards a provisional anchor.
func (s *Store) CancelPending() { s.pending = nil }

// Get returns a selection by ID.
func (s *Store) Get(id ID) (Selection, bool) {
	for _, sel := range s.items {
		if sel.ID == id {
			return sel, true
		}
	}
	return Selection{}, false
}

// All returns the live selections of a kind in insertion order.
func (s *Store) All(kind Kind) []Selection {
	var out []Selection
	for _, sel := range s.items {
		if sel.Kind == kind {
			out = append(out, sel)
		}
	}
	return out
}

// Backgrounds returns the backgrounds attached to a window.
func (s *Store) Backgrounds(parent ID) []Selection {
	return s.children(parent)
}

// Count returns the number of live selections of a kind.
func (s *Store) Count(kind Kind) int {
	n := 0
	for _, sel := range s.items {
		if sel.Kind == kind {
			n++
		}
	}
	return n
}

// Remove deletes a selection. Removing a window also removes its backgrounds.
func (s *Store) Remove(id ID) error {
	sel, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("no selection #%d: %w", id, models.ErrInvalidInput)
	}
	s.items = slices.DeleteFunc(s.items, func(it Selection) bool {
		return it.ID == id || (sel.Kind == KindWindow && it.Kind == KindBackground && it.Parent == id)
	})
	return nil
}

// Undo removes the most recent selection of a kind.
func (s *Store) Undo(kind Kind) (Selection, error) {
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].Kind == kind {
			sel := s.items[i]
			return sel, s.Remove(sel.ID)
		}
	}
	return Selection{}, fmt.Errorf("no %s selection to undo: %w", kind, models.ErrInvalidInput)
}

// Clear removes every selection of a kind. Clearing windows clears their
// backgrounds as well.
func (s *Store) Clear(kind Kind) {
	s.items = slices.DeleteFunc(s.items, func(it Selection) bool {
		return it.Kind == kind || (kind == KindWindow && it.Kind == KindBackground)
	})
	if s.pending != nil && (s.pending.kind == kind || (kind == KindWindow && s.pending.kind == KindBackground)) {
		s.pending = nil
	}
}

// ClearAll empties the store.
func (s *Store) ClearAll() {
	s.items = nil
	s.pending = nil
}

func (s *Store) insert(sel Selection) Selection {
	sel.ID = s.next
	s.next++
	if sel.Kind != KindBackground {
		sel.Color = s.freeColor(sel.Kind)
	}
	s.items = append(s.items, sel)
	return sel
}

// freeColor returns the lowest palette index unused by live selections of
// the kind. checkCapacity guarantees one exists.
func (s *Store) freeColor(kind Kind) int {
	used := make(map[int]bool)
	for _, sel := range s.items {
		if sel.Kind == kind {
			used[sel.Color] = true
		}
	}
	c := 0
	for used[c] {
		c++
	}
	return c
}

func (s *Store) checkCapacity(kind Kind) error {
	if kind == KindBackground {
		return nil
	}
	if s.Count(kind) >= s.capacity {
		return fmt.Errorf("maximum of %d %s selections reached: %w", s.capacity, kind, models.ErrCapacityExceeded)
	}
	return nil
}

func (s *Store) checkRect(r models.Rect) error {
	if !r.Within(s.mapper.Rows, s.mapper.Cols) {
		return fmt.Errorf("region %v outside %dx%d image: %w", r, s.mapper.Rows, s.mapper.Cols, models.ErrOutOfBounds)
	}
	return nil
}

func (s *Store) children(parent ID) []Selection {
	var out []Selection
	for _, sel := range s.items {
		if sel.Kind == KindBackground && sel.Parent == parent {
			out = append(out, sel)
		}
	}
	return out
}

func (s *Store) dropChildren(parent ID) {
	s.items = slices.DeleteFunc(s.items, func(it Selection) bool {
		return it.Kind == KindBackground && it.Parent == parent
	})
}
