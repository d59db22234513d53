package session

import (
	"fmt"

	"leemiv/internal/logging"
	"leemiv/internal/models"
	"leemiv/pkg/aggregate"
	"leemiv/pkg/config"
	"leemiv/pkg/coords"
	"leemiv/pkg/extraction"
	"leemiv/pkg/selection"
	"leemiv/pkg/smoothing"
)

// Mode selects what a LEEM click creates.
type Mode int

const (
	ModePoint Mode = iota
	ModeWindow
	ModeLine
)

func (m Mode) String() string {
	switch m {
	case ModePoint:
		return "point"
	case ModeWindow:
		return "window"
	case ModeLine:
		return "line"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func (m Mode) kind() selection.Kind {
	switch m {
	case ModeWindow:
		return selection.KindWindow
	case ModeLine:
		return selection.KindLine
	}
	return selection.KindPoint
}

// LEEMSession is the real-space workflow.
type LEEMSession struct {
	frameNav

	engine   *extraction.Engine
	store    *selection.Store
	capacity int

	mode         Mode
	smoothing    smoothing.Config
	reflectivity bool
}

// NewLEEMSession starts a session in point mode on a loaded dataset.
func NewLEEMSession(data *extraction.Dataset, cfg *config.Config) (*LEEMSession, error) {
	sm, err := cfg.LEEM.Smoothing.Engine().Normalize()
	if err != nil {
		return nil, fmt.Errorf("leem smoothing: %w", err)
	}
	rows, cols, _ := data.Dims()
	return &LEEMSession{
		frameNav:     frameNav{data: data, title: "Real Space LEEM Image"},
		engine:       extraction.NewEngine(data),
		store:        selection.NewStore(rows, cols, cfg.Display.PaletteSize),
		capacity:     cfg.Display.PaletteSize,
		smoothing:    sm,
		reflectivity: cfg.LEEM.Reflectivity,
	}, nil
}

// Load swaps in a new stack. Selections and the smoothing cache belong to the
// previous stack and are dropped.
func (s *LEEMSession) Load(stack *models.ImageStack, axis models.SpectralAxis) error {
	if err := s.data.Replace(stack, axis); err != nil {
		return err
	}
	rows, cols, _ := s.data.Dims()
	s.store = selection.NewStore(rows, cols, s.capacity)
	s.frame = 0
	return nil
}

// Store exposes the session's selections.
func (s *LEEMSession) Store() *selection.Store { return s.store }

// Mode returns the active selection mode.
func (s *LEEMSession) Mode() Mode { return s.mode }

// SetMode switches mode. Selections made in the previous mode are cleared.
func (s *LEEMSession) SetMode(m Mode) {
	if m == s.mode {
		return
	}
	s.store.ClearAll()
	s.mode = m
	logging.Debugf("LEEM mode set to %s", m)
}

// Smoothing returns the active smoothing config.
func (s *LEEMSession) Smoothing() smoothing.Config { return s.smoothing }

// SetSmoothing validates and applies a new smoothing config. The cache is
// invalidated whenever the kernel changes.
func (s *LEEMSession) SetSmoothing(cfg smoothing.Config) error {
	norm, err := cfg.Normalize()
	if err != nil {
		return err
	}
	if norm.Length != cfg.Length {
		logging.Warnf("Window length %d is odd, using %d", cfg.Length, norm.Length)
	}
	if norm.Type != s.smoothing.Type || norm.Length != s.smoothing.Length {
		s.data.Cache.Invalidate()
	}
	s.smoothing = norm
	return nil
}

// Reflectivity reports whether curves are normalized to their maximum.
func (s *LEEMSession) Reflectivity() bool { return s.reflectivity }

// ToggleReflectivity flips reflectivity normalization and returns the new state.
func (s *LEEMSession) ToggleReflectivity() bool {
	s.reflectivity = !s.reflectivity
	return s.reflectivity
}

// Hover returns the live I(V) curve under the pointer, using the smoothing
// cache so repeated passes over the same pixel are cheap.
func (s *LEEMSession) Hover(p coords.DisplayPoint) (models.Curve, error) {
	px := s.store.Mapper().ToArray(p)
	c, err := s.engine.PointCached(px, s.smoothing)
	if err != nil {
		return models.Curve{}, err
	}
	if s.reflectivity {
		return aggregate.Normalize(c)
	}
	return c, nil
}

// Click handles one resolved click. Left clicks select according to the
// mode, a middle click abandons a half-drawn window or line, and right
// clicks are ignored. done reports whether a selection was completed.
func (s *LEEMSession) Click(p coords.DisplayPoint, b Button) (sel selection.Selection, done bool, err error) {
	switch b {
	case ButtonLeft:
		sel, done, err = s.store.Click(s.mode.kind(), p)
		if err != nil {
			logging.Warnf("LEEM %s selection rejected: %v", s.mode, err)
		}
		return sel, done, err
	case ButtonMiddle:
		s.store.CancelPending()
	}
	return selection.Selection{}, false, nil
}

// Curves extracts every selection of the active mode. Line profiles sample
// the frame on display.
func (s *LEEMSession) Curves() ([]models.Curve, error) {
	opts := extraction.Options{
		Smoothing:     s.smoothing,
		Cached:        true,
		SpectralIndex: s.frame,
		Reflectivity:  s.reflectivity,
	}
	sels := s.store.All(s.mode.kind())
	out := make([]models.Curve, 0, len(sels))
	for _, sel := range sels {
		c, err := s.engine.Extract(sel, opts)
		if err != nil {
			return nil, fmt.Errorf("extracting %v: %w", sel, err)
		}
		out = append(out, c)
	}
	return out, nil
}
