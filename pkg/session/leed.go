package session

import (
	"fmt"

	"leemiv/internal/logging"
	"leemiv/internal/models"
	"leemiv/pkg/aggregate"
	"leemiv/pkg/background"
	"leemiv/pkg/config"
	"leemiv/pkg/coords"
	"leemiv/pkg/extraction"
	"leemiv/pkg/selection"
	"leemiv/pkg/smoothing"
)

// BeamCurves is one beam's I(V) curve with the curves of its backgrounds.
type BeamCurves struct {
	Beam        models.Curve
	Backgrounds []models.Curve
}

// LEEDSession is the diffraction workflow: square beam windows centered on
// clicks, automatic backgrounds, and beam averaging.
type LEEDSession struct {
	frameNav

	engine   *extraction.Engine
	store    *selection.Store
	placer   *background.Placer
	cfg      *config.Config
	capacity int

	halfWidth     int
	smoothing     smoothing.Config
	reflectivity  bool
	outputAverage bool

	average *models.Curve
}

// NewLEEDSession starts a session on a loaded dataset.
func NewLEEDSession(data *extraction.Dataset, cfg *config.Config) (*LEEDSession, error) {
	sm, err := cfg.LEED.Smoothing.Engine().Normalize()
	if err != nil {
		return nil, fmt.Errorf("leed smoothing: %w", err)
	}
	s := &LEEDSession{
		frameNav:      frameNav{data: data, title: "Reciprocal Space LEED Image"},
		engine:        extraction.NewEngine(data),
		cfg:           cfg,
		capacity:      cfg.Display.PaletteSize,
		smoothing:     sm,
		reflectivity:  cfg.LEED.Reflectivity,
		outputAverage: cfg.LEED.OutputAverage,
	}
	if err := s.SetWindowSide(cfg.LEED.WindowSide); err != nil {
		return nil, err
	}
	s.reset()
	return s, nil
}

func (s *LEEDSession) reset() {
	rows, cols, _ := s.data.Dims()
	s.store = selection.NewStore(rows, cols, s.capacity)
	s.placer = background.NewPlacer(rows, cols)
	s.average = nil
	s.frame = 0
}

// Load swaps in a new stack, dropping every selection and the stored average.
func (s *LEEDSession) Load(stack *models.ImageStack, axis models.SpectralAxis) error {
	if err := s.data.Replace(stack, axis); err != nil {
		return err
	}
	s.reset()
	return nil
}

// Store exposes the session's selections.
func (s *LEEDSession) Store() *selection.Store { return s.store }

// WindowSide returns the side length of new beam windows.
func (s *LEEDSession) WindowSide() int { return 2 * s.halfWidth }

// SetWindowSide sets the side length used by subsequent clicks. Odd sides are
// rounded up. Existing beams keep their size.
func (s *LEEDSession) SetWindowSide(side int) error {
	if side <= 0 {
		return fmt.Errorf("window side %d must be positive: %w", side, models.ErrInvalidInput)
	}
	if side%2 != 0 {
		logging.Warnf("Window side %d is odd, using %d", side, side+1)
		side++
	}
	s.halfWidth = side / 2
	return nil
}

// SetSmoothing validates and applies a new smoothing config.
func (s *LEEDSession) SetSmoothing(cfg smoothing.Config) error {
	norm, err := cfg.Normalize()
	if err != nil {
		return err
	}
	s.smoothing = norm
	return nil
}

// ToggleReflectivity flips reflectivity normalization.
func (s *LEEDSession) ToggleReflectivity() bool {
	s.reflectivity = !s.reflectivity
	return s.reflectivity
}

// SetOutputAverage chooses whether Export writes the stored average.
func (s *LEEDSession) SetOutputAverage(on bool) { s.outputAverage = on }

// Click places a beam window centered on a left click. Clicks too close to
// the image edge are rejected and leave the beam count unchanged. Other
// buttons are ignored.
func (s *LEEDSession) Click(p coords.DisplayPoint, b Button) (selection.Selection, error) {
	if b != ButtonLeft {
		return selection.Selection{}, nil
	}
	sel, err := s.store.AddCentered(s.store.Mapper().ToArray(p), s.halfWidth)
	if err != nil {
		logging.Warnf("LEED beam rejected: %v", err)
		return selection.Selection{}, err
	}
	s.average = nil
	return sel, nil
}

// Undo removes the most recent beam and its backgrounds.
func (s *LEEDSession) Undo() (selection.Selection, error) {
	sel, err := s.store.Undo(selection.KindWindow)
	if err == nil {
		s.average = nil
	}
	return sel, err
}

// Clear removes every beam and background.
func (s *LEEDSession) Clear() {
	s.store.ClearAll()
	s.average = nil
}

// AutoBackground derives backgrounds for every beam. Either every beam gets
// its six regions or none of the stored backgrounds change.
func (s *LEEDSession) AutoBackground(strategy background.Strategy) error {
	beams := s.store.All(selection.KindWindow)
	if len(beams) == 0 {
		return fmt.Errorf("no beams selected: %w", models.ErrInvalidInput)
	}

	params := s.cfg.BackgroundParams(strategy)
	layouts := make([][]selection.Region, len(beams))
	for i, beam := range beams {
		regions, err := s.placer.PlaceWith(beam, strategy, params)
		if err != nil {
			logging.Warnf("Automatic background selection failed: %v", err)
			return err
		}
		layouts[i] = regions
	}

	for i, beam := range beams {
		// Regions were validated against the same image above
		if _, err := s.store.SetBackgrounds(beam.ID, layouts[i]); err != nil {
			return err
		}
	}
	logging.Infof("Placed %s backgrounds for %d beams", strategy.Name(), len(beams))
	return nil
}

func (s *LEEDSession) options() extraction.Options {
	return extraction.Options{Smoothing: s.smoothing, Reflectivity: s.reflectivity}
}

// Curves extracts every beam with its backgrounds, in beam order.
func (s *LEEDSession) Curves() ([]BeamCurves, error) {
	opts := s.options()
	beams := s.store.All(selection.KindWindow)
	out := make([]BeamCurves, 0, len(beams))
	for _, beam := range beams {
		bc := BeamCurves{}
		var err error
		if bc.Beam, err = s.engine.Extract(beam, opts); err != nil {
			return nil, fmt.Errorf("extracting %v: %w", beam, err)
		}
		for _, bg := range s.store.Backgrounds(beam.ID) {
			c, err := s.engine.Extract(bg, opts)
			if err != nil {
				return nil, fmt.Errorf("extracting %v: %w", bg, err)
			}
			bc.Backgrounds = append(bc.Backgrounds, c)
		}
		out = append(out, bc)
	}
	return out, nil
}

// Average averages the raw beam curves, then smooths and normalizes the
// result as configured. The average is kept for Export until the beams change.
func (s *LEEDSession) Average() (models.Curve, error) {
	beams := s.store.All(selection.KindWindow)
	raw := make([]models.Curve, 0, len(beams))
	for _, beam := range beams {
		c, err := s.engine.Extract(beam, extraction.Options{})
		if err != nil {
			return models.Curve{}, err
		}
		raw = append(raw, c)
	}

	avg, err := aggregate.Average(raw...)
	if err != nil {
		return models.Curve{}, err
	}
	avg.Label = fmt.Sprintf("average of %d beams", len(raw))
	if avg.Values, err = s.smoothing.Apply(avg.Values); err != nil {
		return models.Curve{}, err
	}
	if s.reflectivity {
		if avg, err = aggregate.Normalize(avg); err != nil {
			return models.Curve{}, err
		}
	}
	s.average = &avg
	return avg, nil
}

// SubtractedCurves returns each beam with the mean of its backgrounds
// removed. Beams without backgrounds are rejected. The subtraction runs on
// the smoothed intensities and reflectivity, when on, normalizes the
// difference once.
func (s *LEEDSession) SubtractedCurves() ([]models.Curve, error) {
	opts := extraction.Options{Smoothing: s.smoothing}
	beams := s.store.All(selection.KindWindow)
	out := make([]models.Curve, 0, len(beams))
	for _, beam := range beams {
		c, err := s.engine.Extract(beam, opts)
		if err != nil {
			return nil, fmt.Errorf("extracting %v: %w", beam, err)
		}
		var bgs []models.Curve
		for _, bg := range s.store.Backgrounds(beam.ID) {
			bc, err := s.engine.Extract(bg, opts)
			if err != nil {
				return nil, fmt.Errorf("extracting %v: %w", bg, err)
			}
			bgs = append(bgs, bc)
		}
		if c, err = aggregate.SubtractBackground(c, bgs); err != nil {
			return nil, err
		}
		if s.reflectivity {
			if c, err = aggregate.Normalize(c); err != nil {
				return nil, err
			}
		}
		out = append(out, c)
	}
	return out, nil
}
