package extraction

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"leemiv/internal/models"
	"leemiv/pkg/aggregate"
	"leemiv/pkg/raster"
	"leemiv/pkg/selection"
	"leemiv/pkg/smoothing"
)

// Options controls the post-processing of an extracted curve.
type Options struct {
	// Smoothing is applied to spectral curves when enabled. Line profiles
	// are never smoothed.
	Smoothing smoothing.Config

	// Cached routes point extraction through the dataset's smoothing cache
	Cached bool

	// SpectralIndex is the frame a line profile samples
	SpectralIndex int

	// Reflectivity divides spectral curves by their maximum after smoothing
	Reflectivity bool
}

// Engine extracts curves from a dataset. It never modifies the stack; the
// only state it writes is the dataset's smoothing cache.
type Engine struct {
	data *Dataset
}

// NewEngine creates an engine over a dataset.
func NewEngine(data *Dataset) *Engine {
	return &Engine{data: data}
}

// Dataset returns the engine's dataset.
func (e *Engine) Dataset() *Dataset { return e.data }

// Point returns the spectrum at one pixel, smoothed when cfg is enabled.
func (e *Engine) Point(px models.Pixel, cfg smoothing.Config) (models.Curve, error) {
	if !e.data.Stack.Contains(px) {
		return models.Curve{}, fmt.Errorf("point %v: %w", px, models.ErrOutOfBounds)
	}
	values, err := cfg.Apply(e.data.Stack.Spectrum(px.Row, px.Col))
	if err != nil {
		return models.Curve{}, err
	}
	return e.spectral(values, px.String()), nil
}

// PointCached is Point through the memoized smoothing path. With smoothing
// disabled it is the same as Point and the cache is left alone.
func (e *Engine) PointCached(px models.Pixel, cfg smoothing.Config) (models.Curve, error) {
	if !cfg.Enabled {
		return e.Point(px, cfg)
	}
	values, err := e.data.Cache.Smoothed(px.Row, px.Col, e.data.Stack, cfg)
	if err != nil {
		return models.Curve{}, err
	}
	return e.spectral(values, px.String()), nil
}

// Window returns the per-frame mean intensity over a rectangle. The divisor
// is the exact number of pixels the rectangle covers.
func (e *Engine) Window(rect models.Rect, cfg smoothing.Config) (models.Curve, error) {
	rows, cols, samples := e.data.Dims()
	if !rect.Within(rows, cols) {
		return models.Curve{}, fmt.Errorf("window %v outside %dx%d stack: %w", rect, rows, cols, models.ErrOutOfBounds)
	}

	count := float64(rect.PixelCount())
	values := make([]float64, samples)
	for n := range values {
		block := e.data.Stack.Frame(n).Slice(rect.Top, rect.Bottom, rect.Left, rect.Right)
		values[n] = mat.Sum(block) / count
	}

	values, err := cfg.Apply(values)
	if err != nil {
		return models.Curve{}, err
	}
	return e.spectral(values, rect.String()), nil
}

// Line samples frame index along the rasterized path from a to b. The curve's
// axis is the position along the path.
func (e *Engine) Line(a, b models.Pixel, index int) (models.Curve, error) {
	_, _, samples := e.data.Dims()
	if index < 0 || index >= samples {
		return models.Curve{}, fmt.Errorf("frame %d outside [0, %d): %w", index, samples, models.ErrOutOfBounds)
	}
	for _, px := range []models.Pixel{a, b} {
		if !e.data.Stack.Contains(px) {
			return models.Curve{}, fmt.Errorf("line endpoint %v: %w", px, models.ErrOutOfBounds)
		}
	}

	path := raster.Path(a, b)
	frame := e.data.Stack.Frame(index)
	values := make([]float64, len(path))
	for k, px := range path {
		values[k] = frame.At(px.Row, px.Col)
	}
	return models.Curve{
		Axis:   models.IndexAxis(len(values)),
		Values: values,
		Label:  fmt.Sprintf("%v-%v", a, b),
	}, nil
}

// Extract dispatches on the selection kind and applies opts.
func (e *Engine) Extract(sel selection.Selection, opts Options) (models.Curve, error) {
	var (
		c   models.Curve
		err error
	)
	switch sel.Kind {
	case selection.KindPoint:
		if opts.Cached {
			c, err = e.PointCached(sel.Pixel, opts.Smoothing)
		} else {
			c, err = e.Point(sel.Pixel, opts.Smoothing)
		}
	case selection.KindWindow, selection.KindBackground:
		c, err = e.Window(sel.Rect, opts.Smoothing)
	case selection.KindLine:
		// Line profiles are spatial; reflectivity does not apply either
		c, err = e.Line(sel.Start, sel.End, opts.SpectralIndex)
		if err == nil {
			c.Label = sel.String()
		}
		return c, err
	default:
		return models.Curve{}, fmt.Errorf("unknown selection kind %v: %w", sel.Kind, models.ErrInvalidInput)
	}
	if err != nil {
		return models.Curve{}, err
	}

	c.Label = sel.String()
	if opts.Reflectivity {
		return aggregate.Normalize(c)
	}
	return c, nil
}

func (e *Engine) spectral(values []float64, label string) models.Curve {
	return models.Curve{Axis: e.data.Axis.Values(), Values: values, Label: label}
}
