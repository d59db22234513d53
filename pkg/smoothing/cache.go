package smoothing

import (
	"fmt"

	"leemiv/internal/models"
)

// SpectrumSource is the read side of an image stack.
type SpectrumSource interface {
	Dims() (rows, cols, samples int)
	Spectrum(row, col int) []float64
}

// Cache memoizes smoothed spectra per pixel. It holds an (H, W, N) value
// array and an (H, W) mask of the pixels already filled. The cache remembers
// the kernel it was filled with; asking for a different kernel clears the
// whole mask before anything else happens.
//
// A Cache is not safe for concurrent use. It belongs to the dataset whose
// stack it mirrors and is mutated only on the extraction path.
type Cache struct {
	rows, cols, samples int

	values []float64
	mask   []bool
	filled int

	kernel Config
	smooth func(seq []float64, length int, wt WindowType) ([]float64, error)
}

// NewCache allocates an empty cache for a stack of the given shape.
func NewCache(rows, cols, samples int) *Cache {
	c := &Cache{smooth: Smooth}
	c.Reset(rows, cols, samples)
	return c
}

// Reset reallocates the cache for a new stack shape. It is called when a
// stack is replaced.
func (c *Cache) Reset(rows, cols, samples int) {
	c.rows, c.cols, c.samples = rows, cols, samples
	c.values = make([]float64, rows*cols*samples)
	c.mask = make([]bool, rows*cols)
	c.filled = 0
	c.kernel = Config{}
}

// Invalidate clears the mask so every pixel is recomputed on next access.
func (c *Cache) Invalidate() {
	clear(c.mask)
	c.filled = 0
}

// Configure records the kernel used for subsequent fills, invalidating the
// cache when it differs from the current one.
func (c *Cache) Configure(cfg Config) error {
	cfg, err := cfg.Normalize()
	if err != nil {
		return err
	}
	if !cfg.sameKernel(c.kernel) {
		c.Invalidate()
		c.kernel = cfg
	}
	return nil
}

// Cached reports whether the pixel's smoothed spectrum is stored.
func (c *Cache) Cached(row, col int) bool {
	if !c.inside(row, col) {
		return false
	}
	return c.mask[row*c.cols+col]
}

// Len returns the number of cached pixels.
func (c *Cache) Len() int { return c.filled }

// Smoothed returns the smoothed spectrum at (row, col), computing and storing
// it on first access. The returned slice is a copy.
func (c *Cache) Smoothed(row, col int, src SpectrumSource, cfg Config) ([]float64, error) {
	rows, cols, samples := src.Dims()
	if rows != c.rows || cols != c.cols || samples != c.samples {
		return nil, fmt.Errorf("cache shape (%d, %d, %d) does not match stack (%d, %d, %d): %w",
			c.rows, c.cols, c.samples, rows, cols, samples, models.ErrInvalidInput)
	}
	if !c.inside(row, col) {
		return nil, fmt.Errorf("pixel (%d, %d): %w", row, col, models.ErrOutOfBounds)
	}
	if err := c.Configure(cfg); err != nil {
		return nil, err
	}

	idx := row*c.cols + col
	entry := c.values[idx*c.samples : (idx+1)*c.samples]
	if c.mask[idx] {
		out := make([]float64, c.samples)
		copy(out, entry)
		return out, nil
	}

	smoothed, err := c.smooth(src.Spectrum(row, col), c.kernel.Length, c.kernel.Type)
	if err != nil {
		return nil, err
	}
	copy(entry, smoothed)
	c.mask[idx] = true
	c.filled++
	return smoothed, nil
}

func (c *Cache) inside(row, col int) bool {
	return row >= 0 && row < c.rows && col >= 0 && col < c.cols
}
