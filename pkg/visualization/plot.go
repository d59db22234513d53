package visualization

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"leemiv/internal/models"
)

// PlotCurves draws every curve as a line on one set of axes and saves the
// plot to path. The file format follows the extension (png, svg, pdf, ...).
func PlotCurves(path, title, xLabel, yLabel string, curves []models.Curve) error {
	if len(curves) == 0 {
		return fmt.Errorf("no curves to plot: %w", models.ErrInvalidInput)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	for i, c := range curves {
		if err := c.Validate(); err != nil {
			return err
		}
		pts := make(plotter.XYs, c.Len())
		for k := range pts {
			pts[k].X = c.Axis[k]
			pts[k].Y = c.Values[k]
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("error plotting %q: %w", c.Label, err)
		}
		line.LineStyle.Color = Color(i)
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		if c.Label != "" {
			p.Legend.Add(c.Label, line)
		}
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("error saving plot: %w", err)
	}
	return nil
}
