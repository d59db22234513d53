package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"leemiv/internal/logging"
	"leemiv/internal/models"
	"leemiv/pkg/background"
	"leemiv/pkg/config"
	"leemiv/pkg/coords"
	"leemiv/pkg/extraction"
	"leemiv/pkg/session"
	"leemiv/pkg/stackio"
	"leemiv/pkg/visualization"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "leemiv.yaml", "YAML configuration file (defaults are used if missing)")
	inputDir := flag.String("input", "", "Directory containing the image stack frames")
	mode := flag.String("mode", "", "Experiment type: leem or leed (default: from config)")
	points := flag.String("points", "", "LEEM points as \"row,col;row,col\"")
	windows := flag.String("windows", "", "LEEM windows as \"r0,c0,r1,c1;...\" (corners inclusive)")
	lines := flag.String("lines", "", "LEEM line profiles as \"r0,c0,r1,c1;...\"")
	beams := flag.String("beams", "", "LEED beam centers as \"row,col;row,col\"")
	bgStrategy := flag.String("background", "none", "LEED automatic background: none, quadrant or circular")
	average := flag.Bool("average", false, "Average LEED beams and write only the average")
	frame := flag.Int("frame", 0, "Frame sampled by line profiles")
	outDir := flag.String("out", "output", "Directory for curve text files")
	outName := flag.String("name", "iv", "Base name for curve text files")
	plotPath := flag.String("plot", "", "Save a plot of the extracted curves to this file")
	framesDir := flag.String("frames-dir", "", "Save every frame of the stack as PNG into this directory")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration to -config and exit")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	// Validate inputs
	if *inputDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.SetLevel(cfg.Output.LogLevel)
	if cfg.Output.Verbose {
		logging.SetLevel("debug")
	}
	if *mode != "" {
		cfg.Experiment.Type = *mode
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid mode: %v", err)
		}
	}

	fmt.Println("================================")
	fmt.Println("LEEM / LEED I(V) EXTRACTION")
	fmt.Println("================================")

	// Load the stack
	startTime := time.Now()
	stack, err := stackio.LoadStack(*inputDir, cfg.Processing.NumCores)
	if err != nil {
		log.Fatalf("Failed to load stack: %v", err)
	}
	rows, cols, samples := stack.Dims()
	axis, err := cfg.Axis(samples)
	if err != nil {
		log.Fatalf("Failed to build axis: %v", err)
	}
	data, err := extraction.NewDataset(stack, axis)
	if err != nil {
		log.Fatalf("Failed to create dataset: %v", err)
	}
	fmt.Printf("Loaded %d frames of %dx%d pixels in %.2f seconds\n", samples, cols, rows, time.Since(startTime).Seconds())
	fmt.Printf("Axis: %v to %v %s\n", axis.At(0), axis.At(samples-1), axis.Unit())

	if *framesDir != "" {
		viewer := visualization.NewViewer(stack)
		if err := viewer.SaveFrameSequence(*framesDir); err != nil {
			log.Printf("Warning: Failed to save frames: %v", err)
		} else {
			fmt.Printf("Frames saved to: %s\n", *framesDir)
		}
	}

	var curves, profiles []models.Curve
	switch cfg.Experiment.Type {
	case "LEEM":
		curves, profiles, err = runLEEM(data, cfg, *points, *windows, *lines, *frame, *outDir, *outName)
	case "LEED":
		curves, err = runLEED(data, cfg, *beams, *bgStrategy, *average, *outDir, *outName)
	}
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	printSummary(append(curves, profiles...))

	if *plotPath != "" {
		if len(curves) > 0 {
			savePlot(*plotPath, cfg.Experiment.Type+" I(V)", axisLabel(axis.Unit(), false), curves)
		}
		if len(profiles) > 0 {
			path := *plotPath
			if len(curves) > 0 {
				path = profilePlotPath(path)
			}
			savePlot(path, fmt.Sprintf("Line profiles at frame %d", *frame), axisLabel(axis.Unit(), true), profiles)
		}
	}
}

func savePlot(path, title, xLabel string, curves []models.Curve) {
	if err := visualization.PlotCurves(path, title, xLabel, "Intensity", curves); err != nil {
		log.Printf("Warning: Failed to plot curves: %v", err)
		return
	}
	fmt.Printf("Plot saved to: %s\n", path)
}

// axisLabel names the x axis of a plot. Line profiles run along the
// rasterized path, everything else along the spectral axis.
func axisLabel(unit string, profiles bool) string {
	switch {
	case profiles:
		return "Position along line (pixels)"
	case unit == models.UnitTime:
		return "Time (s)"
	}
	return "Energy (eV)"
}

// profilePlotPath turns plot.png into plot_lines.png.
func profilePlotPath(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + "_lines" + ext
}

// runLEEM extracts every requested point, window and line. Each selection
// kind is a separate session mode, so each kind is exported under its own
// name prefix when more than one is given. Line profiles are returned apart
// from the spectral curves since their axis is a pixel position.
func runLEEM(data *extraction.Dataset, cfg *config.Config, points, windows, lines string, frame int, outDir, outName string) (curves, profiles []models.Curve, err error) {
	s, err := session.NewLEEMSession(data, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := s.SetFrame(frame); err != nil {
		return nil, nil, err
	}
	rows, _, _ := data.Dims()

	requests := []struct {
		mode  session.Mode
		list  string
		arity int
	}{
		{session.ModePoint, points, 2},
		{session.ModeWindow, windows, 4},
		{session.ModeLine, lines, 4},
	}
	given := 0
	for _, r := range requests {
		if r.list != "" {
			given++
		}
	}
	if given == 0 {
		return nil, nil, fmt.Errorf("no -points, -windows or -lines given: %w", models.ErrInvalidInput)
	}

	for _, r := range requests {
		if r.list == "" {
			continue
		}
		groups, err := parseGroups(r.list, r.arity)
		if err != nil {
			return nil, nil, err
		}
		s.SetMode(r.mode)
		for _, g := range groups {
			for i := 0; i < len(g); i += 2 {
				p := coords.ToDisplaySpace(models.Pixel{Row: g[i], Col: g[i+1]}, rows)
				if _, _, err := s.Click(p, session.ButtonLeft); err != nil {
					return nil, nil, err
				}
			}
		}

		name := outName
		if given > 1 {
			name = outName + r.mode.String() + "_"
		}
		if err := s.Export(outDir, name, cfg.Processing.NumCores); err != nil {
			return nil, nil, err
		}
		extracted, err := s.Curves()
		if err != nil {
			return nil, nil, err
		}
		fmt.Printf("Wrote %d %s curves to %s\n", len(extracted), r.mode, outDir)
		if r.mode == session.ModeLine {
			profiles = append(profiles, extracted...)
		} else {
			curves = append(curves, extracted...)
		}
	}
	return curves, profiles, nil
}

// runLEED places beams, optionally derives backgrounds and averages, and
// writes the results.
func runLEED(data *extraction.Dataset, cfg *config.Config, beams, bgStrategy string, average bool, outDir, outName string) ([]models.Curve, error) {
	s, err := session.NewLEEDSession(data, cfg)
	if err != nil {
		return nil, err
	}
	groups, err := parseGroups(beams, 2)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("no -beams given: %w", models.ErrInvalidInput)
	}
	rows, _, _ := data.Dims()
	for _, g := range groups {
		p := coords.ToDisplaySpace(models.Pixel{Row: g[0], Col: g[1]}, rows)
		if _, err := s.Click(p, session.ButtonLeft); err != nil {
			return nil, err
		}
	}

	if bgStrategy != "none" {
		strategy, err := background.ParseStrategy(bgStrategy)
		if err != nil {
			return nil, err
		}
		if err := s.AutoBackground(strategy); err != nil {
			return nil, err
		}
	}

	var curves []models.Curve
	if average || cfg.LEED.OutputAverage {
		avg, err := s.Average()
		if err != nil {
			return nil, err
		}
		s.SetOutputAverage(true)
		curves = append(curves, avg)
	} else {
		all, err := s.Curves()
		if err != nil {
			return nil, err
		}
		for _, bc := range all {
			curves = append(curves, bc.Beam)
		}
	}

	if err := s.Export(outDir, outName, cfg.Processing.NumCores); err != nil {
		return nil, err
	}
	fmt.Printf("Wrote LEED curves for %d beams to %s\n", len(groups), outDir)
	return curves, nil
}

// parseGroups parses "a,b;c,d" into integer groups of the given arity.
func parseGroups(list string, arity int) ([][]int, error) {
	var out [][]int
	for _, group := range strings.Split(list, ";") {
		group = strings.TrimSpace(group)
		if group == "" {
			continue
		}
		fields := strings.Split(group, ",")
		if len(fields) != arity {
			return nil, fmt.Errorf("%q needs %d comma separated values: %w", group, arity, models.ErrInvalidInput)
		}
		vals := make([]int, arity)
		for i, f := range fields {
			v, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, fmt.Errorf("%q is not an integer: %w", f, models.ErrInvalidInput)
			}
			vals[i] = v
		}
		out = append(out, vals)
	}
	return out, nil
}

func printSummary(curves []models.Curve) {
	fmt.Printf("\nExtracted curves:\n")
	fmt.Printf("=================\n")
	for _, c := range curves {
		mean, std := stat.MeanStdDev(c.Values, nil)
		fmt.Printf("%-40s samples %4d  mean %12.3f  std %10.3f\n", c.Label, c.Len(), mean, std)
	}
}
