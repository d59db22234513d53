package stackio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"

	"leemiv/internal/logging"
	"leemiv/internal/models"
)

// WriteCurve writes a curve as two tab-separated columns, axis then
// intensity, one row per sample.
func WriteCurve(w io.Writer, c models.Curve) error {
	if err := c.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for i, v := range c.Values {
		bw.WriteString(strconv.FormatFloat(c.Axis[i], 'f', -1, 64))
		bw.WriteByte('\t')
		bw.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteCurveFile writes a curve to path, creating parent directories.
func WriteCurveFile(path string, c models.Curve) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	if err := WriteCurve(f, c); err != nil {
		f.Close()
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return f.Close()
}

// Job is one curve destined for one file.
type Job struct {
	Path  string
	Curve models.Curve
}

// WriteCurves writes every job using numCores goroutines. All jobs are
// attempted; the returned error joins every failure.
func WriteCurves(jobs []Job, numCores int) error {
	if numCores <= 0 {
		numCores = runtime.NumCPU()
	}

	queue := make(chan Job)
	errs := make(chan error, len(jobs))
	var wg sync.WaitGroup
	for w := 0; w < min(numCores, len(jobs)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				if err := WriteCurveFile(job.Path, job.Curve); err != nil {
					errs <- err
					continue
				}
				logging.Debugf("Wrote %s", job.Path)
			}
		}()
	}
	for _, job := range jobs {
		queue <- job
	}
	close(queue)
	wg.Wait()
	close(errs)

	var all []error
	for err := range errs {
		all = append(all, err)
	}
	return errors.Join(all...)
}
