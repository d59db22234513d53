package session

import (
	"fmt"
	"path/filepath"

	"leemiv/internal/models"
	"leemiv/pkg/stackio"
)

// ExportJobs names one output file per LEEM curve: name0.txt, name1.txt, ...
func (s *LEEMSession) ExportJobs(dir, name string) ([]stackio.Job, error) {
	curves, err := s.Curves()
	if err != nil {
		return nil, err
	}
	if len(curves) == 0 {
		return nil, fmt.Errorf("no %s selections to export: %w", s.mode, models.ErrInvalidInput)
	}
	jobs := make([]stackio.Job, len(curves))
	for i, c := range curves {
		jobs[i] = stackio.Job{Path: filepath.Join(dir, fmt.Sprintf("%s%d.txt", name, i)), Curve: c}
	}
	return jobs, nil
}

// Export writes every LEEM curve as a two-column text file.
func (s *LEEMSession) Export(dir, name string, numCores int) error {
	jobs, err := s.ExportJobs(dir, name)
	if err != nil {
		return err
	}
	return stackio.WriteCurves(jobs, numCores)
}

// ExportJobs names the LEED output files. With averaging output enabled a
// single name.txt holds the stored average. Otherwise each beam is written
// as name<i>.txt, or as namebeam_<i>.txt followed by namebeam_<i>bkgd_<j>.txt
// for its backgrounds when any backgrounds have been placed.
func (s *LEEDSession) ExportJobs(dir, name string) ([]stackio.Job, error) {
	if s.outputAverage {
		if s.average == nil {
			return nil, fmt.Errorf("average output is enabled but no average has been calculated: %w", models.ErrInvalidInput)
		}
		return []stackio.Job{{Path: filepath.Join(dir, name+".txt"), Curve: *s.average}}, nil
	}

	all, err := s.Curves()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no beams to export: %w", models.ErrInvalidInput)
	}

	withBackgrounds := false
	for _, bc := range all {
		if len(bc.Backgrounds) > 0 {
			withBackgrounds = true
			break
		}
	}

	var jobs []stackio.Job
	for i, bc := range all {
		if !withBackgrounds {
			jobs = append(jobs, stackio.Job{Path: filepath.Join(dir, fmt.Sprintf("%s%d.txt", name, i)), Curve: bc.Beam})
			continue
		}
		jobs = append(jobs, stackio.Job{Path: filepath.Join(dir, fmt.Sprintf("%sbeam_%d.txt", name, i)), Curve: bc.Beam})
		for j, bg := range bc.Backgrounds {
			jobs = append(jobs, stackio.Job{
				Path:  filepath.Join(dir, fmt.Sprintf("%sbeam_%dbkgd_%d.txt", name, i, j)),
				Curve: bg,
			})
		}
	}
	return jobs, nil
}

// Export writes the LEED curves as two-column text files.
func (s *LEEDSession) Export(dir, name string, numCores int) error {
	jobs, err := s.ExportJobs(dir, name)
	if err != nil {
		return err
	}
	return stackio.WriteCurves(jobs, numCores)
}
