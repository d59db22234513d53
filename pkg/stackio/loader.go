// Package stackio loads image stacks from disk and writes extracted curves
// as text. It is the I/O side of the extraction core: the core only ever
// sees a fully materialized stack, and only hands back curves.
package stackio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	_ "golang.org/x/image/tiff"
	"gonum.org/v1/gonum/mat"

	"leemiv/internal/logging"
	"leemiv/internal/models"
)

// frameExts lists the file extensions read as stack frames.
var frameExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
}

// FrameFiles returns the image files in dir ordered by the number embedded
// in each file name. Names without digits sort first; ties keep name order.
func FrameFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading stack directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if frameExts[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no image frames found in %s: %w", dir, models.ErrInvalidInput)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return extractNumber(files[i]) < extractNumber(files[j])
	})
	for i := range files {
		files[i] = filepath.Join(dir, files[i])
	}
	return files, nil
}

// extractNumber extracts the numeric part from a filename, ignoring the
// extension
func extractNumber(filename string) int {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	var digits strings.Builder
	for _, c := range base {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	if digits.Len() > 0 {
		if num, err := strconv.Atoi(digits.String()); err == nil {
			return num
		}
	}
	return 0
}

// LoadStack reads every frame in dir and assembles them into a stack in
// file-number order. Frames are decoded by numCores workers; all frames must
// share the first frame's size.
func LoadStack(dir string, numCores int) (*models.ImageStack, error) {
	files, err := FrameFiles(dir)
	if err != nil {
		return nil, err
	}
	frames, err := decodeAll(files, numCores)
	if err != nil {
		return nil, err
	}

	stack, err := models.StackFromFrames(frames)
	if err != nil {
		return nil, err
	}
	rows, cols, n := stack.Dims()
	logging.Infof("Loaded %d frames with dimensions %dx%d from %s", n, cols, rows, dir)
	return stack, nil
}

// decodeAll decodes files in parallel, keeping their order.
func decodeAll(files []string, numCores int) ([]*mat.Dense, error) {
	if numCores <= 0 {
		numCores = runtime.NumCPU()
	}

	type result struct {
		idx   int
		frame *mat.Dense
		err   error
	}
	jobs := make(chan int)
	results := make(chan result, len(files))

	var wg sync.WaitGroup
	for w := 0; w < min(numCores, len(files)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				frame, err := LoadFrame(files[idx])
				results <- result{idx: idx, frame: frame, err: err}
			}
		}()
	}
	for idx := range files {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()
	close(results)

	frames := make([]*mat.Dense, len(files))
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		frames[res.idx] = res.frame
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return frames, nil
}

// LoadFrame decodes one image file into a matrix of raw 16-bit gray
// intensities, row 0 being the top of the image.
func LoadFrame(path string) (*mat.Dense, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return imageToDense(img), nil
}

// imageToDense converts an image to raw gray intensities without rescaling.
func imageToDense(img image.Image) *mat.Dense {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := mat.NewDense(height, width, nil)

	switch src := img.(type) {
	case *image.Gray16:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out.Set(y, x, float64(src.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y))
			}
		}
	default:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				g := color.Gray16Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
				out.Set(y, x, float64(g.Y))
			}
		}
	}
	return out
}
