// Package smoothing implements the moving-average smoother applied to
// extracted spectral curves, together with a per-pixel memoizing cache.
//
// The smoother reflect-pads the input, convolves it with a normalized window
// kernel and trims the result back to the input length. Supported kernels are
// flat (boxcar), hanning, hamming, bartlett and blackman.
package smoothing

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"

	"leemiv/internal/models"
)

// WindowType names a smoothing kernel.
type WindowType string

const (
	Flat     WindowType = "flat"
	Hanning  WindowType = "hanning"
	Hamming  WindowType = "hamming"
	Bartlett WindowType = "bartlett"
	Blackman WindowType = "blackman"
)

// WindowTypes lists the supported kernels in menu order.
var WindowTypes = []WindowType{Flat, Hanning, Hamming, Bartlett, Blackman}

// ParseWindowType accepts a kernel name in any case.
func ParseWindowType(s string) (WindowType, error) {
	wt := WindowType(strings.ToLower(strings.TrimSpace(s)))
	if !wt.Valid() {
		return "", fmt.Errorf("unknown window type %q: %w", s, models.ErrInvalidInput)
	}
	return wt, nil
}

// Valid reports whether wt is a supported kernel.
func (wt WindowType) Valid() bool {
	for _, known := range WindowTypes {
		if wt == known {
			return true
		}
	}
	return false
}

// NormalizeLength validates a window length. Lengths must be positive; an
// odd length is bumped to the next even integer.
func NormalizeLength(length int) (int, error) {
	if length <= 0 {
		return 0, fmt.Errorf("window length %d must be a positive even integer: %w",
			length, models.ErrInvalidInput)
	}
	if length%2 != 0 {
		length++
	}
	return length, nil
}

// Kernel returns the normalized (unit sum) weights of a window.
func Kernel(length int, wt WindowType) ([]float64, error) {
	length, err := NormalizeLength(length)
	if err != nil {
		return nil, err
	}

	w := make([]float64, length)
	for i := range w {
		w[i] = 1
	}
	switch wt {
	case Flat:
	case Hanning:
		window.Hann(w)
	case Hamming:
		window.Hamming(w)
	case Bartlett:
		window.Triangular(w)
	case Blackman:
		window.Blackman(w)
	default:
		return nil, fmt.Errorf("unknown window type %q: %w", wt, models.ErrInvalidInput)
	}

	sum := floats.Sum(w)
	if sum == 0 {
		// hanning and bartlett vanish at both ends, so length 2 has no weight
		return nil, fmt.Errorf("%s window of length %d has zero total weight: %w",
			wt, length, models.ErrInvalidInput)
	}
	floats.Scale(1/sum, w)
	return w, nil
}

// Smooth returns a smoothed copy of seq with the same length.
//
// The sequence is mirrored by length samples at both ends (the edge sample is
// not repeated), convolved with the normalized kernel, and trimmed so output
// sample i averages input samples i-length/2 .. i+length/2-1.
func Smooth(seq []float64, length int, wt WindowType) ([]float64, error) {
	if len(seq) == 0 {
		return nil, fmt.Errorf("cannot smooth an empty sequence: %w", models.ErrInvalidInput)
	}
	w, err := Kernel(length, wt)
	if err != nil {
		return nil, err
	}
	length = len(w)

	n := len(seq)
	padded := make([]float64, n+2*length)
	for i := range padded {
		padded[i] = seq[reflect(i-length, n)]
	}

	out := make([]float64, n)
	offset := length / 2
	for i := range out {
		out[i] = floats.Dot(w, padded[i+offset:i+offset+length])
	}
	return out, nil
}

// reflect maps any integer index onto [0, n) by mirroring about the first and
// last samples.
func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}
