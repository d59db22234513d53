// Package session drives the interactive workflows on top of the extraction
// core. A LEEM session picks points, windows or lines on a real-space stack
// and extracts I(V) curves or line profiles. A LEED session places beam
// windows on a diffraction stack, derives their backgrounds and averages
// beams.
//
// Input arrives already resolved by the UI layer: a display-space point plus
// the button pressed, or a navigation key.
package session

import (
	"fmt"

	"leemiv/internal/models"
	"leemiv/pkg/extraction"
)

// Button is the mouse button of a click.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Key is a navigation key.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
)

// frameNav tracks the frame on display and labels it.
type frameNav struct {
	data  *extraction.Dataset
	frame int
	title string
}

// Frame returns the index of the frame on display.
func (f *frameNav) Frame() int { return f.frame }

// SetFrame jumps to frame n.
func (f *frameNav) SetFrame(n int) error {
	_, _, samples := f.data.Dims()
	if n < 0 || n >= samples {
		return fmt.Errorf("frame %d outside [0, %d): %w", n, samples, models.ErrOutOfBounds)
	}
	f.frame = n
	return nil
}

// Key steps one frame back or forward. Steps past either end are ignored.
// It reports whether the frame changed.
func (f *frameNav) Key(k Key) bool {
	_, _, samples := f.data.Dims()
	switch {
	case k == KeyLeft && f.frame > 0:
		f.frame--
		return true
	case k == KeyRight && f.frame < samples-1:
		f.frame++
		return true
	}
	return false
}

// FrameLabel titles the frame on display with its axis label.
func (f *frameNav) FrameLabel() string {
	return fmt.Sprintf("%s: %v %s", f.title, f.data.Axis.At(f.frame), f.data.Axis.Unit())
}
