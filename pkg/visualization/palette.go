package visualization

import "image/color"

// DefaultPalette holds the selection colors. Its length is the default
// number of live selections allowed per kind.
var DefaultPalette = []color.RGBA{
	{R: 255, G: 0, B: 0, A: 255},
	{R: 0, G: 255, B: 0, A: 255},
	{R: 0, G: 0, B: 255, A: 255},
	{R: 255, G: 255, B: 0, A: 255},
	{R: 0, G: 255, B: 255, A: 255},
	{R: 255, G: 0, B: 255, A: 255},
	{R: 255, G: 128, B: 0, A: 255},
	{R: 128, G: 0, B: 255, A: 255},
	{R: 0, G: 128, B: 128, A: 255},
	{R: 128, G: 128, B: 128, A: 255},
}

// Color returns palette entry i, wrapping around for indices past the end.
func Color(i int) color.RGBA {
	if i < 0 {
		i = -i
	}
	return DefaultPalette[i%len(DefaultPalette)]
}
