// Package colorutil provides shared color utilities for the object editor.
package colorutil

import (
	"image/color"
	"math"
)

// Common overlay colors used throughout the application.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Blue    = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

// LabelColor returns a stable, saturated color for an object id. Hues step
// by the golden angle so neighboring ids stay visually distinct.
func LabelColor(id int) color.RGBA {
	if id <= 0 {
		return Black
	}
	h := math.Mod(float64(id)*137.508, 360)
	r, g, b := HSVToRGB(h, 0.85, 0.95)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// HSVToRGB converts HSV (H 0-360, S and V 0-1) to 8-bit RGB.
func HSVToRGB(h, s, v float64) (r, g, b uint8) {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var rf, gf, bf float64
	switch {
	case h < 60:
		rf, gf, bf = c, x, 0
	case h < 120:
		rf, gf, bf = x, c, 0
	case h < 180:
		rf, gf, bf = 0, c, x
	case h < 240:
		rf, gf, bf = 0, x, c
	case h < 300:
		rf, gf, bf = x, 0, c
	default:
		rf, gf, bf = c, 0, x
	}
	return uint8((rf + m) * 255), uint8((gf + m) * 255), uint8((bf + m) * 255)
}

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0 // V in 0-255

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 255.0 // S in 0-255
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	h = h / 2 // Convert to OpenCV's 0-180 range

	return h, s, v
}
