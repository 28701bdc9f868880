// Package raster converts closed control-point chains back into boolean
// pixel masks, the inverse of contour extraction.
package raster

import (
	"math"
	"sort"

	"object-editor/pkg/geometry"
)

// PolygonMask rasterizes one closed chain (first point repeated as the
// last) into a row-major mask. A pixel is set when its center is inside
// the polygon under the even-odd rule, or when it lies on the outline
// itself. Drawing the outline makes extraction followed by rasterization
// bit-exact: every traced boundary pixel is stamped explicitly, and the
// even-odd fill supplies the strict interior.
func PolygonMask(points []geometry.Point2D, rows, cols int) []bool {
	mask := make([]bool, rows*cols)
	if len(points) < 2 {
		if len(points) == 1 {
			stamp(mask, rows, cols, points[0])
		}
		return mask
	}

	// Even-odd scanline fill. A pixel center (r, c) is inside when an odd
	// number of edges cross the horizontal ray to its right.
	for r := 0; r < rows; r++ {
		fr := float64(r)
		var crossings []float64
		for i := 0; i+1 < len(points); i++ {
			p0, p1 := points[i], points[i+1]
			if (p0.Y > fr) != (p1.Y > fr) {
				crossings = append(crossings, p0.X+(fr-p0.Y)*(p1.X-p0.X)/(p1.Y-p0.Y))
			}
		}
		sort.Float64s(crossings)
		for k := 0; k+1 < len(crossings); k += 2 {
			c0 := int(math.Ceil(crossings[k]))
			c1 := int(math.Ceil(crossings[k+1])) - 1
			if c0 < 0 {
				c0 = 0
			}
			if c1 >= cols {
				c1 = cols - 1
			}
			for c := c0; c <= c1; c++ {
				mask[r*cols+c] = true
			}
		}
	}

	// Outline
	for i := 0; i+1 < len(points); i++ {
		drawLine(mask, rows, cols, points[i], points[i+1])
	}
	return mask
}

// ChainsToMask combines the polygon masks of all chains of one object by
// XOR: a pixel belongs to the object when an odd number of chains cover
// it, so hole chains subtract from the outside chain that encloses them.
func ChainsToMask(chains [][]geometry.Point2D, rows, cols int) []bool {
	mask := make([]bool, rows*cols)
	for _, points := range chains {
		m := PolygonMask(points, rows, cols)
		for i, set := range m {
			if set {
				mask[i] = !mask[i]
			}
		}
	}
	return mask
}

// drawLine stamps the Bresenham line between two points, rounded to the
// nearest pixel centers.
func drawLine(mask []bool, rows, cols int, a, b geometry.Point2D) {
	x0, y0 := int(math.Round(a.X)), int(math.Round(a.Y))
	x1, y1 := int(math.Round(b.X)), int(math.Round(b.Y))

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if y0 >= 0 && y0 < rows && x0 >= 0 && x0 < cols {
			mask[y0*cols+x0] = true
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func stamp(mask []bool, rows, cols int, p geometry.Point2D) {
	r, c := int(math.Round(p.Y)), int(math.Round(p.X))
	if r >= 0 && r < rows && c >= 0 && c < cols {
		mask[r*cols+c] = true
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
