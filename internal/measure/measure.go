// Package measure computes per-object shape statistics from label planes.
package measure

import (
	"math"
	"sort"

	"object-editor/internal/labels"
	"object-editor/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// ObjectStats summarizes the shape of one labeled object.
type ObjectStats struct {
	ID           int
	Area         int     // pixel count
	Centroid     geometry.Point2D
	Bounds       geometry.Rect
	Perimeter    float64 // exposed-side boundary length estimate
	Eccentricity float64 // 0 for a disc, approaching 1 for a line
}

// MeasureObjects computes statistics for every object in the planes,
// ordered by id. Overlapping objects are measured independently.
func MeasureObjects(planes []*labels.Plane) []ObjectStats {
	if len(planes) == 0 {
		return nil
	}
	rows, cols := planes[0].Rows(), planes[0].Cols()

	pixels := make(map[int][]geometry.PointInt)
	for _, p := range planes {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if id := p.Get(r, c); id != 0 {
					pixels[id] = append(pixels[id], geometry.PointInt{X: c, Y: r})
				}
			}
		}
	}

	ids := make([]int, 0, len(pixels))
	for id := range pixels {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	stats := make([]ObjectStats, 0, len(ids))
	for _, id := range ids {
		pts := pixels[id]
		fpts := make([]geometry.Point2D, len(pts))
		for i, p := range pts {
			fpts[i] = p.ToFloat()
		}
		stats = append(stats, ObjectStats{
			ID:           id,
			Area:         len(pts),
			Centroid:     geometry.Centroid(fpts),
			Bounds:       geometry.BoundingBox(fpts),
			Perimeter:    perimeter(pts, rows, cols),
			Eccentricity: eccentricity(fpts),
		})
	}
	return stats
}

// perimeter estimates the boundary length: each pixel with a background
// 4-neighbor contributes one unit per exposed side.
func perimeter(pts []geometry.PointInt, rows, cols int) float64 {
	occupied := make(map[geometry.PointInt]bool, len(pts))
	for _, p := range pts {
		occupied[p] = true
	}
	sides := 0
	for _, p := range pts {
		for _, d := range [4]geometry.PointInt{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
			n := geometry.PointInt{X: p.X + d.X, Y: p.Y + d.Y}
			if !occupied[n] {
				sides++
			}
		}
	}
	return float64(sides)
}

// eccentricity derives the eccentricity of the ellipse with the same second
// moments as the pixel set, from the eigenvalues of the 2x2 coordinate
// covariance matrix.
func eccentricity(pts []geometry.Point2D) float64 {
	if len(pts) < 2 {
		return 0
	}
	c := geometry.Centroid(pts)
	var sxx, syy, sxy float64
	for _, p := range pts {
		dx, dy := p.X-c.X, p.Y-c.Y
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	n := float64(len(pts))
	cov := mat.NewSymDense(2, []float64{sxx / n, sxy / n, sxy / n, syy / n})

	var eig mat.EigenSym
	if !eig.Factorize(cov, false) {
		return 0
	}
	v := eig.Values(nil)
	major := math.Max(v[0], v[1])
	minor := math.Min(v[0], v[1])
	if major <= 0 {
		return 0
	}
	return math.Sqrt(1 - minor/major)
}
