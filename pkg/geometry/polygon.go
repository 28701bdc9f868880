package geometry

import "math"

// ConvexHull computes the convex hull of a set of points using Graham scan.
// Returns the points forming the convex hull in counter-clockwise order.
func ConvexHull(points []Point2D) []Point2D {
	if len(points) < 3 {
		return points
	}

	// Make a copy to avoid modifying the input
	pts := make([]Point2D, len(points))
	copy(pts, points)

	// Find the point with lowest y (and leftmost if tied)
	lowest := 0
	for i := 1; i < len(pts); i++ {
		if pts[i].Y < pts[lowest].Y ||
			(pts[i].Y == pts[lowest].Y && pts[i].X < pts[lowest].X) {
			lowest = i
		}
	}

	// Swap to front
	pts[0], pts[lowest] = pts[lowest], pts[0]
	pivot := pts[0]

	// Sort by polar angle with respect to pivot
	sorted := make([]Point2D, len(pts)-1)
	copy(sorted, pts[1:])

	for i := 0; i < len(sorted)-1; i++ {
		for j := i + 1; j < len(sorted); j++ {
			cross := CrossProduct(pivot, sorted[i], sorted[j])
			if cross < 0 || (cross == 0 && distSq(pivot, sorted[i]) > distSq(pivot, sorted[j])) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	// Build hull
	hull := []Point2D{pivot}
	for _, p := range sorted {
		for len(hull) > 1 && CrossProduct(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// PolygonArea returns the unsigned area enclosed by a closed polygon
// (first point repeated as the last).
func PolygonArea(polygon []Point2D) float64 {
	var sum float64
	for i := 0; i+1 < len(polygon); i++ {
		sum += (polygon[i].X + polygon[i+1].X) * (polygon[i].Y - polygon[i+1].Y)
	}
	return math.Abs(sum) / 2
}

// TriangleArea returns the unsigned area of the triangle a-b-c.
func TriangleArea(a, b, c Point2D) float64 {
	return math.Abs(CrossProduct(a, b, c)) / 2
}

// CrossProduct computes the cross product of vectors OA and OB.
func CrossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// SegmentsIntersect reports whether the open segments a0-a1 and b0-b1
// properly cross, or overlap collinearly. Segments that merely share an
// endpoint do not count as intersecting.
func SegmentsIntersect(a0, a1, b0, b1 Point2D) bool {
	d1 := CrossProduct(b0, b1, a0)
	d2 := CrossProduct(b0, b1, a1)
	d3 := CrossProduct(a0, a1, b0)
	d4 := CrossProduct(a0, a1, b1)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear overlap: one endpoint strictly interior to the other segment
	if d1 == 0 && onSegmentStrict(b0, b1, a0) {
		return true
	}
	if d2 == 0 && onSegmentStrict(b0, b1, a1) {
		return true
	}
	if d3 == 0 && onSegmentStrict(a0, a1, b0) {
		return true
	}
	if d4 == 0 && onSegmentStrict(a0, a1, b1) {
		return true
	}
	return false
}

// onSegmentStrict reports whether p lies on segment a-b strictly between
// the endpoints. Callers must ensure p is collinear with a-b.
func onSegmentStrict(a, b, p Point2D) bool {
	if p == a || p == b {
		return false
	}
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// DistSqToSegment returns the squared distance from p to segment a-b and
// the projection parameter t of the closest point on the infinite line
// through a-b (t is not clamped; t in (0,1) means the projection falls
// strictly within the segment).
func DistSqToSegment(p, a, b Point2D) (float64, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return distSq(p, a), 0
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	tc := math.Max(0, math.Min(1, t))
	cx := a.X + tc*dx
	cy := a.Y + tc*dy
	return (p.X-cx)*(p.X-cx) + (p.Y-cy)*(p.Y-cy), t
}

// distSq computes the squared distance between two points.
func distSq(a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}
