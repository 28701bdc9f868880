package editor

import (
	"math"

	"object-editor/pkg/geometry"
)

// onSegmentEps is the squared-distance tolerance under which a dragged
// point counts as lying on a chain edge rather than crossing it. Sliding a
// point along a neighboring boundary is legal; cutting through it is not.
const onSegmentEps = 1.2e-7

// moveActivePoint applies a drag of the active control point to pt: the
// target is snapped to integer pixel coordinates, clamped to the raster,
// and rejected outright when the move would make any chain self-intersect
// or cross another object's boundary.
func (s *Session) moveActivePoint(pt geometry.Point2D) {
	target := s.clamp(geometry.Point2D{
		X: math.Round(pt.X),
		Y: math.Round(pt.Y),
	})
	c, idx := s.activeChain, s.activeIndex
	if target == c.Points[idx] {
		return
	}
	if !s.validMove(c, idx, target) {
		return
	}
	c.Points[idx] = target
	if idx == 0 {
		// The closing duplicate follows the first point.
		c.Points[len(c.Points)-1] = target
	}
	c.Edited = true
}

// validMove checks whether moving point idx of chain c to target keeps
// every boundary sound. The two edges incident to the moved point are
// tested against all chain segments, with three carve-outs:
//
//   - on the chain itself, the edges within two points of the moved one are
//     excluded, since they legitimately share endpoints with the candidate
//     edges; a chain of four or fewer distinct points has nothing left to
//     test;
//   - when overlap is allowed, chains of other objects are ignored
//     entirely;
//   - a target lying on a segment of some chain, strictly between its
//     endpoints in both coordinates, exempts that whole chain, so points
//     can be dragged onto a neighboring boundary without tripping the
//     crossing test.
func (s *Session) validMove(c *Chain, idx int, target geometry.Point2D) bool {
	n := c.NumPoints()
	data := c.Points[:n]
	before := data[(idx+n-1)%n]
	after := data[(idx+1)%n]

	for _, other := range s.chains {
		if s.store.OverlapAllowed() && other.Object != c.Object {
			continue
		}

		var poly []geometry.Point2D
		if other == c {
			if n <= 4 {
				continue
			}
			// Roll the chain so the moved point leads, then cut the two
			// points at each end; what remains are the edges far enough
			// from the moved point to be worth testing.
			rolled := make([]geometry.Point2D, 0, n+1)
			rolled = append(rolled, data[idx:]...)
			rolled = append(rolled, data[:idx+1]...)
			poly = rolled[2 : len(rolled)-2]
		} else {
			poly = other.Points
		}

		if onAnySegment(target, poly) {
			continue
		}
		for i := 0; i+1 < len(poly); i++ {
			if geometry.SegmentsIntersect(before, target, poly[i], poly[i+1]) ||
				geometry.SegmentsIntersect(target, after, poly[i], poly[i+1]) {
				return false
			}
		}
	}
	return true
}

// onAnySegment reports whether p lies on some segment of the polyline,
// strictly between its endpoints in both the x and y ordering.
func onAnySegment(p geometry.Point2D, poly []geometry.Point2D) bool {
	for i := 0; i+1 < len(poly); i++ {
		l0, l1 := poly[i], poly[i+1]
		d2, _ := geometry.DistSqToSegment(p, l0, l1)
		if d2 < onSegmentEps && betweenSigns(p.X, l0.X, l1.X) && betweenSigns(p.Y, l0.Y, l1.Y) {
			return true
		}
	}
	return false
}

// betweenSigns reports whether v-a and v-b have opposite signs, i.e. v is
// strictly between a and b.
func betweenSigns(v, a, b float64) bool {
	return sign(v-a) != sign(v-b)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
