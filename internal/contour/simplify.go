package contour

import "object-editor/pkg/geometry"

// DefaultSimplifyArea is the triangle-area threshold, in square pixels,
// above which a skipped point must be reinstated.
const DefaultSimplifyArea = 4.0

// Simplify reduces a closed raw pixel chain (first point repeated as the
// last) to a control-point chain. The accepted set is seeded with the
// first point, the index-midpoint and the closing point; then, as long as
// some excluded point forms a triangle of at least maxArea with its two
// nearest accepted neighbors, the point midway (by index) between those
// neighbors is accepted. Bisecting by index rather than taking the
// offending point itself bounds the number of rounds.
//
// Chains of ten or fewer points are returned unchanged: the area test is
// unstable on short chains.
func Simplify(chain []geometry.Point2D, maxArea float64) []geometry.Point2D {
	n := len(chain)
	if n <= 10 {
		return chain
	}

	accepted := make([]bool, n)
	accepted[0] = true
	accepted[n/2] = true
	accepted[n-1] = true

	for {
		// Indices of the accepted points, in order
		var aidx []int
		for i, a := range accepted {
			if a {
				aidx = append(aidx, i)
			}
		}

		// Walk each span between consecutive accepted points and find the
		// excluded point with the largest deviation triangle.
		bestArea := -1.0
		bestSpan := -1
		for s := 0; s+1 < len(aidx); s++ {
			lo, hi := aidx[s], aidx[s+1]
			a, b := chain[lo], chain[hi]
			for i := lo + 1; i < hi; i++ {
				area := geometry.TriangleArea(a, b, chain[i])
				if area > bestArea {
					bestArea = area
					bestSpan = s
				}
			}
		}
		if bestArea < maxArea {
			break
		}
		accepted[(aidx[bestSpan]+aidx[bestSpan+1])/2] = true
	}

	out := make([]geometry.Point2D, 0, 16)
	for i, a := range accepted {
		if a {
			out = append(out, chain[i])
		}
	}
	return out
}
