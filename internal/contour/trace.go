package contour

import "object-editor/pkg/geometry"

// TraceBoundary walks the outer boundary of the component numbered label in
// a row-major component map using Moore-neighbor tracing with Jacob's
// stopping criterion. Points are pixel centers (X = column, Y = row) in
// clockwise order for raster coordinates; every boundary pixel visited is
// kept, so the result is the raw pixel chain, not a simplified one.
//
// A single-pixel component yields one point. The chain is open; callers
// close it by appending the first point.
func TraceBoundary(comp []int, rows, cols, label int) []geometry.Point2D {
	// Topmost-leftmost pixel of the component
	sr, sc := -1, -1
	for i, v := range comp {
		if v == label {
			sr, sc = i/cols, i%cols
			break
		}
	}
	if sr < 0 {
		return nil
	}

	isLabel := func(r, c int) bool {
		if r < 0 || r >= rows || c < 0 || c >= cols {
			return false
		}
		return comp[r*cols+c] == label
	}

	// 8-neighborhood in clockwise order starting east
	ndr := [8]int{0, 1, 1, 1, 0, -1, -1, -1}
	ndc := [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	dirIndex := func(dr, dc int) int {
		for i := 0; i < 8; i++ {
			if ndr[i] == dr && ndc[i] == dc {
				return i
			}
		}
		return 0
	}

	pts := []geometry.Point2D{{X: float64(sc), Y: float64(sr)}}
	cr, cc := sr, sc
	br, bc := sr, sc-1 // backtrack starts to the left of the start pixel
	startBr, startBc := br, bc

	// Jacob's criterion alone does not terminate on degenerate components
	// (a diagonal pixel pair bounces between two states without ever
	// re-entering the start from its original backtrack), so repeated
	// pixel-plus-backtrack states end the walk too.
	type state struct{ cr, cc, br, bc int }
	seen := map[state]bool{{cr, cc, br, bc}: true}

	for {
		// Scan the Moore neighborhood clockwise from the backtrack position
		start := (dirIndex(br-cr, bc-cc) + 1) % 8
		found := false
		nbr, nbc := br, bc
		for k := 0; k < 8; k++ {
			i := (start + k) % 8
			tr, tc := cr+ndr[i], cc+ndc[i]
			if isLabel(tr, tc) {
				br, bc = nbr, nbc
				cr, cc = tr, tc
				found = true
				break
			}
			nbr, nbc = tr, tc
		}
		if !found {
			// isolated pixel
			break
		}
		if cr == sr && cc == sc && br == startBr && bc == startBc {
			break
		}
		if seen[state{cr, cc, br, bc}] {
			break
		}
		seen[state{cr, cc, br, bc}] = true
		pts = append(pts, geometry.Point2D{X: float64(cc), Y: float64(cr)})
	}

	// Drop a duplicated closing point if the walk re-added the start
	if len(pts) >= 2 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return pts
}
