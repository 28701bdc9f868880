package contour

import "object-editor/pkg/geometry"

// Chain is one closed boundary of an object: either the outside of a
// filled region or the rim of a hole inside it. Points are pixel centers
// and the first point is repeated as the last.
type Chain struct {
	Points  []geometry.Point2D
	Outside bool
}

// ExtractObject traces every boundary of the object whose footprint is the
// given row-major mask. Outside boundaries come from 8-connected labeling
// of the footprint; hole boundaries from 4-connected labeling of its
// complement, with the component touching the raster edge discarded since
// it is the true exterior. The mixed connectivity keeps holes from leaking
// to the outside along diagonals.
//
// Degenerate blobs (one or two pixels) trace to chains of fewer than three
// distinct points. They are kept: rasterization draws chain outlines, so
// even a single-pixel hole chain still subtracts its pixel.
func ExtractObject(mask []bool, rows, cols int) []Chain {
	// Pad by one pixel so boundary walks never leave the grid and the
	// exterior is a single connected component.
	pr, pc := rows+2, cols+2
	pad := make([]bool, pr*pc)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if mask[r*cols+c] {
				pad[(r+1)*pc+(c+1)] = true
			}
		}
	}

	var chains []Chain

	comp, count := LabelComponents(pad, pr, pc, Connect8)
	for label := 1; label <= count; label++ {
		if pts := tracePadded(comp, pr, pc, label, false); pts != nil {
			chains = append(chains, Chain{Points: pts, Outside: true})
		}
	}

	inv := make([]bool, pr*pc)
	for i, set := range pad {
		inv[i] = !set
	}
	comp, count = LabelComponents(inv, pr, pc, Connect4)
	exterior := comp[0] // the padding ring is background and 4-connected
	for label := 1; label <= count; label++ {
		if label == exterior {
			continue
		}
		if pts := tracePadded(comp, pr, pc, label, true); pts != nil {
			chains = append(chains, Chain{Points: pts, Outside: false})
		}
	}
	return chains
}

// tracePadded traces one component in padded coordinates, shifts back to
// raster coordinates, optionally reverses the winding (holes wind opposite
// to outsides), and closes the chain.
func tracePadded(comp []int, pr, pc, label int, reverse bool) []geometry.Point2D {
	pts := TraceBoundary(comp, pr, pc, label)
	if len(pts) == 0 {
		return nil
	}
	if reverse {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	out := make([]geometry.Point2D, 0, len(pts)+1)
	for _, p := range pts {
		out = append(out, geometry.Point2D{X: p.X - 1, Y: p.Y - 1})
	}
	return append(out, out[0])
}
