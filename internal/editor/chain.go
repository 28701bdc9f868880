// Package editor implements the interactive editing session over a label
// raster: control-point chains, the gesture state machine, edit operations,
// drag validity checking, and sparse-diff undo.
package editor

import (
	"object-editor/pkg/geometry"
)

// Chain is an editable closed boundary of one object. Points holds the
// control points with the first point repeated as the last; Outside marks
// an object boundary as opposed to the rim of a hole; Edited records
// whether the chain has diverged from the raster, which decides whether
// closing the object re-rasterizes it.
type Chain struct {
	Points  []geometry.Point2D
	Object  int
	Outside bool
	Edited  bool
}

// Clone returns a deep copy of the chain.
func (c *Chain) Clone() *Chain {
	points := make([]geometry.Point2D, len(c.Points))
	copy(points, c.Points)
	return &Chain{Points: points, Object: c.Object, Outside: c.Outside, Edited: c.Edited}
}

// NumPoints returns the number of distinct control points (the closing
// duplicate is not counted).
func (c *Chain) NumPoints() int {
	if n := len(c.Points); n > 0 && c.Points[0] == c.Points[n-1] {
		return n - 1
	}
	return len(c.Points)
}

// Area returns the unsigned area enclosed by the chain.
func (c *Chain) Area() float64 {
	return geometry.PolygonArea(c.Points)
}

// cloneChains deep-copies a chain set.
func cloneChains(chains []*Chain) []*Chain {
	out := make([]*Chain, len(chains))
	for i, c := range chains {
		out[i] = c.Clone()
	}
	return out
}
