package editor

import (
	"object-editor/internal/raster"
	"object-editor/pkg/geometry"
)

// okToSplit decides whether the two picked control points are a legal split
// pair. Both must belong to the same object. On one chain the picks must be
// at least two points apart, including across the wrap between the last and
// first points; across two chains the split bridges an outside boundary
// with a hole, so the polarities must differ.
func okToSplit(a *Chain, ai int, b *Chain, bi int) bool {
	if a.Object != b.Object {
		return false
	}
	if a == b {
		lo, hi := ai, bi
		if lo > hi {
			lo, hi = hi, lo
		}
		if hi-lo < 2 {
			return false
		}
		if len(a.Points)-hi <= 2 && lo == 0 {
			return false
		}
		return true
	}
	return a.Outside != b.Outside
}

// performSplit dispatches a validated split pair.
func (s *Session) performSplit(a *Chain, ai int, b *Chain, bi int) {
	if a == b {
		lo, hi := ai, bi
		if lo > hi {
			lo, hi = hi, lo
		}
		if a.Outside {
			s.splitOutsideChain(a, lo, hi)
		} else {
			s.splitHoleChain(a, lo, hi)
		}
		return
	}
	s.bridgeSplit(a, ai, b, bi)
}

// splitOutsideChain cuts an outside boundary into two objects along the
// chord between the picked points. The original object keeps the first
// fragment; the second becomes a new object. Hole pixels of the original
// are carved out of both, since the chord may put a hole on either side.
func (s *Session) splitOutsideChain(c *Chain, lo, hi int) {
	xy := c.Points
	xy0 := make([]geometry.Point2D, 0, lo+1+len(xy)-hi)
	xy0 = append(xy0, xy[:lo+1]...)
	xy0 = append(xy0, xy[hi:]...)
	xy1 := make([]geometry.Point2D, 0, hi-lo+2)
	xy1 = append(xy1, xy[lo:hi+1]...)
	xy1 = append(xy1, xy[lo])

	old := c.Object
	rows, cols := s.store.Rows(), s.store.Cols()

	// Union of the original object's hole footprints, taken before closing.
	holes := make([]bool, rows*cols)
	anyHole := false
	for _, o := range s.chains {
		if o.Object == old && !o.Outside {
			anyHole = true
			for i, set := range raster.PolygonMask(o.Points, rows, cols) {
				if set {
					holes[i] = true
				}
			}
		}
	}

	newID := s.store.AllocateObject()
	s.ensureKeep(newID)
	c.Points = xy0
	c.Edited = true
	s.chains = append(s.chains, &Chain{Points: xy1, Object: newID, Outside: true, Edited: true})

	s.closeObject(old)
	s.closeObject(newID)

	if anyHole {
		for _, id := range []int{old, newID} {
			mask := s.store.ObjectMask(id)
			for i := range mask {
				if holes[i] {
					mask[i] = false
				}
			}
			s.store.ReplaceObject(id, mask)
		}
	}
	s.makeControlPoints(old)
	s.makeControlPoints(newID)
	s.recordUndo()
}

// splitHoleChain cuts one hole into two holes of the same object. The
// fragments end at the midpoints of the edges flanking each picked point,
// leaving a channel of object between the new holes; the picked points
// themselves are dropped. The raster only changes when the object closes.
func (s *Session) splitHoleChain(c *Chain, lo, hi int) {
	xy := c.Points
	loLeft, loRight := splitPoints(xy, lo)
	hiLeft, hiRight := splitPoints(xy, hi)

	xy0 := make([]geometry.Point2D, 0, lo+2+len(xy)-hi)
	xy0 = append(xy0, xy[:lo]...)
	xy0 = append(xy0, loLeft, hiRight)
	xy0 = append(xy0, xy[hi+1:]...)
	xy0 = closeRing(xy0)

	xy1 := make([]geometry.Point2D, 0, hi-lo+2)
	xy1 = append(xy1, hiLeft, loRight)
	xy1 = append(xy1, xy[lo+1:hi]...)
	xy1 = append(xy1, hiLeft)

	c.Points = xy0
	c.Edited = true
	s.chains = append(s.chains, &Chain{Points: xy1, Object: c.Object, Outside: false, Edited: true})
	s.recordUndo()
}

// bridgeSplit joins an outside boundary to a hole of the same object into
// one boundary, cutting a channel between them. The larger chain is the
// outside; the hole chain is absorbed and removed. The object keeps its id.
func (s *Session) bridgeSplit(a *Chain, ai int, b *Chain, bi int) {
	out, oi := a, ai
	in, ii := b, bi
	if in.Area() > out.Area() {
		out, oi, in, ii = in, ii, out, oi
	}

	oLeft, oRight := splitPoints(out.Points, oi)
	iLeft, iRight := splitPoints(in.Points, ii)

	xy := make([]geometry.Point2D, 0, len(out.Points)+len(in.Points)+4)
	xy = append(xy, out.Points[:oi]...)
	xy = append(xy, oLeft, iRight)
	xy = append(xy, in.Points[ii+1:len(in.Points)-1]...)
	xy = append(xy, in.Points[:ii]...)
	xy = append(xy, iLeft, oRight)
	xy = append(xy, out.Points[oi+1:]...)
	xy[len(xy)-1] = xy[0]

	out.Points = xy
	out.Edited = true
	var kept []*Chain
	for _, c := range s.chains {
		if c != in {
			kept = append(kept, c)
		}
	}
	s.chains = kept

	s.closeObject(out.Object)
	s.makeControlPoints(out.Object)
	s.recordUndo()
}

// splitPoints returns the midpoints of the two edges flanking point idx of
// a closed chain: first the midpoint toward the previous point, then toward
// the next.
func splitPoints(pts []geometry.Point2D, idx int) (left, right geometry.Point2D) {
	m := len(pts)
	li := idx - 1
	if idx == 0 {
		li = m - 2
	}
	ri := idx + 1
	if idx == m-2 {
		ri = 0
	}
	return pts[li].Midpoint(pts[idx]), pts[ri].Midpoint(pts[idx])
}

// closeRing appends the first point when the ring is not already closed.
func closeRing(pts []geometry.Point2D) []geometry.Point2D {
	if len(pts) > 0 && pts[0] != pts[len(pts)-1] {
		pts = append(pts, pts[0])
	}
	return pts
}
