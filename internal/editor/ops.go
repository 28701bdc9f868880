package editor

import (
	"sort"

	"object-editor/internal/raster"
	"object-editor/pkg/geometry"
)

// newObjectRadius and newObjectPoints shape the circle seeded by the
// new-object gesture.
const (
	newObjectRadius = 20.0
	newObjectPoints = 12
)

// addPointAt projects pt onto the nearest chain edge within the hit radius
// and inserts the projected point there. Edges whose closest point is an
// endpoint do not count; inserting on them would duplicate an existing
// control point. The insertion keeps the chain closed and marks it edited.
func (s *Session) addPointAt(pt geometry.Point2D) {
	best := hitRadius * hitRadius
	var bestChain *Chain
	bestIdx := -1
	var bestPt geometry.Point2D
	for _, c := range s.chains {
		for i := 0; i+1 < len(c.Points); i++ {
			l0, l1 := c.Points[i], c.Points[i+1]
			d2, t := geometry.DistSqToSegment(pt, l0, l1)
			if t <= 0 || t >= 1 {
				continue
			}
			if d2 <= best {
				best = d2
				bestChain = c
				bestIdx = i
				bestPt = geometry.Point2D{
					X: l0.X + t*(l1.X-l0.X),
					Y: l0.Y + t*(l1.Y-l0.Y),
				}
			}
		}
	}
	if bestChain == nil {
		return
	}
	c := bestChain
	c.Points = append(c.Points, geometry.Point2D{})
	copy(c.Points[bestIdx+2:], c.Points[bestIdx+1:])
	c.Points[bestIdx+1] = bestPt
	c.Edited = true
	s.recordUndo()
}

// deletePointAt removes the control point under pt. A chain left with fewer
// than three distinct points cannot bound anything and is deleted whole.
func (s *Session) deletePointAt(pt geometry.Point2D) {
	c, idx := s.findControlPoint(pt)
	if c == nil {
		return
	}
	if len(c.Points) < 4 {
		s.deleteChain(c)
		s.recordUndo()
		return
	}
	n := len(c.Points)
	if idx == 0 {
		// Drop the closing duplicate along with the first point and
		// re-close on the new first point.
		c.Points = append(c.Points[1:n-1], c.Points[1])
	} else {
		c.Points = append(c.Points[:idx], c.Points[idx+1:]...)
	}
	c.Edited = true
	s.recordUndo()
}

// deleteChain removes a chain from the open set. When it was the object's
// last chain the object is erased from the raster; otherwise one surviving
// chain is marked edited so closing the object re-rasterizes it without
// the deleted boundary.
func (s *Session) deleteChain(c *Chain) {
	var kept []*Chain
	var survivor *Chain
	for _, o := range s.chains {
		if o == c {
			continue
		}
		kept = append(kept, o)
		if o.Object == c.Object && survivor == nil {
			survivor = o
		}
	}
	s.chains = kept
	if survivor != nil {
		survivor.Edited = true
		return
	}
	s.store.RemoveObject(c.Object)
	s.store.Restructure()
}

// newObjectAt allocates a new object and opens it as an edited circular
// chain centered on pt. The raster is untouched until the chain is closed.
func (s *Session) newObjectAt(pt geometry.Point2D) {
	id := s.store.AllocateObject()
	s.ensureKeep(id)
	pts := geometry.GenerateCirclePoints(pt.X, pt.Y, newObjectRadius, newObjectPoints)
	for i, p := range pts {
		pts[i] = s.clamp(p)
	}
	pts = append(pts, pts[0])
	s.chains = append(s.chains, &Chain{
		Points:  pts,
		Object:  id,
		Outside: true,
		Edited:  true,
	})
	s.recordUndo()
}

// finishFreehand closes the drawn polygon and commits it as a new object.
func (s *Session) finishFreehand() {
	pts := s.drawPoints
	s.drawing = false
	s.drawPoints = nil
	s.mode = ModeNormal
	if len(pts) < 3 {
		return
	}
	pts = append(pts, pts[0])
	mask := raster.PolygonMask(pts, s.store.Rows(), s.store.Cols())
	id := s.store.AddObject(mask)
	s.ensureKeep(id)
	s.recordUndo()
}

// applyRegionDelete removes every control point inside the rectangle. The
// left and top edges are inclusive, right and bottom exclusive. Chains left
// with fewer than three distinct points are deleted whole; the rest are
// re-closed and marked edited.
func (s *Session) applyRegionDelete(rect geometry.Rect) {
	var kept []*Chain
	var doomed []*Chain
	changed := false
	for _, c := range s.chains {
		var pts []geometry.Point2D
		for _, p := range c.Points {
			if !rect.ContainsStrict(p) {
				pts = append(pts, p)
			}
		}
		if len(pts) == len(c.Points) {
			kept = append(kept, c)
			continue
		}
		changed = true
		closed := len(pts) > 0 && pts[0] == pts[len(pts)-1]
		if len(pts) < 3 || (len(pts) == 3 && closed) {
			doomed = append(doomed, c)
			continue
		}
		if !closed {
			pts = append(pts, pts[0])
		}
		c.Points = pts
		c.Edited = true
		kept = append(kept, c)
	}
	if !changed {
		return
	}
	s.chains = kept

	// Objects that lost a chain either get a surviving chain marked edited
	// or, with no chains left, vanish from the raster too.
	restructure := false
	for _, d := range doomed {
		var survivor *Chain
		for _, c := range s.chains {
			if c.Object == d.Object {
				survivor = c
				break
			}
		}
		if survivor != nil {
			survivor.Edited = true
			continue
		}
		s.store.RemoveObject(d.Object)
		restructure = true
	}
	if restructure {
		s.store.Restructure()
	}
	s.recordUndo()
}

// Join merges the named objects into one. The open chains of each are
// committed first, the footprints are unioned under the smallest id, and
// the merged object is reopened for editing. Fewer than two ids is a no-op.
func (s *Session) Join(ids []int) error {
	if s.finalized {
		return ErrAlreadyFinalized
	}
	if len(ids) < 2 {
		return nil
	}
	if err := s.checkIDs(ids); err != nil {
		return err
	}
	target := s.commitAndUnion(ids, func(mask []bool) []bool { return mask })
	s.makeControlPoints(target)
	s.recordUndo()
	return nil
}

// ConvexHull replaces the named objects with the convex hull of their
// union, registered under the smallest id and reopened for editing.
func (s *Session) ConvexHull(ids []int) error {
	if s.finalized {
		return ErrAlreadyFinalized
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.checkIDs(ids); err != nil {
		return err
	}
	rows, cols := s.store.Rows(), s.store.Cols()
	target := s.commitAndUnion(ids, func(mask []bool) []bool {
		var pts []geometry.Point2D
		for i, set := range mask {
			if set {
				pts = append(pts, geometry.Point2D{X: float64(i % cols), Y: float64(i / cols)})
			}
		}
		hull := geometry.ConvexHull(pts)
		if len(hull) == 0 {
			return mask
		}
		hull = append(hull, hull[0])
		return raster.PolygonMask(hull, rows, cols)
	})
	s.makeControlPoints(target)
	s.recordUndo()
	return nil
}

// checkIDs verifies every id is present either in the raster or as an open
// chain.
func (s *Session) checkIDs(ids []int) error {
	for _, id := range ids {
		if !s.store.Contains(id) && !s.objectOpen(id) {
			return ErrUnknownObject
		}
	}
	return nil
}

// commitAndUnion closes the open chains of the given objects, unions their
// footprints, applies shape to the union, and installs the result under the
// smallest id, removing the others. Returns the surviving id.
func (s *Session) commitAndUnion(ids []int, shape func([]bool) []bool) int {
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	target := sorted[0]

	for _, id := range sorted {
		if s.objectOpen(id) {
			s.closeObject(id)
		}
	}
	union := make([]bool, s.store.Rows()*s.store.Cols())
	for _, id := range sorted {
		for i, set := range s.store.ObjectMask(id) {
			if set {
				union[i] = true
			}
		}
	}
	for _, id := range sorted[1:] {
		s.store.RemoveObject(id)
	}
	s.store.ReplaceObject(target, shape(union))
	return target
}
