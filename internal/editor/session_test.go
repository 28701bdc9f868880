package editor

import (
	"testing"

	"object-editor/internal/labels"
	"object-editor/pkg/geometry"
)

// blockPlane stamps id over an inclusive pixel rectangle.
func blockPlane(rows, cols, id, r0, c0, r1, c1 int) *labels.Plane {
	p := labels.NewPlane(rows, cols)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			p.Set(r, c, id)
		}
	}
	return p
}

// newBlockSession builds a session over one 3x3 object at rows and columns
// 2 through 4 of a 9x9 raster.
func newBlockSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession([]*labels.Plane{blockPlane(9, 9, 1, 2, 2, 4, 4)}, false)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

// newAnnulusSession builds a session over one ring object: rows and columns
// 1 through 7 of a 9x9 raster with a 3x3 hole at rows and columns 3
// through 5.
func newAnnulusSession(t *testing.T) *Session {
	t.Helper()
	p := blockPlane(9, 9, 1, 1, 1, 7, 7)
	for r := 3; r <= 5; r++ {
		for c := 3; c <= 5; c++ {
			p.Set(r, c, 0)
		}
	}
	s, err := NewSession([]*labels.Plane{p}, false)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

// idAt returns the topmost id at a pixel of the current labels.
func idAt(s *Session, r, c int) int {
	for _, p := range s.CurrentLabels() {
		if id := p.Get(r, c); id != 0 {
			return id
		}
	}
	return 0
}

// sameLabels compares the current raster against a plane set pixel by
// pixel, id-set-wise.
func sameLabels(s *Session, want []*labels.Plane) bool {
	got, err := labels.NewStore(s.CurrentLabels(), true)
	if err != nil {
		return false
	}
	expect, err := labels.NewStore(want, true)
	if err != nil {
		return false
	}
	a, b := got.Flatten(), expect.Flatten()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewSessionErrors(t *testing.T) {
	if _, err := NewSession(nil, false); err != labels.ErrEmptyInput {
		t.Errorf("NewSession(nil) error = %v, want ErrEmptyInput", err)
	}
	if _, err := NewSession([]*labels.Plane{labels.NewPlane(4, 4)}, false); err != labels.ErrEmptyInput {
		t.Errorf("NewSession(background only) error = %v, want ErrEmptyInput", err)
	}
}

func TestOpenAndCloseWithoutEdit(t *testing.T) {
	s := newBlockSession(t)
	orig := s.CurrentLabels()

	s.CommitGesture(GestureEditObject, geometry.Point2D{X: 3, Y: 3})
	chains := s.CurrentChains()
	if len(chains) != 1 {
		t.Fatalf("opened %d chains, want 1", len(chains))
	}
	c := chains[0]
	if c.Object != 1 || !c.Outside || c.Edited {
		t.Errorf("chain = %+v, want unedited outside chain of object 1", c)
	}
	if c.NumPoints() != 8 {
		t.Errorf("chain has %d distinct points, want 8", c.NumPoints())
	}

	// A second edit gesture inside the outline closes the object. Nothing
	// was moved, so the raster must be untouched.
	s.CommitGesture(GestureEditObject, geometry.Point2D{X: 3, Y: 3})
	if len(s.CurrentChains()) != 0 {
		t.Error("chains still open after closing gesture")
	}
	if !sameLabels(s, orig) {
		t.Error("raster changed by an open/close cycle with no edits")
	}
}

func TestDragCommitUndo(t *testing.T) {
	s := newBlockSession(t)
	orig := s.CurrentLabels()

	s.CommitGesture(GestureEditObject, geometry.Point2D{X: 3, Y: 3})
	s.Pick(geometry.Point2D{X: 2, Y: 2})
	s.Drag(geometry.Point2D{X: 0, Y: 0})
	s.Release(geometry.Point2D{X: 0, Y: 0})

	chains := s.CurrentChains()
	if (chains[0].Points[0] != geometry.Point2D{X: 0, Y: 0}) {
		t.Fatalf("corner = %v, want (0, 0)", chains[0].Points[0])
	}
	if chains[0].Points[len(chains[0].Points)-1] != chains[0].Points[0] {
		t.Error("closing point did not follow the first point")
	}
	if !chains[0].Edited {
		t.Error("dragged chain not marked edited")
	}
	// The raster does not change until the object is closed.
	if !sameLabels(s, orig) {
		t.Error("raster changed before the object was closed")
	}

	s.CommitGesture(GestureEditObject, geometry.Point2D{X: 3, Y: 3})
	if idAt(s, 0, 0) != 1 {
		t.Error("stretched corner pixel not part of the object after closing")
	}
	if s.UndoDepth() != 1 {
		t.Fatalf("undo depth = %d, want 1", s.UndoDepth())
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if !sameLabels(s, orig) {
		t.Error("undo did not restore the raster")
	}
	if idAt(s, 0, 0) != 0 {
		t.Error("stretched pixel survived undo")
	}
	if err := s.Undo(); err != ErrEmptyUndoStack {
		t.Errorf("second Undo error = %v, want ErrEmptyUndoStack", err)
	}
}

func TestInvalidDragRejected(t *testing.T) {
	s := newBlockSession(t)
	s.CommitGesture(GestureEditObject, geometry.Point2D{X: 3, Y: 3})

	s.Pick(geometry.Point2D{X: 2, Y: 2})
	// Dragging the corner across the far side would make the chain
	// self-intersect; the move must be ignored.
	s.Drag(geometry.Point2D{X: 6, Y: 3})
	s.Release(geometry.Point2D{X: 6, Y: 3})

	c := s.CurrentChains()[0]
	if (c.Points[0] != geometry.Point2D{X: 2, Y: 2}) {
		t.Errorf("corner moved to %v despite self-intersection", c.Points[0])
	}
	if c.Edited {
		t.Error("rejected drag marked the chain edited")
	}
}

func TestDragSnapsAndClamps(t *testing.T) {
	s := newBlockSession(t)
	s.CommitGesture(GestureEditObject, geometry.Point2D{X: 3, Y: 3})

	s.Pick(geometry.Point2D{X: 2, Y: 2})
	s.Drag(geometry.Point2D{X: 1.4, Y: -3})
	s.Release(geometry.Point2D{X: 1.4, Y: -3})

	got := s.CurrentChains()[0].Points[0]
	if (got != geometry.Point2D{X: 1, Y: 0}) {
		t.Errorf("corner = %v, want snapped and clamped (1, 0)", got)
	}
}

func TestAddAndDeletePoint(t *testing.T) {
	s := newBlockSession(t)
	s.CommitGesture(GestureEditObject, geometry.Point2D{X: 3, Y: 3})

	s.CommitGesture(GestureAddPoint, geometry.Point2D{X: 2.5, Y: 2})
	c := s.CurrentChains()[0]
	if c.NumPoints() != 9 {
		t.Fatalf("after add: %d distinct points, want 9", c.NumPoints())
	}
	if !c.Edited {
		t.Error("add point did not mark the chain edited")
	}

	s.CommitGesture(GestureDeletePoint, geometry.Point2D{X: 2.5, Y: 2})
	if got := s.CurrentChains()[0].NumPoints(); got != 8 {
		t.Errorf("after delete: %d distinct points, want 8", got)
	}
	if s.UndoDepth() != 2 {
		t.Errorf("undo depth = %d, want 2 (add and delete)", s.UndoDepth())
	}

	// Undoing the delete restores the chain snapshot with the added point.
	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := s.CurrentChains()[0].NumPoints(); got != 9 {
		t.Errorf("after undo: %d distinct points, want 9", got)
	}
}

func TestAddPointProjectsOntoEdge(t *testing.T) {
	s := newBlockSession(t)
	s.CommitGesture(GestureEditObject, geometry.Point2D{X: 3, Y: 3})

	// The gesture lands above the top edge; the chain gains the projection
	// of the gesture onto that edge, not the gesture position itself.
	s.CommitGesture(GestureAddPoint, geometry.Point2D{X: 2.5, Y: 0.5})
	c := s.CurrentChains()[0]
	if c.NumPoints() != 9 {
		t.Fatalf("after add: %d distinct points, want 9", c.NumPoints())
	}
	found := false
	for _, p := range c.Points {
		if (p == geometry.Point2D{X: 2.5, Y: 0.5}) {
			t.Fatalf("raw gesture point %v inserted instead of its projection", p)
		}
		if (p == geometry.Point2D{X: 2.5, Y: 2}) {
			found = true
		}
	}
	if !found {
		t.Error("projected point (2.5, 2) missing from the chain")
	}

	// Beyond a corner every edge projects onto an endpoint, so there is no
	// edge to insert on.
	s.CommitGesture(GestureAddPoint, geometry.Point2D{X: 0.5, Y: 0.5})
	if got := s.CurrentChains()[0].NumPoints(); got != 9 {
		t.Errorf("corner gesture changed the chain to %d points", got)
	}
}

func TestDragOntoNeighborBoundary(t *testing.T) {
	s, err := NewSession([]*labels.Plane{blockPlane(12, 12, 1, 2, 2, 4, 4)}, false)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	s.CommitGesture(GestureEditObject, geometry.Point2D{X: 3, Y: 3})

	// A neighboring object's open boundary with diagonal edges.
	s.chains = append(s.chains, &Chain{
		Points: []geometry.Point2D{
			{X: 8, Y: 1}, {X: 10, Y: 3}, {X: 8, Y: 5}, {X: 6, Y: 3}, {X: 8, Y: 1},
		},
		Object:  2,
		Outside: true,
	})

	// Dragging a point exactly onto the neighbor's edge, strictly between
	// its endpoints, slides along the boundary instead of crossing it and
	// must be allowed.
	s.Pick(geometry.Point2D{X: 4, Y: 3})
	s.Drag(geometry.Point2D{X: 7, Y: 2})
	s.Release(geometry.Point2D{X: 7, Y: 2})
	if got := s.CurrentChains()[0].Points[3]; (got != geometry.Point2D{X: 7, Y: 2}) {
		t.Fatalf("point = %v, want (7, 2): on-boundary move rejected", got)
	}

	// Dragging across the neighbor's boundary is rejected.
	s.Pick(geometry.Point2D{X: 7, Y: 2})
	s.Drag(geometry.Point2D{X: 11, Y: 3})
	s.Release(geometry.Point2D{X: 11, Y: 3})
	if got := s.CurrentChains()[0].Points[3]; (got != geometry.Point2D{X: 7, Y: 2}) {
		t.Errorf("point = %v, want unchanged (7, 2): crossing move accepted", got)
	}
}

func TestRegionDeleteRemovesObject(t *testing.T) {
	s := newBlockSession(t)
	orig := s.CurrentLabels()

	s.CommitGesture(GestureEditObject, geometry.Point2D{X: 3, Y: 3})
	s.SetMode(ModeRegionDelete)
	s.Pick(geometry.Point2D{X: 0, Y: 0})
	s.Drag(geometry.Point2D{X: 8.5, Y: 8.5})
	s.Release(geometry.Point2D{X: 8.5, Y: 8.5})

	if s.Mode() != ModeNormal {
		t.Errorf("mode = %v after region delete, want normal", s.Mode())
	}
	if len(s.CurrentChains()) != 0 {
		t.Error("chains survived a region delete covering everything")
	}
	if idAt(s, 3, 3) != 0 {
		t.Error("object raster survived losing its last chain")
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if !sameLabels(s, orig) {
		t.Error("undo did not restore the deleted object")
	}
}

func TestSplitChainIntoTwoObjects(t *testing.T) {
	s := newBlockSession(t)
	s.CommitGesture(GestureEditObject, geometry.Point2D{X: 3, Y: 3})

	s.SetMode(ModeSplitPickFirst)
	s.Pick(geometry.Point2D{X: 2, Y: 2})
	if s.Mode() != ModeSplitPickSecond {
		t.Fatalf("mode = %v after first pick, want split-pick-second", s.Mode())
	}
	s.Pick(geometry.Point2D{X: 4, Y: 4})
	if s.Mode() != ModeNormal {
		t.Fatalf("mode = %v after second pick, want normal", s.Mode())
	}

	// Both halves are reopened for editing.
	objects := make(map[int]bool)
	for _, c := range s.CurrentChains() {
		objects[c.Object] = true
	}
	if !objects[1] || !objects[2] {
		t.Fatalf("open objects after split = %v, want 1 and 2", objects)
	}

	// Every original pixel belongs to one of the halves; the cut line is
	// shared by both.
	for r := 2; r <= 4; r++ {
		for c := 2; c <= 4; c++ {
			if idAt(s, r, c) == 0 {
				t.Errorf("pixel (%d, %d) lost in split", r, c)
			}
		}
	}
	found1, found2 := false, false
	for _, p := range s.CurrentLabels() {
		for r := 0; r < 9; r++ {
			for c := 0; c < 9; c++ {
				switch p.Get(r, c) {
				case 1:
					found1 = true
				case 2:
					found2 = true
				}
			}
		}
	}
	if !found1 || !found2 {
		t.Error("split did not leave both object ids in the raster")
	}
	if s.UndoDepth() != 1 {
		t.Errorf("undo depth = %d, want 1", s.UndoDepth())
	}
}

func TestSplitRejectsAdjacentPicks(t *testing.T) {
	s := newBlockSession(t)
	s.CommitGesture(GestureEditObject, geometry.Point2D{X: 3, Y: 3})

	s.SetMode(ModeSplitPickFirst)
	s.Pick(geometry.Point2D{X: 2, Y: 2})
	s.Pick(geometry.Point2D{X: 3, Y: 2}) // neighboring control point

	if len(s.CurrentChains()) != 1 {
		t.Error("adjacent picks must not split the chain")
	}
	if s.UndoDepth() != 0 {
		t.Error("rejected split recorded an undo entry")
	}
}

func TestSplitHoleIntoTwoHoles(t *testing.T) {
	s := newAnnulusSession(t)
	orig := s.CurrentLabels()

	s.CommitGesture(GestureEditObject, geometry.Point2D{X: 2, Y: 2})
	holes := 0
	for _, c := range s.CurrentChains() {
		if !c.Outside {
			holes++
		}
	}
	if holes != 1 {
		t.Fatalf("opened %d hole chains, want 1", holes)
	}

	s.SetMode(ModeSplitPickFirst)
	s.Pick(geometry.Point2D{X: 3, Y: 3})
	if s.Mode() != ModeSplitPickSecond {
		t.Fatalf("mode = %v after first pick, want split-pick-second", s.Mode())
	}
	s.Pick(geometry.Point2D{X: 5, Y: 5})
	if s.Mode() != ModeNormal {
		t.Fatalf("mode = %v after second pick, want normal", s.Mode())
	}

	holes = 0
	for _, c := range s.CurrentChains() {
		if c.Object != 1 {
			t.Errorf("chain belongs to object %d, want 1", c.Object)
		}
		if c.Outside {
			continue
		}
		holes++
		if !c.Edited {
			t.Error("hole fragment not marked edited")
		}
		if c.Points[0] != c.Points[len(c.Points)-1] {
			t.Error("hole fragment not closed")
		}
	}
	if holes != 2 {
		t.Errorf("hole chains after split = %d, want 2", holes)
	}
	// Splitting a hole only rearranges chains; the raster waits for the
	// object to close.
	if !sameLabels(s, orig) {
		t.Error("raster changed before the object was closed")
	}
	if s.UndoDepth() != 1 {
		t.Errorf("undo depth = %d, want 1", s.UndoDepth())
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(s.CurrentChains()) != 0 {
		t.Error("undo left chains open")
	}
	if !sameLabels(s, orig) {
		t.Error("undo changed the raster")
	}
}

func TestBridgeSplitCutsHoleOpen(t *testing.T) {
	s := newAnnulusSession(t)
	orig := s.CurrentLabels()

	s.CommitGesture(GestureEditObject, geometry.Point2D{X: 2, Y: 2})
	s.SetMode(ModeSplitPickFirst)
	s.Pick(geometry.Point2D{X: 1, Y: 1}) // outside boundary
	s.Pick(geometry.Point2D{X: 4, Y: 3}) // hole rim
	if s.Mode() != ModeNormal {
		t.Fatalf("mode = %v after second pick, want normal", s.Mode())
	}

	// The object keeps its id: every reopened chain belongs to it, no new
	// id appears in the raster, and the channel breaches the boundary at
	// the picked point.
	chains := s.CurrentChains()
	if len(chains) == 0 {
		t.Fatal("no chains reopened after the bridge split")
	}
	outside := 0
	for _, c := range chains {
		if c.Object != 1 {
			t.Errorf("chain belongs to object %d, want 1", c.Object)
		}
		if c.Outside {
			outside++
		}
	}
	if outside == 0 {
		t.Error("no outside chain after the bridge split")
	}
	for _, p := range s.CurrentLabels() {
		for r := 0; r < 9; r++ {
			for c := 0; c < 9; c++ {
				if id := p.Get(r, c); id != 0 && id != 1 {
					t.Fatalf("pixel (%d, %d) = %d, bridge split must not allocate a new object", r, c, id)
				}
			}
		}
	}
	if idAt(s, 1, 1) != 0 {
		t.Error("channel did not breach the boundary at the picked point")
	}
	if idAt(s, 4, 4) != 0 {
		t.Error("hole interior filled by the bridge split")
	}
	if idAt(s, 7, 7) != 1 {
		t.Error("far boundary lost in the bridge split")
	}
	if sameLabels(s, orig) {
		t.Error("bridge split left the raster unchanged")
	}
	if s.UndoDepth() != 1 {
		t.Errorf("undo depth = %d, want 1", s.UndoDepth())
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if !sameLabels(s, orig) {
		t.Error("undo did not restore the ring")
	}
}

func TestJoinObjects(t *testing.T) {
	planes := []*labels.Plane{blockPlane(9, 9, 1, 2, 2, 4, 4)}
	planes[0].Set(3, 7, 2)
	planes[0].Set(3, 6, 2)
	s, err := NewSession(planes, false)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if err := s.Join([]int{1, 2}); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if idAt(s, 3, 7) != 1 {
		t.Error("joined pixels did not take the smallest id")
	}
	if idAt(s, 3, 3) != 1 {
		t.Error("original pixels lost their id")
	}
	// The merged object is reopened with one chain per component.
	if got := len(s.CurrentChains()); got != 2 {
		t.Errorf("open chains after join = %d, want 2", got)
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if idAt(s, 3, 7) != 2 {
		t.Error("undo did not restore the second object")
	}
}

func TestJoinErrors(t *testing.T) {
	s := newBlockSession(t)
	if err := s.Join([]int{1, 99}); err != ErrUnknownObject {
		t.Errorf("Join with unknown id error = %v, want ErrUnknownObject", err)
	}
	if err := s.Join([]int{1}); err != nil {
		t.Errorf("Join with one id = %v, want silent no-op", err)
	}
	if s.UndoDepth() != 0 {
		t.Error("failed joins recorded undo entries")
	}
}

func TestConvexHullFillsConcavity(t *testing.T) {
	// An L-shaped object: hull must fill the notch.
	p := labels.NewPlane(9, 9)
	for r := 1; r <= 5; r++ {
		p.Set(r, 1, 1)
		p.Set(r, 2, 1)
	}
	for c := 3; c <= 5; c++ {
		p.Set(4, c, 1)
		p.Set(5, c, 1)
	}
	s, err := NewSession([]*labels.Plane{p}, false)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if err := s.ConvexHull([]int{1}); err != nil {
		t.Fatalf("ConvexHull: %v", err)
	}
	if idAt(s, 2, 2) != 1 {
		t.Error("original pixel lost")
	}
	if idAt(s, 3, 3) != 1 {
		t.Error("notch pixel not filled by the hull")
	}
}

func TestNewObjectGesture(t *testing.T) {
	s, err := NewSession([]*labels.Plane{blockPlane(50, 50, 1, 2, 2, 4, 4)}, false)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	s.CommitGesture(GestureNewObject, geometry.Point2D{X: 30, Y: 30})
	chains := s.CurrentChains()
	if len(chains) != 1 {
		t.Fatalf("open chains = %d, want 1", len(chains))
	}
	c := chains[0]
	if c.Object != 2 || !c.Edited || !c.Outside {
		t.Errorf("new chain = %+v, want edited outside chain of object 2", c)
	}
	if c.NumPoints() != 12 {
		t.Errorf("circle has %d points, want 12", c.NumPoints())
	}
	if !s.Kept(2) {
		t.Error("new object not marked kept")
	}
	// The raster is untouched until the chain closes.
	if idAt(s, 30, 30) != 0 {
		t.Error("new object rasterized before closing")
	}

	s.CommitGesture(GestureEditObject, geometry.Point2D{X: 30, Y: 30})
	if idAt(s, 30, 30) != 2 {
		t.Error("new object missing from the raster after closing")
	}
}

func TestFreehandDraw(t *testing.T) {
	s, err := NewSession([]*labels.Plane{blockPlane(30, 30, 1, 2, 2, 4, 4)}, false)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	s.SetMode(ModeFreehandDraw)
	s.Pick(geometry.Point2D{X: 10, Y: 10})
	s.Drag(geometry.Point2D{X: 20, Y: 10})
	s.Drag(geometry.Point2D{X: 20, Y: 20})
	s.Release(geometry.Point2D{X: 10, Y: 20})

	if s.Mode() != ModeNormal {
		t.Errorf("mode = %v after freehand, want normal", s.Mode())
	}
	if idAt(s, 15, 15) != 2 {
		t.Error("drawn object missing from the raster")
	}
	if !s.Kept(2) {
		t.Error("drawn object not marked kept")
	}
	if s.UndoDepth() != 1 {
		t.Errorf("undo depth = %d, want 1", s.UndoDepth())
	}
}

func TestToggleKeepAndFinalize(t *testing.T) {
	planes := []*labels.Plane{blockPlane(9, 9, 1, 2, 2, 4, 4)}
	planes[0].Set(7, 7, 2)
	s, err := NewSession(planes, false)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	s.CommitGesture(GestureToggleKeep, geometry.Point2D{X: 3, Y: 3})
	if s.Kept(1) {
		t.Error("toggle did not clear the keep flag")
	}
	s.CommitGesture(GestureToggleKeep, geometry.Point2D{X: 3, Y: 3})
	if !s.Kept(1) {
		t.Error("second toggle did not restore the keep flag")
	}

	s.CommitGesture(GestureToggleKeep, geometry.Point2D{X: 3, Y: 3})
	final, err := s.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	for _, p := range final {
		if p.Get(3, 3) == 1 {
			t.Error("discarded object survived finalize")
		}
	}
	found2 := false
	for _, p := range final {
		if p.Get(7, 7) == 2 {
			found2 = true
		}
	}
	if !found2 {
		t.Error("kept object missing after finalize")
	}

	if _, err := s.Finalize(); err != ErrAlreadyFinalized {
		t.Errorf("second Finalize error = %v, want ErrAlreadyFinalized", err)
	}
	if err := s.Pick(geometry.Point2D{}); err != ErrAlreadyFinalized {
		t.Errorf("Pick after finalize error = %v, want ErrAlreadyFinalized", err)
	}
	if err := s.Join([]int{1, 2}); err != ErrAlreadyFinalized {
		t.Errorf("Join after finalize error = %v, want ErrAlreadyFinalized", err)
	}
}

func TestKeepAllRemoveAllToggleAll(t *testing.T) {
	planes := []*labels.Plane{blockPlane(9, 9, 1, 2, 2, 4, 4)}
	planes[0].Set(7, 7, 2)
	s, err := NewSession(planes, false)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	s.RemoveAll()
	if s.Kept(1) || s.Kept(2) {
		t.Error("RemoveAll left an object kept")
	}
	s.ToggleAll()
	if !s.Kept(1) || !s.Kept(2) {
		t.Error("ToggleAll did not invert the flags")
	}
	s.CommitGesture(GestureToggleKeep, geometry.Point2D{X: 3, Y: 3})
	s.KeepAll()
	if !s.Kept(1) || !s.Kept(2) {
		t.Error("KeepAll left an object discarded")
	}
}

func TestModeTransitions(t *testing.T) {
	s := newBlockSession(t)

	s.SetMode(ModeSplitPickSecond)
	if s.Mode() != ModeNormal {
		t.Error("split-pick-second must not be directly enterable")
	}

	s.SetMode(ModeRegionDelete)
	s.SetMode(ModeFreehandDraw)
	if s.Mode() != ModeRegionDelete {
		t.Error("mode changed without passing through normal")
	}

	s.CommitGesture(GestureEscape, geometry.Point2D{})
	if s.Mode() != ModeNormal {
		t.Error("escape did not return to normal mode")
	}
}

func TestEscapeAbandonsOpenChains(t *testing.T) {
	s := newBlockSession(t)
	orig := s.CurrentLabels()

	s.CommitGesture(GestureEditObject, geometry.Point2D{X: 3, Y: 3})
	s.Pick(geometry.Point2D{X: 2, Y: 2})
	s.Drag(geometry.Point2D{X: 0, Y: 0})
	s.Release(geometry.Point2D{X: 0, Y: 0})

	s.CommitGesture(GestureEscape, geometry.Point2D{})
	if len(s.CurrentChains()) != 0 {
		t.Error("escape left chains open")
	}
	if !sameLabels(s, orig) {
		t.Error("escape committed the abandoned edits")
	}
}

func TestReset(t *testing.T) {
	s := newBlockSession(t)
	orig := s.CurrentLabels()

	s.CommitGesture(GestureEditObject, geometry.Point2D{X: 3, Y: 3})
	s.SetMode(ModeRegionDelete)
	s.Pick(geometry.Point2D{X: 0, Y: 0})
	s.Drag(geometry.Point2D{X: 8.5, Y: 8.5})
	s.Release(geometry.Point2D{X: 8.5, Y: 8.5})
	if idAt(s, 3, 3) != 0 {
		t.Fatal("setup: region delete did not remove the object")
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if !sameLabels(s, orig) {
		t.Error("reset did not restore the construction-time raster")
	}
	if s.UndoDepth() != 0 {
		t.Error("reset kept the undo stack")
	}
	if err := s.Undo(); err != ErrEmptyUndoStack {
		t.Errorf("Undo after reset error = %v, want ErrEmptyUndoStack", err)
	}
}
