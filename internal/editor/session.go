package editor

import (
	"errors"
	"math"

	"object-editor/internal/contour"
	"object-editor/internal/labels"
	"object-editor/internal/raster"
	"object-editor/pkg/geometry"
)

// Session errors. Interactive gestures that merely fail to hit anything are
// silent no-ops; errors are reserved for misuse of the session itself.
var (
	// ErrEmptyUndoStack is returned by Undo when nothing can be undone.
	ErrEmptyUndoStack = errors.New("editor: undo stack is empty")
	// ErrUnknownObject is returned when an operation names an id that is not
	// in the raster.
	ErrUnknownObject = errors.New("editor: unknown object id")
	// ErrAlreadyFinalized is returned by every command after Finalize.
	ErrAlreadyFinalized = errors.New("editor: session already finalized")
)

// Gesture is a single-shot pointer command dispatched through CommitGesture.
type Gesture int

const (
	// GestureEditObject opens an object for editing, or closes the open
	// chains of the object whose outline contains the point.
	GestureEditObject Gesture = iota
	// GestureToggleKeep flips the keep flag of the object under the point.
	GestureToggleKeep
	// GestureAddPoint inserts a control point on the nearest chain edge.
	GestureAddPoint
	// GestureDeletePoint removes the control point under the point.
	GestureDeletePoint
	// GestureNewObject starts a fresh circular object at the point.
	GestureNewObject
	// GestureEscape cancels the current mode, or in normal mode abandons
	// all open chains without committing them.
	GestureEscape
)

// hitRadius is the pick distance, in pixels, for control points and edges.
const hitRadius = 5.0

// Session is one interactive editing session over a label raster. All
// methods must be called from a single goroutine; the session carries the
// gesture state machine and is not safe for concurrent use.
type Session struct {
	store *labels.Store
	orig  []*labels.Plane

	// keep is indexed by object id; index 0 is unused. Objects allocated
	// during the session extend it with true.
	keep []bool

	chains []*Chain
	mode   Mode

	// drag state
	activeChain *Chain
	activeIndex int

	// split state
	splitChain *Chain
	splitIndex int

	// freehand state
	drawing    bool
	drawPoints []geometry.Point2D

	// region delete state
	deleteAnchor *geometry.Point2D
	deleteRect   geometry.Rect

	// undo state: the IJV snapshot and chain snapshot taken at the last
	// commit point, against which the next edit is diffed.
	undoStack []undoEntry
	lastIJV   []labels.Triple
	lastChain []*Chain

	simplifyArea float64
	finalized    bool
}

// NewSession starts an editing session from the given planes. The planes
// are copied; allowOverlap controls whether distinct objects may share
// pixels and with it how strictly drags are validated.
func NewSession(planes []*labels.Plane, allowOverlap bool) (*Session, error) {
	store, err := labels.NewStore(planes, allowOverlap)
	if err != nil {
		return nil, err
	}
	s := &Session{
		store:        store,
		orig:         make([]*labels.Plane, len(planes)),
		keep:         make([]bool, store.NextID()),
		lastIJV:      store.Flatten(),
		simplifyArea: contour.DefaultSimplifyArea,
	}
	for i, p := range planes {
		s.orig[i] = p.Clone()
	}
	for i := 1; i < len(s.keep); i++ {
		s.keep[i] = true
	}
	return s, nil
}

// Mode returns the current gesture mode.
func (s *Session) Mode() Mode { return s.mode }

// SetMode requests a mode change. Disallowed transitions are ignored;
// returning to normal cancels any gesture in flight.
func (s *Session) SetMode(m Mode) error {
	if s.finalized {
		return ErrAlreadyFinalized
	}
	if m == s.mode || !canTransition(s.mode, m) {
		return nil
	}
	if m == ModeNormal {
		s.cancelGesture()
	}
	s.mode = m
	return nil
}

// cancelGesture drops all in-flight gesture state and returns to normal.
func (s *Session) cancelGesture() {
	s.activeChain = nil
	s.splitChain = nil
	s.drawing = false
	s.drawPoints = nil
	s.deleteAnchor = nil
	s.deleteRect = geometry.Rect{}
	s.mode = ModeNormal
}

// Pick handles a pointer press at the given image position.
func (s *Session) Pick(pt geometry.Point2D) error {
	if s.finalized {
		return ErrAlreadyFinalized
	}
	switch s.mode {
	case ModeNormal:
		if chain, idx := s.findControlPoint(pt); chain != nil {
			s.activeChain = chain
			s.activeIndex = idx
		}
	case ModeSplitPickFirst:
		if chain, idx := s.findControlPoint(pt); chain != nil {
			s.splitChain = chain
			s.splitIndex = idx
			s.mode = ModeSplitPickSecond
		}
	case ModeSplitPickSecond:
		if chain, idx := s.findControlPoint(pt); chain != nil {
			first, firstIdx := s.splitChain, s.splitIndex
			s.splitChain = nil
			s.mode = ModeNormal
			if okToSplit(first, firstIdx, chain, idx) {
				s.performSplit(first, firstIdx, chain, idx)
			}
		}
	case ModeFreehandDraw:
		s.drawing = true
		s.drawPoints = []geometry.Point2D{s.clamp(pt)}
	case ModeRegionDelete:
		p := pt
		s.deleteAnchor = &p
		s.deleteRect = geometry.RectFromCorners(p, p)
	}
	return nil
}

// Drag handles pointer motion with the button held.
func (s *Session) Drag(pt geometry.Point2D) error {
	if s.finalized {
		return ErrAlreadyFinalized
	}
	switch s.mode {
	case ModeNormal:
		if s.activeChain != nil {
			s.moveActivePoint(pt)
		}
	case ModeFreehandDraw:
		if s.drawing {
			s.drawPoints = append(s.drawPoints, s.clamp(pt))
		}
	case ModeRegionDelete:
		if s.deleteAnchor != nil {
			s.deleteRect = geometry.RectFromCorners(*s.deleteAnchor, pt)
		}
	}
	return nil
}

// Release handles the pointer release that ends a press-drag gesture.
func (s *Session) Release(pt geometry.Point2D) error {
	if s.finalized {
		return ErrAlreadyFinalized
	}
	switch s.mode {
	case ModeNormal:
		s.activeChain = nil
	case ModeFreehandDraw:
		if s.drawing {
			s.drawPoints = append(s.drawPoints, s.clamp(pt))
			s.finishFreehand()
		}
	case ModeRegionDelete:
		if s.deleteAnchor != nil {
			s.deleteRect = geometry.RectFromCorners(*s.deleteAnchor, pt)
			s.applyRegionDelete(s.deleteRect)
			s.deleteAnchor = nil
			s.mode = ModeNormal
		}
	}
	return nil
}

// CommitGesture dispatches a single-shot gesture at the given position.
func (s *Session) CommitGesture(g Gesture, pt geometry.Point2D) error {
	if s.finalized {
		return ErrAlreadyFinalized
	}
	switch g {
	case GestureEscape:
		if s.mode == ModeNormal {
			// Abandon every open chain without committing its edits.
			if len(s.chains) > 0 {
				s.chains = nil
			}
		} else {
			s.cancelGesture()
		}
	case GestureEditObject:
		s.editObjectAt(pt)
	case GestureToggleKeep:
		if id := s.objectAt(pt); id != 0 {
			s.ensureKeep(id)
			s.keep[id] = !s.keep[id]
		}
	case GestureAddPoint:
		s.addPointAt(pt)
	case GestureDeletePoint:
		s.deletePointAt(pt)
	case GestureNewObject:
		s.newObjectAt(pt)
	}
	return nil
}

// editObjectAt closes the open object whose outline contains pt, or opens
// the object under pt for editing.
func (s *Session) editObjectAt(pt geometry.Point2D) {
	for _, c := range s.chains {
		if c.Outside && geometry.PointInPolygon(pt, c.Points[:len(c.Points)-1]) {
			s.closeObject(c.Object)
			s.recordUndo()
			return
		}
	}
	if id := s.objectAt(pt); id != 0 && !s.objectOpen(id) {
		s.makeControlPoints(id)
	}
}

// makeControlPoints extracts and simplifies the boundary chains of id and
// adds them to the open chain set.
func (s *Session) makeControlPoints(id int) {
	mask := s.store.ObjectMask(id)
	for _, ch := range contour.ExtractObject(mask, s.store.Rows(), s.store.Cols()) {
		pts := contour.Simplify(ch.Points, s.simplifyArea)
		s.chains = append(s.chains, &Chain{
			Points:  pts,
			Object:  id,
			Outside: ch.Outside,
		})
	}
}

// closeObject removes the open chains of id, re-rasterizing the object from
// them first when any chain was edited.
func (s *Session) closeObject(id int) {
	var kept []*Chain
	var own [][]geometry.Point2D
	edited := false
	for _, c := range s.chains {
		if c.Object != id {
			kept = append(kept, c)
			continue
		}
		own = append(own, c.Points)
		if c.Edited {
			edited = true
		}
	}
	s.chains = kept
	if !edited {
		return
	}
	mask := raster.ChainsToMask(own, s.store.Rows(), s.store.Cols())
	s.store.ReplaceObject(id, mask)
}

// objectOpen reports whether id already has open chains.
func (s *Session) objectOpen(id int) bool {
	for _, c := range s.chains {
		if c.Object == id {
			return true
		}
	}
	return false
}

// objectAt returns the id under the pixel containing pt, or zero. With
// overlapping objects the lowest-indexed plane wins.
func (s *Session) objectAt(pt geometry.Point2D) int {
	r := int(math.Round(pt.Y))
	c := int(math.Round(pt.X))
	if r < 0 || r >= s.store.Rows() || c < 0 || c >= s.store.Cols() {
		return 0
	}
	for _, p := range s.store.Planes() {
		if id := p.Get(r, c); id != 0 {
			return id
		}
	}
	return 0
}

// findControlPoint returns the chain and point index closest to pt within
// the hit radius. The closing duplicate is never returned.
func (s *Session) findControlPoint(pt geometry.Point2D) (*Chain, int) {
	best := hitRadius * hitRadius
	var bestChain *Chain
	bestIdx := -1
	for _, c := range s.chains {
		for i := 0; i < c.NumPoints(); i++ {
			dx := c.Points[i].X - pt.X
			dy := c.Points[i].Y - pt.Y
			if d := dx*dx + dy*dy; d <= best {
				best = d
				bestChain = c
				bestIdx = i
			}
		}
	}
	return bestChain, bestIdx
}

// clamp confines a point to the raster.
func (s *Session) clamp(pt geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: math.Max(0, math.Min(float64(s.store.Cols()-1), pt.X)),
		Y: math.Max(0, math.Min(float64(s.store.Rows()-1), pt.Y)),
	}
}

// ensureKeep grows the keep slice to cover id, defaulting new entries to
// kept.
func (s *Session) ensureKeep(id int) {
	for len(s.keep) <= id {
		s.keep = append(s.keep, true)
	}
}

// Kept reports the keep flag of id.
func (s *Session) Kept(id int) bool {
	if id <= 0 || id >= len(s.keep) {
		return false
	}
	return s.keep[id]
}

// KeepAll marks every object as kept.
func (s *Session) KeepAll() error {
	return s.setAllKeep(func(bool) bool { return true })
}

// RemoveAll marks every object as discarded.
func (s *Session) RemoveAll() error {
	return s.setAllKeep(func(bool) bool { return false })
}

// ToggleAll inverts every keep flag.
func (s *Session) ToggleAll() error {
	return s.setAllKeep(func(k bool) bool { return !k })
}

func (s *Session) setAllKeep(f func(bool) bool) error {
	if s.finalized {
		return ErrAlreadyFinalized
	}
	for i := 1; i < len(s.keep); i++ {
		s.keep[i] = f(s.keep[i])
	}
	return nil
}

// Reset restores the session to its construction-time raster, drops all
// open chains, and discards the undo stack.
func (s *Session) Reset() error {
	if s.finalized {
		return ErrAlreadyFinalized
	}
	store, err := labels.NewStore(s.orig, s.store.OverlapAllowed())
	if err != nil {
		return err
	}
	s.store = store
	s.keep = make([]bool, store.NextID())
	for i := 1; i < len(s.keep); i++ {
		s.keep[i] = true
	}
	s.chains = nil
	s.undoStack = nil
	s.lastIJV = store.Flatten()
	s.lastChain = nil
	s.cancelGesture()
	return nil
}

// CurrentChains returns deep copies of the open chains.
func (s *Session) CurrentChains() []*Chain {
	return cloneChains(s.chains)
}

// ActiveRegion returns the rectangle dragged out so far in region-delete
// mode.
func (s *Session) ActiveRegion() (geometry.Rect, bool) {
	if s.mode != ModeRegionDelete || s.deleteAnchor == nil {
		return geometry.Rect{}, false
	}
	return s.deleteRect, true
}

// DrawnPath returns a copy of the freehand path collected so far.
func (s *Session) DrawnPath() []geometry.Point2D {
	if !s.drawing {
		return nil
	}
	return append([]geometry.Point2D(nil), s.drawPoints...)
}

// CurrentLabels returns deep copies of the current label planes, including
// objects whose keep flag is off.
func (s *Session) CurrentLabels() []*labels.Plane {
	return s.store.Planes()
}

// Finalize commits every open chain, removes discarded objects, and returns
// the resulting planes. The session rejects all further commands.
func (s *Session) Finalize() ([]*labels.Plane, error) {
	if s.finalized {
		return nil, ErrAlreadyFinalized
	}
	seen := map[int]bool{}
	for _, c := range s.chains {
		seen[c.Object] = true
	}
	for id := range seen {
		s.closeObject(id)
	}
	for id := 1; id < len(s.keep); id++ {
		if !s.keep[id] {
			s.store.RemoveObject(id)
		}
	}
	s.store.Restructure()
	s.finalized = true
	return s.store.Planes(), nil
}
