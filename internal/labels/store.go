package labels

import (
	"errors"
	"sort"
)

// Construction errors.
var (
	// ErrShapeMismatch is returned when the initial planes differ in shape.
	ErrShapeMismatch = errors.New("labels: planes differ in dimensions")
	// ErrEmptyInput is returned when no initial plane contains a label.
	ErrEmptyInput = errors.New("labels: no plane contains any label")
)

// Triple is one labeled pixel in IJV form.
type Triple struct {
	Row, Col, ID int
}

// Store owns the label planes for one editing session. Identifiers are
// allocated in increasing order and never reused; overlapping objects are
// held apart on separate planes when overlap is allowed.
type Store struct {
	rows, cols   int
	planes       []*Plane
	nextID       int
	allowOverlap bool
}

// NewStore builds a store from the initial planes. The planes are cloned;
// the caller keeps its copies untouched.
func NewStore(planes []*Plane, allowOverlap bool) (*Store, error) {
	if len(planes) == 0 {
		return nil, ErrEmptyInput
	}
	rows, cols := planes[0].Rows(), planes[0].Cols()
	maxID := 0
	any := false
	for _, p := range planes {
		if p.Rows() != rows || p.Cols() != cols {
			return nil, ErrShapeMismatch
		}
		if m := p.MaxID(); m > 0 {
			any = true
			if m > maxID {
				maxID = m
			}
		}
	}
	if !any {
		return nil, ErrEmptyInput
	}
	s := &Store{
		rows:         rows,
		cols:         cols,
		planes:       make([]*Plane, len(planes)),
		nextID:       maxID + 1,
		allowOverlap: allowOverlap,
	}
	for i, p := range planes {
		s.planes[i] = p.Clone()
	}
	return s, nil
}

// Rows returns the raster height.
func (s *Store) Rows() int { return s.rows }

// Cols returns the raster width.
func (s *Store) Cols() int { return s.cols }

// OverlapAllowed reports whether objects may share pixels across planes.
func (s *Store) OverlapAllowed() bool { return s.allowOverlap }

// NextID returns the id the next AllocateObject call will hand out.
func (s *Store) NextID() int { return s.nextID }

// AllocateObject reserves and returns a fresh object identifier.
func (s *Store) AllocateObject() int {
	id := s.nextID
	s.nextID++
	return id
}

// Planes returns deep copies of the current planes.
func (s *Store) Planes() []*Plane {
	out := make([]*Plane, len(s.planes))
	for i, p := range s.planes {
		out[i] = p.Clone()
	}
	return out
}

// Contains reports whether any pixel carries the given id.
func (s *Store) Contains(id int) bool {
	for _, p := range s.planes {
		for _, v := range p.data {
			if v == id {
				return true
			}
		}
	}
	return false
}

// ObjectMask returns the row-major union mask of id across all planes.
func (s *Store) ObjectMask(id int) []bool {
	mask := make([]bool, s.rows*s.cols)
	for _, p := range s.planes {
		for i, v := range p.data {
			if v == id {
				mask[i] = true
			}
		}
	}
	return mask
}

// RemoveObject clears id from every plane.
func (s *Store) RemoveObject(id int) {
	for _, p := range s.planes {
		p.ClearID(id)
	}
}

// SetPixels stamps id into the given plane wherever mask is set. The mask
// is row-major with the store's shape.
func (s *Store) SetPixels(plane int, mask []bool, id int) {
	p := s.planes[plane]
	for i, set := range mask {
		if set {
			p.data[i] = id
		}
	}
}

// ReplaceObject clears id everywhere, stamps mask as its new footprint on
// a fresh plane, and restructures so the plane set is consistent again.
func (s *Store) ReplaceObject(id int, mask []bool) {
	s.RemoveObject(id)
	p := NewPlane(s.rows, s.cols)
	for i, set := range mask {
		if set {
			p.data[i] = id
		}
	}
	s.planes = append(s.planes, p)
	s.Restructure()
}

// AddObject allocates a new id, stamps mask as its footprint, and
// restructures. Returns the new id.
func (s *Store) AddObject(mask []bool) int {
	id := s.AllocateObject()
	p := NewPlane(s.rows, s.cols)
	for i, set := range mask {
		if set {
			p.data[i] = id
		}
	}
	s.planes = append(s.planes, p)
	s.Restructure()
	return id
}

// Flatten returns one Triple per labeled pixel across all planes, ordered
// by row, then column, then id. The ordering is deterministic so raster
// diffs are reproducible.
func (s *Store) Flatten() []Triple {
	var out []Triple
	for r := 0; r < s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			i := r*s.cols + c
			for _, p := range s.planes {
				if v := p.data[i]; v != 0 {
					out = append(out, Triple{Row: r, Col: c, ID: v})
				}
			}
		}
	}
	return out
}

// SetFromTriples rebuilds the plane set from an IJV pixel list. Each object
// is placed whole into the first plane where none of its pixels is already
// claimed; objects are placed in ascending id order so the layout, and with
// it Flatten's ordering, is deterministic.
//
// Shared pixels are always absorbed by spilling onto further planes. Even
// with overlap disabled, splitting an object leaves the cut-line pixels in
// both children; the overlap flag gates drag validation, not storage.
func (s *Store) SetFromTriples(ijv []Triple) {
	byID := make(map[int][]int)
	for _, t := range ijv {
		i := t.Row*s.cols + t.Col
		byID[t.ID] = append(byID[t.ID], i)
	}
	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	planes := []*Plane{NewPlane(s.rows, s.cols)}
	for _, id := range ids {
		pixels := byID[id]
		placed := false
		for _, p := range planes {
			free := true
			for _, i := range pixels {
				if p.data[i] != 0 {
					free = false
					break
				}
			}
			if free {
				for _, i := range pixels {
					p.data[i] = id
				}
				placed = true
				break
			}
		}
		if !placed {
			p := NewPlane(s.rows, s.cols)
			for _, i := range pixels {
				p.data[i] = id
			}
			planes = append(planes, p)
		}
	}
	s.planes = planes
}

// Restructure flattens the planes and rebuilds them, resolving the plane
// layout after edits have stamped or cleared objects in place.
func (s *Store) Restructure() {
	s.SetFromTriples(s.Flatten())
}
