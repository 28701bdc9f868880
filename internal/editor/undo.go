package editor

import (
	"sort"

	"object-editor/internal/labels"
)

// taggedTriple is an IJV pixel stamped with the epoch it belongs to: 0 for
// the state after an edit, 1 for the state before it.
type taggedTriple struct {
	labels.Triple
	epoch int
}

// undoEntry reverses one committed edit: the symmetric IJV difference
// between the rasters after and before it, and the open chains as they
// stood before it.
type undoEntry struct {
	diff   []taggedTriple
	chains []*Chain
}

// recordUndo snapshots the raster and chain state after a committed edit.
// The raster is stored as a diff against the previous commit point, so the
// stack grows with the size of each edit, not the size of the raster.
func (s *Session) recordUndo() {
	cur := s.store.Flatten()
	diff := cancelPairs(tagIJV(cur, 0, s.lastIJV, 1))
	s.undoStack = append(s.undoStack, undoEntry{diff: diff, chains: s.lastChain})
	s.lastIJV = cur
	s.lastChain = cloneChains(s.chains)
}

// Undo reverses the most recent committed edit. Applying the stored diff to
// the current raster cancels the pixels the edit touched and reinstates the
// ones it removed; the chain snapshot restores the open chains verbatim,
// uncommitted point moves included.
func (s *Session) Undo() error {
	if s.finalized {
		return ErrAlreadyFinalized
	}
	if len(s.undoStack) == 0 {
		return ErrEmptyUndoStack
	}
	entry := s.undoStack[len(s.undoStack)-1]
	s.undoStack = s.undoStack[:len(s.undoStack)-1]

	merged := make([]taggedTriple, 0, len(entry.diff)+len(s.lastIJV))
	merged = append(merged, entry.diff...)
	for _, t := range s.lastIJV {
		merged = append(merged, taggedTriple{Triple: t, epoch: 1})
	}
	prior := stripEpochs(cancelPairs(merged))

	s.store.SetFromTriples(prior)
	s.lastIJV = prior
	s.chains = cloneChains(entry.chains)
	s.lastChain = entry.chains
	s.cancelGesture()
	return nil
}

// UndoDepth returns the number of edits that can be undone.
func (s *Session) UndoDepth() int { return len(s.undoStack) }

// tagIJV merges two IJV lists under their epoch tags.
func tagIJV(a []labels.Triple, epochA int, b []labels.Triple, epochB int) []taggedTriple {
	out := make([]taggedTriple, 0, len(a)+len(b))
	for _, t := range a {
		out = append(out, taggedTriple{Triple: t, epoch: epochA})
	}
	for _, t := range b {
		out = append(out, taggedTriple{Triple: t, epoch: epochB})
	}
	return out
}

// cancelPairs sorts the tagged pixels and cancels every pixel present in
// both epochs, leaving the symmetric difference. A pixel surviving with
// epoch 0 was added by the edit; epoch 1 means it was removed.
func cancelPairs(ts []taggedTriple) []taggedTriple {
	sort.Slice(ts, func(i, j int) bool {
		a, b := ts[i], ts[j]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		if a.Col != b.Col {
			return a.Col < b.Col
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.epoch < b.epoch
	})
	var out []taggedTriple
	for i := 0; i < len(ts); {
		j := i + 1
		for j < len(ts) && ts[j].Triple == ts[i].Triple {
			j++
		}
		if j-i == 1 {
			out = append(out, ts[i])
		}
		i = j
	}
	return out
}

// stripEpochs drops the epoch tags.
func stripEpochs(ts []taggedTriple) []labels.Triple {
	out := make([]labels.Triple, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Triple)
	}
	return out
}
