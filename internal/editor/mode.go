package editor

// Mode identifies the gesture state the session is in. Multi-step gestures
// (splitting, freehand drawing, region deletion) run as explicit modes so
// pointer events are unambiguous.
type Mode int

const (
	// ModeNormal handles point drags and single-shot gestures.
	ModeNormal Mode = iota
	// ModeSplitPickFirst waits for the first split anchor.
	ModeSplitPickFirst
	// ModeSplitPickSecond waits for the second split anchor. It is entered
	// only by picking the first anchor, never directly.
	ModeSplitPickSecond
	// ModeFreehandDraw collects a drawn polygon for a new object.
	ModeFreehandDraw
	// ModeRegionDelete drags out a rectangle whose control points are removed.
	ModeRegionDelete
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeSplitPickFirst:
		return "split-pick-first"
	case ModeSplitPickSecond:
		return "split-pick-second"
	case ModeFreehandDraw:
		return "freehand-draw"
	case ModeRegionDelete:
		return "region-delete"
	}
	return "unknown"
}

// transitions lists the mode changes SetMode may perform. Returning to
// normal is always allowed and cancels whatever the mode had in flight;
// everything else must start from normal. ModeSplitPickSecond is absent on
// purpose: only a successful first pick advances into it.
var transitions = map[Mode][]Mode{
	ModeNormal:          {ModeSplitPickFirst, ModeFreehandDraw, ModeRegionDelete},
	ModeSplitPickFirst:  {ModeNormal},
	ModeSplitPickSecond: {ModeNormal},
	ModeFreehandDraw:    {ModeNormal},
	ModeRegionDelete:    {ModeNormal},
}

func canTransition(from, to Mode) bool {
	for _, m := range transitions[from] {
		if m == to {
			return true
		}
	}
	return false
}
