package mode

import "math"

// Scheduled is a note that ticks or resolves on its own as time passes.
// Due is the time of its next such event, +Inf when there is none.
type Scheduled interface {
	Note
	Due() float64
}

// NextDue returns the note with the earliest due time not after t. Notes
// are time ordered, so the scan stops at the first note starting after t.
// Ties go to the earlier note.
func NextDue[N Scheduled](notes []N, first int, t float64) (int, bool) {
	best, at := -1, math.Inf(1)
	for i := first; i < len(notes) && notes[i].Time() <= t; i++ {
		if d := notes[i].Due(); d <= t && d < at {
			best, at = i, d
		}
	}
	return best, best >= 0
}

// FirstUnresolved moves first past resolved notes.
func FirstUnresolved[N Note](notes []N, first int) int {
	for first < len(notes) && notes[first].WasHit() {
		first++
	}
	return first
}

// SkipBefore resets every note and silently resolves those starting
// before t. It returns the new first unresolved index.
func SkipBefore[N interface {
	Note
	Skip()
}](notes []N, t float64) int {
	for _, n := range notes {
		n.Reset()
		if n.Time() < t {
			n.Skip()
		}
	}
	return FirstUnresolved(notes, 0)
}
