package mode

import (
	"sort"

	"git.lost.host/meutraa/tempo/internal/replay"
)

// Autopilot plays back a precomputed plan of synthesized frames in step
// with the engine clock.
//
// Releases are held back until the end of the pass so that a press and a
// release in the same update are never read as an unheld note. A release
// still pending when the same key is pressed again is applied first.
type Autopilot struct {
	plan    []replay.Frame
	next    int
	pending []replay.Frame
}

// NewAutopilot sorts the plan by time, keeping the given order for equal
// times.
func NewAutopilot(plan []replay.Frame) *Autopilot {
	sort.SliceStable(plan, func(i, j int) bool {
		return plan[i].Time < plan[j].Time
	})
	return &Autopilot{plan: plan}
}

func (a *Autopilot) Plan() []replay.Frame {
	return a.plan
}

// Run applies every planned frame up to horizon through apply.
func (a *Autopilot) Run(horizon float64, st *UpdateState, apply func(replay.Frame)) {
	for a.next < len(a.plan) && a.plan[a.next].Time <= horizon {
		f := a.plan[a.next]
		a.next++
		switch f.Action.Kind {
		case replay.Release:
			a.pending = append(a.pending, f)
			continue
		case replay.Press:
			a.flushKey(f.Action.Key, st, apply)
		}
		apply(f)
		st.Record(f)
	}
	for _, f := range a.pending {
		st.Defer(f)
	}
	a.pending = a.pending[:0]
}

func (a *Autopilot) flushKey(k replay.Key, st *UpdateState, apply func(replay.Frame)) {
	kept := a.pending[:0]
	for _, f := range a.pending {
		if f.Action.Key == k {
			apply(f)
			st.Record(f)
			continue
		}
		kept = append(kept, f)
	}
	a.pending = kept
}

// Seek skips planned frames before t.
func (a *Autopilot) Seek(t float64) {
	a.pending = a.pending[:0]
	a.next = sort.Search(len(a.plan), func(i int) bool {
		return a.plan[i].Time >= t
	})
}

func (a *Autopilot) Reset() {
	a.next = 0
	a.pending = a.pending[:0]
}
