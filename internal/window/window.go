// Package window classifies hit timing deltas into judgements.
package window

import (
	"math"

	"git.lost.host/meutraa/tempo/internal/game"
)

// Range maps a difficulty value to a window half-width. The three values
// are the half-widths at difficulty 0, 5 and 10.
type Range struct {
	Min, Mid, Max float64
}

// Map interpolates a 0-10 difficulty value piecewise-linearly over
// the (0, min) (5, mid) (10, max) points.
func Map(diff, min, mid, max float64) float64 {
	switch {
	case diff > 5:
		return mid + (max-mid)*(diff-5)/5
	case diff < 5:
		return mid - (mid-min)*(5-diff)/5
	}
	return mid
}

func (r Range) At(diff float64) float64 {
	return Map(diff, r.Min, r.Mid, r.Max)
}

// Tier pairs a judgement with the range that produces it.
type Tier struct {
	Judgement game.Judgement
	Range     Range
}

type Window struct {
	Judgement game.Judgement
	Lo, Hi    float64
}

// Table holds half-open [lo, hi) windows on the absolute delta, tightest
// first, followed by the miss window ending at MissBoundary.
type Table struct {
	windows []Window
	miss    Window
}

// Build creates a table for a difficulty value. Tiers must be ordered from
// best to worst; the miss tier is the loosest boundary.
func Build(diff float64, tiers []Tier, miss Tier) *Table {
	t := &Table{}
	lo := 0.0
	for _, tier := range tiers {
		hi := math.Max(lo, tier.Range.At(diff))
		t.windows = append(t.windows, Window{Judgement: tier.Judgement, Lo: lo, Hi: hi})
		lo = hi
	}
	t.miss = Window{Judgement: miss.Judgement, Lo: lo, Hi: math.Max(lo, miss.Range.At(diff))}
	return t
}

// Classify returns the judgement for a hit delta (hit time - note time).
// Deltas outside every window return false: the note is not checkable.
// A delta on a boundary belongs to the looser window.
func (t *Table) Classify(delta float64) (game.Judgement, bool) {
	d := math.Abs(delta)
	for _, w := range t.windows {
		if d >= w.Lo && d < w.Hi {
			return w.Judgement, true
		}
	}
	if d >= t.miss.Lo && d < t.miss.Hi {
		return t.miss.Judgement, true
	}
	return game.Judgement{}, false
}

// Checkable reports whether a delta is inside the union of windows.
func (t *Table) Checkable(delta float64) bool {
	return math.Abs(delta) < t.miss.Hi
}

// MissBoundary is the half-width past which a note can no longer be hit.
func (t *Table) MissBoundary() float64 {
	return t.miss.Hi
}

// HitBoundary is the half-width of the loosest non-miss window.
func (t *Table) HitBoundary() float64 {
	if len(t.windows) == 0 {
		return 0
	}
	return t.windows[len(t.windows)-1].Hi
}

// Best is the tightest judgement.
func (t *Table) Best() game.Judgement {
	return t.windows[0].Judgement
}

func (t *Table) Miss() game.Judgement {
	return t.miss.Judgement
}

// Severity ranks a judgement, 0 being best. Judgements absent from the
// table rank past the miss window.
func (t *Table) Severity(j game.Judgement) int {
	for i, w := range t.windows {
		if w.Judgement == j {
			return i
		}
	}
	if j == t.miss.Judgement {
		return len(t.windows)
	}
	return len(t.windows) + 1
}

// Worse returns the more severe of two judgements.
func (t *Table) Worse(a, b game.Judgement) game.Judgement {
	if t.Severity(b) > t.Severity(a) {
		return b
	}
	return a
}

// Windows returns a copy of the hit windows including the miss window.
func (t *Table) Windows() []Window {
	ws := make([]Window, 0, len(t.windows)+1)
	ws = append(ws, t.windows...)
	return append(ws, t.miss)
}
