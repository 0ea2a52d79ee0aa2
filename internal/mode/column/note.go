package column

import (
	"math"

	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/mode"
)

// Note is a column note; holds carry tick and head state.
type Note struct {
	mode.NoteState
	def   *game.NoteDef
	index int
	// deadline is how long after its time a note may still be hit.
	deadline float64

	ticks    []float64
	nextTick int
	ticksHit int

	// started is set once the head is judged or its window has passed.
	started   bool
	head      game.Judgement
	headDelta float64
	headHit   bool
	// grabbed is true while the column key holds this note.
	grabbed bool
}

func newNote(def *game.NoteDef, index int, deadline, tickInterval float64) *Note {
	n := &Note{def: def, index: index, deadline: deadline}
	if n.IsHold() && tickInterval > 0 {
		for t := def.Time + tickInterval; t < def.EndTime; t += tickInterval {
			n.ticks = append(n.ticks, t)
		}
	}
	return n
}

func (n *Note) Def() *game.NoteDef { return n.def }
func (n *Note) Time() float64      { return n.def.Time }
func (n *Note) Column() int        { return n.def.Column }
func (n *Note) IsHold() bool       { return n.def.Kind == game.Hold && n.def.EndTime > n.def.Time }
func (n *Note) Ticks() []float64   { return n.ticks }
func (n *Note) TicksHit() int      { return n.ticksHit }
func (n *Note) Started() bool      { return n.started }

func (n *Note) EndTime() float64 {
	if n.IsHold() {
		return n.def.EndTime
	}
	return n.def.Time
}

func (n *Note) Reset() {
	n.ResetState()
	n.nextTick = 0
	n.ticksHit = 0
	n.started = false
	n.head = game.Judgement{}
	n.headDelta = 0
	n.headHit = false
	n.grabbed = false
}

// Due is the next time the note changes on its own: the head deadline,
// the next tick or, once started, the hold end.
func (n *Note) Due() float64 {
	if n.WasHit() {
		return math.Inf(1)
	}
	if !n.IsHold() {
		return n.def.Time + n.deadline
	}
	due := math.Inf(1)
	if n.nextTick < len(n.ticks) {
		due = n.ticks[n.nextTick]
	}
	if n.started {
		return math.Min(due, n.def.EndTime)
	}
	return math.Min(due, n.def.Time+n.deadline)
}
