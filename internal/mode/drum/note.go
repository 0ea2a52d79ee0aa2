package drum

import (
	"math"

	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/mode"
)

type Kind uint8

const (
	Don Kind = iota
	Kat
	Roll
	DenDen
)

// Note is a drum note. Rolls count presses while active, denden notes
// count alternating presses up to a required number.
type Note struct {
	mode.NoteState
	def      *game.NoteDef
	index    int
	kind     Kind
	big      bool
	deadline float64

	hits     int
	required int
	lastSide Kind
}

func newNote(def *game.NoteDef, index int, deadline float64, od float64) *Note {
	n := &Note{def: def, index: index, deadline: deadline}
	switch def.Kind {
	case game.Slider, game.Hold:
		n.kind = Roll
	case game.Spinner:
		n.kind = DenDen
		rate := 3 + od*0.45
		n.required = max(1, int(def.Duration()/1000*rate))
	default:
		if def.Hitsound.Whistle || def.Hitsound.Clap {
			n.kind = Kat
		}
		n.big = def.Hitsound.Finish
	}
	return n
}

func (n *Note) Def() *game.NoteDef { return n.def }
func (n *Note) Time() float64      { return n.def.Time }
func (n *Note) Kind() Kind         { return n.kind }
func (n *Note) Big() bool          { return n.big }
func (n *Note) Required() int      { return n.required }
func (n *Note) Hits() int          { return n.hits }

// IsHitObject reports a don or kat.
func (n *Note) IsHitObject() bool {
	return n.kind == Don || n.kind == Kat
}

func (n *Note) EndTime() float64 {
	if n.IsHitObject() {
		return n.def.Time
	}
	return math.Max(n.def.Time, n.def.EndTime)
}

func (n *Note) Reset() {
	n.ResetState()
	n.hits = 0
	n.lastSide = 0
}

func (n *Note) Due() float64 {
	if n.WasHit() {
		return math.Inf(1)
	}
	if n.IsHitObject() {
		return n.def.Time + n.deadline
	}
	return n.EndTime()
}
