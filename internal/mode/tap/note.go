package tap

import (
	"math"
	"sort"

	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/mode"
)

// Note is a circle, slider or spinner.
type Note struct {
	mode.NoteState
	def      *game.NoteDef
	index    int
	deadline float64
	// checked is set once the relax helper has looked at the note.
	checked bool

	// sliders
	path     path
	spanDur  float64
	ticks    []float64
	nextTick int
	ticksHit int
	started  bool
	headMiss bool

	// spinners
	required  int
	angle     float64
	rotations int
}

func newNote(def *game.NoteDef, index int, deadline, tickInterval, spins float64) *Note {
	n := &Note{def: def, index: index, deadline: deadline}
	switch def.Kind {
	case game.Slider:
		pts := append([]game.Point{def.Pos}, def.Path...)
		n.path = newPath(pts)
		slides := max(def.Slides, 1)
		n.spanDur = def.Duration() / float64(slides)
		for i := 1; i < slides; i++ {
			n.ticks = append(n.ticks, def.Time+float64(i)*n.spanDur)
		}
		if tickInterval > 0 {
			for t := def.Time + tickInterval; t < def.EndTime; t += tickInterval {
				n.ticks = append(n.ticks, t)
			}
		}
		sort.Float64s(n.ticks)
		n.ticks = dedupe(n.ticks)
	case game.Spinner:
		n.required = max(1, int(math.Ceil(def.Duration()/1000*spins)))
	}
	return n
}

func dedupe(ts []float64) []float64 {
	out := ts[:0]
	for i, t := range ts {
		if i == 0 || t-out[len(out)-1] > 1 {
			out = append(out, t)
		}
	}
	return out
}

func (n *Note) Def() *game.NoteDef { return n.def }
func (n *Note) Time() float64      { return n.def.Time }
func (n *Note) IsCircle() bool     { return n.def.Kind != game.Slider && n.def.Kind != game.Spinner }
func (n *Note) IsSlider() bool     { return n.def.Kind == game.Slider }
func (n *Note) IsSpinner() bool    { return n.def.Kind == game.Spinner }
func (n *Note) Ticks() []float64   { return n.ticks }
func (n *Note) TicksHit() int      { return n.ticksHit }
func (n *Note) Rotations() int     { return n.rotations }
func (n *Note) Required() int      { return n.required }

func (n *Note) EndTime() float64 {
	if n.IsCircle() {
		return n.def.Time
	}
	return math.Max(n.def.Time, n.def.EndTime)
}

// BallAt is the slider ball position at t.
func (n *Note) BallAt(t float64) game.Point {
	if !n.IsSlider() || n.spanDur <= 0 {
		return n.def.Pos
	}
	p := (t - n.def.Time) / n.spanDur
	slides := max(n.def.Slides, 1)
	p = math.Max(0, math.Min(float64(slides), p))
	span := math.Floor(p)
	f := p - span
	if span >= float64(slides) {
		span, f = float64(slides-1), 1
	}
	if int(span)%2 == 1 {
		f = 1 - f
	}
	return n.path.at(f)
}

// EndPos is where the slider ball finishes.
func (n *Note) EndPos() game.Point {
	return n.BallAt(n.EndTime())
}

func (n *Note) Reset() {
	n.ResetState()
	n.checked = false
	n.nextTick = 0
	n.ticksHit = 0
	n.started = false
	n.headMiss = false
	n.angle = 0
	n.rotations = 0
}

func (n *Note) Due() float64 {
	if n.WasHit() {
		return math.Inf(1)
	}
	due := math.Inf(1)
	if !n.checked {
		due = n.def.Time
	}
	switch {
	case n.IsSpinner():
		return math.Min(due, n.EndTime())
	case n.IsSlider():
		if !n.started {
			due = math.Min(due, n.def.Time+n.deadline)
		}
		if n.nextTick < len(n.ticks) {
			due = math.Min(due, n.ticks[n.nextTick])
		}
		return math.Min(due, n.EndTime())
	}
	return math.Min(due, n.def.Time+n.deadline)
}
