package mode

import (
	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/health"
)

// Event is emitted by an engine into the update state. Engines never touch
// score, combo or health themselves.
type Event interface {
	event()
}

// Judged is a judgement for a note. Minor judgements (ticks, spinner
// progress) never resolve a note.
type Judged struct {
	Judgement game.Judgement
	Note      int
	Time      float64
	// Delta is hit time minus note time, meaningful when Timed.
	Delta float64
	Timed bool
	Pos   game.Point
}

// Upgraded replaces an earlier judgement of the same note without counting
// a new one.
type Upgraded struct {
	Note     int
	From, To game.Judgement
	Time     float64
}

type Sound struct {
	Hitsound game.Hitsound
	Pan      float64
	Time     float64
}

// HealthSwap replaces the session health strategy.
type HealthSwap struct {
	Health health.Health
}

// Completed is emitted once when the chart end is passed.
type Completed struct {
	Time float64
}

func (Judged) event()     {}
func (Upgraded) event()   {}
func (Sound) event()      {}
func (HealthSwap) event() {}
func (Completed) event()  {}
