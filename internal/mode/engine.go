// Package mode defines the contract every gameplay mode implements.
package mode

import (
	"git.lost.host/meutraa/tempo/internal/config"
	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/render"
	"git.lost.host/meutraa/tempo/internal/replay"
	"git.lost.host/meutraa/tempo/internal/score"
	"git.lost.host/meutraa/tempo/internal/timing"
	"git.lost.host/meutraa/tempo/internal/window"
)

// Engine owns the notes of one chart and turns replay frames into
// judgements. Everything it produces goes through the UpdateState.
type Engine interface {
	Name() string
	Windows() *window.Table

	// KeyFor maps a raw key to a logical key for this mode.
	KeyFor(r rune, s *config.Settings) (replay.Key, bool)

	// Update advances notes up to st.Time: autoplay synthesis, misses,
	// ticks and the chart end.
	Update(st *UpdateState)
	// HandleReplayFrame advances to the frame time and applies the frame.
	HandleReplayFrame(f replay.Frame, st *UpdateState)

	Reset()
	// JumpTo resets notes and silently skips those before t.
	JumpTo(t float64)
	Complete() bool
	EndTime() float64

	HealthDelta(j game.Judgement) float64
	Accuracy(s *score.Score) float64
	// MaxCombo is the combo of a full combo play.
	MaxCombo() int
	Notes() []Note

	Draw(s Snapshot) []render.Primitive
}

// Snapshot is the read only state handed to Draw.
type Snapshot struct {
	Time        float64
	Mods        game.Mods
	Timing      timing.Point
	Kiai        bool
	Score       score.Score
	Health      float64
	ScrollSpeed float64
}
