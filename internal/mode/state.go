package mode

import (
	"git.lost.host/meutraa/tempo/internal/config"
	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/replay"
)

// UpdateState is the context handed to an engine for one update. It
// collects everything the engine emits.
type UpdateState struct {
	// Time is the input horizon: engines advance notes up to and including
	// it, never past.
	Time     float64
	Mods     game.Mods
	Settings *config.Settings

	events   []Event
	recorded []replay.Frame
	deferred []replay.Frame
}

func NewUpdateState(t float64, mods game.Mods, settings *config.Settings) *UpdateState {
	return &UpdateState{Time: t, Mods: mods, Settings: settings}
}

func (st *UpdateState) Emit(e Event) {
	st.events = append(st.events, e)
}

// Judge emits a judgement for note i.
func (st *UpdateState) Judge(i int, j game.Judgement, t float64, pos game.Point) {
	st.Emit(Judged{Judgement: j, Note: i, Time: t, Pos: pos})
}

// JudgeTimed emits a judgement carrying the hit delta.
func (st *UpdateState) JudgeTimed(i int, j game.Judgement, t, delta float64, pos game.Point) {
	st.Emit(Judged{Judgement: j, Note: i, Time: t, Delta: delta, Timed: true, Pos: pos})
}

func (st *UpdateState) PlaySound(h game.Hitsound, pan, t float64) {
	st.Emit(Sound{Hitsound: h, Pan: pan, Time: t})
}

// Record notes a synthesized frame the engine has already applied.
func (st *UpdateState) Record(f replay.Frame) {
	st.recorded = append(st.recorded, f)
}

// Defer queues a synthesized frame to be applied after the update pass.
func (st *UpdateState) Defer(f replay.Frame) {
	st.deferred = append(st.deferred, f)
}

// Events returns and clears the emitted events.
func (st *UpdateState) Events() []Event {
	e := st.events
	st.events = nil
	return e
}

// Frames returns and clears the recorded and deferred frames.
func (st *UpdateState) Frames() (recorded, deferred []replay.Frame) {
	recorded, deferred = st.recorded, st.deferred
	st.recorded, st.deferred = nil, nil
	return recorded, deferred
}
