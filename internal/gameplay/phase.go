package gameplay

import (
	"context"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"

	"git.lost.host/meutraa/tempo/internal/action"
	"git.lost.host/meutraa/tempo/internal/spectator"
)

// Session phases. The variant (normal, replay, spectator...) is tracked
// separately; every variant moves through the same phases.
const (
	PhaseLeadIn    = "lead-in"
	PhasePlaying   = "playing"
	PhasePaused    = "paused"
	PhaseBuffering = "buffering"
	PhaseFailing   = "failing"
	PhaseComplete  = "complete"
)

const (
	evStart   = "start"
	evPause   = "pause"
	evStall   = "stall"
	evResume  = "resume"
	evFail    = "fail"
	evFinish  = "finish"
	evRestart = "restart"
)

func (m *Manager) newPhase() *fsm.FSM {
	return fsm.NewFSM(
		PhaseLeadIn,
		fsm.Events{
			{Name: evStart, Src: []string{PhaseLeadIn}, Dst: PhasePlaying},
			{Name: evPause, Src: []string{PhasePlaying}, Dst: PhasePaused},
			{Name: evStall, Src: []string{PhasePlaying}, Dst: PhaseBuffering},
			{Name: evResume, Src: []string{PhasePaused, PhaseBuffering}, Dst: PhasePlaying},
			{Name: evFail, Src: []string{PhasePlaying}, Dst: PhaseFailing},
			{Name: evFinish, Src: []string{PhaseLeadIn, PhasePlaying, PhasePaused, PhaseBuffering, PhaseFailing}, Dst: PhaseComplete},
			{Name: evRestart, Src: []string{PhasePlaying, PhasePaused, PhaseBuffering, PhaseFailing, PhaseComplete}, Dst: PhaseLeadIn},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				m.log.WithFields(logrus.Fields{"from": e.Src, "to": e.Dst, "time": m.time}).Debug("phase")
			},
			"enter_" + PhasePaused: func(context.Context, *fsm.Event) {
				m.queue.Song(action.SongPause, 0)
				m.broadcast(spectator.Simple(m.time, spectator.Pause))
			},
			"enter_" + PhaseBuffering: func(context.Context, *fsm.Event) {
				m.queue.Song(action.SongPause, 0)
			},
			"after_" + evResume: func(context.Context, *fsm.Event) {
				m.queue.Song(action.SongPlay, 0)
				m.broadcast(spectator.Simple(m.time, spectator.UnPause))
			},
		},
	)
}

// transition fires a phase event and reports whether the phase changed.
func (m *Manager) transition(event string) bool {
	if !m.phase.Can(event) {
		return false
	}
	if err := m.phase.Event(context.Background(), event); nil != err {
		m.log.WithError(err).WithField("event", event).Error("phase transition")
		return false
	}
	return true
}

func (m *Manager) is(phase string) bool {
	return m.phase.Is(phase)
}
