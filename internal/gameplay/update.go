package gameplay

import (
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"git.lost.host/meutraa/tempo/internal/action"
	"git.lost.host/meutraa/tempo/internal/config"
	"git.lost.host/meutraa/tempo/internal/mode"
	"git.lost.host/meutraa/tempo/internal/mode/tap"
	"git.lost.host/meutraa/tempo/internal/replay"
	"git.lost.host/meutraa/tempo/internal/score"
	"git.lost.host/meutraa/tempo/internal/spectator"
	"git.lost.host/meutraa/tempo/internal/timing"
)

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Update advances the session to the song position now (ms, as reported
// by the audio transport) and returns the actions the host must run, in
// order. settings may be nil to keep the previous ones.
func (m *Manager) Update(now float64, settings *config.Settings) []action.Action {
	if settings != nil {
		m.settings = settings
	}
	wall := m.clock()
	elapsed := 0.0
	if !m.lastTick.IsZero() {
		elapsed = millis(wall.Sub(m.lastTick))
	}
	m.lastTick = wall
	m.drainErrors()

	if m.jumpPending {
		m.jumpPending = false
		m.applyJump(m.jumpTarget)
	}
	if m.restartDown && millis(wall.Sub(m.restartSince)) >= m.settings.RestartDelay {
		m.Restart()
		m.lastTick = wall
		elapsed = 0
	}
	m.promotePause()

	switch m.phase.Current() {
	case PhaseComplete:
		return m.queue.Drain()
	case PhasePaused, PhaseBuffering:
		if _, ok := m.variant.(Spectating); ok {
			m.spectate()
		}
		return m.queue.Drain()
	case PhaseFailing:
		m.rampFail(wall)
		return m.queue.Drain()
	case PhaseLeadIn:
		if m.awaitPlay {
			m.spectate()
			return m.queue.Drain()
		}
		m.tickLeadIn(elapsed)
	default:
		m.time = math.Max(m.time, now+m.offset())
	}

	for _, ev := range m.timing.Update(m.time) {
		switch ev.Kind {
		case timing.Beat:
			m.beat = ev.Beat
		case timing.KiaiStart, timing.KiaiEnd:
			m.log.WithFields(logrus.Fields{"time": ev.Time, "kiai": ev.Kind == timing.KiaiStart}).Debug("kiai")
		}
	}
	m.prune()

	st := m.state(m.horizon(m.time))
	m.engine.Update(st)
	m.collect(st)
	m.overrideCursor()
	m.recompute()
	if m.settle(wall) {
		return m.queue.Drain()
	}

	m.intake()
	m.flush(m.time)
	m.recompute()
	m.settle(wall)
	return m.queue.Drain()
}

func (m *Manager) promotePause() {
	if m.pausePending && !m.chart.InBreak(m.time) {
		m.pausePending = false
		m.shouldPause = true
	}
	if m.shouldPause && m.is(PhasePlaying) {
		m.shouldPause = false
		m.transition(evPause)
	}
}

// tickLeadIn counts the lead-in down in song time and starts playback
// once it runs out.
func (m *Manager) tickLeadIn(elapsed float64) {
	m.leadIn -= elapsed * m.mods.Rate()
	if m.leadIn > 0 {
		m.time = m.startAt - m.leadIn
		return
	}
	m.leadIn = 0
	m.time = m.startAt
	m.queue.Song(action.SongSetRate, m.mods.Rate())
	m.queue.Song(action.SongSetVolume, m.settings.MusicVolume)
	m.queue.Song(action.SongSeek, math.Max(0, m.startAt-m.offset()))
	m.queue.Song(action.SongPlay, 0)
	m.transition(evStart)
	m.broadcast(spectator.PlayFrame(m.time, spectator.PlayInfo{
		ChartHash: m.chart.Hash,
		Mode:      m.chart.Mode,
		Mods:      m.mods,
		Speed:     m.mods.Rate(),
	}))
}

// rampFail slows the song to a stop, then completes the session.
func (m *Manager) rampFail(wall time.Time) {
	ramp := m.settings.FailRamp
	done := millis(wall.Sub(m.failStart))
	if ramp <= 0 || done >= ramp {
		m.queue.Song(action.SongPause, 0)
		m.finish()
		return
	}
	m.queue.Song(action.SongSetRate, m.mods.Rate()*(1-done/ramp))
}

// settle starts the fail ramp or completes the session. It reports
// whether the rest of the update should be skipped.
func (m *Manager) settle(wall time.Time) bool {
	if m.failed && m.transition(evFail) {
		m.failStart = wall
		m.log.WithField("time", m.time).Info("failed")
		return true
	}
	if m.is(PhaseFailing) {
		return true
	}
	if m.engine.Complete() && !m.completed {
		m.finish()
		return true
	}
	return false
}

func (m *Manager) finish() {
	if m.completed {
		return
	}
	m.completed = true
	m.transition(evFinish)
	if !m.failed && !m.failSuppressed() && m.health.Dead(true) {
		m.failed = true
	}
	m.recompute()
	final := m.score.Clone()
	var r *replay.Replay
	if m.replay != nil {
		s := final.Clone()
		m.replay.Score = &s
		r = m.replay
	}
	if _, ok := m.variant.(Multiplayer); ok {
		m.queue.Push(action.MultiplayerScore{Time: m.time, Score: final.Clone()})
	}
	m.flushBroadcast(true)
	m.queue.Push(action.Complete{Score: final, Replay: r, Failed: m.failed})
	m.log.WithFields(logrus.Fields{
		"score":    final.Score,
		"accuracy": final.Accuracy,
		"combo":    final.MaxCombo,
		"failed":   m.failed,
	}).Info("session complete")
}

func (m *Manager) state(t float64) *mode.UpdateState {
	return mode.NewUpdateState(t, m.engineMods(), m.settings)
}

// horizon limits how far the engine may advance: never past a frame that
// has not been applied yet, nor past what a spectated host has sent.
func (m *Manager) horizon(t float64) float64 {
	if len(m.pending) > 0 {
		t = math.Min(t, m.pending[0].Time)
	}
	if m.source != nil {
		if next, ok := m.source.Peek(); ok {
			t = math.Min(t, next)
		}
	}
	if _, ok := m.variant.(Spectating); ok {
		t = math.Min(t, m.latest)
	}
	return t
}

// flush applies pending frames up to t in time order.
func (m *Manager) flush(t float64) {
	n := 0
	for ; n < len(m.pending) && m.pending[n].Time <= t; n++ {
		f := m.pending[n]
		st := m.state(f.Time)
		m.engine.HandleReplayFrame(f, st)
		m.applied = f.Time
		if f.Action.Kind == replay.CursorMove {
			m.cursor = f.Action.Pos
		}
		// presses synthesized while advancing to f happened before it
		rec, def := st.Frames()
		for _, r := range rec {
			m.record(r)
		}
		m.record(f)
		for _, d := range def {
			m.engine.HandleReplayFrame(d, st)
			m.record(d)
		}
		m.collect(st)
	}
	m.pending = m.pending[n:]
}

// collect handles what one engine call emitted: deferred frames are
// applied after the pass, synthesized frames are recorded and events are
// applied in emission order.
func (m *Manager) collect(st *mode.UpdateState) {
	for {
		rec, def := st.Frames()
		if len(rec) == 0 && len(def) == 0 {
			break
		}
		for _, f := range def {
			m.engine.HandleReplayFrame(f, st)
		}
		frames := append(rec, def...)
		sort.SliceStable(frames, func(i, j int) bool { return frames[i].Time < frames[j].Time })
		for _, f := range frames {
			m.record(f)
		}
	}
	for _, ev := range st.Events() {
		m.apply(ev)
	}
}

// record appends a frame to the replay being recorded. A synthesized
// frame applied after a later live frame is stamped with that frame's
// time so the replay applies it in the same order.
func (m *Manager) record(f replay.Frame) {
	if m.replay == nil {
		return
	}
	if n := len(m.replay.Frames); n > 0 && f.Time < m.replay.LastTime() {
		f.Time = m.replay.LastTime()
	}
	if err := m.replay.Append(f); nil != err {
		m.log.WithError(err).WithField("frame", f.String()).Error("record frame")
		return
	}
	m.broadcast(spectator.ActionFrame(f))
}

func (m *Manager) overrideCursor() {
	e, ok := m.engine.(*tap.Engine)
	if !ok || m.live() {
		return
	}
	p := e.Cursor()
	if m.overridden != nil && *m.overridden == p {
		return
	}
	m.overridden = &p
	m.queue.Push(action.CursorOverride{Enabled: true, Pos: p})
}

func (m *Manager) recompute() {
	m.score.Accuracy = m.engine.Accuracy(&m.score)
	misses := m.score.Count(m.engine.Windows().Miss())
	m.score.Performance = score.Performance(m.score.Accuracy, m.score.MaxCombo, m.engine.MaxCombo(), misses, m.chart.StarRating)
}

func (m *Manager) prune() {
	kept := m.indicators[:0]
	for _, ind := range m.indicators {
		if m.time-ind.Time < indicatorLife {
			kept = append(kept, ind)
		}
	}
	m.indicators = kept

	errs := m.hitErrors[:0]
	for _, he := range m.hitErrors {
		if m.time-he.Time < hitErrorLife {
			errs = append(errs, he)
		}
	}
	m.hitErrors = errs
}
