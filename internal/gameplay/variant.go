package gameplay

import (
	"math"

	"github.com/sirupsen/logrus"

	"git.lost.host/meutraa/tempo/internal/action"
	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/replay"
	"git.lost.host/meutraa/tempo/internal/spectator"
)

// Variant selects where a session's input comes from. Exactly one is
// active; SetMode switches between them.
type Variant interface {
	variant()
}

// Normal takes live input.
type Normal struct{}

// Preview plays the chart by itself and can never fail.
type Preview struct{}

// Replaying plays back a recorded replay.
type Replaying struct {
	Replay *replay.Replay
}

// Spectating follows a host through frames pushed into Inbox.
type Spectating struct {
	Inbox *spectator.Inbox
}

// Multiplayer takes live input and reports the score periodically.
type Multiplayer struct{}

func (Normal) variant()      {}
func (Preview) variant()     {}
func (Replaying) variant()   {}
func (Spectating) variant()  {}
func (Multiplayer) variant() {}

// SetMode switches variant and restarts the session.
func (m *Manager) SetMode(v Variant) {
	m.variant = v
	m.mods = m.options.Mods
	m.username = m.options.Username
	if m.username == "" {
		m.username = m.settings.Username
	}
	m.source, m.inbox, m.awaitPlay = nil, nil, false

	switch v := v.(type) {
	case Replaying:
		m.mods = v.Replay.Mods
		m.username = v.Replay.Username
		if v.Replay.Score != nil && v.Replay.Score.Username != "" {
			m.username = v.Replay.Score.Username
		}
		m.source = replay.NewCursor(v.Replay)
	case Spectating:
		m.inbox = v.Inbox
		m.awaitPlay = true
	}
	m.rebuild()
	m.log.WithField("variant", variantName(v)).Info("mode")
	m.Restart()
}

// rebuild recreates the engine when difficulty mods changed.
func (m *Manager) rebuild() {
	e, err := NewEngine(m.chart, m.mods)
	if nil != err {
		m.log.WithError(err).Error("rebuild engine")
		return
	}
	m.engine = e
}

func variantName(v Variant) string {
	switch v.(type) {
	case Preview:
		return "preview"
	case Replaying:
		return "replaying"
	case Spectating:
		return "spectating"
	case Multiplayer:
		return "multiplayer"
	}
	return "normal"
}

// live sessions take human input.
func (m *Manager) live() bool {
	switch m.variant.(type) {
	case Normal, Multiplayer:
		return !m.mods.Autoplay
	}
	return false
}

func (m *Manager) recording() bool {
	switch m.variant.(type) {
	case Normal, Multiplayer:
		return true
	}
	return false
}

// engineMods are the mods engines see. Recorded input already holds
// whatever autoplay or relax synthesized, so playback turns them off.
func (m *Manager) engineMods() game.Mods {
	mods := m.mods
	switch m.variant.(type) {
	case Replaying, Spectating:
		mods.Autoplay, mods.Relax = false, false
	case Preview:
		mods.Autoplay = true
	}
	return mods
}

// intake runs the variant specific part of an update.
func (m *Manager) intake() {
	switch m.variant.(type) {
	case Replaying:
		m.pending = append(m.pending, m.source.Until(m.time)...)
	case Spectating:
		m.spectate()
	case Multiplayer:
		interval := m.settings.Multiplayer.ScoreInterval
		if interval > 0 && m.time >= m.nextScoreSync {
			m.queue.Push(action.MultiplayerScore{Time: m.time, Score: m.score.Clone()})
			for m.nextScoreSync <= m.time {
				m.nextScoreSync += interval
			}
		}
	}
	m.flushBroadcast(false)
}

// spectate drains the inbox and keeps playback behind the host.
func (m *Manager) spectate() {
	if m.inbox.Overflowed() {
		m.log.Warn("spectator frames dropped")
		m.queue.Notify(action.Warn, "spectator frames dropped")
	}
	for _, f := range m.inbox.Drain() {
		m.receive(f)
	}
	if m.awaitPlay || m.completed {
		return
	}

	cfg := m.settings.Spectator
	switch {
	case m.is(PhasePlaying) && m.time > m.latest:
		m.log.WithFields(logrus.Fields{"time": m.time, "latest": m.latest}).Debug("spectator starved")
		m.transition(evStall)
	case m.is(PhaseBuffering) && m.latest >= m.time+cfg.BufferAhead:
		m.lastTick = m.clock()
		m.transition(evResume)
	case m.is(PhasePlaying) && cfg.CatchUp > 0 && m.latest-m.time > cfg.CatchUp:
		m.catchUp(m.latest - cfg.BufferAhead)
	}
}

// receive applies one host frame.
func (m *Manager) receive(f spectator.Frame) {
	switch f.Kind {
	case spectator.Play:
		if f.Play == nil {
			return
		}
		if f.Play.ChartHash != m.chart.Hash {
			m.log.WithField("host_chart", shortHash(f.Play.ChartHash)).Warn("spectated chart differs")
			m.queue.Notify(action.Warn, "host is playing a different chart")
		}
		m.mods = f.Play.Mods
		m.rebuild()
		m.Restart()
		m.awaitPlay = false
		m.latest = math.Max(m.latest, f.Time)
	case spectator.ReplayAction:
		if rf, ok := f.ReplayFrame(); ok {
			m.pending = append(m.pending, rf)
		}
		m.latest = math.Max(m.latest, f.Time)
	case spectator.Buffer:
		m.latest = math.Max(m.latest, f.Time)
	case spectator.TimeJump:
		m.jumpPending = false
		m.applyJump(f.Time)
		m.latest = f.Time
	case spectator.ScoreSync:
		if f.Score != nil {
			s := f.Score.Clone()
			m.hostScore = &s
		}
	case spectator.Pause:
		m.queue.Notify(action.Info, "host paused")
	case spectator.UnPause:
		m.queue.Notify(action.Info, "host resumed")
	case spectator.ChangingMap:
		m.queue.Notify(action.Info, "host is changing map")
		m.finish()
	}
}

// catchUp resolves everything up to t instead of skipping it, so the
// score stays consistent with the host's frames.
func (m *Manager) catchUp(t float64) {
	m.log.WithFields(logrus.Fields{"from": m.time, "to": t}).Info("spectator catching up")
	m.queue.Notify(action.Info, "catching up")
	m.time = t
	m.flush(t)
	st := m.state(m.horizon(t))
	m.engine.Update(st)
	m.collect(st)
	m.queue.Song(action.SongSeek, math.Max(0, t-m.offset()))
}

// broadcast queues a frame for spectators when hosting.
func (m *Manager) broadcast(f spectator.Frame) {
	if !m.options.Broadcast {
		return
	}
	m.outbox = append(m.outbox, f)
}

// flushBroadcast sends queued frames every flush interval, or now when
// force is set. Every flush carries a buffer frame marking the host time.
func (m *Manager) flushBroadcast(force bool) {
	if !m.options.Broadcast || m.is(PhaseLeadIn) {
		return
	}
	if !force && m.time < m.nextFlush {
		return
	}
	m.nextFlush = m.time + m.settings.Spectator.FlushInterval
	m.outbox = append(m.outbox,
		spectator.ScoreFrame(m.time, m.score),
		spectator.Simple(m.time, spectator.Buffer),
	)
	m.queue.Push(action.SpectatorSend{Frames: m.outbox})
	m.outbox = nil
}
