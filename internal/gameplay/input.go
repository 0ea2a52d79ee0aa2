package gameplay

import (
	"fmt"
	"math"

	"git.lost.host/meutraa/tempo/internal/action"
	"git.lost.host/meutraa/tempo/internal/config"
	"git.lost.host/meutraa/tempo/internal/replay"
)

// KeyDown handles a raw key press: restart, offset and scroll speed
// hotkeys first, then the mode's key bindings.
func (m *Manager) KeyDown(r rune) {
	s := m.settings
	switch {
	case config.IsKey(s.RestartKey, r):
		if !m.restartDown {
			m.restartDown = true
			m.restartSince = m.clock()
		}
		return
	case config.IsKey(s.OffsetUpKey, r):
		m.AdjustOffset(s.OffsetStep)
		return
	case config.IsKey(s.OffsetDownKey, r):
		m.AdjustOffset(-s.OffsetStep)
		return
	case config.IsKey(s.ScrollUpKey, r):
		m.AdjustScrollSpeed(s.ScrollStep)
		return
	case config.IsKey(s.ScrollDownKey, r):
		m.AdjustScrollSpeed(-s.ScrollStep)
		return
	}
	if k, ok := m.engine.KeyFor(r, s); ok {
		m.Press(k)
	}
}

func (m *Manager) KeyUp(r rune) {
	if config.IsKey(m.settings.RestartKey, r) {
		m.restartDown = false
		return
	}
	if k, ok := m.engine.KeyFor(r, m.settings); ok {
		m.Release(k)
	}
}

// Press queues a logical key press. Repeats of a held key are dropped.
func (m *Manager) Press(k replay.Key) {
	if !m.acceptsInput() || m.down[k] {
		return
	}
	m.down[k] = true
	m.input(replay.PressFrame(m.inputTime(), k))
}

func (m *Manager) Release(k replay.Key) {
	if !m.acceptsInput() || !m.down[k] {
		return
	}
	delete(m.down, k)
	m.input(replay.ReleaseFrame(m.inputTime(), k))
}

func (m *Manager) input(f replay.Frame) {
	m.pending = append(m.pending, f)
}

func (m *Manager) acceptsInput() bool {
	return m.live() && (m.is(PhasePlaying) || m.is(PhaseLeadIn))
}

// inputTime stamps live input with the wall time passed since the last
// update, never earlier than input already taken.
func (m *Manager) inputTime() float64 {
	t := m.time
	if m.is(PhasePlaying) && !m.lastTick.IsZero() {
		t += millis(m.clock().Sub(m.lastTick)) * m.mods.Rate()
	}
	if n := len(m.pending); n > 0 {
		t = math.Max(t, m.pending[n-1].Time)
	}
	return math.Max(t, m.applied)
}

// AdjustOffset shifts this chart's audio offset and saves it.
func (m *Manager) AdjustOffset(step float64) {
	m.chartPrefs.Offset += step
	m.queue.Notify(action.Info, fmt.Sprintf("offset %+.0fms", m.chartPrefs.Offset))
	m.savePrefs()
}

// AdjustScrollSpeed changes this chart's scroll speed and saves it.
func (m *Manager) AdjustScrollSpeed(step float64) {
	m.chartPrefs.ScrollSpeed = math.Max(0.1, m.chartPrefs.ScrollSpeed+step)
	m.queue.Notify(action.Info, fmt.Sprintf("scroll speed %.1f", m.chartPrefs.ScrollSpeed))
	m.savePrefs()
}

// AdjustGlobalOffset asks the host to change the offset for every chart.
func (m *Manager) AdjustGlobalOffset(step float64) {
	m.queue.Push(action.UpdateSettings{Apply: func(s *config.Settings) {
		s.GlobalOffset += step
	}})
	m.queue.Notify(action.Info, fmt.Sprintf("global offset %+.0fms", m.settings.GlobalOffset+step))
}
