package gameplay

import (
	"github.com/sirupsen/logrus"

	"git.lost.host/meutraa/tempo/internal/action"
	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/mode"
)

// apply is the only place score, combo and health change.
func (m *Manager) apply(ev mode.Event) {
	switch ev := ev.(type) {
	case mode.Judged:
		m.judge(ev)
	case mode.Upgraded:
		m.upgrade(ev)
	case mode.Sound:
		m.sound(ev)
	case mode.HealthSwap:
		m.health = ev.Health
		m.log.WithField("time", m.time).Debug("health replaced")
	case mode.Completed:
		m.log.WithField("time", ev.Time).Debug("chart end")
	}
}

func (m *Manager) judge(ev mode.Judged) {
	j := ev.Judgement
	if !j.Minor {
		if ev.Note < 0 || ev.Note >= len(m.judged) || m.judged[ev.Note] {
			m.log.WithFields(logrus.Fields{"note": ev.Note, "judgement": j.ID, "time": ev.Time}).Error("note judged twice")
			return
		}
		m.judged[ev.Note] = true
		m.hitCombo[ev.Note] = m.score.Combo
		m.indicators = append(m.indicators, Indicator{Judgement: j, Note: ev.Note, Time: ev.Time, Pos: ev.Pos})
	}

	m.score.Score += m.settings.Combo.Multiplier().Points(j.Score, m.score.Combo)
	m.score.Record(j, 1)
	m.score.ApplyCombo(j.Combo)
	if ev.Timed {
		m.score.HitTimings = append(m.score.HitTimings, ev.Delta)
		m.hitErrors = append(m.hitErrors, HitError{Time: ev.Time, Delta: ev.Delta})
	}
	m.health.Apply(j)
	m.checkFail(j)
}

// upgrade swaps an earlier judgement for a better one without counting a
// new hit. The difference is scored at the combo of the original hit.
func (m *Manager) upgrade(ev mode.Upgraded) {
	combo := m.score.Combo
	if ev.Note >= 0 && ev.Note < len(m.hitCombo) {
		combo = m.hitCombo[ev.Note]
	}
	p := m.settings.Combo.Multiplier()
	m.score.Record(ev.From, -1)
	m.score.Record(ev.To, 1)
	m.score.Score += p.Points(ev.To.Score, combo) - p.Points(ev.From.Score, combo)
	for i := range m.indicators {
		if m.indicators[i].Note == ev.Note {
			m.indicators[i].Judgement = ev.To
		}
	}
}

func (m *Manager) sound(ev mode.Sound) {
	vol := ev.Hitsound.Volume
	if vol <= 0 {
		vol = m.timing.At(ev.Time).Volume
	}
	if vol <= 0 {
		vol = 100
	}
	m.queue.Push(action.PlaySound{
		Sound:  ev.Hitsound,
		Volume: m.settings.EffectVolume * float64(vol) / 100,
		Pan:    ev.Pan,
	})
}

func (m *Manager) checkFail(j game.Judgement) {
	if m.failed || m.failSuppressed() {
		return
	}
	reason := ""
	switch {
	case m.mods.SuddenDeath && j.Combo == game.ComboReset:
		reason = "sudden death"
	case m.mods.Perfect && (j.Combo == game.ComboReset || !j.Minor && j != m.engine.Windows().Best()):
		reason = "perfect"
	case m.health.Dead(false):
		reason = "health"
	}
	if reason != "" {
		m.failed = true
		m.log.WithFields(logrus.Fields{"reason": reason, "judgement": j.ID}).Debug("fail")
	}
}
