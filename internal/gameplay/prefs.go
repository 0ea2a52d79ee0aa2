package gameplay

import (
	"git.lost.host/meutraa/tempo/internal/action"
	"git.lost.host/meutraa/tempo/internal/game"
)

// PrefStore persists per chart preferences keyed by chart hash and mode.
type PrefStore interface {
	LoadPrefs(sum, mode string) (game.ChartPrefs, bool, error)
	SavePrefs(sum, mode string, p game.ChartPrefs) error
}

func (m *Manager) loadPrefs() {
	m.chartPrefs = game.ChartPrefs{ScrollSpeed: m.settings.ScrollSpeed}
	if m.prefs == nil {
		return
	}
	p, ok, err := m.prefs.LoadPrefs(m.chart.Hash, m.chart.Mode)
	if nil != err {
		m.log.WithError(err).Warn("load chart preferences")
		m.queue.Notify(action.Warn, "could not load chart preferences")
		return
	}
	if ok {
		m.chartPrefs = p
	}
	if m.chartPrefs.ScrollSpeed <= 0 {
		m.chartPrefs.ScrollSpeed = m.settings.ScrollSpeed
	}
}

// savePrefs writes in the background. Failures surface on the next
// update as a warning.
func (m *Manager) savePrefs() {
	if m.prefs == nil {
		return
	}
	store, p := m.prefs, m.chartPrefs
	sum, mode := m.chart.Hash, m.chart.Mode
	errs := m.errs
	go func() {
		if err := store.SavePrefs(sum, mode, p); nil != err {
			select {
			case errs <- err:
			default:
			}
		}
	}()
}

func (m *Manager) drainErrors() {
	for {
		select {
		case err := <-m.errs:
			m.log.WithError(err).Warn("save chart preferences")
			m.queue.Notify(action.Warn, "could not save chart preferences")
		default:
			return
		}
	}
}
