package gameplay

import (
	"fmt"
	"image/color"

	"git.lost.host/meutraa/tempo/internal/mode"
	"git.lost.host/meutraa/tempo/internal/render"
)

const overlayLayer = 10

var (
	white       = color.RGBA{255, 255, 255, 255}
	healthColor = color.RGBA{96, 216, 96, 255}
)

// Snapshot is the read only state the engine draws from.
func (m *Manager) Snapshot() mode.Snapshot {
	return mode.Snapshot{
		Time:        m.time,
		Mods:        m.mods,
		Timing:      m.timing.At(m.time),
		Kiai:        m.timing.Kiai(),
		Score:       m.score.Clone(),
		Health:      m.health.Value(),
		ScrollSpeed: m.chartPrefs.ScrollSpeed,
	}
}

// Draw renders the engine followed by the session overlay.
func (m *Manager) Draw() []render.Primitive {
	return append(m.engine.Draw(m.Snapshot()), m.overlay()...)
}

func (m *Manager) overlay() []render.Primitive {
	text := func(x, y float64, c color.RGBA, s string) render.Primitive {
		return render.Primitive{Shape: render.Text, X: x, Y: y, Color: c, Text: s, Layer: overlayLayer}
	}
	ps := []render.Primitive{
		{Shape: render.Rect, W: m.health.Value(), H: 0.01, Color: healthColor, Layer: overlayLayer},
		text(0.85, 0.03, white, fmt.Sprintf("%08d", m.score.Score)),
		text(0.85, 0.06, white, fmt.Sprintf("%6.2f%%", m.score.Accuracy*100)),
		text(0.02, 0.95, white, fmt.Sprintf("%dx", m.score.Combo)),
	}
	if n := len(m.indicators); n > 0 {
		last := m.indicators[n-1].Judgement
		ps = append(ps, text(0.48, 0.6, last.Color, last.Name))
	}

	windows := m.engine.Windows()
	if miss := windows.MissBoundary(); miss > 0 {
		for _, he := range m.hitErrors {
			j, _ := windows.Classify(he.Delta)
			ps = append(ps, render.Primitive{
				Shape: render.Rect,
				X:     0.5 + he.Delta/miss*0.15,
				Y:     0.97,
				W:     0.002,
				H:     0.02,
				Color: j.Color,
				Layer: overlayLayer,
			})
		}
	}

	switch m.phase.Current() {
	case PhaseLeadIn:
		if m.leadIn > 0 {
			ps = append(ps, text(0.48, 0.5, white, fmt.Sprintf("%.1f", m.leadIn/1000)))
		}
	case PhasePaused:
		ps = append(ps, text(0.46, 0.5, white, "paused"))
	case PhaseBuffering:
		ps = append(ps, text(0.44, 0.5, white, "buffering"))
	case PhaseFailing:
		ps = append(ps, text(0.46, 0.5, white, "failed"))
	}
	return ps
}
