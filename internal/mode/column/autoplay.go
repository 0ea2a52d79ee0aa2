package column

import "git.lost.host/meutraa/tempo/internal/replay"

// plan presses every note on time and lets go at its end.
func (e *Engine) plan() []replay.Frame {
	frames := make([]replay.Frame, 0, 2*len(e.notes))
	for _, n := range e.notes {
		k := replay.Column(n.Column())
		frames = append(frames,
			replay.PressFrame(n.Time(), k),
			replay.ReleaseFrame(n.EndTime(), k),
		)
	}
	return frames
}
