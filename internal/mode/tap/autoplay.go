package tap

import (
	"math"

	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/replay"
)

const (
	spinRadius = 50.0
	spinStep   = 10.0 // ms between spinner cursor moves
)

// plan hits every note on time. The cursor jumps to each slider check
// point as soon as the previous one has been judged.
func (e *Engine) plan() []replay.Frame {
	var frames []replay.Frame
	add := func(f ...replay.Frame) { frames = append(frames, f...) }
	for i, n := range e.notes {
		k := relaxKeys[i%len(relaxKeys)]
		t := n.Time()
		switch {
		case n.IsSpinner():
			angle := 0.0
			at := func(a float64) game.Point {
				return FieldCenter.Add(game.Point{X: math.Cos(a), Y: math.Sin(a)}.Scale(spinRadius))
			}
			add(replay.MoveFrame(t, at(angle)), replay.PressFrame(t, k))
			for st := t + spinStep; st < n.EndTime(); st += spinStep {
				angle += math.Pi / 3
				add(replay.MoveFrame(st, at(angle)))
			}
			add(replay.ReleaseFrame(n.EndTime(), k))
		case n.IsSlider():
			add(replay.MoveFrame(t, n.def.Pos), replay.PressFrame(t, k))
			prev := t
			for _, c := range append(append([]float64{}, n.ticks...), n.EndTime()) {
				add(replay.MoveFrame(prev, n.BallAt(c)))
				prev = c
			}
			add(replay.ReleaseFrame(n.EndTime(), k))
		default:
			add(
				replay.MoveFrame(t, n.def.Pos),
				replay.PressFrame(t, k),
				replay.ReleaseFrame(t, k),
			)
		}
	}
	return frames
}
