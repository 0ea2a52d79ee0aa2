package tap

import (
	"fmt"
	"image/color"

	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/mode"
	"git.lost.host/meutraa/tempo/internal/render"
	"git.lost.host/meutraa/tempo/internal/theme"
)

var (
	cursorColor = color.RGBA{255, 255, 255, 255}
	ballColor   = color.RGBA{236, 195, 0, 255}
)

func toView(p game.Point) (float64, float64) {
	return p.X / FieldWidth, p.Y / FieldHeight
}

func (e *Engine) Draw(s mode.Snapshot) []render.Primitive {
	preempt := Preempt(e.diff.AR)
	size := 2 * e.radius / FieldWidth
	var ps []render.Primitive
	for _, n := range e.notes[e.first:] {
		if n.Time()-preempt > s.Time {
			break
		}
		if n.WasHit() {
			continue
		}
		c := theme.Default.NoteColor(n.def.Denom)
		switch {
		case n.IsSpinner():
			ps = append(ps, render.Primitive{
				Shape: render.Text, X: 0.5, Y: 0.5, Color: c, Layer: 3,
				Text: fmt.Sprintf("%d / %d", n.rotations, n.required),
			})
		case n.IsSlider():
			for _, p := range n.path.points {
				x, y := toView(p)
				ps = append(ps, render.Primitive{Shape: render.Circle, X: x, Y: y, W: size / 2, H: size / 2, Color: c, Layer: 1})
			}
			if s.Time >= n.Time() {
				x, y := toView(n.BallAt(s.Time))
				ps = append(ps, render.Primitive{Shape: render.Circle, X: x, Y: y, W: size, H: size, Color: ballColor, Layer: 2})
				continue
			}
			fallthrough
		default:
			x, y := toView(n.def.Pos)
			approach := 1 + 3*(n.Time()-s.Time)/preempt
			ps = append(ps,
				render.Primitive{Shape: render.Circle, X: x, Y: y, W: size, H: size, Color: c, Layer: 2},
				render.Primitive{Shape: render.Circle, X: x, Y: y, W: size * approach, H: size * approach, Color: c, Layer: 2},
			)
		}
	}
	x, y := toView(e.cursor)
	ps = append(ps, render.Primitive{Shape: render.Circle, X: x, Y: y, W: 0.01, H: 0.01, Color: cursorColor, Layer: 4})
	return ps
}
