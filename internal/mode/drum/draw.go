package drum

import (
	"fmt"
	"image/color"

	"git.lost.host/meutraa/tempo/internal/mode"
	"git.lost.host/meutraa/tempo/internal/render"
)

const (
	hitX      = 0.15
	laneY     = 0.4
	visibleMs = 2000.0
)

var (
	donColor  = color.RGBA{236, 30, 0, 255}
	katColor  = color.RGBA{0, 118, 236, 255}
	rollColor = color.RGBA{236, 195, 0, 255}
)

func (e *Engine) Draw(s mode.Snapshot) []render.Primitive {
	speed := s.ScrollSpeed
	if speed <= 0 {
		speed = 1
	}
	scale := (1 - hitX) / (visibleMs / speed)
	x := func(t float64) float64 { return hitX + (t-s.Time)*scale }

	ps := []render.Primitive{{
		Shape: render.Circle, X: hitX, Y: laneY, W: 0.05, H: 0.05, Color: color.RGBA{90, 90, 90, 255},
	}}
	for _, n := range e.notes[e.first:] {
		if n.Time() > s.Time+visibleMs/speed {
			break
		}
		if n.WasHit() {
			continue
		}
		switch n.kind {
		case Roll:
			ps = append(ps, render.Primitive{
				Shape: render.Rect, X: x(n.Time()), Y: laneY, W: x(n.EndTime()) - x(n.Time()), H: 0.04,
				Color: rollColor, Layer: 1,
			})
		case DenDen:
			ps = append(ps, render.Primitive{
				Shape: render.Text, X: 0.5, Y: laneY + 0.2, Color: rollColor, Layer: 3,
				Text: fmt.Sprintf("%d / %d", n.hits, n.required),
			})
		default:
			c, size := donColor, 0.04
			if n.kind == Kat {
				c = katColor
			}
			if n.big {
				size = 0.06
			}
			ps = append(ps, render.Primitive{
				Shape: render.Circle, X: x(n.Time()), Y: laneY, W: size, H: size, Color: c, Layer: 2,
			})
		}
	}
	return ps
}
