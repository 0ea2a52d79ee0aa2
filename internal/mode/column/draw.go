package column

import (
	"image/color"

	"git.lost.host/meutraa/tempo/internal/mode"
	"git.lost.host/meutraa/tempo/internal/render"
	"git.lost.host/meutraa/tempo/internal/theme"
)

const (
	hitY = 0.85
	// visibleMs is how much song time fits above the hit bar at scroll
	// speed 1.
	visibleMs = 1500.0
	noteH     = 0.02
)

func (e *Engine) Draw(s mode.Snapshot) []render.Primitive {
	speed := s.ScrollSpeed
	if speed <= 0 {
		speed = 1
	}
	colW := 0.6 / float64(e.nKeys)
	left := 0.2
	scale := hitY / (visibleMs / speed)
	y := func(t float64) float64 { return hitY - (t-s.Time)*scale }

	ps := make([]render.Primitive, 0, e.nKeys+16)
	for c := 0; c < e.nKeys; c++ {
		fill := color.RGBA{60, 60, 60, 255}
		if e.pressed[c] {
			fill = color.RGBA{200, 200, 200, 255}
		}
		ps = append(ps, render.Primitive{
			Shape: render.Text, X: left + colW*float64(c), Y: hitY, W: colW, H: noteH,
			Color: fill, Text: theme.Default.HitFieldSymbol(c),
		})
	}
	for _, n := range e.notes[e.first:] {
		if n.Time() > s.Time+visibleMs/speed {
			break
		}
		if n.WasHit() {
			continue
		}
		x := left + colW*float64(n.Column())
		c := theme.Default.NoteColor(n.def.Denom)
		if n.IsHold() {
			top := y(n.EndTime())
			bottom := y(n.Time())
			if n.started {
				bottom = hitY
			}
			if bottom > top {
				body := c
				body.A = 128
				ps = append(ps, render.Primitive{
					Shape: render.Rect, X: x, Y: top, W: colW, H: bottom - top, Color: body, Layer: 1,
				})
			}
			if n.started {
				continue
			}
		}
		ps = append(ps, render.Primitive{
			Shape: render.Text, X: x, Y: y(n.Time()), W: colW, H: noteH,
			Color: c, Text: theme.Default.NoteSymbol(n.Column()), Layer: 2,
		})
	}
	return ps
}
