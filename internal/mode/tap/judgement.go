package tap

import (
	"image/color"

	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/window"
)

var (
	X300 = game.Judgement{ID: "x300", Name: "300", Score: 300, Color: color.RGBA{0, 236, 236, 255}}
	X100 = game.Judgement{ID: "x100", Name: "100", Score: 100, Color: color.RGBA{0, 236, 128, 255}}
	X50  = game.Judgement{ID: "x50", Name: "50", Score: 50, Color: color.RGBA{236, 195, 0, 255}}
	Miss = game.Judgement{ID: "miss", Name: "Miss", Combo: game.ComboReset, Color: color.RGBA{236, 30, 0, 255}}

	SliderTick     = game.Judgement{ID: "slider_tick", Name: "Tick", Score: 30, Minor: true}
	SliderTickMiss = game.Judgement{ID: "slider_tick_miss", Name: "Tick miss", Combo: game.ComboReset, Minor: true}
	SpinnerSpin    = game.Judgement{ID: "spinner_spin", Name: "Spin", Score: 100, Combo: game.ComboIgnore, Minor: true}
	SpinnerBonus   = game.Judgement{ID: "spinner_bonus", Name: "Bonus", Score: 1000, Combo: game.ComboIgnore, Minor: true}
)

var tiers = []window.Tier{
	{Judgement: X300, Range: window.Range{Min: 80, Mid: 50, Max: 20}},
	{Judgement: X100, Range: window.Range{Min: 140, Mid: 100, Max: 60}},
	{Judgement: X50, Range: window.Range{Min: 200, Mid: 150, Max: 100}},
}

var missTier = window.Tier{Judgement: Miss, Range: window.Range{Min: 400, Mid: 400, Max: 400}}

func Windows(od float64) *window.Table {
	return window.Build(od, tiers, missTier)
}
