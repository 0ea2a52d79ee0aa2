package column

import (
	"image/color"

	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/window"
)

var (
	Marvelous = game.Judgement{ID: "marvelous", Name: "Marvelous", Score: 320, Color: color.RGBA{173, 236, 236, 255}}
	Perfect   = game.Judgement{ID: "perfect", Name: "Perfect", Score: 300, Color: color.RGBA{236, 195, 0, 255}}
	Great     = game.Judgement{ID: "great", Name: "Great", Score: 200, Color: color.RGBA{0, 236, 128, 255}}
	Good      = game.Judgement{ID: "good", Name: "Good", Score: 100, Color: color.RGBA{0, 118, 236, 255}}
	Bad       = game.Judgement{ID: "bad", Name: "Bad", Score: 50, Color: color.RGBA{236, 0, 106, 255}}
	Miss      = game.Judgement{ID: "miss", Name: "Miss", Combo: game.ComboReset, Color: color.RGBA{236, 30, 0, 255}}

	HoldTick     = game.Judgement{ID: "hold_tick", Name: "Hold tick", Combo: game.ComboIgnore, Minor: true}
	HoldTickMiss = game.Judgement{ID: "hold_tick_miss", Name: "Hold tick miss", Combo: game.ComboIgnore, Minor: true}
)

var tiers = []window.Tier{
	{Judgement: Marvelous, Range: window.Range{Min: 16, Mid: 16, Max: 16}},
	{Judgement: Perfect, Range: window.Range{Min: 64, Mid: 49, Max: 34}},
	{Judgement: Great, Range: window.Range{Min: 97, Mid: 82, Max: 67}},
	{Judgement: Good, Range: window.Range{Min: 127, Mid: 112, Max: 97}},
	{Judgement: Bad, Range: window.Range{Min: 151, Mid: 136, Max: 121}},
}

var missTier = window.Tier{Judgement: Miss, Range: window.Range{Min: 188, Mid: 173, Max: 158}}

// Windows builds the hit window table for an overall difficulty.
func Windows(od float64) *window.Table {
	return window.Build(od, tiers, missTier)
}
