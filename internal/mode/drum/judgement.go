package drum

import (
	"image/color"

	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/window"
)

var (
	Great = game.Judgement{ID: "great", Name: "Great", Score: 300, Color: color.RGBA{236, 195, 0, 255}}
	Good  = game.Judgement{ID: "good", Name: "Good", Score: 100, Color: color.RGBA{255, 255, 255, 255}}
	Miss  = game.Judgement{ID: "miss", Name: "Miss", Combo: game.ComboReset, Color: color.RGBA{236, 30, 0, 255}}

	GreatFinisher = game.Judgement{ID: "great_finisher", Name: "Great", Score: 600, Color: color.RGBA{236, 195, 0, 255}}
	GoodFinisher  = game.Judgement{ID: "good_finisher", Name: "Good", Score: 200, Color: color.RGBA{255, 255, 255, 255}}

	DrumrollTick   = game.Judgement{ID: "drumroll_tick", Name: "Roll", Score: 10, Combo: game.ComboIgnore, Minor: true}
	DenDenHit      = game.Judgement{ID: "denden_hit", Name: "Spin", Score: 10, Combo: game.ComboIgnore, Minor: true}
	DenDenComplete = game.Judgement{ID: "denden_complete", Name: "Clear", Score: 300, Combo: game.ComboIgnore, Minor: true}
)

var tiers = []window.Tier{
	{Judgement: Great, Range: window.Range{Min: 50, Mid: 35, Max: 20}},
	{Judgement: Good, Range: window.Range{Min: 120, Mid: 80, Max: 50}},
}

var missTier = window.Tier{Judgement: Miss, Range: window.Range{Min: 135, Mid: 95, Max: 70}}

func Windows(od float64) *window.Table {
	return window.Build(od, tiers, missTier)
}

// finisher returns the bonus tier of a judgement, false when it has none.
func finisher(j game.Judgement) (game.Judgement, bool) {
	switch j {
	case Great:
		return GreatFinisher, true
	case Good:
		return GoodFinisher, true
	}
	return game.Judgement{}, false
}
