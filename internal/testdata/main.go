// Package testdata builds charts for tests.
package testdata

import (
	"encoding/json"

	"git.lost.host/meutraa/tempo/internal/game"
)

// GetChart decodes the bundled four key chart.
func GetChart() (*game.Chart, error) {
	var chart game.Chart
	if err := json.Unmarshal([]byte(data), &chart); nil != err {
		return nil, err
	}
	chart.ComputeHash()
	return &chart, nil
}

// Chart builds a chart with a single uninherited timing point at 0.
func Chart(mode string, beatLength float64, notes ...game.NoteDef) *game.Chart {
	c := &game.Chart{
		Title:   "test",
		Version: mode,
		Mode:    mode,
		Difficulty: game.Difficulty{
			Name: "test", HP: 5, OD: 5, CS: 4, AR: 9, NKeys: 4,
		},
		Timing: []game.TimingPoint{{Time: 0, BeatLength: beatLength, Meter: 4}},
		Notes:  notes,
	}
	c.ComputeHash()
	return c
}

func TapNote(t float64, col int) game.NoteDef {
	return game.NoteDef{Kind: game.Tap, Time: t, Column: col, Hitsound: game.Hitsound{Normal: true}}
}

func HoldNote(t, end float64, col int) game.NoteDef {
	return game.NoteDef{Kind: game.Hold, Time: t, EndTime: end, Column: col, Hitsound: game.Hitsound{Normal: true}}
}

func Circle(t, x, y float64) game.NoteDef {
	return game.NoteDef{Kind: game.Tap, Time: t, Pos: game.Point{X: x, Y: y}, Hitsound: game.Hitsound{Normal: true}}
}

// Slider is a straight slider from one point to another.
func Slider(t, end float64, from, to game.Point, slides int) game.NoteDef {
	return game.NoteDef{
		Kind: game.Slider, Time: t, EndTime: end, Pos: from, Path: []game.Point{to},
		Slides: slides, Hitsound: game.Hitsound{Normal: true},
	}
}

func Spinner(t, end float64) game.NoteDef {
	return game.NoteDef{Kind: game.Spinner, Time: t, EndTime: end, Pos: game.Point{X: 256, Y: 192}}
}

func Don(t float64) game.NoteDef {
	return game.NoteDef{Kind: game.Tap, Time: t, Hitsound: game.Hitsound{Normal: true}}
}

func Kat(t float64) game.NoteDef {
	return game.NoteDef{Kind: game.Tap, Time: t, Hitsound: game.Hitsound{Clap: true}}
}

func BigDon(t float64) game.NoteDef {
	return game.NoteDef{Kind: game.Tap, Time: t, Hitsound: game.Hitsound{Normal: true, Finish: true}}
}

func Drumroll(t, end float64) game.NoteDef {
	return game.NoteDef{Kind: game.Slider, Time: t, EndTime: end, Hitsound: game.Hitsound{Normal: true}}
}

func Denden(t, end float64) game.NoteDef {
	return game.NoteDef{Kind: game.Spinner, Time: t, EndTime: end}
}

const data = `{
	"title": "Fixture",
	"artist": "eotw",
	"version": "4k normal",
	"mode": "column",
	"difficulty": {"name": "normal", "keys": 4, "hp": 6, "od": 7},
	"timing": [
		{"time": 0, "beat_length": 500, "meter": 4},
		{"time": 4000, "beat_length": 400, "meter": 4, "kiai": true}
	],
	"breaks": [{"start": 2600, "end": 3900}],
	"notes": [
		{"kind": 0, "time": 1000, "column": 0, "denom": 4},
		{"kind": 0, "time": 1250, "column": 1, "denom": 8},
		{"kind": 0, "time": 1500, "column": 2, "denom": 4},
		{"kind": 1, "time": 1750, "end_time": 2500, "column": 3, "denom": 8},
		{"kind": 0, "time": 4000, "column": 0, "denom": 4},
		{"kind": 0, "time": 4000, "column": 3, "denom": 4},
		{"kind": 1, "time": 4200, "end_time": 5000, "column": 1, "denom": 8},
		{"kind": 0, "time": 4400, "column": 2, "denom": 8},
		{"kind": 0, "time": 4800, "column": 2, "denom": 4}
	]
}`
