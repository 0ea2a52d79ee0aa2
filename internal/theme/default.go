package theme

import "image/color"

type DefaultTheme struct {
}

// NoteColor colours a note by its beat snap, 4 being a quarter note.
func (t *DefaultTheme) NoteColor(denom int) color.RGBA {
	col, ok := noteColors[denom]
	if !ok {
		return noteColors[-1]
	}
	return col
}

func (t *DefaultTheme) NoteSymbol(column int) string {
	return syms[column%len(syms)]
}

func (t *DefaultTheme) HitFieldSymbol(column int) string {
	return barSyms[column%len(barSyms)]
}

func (t *DefaultTheme) Background() color.RGBA {
	return color.RGBA{18, 18, 18, 255}
}

var (
	syms       = [...]string{"⬤", "⬤", "⬤", "⬤"}
	barSyms    = [...]string{"-", "-", "-", "-"}
	noteColors = map[int]color.RGBA{
		4:   {236, 30, 0, 255},    // red
		8:   {0, 118, 236, 255},   // blue
		12:  {106, 0, 236, 255},   // purple
		16:  {236, 195, 0, 255},   // yellow
		20:  {106, 106, 106, 255}, // grey???
		24:  {236, 0, 106, 255},   // pink
		32:  {236, 128, 0, 255},   // orange
		48:  {173, 236, 236, 255}, // light blue
		64:  {0, 236, 128, 255},   // green
		96:  {106, 106, 106, 255}, // grey
		128: {106, 106, 106, 255}, // grey
		192: {110, 147, 89, 255},  // olive
		256: {106, 106, 106, 255}, // grey
		-1:  {255, 255, 255, 255}, // other white
	}
)

// Default is the theme engines draw with.
var Default Theme = &DefaultTheme{}
