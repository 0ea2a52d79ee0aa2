package theme

import "image/color"

type Theme interface {
	NoteColor(denom int) color.RGBA
	NoteSymbol(column int) string
	HitFieldSymbol(column int) string
	Background() color.RGBA
}
