package theme

import (
	"image/color"
	"testing"
)

var colorTests = map[int]color.RGBA{
	4:   {236, 30, 0, 255},
	64:  {0, 236, 128, 255},
	7:   {255, 255, 255, 255},
	-10: {255, 255, 255, 255},
}

func TestNoteColor(t *testing.T) {
	th := &DefaultTheme{}
	for denom, expected := range colorTests {
		if got := th.NoteColor(denom); got != expected {
			t.Logf("denom %d: got %v expected %v", denom, got, expected)
			t.Fail()
		}
	}
	if th.NoteSymbol(5) != "⬤" || th.HitFieldSymbol(9) != "-" {
		t.Fail()
	}
}
