package render

import (
	"bytes"
	"image/color"
	"strings"
	"testing"
)

var red = color.RGBA{255, 0, 0, 255}

func grid(cells []cell, cols int) string {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 && i%cols == 0 {
			b.WriteString("\n")
		}
		b.WriteString(c.ch)
	}
	return b.String()
}

func TestRasterize(t *testing.T) {
	tests := map[string]struct {
		ps       []Primitive
		expected string
	}{
		"rect": {
			[]Primitive{{Shape: Rect, X: 0.25, Y: 0.5, W: 0.5, H: 0.25}},
			"    \n    \n ██ \n    ",
		},
		"thin rect keeps a cell": {
			[]Primitive{{Shape: Rect, X: 0, Y: 0, W: 0.01, H: 0.01}},
			"█   \n    \n    \n    ",
		},
		"small circle": {
			[]Primitive{{Shape: Circle, X: 0.5, Y: 0.5, W: 0.1, H: 0.1}},
			"    \n    \n  ● \n    ",
		},
		"centered text": {
			[]Primitive{{Shape: Text, X: 0, Y: 0.25, W: 1, Text: "ab"}},
			"    \n ab \n    \n    ",
		},
		"layers": {
			[]Primitive{
				{Shape: Text, X: 0, Y: 0, Text: "x", Layer: 2},
				{Shape: Rect, X: 0, Y: 0, W: 0.5, H: 0.25, Layer: 1},
			},
			"x█  \n    \n    \n    ",
		},
		"clipped": {
			[]Primitive{{Shape: Text, X: 0.75, Y: 0.75, Text: "long"}},
			"    \n    \n    \n   l",
		},
	}
	cells := make([]cell, 16)
	for name, test := range tests {
		rasterize(cells, 4, 4, test.ps)
		if got := grid(cells, 4); got != test.expected {
			t.Errorf("%s:\n%s\nexpected\n%s", name, got, test.expected)
		}
	}
}

func TestDrawWritesChangesOnly(t *testing.T) {
	var out bytes.Buffer
	r := &Terminal{out: &out}
	r.Resize(4, 4)

	ps := []Primitive{{Shape: Text, X: 0, Y: 0, Text: "a", Color: red}}
	if err := r.Draw(ps); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "\033[1;1H\033[38;2;255;0;0ma") {
		t.Errorf("first frame %q", out.String())
	}

	out.Reset()
	r.Draw(ps)
	if out.Len() != 0 {
		t.Errorf("unchanged frame wrote %q", out.String())
	}

	r.Draw(nil)
	if out.String() != "\033[1;1H " {
		t.Errorf("clearing wrote %q", out.String())
	}
}
