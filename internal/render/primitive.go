package render

import "image/color"

type Shape uint8

const (
	Rect Shape = iota
	Circle
	Text
)

// Primitive is a drawable in a normalized viewport: X and Y run from 0 to
// 1, left to right and top to bottom. W and H use the same scale.
type Primitive struct {
	Shape Shape
	X, Y  float64
	W, H  float64
	Color color.RGBA
	Text  string
	// Layer orders primitives, higher layers drawn last.
	Layer int
}
