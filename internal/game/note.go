package game

import "math"

type NoteKind uint8

const (
	Tap NoteKind = iota
	Hold
	Slider
	Spinner
)

func (k NoteKind) String() string {
	switch k {
	case Tap:
		return "tap"
	case Hold:
		return "hold"
	case Slider:
		return "slider"
	case Spinner:
		return "spinner"
	}
	return "unknown"
}

type Point struct {
	X, Y float64
}

func (p Point) Add(o Point) Point        { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Sub(o Point) Point        { return Point{p.X - o.X, p.Y - o.Y} }
func (p Point) Scale(f float64) Point    { return Point{p.X * f, p.Y * f} }
func (p Point) Distance(o Point) float64 { return math.Hypot(p.X-o.X, p.Y-o.Y) }

// Lerp returns the point t of the way from p to o.
func (p Point) Lerp(o Point, t float64) Point {
	return Point{p.X + (o.X-p.X)*t, p.Y + (o.Y-p.Y)*t}
}

// Hitsound describes which samples play when a note is hit.
type Hitsound struct {
	Normal  bool `json:"normal,omitempty"`
	Whistle bool `json:"whistle,omitempty"`
	Finish  bool `json:"finish,omitempty"`
	Clap    bool `json:"clap,omitempty"`
	Volume  int  `json:"volume,omitempty"` // 0 means use the timing point volume
}

// NoteDef is the immutable chart definition of a note. It is never
// mutated once a chart is loaded.
type NoteDef struct {
	Kind     NoteKind `json:"kind"`
	Time     float64  `json:"time"`              // ms
	EndTime  float64  `json:"end_time,omitempty"` // ms, holds/sliders/spinners
	Column   int      `json:"column,omitempty"`
	Pos      Point    `json:"pos,omitempty"`
	Path     []Point  `json:"path,omitempty"` // slider control points after Pos
	Slides   int      `json:"slides,omitempty"`
	Hitsound Hitsound `json:"hitsound,omitempty"`
	NewCombo bool     `json:"new_combo,omitempty"`
	Denom    int      `json:"denom,omitempty"` // beat snap denominator, 4 = 1/4 beat
}

// Duration is zero for instantaneous notes.
func (n NoteDef) Duration() float64 {
	if n.EndTime <= n.Time {
		return 0
	}
	return n.EndTime - n.Time
}
