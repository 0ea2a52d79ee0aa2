package tap

import (
	"math"

	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/window"
)

// Playfield size in chart units.
const (
	FieldWidth  = 512.0
	FieldHeight = 384.0
)

var FieldCenter = game.Point{X: FieldWidth / 2, Y: FieldHeight / 2}

// CircleRadius is the hit radius for a circle size.
func CircleRadius(cs float64) float64 {
	return 54.4 - 4.48*cs
}

// FollowRadius is how far the cursor may stray from a slider ball.
func FollowRadius(cs float64) float64 {
	return 2.4 * CircleRadius(cs)
}

// Preempt is how long before its time a note appears.
func Preempt(ar float64) float64 {
	return window.Map(ar, 1800, 1200, 450)
}

// SpinsPerSecond is the rotation rate a spinner requires.
func SpinsPerSecond(od float64) float64 {
	return window.Map(od, 3, 5, 7.5)
}

// path is a polyline with cumulative segment lengths.
type path struct {
	points []game.Point
	cum    []float64
}

func newPath(points []game.Point) path {
	p := path{points: points, cum: make([]float64, len(points))}
	for i := 1; i < len(points); i++ {
		p.cum[i] = p.cum[i-1] + points[i].Distance(points[i-1])
	}
	return p
}

func (p path) length() float64 {
	if len(p.cum) == 0 {
		return 0
	}
	return p.cum[len(p.cum)-1]
}

// at returns the point a fraction f along the path.
func (p path) at(f float64) game.Point {
	if len(p.points) == 0 {
		return game.Point{}
	}
	total := p.length()
	if total == 0 {
		return p.points[0]
	}
	d := math.Max(0, math.Min(1, f)) * total
	for i := 1; i < len(p.points); i++ {
		if d <= p.cum[i] {
			seg := p.cum[i] - p.cum[i-1]
			if seg == 0 {
				return p.points[i]
			}
			return p.points[i-1].Lerp(p.points[i], (d-p.cum[i-1])/seg)
		}
	}
	return p.points[len(p.points)-1]
}

// angleDelta is the signed smallest rotation from a to b around c.
func angleDelta(c, a, b game.Point) float64 {
	a0 := math.Atan2(a.Y-c.Y, a.X-c.X)
	a1 := math.Atan2(b.Y-c.Y, b.X-c.X)
	d := a1 - a0
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
