// Package health implements the pluggable health strategies.
package health

import "git.lost.host/meutraa/tempo/internal/game"

// Health is a [0,1] clamped meter with a strategy specific death check.
type Health interface {
	Apply(j game.Judgement)
	Value() float64
	// Dead reports failure. complete is true once the chart has ended.
	Dead(complete bool) bool
	Reset()
}

// DeltaFunc maps a judgement to a change in health.
type DeltaFunc func(game.Judgement) float64

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Ratio starts full and dies when it reaches zero.
type Ratio struct {
	value float64
	delta DeltaFunc
}

func NewRatio(delta DeltaFunc) *Ratio {
	return &Ratio{value: 1, delta: delta}
}

func (r *Ratio) Apply(j game.Judgement) {
	r.value = clamp(r.value + r.delta(j))
}

func (r *Ratio) Value() float64 { return r.value }

func (r *Ratio) Dead(bool) bool { return r.value <= 0 }

func (r *Ratio) Reset() { r.value = 1 }

// Battery starts empty and only fails at the end of the chart, when the
// charge is below Pass.
type Battery struct {
	value float64
	pass  float64
	delta DeltaFunc
}

func NewBattery(delta DeltaFunc, pass float64) *Battery {
	return &Battery{delta: delta, pass: pass}
}

func (b *Battery) Apply(j game.Judgement) {
	b.value = clamp(b.value + b.delta(j))
}

func (b *Battery) Value() float64 { return b.value }

func (b *Battery) Dead(complete bool) bool {
	return complete && b.value < b.pass
}

func (b *Battery) Reset() { b.value = 0 }
