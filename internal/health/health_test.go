package health

import (
	"testing"

	"git.lost.host/meutraa/tempo/internal/game"
)

var (
	hit  = game.Judgement{ID: "hit"}
	miss = game.Judgement{ID: "miss"}
)

func deltas(j game.Judgement) float64 {
	if j == miss {
		return -0.3
	}
	return 0.1
}

func TestRatio(t *testing.T) {
	h := NewRatio(deltas)
	h.Apply(hit)
	if h.Value() != 1 {
		t.Fatalf("ratio should clamp at 1, got %v", h.Value())
	}
	for i := 0; i < 3; i++ {
		h.Apply(miss)
	}
	if h.Dead(false) {
		t.Fatalf("not dead yet at %v", h.Value())
	}
	h.Apply(miss)
	if h.Value() != 0 || !h.Dead(false) {
		t.Fatalf("expected death at 0, got %v", h.Value())
	}
	h.Reset()
	if h.Value() != 1 {
		t.Fatal("reset should refill")
	}
}

func TestBattery(t *testing.T) {
	b := NewBattery(deltas, 0.5)
	if b.Value() != 0 || b.Dead(false) {
		t.Fatal("battery starts empty and alive")
	}
	if !b.Dead(true) {
		t.Fatal("empty battery fails at completion")
	}
	for i := 0; i < 6; i++ {
		b.Apply(hit)
	}
	if b.Dead(true) {
		t.Fatalf("battery at %v should pass", b.Value())
	}
	b.Apply(miss)
	if !b.Dead(true) {
		t.Fatalf("battery at %v should fail", b.Value())
	}
}
