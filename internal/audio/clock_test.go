package audio

import (
	"testing"
	"time"

	"git.lost.host/meutraa/tempo/internal/action"
)

func TestClock(t *testing.T) {
	now := time.Unix(100, 0)
	c := NewClock(func() time.Time { return now })
	advance := func(ms int) { now = now.Add(time.Duration(ms) * time.Millisecond) }

	steps := []struct {
		op       *action.Song
		advance  int
		expected float64
	}{
		{nil, 500, 0},
		{&action.Song{Op: action.SongPlay}, 500, 500},
		{&action.Song{Op: action.SongSetRate, Value: 1.5}, 200, 800},
		{&action.Song{Op: action.SongPause}, 1000, 800},
		{&action.Song{Op: action.SongSeek, Value: 3000}, 100, 3000},
		{&action.Song{Op: action.SongPlay}, 100, 3150},
		{&action.Song{Op: action.SongSeek, Value: -20}, 0, 0},
		{&action.Song{Op: action.SongRestart}, 300, 0},
	}
	for i, step := range steps {
		if step.op != nil {
			c.Execute(*step.op)
		}
		advance(step.advance)
		if got := c.Position(); got != step.expected {
			t.Errorf("step %d: expected %v, got %v", i, step.expected, got)
		}
	}
	if !c.Execute(action.PlaySound{}) || c.Execute(action.Notification{}) {
		t.Error("unexpected action handling")
	}
}
