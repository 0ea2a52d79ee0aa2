package audio

import (
	"time"

	"git.lost.host/meutraa/tempo/internal/action"
)

// Transport is what the host reads song time from and hands song
// actions to.
type Transport interface {
	Position() float64
	Execute(a action.Action) bool
}

// Clock is a silent transport that keeps song time from a clock. It
// stands in for a Song when there is no audio or no device, and drives
// headless simulation.
type Clock struct {
	clock   func() time.Time
	playing bool
	base    float64
	since   time.Time
	rate    float64
}

func NewClock(clock func() time.Time) *Clock {
	if clock == nil {
		clock = time.Now
	}
	return &Clock{clock: clock, rate: 1}
}

func (c *Clock) Position() float64 {
	if !c.playing {
		return c.base
	}
	return c.base + float64(c.clock().Sub(c.since))/float64(time.Millisecond)*c.rate
}

func (c *Clock) Paused() bool {
	return !c.playing
}

// Execute handles song actions; sounds are accepted and dropped.
func (c *Clock) Execute(a action.Action) bool {
	switch a := a.(type) {
	case action.PlaySound:
	case action.Song:
		c.song(a)
	default:
		return false
	}
	return true
}

func (c *Clock) song(a action.Song) {
	// Rebase so the change applies from now on.
	c.base = c.Position()
	c.since = c.clock()
	switch a.Op {
	case action.SongPlay:
		c.playing = true
	case action.SongPause:
		c.playing = false
	case action.SongRestart:
		c.playing = false
		c.base = 0
	case action.SongSeek:
		c.base = max(a.Value, 0)
	case action.SongSetRate:
		if a.Value > 0 {
			c.rate = a.Value
		} else {
			c.playing = false
		}
	}
}
