package replay

import (
	"errors"

	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/score"
)

var ErrNonMonotonic = errors.New("replay frame earlier than previous frame")

// Replay is an append-only, time ordered sequence of frames plus the
// session it was recorded in.
type Replay struct {
	ChartHash string
	Mode      string
	Username  string
	Mods      game.Mods
	Frames    []Frame
	// Score is the final score of the recorded session, nil while recording.
	Score *score.Score
}

// Append adds a frame. Frames must be non-decreasing in time.
func (r *Replay) Append(f Frame) error {
	if n := len(r.Frames); n > 0 && f.Time < r.Frames[n-1].Time {
		return ErrNonMonotonic
	}
	r.Frames = append(r.Frames, f)
	return nil
}

// LastTime is the time of the last frame, 0 for an empty replay.
func (r *Replay) LastTime() float64 {
	if len(r.Frames) == 0 {
		return 0
	}
	return r.Frames[len(r.Frames)-1].Time
}

// Cursor walks a replay in time order.
type Cursor struct {
	replay *Replay
	next   int
}

func NewCursor(r *Replay) *Cursor {
	return &Cursor{replay: r}
}

// Peek returns the time of the next unread frame.
func (c *Cursor) Peek() (float64, bool) {
	if c.replay == nil || c.next >= len(c.replay.Frames) {
		return 0, false
	}
	return c.replay.Frames[c.next].Time, true
}

// Until returns every unread frame with time <= t.
func (c *Cursor) Until(t float64) []Frame {
	if c.replay == nil {
		return nil
	}
	start := c.next
	for c.next < len(c.replay.Frames) && c.replay.Frames[c.next].Time <= t {
		c.next++
	}
	return c.replay.Frames[start:c.next]
}

// Seek positions the cursor at the first frame with time >= t.
func (c *Cursor) Seek(t float64) {
	c.next = 0
	if c.replay == nil {
		return
	}
	for c.next < len(c.replay.Frames) && c.replay.Frames[c.next].Time < t {
		c.next++
	}
}

func (c *Cursor) Done() bool {
	return c.replay == nil || c.next >= len(c.replay.Frames)
}
