package game

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Modes understood by the gameplay core.
const (
	ModeTap    = "tap"
	ModeColumn = "column"
	ModeDrum   = "drum"
)

type Break struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (b Break) Contains(t float64) bool {
	return t >= b.Start && t < b.End
}

type Measure struct {
	Denom int     // The beat length, as a denominator, 4 = 1/4 beat
	Time  float64 // ms
}

type Chart struct {
	Hash       string        `json:"hash"`
	Title      string        `json:"title"`
	Artist     string        `json:"artist"`
	Version    string        `json:"version"`
	Mode       string        `json:"mode"`
	AudioFile  string        `json:"audio_file,omitempty"`
	Difficulty Difficulty    `json:"difficulty"`
	StarRating float64       `json:"star_rating,omitempty"`
	Timing     []TimingPoint `json:"timing"`
	Notes      []NoteDef     `json:"notes"`
	Breaks     []Break       `json:"breaks,omitempty"`
	Measures   []Measure     `json:"-"`

	NoteCount int64 `json:"-"`
	HoldCount int64 `json:"-"`
	MineCount int64 `json:"-"`
}

// EndTime is the time of the last note end in the chart.
func (c *Chart) EndTime() float64 {
	end := 0.0
	for _, n := range c.Notes {
		if n.Time > end {
			end = n.Time
		}
		if n.EndTime > end {
			end = n.EndTime
		}
	}
	return end
}

// FirstNoteTime returns 0 for an empty chart.
func (c *Chart) FirstNoteTime() float64 {
	if len(c.Notes) == 0 {
		return 0
	}
	return c.Notes[0].Time
}

// InBreak reports whether t falls within a break region.
func (c *Chart) InBreak(t float64) bool {
	for _, b := range c.Breaks {
		if b.Contains(t) {
			return true
		}
	}
	return false
}

// ComputeHash fills Hash from the note and timing content when the loader
// did not provide one.
func (c *Chart) ComputeHash() string {
	if c.Hash != "" {
		return c.Hash
	}
	data, _ := json.Marshal(struct {
		Mode   string
		Timing []TimingPoint
		Notes  []NoteDef
	}{c.Mode, c.Timing, c.Notes})
	sum := sha256.Sum256(data)
	c.Hash = hex.EncodeToString(sum[:])
	return c.Hash
}
