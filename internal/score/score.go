// Package score holds the running result of a play session.
package score

import (
	"math"

	"git.lost.host/meutraa/tempo/internal/game"
)

type Score struct {
	Username  string    `json:"username"`
	ChartHash string    `json:"chart_hash"`
	Mode      string    `json:"mode"`
	Mods      game.Mods `json:"mods"`

	Score    int64 `json:"score"`
	Combo    int   `json:"combo"`
	MaxCombo int   `json:"max_combo"`
	// Judgements counts judgements by ID.
	Judgements map[string]int `json:"judgements"`
	// HitTimings holds the hit deltas (ms) of every timed hit.
	HitTimings []float64 `json:"hit_timings,omitempty"`

	Accuracy    float64 `json:"accuracy"`
	Performance float64 `json:"performance"`
}

func New(username, chartHash, mode string, mods game.Mods) Score {
	return Score{
		Username:   username,
		ChartHash:  chartHash,
		Mode:       mode,
		Mods:       mods,
		Judgements: map[string]int{},
	}
}

// Count returns how many times j was recorded.
func (s *Score) Count(j game.Judgement) int {
	return s.Judgements[j.ID]
}

// Record adds n judgements of kind j; n may be negative when a
// judgement is replaced.
func (s *Score) Record(j game.Judgement, n int) {
	if s.Judgements == nil {
		s.Judgements = map[string]int{}
	}
	s.Judgements[j.ID] += n
	if s.Judgements[j.ID] <= 0 {
		delete(s.Judgements, j.ID)
	}
}

// ApplyCombo updates combo and max combo for a judgement's combo effect.
func (s *Score) ApplyCombo(effect game.ComboEffect) {
	switch effect {
	case game.ComboIncrement:
		s.Combo++
		if s.Combo > s.MaxCombo {
			s.MaxCombo = s.Combo
		}
	case game.ComboReset:
		s.Combo = 0
	}
}

// Mean is the mean hit delta in ms.
func (s *Score) Mean() float64 {
	if len(s.HitTimings) == 0 {
		return 0
	}
	sum := 0.0
	for _, d := range s.HitTimings {
		sum += d
	}
	return sum / float64(len(s.HitTimings))
}

// Stdev is the sample standard deviation of the hit deltas.
func (s *Score) Stdev() float64 {
	n := len(s.HitTimings)
	if n < 2 {
		return 0
	}
	mean := s.Mean()
	stdev := 0.0
	for _, d := range s.HitTimings {
		xi := d - mean
		stdev += xi * xi
	}
	stdev /= float64(n - 1)
	return math.Sqrt(stdev)
}

// Clone returns a deep copy safe to hand to the host.
func (s Score) Clone() Score {
	c := s
	c.Judgements = make(map[string]int, len(s.Judgements))
	for k, v := range s.Judgements {
		c.Judgements[k] = v
	}
	c.HitTimings = append([]float64(nil), s.HitTimings...)
	return c
}

// Performance is a rating derived from accuracy, combo and chart
// difficulty. It is recomputed every frame.
func Performance(accuracy float64, maxCombo, chartMaxCombo, misses int, stars float64) float64 {
	if stars <= 0 {
		stars = 1
	}
	comboFactor := 1.0
	if chartMaxCombo > 0 {
		comboFactor = math.Pow(math.Min(1, float64(maxCombo)/float64(chartMaxCombo)), 0.8)
	}
	missFactor := math.Pow(0.97, float64(misses))
	return 100 * stars * math.Pow(accuracy, 4) * comboFactor * missFactor
}
