// Package modetest drives engines with timed frames for tests.
package modetest

import (
	"math"
	"sort"

	"git.lost.host/meutraa/tempo/internal/config"
	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/mode"
	"git.lost.host/meutraa/tempo/internal/replay"
)

type Result struct {
	Judged    []mode.Judged
	Upgraded  []mode.Upgraded
	Sounds    int
	Completed int
	Swaps     int
	// Frames are the synthesized frames, time ordered.
	Frames []replay.Frame
}

// Major returns the judgements that resolve notes.
func (r *Result) Major() []mode.Judged {
	var js []mode.Judged
	for _, j := range r.Judged {
		if !j.Judgement.Minor {
			js = append(js, j)
		}
	}
	return js
}

// Count counts judgements of one kind.
func (r *Result) Count(j game.Judgement) int {
	n := 0
	for _, got := range r.Judged {
		if got.Judgement == j {
			n++
		}
	}
	return n
}

// PerNote counts resolving judgements per note index.
func (r *Result) PerNote() map[int]int {
	m := map[int]int{}
	for _, j := range r.Major() {
		m[j.Note]++
	}
	return m
}

func (r *Result) collect(st *mode.UpdateState) {
	for _, ev := range st.Events() {
		switch ev := ev.(type) {
		case mode.Judged:
			r.Judged = append(r.Judged, ev)
		case mode.Upgraded:
			r.Upgraded = append(r.Upgraded, ev)
		case mode.Sound:
			r.Sounds++
		case mode.Completed:
			r.Completed++
		case mode.HealthSwap:
			r.Swaps++
		}
	}
}

// Play feeds frames to an engine, updating every step ms from start until
// end. Frames are applied before the update that passes their time.
func Play(e mode.Engine, mods game.Mods, frames []replay.Frame, start, step, end float64) *Result {
	settings := config.Default()
	r := &Result{}
	i := 0
	for t := start; ; t = math.Min(t+step, end) {
		for i < len(frames) && frames[i].Time <= t {
			st := mode.NewUpdateState(frames[i].Time, mods, &settings)
			e.HandleReplayFrame(frames[i], st)
			r.collect(st)
			i++
		}
		st := mode.NewUpdateState(t, mods, &settings)
		e.Update(st)
		rec, def := st.Frames()
		for _, f := range def {
			e.HandleReplayFrame(f, st)
		}
		synth := append(rec, def...)
		sort.SliceStable(synth, func(a, b int) bool { return synth[a].Time < synth[b].Time })
		r.Frames = append(r.Frames, synth...)
		r.collect(st)
		if t >= end {
			break
		}
	}
	return r
}
