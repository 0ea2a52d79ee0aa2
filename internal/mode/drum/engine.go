// Package drum implements the two colour drum mode.
package drum

import (
	"math"
	"sort"

	"git.lost.host/meutraa/tempo/internal/config"
	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/health"
	"git.lost.host/meutraa/tempo/internal/mode"
	"git.lost.host/meutraa/tempo/internal/replay"
	"git.lost.host/meutraa/tempo/internal/score"
	"git.lost.host/meutraa/tempo/internal/timing"
	"git.lost.host/meutraa/tempo/internal/window"
)

const Name = game.ModeDrum

// FinisherWindow is how soon after a hit a second press of the same
// colour upgrades a big note.
const FinisherWindow = 50.0

// BatteryPass is the battery level needed at the end of the chart.
const BatteryPass = 0.5

type lastHit struct {
	valid     bool
	index     int
	time      float64
	side      Kind
	judgement game.Judgement
}

type Engine struct {
	chart   *game.Chart
	diff    game.Difficulty
	windows *window.Table
	timing  *timing.Index

	notes  []*Note
	first  int
	hitMax int

	last     lastHit
	swapped  bool
	time     float64
	complete bool
	auto     *mode.Autopilot
}

func New(chart *game.Chart, mods game.Mods) *Engine {
	e := &Engine{
		chart:  chart,
		diff:   chart.Difficulty.Adjusted(mods),
		timing: timing.New(chart.Timing),
	}
	e.windows = Windows(e.diff.OD)
	defs := make([]*game.NoteDef, len(chart.Notes))
	for i := range chart.Notes {
		defs[i] = &chart.Notes[i]
	}
	sort.SliceStable(defs, func(i, j int) bool { return defs[i].Time < defs[j].Time })
	for i, d := range defs {
		n := newNote(d, i, e.windows.HitBoundary(), e.diff.OD)
		if n.IsHitObject() {
			e.hitMax++
		}
		e.notes = append(e.notes, n)
	}
	e.auto = mode.NewAutopilot(e.plan())
	e.Reset()
	return e
}

func (e *Engine) Name() string           { return Name }
func (e *Engine) Windows() *window.Table { return e.windows }
func (e *Engine) Complete() bool         { return e.complete }
func (e *Engine) MaxCombo() int          { return e.hitMax }

func (e *Engine) EndTime() float64 {
	return e.chart.EndTime() + e.windows.MissBoundary()
}

func (e *Engine) Notes() []mode.Note {
	ns := make([]mode.Note, len(e.notes))
	for i, n := range e.notes {
		ns[i] = n
	}
	return ns
}

var drumKeys = [...]replay.Key{replay.LeftKat, replay.LeftDon, replay.RightDon, replay.RightKat}

func (e *Engine) KeyFor(r rune, s *config.Settings) (replay.Key, bool) {
	i := config.KeyIndex(s.Keys.Drum, r)
	if i < 0 || i >= len(drumKeys) {
		return replay.KeyNone, false
	}
	return drumKeys[i], true
}

func side(k replay.Key) (Kind, bool) {
	switch k {
	case replay.LeftDon, replay.RightDon:
		return Don, true
	case replay.LeftKat, replay.RightKat:
		return Kat, true
	}
	return 0, false
}

func (e *Engine) Reset() {
	for _, n := range e.notes {
		n.Reset()
	}
	e.first = 0
	e.last = lastHit{}
	e.swapped = false
	e.time = math.Inf(-1)
	e.complete = false
	e.auto.Reset()
}

func (e *Engine) JumpTo(t float64) {
	e.Reset()
	e.first = mode.SkipBefore(e.notes, t)
	e.time = t
	e.auto.Seek(t)
}

func (e *Engine) Update(st *mode.UpdateState) {
	if !e.swapped {
		e.swapped = true
		st.Emit(mode.HealthSwap{Health: health.NewBattery(e.HealthDelta, BatteryPass)})
	}
	if st.Mods.Autoplay || st.Mods.Relax {
		e.auto.Run(st.Time, st, func(f replay.Frame) {
			e.HandleReplayFrame(f, st)
		})
	}
	e.advance(st.Time, st)
	if !e.complete && st.Time >= e.EndTime() && e.first >= len(e.notes) {
		e.complete = true
		st.Emit(mode.Completed{Time: st.Time})
	}
}

func (e *Engine) HandleReplayFrame(f replay.Frame, st *mode.UpdateState) {
	e.advance(f.Time, st)
	if f.Action.Kind != replay.Press {
		return
	}
	s, ok := side(f.Action.Key)
	if !ok {
		return
	}
	e.press(s, f.Time, st)
}

func (e *Engine) advance(t float64, st *mode.UpdateState) {
	if t < e.time {
		return
	}
	e.time = t
	for {
		i, ok := mode.NextDue(e.notes, e.first, t)
		if !ok {
			break
		}
		n := e.notes[i]
		at := n.Due()
		if n.IsHitObject() {
			if n.ResolveMiss() {
				st.Judge(n.index, Miss, at, game.Point{})
			}
		} else {
			// Rolls and denden notes end without a judgement of their own.
			n.ResolveHit(at)
		}
	}
	e.first = mode.FirstUnresolved(e.notes, e.first)
}

func (e *Engine) press(s Kind, t float64, st *mode.UpdateState) {
	// A second press of the same colour right after a hit on a big note
	// upgrades that hit. Only the index of the last hit is checked.
	if l := e.last; l.valid && s == l.side && t-l.time <= FinisherWindow && l.judgement != Miss {
		if n := e.notes[l.index]; n.big {
			if to, ok := finisher(l.judgement); ok {
				e.last.valid = false
				st.Emit(mode.Upgraded{Note: l.index, From: l.judgement, To: to, Time: t})
				st.PlaySound(game.Hitsound{Finish: true}, 0, t)
				return
			}
		}
	}

	for _, n := range e.notes[e.first:] {
		if n.Time() > t {
			break
		}
		if n.WasHit() || n.IsHitObject() {
			continue
		}
		e.spin(n, s, t, st)
		return
	}

	for _, n := range e.notes[e.first:] {
		if n.Time()-t >= e.windows.MissBoundary() {
			break
		}
		if n.WasHit() || !n.IsHitObject() {
			continue
		}
		delta := t - n.Time()
		j, ok := e.windows.Classify(delta)
		if !ok {
			continue
		}
		if s != n.kind {
			j = Miss
		}
		if j == Miss {
			if n.ResolveMiss() {
				st.Judge(n.index, Miss, t, game.Point{})
			}
		} else if n.ResolveHit(t) {
			st.JudgeTimed(n.index, j, t, delta, game.Point{})
			st.PlaySound(n.def.Hitsound, 0, t)
		}
		e.last = lastHit{valid: true, index: n.index, time: t, side: s, judgement: j}
		e.first = mode.FirstUnresolved(e.notes, e.first)
		return
	}

	e.ghost(s, t, st)
}

// spin counts a press on an active roll or denden note.
func (e *Engine) spin(n *Note, s Kind, t float64, st *mode.UpdateState) {
	switch n.kind {
	case Roll:
		n.hits++
		st.Judge(n.index, DrumrollTick, t, game.Point{})
		st.PlaySound(sideSound(s), 0, t)
	case DenDen:
		if n.hits > 0 && s == n.lastSide {
			return
		}
		n.hits++
		n.lastSide = s
		st.Judge(n.index, DenDenHit, t, game.Point{})
		st.PlaySound(sideSound(s), 0, t)
		if n.hits >= n.required && n.ResolveHit(t) {
			st.Judge(n.index, DenDenComplete, t, game.Point{})
			e.first = mode.FirstUnresolved(e.notes, e.first)
		}
	}
}

func (e *Engine) ghost(s Kind, t float64, st *mode.UpdateState) {
	st.PlaySound(sideSound(s), 0, t)
}

func sideSound(s Kind) game.Hitsound {
	if s == Kat {
		return game.Hitsound{Clap: true}
	}
	return game.Hitsound{Normal: true}
}

// HealthDelta fills the battery so that a full chart of greats reaches
// the top with room to spare.
func (e *Engine) HealthDelta(j game.Judgement) float64 {
	gain := 1 / (0.6 * float64(max(e.hitMax, 1)))
	switch j {
	case Great, GreatFinisher:
		return gain
	case Good, GoodFinisher:
		return gain / 2
	case Miss:
		return -gain * window.Map(e.diff.HP, 1, 2, 4)
	}
	return 0
}

func (e *Engine) Accuracy(s *score.Score) float64 {
	great := float64(s.Count(Great) + s.Count(GreatFinisher))
	good := float64(s.Count(Good) + s.Count(GoodFinisher))
	total := great + good + float64(s.Count(Miss))
	if total == 0 {
		return 1
	}
	return (great + good/2) / total
}
