// Package column implements the scrolling column mode: one key per column,
// taps and holds.
package column

import (
	"math"
	"sort"

	"git.lost.host/meutraa/tempo/internal/config"
	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/mode"
	"git.lost.host/meutraa/tempo/internal/replay"
	"git.lost.host/meutraa/tempo/internal/score"
	"git.lost.host/meutraa/tempo/internal/timing"
	"git.lost.host/meutraa/tempo/internal/window"
)

const Name = game.ModeColumn

type Engine struct {
	chart   *game.Chart
	diff    game.Difficulty
	nKeys   int
	windows *window.Table

	notes   []*Note
	columns [][]*Note
	// colNext is the first note per column that is neither started nor
	// resolved.
	colNext []int
	first   int
	pressed []bool
	holding []*Note

	time     float64
	complete bool
	auto     *mode.Autopilot
}

func New(chart *game.Chart, mods game.Mods) *Engine {
	e := &Engine{
		chart: chart,
		diff:  chart.Difficulty.Adjusted(mods),
	}
	e.windows = Windows(e.diff.OD)
	e.nKeys = int(e.diff.NKeys)
	for _, d := range chart.Notes {
		if d.Column+1 > e.nKeys {
			e.nKeys = d.Column + 1
		}
	}
	e.nKeys = min(max(e.nKeys, 1), replay.MaxColumns)

	defs := make([]*game.NoteDef, 0, len(chart.Notes))
	for i := range chart.Notes {
		if chart.Notes[i].Column < e.nKeys {
			defs = append(defs, &chart.Notes[i])
		}
	}
	sort.SliceStable(defs, func(i, j int) bool { return defs[i].Time < defs[j].Time })

	idx := timing.New(chart.Timing)
	e.columns = make([][]*Note, e.nKeys)
	for i, d := range defs {
		interval := idx.At(d.Time).BeatLength / e.diff.SliderTickRate
		n := newNote(d, i, e.windows.MissBoundary(), interval)
		e.notes = append(e.notes, n)
		e.columns[d.Column] = append(e.columns[d.Column], n)
	}
	e.auto = mode.NewAutopilot(e.plan())
	e.Reset()
	return e
}

func (e *Engine) Name() string                { return Name }
func (e *Engine) Windows() *window.Table      { return e.windows }
func (e *Engine) Complete() bool              { return e.complete }
func (e *Engine) Keys() int                   { return e.nKeys }
func (e *Engine) Difficulty() game.Difficulty { return e.diff }

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

func (e *Engine) KeyFor(r rune, s *config.Settings) (replay.Key, bool) {
	col := s.Keys.KeyColumn(r, e.nKeys)
	if col < 0 {
		return replay.KeyNone, false
	}
	return replay.Column(col), true
}

func (e *Engine) Reset() {
	for _, n := range e.notes {
		n.Reset()
	}
	e.colNext = make([]int, e.nKeys)
	e.pressed = make([]bool, e.nKeys)
	e.holding = make([]*Note, e.nKeys)
	e.first = 0
	e.time = math.Inf(-1)
	e.complete = false
	e.auto.Reset()
}

func (e *Engine) JumpTo(t float64) {
	e.Reset()
	e.first = mode.SkipBefore(e.notes, t)
	for c := range e.columns {
		e.colNext[c] = e.nextInColumn(c)
	}
	e.time = t
	e.auto.Seek(t)
}

func (e *Engine) Update(st *mode.UpdateState) {
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
	col, ok := f.Action.Key.ColumnIndex()
	if !ok || col >= e.nKeys {
		return
	}
	switch f.Action.Kind {
	case replay.Press:
		e.press(col, f.Time, st)
	case replay.Release:
		e.release(col, f.Time, st)
	}
}

// advance resolves every miss, tick and hold end up to t in time order.
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
		e.process(e.notes[i], st)
	}
	e.first = mode.FirstUnresolved(e.notes, e.first)
}

func (e *Engine) process(n *Note, st *mode.UpdateState) {
	at := n.Due()
	col := n.Column()
	if !n.IsHold() {
		if n.ResolveMiss() {
			st.Judge(n.index, Miss, at, e.pos(col))
		}
		e.colNext[col] = e.nextInColumn(col)
		return
	}
	if !n.started && at >= n.def.Time+n.deadline {
		n.started = true
		n.head = Miss
		e.holding[col] = n
		e.colNext[col] = e.nextInColumn(col)
	}
	for n.nextTick < len(n.ticks) && n.ticks[n.nextTick] <= at {
		tick := n.ticks[n.nextTick]
		n.nextTick++
		if n.grabbed {
			n.ticksHit++
			st.Judge(n.index, HoldTick, tick, e.pos(col))
		} else {
			st.Judge(n.index, HoldTickMiss, tick, e.pos(col))
		}
	}
	if n.started && at >= n.def.EndTime {
		e.resolveHold(n, n.grabbed, at, st)
	}
}

func (e *Engine) press(col int, t float64, st *mode.UpdateState) {
	e.pressed[col] = true
	if h := e.holding[col]; h != nil && t < h.def.EndTime {
		// Regrab of a hold that was let go early.
		if !h.grabbed {
			h.grabbed = true
			st.PlaySound(h.def.Hitsound, e.pan(col), t)
		}
		return
	}

	// The closest unjudged note in the column, earliest on ties.
	var closest *Note
	best := math.Inf(1)
	for _, n := range e.columns[col][e.colNext[col]:] {
		if n.WasHit() || n.started {
			continue
		}
		d := math.Abs(t - n.def.Time)
		if d < best {
			best = d
			closest = n
		} else {
			break
		}
	}
	if closest == nil || !e.windows.Checkable(t-closest.def.Time) {
		e.ghost(col, t, st)
		return
	}

	n := closest
	delta := t - n.def.Time
	j, _ := e.windows.Classify(delta)
	if !n.IsHold() {
		if j == Miss {
			if n.ResolveMiss() {
				st.Judge(n.index, Miss, t, e.pos(col))
			}
		} else if n.ResolveHit(t) {
			st.JudgeTimed(n.index, j, t, delta, e.pos(col))
			st.PlaySound(n.def.Hitsound, e.pan(col), t)
		}
		e.colNext[col] = e.nextInColumn(col)
		e.first = mode.FirstUnresolved(e.notes, e.first)
		return
	}

	n.started = true
	n.grabbed = true
	n.head = j
	if j != Miss {
		n.headHit = true
		n.headDelta = delta
		st.PlaySound(n.def.Hitsound, e.pan(col), t)
	}
	e.holding[col] = n
	e.colNext[col] = e.nextInColumn(col)
}

func (e *Engine) release(col int, t float64, st *mode.UpdateState) {
	e.pressed[col] = false
	h := e.holding[col]
	if h == nil || !h.grabbed {
		return
	}
	// Only a release inside the end window finalizes the hold.
	if t >= h.def.EndTime-e.windows.MissBoundary() {
		e.resolveHold(h, true, t, st)
		return
	}
	h.grabbed = false
}

// resolveHold judges a hold on the ticks sampled so far. Ticks after an
// early release in the end window are not counted.
func (e *Engine) resolveHold(n *Note, held bool, t float64, st *mode.UpdateState) {
	end := mode.EndJudgement(n.ticksHit, n.nextTick, held, e.windows.Best(), Perfect, Miss)
	j := e.windows.Worse(n.head, end)
	if j == Miss {
		if n.ResolveMiss() {
			st.Judge(n.index, Miss, t, e.pos(n.Column()))
		}
	} else if n.ResolveHit(t) {
		if n.headHit {
			st.JudgeTimed(n.index, j, t, n.headDelta, e.pos(n.Column()))
		} else {
			st.Judge(n.index, j, t, e.pos(n.Column()))
		}
	}
	n.grabbed = false
	if e.holding[n.Column()] == n {
		e.holding[n.Column()] = nil
	}
	e.first = mode.FirstUnresolved(e.notes, e.first)
}

// ghost plays the next note's sound for a press that hits nothing.
func (e *Engine) ghost(col int, t float64, st *mode.UpdateState) {
	h := game.Hitsound{Normal: true}
	if i := e.colNext[col]; i < len(e.columns[col]) {
		h = e.columns[col][i].def.Hitsound
	}
	st.PlaySound(h, e.pan(col), t)
}

func (e *Engine) nextInColumn(col int) int {
	i := e.colNext[col]
	ns := e.columns[col]
	for i < len(ns) && (ns[i].WasHit() || ns[i].started) {
		i++
	}
	return i
}

func (e *Engine) pos(col int) game.Point {
	return game.Point{X: float64(col)}
}

func (e *Engine) pan(col int) float64 {
	if e.nKeys <= 1 {
		return 0
	}
	return float64(col)/float64(e.nKeys-1)*2 - 1
}

func (e *Engine) HealthDelta(j game.Judgement) float64 {
	switch j {
	case Marvelous, Perfect:
		return 0.01
	case Great:
		return 0.005
	case Bad:
		return -window.Map(e.diff.HP, 0.02, 0.04, 0.08)
	case Miss:
		return -window.Map(e.diff.HP, 0.05, 0.08, 0.15)
	case HoldTickMiss:
		return -0.005
	}
	return 0
}

var accuracyWeights = []struct {
	j game.Judgement
	w float64
}{
	{Marvelous, 300}, {Perfect, 300}, {Great, 200}, {Good, 100}, {Bad, 50}, {Miss, 0},
}

// Accuracy weights each judgement against a perfect 300.
func (e *Engine) Accuracy(s *score.Score) float64 {
	var sum, total float64
	for _, a := range accuracyWeights {
		c := float64(s.Count(a.j))
		sum += c * a.w
		total += c * 300
	}
	if total == 0 {
		return 1
	}
	return sum / total
}

func (e *Engine) MaxCombo() int {
	return len(e.notes)
}
