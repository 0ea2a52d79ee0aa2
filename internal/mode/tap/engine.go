// Package tap implements the aim and tap mode: circles, sliders and
// spinners on a 512x384 playfield.
package tap

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

const Name = game.ModeTap

type Engine struct {
	chart   *game.Chart
	diff    game.Difficulty
	windows *window.Table
	timing  *timing.Index
	radius  float64
	follow  float64

	notes    []*Note
	first    int
	maxCombo int

	cursor game.Point
	held   map[replay.Key]bool

	time     float64
	complete bool
	auto     *mode.Autopilot

	// relax synthesized releases not yet handed out
	relaxKey      int
	relaxReleases []replay.Frame
}

func New(chart *game.Chart, mods game.Mods) *Engine {
	e := &Engine{
		chart:  chart,
		diff:   chart.Difficulty.Adjusted(mods),
		timing: timing.New(chart.Timing),
	}
	e.windows = Windows(e.diff.OD)
	e.radius = CircleRadius(e.diff.CS)
	e.follow = FollowRadius(e.diff.CS)

	defs := make([]*game.NoteDef, len(chart.Notes))
	for i := range chart.Notes {
		defs[i] = &chart.Notes[i]
	}
	sort.SliceStable(defs, func(i, j int) bool { return defs[i].Time < defs[j].Time })
	spins := SpinsPerSecond(e.diff.OD)
	for i, d := range defs {
		interval := e.timing.At(d.Time).BeatLength / e.diff.SliderTickRate
		n := newNote(d, i, e.windows.HitBoundary(), interval, spins)
		switch {
		case n.IsSlider():
			e.maxCombo += 2 + len(n.ticks)
		default:
			e.maxCombo++
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
func (e *Engine) MaxCombo() int          { return e.maxCombo }
func (e *Engine) Radius() float64        { return e.radius }

// Cursor is the last known cursor position in playfield units.
func (e *Engine) Cursor() game.Point { return e.cursor }

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
	switch config.KeyIndex(s.Keys.Tap, r) {
	case 0:
		return replay.Left, true
	case 1:
		return replay.Right, true
	}
	return replay.KeyNone, false
}

func (e *Engine) Reset() {
	for _, n := range e.notes {
		n.Reset()
	}
	e.first = 0
	e.cursor = FieldCenter
	e.held = map[replay.Key]bool{}
	e.time = math.Inf(-1)
	e.complete = false
	e.relaxKey = 0
	e.relaxReleases = nil
	e.auto.Reset()
}

func (e *Engine) JumpTo(t float64) {
	e.Reset()
	e.first = mode.SkipBefore(e.notes, t)
	e.time = t
	e.auto.Seek(t)
}

func (e *Engine) Update(st *mode.UpdateState) {
	if st.Mods.Autoplay {
		e.auto.Run(st.Time, st, func(f replay.Frame) {
			e.HandleReplayFrame(f, st)
		})
	}
	e.advance(st.Time, st)

	kept := e.relaxReleases[:0]
	for _, f := range e.relaxReleases {
		if f.Time <= st.Time {
			st.Defer(f)
			continue
		}
		kept = append(kept, f)
	}
	e.relaxReleases = kept

	if !e.complete && st.Time >= e.EndTime() && e.first >= len(e.notes) {
		e.complete = true
		st.Emit(mode.Completed{Time: st.Time})
	}
}

func (e *Engine) HandleReplayFrame(f replay.Frame, st *mode.UpdateState) {
	e.advance(f.Time, st)
	switch f.Action.Kind {
	case replay.Press:
		e.press(f.Action.Key, f.Time, st)
	case replay.Release:
		delete(e.held, f.Action.Key)
	case replay.CursorMove:
		e.move(f.Action.Pos, f.Time, st)
	}
}

func (e *Engine) relax(st *mode.UpdateState) bool {
	return st.Mods.Relax && !st.Mods.Autoplay
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
		e.process(e.notes[i], st)
	}
	e.first = mode.FirstUnresolved(e.notes, e.first)
}

func (e *Engine) process(n *Note, st *mode.UpdateState) {
	at := n.Due()
	if !n.checked && at >= n.Time() {
		n.checked = true
		if e.relax(st) && (n.IsSpinner() || e.cursor.Distance(n.def.Pos) <= e.radius) {
			e.relaxPress(n, at, st)
		}
		return
	}

	switch {
	case n.IsSpinner():
		if at >= n.EndTime() {
			done := min(n.rotations, n.required)
			j := mode.EndJudgement(done, n.required, n.rotations >= n.required, X300, X100, Miss)
			e.resolve(n, j, at, FieldCenter, st)
		}
	case n.IsSlider():
		if !n.started && at >= math.Min(n.Time()+n.deadline, n.EndTime()) {
			n.started = true
			n.headMiss = true
			st.Judge(n.index, SliderTickMiss, at, n.def.Pos)
		}
		for n.nextTick < len(n.ticks) && n.ticks[n.nextTick] <= at {
			tick := n.ticks[n.nextTick]
			n.nextTick++
			if e.tracking(n, tick) {
				n.ticksHit++
				st.Judge(n.index, SliderTick, tick, n.BallAt(tick))
			} else {
				st.Judge(n.index, SliderTickMiss, tick, n.BallAt(tick))
			}
		}
		if at >= n.EndTime() {
			j := mode.EndJudgement(n.ticksHit, len(n.ticks), e.tracking(n, at), X300, X100, Miss)
			if n.headMiss && j == X300 {
				j = X100
			}
			e.resolve(n, j, at, n.EndPos(), st)
		}
	default:
		if at >= n.Time()+n.deadline && n.ResolveMiss() {
			st.Judge(n.index, Miss, at, n.def.Pos)
		}
	}
}

func (e *Engine) resolve(n *Note, j game.Judgement, t float64, pos game.Point, st *mode.UpdateState) {
	if j == Miss {
		if n.ResolveMiss() {
			st.Judge(n.index, j, t, pos)
		}
		return
	}
	if n.ResolveHit(t) {
		st.Judge(n.index, j, t, pos)
		st.PlaySound(n.def.Hitsound, e.pan(pos), t)
	}
}

// tracking reports whether the cursor follows the slider ball at t.
func (e *Engine) tracking(n *Note, t float64) bool {
	return len(e.held) > 0 && e.cursor.Distance(n.BallAt(t)) <= e.follow
}

func (e *Engine) press(k replay.Key, t float64, st *mode.UpdateState) {
	switch k {
	case replay.Left, replay.Right, replay.LeftMouse, replay.RightMouse:
	default:
		return
	}
	e.held[k] = true

	for _, n := range e.notes[e.first:] {
		if n.Time()-t >= e.windows.MissBoundary() {
			break
		}
		if n.WasHit() || n.IsSpinner() || n.started {
			continue
		}
		delta := t - n.Time()
		if !e.windows.Checkable(delta) || e.cursor.Distance(n.def.Pos) > e.radius {
			continue
		}
		j, _ := e.windows.Classify(delta)
		if n.IsSlider() {
			n.started = true
			if j == Miss {
				n.headMiss = true
				st.Judge(n.index, SliderTickMiss, t, n.def.Pos)
				return
			}
			st.JudgeTimed(n.index, SliderTick, t, delta, n.def.Pos)
			st.PlaySound(n.def.Hitsound, e.pan(n.def.Pos), t)
			return
		}
		if j == Miss {
			if n.ResolveMiss() {
				st.Judge(n.index, Miss, t, n.def.Pos)
			}
		} else if n.ResolveHit(t) {
			st.JudgeTimed(n.index, j, t, delta, n.def.Pos)
			st.PlaySound(n.def.Hitsound, e.pan(n.def.Pos), t)
		}
		e.first = mode.FirstUnresolved(e.notes, e.first)
		return
	}
	st.PlaySound(game.Hitsound{Normal: true}, e.pan(e.cursor), t)
}

func (e *Engine) move(p game.Point, t float64, st *mode.UpdateState) {
	prev := e.cursor
	e.cursor = p
	if len(e.held) == 0 {
		return
	}
	for _, n := range e.notes[e.first:] {
		if n.Time() > t {
			break
		}
		if !n.IsSpinner() || n.WasHit() || t >= n.EndTime() {
			continue
		}
		n.angle += math.Abs(angleDelta(FieldCenter, prev, p))
		for rot := int(n.angle / (2 * math.Pi)); n.rotations < rot; {
			n.rotations++
			if n.rotations <= n.required {
				st.Judge(n.index, SpinnerSpin, t, FieldCenter)
			} else {
				st.Judge(n.index, SpinnerBonus, t, FieldCenter)
			}
		}
	}
}

var relaxKeys = [...]replay.Key{replay.Left, replay.Right}

// relaxPress presses for the player when the cursor is already on the
// note, releasing at the note end.
func (e *Engine) relaxPress(n *Note, t float64, st *mode.UpdateState) {
	k := relaxKeys[e.relaxKey%len(relaxKeys)]
	e.relaxKey++
	kept := e.relaxReleases[:0]
	for _, f := range e.relaxReleases {
		if f.Action.Key == k {
			f.Time = math.Min(f.Time, t)
			delete(e.held, k)
			st.Record(f)
			continue
		}
		kept = append(kept, f)
	}
	e.relaxReleases = kept

	f := replay.PressFrame(t, k)
	e.press(k, t, st)
	st.Record(f)
	e.relaxReleases = append(e.relaxReleases, replay.ReleaseFrame(n.EndTime(), k))
}

func (e *Engine) pan(p game.Point) float64 {
	return p.X/FieldWidth*2 - 1
}

func (e *Engine) HealthDelta(j game.Judgement) float64 {
	switch j {
	case X300:
		return 0.03
	case X100:
		return 0.01
	case Miss:
		return -window.Map(e.diff.HP, 0.05, 0.1, 0.2)
	case SliderTick, SpinnerSpin:
		return 0.01
	case SliderTickMiss:
		return -window.Map(e.diff.HP, 0.02, 0.04, 0.08)
	}
	return 0
}

func (e *Engine) Accuracy(s *score.Score) float64 {
	n300 := float64(s.Count(X300))
	n100 := float64(s.Count(X100))
	n50 := float64(s.Count(X50))
	total := n300 + n100 + n50 + float64(s.Count(Miss))
	if total == 0 {
		return 1
	}
	return (300*n300 + 100*n100 + 50*n50) / (300 * total)
}
