package gameplay

import (
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"git.lost.host/meutraa/tempo/internal/action"
	"git.lost.host/meutraa/tempo/internal/config"
	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/mode/column"
	"git.lost.host/meutraa/tempo/internal/mode/drum"
	"git.lost.host/meutraa/tempo/internal/replay"
	"git.lost.host/meutraa/tempo/internal/spectator"
	"git.lost.host/meutraa/tempo/internal/testdata"
)

type fakeClock struct {
	t time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(ms float64) {
	c.t = c.t.Add(time.Duration(ms * float64(time.Millisecond)))
}

func testSettings() *config.Settings {
	s := config.Default()
	s.LeadIn = 0
	return &s
}

func newManager(t *testing.T, chart *game.Chart, opts Options) (*Manager, *fakeClock) {
	clk := newClock()
	if opts.Settings == nil {
		opts.Settings = testSettings()
	}
	opts.Clock = clk.now
	m, err := New(chart, opts)
	if err != nil {
		t.Fatal(err)
	}
	return m, clk
}

// run updates every step ms over [from, to], advancing the clock with the
// song.
func run(m *Manager, clk *fakeClock, from, to, step float64) []action.Action {
	var acts []action.Action
	for t := from; t <= to; t += step {
		clk.advance(step)
		acts = append(acts, m.Update(t, nil)...)
	}
	return acts
}

func completion(acts []action.Action) (action.Complete, bool) {
	for _, a := range acts {
		if c, ok := a.(action.Complete); ok {
			return c, true
		}
	}
	return action.Complete{}, false
}

func songOps(acts []action.Action, op action.SongOp) int {
	n := 0
	for _, a := range acts {
		if s, ok := a.(action.Song); ok && s.Op == op {
			n++
		}
	}
	return n
}

func fixture(t *testing.T) *game.Chart {
	chart, err := testdata.GetChart()
	if err != nil {
		t.Fatal(err)
	}
	return chart
}

func TestUnknownMode(t *testing.T) {
	chart := testdata.Chart("karaoke", 500, testdata.TapNote(1000, 0))
	if _, err := New(chart, Options{}); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestLeadInPlaysOnce(t *testing.T) {
	s := config.Default()
	s.LeadIn = 1500
	m, clk := newManager(t, fixture(t), Options{Settings: &s})

	plays := 0
	for i := 0; i < 40; i++ {
		acts := m.Update(0, nil)
		n := songOps(acts, action.SongPlay)
		if n > 0 && i != 15 {
			t.Errorf("play on tick %d, expected tick 15", i)
		}
		if n > 0 {
			if songOps(acts, action.SongSeek) != 1 || songOps(acts, action.SongSetRate) != 1 || songOps(acts, action.SongSetVolume) != 1 {
				t.Errorf("lead-in end actions incomplete: %v", acts)
			}
		}
		plays += n
		clk.advance(100)
	}
	if plays != 1 {
		t.Fatalf("expected one play, got %d", plays)
	}
	if m.Phase() != PhasePlaying {
		t.Errorf("phase %s", m.Phase())
	}
}

func TestSimpleMiss(t *testing.T) {
	chart := testdata.Chart(game.ModeColumn, 500, testdata.TapNote(1000, 0))
	m, clk := newManager(t, chart, Options{})
	run(m, clk, 0, 5000, 16)
	m.KeyDown('_')
	run(m, clk, 5001, 5100, 16)

	sc := m.Score()
	if sc.Count(column.Miss) != 1 || len(sc.Judgements) != 1 {
		t.Fatalf("expected a single miss, got %v", sc.Judgements)
	}
	if sc.Combo != 0 {
		t.Errorf("combo %d", sc.Combo)
	}
	expected := 1 + m.Engine().HealthDelta(column.Miss)
	if math.Abs(m.Health()-expected) > 1e-9 {
		t.Errorf("health %v expected %v", m.Health(), expected)
	}
}

func drumChart() *game.Chart {
	return testdata.Chart(game.ModeDrum, 500,
		testdata.Don(1000), testdata.Kat(1250), testdata.BigDon(1500),
		testdata.Drumroll(2000, 2500), testdata.Denden(3000, 3500), testdata.Don(4000),
	)
}

func tapChart() *game.Chart {
	return testdata.Chart(game.ModeTap, 250,
		testdata.Circle(1000, 100, 100),
		testdata.Slider(1500, 2200, game.Point{X: 200, Y: 200}, game.Point{X: 400, Y: 200}, 2),
		testdata.Spinner(2600, 3600),
		testdata.Circle(4000, 300, 300),
	)
}

func TestAutoplayNeverFails(t *testing.T) {
	charts := map[string]*game.Chart{
		game.ModeColumn: fixture(t),
		game.ModeDrum:   drumChart(),
		game.ModeTap:    tapChart(),
	}
	for name, chart := range charts {
		mods := game.Mods{Autoplay: true, Perfect: true, SuddenDeath: true}
		m, clk := newManager(t, chart, Options{Mods: mods})
		acts := run(m, clk, 0, chart.EndTime()+2000, 16)
		c, ok := completion(acts)
		if !ok {
			t.Errorf("%s: no completion", name)
			continue
		}
		if c.Failed {
			t.Errorf("%s: autoplay failed", name)
		}
		best := m.Engine().Windows().Best()
		for _, n := range m.Engine().Notes() {
			if n.IsMissed() {
				t.Errorf("%s: note at %v missed", name, n.Time())
			}
		}
		if c.Score.Count(best) == 0 {
			t.Errorf("%s: no best judgements in %v", name, c.Score.Judgements)
		}
		if c.Replay == nil || len(c.Replay.Frames) == 0 {
			t.Errorf("%s: autoplay not recorded", name)
		}
	}
}

type keyEvent struct {
	at   float64
	key  rune
	down bool
}

var script = []keyEvent{
	{1000, '_', true}, {1060, '_', false},
	{1270, '-', true}, {1320, '-', false},
	{1500, 'm', true}, {1540, 'm', false},
	{1750, 'p', true}, {2200, 'p', false},
	{3990, '_', true}, {4010, 'p', true}, {4050, '_', false}, {4050, 'p', false},
	{4200, '-', true}, {5000, '-', false},
	{4420, 'm', true}, {4480, 'm', false},
}

func playScript(m *Manager, clk *fakeClock, end float64) []action.Action {
	var acts []action.Action
	next := 0
	for t := 0.0; t <= end; t += 10 {
		for next < len(script) && script[next].at <= t {
			if script[next].down {
				m.KeyDown(script[next].key)
			} else {
				m.KeyUp(script[next].key)
			}
			next++
		}
		clk.advance(10)
		acts = append(acts, m.Update(t, nil)...)
	}
	return acts
}

func TestReplayDeterminism(t *testing.T) {
	chart := fixture(t)
	m, clk := newManager(t, chart, Options{Mods: game.Mods{NoFail: true}, Username: "player"})
	live, ok := completion(playScript(m, clk, 7000))
	if !ok || live.Replay == nil {
		t.Fatal("live session did not complete with a replay")
	}
	if live.Score.Count(column.Marvelous)+live.Score.Count(column.Perfect) == 0 {
		t.Fatalf("scripted hits missed: %v", live.Score.Judgements)
	}

	for i := 0; i < 2; i++ {
		p, pclk := newManager(t, chart, Options{})
		p.SetMode(Replaying{Replay: live.Replay})
		if p.Mods() != live.Replay.Mods {
			t.Errorf("replay mods not applied: %v", p.Mods())
		}
		played, ok := completion(run(p, pclk, 0, 7000, 33))
		if !ok {
			t.Fatal("replay did not complete")
		}
		if played.Replay != nil {
			t.Error("replay playback recorded a replay")
		}
		if played.Score.Score != live.Score.Score || played.Score.MaxCombo != live.Score.MaxCombo {
			t.Errorf("run %d: score %d/%d, live %d/%d", i, played.Score.Score, played.Score.MaxCombo, live.Score.Score, live.Score.MaxCombo)
		}
		if !reflect.DeepEqual(played.Score.Judgements, live.Score.Judgements) {
			t.Errorf("run %d: judgements %v, live %v", i, played.Score.Judgements, live.Score.Judgements)
		}
		if played.Score.Username != "player" {
			t.Errorf("username %q", played.Score.Username)
		}
	}
}

func TestPauseDeferredInBreak(t *testing.T) {
	m, clk := newManager(t, fixture(t), Options{Mods: game.Mods{NoFail: true}})
	run(m, clk, 0, 3000, 16)
	m.Pause()
	acts := run(m, clk, 3016, 3800, 16)
	if songOps(acts, action.SongPause) != 0 || m.Phase() != PhasePlaying {
		t.Fatalf("paused inside a break")
	}
	acts = run(m, clk, 3900, 3950, 16)
	if songOps(acts, action.SongPause) != 1 || m.Phase() != PhasePaused {
		t.Fatalf("pause not applied after the break, phase %s", m.Phase())
	}
	before := m.Time()
	run(m, clk, 4000, 4500, 16)
	if m.Time() != before {
		t.Errorf("time advanced while paused")
	}
	m.Unpause()
	acts = run(m, clk, 4516, 4530, 16)
	if songOps(acts, action.SongPlay) != 1 || m.Phase() != PhasePlaying {
		t.Errorf("unpause did not resume, phase %s", m.Phase())
	}
}

func TestBatteryHealth(t *testing.T) {
	m, clk := newManager(t, drumChart(), Options{})
	acts := run(m, clk, 0, 100, 16)
	if m.Health() != 0 {
		t.Fatalf("expected an empty battery, got %v", m.Health())
	}
	acts = append(acts, run(m, clk, 116, 6000, 16)...)
	for _, a := range acts {
		if s, ok := a.(action.Song); ok && s.Op == action.SongSetRate && s.Value < 1 {
			t.Fatal("battery failed before the end")
		}
	}
	c, ok := completion(acts)
	if !ok || !c.Failed {
		t.Fatalf("expected a failed completion, got %+v", c)
	}
	if c.Score.Count(drum.Miss) == 0 {
		t.Errorf("no misses recorded")
	}
}

func TestFinisherUpgradeUsesCombo(t *testing.T) {
	s := testSettings()
	s.Combo = config.ComboConfig{Policy: "flat", Factor: 2}
	chart := testdata.Chart(game.ModeDrum, 500, testdata.BigDon(1000))
	m, clk := newManager(t, chart, Options{Settings: s, Mods: game.Mods{NoFail: true}})
	run(m, clk, 0, 1000, 10)
	m.KeyDown('f')
	m.KeyUp('f')
	run(m, clk, 1010, 1030, 10)
	m.KeyDown('j')
	m.KeyUp('j')
	run(m, clk, 1040, 2000, 10)

	sc := m.Score()
	if sc.Count(drum.GreatFinisher) != 1 || sc.Count(drum.Great) != 0 {
		t.Fatalf("hit not upgraded: %v", sc.Judgements)
	}
	if expected := int64(2 * drum.GreatFinisher.Score); sc.Score != expected {
		t.Errorf("score %d expected %d", sc.Score, expected)
	}
}

func TestSuddenDeathRamp(t *testing.T) {
	chart := testdata.Chart(game.ModeColumn, 500, testdata.TapNote(1000, 0), testdata.TapNote(3000, 1))
	m, clk := newManager(t, chart, Options{Mods: game.Mods{SuddenDeath: true}})
	run(m, clk, 0, 1500, 16)
	if m.Phase() != PhaseFailing || !m.Failed() {
		t.Fatalf("phase %s", m.Phase())
	}
	var acts []action.Action
	for i := 0; i < 20; i++ {
		clk.advance(100)
		acts = append(acts, m.Update(1500, nil)...)
	}
	last := 1.0
	for _, a := range acts {
		if s, ok := a.(action.Song); ok && s.Op == action.SongSetRate {
			if s.Value > last {
				t.Errorf("rate rose from %v to %v", last, s.Value)
			}
			last = s.Value
		}
	}
	c, ok := completion(acts)
	if !ok || !c.Failed {
		t.Fatalf("ramp did not complete the session")
	}
	if songOps(acts, action.SongPause) != 1 {
		t.Errorf("expected the song to stop")
	}
	if m.Score().Count(column.Miss) != 1 {
		t.Errorf("judged after failing: %v", m.Score().Judgements)
	}
}

func TestRestartHold(t *testing.T) {
	m, clk := newManager(t, fixture(t), Options{Mods: game.Mods{NoFail: true}})
	run(m, clk, 0, 2000, 16)
	m.KeyDown('`')
	clk.advance(300)
	if songOps(m.Update(2016, nil), action.SongRestart) != 0 {
		t.Fatal("restarted before the hold delay")
	}
	clk.advance(100)
	acts := m.Update(2032, nil)
	if songOps(acts, action.SongRestart) != 1 {
		t.Fatal("hold did not restart")
	}
	if m.Score().Score != 0 || len(m.Score().Judgements) != 0 {
		t.Errorf("score not reset: %+v", m.Score())
	}
	m.KeyUp('`')
}

type memPrefs struct {
	mu    sync.Mutex
	saved []game.ChartPrefs
	err   error
	done  chan struct{}
}

func (p *memPrefs) LoadPrefs(sum, mode string) (game.ChartPrefs, bool, error) {
	return game.ChartPrefs{Offset: 10}, true, nil
}

func (p *memPrefs) SavePrefs(sum, mode string, c game.ChartPrefs) error {
	p.mu.Lock()
	p.saved = append(p.saved, c)
	p.mu.Unlock()
	p.done <- struct{}{}
	return p.err
}

func TestOffsetHotkeys(t *testing.T) {
	prefs := &memPrefs{done: make(chan struct{}, 4)}
	m, _ := newManager(t, fixture(t), Options{Prefs: prefs})
	if m.Prefs().Offset != 10 || m.Prefs().ScrollSpeed != 1 {
		t.Fatalf("prefs not loaded: %+v", m.Prefs())
	}
	m.KeyDown(']')
	m.KeyDown(']')
	m.KeyDown('[')
	for i := 0; i < 3; i++ {
		select {
		case <-prefs.done:
		case <-time.After(time.Second):
			t.Fatal("preferences not saved")
		}
	}
	if m.Prefs().Offset != 15 {
		t.Errorf("offset %v", m.Prefs().Offset)
	}
	notes := 0
	for _, a := range m.Update(0, nil) {
		if n, ok := a.(action.Notification); ok && n.Level == action.Info {
			notes++
		}
	}
	if notes != 3 {
		t.Errorf("expected 3 notifications, got %d", notes)
	}
}

func TestScrollSpeedHotkeys(t *testing.T) {
	m, clk := newManager(t, fixture(t), Options{})
	m.KeyDown('.')
	if math.Abs(m.Prefs().ScrollSpeed-1.1) > 1e-9 {
		t.Errorf("scroll speed %v", m.Prefs().ScrollSpeed)
	}
	for i := 0; i < 20; i++ {
		m.KeyDown(',')
	}
	if math.Abs(m.Prefs().ScrollSpeed-0.1) > 1e-9 {
		t.Errorf("scroll speed %v, expected the floor", m.Prefs().ScrollSpeed)
	}

	// Column bindings are not taken by the hotkeys.
	run(m, clk, 0, 100, 16)
	m.KeyDown('-')
	if len(m.pending) != 1 {
		t.Errorf("column key not pressed, %d frames pending", len(m.pending))
	}
}

func TestPrefSaveFailure(t *testing.T) {
	prefs := &memPrefs{done: make(chan struct{}, 1), err: errors.New("disk full")}
	m, _ := newManager(t, fixture(t), Options{Prefs: prefs})
	m.AdjustOffset(5)
	<-prefs.done
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		for _, a := range m.Update(0, nil) {
			if n, ok := a.(action.Notification); ok && n.Level == action.Warn {
				return
			}
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("save failure never reported")
}

func TestGlobalOffsetThroughSettings(t *testing.T) {
	s := testSettings()
	m, _ := newManager(t, fixture(t), Options{Settings: s})
	m.AdjustGlobalOffset(-20)
	for _, a := range m.Update(0, s) {
		if u, ok := a.(action.UpdateSettings); ok {
			u.Apply(s)
		}
	}
	if s.GlobalOffset != -20 {
		t.Errorf("global offset %v", s.GlobalOffset)
	}
}

func TestTimeJumpSkipsSilently(t *testing.T) {
	m, clk := newManager(t, fixture(t), Options{Mods: game.Mods{NoFail: true}})
	run(m, clk, 0, 100, 16)
	m.RequestTimeJump(3000)
	acts := m.Update(3000, nil)
	if songOps(acts, action.SongSeek) != 1 {
		t.Errorf("jump did not seek")
	}
	if m.Replay() != nil {
		t.Errorf("recording continued across a jump")
	}
	c, ok := completion(run(m, clk, 3000, 7000, 16))
	if !ok {
		t.Fatal("no completion")
	}
	if n := c.Score.Count(column.Miss); n != 5 {
		t.Errorf("expected the 5 notes after the jump missed, got %d", n)
	}
}

func TestMultiplayerScoreTimer(t *testing.T) {
	m, clk := newManager(t, fixture(t), Options{Mods: game.Mods{NoFail: true}})
	m.SetMode(Multiplayer{})
	acts := run(m, clk, 0, 3050, 50)
	n := 0
	for _, a := range acts {
		if _, ok := a.(action.MultiplayerScore); ok {
			n++
		}
	}
	if n != 3 {
		t.Errorf("expected 3 score broadcasts, got %d", n)
	}
}

// host plays chart with autoplay and returns everything it broadcast.
func host(t *testing.T, chart *game.Chart) ([]spectator.Frame, action.Complete) {
	m, clk := newManager(t, chart, Options{Mods: game.Mods{Autoplay: true}, Broadcast: true})
	acts := run(m, clk, 0, chart.EndTime()+2000, 16)
	var frames []spectator.Frame
	for _, a := range acts {
		if s, ok := a.(action.SpectatorSend); ok {
			frames = append(frames, s.Frames...)
		}
	}
	c, ok := completion(acts)
	if !ok {
		t.Fatal("host did not complete")
	}
	return frames, c
}

func TestSpectatorFollowsHost(t *testing.T) {
	chart := fixture(t)
	frames, hosted := host(t, chart)
	if len(frames) == 0 || frames[0].Kind != spectator.Play {
		t.Fatalf("broadcast must start with play, got %v", frames)
	}

	inbox := spectator.NewInbox(len(frames))
	for _, f := range frames {
		inbox.Push(f)
	}
	m, clk := newManager(t, chart, Options{})
	m.SetMode(Spectating{Inbox: inbox})
	watched, ok := completion(run(m, clk, 0, chart.EndTime()+2000, 16))
	if !ok {
		t.Fatal("spectator did not complete")
	}
	if !m.Mods().Autoplay {
		t.Errorf("host mods not taken")
	}
	if watched.Score.Score != hosted.Score.Score || !reflect.DeepEqual(watched.Score.Judgements, hosted.Score.Judgements) {
		t.Errorf("spectator %v, host %v", watched.Score.Judgements, hosted.Score.Judgements)
	}
	if hs, ok := m.HostScore(); !ok || hs.Score != hosted.Score.Score {
		t.Errorf("host score not synced")
	}
}

func TestSpectatorStarvesAndCatchesUp(t *testing.T) {
	chart := fixture(t)
	frames, _ := host(t, chart)

	s := testSettings()
	s.Spectator.CatchUp = 1000
	s.Spectator.BufferAhead = 200
	inbox := spectator.NewInbox(len(frames))
	m, clk := newManager(t, chart, Options{Settings: s})
	m.SetMode(Spectating{Inbox: inbox})

	run(m, clk, 0, 100, 16)
	if m.Phase() != PhaseLeadIn {
		t.Fatalf("started without a play frame: %s", m.Phase())
	}
	for _, f := range frames {
		inbox.Push(f)
	}
	acts := run(m, clk, 0, 200, 16)
	if songOps(acts, action.SongSeek) < 2 {
		t.Fatalf("expected a catch up seek")
	}
	if m.Time() < 4000 {
		t.Errorf("did not catch up, time %v", m.Time())
	}
	resolved := 0
	for _, n := range m.Engine().Notes() {
		if n.IsHit() || n.IsMissed() {
			resolved++
		}
	}
	if resolved < 5 {
		t.Errorf("notes behind the catch up point were skipped: %d resolved", resolved)
	}
}

func TestLiveInputIgnoredInReplay(t *testing.T) {
	m, clk := newManager(t, fixture(t), Options{})
	m.SetMode(Replaying{Replay: &replay.Replay{}})
	run(m, clk, 0, 500, 16)
	m.KeyDown('_')
	if len(m.pending) != 0 {
		t.Errorf("live input accepted during replay")
	}
}
