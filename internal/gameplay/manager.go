// Package gameplay drives a mode engine through a play session. It owns
// the lead-in, pause, fail and completion state, applies judgements to
// score, combo and health, records replays and runs the replay, spectator
// and multiplayer variants. Side effects leave through an action queue.
package gameplay

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"

	"git.lost.host/meutraa/tempo/internal/action"
	"git.lost.host/meutraa/tempo/internal/config"
	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/health"
	"git.lost.host/meutraa/tempo/internal/mode"
	"git.lost.host/meutraa/tempo/internal/mode/column"
	"git.lost.host/meutraa/tempo/internal/mode/drum"
	"git.lost.host/meutraa/tempo/internal/mode/tap"
	"git.lost.host/meutraa/tempo/internal/replay"
	"git.lost.host/meutraa/tempo/internal/score"
	"git.lost.host/meutraa/tempo/internal/spectator"
	"git.lost.host/meutraa/tempo/internal/timing"
)

var ErrUnknownMode = errors.New("unknown gameplay mode")

const (
	indicatorLife = 500.0  // ms
	hitErrorLife  = 1000.0 // ms
)

// NewEngine builds the engine for the chart's mode.
func NewEngine(chart *game.Chart, mods game.Mods) (mode.Engine, error) {
	switch chart.Mode {
	case tap.Name:
		return tap.New(chart, mods), nil
	case column.Name:
		return column.New(chart, mods), nil
	case drum.Name:
		return drum.New(chart, mods), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, chart.Mode)
}

type Options struct {
	// Settings are used until the first Update hands in its own.
	Settings *config.Settings
	Mods     game.Mods
	Username string
	// Logger defaults to one that discards everything.
	Logger logrus.FieldLogger
	Prefs  PrefStore
	// Clock drives the lead-in, the fail ramp, the restart hold and live
	// input timestamps. Defaults to time.Now.
	Clock func() time.Time
	// Broadcast sends the session to spectators through SpectatorSend
	// actions.
	Broadcast bool
}

// Indicator is a judgement shown near where it happened.
type Indicator struct {
	Judgement game.Judgement
	Note      int
	Time      float64
	Pos       game.Point
}

// HitError is one timed hit for the timing error bar.
type HitError struct {
	Time, Delta float64
}

type Manager struct {
	chart    *game.Chart
	engine   mode.Engine
	timing   *timing.Index
	settings *config.Settings
	log      logrus.FieldLogger
	clock    func() time.Time
	phase    *fsm.FSM
	queue    action.Queue

	variant  Variant
	options  Options
	mods     game.Mods
	username string

	score  score.Score
	health health.Health
	replay *replay.Replay
	// judged marks notes that produced their resolving judgement.
	judged []bool
	// hitCombo is the combo each note was first judged at.
	hitCombo []int

	time     float64
	lastTick time.Time
	// leadIn is the song time left before playback starts; startAt is
	// where playback starts.
	leadIn  float64
	startAt float64

	shouldPause  bool
	pausePending bool
	jumpPending  bool
	jumpTarget   float64
	restartDown  bool
	restartSince time.Time
	failed       bool
	failStart    time.Time
	completed    bool

	// pending holds input frames not yet applied, in time order.
	pending []replay.Frame
	applied float64
	down    map[replay.Key]bool
	cursor  game.Point
	// overridden is the last cursor position handed to the host.
	overridden *game.Point

	beat       int
	indicators []Indicator
	hitErrors  []HitError

	prefs      PrefStore
	chartPrefs game.ChartPrefs
	errs       chan error

	source    *replay.Cursor
	inbox     *spectator.Inbox
	latest    float64
	awaitPlay bool
	hostScore *score.Score

	nextScoreSync float64
	outbox        []spectator.Frame
	nextFlush     float64
}

// New prepares a session for chart. It fails only when the chart's mode
// is not known.
func New(chart *game.Chart, opts Options) (*Manager, error) {
	engine, err := NewEngine(chart, opts.Mods)
	if nil != err {
		return nil, err
	}
	if opts.Settings == nil {
		s := config.Default()
		opts.Settings = &s
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.Out = io.Discard
		logger = l
	}
	m := &Manager{
		chart:    chart,
		engine:   engine,
		timing:   timing.New(chart.Timing),
		settings: opts.Settings,
		clock:    opts.Clock,
		options:  opts,
		variant:  Normal{},
		mods:     opts.Mods,
		username: opts.Username,
		prefs:    opts.Prefs,
		errs:     make(chan error, 8),
	}
	if m.username == "" {
		m.username = opts.Settings.Username
	}
	m.log = logger.WithFields(logrus.Fields{"mode": chart.Mode, "chart": shortHash(chart.ComputeHash())})
	m.phase = m.newPhase()
	m.loadPrefs()
	m.reset()
	m.log.WithField("mods", m.mods.String()).Info("session start")
	return m, nil
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}

// reset returns the session to the start of the lead-in.
func (m *Manager) reset() {
	m.engine.Reset()
	m.timing.Reset(0)
	m.score = score.New(m.username, m.chart.Hash, m.chart.Mode, m.mods)
	m.health = health.NewRatio(m.engine.HealthDelta)
	m.judged = make([]bool, len(m.engine.Notes()))
	m.hitCombo = make([]int, len(m.engine.Notes()))

	if !m.is(PhaseLeadIn) {
		m.transition(evRestart)
	}
	m.startAt = 0
	m.leadIn = m.settings.LeadIn
	m.time = -m.leadIn
	m.lastTick = time.Time{}

	m.shouldPause, m.pausePending = false, false
	m.jumpPending = false
	m.restartDown = false
	m.failed = false
	m.completed = false
	m.pending = nil
	m.applied = math.Inf(-1)
	m.down = map[replay.Key]bool{}
	m.cursor = game.Point{}
	m.overridden = nil
	m.indicators, m.hitErrors = nil, nil

	m.replay = nil
	if m.recording() {
		m.replay = &replay.Replay{
			ChartHash: m.chart.Hash,
			Mode:      m.chart.Mode,
			Username:  m.username,
			Mods:      m.mods,
		}
	}
	if m.source != nil {
		m.source.Seek(math.Inf(-1))
	}
	m.latest = math.Inf(-1)
	m.hostScore = nil
	m.nextScoreSync = m.settings.Multiplayer.ScoreInterval
	m.outbox = nil
	m.nextFlush = 0

	_, tapMode := m.engine.(*tap.Engine)
	m.queue.Push(action.CursorVisible{Visible: tapMode && m.live()})
}

// Restart starts the session over from the lead-in.
func (m *Manager) Restart() {
	m.reset()
	m.queue.Song(action.SongRestart, 0)
	m.log.Info("restart")
}

// RequestTimeJump moves the session to t on the next update. Notes before
// t are skipped without judgement and recording stops.
func (m *Manager) RequestTimeJump(t float64) {
	m.jumpPending = true
	m.jumpTarget = t
}

func (m *Manager) applyJump(t float64) {
	m.engine.JumpTo(t)
	m.timing.Reset(t)
	for i, n := range m.engine.Notes() {
		if n.Time() >= t {
			m.judged[i] = false
		}
	}
	m.pending = nil
	m.applied = math.Inf(-1)
	m.down = map[replay.Key]bool{}
	if m.source != nil {
		m.source.Seek(t)
	}
	if m.replay != nil {
		m.log.Info("time jump, replay discarded")
		m.replay = nil
	}
	m.broadcast(spectator.Simple(t, spectator.TimeJump))
	if m.is(PhaseLeadIn) {
		m.startAt = t
		m.time = t - m.leadIn
		return
	}
	m.time = t
	m.queue.Song(action.SongSeek, math.Max(0, t-m.offset()))
}

// Pause stops playback on the next update. Inside a break the pause waits
// for the break to end.
func (m *Manager) Pause() {
	if m.chart.InBreak(m.time) {
		m.pausePending = true
		return
	}
	m.shouldPause = true
}

func (m *Manager) Unpause() {
	m.shouldPause, m.pausePending = false, false
	if m.is(PhasePaused) && m.transition(evResume) {
		m.lastTick = m.clock()
	}
}

func (m *Manager) Time() float64          { return m.time }
func (m *Manager) Phase() string          { return m.phase.Current() }
func (m *Manager) Engine() mode.Engine    { return m.engine }
func (m *Manager) Mods() game.Mods        { return m.mods }
func (m *Manager) Variant() Variant       { return m.variant }
func (m *Manager) Failed() bool           { return m.failed }
func (m *Manager) Complete() bool         { return m.completed }
func (m *Manager) Health() float64        { return m.health.Value() }
func (m *Manager) Beat() int              { return m.beat }
func (m *Manager) Prefs() game.ChartPrefs { return m.chartPrefs }

// Score returns a copy of the running score.
func (m *Manager) Score() score.Score {
	return m.score.Clone()
}

// HostScore is the last score a spectated host reported.
func (m *Manager) HostScore() (score.Score, bool) {
	if m.hostScore == nil {
		return score.Score{}, false
	}
	return m.hostScore.Clone(), true
}

// Replay is the replay being recorded, nil when not recording.
func (m *Manager) Replay() *replay.Replay {
	return m.replay
}

func (m *Manager) Indicators() []Indicator {
	return append([]Indicator(nil), m.indicators...)
}

func (m *Manager) HitErrors() []HitError {
	return append([]HitError(nil), m.hitErrors...)
}

func (m *Manager) offset() float64 {
	return m.settings.GlobalOffset + m.chartPrefs.Offset
}

// failSuppressed sessions can never fail.
func (m *Manager) failSuppressed() bool {
	_, preview := m.variant.(Preview)
	return preview || m.mods.NoFail || m.mods.Autoplay
}
