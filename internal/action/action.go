// Package action holds the side-effect requests the gameplay core hands
// to the host after each update.
package action

import (
	"git.lost.host/meutraa/tempo/internal/config"
	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/replay"
	"git.lost.host/meutraa/tempo/internal/score"
	"git.lost.host/meutraa/tempo/internal/spectator"
)

// Action is a single command for the host. The host executes each action
// exactly once, in the order the queue returned them.
type Action interface {
	action()
}

type SongOp uint8

const (
	SongPlay SongOp = iota
	SongPause
	SongRestart
	SongSeek
	SongSetRate
	SongSetVolume
)

func (o SongOp) String() string {
	switch o {
	case SongPlay:
		return "play"
	case SongPause:
		return "pause"
	case SongRestart:
		return "restart"
	case SongSeek:
		return "seek"
	case SongSetRate:
		return "set-rate"
	case SongSetVolume:
		return "set-volume"
	}
	return "unknown"
}

// Song controls audio transport. Value is ms for seek, a ratio for rate
// and 0-1 for volume.
type Song struct {
	Op    SongOp
	Value float64
}

type CursorVisible struct {
	Visible bool
}

// CursorOverride hands cursor control to the core (autoplay) or back.
type CursorOverride struct {
	Enabled bool
	Pos     game.Point
}

type Level uint8

const (
	Info Level = iota
	Warn
	Error
)

type Notification struct {
	Level Level
	Text  string
}

// UpdateSettings mutates host owned settings. The core never writes
// settings directly.
type UpdateSettings struct {
	Apply func(*config.Settings)
}

// PlaySound asks the host to play note samples at a volume.
type PlaySound struct {
	Sound  game.Hitsound
	Volume float64
	Pan    float64
}

// SpectatorSend carries frames for the spectator relay.
type SpectatorSend struct {
	Frames []spectator.Frame
}

// MultiplayerScore is a periodic score broadcast.
type MultiplayerScore struct {
	Time  float64
	Score score.Score
}

// Complete ends the session. Replay is nil when nothing was recorded.
type Complete struct {
	Score  score.Score
	Replay *replay.Replay
	Failed bool
}

func (Song) action()             {}
func (CursorVisible) action()    {}
func (CursorOverride) action()   {}
func (Notification) action()     {}
func (UpdateSettings) action()   {}
func (PlaySound) action()        {}
func (SpectatorSend) action()    {}
func (MultiplayerScore) action() {}
func (Complete) action()         {}
