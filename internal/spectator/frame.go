// Package spectator defines the frames relayed between a playing host and
// its spectators or multiplayer peers.
package spectator

import (
	"fmt"

	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/replay"
	"git.lost.host/meutraa/tempo/internal/score"
)

type Kind uint8

const (
	Play Kind = iota
	Pause
	UnPause
	ReplayAction
	ScoreSync
	Buffer
	TimeJump
	ChangingMap
)

var kindNames = [...]string{
	Play:         "play",
	Pause:        "pause",
	UnPause:      "unpause",
	ReplayAction: "replay-action",
	ScoreSync:    "score-sync",
	Buffer:       "buffer",
	TimeJump:     "time-jump",
	ChangingMap:  "changing-map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown spectator frame kind %d", uint8(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for i, n := range kindNames {
		if n == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown spectator frame kind %q", b)
}

type PlayInfo struct {
	ChartHash string    `json:"chart_hash"`
	Mode      string    `json:"mode"`
	Mods      game.Mods `json:"mods"`
	Speed     float64   `json:"speed"`
}

// Frame is one relayed event. Time is the host's song time; for TimeJump
// it is the jump target.
type Frame struct {
	Time   float64        `json:"time"`
	Kind   Kind           `json:"kind"`
	Play   *PlayInfo      `json:"play,omitempty"`
	Action *replay.Action `json:"action,omitempty"`
	Score  *score.Score   `json:"score,omitempty"`
}

func PlayFrame(t float64, info PlayInfo) Frame {
	return Frame{Time: t, Kind: Play, Play: &info}
}

func ActionFrame(f replay.Frame) Frame {
	a := f.Action
	return Frame{Time: f.Time, Kind: ReplayAction, Action: &a}
}

func ScoreFrame(t float64, s score.Score) Frame {
	c := s.Clone()
	return Frame{Time: t, Kind: ScoreSync, Score: &c}
}

func Simple(t float64, k Kind) Frame {
	return Frame{Time: t, Kind: k}
}

// ReplayFrame converts a ReplayAction frame back to a replay frame.
func (f Frame) ReplayFrame() (replay.Frame, bool) {
	if f.Kind != ReplayAction || f.Action == nil {
		return replay.Frame{}, false
	}
	return replay.Frame{Time: f.Time, Action: *f.Action}, true
}
