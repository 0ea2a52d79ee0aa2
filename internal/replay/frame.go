// Package replay records the timed logical inputs of a play session.
package replay

import (
	"fmt"

	"git.lost.host/meutraa/tempo/internal/game"
)

// Key is a logical, mode independent input.
type Key uint8

const (
	KeyNone Key = iota
	Left
	Right
	LeftMouse
	RightMouse
	LeftKat
	LeftDon
	RightDon
	RightKat
	Col1 // Col1+n is column n
)

const MaxColumns = 10

// Column returns the key for a zero based column.
func Column(i int) Key {
	return Col1 + Key(i)
}

// ColumnIndex reports the zero based column of a column key.
func (k Key) ColumnIndex() (int, bool) {
	if k < Col1 || k >= Col1+MaxColumns {
		return 0, false
	}
	return int(k - Col1), true
}

func (k Key) String() string {
	switch k {
	case KeyNone:
		return "none"
	case Left:
		return "left"
	case Right:
		return "right"
	case LeftMouse:
		return "mouse-left"
	case RightMouse:
		return "mouse-right"
	case LeftKat:
		return "left-kat"
	case LeftDon:
		return "left-don"
	case RightDon:
		return "right-don"
	case RightKat:
		return "right-kat"
	}
	if c, ok := k.ColumnIndex(); ok {
		return fmt.Sprintf("col%d", c+1)
	}
	return fmt.Sprintf("key(%d)", uint8(k))
}

type Kind uint8

const (
	Press Kind = iota
	Release
	CursorMove
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Release:
		return "release"
	case CursorMove:
		return "cursor"
	}
	return "unknown"
}

type Action struct {
	Kind Kind       `json:"kind"`
	Key  Key        `json:"key,omitempty"`
	Pos  game.Point `json:"pos,omitempty"`
}

// Frame is a timestamped logical input.
type Frame struct {
	Time   float64 `json:"time"`
	Action Action  `json:"action"`
}

func PressFrame(t float64, k Key) Frame {
	return Frame{Time: t, Action: Action{Kind: Press, Key: k}}
}

func ReleaseFrame(t float64, k Key) Frame {
	return Frame{Time: t, Action: Action{Kind: Release, Key: k}}
}

func MoveFrame(t float64, p game.Point) Frame {
	return Frame{Time: t, Action: Action{Kind: CursorMove, Pos: p}}
}

func (f Frame) String() string {
	if f.Action.Kind == CursorMove {
		return fmt.Sprintf("%.1f cursor(%.1f,%.1f)", f.Time, f.Action.Pos.X, f.Action.Pos.Y)
	}
	return fmt.Sprintf("%.1f %v %v", f.Time, f.Action.Kind, f.Action.Key)
}
