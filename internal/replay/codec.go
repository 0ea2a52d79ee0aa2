package replay

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/score"
)

var (
	ErrBadMagic = errors.New("not a replay")
	magic       = [4]byte{'T', 'M', 'P', 'R'}
)

const version = 1

const (
	modAutoplay = 1 << iota
	modRelax
	modNoFail
	modSuddenDeath
	modPerfect
	modEasy
	modHardRock
)

// Encode writes r in the little endian replay format. Encoding the result
// of Decode reproduces the input bytes.
func Encode(w io.Writer, r *Replay) error {
	var buf bytes.Buffer
	buf.Write(magic[:])
	buf.WriteByte(version)
	for _, s := range []string{r.ChartHash, r.Mode, r.Username} {
		if err := writeString(&buf, s); nil != err {
			return err
		}
	}
	buf.WriteByte(encodeMods(r.Mods))
	write(&buf, math.Float64bits(r.Mods.Speed))

	var scoreData []byte
	if r.Score != nil {
		var err error
		if scoreData, err = json.Marshal(r.Score); nil != err {
			return fmt.Errorf("unable to marshal score: %w", err)
		}
	}
	write(&buf, uint32(len(scoreData)))
	buf.Write(scoreData)

	write(&buf, uint32(len(r.Frames)))
	for _, f := range r.Frames {
		write(&buf, math.Float64bits(f.Time))
		buf.WriteByte(byte(f.Action.Kind))
		buf.WriteByte(byte(f.Action.Key))
		write(&buf, math.Float64bits(f.Action.Pos.X))
		write(&buf, math.Float64bits(f.Action.Pos.Y))
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func Decode(rd io.Reader) (*Replay, error) {
	var m [4]byte
	if _, err := io.ReadFull(rd, m[:]); nil != err {
		return nil, err
	}
	if m != magic {
		return nil, ErrBadMagic
	}
	var v uint8
	if err := binary.Read(rd, binary.LittleEndian, &v); nil != err {
		return nil, err
	}
	if v != version {
		return nil, fmt.Errorf("unsupported replay version %d", v)
	}

	r := &Replay{}
	for _, s := range []*string{&r.ChartHash, &r.Mode, &r.Username} {
		var err error
		if *s, err = readString(rd); nil != err {
			return nil, err
		}
	}
	var flags uint8
	var speed uint64
	if err := binary.Read(rd, binary.LittleEndian, &flags); nil != err {
		return nil, err
	}
	if err := binary.Read(rd, binary.LittleEndian, &speed); nil != err {
		return nil, err
	}
	r.Mods = decodeMods(flags)
	r.Mods.Speed = math.Float64frombits(speed)

	var scoreLen uint32
	if err := binary.Read(rd, binary.LittleEndian, &scoreLen); nil != err {
		return nil, err
	}
	if scoreLen > 0 {
		data := make([]byte, scoreLen)
		if _, err := io.ReadFull(rd, data); nil != err {
			return nil, err
		}
		r.Score = &score.Score{}
		if err := json.Unmarshal(data, r.Score); nil != err {
			return nil, fmt.Errorf("unable to unmarshal score: %w", err)
		}
	}

	var count uint32
	if err := binary.Read(rd, binary.LittleEndian, &count); nil != err {
		return nil, err
	}
	r.Frames = make([]Frame, 0, count)
	for i := uint32(0); i < count; i++ {
		var raw struct {
			Time uint64
			Kind uint8
			Key  uint8
			X, Y uint64
		}
		if err := binary.Read(rd, binary.LittleEndian, &raw); nil != err {
			return nil, err
		}
		r.Frames = append(r.Frames, Frame{
			Time: math.Float64frombits(raw.Time),
			Action: Action{
				Kind: Kind(raw.Kind),
				Key:  Key(raw.Key),
				Pos:  game.Point{X: math.Float64frombits(raw.X), Y: math.Float64frombits(raw.Y)},
			},
		})
	}
	return r, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (r *Replay) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, r); nil != err {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (r *Replay) UnmarshalBinary(data []byte) error {
	d, err := Decode(bytes.NewReader(data))
	if nil != err {
		return err
	}
	*r = *d
	return nil
}

func write(buf *bytes.Buffer, v interface{}) {
	// bytes.Buffer writes never fail
	_ = binary.Write(buf, binary.LittleEndian, v)
}

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("string too long for replay header: %d bytes", len(s))
	}
	write(buf, uint16(len(s)))
	buf.WriteString(s)
	return nil
}

func readString(rd io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(rd, binary.LittleEndian, &n); nil != err {
		return "", err
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(rd, data); nil != err {
		return "", err
	}
	return string(data), nil
}

func encodeMods(m game.Mods) uint8 {
	var f uint8
	set := func(on bool, bit uint8) {
		if on {
			f |= bit
		}
	}
	set(m.Autoplay, modAutoplay)
	set(m.Relax, modRelax)
	set(m.NoFail, modNoFail)
	set(m.SuddenDeath, modSuddenDeath)
	set(m.Perfect, modPerfect)
	set(m.Easy, modEasy)
	set(m.HardRock, modHardRock)
	return f
}

func decodeMods(f uint8) game.Mods {
	return game.Mods{
		Autoplay:    f&modAutoplay != 0,
		Relax:       f&modRelax != 0,
		NoFail:      f&modNoFail != 0,
		SuddenDeath: f&modSuddenDeath != 0,
		Perfect:     f&modPerfect != 0,
		Easy:        f&modEasy != 0,
		HardRock:    f&modHardRock != 0,
	}
}
