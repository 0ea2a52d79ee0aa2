package replay

import (
	"bytes"
	"testing"

	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/score"
)

func testReplay() *Replay {
	s := score.New("tester", "abc", "tap", game.Mods{Relax: true, Speed: 1.5})
	s.Score = 12345
	s.MaxCombo = 17
	s.Judgements["x300"] = 16
	s.Judgements["miss"] = 1
	s.HitTimings = []float64{-3.5, 12, 0.25}

	r := &Replay{
		ChartHash: "abc",
		Mode:      "tap",
		Username:  "tester",
		Mods:      game.Mods{Relax: true, HardRock: true, Speed: 1.5},
		Score:     &s,
	}
	frames := []Frame{
		MoveFrame(0, game.Point{X: 256, Y: 192}),
		PressFrame(1000, Left),
		MoveFrame(1000.25, game.Point{X: 10.5, Y: -3}),
		ReleaseFrame(1040, Left),
		PressFrame(1040, Column(3)),
	}
	for _, f := range frames {
		if err := r.Append(f); nil != err {
			panic(err)
		}
	}
	return r
}

func TestRoundTripBytes(t *testing.T) {
	var first bytes.Buffer
	if err := Encode(&first, testReplay()); nil != err {
		t.Fatal(err)
	}
	decoded, err := Decode(bytes.NewReader(first.Bytes()))
	if nil != err {
		t.Fatal(err)
	}
	var second bytes.Buffer
	if err := Encode(&second, decoded); nil != err {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("re-encoded replay differs: %d vs %d bytes", first.Len(), second.Len())
	}
	if decoded.Username != "tester" || !decoded.Mods.HardRock || decoded.Mods.Speed != 1.5 {
		t.Errorf("header not restored: %+v", decoded)
	}
	if decoded.Score == nil || decoded.Score.MaxCombo != 17 || decoded.Score.Judgements["miss"] != 1 {
		t.Errorf("score not restored: %+v", decoded.Score)
	}
	if len(decoded.Frames) != 5 || decoded.Frames[4].Action.Key != Column(3) {
		t.Errorf("frames not restored: %v", decoded.Frames)
	}
}

func TestDecodeBadMagic(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("nope, not a replay"))); err != ErrBadMagic {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestAppendMonotonic(t *testing.T) {
	r := &Replay{}
	if err := r.Append(PressFrame(100, Left)); nil != err {
		t.Fatal(err)
	}
	if err := r.Append(ReleaseFrame(100, Left)); nil != err {
		t.Fatalf("equal times must be accepted: %v", err)
	}
	if err := r.Append(PressFrame(99, Right)); err != ErrNonMonotonic {
		t.Fatalf("expected ErrNonMonotonic, got %v", err)
	}
	if len(r.Frames) != 2 {
		t.Fatalf("rejected frame was appended")
	}
}

func TestCursor(t *testing.T) {
	c := NewCursor(testReplay())
	if got := c.Until(999); len(got) != 1 {
		t.Fatalf("expected 1 frame before 999, got %v", got)
	}
	if next, ok := c.Peek(); !ok || next != 1000 {
		t.Fatalf("unexpected peek %v %v", next, ok)
	}
	if got := c.Until(1040); len(got) != 4 {
		t.Fatalf("expected 4 frames up to 1040, got %v", got)
	}
	if !c.Done() {
		t.Fatal("cursor should be exhausted")
	}
	c.Seek(1000.1)
	if got := c.Until(2000); len(got) != 3 {
		t.Fatalf("expected 3 frames after seek, got %v", got)
	}
}

func TestColumnKeys(t *testing.T) {
	for i := 0; i < MaxColumns; i++ {
		c, ok := Column(i).ColumnIndex()
		if !ok || c != i {
			t.Errorf("column %d round trip gave %d %v", i, c, ok)
		}
	}
	if _, ok := LeftDon.ColumnIndex(); ok {
		t.Error("drum key reported as column")
	}
}
