package mode

import (
	"testing"

	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/replay"
)

var (
	best   = game.Judgement{ID: "best"}
	second = game.Judgement{ID: "second"}
	miss   = game.Judgement{ID: "miss", Combo: game.ComboReset}
)

type endCase struct {
	hit, ticks int
	held       bool
}

var endTests = map[endCase]game.Judgement{
	{0, 0, true}:  best,
	{0, 0, false}: miss,
	{4, 4, true}:  best,
	{4, 4, false}: second,
	{2, 4, true}:  second,
	{2, 4, false}: second,
	{0, 4, true}:  second,
	{0, 4, false}: miss,
}

func TestEndJudgement(t *testing.T) {
	for c, expected := range endTests {
		if got := EndJudgement(c.hit, c.ticks, c.held, best, second, miss); got != expected {
			t.Logf("%+v: got %v expected %v", c, got.ID, expected.ID)
			t.Fail()
		}
	}
}

func TestNoteStateResolvesOnce(t *testing.T) {
	var s NoteState
	if !s.ResolveHit(100) {
		t.Fatal("first resolve failed")
	}
	if s.ResolveHit(200) || s.ResolveMiss() {
		t.Fatal("note resolved twice")
	}
	if !s.IsHit() || s.HitTime() != 100 || s.IsMissed() {
		t.Fatalf("unexpected state %+v", s)
	}
	s.ResetState()
	if s.WasHit() {
		t.Fatal("reset did not clear state")
	}
	s.Skip()
	if !s.WasHit() || s.ResolveMiss() {
		t.Fatal("skipped note can still be judged")
	}
}

func TestAutopilotDefersReleases(t *testing.T) {
	a := NewAutopilot([]replay.Frame{
		replay.PressFrame(100, replay.Left),
		replay.ReleaseFrame(100, replay.Left),
		replay.PressFrame(200, replay.Right),
		replay.ReleaseFrame(200, replay.Right),
		replay.PressFrame(300, replay.Left),
		replay.ReleaseFrame(300, replay.Left),
		replay.PressFrame(400, replay.Right),
	})
	var applied []replay.Frame
	apply := func(f replay.Frame) { applied = append(applied, f) }

	st := NewUpdateState(300, game.Mods{}, nil)
	a.Run(st.Time, st, apply)
	recorded, deferred := st.Frames()

	// The left release at 100 must land before the left press at 300.
	expected := []replay.Frame{
		replay.PressFrame(100, replay.Left),
		replay.PressFrame(200, replay.Right),
		replay.ReleaseFrame(100, replay.Left),
		replay.PressFrame(300, replay.Left),
	}
	if len(applied) != len(expected) {
		t.Fatalf("applied %v", applied)
	}
	for i := range expected {
		if applied[i] != expected[i] || recorded[i] != expected[i] {
			t.Errorf("frame %d: applied %v recorded %v expected %v", i, applied[i], recorded[i], expected[i])
		}
	}
	if len(deferred) != 2 || deferred[0] != replay.ReleaseFrame(200, replay.Right) || deferred[1] != replay.ReleaseFrame(300, replay.Left) {
		t.Errorf("unexpected deferred %v", deferred)
	}

	st = NewUpdateState(1000, game.Mods{}, nil)
	applied = nil
	a.Run(st.Time, st, apply)
	if len(applied) != 1 || applied[0] != replay.PressFrame(400, replay.Right) {
		t.Errorf("second pass applied %v", applied)
	}

	a.Seek(250)
	applied = nil
	st = NewUpdateState(1000, game.Mods{}, nil)
	a.Run(st.Time, st, apply)
	if len(applied) != 2 || applied[0].Time != 300 {
		t.Errorf("after seek applied %v", applied)
	}
}
