package store

import (
	"path/filepath"
	"testing"

	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/replay"
	"git.lost.host/meutraa/tempo/internal/score"
)

func open(t *testing.T) *Store {
	s, err := Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestScoresRoundTrip(t *testing.T) {
	s := open(t)
	mods := game.Mods{HardRock: true, Speed: 1.5}
	r := &replay.Replay{ChartHash: "abc", Mode: game.ModeColumn, Username: "meutraa", Mods: mods}
	r.Append(replay.PressFrame(1000, replay.Column(0)))
	r.Append(replay.ReleaseFrame(1040, replay.Column(0)))

	low := score.New("meutraa", "abc", game.ModeColumn, mods)
	low.Score = 100
	high := low.Clone()
	high.Score = 900
	high.Judgements["perfect"] = 3

	if _, err := s.SaveScore(low, nil, true); err != nil {
		t.Fatal(err)
	}
	id, err := s.SaveScore(high, r, false)
	if err != nil {
		t.Fatal(err)
	}

	entries, err := s.Scores("abc")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].ID != id || entries[0].Score != 900 {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if !entries[1].Failed || entries[0].Rate != 1.5 {
		t.Errorf("flags not stored: %+v", entries)
	}

	res, err := s.Result(id)
	if err != nil {
		t.Fatal(err)
	}
	if res.Judgements["perfect"] != 3 {
		t.Errorf("judgements not stored: %v", res.Judgements)
	}

	loaded, err := s.Replay(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Frames) != 2 || loaded.Frames[1].Time != 1040 {
		t.Errorf("replay not stored: %+v", loaded.Frames)
	}
	if _, err := s.Replay(entries[1].ID); err == nil {
		t.Error("expected an error for a score without replay")
	}
}

func TestPrefs(t *testing.T) {
	s := open(t)
	if _, ok, err := s.LoadPrefs("abc", game.ModeTap); err != nil || ok {
		t.Fatalf("expected no prefs, got ok=%v err=%v", ok, err)
	}
	if err := s.SavePrefs("abc", game.ModeTap, game.ChartPrefs{Offset: 10, ScrollSpeed: 1.2}); err != nil {
		t.Fatal(err)
	}
	if err := s.SavePrefs("abc", game.ModeTap, game.ChartPrefs{Offset: -5, ScrollSpeed: 1.2}); err != nil {
		t.Fatal(err)
	}
	p, ok, err := s.LoadPrefs("abc", game.ModeTap)
	if err != nil || !ok || p.Offset != -5 {
		t.Fatalf("unexpected prefs %+v ok=%v err=%v", p, ok, err)
	}
	if _, ok, _ := s.LoadPrefs("abc", game.ModeDrum); ok {
		t.Error("prefs leaked across modes")
	}
}
