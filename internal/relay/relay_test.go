package relay

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"git.lost.host/meutraa/tempo/internal/action"
	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/replay"
	"git.lost.host/meutraa/tempo/internal/score"
	"git.lost.host/meutraa/tempo/internal/spectator"
)

func serve(t *testing.T) (*Server, string) {
	s := NewServer(nil)
	srv := httptest.NewServer(s)
	t.Cleanup(func() {
		s.Close()
		srv.Close()
	})
	return s, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string, size int) (*Client, *spectator.Inbox) {
	inbox := spectator.NewInbox(size)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, url, inbox, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c, inbox
}

// collect drains inbox until n frames arrived or a second passes.
func collect(inbox *spectator.Inbox, n int) []spectator.Frame {
	var frames []spectator.Frame
	deadline := time.Now().Add(time.Second)
	for len(frames) < n && time.Now().Before(deadline) {
		frames = append(frames, inbox.Drain()...)
		time.Sleep(5 * time.Millisecond)
	}
	return frames
}

func TestLateJoinerReceivesHistory(t *testing.T) {
	s, url := serve(t)
	info := spectator.PlayInfo{ChartHash: "abc", Mode: game.ModeColumn}
	s.Broadcast([]spectator.Frame{spectator.PlayFrame(0, info)})
	s.Broadcast([]spectator.Frame{
		spectator.ActionFrame(replay.PressFrame(1000, replay.Column(2))),
		spectator.Simple(1500, spectator.Buffer),
	})

	_, inbox := dial(t, url, 64)
	for s.Spectators() == 0 {
		time.Sleep(time.Millisecond)
	}
	s.Execute(action.SpectatorSend{Frames: []spectator.Frame{spectator.Simple(2000, spectator.Pause)}})

	frames := collect(inbox, 4)
	kinds := []spectator.Kind{spectator.Play, spectator.ReplayAction, spectator.Buffer, spectator.Pause}
	if len(frames) != len(kinds) {
		t.Fatalf("expected %d frames, got %+v", len(kinds), frames)
	}
	for i, k := range kinds {
		if frames[i].Kind != k {
			t.Errorf("frame %d: expected %v, got %v", i, k, frames[i].Kind)
		}
	}
	if frames[0].Play == nil || frames[0].Play.ChartHash != "abc" {
		t.Errorf("play info lost: %+v", frames[0])
	}
	f, ok := frames[1].ReplayFrame()
	if !ok || f.Time != 1000 || f.Action != replay.PressFrame(1000, replay.Column(2)).Action {
		t.Errorf("replay action lost: %+v", frames[1])
	}
}

func TestNewSessionResetsHistory(t *testing.T) {
	s, url := serve(t)
	s.Broadcast([]spectator.Frame{spectator.PlayFrame(0, spectator.PlayInfo{ChartHash: "old"})})
	s.Broadcast([]spectator.Frame{spectator.Simple(100, spectator.Buffer)})
	s.Broadcast([]spectator.Frame{spectator.PlayFrame(0, spectator.PlayInfo{ChartHash: "new"})})

	_, inbox := dial(t, url, 64)
	frames := collect(inbox, 1)
	time.Sleep(20 * time.Millisecond)
	frames = append(frames, inbox.Drain()...)
	if len(frames) != 1 || frames[0].Play.ChartHash != "new" {
		t.Errorf("expected only the new session, got %+v", frames)
	}
}

func TestMultiplayerScore(t *testing.T) {
	s, url := serve(t)
	_, inbox := dial(t, url, 8)
	for s.Spectators() == 0 {
		time.Sleep(time.Millisecond)
	}
	sc := score.New("meutraa", "abc", game.ModeDrum, game.Mods{})
	sc.Score = 1234
	if s.Execute(action.Notification{}) {
		t.Error("notification is not a relay action")
	}
	s.Execute(action.MultiplayerScore{Time: 3000, Score: sc})

	frames := collect(inbox, 1)
	if len(frames) != 1 || frames[0].Kind != spectator.ScoreSync || frames[0].Time != 3000 || frames[0].Score.Score != 1234 {
		t.Errorf("unexpected %+v", frames)
	}
}

func TestServerCloseEndsClient(t *testing.T) {
	s, url := serve(t)
	c, _ := dial(t, url, 8)
	for s.Spectators() == 0 {
		time.Sleep(time.Millisecond)
	}
	s.Close()
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("client did not notice the close")
	}
	if c.Err() != nil {
		t.Errorf("normal close reported %v", c.Err())
	}
}
