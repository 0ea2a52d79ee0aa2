package input

import (
	"reflect"
	"testing"
	"time"

	"github.com/eiannone/keyboard"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func TestPoll(t *testing.T) {
	keys := make(chan keyboard.KeyEvent, 16)
	clk := &fakeClock{t: time.Unix(0, 0)}
	k := newKeyboard(keys, 50*time.Millisecond, clk.now, nil)

	steps := []struct {
		send     []keyboard.KeyEvent
		advance  time.Duration
		expected []Event
	}{
		{
			send:     []keyboard.KeyEvent{{Rune: 'd'}, {Rune: 'f'}},
			expected: []Event{{Rune: 'd', Down: true}, {Rune: 'f', Down: true}},
		},
		{
			// autorepeat of d keeps it down, f times out
			send:     []keyboard.KeyEvent{{Rune: 'd'}},
			advance:  60 * time.Millisecond,
			expected: []Event{{Rune: 'f'}},
		},
		{
			advance:  60 * time.Millisecond,
			expected: []Event{{Rune: 'd'}},
		},
		{
			send:     []keyboard.KeyEvent{{Key: keyboard.KeySpace}, {Key: keyboard.KeyEsc}},
			expected: []Event{{Rune: ' ', Down: true}, {Quit: true}},
		},
		{
			advance: 10 * time.Millisecond,
		},
	}

	for i, step := range steps {
		clk.t = clk.t.Add(step.advance)
		for _, ev := range step.send {
			keys <- ev
		}
		got := k.Poll()
		if !reflect.DeepEqual(got, step.expected) {
			t.Errorf("step %d: expected %v, got %v", i, step.expected, got)
		}
	}
}

func TestClosedChannel(t *testing.T) {
	keys := make(chan keyboard.KeyEvent)
	close(keys)
	k := newKeyboard(keys, 0, time.Now, nil)
	if len(k.Poll()) != 0 || k.Close() != nil {
		t.Fail()
	}
}
