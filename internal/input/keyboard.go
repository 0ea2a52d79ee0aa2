// Package input turns raw terminal key events into presses and releases.
package input

import (
	"sort"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/pkg/errors"
)

// DefaultHold is how long a key stays down after its last event.
// Terminals report no releases, only autorepeat, so a release is the
// absence of a repeat.
const DefaultHold = 80 * time.Millisecond

type Event struct {
	Rune rune
	Down bool
	Quit bool
}

type Keyboard struct {
	hold  time.Duration
	clock func() time.Time
	keys  <-chan keyboard.KeyEvent
	close func() error
	held  map[rune]time.Time
	err   error
}

// Open puts the terminal in raw mode and starts reading keys.
func Open(hold time.Duration) (*Keyboard, error) {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, errors.Wrap(err, "unable to open keyboard")
	}
	return newKeyboard(keys, hold, time.Now, keyboard.Close), nil
}

func newKeyboard(keys <-chan keyboard.KeyEvent, hold time.Duration, clock func() time.Time, close func() error) *Keyboard {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Keyboard{
		hold:  hold,
		clock: clock,
		keys:  keys,
		close: close,
		held:  map[rune]time.Time{},
	}
}

func (k *Keyboard) Close() error {
	if k.close == nil {
		return nil
	}
	return k.close()
}

// Err is the last read error reported by the terminal.
func (k *Keyboard) Err() error {
	return k.err
}

// Poll drains pending key events without blocking and returns the
// presses and releases they imply, in order.
func (k *Keyboard) Poll() []Event {
	now := k.clock()
	var events []Event
	for more := true; more; {
		select {
		case ev, ok := <-k.keys:
			if !ok {
				more = false
				break
			}
			if ev.Err != nil {
				k.err = ev.Err
				continue
			}
			r, quit := translate(ev)
			if quit {
				events = append(events, Event{Quit: true})
				continue
			}
			if r == 0 {
				continue
			}
			if _, ok := k.held[r]; !ok {
				events = append(events, Event{Rune: r, Down: true})
			}
			k.held[r] = now
		default:
			more = false
		}
	}

	var released []rune
	for r, last := range k.held {
		if now.Sub(last) >= k.hold {
			released = append(released, r)
		}
	}
	sort.Slice(released, func(i, j int) bool { return released[i] < released[j] })
	for _, r := range released {
		delete(k.held, r)
		events = append(events, Event{Rune: r})
	}
	return events
}

func translate(ev keyboard.KeyEvent) (rune, bool) {
	switch ev.Key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return 0, true
	case keyboard.KeySpace:
		return ' ', false
	}
	return ev.Rune, false
}
