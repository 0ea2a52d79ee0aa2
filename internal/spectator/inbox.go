package spectator

// Inbox is a bounded queue between a network goroutine and the frame
// tick. Push never blocks; Drain empties whatever has arrived.
type Inbox struct {
	ch      chan Frame
	dropped chan struct{}
}

func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = 1
	}
	return &Inbox{ch: make(chan Frame, size), dropped: make(chan struct{}, 1)}
}

// Push enqueues f, returning false when the inbox is full.
func (i *Inbox) Push(f Frame) bool {
	select {
	case i.ch <- f:
		return true
	default:
		select {
		case i.dropped <- struct{}{}:
		default:
		}
		return false
	}
}

// Drain returns every queued frame without blocking.
func (i *Inbox) Drain() []Frame {
	var frames []Frame
	for {
		select {
		case f := <-i.ch:
			frames = append(frames, f)
		default:
			return frames
		}
	}
}

// Overflowed reports, once, that frames were dropped since the last call.
func (i *Inbox) Overflowed() bool {
	select {
	case <-i.dropped:
		return true
	default:
		return false
	}
}
