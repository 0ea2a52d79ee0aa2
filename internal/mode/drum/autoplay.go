package drum

import "git.lost.host/meutraa/tempo/internal/replay"

func (e *Engine) plan() []replay.Frame {
	var frames []replay.Frame
	tap := func(t float64, k replay.Key) {
		frames = append(frames, replay.PressFrame(t, k), replay.ReleaseFrame(t, k))
	}
	leftDon, leftKat := true, true
	for _, n := range e.notes {
		t := n.Time()
		switch n.kind {
		case Don, Kat:
			l, r := replay.LeftDon, replay.RightDon
			left := &leftDon
			if n.kind == Kat {
				l, r = replay.LeftKat, replay.RightKat
				left = &leftKat
			}
			if n.big {
				tap(t, l)
				tap(t, r)
				continue
			}
			if *left {
				tap(t, l)
			} else {
				tap(t, r)
			}
			*left = !*left
		case Roll:
			interval := e.timing.At(t).BeatLength / 4
			for rt := t; rt < n.EndTime(); rt += interval {
				tap(rt, replay.LeftDon)
				rt2 := rt + interval/2
				if rt2 < n.EndTime() {
					tap(rt2, replay.RightDon)
				}
			}
		case DenDen:
			step := (n.EndTime() - t) / float64(n.required)
			for i := 0; i < n.required; i++ {
				k := replay.LeftDon
				if i%2 == 1 {
					k = replay.LeftKat
				}
				tap(t+float64(i)*step, k)
			}
		}
	}
	return frames
}
