package render

import "time"

type Renderer interface {
	Init() error
	Deinit() error
	Draw(ps []Primitive) error
}

// Loop calls frame once per period until it returns false. frame gets
// the time the frame started.
func Loop(period time.Duration, frame func(now time.Time) bool) {
	for cont := true; cont; {
		now := time.Now()
		deadline := now.Add(period)
		cont = frame(now)
		time.Sleep(time.Until(deadline))
	}
}
