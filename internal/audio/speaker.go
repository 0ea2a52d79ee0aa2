package audio

import (
	"time"

	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"
)

// Attach opens the audio device at the song's sample rate and starts
// pulling from it. The song itself stays paused until a play action.
func Attach(s *Song) error {
	sr := s.format.SampleRate
	if err := speaker.Init(sr, sr.N(time.Second/60)); nil != err {
		return errors.Wrap(err, "unable to open audio device")
	}
	speaker.Play(s)
	return nil
}

func Detach() {
	speaker.Clear()
}
