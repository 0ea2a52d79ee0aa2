package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/sirupsen/logrus"

	"git.lost.host/meutraa/tempo/internal/action"
	"git.lost.host/meutraa/tempo/internal/game"
)

const clickLength = 60 * time.Millisecond

// play mixes a synthesized click per sample set of the hitsound.
func (s *Song) play(a action.PlaySound) {
	if a.Volume <= 0 {
		return
	}
	var freqs []float64
	if a.Sound.Normal {
		freqs = append(freqs, 880)
	}
	if a.Sound.Whistle {
		freqs = append(freqs, 1760)
	}
	if a.Sound.Finish {
		freqs = append(freqs, 440)
	}
	if a.Sound.Clap {
		freqs = append(freqs, 1320)
	}
	if len(freqs) == 0 {
		freqs = append(freqs, 880)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.WithFields(logrus.Fields{"sound": Hitsound(a.Sound), "volume": a.Volume}).Debug("hitsound")
	for _, f := range freqs {
		var c beep.Streamer = click(s.format.SampleRate, f, clickLength)
		c = &effects.Gain{Streamer: c, Gain: a.Volume/float64(len(freqs)) - 1}
		c = &effects.Pan{Streamer: c, Pan: a.Pan}
		s.mixer.Add(c)
	}
}

// click is a decaying sine tone.
func click(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	n := sr.N(d)
	i := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if i >= n {
			return 0, false
		}
		c := 0
		for ; c < len(samples) && i < n; c++ {
			env := 1 - float64(i)/float64(n)
			v := math.Sin(2*math.Pi*freq*float64(i)/float64(sr)) * env
			samples[c][0], samples[c][1] = v, v
			i++
		}
		return c, true
	})
}

// Hitsound names the samples for logging.
func Hitsound(h game.Hitsound) string {
	name := ""
	add := func(on bool, s string) {
		if on {
			if name != "" {
				name += "+"
			}
			name += s
		}
	}
	add(h.Normal, "normal")
	add(h.Whistle, "whistle")
	add(h.Finish, "finish")
	add(h.Clap, "clap")
	return name
}
