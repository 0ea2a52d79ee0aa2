// Package audio plays the chart's music and hitsounds with beep and
// executes the song actions the gameplay core requests.
package audio

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"git.lost.host/meutraa/tempo/internal/action"
)

const resampleQuality = 4

// Song is the music transport. It is a beep.Streamer; the speaker, or a
// test, pulls samples from it.
type Song struct {
	mu     sync.Mutex
	log    logrus.FieldLogger
	format beep.Format
	music  beep.StreamSeeker
	closer func() error

	ctrl      *beep.Ctrl
	resampler *beep.Resampler
	volume    *effects.Volume
	mixer     *beep.Mixer
}

// Open decodes an mp3, ogg or wav file.
func Open(file string, log logrus.FieldLogger) (*Song, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, errors.Wrap(err, "unable to open audio")
	}
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(file)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, errors.Errorf("unsupported audio file %s", file)
	}
	if nil != err {
		f.Close()
		return nil, errors.Wrapf(err, "unable to decode %s", file)
	}
	s := NewSong(streamer, format, log)
	s.closer = streamer.Close
	return s, nil
}

// NewSong wraps an already decoded stream. The song starts paused at 0.
func NewSong(music beep.StreamSeeker, format beep.Format, log logrus.FieldLogger) *Song {
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	s := &Song{log: log, format: format, music: music}
	s.ctrl = &beep.Ctrl{Streamer: music, Paused: true}
	s.resampler = beep.ResampleRatio(resampleQuality, 1, s.ctrl)
	s.volume = &effects.Volume{Streamer: s.resampler, Base: 2}
	s.mixer = &beep.Mixer{}
	s.mixer.Add(s.volume)
	return s
}

func (s *Song) Format() beep.Format {
	return s.format
}

// Stream implements beep.Streamer.
func (s *Song) Stream(samples [][2]float64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, _ := s.mixer.Stream(samples)
	return n, true
}

func (s *Song) Err() error {
	return nil
}

// Position is the song time in ms.
func (s *Song) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position()
}

func (s *Song) position() float64 {
	return float64(s.format.SampleRate.D(s.music.Position())) / float64(time.Millisecond)
}

func (s *Song) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Paused
}

func (s *Song) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resampler.Ratio()
}

// Execute runs a song action, returning false for any other action.
func (s *Song) Execute(a action.Action) bool {
	switch a := a.(type) {
	case action.Song:
		s.song(a)
	case action.PlaySound:
		s.play(a)
	default:
		return false
	}
	return true
}

func (s *Song) song(a action.Song) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch a.Op {
	case action.SongPlay:
		s.ctrl.Paused = false
	case action.SongPause:
		s.ctrl.Paused = true
	case action.SongRestart:
		s.ctrl.Paused = true
		s.seek(0)
	case action.SongSeek:
		s.seek(a.Value)
	case action.SongSetRate:
		if a.Value > 0 {
			s.resampler.SetRatio(a.Value)
		} else {
			s.ctrl.Paused = true
		}
	case action.SongSetVolume:
		s.volume.Silent = a.Value <= 0
		if a.Value > 0 {
			s.volume.Volume = math.Log2(a.Value)
		}
	}
	s.log.WithFields(logrus.Fields{"op": a.Op, "value": a.Value, "position": s.position()}).Debug("song")
}

func (s *Song) seek(ms float64) {
	n := s.format.SampleRate.N(time.Duration(ms * float64(time.Millisecond)))
	n = min(max(n, 0), s.music.Len())
	if err := s.music.Seek(n); nil != err {
		s.log.WithError(err).Warn("unable to seek")
	}
}

func (s *Song) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
