// Package relay carries spectator frames over websockets.
package relay

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"git.lost.host/meutraa/tempo/internal/action"
	"git.lost.host/meutraa/tempo/internal/spectator"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 256
)

type message struct {
	Frames []spectator.Frame `json:"frames"`
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

func (s *subscriber) write(log logrus.FieldLogger) {
	defer s.conn.Close()
	for data := range s.send {
		if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); nil != err {
			log.WithError(err).Warn("unable to set write deadline")
			return
		}
		if err := s.conn.WriteMessage(websocket.TextMessage, data); nil != err {
			log.WithError(err).Info("spectator write failed")
			return
		}
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Server fans the host's frames out to every connected spectator. Frames
// since the last Play are kept so late joiners can catch up.
type Server struct {
	log      logrus.FieldLogger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	subs    map[*subscriber]struct{}
	history [][]byte
}

func NewServer(log logrus.FieldLogger) *Server {
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	return &Server{
		log:      log.WithField("component", "relay"),
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		subs:     map[*subscriber]struct{}{},
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if nil != err {
		s.log.WithError(err).Warn("upgrade failed")
		return
	}
	sub := &subscriber{conn: conn}

	s.mu.Lock()
	sub.send = make(chan []byte, len(s.history)+sendBuffer)
	for _, data := range s.history {
		sub.send <- data
	}
	s.subs[sub] = struct{}{}
	n := len(s.subs)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"remote": r.RemoteAddr, "spectators": n}).Info("spectator joined")
	go sub.write(s.log)
	go s.read(sub)
}

// read discards anything a spectator sends and drops it on error.
func (s *Server) read(sub *subscriber) {
	for {
		if _, _, err := sub.conn.ReadMessage(); nil != err {
			s.drop(sub)
			return
		}
	}
}

func (s *Server) drop(sub *subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub]; !ok {
		return
	}
	delete(s.subs, sub)
	close(sub.send)
}

// Broadcast queues frames for every spectator without blocking. A
// spectator whose queue is full is disconnected.
func (s *Server) Broadcast(frames []spectator.Frame) error {
	if len(frames) == 0 {
		return nil
	}
	data, err := json.Marshal(message{Frames: frames})
	if nil != err {
		return errors.Wrap(err, "unable to marshal frames")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range frames {
		if f.Kind == spectator.Play || f.Kind == spectator.ChangingMap {
			s.history = nil
			break
		}
	}
	s.history = append(s.history, data)
	for sub := range s.subs {
		select {
		case sub.send <- data:
		default:
			s.log.Warn("spectator too slow, disconnecting")
			delete(s.subs, sub)
			close(sub.send)
		}
	}
	return nil
}

// Execute relays spectator and multiplayer actions, returning false for
// any other action.
func (s *Server) Execute(a action.Action) bool {
	var frames []spectator.Frame
	switch a := a.(type) {
	case action.SpectatorSend:
		frames = a.Frames
	case action.MultiplayerScore:
		frames = []spectator.Frame{spectator.ScoreFrame(a.Time, a.Score)}
	default:
		return false
	}
	if err := s.Broadcast(frames); nil != err {
		s.log.WithError(err).Warn("broadcast failed")
	}
	return true
}

func (s *Server) Spectators() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close disconnects every spectator.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		delete(s.subs, sub)
		close(sub.send)
	}
}
