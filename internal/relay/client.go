package relay

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"git.lost.host/meutraa/tempo/internal/spectator"
)

// Client receives a host's frames into an inbox. The inbox is drained on
// the frame tick; the network goroutine never blocks on it.
type Client struct {
	conn  *websocket.Conn
	inbox *spectator.Inbox
	log   logrus.FieldLogger

	once sync.Once
	done chan struct{}
	err  error
}

func Dial(ctx context.Context, url string, inbox *spectator.Inbox, log logrus.FieldLogger) (*Client, error) {
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if nil != err {
		return nil, errors.Wrapf(err, "unable to connect to %s", url)
	}
	c := &Client{
		conn:  conn,
		inbox: inbox,
		log:   log.WithField("relay", url),
		done:  make(chan struct{}),
	}
	go c.read()
	return c, nil
}

func (c *Client) read() {
	defer close(c.done)
	for {
		_, data, err := c.conn.ReadMessage()
		if nil != err {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				c.err = err
				c.log.WithError(err).Warn("relay connection lost")
			}
			return
		}
		var msg message
		if err := json.Unmarshal(data, &msg); nil != err {
			c.log.WithError(err).Warn("malformed relay message")
			continue
		}
		for _, f := range msg.Frames {
			c.inbox.Push(f)
		}
	}
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err is the reason the connection ended, nil for a normal close. Only
// valid after Done is closed.
func (c *Client) Err() error {
	return c.err
}

func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err = c.conn.Close()
	})
	return err
}
