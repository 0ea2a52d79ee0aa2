package main

import (
	"context"
	"image/color"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"git.lost.host/meutraa/tempo/internal/action"
	"git.lost.host/meutraa/tempo/internal/audio"
	"git.lost.host/meutraa/tempo/internal/config"
	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/gameplay"
	"git.lost.host/meutraa/tempo/internal/input"
	"git.lost.host/meutraa/tempo/internal/relay"
	"git.lost.host/meutraa/tempo/internal/render"
	"git.lost.host/meutraa/tempo/internal/spectator"
	"git.lost.host/meutraa/tempo/internal/store"
)

const noticeLife = 2 * time.Second

var noticeColors = map[action.Level]color.RGBA{
	action.Info:  {220, 220, 220, 255},
	action.Warn:  {236, 195, 0, 255},
	action.Error: {236, 30, 0, 255},
}

// Program is a live session in the terminal: keys in, primitives and
// audio out.
type Program struct {
	log      logrus.FieldLogger
	flags    config.Flags
	settings *config.Settings
	chart    *game.Chart
	store    *store.Store
	manager  *gameplay.Manager

	transport audio.Transport
	song      *audio.Song
	keys      *input.Keyboard
	renderer  render.Renderer

	server *relay.Server
	http   *http.Server
	client *relay.Client

	notice      action.Notification
	noticeUntil time.Time
	result      *action.Complete
}

func NewProgram(flags config.Flags, settings *config.Settings, chart *game.Chart, st *store.Store, opts gameplay.Options, log *logrus.Logger) (*Program, error) {
	p := &Program{
		log:      log,
		flags:    flags,
		settings: settings,
		chart:    chart,
		store:    st,
	}
	opts.Broadcast = flags.Broadcast != ""
	m, err := gameplay.New(chart, opts)
	if nil != err {
		return nil, err
	}
	switch {
	case flags.Preview:
		m.SetMode(gameplay.Preview{})
	case flags.Multiplayer:
		m.SetMode(gameplay.Multiplayer{})
	}
	p.manager = m
	return p, nil
}

func (p *Program) init() error {
	p.transport = audio.NewClock(time.Now)
	if p.chart.AudioFile != "" {
		song, err := audio.Open(p.chart.AudioFile, p.log)
		if nil == err {
			err = audio.Attach(song)
		}
		if nil != err {
			p.log.WithError(err).Warn("playing without audio")
		} else {
			p.song = song
			p.transport = song
		}
	}

	if p.flags.Broadcast != "" {
		p.server = relay.NewServer(p.log)
		p.http = &http.Server{Addr: p.flags.Broadcast, Handler: p.server}
		go func() {
			if err := p.http.ListenAndServe(); nil != err && err != http.ErrServerClosed {
				p.log.WithError(err).Error("spectator relay stopped")
			}
		}()
	}
	if p.flags.Spectate != "" {
		inbox := spectator.NewInbox(p.settings.Spectator.InboxSize)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := relay.Dial(ctx, p.flags.Spectate, inbox, p.log)
		if nil != err {
			return err
		}
		p.client = client
		p.manager.SetMode(gameplay.Spectating{Inbox: inbox})
	}

	keys, err := input.Open(input.DefaultHold)
	if nil != err {
		return err
	}
	p.keys = keys

	r := render.NewTerminal(os.Stdout)
	if err := r.Init(); nil != err {
		return err
	}
	p.renderer = r
	return nil
}

// Run plays until the session completes or the player quits. The result
// is nil when the player quit.
func (p *Program) Run() (*action.Complete, error) {
	defer p.close()
	if err := p.init(); nil != err {
		return nil, err
	}
	render.Loop(p.flags.FramePeriod, p.frame)
	return p.result, nil
}

func (p *Program) frame(now time.Time) bool {
	for _, ev := range p.keys.Poll() {
		switch {
		case ev.Quit:
			return false
		case ev.Down:
			p.manager.KeyDown(ev.Rune)
		default:
			p.manager.KeyUp(ev.Rune)
		}
	}
	if p.client != nil {
		select {
		case <-p.client.Done():
			p.show(action.Notification{Level: action.Warn, Text: "lost connection to host"}, now)
			p.client = nil
		default:
		}
	}

	for _, a := range p.manager.Update(p.transport.Position(), p.settings) {
		p.execute(a, now)
	}

	ps := p.manager.Draw()
	if now.Before(p.noticeUntil) {
		ps = append(ps, render.Primitive{
			Shape: render.Text, X: 0.02, Y: 0.95, Layer: 20,
			Color: noticeColors[p.notice.Level], Text: p.notice.Text,
		})
	}
	if err := p.renderer.Draw(ps); nil != err {
		p.log.WithError(err).Error("unable to draw")
		return false
	}
	return p.result == nil
}

func (p *Program) execute(a action.Action, now time.Time) {
	if p.transport.Execute(a) {
		return
	}
	if p.server != nil && p.server.Execute(a) {
		return
	}
	switch a := a.(type) {
	case action.Notification:
		p.show(a, now)
	case action.UpdateSettings:
		a.Apply(p.settings)
		if err := config.Save(p.flags.Config, *p.settings); nil != err {
			p.log.WithError(err).Warn("unable to save settings")
		}
	case action.CursorVisible, action.CursorOverride:
		p.log.WithField("action", a).Debug("cursor")
	case action.Complete:
		p.complete(a)
	}
}

func (p *Program) show(n action.Notification, now time.Time) {
	entry := p.log.WithField("notice", n.Text)
	switch n.Level {
	case action.Warn:
		entry.Warn("notification")
	case action.Error:
		entry.Error("notification")
	default:
		entry.Debug("notification")
	}
	p.notice = n
	p.noticeUntil = now.Add(noticeLife)
}

func (p *Program) complete(c action.Complete) {
	p.result = &c
	if c.Replay == nil || c.Score.Mods.Assisted() {
		return
	}
	id, err := p.store.SaveScore(c.Score, c.Replay, c.Failed)
	if nil != err {
		p.log.WithError(err).Error("unable to save score")
		return
	}
	p.log.WithField("id", id).Info("score saved")
}

func (p *Program) close() {
	if p.renderer != nil {
		if err := p.renderer.Deinit(); nil != err {
			p.log.WithError(err).Warn("unable to restore terminal")
		}
	}
	if p.keys != nil {
		p.keys.Close()
	}
	if p.client != nil {
		p.client.Close()
	}
	if p.server != nil {
		p.server.Close()
		p.http.Close()
	}
	if p.song != nil {
		audio.Detach()
		p.song.Close()
	}
}
