// Package parser loads charts from disk.
package parser

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"git.lost.host/meutraa/tempo/internal/game"
)

var (
	ErrUnsupportedMode   = errors.New("unsupported chart mode")
	ErrUnsupportedFormat = errors.New("unsupported chart format")
	ErrNoCharts          = errors.New("file contains no playable charts")
)

type Parser interface {
	Parse(file string) ([]*game.Chart, error)
}

// DefaultParser picks a format from the file extension.
type DefaultParser struct {
	SM   SMParser
	JSON JSONParser
}

func (p *DefaultParser) Parse(file string) ([]*game.Chart, error) {
	var (
		charts []*game.Chart
		err    error
	)
	switch strings.ToLower(filepath.Ext(file)) {
	case ".sm":
		charts, err = p.SM.Parse(file)
	case ".json":
		charts, err = p.JSON.Parse(file)
	default:
		return nil, errors.Wrap(ErrUnsupportedFormat, file)
	}
	if nil != err {
		return nil, err
	}
	if len(charts) == 0 {
		return nil, errors.Wrap(ErrNoCharts, file)
	}
	for _, c := range charts {
		if err := validate(c); nil != err {
			return nil, errors.Wrapf(err, "%s [%s]", file, c.Difficulty.Name)
		}
		c.ComputeHash()
	}
	return charts, nil
}

// Load parses file and returns the chart at index.
func Load(p Parser, file string, index int) (*game.Chart, error) {
	charts, err := p.Parse(file)
	if nil != err {
		return nil, err
	}
	if index < 0 || index >= len(charts) {
		return nil, errors.Errorf("%s has %d charts, no index %d", file, len(charts), index)
	}
	return charts[index], nil
}

func validate(c *game.Chart) error {
	switch c.Mode {
	case game.ModeTap, game.ModeColumn, game.ModeDrum:
	default:
		return errors.Wrapf(ErrUnsupportedMode, "%q", c.Mode)
	}
	if len(c.Timing) == 0 {
		return errors.New("chart has no timing points")
	}
	if c.Timing[0].Inherited {
		return errors.New("first timing point is inherited")
	}
	last := c.Timing[0].Time
	for _, tp := range c.Timing {
		if tp.Time < last {
			return errors.Errorf("timing point at %v is out of order", tp.Time)
		}
		last = tp.Time
	}
	last = 0
	for i, n := range c.Notes {
		if i > 0 && n.Time < last {
			return errors.Errorf("note %d at %v is out of order", i, n.Time)
		}
		if n.Kind != game.Tap && n.EndTime < n.Time {
			return errors.Errorf("note %d ends before it starts", i)
		}
		if c.Mode == game.ModeColumn && n.Column < 0 {
			return errors.Errorf("note %d has a negative column", i)
		}
		last = n.Time
	}
	return nil
}
