package parser

import (
	"bytes"
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"

	"git.lost.host/meutraa/tempo/internal/game"
)

// JSONParser reads a single chart object or an array of charts.
type JSONParser struct{}

func (p *JSONParser) Parse(file string) ([]*game.Chart, error) {
	data, err := ioutil.ReadFile(file)
	if nil != err {
		return nil, errors.Wrap(err, "unable to read chart")
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		raw := []json.RawMessage{}
		if err := json.Unmarshal(data, &raw); nil != err {
			return nil, errors.Wrap(err, "malformed chart list")
		}
		charts := make([]*game.Chart, 0, len(raw))
		for i, r := range raw {
			chart, err := decodeChart(r)
			if nil != err {
				return nil, errors.Wrapf(err, "malformed chart %d", i)
			}
			charts = append(charts, chart)
		}
		return charts, nil
	}
	chart, err := decodeChart(data)
	if nil != err {
		return nil, errors.Wrap(err, "malformed chart")
	}
	return []*game.Chart{chart}, nil
}

// decodeChart decodes over default difficulty values so that missing
// fields keep them.
func decodeChart(data []byte) (*game.Chart, error) {
	chart := &game.Chart{Difficulty: game.Difficulty{
		HP: game.DefaultDifficultyValue,
		OD: game.DefaultDifficultyValue,
		CS: game.DefaultDifficultyValue,
		AR: game.DefaultDifficultyValue,
	}}
	if err := json.Unmarshal(data, chart); nil != err {
		return nil, err
	}
	return chart, nil
}
