package parser

import (
	"io/ioutil"
	"math/big"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"git.lost.host/meutraa/tempo/internal/game"
)

// SMParser reads StepMania charts as column mode charts, one per
// supported difficulty section.
type SMParser struct{}

type bpmChange struct {
	StartingBeat float64
	Value        float64
}

func (p *SMParser) msPerNote(rates []bpmChange, currentBeat float64, bpn float64) (float64, float64) {
	sel := 0.0
	for _, bpm := range rates {
		if currentBeat >= bpm.StartingBeat {
			sel = bpm.Value
		} else {
			break
		}
	}
	if sel <= 0 {
		return 0, 0
	}
	return sel, bpn * 60000 / sel
}

// 0 – No note
// 1 – Normal note
// 2 – Hold head
// 3 – Hold/Roll tail
// 4 – Roll head
// M – Mine (or other negative note)
// K – Automatic keysound
// L – Lift note
// F – Fake note

func (p *SMParser) Parse(file string) ([]*game.Chart, error) {
	data, err := ioutil.ReadFile(file)
	if nil != err {
		return nil, errors.Wrap(err, "unable to read chart")
	}

	str := strings.ReplaceAll(string(data), "\r", "")
	sections := strings.Split(str, "#NOTES:")
	meta := sections[0]
	difficulties := []game.Difficulty{}
	for _, section := range sections[1:] {
		lines := strings.SplitN(section, "\n", 7)
		if len(lines) < 7 {
			return nil, errors.New("truncated #NOTES section")
		}
		chartType := strings.TrimSpace(lines[1])
		chartType = strings.TrimSuffix(chartType, ":")
		nKeys, ok := game.NKeyMap[chartType]
		if !ok {
			continue
		}
		difficulties = append(difficulties, game.Difficulty{
			Name:    strings.TrimSuffix(strings.TrimSpace(lines[3]), ":"),
			Msd:     strings.TrimSuffix(strings.TrimSpace(lines[4]), ":"),
			Section: lines[6],
			NKeys:   nKeys,
			HP:      game.DefaultDifficultyValue,
			OD:      game.DefaultDifficultyValue,
		})
	}

	offset := 0.0
	bpms := []bpmChange{}
	var title, artist, music string

	for _, mdl := range strings.Split(meta, "\n#") {
		mdl = strings.TrimPrefix(strings.TrimSpace(mdl), "#")
		value := func(key string) string {
			return strings.TrimSuffix(strings.TrimPrefix(mdl, key), ";")
		}
		switch {
		case strings.HasPrefix(mdl, "TITLE:"):
			title = value("TITLE:")
		case strings.HasPrefix(mdl, "ARTIST:"):
			artist = value("ARTIST:")
		case strings.HasPrefix(mdl, "MUSIC:"):
			music = value("MUSIC:")
		case strings.HasPrefix(mdl, "OFFSET:"):
			offs, err := strconv.ParseFloat(value("OFFSET:"), 64)
			if nil != err {
				return nil, errors.Wrap(err, "malformed #OFFSET")
			}
			offset = -offs * 1000
		case strings.HasPrefix(mdl, "BPMS:"):
			bbs := strings.Split(strings.ReplaceAll(value("BPMS:"), "\n", ""), ",")
			for _, bpm := range bbs {
				as := strings.Split(bpm, "=")
				if len(as) != 2 {
					return nil, errors.Errorf("malformed bpm %q", bpm)
				}
				sb, err := strconv.ParseFloat(strings.TrimSpace(as[0]), 64)
				if nil != err {
					return nil, errors.Wrap(err, "malformed bpm beat")
				}
				v, err := strconv.ParseFloat(strings.TrimSpace(as[1]), 64)
				if nil != err {
					return nil, errors.Wrap(err, "malformed bpm value")
				}
				bpms = append(bpms, bpmChange{StartingBeat: sb, Value: v})
			}
		}
	}
	if len(bpms) == 0 {
		return nil, errors.New("chart has no #BPMS")
	}
	if music != "" {
		music = filepath.Join(filepath.Dir(file), music)
	}

	charts := []*game.Chart{}
	for _, difficulty := range difficulties {
		// Start time of first note
		ms := offset
		currentBeat := 0.0
		lastBPM := 0.0

		notes := []*game.NoteDef{}
		timing := []game.TimingPoint{}
		var mineCount, holdCount int64

		blocks := strings.Split(difficulty.Section, "\n,")
		measures := []game.Measure{}

		for _, block := range blocks {
			measures = append(measures, game.Measure{Denom: 1, Time: ms})

			lines := []string{}
			for _, l := range strings.Split(block, "\n") {
				if strings.HasPrefix(l, " ") || strings.Contains(l, "-") {
					continue
				}
				l = strings.TrimSuffix(strings.TrimSpace(l), ";")
				if len(l) >= int(difficulty.NKeys) {
					lines = append(lines, l)
				}
			}
			if len(lines) == 0 {
				continue
			}

			// Beat count is 4 per block
			lineCount := int64(len(lines))
			beatsPerNote := 4.0 / float64(lineCount) // 1/4, 1/8, 1/16, 1/24 etc

			for i, line := range lines {
				r := big.NewRat(int64(i*4), lineCount)
				denom := int(r.Denom().Int64())
				if denom == 1 && i != 0 {
					measures = append(measures, game.Measure{Denom: 4, Time: ms})
				}
				if denom == 2 || denom == 4 {
					measures = append(measures, game.Measure{Denom: 8, Time: ms})
				}
				bpm, msPerNote := p.msPerNote(bpms, currentBeat, beatsPerNote)
				if bpm != lastBPM && bpm > 0 {
					timing = append(timing, game.TimingPoint{Time: ms, BeatLength: 60000 / bpm, Meter: 4})
					lastBPM = bpm
				}

				for col, c := range []byte(line) {
					switch c {
					case '1':
						notes = append(notes, &game.NoteDef{Kind: game.Tap, Time: ms, Column: col, Denom: denom * 4})
					case '2', '4':
						holdCount++
						notes = append(notes, &game.NoteDef{Kind: game.Hold, Time: ms, Column: col, Denom: denom * 4})
					case 'M':
						mineCount++
					case '3':
						// Close the last hold head in this column
						for j := len(notes) - 1; j >= 0; j-- {
							if notes[j].Column == col && notes[j].Kind == game.Hold {
								notes[j].EndTime = ms
								break
							}
						}
					}
				}

				ms += msPerNote
				currentBeat += beatsPerNote
			}
		}

		defs := make([]game.NoteDef, 0, len(notes))
		for _, n := range notes {
			if n.Kind == game.Hold && n.EndTime <= n.Time {
				n.Kind = game.Tap
				n.EndTime = 0
			}
			defs = append(defs, *n)
		}

		charts = append(charts, &game.Chart{
			Title:      title,
			Artist:     artist,
			Version:    difficulty.Name,
			Mode:       game.ModeColumn,
			AudioFile:  music,
			Difficulty: difficulty,
			Timing:     timing,
			Notes:      defs,
			Measures:   measures,
			NoteCount:  int64(len(defs)),
			HoldCount:  holdCount,
			MineCount:  mineCount,
		})
	}

	return charts, nil
}
