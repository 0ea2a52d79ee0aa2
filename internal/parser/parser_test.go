package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"git.lost.host/meutraa/tempo/internal/game"
)

const sm = `#TITLE:Test;
#ARTIST:eotw;
#MUSIC:song.ogg;
#OFFSET:-0.100;
#BPMS:0.000=120.000;
#NOTES:
     dance-single:
     :
     Easy:
     3:
     0,0,0,0,0:
1000
0000
0100
0000
,
2000
0000
3001
0000
;
#NOTES:
     lights-cabinet:
     :
     Hard:
     9:
     0,0,0,0,0:
00000000
;
`

func write(t *testing.T, name, content string) string {
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); nil != err {
		t.Fatal(err)
	}
	return p
}

func TestParseSM(t *testing.T) {
	file := write(t, "test.sm", sm)
	p := DefaultParser{}
	charts, err := p.Parse(file)
	if nil != err {
		t.Fatal(err)
	}
	if len(charts) != 1 {
		t.Fatalf("expected the unsupported section skipped, got %d charts", len(charts))
	}
	c := charts[0]
	if c.Mode != game.ModeColumn || c.Difficulty.NKeys != 4 || c.Title != "Test" {
		t.Errorf("bad metadata %+v", c)
	}
	if c.AudioFile != filepath.Join(filepath.Dir(file), "song.ogg") {
		t.Errorf("audio file %q", c.AudioFile)
	}
	if len(c.Timing) != 1 || c.Timing[0].Time != 100 || c.Timing[0].BeatLength != 500 {
		t.Errorf("bad timing %+v", c.Timing)
	}

	expected := []game.NoteDef{
		{Kind: game.Tap, Time: 100, Column: 0, Denom: 4},
		{Kind: game.Tap, Time: 1100, Column: 1, Denom: 4},
		{Kind: game.Hold, Time: 2100, EndTime: 3100, Column: 0, Denom: 4},
		{Kind: game.Tap, Time: 3100, Column: 3, Denom: 4},
	}
	if len(c.Notes) != len(expected) {
		t.Fatalf("expected %d notes, got %+v", len(expected), c.Notes)
	}
	for i, n := range expected {
		got := c.Notes[i]
		if got.Kind != n.Kind || got.Time != n.Time || got.EndTime != n.EndTime || got.Column != n.Column || got.Denom != n.Denom {
			t.Errorf("note %d: expected %+v, got %+v", i, n, got)
		}
	}
	if c.HoldCount != 1 || c.Hash == "" {
		t.Errorf("counts or hash missing: %d %q", c.HoldCount, c.Hash)
	}
}

func TestParseJSON(t *testing.T) {
	single := `{"mode": "drum", "difficulty": {"name": "oni", "od": 5, "hp": 5},
		"timing": [{"time": 0, "beat_length": 500}],
		"notes": [{"kind": 0, "time": 500}, {"kind": 2, "time": 1000, "end_time": 2000}]}`
	list := "[" + single + "," + single + "]"

	tests := map[string]int{
		"single.json": 1,
		"list.json":   2,
	}
	content := map[string]string{"single.json": single, "list.json": list}
	p := DefaultParser{}
	for name, n := range tests {
		charts, err := p.Parse(write(t, name, content[name]))
		if nil != err {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if len(charts) != n {
			t.Errorf("%s: expected %d charts, got %d", name, n, len(charts))
		}
		if charts[0].Notes[1].Kind != game.Slider {
			t.Errorf("%s: kind not decoded", name)
		}
	}
}

func TestParseJSONDefaults(t *testing.T) {
	timing := `"timing": [{"time": 0, "beat_length": 500}], "notes": [{"time": 500}]`
	tests := map[string]struct {
		content string
		od, hp  float64
	}{
		"missing.json": {`{"mode": "drum", "difficulty": {"name": "x"}, ` + timing + `}`, 5, 5},
		"absent.json":  {`[{"mode": "drum", ` + timing + `}]`, 5, 5},
		"partial.json": {`{"mode": "drum", "difficulty": {"od": 8}, ` + timing + `}`, 8, 5},
		"zero.json":    {`{"mode": "drum", "difficulty": {"od": 0, "hp": 0}, ` + timing + `}`, 0, 0},
	}

	p := DefaultParser{}
	for name, test := range tests {
		charts, err := p.Parse(write(t, name, test.content))
		if nil != err {
			t.Errorf("%s: %v", name, err)
			continue
		}
		d := charts[0].Difficulty
		if d.OD != test.od || d.HP != test.hp {
			t.Errorf("%s: od %v hp %v, expected %v %v", name, d.OD, d.HP, test.od, test.hp)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := map[string]struct {
		name, content string
		sentinel      error
	}{
		"mode": {
			"a.json", `{"mode": "guitar", "timing": [{"time": 0, "beat_length": 500}]}`, ErrUnsupportedMode,
		},
		"format": {
			"a.osu", `osu file format v14`, ErrUnsupportedFormat,
		},
		"empty": {
			"a.json", `[]`, ErrNoCharts,
		},
		"order": {
			"a.json", `{"mode": "tap", "timing": [{"time": 0, "beat_length": 500}],
				"notes": [{"time": 500}, {"time": 100}]}`, nil,
		},
		"timing": {
			"a.json", `{"mode": "tap", "notes": [{"time": 500}]}`, nil,
		},
		"malformed": {
			"a.json", `{"mode": `, nil,
		},
	}

	p := DefaultParser{}
	for name, test := range tests {
		_, err := p.Parse(write(t, test.name, test.content))
		if nil == err {
			t.Errorf("%s: expected an error", name)
			continue
		}
		if test.sentinel != nil && errors.Cause(err) != test.sentinel {
			t.Errorf("%s: expected %v, got %v", name, test.sentinel, err)
		}
		t.Log(name, err)
	}
}

func TestLoad(t *testing.T) {
	file := write(t, "test.sm", sm)
	if _, err := Load(&DefaultParser{}, file, 1); nil == err {
		t.Error("expected an index error")
	}
	c, err := Load(&DefaultParser{}, file, 0)
	if nil != err || c.Difficulty.Name != "Easy" {
		t.Errorf("unexpected %v %v", c, err)
	}
}
