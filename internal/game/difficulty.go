package game

type Difficulty struct {
	Name    string `json:"name"`
	Msd     string `json:"msd,omitempty"`
	Section string `json:"-"`
	NKeys   uint8  `json:"keys,omitempty"`

	HP               float64 `json:"hp"`
	OD               float64 `json:"od"`
	CS               float64 `json:"cs"`
	AR               float64 `json:"ar"`
	SliderMultiplier float64 `json:"slider_multiplier,omitempty"`
	SliderTickRate   float64 `json:"slider_tick_rate,omitempty"`
}

var NKeyMap = map[string]uint8{
	"dance-single": 4,
	"dance-solo":   6,
	"dance-double": 8,
	"pump-single":  5,
	"kb7-single":   7,
}

const DefaultDifficultyValue = 5

// Adjusted applies difficulty changing mods and fills in defaults for
// missing values.
func (d Difficulty) Adjusted(m Mods) Difficulty {
	if d.SliderMultiplier <= 0 {
		d.SliderMultiplier = 1.4
	}
	if d.SliderTickRate <= 0 {
		d.SliderTickRate = 1
	}
	scale := func(v float64) float64 {
		if m.HardRock {
			v = min(10, v*1.4)
		}
		if m.Easy {
			v = v / 2
		}
		return v
	}
	d.HP = scale(d.HP)
	d.OD = scale(d.OD)
	d.AR = scale(d.AR)
	if m.HardRock {
		d.CS = min(10, d.CS*1.3)
	}
	if m.Easy {
		d.CS = d.CS / 2
	}
	return d
}
