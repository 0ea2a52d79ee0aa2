package game

import "strings"

type Mods struct {
	Autoplay    bool    `json:"autoplay,omitempty"`
	Relax       bool    `json:"relax,omitempty"`
	NoFail      bool    `json:"no_fail,omitempty"`
	SuddenDeath bool    `json:"sudden_death,omitempty"`
	Perfect     bool    `json:"perfect,omitempty"`
	Easy        bool    `json:"easy,omitempty"`
	HardRock    bool    `json:"hard_rock,omitempty"`
	Speed       float64 `json:"speed,omitempty"`
}

// Rate is the playback speed, defaulting to 1.
func (m Mods) Rate() float64 {
	if m.Speed <= 0 {
		return 1
	}
	return m.Speed
}

// Assisted is true when some input is synthesized.
func (m Mods) Assisted() bool {
	return m.Autoplay || m.Relax
}

func (m Mods) String() string {
	var parts []string
	add := func(on bool, s string) {
		if on {
			parts = append(parts, s)
		}
	}
	add(m.Autoplay, "AT")
	add(m.Relax, "RX")
	add(m.NoFail, "NF")
	add(m.SuddenDeath, "SD")
	add(m.Perfect, "PF")
	add(m.Easy, "EZ")
	add(m.HardRock, "HR")
	return strings.Join(parts, ",")
}

// ParseMods reads a comma separated list of short mod names.
func ParseMods(s string, speed float64) Mods {
	m := Mods{Speed: speed}
	for _, p := range strings.Split(s, ",") {
		switch strings.ToUpper(strings.TrimSpace(p)) {
		case "AT", "AUTO":
			m.Autoplay = true
		case "RX", "RELAX":
			m.Relax = true
		case "NF":
			m.NoFail = true
		case "SD":
			m.SuddenDeath = true
		case "PF":
			m.Perfect = true
		case "EZ":
			m.Easy = true
		case "HR":
			m.HardRock = true
		}
	}
	return m
}
