// Package config provides the player settings file and command line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"git.lost.host/meutraa/tempo/internal/score"
)

// Settings are read by the gameplay core every frame and only ever
// changed by the host.
type Settings struct {
	Username     string  `toml:"username"`
	EffectVolume float64 `toml:"effect_volume"`
	MusicVolume  float64 `toml:"music_volume"`
	GlobalOffset float64 `toml:"global_offset"` // ms
	OffsetStep   float64 `toml:"offset_step"`   // ms
	LeadIn       float64 `toml:"lead_in"`       // ms
	FailRamp     float64 `toml:"fail_ramp"`     // ms
	ScrollSpeed  float64 `toml:"scroll_speed"`
	ScrollStep   float64 `toml:"scroll_step"`

	// Hotkeys are checked before the mode's bindings, so they must not
	// share a rune with them.
	RestartKey    string  `toml:"restart_key"`
	RestartDelay  float64 `toml:"restart_delay"` // ms
	OffsetUpKey   string  `toml:"offset_up_key"`
	OffsetDownKey string  `toml:"offset_down_key"`
	ScrollUpKey   string  `toml:"scroll_up_key"`
	ScrollDownKey string  `toml:"scroll_down_key"`

	Keys        Keys              `toml:"keys"`
	Combo       ComboConfig       `toml:"combo"`
	Spectator   SpectatorConfig   `toml:"spectator"`
	Multiplayer MultiplayerConfig `toml:"multiplayer"`
}

type Keys struct {
	Tap   string `toml:"tap"`
	Drum  string `toml:"drum"`
	Keys4 string `toml:"keys4"`
	Keys5 string `toml:"keys5"`
	Keys6 string `toml:"keys6"`
	Keys7 string `toml:"keys7"`
	Keys8 string `toml:"keys8"`
}

type ComboConfig struct {
	Policy string  `toml:"policy"` // none, flat or linear
	Factor float64 `toml:"factor"`
	Step   float64 `toml:"step"`
	Period int     `toml:"period"`
	Cap    int     `toml:"cap"`
}

type SpectatorConfig struct {
	// BufferAhead is how far buffered frames must lead playback before a
	// stalled spectator resumes.
	BufferAhead float64 `toml:"buffer_ahead"` // ms
	// CatchUp is the lag past which a spectator jumps forward.
	CatchUp float64 `toml:"catch_up"` // ms
	// FlushInterval is how often a broadcasting host sends frames.
	FlushInterval float64 `toml:"flush_interval"` // ms
	InboxSize     int     `toml:"inbox_size"`
}

type MultiplayerConfig struct {
	ScoreInterval float64 `toml:"score_interval"` // ms
}

func Default() Settings {
	return Settings{
		Username:      "guest",
		EffectVolume:  0.7,
		MusicVolume:   0.8,
		OffsetStep:    5,
		LeadIn:        1500,
		FailRamp:      1000,
		ScrollSpeed:   1,
		ScrollStep:    0.1,
		RestartKey:    "`",
		RestartDelay:  400,
		OffsetUpKey:   "]",
		OffsetDownKey: "[",
		ScrollUpKey:   ".",
		ScrollDownKey: ",",
		Keys: Keys{
			Tap:   "zx",
			Drum:  "dfjk",
			Keys4: "_-mp",
			Keys5: "dfgjk",
			Keys6: "ieotsc",
			Keys7: "sdf jkl",
			Keys8: "ieonhtsc",
		},
		Combo: ComboConfig{Policy: "linear", Step: 0.01, Period: 100},
		Spectator: SpectatorConfig{
			BufferAhead:   2000,
			CatchUp:       10000,
			FlushInterval: 1000,
			InboxSize:     1024,
		},
		Multiplayer: MultiplayerConfig{ScoreInterval: 1000},
	}
}

// Load reads a TOML settings file over the defaults. A missing file is not
// an error.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	if _, err := os.Stat(path); nil != err {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("failed to stat config: %w", err)
	}
	if _, err := toml.DecodeFile(path, &s); nil != err {
		return Default(), fmt.Errorf("failed to decode config: %w", err)
	}
	return s, nil
}

// Save writes settings as TOML, creating the directory when needed.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); nil != err {
		return err
	}
	f, err := os.Create(path)
	if nil != err {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(s)
}

// Multiplier converts the combo section to a score policy.
func (c ComboConfig) Multiplier() score.ComboMultiplier {
	switch strings.ToLower(c.Policy) {
	case "flat":
		return score.ComboMultiplier{Kind: score.MultiplierFlat, Factor: c.Factor}
	case "linear":
		return score.ComboMultiplier{Kind: score.MultiplierLinear, Step: c.Step, Period: c.Period, Cap: c.Cap}
	}
	return score.ComboMultiplier{}
}

// Columns returns the column keys for an n key chart.
func (k Keys) Columns(nKeys int) []rune {
	switch nKeys {
	case 4:
		return []rune(k.Keys4)
	case 5:
		return []rune(k.Keys5)
	case 6:
		return []rune(k.Keys6)
	case 7:
		return []rune(k.Keys7)
	case 8:
		return []rune(k.Keys8)
	}
	return []rune(k.Keys4)
}

// KeyColumn returns the column a rune is bound to, or -1.
func (k Keys) KeyColumn(r rune, nKeys int) int {
	for i, c := range k.Columns(nKeys) {
		if r == c {
			return i
		}
	}
	return -1
}

// KeyIndex returns the position of r in a binding string, or -1.
func KeyIndex(binding string, r rune) int {
	for i, c := range []rune(binding) {
		if c == r {
			return i
		}
	}
	return -1
}

// IsKey reports whether r is the single rune bound in binding.
func IsKey(binding string, r rune) bool {
	rs := []rune(binding)
	return len(rs) > 0 && rs[0] == r
}
