package config

import (
	"time"

	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	CmdPlay    = "play"
	CmdAuto    = "auto"
	CmdReplay  = "replay"
	CmdHistory = "history"
)

type Flags struct {
	Command string

	Chart       string
	Difficulty  int
	Rate        float64
	Mods        string
	Autoplay    bool
	Username    string
	ScoreID     int64
	Step        time.Duration
	FramePeriod time.Duration
	Broadcast   string
	Spectate    string
	Preview     bool
	Multiplayer bool

	Config  string
	DB      string
	Verbose bool
}

// ParseFlags parses command line arguments (without the program name).
func ParseFlags(args []string) (Flags, error) {
	var f Flags
	app := kingpin.New("tempo", "Rhythm game gameplay engine")
	app.Version("0.3.0")
	app.Flag("config", "Settings file").Default(DefaultConfigPath()).StringVar(&f.Config)
	app.Flag("db", "Score database").Default(DefaultDBPath()).StringVar(&f.DB)
	app.Flag("verbose", "Debug logging").Short('v').BoolVar(&f.Verbose)
	app.Flag("rate", "Playback speed").Default("1.0").Short('r').Float64Var(&f.Rate)
	app.Flag("mods", "Comma separated mods (NF,SD,PF,EZ,HR,RX)").Short('m').StringVar(&f.Mods)
	app.Flag("user", "Override the settings username").StringVar(&f.Username)
	app.Flag("difficulty", "Chart index within the file").Short('d').IntVar(&f.Difficulty)

	play := app.Command(CmdPlay, "Play a chart").Default()
	play.Arg("chart", "Chart file (.sm or .json)").Required().ExistingFileVar(&f.Chart)
	play.Flag("autoplay", "Let the engine play").Short('a').BoolVar(&f.Autoplay)
	play.Flag("frame-period", "Render frame period").Default("4ms").Short('p').DurationVar(&f.FramePeriod)
	play.Flag("broadcast", "Serve spectator frames on this address").StringVar(&f.Broadcast)
	play.Flag("spectate", "Spectate a websocket relay URL").StringVar(&f.Spectate)
	play.Flag("preview", "Watch the chart played automatically").BoolVar(&f.Preview)
	play.Flag("multiplayer", "Broadcast periodic scores to peers").BoolVar(&f.Multiplayer)

	auto := app.Command(CmdAuto, "Simulate autoplay headless and print the result")
	auto.Arg("chart", "Chart file (.sm or .json)").Required().ExistingFileVar(&f.Chart)
	auto.Flag("step", "Simulated frame period").Default("16ms").DurationVar(&f.Step)

	rep := app.Command(CmdReplay, "Play back a stored score headless")
	rep.Arg("chart", "Chart file (.sm or .json)").Required().ExistingFileVar(&f.Chart)
	rep.Arg("id", "Score id from history").Required().Int64Var(&f.ScoreID)
	rep.Flag("step", "Simulated frame period").Default("16ms").DurationVar(&f.Step)

	hist := app.Command(CmdHistory, "List stored scores for a chart")
	hist.Arg("chart", "Chart file (.sm or .json)").Required().ExistingFileVar(&f.Chart)

	cmd, err := app.Parse(args)
	if nil != err {
		return f, err
	}
	f.Command = cmd
	return f, nil
}
