package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"git.lost.host/meutraa/tempo/internal/action"
	"git.lost.host/meutraa/tempo/internal/audio"
	"git.lost.host/meutraa/tempo/internal/config"
	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/gameplay"
	"git.lost.host/meutraa/tempo/internal/parser"
	"git.lost.host/meutraa/tempo/internal/store"
)

func main() {
	log := logrus.New()
	log.Out = os.Stderr
	if err := run(os.Args[1:], log); nil != err {
		log.Fatalln(err)
	}
}

func run(args []string, log *logrus.Logger) error {
	flags, err := config.ParseFlags(args)
	if nil != err {
		return err
	}
	if flags.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	settings, err := config.Load(flags.Config)
	if nil != err {
		return err
	}
	if flags.Username != "" {
		settings.Username = flags.Username
	}

	chart, err := parser.Load(&parser.DefaultParser{}, flags.Chart, flags.Difficulty)
	if nil != err {
		return err
	}

	st, err := store.Open(flags.DB)
	if nil != err {
		return err
	}
	defer func() {
		if err := st.Close(); nil != err {
			log.WithError(err).Warn("unable to close database")
		}
	}()

	mods := game.ParseMods(flags.Mods, flags.Rate)
	opts := gameplay.Options{Settings: &settings, Mods: mods, Logger: log, Prefs: st}

	switch flags.Command {
	case config.CmdHistory:
		return history(os.Stdout, st, chart)
	case config.CmdAuto:
		opts.Mods.Autoplay = true
		res, err := simulate(chart, opts, nil, flags.Step)
		if nil != err {
			return err
		}
		summary(os.Stdout, chart, res)
		return nil
	case config.CmdReplay:
		r, err := st.Replay(flags.ScoreID)
		if nil != err {
			return err
		}
		stored, err := st.Result(flags.ScoreID)
		if nil != err {
			return err
		}
		res, err := simulate(chart, opts, gameplay.Replaying{Replay: r}, flags.Step)
		if nil != err {
			return err
		}
		summary(os.Stdout, chart, res)
		if res.Score.Score != stored.Score || res.Score.MaxCombo != stored.MaxCombo {
			log.WithFields(logrus.Fields{"stored": stored.Score, "replayed": res.Score.Score}).Warn("replay diverged from the stored score")
		}
		return nil
	}

	opts.Mods.Autoplay = opts.Mods.Autoplay || flags.Autoplay
	p, err := NewProgram(flags, &settings, chart, st, opts, log)
	if nil != err {
		return err
	}
	res, err := p.Run()
	if nil != err {
		return err
	}
	if res != nil {
		summary(os.Stdout, chart, *res)
	}
	return nil
}

// simulate runs a session headless on a simulated clock advancing by
// step until the chart completes.
func simulate(chart *game.Chart, opts gameplay.Options, variant gameplay.Variant, step time.Duration) (action.Complete, error) {
	if step <= 0 {
		step = 16 * time.Millisecond
	}
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	opts.Clock = clock
	m, err := gameplay.New(chart, opts)
	if nil != err {
		return action.Complete{}, err
	}
	if variant != nil {
		m.SetMode(variant)
	}
	transport := audio.NewClock(clock)

	limit := chart.EndTime() + opts.Settings.LeadIn + 60000
	for elapsed := 0.0; elapsed < limit; elapsed += float64(step) / float64(time.Millisecond) {
		for _, a := range m.Update(transport.Position(), nil) {
			switch a := a.(type) {
			case action.Complete:
				return a, nil
			case action.UpdateSettings:
				a.Apply(opts.Settings)
			default:
				transport.Execute(a)
			}
		}
		now = now.Add(step)
	}
	return action.Complete{}, errors.New("session did not complete")
}

func summary(w io.Writer, chart *game.Chart, c action.Complete) {
	s := c.Score
	fmt.Fprintf(w, "%s - %s [%s] %s\n", chart.Artist, chart.Title, chart.Difficulty.Name, s.Mods)
	state := "passed"
	if c.Failed {
		state = "failed"
	}
	fmt.Fprintf(w, "%10v  %s\n", s.Score, state)
	fmt.Fprintf(w, "  Accuracy:  %6.2f%%\n", s.Accuracy*100)
	fmt.Fprintf(w, " Max combo:  %6v\n", s.MaxCombo)
	fmt.Fprintf(w, "      Mean:  %6.2f ms\n", s.Mean())
	fmt.Fprintf(w, "     Stdev:  %6.2f ms\n", s.Stdev())
	fmt.Fprintf(w, "        pp:  %6.2f\n", s.Performance)
	ids := make([]string, 0, len(s.Judgements))
	for id := range s.Judgements {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "%10s:  %6v\n", id, s.Judgements[id])
	}
}

func history(w io.Writer, st *store.Store, chart *game.Chart) error {
	entries, err := st.Scores(chart.ComputeHash())
	if nil != err {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "no scores")
		return nil
	}
	for _, e := range entries {
		failed := ""
		if e.Failed {
			failed = "F"
		}
		fmt.Fprintf(w, "%4v) %10v %6.2f%% %5vx %1s %-12s %-8s %4.2fx %s\n",
			e.ID, e.Score, e.Accuracy*100, e.MaxCombo, failed, e.Username, e.Mods, e.Rate,
			e.Created.Format("2006-01-02 15:04"))
	}
	return nil
}
