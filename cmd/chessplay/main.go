package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/minichess/internal/engine"
	"github.com/hailam/minichess/internal/shell"
	"github.com/hailam/minichess/internal/storage"
)

var (
	depth      = flag.Int("depth", 3, "search depth in plies")
	heuristic  = flag.String("heuristic", engine.MaterialKingID, "evaluation: "+strings.Join(engine.HeuristicIDs(), ", "))
	timeLimit  = flag.Duration("time", 5*time.Second, "time limit per engine move (0 = none)")
	difficulty = flag.String("difficulty", "", "preset overriding depth and time: easy, medium or hard")
	computer   = flag.String("computer", "dark", "side the engine plays: light, dark or off")
	fen        = flag.String("fen", "", "start from this position")
	save       = flag.Bool("save", false, "store finished games in the data directory")
	verbose    = flag.Bool("v", false, "debug logging")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run returns the exit code so deferred cleanup finishes before exiting.
func run() int {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Error().Err(err).Msg("could not create CPU profile")
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Error().Err(err).Msg("could not start CPU profile")
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	eng, err := engine.NewEngine(engine.SearchOptions{
		Depth:     *depth,
		Heuristic: *heuristic,
		TimeLimit: *timeLimit,
	})
	if err != nil {
		log.Error().Err(err).Msg("invalid engine options")
		return 1
	}
	if *difficulty != "" {
		d, err := engine.ParseDifficulty(*difficulty)
		if err != nil {
			log.Error().Err(err).Send()
			return 1
		}
		eng.SetDifficulty(d)
	}

	var rec shell.Recorder
	if *save {
		store, err := storage.NewStorage()
		if err != nil {
			log.Error().Err(err).Msg("could not open storage")
			return 1
		}
		defer store.Close()
		rec = store
	}

	sh := shell.New(eng, rec, os.Stdout)
	sh.Prompt = isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	setup := "show"
	if *fen != "" {
		setup = "fen " + *fen
	}
	for _, c := range []string{setup, "computer " + *computer} {
		sh.Execute(c)
	}

	if sh.Prompt {
		fmt.Println("type help for commands")
	}
	if err := sh.Run(os.Stdin); err != nil {
		log.Error().Err(err).Msg("reading input")
		return 1
	}
	return 0
}
