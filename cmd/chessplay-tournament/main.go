package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/minichess/internal/engine"
	"github.com/hailam/minichess/internal/storage"
	"github.com/hailam/minichess/internal/tournament"
)

var (
	games       = flag.Int("games", 10, "number of games")
	concurrency = flag.Int("concurrency", 0, "games played at once (0 = GOMAXPROCS)")
	aName       = flag.String("a", "", "name of player A (random if empty)")
	aHeuristic  = flag.String("a-heuristic", engine.MaterialID, "heuristic of player A")
	aDepth      = flag.Int("a-depth", 2, "search depth of player A")
	bName       = flag.String("b", "", "name of player B (random if empty)")
	bHeuristic  = flag.String("b-heuristic", engine.MaterialKingID, "heuristic of player B")
	bDepth      = flag.Int("b-depth", 2, "search depth of player B")
	timeLimit   = flag.Duration("time", time.Second, "time limit per move (0 = none)")
	jitter      = flag.Float64("jitter", 0, "random evaluation noise in centipawns")
	maxPlies    = flag.Int("max-plies", tournament.DefaultMaxPlies, "plies before a game is drawn")
	opening     = flag.Int("opening", 2, "random plies played before the engines take over")
	fen         = flag.String("fen", "", "start position (default: standard)")
	dbDir       = flag.String("db", "", "database directory (default: data directory)")
	noSave      = flag.Bool("no-save", false, "do not store results")
	showStats   = flag.Bool("stats", false, "print stored per-heuristic results and exit")
	verbose     = flag.Bool("v", false, "debug logging")
	cpuprofile  = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run returns the exit code so deferred cleanup finishes before exiting.
func run() int {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
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

	var store *storage.Storage
	if !*noSave || *showStats {
		var err error
		if *dbDir != "" {
			store, err = storage.Open(*dbDir)
		} else {
			store, err = storage.NewStorage()
		}
		if err != nil {
			log.Error().Err(err).Msg("could not open storage")
			return 1
		}
		defer store.Close()
	}

	if *showStats {
		if err := printStats(store); err != nil {
			log.Error().Err(err).Msg("reading stats")
			return 1
		}
		return 0
	}

	cfg := tournament.Config{
		A: tournament.Player{Name: *aName, Options: engine.SearchOptions{
			Depth: *aDepth, Heuristic: *aHeuristic, TimeLimit: *timeLimit, Jitter: *jitter,
		}},
		B: tournament.Player{Name: *bName, Options: engine.SearchOptions{
			Depth: *bDepth, Heuristic: *bHeuristic, TimeLimit: *timeLimit, Jitter: *jitter,
		}},
		Games:        *games,
		Concurrency:  *concurrency,
		MaxPlies:     *maxPlies,
		OpeningPlies: *opening,
		StartFEN:     *fen,
	}

	var rec tournament.Recorder
	if store != nil {
		rec = store
	}
	runner, err := tournament.NewRunner(cfg, rec)
	if err != nil {
		log.Error().Err(err).Msg("invalid tournament")
		return 1
	}
	runner.OnGame = func(res tournament.GameResult) {
		fmt.Printf("game %3d  %-24s %-24s %-8s %s\n", res.Index+1,
			res.Record.Light.Name, res.Record.Dark.Name, res.Record.Result, res.Record.Reason)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sum, err := runner.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("tournament aborted")
		return 1
	}
	printSummary(sum)
	return 0
}

func printSummary(sum *tournament.Summary) {
	header := color.New(color.Bold, color.FgCyan)
	header.Printf("\n%-28s %6s %12s %12s\n", "player", "wins", "nodes/move", "ms/move")
	for _, p := range []tournament.PlayerSummary{sum.A, sum.B} {
		fmt.Printf("%-28s %6d %12.0f %12.1f\n", p.Name+" ("+p.Heuristic+")",
			p.Wins, p.AvgNodes(), float64(p.AvgMoveTime().Microseconds())/1000)
	}
	fmt.Printf("%-28s %6d\n", "draws", sum.Draws)
	color.New(color.FgGreen).Printf("%d games in %v\n", len(sum.Games), sum.Elapsed.Round(time.Millisecond))
}

func printStats(store *storage.Storage) error {
	all, err := store.AllStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("no results recorded")
		return nil
	}

	header := color.New(color.Bold, color.FgCyan)
	header.Printf("%-16s %6s %6s %6s %6s %8s %12s %10s\n",
		"heuristic", "games", "wins", "losses", "draws", "win %", "nodes/move", "ms/move")
	for _, s := range all {
		fmt.Printf("%-16s %6d %6d %6d %6d %7.1f%% %12.0f %10.1f\n",
			s.Heuristic, s.Games, s.Wins, s.Losses, s.Draws, s.WinRate(),
			s.AvgNodes(), float64(s.AvgMoveTime().Microseconds())/1000)
	}
	return nil
}
