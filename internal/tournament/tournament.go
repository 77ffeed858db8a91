// Package tournament plays batches of engine-versus-engine games.
package tournament

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/engine"
	"github.com/hailam/minichess/internal/game"
	"github.com/hailam/minichess/internal/storage"
)

// DefaultMaxPlies ends a game as a draw when neither side has won by then.
const DefaultMaxPlies = 200

// Reasons a game ended.
const (
	ReasonCheckmate = "checkmate"
	ReasonStalemate = "stalemate"
	ReasonDraw      = "draw"
	ReasonMoveCap   = "move-cap"
)

// Player is one engine configuration.
type Player struct {
	Name    string
	Options engine.SearchOptions
}

// Config describes a match between A and B. Colors alternate, A takes
// Light in even-numbered games.
type Config struct {
	A, B         Player
	Games        int
	Concurrency  int    // Games played at once (0 = GOMAXPROCS)
	MaxPlies     int    // 0 = DefaultMaxPlies
	OpeningPlies int    // Random legal moves played before the engines take over
	StartFEN     string // Empty = standard starting position
}

// Recorder persists finished games. *storage.Storage implements it.
type Recorder interface {
	SaveGame(rec storage.GameRecord) error
	RecordResult(rec storage.GameRecord) error
}

// GameResult is one finished game.
type GameResult struct {
	Index   int
	Record  storage.GameRecord
	Winner  string // Player name, empty on a draw
	Elapsed time.Duration
}

// PlayerSummary accumulates one player's results over a match.
type PlayerSummary struct {
	Name       string
	Heuristic  string
	Wins       int
	Moves      int
	Nodes      uint64
	SearchTime time.Duration
}

// AvgNodes returns the mean nodes searched per move.
func (p PlayerSummary) AvgNodes() float64 {
	if p.Moves == 0 {
		return 0
	}
	return float64(p.Nodes) / float64(p.Moves)
}

// AvgMoveTime returns the mean search time per move.
func (p PlayerSummary) AvgMoveTime() time.Duration {
	if p.Moves == 0 {
		return 0
	}
	return p.SearchTime / time.Duration(p.Moves)
}

// Summary is the aggregate of a match.
type Summary struct {
	A, B    PlayerSummary
	Draws   int
	Games   []GameResult
	Elapsed time.Duration
}

// Runner plays the games of a match.
type Runner struct {
	cfg Config
	rec Recorder

	// OnGame is called after each game, one call at a time.
	OnGame func(GameResult)

	mu sync.Mutex
}

// NewRunner validates cfg and fills in defaults. rec may be nil.
func NewRunner(cfg Config, rec Recorder) (*Runner, error) {
	if cfg.Games < 1 {
		return nil, errors.New("tournament needs at least one game")
	}
	named := cfg.B.Name != ""
	for _, p := range []*Player{&cfg.A, &cfg.B} {
		if p.Options.Heuristic == "" {
			p.Options.Heuristic = engine.DefaultOptions().Heuristic
		}
		if _, err := engine.LookupHeuristic(p.Options.Heuristic); err != nil {
			return nil, err
		}
		if p.Name == "" {
			p.Name = defaultName(p.Options.Heuristic)
		}
	}
	for !named && cfg.A.Name == cfg.B.Name {
		cfg.B.Name = defaultName(cfg.B.Options.Heuristic)
	}
	if cfg.A.Name == cfg.B.Name {
		return nil, fmt.Errorf("both players are named %q", cfg.A.Name)
	}
	if cfg.MaxPlies <= 0 {
		cfg.MaxPlies = DefaultMaxPlies
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.GOMAXPROCS(0)
	}
	if cfg.StartFEN == "" {
		cfg.StartFEN = board.StartFEN
	}
	if _, err := game.FromFEN(cfg.StartFEN); err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, rec: rec}, nil
}

// Config returns the configuration with defaults applied.
func (r *Runner) Config() Config {
	return r.cfg
}

// Run plays every game and returns the summary. The first failing game
// cancels the rest.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	results := make([]GameResult, r.cfg.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	for i := 0; i < r.cfg.Games; i++ {
		g.Go(func() error {
			light, dark := r.cfg.A, r.cfg.B
			if i%2 == 1 {
				light, dark = dark, light
			}

			res, err := PlayGame(ctx, light, dark, r.cfg)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			res.Index = i
			results[i] = res

			return r.finish(res)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := r.summarize(results)
	sum.Elapsed = time.Since(start)

	log.Info().
		Str("a", sum.A.Name).
		Str("b", sum.B.Name).
		Int("a_wins", sum.A.Wins).
		Int("b_wins", sum.B.Wins).
		Int("draws", sum.Draws).
		Dur("elapsed", sum.Elapsed).
		Msg("tournament-finished")

	return sum, nil
}

// finish records a game and reports it. Games finish on several goroutines;
// recording and callbacks happen one game at a time.
func (r *Runner) finish(res GameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rec != nil {
		if err := r.rec.SaveGame(res.Record); err != nil {
			return fmt.Errorf("save game %s: %w", res.Record.ID, err)
		}
		if err := r.rec.RecordResult(res.Record); err != nil {
			return err
		}
	}
	if r.OnGame != nil {
		r.OnGame(res)
	}
	return nil
}

func (r *Runner) summarize(results []GameResult) *Summary {
	sum := &Summary{
		A:     PlayerSummary{Name: r.cfg.A.Name, Heuristic: r.cfg.A.Options.Heuristic},
		B:     PlayerSummary{Name: r.cfg.B.Name, Heuristic: r.cfg.B.Options.Heuristic},
		Games: results,
	}

	for _, res := range results {
		for _, info := range []storage.PlayerInfo{res.Record.Light, res.Record.Dark} {
			p := &sum.A
			if info.Name == sum.B.Name {
				p = &sum.B
			}
			p.Moves += info.Moves
			p.Nodes += info.Nodes
			p.SearchTime += info.SearchTime
		}

		switch res.Winner {
		case "":
			sum.Draws++
		case sum.A.Name:
			sum.A.Wins++
		default:
			sum.B.Wins++
		}
	}
	return sum
}

// PlayGame plays one game between light and dark under cfg's limits.
func PlayGame(ctx context.Context, light, dark Player, cfg Config) (GameResult, error) {
	start := time.Now()

	fen := cfg.StartFEN
	if fen == "" {
		fen = board.StartFEN
	}
	st, err := game.FromFEN(fen)
	if err != nil {
		return GameResult{}, err
	}
	maxPlies := cfg.MaxPlies
	if maxPlies <= 0 {
		maxPlies = DefaultMaxPlies
	}

	rec := storage.GameRecord{
		ID:       petname.Generate(3, "-"),
		StartFEN: fen,
		Light:    playerInfo(light),
		Dark:     playerInfo(dark),
	}

	for i := 0; i < cfg.OpeningPlies && !st.Status().IsOver(); i++ {
		moves := st.LegalMoves()
		m := moves[frand.Intn(len(moves))]
		st.Play(m)
		rec.Moves = append(rec.Moves, m.String())
	}

	for !st.Status().IsOver() && len(rec.Moves) < maxPlies {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}

		player, info := light, &rec.Light
		if st.Side() == board.Dark {
			player, info = dark, &rec.Dark
		}

		res, err := engine.GetBestMove(st, player.Options)
		if err != nil {
			return GameResult{}, err
		}
		if !res.Found {
			break
		}
		if _, err := st.Apply(res.Move); err != nil {
			return GameResult{}, fmt.Errorf("%s played %v: %w", player.Name, res.Move, err)
		}

		rec.Moves = append(rec.Moves, res.Move.String())
		info.Moves++
		info.Nodes += res.Stats.Nodes
		info.SearchTime += res.Stats.Elapsed
	}

	out := GameResult{Record: rec}
	switch st.Status() {
	case game.Checkmate:
		out.Record.Reason = ReasonCheckmate
		if winner, _ := st.Winner(); winner == board.Light {
			out.Record.Result, out.Winner = storage.LightWins, light.Name
		} else {
			out.Record.Result, out.Winner = storage.DarkWins, dark.Name
		}
	case game.Stalemate:
		out.Record.Result, out.Record.Reason = storage.Drawn, ReasonStalemate
	case game.Draw:
		out.Record.Result, out.Record.Reason = storage.Drawn, ReasonDraw
	default:
		out.Record.Result, out.Record.Reason = storage.Drawn, ReasonMoveCap
	}
	out.Record.FinalFEN = st.FEN()
	out.Record.PlayedAt = time.Now()
	out.Elapsed = time.Since(start)

	log.Info().
		Str("id", rec.ID).
		Str("light", light.Name).
		Str("dark", dark.Name).
		Str("result", string(out.Record.Result)).
		Str("reason", out.Record.Reason).
		Int("plies", len(rec.Moves)).
		Dur("elapsed", out.Elapsed).
		Msg("game-finished")

	return out, nil
}

func defaultName(heuristic string) string {
	return petname.Name() + "-" + heuristic
}

func playerInfo(p Player) storage.PlayerInfo {
	return storage.PlayerInfo{
		Name:      p.Name,
		Heuristic: p.Options.Heuristic,
		Depth:     p.Options.Depth,
	}
}
