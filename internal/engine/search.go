package engine

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/game"
)

// MateScore is the score of a checkmate, positive when the root side mates.
const MateScore = 10000

// SearchOptions configures a best-move query.
type SearchOptions struct {
	Depth     int           // Plies to search (minimum 1)
	Heuristic string        // Evaluation identifier, see HeuristicIDs
	TimeLimit time.Duration // Wall-clock budget (0 = no limit)
	Jitter    float64       // Random evaluation noise amplitude (0 = deterministic)

	// DisablePruning runs the plain minimax instead of alpha-beta.
	DisablePruning bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() SearchOptions {
	return SearchOptions{
		Depth:     3,
		Heuristic: MaterialKingID,
		TimeLimit: 5 * time.Second,
	}
}

// RootScore is the value the search assigned to one root move. With pruning
// enabled, scores after the best move may be upper bounds.
type RootScore struct {
	Move  board.Move
	Score float64
}

// SearchStats describes a finished search.
type SearchStats struct {
	Heuristic  string
	Depth      int
	Nodes      uint64
	Elapsed    time.Duration
	Score      float64
	TimedOut   bool
	RootScores []RootScore
}

// Result is the outcome of GetBestMove. Found is false when the side to move
// has no legal moves.
type Result struct {
	Move  board.Move
	Found bool
	Stats SearchStats
}

// searcher holds the per-query search parameters and counters.
type searcher struct {
	heuristic Heuristic
	rootSide  board.Side
	deadline  time.Time
	prune     bool

	nodes    uint64
	timedOut bool
}

// Minimax returns the alpha-beta value of st from rootSide's point of view.
// st is never modified; every child is explored on its own copy.
func Minimax(st *game.State, depth int, alpha, beta float64, maximizing bool, h Heuristic, rootSide board.Side, deadline time.Time) float64 {
	s := &searcher{heuristic: h, rootSide: rootSide, deadline: deadline, prune: true}
	return s.minimax(st, depth, alpha, beta, maximizing)
}

// FullMinimax is Minimax without pruning. It visits every node to the given
// depth and serves as the reference for the pruned search.
func FullMinimax(st *game.State, depth int, maximizing bool, h Heuristic, rootSide board.Side, deadline time.Time) float64 {
	s := &searcher{heuristic: h, rootSide: rootSide, deadline: deadline}
	return s.minimax(st, depth, math.Inf(-1), math.Inf(1), maximizing)
}

// expired samples the clock. Once past the deadline every further node
// returns its static evaluation.
func (s *searcher) expired() bool {
	if s.timedOut {
		return true
	}
	if s.deadline.IsZero() || time.Now().Before(s.deadline) {
		return false
	}
	s.timedOut = true
	return true
}

func (s *searcher) minimax(st *game.State, depth int, alpha, beta float64, maximizing bool) float64 {
	s.nodes++

	if s.expired() {
		return s.evaluate(st)
	}
	if depth <= 0 || st.Status().IsOver() {
		return s.evaluate(st)
	}

	moves := st.LegalMoves()
	if len(moves) == 0 {
		return s.gameOver(st)
	}
	orderMoves(st, moves)

	if maximizing {
		best := math.Inf(-1)
		for _, m := range moves {
			child := st.Branch()
			child.Play(m)
			best = math.Max(best, s.minimax(child, depth-1, alpha, beta, false))
			if s.prune {
				alpha = math.Max(alpha, best)
				if beta <= alpha {
					break
				}
			}
		}
		return best
	}

	best := math.Inf(1)
	for _, m := range moves {
		child := st.Branch()
		child.Play(m)
		best = math.Min(best, s.minimax(child, depth-1, alpha, beta, true))
		if s.prune {
			beta = math.Min(beta, best)
			if beta <= alpha {
				break
			}
		}
	}
	return best
}

// evaluate scores a leaf. Finished games resolve to the mate constant or
// zero; everything else goes through the heuristic.
func (s *searcher) evaluate(st *game.State) float64 {
	switch st.Status() {
	case game.Checkmate, game.Stalemate:
		return s.gameOver(st)
	case game.Draw:
		return 0
	}
	return s.heuristic.Evaluate(st.Snapshot(), s.rootSide)
}

// gameOver scores a position where the side to move has no legal moves.
func (s *searcher) gameOver(st *game.State) float64 {
	if !st.InCheck() {
		return 0
	}
	if st.Side() == s.rootSide {
		return -MateScore
	}
	return MateScore
}

// GetBestMove searches st for the side to move and returns the highest
// scoring move. st is not modified. Ties keep the first move in search order.
func GetBestMove(st *game.State, opts SearchOptions) (Result, error) {
	h, err := LookupHeuristic(opts.Heuristic)
	if err != nil {
		return Result{}, err
	}
	h = h.WithJitter(opts.Jitter)

	depth := max(opts.Depth, 1)
	start := time.Now()

	root := st.Branch()
	moves := root.LegalMoves()

	res := Result{Stats: SearchStats{Heuristic: h.ID(), Depth: depth}}
	switch len(moves) {
	case 0:
		return res, nil
	case 1:
		res.Move, res.Found = moves[0], true
		res.Stats.Elapsed = time.Since(start)
		return res, nil
	}

	s := &searcher{
		heuristic: h,
		rootSide:  root.Side(),
		prune:     !opts.DisablePruning,
	}
	if opts.TimeLimit > 0 {
		s.deadline = start.Add(opts.TimeLimit)
	}

	orderMoves(root, moves)

	alpha, beta := math.Inf(-1), math.Inf(1)
	best := math.Inf(-1)
	res.Stats.RootScores = make([]RootScore, 0, len(moves))

	for _, m := range moves {
		child := root.Branch()
		child.Play(m)
		score := s.minimax(child, depth-1, alpha, beta, false)
		res.Stats.RootScores = append(res.Stats.RootScores, RootScore{Move: m, Score: score})

		log.Debug().
			Str("move", m.String()).
			Float64("score", score).
			Uint64("nodes", s.nodes).
			Msg("root-move")

		if !res.Found || score > best {
			best = score
			res.Move, res.Found = m, true
		}
		if s.prune {
			alpha = math.Max(alpha, best)
		}
	}

	res.Stats.Nodes = s.nodes
	res.Stats.Score = best
	res.Stats.TimedOut = s.timedOut
	res.Stats.Elapsed = time.Since(start)

	log.Info().
		Str("move", res.Move.String()).
		Str("heuristic", h.ID()).
		Int("depth", depth).
		Float64("score", best).
		Uint64("nodes", s.nodes).
		Dur("elapsed", res.Stats.Elapsed).
		Bool("timed_out", s.timedOut).
		Msg("best-move")

	return res, nil
}
