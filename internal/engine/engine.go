package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/hailam/minichess/internal/game"
)

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 2 ply, 500ms
	Medium                   // 3 ply, 2s
	Hard                     // 4 ply, 5s
)

// String returns the lower-case name of the difficulty.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty converts a name produced by String back to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	for d := range DifficultySettings {
		if d.String() == s {
			return d, nil
		}
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// DifficultySettings maps difficulty to search depth and time budget.
var DifficultySettings = map[Difficulty]SearchOptions{
	Easy:   {Depth: 2, TimeLimit: 500 * time.Millisecond},
	Medium: {Depth: 3, TimeLimit: 2 * time.Second},
	Hard:   {Depth: 4, TimeLimit: 5 * time.Second},
}

// Engine is the computer opponent. It holds search settings between moves;
// every search works on its own copy of the game.
type Engine struct {
	opts SearchOptions

	// OnSearch is called after every completed search.
	OnSearch func(SearchStats)
}

// NewEngine returns an engine using opts. Zero fields take their defaults.
func NewEngine(opts SearchOptions) (*Engine, error) {
	def := DefaultOptions()
	if opts.Depth <= 0 {
		opts.Depth = def.Depth
	}
	if opts.Heuristic == "" {
		opts.Heuristic = def.Heuristic
	}
	if _, err := LookupHeuristic(opts.Heuristic); err != nil {
		return nil, err
	}
	return &Engine{opts: opts}, nil
}

// Options returns the current search options.
func (e *Engine) Options() SearchOptions {
	return e.opts
}

// SetDifficulty sets depth and time budget from a difficulty preset,
// keeping the heuristic.
func (e *Engine) SetDifficulty(d Difficulty) {
	preset, ok := DifficultySettings[d]
	if !ok {
		return
	}
	e.opts.Depth = preset.Depth
	e.opts.TimeLimit = preset.TimeLimit
}

// SetHeuristic selects the evaluation function by identifier.
func (e *Engine) SetHeuristic(id string) error {
	if _, err := LookupHeuristic(id); err != nil {
		return err
	}
	e.opts.Heuristic = id
	return nil
}

// SetDepth sets the search depth; values below 1 are raised to 1.
func (e *Engine) SetDepth(depth int) {
	e.opts.Depth = max(depth, 1)
}

// SetTimeLimit sets the per-move time budget (0 = no limit).
func (e *Engine) SetTimeLimit(d time.Duration) {
	e.opts.TimeLimit = max(d, 0)
}

// Search finds the best move for the side to move in st.
func (e *Engine) Search(st *game.State) (Result, error) {
	res, err := GetBestMove(st, e.opts)
	if err != nil {
		return res, err
	}
	if e.OnSearch != nil && res.Found {
		e.OnSearch(res.Stats)
	}
	return res, nil
}

// Perft counts the leaf nodes of the legal move tree to depth.
func (e *Engine) Perft(st *game.State, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := st.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		child := st.Branch()
		child.Play(m)
		nodes += e.Perft(child, depth-1)
	}
	return nodes
}

// Evaluate returns the static evaluation terms of st for the side to move.
func (e *Engine) Evaluate(st *game.State) EvaluationBreakdown {
	return Breakdown(st.Snapshot(), st.Side())
}

// ScoreToString converts a search score to a human-readable string,
// in pawns or as a mate announcement.
func ScoreToString(score float64) string {
	switch {
	case math.IsInf(score, 0) || math.IsNaN(score):
		return "?"
	case score >= MateScore:
		return "Mate"
	case score <= -MateScore:
		return "Mated"
	}
	return fmt.Sprintf("%+.2f", score/100)
}
