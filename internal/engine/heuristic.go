package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/game"
)

// ErrUnknownHeuristic is returned for identifiers with no registered heuristic.
var ErrUnknownHeuristic = errors.New("unknown heuristic")

// HeuristicKind enumerates the built-in evaluation functions.
type HeuristicKind uint8

const (
	HeuristicMaterial HeuristicKind = iota
	HeuristicKingSafety
	HeuristicMaterialKing
)

// Identifiers accepted by LookupHeuristic.
const (
	MaterialID     = "material"
	KingSafetyID   = "king_safety"
	MaterialKingID = "material_king"
)

// String returns the identifier of the kind.
func (k HeuristicKind) String() string {
	switch k {
	case HeuristicMaterial:
		return MaterialID
	case HeuristicKingSafety:
		return KingSafetyID
	case HeuristicMaterialKing:
		return MaterialKingID
	default:
		return "unknown"
	}
}

// EvalFunc scores a position for side; higher is better for side.
type EvalFunc func(snap game.Snapshot, side board.Side) float64

// Heuristic pairs a kind with its evaluation function.
type Heuristic struct {
	Kind HeuristicKind
	Eval EvalFunc
}

var heuristics = map[string]Heuristic{
	MaterialID:     {Kind: HeuristicMaterial, Eval: Material},
	KingSafetyID:   {Kind: HeuristicKingSafety, Eval: KingSafety},
	MaterialKingID: {Kind: HeuristicMaterialKing, Eval: MaterialKing},
}

// LookupHeuristic resolves an identifier to its heuristic.
func LookupHeuristic(id string) (Heuristic, error) {
	h, ok := heuristics[id]
	if !ok {
		return Heuristic{}, fmt.Errorf("%w: %q", ErrUnknownHeuristic, id)
	}
	return h, nil
}

// HeuristicIDs returns the registered identifiers in sorted order.
func HeuristicIDs() []string {
	ids := make([]string, 0, len(heuristics))
	for id := range heuristics {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ID returns the identifier of the heuristic.
func (h Heuristic) ID() string {
	return h.Kind.String()
}

// Evaluate runs the heuristic. A panicking evaluation scores 0 so the
// search can continue.
func (h Heuristic) Evaluate(snap game.Snapshot, side board.Side) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().
				Str("heuristic", h.ID()).
				Interface("panic", r).
				Msg("evaluation-failed")
			score = 0
		}
	}()
	return h.Eval(snap, side)
}

// WithJitter returns a copy of h that adds uniform noise in
// [-amplitude, amplitude]. Never use it where results must be reproducible.
func (h Heuristic) WithJitter(amplitude float64) Heuristic {
	if amplitude <= 0 {
		return h
	}
	inner := h.Eval
	h.Eval = func(snap game.Snapshot, side board.Side) float64 {
		return inner(snap, side) + (frand.Float64()*2-1)*amplitude
	}
	return h
}
