package engine

import (
	"sort"

	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/game"
)

// Move ordering priorities
const (
	captureBase   = 100000 // Every capture sorts ahead of every quiet move
	promotionBase = 50000  // Quiet promotions next
)

// orderValue ranks attackers for ordering; the king counts as most valuable
// so its quiet moves are tried last.
var orderValue = [7]int{0, 100, 320, 330, 500, 900, 2000}

// MVV-LVA (Most Valuable Victim - Least Valuable Attacker) scores
// Higher score = search first
var mvvLva = [7][7]int{
	//              -   P   N   B   R   Q   K  (attacker)
	/* - */ {0, 0, 0, 0, 0, 0, 0},
	/* P */ {0, 15, 14, 14, 13, 12, 11},
	/* N */ {0, 25, 24, 24, 23, 22, 21},
	/* B */ {0, 35, 34, 34, 33, 32, 31},
	/* R */ {0, 45, 44, 44, 43, 42, 41},
	/* Q */ {0, 55, 54, 54, 53, 52, 51},
	/* K */ {0, 0, 0, 0, 0, 0, 0}, // King can't be captured in legal play
}

type scoredMove struct {
	move  board.Move
	score int
}

// scoreMove assigns an ordering score to m in st.
func scoreMove(st *game.State, m board.Move) int {
	attacker, _ := st.PieceAt(m.From)
	if victim, ok := st.PieceAt(m.To); ok {
		return captureBase + mvvLva[victim.Kind][attacker.Kind]
	}
	if m.IsPromotion() {
		return promotionBase
	}
	return -orderValue[attacker.Kind]
}

// orderMoves sorts moves in place: captures first (most valuable victim,
// then least valuable attacker), then quiet moves of cheaper pieces.
// Equal scores keep their generation order.
func orderMoves(st *game.State, moves []board.Move) {
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{move: m, score: scoreMove(st, m)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	for i := range scored {
		moves[i] = scored[i].move
	}
}
