// Package engine implements position evaluation and the minimax search.
package engine

import (
	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/game"
)

// King safety weights
const (
	shieldNearBonus  = 12.0 // Friendly pawn directly in front of the king
	shieldFarBonus   = 6.0  // Friendly pawn two squares in front
	openFilePenalty  = 15.0 // Per king-adjacent file without a friendly pawn
	backRankBonus    = 20.0 // King on its home row outside the endgame
	advancedPenalty  = 10.0 // Per row the king has left home, outside the endgame
	centralizeWeight = 5.0  // Per step closer to the centre in the endgame
	tropismRadius    = 3    // Enemy pieces within this Chebyshev distance count
)

// endgameMaterial is the total non-king material below which kings should
// centralize instead of hiding.
const endgameMaterial = 1300

// compositeKingWeight keeps material dominant in the combined heuristic.
const compositeKingWeight = 0.3

// Tropism penalty by attacker kind; divided by distance to the king.
var tropismWeight = [7]float64{
	board.Knight: 20,
	board.Bishop: 20,
	board.Rook:   35,
	board.Queen:  60,
}

// EvaluationBreakdown reports the parts of the composite evaluation.
type EvaluationBreakdown struct {
	Material   float64
	KingSafety float64
	Composite  float64
}

// Breakdown evaluates snap from side's point of view and returns every term.
func Breakdown(snap game.Snapshot, side board.Side) EvaluationBreakdown {
	material := Material(snap, side)
	king := KingSafety(snap, side)
	return EvaluationBreakdown{
		Material:   material,
		KingSafety: king,
		Composite:  material + compositeKingWeight*king,
	}
}

// Material returns side's material minus the opponent's, kings excluded.
func Material(snap game.Snapshot, side board.Side) float64 {
	b := snap.Board
	return float64(b.Material(side) - b.Material(side.Other()))
}

// KingSafety returns side's king safety minus the opponent's.
func KingSafety(snap game.Snapshot, side board.Side) float64 {
	b := snap.Board
	endgame := b.Material(board.Light)+b.Material(board.Dark) < endgameMaterial
	return kingSafety(b, side, endgame) - kingSafety(b, side.Other(), endgame)
}

// MaterialKing combines material with a fraction of king safety.
func MaterialKing(snap game.Snapshot, side board.Side) float64 {
	return Material(snap, side) + compositeKingWeight*KingSafety(snap, side)
}

// kingSafety scores one king. A missing king scores zero.
func kingSafety(b *board.Board, side board.Side, endgame bool) float64 {
	ksq, ok := b.FindKing(side)
	if !ok {
		return 0
	}

	var score float64
	fwd := board.PawnDirection(side)

	// Pawn shield and open files around the king
	openFiles := 0
	for dc := -1; dc <= 1; dc++ {
		col := ksq.Col + dc
		if col < 0 || col >= board.Size {
			continue
		}
		if isFriendlyPawn(b, ksq.Offset(fwd, dc), side) {
			score += shieldNearBonus
		} else if isFriendlyPawn(b, ksq.Offset(2*fwd, dc), side) {
			score += shieldFarBonus
		}
		if !fileHasPawn(b, col, side) {
			openFiles++
		}
	}
	score -= float64(openFiles) * openFilePenalty

	// Placement
	if endgame {
		// Manhattan distance to the four centre squares, in half steps
		dist := float64(abs(2*ksq.Row-7)+abs(2*ksq.Col-7)) / 2
		score += (7 - dist) * centralizeWeight
	} else {
		advanced := abs(ksq.Row - board.BackRow(side))
		if advanced == 0 {
			score += backRankBonus
		} else {
			score -= float64(advanced) * advancedPenalty
		}
	}

	// Nearby enemy pieces
	b.ForEach(func(sq board.Square, p board.Piece) {
		if p.Side == side {
			return
		}
		dist := board.Chebyshev(sq, ksq)
		if dist > 0 && dist <= tropismRadius {
			score -= tropismWeight[p.Kind] / float64(dist)
		}
	})

	return score
}

func isFriendlyPawn(b *board.Board, sq board.Square, side board.Side) bool {
	p, ok := b.At(sq)
	return ok && p.Kind == board.Pawn && p.Side == side
}

func fileHasPawn(b *board.Board, col int, side board.Side) bool {
	for row := 0; row < board.Size; row++ {
		if p, ok := b.GetPiece(row, col); ok && p.Kind == board.Pawn && p.Side == side {
			return true
		}
	}
	return false
}

// abs returns the absolute value of an integer.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
