package board

// IsSquareAttacked returns true if any pseudo-legal move of bySide lands on sq.
// Pawn captures only count when sq is occupied by the other side, so the
// answer is exact for occupied squares such as a king's.
func IsSquareAttacked(b *Board, sq Square, bySide Side) bool {
	for _, m := range PseudoLegalMoves(b, bySide) {
		if m.To == sq {
			return true
		}
	}
	return false
}

// IsInCheck returns true if side's king is attacked. A board without that
// king is never in check.
func IsInCheck(b *Board, side Side) bool {
	ksq, ok := b.FindKing(side)
	if !ok {
		return false
	}
	return IsSquareAttacked(b, ksq, side.Other())
}

// IsLegalMove plays m on a copy of b and reports whether side's king is safe
// afterwards. Moves with off-board squares are never legal.
func IsLegalMove(b *Board, m Move, side Side) bool {
	if !m.IsValid() {
		return false
	}
	next := b.Clone()
	next.Apply(m)
	return !IsInCheck(next, side)
}

// LegalMoves returns side's pseudo-legal moves that do not leave its own
// king in check.
func LegalMoves(b *Board, side Side) []Move {
	pseudo := PseudoLegalMoves(b, side)
	legal := pseudo[:0]
	for _, m := range pseudo {
		if IsLegalMove(b, m, side) {
			legal = append(legal, m)
		}
	}
	return legal
}
