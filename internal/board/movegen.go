package board

// Direction is a (row, col) step.
type Direction struct {
	DR int
	DC int
}

var knightOffsets = [8]Direction{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

var kingOffsets = [8]Direction{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

var (
	bishopDirections = []Direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	rookDirections   = []Direction{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	queenDirections  = append(append([]Direction{}, rookDirections...), bishopDirections...)
)

// PawnDirection returns the row step of side's pawns. Light advances toward row 0.
func PawnDirection(side Side) int {
	if side == Light {
		return -1
	}
	return 1
}

// PawnStartRow returns the row side's pawns start on.
func PawnStartRow(side Side) int {
	if side == Light {
		return 6
	}
	return 1
}

// PromotionRow returns the row on which side's pawns promote.
func PromotionRow(side Side) int {
	if side == Light {
		return 0
	}
	return Size - 1
}

// BackRow returns side's home row.
func BackRow(side Side) int {
	if side == Light {
		return Size - 1
	}
	return 0
}

// PseudoLegalMoves enumerates every move of side that obeys piece movement
// and occupancy rules. Whether the move exposes side's king is not checked.
func PseudoLegalMoves(b *Board, side Side) []Move {
	moves := make([]Move, 0, 48)
	b.ForEach(func(sq Square, p Piece) {
		if p.Side == side {
			moves = appendPieceMoves(moves, b, sq, p)
		}
	})
	return moves
}

// PieceMoves returns the pseudo-legal moves of the piece on sq.
func PieceMoves(b *Board, sq Square) []Move {
	p, ok := b.At(sq)
	if !ok {
		return nil
	}
	return appendPieceMoves(nil, b, sq, p)
}

func appendPieceMoves(moves []Move, b *Board, from Square, p Piece) []Move {
	switch p.Kind {
	case Pawn:
		return appendPawnMoves(moves, b, from, p.Side)
	case Knight:
		return appendStepMoves(moves, b, from, p.Side, knightOffsets[:])
	case Bishop:
		return appendSlideMoves(moves, b, from, p.Side, bishopDirections)
	case Rook:
		return appendSlideMoves(moves, b, from, p.Side, rookDirections)
	case Queen:
		return appendSlideMoves(moves, b, from, p.Side, queenDirections)
	case King:
		return appendStepMoves(moves, b, from, p.Side, kingOffsets[:])
	}
	return moves
}

func appendPawnMoves(moves []Move, b *Board, from Square, side Side) []Move {
	dir := PawnDirection(side)

	one := from.Offset(dir, 0)
	if b.IsEmpty(one) {
		moves = appendPawnMove(moves, from, one, side)

		two := from.Offset(2*dir, 0)
		if from.Row == PawnStartRow(side) && b.IsEmpty(two) {
			moves = append(moves, NewMove(from, two))
		}
	}

	for _, dc := range [2]int{-1, 1} {
		to := from.Offset(dir, dc)
		if target, ok := b.At(to); ok && target.Side != side {
			moves = appendPawnMove(moves, from, to, side)
		}
	}
	return moves
}

// appendPawnMove adds a pawn move, tagging it as a queen promotion on the far rank.
func appendPawnMove(moves []Move, from, to Square, side Side) []Move {
	if to.Row == PromotionRow(side) {
		return append(moves, NewPromotion(from, to, Queen))
	}
	return append(moves, NewMove(from, to))
}

func appendStepMoves(moves []Move, b *Board, from Square, side Side, offsets []Direction) []Move {
	for _, d := range offsets {
		to := from.Offset(d.DR, d.DC)
		if !to.IsValid() {
			continue
		}
		if target, ok := b.At(to); !ok || target.Side != side {
			moves = append(moves, NewMove(from, to))
		}
	}
	return moves
}

func appendSlideMoves(moves []Move, b *Board, from Square, side Side, dirs []Direction) []Move {
	for _, d := range dirs {
		to := from.Offset(d.DR, d.DC)
		for to.IsValid() {
			if target, ok := b.At(to); ok {
				if target.Side != side {
					moves = append(moves, NewMove(from, to))
				}
				break
			}
			moves = append(moves, NewMove(from, to))
			to = to.Offset(d.DR, d.DC)
		}
	}
	return moves
}
