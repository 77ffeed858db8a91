package game

import "github.com/hailam/minichess/internal/board"

// Status is the derived state of a game.
type Status uint8

const (
	Playing Status = iota
	Check
	Checkmate
	Stalemate
	Draw
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

// IsOver returns true for checkmate, stalemate and draw.
func (s Status) IsOver() bool {
	return s == Checkmate || s == Stalemate || s == Draw
}

// fiftyMoveLimit is the halfmove clock value that draws the game.
const fiftyMoveLimit = 100

// InsufficientMaterial returns true for bare kings, or king and a single
// minor piece against a bare king.
func InsufficientMaterial(b *board.Board) bool {
	minors := 0
	other := 0
	b.ForEach(func(_ board.Square, p board.Piece) {
		switch p.Kind {
		case board.King:
		case board.Knight, board.Bishop:
			minors++
		default:
			other++
		}
	})
	return other == 0 && minors <= 1
}
