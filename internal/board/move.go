package board

import "fmt"

// Move is a from/to pair with an optional promotion kind.
// Two moves are equal iff all three fields are equal, so == works.
type Move struct {
	From      Square
	To        Square
	Promotion Kind
}

// NoMove is the zero move.
var NoMove = Move{From: NoSquare, To: NoSquare}

// NewMove creates a non-promoting move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to}
}

// NewPromotion creates a promoting move.
func NewPromotion(from, to Square, promo Kind) Move {
	return Move{From: from, To: to, Promotion: promo}
}

// IsPromotion returns true if the move carries a promotion kind.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoKind
}

// IsValid returns true if both squares are on the board and the promotion,
// if any, names a piece a pawn may become.
func (m Move) IsValid() bool {
	if !m.From.IsValid() || !m.To.IsValid() || m.From == m.To {
		return false
	}
	switch m.Promotion {
	case NoKind, Knight, Bishop, Rook, Queen:
		return true
	}
	return false
}

// IsCapture returns true if the destination holds a piece on b.
func (m Move) IsCapture(b *Board) bool {
	_, ok := b.At(m.To)
	return ok
}

// String returns coordinate notation (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if !m.From.IsValid() || !m.To.IsValid() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}
	return s
}

// ParseMove parses coordinate notation.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move string: %q", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	m := NewMove(from, to)
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			m.Promotion = Knight
		case 'b':
			m.Promotion = Bishop
		case 'r':
			m.Promotion = Rook
		case 'q':
			m.Promotion = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}
	return m, nil
}

// ContainsMove returns true if moves holds m.
func ContainsMove(moves []Move, m Move) bool {
	for _, candidate := range moves {
		if candidate == m {
			return true
		}
	}
	return false
}

// FindMove returns the first move in moves going from -> to.
func FindMove(moves []Move, from, to Square) (Move, bool) {
	for _, m := range moves {
		if m.From == from && m.To == to {
			return m, true
		}
	}
	return NoMove, false
}
