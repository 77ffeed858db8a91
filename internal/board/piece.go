package board

// Side is one of the two players. Light moves first and starts on rows 6-7.
type Side uint8

const (
	Light Side = iota
	Dark
)

// Other returns the opposing side.
func (s Side) Other() Side {
	return s ^ 1
}

// String returns the side name.
func (s Side) String() string {
	switch s {
	case Light:
		return "Light"
	case Dark:
		return "Dark"
	default:
		return "NoSide"
	}
}

// Kind is the type of a piece. The zero value marks an empty square.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the lowercase letter for the kind, or a space.
func (k Kind) Char() byte {
	if k > King {
		return ' '
	}
	return " pnbrqk"[k]
}

// IsValid returns true for the six real piece kinds.
func (k Kind) IsValid() bool {
	return k >= Pawn && k <= King
}

// KindValue is the material value of each kind in centipawns.
// The king carries no material value.
var KindValue = [7]int{0, 100, 320, 330, 500, 900, 0}

// Piece is a value type: copying a Piece yields an independent piece.
type Piece struct {
	Kind     Kind
	Side     Side
	HasMoved bool
}

// NoPiece is the empty square.
var NoPiece = Piece{}

// NewPiece creates an unmoved piece.
func NewPiece(k Kind, s Side) Piece {
	return Piece{Kind: k, Side: s}
}

// IsEmpty returns true if p represents an empty square.
func (p Piece) IsEmpty() bool {
	return p.Kind == NoKind
}

// Clone returns an independent copy of the piece.
func (p Piece) Clone() Piece {
	return p
}

// Value returns the material value of the piece.
func (p Piece) Value() int {
	if p.Kind > King {
		return 0
	}
	return KindValue[p.Kind]
}

// String returns the FEN letter: uppercase for Light, lowercase for Dark.
func (p Piece) String() string {
	if p.IsEmpty() {
		return "."
	}
	c := p.Kind.Char()
	if p.Side == Light {
		c -= 'a' - 'A'
	}
	return string(c)
}

// PieceFromChar converts a FEN letter to a Piece.
func PieceFromChar(c byte) (Piece, bool) {
	side := Dark
	if c >= 'A' && c <= 'Z' {
		side = Light
		c += 'a' - 'A'
	}
	for k := Pawn; k <= King; k++ {
		if k.Char() == c {
			return NewPiece(k, side), true
		}
	}
	return NoPiece, false
}
