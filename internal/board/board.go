package board

import "strings"

// Board is an 8x8 grid of pieces in row-major order.
// The grid is stored by value, so copying a Board copies every piece.
type Board struct {
	squares [Size][Size]Piece
}

var backRank = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns a board set up in the starting position.
func NewBoard() *Board {
	b := &Board{}
	for col := 0; col < Size; col++ {
		b.squares[0][col] = NewPiece(backRank[col], Dark)
		b.squares[1][col] = NewPiece(Pawn, Dark)
		b.squares[6][col] = NewPiece(Pawn, Light)
		b.squares[7][col] = NewPiece(backRank[col], Light)
	}
	return b
}

// EmptyBoard returns a board with no pieces.
func EmptyBoard() *Board {
	return &Board{}
}

// GetPiece returns the piece at (row, col). The boolean is false for empty
// or off-board squares.
func (b *Board) GetPiece(row, col int) (Piece, bool) {
	if !IsValidSquare(row, col) {
		return NoPiece, false
	}
	p := b.squares[row][col]
	return p, !p.IsEmpty()
}

// At is GetPiece addressed by Square.
func (b *Board) At(sq Square) (Piece, bool) {
	return b.GetPiece(sq.Row, sq.Col)
}

// SetPiece places p at (row, col). Setting NoPiece clears the square.
// Off-board writes are ignored.
func (b *Board) SetPiece(row, col int, p Piece) {
	if !IsValidSquare(row, col) {
		return
	}
	b.squares[row][col] = p
}

// Put is SetPiece addressed by Square.
func (b *Board) Put(sq Square, p Piece) {
	b.SetPiece(sq.Row, sq.Col, p)
}

// Remove clears the square.
func (b *Board) Remove(sq Square) {
	b.SetPiece(sq.Row, sq.Col, NoPiece)
}

// IsEmpty returns true if the square is on the board and unoccupied.
func (b *Board) IsEmpty(sq Square) bool {
	return sq.IsValid() && b.squares[sq.Row][sq.Col].IsEmpty()
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	nb := *b
	return &nb
}

// Equal reports whether both boards hold identical pieces on every square.
func (b *Board) Equal(o *Board) bool {
	return b.squares == o.squares
}

// ForEach calls fn for every occupied square in row-major order.
func (b *Board) ForEach(fn func(sq Square, p Piece)) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if p := b.squares[row][col]; !p.IsEmpty() {
				fn(Square{Row: row, Col: col}, p)
			}
		}
	}
}

// FindKing returns the square of side's king.
func (b *Board) FindKing(side Side) (Square, bool) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			p := b.squares[row][col]
			if p.Kind == King && p.Side == side {
				return Square{Row: row, Col: col}, true
			}
		}
	}
	return NoSquare, false
}

// Apply executes m on the board without any validation and returns the
// captured piece (NoPiece if none). A move from an empty square or to an
// off-board square leaves the board unchanged. The moving piece is marked as moved,
// and a pawn reaching the far rank is promoted (to queen unless m names
// another kind).
func (b *Board) Apply(m Move) Piece {
	piece, ok := b.At(m.From)
	if !ok || !m.To.IsValid() {
		return NoPiece
	}
	captured, _ := b.At(m.To)

	piece.HasMoved = true
	if piece.Kind == Pawn && m.To.Row == PromotionRow(piece.Side) {
		promo := m.Promotion
		if !promo.IsValid() || promo == Pawn || promo == King {
			promo = Queen
		}
		piece.Kind = promo
	}

	b.Remove(m.From)
	b.Put(m.To, piece)
	return captured
}

// Material returns the summed material value of side's pieces.
func (b *Board) Material(side Side) int {
	total := 0
	b.ForEach(func(_ Square, p Piece) {
		if p.Side == side {
			total += p.Value()
		}
	})
	return total
}

// String returns a diagram of the board with rank and file labels.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		sb.WriteByte(byte('8' - row))
		sb.WriteString("  ")
		for col := 0; col < Size; col++ {
			sb.WriteString(b.squares[row][col].String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}
