// Package board implements the 8x8 board model, pseudo-legal move generation
// and the check/legality filter.
package board

import "fmt"

// Size is the number of rows and columns on the board.
const Size = 8

// Square addresses a cell by zero-based row and column.
// Row 0 is Dark's back rank (rank 8), row 7 is Light's back rank (rank 1).
type Square struct {
	Row int
	Col int
}

// NoSquare is an off-board sentinel.
var NoSquare = Square{Row: -1, Col: -1}

// Sq creates a square from row and column.
func Sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

// IsValidSquare returns true if (row, col) lies on the board.
func IsValidSquare(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// IsValid returns true if the square lies on the board.
func (sq Square) IsValid() bool {
	return IsValidSquare(sq.Row, sq.Col)
}

// Offset returns the square shifted by the given row and column deltas.
// The result may be off the board.
func (sq Square) Offset(dr, dc int) Square {
	return Square{Row: sq.Row + dr, Col: sq.Col + dc}
}

// String returns the coordinate notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.Col, '8'-sq.Row)
}

// ParseSquare parses coordinate notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}

	col := int(s[0]) - 'a'
	rank := int(s[1]) - '1'
	if col < 0 || col >= Size || rank < 0 || rank >= Size {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}

	return Square{Row: Size - 1 - rank, Col: col}, nil
}

// Chebyshev returns the king-move distance between two squares.
func Chebyshev(a, b Square) int {
	return max(abs(a.Row-b.Row), abs(a.Col-b.Col))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
