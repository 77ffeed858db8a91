package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

// Setup is a parsed FEN record. Castling and en passant fields are accepted
// but ignored since neither rule is modeled.
type Setup struct {
	Board          *Board
	Side           Side
	HalfmoveClock  int
	FullmoveNumber int
}

// ParseFEN parses a FEN string. Only the placement field is required; the
// side to move defaults to Light.
func ParseFEN(fen string) (Setup, error) {
	parts := strings.Fields(fen)
	if len(parts) == 0 {
		return Setup{}, fmt.Errorf("invalid FEN: empty string")
	}

	setup := Setup{Side: Light, FullmoveNumber: 1}

	b, err := parsePlacement(parts[0])
	if err != nil {
		return Setup{}, err
	}
	setup.Board = b

	if len(parts) > 1 {
		switch parts[1] {
		case "w":
			setup.Side = Light
		case "b":
			setup.Side = Dark
		default:
			return Setup{}, fmt.Errorf("invalid side to move: %s", parts[1])
		}
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return Setup{}, fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
		setup.HalfmoveClock = hmc
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return Setup{}, fmt.Errorf("invalid full-move number: %s", parts[5])
		}
		setup.FullmoveNumber = fmn
	}

	return setup, nil
}

// parsePlacement parses the piece placement field. Row 0 is the first rank
// listed. Pawns off their start row are marked as moved.
func parsePlacement(placement string) (*Board, error) {
	ranks := strings.Split(placement, "/")
	if len(ranks) != Size {
		return nil, fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	b := EmptyBoard()
	for row, rankStr := range ranks {
		col := 0
		for i := 0; i < len(rankStr); i++ {
			c := rankStr[i]
			if col >= Size {
				return nil, fmt.Errorf("too many squares in rank %d", Size-row)
			}
			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}
			p, ok := PieceFromChar(c)
			if !ok {
				return nil, fmt.Errorf("invalid piece character: %c", c)
			}
			if p.Kind == Pawn && row != PawnStartRow(p.Side) {
				p.HasMoved = true
			}
			b.SetPiece(row, col, p)
			col++
		}
		if col != Size {
			return nil, fmt.Errorf("invalid number of squares in rank %d: got %d", Size-row, col)
		}
	}
	return b, nil
}

// FEN returns the FEN representation of b with side to move.
func (b *Board) FEN(side Side, halfmove, fullmove int) string {
	var sb strings.Builder

	for row := 0; row < Size; row++ {
		empty := 0
		for col := 0; col < Size; col++ {
			p := b.squares[row][col]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(p.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < Size-1 {
			sb.WriteByte('/')
		}
	}

	if side == Light {
		sb.WriteString(" w")
	} else {
		sb.WriteString(" b")
	}
	sb.WriteString(" - - ")
	sb.WriteString(strconv.Itoa(halfmove))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(fullmove))

	return sb.String()
}
