package shell

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/game"
)

var (
	coordText  = color.New(color.FgCyan)
	errText    = color.New(color.FgRed)
	infoText   = color.New(color.FgGreen)
	checkText  = color.New(color.FgYellow, color.Bold)
	resultText = color.New(color.FgMagenta, color.Bold)
)

// RenderBoard writes a diagram of b with rank 8 at the top. Squares of the
// last move are highlighted.
func RenderBoard(w io.Writer, b *board.Board, last board.Move) {
	for row := 0; row < board.Size; row++ {
		coordText.Fprintf(w, "%d ", board.Size-row)
		for col := 0; col < board.Size; col++ {
			sq := board.Sq(row, col)
			p, _ := b.At(sq)

			a := pieceAttrs(p)
			if last != board.NoMove && (sq == last.From || sq == last.To) {
				a = append(a, color.BgBlue)
			}
			color.New(a...).Fprint(w, p.String())
			fmt.Fprint(w, " ")
		}
		fmt.Fprintln(w)
	}
	coordText.Fprintln(w, "  a b c d e f g h")
}

func pieceAttrs(p board.Piece) []color.Attribute {
	switch {
	case p.IsEmpty():
		return []color.Attribute{color.FgHiBlack}
	case p.Side == board.Light:
		return []color.Attribute{color.FgHiWhite, color.Bold}
	default:
		return []color.Attribute{color.FgHiRed, color.Bold}
	}
}

// RenderStatus writes one line describing whose turn it is or how the game
// ended.
func RenderStatus(w io.Writer, st *game.State) {
	switch st.Status() {
	case game.Checkmate:
		winner, _ := st.Winner()
		resultText.Fprintf(w, "Checkmate, %v wins\n", winner)
	case game.Stalemate:
		resultText.Fprintln(w, "Stalemate, draw")
	case game.Draw:
		if st.HalfmoveClock() >= 100 {
			resultText.Fprintln(w, "Draw by the fifty-move rule")
		} else {
			resultText.Fprintln(w, "Draw by insufficient material")
		}
	case game.Check:
		checkText.Fprintf(w, "%v to move, in check\n", st.Side())
	default:
		infoText.Fprintf(w, "%v to move\n", st.Side())
	}
}
