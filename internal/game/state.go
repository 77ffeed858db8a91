// Package game implements the authoritative game state: turn order, move
// application and undo, draw counters and status derivation.
package game

import (
	"fmt"

	"github.com/hailam/minichess/internal/board"
)

// MoveRecord stores everything needed to undo a move.
type MoveRecord struct {
	Move     board.Move
	Piece    board.Piece // moving piece as it was before the move
	Captured board.Piece // NoPiece if the move was not a capture
	// Promotion is the kind the pawn became, NoKind otherwise.
	Promotion board.Kind
	Check     bool // the move left the opponent in check

	PrevHalfmove int
	PrevFullmove int
}

// IsCapture returns true if the move took a piece.
func (r MoveRecord) IsCapture() bool {
	return !r.Captured.IsEmpty()
}

// Snapshot is a read-only view of a State. Its Board and LegalMoves are
// copies owned by the caller.
type Snapshot struct {
	Board          *board.Board
	Side           board.Side
	Status         Status
	LegalMoves     []board.Move
	InCheck        bool
	HalfmoveClock  int
	FullmoveNumber int
}

// State owns the board, turn, history and clocks of one game.
// It is not safe for concurrent use.
type State struct {
	board    *board.Board
	side     board.Side
	status   Status
	inCheck  bool
	legal    []board.Move
	history  []MoveRecord
	halfmove int
	fullmove int
}

// New returns a game in the starting position.
func New() *State {
	s := &State{}
	s.Reset()
	return s
}

// FromFEN returns a game set up from a FEN string. The position must have
// one king per side, no pawn on either back rank, and the side that just
// moved must not be left in check.
func FromFEN(fen string) (*State, error) {
	setup, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	if err := validatePosition(setup.Board, setup.Side); err != nil {
		return nil, err
	}
	s := &State{
		board:    setup.Board,
		side:     setup.Side,
		halfmove: setup.HalfmoveClock,
		fullmove: setup.FullmoveNumber,
	}
	s.updateStatus()
	return s, nil
}

func validatePosition(b *board.Board, side board.Side) error {
	var kings [2]int
	var pawnSq board.Square
	pawnOnEdge := false
	b.ForEach(func(sq board.Square, p board.Piece) {
		switch p.Kind {
		case board.King:
			if p.Side == board.Light {
				kings[0]++
			} else {
				kings[1]++
			}
		case board.Pawn:
			if (sq.Row == 0 || sq.Row == board.Size-1) && !pawnOnEdge {
				pawnOnEdge, pawnSq = true, sq
			}
		}
	})

	if kings[0] != 1 {
		return fmt.Errorf("%w: %d %v kings", ErrInvalidPosition, kings[0], board.Light)
	}
	if kings[1] != 1 {
		return fmt.Errorf("%w: %d %v kings", ErrInvalidPosition, kings[1], board.Dark)
	}
	if pawnOnEdge {
		return fmt.Errorf("%w: pawn on %v", ErrInvalidPosition, pawnSq)
	}
	if board.IsInCheck(b, side.Other()) {
		return fmt.Errorf("%w: %v is in check with %v to move", ErrInvalidPosition, side.Other(), side)
	}
	return nil
}

// Reset starts a new game from the initial position.
func (s *State) Reset() {
	*s = State{
		board:    board.NewBoard(),
		side:     board.Light,
		fullmove: 1,
	}
	s.updateStatus()
}

// Clone returns a deep copy sharing no mutable state with s.
func (s *State) Clone() *State {
	c := *s
	c.board = s.board.Clone()
	c.legal = append([]board.Move(nil), s.legal...)
	c.history = append([]MoveRecord(nil), s.history...)
	return &c
}

// Branch returns an independent copy without the move history. Search
// explores branches and discards them, so it never needs to undo past
// the branch point.
func (s *State) Branch() *State {
	c := *s
	c.board = s.board.Clone()
	c.legal = append([]board.Move(nil), s.legal...)
	c.history = nil
	return &c
}

// Board returns a copy of the current board.
func (s *State) Board() *board.Board {
	return s.board.Clone()
}

// PieceAt returns the piece on sq.
func (s *State) PieceAt(sq board.Square) (board.Piece, bool) {
	return s.board.At(sq)
}

// Side returns the side to move.
func (s *State) Side() board.Side { return s.side }

// Status returns the current status.
func (s *State) Status() Status { return s.status }

// InCheck returns true if the side to move is in check.
func (s *State) InCheck() bool { return s.inCheck }

// HalfmoveClock returns the number of plies since the last pawn move or capture.
func (s *State) HalfmoveClock() int { return s.halfmove }

// FullmoveNumber returns the move number, starting at 1.
func (s *State) FullmoveNumber() int { return s.fullmove }

// Ply returns the number of moves played in this game.
func (s *State) Ply() int { return len(s.history) }

// History returns a copy of the move records, oldest first.
func (s *State) History() []MoveRecord {
	return append([]MoveRecord(nil), s.history...)
}

// LastMove returns the most recent move record.
func (s *State) LastMove() (MoveRecord, bool) {
	if len(s.history) == 0 {
		return MoveRecord{}, false
	}
	return s.history[len(s.history)-1], true
}

// LegalMoves returns the legal moves of the side to move.
func (s *State) LegalMoves() []board.Move {
	return append([]board.Move(nil), s.legal...)
}

// LegalMovesFor returns the legal moves side would have on the current board.
func (s *State) LegalMovesFor(side board.Side) []board.Move {
	if side == s.side {
		return s.LegalMoves()
	}
	return board.LegalMoves(s.board, side)
}

// Snapshot returns a read-only view of the game.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Board:          s.board.Clone(),
		Side:           s.side,
		Status:         s.status,
		LegalMoves:     s.LegalMoves(),
		InCheck:        s.inCheck,
		HalfmoveClock:  s.halfmove,
		FullmoveNumber: s.fullmove,
	}
}

// FEN returns the FEN string of the current position.
func (s *State) FEN() string {
	return s.board.FEN(s.side, s.halfmove, s.fullmove)
}

// ApplyMove validates and plays the move from -> to. On error the state is
// unchanged.
func (s *State) ApplyMove(from, to board.Square) (MoveRecord, error) {
	return s.Apply(board.NewMove(from, to))
}

// Apply validates and plays m. A pawn reaching the far rank always becomes a
// queen; m.Promotion may be empty or Queen.
func (s *State) Apply(m board.Move) (MoveRecord, error) {
	if !m.IsValid() {
		return MoveRecord{}, fmt.Errorf("%w: %v", ErrInvalidFormat, m)
	}

	piece, ok := s.board.At(m.From)
	if !ok {
		return MoveRecord{}, fmt.Errorf("%w: %v", ErrNoPiece, m.From)
	}
	if piece.Side != s.side {
		return MoveRecord{}, fmt.Errorf("%w: %v is %v, %v to move", ErrWrongSide, m.From, piece.Side, s.side)
	}
	if s.status.IsOver() {
		return MoveRecord{}, fmt.Errorf("%w: game is over (%v)", ErrIllegalMove, s.status)
	}

	legal, ok := board.FindMove(s.legal, m.From, m.To)
	if !ok || (m.IsPromotion() && m.Promotion != legal.Promotion) {
		return MoveRecord{}, fmt.Errorf("%w: %v", ErrIllegalMove, m)
	}

	return s.Play(legal), nil
}

// Play executes m, which must be one of LegalMoves, without validation.
// The search uses it on states it has cloned.
func (s *State) Play(m board.Move) MoveRecord {
	piece, _ := s.board.At(m.From)
	rec := MoveRecord{
		Move:         m,
		Piece:        piece.Clone(),
		PrevHalfmove: s.halfmove,
		PrevFullmove: s.fullmove,
	}

	rec.Captured = s.board.Apply(m)
	if moved, _ := s.board.At(m.To); moved.Kind != piece.Kind {
		rec.Promotion = moved.Kind
	}

	if piece.Kind == board.Pawn || rec.IsCapture() {
		s.halfmove = 0
	} else {
		s.halfmove++
	}
	if s.side == board.Dark {
		s.fullmove++
	}

	s.side = s.side.Other()
	s.updateStatus()
	rec.Check = s.inCheck

	s.history = append(s.history, rec)
	return rec
}

// UndoMove takes back the last move. The restored status is always Playing.
func (s *State) UndoMove() (MoveRecord, error) {
	if len(s.history) == 0 {
		return MoveRecord{}, ErrNoHistory
	}

	rec := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]

	s.board.Put(rec.Move.From, rec.Piece)
	s.board.Put(rec.Move.To, rec.Captured)
	s.halfmove = rec.PrevHalfmove
	s.fullmove = rec.PrevFullmove
	s.side = s.side.Other()

	s.legal = board.LegalMoves(s.board, s.side)
	s.inCheck = board.IsInCheck(s.board, s.side)
	s.status = Playing

	return rec, nil
}

// updateStatus recomputes the legal move cache and status for the side to move.
func (s *State) updateStatus() {
	s.legal = board.LegalMoves(s.board, s.side)
	s.inCheck = board.IsInCheck(s.board, s.side)

	switch {
	case len(s.legal) == 0 && s.inCheck:
		s.status = Checkmate
	case len(s.legal) == 0:
		s.status = Stalemate
	case s.halfmove >= fiftyMoveLimit || InsufficientMaterial(s.board):
		s.status = Draw
	case s.inCheck:
		s.status = Check
	default:
		s.status = Playing
	}
}

// Winner returns the winning side after checkmate.
func (s *State) Winner() (board.Side, bool) {
	if s.status != Checkmate {
		return board.Light, false
	}
	return s.side.Other(), true
}
