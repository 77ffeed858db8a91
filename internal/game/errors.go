package game

import "errors"

var (
	ErrInvalidFormat = errors.New("invalid move format")
	ErrNoPiece       = errors.New("no piece on source square")
	ErrWrongSide     = errors.New("piece belongs to the side not on move")
	ErrIllegalMove   = errors.New("illegal move")
	ErrNoHistory     = errors.New("no move to undo")

	ErrInvalidPosition = errors.New("invalid position")
)
