package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrIllegalMove      = errors.New("illegal move")
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrNotFound         = errors.New("not found")

	ErrCellOccupied = fmt.Errorf("%w: cell is already occupied", ErrIllegalMove)
	ErrGameFinished = fmt.Errorf("%w: game is already finished", ErrIllegalMove)
)
