package tictactoe

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-classic/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-classic/internal/entity"
)

const (
	ComputerMark = entity.PlayerO
	HumanMark    = entity.PlayerX

	centerCell = 4
)

var cornerCells = [4]int{0, 2, 6, 8}

// Opponent picks moves for the computer player.
type Opponent struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewOpponent() *Opponent {
	return NewOpponentWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewOpponentWithSource is used by tests that need a fixed seed.
func NewOpponentWithSource(src rand.Source) *Opponent {
	return &Opponent{
		rnd: rand.New(src), //nolint: gosec // game moves, not secrets
	}
}

// ChooseMove returns the cell the computer plays on board. The board is not modified.
func (that *Opponent) ChooseMove(board entity.Board, difficulty entity.Difficulty) (int, error) {
	available := board.EmptyCells()
	if len(available) == 0 {
		return 0, apperror.ErrNoAvailableMoves
	}

	switch difficulty {
	case entity.DifficultyAmateur:
		return that.pick(available), nil
	case entity.DifficultyIntermediate, entity.DifficultyExpert:
	default:
		return 0, fmt.Errorf("%w: unknown difficulty %q", apperror.ErrInvalidInput, difficulty)
	}

	if cell, ok := completingCell(board, available, ComputerMark); ok {
		return cell, nil
	}

	if cell, ok := completingCell(board, available, HumanMark); ok {
		return cell, nil
	}

	if difficulty == entity.DifficultyIntermediate {
		return that.pick(available), nil
	}

	if board[centerCell] == entity.EmptyCell {
		return centerCell, nil
	}

	corners := make([]int, 0, len(cornerCells))
	for _, cell := range cornerCells {
		if board[cell] == entity.EmptyCell {
			corners = append(corners, cell)
		}
	}

	if len(corners) > 0 {
		return that.pick(corners), nil
	}

	return that.pick(available), nil
}

// completingCell finds the lowest empty cell that would give mark a line.
// Each trial placement is undone before the next one.
func completingCell(board entity.Board, available []int, mark entity.Mark) (int, bool) {
	for _, cell := range available {
		board[cell] = mark
		won := HasWon(board, mark)
		board[cell] = entity.EmptyCell

		if won {
			return cell, true
		}
	}

	return 0, false
}

func (that *Opponent) pick(cells []int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return cells[that.rnd.Intn(len(cells))]
}
