package tictactoe

import "github.com/rocketscienceinc/tictactoe-classic/internal/entity"

// FindWinningLine returns the first line in entity.WinLines fully held by mark.
func FindWinningLine(board entity.Board, mark entity.Mark) (entity.WinLine, bool) {
	for _, line := range entity.WinLines {
		if board[line[0]] == mark && board[line[1]] == mark && board[line[2]] == mark {
			return line, true
		}
	}

	return entity.WinLine{}, false
}

func HasWon(board entity.Board, mark entity.Mark) bool {
	_, ok := FindWinningLine(board, mark)
	return ok
}

// IsDraw reports a full board. It does not look for a winner, check HasWon first.
func IsDraw(board entity.Board) bool {
	return board.IsFull()
}
