package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-classic/internal/apperror"
)

// Mark is the content of one board cell.
type Mark string

const (
	EmptyCell Mark = " "
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// Opponent is who plays O.
type Opponent string

const (
	OpponentHuman    Opponent = "human"
	OpponentComputer Opponent = "computer"
)

// Difficulty is the computer opponent tier.
type Difficulty string

const (
	DifficultyAmateur      Difficulty = "amateur"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyExpert       Difficulty = "expert"
)

// Winner of a finished game. WinnerNone while the game is undecided.
type Winner string

const (
	WinnerNone Winner = ""
	WinnerX    Winner = "X"
	WinnerO    Winner = "O"
	WinnerDraw Winner = "draw"
)

const BoardSize = 9

// WinLine is one row, column or diagonal as cell indices.
type WinLine [3]int

// WinLines is scanned in this order; the first complete line is the one reported.
var WinLines = [8]WinLine{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is a 3x3 grid in row-major order.
type Board [BoardSize]Mark

func NewBoard() Board {
	var board Board
	for i := range board {
		board[i] = EmptyCell
	}

	return board
}

// ParseBoard decodes the 9-character wire snapshot (space, X or O per cell).
// An empty string is an empty board.
func ParseBoard(s string) (Board, error) {
	if s == "" {
		return NewBoard(), nil
	}

	if len(s) != BoardSize {
		return Board{}, fmt.Errorf("%w: board must have %d cells, got %d", apperror.ErrInvalidInput, BoardSize, len(s))
	}

	var board Board
	for i := 0; i < BoardSize; i++ {
		switch mark := Mark(s[i : i+1]); mark {
		case EmptyCell, PlayerX, PlayerO:
			board[i] = mark
		default:
			return Board{}, fmt.Errorf("%w: unexpected cell %q at %d", apperror.ErrInvalidInput, s[i], i)
		}
	}

	return board, nil
}

func (that Board) String() string {
	var sb strings.Builder
	sb.Grow(BoardSize)

	for _, cell := range that {
		if cell == "" {
			cell = EmptyCell
		}
		sb.WriteString(string(cell))
	}

	return sb.String()
}

// EmptyCells returns the free cell indices in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that Board) Count(mark Mark) int {
	count := 0
	for _, cell := range that {
		if cell == mark {
			count++
		}
	}

	return count
}

func ParseMark(s string) (Mark, error) {
	switch mark := Mark(s); mark {
	case PlayerX, PlayerO:
		return mark, nil
	default:
		return "", fmt.Errorf("%w: unknown player %q", apperror.ErrInvalidInput, s)
	}
}

// Opposite returns the other player's mark.
func (that Mark) Opposite() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func ParseOpponent(s string) (Opponent, error) {
	switch opponent := Opponent(s); opponent {
	case OpponentHuman, OpponentComputer:
		return opponent, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", apperror.ErrInvalidInput, s)
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch difficulty := Difficulty(s); difficulty {
	case DifficultyAmateur, DifficultyIntermediate, DifficultyExpert:
		return difficulty, nil
	default:
		return "", fmt.Errorf("%w: unknown difficulty %q", apperror.ErrInvalidInput, s)
	}
}

// Title is the display name of the difficulty, e.g. "Expert".
func (that Difficulty) Title() string {
	if that == "" {
		return ""
	}
	return strings.ToUpper(string(that[:1])) + string(that[1:])
}

// GameState is everything the page round-trips between requests.
type GameState struct {
	Board       Board      `json:"board"`
	Turn        Mark       `json:"current_player"`
	Opponent    Opponent   `json:"opponent_type"`
	Difficulty  Difficulty `json:"difficulty"`
	GameOver    bool       `json:"game_over"`
	Winner      Winner     `json:"winner"`
	WinningLine *WinLine   `json:"winning_line,omitempty"`
}

// NewGameState returns a fresh game with X to move.
func NewGameState(opponent Opponent, difficulty Difficulty) GameState {
	return GameState{
		Board:      NewBoard(),
		Turn:       PlayerX,
		Opponent:   opponent,
		Difficulty: difficulty,
	}
}

func (that *GameState) IsWithComputer() bool {
	return that.Opponent == OpponentComputer
}

// InLine reports whether cell belongs to the winning line.
func (that *GameState) InLine(cell int) bool {
	if that.WinningLine == nil {
		return false
	}

	for _, idx := range that.WinningLine {
		if idx == cell {
			return true
		}
	}

	return false
}

// Validate checks the enumerations, that mark counts are reachable with X moving first,
// and, while the game runs, that Turn belongs to the player whose move it is.
func (that *GameState) Validate() error {
	if _, err := ParseMark(string(that.Turn)); err != nil {
		return err
	}

	if _, err := ParseOpponent(string(that.Opponent)); err != nil {
		return err
	}

	if _, err := ParseDifficulty(string(that.Difficulty)); err != nil {
		return err
	}

	xCount, oCount := that.Board.Count(PlayerX), that.Board.Count(PlayerO)
	if xCount+oCount+that.Board.Count(EmptyCell) != BoardSize {
		return fmt.Errorf("%w: board has unknown cells", apperror.ErrInvalidInput)
	}

	if oCount > xCount || xCount > oCount+1 {
		return fmt.Errorf("%w: unreachable board: %d X, %d O", apperror.ErrInvalidInput, xCount, oCount)
	}

	if that.GameOver {
		return nil
	}

	expected := PlayerX
	if xCount > oCount {
		expected = PlayerO
	}

	if that.Turn != expected {
		return fmt.Errorf("%w: %s to move on a board with %d X, %d O", apperror.ErrInvalidInput, that.Turn, xCount, oCount)
	}

	return nil
}
