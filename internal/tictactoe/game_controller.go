package tictactoe

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-classic/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-classic/internal/entity"
)

const (
	MsgIdle         = "Choose mode and start a game."
	MsgScoresReset  = "Scoreboard reset. Start a new game!"
	MsgNewHumanGame = "New game: Player X vs Player O"
	MsgGameOver     = "Game is already over. Start a new game."
	MsgCellOccupied = "That spot is already taken. Choose another."
	MsgHumanWins    = "You win!"
	MsgComputerWins = "Computer wins!"
	MsgDraw         = "It's a draw!"
	MsgYourTurn     = "Your turn (X)."

	msgNewComputer = "New game: You (X) vs Computer (O) - %s"
	msgPlayerWins  = "Player %s wins!"
	msgPlayerTurn  = "Player %s's turn."
)

type moveChooser interface {
	ChooseMove(board entity.Board, difficulty entity.Difficulty) (int, error)
}

// Result is what one action hands back to the caller.
type Result struct {
	State   entity.GameState
	Tally   entity.ScoreTally
	Message string

	// Outcome is the winner recorded by this call, WinnerNone if no game ended.
	Outcome entity.Winner
}

// GameController applies actions to a game state. It keeps nothing between calls.
type GameController struct {
	opponent moveChooser
}

func NewGameController(opponent moveChooser) *GameController {
	return &GameController{
		opponent: opponent,
	}
}

// Idle is the view before any game was started.
func (that *GameController) Idle(tally entity.ScoreTally) Result {
	state := entity.NewGameState(entity.OpponentHuman, entity.DifficultyAmateur)

	return Result{
		State:   state,
		Tally:   tally,
		Message: MsgIdle,
	}
}

// Start begins a new game, keeping the tally.
func (that *GameController) Start(tally entity.ScoreTally, opponent entity.Opponent, difficulty entity.Difficulty) (Result, error) {
	if _, err := entity.ParseOpponent(string(opponent)); err != nil {
		return Result{}, err
	}

	if _, err := entity.ParseDifficulty(string(difficulty)); err != nil {
		return Result{}, err
	}

	result := Result{
		State:   entity.NewGameState(opponent, difficulty),
		Tally:   tally,
		Message: MsgNewHumanGame,
	}

	if opponent == entity.OpponentComputer {
		result.Message = fmt.Sprintf(msgNewComputer, difficulty.Title())
	}

	return result, nil
}

// ResetScores zeroes the tally and leaves no active game. The chosen mode and difficulty are kept.
func (that *GameController) ResetScores(opponent entity.Opponent, difficulty entity.Difficulty) Result {
	state := entity.NewGameState(opponent, difficulty)
	state.GameOver = true

	return Result{
		State:   state,
		Tally:   entity.ScoreTally{},
		Message: MsgScoresReset,
	}
}

// Move plays cell for the player to move and, against the computer, answers with O.
// Illegal moves return the state unchanged with an explanatory message and no error.
func (that *GameController) Move(state entity.GameState, tally entity.ScoreTally, cell int) (Result, error) {
	if err := state.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid state: %w", err)
	}

	if cell < 0 || cell >= entity.BoardSize {
		return Result{}, fmt.Errorf("%w: cell %d", apperror.ErrInvalidInput, cell)
	}

	result := Result{State: state, Tally: tally}

	if err := validateMove(&state, cell); err != nil {
		result.Message = illegalMoveMessage(err)
		return result, nil
	}

	player := state.Turn
	result.State.Board[cell] = player
	if that.finish(&result, player) {
		return result, nil
	}

	if !state.IsWithComputer() || player != HumanMark {
		result.State.Turn = player.Opposite()
		result.Message = fmt.Sprintf(msgPlayerTurn, result.State.Turn)

		return result, nil
	}

	computerCell, err := that.opponent.ChooseMove(result.State.Board, state.Difficulty)
	if err != nil {
		return Result{}, fmt.Errorf("computer failed to make turn: %w", err)
	}

	result.State.Board[computerCell] = ComputerMark
	if that.finish(&result, ComputerMark) {
		return result, nil
	}

	result.State.Turn = HumanMark
	result.Message = MsgYourTurn

	return result, nil
}

// validateMove - checks if the move is legal for the current state.
func validateMove(state *entity.GameState, cell int) error {
	if state.GameOver {
		return apperror.ErrGameFinished
	}

	if state.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

func illegalMoveMessage(err error) string {
	if errors.Is(err, apperror.ErrCellOccupied) {
		return MsgCellOccupied
	}
	return MsgGameOver
}

// finish - ends the game if player just won or filled the board.
func (that *GameController) finish(result *Result, player entity.Mark) bool {
	if line, ok := FindWinningLine(result.State.Board, player); ok {
		result.State.GameOver = true
		result.State.Winner = entity.Winner(player)
		result.State.WinningLine = &line
		result.Outcome = entity.Winner(player)
		result.Tally.Record(result.Outcome)
		result.Message = winMessage(result.State.Opponent, player)

		return true
	}

	if IsDraw(result.State.Board) {
		result.State.GameOver = true
		result.State.Winner = entity.WinnerDraw
		result.State.WinningLine = nil
		result.Outcome = entity.WinnerDraw
		result.Tally.Record(result.Outcome)
		result.Message = MsgDraw

		return true
	}

	return false
}

func winMessage(opponent entity.Opponent, player entity.Mark) string {
	switch {
	case opponent == entity.OpponentComputer && player == ComputerMark:
		return MsgComputerWins
	case opponent == entity.OpponentComputer && player == HumanMark:
		return MsgHumanWins
	default:
		return fmt.Sprintf(msgPlayerWins, player)
	}
}
