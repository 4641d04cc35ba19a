package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-classic/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-classic/internal/entity"
	"github.com/rocketscienceinc/tictactoe-classic/internal/tictactoe"
)

var ErrNoSession = errors.New("session id is empty")

type scoreRepo interface {
	Get(ctx context.Context, sessionID string) (entity.ScoreTally, error)
	Increment(ctx context.Context, sessionID string, winner entity.Winner) (entity.ScoreTally, error)
	Reset(ctx context.Context, sessionID string) error
	Touch(ctx context.Context, sessionID string) error
}

type gameController interface {
	Idle(tally entity.ScoreTally) tictactoe.Result
	Start(tally entity.ScoreTally, opponent entity.Opponent, difficulty entity.Difficulty) (tictactoe.Result, error)
	ResetScores(opponent entity.Opponent, difficulty entity.Difficulty) tictactoe.Result
	Move(state entity.GameState, tally entity.ScoreTally, cell int) (tictactoe.Result, error)
}

// MoveRequest is a move as submitted by the page: the round-tripped state plus the chosen cell.
type MoveRequest struct {
	Board         string
	CurrentPlayer string
	Opponent      string
	Difficulty    string
	GameOver      bool
	Cell          int
}

// GameManager binds the stateless game controller to the per-session score store.
type GameManager struct {
	logger     *slog.Logger
	scoreRepo  scoreRepo
	controller gameController
}

func NewGameManager(logger *slog.Logger, scoreRepo scoreRepo, controller gameController) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		scoreRepo:  scoreRepo,
		controller: controller,
	}
}

// View - returns the idle page state with the session's score.
func (that *GameManager) View(ctx context.Context, sessionID string) (tictactoe.Result, error) {
	tally, err := that.getTally(ctx, sessionID)
	if err != nil {
		return tictactoe.Result{}, err
	}

	return that.controller.Idle(tally), nil
}

func (that *GameManager) Start(ctx context.Context, sessionID, mode, difficulty string) (tictactoe.Result, error) {
	log := that.logger.With("method", "Start", "session", sessionID)

	opponent, err := entity.ParseOpponent(mode)
	if err != nil {
		return tictactoe.Result{}, err
	}

	level, err := entity.ParseDifficulty(difficulty)
	if err != nil {
		return tictactoe.Result{}, err
	}

	tally, err := that.getTally(ctx, sessionID)
	if err != nil {
		return tictactoe.Result{}, err
	}

	result, err := that.controller.Start(tally, opponent, level)
	if err != nil {
		return tictactoe.Result{}, fmt.Errorf("failed to start game: %w", err)
	}

	log.Info("game started", "opponent", opponent, "difficulty", level)

	return result, nil
}

func (that *GameManager) Move(ctx context.Context, sessionID string, req MoveRequest) (tictactoe.Result, error) {
	log := that.logger.With("method", "Move", "session", sessionID)

	state, err := req.gameState()
	if err != nil {
		return tictactoe.Result{}, err
	}

	tally, err := that.getTally(ctx, sessionID)
	if err != nil {
		return tictactoe.Result{}, err
	}

	result, err := that.controller.Move(state, tally, req.Cell)
	if err != nil {
		return tictactoe.Result{}, fmt.Errorf("failed make turn: %w", err)
	}

	if result.Outcome == entity.WinnerNone {
		log.Debug("turn played", "cell", req.Cell, "board", result.State.Board.String())
		return result, nil
	}

	stored, err := that.scoreRepo.Increment(ctx, sessionID, result.Outcome)
	if err != nil {
		return tictactoe.Result{}, fmt.Errorf("failed to record outcome: %w", err)
	}
	result.Tally = stored

	log.Info("game finished", "winner", result.Outcome, "board", result.State.Board.String())

	return result, nil
}

func (that *GameManager) ResetScores(ctx context.Context, sessionID, mode, difficulty string) (tictactoe.Result, error) {
	log := that.logger.With("method", "ResetScores", "session", sessionID)

	if sessionID == "" {
		return tictactoe.Result{}, ErrNoSession
	}

	opponent, err := entity.ParseOpponent(mode)
	if err != nil {
		return tictactoe.Result{}, err
	}

	level, err := entity.ParseDifficulty(difficulty)
	if err != nil {
		return tictactoe.Result{}, err
	}

	if err := that.scoreRepo.Reset(ctx, sessionID); err != nil {
		return tictactoe.Result{}, fmt.Errorf("failed to reset scores: %w", err)
	}

	log.Info("scoreboard reset")

	return that.controller.ResetScores(opponent, level), nil
}

func (that *GameManager) getTally(ctx context.Context, sessionID string) (entity.ScoreTally, error) {
	if sessionID == "" {
		return entity.ScoreTally{}, ErrNoSession
	}

	tally, err := that.scoreRepo.Get(ctx, sessionID)
	if err != nil {
		return entity.ScoreTally{}, fmt.Errorf("failed to get scores: %w", err)
	}

	if err = that.scoreRepo.Touch(ctx, sessionID); err != nil {
		that.logger.Warn("failed to refresh scores ttl", "session", sessionID, "error", err)
	}

	return tally, nil
}

func (that MoveRequest) gameState() (entity.GameState, error) {
	board, err := entity.ParseBoard(that.Board)
	if err != nil {
		return entity.GameState{}, err
	}

	turn, err := entity.ParseMark(that.CurrentPlayer)
	if err != nil {
		return entity.GameState{}, err
	}

	opponent, err := entity.ParseOpponent(that.Opponent)
	if err != nil {
		return entity.GameState{}, err
	}

	difficulty, err := entity.ParseDifficulty(that.Difficulty)
	if err != nil {
		return entity.GameState{}, err
	}

	if that.Cell < 0 || that.Cell >= entity.BoardSize {
		return entity.GameState{}, fmt.Errorf("%w: cell %d", apperror.ErrInvalidInput, that.Cell)
	}

	return entity.GameState{
		Board:      board,
		Turn:       turn,
		Opponent:   opponent,
		Difficulty: difficulty,
		GameOver:   that.GameOver,
	}, nil
}
