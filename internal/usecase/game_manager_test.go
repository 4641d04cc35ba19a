package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-classic/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-classic/internal/entity"
	"github.com/rocketscienceinc/tictactoe-classic/internal/tictactoe"
)

var errRedisDown = errors.New("redis down")

type mockScoreRepo struct {
	mock.Mock
}

func (that *mockScoreRepo) Get(ctx context.Context, sessionID string) (entity.ScoreTally, error) {
	args := that.Called(ctx, sessionID)
	return args.Get(0).(entity.ScoreTally), args.Error(1)
}

func (that *mockScoreRepo) Increment(ctx context.Context, sessionID string, winner entity.Winner) (entity.ScoreTally, error) {
	args := that.Called(ctx, sessionID, winner)
	return args.Get(0).(entity.ScoreTally), args.Error(1)
}

func (that *mockScoreRepo) Touch(ctx context.Context, sessionID string) error {
	args := that.Called(ctx, sessionID)
	return args.Error(0)
}

func (that *mockScoreRepo) Reset(ctx context.Context, sessionID string) error {
	args := that.Called(ctx, sessionID)
	return args.Error(0)
}

func newTestManager(t *testing.T) (*GameManager, *mockScoreRepo) {
	t.Helper()

	repo := &mockScoreRepo{}
	t.Cleanup(func() { repo.AssertExpectations(t) })

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	controller := tictactoe.NewGameController(tictactoe.NewOpponentWithSource(rand.NewSource(1)))

	return NewGameManager(logger, repo, controller), repo
}

func TestGameManager_View(t *testing.T) {
	ctx := context.Background()

	t.Run("Shows the stored tally", func(t *testing.T) {
		manager, repo := newTestManager(t)
		tally := entity.ScoreTally{XWins: 1, Draws: 2}
		repo.On("Get", ctx, "s1").Return(tally, nil).Once()
		repo.On("Touch", ctx, "s1").Return(nil).Once()

		result, err := manager.View(ctx, "s1")

		require.NoError(t, err)
		assert.Equal(t, tally, result.Tally)
		assert.Equal(t, tictactoe.MsgIdle, result.Message)
	})

	t.Run("Visit keeps the score alive", func(t *testing.T) {
		// Given: the ttl refresh fails
		manager, repo := newTestManager(t)
		repo.On("Get", ctx, "s1").Return(entity.ScoreTally{OWins: 1}, nil).Once()
		repo.On("Touch", ctx, "s1").Return(errRedisDown).Once()

		// When: viewing the page
		result, err := manager.View(ctx, "s1")

		// Then: the refresh was attempted and the page still loads
		require.NoError(t, err)
		assert.Equal(t, entity.ScoreTally{OWins: 1}, result.Tally)
	})

	t.Run("Empty session", func(t *testing.T) {
		manager, _ := newTestManager(t)

		_, err := manager.View(ctx, "")

		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("Storage failure", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("Get", ctx, "s1").Return(entity.ScoreTally{}, errRedisDown).Once()

		_, err := manager.View(ctx, "s1")

		assert.ErrorIs(t, err, errRedisDown)
	})
}

func TestGameManager_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("Starts a computer game", func(t *testing.T) {
		// Given: a session with an earlier win
		manager, repo := newTestManager(t)
		repo.On("Get", ctx, "s1").Return(entity.ScoreTally{XWins: 1}, nil).Once()
		repo.On("Touch", ctx, "s1").Return(nil).Once()

		// When: starting an intermediate computer game
		result, err := manager.Start(ctx, "s1", "computer", "intermediate")

		// Then: a fresh game is returned and the score is kept
		require.NoError(t, err)
		assert.Equal(t, entity.NewBoard(), result.State.Board)
		assert.Equal(t, entity.OpponentComputer, result.State.Opponent)
		assert.Equal(t, entity.ScoreTally{XWins: 1}, result.Tally)
		assert.Equal(t, "New game: You (X) vs Computer (O) - Intermediate", result.Message)
	})

	t.Run("Rejects unknown mode before touching storage", func(t *testing.T) {
		manager, _ := newTestManager(t)

		_, err := manager.Start(ctx, "s1", "network", "expert")

		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})

	t.Run("Rejects unknown difficulty", func(t *testing.T) {
		manager, _ := newTestManager(t)

		_, err := manager.Start(ctx, "s1", "human", "easy")

		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})
}

func TestGameManager_Move(t *testing.T) {
	ctx := context.Background()

	t.Run("Ongoing game does not touch the score", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("Get", ctx, "s1").Return(entity.ScoreTally{}, nil).Once()
		repo.On("Touch", ctx, "s1").Return(nil).Once()

		result, err := manager.Move(ctx, "s1", MoveRequest{
			Board:         "         ",
			CurrentPlayer: "X",
			Opponent:      "human",
			Difficulty:    "amateur",
			Cell:          4,
		})

		require.NoError(t, err)
		assert.Equal(t, "    X    ", result.State.Board.String())
		assert.Equal(t, entity.PlayerO, result.State.Turn)
	})

	t.Run("Win is persisted", func(t *testing.T) {
		// Given: X can complete the top row
		manager, repo := newTestManager(t)
		repo.On("Get", ctx, "s1").Return(entity.ScoreTally{XWins: 2}, nil).Once()
		repo.On("Touch", ctx, "s1").Return(nil).Once()
		repo.On("Increment", ctx, "s1", entity.WinnerX).Return(entity.ScoreTally{XWins: 3}, nil).Once()

		// When: X plays 2
		result, err := manager.Move(ctx, "s1", MoveRequest{
			Board:         "XX OO    ",
			CurrentPlayer: "X",
			Opponent:      "human",
			Difficulty:    "amateur",
			Cell:          2,
		})

		// Then: the stored tally is returned
		require.NoError(t, err)
		assert.True(t, result.State.GameOver)
		assert.Equal(t, entity.WinnerX, result.State.Winner)
		assert.Equal(t, entity.ScoreTally{XWins: 3}, result.Tally)
	})

	t.Run("Computer block is answered in the same request", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("Get", ctx, "s1").Return(entity.ScoreTally{}, nil).Once()
		repo.On("Touch", ctx, "s1").Return(nil).Once()

		result, err := manager.Move(ctx, "s1", MoveRequest{
			Board:         "X   O    ",
			CurrentPlayer: "X",
			Opponent:      "computer",
			Difficulty:    "expert",
			Cell:          1,
		})

		require.NoError(t, err)
		assert.Equal(t, "XXO O    ", result.State.Board.String())
		assert.Equal(t, tictactoe.MsgYourTurn, result.Message)
	})

	t.Run("Illegal move keeps the score", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("Get", ctx, "s1").Return(entity.ScoreTally{Draws: 1}, nil).Once()
		repo.On("Touch", ctx, "s1").Return(nil).Once()

		result, err := manager.Move(ctx, "s1", MoveRequest{
			Board:         "X        ",
			CurrentPlayer: "O",
			Opponent:      "human",
			Difficulty:    "amateur",
			Cell:          0,
		})

		require.NoError(t, err)
		assert.Equal(t, tictactoe.MsgCellOccupied, result.Message)
		assert.Equal(t, entity.ScoreTally{Draws: 1}, result.Tally)
	})

	t.Run("Malformed input", func(t *testing.T) {
		manager, _ := newTestManager(t)

		for name, req := range map[string]MoveRequest{
			"board":    {Board: "XXXX", CurrentPlayer: "X", Opponent: "human", Difficulty: "amateur"},
			"player":   {Board: "", CurrentPlayer: "Y", Opponent: "human", Difficulty: "amateur"},
			"opponent": {Board: "", CurrentPlayer: "X", Opponent: "ai", Difficulty: "amateur"},
			"level":    {Board: "", CurrentPlayer: "X", Opponent: "human", Difficulty: "godlike"},
			"cell":     {Board: "", CurrentPlayer: "X", Opponent: "human", Difficulty: "amateur", Cell: 12},
		} {
			_, err := manager.Move(ctx, "s1", req)
			assert.ErrorIs(t, err, apperror.ErrInvalidInput, name)
		}
	})

	t.Run("Failed increment is an error", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("Get", ctx, "s1").Return(entity.ScoreTally{}, nil).Once()
		repo.On("Touch", ctx, "s1").Return(nil).Once()
		repo.On("Increment", ctx, "s1", entity.WinnerX).Return(entity.ScoreTally{}, errRedisDown).Once()

		_, err := manager.Move(ctx, "s1", MoveRequest{
			Board:         "XX OO    ",
			CurrentPlayer: "X",
			Opponent:      "human",
			Difficulty:    "amateur",
			Cell:          2,
		})

		assert.ErrorIs(t, err, errRedisDown)
	})
}

func TestGameManager_ResetScores(t *testing.T) {
	ctx := context.Background()

	t.Run("Clears the stored score", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("Reset", ctx, "s1").Return(nil).Once()

		result, err := manager.ResetScores(ctx, "s1", "computer", "intermediate")

		require.NoError(t, err)
		assert.Equal(t, entity.ScoreTally{}, result.Tally)
		assert.True(t, result.State.GameOver)
		assert.Equal(t, tictactoe.MsgScoresReset, result.Message)
		assert.Equal(t, entity.OpponentComputer, result.State.Opponent)
		assert.Equal(t, entity.DifficultyIntermediate, result.State.Difficulty)
	})

	t.Run("Rejects unknown settings before touching storage", func(t *testing.T) {
		manager, _ := newTestManager(t)

		_, err := manager.ResetScores(ctx, "s1", "network", "amateur")

		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})

	t.Run("Storage failure", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("Reset", ctx, "s1").Return(errRedisDown).Once()

		_, err := manager.ResetScores(ctx, "s1", "computer", "intermediate")

		assert.ErrorIs(t, err, errRedisDown)
	})
}
