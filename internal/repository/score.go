package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-classic/internal/entity"
)

var ErrUnknownWinner = errors.New("unknown winner")

const (
	fieldX    = "x"
	fieldO    = "o"
	fieldDraw = "draw"
)

type ScoreRepository interface {
	Get(ctx context.Context, sessionID string) (entity.ScoreTally, error)
	Increment(ctx context.Context, sessionID string, winner entity.Winner) (entity.ScoreTally, error)
	Reset(ctx context.Context, sessionID string) error
	Touch(ctx context.Context, sessionID string) error
}

type dbScore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScoreRepository keeps one hash per session. A zero ttl keeps scores forever.
func NewScoreRepository(client *redis.Client, ttl time.Duration) ScoreRepository {
	return &dbScore{
		client: client,
		ttl:    ttl,
	}
}

func scoreKey(sessionID string) string {
	return "score:" + sessionID
}

func (that *dbScore) Get(ctx context.Context, sessionID string) (entity.ScoreTally, error) {
	values, err := that.client.HGetAll(ctx, scoreKey(sessionID)).Result()
	if err != nil {
		return entity.ScoreTally{}, fmt.Errorf("failed to get score: %w", err)
	}

	tally, err := parseTally(values)
	if err != nil {
		return entity.ScoreTally{}, fmt.Errorf("failed to parse score: %w", err)
	}

	return tally, nil
}

func (that *dbScore) Increment(ctx context.Context, sessionID string, winner entity.Winner) (entity.ScoreTally, error) {
	field, err := winnerField(winner)
	if err != nil {
		return entity.ScoreTally{}, err
	}

	key := scoreKey(sessionID)

	pipe := that.client.TxPipeline()
	pipe.HIncrBy(ctx, key, field, 1)
	if that.ttl > 0 {
		pipe.Expire(ctx, key, that.ttl)
	}
	all := pipe.HGetAll(ctx, key)

	if _, err = pipe.Exec(ctx); err != nil {
		return entity.ScoreTally{}, fmt.Errorf("failed to increment score: %w", err)
	}

	tally, err := parseTally(all.Val())
	if err != nil {
		return entity.ScoreTally{}, fmt.Errorf("failed to parse score: %w", err)
	}

	return tally, nil
}

func (that *dbScore) Reset(ctx context.Context, sessionID string) error {
	if err := that.client.Del(ctx, scoreKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to reset score: %w", err)
	}

	return nil
}

// Touch - pushes the expiry of the session's score forward. Missing keys are left alone.
func (that *dbScore) Touch(ctx context.Context, sessionID string) error {
	if that.ttl <= 0 {
		return nil
	}

	if err := that.client.Expire(ctx, scoreKey(sessionID), that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to refresh score ttl: %w", err)
	}

	return nil
}

func winnerField(winner entity.Winner) (string, error) {
	switch winner {
	case entity.WinnerX:
		return fieldX, nil
	case entity.WinnerO:
		return fieldO, nil
	case entity.WinnerDraw:
		return fieldDraw, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownWinner, winner)
	}
}

func parseTally(values map[string]string) (entity.ScoreTally, error) {
	var tally entity.ScoreTally

	for field, target := range map[string]*int{
		fieldX:    &tally.XWins,
		fieldO:    &tally.OWins,
		fieldDraw: &tally.Draws,
	} {
		raw, ok := values[field]
		if !ok {
			continue
		}

		n, err := strconv.Atoi(raw)
		if err != nil {
			return entity.ScoreTally{}, fmt.Errorf("field %s: %w", field, err)
		}
		*target = n
	}

	return tally, nil
}
