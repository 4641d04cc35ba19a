package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-classic/internal/config"
	"github.com/rocketscienceinc/tictactoe-classic/internal/repository"
	"github.com/rocketscienceinc/tictactoe-classic/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-classic/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-classic/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-classic/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if conf.Redis.Host == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr(), conf.Redis.Password, conf.Redis.DB)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	scoreRepo := repository.NewScoreRepository(redisStorage, conf.Session.TTL)
	gameController := tictactoe.NewGameController(tictactoe.NewOpponent())
	gameManager := usecase.NewGameManager(logger, scoreRepo, gameController)

	httpServer := rest.New(logger, gameManager, conf.Session)

	log.Info("Starting HTTP server", "port", conf.HTTPPort)
	if err = httpServer.Start(ctx, conf.HTTPPort); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}
