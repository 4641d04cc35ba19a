package rest

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-classic/internal/config"
	"github.com/rocketscienceinc/tictactoe-classic/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-classic/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-classic/web"
)

const shutdownTimeout = 5 * time.Second

type uGame interface {
	View(ctx context.Context, sessionID string) (tictactoe.Result, error)
	Start(ctx context.Context, sessionID, mode, difficulty string) (tictactoe.Result, error)
	Move(ctx context.Context, sessionID string, req usecase.MoveRequest) (tictactoe.Result, error)
	ResetScores(ctx context.Context, sessionID, mode, difficulty string) (tictactoe.Result, error)
}

type Server struct {
	logger  *slog.Logger
	uGame   uGame
	session config.Session
	tmpl    *template.Template

	router chi.Router
}

func New(logger *slog.Logger, uGame uGame, session config.Session) *Server {
	server := &Server{
		logger:  logger.With("component", "http"),
		uGame:   uGame,
		session: session,
		tmpl:    web.Templates(),
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(server.requestLogger)
	router.Use(middleware.Recoverer)

	router.Get("/ping", server.handlePing)
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(web.StaticFS())))
	router.Get("/", server.handleIndex)
	router.Post("/", server.handleAction)

	server.router = router

	return server
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// Start - serves HTTP until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

// requestLogger logs method, path, status, bytes and duration of every request.
func (that *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		that.logger.Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"dur", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
