package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-classic/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-classic/internal/entity"
	"github.com/rocketscienceinc/tictactoe-classic/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-classic/internal/usecase"
)

const (
	actionStart       = "start"
	actionMove        = "move"
	actionResetScores = "reset_scores"

	msgInvalidInput = "That request could not be understood. Start a new game."
)

type cellView struct {
	Index    int
	Mark     string
	Win      bool
	Disabled bool
}

type pageView struct {
	Message       string
	BoardString   string
	CurrentPlayer string
	Opponent      string
	Difficulty    string
	GameOver      bool
	Winner        string
	Cells         []cellView
	Scores        entity.ScoreTally
	Difficulties  []entity.Difficulty
}

func newPageView(result tictactoe.Result) pageView {
	state := result.State

	view := pageView{
		Message:       result.Message,
		BoardString:   state.Board.String(),
		CurrentPlayer: string(state.Turn),
		Opponent:      string(state.Opponent),
		Difficulty:    string(state.Difficulty),
		GameOver:      state.GameOver,
		Winner:        string(state.Winner),
		Cells:         make([]cellView, 0, entity.BoardSize),
		Scores:        result.Tally,
		Difficulties: []entity.Difficulty{
			entity.DifficultyAmateur,
			entity.DifficultyIntermediate,
			entity.DifficultyExpert,
		},
	}

	for i, cell := range state.Board {
		view.Cells = append(view.Cells, cellView{
			Index:    i,
			Mark:     string(cell),
			Win:      state.InLine(i),
			Disabled: state.GameOver || cell != entity.EmptyCell,
		})
	}

	return view
}

func (that *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleIndex")

	sessionID := that.sessionID(w, r)

	result, err := that.uGame.View(r.Context(), sessionID)
	if err != nil {
		log.Error("failed to load page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.render(w, http.StatusOK, result)
}

func (that *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleAction")

	sessionID := that.sessionID(w, r)

	if err := r.ParseForm(); err != nil {
		log.Warn("failed to parse form", "error", err)
		that.renderInvalid(w, r, sessionID)
		return
	}

	ctx := r.Context()

	var (
		result tictactoe.Result
		err    error
	)

	switch action := r.PostForm.Get("action"); action {
	case actionStart, "":
		result, err = that.uGame.Start(ctx, sessionID, formValue(r, "mode", "human"), formValue(r, "difficulty", "amateur"))
	case actionMove:
		var req usecase.MoveRequest
		req, err = moveRequest(r)
		if err == nil {
			result, err = that.uGame.Move(ctx, sessionID, req)
		}
	case actionResetScores:
		result, err = that.uGame.ResetScores(ctx, sessionID, formValue(r, "opponent_type", "human"), formValue(r, "difficulty", "amateur"))
	default:
		log.Warn("unknown action", "action", action)
		that.renderInvalid(w, r, sessionID)
		return
	}

	if errors.Is(err, apperror.ErrInvalidInput) {
		log.Warn("rejected request", "error", err)
		that.renderInvalid(w, r, sessionID)
		return
	}

	if err != nil {
		log.Error("failed to process action", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.render(w, http.StatusOK, result)
}

// renderInvalid answers 400 with the idle page so the scoreboard stays visible.
func (that *Server) renderInvalid(w http.ResponseWriter, r *http.Request, sessionID string) {
	result, err := that.uGame.View(r.Context(), sessionID)
	if err != nil {
		that.logger.Error("failed to load page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	result.Message = msgInvalidInput
	that.render(w, http.StatusBadRequest, result)
}

func (that *Server) render(w http.ResponseWriter, status int, result tictactoe.Result) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := that.tmpl.ExecuteTemplate(w, "index.tmpl", newPageView(result)); err != nil {
		that.logger.Error("failed to render page", "error", err)
	}
}

func formValue(r *http.Request, key, fallback string) string {
	if value := r.PostForm.Get(key); value != "" {
		return value
	}
	return fallback
}

func moveRequest(r *http.Request) (usecase.MoveRequest, error) {
	cell, err := strconv.Atoi(r.PostForm.Get("move"))
	if err != nil {
		return usecase.MoveRequest{}, errors.Join(apperror.ErrInvalidInput, err)
	}

	return usecase.MoveRequest{
		Board:         r.PostForm.Get("board"),
		CurrentPlayer: formValue(r, "current_player", string(entity.PlayerX)),
		Opponent:      formValue(r, "opponent_type", string(entity.OpponentHuman)),
		Difficulty:    formValue(r, "difficulty", string(entity.DifficultyAmateur)),
		GameOver:      r.PostForm.Get("game_over") == "true",
		Cell:          cell,
	}, nil
}
