package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/chainreaction-backend/internal/apperror"
	"github.com/rocketscienceinc/chainreaction-backend/internal/entity"
	"github.com/rocketscienceinc/chainreaction-backend/internal/usecase"
)

// UserIDHeader carries the caller identity set by the upstream gateway.
const UserIDHeader = "X-User-ID"

const maxBodyBytes = 1 << 20

var (
	errMissingUserID = errors.New("missing " + UserIDHeader + " header")
	errMissingCoords = errors.New("x and y are required")
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, r *http.Request)

	CreateGame(w http.ResponseWriter, r *http.Request)
	GetGame(w http.ResponseWriter, r *http.Request)
	JoinGame(w http.ResponseWriter, r *http.Request)
	SubmitMove(w http.ResponseWriter, r *http.Request)
	ListMoves(w http.ResponseWriter, r *http.Request)
	PlayerStats(w http.ResponseWriter, r *http.Request)
}

type gameUseCase interface {
	CreateGame(ctx context.Context, req usecase.CreateGameRequest) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID string, player entity.Player) (*entity.Game, error)
	SubmitMove(ctx context.Context, gameID, callerID string, x, y int) (*usecase.MoveResult, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	ListMoves(ctx context.Context, gameID string) ([]entity.MoveRecord, error)
	GetPlayerStats(ctx context.Context, playerID string) (*entity.PlayerStats, error)
}

type handlers struct {
	logger *slog.Logger
	games  gameUseCase
}

func NewHandlers(logger *slog.Logger, games gameUseCase) Handlers {
	return &handlers{
		logger: logger.With("component", "rest"),
		games:  games,
	}
}

type createGameRequest struct {
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	Name       string `json:"name"`
	MaxPlayers int    `json:"maxPlayers"`
	Opponent   string `json:"opponent"`
	Difficulty string `json:"difficulty"`
}

type joinGameRequest struct {
	Name string `json:"name"`
}

type submitMoveRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (that *handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := that.requireUserID(w, r)
	if !ok {
		return
	}

	var req createGameRequest
	if !that.decode(w, r, &req) {
		return
	}

	game, err := that.games.CreateGame(r.Context(), usecase.CreateGameRequest{
		Rows:       req.Rows,
		Cols:       req.Cols,
		Player:     entity.Player{ID: userID, Name: req.Name},
		MaxPlayers: req.MaxPlayers,
		Opponent:   req.Opponent,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		that.writeError(w, "CreateGame", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "GetGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) JoinGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := that.requireUserID(w, r)
	if !ok {
		return
	}

	var req joinGameRequest
	if !that.decode(w, r, &req) {
		return
	}

	game, err := that.games.JoinGame(r.Context(), r.PathValue("id"), entity.Player{ID: userID, Name: req.Name})
	if err != nil {
		that.writeError(w, "JoinGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) SubmitMove(w http.ResponseWriter, r *http.Request) {
	userID, ok := that.requireUserID(w, r)
	if !ok {
		return
	}

	var req submitMoveRequest
	if !that.decode(w, r, &req) {
		return
	}

	if req.X == nil || req.Y == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMissingCoords.Error(), Code: apperror.KindInvalidInput})
		return
	}

	result, err := that.games.SubmitMove(r.Context(), r.PathValue("id"), userID, *req.X, *req.Y)
	if err != nil {
		that.writeError(w, "SubmitMove", err)
		return
	}

	that.writeJSON(w, http.StatusOK, result)
}

func (that *handlers) ListMoves(w http.ResponseWriter, r *http.Request) {
	records, err := that.games.ListMoves(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "ListMoves", err)
		return
	}

	that.writeJSON(w, http.StatusOK, records)
}

func (that *handlers) PlayerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := that.games.GetPlayerStats(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "PlayerStats", err)
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *handlers) requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get(UserIDHeader)
	if userID == "" {
		that.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errMissingUserID.Error(), Code: apperror.KindUnauthorized})
		return "", false
	}

	return userID, true
}

// decode reads an optional JSON body into dst. An empty body leaves dst as is.
func (that *handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error(), Code: apperror.KindInvalidInput})

	return false
}

func (that *handlers) writeError(w http.ResponseWriter, method string, err error) {
	kind := apperror.Kind(err)
	status := statusOf(err)

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeJSON(w, status, errorResponse{Error: "internal server error", Code: kind})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error(), Code: kind})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func statusOf(err error) int {
	if apperror.IsMoveRejection(err) {
		return http.StatusUnprocessableEntity
	}

	switch apperror.Kind(err) {
	case apperror.KindAlreadyJoined:
		return http.StatusUnprocessableEntity
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindNotFound, apperror.KindNotActive:
		return http.StatusNotFound
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
