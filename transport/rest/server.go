package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	srv *http.Server
}

func NewServer(port string, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}
}

// Start serves until Shutdown is called.
func (that *Server) Start() error {
	if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := that.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

// NewRouter maps every route onto h.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", h.PingHandler)

	mux.HandleFunc("POST /games", h.CreateGame)
	mux.HandleFunc("GET /games/{id}", h.GetGame)
	mux.HandleFunc("POST /games/{id}/join", h.JoinGame)
	mux.HandleFunc("POST /games/{id}/moves", h.SubmitMove)
	mux.HandleFunc("GET /games/{id}/moves", h.ListMoves)

	mux.HandleFunc("GET /players/{id}/stats", h.PlayerStats)

	return mux
}
