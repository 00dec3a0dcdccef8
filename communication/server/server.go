package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"tictactoe/communication"
	"tictactoe/game"
	"tictactoe/searcher"
	"tictactoe/zobrist"
)

const (
	shutdownTimeout = 5 * time.Second
	maxRequestBytes = 1 << 12
)

// Server answers move requests with a fresh search per request. Every search
// shares one transposition cache.
type Server struct {
	cache   *zobrist.Cache
	options []searcher.Option
	mux     *http.ServeMux
}

func New(cache *zobrist.Cache, options ...searcher.Option) *Server {
	s := &Server{
		cache:   cache,
		options: options,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /move", s.handleMove)
	s.mux.HandleFunc("POST /clear", s.handleClear)
	s.mux.HandleFunc("GET /stats", s.handleStats)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}
	errs := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("move server listening")
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req communication.MoveRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "bad request: "+err.Error())
		return
	}
	board, err := game.ParseBoard(req.Board)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	player := board.ToMove()
	if req.Player != "" {
		if player, err = communication.ParsePlayer(req.Player); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Iterations < 0 || req.Iterations > searcher.MaxIterations {
		writeError(w, http.StatusBadRequest, "iterations out of range")
		return
	}

	options := append([]searcher.Option{searcher.WithCache(s.cache)}, s.options...)
	if req.Iterations > 0 {
		options = append(options, searcher.WithIterations(req.Iterations))
	}
	d, err := searcher.NewMCTS(options...).DecideMove(r.Context(), board, player)
	if err != nil {
		log.Error().Err(err).Str("board", req.Board).Msg("search failed")
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err.Error())
		return
	}

	log.Info().Str("board", req.Board).
		Str("player", player.String()).
		Int("move", int(d.Move)).
		Bool("found", d.Found).
		Bool("cached", d.Cached).
		Msg("move decided")
	writeJSON(w, http.StatusOK, communication.MoveResponse{
		Move:   int(d.Move),
		Found:  d.Found,
		Score:  int32(d.Score),
		Win:    d.Score.Float(),
		Visits: d.Visits,
		Cached: d.Cached,
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.cache.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, communication.NewStatsResponse(s.cache.Stats()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, communication.ErrorResponse{Error: msg})
}
