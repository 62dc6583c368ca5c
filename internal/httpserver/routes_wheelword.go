// internal/httpserver/routes_wheelword.go
//
// HTTP routes for the Wheelword daily game, mounted under /wheelword:
//   - GET  /today       → {gameNumber, wordLength, gameDate}
//   - POST /guess       → score a guess (guests send their sessionAttempts)
//   - GET  /state       → signed-in user's game for today, or null
//   - GET  /stats       → signed-in user's stats (auth required)
//   - POST /share       → emoji share text for a finished game
//   - GET  /leaderboard → winners of a game (?gameNumber=N&limit=M)

package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/santiago-ondris/wheels-house-sub002/internal/store"
	"github.com/santiago-ondris/wheels-house-sub002/internal/wheelword"
)

// mountWheelword registers all /wheelword routes.
func (s *Server) mountWheelword() {
	s.r.Route("/wheelword", func(r chi.Router) {
		r.Use(s.withOptionalAuth)
		r.Get("/today", s.handleToday)
		r.Post("/guess", s.handleGuess)
		r.Get("/state", s.handleState)
		r.Post("/share", s.handleShare)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.With(s.requireAuth).Get("/stats", s.handleStats)
	})
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	g, err := s.game.Today(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var in wheelword.GuessInput
	if err := s.decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := s.game.SubmitGuess(r.Context(), currentUserID(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.game.State(r.Context(), currentUserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.game.Stats(r.Context(), currentUserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var in wheelword.ShareInput
	if err := s.decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	text, err := s.game.Share(in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

type leaderboardRes struct {
	GameNumber int                    `json:"gameNumber"`
	Rows       []store.LeaderboardRow `json:"rows"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	gameNumber, err := queryInt(r, "gameNumber")
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	n, rows, err := s.game.Leaderboard(r.Context(), gameNumber, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rows == nil {
		rows = []store.LeaderboardRow{}
	}
	writeJSON(w, http.StatusOK, leaderboardRes{GameNumber: n, Rows: rows})
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errBadRequest, name)
	}
	return n, nil
}
