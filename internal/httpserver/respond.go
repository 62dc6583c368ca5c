package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/santiago-ondris/wheels-house-sub002/internal/auth"
	"github.com/santiago-ondris/wheels-house-sub002/internal/daily"
	"github.com/santiago-ondris/wheels-house-sub002/internal/game"
	"github.com/santiago-ondris/wheels-house-sub002/internal/store"
	"github.com/santiago-ondris/wheels-house-sub002/internal/wheelword"
)

const maxBodyBytes = 64 << 10

var (
	errBadRequest   = errors.New("bad request")
	errUnauthorized = errors.New("unauthorized")
)

// errorBody is the shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeError maps err onto a status and stable error code.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		msg = "internal error"
	case http.StatusServiceUnavailable:
		msg = "today's game is unavailable"
	}
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrInvalidGuessLength):
		return http.StatusBadRequest, "invalid_guess_length"
	case errors.Is(err, game.ErrWordNotInDictionary):
		return http.StatusBadRequest, "word_not_in_dictionary"
	case errors.Is(err, game.ErrDuplicateGuess):
		return http.StatusConflict, "duplicate_guess"
	case errors.Is(err, game.ErrGameAlreadyFinished):
		return http.StatusConflict, "game_already_finished"
	case errors.Is(err, daily.ErrConfiguration):
		return http.StatusServiceUnavailable, "configuration_error"
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict, "concurrent_update"
	case errors.Is(err, store.ErrUsernameTaken):
		return http.StatusConflict, "username_taken"
	case errors.Is(err, errBadRequest),
		errors.Is(err, wheelword.ErrInvalidSession),
		errors.Is(err, wheelword.ErrInvalidShare),
		errors.Is(err, auth.ErrInvalidSignup):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, errUnauthorized),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, "unauthorized"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// decode reads a JSON body into dst and runs its validate tags.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: invalid json", errBadRequest)
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: field %s failed %s", errBadRequest, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
