// internal/wheelword/service.go
//
// Wheelword game service.
//   - Today: the day's game metadata, audited against the persisted word the
//     first time each day is served, then cached.
//   - SubmitGuess: guests replay their client-held attempts; signed-in users
//     are serialized per (user, game) and persisted with an attempt-count check.
//   - Completion: the stats update is written in the same store call as the
//     final attempt, so it happens exactly once.
//   - State, Stats, Share, Leaderboard: read-side helpers for the HTTP layer.

package wheelword

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/santiago-ondris/wheels-house-sub002/internal/cache"
	"github.com/santiago-ondris/wheels-house-sub002/internal/daily"
	"github.com/santiago-ondris/wheels-house-sub002/internal/game"
	"github.com/santiago-ondris/wheels-house-sub002/internal/metrics"
	"github.com/santiago-ondris/wheels-house-sub002/internal/stats"
	"github.com/santiago-ondris/wheels-house-sub002/internal/store"
)

const (
	cacheKeyPrefix    = "wheelword:today:"
	maxSaveRetries    = 3
	defaultBoardLimit = 20
	maxBoardLimit     = 100
)

var ErrInvalidSession = errors.New("invalid session attempts")

// GuessInput is one guess submission. SessionAttempts is only read for
// guests, whose game lives on the client.
type GuessInput struct {
	Guess           string   `json:"guess" validate:"required,max=32"`
	SessionAttempts []string `json:"sessionAttempts" validate:"max=6,dive,max=32"`
}

// GuessOutcome is an accepted guess plus, when it ended a signed-in user's
// game, their updated stats.
type GuessOutcome struct {
	game.Result
	Stats *stats.Stats `json:"stats,omitempty"`
}

// Options configures a Service.
type Options struct {
	ShareURL string
}

// Service wires the selector, dictionary and store together.
type Service struct {
	selector *daily.Selector
	dict     game.Dictionary
	store    store.Store
	cache    cache.Cache
	metrics  metrics.Recorder
	shareURL string

	locks  *keyedMutex
	flight singleflight.Group
}

func NewService(sel *daily.Selector, dict game.Dictionary, st store.Store, c cache.Cache, m metrics.Recorder, opts Options) *Service {
	return &Service{
		selector: sel,
		dict:     dict,
		store:    st,
		cache:    c,
		metrics:  m,
		shareURL: opts.ShareURL,
		locks:    newKeyedMutex(),
	}
}

// Today returns the current game without its word.
func (s *Service) Today(ctx context.Context) (daily.Game, error) {
	now := s.selector.Now()
	key := cacheKeyPrefix + daily.DateKey(now)
	if b, ok := s.cache.Get(key); ok {
		var g daily.Game
		if err := json.Unmarshal(b, &g); err == nil {
			s.metrics.IncCacheHits()
			return g, nil
		}
	}
	s.metrics.IncCacheMisses()

	v, err, _ := s.flight.Do(key, func() (any, error) {
		g, err := s.selector.GameFor(now)
		if err != nil {
			return nil, err
		}
		e, err := s.selector.Word(g.Number)
		if err != nil {
			return nil, err
		}
		stored, err := s.store.RecordDailyWord(ctx, g.Number, g.Date, e.Word)
		if err != nil {
			return nil, fmt.Errorf("record daily word: %w", err)
		}
		if stored != e.Word {
			return nil, &daily.ConfigurationError{
				Reason: fmt.Sprintf("game %d was played with a different word; the word bank changed", g.Number),
			}
		}
		if b, err := json.Marshal(g); err == nil {
			s.cache.Set(key, b)
		}
		return g, nil
	})
	if err != nil {
		if errors.Is(err, daily.ErrConfiguration) {
			log.Error().Err(err).Msg("wheelword unavailable")
		}
		return daily.Game{}, err
	}
	return v.(daily.Game), nil
}

// current returns today's game and its target word.
func (s *Service) current(ctx context.Context) (daily.Game, string, error) {
	g, err := s.Today(ctx)
	if err != nil {
		return daily.Game{}, "", err
	}
	e, err := s.selector.Word(g.Number)
	if err != nil {
		return daily.Game{}, "", err
	}
	return g, e.Word, nil
}

// SubmitGuess applies one guess to today's game. userID is empty for guests.
func (s *Service) SubmitGuess(ctx context.Context, userID string, in GuessInput) (*GuessOutcome, error) {
	g, target, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	var out *GuessOutcome
	if userID == "" {
		out, err = s.guestGuess(g, target, in)
	} else {
		out, err = s.userGuess(ctx, userID, g, target, in.Guess)
	}
	s.metrics.IncGuesses(outcomeLabel(err))
	if err != nil {
		return nil, err
	}
	if out.GameOver {
		s.metrics.IncGamesCompleted(out.Won, out.AttemptsUsed)
		log.Info().
			Str("user", userID).
			Int("gameNumber", g.Number).
			Bool("won", out.Won).
			Int("attempts", out.AttemptsUsed).
			Msg("wheelword game completed")
	}
	return out, nil
}

// guestGuess replays the client's attempts through the same rules before
// applying the new guess. A replay that the rules reject is ErrInvalidSession.
func (s *Service) guestGuess(g daily.Game, target string, in GuessInput) (*GuessOutcome, error) {
	sess := game.NewSession(g.Number, g.WordLength, g.Date)
	for i, a := range in.SessionAttempts {
		if _, err := sess.Apply(target, a, s.dict); err != nil {
			return nil, fmt.Errorf("%w: attempt %d: %v", ErrInvalidSession, i+1, err)
		}
	}
	res, err := sess.Apply(target, in.Guess, s.dict)
	if err != nil {
		return nil, err
	}
	return &GuessOutcome{Result: *res}, nil
}

func (s *Service) userGuess(ctx context.Context, userID string, g daily.Game, target, guess string) (*GuessOutcome, error) {
	unlock := s.locks.Lock(userID + "|" + strconv.Itoa(g.Number))
	defer unlock()

	for try := 1; try <= maxSaveRetries; try++ {
		sess, err := s.store.GetSession(ctx, userID, g.Number)
		switch {
		case errors.Is(err, store.ErrNotFound):
			sess = game.NewSession(g.Number, g.WordLength, g.Date)
		case err != nil:
			return nil, err
		}

		res, err := sess.Apply(target, guess, s.dict)
		if err != nil {
			return nil, err
		}

		var st *stats.Stats
		if sess.GameOver {
			if st, err = s.store.GetStats(ctx, userID); err != nil {
				return nil, err
			}
			st.BreakStreakOnGap(g.Number)
			if _, err := st.RecordResult(sess.Won, len(sess.Attempts)); err != nil {
				return nil, err
			}
		}

		err = s.store.SaveAttempt(ctx, userID, sess, st)
		if err == nil {
			return &GuessOutcome{Result: *res, Stats: st}, nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return nil, err
		}
		log.Warn().Str("user", userID).Int("gameNumber", g.Number).Int("try", try).Msg("attempt write lost a race, reloading")
	}
	return nil, fmt.Errorf("save attempt: %w", store.ErrConflict)
}

// State returns the signed-in user's game for today, or nil when there is
// none yet or the caller is a guest.
func (s *Service) State(ctx context.Context, userID string) (*game.Session, error) {
	if userID == "" {
		return nil, nil
	}
	g, err := s.Today(ctx)
	if err != nil {
		return nil, err
	}
	sess, err := s.store.GetSession(ctx, userID, g.Number)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Stats returns the user's stats as of today. A streak whose last game is
// older than yesterday reads as broken even before the next result resets it.
func (s *Service) Stats(ctx context.Context, userID string) (*stats.Stats, error) {
	st, err := s.store.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if n, err := s.selector.GameNumber(s.selector.Now()); err == nil &&
		st.LastGameNumber != 0 && st.LastGameNumber < n-1 {
		st.CurrentStreak = 0
	}
	return st, nil
}

// Share renders the share text for a finished game.
func (s *Service) Share(in ShareInput) (string, error) {
	return ShareText(in, s.shareURL)
}

// Leaderboard lists winners of gameNumber, or of today's game when it is 0.
func (s *Service) Leaderboard(ctx context.Context, gameNumber, limit int) (int, []store.LeaderboardRow, error) {
	if gameNumber <= 0 {
		g, err := s.Today(ctx)
		if err != nil {
			return 0, nil, err
		}
		gameNumber = g.Number
	}
	if limit <= 0 {
		limit = defaultBoardLimit
	}
	limit = min(limit, maxBoardLimit)
	rows, err := s.store.Leaderboard(ctx, gameNumber, limit)
	if err != nil {
		return 0, nil, err
	}
	return gameNumber, rows, nil
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, game.ErrInvalidGuessLength):
		return "invalid_length"
	case errors.Is(err, game.ErrWordNotInDictionary):
		return "not_in_dictionary"
	case errors.Is(err, game.ErrDuplicateGuess):
		return "duplicate"
	case errors.Is(err, game.ErrGameAlreadyFinished):
		return "finished"
	case errors.Is(err, ErrInvalidSession):
		return "invalid_session"
	case errors.Is(err, store.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
