// internal/store/store.go
//
// Persistence interface for Wheelword.
// Implementations:
//   - memory (this package): maps behind a mutex, lost on restart.
//   - SQL (sql.go): SQLite via mattn/go-sqlite3 or PostgreSQL via pgx.
//
// Write contract for SaveAttempt: the session being saved has N attempts and
// the stored row must currently hold N-1 (or not exist when N == 1). Anything
// else is ErrConflict and nothing is written. When stats are passed they are
// written in the same transaction as the session.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/santiago-ondris/wheels-house-sub002/internal/game"
	"github.com/santiago-ondris/wheels-house-sub002/internal/stats"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("concurrent update")
	ErrUsernameTaken = errors.New("username taken")
)

// User is an account that owns sessions and stats.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LeaderboardRow is one winner of a game.
type LeaderboardRow struct {
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	AttemptsUsed int       `json:"attemptsUsed"`
	FinishedAt   time.Time `json:"finishedAt"`
}

// Store defines the persistence operations the service needs.
type Store interface {
	// CreateUser inserts u; ErrUsernameTaken on a case-insensitive clash.
	CreateUser(ctx context.Context, u *User) error
	FindUserByUsername(ctx context.Context, username string) (*User, error)
	FindUserByID(ctx context.Context, id string) (*User, error)

	// GetSession returns ErrNotFound when the user has not played that game.
	GetSession(ctx context.Context, userID string, gameNumber int) (*game.Session, error)
	// GetStats returns zero-valued stats for users without any completed game.
	GetStats(ctx context.Context, userID string) (*stats.Stats, error)
	// SaveAttempt persists s (and st when non-nil) atomically, see file header.
	SaveAttempt(ctx context.Context, userID string, s *game.Session, st *stats.Stats) error

	// RecordDailyWord stores word for gameNumber if absent and returns the
	// word stored for it, which differs from word if the bank changed.
	RecordDailyWord(ctx context.Context, gameNumber int, date, word string) (string, error)

	// Leaderboard lists winners of gameNumber by attempts, then finish time.
	Leaderboard(ctx context.Context, gameNumber, limit int) ([]LeaderboardRow, error)

	Close() error
}
