// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used when DATABASE_DRIVER=memory and in tests.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Sessions and stats are deep-copied in and out so callers never share state.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/santiago-ondris/wheels-house-sub002/internal/game"
	"github.com/santiago-ondris/wheels-house-sub002/internal/stats"
)

type memorySession struct {
	session    *game.Session
	finishedAt time.Time
}

// memory is a map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	users    map[string]*User          // keyed by ID
	sessions map[string]*memorySession // keyed by userID|gameNumber
	stats    map[string]stats.Stats    // keyed by userID
	daily    map[int]string            // gameNumber → word
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{
		users:    make(map[string]*User),
		sessions: make(map[string]*memorySession),
		stats:    make(map[string]stats.Stats),
		daily:    make(map[int]string),
		now:      time.Now,
	}
}

func sessionKey(userID string, gameNumber int) string {
	return userID + "|" + strconv.Itoa(gameNumber)
}

func (m *memory) CreateUser(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return ErrUsernameTaken
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memory) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memory) FindUserByID(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *memory) GetSession(ctx context.Context, userID string, gameNumber int) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[sessionKey(userID, gameNumber)]; ok {
		return s.session.Clone(), nil
	}
	return nil, ErrNotFound
}

func (m *memory) GetStats(ctx context.Context, userID string) (*stats.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := m.stats[userID]
	return &st, nil
}

func (m *memory) SaveAttempt(ctx context.Context, userID string, s *game.Session, st *stats.Stats) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := sessionKey(userID, s.GameNumber)
	prev, exists := m.sessions[key]
	n := len(s.Attempts)
	switch {
	case n == 1 && exists:
		return ErrConflict
	case n > 1 && (!exists || len(prev.session.Attempts) != n-1):
		return ErrConflict
	}

	ms := &memorySession{session: s.Clone()}
	if s.GameOver {
		ms.finishedAt = m.now()
	}
	m.sessions[key] = ms
	if st != nil {
		m.stats[userID] = *st
	}
	return nil
}

func (m *memory) RecordDailyWord(ctx context.Context, gameNumber int, date, word string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stored, ok := m.daily[gameNumber]; ok {
		return stored, nil
	}
	m.daily[gameNumber] = word
	return word, nil
}

func (m *memory) Leaderboard(ctx context.Context, gameNumber, limit int) ([]LeaderboardRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []LeaderboardRow{}
	for key, ms := range m.sessions {
		s := ms.session
		if s.GameNumber != gameNumber || !s.Won {
			continue
		}
		userID := key[:strings.LastIndex(key, "|")]
		row := LeaderboardRow{UserID: userID, AttemptsUsed: len(s.Attempts), FinishedAt: ms.finishedAt}
		if u, ok := m.users[userID]; ok {
			row.Username = u.Username
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AttemptsUsed != out[j].AttemptsUsed {
			return out[i].AttemptsUsed < out[j].AttemptsUsed
		}
		return out[i].FinishedAt.Before(out[j].FinishedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memory) Close() error { return nil }
