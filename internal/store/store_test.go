package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santiago-ondris/wheels-house-sub002/internal/game"
	"github.com/santiago-ondris/wheels-house-sub002/internal/stats"
)

// Both implementations must satisfy the same contract.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	sqlStore, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "data", "wheelword.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlStore.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlStore,
	}
}

func seedUser(t *testing.T, st Store, id, name string) {
	t.Helper()
	require.NoError(t, st.CreateUser(context.Background(), &User{
		ID: id, Username: name, PasswordHash: "hash", CreatedAt: time.Now().UTC(),
	}))
}

func sessionWith(attempts ...string) *game.Session {
	s := game.NewSession(7, 5, "2025-01-07")
	for _, a := range attempts {
		s.Attempts = append(s.Attempts, a)
		s.Feedbacks = append(s.Feedbacks, []game.Feedback{
			game.FeedbackAbsent, game.FeedbackAbsent, game.FeedbackAbsent, game.FeedbackAbsent, game.FeedbackAbsent,
		})
	}
	return s
}

func TestUsers(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedUser(t, st, "u1", "Collector")

			err := st.CreateUser(ctx, &User{ID: "u2", Username: "collector", PasswordHash: "x", CreatedAt: time.Now()})
			assert.ErrorIs(t, err, ErrUsernameTaken)

			u, err := st.FindUserByUsername(ctx, "COLLECTOR")
			require.NoError(t, err)
			assert.Equal(t, "u1", u.ID)
			assert.Equal(t, "hash", u.PasswordHash)

			u, err = st.FindUserByID(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, "Collector", u.Username)

			_, err = st.FindUserByID(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedUser(t, st, "u1", "alice")

			_, err := st.GetSession(ctx, "u1", 7)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, st.SaveAttempt(ctx, "u1", sessionWith("ROTOM"), nil))
			got, err := st.GetSession(ctx, "u1", 7)
			require.NoError(t, err)
			assert.Equal(t, []string{"ROTOM"}, got.Attempts)
			assert.Equal(t, 5, got.WordLength)
			assert.Equal(t, "2025-01-07", got.GameDate)
			assert.False(t, got.GameOver)

			final := sessionWith("ROTOM", "MOTOR")
			final.GameOver, final.Won, final.CorrectWord = true, true, "MOTOR"
			var sts stats.Stats
			_, err = sts.RecordResult(true, 2)
			require.NoError(t, err)
			require.NoError(t, st.SaveAttempt(ctx, "u1", final, &sts))

			got, err = st.GetSession(ctx, "u1", 7)
			require.NoError(t, err)
			assert.Equal(t, final, got)

			gotStats, err := st.GetStats(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, sts, *gotStats)
		})
	}
}

func TestSaveAttempt_RejectsStaleWrites(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedUser(t, st, "u1", "alice")

			require.NoError(t, st.SaveAttempt(ctx, "u1", sessionWith("ROTOM"), nil))
			// second "first attempt"
			assert.ErrorIs(t, st.SaveAttempt(ctx, "u1", sessionWith("METRO"), nil), ErrConflict)
			// skipping an attempt
			assert.ErrorIs(t, st.SaveAttempt(ctx, "u1", sessionWith("ROTOM", "METRO", "MONTE"), nil), ErrConflict)

			require.NoError(t, st.SaveAttempt(ctx, "u1", sessionWith("ROTOM", "METRO"), nil))
			// replaying attempt #2
			assert.ErrorIs(t, st.SaveAttempt(ctx, "u1", sessionWith("ROTOM", "MONTE"), nil), ErrConflict)

			got, err := st.GetSession(ctx, "u1", 7)
			require.NoError(t, err)
			assert.Equal(t, []string{"ROTOM", "METRO"}, got.Attempts)
		})
	}
}

func TestSaveAttempt_ConcurrentSameAttemptNumber(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedUser(t, st, "u1", "alice")
			require.NoError(t, st.SaveAttempt(ctx, "u1", sessionWith("ROTOM"), nil))

			var wg sync.WaitGroup
			errs := make([]error, 2)
			for i, w := range []string{"METRO", "MONTE"} {
				wg.Add(1)
				go func(i int, w string) {
					defer wg.Done()
					errs[i] = st.SaveAttempt(ctx, "u1", sessionWith("ROTOM", w), nil)
				}(i, w)
			}
			wg.Wait()

			accepted := 0
			for _, err := range errs {
				if err == nil {
					accepted++
				} else {
					assert.ErrorIs(t, err, ErrConflict)
				}
			}
			assert.Equal(t, 1, accepted)

			got, err := st.GetSession(ctx, "u1", 7)
			require.NoError(t, err)
			assert.Len(t, got.Attempts, 2)
		})
	}
}

func TestGetStats_DefaultsToZero(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := st.GetStats(context.Background(), "nobody")
			require.NoError(t, err)
			assert.Equal(t, stats.Stats{}, *got)
		})
	}
}

func TestRecordDailyWord_FirstWriteWins(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			w, err := st.RecordDailyWord(ctx, 3, "2025-01-03", "MOTOR")
			require.NoError(t, err)
			assert.Equal(t, "MOTOR", w)

			w, err = st.RecordDailyWord(ctx, 3, "2025-01-03", "TURBO")
			require.NoError(t, err)
			assert.Equal(t, "MOTOR", w)
		})
	}
}

func TestLeaderboard(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedUser(t, st, "u1", "alice")
			seedUser(t, st, "u2", "bob")
			seedUser(t, st, "u3", "carol")

			win := func(userID string, attempts ...string) {
				for i := 1; i <= len(attempts); i++ {
					s := sessionWith(attempts[:i]...)
					if i == len(attempts) {
						s.GameOver, s.Won, s.CorrectWord = true, true, "MOTOR"
					}
					require.NoError(t, st.SaveAttempt(ctx, userID, s, nil))
				}
			}
			win("u1", "ROTOM", "METRO", "MOTOR")
			win("u2", "MOTOR")

			lost := sessionWith("ROTOM")
			require.NoError(t, st.SaveAttempt(ctx, "u3", lost, nil))

			rows, err := st.Leaderboard(ctx, 7, 10)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, "bob", rows[0].Username)
			assert.Equal(t, 1, rows[0].AttemptsUsed)
			assert.Equal(t, "alice", rows[1].Username)
			assert.Equal(t, 3, rows[1].AttemptsUsed)

			rows, err = st.Leaderboard(ctx, 8, 10)
			require.NoError(t, err)
			assert.Empty(t, rows)
		})
	}
}
