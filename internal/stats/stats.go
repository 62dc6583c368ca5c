// Package stats accumulates completed Wheelword games into per-user statistics.
//
// RecordResult is not idempotent: callers must invoke it at most once per
// completed game. The wheelword service guarantees this by recording the
// result in the same transaction that marks the session over.
package stats

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"

	"github.com/santiago-ondris/wheels-house-sub002/internal/game"
)

// Stats is one user's Wheelword record.
type Stats struct {
	GamesPlayed     int                   `json:"gamesPlayed"`
	GamesWon        int                   `json:"gamesWon"`
	CurrentStreak   int                   `json:"currentStreak"`
	MaxStreak       int                   `json:"maxStreak"`
	WinDistribution [game.MaxAttempts]int `json:"winDistribution"`
	LastGameNumber  int                   `json:"lastGameNumber"`
}

// WinPercentage is gamesWon/gamesPlayed*100, rounded. Zero when nothing was played.
func (s Stats) WinPercentage() int {
	if s.GamesPlayed == 0 {
		return 0
	}
	return int(math.Round(float64(s.GamesWon) / float64(s.GamesPlayed) * 100))
}

// RecordResult folds one completed game into s and returns the updated copy.
// attemptsUsed must be within 1..game.MaxAttempts.
func (s *Stats) RecordResult(won bool, attemptsUsed int) (Stats, error) {
	if attemptsUsed < 1 || attemptsUsed > game.MaxAttempts {
		return *s, fmt.Errorf("stats: attempts used %d out of range 1..%d", attemptsUsed, game.MaxAttempts)
	}
	s.GamesPlayed++
	if won {
		s.GamesWon++
		s.CurrentStreak++
		s.MaxStreak = max(s.MaxStreak, s.CurrentStreak)
		s.WinDistribution[attemptsUsed-1]++
	} else {
		s.CurrentStreak = 0
	}
	return *s, nil
}

// BreakStreakOnGap resets the current streak when the last completed game is
// not the day before gameNumber, then remembers gameNumber as the last one.
func (s *Stats) BreakStreakOnGap(gameNumber int) {
	if s.LastGameNumber != 0 && s.LastGameNumber < gameNumber-1 {
		s.CurrentStreak = 0
	}
	s.LastGameNumber = gameNumber
}

// MarshalJSON adds the derived winPercentage field.
func (s Stats) MarshalJSON() ([]byte, error) {
	type plain Stats
	return json.Marshal(struct {
		plain
		WinPercentage int `json:"winPercentage"`
	}{plain(s), s.WinPercentage()})
}
