// internal/game/engine.go
//
// Core game engine for a single Wheelword session.
// Responsibilities:
//   - Create sessions sized to the day's word.
//   - Validate guesses (finished, length, duplicate, dictionary) before any mutation.
//   - Score guesses using the two-pass algorithm.
//   - Track state transitions: NOT_STARTED → IN_PROGRESS → WON | LOST.
//
// Guesses are normalized with words.Normalize, so "Cigüeñal" and "CIGUENAL"
// are the same guess. Targets must already be normalized.
package game

import (
	"slices"

	"github.com/santiago-ondris/wheels-house-sub002/internal/words"
)

// NewSession constructs an empty session for the given day.
func NewSession(gameNumber, wordLength int, gameDate string) *Session {
	return &Session{
		GameNumber: gameNumber,
		WordLength: wordLength,
		GameDate:   gameDate,
		Attempts:   []string{},
		Feedbacks:  [][]Feedback{},
	}
}

// Status reports the state machine position.
func (s *Session) Status() Status {
	switch {
	case s.GameOver && s.Won:
		return StatusWon
	case s.GameOver:
		return StatusLost
	case len(s.Attempts) == 0:
		return StatusNotStarted
	default:
		return StatusInProgress
	}
}

// Apply validates and scores guess against target, mutating the session only
// when the guess is accepted.
//
// Validation order:
//   - Session must not be finished (ErrGameAlreadyFinished).
//   - Guess must have the target's length (ErrInvalidGuessLength).
//   - Guess must not repeat an earlier attempt (ErrDuplicateGuess).
//   - Guess must be in dict (ErrWordNotInDictionary).
//
// The caller learns from Result.GameOver whether this guess ended the game.
func (s *Session) Apply(target, guess string, dict Dictionary) (*Result, error) {
	if s.GameOver {
		return nil, ErrGameAlreadyFinished
	}
	guess = words.Normalize(guess)
	if len(guess) != len(target) {
		return nil, ErrInvalidGuessLength
	}
	if slices.Contains(s.Attempts, guess) {
		return nil, ErrDuplicateGuess
	}
	if !words.IsLetters(guess) || !dict.Contains(guess) {
		return nil, ErrWordNotInDictionary
	}

	fb, err := ScoreGuess(target, guess)
	if err != nil {
		return nil, err
	}
	s.Attempts = append(s.Attempts, guess)
	s.Feedbacks = append(s.Feedbacks, fb)

	correct := allCorrect(fb)
	switch {
	case correct:
		s.GameOver, s.Won = true, true
	case len(s.Attempts) >= MaxAttempts:
		s.GameOver = true
	}
	if s.GameOver {
		s.CorrectWord = target
	}

	return &Result{
		Guess:        guess,
		Feedback:     fb,
		IsCorrect:    correct,
		AttemptsUsed: len(s.Attempts),
		GameOver:     s.GameOver,
		Won:          s.Won,
		CorrectWord:  s.CorrectWord,
	}, nil
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.Attempts = slices.Clone(s.Attempts)
	c.Feedbacks = make([][]Feedback, len(s.Feedbacks))
	for i, fb := range s.Feedbacks {
		c.Feedbacks[i] = slices.Clone(fb)
	}
	return &c
}

// ScoreGuess implements the two-pass scoring algorithm.
//
// Pass 1:
//   - Mark exact matches CORRECT.
//   - Count the remaining (unmatched) target letters.
//
// Pass 2:
//   - For each non-CORRECT guess letter: if the remaining count for that letter
//     is positive, mark PRESENT and decrement; otherwise mark ABSENT.
//
// A letter is therefore never reported more often than it occurs in the target.
func ScoreGuess(target, guess string) ([]Feedback, error) {
	t, g := []rune(target), []rune(guess)
	if len(t) != len(g) {
		return nil, ErrInvalidGuessLength
	}
	res := make([]Feedback, len(g))
	remaining := make(map[rune]int, len(t))

	for i := range g {
		if g[i] == t[i] {
			res[i] = FeedbackCorrect
		} else {
			remaining[t[i]]++
		}
	}

	for i := range g {
		if res[i] == FeedbackCorrect {
			continue
		}
		if remaining[g[i]] > 0 {
			res[i] = FeedbackPresent
			remaining[g[i]]--
		} else {
			res[i] = FeedbackAbsent
		}
	}
	return res, nil
}

// allCorrect returns true if every letter is CORRECT.
func allCorrect(fb []Feedback) bool {
	for _, f := range fb {
		if f != FeedbackCorrect {
			return false
		}
	}
	return true
}
