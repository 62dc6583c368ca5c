// internal/game/types.go
//
// Core type definitions for the Wheelword game engine.
// Defines:
//   - Feedback: per-letter result of a guess (CORRECT/PRESENT/ABSENT).
//   - Status:   coarse session state.
//   - Session:  one user's game for one day.
//   - Result:   outcome of a single accepted guess.
//   - Error taxonomy for rejected guesses.

package game

import "errors"

// MaxAttempts is the number of guesses allowed per game.
const MaxAttempts = 6

// Feedback represents the evaluation result for a single letter in a guess.
//   - CORRECT: letter is in the target at this position.
//   - PRESENT: letter is in the target at another, not yet matched, position.
//   - ABSENT:  letter has no unmatched occurrence left in the target.
type Feedback string

const (
	FeedbackCorrect Feedback = "CORRECT"
	FeedbackPresent Feedback = "PRESENT"
	FeedbackAbsent  Feedback = "ABSENT"
)

// Status is the state machine position of a Session.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusWon        Status = "WON"
	StatusLost       Status = "LOST"
)

// Rejections. None of them consume an attempt.
var (
	ErrInvalidGuessLength  = errors.New("guess length does not match the word length")
	ErrWordNotInDictionary = errors.New("word not in dictionary")
	ErrDuplicateGuess      = errors.New("word already guessed")
	ErrGameAlreadyFinished = errors.New("game already finished")
)

// Session holds the state of one user's game for one day.
// CorrectWord is only populated once GameOver is true.
type Session struct {
	GameNumber  int          `json:"gameNumber"`
	WordLength  int          `json:"wordLength"`
	GameDate    string       `json:"gameDate"`
	Attempts    []string     `json:"attempts"`
	Feedbacks   [][]Feedback `json:"feedbacks"`
	GameOver    bool         `json:"gameOver"`
	Won         bool         `json:"won"`
	CorrectWord string       `json:"correctWord,omitempty"`
}

// Result describes one accepted guess.
type Result struct {
	Guess        string     `json:"guess"`
	Feedback     []Feedback `json:"feedback"`
	IsCorrect    bool       `json:"isCorrect"`
	AttemptsUsed int        `json:"attemptsUsed"`
	GameOver     bool       `json:"gameOver"`
	Won          bool       `json:"won"`
	CorrectWord  string     `json:"correctWord,omitempty"`
}

// Dictionary reports whether a guess is an acceptable word.
type Dictionary interface {
	Contains(word string) bool
}
