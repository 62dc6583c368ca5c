// internal/daily/daily.go
//
// Deterministic daily word selection for Wheelword.
//
// A game number is the count of whole UTC days since the epoch date, plus
// one. The target word is a pure function of (game number, bank, strategy):
//   - sequential: bank[(n-1) mod len(bank)]
//   - hmac:       bank[HMAC-SHA256(salt, YYYY-MM-DD) mod len(bank)]
//
// Nothing here is mutable after construction, so a Selector is shared by
// all requests without locking.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/santiago-ondris/wheels-house-sub002/internal/words"
)

// Strategy names how the word index is derived from a game.
type Strategy string

const (
	StrategySequential Strategy = "sequential"
	StrategyHMAC       Strategy = "hmac"
)

// DefaultEpoch is game #1.
var DefaultEpoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

const dateLayout = "2006-01-02"

// ErrConfiguration matches every ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("wheelword misconfigured")

// ConfigurationError means today's word cannot be resolved safely.
// It is an operational fault, never a user error.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "wheelword configuration: " + e.Reason }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// Game is the public metadata of one day's puzzle. It never carries the word.
type Game struct {
	Number     int    `json:"gameNumber"`
	WordLength int    `json:"wordLength"`
	Date       string `json:"gameDate"`
}

// Options configures a Selector. Zero values fall back to defaults.
type Options struct {
	Epoch    time.Time
	Strategy Strategy
	Salt     string
	Now      func() time.Time
}

// Selector maps dates to games and target words.
type Selector struct {
	bank     *words.Bank
	epoch    time.Time
	strategy Strategy
	salt     string
	now      func() time.Time
}

// NewSelector validates opts and returns a Selector over bank.
func NewSelector(bank *words.Bank, opts Options) (*Selector, error) {
	if bank == nil || bank.Len() == 0 {
		return nil, &ConfigurationError{Reason: "word bank is empty"}
	}
	s := &Selector{
		bank:     bank,
		epoch:    truncateDay(opts.Epoch),
		strategy: opts.Strategy,
		salt:     opts.Salt,
		now:      opts.Now,
	}
	if opts.Epoch.IsZero() {
		s.epoch = DefaultEpoch
	}
	if s.strategy == "" {
		s.strategy = StrategySequential
	}
	if s.now == nil {
		s.now = time.Now
	}
	switch s.strategy {
	case StrategySequential:
	case StrategyHMAC:
		if s.salt == "" {
			return nil, &ConfigurationError{Reason: "hmac strategy requires a salt"}
		}
	default:
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown selection strategy %q", s.strategy)}
	}
	return s, nil
}

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % bankLen.
func WordIndex(date time.Time, salt string, bankLen int) int {
	if bankLen <= 0 {
		return -1
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(bankLen))
}

// Today returns the game for the current UTC day.
func (s *Selector) Today() (Game, error) {
	return s.GameFor(s.now())
}

// Now returns the selector's clock reading.
func (s *Selector) Now() time.Time { return s.now() }

// GameFor returns the game played on t's UTC calendar day.
func (s *Selector) GameFor(t time.Time) (Game, error) {
	n, err := s.GameNumber(t)
	if err != nil {
		return Game{}, err
	}
	e, err := s.Word(n)
	if err != nil {
		return Game{}, err
	}
	return Game{Number: n, WordLength: e.Length, Date: DateKey(s.DateOf(n))}, nil
}

// GameNumber returns the 1-based day offset of t from the epoch.
func (s *Selector) GameNumber(t time.Time) (int, error) {
	day := truncateDay(t)
	if day.Before(s.epoch) {
		return 0, &ConfigurationError{Reason: fmt.Sprintf("date %s is before epoch %s", DateKey(day), DateKey(s.epoch))}
	}
	return int(day.Sub(s.epoch).Hours()/24) + 1, nil
}

// DateOf returns the UTC midnight on which game n is played.
func (s *Selector) DateOf(n int) time.Time {
	return s.epoch.AddDate(0, 0, n-1)
}

// Word returns the target entry for game n.
// Exhaustion reuses the bank cyclically; an index the bank cannot resolve is
// a ConfigurationError rather than a silent fallback to the first word.
func (s *Selector) Word(n int) (words.Entry, error) {
	if n < 1 {
		return words.Entry{}, &ConfigurationError{Reason: fmt.Sprintf("invalid game number %d", n)}
	}
	var idx int
	switch s.strategy {
	case StrategyHMAC:
		idx = WordIndex(s.DateOf(n), s.salt, s.bank.Len())
	default:
		idx = (n - 1) % s.bank.Len()
	}
	e, ok := s.bank.At(idx)
	if !ok {
		return words.Entry{}, &ConfigurationError{Reason: fmt.Sprintf("index %d outside word bank of %d", idx, s.bank.Len())}
	}
	return e, nil
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
