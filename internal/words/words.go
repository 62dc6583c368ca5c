// internal/words/words.go
//
// Word bank and dictionary management for Wheelword.
//
// Responsibilities:
//   - Normalize words: trim, strip diacritics (Ñ → N, Á → A, Ü → U), uppercase.
//   - Build the answer Bank (ordered, letters only, any length).
//   - Build the guess Dictionary (bank words are always included).
//   - Load both from configured files or fall back to the embedded lists.
//
// Bank and Dictionary are immutable after construction and safe to share
// across goroutines without locking.
package words

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/santiago-ondris/wheels-house-sub002/assets"
)

// ErrEmptyBank is returned when a bank ends up with no usable words.
var ErrEmptyBank = errors.New("words: answer bank is empty")

// Entry is a single answer in the bank.
type Entry struct {
	Word   string `json:"word"`
	Length int    `json:"length"`
}

// Bank is the ordered list of answers the daily selector picks from.
type Bank struct {
	entries []Entry
}

// Normalize trims s, removes combining marks and uppercases the result.
// "cigüeñal" becomes "CIGUENAL".
func Normalize(s string) string {
	// transformers keep internal state, so build one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	return strings.ToUpper(out)
}

// IsLetters reports whether s is non-empty and made only of A–Z.
func IsLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// NewBank normalizes list into a Bank, keeping file order.
// Any entry that is not letters-only after normalization is rejected, since
// a silently skipped line would shift every later game's word.
func NewBank(list []string) (*Bank, error) {
	entries := make([]Entry, 0, len(list))
	for i, raw := range list {
		w := Normalize(raw)
		if !IsLetters(w) {
			return nil, fmt.Errorf("words: bank entry %d (%q) is not a letters-only word", i+1, raw)
		}
		entries = append(entries, Entry{Word: w, Length: len(w)})
	}
	if len(entries) == 0 {
		return nil, ErrEmptyBank
	}
	return &Bank{entries: entries}, nil
}

// Len returns the number of answers.
func (b *Bank) Len() int { return len(b.entries) }

// At returns the entry at index i.
func (b *Bank) At(i int) (Entry, bool) {
	if i < 0 || i >= len(b.entries) {
		return Entry{}, false
	}
	return b.entries[i], true
}

// Words returns a copy of the normalized answers.
func (b *Bank) Words() []string {
	out := make([]string, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Word
	}
	return out
}

// Load builds the bank and dictionary.
//
//  1. bankPath set → answers come from that file, otherwise the embedded bank.
//  2. dictPath set → extra guesses come from that file, otherwise the embedded dictionary.
//
// Bank words are always accepted as guesses.
func Load(bankPath, dictPath string) (*Bank, *Dictionary, error) {
	bankList, err := readList(bankPath, assets.BankList)
	if err != nil {
		return nil, nil, fmt.Errorf("load bank: %w", err)
	}
	bank, err := NewBank(bankList)
	if err != nil {
		return nil, nil, err
	}
	dictList, err := readList(dictPath, assets.DictionaryList)
	if err != nil {
		return nil, nil, fmt.Errorf("load dictionary: %w", err)
	}
	return bank, NewDictionary(bank.Words(), dictList), nil
}

// readList reads one word per line from path, or calls fallback when path is empty.
func readList(path string, fallback func() ([]string, error)) ([]string, error) {
	if path == "" {
		return fallback()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return assets.ReadLines(f)
}
