// assets/embed.go
//
// Embedded word lists for the Wheelword game.
//   - wheelword_bank.txt: ordered answer bank (indexed by the daily selector).
//   - dictionary.txt:     extra words accepted as guesses.
//
// Lines are trimmed; blank lines and `#` comments are skipped. Normalization
// (case, accents) is left to the words package.
package assets

import (
	"bufio"
	"embed"
	"io"
	"strings"
)

//go:embed wheelword_bank.txt dictionary.txt
var FS embed.FS

// ReadLines returns the non-empty, non-comment lines of r.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

func readEmbedded(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLines(f)
}

// BankList returns the embedded answer bank in file order.
func BankList() ([]string, error) {
	return readEmbedded("wheelword_bank.txt")
}

// DictionaryList returns the embedded guess dictionary.
func DictionaryList() ([]string, error) {
	return readEmbedded("dictionary.txt")
}
