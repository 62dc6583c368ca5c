package words

// Dictionary is the set of words accepted as guesses.
type Dictionary struct {
	set map[string]struct{}
}

// NewDictionary builds a dictionary from one or more word lists.
// Words are normalized; entries that are not letters-only are dropped.
func NewDictionary(lists ...[]string) *Dictionary {
	d := &Dictionary{set: make(map[string]struct{})}
	for _, list := range lists {
		for _, raw := range list {
			if w := Normalize(raw); IsLetters(w) {
				d.set[w] = struct{}{}
			}
		}
	}
	return d
}

// Contains reports whether w (in any case, with or without accents) is accepted.
func (d *Dictionary) Contains(w string) bool {
	_, ok := d.set[Normalize(w)]
	return ok
}

// Len returns the number of accepted words.
func (d *Dictionary) Len() int { return len(d.set) }
