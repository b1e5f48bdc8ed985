package filter

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// Blocklist is an immutable, ordered, de-duplicated set of lower-cased phrases
type Blocklist struct {
	phrases []string
}

// NewBlocklist merges phrase lists in order; duplicates keep their first position
func NewBlocklist(lists ...[]string) Blocklist {
	seen := make(map[string]bool)
	var phrases []string
	for _, list := range lists {
		for _, p := range list {
			p = strings.ToLower(strings.TrimSpace(p))
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			phrases = append(phrases, p)
		}
	}
	return Blocklist{phrases: phrases}
}

// ParsePhrases reads one phrase per line, ignoring blank lines and # comments
func ParsePhrases(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, strings.ToLower(line))
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read blocklist")
	}
	return out, nil
}

// LoadBlocklist merges the defaults with the user file at path; an empty path means defaults only
func LoadBlocklist(path string) (Blocklist, error) {
	if path == "" {
		return NewBlocklist(DefaultBlocklist), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Blocklist{}, errors.Wrapf(err, "open blocklist %s", path)
	}
	defer f.Close()

	user, err := ParsePhrases(f)
	if err != nil {
		return Blocklist{}, err
	}
	return NewBlocklist(DefaultBlocklist, user), nil
}

// Match returns the first phrase contained in any of the texts
func (b Blocklist) Match(texts ...string) (string, bool) {
	lowered := make([]string, len(texts))
	for i, t := range texts {
		lowered[i] = strings.ToLower(t)
	}
	for _, p := range b.phrases {
		for _, t := range lowered {
			if strings.Contains(t, p) {
				return p, true
			}
		}
	}
	return "", false
}

func (b Blocklist) Len() int {
	return len(b.phrases)
}

// Phrases returns a copy of the merged phrase list
func (b Blocklist) Phrases() []string {
	out := make([]string, len(b.phrases))
	copy(out, b.phrases)
	return out
}
