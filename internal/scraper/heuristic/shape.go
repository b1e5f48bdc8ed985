package heuristic

import (
	"strings"
	"unicode"
)

const (
	maxLineLength = 64
	minLineWords  = 2
	maxLineWords  = 7
	//all-caps lines this short are section headers ("OPEN POSITIONS")
	maxCapsHeaderWords = 3
)

var ctaVerbs = map[string]bool{
	"apply": true, "click": true, "join": true, "subscribe": true, "learn": true,
	"view": true, "read": true, "contact": true, "call": true, "sign": true,
	"submit": true, "download": true, "see": true, "explore": true, "shop": true,
	"follow": true, "visit": true, "get": true, "request": true, "browse": true,
}

// LooksLikeTitle is the cheap shape test applied before a line becomes a candidate
func LooksLikeTitle(line string) bool {
	if len([]rune(line)) > maxLineLength {
		return false
	}
	words := strings.Fields(line)
	if len(words) < minLineWords || len(words) > maxLineWords {
		return false
	}
	if len(words) <= maxCapsHeaderWords && !hasLower(line) {
		return false
	}
	first := strings.ToLower(strings.TrimFunc(words[0], func(r rune) bool {
		return !unicode.IsLetter(r)
	}))
	return !ctaVerbs[first]
}

func hasLower(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}
