// Package filter decides whether an extracted fragment is a job title. The
// rules run in a fixed order and the first one that matches names the reason.
package filter

import (
	"strings"
	"unicode"

	"go-dealer-jobwatch/internal/scraper"
)

const (
	ReasonTooShort        = "too_short"
	ReasonOneWordHeader   = "one_word_header"
	ReasonContactInfo     = "contact_info"
	ReasonCompanyName     = "company_name"
	ReasonAllCapsHeader   = "all_caps_header"
	ReasonSentenceLike    = "sentence_like"
	ReasonBlockPrefix     = "block:"
	ReasonRequirementOnly = "requirement_only"
	ReasonNotTitleLike    = "not_title_like"
)

const (
	minTitleLength      = 5
	minTitleWords       = 2
	maxCapsHeaderWords  = 3
	minSentenceWords    = 6
	maxRequirementWords = 3
	//shape test only runs above this many words
	shapeTestWords = 6
)

// Result is a keep/reject decision; Reason is empty when Keep is true
type Result struct {
	Keep   bool
	Reason string
}

type Classifier struct {
	blocklist Blocklist
}

func NewClassifier(blocklist Blocklist) *Classifier {
	return &Classifier{blocklist: blocklist}
}

func reject(reason string) Result {
	return Result{Keep: false, Reason: reason}
}

// Classify is a pure function of (title, snippet)
func (c *Classifier) Classify(title, snippet string) Result {
	t := scraper.CleanText(title)
	words := strings.Fields(t)

	//cheap structural rejects
	if len([]rune(t)) < minTitleLength {
		return reject(ReasonTooShort)
	}
	if len(words) < minTitleWords {
		return reject(ReasonOneWordHeader)
	}
	if phoneRegex.MatchString(t) || emailRegex.MatchString(t) || urlRegex.MatchString(t) {
		return reject(ReasonContactInfo)
	}
	if companyRegex.MatchString(t) {
		return reject(ReasonCompanyName)
	}
	if !hasLower(t) && len(words) <= maxCapsHeaderWords {
		return reject(ReasonAllCapsHeader)
	}
	if endsLikeSentence(t) && len(words) >= minSentenceWords {
		return reject(ReasonSentenceLike)
	}

	if phrase, ok := c.blocklist.Match(t, snippet); ok {
		return reject(ReasonBlockPrefix + phrase)
	}

	if strings.Contains(strings.ToLower(t), "required") && len(words) <= maxRequirementWords {
		return reject(ReasonRequirementOnly)
	}
	//least reliable signal, only applied where structure matters
	if len(words) > shapeTestWords && !TitleLike(words) {
		return reject(ReasonNotTitleLike)
	}
	return Result{Keep: true}
}

func (c *Classifier) ClassifyCandidate(cand scraper.Candidate) Result {
	return c.Classify(cand.Title, cand.Snippet)
}

// TitleLike reports whether at least half of the words are acronyms or Title-Cased
func TitleLike(words []string) bool {
	if len(words) == 0 {
		return false
	}
	good := 0
	for _, w := range words {
		w = strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if acronymRegex.MatchString(w) || titleCaseRegex.MatchString(w) {
			good++
		}
	}
	return good*2 >= len(words)
}

func endsLikeSentence(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

func hasLower(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

// Rejection is the audit record of one rejected raw candidate
type Rejection struct {
	Title   string
	Reason  string
	Snippet string
}
