// Package sanitize cleans user-submitted text before it reaches storage.
// It strips HTML and script content and masks a fixed profanity list.
// This is input hygiene for stored display text, not a substitute for
// output encoding.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Mask replaces each filtered word in sanitized text.
const Mask = "***"

// badWords is the fixed profanity list, matched case-insensitively.
var badWords = []string{
	"хуй", "пизда", "ебат", "бля", "мудак", "гавно", "сука", "дерьмо", "чмо", "нах",
}

var (
	policy      = bluemonday.StrictPolicy()
	jsSchemeRe  = regexp.MustCompile(`(?i)javascript:`)
	badWordsRes = compileBadWords()
)

func compileBadWords() []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(badWords))
	for _, w := range badWords {
		res = append(res, regexp.MustCompile("(?i)"+regexp.QuoteMeta(w)))
	}
	return res
}

// Input strips HTML elements, inline event handlers and javascript:
// URLs from a string, along with any remaining angle brackets.
func Input(s string) string {
	if s == "" {
		return ""
	}
	clean := policy.Sanitize(s)
	clean = jsSchemeRe.ReplaceAllString(clean, "")
	clean = strings.NewReplacer("<", "", ">", "").Replace(clean)
	return clean
}

// Profanity sanitizes the input and masks every occurrence of the
// filtered word list with Mask. The original text never survives into
// the return value.
func Profanity(s string) string {
	filtered := Input(s)
	for _, re := range badWordsRes {
		filtered = re.ReplaceAllString(filtered, Mask)
	}
	return filtered
}
