// Package arabic canonicalizes Arabic free text for matching. Every
// comparison in the tutor and the resolvers goes through Normalize; raw
// input is never compared directly.
package arabic

import (
	"strings"
	"unicode"
)

var letterFolds = map[rune]rune{
	'إ': 'ا', // alef with hamza below -> alef
	'أ': 'ا', // alef with hamza above -> alef
	'آ': 'ا', // alef with madda -> alef
	'ة': 'ه', // teh marbuta -> heh
	'ى': 'ي', // alef maksura -> yeh
}

// Normalize folds case and common Arabic letter variants, collapses
// whitespace runs to single spaces and trims the result. Idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
		}
		if folded, ok := letterFolds[r]; ok {
			r = folded
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Tokens splits the normalized form of s on spaces, drops tokens shorter
// than minLen runes and keeps at most max tokens. max <= 0 means no cap.
func Tokens(s string, minLen, max int) []string {
	var out []string
	for _, tok := range strings.Fields(Normalize(s)) {
		if RuneLen(tok) < minLen {
			continue
		}
		out = append(out, tok)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

// FirstTokens returns the first max whitespace tokens of the normalized
// form without any length filter. The question matcher and the concept
// scorer cap the token window before applying their own length checks.
func FirstTokens(s string, max int) []string {
	toks := strings.Fields(Normalize(s))
	if max > 0 && len(toks) > max {
		toks = toks[:max]
	}
	return toks
}

// RuneLen counts runes, the length unit all matching thresholds use.
func RuneLen(s string) int {
	return len([]rune(s))
}
