package token

import (
	"strings"
	"unicode"
)

// Split breaks text into lowercase word tokens, splitting on
// non-alphanumeric boundaries and on case transitions so that
// "connectDatabase" yields {connect, database}. Digits stick to the
// preceding letter run ("sha256" stays one token).
func Split(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	var prev rune
	for _, r := range text {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			// camelCase boundary, also after a digit run ("sha256Sum")
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
		prev = r
	}
	flush()

	return tokens
}

// Set returns the unique tokens of text as a membership set.
func Set(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range Split(text) {
		set[tok] = true
	}
	return set
}

// Overlap counts how many of the query tokens appear in the candidate
// token set.
func Overlap(queryTokens []string, candidate map[string]bool) int {
	matches := 0
	for _, tok := range queryTokens {
		if candidate[tok] {
			matches++
		}
	}
	return matches
}
