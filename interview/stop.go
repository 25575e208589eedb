package interview

import "strings"

var stopPhrases = map[string]bool{
	"stop":                     true,
	"exit":                     true,
	"quit":                     true,
	"stop interview":           true,
	"стоп":                     true,
	"стоп интервью":            true,
	"выход":                    true,
	"стоп игра. давай фидбэк.": true,
}

// IsStopPhrase reports whether input is one of the usual ways a candidate
// ends the interview. It is a hint for front-ends only: the input is still
// submitted verbatim and the Mentor decides whether to stop.
func IsStopPhrase(input string) bool {
	s := strings.ToLower(strings.TrimSpace(input))
	return stopPhrases[s] || stopPhrases[strings.TrimRight(s, ".!")]
}
