package lang

import (
	"math"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// Suggest returns the candidate that most likely names what was meant by a
// misspelled name, or "" if none is close enough.
//
// A candidate qualifies when either string is a fuzzy subsequence of the
// other and their lengths are within a factor of two.
func Suggest(name string, candidates []string) string {
	if name == "" || len(candidates) == 0 {
		return ""
	}

	var (
		best  string
		score = math.MinInt
	)

	consider := func(cand string, s int) {
		if cand == name || !similarLength(name, cand) {
			return
		}

		if s > score || (s == score && cand < best) {
			best, score = cand, s
		}
	}

	// name is an abbreviation of a candidate: "corret_name" -> "correct_name".
	for _, m := range fuzzy.Find(name, candidates) {
		consider(m.Str, m.Score)
	}

	// a candidate is an abbreviation of name: "namee" -> "name".
	for _, cand := range candidates {
		for _, m := range fuzzy.Find(cand, []string{name}) {
			consider(cand, m.Score)
		}
	}

	return best
}

func similarLength(a, b string) bool {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)

	return la <= 2*lb && lb <= 2*la
}
