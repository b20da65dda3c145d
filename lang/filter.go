package lang

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/ardnew/ycomp/value"
)

// defaultFilter returns fallback when v is nil. With strict set, any falsy
// value (empty string, zero, empty collection) is replaced too.
//
//	${port | default(8080)}
//	${name | default('anonymous', true)}
func defaultFilter(v, fallback any, strict ...bool) any {
	if v == nil {
		return fallback
	}

	if len(strict) > 0 && strict[0] && !IsTruthy(value.FromPlain(v)) {
		return fallback
	}

	return v
}

// labelFilter converts an identifier-like string into space separated,
// capitalized words: "fooBar", "foo_bar" and "foo-bar" all become
// "Foo Bar", and "StatusLED" becomes "Status LED".
func labelFilter(s string) string {
	words := splitWords(s)

	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}

	return strings.Join(words, " ")
}

func splitWords(s string) []string {
	var (
		words []string
		word  []rune
	)

	flush := func() {
		if len(word) > 0 {
			words = append(words, string(word))
			word = word[:0]
		}
	}

	r := []rune(s)

	for i, c := range r {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			flush()

			continue
		}

		if len(word) > 0 && unicode.IsUpper(c) {
			prev := word[len(word)-1]
			nextLower := i+1 < len(r) && unicode.IsLower(r[i+1])

			// fooBar | LEDStatus
			if !unicode.IsUpper(prev) || nextLower {
				flush()
			}
		}

		word = append(word, c)
	}

	flush()

	return words
}

// digFilter walks v along path and returns the value found there, or nil
// if any step is missing. A path element may be a key, a list index, or a
// dotted combination of both: dig(v, 'a', 1), dig(v, 'a.1') and
// dig(v, 'a.1', 0) are all accepted.
func digFilter(v any, path ...any) any {
	for _, step := range digPath(path) {
		switch c := v.(type) {
		case map[string]any:
			next, ok := c[step]
			if !ok {
				return nil
			}

			v = next

		case []any:
			i, err := strconv.Atoi(step)
			if err != nil || i < 0 || i >= len(c) {
				return nil
			}

			v = c[i]

		default:
			return nil
		}
	}

	return v
}

func digPath(path []any) []string {
	steps := make([]string, 0, len(path))

	for _, p := range path {
		switch p := p.(type) {
		case string:
			steps = append(steps, strings.Split(p, ".")...)
		case int:
			steps = append(steps, strconv.Itoa(p))
		case int64:
			steps = append(steps, strconv.FormatInt(p, 10))
		case float64:
			steps = append(steps, strconv.FormatFloat(p, 'f', -1, 64))
		default:
			steps = append(steps, fmt.Sprint(p))
		}
	}

	return steps
}
