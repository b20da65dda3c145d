package lang

import "strings"

// Pattern is a pair of delimiters that surround a substitution token.
type Pattern struct {
	Open  string
	Close string
}

// DefaultPattern is the ${...} token syntax.
//
//nolint:gochecknoglobals
var DefaultPattern = Pattern{Open: "${", Close: "}"}

// patternSeparator splits the open and close halves of a pattern spec.
const patternSeparator = ".."

// CompilePattern parses a delimiter specification of the form
// "<open>..<close>", for example "$[[..]]" or "@[..]".
// It reports false if either half is empty or the separator does not occur
// exactly once.
func CompilePattern(spec string) (Pattern, bool) {
	if strings.Count(spec, patternSeparator) != 1 {
		return Pattern{}, false
	}

	open, closing, _ := strings.Cut(spec, patternSeparator)
	if open == "" || closing == "" {
		return Pattern{}, false
	}

	return Pattern{Open: open, Close: closing}, true
}

func (p Pattern) String() string { return p.Open + patternSeparator + p.Close }

func (p Pattern) valid() bool { return p.Open != "" && p.Close != "" }

// token is a delimited expression found in a template.
type token struct {
	start, end int // byte offsets of the whole token, delimiters included
	expr       string
}

// text returns the literal source of t in template.
func (t token) text(template string) string { return template[t.start:t.end] }

// scan finds every token of pattern p in template. Quoted strings and
// bracketed sub-expressions inside a token are skipped over, so the close
// delimiter only ends a token at nesting depth zero. An unterminated token
// runs to the end of the template.
func (p Pattern) scan(template string) []token {
	var tokens []token

	for pos := 0; pos < len(template); {
		i := strings.Index(template[pos:], p.Open)
		if i < 0 {
			break
		}

		start := pos + i
		body := start + len(p.Open)
		n, ok := p.span(template[body:])

		end := body + n
		if ok {
			end += len(p.Close)
		}

		tokens = append(tokens, token{
			start: start,
			end:   end,
			expr:  template[body : body+n],
		})

		pos = end
	}

	return tokens
}

// span returns the length of the token body at the start of s and whether
// a closing delimiter follows it.
func (p Pattern) span(s string) (int, bool) {
	var (
		quote byte
		depth int
	)

	for i := 0; i < len(s); i++ {
		c := s[i]

		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}

			continue
		}

		if depth == 0 && strings.HasPrefix(s[i:], p.Close) {
			return i, true
		}

		switch c {
		case '\'', '"', '`':
			quote = c
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			if depth > 0 {
				depth--
			}
		}
	}

	return len(s), false
}
