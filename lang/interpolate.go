package lang

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/ycomp/document"
	"github.com/ardnew/ycomp/log"
	"github.com/ardnew/ycomp/pkg"
	"github.com/ardnew/ycomp/value"
)

// Interpolator replaces delimited expressions in strings with their values.
// Problems are never returned as errors: each is logged as a warning at the
// location of the string and the affected token degrades in place.
type Interpolator struct {
	logger log.Logger
}

// NewInterpolator returns an [Interpolator] that reports warnings to logger.
func NewInterpolator(logger log.Logger) *Interpolator {
	return &Interpolator{logger: logger}
}

// Interpolate evaluates every token of pattern in template against vars.
//
// A template without tokens is returned unchanged. A template that is
// exactly one token yields the token's value with its type intact, so
// "${port}" may produce an integer. Otherwise each token is replaced by the
// text of its value.
//
// An empty token yields null. A token that references an undefined variable
// is kept literally. A token that fails to parse or evaluate yields null.
func (ip *Interpolator) Interpolate(
	template string,
	pattern Pattern,
	vars *value.Map,
	loc value.Position,
) value.Node {
	if !pattern.valid() {
		pattern = DefaultPattern
	}

	tokens := pattern.scan(template)
	if len(tokens) == 0 {
		return value.String(template)
	}

	env := Environment(vars)

	if len(tokens) == 1 && tokens[0].start == 0 && tokens[0].end == len(template) {
		return ip.resolve(template, tokens[0], env, vars, loc)
	}

	var sb strings.Builder

	pos := 0

	for _, tok := range tokens {
		sb.WriteString(template[pos:tok.start])
		sb.WriteString(Text(ip.resolve(template, tok, env, vars, loc)))

		pos = tok.end
	}

	sb.WriteString(template[pos:])

	return value.String(sb.String())
}

// EvaluateCondition resolves the condition of an !if branch. The text is
// interpolated with pattern first; a string result is then evaluated as an expression,
// and if that fails the interpolated string itself is the result.
func (ip *Interpolator) EvaluateCondition(
	text string,
	pattern Pattern,
	vars *value.Map,
	loc value.Position,
) value.Node {
	v := ip.Interpolate(text, pattern, vars, loc)

	s, ok := v.(value.String)
	if !ok || strings.TrimSpace(string(s)) == "" {
		return v
	}

	r, err := evaluate(string(s), Environment(vars), ip.logger)
	if err != nil {
		ip.logger.Trace("condition is not an expression",
			slog.String(log.LocationKey, loc.String()),
			slog.Any("error", err))

		return v
	}

	return r
}

func (ip *Interpolator) resolve(
	template string,
	tok token,
	env map[string]any,
	vars *value.Map,
	loc value.Position,
) value.Node {
	src := strings.TrimSpace(tok.expr)
	if src == "" {
		return value.Null{}
	}

	v, err := evaluate(src, env, ip.logger)
	if err == nil {
		return v
	}

	where := slog.String(log.LocationKey, loc.String())

	switch {
	case errors.Is(err, pkg.ErrUndefined):
		for _, name := range UndefinedNames(err) {
			attrs := []slog.Attr{where, slog.String("name", name)}
			if s := Suggest(name, vars.Keys()); s != "" {
				attrs = append(attrs, slog.String("suggestion", "did you mean '"+s+"'?"))
			}

			ip.logger.Warn("undefined variable", attrs...)
		}

		return value.String(tok.text(template))

	case errors.Is(err, pkg.ErrExprCompile):
		ip.logger.Warn("error parsing expression",
			where, slog.String("expression", src), slog.String("error", cause(err)))

	default:
		ip.logger.Warn("error evaluating expression",
			where, slog.String("expression", src), slog.String("error", cause(err)))
	}

	return value.Null{}
}

// cause returns the message of the error wrapped by err, if any.
func cause(err error) string {
	if inner := errors.Unwrap(err); inner != nil {
		return inner.Error()
	}

	return err.Error()
}

// Text returns the form of n used when it is spliced into a larger string.
// Null is empty and collections render as single-line flow YAML.
func Text(n value.Node) string {
	switch n := n.(type) {
	case nil, value.Null:
		return ""
	case value.String:
		return string(n)
	case value.Bool, value.Int, value.Float:
		return n.(interface{ String() string }).String()
	case value.Seq, *value.Map:
		return document.Flow(n)
	default:
		return ""
	}
}
