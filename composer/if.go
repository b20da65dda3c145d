package composer

import (
	"context"
	"log/slog"

	"github.com/ardnew/ycomp/lang"
	"github.com/ardnew/ycomp/value"
)

// Keys of an !if branch.
const (
	ifKey     = "if"
	elseIfKey = "elseif"
	thenKey   = "then"
	elseKey   = "else"
)

// processIf selects a branch of a conditional. The payload is either one
// mapping with if, then and an optional else, or a sequence of branches
// where the first uses if, the following use elseif, and the last may be a
// lone else. Branches are evaluated in order and evaluation stops at the
// first true condition; a conditional with no matching branch is removed.
func processIf(ctx context.Context, p value.Placeholder, t Transformer) value.Node {
	switch v := p.Payload().(type) {
	case *value.Map:
		return t.ifMapping(ctx, v)
	case value.Seq:
		return t.ifSequence(ctx, v)
	default:
		t.warn(ctx, "if: expected a mapping or a sequence",
			slog.String("type", value.TypeName(v)))

		return nil
	}
}

func (t Transformer) ifMapping(ctx context.Context, m *value.Map) value.Node {
	cond, hasIf := m.Get(ifKey)
	then, hasThen := m.Get(thenKey)

	if !hasIf || !hasThen {
		t.warn(ctx, "if: invalid branch", missing(hasIf, hasThen, ifKey))

		return nil
	}

	if t.truthy(ctx, cond) {
		return t.Transform(ctx, then)
	}

	if alt, ok := m.Get(elseKey); ok {
		return t.Transform(ctx, alt)
	}

	return value.Removed
}

func (t Transformer) ifSequence(ctx context.Context, branches value.Seq) value.Node {
	for i, b := range branches {
		m, ok := b.(*value.Map)
		if !ok {
			t.warn(ctx, "if: branch is not a mapping",
				slog.Int("branch", i),
				slog.String("type", value.TypeName(b)))

			continue
		}

		if alt, ok := m.Get(elseKey); ok {
			if m.Len() > 1 {
				t.warn(ctx, "if: else branch has extra keys",
					slog.Int("branch", i),
					slog.Any("keys", m.Keys()))
			}

			if rest := len(branches) - i - 1; rest > 0 {
				t.warn(ctx, "if: unreachable branches after else",
					slog.Int("branch", i),
					slog.Int("count", rest))
			}

			return t.Transform(ctx, alt)
		}

		want, other := elseIfKey, ifKey
		if i == 0 {
			want, other = ifKey, elseIfKey
		}

		cond, hasCond := m.Get(want)
		if !hasCond {
			if c, ok := m.Get(other); ok {
				t.warn(ctx, "if: unexpected condition key",
					slog.Int("branch", i),
					slog.String("key", other),
					slog.String("expected", want))

				cond, hasCond = c, true
			}
		}

		then, hasThen := m.Get(thenKey)
		if !hasCond || !hasThen {
			t.warn(ctx, "if: invalid branch",
				slog.Int("branch", i), missing(hasCond, hasThen, want))

			continue
		}

		if t.truthy(ctx, cond) {
			return t.Transform(ctx, then)
		}
	}

	return value.Removed
}

// truthy evaluates a branch condition. Placeholders are resolved first.
// Strings are interpolated with the active substitution pattern, or the
// default one outside a !sub, and evaluated as expressions. Anything else
// is judged by [lang.IsTruthy].
func (t Transformer) truthy(ctx context.Context, cond value.Node) bool {
	if p, ok := cond.(value.Placeholder); ok {
		cond = t.Transform(ctx, p)
	}

	if s, ok := cond.(value.String); ok {
		pattern := lang.DefaultPattern
		if t.pattern != nil {
			pattern = *t.pattern
		}

		cond = t.c.interp.EvaluateCondition(string(s), pattern, t.vars, t.loc)
	}

	if cond == nil || value.IsRemoved(cond) {
		return false
	}

	return lang.IsTruthy(cond)
}

func missing(hasCond, hasThen bool, condKey string) slog.Attr {
	var keys []string

	if !hasCond {
		keys = append(keys, condKey)
	}

	if !hasThen {
		keys = append(keys, thenKey)
	}

	return slog.Any("missing", keys)
}
