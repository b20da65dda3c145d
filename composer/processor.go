package composer

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/ardnew/ycomp/document"
	"github.com/ardnew/ycomp/lang"
	"github.com/ardnew/ycomp/pkg"
	"github.com/ardnew/ycomp/value"
)

// processSub enables substitution for the payload. A string payload is
// interpolated directly; any other payload is transformed with the
// substitution pattern active for all nested strings and keys.
func processSub(ctx context.Context, p value.Placeholder, t Transformer) value.Node {
	sub := p.(*value.Sub)
	pattern := t.subPattern(ctx, sub)

	if s, ok := sub.Payload().(value.String); ok {
		return t.c.interp.Interpolate(string(s), pattern, t.vars, t.loc)
	}

	t.pattern = &pattern

	return t.Transform(ctx, sub.Payload())
}

// subPattern returns the pattern selected by sub. A custom pattern is named
// by a variable holding "open..close"; problems fall back to the default.
func (t Transformer) subPattern(ctx context.Context, sub *value.Sub) lang.Pattern {
	if sub.Pattern == "" {
		return lang.DefaultPattern
	}

	v, ok := t.vars.Get(sub.Pattern)
	if !ok {
		t.warn(ctx, "undefined substitution pattern",
			slog.String("name", sub.Pattern))

		return lang.DefaultPattern
	}

	spec := lang.Text(v)

	pattern, ok := lang.CompilePattern(spec)
	if !ok {
		t.warn(ctx, pkg.ErrInvalidPattern.Message(),
			slog.String("name", sub.Pattern),
			slog.String("pattern", spec))

		return lang.DefaultPattern
	}

	return pattern
}

// processNoSub disables substitution for the payload.
func processNoSub(ctx context.Context, p value.Placeholder, t Transformer) value.Node {
	t.pattern = nil

	return t.Transform(ctx, p.Payload())
}

func processRemove(context.Context, value.Placeholder, Transformer) value.Node {
	return value.Removed
}

func processReplace(ctx context.Context, p value.Placeholder, t Transformer) value.Node {
	return t.Transform(ctx, p.Payload())
}

// params are the arguments of an !include or !insert.
type params struct {
	vars *value.Map
	name string
}

// parseParams reads the arguments of an !include or !insert from its
// resolved payload, which is either "name?k=v&flag" or a mapping holding
// key and an optional vars mapping.
func (t Transformer) parseParams(ctx context.Context, args value.Node, key string) (params, bool) {
	var prm params

	switch a := args.(type) {
	case value.String:
		name, query, _ := strings.Cut(string(a), "?")
		prm.name = name
		prm.vars = parseQuery(query)

	case *value.Map:
		if v, ok := a.Get(key); ok && value.Scalar(v) && !value.IsNull(v) {
			prm.name = lang.Text(v)
		}

		switch v, _ := a.Get("vars"); v := v.(type) {
		case nil, value.Null:
		case *value.Map:
			prm.vars = v
		default:
			t.warn(ctx, "vars must be a mapping", slog.String("type", value.TypeName(v)))
		}

	default:
		return prm, false
	}

	prm.name = strings.TrimSpace(prm.name)
	if prm.vars == nil {
		prm.vars = value.NewMap(0)
	}

	return prm, prm.name != ""
}

// parseQuery decodes "k=v&flag" into variables. Values are typed as YAML
// scalars and a key without a value is true.
func parseQuery(query string) *value.Map {
	vars := value.NewMap(0)

	for part := range strings.SplitSeq(query, "&") {
		if part == "" {
			continue
		}

		k, v, hasValue := strings.Cut(part, "=")

		if uk, err := url.QueryUnescape(k); err == nil {
			k = uk
		}

		if k == "" {
			continue
		}

		if !hasValue {
			vars.Set(k, value.Bool(true))

			continue
		}

		if uv, err := url.QueryUnescape(v); err == nil {
			v = uv
		}

		vars.Set(k, document.ParseScalar(v))
	}

	return vars
}
