package composer

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ardnew/ycomp/document"
	"github.com/ardnew/ycomp/lang"
	"github.com/ardnew/ycomp/log"
	"github.com/ardnew/ycomp/value"
)

// processor resolves one kind of placeholder. A nil or [value.Removed]
// result removes the placeholder from its parent.
type processor func(ctx context.Context, p value.Placeholder, t Transformer) value.Node

// Transformer walks a document tree and resolves its placeholders.
//
// A Transformer is a value: the With methods return modified copies and
// leave the receiver untouched, so a scope never leaks from a child node to
// its siblings.
type Transformer struct {
	c          *Composer
	vars       *value.Map
	templates  *value.Map
	stack      *includeStack
	pattern    *lang.Pattern // active substitution, nil when disabled
	file       string
	configRoot string
	loc        value.Position
	depth      int
}

// Variables returns the variables in scope.
func (t Transformer) Variables() *value.Map { return t.vars }

// WithVariables returns a copy of t whose scope is exactly vars.
func (t Transformer) WithVariables(vars *value.Map) Transformer {
	t.vars = vars

	return t
}

// WithOverrideVariables returns a copy of t whose scope is the current
// scope overlaid with vars. Entries of vars win.
func (t Transformer) WithOverrideVariables(vars *value.Map) Transformer {
	t.vars = t.vars.Overlay(vars)

	return t
}

// Transform resolves every placeholder in n. Removed mapping entries and
// sequence elements are dropped from the result; a nil or [value.Removed]
// result means n itself was removed.
func (t Transformer) Transform(ctx context.Context, n value.Node) value.Node {
	switch n := n.(type) {
	case nil:
		return nil
	case *value.Map:
		return t.mapping(ctx, n)
	case value.Seq:
		return t.sequence(ctx, n)
	case value.String:
		if t.pattern == nil {
			return n
		}

		return t.c.interp.Interpolate(string(n), *t.pattern, t.vars, t.loc)
	case value.Placeholder:
		return t.dispatch(ctx, n)
	default:
		return n
	}
}

func (t Transformer) dispatch(ctx context.Context, p value.Placeholder) value.Node {
	proc, ok := t.c.processors[p.Kind()]
	if !ok {
		t.warn(ctx, "unsupported placeholder", slog.String("tag", p.Kind().Tag()))

		return nil
	}

	t.loc = p.Location()

	return proc(ctx, p, t)
}

func (t Transformer) mapping(ctx context.Context, m *value.Map) value.Node {
	out := value.NewMap(m.Len())

	// Merge sources are resolved in place but applied only after every
	// local key is known, since local keys always take precedence.
	type slot struct {
		key     string
		sources []*value.Map
	}

	var (
		slots  []slot
		merged bool
	)

	for k, v := range m.All() {
		if k == document.MergeKey {
			slots = append(slots, slot{sources: t.mergeSources(ctx, v)})
			merged = true

			continue
		}

		key, ok := t.key(k)
		if !ok {
			continue
		}

		r := t.Transform(ctx, v)
		if r == nil || value.IsRemoved(r) {
			continue
		}

		out.Set(key, r)
		slots = append(slots, slot{key: key})
	}

	if !merged {
		return out
	}

	res := value.NewMap(out.Len())

	for _, s := range slots {
		if s.sources == nil {
			if v, ok := out.Get(s.key); ok && !res.Has(s.key) {
				res.Set(s.key, v)
			}

			continue
		}

		for _, src := range s.sources {
			for k, v := range src.All() {
				if !out.Has(k) && !res.Has(k) {
					res.Set(k, v)
				}
			}
		}
	}

	return res
}

// key returns the mapping key k, interpolated when substitution is active.
// A key that resolves to null drops its entry.
func (t Transformer) key(k string) (string, bool) {
	if t.pattern == nil || !strings.Contains(k, t.pattern.Open) {
		return k, true
	}

	r := t.c.interp.Interpolate(k, *t.pattern, t.vars, t.loc)
	if value.IsNull(r) {
		return "", false
	}

	return lang.Text(r), true
}

// mergeSources resolves the value of a merge key to the mappings it
// merges, earliest first.
func (t Transformer) mergeSources(ctx context.Context, v value.Node) []*value.Map {
	switch r := t.Transform(ctx, v).(type) {
	case *value.Map:
		return []*value.Map{r}
	case value.Seq:
		maps := make([]*value.Map, 0, len(r))

		for i, e := range r {
			m, ok := e.(*value.Map)
			if !ok {
				t.warn(ctx, "merge source is not a mapping",
					slog.Int("index", i),
					slog.String("type", value.TypeName(e)))

				continue
			}

			maps = append(maps, m)
		}

		return maps
	case nil, value.Null:
		return []*value.Map{}
	default:
		if !value.IsRemoved(r) {
			t.warn(ctx, "merge source is not a mapping",
				slog.String("type", value.TypeName(r)))
		}

		return []*value.Map{}
	}
}

func (t Transformer) sequence(ctx context.Context, s value.Seq) value.Node {
	out := make(value.Seq, 0, len(s))

	for _, e := range s {
		r := t.Transform(ctx, e)
		if r == nil || value.IsRemoved(r) {
			continue
		}

		out = append(out, r)
	}

	return out
}

// dir returns the directory relative include paths are resolved against.
func (t Transformer) dir() string {
	if t.file == "" {
		return workingDir()
	}

	return filepath.Dir(t.file)
}

func (t Transformer) logger() log.Logger { return t.c.logger }

// warn logs msg at the location of the placeholder being resolved.
func (t Transformer) warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	loc := t.loc
	if loc.File == "" {
		loc.File = t.file
	}

	t.c.logger.WarnContext(ctx, msg,
		append([]slog.Attr{slog.String(log.LocationKey, loc.String())}, attrs...)...)
}
