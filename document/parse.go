package document

import (
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"

	"github.com/ardnew/ycomp/pkg"
	"github.com/ardnew/ycomp/value"
)

// Parse decodes the first YAML document in data. The name is recorded in
// every placeholder position and in error attributes. An empty document
// decodes to [value.Null].
func Parse(name string, data []byte) (value.Node, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, withLocation(pkg.ErrParse.Wrap(err), name, err)
	}

	d := decoder{file: name, anchors: make(map[string]value.Node)}

	for _, doc := range file.Docs {
		if doc == nil || doc.Body == nil {
			continue
		}

		return d.decode(doc.Body)
	}

	return value.Null{}, nil
}

// ParseScalar decodes s as a single YAML scalar, so that "42" becomes an
// [value.Int] and "true" a [value.Bool]. Text that does not parse as a
// scalar is returned as a [value.String].
func ParseScalar(s string) value.Node {
	if strings.TrimSpace(s) == "" {
		return value.String(s)
	}

	n, err := Parse("", []byte(s))
	if err != nil || !value.Scalar(n) {
		return value.String(s)
	}

	return n
}

// tokenError is implemented by the errors goccy/go-yaml reports.
type tokenError interface {
	GetToken() *token.Token
}

func withLocation(e *pkg.Error, file string, cause error) *pkg.Error {
	e = e.With(slog.String("file", file))

	var te tokenError
	if errors.As(cause, &te) {
		if tk := te.GetToken(); tk != nil && tk.Position != nil {
			e = e.With(
				slog.Int("line", tk.Position.Line),
				slog.Int("column", tk.Position.Column),
			)
		}
	}

	return e
}

// MergeKey is the YAML merge key.
const MergeKey = "<<"

type decoder struct {
	file    string
	anchors map[string]value.Node
}

func (d *decoder) position(n ast.Node) value.Position {
	pos := value.Position{File: d.file}

	if tk := n.GetToken(); tk != nil && tk.Position != nil {
		pos.Line = tk.Position.Line
		pos.Column = tk.Position.Column
	}

	return pos
}

func (d *decoder) fail(e *pkg.Error, n ast.Node) *pkg.Error {
	pos := d.position(n)

	return e.With(
		slog.String("file", d.file),
		slog.Int("line", pos.Line),
		slog.Int("column", pos.Column),
	)
}

func (d *decoder) decode(n ast.Node) (value.Node, error) {
	switch n := n.(type) {
	case nil:
		return value.Null{}, nil
	case *ast.DocumentNode:
		return d.decode(n.Body)
	case *ast.NullNode:
		return value.Null{}, nil
	case *ast.BoolNode:
		return value.Bool(n.Value), nil
	case *ast.IntegerNode:
		return decodeInteger(n), nil
	case *ast.FloatNode:
		return value.Float(n.Value), nil
	case *ast.InfinityNode:
		return value.Float(n.Value), nil
	case *ast.NanNode:
		return value.Float(math.NaN()), nil
	case *ast.StringNode:
		return value.String(n.Value), nil
	case *ast.LiteralNode:
		if n.Value == nil {
			return value.String(""), nil
		}

		return value.String(n.Value.Value), nil
	case *ast.MappingNode:
		return d.decodeMapping(n.Values)
	case *ast.MappingValueNode:
		return d.decodeMapping([]*ast.MappingValueNode{n})
	case *ast.SequenceNode:
		return d.decodeSequence(n)
	case *ast.AnchorNode:
		v, err := d.decode(n.Value)
		if err != nil {
			return nil, err
		}

		d.anchors[n.Name.GetToken().Value] = v

		return v, nil
	case *ast.AliasNode:
		name := n.Value.GetToken().Value

		v, ok := d.anchors[name]
		if !ok {
			return nil, d.fail(pkg.ErrUndefinedAlias.With(slog.String("alias", name)), n)
		}

		return v, nil
	case *ast.TagNode:
		return d.decodeTag(n)
	case *ast.MappingKeyNode:
		return d.decode(n.Value)
	case *ast.CommentGroupNode, *ast.CommentNode, *ast.DirectiveNode:
		return value.Null{}, nil
	default:
		return value.String(n.GetToken().Value), nil
	}
}

func decodeInteger(n *ast.IntegerNode) value.Node {
	switch v := n.Value.(type) {
	case int64:
		return value.Int(v)
	case uint64:
		if v > math.MaxInt64 {
			return value.Float(float64(v))
		}

		return value.Int(int64(v))
	case int:
		return value.Int(v)
	default:
		i, err := strconv.ParseInt(n.GetToken().Value, 0, 64)
		if err != nil {
			return value.String(n.GetToken().Value)
		}

		return value.Int(i)
	}
}

func (d *decoder) decodeMapping(pairs []*ast.MappingValueNode) (value.Node, error) {
	m := value.NewMap(len(pairs))

	for _, pair := range pairs {
		key, ok, err := d.decodeKey(pair.Key)
		if err != nil {
			return nil, err
		}

		v, err := d.decode(pair.Value)
		if err != nil {
			return nil, err
		}

		// Null keys are dropped.
		if !ok {
			continue
		}

		if key == MergeKey {
			if prev, dup := m.Get(key); dup {
				v = appendMerge(prev, v)
			}
		}

		m.Set(key, v)
	}

	return m, nil
}

// appendMerge combines repeated merge keys of one mapping into a single
// sequence of merge sources, earlier sources first.
func appendMerge(prev, next value.Node) value.Node {
	var s value.Seq

	if seq, ok := prev.(value.Seq); ok {
		s = append(s, seq...)
	} else {
		s = append(s, prev)
	}

	if seq, ok := next.(value.Seq); ok {
		return append(s, seq...)
	}

	return append(s, next)
}

func (d *decoder) decodeKey(k ast.MapKeyNode) (string, bool, error) {
	switch k := k.(type) {
	case nil, *ast.NullNode:
		return "", false, nil
	case *ast.MergeKeyNode:
		return "<<", true, nil
	case *ast.StringNode:
		return k.Value, true, nil
	}

	v, err := d.decode(k)
	if err != nil {
		return "", false, err
	}

	switch v := v.(type) {
	case value.Null:
		return "", false, nil
	case value.String:
		return string(v), true, nil
	case value.Placeholder:
		return "", false, d.fail(
			pkg.ErrUnknownTag.With(slog.String("tag", v.Kind().Tag()+" (mapping key)")), k,
		)
	case interface{ String() string }:
		return v.String(), true, nil
	default:
		return k.GetToken().Value, true, nil
	}
}

func (d *decoder) decodeSequence(n *ast.SequenceNode) (value.Node, error) {
	s := make(value.Seq, 0, len(n.Values))

	for _, e := range n.Values {
		v, err := d.decode(e)
		if err != nil {
			return nil, err
		}

		s = append(s, v)
	}

	return s, nil
}

func (d *decoder) decodeTag(n *ast.TagNode) (value.Node, error) {
	tag := n.Start.Value

	v, err := d.decode(n.Value)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(tag, "!!") {
		return coerce(tag, v, n.Value), nil
	}

	name, pattern, _ := strings.Cut(tag, ":")

	kind, ok := value.ParseKind(name)
	if !ok || (pattern != "" && kind != value.KindSub) {
		return nil, d.fail(pkg.ErrUnknownTag.With(slog.String("tag", tag)), n)
	}

	p, _ := value.NewPlaceholder(kind, d.position(n), v)
	if sub, ok := p.(*value.Sub); ok {
		sub.Pattern = pattern
	}

	return p, nil
}

// coerce applies a YAML core-schema tag to an already decoded value.
func coerce(tag string, v value.Node, src ast.Node) value.Node {
	text := func() string {
		if src == nil {
			return ""
		}

		if s, ok := v.(value.String); ok {
			return string(s)
		}

		return src.GetToken().Value
	}

	switch tag {
	case "!!str":
		if !value.Scalar(v) {
			return v
		}

		return value.String(text())
	case "!!int":
		if i, err := strconv.ParseInt(text(), 0, 64); err == nil {
			return value.Int(i)
		}
	case "!!float":
		if f, err := strconv.ParseFloat(text(), 64); err == nil {
			return value.Float(f)
		}
	case "!!bool":
		if b, err := strconv.ParseBool(text()); err == nil {
			return value.Bool(b)
		}
	case "!!null":
		return value.Null{}
	}

	return v
}
