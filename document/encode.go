package document

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"iter"
	"log/slog"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/ycomp/pkg"
	"github.com/ardnew/ycomp/value"
)

// Format selects the text encoding of [Encode].
type Format int

const (
	FormatYAML Format = iota // yaml
	FormatJSON               // json
)

// DefaultIndent is the indentation width used when none is given.
const DefaultIndent = 2

// Formats returns an iterator over the names of all supported formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range []Format{FormatYAML, FormatJSON} {
			if !yield(f.String()) {
				return
			}
		}
	}
}

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat returns the format with the given name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml", "":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return 0, pkg.ErrInvalidFormat.With(
			slog.String("format", s),
			slog.String("valid", strings.Join(slices.Collect(Formats()), ", ")),
		)
	}
}

// Native converts n into values goccy/go-yaml encodes in key order:
// mappings become [yaml.MapSlice].
func Native(n value.Node) any {
	switch n := n.(type) {
	case value.Bool:
		return bool(n)
	case value.Int:
		return int64(n)
	case value.Float:
		return float64(n)
	case value.String:
		return string(n)
	case value.Seq:
		s := make([]any, len(n))
		for i, e := range n {
			s[i] = Native(e)
		}

		return s
	case *value.Map:
		m := make(yaml.MapSlice, 0, n.Len())
		for k, v := range n.All() {
			m = append(m, yaml.MapItem{Key: k, Value: Native(v)})
		}

		return m
	default:
		return nil
	}
}

// Marshal encodes n in the given format.
func Marshal(ctx context.Context, n value.Node, format Format, indent int) ([]byte, error) {
	if indent <= 0 {
		indent = DefaultIndent
	}

	switch format {
	case FormatYAML:
		out, err := yaml.MarshalContext(ctx, Native(n),
			yaml.Indent(indent),
			yaml.IndentSequence(true),
			yaml.UseLiteralStyleIfMultiline(true),
		)
		if err != nil {
			return nil, pkg.ErrYAMLMarshal.Wrap(err)
		}

		return out, nil

	case FormatJSON:
		flat, err := yaml.MarshalContext(ctx, Native(n), yaml.JSON())
		if err != nil {
			return nil, pkg.ErrYAMLMarshal.Wrap(err)
		}

		var buf bytes.Buffer
		if err := json.Indent(&buf, bytes.TrimSpace(flat), "", strings.Repeat(" ", indent)); err != nil {
			return nil, pkg.ErrYAMLMarshal.Wrap(err)
		}

		buf.WriteByte('\n')

		return buf.Bytes(), nil

	default:
		return nil, pkg.ErrInvalidFormat.With(slog.String("format", format.String()))
	}
}

// Encode writes n to w in the given format.
func Encode(ctx context.Context, w io.Writer, n value.Node, format Format, indent int) error {
	out, err := Marshal(ctx, n, format, indent)
	if err != nil {
		return err
	}

	if _, err := w.Write(out); err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return nil
}

// Flow renders n as single-line flow YAML, the text form of containers
// embedded in interpolated strings.
func Flow(n value.Node) string {
	out, err := yaml.MarshalWithOptions(Native(n), yaml.Flow(true))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(out))
}

