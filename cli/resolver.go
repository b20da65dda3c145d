package cli

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"

	"github.com/ardnew/ycomp/composer"
	"github.com/ardnew/ycomp/document"
	"github.com/ardnew/ycomp/log"
	"github.com/ardnew/ycomp/value"
)

// resolve returns a [kong.ConfigurationLoader] for the YAML config file at
// path. The file is composed before use, so it may use every tag ycomp
// supports, and includes are resolved relative to it.
//
// Nested mappings are flattened into hyphenated flag names, so both of
// these set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Keys may use underscores in place of hyphens. Command-line flags override
// config file values. A config file that cannot be read or parsed is
// ignored with a warning.
func resolve(ctx context.Context, path string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		ra := readahead.NewReader(r)
		defer ra.Close()

		data, err := io.ReadAll(ra)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("file", path), slog.Any("error", err))

			return config{}, nil
		}

		root, err := document.Parse(path, data)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("file", path), slog.Any("error", err))

			return config{}, nil
		}

		buf := log.NewBuffer(log.LevelWarn)

		doc := composer.New(
			composer.WithLogger(buf.Logger()),
			composer.WithConfigRoot(filepath.Dir(path)),
		).Compose(ctx, root, path)

		buf.Flush(ctx, log.Default())

		m, ok := doc.(*value.Map)
		if !ok {
			return config{}, nil
		}

		cfg := make(config)
		cfg.flatten("", m)

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flattened configuration map.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if v, ok := r[flag.Name]; ok {
		return v, nil
	}

	if v, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return v, nil
	}

	return nil, nil
}

func (r config) flatten(prefix string, m *value.Map) {
	for k, v := range m.All() {
		key := strings.ReplaceAll(k, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := v.(*value.Map); ok {
			r.flatten(key, sub)

			continue
		}

		if native, ok := flagValue(v); ok {
			r[key] = native
		}
	}
}

// flagValue converts a resolved value into the form kong decodes: numbers
// are passed as text, sequences as lists.
func flagValue(n value.Node) (any, bool) {
	switch n := n.(type) {
	case value.Bool:
		return bool(n), true
	case value.Int, value.Float, value.String:
		return n.(interface{ String() string }).String(), true
	case value.Seq:
		list := make([]any, 0, len(n))

		for _, e := range n {
			if v, ok := flagValue(e); ok {
				list = append(list, v)
			}
		}

		return list, true
	default:
		return nil, false
	}
}
