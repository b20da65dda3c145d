package composer

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ardnew/ycomp/pkg"
	"github.com/ardnew/ycomp/value"
)

// Include path prefixes.
const (
	configRootPrefix = "@"
	sourceRootPrefix = "$"
)

// processInclude replaces the placeholder with another document.
//
// The included document sees the variables of the including scope
// overlaid with the include's own variables, and then declares its own.
// Substitution is never inherited across the file boundary.
func processInclude(ctx context.Context, p value.Placeholder, t Transformer) value.Node {
	args := t.Transform(ctx, p.Payload())

	prm, ok := t.parseParams(ctx, args, "file")
	if !ok {
		t.warn(ctx, "include: missing 'file' parameter")

		return nil
	}

	path := t.resolvePath(prm.name)

	if t.stack.contains(path) {
		t.warn(ctx, pkg.ErrCircularInclude.Message(),
			slog.String("file", path),
			slog.String("chain", strings.Join(append(t.stack.chain(), path), " -> ")))

		return nil
	}

	if t.depth >= t.c.maxDepth {
		t.warn(ctx, pkg.ErrMaxDepth.Message(),
			slog.String("file", path),
			slog.Int("depth", t.depth))

		return nil
	}

	entry, err := t.c.cache.load(ctx, t.c.fsys, path, t.logger())
	if err != nil {
		attrs := []slog.Attr{
			slog.String("file", prm.name),
			slog.String("path", path),
			slog.String("reason", reason(err)),
		}

		var e *pkg.Error
		if errors.As(err, &e) && errors.Is(err, pkg.ErrParse) {
			for _, a := range e.Attrs() {
				if a.Key == "line" || a.Key == "column" {
					attrs = append(attrs, a)
				}
			}
		}

		t.warn(ctx, "include failed", attrs...)

		return nil
	}

	t.logger().TraceContext(ctx, "include",
		slog.String("file", path),
		slog.Int("depth", t.stack.len()))

	child := Transformer{
		c:          t.c,
		vars:       t.vars.Overlay(prm.vars),
		stack:      t.stack.push(path),
		file:       path,
		configRoot: t.configRoot,
		depth:      t.depth + 1,
	}

	return child.document(ctx, entry.Document)
}

// resolvePath maps an include name to a canonical path. Names beginning
// with "@" are relative to the config root and names beginning with "$" to
// the source root; other relative names are relative to the including
// document.
func (t Transformer) resolvePath(name string) string {
	base := t.dir()

	switch {
	case strings.HasPrefix(name, configRootPrefix):
		base, name = t.configRoot, name[len(configRootPrefix):]
	case strings.HasPrefix(name, sourceRootPrefix):
		base, name = t.sourceRoot(), name[len(sourceRootPrefix):]
	}

	name = filepath.FromSlash(name)
	if !filepath.IsAbs(name) {
		name = filepath.Join(base, name)
	}

	return canonical(name)
}

// sourceRoot returns the configured source root or else the top-level
// directory below the config root that holds the current document. A
// document outside the config root is its own source root.
func (t Transformer) sourceRoot() string {
	if t.c.sourceRoot != "" {
		return canonical(t.c.sourceRoot)
	}

	dir := t.dir()

	rel, err := filepath.Rel(t.configRoot, dir)
	if err != nil || rel == "." || rel == ".." ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return dir
	}

	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")

	return filepath.Join(t.configRoot, first)
}
