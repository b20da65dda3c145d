package composer

import (
	"context"
	"log/slog"

	"github.com/ardnew/ycomp/lang"
	"github.com/ardnew/ycomp/pkg"
	"github.com/ardnew/ycomp/value"
)

// processInsert replaces the placeholder with a template of the current
// document. The template is resolved with only the variables passed to the
// insert: neither the document's variables nor the predefined ones are
// visible to it.
func processInsert(ctx context.Context, p value.Placeholder, t Transformer) value.Node {
	args := t.Transform(ctx, p.Payload())

	prm, ok := t.parseParams(ctx, args, "template")
	if !ok {
		t.warn(ctx, "insert: missing template name")

		return nil
	}

	body, ok := t.templates.Get(prm.name)
	if !ok {
		attrs := []slog.Attr{slog.String("template", prm.name)}
		if s := lang.Suggest(prm.name, t.templates.Keys()); s != "" {
			attrs = append(attrs, slog.String("suggestion", "did you mean '"+s+"'?"))
		}

		t.warn(ctx, "template not found", attrs...)

		return nil
	}

	if t.depth >= t.c.maxDepth {
		t.warn(ctx, pkg.ErrMaxDepth.Message(),
			slog.String("template", prm.name),
			slog.Int("depth", t.depth))

		return nil
	}

	child := t.WithVariables(prm.vars)
	child.pattern = nil
	child.depth++

	return child.Transform(ctx, body)
}
