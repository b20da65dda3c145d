package composer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/ycomp/lang"
	"github.com/ardnew/ycomp/log"
	"github.com/ardnew/ycomp/value"
)

// Reserved top-level keys of a document.
const (
	VariablesKey = "variables"
	TemplatesKey = "templates"
)

// Variables defined for every document. They cannot be overridden.
const (
	FileVar       = "__FILE__"
	FileNameVar   = "__FILE_NAME__"
	FileExtVar    = "__FILE_EXT__"
	DirectoryVar  = "__DIRECTORY__"
	ConfigRootVar = "CONFIG_ROOT"
)

// Composer resolves the placeholders of YAML documents.
//
// A Composer is safe for concurrent use once constructed.
type Composer struct {
	logger     log.Logger
	fsys       FileSystem
	cache      *Cache
	variables  *value.Map
	templates  *value.Map
	interp     *lang.Interpolator
	processors map[value.Kind]processor
	configRoot string
	sourceRoot string
	maxDepth   int
}

// New returns a [Composer] configured by opts.
func New(opts ...Option) *Composer {
	c := &Composer{
		logger:   log.Default(),
		fsys:     OS(),
		cache:    NewCache(),
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.interp = lang.NewInterpolator(c.logger)
	c.processors = map[value.Kind]processor{
		value.KindSub:     processSub,
		value.KindNoSub:   processNoSub,
		value.KindIf:      processIf,
		value.KindRemove:  processRemove,
		value.KindReplace: processReplace,
		value.KindInclude: processInclude,
		value.KindInsert:  processInsert,
	}

	return c
}

// Cache returns the document cache used by c.
func (c *Composer) Cache() *Cache { return c.cache }

// Compose resolves root, a document decoded from file. The file name may
// be empty for documents that were not read from disk, in which case
// relative include paths are resolved against the working directory.
//
// Compose never fails: every problem is logged as a warning at its
// location and the offending node degrades or is removed. A document whose
// root is removed composes to null.
func (c *Composer) Compose(ctx context.Context, root value.Node, file string) value.Node {
	out := c.Transformer(file).document(ctx, root)
	if out == nil || value.IsRemoved(out) {
		return value.Null{}
	}

	return out
}

// ComposeFile reads, parses, and composes the document at path. Only a
// failure to read or parse the root document is returned as an error.
func (c *Composer) ComposeFile(ctx context.Context, path string) (value.Node, error) {
	path = canonical(path)

	entry, err := c.cache.load(ctx, c.fsys, path, c.logger)
	if err != nil {
		return nil, err
	}

	return c.Compose(ctx, entry.Document, path), nil
}

// Transformer returns the [Transformer] that resolves the root document
// read from file, scoped to the variables and templates of c.
func (c *Composer) Transformer(file string) Transformer {
	t := Transformer{
		c:         c,
		vars:      c.variables,
		templates: c.templates,
	}

	if file != "" {
		t.file = canonical(file)
		t.stack = t.stack.push(t.file)
	}

	t.configRoot = c.configRoot
	if t.configRoot == "" {
		t.configRoot = t.dir()
	} else {
		t.configRoot = canonical(t.configRoot)
	}

	return t
}

// document resolves one document: it applies the predefined and declared
// variables, collects the document's templates, and strips the reserved
// and hidden top-level keys from the result.
func (t Transformer) document(ctx context.Context, doc value.Node) value.Node {
	base := t.vars.Overlay(t.predefined())

	m, ok := doc.(*value.Map)
	if !ok {
		t.vars = base

		return t.Transform(ctx, doc)
	}

	if decl, ok := m.Get(VariablesKey); ok {
		t.vars = t.hoist(ctx, decl, base)
	} else {
		t.vars = base
	}

	if decl, ok := m.Get(TemplatesKey); ok {
		t.templates = t.templates.Overlay(t.collectTemplates(ctx, decl))
	}

	body := value.NewMap(m.Len())

	for k, v := range m.All() {
		if k == VariablesKey || k == TemplatesKey || strings.HasPrefix(k, ".") {
			continue
		}

		body.Set(k, v)
	}

	return t.Transform(ctx, body)
}

// predefined returns the variables every document sees.
func (t Transformer) predefined() *value.Map {
	m := value.NewMap(5)

	if t.file != "" {
		name := filepath.Base(t.file)
		ext := filepath.Ext(name)

		m.Set(FileVar, value.String(t.file))
		m.Set(FileNameVar, value.String(strings.TrimSuffix(name, ext)))
		m.Set(FileExtVar, value.String(strings.TrimPrefix(ext, ".")))
		m.Set(DirectoryVar, value.String(filepath.Dir(t.file)))
	}

	m.Set(ConfigRootVar, value.String(t.configRoot))

	return m
}

// hoist resolves the variables block decl in declaration order. Each entry
// is resolved against base and the entries before it. Names already in base
// keep their inherited value.
func (t Transformer) hoist(ctx context.Context, decl value.Node, base *value.Map) *value.Map {
	scope := t.WithVariables(base)

	// A !sub over the whole block applies to each entry in turn, so that
	// later entries can refer to earlier ones.
	if sub, ok := decl.(*value.Sub); ok {
		if _, isMap := sub.Payload().(*value.Map); isMap {
			pattern := scope.subPattern(ctx, sub)
			scope.pattern = &pattern
			scope.loc = sub.Location()
			decl = sub.Payload()
		}
	}

	if p, ok := decl.(value.Placeholder); ok {
		decl = scope.Transform(ctx, p)
	}

	entries, ok := decl.(*value.Map)
	if !ok {
		if !value.IsNull(decl) && !value.IsRemoved(decl) {
			t.warn(ctx, "variables must be a mapping",
				slog.String("type", value.TypeName(decl)))
		}

		return base
	}

	vars := base.Clone()

	for k, v := range entries.All() {
		if base.Has(k) {
			t.logger().TraceContext(ctx, "variable overridden",
				slog.String("name", k),
				slog.String("file", t.file))

			continue
		}

		r := scope.WithVariables(vars).Transform(ctx, v)
		if r == nil || value.IsRemoved(r) {
			continue
		}

		vars.Set(k, r)
	}

	return vars
}

// collectTemplates returns the templates declared by decl. Template bodies
// are kept unresolved; they are resolved at each insertion.
func (t Transformer) collectTemplates(ctx context.Context, decl value.Node) *value.Map {
	if p, ok := decl.(value.Placeholder); ok {
		decl = t.Transform(ctx, p)
	}

	m, ok := decl.(*value.Map)
	if !ok {
		if !value.IsNull(decl) && !value.IsRemoved(decl) {
			t.warn(ctx, "templates must be a mapping",
				slog.String("type", value.TypeName(decl)))
		}

		return nil
	}

	return m
}

// canonical returns the absolute path of name with symbolic links
// resolved. Paths that do not exist are only made absolute.
func canonical(name string) string {
	abs, err := filepath.Abs(name)
	if err != nil {
		return filepath.Clean(name)
	}

	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}

	return abs
}

func workingDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	return "."
}
