package cmd

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/klauspost/readahead"

	"github.com/ardnew/ycomp/composer"
	"github.com/ardnew/ycomp/document"
	"github.com/ardnew/ycomp/log"
	"github.com/ardnew/ycomp/pkg"
	"github.com/ardnew/ycomp/value"
)

// Options are the flags shared by every command that composes a document.
type Options struct {
	File string `arg:"" default:"-" help:"Document to compose or '-' for stdin" name:"file"`

	Vars          map[string]string `help:"Set a variable (repeatable)"                     mapsep:"none" name:"var" placeholder:"KEY=VALUE" short:"D"`
	VarsFile      []string          `help:"Read variables from a YAML mapping (repeatable)"                                                                      type:"existingfile"`
	TemplatesFile []string          `help:"Read templates from a YAML mapping (repeatable)"                                                                      type:"existingfile"`
	ConfigRoot    string            `help:"Directory '@' include paths are relative to"                                                                          type:"path"`
	SourceRoot    string            `help:"Directory '$' include paths are relative to"                                                                          type:"path"`
	MaxDepth      int               `default:"${maxDepthDefault}" help:"Maximum nesting of includes and inserts"`
}

// compose composes the selected document. Warnings are collected in the
// returned buffer rather than logged.
func (o *Options) compose(ctx context.Context) (value.Node, *log.Buffer, error) {
	buf := log.NewBuffer(log.LevelWarn)
	logger := buf.Logger()

	vars, err := o.variables(ctx, logger)
	if err != nil {
		return nil, buf, err
	}

	templates, err := o.templates()
	if err != nil {
		return nil, buf, err
	}

	opts := []composer.Option{
		composer.WithLogger(logger),
		composer.WithVariables(vars),
		composer.WithTemplates(templates),
		composer.WithMaxDepth(o.MaxDepth),
	}

	if o.ConfigRoot != "" {
		opts = append(opts, composer.WithConfigRoot(o.ConfigRoot))
	}

	if o.SourceRoot != "" {
		opts = append(opts, composer.WithSourceRoot(o.SourceRoot))
	}

	c := composer.New(opts...)

	if o.File != stdinSource && o.File != "" {
		doc, err := c.ComposeFile(ctx, o.File)

		return doc, buf, err
	}

	data, err := readAll(os.Stdin)
	if err != nil {
		return nil, buf, pkg.ErrReadInput.Wrap(err).With(slog.String("file", "<stdin>"))
	}

	root, err := document.Parse("<stdin>", data)
	if err != nil {
		return nil, buf, err
	}

	return c.Compose(ctx, root, ""), buf, nil
}

// variables merges the variables files in order, then the -D flags. Later
// sources win. Variables files are composed, so they may include others.
func (o *Options) variables(ctx context.Context, logger log.Logger) (*value.Map, error) {
	vars := value.NewMap(len(o.Vars))
	c := composer.New(composer.WithLogger(logger))

	for _, file := range uniqueFiles(o.VarsFile) {
		doc, err := c.ComposeFile(ctx, file)
		if err != nil {
			return nil, ErrReadVars.Wrap(err).With(slog.String("file", file))
		}

		m, ok := doc.(*value.Map)
		if !ok {
			if value.IsNull(doc) {
				continue
			}

			return nil, ErrReadVars.With(
				slog.String("file", file),
				slog.String("type", value.TypeName(doc)),
			)
		}

		vars = vars.Overlay(m)
	}

	for _, k := range slices.Sorted(maps.Keys(o.Vars)) {
		vars.Set(k, document.ParseScalar(o.Vars[k]))
	}

	return vars, nil
}

// templates merges the templates files in order. Template bodies are kept
// unresolved.
func (o *Options) templates() (*value.Map, error) {
	templates := value.NewMap(0)

	for _, file := range uniqueFiles(o.TemplatesFile) {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, pkg.ErrReadInput.Wrap(err).With(slog.String("file", file))
		}

		doc, err := document.Parse(file, data)
		if err != nil {
			return nil, err
		}

		m, ok := doc.(*value.Map)
		if !ok {
			if value.IsNull(doc) {
				continue
			}

			return nil, pkg.ErrReadInput.With(
				slog.String("file", file),
				slog.String("templates", value.TypeName(doc)),
			)
		}

		templates = templates.Overlay(m)
	}

	return templates, nil
}

// Compose composes a document and writes the result.
type Compose struct {
	Options `embed:""`

	Format string `default:"${formatDefault}" enum:"${formatEnum}" help:"Output format" short:"F"`
	Indent int    `default:"${indentDefault}"                      help:"Indent width"  short:"i"`
	Output string `default:"-"                                     help:"Output file or '-' for stdout" short:"o" type:"path"`

	stdout, stderr io.Writer
	create         func(name string) (io.WriteCloser, error)
}

// Run executes the compose command.
func (c *Compose) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	format, err := document.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	doc, buf, err := c.compose(ctx)

	Report(writerOr(c.stderr, os.Stderr), buf.Warnings())

	if err != nil {
		return err
	}

	log.DebugContext(ctx, "composed document",
		slog.String("file", c.File),
		slog.Int("warnings", len(buf.Warnings())),
	)

	if c.Output == stdinSource || c.Output == "" {
		return document.Encode(ctx, writerOr(c.stdout, os.Stdout), doc, format, c.Indent)
	}

	create := c.create
	if create == nil {
		create = func(name string) (io.WriteCloser, error) { return os.Create(name) }
	}

	file, err := create(c.Output)
	if err != nil {
		return pkg.ErrWriteOutput.Wrap(err).With(slog.String("file", c.Output))
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = pkg.ErrWriteOutput.Wrap(cerr).With(slog.String("file", c.Output))
		}
	}()

	return document.Encode(ctx, file, doc, format, c.Indent)
}

// Check composes a document and fails if composition produced warnings.
type Check struct {
	Options `embed:""`

	stderr io.Writer
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	_, buf, err := c.compose(ctx)
	if err != nil {
		return err
	}

	warnings := buf.Warnings()

	Report(writerOr(c.stderr, os.Stderr), warnings)

	if len(warnings) > 0 {
		return ErrWarnings.With(
			slog.String("file", c.File),
			slog.Int("count", len(warnings)),
		)
	}

	return nil
}

func readAll(r io.Reader) ([]byte, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	return io.ReadAll(ra)
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}

	return w
}
