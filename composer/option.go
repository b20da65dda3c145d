package composer

import (
	"github.com/ardnew/ycomp/log"
	"github.com/ardnew/ycomp/value"
)

// DefaultMaxDepth bounds the nesting of includes and inserts.
const DefaultMaxDepth = 64

// Option configures a [Composer].
type Option func(*Composer)

// WithConfigRoot sets the directory that "@"-prefixed include paths are
// resolved against. It defaults to the directory of the root document.
func WithConfigRoot(dir string) Option {
	return func(c *Composer) { c.configRoot = dir }
}

// WithSourceRoot sets the directory that "$"-prefixed include paths are
// resolved against. By default it is the first directory below the config
// root that contains the including document.
func WithSourceRoot(dir string) Option {
	return func(c *Composer) { c.sourceRoot = dir }
}

// WithVariables sets variables visible to the root document. They take
// precedence over the document's own variables block.
func WithVariables(vars *value.Map) Option {
	return func(c *Composer) { c.variables = vars.Clone() }
}

// WithTemplates sets templates available to !insert in the root document.
// Templates declared by the document itself take precedence.
func WithTemplates(templates *value.Map) Option {
	return func(c *Composer) { c.templates = templates.Clone() }
}

// WithLogger sets the logger that receives warnings and trace output.
func WithLogger(logger log.Logger) Option {
	return func(c *Composer) { c.logger = logger }
}

// WithCache shares cache between composers. A nil cache is ignored.
func WithCache(cache *Cache) Option {
	return func(c *Composer) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// WithFileSystem sets the file system included documents are read from.
// A nil file system is ignored.
func WithFileSystem(fsys FileSystem) Option {
	return func(c *Composer) {
		if fsys != nil {
			c.fsys = fsys
		}
	}
}

// WithMaxDepth bounds the nesting of includes and inserts. Values less than
// one are ignored.
func WithMaxDepth(depth int) Option {
	return func(c *Composer) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}
