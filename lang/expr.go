package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/ardnew/ycomp/log"
	"github.com/ardnew/ycomp/pkg"
	"github.com/ardnew/ycomp/value"
)

// Environment builds the expression environment for a variable scope: the
// builtins, overlaid by every variable in its plain form, and [VarsName]
// bound to the whole scope.
func Environment(vars *value.Map) map[string]any {
	env := makeBuiltins()
	all := make(map[string]any, vars.Len())

	for k, v := range vars.All() {
		p := value.Plain(v)
		env[k] = p
		all[k] = p
	}

	env[VarsName] = all

	return env
}

// Evaluate compiles and runs the expression src against vars.
//
// The error is [pkg.ErrExprCompile] if src does not parse,
// [pkg.ErrUndefined] if it references a name that is neither a variable nor
// a builtin, and [pkg.ErrExprEvaluate] if it fails at run time.
// The undefined names are attached as the "names" attribute.
func Evaluate(src string, vars *value.Map) (value.Node, error) {
	return evaluate(src, Environment(vars), log.Discard())
}

func evaluate(src string, env map[string]any, logger log.Logger) (value.Node, error) {
	src = normalizePipes(src)
	patcher := &hyphenPatcher{env: env, logger: logger}

	tree, err := parser.Parse(src)
	if err != nil {
		return nil, pkg.ErrExprCompile.Wrap(err).With(slog.String("source", src))
	}

	ast.Walk(&tree.Node, patcher)

	if names := undefinedNames(tree.Node, env); len(names) > 0 {
		return nil, pkg.ErrUndefined.With(
			slog.String("source", src),
			slog.Any("names", names),
		)
	}

	program, err := expr.Compile(src,
		expr.Env(env),
		expr.AllowUndefinedVariables(),
		expr.Patch(patcher),
	)
	if err != nil {
		return nil, pkg.ErrExprCompile.Wrap(err).With(slog.String("source", src))
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, pkg.ErrExprEvaluate.Wrap(err).With(slog.String("source", src))
	}

	return value.FromPlain(out), nil
}

// UndefinedNames returns the names an [pkg.ErrUndefined] error reports.
func UndefinedNames(err error) []string {
	var e *pkg.Error
	if !errors.As(err, &e) {
		return nil
	}

	for _, a := range e.Attrs() {
		if a.Key == "names" {
			names, _ := a.Value.Any().([]string)

			return names
		}
	}

	return nil
}

// guardFuncs are the functions whose first argument may be undefined.
//
//nolint:gochecknoglobals
var guardFuncs = []string{"default"}

// undefinedNames lists, in order of appearance and without duplicates, the
// identifiers in node that env does not define. Identifiers declared with
// let, and those guarded by default() or the ?? operator, are ignored.
func undefinedNames(node ast.Node, env map[string]any) []string {
	c := &identCollector{
		guarded:  make(map[ast.Node]bool),
		declared: make(map[string]bool),
	}

	ast.Walk(&node, c)

	var names []string

	for _, id := range c.idents {
		if c.guarded[id] || c.declared[id.Value] {
			continue
		}

		if _, ok := env[id.Value]; ok || slices.Contains(names, id.Value) {
			continue
		}

		names = append(names, id.Value)
	}

	return names
}

type identCollector struct {
	idents   []*ast.IdentifierNode
	guarded  map[ast.Node]bool
	declared map[string]bool
}

func (c *identCollector) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		c.idents = append(c.idents, n)

	case *ast.VariableDeclaratorNode:
		c.declared[n.Name] = true

	case *ast.CallNode:
		id, ok := n.Callee.(*ast.IdentifierNode)
		if ok && slices.Contains(guardFuncs, id.Value) && len(n.Arguments) > 0 {
			c.guard(n.Arguments[0])
		}

	case *ast.BinaryNode:
		if n.Operator == "??" {
			c.guard(n.Left)
		}
	}
}

// guard marks every identifier in node as allowed to be undefined.
func (c *identCollector) guard(node ast.Node) {
	ast.Walk(&node, visitorFunc(func(n *ast.Node) {
		if id, ok := (*n).(*ast.IdentifierNode); ok {
			c.guarded[id] = true
		}
	}))
}

type visitorFunc func(*ast.Node)

func (f visitorFunc) Visit(n *ast.Node) { f(n) }

// normalizePipes appends an empty argument list to filter names applied
// with the pipe operator, so that "x | label" reads as "x | label()".
func normalizePipes(src string) string {
	if !strings.Contains(src, "|") {
		return src
	}

	var (
		sb    strings.Builder
		quote byte
	)

	for i := 0; i < len(src); i++ {
		c := src[i]
		sb.WriteByte(c)

		if quote != 0 {
			switch c {
			case '\\':
				if i+1 < len(src) {
					i++
					sb.WriteByte(src[i])
				}
			case quote:
				quote = 0
			}

			continue
		}

		switch c {
		case '\'', '"', '`':
			quote = c

			continue
		case '|':
		default:
			continue
		}

		// "||" is logical or.
		if i+1 < len(src) && src[i+1] == '|' {
			i++
			sb.WriteByte('|')

			continue
		}

		j := i + 1
		for j < len(src) && src[j] == ' ' {
			j++
		}

		k := j
		for k < len(src) && isIdentByte(src[k]) {
			k++
		}

		if k == j {
			continue
		}

		sb.WriteString(src[i+1 : k])

		l := k
		for l < len(src) && src[l] == ' ' {
			l++
		}

		if l >= len(src) || src[l] != '(' {
			sb.WriteString("()")
		}

		i = k - 1
	}

	return sb.String()
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
