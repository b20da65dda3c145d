package lang

import (
	"log/slog"

	"github.com/expr-lang/expr/ast"

	"github.com/ardnew/ycomp/log"
)

// hyphenPatcher reconstructs hyphenated identifiers from the subtraction
// chains expr-lang parses them into.
//
// Variable names such as "log-level" are common in YAML, but the expression
// "log-level" reads as log minus level. When the combined name exists in
// the environment (or as a key of a map reached by member access), the
// subtraction is patched into a single identifier or member access.
type hyphenPatcher struct {
	env    map[string]any
	logger log.Logger
}

// Visit implements ast.Visitor.
func (p *hyphenPatcher) Visit(node *ast.Node) {
	bin, ok := (*node).(*ast.BinaryNode)
	if !ok {
		return
	}

	base, property, ok := extractHyphenChain(bin)
	if !ok {
		return
	}

	if base == nil {
		if _, ok := p.env[property]; ok {
			ast.Patch(node, &ast.IdentifierNode{Value: property})
			p.trace(property, "identifier")
		}

		return
	}

	path, ok := extractMemberPath(base)
	if !ok || !p.hasChild(path, property) {
		return
	}

	ast.Patch(node, &ast.MemberNode{
		Node:     base,
		Property: &ast.StringNode{Value: property},
	})
	p.trace(property, "member")
}

func (p *hyphenPatcher) trace(name, kind string) {
	p.logger.Trace("patch hyphenated",
		slog.String("name", name),
		slog.String("patch_type", kind))
}

// extractHyphenChain walks a chain of unpatched subtractions and returns
// the base of a member access (nil for a top-level identifier) and the
// hyphen-joined name.
func extractHyphenChain(
	bin *ast.BinaryNode,
) (base ast.Node, property string, ok bool) {
	if bin.Operator != "-" {
		return nil, "", false
	}

	right, ok := bin.Right.(*ast.IdentifierNode)
	if !ok {
		return nil, "", false
	}

	switch left := bin.Left.(type) {
	case *ast.MemberNode:
		prop, ok := left.Property.(*ast.StringNode)
		if !ok {
			return nil, "", false
		}

		return left.Node, prop.Value + "-" + right.Value, true

	case *ast.BinaryNode:
		innerBase, innerProp, ok := extractHyphenChain(left)
		if !ok {
			return nil, "", false
		}

		return innerBase, innerProp + "-" + right.Value, true

	case *ast.IdentifierNode:
		return nil, left.Value + "-" + right.Value, true

	default:
		return nil, "", false
	}
}

// extractMemberPath walks a member access chain to produce path segments.
func extractMemberPath(node ast.Node) ([]string, bool) {
	switch n := node.(type) {
	case *ast.IdentifierNode:
		return []string{n.Value}, true

	case *ast.MemberNode:
		prop, ok := n.Property.(*ast.StringNode)
		if !ok {
			return nil, false
		}

		base, ok := extractMemberPath(n.Node)
		if !ok {
			return nil, false
		}

		return append(base, prop.Value), true

	default:
		return nil, false
	}
}

// hasChild reports whether the map found at path has the key name.
func (p *hyphenPatcher) hasChild(path []string, name string) bool {
	var cur any = p.env

	for _, seg := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return false
		}

		if cur, ok = m[seg]; !ok {
			return false
		}
	}

	m, ok := cur.(map[string]any)
	if !ok {
		return false
	}

	_, ok = m[name]

	return ok
}
