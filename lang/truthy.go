package lang

import (
	"strings"

	"github.com/ardnew/ycomp/value"
)

// IsTruthy reports whether n counts as true in a condition.
//
// Null, false, numeric zero, blank strings, the string "false" (in any
// case), and empty collections are false. Every other value is true,
// including kinds with no defined truth value such as unresolved
// placeholders.
func IsTruthy(n value.Node) bool {
	switch n := n.(type) {
	case nil, value.Null:
		return false
	case value.Bool:
		return bool(n)
	case value.Int:
		return n != 0
	case value.Float:
		return n != 0
	case value.String:
		s := strings.TrimSpace(string(n))

		return s != "" && !strings.EqualFold(s, "false")
	case value.Seq:
		return len(n) > 0
	case *value.Map:
		return n.Len() > 0
	default:
		return true
	}
}
