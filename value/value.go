package value

import (
	"fmt"
	"math"
	"strconv"
)

// Node is a single element of a document tree.
type Node interface {
	node()
}

type (
	// Null is the YAML null value.
	Null struct{}
	// Bool is a YAML boolean.
	Bool bool
	// Int is a YAML integer.
	Int int64
	// Float is a YAML floating-point number.
	Float float64
	// String is a YAML string scalar.
	String string
	// Seq is a YAML sequence.
	Seq []Node
)

func (Null) node()   {}
func (Bool) node()   {}
func (Int) node()    {}
func (Float) node()  {}
func (String) node() {}
func (Seq) node()    {}
func (*Map) node()   {}

// removal is the type of [Removed].
type removal struct{}

func (removal) node() {}

// Removed is the signal a processor returns to delete the node that produced
// it. A mapping drops the key, a sequence drops the element, and an include
// or insert result removes the invocation site.
//
//nolint:gochecknoglobals
var Removed Node = removal{}

// IsRemoved reports whether n is the [Removed] signal.
func IsRemoved(n Node) bool {
	_, ok := n.(removal)

	return ok
}

// IsNull reports whether n is nil or [Null].
func IsNull(n Node) bool {
	if n == nil {
		return true
	}

	_, ok := n.(Null)

	return ok
}

// Scalar reports whether n is one of the scalar kinds.
func Scalar(n Node) bool {
	switch n.(type) {
	case Null, Bool, Int, Float, String:
		return true
	default:
		return false
	}
}

// TypeName returns a short name for the kind of n, used in diagnostics.
func TypeName(n Node) string {
	switch n := n.(type) {
	case nil:
		return "nil"
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Seq:
		return "sequence"
	case *Map:
		return "mapping"
	case removal:
		return "removed"
	case Placeholder:
		return n.Kind().String()
	default:
		return fmt.Sprintf("%T", n)
	}
}

// Scalars render the way they read in a YAML plain scalar.

func (Null) String() string     { return "null" }
func (b Bool) String() string   { return strconv.FormatBool(bool(b)) }
func (i Int) String() string    { return strconv.FormatInt(int64(i), 10) }
func (s String) String() string { return string(s) }

func (f Float) String() string {
	switch v := float64(f); {
	case math.IsNaN(v):
		return ".nan"
	case math.IsInf(v, 1):
		return ".inf"
	case math.IsInf(v, -1):
		return "-.inf"
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}
