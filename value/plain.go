package value

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Plain converts n into ordinary Go values: nil, bool, int, float64, string,
// []any and map[string]any. Unresolved placeholders and [Removed] become nil.
//
// Plain values feed the expression environment, where member and index
// access work on native maps and slices.
func Plain(n Node) any {
	switch n := n.(type) {
	case Bool:
		return bool(n)
	case Int:
		return int(n)
	case Float:
		return float64(n)
	case String:
		return string(n)
	case Seq:
		s := make([]any, len(n))
		for i, e := range n {
			s[i] = Plain(e)
		}

		return s
	case *Map:
		m := make(map[string]any, n.Len())
		for k, v := range n.All() {
			m[k] = Plain(v)
		}

		return m
	default:
		return nil
	}
}

// FromPlain converts an ordinary Go value into a [Node]. Maps with string
// keys are ordered by key since Go maps carry no order. Values of any other
// kind are rendered with fmt.
func FromPlain(v any) Node {
	switch v := v.(type) {
	case nil:
		return Null{}
	case Node:
		return v
	case bool:
		return Bool(v)
	case int:
		return Int(v)
	case int8:
		return Int(v)
	case int16:
		return Int(v)
	case int32:
		return Int(v)
	case int64:
		return Int(v)
	case uint:
		return Int(v) //nolint:gosec
	case uint8:
		return Int(v)
	case uint16:
		return Int(v)
	case uint32:
		return Int(v)
	case uint64:
		return Int(v) //nolint:gosec
	case float32:
		return Float(v)
	case float64:
		return Float(v)
	case string:
		return String(v)
	case []byte:
		return String(v)
	case []any:
		s := make(Seq, len(v))
		for i, e := range v {
			s[i] = FromPlain(e)
		}

		return s
	case []string:
		s := make(Seq, len(v))
		for i, e := range v {
			s[i] = String(e)
		}

		return s
	case map[string]any:
		m := NewMap(len(v))
		for _, k := range slices.Sorted(maps.Keys(v)) {
			m.Set(k, FromPlain(v[k]))
		}

		return m
	case map[string]string:
		m := NewMap(len(v))
		for _, k := range slices.Sorted(maps.Keys(v)) {
			m.Set(k, String(v[k]))
		}

		return m
	}

	return fromReflect(reflect.ValueOf(v))
}

func fromReflect(rv reflect.Value) Node {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}
		}

		return FromPlain(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		s := make(Seq, rv.Len())
		for i := range rv.Len() {
			s[i] = FromPlain(rv.Index(i).Interface())
		}

		return s
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		vals := make(map[string]any, rv.Len())

		for it := rv.MapRange(); it.Next(); {
			k := fmt.Sprint(it.Key().Interface())
			keys = append(keys, k)
			vals[k] = it.Value().Interface()
		}

		slices.Sort(keys)

		m := NewMap(len(keys))
		for _, k := range keys {
			m.Set(k, FromPlain(vals[k]))
		}

		return m
	default:
		return String(fmt.Sprint(rv.Interface()))
	}
}

// Equal reports whether a and b are structurally equal resolved trees,
// including mapping key order.
func Equal(a, b Node) bool {
	switch a := a.(type) {
	case Seq:
		b, ok := b.(Seq)

		return ok && slices.EqualFunc(a, b, Equal)
	case *Map:
		b, ok := b.(*Map)
		if !ok || a.Len() != b.Len() {
			return false
		}

		if !slices.Equal(a.keys, b.keys) {
			return false
		}

		for k, v := range a.All() {
			if !Equal(v, b.vals[k]) {
				return false
			}
		}

		return true
	case nil:
		return b == nil
	default:
		return a == b
	}
}
