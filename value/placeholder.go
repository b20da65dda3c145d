package value

import "strconv"

// Kind identifies a placeholder variant.
type Kind int

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

const (
	KindSub     Kind = iota // sub
	KindNoSub               // nosub
	KindIf                  // if
	KindRemove              // remove
	KindInclude             // include
	KindInsert              // insert
	KindReplace             // replace
)

// Tag returns the YAML tag that introduces the kind.
func (k Kind) Tag() string { return "!" + k.String() }

// Position locates a node in its source document.
type Position struct {
	File   string
	Line   int
	Column int
}

// String renders the position as path:line:column.
func (p Position) String() string {
	file := p.File
	if file == "" {
		file = "<input>"
	}

	if p.Line <= 0 {
		return file
	}

	return file + ":" + strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Placeholder is an unresolved macro operation in a document tree.
type Placeholder interface {
	Node
	// Kind identifies the variant.
	Kind() Kind
	// Location is the position of the tag in its source document.
	Location() Position
	// Payload is the tagged sub-tree.
	Payload() Node
}

// Sub interpolates its payload. A string payload is a template; a container
// payload enables interpolation of every plain string below it.
// Pattern names the variable that holds a custom delimiter specification.
type Sub struct {
	Pos     Position
	Value   Node
	Pattern string
}

// NoSub disables an inherited substitution context for its payload.
type NoSub struct {
	Pos   Position
	Value Node
}

// If selects one of several branches by condition.
type If struct {
	Pos   Position
	Value Node
}

// Remove deletes the node it tags.
type Remove struct {
	Pos   Position
	Value Node
}

// Include splices in another YAML file.
type Include struct {
	Pos   Position
	Value Node
}

// Insert splices in a named template.
type Insert struct {
	Pos   Position
	Value Node
}

// Replace resolves to its payload.
type Replace struct {
	Pos   Position
	Value Node
}

func (*Sub) node()     {}
func (*NoSub) node()   {}
func (*If) node()      {}
func (*Remove) node()  {}
func (*Include) node() {}
func (*Insert) node()  {}
func (*Replace) node() {}

func (*Sub) Kind() Kind     { return KindSub }
func (*NoSub) Kind() Kind   { return KindNoSub }
func (*If) Kind() Kind      { return KindIf }
func (*Remove) Kind() Kind  { return KindRemove }
func (*Include) Kind() Kind { return KindInclude }
func (*Insert) Kind() Kind  { return KindInsert }
func (*Replace) Kind() Kind { return KindReplace }

func (p *Sub) Location() Position     { return p.Pos }
func (p *NoSub) Location() Position   { return p.Pos }
func (p *If) Location() Position      { return p.Pos }
func (p *Remove) Location() Position  { return p.Pos }
func (p *Include) Location() Position { return p.Pos }
func (p *Insert) Location() Position  { return p.Pos }
func (p *Replace) Location() Position { return p.Pos }

func (p *Sub) Payload() Node     { return orNull(p.Value) }
func (p *NoSub) Payload() Node   { return orNull(p.Value) }
func (p *If) Payload() Node      { return orNull(p.Value) }
func (p *Remove) Payload() Node  { return orNull(p.Value) }
func (p *Include) Payload() Node { return orNull(p.Value) }
func (p *Insert) Payload() Node  { return orNull(p.Value) }
func (p *Replace) Payload() Node { return orNull(p.Value) }

// NewPlaceholder builds the placeholder of kind k around payload.
func NewPlaceholder(k Kind, pos Position, payload Node) (Placeholder, bool) {
	switch k {
	case KindSub:
		return &Sub{Pos: pos, Value: payload}, true
	case KindNoSub:
		return &NoSub{Pos: pos, Value: payload}, true
	case KindIf:
		return &If{Pos: pos, Value: payload}, true
	case KindRemove:
		return &Remove{Pos: pos, Value: payload}, true
	case KindInclude:
		return &Include{Pos: pos, Value: payload}, true
	case KindInsert:
		return &Insert{Pos: pos, Value: payload}, true
	case KindReplace:
		return &Replace{Pos: pos, Value: payload}, true
	default:
		return nil, false
	}
}

// ParseKind returns the kind introduced by a YAML tag such as "!include".
func ParseKind(tag string) (Kind, bool) {
	for k := KindSub; k <= KindReplace; k++ {
		if k.Tag() == tag {
			return k, true
		}
	}

	return 0, false
}

func orNull(n Node) Node {
	if n == nil {
		return Null{}
	}

	return n
}
