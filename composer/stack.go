package composer

// includeStack is the chain of documents being resolved, innermost first.
// It is immutable: push returns a new stack and leaves the receiver
// untouched, so sibling includes never observe each other.
type includeStack struct {
	path   string
	parent *includeStack
}

func (s *includeStack) push(path string) *includeStack {
	return &includeStack{path: path, parent: s}
}

func (s *includeStack) contains(path string) bool {
	for ; s != nil; s = s.parent {
		if s.path == path {
			return true
		}
	}

	return false
}

// chain returns the paths from the root document to the innermost one.
func (s *includeStack) chain() []string {
	var paths []string

	for ; s != nil; s = s.parent {
		paths = append(paths, s.path)
	}

	for i, j := 0, len(paths)-1; i < j; i, j = i+1, j-1 {
		paths[i], paths[j] = paths[j], paths[i]
	}

	return paths
}

func (s *includeStack) len() int {
	n := 0
	for ; s != nil; s = s.parent {
		n++
	}

	return n
}
