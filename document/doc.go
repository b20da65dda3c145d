// Package document converts between YAML text and [value.Node] trees.
//
// [Parse] walks the AST produced by github.com/goccy/go-yaml and recognizes
// the composer tags (!sub, !sub:<pattern>, !nosub, !if, !remove, !include,
// !insert, !replace), materializing each as the matching placeholder with its
// source position. Anchors and aliases are expanded, and the standard
// scalar tags (!!str, !!int, ...) are honored.
//
// [Encode] and [Marshal] write a resolved tree as YAML or JSON, keeping the
// order of mapping keys.
package document
