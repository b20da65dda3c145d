// Package composer resolves the custom tags of YAML documents.
//
// A document is decoded by [document.Parse] into a tree of [value.Node]
// where every custom tag is a [value.Placeholder]. A [Composer] walks the
// tree and replaces each placeholder with the value it stands for:
//
//	!sub      interpolate ${...} expressions in the payload
//	!nosub    disable interpolation for the payload
//	!if       keep the first branch whose condition holds
//	!include  replace with another document
//	!insert   replace with a template of the current document
//	!remove   delete the node
//	!replace  replace with the payload
//
// # Scopes
//
// Every document sees the variables of its caller, then its predefined
// variables (__FILE__, __FILE_NAME__, __FILE_EXT__, __DIRECTORY__ and
// CONFIG_ROOT), then its own top-level variables block. Earlier sources
// win. An include passes its whole scope, overlaid with its own parameters,
// to the included document. An insert passes only its own parameters to the
// template.
//
// # Warnings
//
// Composition never fails. Each problem is logged as a warning carrying the
// path:line:column of the placeholder that caused it, and the offending node
// degrades or is removed. Use a [log.Buffer] to collect the warnings of one
// composition.
//
// # Caching
//
// Included documents are parsed once and kept in a [Cache] keyed by
// canonical path. A cached document is reused until the file's modification
// time or size changes, and is reparsed only if its content hash changes.
package composer
