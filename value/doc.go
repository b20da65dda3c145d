// Package value defines the document tree handled by the composer.
//
// A tree is built from the scalar kinds [Null], [Bool], [Int], [Float] and
// [String], the containers [Seq] and [*Map], and the [Placeholder] variants
// that stand for unresolved macro operations ([*Sub], [*NoSub], [*If],
// [*Remove], [*Include], [*Insert] and [*Replace]). The set of variants is
// closed: [Node] has an unexported method, so only this package can add kinds.
//
// A fully composed tree contains neither placeholders nor [Removed].
package value
