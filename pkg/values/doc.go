// Package values implements the lazy value-reference system and the
// environment-overlay merge.
//
// A Reference is a typed, explicit pointer into the hierarchical values
// namespace consumed by the downstream rendering engine. References render
// to a fixed, documented subset of Go-template-with-Sprig directive syntax:
// value lookup, numeric and boolean coercion, printf composition, and
// indexed sequence-element lookup. The generator only emits these
// directives; it never evaluates them.
//
// Merge implements the deep-merge policy for environment overlays: where
// both sides hold a mapping the merge recurses, everywhere else the overlay
// value replaces the base value wholesale. Sequences are never concatenated.
package values
