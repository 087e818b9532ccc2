// Package errors provides code-tagged errors for chart generation failures.
//
// Every failure surfaced by the library carries one of a small set of codes
// (invalid path, invalid identifier, unsupported node, subchart write
// failure, invalid metadata) so callers can branch on the class of failure
// while still unwrapping the underlying cause with the standard library's
// errors.Is and errors.As.
package errors
