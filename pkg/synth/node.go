package synth

import (
	"github.com/chartsmith/chartsmith/pkg/values"
)

// Map is an order-preserving mapping node. Keys serialize in the order
// given, never sorted, so regeneration from identical input is diff-stable.
type Map []Entry

// Entry is a single key/value pair of a Map.
type Entry struct {
	Key   string
	Value any
}

// Get returns the value for key and whether it is present.
func (m Map) Get(key string) (any, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Conditional marks a subtree that renders only when its condition holds.
// It occupies exactly the position the guarded field would hold; the
// synthesizer never serializes the subtree inline, it re-derives the
// correct indentation during the splice phase.
type Conditional struct {
	// Condition is the template condition expression without delimiters,
	// e.g. ".Values.mysql.enabled".
	Condition string

	// Subtree is the guarded node. An empty subtree still emits a valid
	// empty block (open directive immediately followed by close).
	Subtree any
}

// If wraps subtree so it is emitted only when condition holds.
func If(condition string, subtree any) Conditional {
	return Conditional{Condition: condition, Subtree: subtree}
}

// IfRef wraps subtree guarded by the truthiness of a value reference.
func IfRef(ref values.Reference, subtree any) Conditional {
	return Conditional{Condition: ref.Expr(), Subtree: subtree}
}

// isEmptyNode reports whether a guarded subtree has no content to emit.
func isEmptyNode(v any) bool {
	switch n := v.(type) {
	case nil:
		return true
	case Map:
		return len(n) == 0
	case map[string]any:
		return len(n) == 0
	case map[string]string:
		return len(n) == 0
	case []any:
		return len(n) == 0
	case []string:
		return len(n) == 0
	default:
		return false
	}
}
