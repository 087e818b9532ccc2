package values

import (
	"strings"

	"github.com/chartsmith/chartsmith/pkg/errors"
)

// SetPath sets a dotted path in doc to value, creating intermediate maps
// as needed, and returns a new tree. The input is not mutated. Setting
// through a non-mapping intermediate fails rather than silently replacing
// the caller's scalar.
func SetPath(doc map[string]any, path string, value any) (map[string]any, error) {
	segments := strings.Split(path, ".")
	for _, s := range segments {
		if s == "" {
			return nil, errors.Newf(errors.ErrCodeInvalidRequest, "value path %q has an empty segment", path)
		}
	}

	result, ok := deepCopy(doc).(map[string]any)
	if !ok || result == nil {
		result = make(map[string]any)
	}

	current := result
	for _, s := range segments[:len(segments)-1] {
		next, exists := current[s]
		if !exists {
			child := make(map[string]any)
			current[s] = child
			current = child
			continue
		}
		child, isMap := next.(map[string]any)
		if !isMap {
			return nil, errors.Newf(errors.ErrCodeInvalidRequest,
				"value path %q crosses non-mapping segment %q", path, s)
		}
		current = child
	}
	current[segments[len(segments)-1]] = value

	return result, nil
}
