package synth

import (
	"regexp"
	"strings"

	"github.com/chartsmith/chartsmith/pkg/errors"
)

const sentinelPrefix = "$chartsmith-cond-"

var sentinelRe = regexp.MustCompile(`^\$chartsmith-cond-([0-9a-f-]{36})\$$`)

func sentinelToken(id string) string {
	return sentinelPrefix + id + "$"
}

// spliceAll substitutes every sentinel placeholder with its guarded block,
// re-running the pass until nested conditionals are fully resolved.
func spliceAll(text string, holes map[string]string) (string, error) {
	// Each pass resolves one nesting depth; depth is bounded by the number
	// of registered holes.
	for i := 0; i <= len(holes); i++ {
		out, changed, err := splicePass(text, holes)
		if err != nil {
			return "", err
		}
		if !changed {
			if hasUnresolvedPlaceholder(out) {
				return "", errors.New(errors.ErrCodeInternal, "unresolved placeholder in synthesized output")
			}
			return out, nil
		}
		text = out
	}
	return "", errors.New(errors.ErrCodeInternal, "conditional splice did not converge")
}

// hasUnresolvedPlaceholder reports whether text still carries a generated
// placeholder. Only exact indicator or sentinel lines count; a user scalar
// that merely contains the marker text is legitimate output.
func hasUnresolvedPlaceholder(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimPrefix(strings.TrimSpace(line), "- ")
		if trimmed == holeKey+": |-" || sentinelRe.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// splicePass replaces each sentinel line (and its enclosing block-scalar
// indicator line) with the guarded block shifted right to the indicator's
// column. Blocks inserted by this pass are scanned again by the next pass.
func splicePass(text string, holes map[string]string) (string, bool, error) {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	changed := false

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		match := sentinelRe.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			out = append(out, line)
			continue
		}

		guarded, ok := holes[match[1]]
		if !ok {
			return "", false, errors.Newf(errors.ErrCodeInternal, "sentinel %s has no registered subtree", match[1])
		}
		if len(out) == 0 || !strings.Contains(out[len(out)-1], holeKey) {
			return "", false, errors.New(errors.ErrCodeInternal, "sentinel line without enclosing placeholder")
		}

		// The placeholder's column is the indicator line's leading
		// whitespace; the guarded block was rendered at column zero, so
		// the shift is the full indicator indentation.
		indicator := out[len(out)-1]
		shift := indicator[:len(indicator)-len(strings.TrimLeft(indicator, " "))]
		out = out[:len(out)-1]

		for _, guardedLine := range strings.Split(strings.TrimSuffix(guarded, "\n"), "\n") {
			if guardedLine == "" {
				out = append(out, "")
				continue
			}
			out = append(out, shift+guardedLine)
		}
		changed = true
	}

	return strings.Join(out, "\n"), changed, nil
}
