package chart

import (
	"strings"

	"github.com/distribution/reference"

	"github.com/chartsmith/chartsmith/pkg/errors"
	"github.com/chartsmith/chartsmith/pkg/synth"
)

// LintImages walks every manifest tree and validates static container
// image strings found under "image" keys. Values carrying template
// directives are skipped; they resolve downstream. Returns the first
// invalid reference found.
func LintImages(c *Chart) error {
	for _, m := range c.Manifests {
		if err := lintNode(m.ID, m.Spec); err != nil {
			return err
		}
	}
	for _, sub := range c.Subcharts {
		if sub.Chart != nil {
			if err := LintImages(sub.Chart); err != nil {
				return err
			}
		}
	}
	return nil
}

func lintNode(manifestID string, node any) error {
	switch n := node.(type) {
	case synth.Map:
		for _, e := range n {
			if e.Key == "image" {
				if err := lintImageValue(manifestID, e.Value); err != nil {
					return err
				}
			}
			if err := lintNode(manifestID, e.Value); err != nil {
				return err
			}
		}
	case map[string]any:
		for k, v := range n {
			if k == "image" {
				if err := lintImageValue(manifestID, v); err != nil {
					return err
				}
			}
			if err := lintNode(manifestID, v); err != nil {
				return err
			}
		}
	case []any:
		for _, item := range n {
			if err := lintNode(manifestID, item); err != nil {
				return err
			}
		}
	case synth.Conditional:
		return lintNode(manifestID, n.Subtree)
	}
	return nil
}

func lintImageValue(manifestID string, v any) error {
	s, ok := v.(string)
	if !ok || s == "" || strings.Contains(s, "{{") {
		return nil
	}
	if _, err := reference.ParseAnyReference(s); err != nil {
		return errors.Newf(errors.ErrCodeInvalidRequest,
			"manifest %s: invalid image reference %q", manifestID, s)
	}
	return nil
}
