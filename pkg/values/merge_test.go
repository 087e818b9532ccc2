package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeIdentity(t *testing.T) {
	a := map[string]any{"x": 1, "nested": map[string]any{"y": "z"}}

	assert.Equal(t, a, Merge(a, map[string]any{}))
	assert.Equal(t, a, Merge(map[string]any{}, a))
}

func TestMergeRecursesMappings(t *testing.T) {
	base := map[string]any{
		"mysql": map[string]any{
			"storage": "8Gi",
			"user":    "app",
		},
	}
	overlay := map[string]any{
		"mysql": map[string]any{
			"storage": "20Gi",
		},
	}

	merged := Merge(base, overlay)
	assert.Equal(t, map[string]any{
		"mysql": map[string]any{
			"storage": "20Gi",
			"user":    "app",
		},
	}, merged)
}

func TestMergeReplacesSequences(t *testing.T) {
	// Lists are replaced wholesale, never concatenated. Overlay authors
	// sometimes expect concatenation; this test pins the replacement
	// policy so any change to it has to be deliberate.
	base := map[string]any{"hosts": []any{"a.example.com", "b.example.com"}}
	overlay := map[string]any{"hosts": []any{"c.example.com"}}

	merged := Merge(base, overlay)
	assert.Equal(t, []any{"c.example.com"}, merged["hosts"])
}

func TestMergeOverlayWinsForScalars(t *testing.T) {
	base := map[string]any{"replicas": 1, "tag": "v1"}
	overlay := map[string]any{"replicas": 3}

	merged := Merge(base, overlay)
	assert.Equal(t, 3, merged["replicas"])
	assert.Equal(t, "v1", merged["tag"])
}

func TestMergeTypeMismatchReplaces(t *testing.T) {
	base := map[string]any{"config": map[string]any{"a": 1}}
	overlay := map[string]any{"config": "inline"}

	assert.Equal(t, "inline", Merge(base, overlay)["config"])
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	base := map[string]any{"nested": map[string]any{"keep": true}}
	overlay := map[string]any{"nested": map[string]any{"add": 1}}

	merged := Merge(base, overlay)
	merged["nested"].(map[string]any)["add"] = 99

	assert.Equal(t, map[string]any{"keep": true}, base["nested"])
	assert.Equal(t, map[string]any{"add": 1}, overlay["nested"])
}

func TestMergeSequentialOverlays(t *testing.T) {
	base := map[string]any{"a": 1, "b": 1}
	overlayA := map[string]any{"a": 2}
	overlayB := map[string]any{"a": 3, "b": 3}

	// B fully covers A, so base+A+B equals base+B.
	assert.Equal(t, Merge(base, overlayB), Merge(Merge(base, overlayA), overlayB))

	// Where B is silent, base+A survives.
	silent := map[string]any{}
	assert.Equal(t, Merge(base, overlayA), Merge(Merge(base, overlayA), silent))
}

func TestSetPath(t *testing.T) {
	doc := map[string]any{"mysql": map[string]any{"user": "app"}}

	got, err := SetPath(doc, "mysql.storage", "20Gi")
	require.NoError(t, err)
	assert.Equal(t, "20Gi", got["mysql"].(map[string]any)["storage"])
	assert.Equal(t, "app", got["mysql"].(map[string]any)["user"])

	// Input untouched.
	_, exists := doc["mysql"].(map[string]any)["storage"]
	assert.False(t, exists)
}

func TestSetPathCreatesIntermediates(t *testing.T) {
	got, err := SetPath(nil, "a.b.c", true)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": map[string]any{"c": true}}}, got)
}

func TestSetPathErrors(t *testing.T) {
	_, err := SetPath(map[string]any{"a": "scalar"}, "a.b", 1)
	assert.Error(t, err)

	_, err = SetPath(nil, "a..b", 1)
	assert.Error(t, err)
}
