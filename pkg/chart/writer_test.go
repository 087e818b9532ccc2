package chart

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/chartsmith/chartsmith/pkg/errors"
	"github.com/chartsmith/chartsmith/pkg/synth"
	"github.com/chartsmith/chartsmith/pkg/values"
)

func mustMetadata(t *testing.T, name, version string, opts ...MetadataOption) *Metadata {
	t.Helper()
	m, err := NewMetadata(name, version, opts...)
	require.NoError(t, err)
	return m
}

func readYAML(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	return parsed
}

func TestWriteEmptyChart(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	c := &Chart{Meta: mustMetadata(t, "test-chart", "0.0.0")}

	require.NoError(t, Write(context.Background(), outDir, c))

	meta := readYAML(t, filepath.Join(outDir, "Chart.yaml"))
	assert.Equal(t, "test-chart", meta["name"])
	assert.Equal(t, "0.0.0", meta["version"])
	assert.Equal(t, "v2", meta["apiVersion"])

	assert.FileExists(t, filepath.Join(outDir, "values.yaml"))
	assert.DirExists(t, filepath.Join(outDir, "templates"))

	entries, err := os.ReadDir(filepath.Join(outDir, "templates"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	ignore, err := os.ReadFile(filepath.Join(outDir, ".helmignore"))
	require.NoError(t, err)
	assert.Contains(t, string(ignore), ".git/")
}

func TestWriteNeverClobbersHelmignore(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	c := &Chart{Meta: mustMetadata(t, "test-chart", "0.0.0")}

	require.NoError(t, Write(context.Background(), outDir, c))

	custom := []byte("secrets/\n")
	require.NoError(t, os.WriteFile(filepath.Join(outDir, ".helmignore"), custom, 0o644))

	require.NoError(t, Write(context.Background(), outDir, c))

	got, err := os.ReadFile(filepath.Join(outDir, ".helmignore"))
	require.NoError(t, err)
	assert.Equal(t, custom, got)
}

func TestWriteManifests(t *testing.T) {
	outDir := t.TempDir()
	c := &Chart{
		Meta: mustMetadata(t, "web", "1.0.0"),
		Manifests: []*Manifest{
			{
				ID:         "deployment",
				APIVersion: "apps/v1",
				Kind:       "Deployment",
				Name:       "web",
				Labels:     map[string]string{"app": "web"},
				Spec: synth.Map{
					{Key: "spec", Value: synth.Map{
						{Key: "replicas", Value: values.TypedRef(values.Number, "replicaCount")},
					}},
				},
			},
			{
				ID:         "crds/gateway.networking",
				APIVersion: "apiextensions.k8s.io/v1",
				Kind:       "CustomResourceDefinition",
				Name:       "gateways.networking.example.io",
			},
		},
	}

	require.NoError(t, Write(context.Background(), outDir, c))

	data, err := os.ReadFile(filepath.Join(outDir, "templates", "deployment.yaml"))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "apiVersion: apps/v1\nkind: Deployment\n")
	assert.Contains(t, text, "metadata:\n  name: web\n  labels:\n    app: web\n")
	assert.Contains(t, text, "replicas: {{ .Values.replicaCount | int }}")

	// Slash-bearing identifiers nest directories.
	assert.FileExists(t, filepath.Join(outDir, "templates", "crds", "gateway.networking.yaml"))
}

func TestWriteRejectsTraversalIdentifier(t *testing.T) {
	outDir := t.TempDir()
	c := &Chart{
		Meta:      mustMetadata(t, "web", "1.0.0"),
		Manifests: []*Manifest{{ID: "../escape", Kind: "Secret"}},
	}

	err := Write(context.Background(), outDir, c)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidIdentifier))
	assert.NoFileExists(t, filepath.Join(outDir, "..", "escape.yaml"))
}

func TestWriteValuesOverlays(t *testing.T) {
	outDir := t.TempDir()
	c := &Chart{
		Meta: mustMetadata(t, "web", "1.0.0"),
		Values: map[string]any{
			"replicaCount": 1,
			"image":        map[string]any{"repository": "nginx", "tag": "1.27"},
		},
		Overlays: map[string]map[string]any{
			"dev":  {"replicaCount": 2},
			"prod": {"replicaCount": 5, "image": map[string]any{"tag": "1.27-hardened"}},
		},
	}

	require.NoError(t, Write(context.Background(), outDir, c))

	base := readYAML(t, filepath.Join(outDir, "values.yaml"))
	assert.Equal(t, 1, base["replicaCount"])

	dev := readYAML(t, filepath.Join(outDir, "values-dev.yaml"))
	assert.Equal(t, 2, dev["replicaCount"])
	assert.Equal(t, "1.27", dev["image"].(map[string]any)["tag"])

	prod := readYAML(t, filepath.Join(outDir, "values-prod.yaml"))
	assert.Equal(t, 5, prod["replicaCount"])
	assert.Equal(t, "1.27-hardened", prod["image"].(map[string]any)["tag"])
	assert.Equal(t, "nginx", prod["image"].(map[string]any)["repository"])
}

func TestWriteRejectsBadEnvironmentName(t *testing.T) {
	outDir := t.TempDir()
	c := &Chart{
		Meta:     mustMetadata(t, "web", "1.0.0"),
		Overlays: map[string]map[string]any{"Prod Env": {}},
	}

	err := Write(context.Background(), outDir, c)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidIdentifier))
}

func TestWriteAuxiliaryFiles(t *testing.T) {
	outDir := t.TempDir()
	c := &Chart{
		Meta:    mustMetadata(t, "web", "1.0.0"),
		Helpers: `{{- define "web.fullname" -}}{{ .Release.Name }}-web{{- end -}}`,
		Notes:   "Get the application URL by running these commands.\n",
		Schema:  []byte(`{"$schema": "https://json-schema.org/draft-07/schema#"}`),
	}

	require.NoError(t, Write(context.Background(), outDir, c))

	helpers, err := os.ReadFile(filepath.Join(outDir, "templates", "_helpers.tpl"))
	require.NoError(t, err)
	assert.Equal(t, c.Helpers, string(helpers))

	assert.FileExists(t, filepath.Join(outDir, "templates", "NOTES.txt"))
	assert.FileExists(t, filepath.Join(outDir, "values.schema.json"))
}

func umbrellaFixture(t *testing.T) *Chart {
	t.Helper()
	frontend := &Chart{
		Meta:   mustMetadata(t, "frontend", "0.1.0"),
		Values: map[string]any{"replicaCount": 2},
		Manifests: []*Manifest{{
			ID: "deployment", APIVersion: "apps/v1", Kind: "Deployment", Name: "frontend",
		}},
	}
	backend := &Chart{
		Meta:   mustMetadata(t, "backend", "0.2.0"),
		Values: map[string]any{"port": 8080},
	}
	return &Chart{
		Meta:     mustMetadata(t, "umbrella", "1.0.0"),
		Values:   map[string]any{"global": map[string]any{"registry": "registry.example.com"}},
		Overlays: map[string]map[string]any{"dev": {"frontend": map[string]any{"replicaCount": 1}}},
		Subcharts: []*Subchart{
			{Name: "frontend", Chart: frontend, Condition: "frontend.enabled"},
			{Name: "backend", Chart: backend, Repository: "https://charts.example.com"},
		},
	}
}

func TestWriteUmbrella(t *testing.T) {
	outDir := t.TempDir()
	c := umbrellaFixture(t)

	require.NoError(t, Write(context.Background(), outDir, c))

	// Subchart trees repeat the full layout.
	assert.FileExists(t, filepath.Join(outDir, "charts", "frontend", "Chart.yaml"))
	assert.FileExists(t, filepath.Join(outDir, "charts", "frontend", "templates", "deployment.yaml"))
	assert.FileExists(t, filepath.Join(outDir, "charts", "backend", "Chart.yaml"))
	assert.FileExists(t, filepath.Join(outDir, "charts", "backend", "values.yaml"))

	meta := readYAML(t, filepath.Join(outDir, "Chart.yaml"))
	deps, ok := meta["dependencies"].([]any)
	require.True(t, ok)
	require.Len(t, deps, 2)

	first := deps[0].(map[string]any)
	assert.Equal(t, "frontend", first["name"])
	assert.Equal(t, "0.1.0", first["version"])
	assert.Equal(t, "frontend.enabled", first["condition"])

	second := deps[1].(map[string]any)
	assert.Equal(t, "backend", second["name"])
	assert.Equal(t, "https://charts.example.com", second["repository"])

	// Parent values aggregate subchart defaults under per-subchart keys
	// plus the shared global section.
	vals := readYAML(t, filepath.Join(outDir, "values.yaml"))
	assert.Equal(t, 2, vals["frontend"].(map[string]any)["replicaCount"])
	assert.Equal(t, true, vals["frontend"].(map[string]any)["enabled"])
	assert.Equal(t, 8080, vals["backend"].(map[string]any)["port"])
	assert.Equal(t, "registry.example.com", vals["global"].(map[string]any)["registry"])

	dev := readYAML(t, filepath.Join(outDir, "values-dev.yaml"))
	assert.Equal(t, 1, dev["frontend"].(map[string]any)["replicaCount"])
	assert.Equal(t, 8080, dev["backend"].(map[string]any)["port"])
}

func TestWriteUmbrellaFailurePropagation(t *testing.T) {
	outDir := t.TempDir()
	c := umbrellaFixture(t)

	// Sabotage the backend subchart with an identifier that fails path
	// validation during its write.
	c.Subcharts[1].Chart.Manifests = []*Manifest{{ID: "../../escape", Kind: "Secret"}}

	err := Write(context.Background(), outDir, c)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSubchartWrite))
	assert.Contains(t, err.Error(), "backend")

	// Parent-level files must not exist after a subchart failure.
	assert.NoFileExists(t, filepath.Join(outDir, "Chart.yaml"))
	assert.NoFileExists(t, filepath.Join(outDir, "values.yaml"))
}

func TestWriteDeterministic(t *testing.T) {
	c := &Chart{
		Meta: mustMetadata(t, "web", "1.0.0"),
		Manifests: []*Manifest{{
			ID: "cm", APIVersion: "v1", Kind: "ConfigMap", Name: "web",
			Spec: synth.Map{{Key: "data", Value: map[string]any{"b": "2", "a": "1"}}},
		}},
		Values: map[string]any{"x": 1, "y": 2},
	}

	dirA := t.TempDir()
	dirB := t.TempDir()
	require.NoError(t, Write(context.Background(), dirA, c))
	require.NoError(t, Write(context.Background(), dirB, c))

	for _, rel := range []string{"Chart.yaml", "values.yaml", filepath.Join("templates", "cm.yaml")} {
		a, err := os.ReadFile(filepath.Join(dirA, rel))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirB, rel))
		require.NoError(t, err)
		assert.Equal(t, a, b, "file %s differs between runs", rel)
	}
}

func TestWriteNilChart(t *testing.T) {
	err := Write(context.Background(), t.TempDir(), nil)
	assert.Error(t, err)

	err = Write(context.Background(), t.TempDir(), &Chart{})
	assert.Error(t, err)
}
