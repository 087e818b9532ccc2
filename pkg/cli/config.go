package cli

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/chartsmith/chartsmith/pkg/chart"
	"github.com/chartsmith/chartsmith/pkg/errors"
	"github.com/chartsmith/chartsmith/pkg/pathguard"
	"github.com/chartsmith/chartsmith/pkg/synth"
)

// ChartConfig is the on-disk chart definition consumed by the generate
// command. Manifest specs are declared as plain YAML trees; conditional
// fragments and value references are a library-level API and do not appear
// in config files.
type ChartConfig struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Description string   `yaml:"description"`
	AppVersion  string   `yaml:"appVersion"`
	Keywords    []string `yaml:"keywords"`
	Type        string   `yaml:"type"`

	Values       map[string]any            `yaml:"values"`
	Environments map[string]map[string]any `yaml:"environments"`

	Helpers string `yaml:"helpers"`
	Notes   string `yaml:"notes"`
	Schema  string `yaml:"schema"`

	Manifests []ManifestConfig `yaml:"manifests"`
	Subcharts []SubchartConfig `yaml:"subcharts"`
}

// ManifestConfig declares one templates/ output file.
type ManifestConfig struct {
	ID          string            `yaml:"id"`
	APIVersion  string            `yaml:"apiVersion"`
	Kind        string            `yaml:"kind"`
	Name        string            `yaml:"name"`
	Labels      map[string]string `yaml:"labels"`
	Annotations map[string]string `yaml:"annotations"`
	Spec        yaml.Node         `yaml:"spec"`
}

// SubchartConfig binds a child chart definition file into an umbrella.
type SubchartConfig struct {
	Name       string   `yaml:"name"`
	Config     string   `yaml:"config"`
	Version    string   `yaml:"version"`
	Repository string   `yaml:"repository"`
	Condition  string   `yaml:"condition"`
	Tags       []string `yaml:"tags"`
}

// LoadConfig reads and decodes a chart definition file. Unknown fields are
// rejected so typos surface at load time instead of silently dropping
// configuration.
func LoadConfig(path string) (*ChartConfig, error) {
	if err := pathguard.Validate(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "opening config", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var cfg ChartConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "decoding config "+path, err)
	}
	return &cfg, nil
}

// BuildChart assembles a chart from a decoded definition. Subchart
// definition files resolve relative to baseDir and may not escape it.
func BuildChart(cfg *ChartConfig, baseDir string) (*chart.Chart, error) {
	var opts []chart.MetadataOption
	if cfg.Description != "" {
		opts = append(opts, chart.WithDescription(cfg.Description))
	}
	if cfg.AppVersion != "" {
		opts = append(opts, chart.WithAppVersion(cfg.AppVersion))
	}
	if len(cfg.Keywords) > 0 {
		opts = append(opts, chart.WithKeywords(cfg.Keywords...))
	}
	if cfg.Type != "" {
		opts = append(opts, chart.WithChartType(cfg.Type))
	}
	meta, err := chart.NewMetadata(cfg.Name, cfg.Version, opts...)
	if err != nil {
		return nil, err
	}

	c := &chart.Chart{
		Meta:     meta,
		Values:   cfg.Values,
		Overlays: cfg.Environments,
		Helpers:  cfg.Helpers,
		Notes:    cfg.Notes,
	}
	if cfg.Schema != "" {
		c.Schema = []byte(cfg.Schema)
	}

	for i := range cfg.Manifests {
		m, err := buildManifest(&cfg.Manifests[i])
		if err != nil {
			return nil, err
		}
		c.Manifests = append(c.Manifests, m)
	}

	for _, sub := range cfg.Subcharts {
		child, err := loadSubchart(&sub, baseDir)
		if err != nil {
			return nil, err
		}
		c.Subcharts = append(c.Subcharts, &chart.Subchart{
			Name:       sub.Name,
			Chart:      child,
			Version:    sub.Version,
			Repository: sub.Repository,
			Condition:  sub.Condition,
			Tags:       sub.Tags,
		})
	}
	return c, nil
}

func buildManifest(mc *ManifestConfig) (*chart.Manifest, error) {
	m := &chart.Manifest{
		ID:          mc.ID,
		APIVersion:  mc.APIVersion,
		Kind:        mc.Kind,
		Name:        mc.Name,
		Labels:      mc.Labels,
		Annotations: mc.Annotations,
	}
	if mc.Spec.Kind == 0 {
		return m, nil
	}

	tree, err := nodeToTree(&mc.Spec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "manifest "+mc.ID, err)
	}
	spec, ok := tree.(synth.Map)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeInvalidRequest, "manifest %s: spec must be a mapping", mc.ID)
	}
	m.Spec = spec
	return m, nil
}

func loadSubchart(sub *SubchartConfig, baseDir string) (*chart.Chart, error) {
	if sub.Config == "" {
		return nil, errors.Newf(errors.ErrCodeInvalidRequest, "subchart %s has no config file", sub.Name)
	}
	path, err := pathguard.Resolve(sub.Config, baseDir, pathguard.ResolveOptions{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "subchart "+sub.Name, err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return BuildChart(cfg, filepath.Dir(path))
}

// nodeToTree converts a decoded YAML node into the synthesizer's node
// model, preserving mapping-key order through the ordered Map type.
func nodeToTree(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeToTree(n.Content[0])
	case yaml.MappingNode:
		m := make(synth.Map, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			var key string
			if err := n.Content[i].Decode(&key); err != nil {
				return nil, err
			}
			value, err := nodeToTree(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m = append(m, synth.Entry{Key: key, Value: value})
		}
		return m, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := nodeToTree(c)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case yaml.AliasNode:
		return nodeToTree(n.Alias)
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}
