package chart

import (
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/chartsmith/chartsmith/pkg/errors"
	"github.com/chartsmith/chartsmith/pkg/pathguard"
)

// DefaultAPIVersion is the chart API version emitted into Chart.yaml.
const DefaultAPIVersion = "v2"

// Metadata is validated chart metadata, immutable for the duration of a
// generation run.
type Metadata struct {
	APIVersion  string
	Name        string
	Version     string
	Description string
	AppVersion  string
	Keywords    []string
	Type        string
}

// MetadataOption configures optional metadata fields at construction.
type MetadataOption func(*Metadata)

// WithDescription sets the chart description.
func WithDescription(d string) MetadataOption {
	return func(m *Metadata) { m.Description = d }
}

// WithAppVersion sets the packaged application version.
func WithAppVersion(v string) MetadataOption {
	return func(m *Metadata) { m.AppVersion = v }
}

// WithKeywords sets the chart keywords.
func WithKeywords(keywords ...string) MetadataOption {
	return func(m *Metadata) { m.Keywords = keywords }
}

// WithChartType sets the chart type (application or library).
func WithChartType(t string) MetadataOption {
	return func(m *Metadata) { m.Type = t }
}

// NewMetadata validates name and version against their fixed grammars and
// returns immutable chart metadata. The name must be a lowercase DNS-1123
// label; the version must be a full semantic version with explicit
// major, minor, and patch components.
func NewMetadata(name, version string, opts ...MetadataOption) (*Metadata, error) {
	if _, err := pathguard.SanitizeName(name); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMetadata, "chart name", err)
	}
	if err := validateVersion(version); err != nil {
		return nil, err
	}

	m := &Metadata{
		APIVersion: DefaultAPIVersion,
		Name:       name,
		Version:    version,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func validateVersion(v string) error {
	core, _, _ := strings.Cut(v, "-")
	core, _, _ = strings.Cut(core, "+")
	if strings.Count(core, ".") != 2 {
		return errors.Newf(errors.ErrCodeInvalidMetadata,
			"chart version %q must carry major.minor.patch", v)
	}
	if _, err := goversion.NewSemver(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidMetadata, "chart version", err)
	}
	return nil
}
