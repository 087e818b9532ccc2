package chart

// Chart is a complete generation input: metadata, manifests, values,
// overlays, optional auxiliary files, and subcharts for umbrella
// composition. The writer never mutates it.
type Chart struct {
	Meta *Metadata

	Manifests []*Manifest

	// Values is the default values tree written to values.yaml.
	Values map[string]any

	// Overlays maps environment names to partial values trees. Each overlay
	// is deep-merged over Values and written to values-<env>.yaml.
	Overlays map[string]map[string]any

	// Helpers, when non-empty, is written verbatim to templates/_helpers.tpl.
	Helpers string

	// Notes, when non-empty, is written verbatim to templates/NOTES.txt.
	Notes string

	// Schema, when non-empty, is written verbatim to values.schema.json.
	Schema []byte

	Subcharts []*Subchart
}

// Subchart binds a child chart into an umbrella parent. Ownership is
// many-to-one from umbrella to child and scoped to the umbrella's single
// write call.
type Subchart struct {
	// Name places the child under charts/<name>/ and keys its values in
	// the parent values file. Validated by pathguard before any write.
	Name string

	// Chart is the owning child generator.
	Chart *Chart

	// Version overrides the dependency version; defaults to the child's
	// own metadata version.
	Version string

	Repository string

	// Condition, when set, is emitted into the parent dependency entry and
	// seeded as an enabled flag in parent values when the child defaults
	// leave it unset.
	Condition string

	Tags []string
}
