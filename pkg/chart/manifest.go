package chart

import (
	"github.com/chartsmith/chartsmith/pkg/synth"
)

// Manifest is one logical output resource definition destined for one YAML
// file under templates/. The writer treats it as immutable per write.
type Manifest struct {
	// ID names the output file (dots and hyphens preserved; slash-bearing
	// identifiers nest directories). Validated by pathguard before any
	// write.
	ID string

	APIVersion string
	Kind       string

	// Name, when set, becomes metadata.name.
	Name string

	Labels      map[string]string
	Annotations map[string]string

	// Spec holds the remaining top-level fields of the resource, in order.
	// Values may embed references and conditional markers at any depth.
	Spec synth.Map
}

// Document assembles the full serializable tree for the manifest:
// apiVersion, kind, metadata (name, labels, annotations), then the spec
// fields in their given order.
func (m *Manifest) Document() synth.Map {
	doc := synth.Map{
		{Key: "apiVersion", Value: m.APIVersion},
		{Key: "kind", Value: m.Kind},
	}

	var meta synth.Map
	if m.Name != "" {
		meta = append(meta, synth.Entry{Key: "name", Value: m.Name})
	}
	if len(m.Labels) > 0 {
		meta = append(meta, synth.Entry{Key: "labels", Value: m.Labels})
	}
	if len(m.Annotations) > 0 {
		meta = append(meta, synth.Entry{Key: "annotations", Value: m.Annotations})
	}
	if len(meta) > 0 {
		doc = append(doc, synth.Entry{Key: "metadata", Value: meta})
	}

	return append(doc, m.Spec...)
}
