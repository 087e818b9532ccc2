// Package cli implements the command-line interface for the chartsmith tool.
//
// # Commands
//
// generate - Produce a chart tree from a chart definition file:
//
//	chartsmith generate --config chart.yaml --output ./dist/web
//	chartsmith generate --config chart.yaml --output ./dist/web --env dev
//	chartsmith generate --config chart.yaml --output ./dist/web --set image.tag=1.28
//
// Reads a typed chart definition and writes the complete chart layout:
// Chart.yaml, values.yaml, per-environment values overlays, one
// templates/<id>.yaml file per manifest, and charts/<name>/ trees for
// subcharts. Image references in manifests are linted before writing
// unless --skip-lint is set.
//
// package - Archive a generated chart directory:
//
//	chartsmith package --chart ./dist/web --destination ./releases
//
// Re-reads Chart.yaml from the generated tree, validates the metadata, and
// writes a <name>-<version>.tgz archive laid out the way chart repositories
// expect.
//
// # Global Flags
//
//	--debug        Enable debug logging
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized
// packages:
//   - pkg/chart - Chart model, writer, archiver, and image linting
//   - pkg/synth - YAML synthesis with template directive support
//   - pkg/values - Value references, overlays, and deep merging
//   - pkg/pathguard - Filesystem path and identifier validation
//   - pkg/logging - Structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'main.version=1.0.0'"
package cli
