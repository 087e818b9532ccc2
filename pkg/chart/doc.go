// Package chart models Helm chart packages and writes them to disk.
//
// A Chart aggregates validated metadata, manifests (trees of scalars,
// mappings, sequences, value references, and conditional markers), default
// values, named environment overlays, and optional subcharts. Write renders
// every manifest through the synthesizer and lays the result out in the
// standard chart structure: Chart.yaml, values.yaml, values-<env>.yaml,
// templates/, .helmignore, and charts/<name>/ for umbrella composition.
//
// Write is a self-contained generation run: no state is shared across
// concurrent runs, sibling subcharts write in parallel against disjoint
// directories, and parent-level files are only written once every subchart
// has succeeded. On failure, already-flushed output remains on disk;
// callers needing atomicity should stage into a temporary directory and
// rename on success.
package chart
