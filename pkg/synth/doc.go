// Package synth serializes manifest trees to block-style YAML and splices
// conditional template directives into the output.
//
// Serialization runs in two composed phases. The structural phase emits a
// valid YAML document in which every conditional subtree is replaced by an
// opaque block-literal placeholder carrying a collision-resistant sentinel.
// The textual phase then scans for sentinel lines and substitutes each
// placeholder with the pre-rendered guarded block, shifted right to the
// placeholder's column, repeating until no sentinels remain. The split is
// required because the final artifact must stay valid input to a
// line-oriented rendering engine: directive lines have to land at the exact
// column the surrounding YAML expects once they are later stripped.
//
// Mapping-key order is preserved for the ordered Map type and sorted for
// plain Go maps, so serializing the same tree twice always yields
// byte-identical text.
package synth
