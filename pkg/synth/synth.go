package synth

// Serialize renders a manifest tree to block-style YAML text. It is total
// over trees of scalars, mappings (ordered Map or plain Go maps),
// sequences, value references, and conditional markers, and fails with an
// UnsupportedNode error on anything else.
//
// Serializing the same tree twice yields byte-identical output: Map keys
// keep their given order, plain Go maps are emitted with sorted keys, and
// no sentinel or other generation-time token survives into the result.
func Serialize(doc any) (string, error) {
	e := newEmitter()
	if err := e.emitNode(doc, 0); err != nil {
		return "", err
	}
	if len(e.holes) == 0 {
		return e.b.String(), nil
	}
	return spliceAll(e.b.String(), e.holes)
}
