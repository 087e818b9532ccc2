package synth

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/chartsmith/chartsmith/pkg/errors"
	"github.com/chartsmith/chartsmith/pkg/values"
)

const indentUnit = "  "

// holeKey names the placeholder mapping key emitted at a conditional
// field's position. It never survives into the final output.
const holeKey = "__chartsmith_hole__"

type emitter struct {
	b     strings.Builder
	holes map[string]string
}

func newEmitter() *emitter {
	return &emitter{holes: make(map[string]string)}
}

func indent(level int) string {
	return strings.Repeat(indentUnit, level)
}

// emitNode serializes a document root.
func (e *emitter) emitNode(v any, level int) error {
	switch n := v.(type) {
	case Conditional:
		return e.emitMappingHole(n, level)
	case Map:
		return e.emitMapping(n, level)
	case map[string]any:
		return e.emitMapping(sortedEntries(n), level)
	case map[string]string:
		return e.emitMapping(sortedStringEntries(n), level)
	case []any:
		return e.emitSequence(n, level)
	case []string:
		return e.emitSequence(stringItems(n), level)
	default:
		text, multiline, err := e.scalarText(v)
		if err != nil {
			return err
		}
		if multiline {
			e.writeBlockScalar("", text, level)
			return nil
		}
		e.b.WriteString(indent(level) + text + "\n")
		return nil
	}
}

func (e *emitter) emitMapping(entries Map, level int) error {
	if len(entries) == 0 {
		e.b.WriteString(indent(level) + "{}\n")
		return nil
	}
	for _, entry := range entries {
		if err := e.emitEntry(entry.Key, entry.Value, level); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) emitEntry(key string, value any, level int) error {
	keyText, err := e.keyText(key)
	if err != nil {
		return err
	}
	prefix := indent(level) + keyText + ":"

	switch v := value.(type) {
	case Conditional:
		return e.emitEntryHole(key, v, level)
	case values.Directive:
		e.b.WriteString(prefix + " " + v.Render() + "\n")
	case Map:
		return e.emitChildMapping(prefix, v, level)
	case map[string]any:
		return e.emitChildMapping(prefix, sortedEntries(v), level)
	case map[string]string:
		return e.emitChildMapping(prefix, sortedStringEntries(v), level)
	case []any:
		return e.emitChildSequence(prefix, v, level)
	case []string:
		return e.emitChildSequence(prefix, stringItems(v), level)
	case nil:
		e.b.WriteString(prefix + " null\n")
	default:
		text, multiline, serr := e.scalarText(v)
		if serr != nil {
			return serr
		}
		if multiline {
			e.writeBlockScalar(prefix, text, level)
			return nil
		}
		e.b.WriteString(prefix + " " + text + "\n")
	}
	return nil
}

func (e *emitter) emitChildMapping(prefix string, m Map, level int) error {
	if len(m) == 0 {
		e.b.WriteString(prefix + " {}\n")
		return nil
	}
	e.b.WriteString(prefix + "\n")
	return e.emitMapping(m, level+1)
}

func (e *emitter) emitChildSequence(prefix string, s []any, level int) error {
	if len(s) == 0 {
		e.b.WriteString(prefix + " []\n")
		return nil
	}
	e.b.WriteString(prefix + "\n")
	return e.emitSequence(s, level+1)
}

func (e *emitter) emitSequence(items []any, level int) error {
	if len(items) == 0 {
		e.b.WriteString(indent(level) + "[]\n")
		return nil
	}
	for _, item := range items {
		if err := e.emitItem(item, level); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) emitItem(item any, level int) error {
	dash := indent(level) + "- "

	switch v := item.(type) {
	case Conditional:
		return e.emitItemHole(v, level)
	case values.Directive:
		e.b.WriteString(dash + v.Render() + "\n")
	case Map:
		return e.emitItemMapping(v, level)
	case map[string]any:
		return e.emitItemMapping(sortedEntries(v), level)
	case map[string]string:
		return e.emitItemMapping(sortedStringEntries(v), level)
	case []any:
		if len(v) == 0 {
			e.b.WriteString(dash + "[]\n")
			return nil
		}
		e.b.WriteString(indent(level) + "-\n")
		return e.emitSequence(v, level+1)
	case []string:
		return e.emitItem(anyItems(v), level)
	case nil:
		e.b.WriteString(dash + "null\n")
	default:
		text, multiline, err := e.scalarText(v)
		if err != nil {
			return err
		}
		if multiline {
			e.writeBlockScalar(indent(level)+"-", text, level+1)
			return nil
		}
		e.b.WriteString(dash + text + "\n")
	}
	return nil
}

// emitItemMapping emits a mapping as a sequence item with the first entry
// inlined after the dash. When the first entry is conditional the dash goes
// on its own line so the spliced directive lands at the key column.
func (e *emitter) emitItemMapping(m Map, level int) error {
	if len(m) == 0 {
		e.b.WriteString(indent(level) + "- {}\n")
		return nil
	}
	if _, first := m[0].Value.(Conditional); first {
		e.b.WriteString(indent(level) + "-\n")
		return e.emitMapping(m, level+1)
	}

	sub := &emitter{holes: e.holes}
	if err := sub.emitMapping(m, level+1); err != nil {
		return err
	}
	text := sub.b.String()
	// Fold the dash into the first line's indentation. The indent unit and
	// "- " are both two characters wide, so alignment is preserved.
	e.b.WriteString(indent(level) + "- " + text[len(indent(level+1)):])
	return nil
}

// emitEntryHole emits the placeholder for a conditional mapping entry.
// The guarded block is the whole key/value pair serialized at column zero.
func (e *emitter) emitEntryHole(key string, c Conditional, level int) error {
	guarded := any(Map{{Key: key, Value: c.Subtree}})
	if isEmptyNode(c.Subtree) {
		guarded = nil
	}
	id, err := e.registerHole(c.Condition, guarded)
	if err != nil {
		return err
	}
	e.b.WriteString(indent(level) + holeKey + ": |-\n")
	e.b.WriteString(indent(level+1) + sentinelToken(id) + "\n")
	return nil
}

// emitItemHole emits the placeholder for a conditional sequence item.
func (e *emitter) emitItemHole(c Conditional, level int) error {
	guarded := any([]any{c.Subtree})
	if isEmptyNode(c.Subtree) {
		guarded = nil
	}
	id, err := e.registerHole(c.Condition, guarded)
	if err != nil {
		return err
	}
	e.b.WriteString(indent(level) + "- " + holeKey + ": |-\n")
	e.b.WriteString(indent(level+2) + sentinelToken(id) + "\n")
	return nil
}

// emitMappingHole handles a conditional occupying a whole document or a
// nested subtree root.
func (e *emitter) emitMappingHole(c Conditional, level int) error {
	guarded := c.Subtree
	if isEmptyNode(c.Subtree) {
		guarded = nil
	}
	id, err := e.registerHole(c.Condition, guarded)
	if err != nil {
		return err
	}
	e.b.WriteString(indent(level) + holeKey + ": |-\n")
	e.b.WriteString(indent(level+1) + sentinelToken(id) + "\n")
	return nil
}

// registerHole renders the guarded block at column zero, wraps it in
// open/close directive lines, and records it under a fresh subtree id.
// A nil guarded node produces the open directive immediately followed by
// the close directive.
func (e *emitter) registerHole(condition string, guarded any) (string, error) {
	if strings.TrimSpace(condition) == "" {
		return "", errors.New(errors.ErrCodeInvalidRequest, "conditional has an empty condition")
	}

	var body string
	if guarded != nil {
		sub := &emitter{holes: e.holes}
		if err := sub.emitNode(guarded, 0); err != nil {
			return "", err
		}
		body = sub.b.String()
	}

	id := uuid.NewString()
	e.holes[id] = "{{- if " + condition + " }}\n" + body + "{{- end }}\n"
	return id, nil
}

func (e *emitter) keyText(key string) (string, error) {
	if strings.Contains(key, "\n") {
		return "", errors.Newf(errors.ErrCodeUnsupportedNode, "mapping key %q contains a newline", key)
	}
	if needsQuote(key) {
		return strconv.Quote(key), nil
	}
	return key, nil
}

// scalarText renders a scalar node. The multiline return signals the value
// must be written as a literal block scalar.
func (e *emitter) scalarText(v any) (string, bool, error) {
	switch s := v.(type) {
	case string:
		if strings.Contains(s, "\n") {
			return s, true, nil
		}
		if needsQuote(s) {
			return strconv.Quote(s), false, nil
		}
		return s, false, nil
	case bool:
		return strconv.FormatBool(s), false, nil
	case int:
		return strconv.FormatInt(int64(s), 10), false, nil
	case int8:
		return strconv.FormatInt(int64(s), 10), false, nil
	case int16:
		return strconv.FormatInt(int64(s), 10), false, nil
	case int32:
		return strconv.FormatInt(int64(s), 10), false, nil
	case int64:
		return strconv.FormatInt(s, 10), false, nil
	case uint:
		return strconv.FormatUint(uint64(s), 10), false, nil
	case uint8:
		return strconv.FormatUint(uint64(s), 10), false, nil
	case uint16:
		return strconv.FormatUint(uint64(s), 10), false, nil
	case uint32:
		return strconv.FormatUint(uint64(s), 10), false, nil
	case uint64:
		return strconv.FormatUint(s, 10), false, nil
	case float32:
		return strconv.FormatFloat(float64(s), 'g', -1, 32), false, nil
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64), false, nil
	default:
		return "", false, errors.Newf(errors.ErrCodeUnsupportedNode, "unsupported node type %T", v)
	}
}

// writeBlockScalar writes a literal block scalar. prefix is the "key:" or
// "-" text already carrying its indentation; empty for a document root.
// The chomping indicator follows the content's trailing newlines: none
// strips, exactly one clips, two or more keep.
func (e *emitter) writeBlockScalar(prefix, content string, level int) {
	header := "|-"
	switch {
	case strings.HasSuffix(content, "\n\n"):
		header = "|+"
		content = strings.TrimSuffix(content, "\n")
	case strings.HasSuffix(content, "\n"):
		header = "|"
		content = strings.TrimSuffix(content, "\n")
	}
	if prefix == "" {
		e.b.WriteString(indent(level) + header + "\n")
	} else {
		e.b.WriteString(prefix + " " + header + "\n")
	}
	for _, line := range strings.Split(content, "\n") {
		if line == "" {
			e.b.WriteString("\n")
			continue
		}
		e.b.WriteString(indent(level+1) + line + "\n")
	}
}

// needsQuote reports whether a single-line string must be double-quoted to
// survive as the same string through a YAML parser.
func needsQuote(s string) bool {
	if s == "" {
		return true
	}
	if s != strings.TrimSpace(s) {
		return true
	}
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no", "on", "off", "null", "~":
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	if _, err := strconv.ParseInt(s, 0, 64); err == nil {
		return true
	}
	if strings.ContainsAny(s[:1], "!&*?#|>@%`\"'{}[],:-") {
		return true
	}
	if strings.Contains(s, ": ") || strings.HasSuffix(s, ":") {
		return true
	}
	if strings.Contains(s, " #") {
		return true
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return true
		}
	}
	return false
}

func sortedEntries(m map[string]any) Map {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make(Map, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry{Key: k, Value: m[k]})
	}
	return entries
}

func sortedStringEntries(m map[string]string) Map {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make(Map, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry{Key: k, Value: m[k]})
	}
	return entries
}

func stringItems(s []string) []any {
	return anyItems(s)
}

func anyItems(s []string) []any {
	items := make([]any, len(s))
	for i, v := range s {
		items[i] = v
	}
	return items
}
