package values

import (
	"fmt"
	"strings"

	"github.com/chartsmith/chartsmith/pkg/errors"
)

// ScalarType declares the type a Reference resolves to at render time.
// The declared type controls the coercion suffix on the emitted directive,
// so a numeric reference never silently becomes a quoted string.
type ScalarType int

const (
	// String renders a bare lookup; the engine substitutes text in place.
	String ScalarType = iota
	// Number renders with an integer coercion suffix.
	Number
	// Bool renders with a JSON coercion suffix, producing a bare
	// true/false literal.
	Bool
)

// Directive is implemented by values that render to template-directive
// text. The synthesizer emits such values unquoted so the downstream
// engine sees the directive, not an escaped string.
type Directive interface {
	Render() string
}

// Reference is a lazily-resolved pointer into the values namespace.
// Construction is pure and constant-time; rendering maps the path to
// directive text and never touches the filesystem.
type Reference struct {
	Path []string
	Type ScalarType
}

// Ref builds a string-typed Reference. Each argument may be a single
// segment or a dotted path; "mysql.storage" and ("mysql", "storage") are
// equivalent.
func Ref(path ...string) Reference {
	return Reference{Path: splitSegments(path)}
}

// TypedRef builds a Reference with an explicit expected scalar type.
func TypedRef(t ScalarType, path ...string) Reference {
	return Reference{Path: splitSegments(path), Type: t}
}

func splitSegments(path []string) []string {
	var segments []string
	for _, p := range path {
		for _, s := range strings.Split(p, ".") {
			if s != "" {
				segments = append(segments, s)
			}
		}
	}
	return segments
}

// Expr returns the lookup expression without the surrounding delimiters,
// e.g. ".Values.mysql.storage". Useful as a conditional expression.
func (r Reference) Expr() string {
	return ".Values." + strings.Join(r.Path, ".")
}

// Render returns the canonical lookup directive for the reference.
func (r Reference) Render() string {
	switch r.Type {
	case Number:
		return fmt.Sprintf("{{ %s | int }}", r.Expr())
	case Bool:
		return fmt.Sprintf("{{ %s | toJson }}", r.Expr())
	default:
		return fmt.Sprintf("{{ %s }}", r.Expr())
	}
}

// String implements fmt.Stringer for debugging; equality on References is
// equality on the literal path and type.
func (r Reference) String() string {
	return r.Render()
}

// Expression is a composed directive built by Concat or Index. It renders
// as a single expression rather than independently escaped fragments.
type Expression struct {
	text string
}

// Render returns the directive text.
func (e Expression) Render() string {
	return e.text
}

// String implements fmt.Stringer.
func (e Expression) String() string {
	return e.text
}

// Concat composes literal strings and References into one directive.
// The parts collapse into a single printf expression so quoting stays
// correct regardless of how the fragments interleave:
//
//	Concat(Ref("image.repository"), ":", Ref("image.tag"))
//	// {{ printf "%v:%v" .Values.image.repository .Values.image.tag }}
//
// A single Reference with no literals renders as its own lookup
// directive, keeping the reference's type coercion.
func Concat(parts ...any) (Expression, error) {
	if len(parts) == 0 {
		return Expression{}, errors.New(errors.ErrCodeInvalidRequest, "concat of zero parts")
	}

	var format strings.Builder
	var args []string
	for _, part := range parts {
		switch p := part.(type) {
		case string:
			format.WriteString(strings.ReplaceAll(p, "%", "%%"))
		case Reference:
			format.WriteString("%v")
			args = append(args, p.Expr())
		default:
			return Expression{}, errors.Newf(errors.ErrCodeInvalidRequest,
				"concat part must be a string or Reference, got %T", part)
		}
	}

	if len(parts) == 1 {
		if ref, ok := parts[0].(Reference); ok {
			return Expression{text: ref.Render()}, nil
		}
	}
	return Expression{
		text: fmt.Sprintf("{{ printf %q %s }}", format.String(), strings.Join(args, " ")),
	}, nil
}

// Index builds an indexed sequence-element lookup for the given values
// path, e.g. Index(Ref("service.ports"), 0) renders
// "{{ index .Values.service.ports 0 }}".
func Index(seq Reference, i int) Expression {
	return Expression{text: fmt.Sprintf("{{ index %s %d }}", seq.Expr(), i)}
}
