package values

import (
	"testing"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseDirective checks that emitted directive text is syntactically valid
// template input for a Sprig-style engine. Parse only; nothing executes.
func parseDirective(t *testing.T, text string) {
	t.Helper()
	_, err := template.New("directive").Funcs(sprig.FuncMap()).Parse(text)
	require.NoError(t, err, "directive %q does not parse", text)
}

func TestRefRender(t *testing.T) {
	r := Ref("mysql", "storage")
	assert.Equal(t, "{{ .Values.mysql.storage }}", r.Render())
	parseDirective(t, r.Render())
}

func TestRefDottedPathEquivalence(t *testing.T) {
	assert.Equal(t, Ref("mysql.storage"), Ref("mysql", "storage"))
	assert.Equal(t, []string{"a", "b", "c"}, Ref("a.b", "c").Path)
}

func TestTypedRefCoercion(t *testing.T) {
	num := TypedRef(Number, "replicas")
	assert.Equal(t, "{{ .Values.replicas | int }}", num.Render())
	parseDirective(t, num.Render())

	b := TypedRef(Bool, "persistence.enabled")
	assert.Equal(t, "{{ .Values.persistence.enabled | toJson }}", b.Render())
	parseDirective(t, b.Render())
}

func TestRefExpr(t *testing.T) {
	assert.Equal(t, ".Values.mysql.enabled", Ref("mysql.enabled").Expr())
}

func TestConcatSingleExpression(t *testing.T) {
	expr, err := Concat(Ref("image.repository"), ":", Ref("image.tag"))
	require.NoError(t, err)
	assert.Equal(t,
		`{{ printf "%v:%v" .Values.image.repository .Values.image.tag }}`,
		expr.Render())
	parseDirective(t, expr.Render())
}

func TestConcatEscapesLiteralPercent(t *testing.T) {
	expr, err := Concat("100% ", Ref("name"))
	require.NoError(t, err)
	assert.Equal(t, `{{ printf "100%% %v" .Values.name }}`, expr.Render())
	parseDirective(t, expr.Render())
}

func TestConcatSingleRefCollapses(t *testing.T) {
	expr, err := Concat(Ref("name"))
	require.NoError(t, err)
	assert.Equal(t, "{{ .Values.name }}", expr.Render())
}

func TestConcatSingleRefKeepsCoercion(t *testing.T) {
	num, err := Concat(TypedRef(Number, "replicas"))
	require.NoError(t, err)
	assert.Equal(t, "{{ .Values.replicas | int }}", num.Render())
	parseDirective(t, num.Render())

	b, err := Concat(TypedRef(Bool, "persistence.enabled"))
	require.NoError(t, err)
	assert.Equal(t, "{{ .Values.persistence.enabled | toJson }}", b.Render())
}

func TestConcatRejectsUnsupportedPart(t *testing.T) {
	_, err := Concat(Ref("a"), 42)
	assert.Error(t, err)

	_, err = Concat()
	assert.Error(t, err)
}

func TestIndex(t *testing.T) {
	expr := Index(Ref("service.ports"), 2)
	assert.Equal(t, "{{ index .Values.service.ports 2 }}", expr.Render())
	parseDirective(t, expr.Render())
}
