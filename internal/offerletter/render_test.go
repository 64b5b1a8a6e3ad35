package offerletter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_ReplacesAllOccurrences(t *testing.T) {
	out, unresolved := Render(
		"Dear {{name}}, welcome {{name}} to {{company_name}}.",
		map[string]string{"name": "Sam", "company_name": "Acme"},
	)
	assert.Equal(t, "Dear Sam, welcome Sam to Acme.", out)
	assert.Empty(t, unresolved)
}

func TestRender_UnmatchedPlaceholderLeftLiteral(t *testing.T) {
	out, unresolved := Render(
		"Dear {{name}}, salary {{amt}}",
		map[string]string{"name": "Sam"},
	)
	assert.Equal(t, "Dear Sam, salary {{amt}}", out)
	assert.Equal(t, []string{"amt"}, unresolved)
}

func TestRender_ExtraDataKeysIgnored(t *testing.T) {
	out, unresolved := Render(
		"Hello {{name}}",
		map[string]string{"name": "Sam", "designation": "Engineer"},
	)
	assert.Equal(t, "Hello Sam", out)
	assert.Empty(t, unresolved)
}

func TestRender_EmptyValueSubstitutesEmpty(t *testing.T) {
	out, unresolved := Render("[{{note}}]", map[string]string{"note": ""})
	assert.Equal(t, "[]", out)
	assert.Empty(t, unresolved)
}

func TestRender_NoHTMLEscaping(t *testing.T) {
	out, _ := Render("{{body}}", map[string]string{"body": "<b>bold & raw</b>"})
	assert.Equal(t, "<b>bold & raw</b>", out)
}

func TestRender_Deterministic(t *testing.T) {
	tpl := "{{a}} {{b}} {{a}}"
	data := map[string]string{"a": "1", "b": "2"}

	first, _ := Render(tpl, data)
	second, _ := Render(tpl, data)
	assert.Equal(t, first, second)
	assert.Equal(t, "1 2 1", first)
}

func TestRender_RenderedOutputStableWithoutLeftovers(t *testing.T) {
	tpl := "Dear {{name}}"
	data := map[string]string{"name": "Sam"}

	once, _ := Render(tpl, data)
	twice, _ := Render(once, data)
	assert.Equal(t, once, twice)
}

func TestRender_UnresolvedDeduplicated(t *testing.T) {
	_, unresolved := Render("{{x}} and {{x}} and {{y}}", nil)
	assert.Equal(t, []string{"x", "y"}, unresolved)
}

func TestPlaceholders(t *testing.T) {
	names := Placeholders("Dear {{candidate_name}}, role {{designation}}, pay {{net_salary}}, again {{candidate_name}}")
	assert.Equal(t, []string{"candidate_name", "designation", "net_salary"}, names)
}
