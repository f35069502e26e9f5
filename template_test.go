package xlprint

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []ExpressionSegment
	}{
		{"plain", "hello", []ExpressionSegment{{Text: "hello"}}},
		{"trimmed path", "No. {{ order.id }}", []ExpressionSegment{
			{Text: "No. "}, {IsExpression: true, Text: "order.id"},
		}},
		{"adjacent", "{{a}}{{b}}", []ExpressionSegment{
			{IsExpression: true, Text: "a"}, {IsExpression: true, Text: "b"},
		}},
		{"empty marker stays literal", "x{{}}y", []ExpressionSegment{{Text: "x{{}}y"}}},
		{"unclosed stays literal", "{{a} and {{b}}", []ExpressionSegment{
			{Text: "{{a} and "}, {IsExpression: true, Text: "b"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseExpressions(tt.in))
		})
	}
	assert.Nil(t, ParseExpressions(""))
}

func TestResolve_PathLookup(t *testing.T) {
	ctx := NewContext(map[string]any{"a": map[string]any{"b": "v"}})
	assert.Equal(t, "v", ctx.Resolve("{{a.b}}"))
	assert.Equal(t, "[v]", ctx.Resolve("[{{ a.b }}]"))

	empty := NewContext(map[string]any{})
	assert.Equal(t, "", empty.Resolve("{{a.b}}"))
	assert.Equal(t, "x=", empty.Resolve("x={{a.b}}"))
}

func TestResolve_Stringify(t *testing.T) {
	ctx := NewContext(map[string]any{
		"f":    3.5,
		"i":    7,
		"n":    3.0,
		"ok":   true,
		"obj":  map[string]any{"k": 1.0},
		"list": []any{"a", 2.0},
	})
	assert.Equal(t, "3.5", ctx.Resolve("{{f}}"))
	assert.Equal(t, "7", ctx.Resolve("{{i}}"))
	assert.Equal(t, "3", ctx.Resolve("{{n}}"))
	assert.Equal(t, "true", ctx.Resolve("{{ok}}"))
	assert.Equal(t, `{"k":1}`, ctx.Resolve("{{obj}}"))
	assert.Equal(t, `["a",2]`, ctx.Resolve("{{list}}"))
	assert.Equal(t, "a", ctx.Resolve("{{list.0}}"))
}

func TestResolve_NestedExpansion(t *testing.T) {
	ctx := NewContext(map[string]any{
		"greeting": "Hello {{name}}",
		"name":     "{{first}} {{last}}",
		"first":    "Ann",
		"last":     "Lee",
	})
	assert.Equal(t, "Hello Ann Lee!", ctx.Resolve("{{greeting}}!"))
}

func TestResolve_PassLimitLeavesMarkers(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := NewContext(map[string]any{"x": "{{x}}!"}, WithContextLogger(logger))

	assert.Equal(t, "{{x}}!!!!!", ctx.Resolve("{{x}}"))
	assert.Contains(t, buf.String(), "pass limit")

	short := NewContext(map[string]any{"x": "{{x}}!"}, WithContextMaxPasses(2))
	assert.Equal(t, "{{x}}!!", short.Resolve("{{x}}"))
}

func TestResolve_VarIndirection(t *testing.T) {
	ctx := NewContext(map[string]any{
		"t": "Quarterly",
		"header": map[string]any{
			"type":  "title",
			"value": "{{t}} report",
		},
		"alias": map[string]any{"$var": "header"},
	})

	got := ctx.Resolve(map[string]any{"$var": "header"})
	assert.Equal(t, map[string]any{"type": "title", "value": "Quarterly report"}, got)

	// an indirection may point at another indirection
	got = ctx.Resolve(map[string]any{"$var": "alias"})
	assert.Equal(t, map[string]any{"type": "title", "value": "Quarterly report"}, got)

	// a record with more keys is an ordinary record
	got = ctx.Resolve(map[string]any{"$var": "t", "x": "{{t}}"})
	assert.Equal(t, map[string]any{"$var": "t", "x": "Quarterly"}, got)

	assert.Nil(t, ctx.Resolve(map[string]any{"$var": "missing"}))
}

func TestResolve_SelfReferentialVarIsBounded(t *testing.T) {
	ctx := NewContext(map[string]any{"loop": map[string]any{"$var": "loop"}})
	assert.Nil(t, ctx.Resolve(map[string]any{"$var": "loop"}))
}

func TestResolve_IdempotentWithoutMarkers(t *testing.T) {
	ctx := NewContext(map[string]any{"a": "b"})
	in := map[string]any{
		"type": "table",
		"rows": []any{[]any{"x", 1.0, true, nil}},
		"n":    42.0,
	}
	once := ctx.Resolve(in)
	assert.Equal(t, in, once)
	assert.Equal(t, once, ctx.Resolve(once))
}

func TestLookup(t *testing.T) {
	ctx := NewContext(map[string]any{
		"items": []any{map[string]any{"name": "first"}, map[string]any{"name": "second"}},
		"sheet": map[string]any{"name": "S"},
	})
	assert.Equal(t, "second", ctx.Lookup("items.1.name"))
	assert.Equal(t, "S", ctx.Lookup(" sheet . name "))
	assert.Nil(t, ctx.Lookup("items.5.name"))
	assert.Nil(t, ctx.Lookup("sheet.name.deeper"))
	assert.Nil(t, ctx.Lookup(""))
}
