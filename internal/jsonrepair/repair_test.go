package jsonrepair

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestExtractPlainObject(t *testing.T) {
	out, err := Extract(`{"name": "plan", "days": 7}`)
	require.NoError(t, err)
	v := mustParse(t, out)
	assert.Equal(t, "plan", v["name"])
	assert.Equal(t, float64(7), v["days"])
}

func TestExtractStripsMarkdownFence(t *testing.T) {
	for name, input := range map[string]string{
		"WithLanguageTag": "```json\n{\"a\": 1}\n```",
		"WithoutTag":      "```\n{\"a\": 1}\n```",
	} {
		t.Run(name, func(t *testing.T) {
			out, err := Extract(input)
			require.NoError(t, err)
			assert.Equal(t, float64(1), mustParse(t, out)["a"])
		})
	}
}

func TestExtractIgnoresBracesInsideStrings(t *testing.T) {
	// The literal "}" inside the quoted value must not end the scan early.
	input := `prefix {"a": {"b": "}"}, "c": 1} suffix`
	out, err := Extract(input)
	require.NoError(t, err)
	v := mustParse(t, out)
	assert.Equal(t, float64(1), v["c"])
	inner, ok := v["a"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "}", inner["b"])
}

func TestExtractHandlesEscapedQuotes(t *testing.T) {
	input := `{"a": "say \"hi\" {", "b": 2}`
	out, err := Extract(input)
	require.NoError(t, err)
	assert.Equal(t, float64(2), mustParse(t, out)["b"])
}

func TestExtractSurroundingProse(t *testing.T) {
	input := "Here is your plan:\n\n{\"name\": \"week\"}\n\nEnjoy!"
	out, err := Extract(input)
	require.NoError(t, err)
	assert.Equal(t, "week", mustParse(t, out)["name"])
}

func TestExtractStripsComments(t *testing.T) {
	input := `{
		// day count
		"days": 7, /* inline */
		"url": "http://example.com/a"
	}`
	out, err := Extract(input)
	require.NoError(t, err)
	v := mustParse(t, out)
	assert.Equal(t, float64(7), v["days"])
	// "//" inside the string value must survive comment stripping.
	assert.Equal(t, "http://example.com/a", v["url"])
}

func TestExtractStripsTrailingCommas(t *testing.T) {
	input := `{"items": [1, 2, 3,], "a": 1,}`
	out, err := Extract(input)
	require.NoError(t, err)
	v := mustParse(t, out)
	assert.Equal(t, float64(1), v["a"])
	assert.Len(t, v["items"], 3)
}

func TestExtractRepairsTruncation(t *testing.T) {
	// Missing two closing braces and carrying a trailing comma; after
	// rebalancing it must parse to the same object as the well-formed form.
	truncated := `{"plan": {"name": "week", "calories": 2100,`
	wellFormed := `{"plan": {"name": "week", "calories": 2100}}`

	out, err := Extract(truncated)
	require.NoError(t, err)
	want, err2 := Extract(wellFormed)
	require.NoError(t, err2)
	assert.Equal(t, mustParse(t, want), mustParse(t, out))
}

func TestExtractRepairsUnclosedArray(t *testing.T) {
	input := `{"meals": [{"name": "Oats"}, {"name": "Rice"}`
	out, err := Extract(input)
	require.NoError(t, err)
	v := mustParse(t, out)
	assert.Len(t, v["meals"], 2)
}

func TestExtractFailures(t *testing.T) {
	for name, input := range map[string]string{
		"NoObject":      "I could not generate a plan today.",
		"OnlyArray":     `[1, 2, 3]`,
		"Hopeless":      `{{{":::`,
		"EmptyResponse": "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Extract(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnparseable)
		})
	}
}
