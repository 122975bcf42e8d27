// Package ai provides unit tests for the response parser.
package ai

import (
	"strings"
	"testing"

	"github.com/formsentry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(content string) string {
	return `{"choices":[{"message":{"content":` + jsonString(content) + `}}],"usage":{"prompt_tokens":100,"completion_tokens":50}}`
}

func jsonString(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
	return `"` + replacer.Replace(s) + `"`
}

func TestParseResponse_StructuredRoundTrip(t *testing.T) {
	body := envelope(`{"confidence":0.9,"is_valid":true,"issues":["too short"],"suggestions":["add detail"],"explanation":"Nearly fine"}`)

	result := ParseResponse([]byte(body))

	assert.Equal(t, 0.9, result.Confidence)
	assert.True(t, result.IsValid)
	assert.Equal(t, []string{"too short"}, result.Issues)
	assert.Equal(t, []string{"add detail"}, result.Suggestions)
	assert.Equal(t, "Nearly fine", result.Explanation)
	require.NotNil(t, result.Usage)
	assert.Equal(t, 100, result.Usage.PromptTokens)
	assert.Equal(t, 50, result.Usage.CompletionTokens)
}

func TestParseResponse_StructuredDefaults(t *testing.T) {
	result := ParseResponse([]byte(envelope(`{}`)))

	// Absent confidence means unknown, the schema midpoint.
	assert.Equal(t, 0.5, result.Confidence)
	assert.False(t, result.IsValid)
	assert.Empty(t, result.Issues)
	assert.Empty(t, result.Suggestions)
	assert.Equal(t, domain.DefaultExplanation, result.Explanation)
}

func TestParseResponse_ConfidenceClamped(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "above one", raw: "7.5", want: 1.0},
		{name: "below zero", raw: "-3", want: 0.0},
		{name: "in range", raw: "0.42", want: 0.42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseResponse([]byte(envelope(`{"confidence":` + tt.raw + `,"is_valid":true}`)))
			assert.Equal(t, tt.want, result.Confidence)
		})
	}
}

func TestParseResponse_ListCoercion(t *testing.T) {
	body := envelope(`{"is_valid":false,"issues":["real issue","",42,"  "],"suggestions":[null,"fix it"]}`)

	result := ParseResponse([]byte(body))

	assert.Equal(t, []string{"real issue"}, result.Issues)
	assert.Equal(t, []string{"fix it"}, result.Suggestions)
}

func TestParseResponse_MarkdownWrappedJSON(t *testing.T) {
	content := "```json\n{\"confidence\":0.8,\"is_valid\":true,\"explanation\":\"ok\"}\n```"

	result := ParseResponse([]byte(envelope(content)))

	assert.Equal(t, 0.8, result.Confidence)
	assert.True(t, result.IsValid)
}

func TestParseResponse_ProseFallsBack(t *testing.T) {
	content := "The field has problems.\nIssue: Missing age\nSuggestion: Provide an age"

	result := ParseResponse([]byte(envelope(content)))

	assert.Equal(t, 0.5, result.Confidence)
	assert.Equal(t, []string{"Missing age"}, result.Issues)
	assert.Equal(t, []string{"Provide an age"}, result.Suggestions)
	// Usage still comes from the envelope, not the content.
	require.NotNil(t, result.Usage)
	assert.Equal(t, 100, result.Usage.PromptTokens)
}

func TestParseResponse_NonObjectContentFallsBack(t *testing.T) {
	for _, content := range []string{"null", `"just a string"`, "[1,2,3]", "true"} {
		result := ParseResponse([]byte(envelope(content)))
		assert.Equal(t, 0.5, result.Confidence, "content %q must take the fallback path", content)
	}
}

func TestParseResponse_UnusableEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not JSON at all", body: "<html>bad gateway</html>"},
		{name: "empty choices", body: `{"choices":[]}`},
		{name: "empty object", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseResponse([]byte(tt.body))

			// A malformed envelope is "no usable answer", never a panic
			// or an error result that would fail the form.
			require.NotNil(t, result)
			assert.True(t, result.IsValid)
			assert.Equal(t, 0.0, result.Confidence)
			assert.Empty(t, result.Issues)
		})
	}
}

func TestParseResponse_ExplanationTruncated(t *testing.T) {
	long := strings.Repeat("a", 600)
	result := ParseResponse([]byte(envelope(`{"is_valid":true,"explanation":"` + long + `"}`)))

	assert.Len(t, result.Explanation, domain.MaxExplanationLength)
}

func TestParseErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "error envelope",
			body: `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`,
			want: "Incorrect API key provided",
		},
		{
			name: "plain body",
			body: "service unavailable",
			want: "service unavailable",
		},
		{
			name: "JSON without error field",
			body: `{"detail":"nope"}`,
			want: `{"detail":"nope"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseErrorMessage([]byte(tt.body)))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "bare object", content: `{"a":1}`, want: `{"a":1}`},
		{name: "prose around object", content: `Here you go: {"a":1} hope it helps`, want: `{"a":1}`},
		{name: "nested braces", content: `{"a":{"b":2}}`, want: `{"a":{"b":2}}`},
		{name: "no object", content: "just words", want: ""},
		{name: "unbalanced braces", content: `{"a":1`, want: ""},
		{name: "invalid object", content: `{not json}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSONObject(tt.content))
		})
	}
}
