// Package ai provides the AI validation client interface and implementations.
package ai

import (
	"encoding/json"

	"github.com/formsentry/internal/domain"
)

// chatResponse is the provider's success envelope.
type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *domain.TokenUsage `json:"usage"`
}

// errorResponse is the provider's error envelope.
type errorResponse struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// structuredResult mirrors the JSON schema requested from the model.
// Confidence is a pointer so absence can be told apart from zero;
// issue lists are decoded loosely and coerced afterwards.
type structuredResult struct {
	Confidence  *float64      `json:"confidence"`
	IsValid     bool          `json:"is_valid"`
	Issues      []interface{} `json:"issues"`
	Suggestions []interface{} `json:"suggestions"`
	Explanation string        `json:"explanation"`
}

// ParseResponse converts a raw provider body into a ValidationResult.
// A malformed envelope is "no usable answer", not an error; malformed
// content JSON falls back to line-based extraction. This function never
// fails.
func ParseResponse(body []byte) *domain.ValidationResult {
	var envelope chatResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return domain.UnavailableResult("AI validation unavailable: unreadable model reply")
	}

	if len(envelope.Choices) == 0 {
		return domain.UnavailableResult("AI validation unavailable: empty model reply")
	}

	content := envelope.Choices[0].Message.Content
	result := parseContent(content)
	if envelope.Usage != nil {
		usage := *envelope.Usage
		result.Usage = &usage
	}

	return result
}

// parseContent interprets the model's content field: the structured JSON
// path when the content carries a parseable object, the line-based
// fallback otherwise.
func parseContent(content string) *domain.ValidationResult {
	if jsonObj := extractJSONObject(content); jsonObj != "" {
		var sr structuredResult
		if err := json.Unmarshal([]byte(jsonObj), &sr); err == nil {
			explanation := sr.Explanation
			if explanation == "" {
				explanation = domain.DefaultExplanation
			}

			return &domain.ValidationResult{
				Confidence:  NormalizeConfidence(sr.Confidence),
				IsValid:     sr.IsValid,
				Issues:      coerceStringList(sr.Issues),
				Suggestions: coerceStringList(sr.Suggestions),
				Explanation: domain.TruncateExplanation(explanation),
			}
		}
	}

	return parseFallbackContent(content)
}

// ParseErrorMessage extracts a human message from a provider error body,
// falling back to the raw body text when the error envelope is absent.
func ParseErrorMessage(body []byte) string {
	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return string(body)
}

// extractJSONObject returns the first top-level JSON object found in
// content, or "" when none parses. The model sometimes wraps its JSON in
// markdown fences or prose; a single brace-matching scan handles that in
// linear time.
func extractJSONObject(content string) string {
	start := -1
	for i := 0; i < len(content); i++ {
		if content[i] == '{' {
			start = i
			break
		}
	}
	if start == -1 {
		return ""
	}

	depth := 0
	end := -1
	for i := start; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i + 1
			}
		}
		if end != -1 {
			break
		}
	}
	if end == -1 {
		return ""
	}

	extracted := content[start:end]
	if !json.Valid([]byte(extracted)) {
		return ""
	}

	return extracted
}
