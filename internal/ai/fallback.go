// Package ai provides the AI validation client interface and implementations.
package ai

import (
	"strings"

	"github.com/formsentry/internal/domain"
)

// fallbackConfidence is reported when the model declined to commit to a
// structured judgment; the schema midpoint marks maximal uncertainty.
const fallbackConfidence = 0.5

// parseFallbackContent extracts issues and suggestions from unstructured
// model prose. The scan is strictly line-by-line with fixed-length prefix
// and single-character comparisons only; no pattern with an unbounded
// quantifier ever touches model output, so adversarial content (e.g.
// thousands of repeated tabs) is processed in linear time.
func parseFallbackContent(text string) *domain.ValidationResult {
	issues := []string{}
	suggestions := []string{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Strip one leading bullet marker.
		if line[0] == '-' || line[0] == '*' {
			line = strings.TrimLeft(line[1:], " \t")
			if line == "" {
				continue
			}
		}

		if value, ok := labeledValue(line, "issue"); ok {
			if value != "" {
				issues = append(issues, value)
			}
			continue
		}
		if value, ok := labeledValue(line, "suggestion"); ok {
			if value != "" {
				suggestions = append(suggestions, value)
			}
		}
	}

	// Deliberately loose: plain substring containment, so "invalidate"
	// or "errorless" also flip the judgment. Existing callers depend on
	// this exact behavior.
	lower := strings.ToLower(text)
	isValid := !strings.Contains(lower, "invalid") && !strings.Contains(lower, "error")

	return &domain.ValidationResult{
		Confidence:  fallbackConfidence,
		IsValid:     isValid,
		Issues:      issues,
		Suggestions: suggestions,
		Explanation: domain.TruncateExplanation(text),
	}
}

// labeledValue reports whether line starts with the given singular label
// followed by a colon, space, tab or end-of-line, and returns the
// left-trimmed value after it. Plural forms ("issues:", "suggestions:")
// do not match: the character after the label is then 's', which is not a
// separator. Those lines are section headers, not list items.
func labeledValue(line, label string) (string, bool) {
	if len(line) < len(label) {
		return "", false
	}
	if !strings.EqualFold(line[:len(label)], label) {
		return "", false
	}

	rest := line[len(label):]
	if rest == "" {
		// Label alone on the line: a match with no value.
		return "", true
	}

	sep := rest[0]
	if sep != ':' && sep != ' ' && sep != '\t' {
		return "", false
	}

	value := strings.TrimLeft(rest[1:], " \t")
	// Handle "issue : text" — the colon survives the separator strip.
	if strings.HasPrefix(value, ":") {
		value = strings.TrimLeft(value[1:], " \t")
	}

	return value, true
}
