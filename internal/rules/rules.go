// Package rules provides rule-based form-field pre-validation.
// Rules are applied before AI validation to handle common, well-known
// defects with high confidence and zero cost.
package rules

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/formsentry/internal/domain"
)

// Rule represents a single pre-validation rule. A rule only produces a
// result when it can make a conclusive judgment about the field; anything
// uncertain is left for the AI.
type Rule struct {
	// ID is the unique identifier for this rule.
	ID string

	// Name is a human-readable name for the rule.
	Name string

	// Description explains what this rule detects.
	Description string

	// Confidence is the confidence level when this rule matches (0.0-1.0).
	Confidence float64

	// Check inspects the field and returns a result when the rule is
	// conclusive, nil otherwise.
	Check func(field domain.FieldSubmission) *domain.ValidationResult
}

// Match runs the rule against a field.
func (r *Rule) Match(field domain.FieldSubmission) *domain.ValidationResult {
	result := r.Check(field)
	if result == nil {
		return nil
	}
	result.Confidence = r.Confidence
	return result
}

// DefaultRules returns the built-in set of rules for common field defects.
func DefaultRules() []*Rule {
	return []*Rule{
		emptyRequiredField(),
		oversizedValue(),
		malformedEmail(),
		nonNumericValue(),
		controlCharacters(),
	}
}

// rulesMention reports whether the field's free-text rules mention any of
// the given keywords (case-insensitive).
func rulesMention(field domain.FieldSubmission, keywords ...string) bool {
	lower := strings.ToLower(field.Rules)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func invalid(explanation string, issues, suggestions []string) *domain.ValidationResult {
	return &domain.ValidationResult{
		IsValid:     false,
		Issues:      issues,
		Suggestions: suggestions,
		Explanation: domain.TruncateExplanation(explanation),
	}
}

func emptyRequiredField() *Rule {
	return &Rule{
		ID:          "empty_required_field",
		Name:        "Empty Required Field",
		Description: "Rejects required fields submitted without content",
		Confidence:  1.0,
		Check: func(field domain.FieldSubmission) *domain.ValidationResult {
			if strings.TrimSpace(field.Value) != "" {
				return nil
			}
			if !rulesMention(field, "required", "mandatory", "must") {
				return nil
			}
			return invalid(
				"The field is required but no value was submitted.",
				[]string{"Missing required field"},
				[]string{"Add a value for the field"},
			)
		},
	}
}

// maxPlausibleValueSize caps a single field value. Anything larger is not
// a form field, it is a paste accident or an attack.
const maxPlausibleValueSize = 5000

func oversizedValue() *Rule {
	return &Rule{
		ID:          "oversized_value",
		Name:        "Oversized Value",
		Description: "Rejects field values far beyond any plausible form input",
		Confidence:  0.95,
		Check: func(field domain.FieldSubmission) *domain.ValidationResult {
			if len(field.Value) <= maxPlausibleValueSize {
				return nil
			}
			return invalid(
				"The submitted value exceeds the maximum plausible size for a form field.",
				[]string{"Value is too long for a form field"},
				[]string{"Shorten the value to fewer than " + strconv.Itoa(maxPlausibleValueSize) + " characters"},
			)
		},
	}
}

// emailPattern is a deliberately loose shape check; anything passing it is
// still handed to the AI for the real judgment.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func malformedEmail() *Rule {
	return &Rule{
		ID:          "malformed_email",
		Name:        "Malformed Email",
		Description: "Rejects values that cannot be an email address when the rules ask for one",
		Confidence:  0.9,
		Check: func(field domain.FieldSubmission) *domain.ValidationResult {
			if !rulesMention(field, "email", "e-mail") {
				return nil
			}
			value := strings.TrimSpace(field.Value)
			if value == "" || emailPattern.MatchString(value) {
				return nil
			}
			return invalid(
				"The submitted value does not have the shape of an email address.",
				[]string{"Value is not a valid email address"},
				[]string{"Use the form name@example.com"},
			)
		},
	}
}

func nonNumericValue() *Rule {
	return &Rule{
		ID:          "non_numeric_value",
		Name:        "Non-Numeric Value",
		Description: "Rejects non-numeric values when the rules ask for a number",
		Confidence:  0.9,
		Check: func(field domain.FieldSubmission) *domain.ValidationResult {
			if !rulesMention(field, "number", "numeric", "integer", "age", "quantity") {
				return nil
			}
			value := strings.TrimSpace(field.Value)
			if value == "" {
				return nil
			}
			if _, err := strconv.ParseFloat(value, 64); err == nil {
				return nil
			}
			return invalid(
				"The submitted value is not a number although the rules require one.",
				[]string{"Value is not numeric"},
				[]string{"Enter digits only, e.g. 42"},
			)
		},
	}
}

func controlCharacters() *Rule {
	return &Rule{
		ID:          "control_characters",
		Name:        "Control Characters",
		Description: "Rejects values containing non-printable control characters",
		Confidence:  0.95,
		Check: func(field domain.FieldSubmission) *domain.ValidationResult {
			for _, r := range field.Value {
				if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
					return invalid(
						"The submitted value contains non-printable control characters.",
						[]string{"Value contains control characters"},
						[]string{"Remove non-printable characters from the value"},
					)
				}
			}
			return nil
		},
	}
}
