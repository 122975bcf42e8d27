// Package domain contains the core domain models and types.
// These models represent the business logic contracts and are independent
// of any infrastructure concerns.
package domain

import "time"

// MaxExplanationLength is the upper bound on ValidationResult.Explanation.
// Longer model output is truncated, never rejected.
const MaxExplanationLength = 500

// DefaultExplanation is substituted when a structured model response
// omits the explanation field.
const DefaultExplanation = "AI validation completed"

// TokenUsage reports the token counts of a single model call.
// It is passed through verbatim from the provider and absent when the
// provider omits it.
type TokenUsage struct {
	// PromptTokens is the number of tokens in the request.
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens is the number of tokens in the model's reply.
	CompletionTokens int `json:"completion_tokens"`
}

// ValidationResult is the normalized outcome of one AI validation call.
// It is produced exactly once per call and never mutated afterwards.
type ValidationResult struct {
	// Confidence is the model's self-reported certainty, always in [0, 1].
	Confidence float64 `json:"confidence"`

	// IsValid is the model's judgment of the submitted value.
	IsValid bool `json:"is_valid"`

	// Issues lists problems found with the value, in encounter order.
	// Never contains empty strings.
	Issues []string `json:"issues"`

	// Suggestions lists remediation hints, in encounter order.
	// Never contains empty strings.
	Suggestions []string `json:"suggestions"`

	// Explanation is a human-readable summary, at most
	// MaxExplanationLength characters.
	Explanation string `json:"explanation"`

	// Usage holds token counts when the provider reported them.
	Usage *TokenUsage `json:"usage,omitempty"`
}

// UnavailableResult returns the degraded result used when no usable model
// answer exists (missing credential, unusable envelope). Validation
// degrades open: an AI outage never fails a form.
func UnavailableResult(reason string) *ValidationResult {
	return &ValidationResult{
		Confidence:  0,
		IsValid:     true,
		Issues:      []string{},
		Suggestions: []string{},
		Explanation: TruncateExplanation(reason),
	}
}

// TruncateExplanation caps s at MaxExplanationLength characters
// (runes, not bytes).
func TruncateExplanation(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxExplanationLength {
		return s
	}
	return string(runes[:MaxExplanationLength])
}

// RequestOptions carries the per-call sampling parameters, immutable once
// built. Zero values are replaced by the documented defaults.
type RequestOptions struct {
	// Temperature controls sampling randomness. Default 0.3.
	Temperature float64

	// MaxTokens bounds the model's reply length. Default 1000.
	MaxTokens int
}

const (
	// DefaultTemperature is used when RequestOptions.Temperature is zero.
	DefaultTemperature = 0.3

	// DefaultMaxTokens is used when RequestOptions.MaxTokens is zero.
	DefaultMaxTokens = 1000
)

// WithDefaults returns a copy of o with zero fields replaced by defaults.
func (o RequestOptions) WithDefaults() RequestOptions {
	if o.Temperature == 0 {
		o.Temperature = DefaultTemperature
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	return o
}

// PricingEntry holds per-token rates for one model.
type PricingEntry struct {
	// InputRate is the cost per prompt token in USD.
	InputRate float64

	// OutputRate is the cost per completion token in USD.
	OutputRate float64
}

// FieldSubmission is a single form field to validate.
type FieldSubmission struct {
	// Name is the field identifier as submitted by the form.
	Name string `json:"name" binding:"required"`

	// Value is the raw submitted content.
	Value string `json:"value"`

	// Rules is a free-text description of what makes this field valid,
	// e.g. "a plausible shipping address in Germany".
	Rules string `json:"rules"`
}

// ValidationRequest is an incoming form-validation request.
type ValidationRequest struct {
	// Fields are the form fields to validate, each independently.
	Fields []FieldSubmission `json:"fields" binding:"required"`
}

// FieldResult pairs a field name with its validation outcome.
type FieldResult struct {
	// Name echoes the submitted field name.
	Name string `json:"name"`

	// Result is the normalized validation outcome for this field.
	Result *ValidationResult `json:"result,omitempty"`

	// Error holds the failure message when validation for this field
	// could not complete.
	Error string `json:"error,omitempty"`

	// Source indicates whether the result came from rules or AI.
	Source string `json:"source,omitempty"`
}

// RuleMatch represents a match from rule-based pre-validation.
type RuleMatch struct {
	// RuleID is the unique identifier of the matched rule.
	RuleID string

	// Confidence indicates how confident the rule match is (0.0 - 1.0).
	Confidence float64

	// Result is the pre-computed validation result from the rule.
	Result *ValidationResult
}

// ValidationResponse wraps per-field results with request metadata.
type ValidationResponse struct {
	// Success indicates whether every field produced a result.
	Success bool `json:"success"`

	// Results holds one entry per submitted field, in submission order.
	Results []FieldResult `json:"results"`

	// Error holds a request-level failure message, e.g. an unreadable body.
	Error string `json:"error,omitempty"`

	// EstimatedCost is the summed estimated USD cost of the AI calls.
	EstimatedCost float64 `json:"estimated_cost"`

	// ProcessedAt is the timestamp when validation completed.
	ProcessedAt time.Time `json:"processed_at"`
}
