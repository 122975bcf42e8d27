// Package ai provides the AI validation client interface and implementations.
package ai

import (
	"context"

	"github.com/formsentry/internal/domain"
)

// Client is the capability set a validation backend must provide.
// This interface allows for easy mocking and swapping of AI providers.
type Client interface {
	// Validate sends a validation prompt to the model and returns the
	// normalized result. The context should carry cancellation signals;
	// the call itself is bounded by the configured timeout.
	Validate(ctx context.Context, prompt string, opts domain.RequestOptions) (*domain.ValidationResult, error)

	// EstimateCost returns the estimated USD cost of a call with the
	// given token counts under the active model's pricing. Never fails.
	EstimateCost(promptTokens, completionTokens int) float64

	// Available reports whether the client holds a usable credential.
	Available() bool
}

// PromptBuilder defines the interface for constructing validation prompts.
type PromptBuilder interface {
	// BuildSystemPrompt returns the system prompt that pins the model to
	// the JSON response schema.
	BuildSystemPrompt() string

	// BuildUserPrompt constructs the user prompt for one form field.
	BuildUserPrompt(field domain.FieldSubmission) string
}
