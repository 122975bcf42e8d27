// Package ai provides the AI validation client interface and implementations.
package ai

import (
	"context"

	"github.com/formsentry/internal/domain"
	"go.uber.org/zap"
)

// MockClient implements the Client interface for testing and mock mode.
type MockClient struct {
	pricing PricingTable
	logger  *zap.Logger
}

// NewMockClient creates a new mock AI client for testing.
func NewMockClient(logger *zap.Logger) *MockClient {
	return &MockClient{
		pricing: DefaultPricingTable(),
		logger:  logger.Named("mock_ai_client"),
	}
}

// Validate returns a canned validation result.
func (c *MockClient) Validate(ctx context.Context, prompt string, opts domain.RequestOptions) (*domain.ValidationResult, error) {
	c.logger.Debug("mock AI validation", zap.Int("prompt_length", len(prompt)))

	return &domain.ValidationResult{
		Confidence:  0.9,
		IsValid:     true,
		Issues:      []string{},
		Suggestions: []string{"Set AI_MOCK_MODE=false to enable real AI validation"},
		Explanation: "Mock validation result. Configure AI_API_KEY and disable mock mode for real judgments.",
	}, nil
}

// EstimateCost applies the default pricing table's fallback entry.
func (c *MockClient) EstimateCost(promptTokens, completionTokens int) float64 {
	return c.pricing.Estimate("", promptTokens, completionTokens)
}

// Available always reports true for the mock client.
func (c *MockClient) Available() bool {
	return true
}
