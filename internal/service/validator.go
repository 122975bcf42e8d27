// Package service contains the business logic layer.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/formsentry/internal/ai"
	"github.com/formsentry/internal/domain"
	"github.com/formsentry/internal/rules"
	"github.com/formsentry/pkg/sanitizer"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// retryBaseDelay is the initial backoff between caller-side retries of
// transient AI failures.
const retryBaseDelay = 500 * time.Millisecond

// Validator orchestrates the form-validation pipeline.
type Validator struct {
	aiClient    ai.Client
	prompter    ai.PromptBuilder
	ruleEngine  *rules.Engine
	sanitizer   *sanitizer.Sanitizer
	enableRules bool
	maxRetries  int
	logger      *zap.Logger
}

// ValidatorConfig contains configuration for the Validator.
type ValidatorConfig struct {
	// EnableRules turns on rule-based pre-validation.
	EnableRules bool

	// MaxRetries bounds caller-side retries of transient AI failures.
	// The AI client itself never retries.
	MaxRetries int
}

// NewValidator creates a new Validator with all dependencies.
func NewValidator(
	aiClient ai.Client,
	prompter ai.PromptBuilder,
	ruleEngine *rules.Engine,
	sanitizer *sanitizer.Sanitizer,
	config ValidatorConfig,
	logger *zap.Logger,
) *Validator {
	return &Validator{
		aiClient:    aiClient,
		prompter:    prompter,
		ruleEngine:  ruleEngine,
		sanitizer:   sanitizer,
		enableRules: config.EnableRules,
		maxRetries:  config.MaxRetries,
		logger:      logger.Named("validator"),
	}
}

// Validate processes every field of a submission:
// 1. Sanitize the value (secret masking, size cap)
// 2. Apply rule-based pre-validation
// 3. If no conclusive rule match, ask the AI
// Fields are independent, so they are validated concurrently; the cost
// tracker is the only shared state.
func (v *Validator) Validate(ctx context.Context, req *domain.ValidationRequest) *domain.ValidationResponse {
	startTime := time.Now()
	v.logger.Debug("starting validation", zap.Int("field_count", len(req.Fields)))

	results := make([]domain.FieldResult, len(req.Fields))
	costs := NewCostTracker()

	var wg sync.WaitGroup
	for i, field := range req.Fields {
		wg.Add(1)
		go func(i int, field domain.FieldSubmission) {
			defer wg.Done()
			results[i] = v.validateField(ctx, field, costs)
		}(i, field)
	}
	wg.Wait()

	success := true
	for i := range results {
		if results[i].Error != "" {
			success = false
			break
		}
	}

	v.logger.Info("validation completed",
		zap.Int("field_count", len(req.Fields)),
		zap.Bool("success", success),
		zap.Float64("estimated_cost", costs.Total()),
		zap.Duration("duration", time.Since(startTime)),
	)

	return &domain.ValidationResponse{
		Success:       success,
		Results:       results,
		EstimatedCost: costs.Total(),
		ProcessedAt:   time.Now(),
	}
}

// validateField runs the pipeline for one field.
func (v *Validator) validateField(ctx context.Context, field domain.FieldSubmission, costs *CostTracker) domain.FieldResult {
	logger := v.logger.With(zap.String("field", field.Name))

	sanitized, stats := v.sanitizer.SanitizeWithStats(field.Value)
	if stats.SecretsFound > 0 || stats.Truncated {
		logger.Warn("field value sanitized",
			zap.Int("secrets_found", stats.SecretsFound),
			zap.Bool("truncated", stats.Truncated),
		)
	}
	field.Value = sanitized

	if v.enableRules {
		matches := v.ruleEngine.Analyze(field)
		if v.ruleEngine.ShouldUseRuleResult(matches) {
			best := v.ruleEngine.GetBestMatch(matches)
			logger.Info("using rule-based result",
				zap.String("rule_id", best.RuleID),
				zap.Float64("confidence", best.Confidence),
			)
			return domain.FieldResult{
				Name:   field.Name,
				Result: best.Result,
				Source: "rules:" + best.RuleID,
			}
		}
	}

	result, err := v.callAI(ctx, field)
	if err != nil {
		logger.Error("AI validation failed", zap.Error(err))
		return domain.FieldResult{
			Name:  field.Name,
			Error: err.Error(),
		}
	}

	if result.Usage != nil {
		costs.Add(v.aiClient.EstimateCost(result.Usage.PromptTokens, result.Usage.CompletionTokens))
	}

	return domain.FieldResult{
		Name:   field.Name,
		Result: result,
		Source: "ai",
	}
}

// callAI invokes the client with capped exponential backoff on transient
// failures. Retry policy lives here, with the caller, never in the client.
func (v *Validator) callAI(ctx context.Context, field domain.FieldSubmission) (*domain.ValidationResult, error) {
	prompt := v.prompter.BuildUserPrompt(field)

	backoff := retry.WithMaxRetries(uint64(v.maxRetries), retry.NewExponential(retryBaseDelay))

	return retry.DoValue(ctx, backoff, func(ctx context.Context) (*domain.ValidationResult, error) {
		result, err := v.aiClient.Validate(ctx, prompt, domain.RequestOptions{})
		if err != nil {
			if domain.IsRetryable(err) {
				return nil, retry.RetryableError(err)
			}
			return nil, err
		}
		return result, nil
	})
}
