// Package ai provides the AI validation client interface and implementations.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/formsentry/internal/config"
	"github.com/formsentry/internal/domain"
	"go.uber.org/zap"
)

// OpenAIClient implements the Client interface against an
// OpenAI-compatible chat completion API.
type OpenAIClient struct {
	config     *config.AIConfig
	httpClient *http.Client
	prompter   PromptBuilder
	pricing    PricingTable
	logger     *zap.Logger
}

// NewOpenAIClient creates a new OpenAI-compatible validation client.
// The model identifier is validated against the allow-list here, so a bad
// identity can never reach the network.
func NewOpenAIClient(cfg *config.AIConfig, prompter PromptBuilder, pricing PricingTable, logger *zap.Logger) (*OpenAIClient, error) {
	if !config.IsAllowedModel(cfg.Model) {
		return nil, domain.WrapError("new_client",
			fmt.Errorf("%w: %q is not one of %v", domain.ErrInvalidModel, cfg.Model, config.AllowedModels), false)
	}

	// The configured bound applies independently to connection
	// establishment and to the request as a whole.
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.Timeout,
		}).DialContext,
		TLSHandshakeTimeout: cfg.Timeout,
	}

	return &OpenAIClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		prompter: prompter,
		pricing:  pricing,
		logger:   logger.Named("ai_client"),
	}, nil
}

// Available reports whether the client holds a usable credential.
func (c *OpenAIClient) Available() bool {
	return c.config.APIKey != ""
}

// Validate sends a validation prompt to the model and returns the
// normalized result. Without a credential it degrades to an unavailable
// result instead of failing; callers treat "unavailable" as a soft
// condition, not an outage. No retry happens here.
func (c *OpenAIClient) Validate(ctx context.Context, prompt string, opts domain.RequestOptions) (*domain.ValidationResult, error) {
	if !c.Available() {
		c.logger.Warn("no API key configured, skipping AI validation")
		return domain.UnavailableResult("AI validation unavailable: no API key configured"), nil
	}

	startTime := time.Now()
	c.logger.Debug("starting AI validation", zap.Int("prompt_length", len(prompt)))

	reqBody := buildChatRequest(c.config.Model, c.prompter.BuildSystemPrompt(), prompt, opts)
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, domain.WrapError("marshal_request", fmt.Errorf("%w: %v", domain.ErrService, err), false)
	}

	url := fmt.Sprintf("%s/chat/completions", c.config.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, domain.WrapError("create_request", fmt.Errorf("%w: %v", domain.ErrService, err), false)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.mapTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.mapTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := ParseErrorMessage(body)
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, domain.WrapError("model_call",
			fmt.Errorf("%w: status %d: %s", domain.ErrService, resp.StatusCode, msg), retryable)
	}

	result := ParseResponse(body)

	c.logger.Debug("AI validation completed",
		zap.Duration("duration", time.Since(startTime)),
		zap.Float64("confidence", result.Confidence),
		zap.Bool("is_valid", result.IsValid),
	)

	return result, nil
}

// mapTransportError classifies a transport failure into the error
// taxonomy. Timeout takes precedence over connection failure, which takes
// precedence over generic service failure.
func (c *OpenAIClient) mapTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.WrapError("model_call",
			fmt.Errorf("%w after %s: %w", domain.ErrTimeout, c.config.Timeout, err), true)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.WrapError("model_call",
			fmt.Errorf("%w after %s: %w", domain.ErrTimeout, c.config.Timeout, err), true)
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) {
		return domain.WrapError("model_call",
			fmt.Errorf("%w: %w", domain.ErrConnection, err), true)
	}

	return domain.WrapError("model_call",
		fmt.Errorf("%w: %w", domain.ErrService, err), true)
}

// EstimateCost returns the estimated USD cost of a call with the given
// token counts under the active model's pricing. Unrecognized models use
// the table's default entry; never fails.
func (c *OpenAIClient) EstimateCost(promptTokens, completionTokens int) float64 {
	return c.pricing.Estimate(c.config.Model, promptTokens, completionTokens)
}
