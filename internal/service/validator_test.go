// Package service provides unit tests for the validation pipeline.
package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/formsentry/internal/ai"
	"github.com/formsentry/internal/domain"
	"github.com/formsentry/internal/rules"
	"github.com/formsentry/pkg/sanitizer"
	"go.uber.org/zap"
)

// stubClient implements ai.Client with scripted behavior.
type stubClient struct {
	mu           sync.Mutex
	result       *domain.ValidationResult
	err          error
	failuresLeft int
	calls        int
}

func (c *stubClient) Validate(ctx context.Context, prompt string, opts domain.RequestOptions) (*domain.ValidationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.failuresLeft > 0 {
		c.failuresLeft--
		return nil, c.err
	}
	if c.err != nil && c.failuresLeft == 0 && c.result == nil {
		return nil, c.err
	}
	return c.result, nil
}

func (c *stubClient) EstimateCost(promptTokens, completionTokens int) float64 {
	return float64(promptTokens+completionTokens) * 0.001
}

func (c *stubClient) Available() bool { return true }

func (c *stubClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func newTestValidator(t *testing.T, client ai.Client, maxRetries int) *Validator {
	t.Helper()
	prompter, err := ai.NewDefaultPromptBuilder()
	if err != nil {
		t.Fatalf("NewDefaultPromptBuilder() error = %v", err)
	}
	return NewValidator(
		client,
		prompter,
		rules.NewEngine(rules.DefaultRules(), 0.8, zap.NewNop()),
		sanitizer.New(10000),
		ValidatorConfig{EnableRules: true, MaxRetries: maxRetries},
		zap.NewNop(),
	)
}

func aiResult() *domain.ValidationResult {
	return &domain.ValidationResult{
		Confidence:  0.9,
		IsValid:     true,
		Issues:      []string{},
		Suggestions: []string{},
		Explanation: "fine",
		Usage:       &domain.TokenUsage{PromptTokens: 100, CompletionTokens: 50},
	}
}

func TestValidator_RuleShortCircuit(t *testing.T) {
	client := &stubClient{result: aiResult()}
	v := newTestValidator(t, client, 0)

	resp := v.Validate(context.Background(), &domain.ValidationRequest{
		Fields: []domain.FieldSubmission{
			{Name: "email", Value: "", Rules: "required, a valid email address"},
		},
	})

	if !resp.Success {
		t.Fatal("expected success")
	}
	if client.callCount() != 0 {
		t.Errorf("AI called %d times for a rule-decided field", client.callCount())
	}
	if resp.Results[0].Source != "rules:empty_required_field" {
		t.Errorf("source = %q", resp.Results[0].Source)
	}
	if resp.Results[0].Result.IsValid {
		t.Error("empty required field should be invalid")
	}
	if resp.EstimatedCost != 0 {
		t.Errorf("rule-only validation should cost nothing, got %v", resp.EstimatedCost)
	}
}

func TestValidator_AIPathAccumulatesCost(t *testing.T) {
	client := &stubClient{result: aiResult()}
	v := newTestValidator(t, client, 0)

	resp := v.Validate(context.Background(), &domain.ValidationRequest{
		Fields: []domain.FieldSubmission{
			{Name: "city", Value: "Berlin", Rules: "a city in Germany"},
			{Name: "street", Value: "Unter den Linden 1", Rules: "a street address"},
		},
	})

	if !resp.Success {
		t.Fatal("expected success")
	}
	if client.callCount() != 2 {
		t.Errorf("AI called %d times, want 2", client.callCount())
	}

	// 150 tokens at 0.001 each, twice.
	want := 2 * 150 * 0.001
	if resp.EstimatedCost != want {
		t.Errorf("EstimatedCost = %v, want %v", resp.EstimatedCost, want)
	}

	for i, field := range []string{"city", "street"} {
		if resp.Results[i].Name != field {
			t.Errorf("results[%d].Name = %q, want %q (submission order)", i, resp.Results[i].Name, field)
		}
		if resp.Results[i].Source != "ai" {
			t.Errorf("results[%d].Source = %q", i, resp.Results[i].Source)
		}
	}
}

func TestValidator_RetriesTransientFailures(t *testing.T) {
	client := &stubClient{
		result:       aiResult(),
		err:          domain.WrapError("model_call", domain.ErrService, true),
		failuresLeft: 1,
	}
	v := newTestValidator(t, client, 2)

	resp := v.Validate(context.Background(), &domain.ValidationRequest{
		Fields: []domain.FieldSubmission{
			{Name: "city", Value: "Berlin", Rules: "a city"},
		},
	})

	if !resp.Success {
		t.Fatalf("expected success after retry, got %+v", resp.Results[0])
	}
	if client.callCount() != 2 {
		t.Errorf("AI called %d times, want 2 (one failure, one retry)", client.callCount())
	}
}

func TestValidator_NonRetryableFailureSurfaces(t *testing.T) {
	client := &stubClient{
		err:          domain.WrapError("model_call", domain.ErrService, false),
		failuresLeft: 1,
	}
	v := newTestValidator(t, client, 3)

	resp := v.Validate(context.Background(), &domain.ValidationRequest{
		Fields: []domain.FieldSubmission{
			{Name: "city", Value: "Berlin", Rules: "a city"},
		},
	})

	if resp.Success {
		t.Fatal("expected failure")
	}
	if client.callCount() != 1 {
		t.Errorf("AI called %d times, want 1 (no retry of non-retryable errors)", client.callCount())
	}
	if resp.Results[0].Error == "" {
		t.Error("field result should carry the error message")
	}
}

func TestValidator_SanitizesBeforeAI(t *testing.T) {
	var sawPrompt string
	client := &promptRecorder{result: aiResult(), saw: &sawPrompt}
	v := newTestValidator(t, client, 0)

	v.Validate(context.Background(), &domain.ValidationRequest{
		Fields: []domain.FieldSubmission{
			{Name: "notes", Value: "my password=supersecret99 ok", Rules: "free-form notes"},
		},
	})

	if sawPrompt == "" {
		t.Fatal("AI was never called")
	}
	if strings.Contains(sawPrompt, "supersecret99") {
		t.Error("secret leaked into the AI prompt")
	}
}

// promptRecorder captures the prompt handed to the client.
type promptRecorder struct {
	mu     sync.Mutex
	result *domain.ValidationResult
	saw    *string
}

func (c *promptRecorder) Validate(ctx context.Context, prompt string, opts domain.RequestOptions) (*domain.ValidationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c.saw = prompt
	return c.result, nil
}

func (c *promptRecorder) EstimateCost(promptTokens, completionTokens int) float64 { return 0 }

func (c *promptRecorder) Available() bool { return true }
