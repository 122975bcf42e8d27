// Package ai provides the AI validation client interface and implementations.
package ai

import "github.com/formsentry/internal/domain"

// OpenAI-compatible chat completion wire structures.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// buildChatRequest assembles the outbound payload: the fixed system
// instruction, the caller's prompt as user content, the sampling
// parameters from opts (defaults applied), and the JSON response mode
// directive. Pure function, no I/O.
func buildChatRequest(model, systemPrompt, userPrompt string, opts domain.RequestOptions) chatRequest {
	opts = opts.WithDefaults()

	return chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    opts.Temperature,
		MaxTokens:      opts.MaxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
}
