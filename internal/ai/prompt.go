// Package ai provides the AI validation client interface and implementations.
package ai

import (
	"bytes"
	"text/template"

	"github.com/formsentry/internal/domain"
)

// DefaultPromptBuilder implements PromptBuilder with templated prompts.
type DefaultPromptBuilder struct {
	systemPrompt string
	userTemplate *template.Template
}

// systemPromptText pins the model to the response schema. The parser
// depends on the field names requested here.
const systemPromptText = `You are a data-quality assistant validating form-submission fields.

Your responsibilities:
1. Judge whether the submitted value satisfies the stated rules
2. Report your confidence in that judgment
3. List concrete issues found with the value
4. Suggest concrete corrections the submitter could make

You MUST respond with ONLY one valid JSON object with exactly these fields and nothing else:

{
  "confidence": number between 0.0 and 1.0,
  "is_valid": true or false,
  "issues": ["string array - problems found with the value"],
  "suggestions": ["string array - concrete corrections"],
  "explanation": "string - short summary of the judgment"
}

No markdown, no prose outside the JSON object.`

// userPromptTemplate presents one form field to the model.
const userPromptTemplate = `Validate the following form field.

Field name: {{.Name}}
Validation rules: {{.Rules}}

Submitted value:
---
{{.Value}}
---

Respond with ONLY the JSON object described in your instructions.`

// NewDefaultPromptBuilder creates a new prompt builder with default templates.
func NewDefaultPromptBuilder() (*DefaultPromptBuilder, error) {
	tmpl, err := template.New("user_prompt").Parse(userPromptTemplate)
	if err != nil {
		return nil, err
	}

	return &DefaultPromptBuilder{
		systemPrompt: systemPromptText,
		userTemplate: tmpl,
	}, nil
}

// BuildSystemPrompt returns the system prompt.
func (p *DefaultPromptBuilder) BuildSystemPrompt() string {
	return p.systemPrompt
}

// BuildUserPrompt constructs the user prompt for one form field.
func (p *DefaultPromptBuilder) BuildUserPrompt(field domain.FieldSubmission) string {
	var buf bytes.Buffer
	if err := p.userTemplate.Execute(&buf, field); err != nil {
		// Fallback to simple format if template fails
		return "Validate this form field value and return JSON:\n\n" + field.Value
	}

	return buf.String()
}
