// Package ai provides the AI validation client interface and implementations.
package ai

import "github.com/formsentry/internal/domain"

// PricingTable maps model identifiers to per-token rates. It is injected
// at construction, immutable afterwards, and safe to share across
// concurrent clients. Unrecognized models use the Default entry, so cost
// estimation never fails.
type PricingTable struct {
	Entries map[string]domain.PricingEntry
	Default domain.PricingEntry
}

// DefaultPricingTable returns the built-in rates for the allow-listed
// models, in USD per token. The default entry mirrors the cheapest tier
// so an unrecognized model never inflates estimates.
func DefaultPricingTable() PricingTable {
	return PricingTable{
		Entries: map[string]domain.PricingEntry{
			"gpt-4o":        {InputRate: 2.50 / 1e6, OutputRate: 10.00 / 1e6},
			"gpt-4o-mini":   {InputRate: 0.15 / 1e6, OutputRate: 0.60 / 1e6},
			"gpt-4-turbo":   {InputRate: 10.00 / 1e6, OutputRate: 30.00 / 1e6},
			"gpt-3.5-turbo": {InputRate: 0.50 / 1e6, OutputRate: 1.50 / 1e6},
		},
		Default: domain.PricingEntry{InputRate: 0.15 / 1e6, OutputRate: 0.60 / 1e6},
	}
}

// Lookup returns the pricing entry for model, or the default entry when
// the model is unrecognized.
func (t PricingTable) Lookup(model string) domain.PricingEntry {
	if entry, ok := t.Entries[model]; ok {
		return entry
	}
	return t.Default
}

// Estimate returns the estimated USD cost for a call with the given token
// counts under the model's rates.
func (t PricingTable) Estimate(model string, promptTokens, completionTokens int) float64 {
	entry := t.Lookup(model)
	return float64(promptTokens)*entry.InputRate + float64(completionTokens)*entry.OutputRate
}
