// internal/analysis/service/models.go
package service

import (
	"provider-visibility/internal/analysis/normalize"
	"provider-visibility/internal/analysis/stats"
)

// Input is an analysis request as submitted by the CLI or the gateway.
// Empty provider fields fall back to the configured masking defaults.
type Input struct {
	Text            string   `json:"text"`
	ProviderName    string   `json:"providerName,omitempty"`
	ProviderAliases []string `json:"providerAliases,omitempty"`
}

type Output struct {
	Result     *normalize.Result `json:"result"`
	Comparison *stats.Comparison `json:"comparison"`
}

const inputSchema = `{
	"type": "object",
	"properties": {
		"text": {"type": "string"},
		"providerName": {"type": "string", "maxLength": 200},
		"providerAliases": {
			"type": "array",
			"maxItems": 100,
			"items": {"type": "string", "maxLength": 200}
		}
	},
	"required": ["text"]
}`
