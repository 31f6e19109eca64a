// internal/analysis/transport/request.go
package transport

import (
	"errors"
	"strings"
)

var ErrEmptyTranscript = errors.New("EMPTY_TRANSCRIPT")

// NewRequest builds an analyze request. The transcript is sent as typed; the
// provider name and aliases are trimmed and aliases are de-duplicated in
// order of first appearance.
func NewRequest(text, providerName string, aliases []string) (*Request, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyTranscript
	}
	return &Request{
		Text:            text,
		ProviderName:    strings.TrimSpace(providerName),
		ProviderAliases: normalizeAliases(aliases),
	}, nil
}

// ParseAliases splits a comma-separated alias list such as
// "OpenAI, Open AI, ChatGPT".
func ParseAliases(csv string) []string {
	return normalizeAliases(strings.Split(csv, ","))
}

func normalizeAliases(aliases []string) []string {
	out := make([]string, 0, len(aliases))
	seen := make(map[string]struct{}, len(aliases))
	for _, alias := range aliases {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			continue
		}
		if _, dup := seen[alias]; dup {
			continue
		}
		seen[alias] = struct{}{}
		out = append(out, alias)
	}
	return out
}
