// internal/analysis/transport/models.go
package transport

// Request is the body POSTed to {BaseURL}/analyze.
type Request struct {
	Text            string   `json:"text"`
	ProviderName    string   `json:"provider_name"`
	ProviderAliases []string `json:"provider_aliases"`
}

type errorBody struct {
	Message interface{} `json:"message"`
}
