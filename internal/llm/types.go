package llm

// ConfigResponse is the response for GET /llm/config. API keys are never
// echoed; KeySet reports whether one is configured.
type ConfigResponse struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	BaseURL  string `json:"base_url,omitempty"`
	KeySet   bool   `json:"key_set"`
}

// TestResponse is the response for POST /llm/test.
type TestResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Model   string   `json:"model,omitempty"`
	Models  []string `json:"models,omitempty"`
}
