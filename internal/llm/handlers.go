package llm

import (
	"encoding/json"
	"net/http"

	pkgllm "github.com/MattTPin/movie-reccomendation-agent/pkg/llm"
)

// handleGetConfig returns the active provider configuration.
//
//	@Summary		Get LLM config
//	@Description	Returns the active chat model provider and model.
//	@Tags			llm
//	@Produce		json
//	@Success		200 {object} ConfigResponse
//	@Router			/llm/config [get]
func (m *Module) handleGetConfig(w http.ResponseWriter, _ *http.Request) {
	cfg := m.config()
	resp := ConfigResponse{Provider: cfg.Provider, Model: cfg.model()}

	switch cfg.Provider {
	case ProviderOpenAI:
		resp.BaseURL = cfg.OpenAI.BaseURL
		resp.KeySet = cfg.OpenAI.APIKey != ""
	case ProviderOllama:
		resp.BaseURL = cfg.Ollama.URL
		resp.KeySet = true
	default:
		resp.BaseURL = cfg.Anthropic.BaseURL
		resp.KeySet = cfg.Anthropic.APIKey != ""
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleTestConnection checks connectivity to the configured provider.
//
//	@Summary		Test LLM connection
//	@Description	Sends a heartbeat to the configured provider and lists its models.
//	@Tags			llm
//	@Produce		json
//	@Success		200 {object} TestResponse
//	@Router			/llm/test [post]
func (m *Module) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	provider := m.Provider()
	if provider == nil {
		writeJSON(w, http.StatusOK, TestResponse{Message: "no provider configured"})
		return
	}

	hr, ok := provider.(pkgllm.HealthReporter)
	if !ok {
		writeJSON(w, http.StatusOK, TestResponse{Message: "provider does not support health checks"})
		return
	}

	models, err := hr.ListModels(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, TestResponse{Message: "connection failed: " + pkgllm.Code(err)})
		return
	}

	writeJSON(w, http.StatusOK, TestResponse{
		Success: true,
		Message: "connected",
		Model:   m.config().model(),
		Models:  models,
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
