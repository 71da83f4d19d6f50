package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MattTPin/movie-reccomendation-agent/internal/config"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin/plugintest"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func mockOllama(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ollama is running")) //nolint:errcheck
	})
	mux.HandleFunc("GET /api/tags", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[{"name":"test-model"}]}`)) //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func ollamaDeps(url string) plugin.Dependencies {
	v := viper.New()
	v.Set("provider", "ollama")
	v.Set("ollama.url", url)
	v.Set("ollama.model", "test-model")
	v.Set("ollama.timeout", "2s")
	return plugin.Dependencies{Logger: zap.NewNop(), Config: config.New(v)}
}

func TestPluginContract(t *testing.T) {
	srv := mockOllama(t)
	plugintest.TestPluginContract(t, func() plugin.Plugin { return New() },
		func(string) plugin.Dependencies { return ollamaDeps(srv.URL) })
}

func TestInit_AnthropicWithoutKey(t *testing.T) {
	m := New()
	err := m.Init(context.Background(), plugin.Dependencies{Logger: zap.NewNop()})
	if err == nil {
		t.Fatal("expected error: anthropic is the default and needs a key")
	}
}

func TestInit_UnknownProvider(t *testing.T) {
	v := viper.New()
	v.Set("provider", "gemini")
	m := New()
	err := m.Init(context.Background(), plugin.Dependencies{Logger: zap.NewNop(), Config: config.New(v)})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestStart_UnreachableIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	m := New()
	if err := m.Init(context.Background(), ollamaDeps(srv.URL)); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := m.Health(context.Background()); h.Status != "unhealthy" {
		t.Errorf("Health = %q, want unhealthy", h.Status)
	}
}

func TestHandlers(t *testing.T) {
	srv := mockOllama(t)
	m := New()
	if err := m.Init(context.Background(), ollamaDeps(srv.URL)); err != nil {
		t.Fatalf("Init: %v", err)
	}

	rec := httptest.NewRecorder()
	m.handleGetConfig(rec, httptest.NewRequest(http.MethodGet, "/config", nil))
	var cfg ConfigResponse
	if err := json.NewDecoder(rec.Body).Decode(&cfg); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Provider != "ollama" || cfg.Model != "test-model" || cfg.BaseURL != srv.URL {
		t.Errorf("config = %+v", cfg)
	}

	rec = httptest.NewRecorder()
	m.handleTestConnection(rec, httptest.NewRequest(http.MethodPost, "/test", nil))
	var res TestResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode test: %v", err)
	}
	if !res.Success || len(res.Models) != 1 {
		t.Errorf("test = %+v", res)
	}
}
