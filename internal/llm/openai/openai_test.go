package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/llm"
	"go.uber.org/zap"
)

func mockOpenAI(t *testing.T, got *chatRequest) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if got != nil {
			*got = req
		}
		if req.Model == "missing" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"message":"The model does not exist","type":"invalid_request_error","code":"model_not_found"}}`)) //nolint:errcheck
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"gpt-test","choices":[{"message":{"role":"assistant","content":"{\"action\":\"GetTrending\",\"args\":{}}"},"finish_reason":"stop"}],"usage":{"prompt_tokens":20,"completion_tokens":8,"total_tokens":28}}`)) //nolint:errcheck
	})
	mux.HandleFunc("GET /models", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`)) //nolint:errcheck
			return
		}
		w.Write([]byte(`{"data":[{"id":"gpt-test"},{"id":"gpt-other"}]}`)) //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(t *testing.T, baseURL, key string) *Provider {
	t.Helper()
	p, err := New(Config{Model: "gpt-test", BaseURL: baseURL, APIKey: key, Timeout: 5 * time.Second}, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestChat_SystemFirst(t *testing.T) {
	var got chatRequest
	srv := mockOpenAI(t, &got)
	p := newTestProvider(t, srv.URL, "test-key")

	resp, err := p.Chat(context.Background(),
		[]llm.Message{{Role: llm.RoleUser, Content: "trending?"}},
		llm.WithSystem("route"),
	)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Usage.TotalTokens != 28 || !resp.Done {
		t.Errorf("resp = %+v", resp)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != llm.RoleSystem || got.Messages[0].Content != "route" {
		t.Errorf("messages = %+v", got.Messages)
	}
	if got.Temperature != llm.DefaultTemperature {
		t.Errorf("temperature = %v, want %v", got.Temperature, llm.DefaultTemperature)
	}
}

func TestChat_ModelNotFound(t *testing.T) {
	srv := mockOpenAI(t, nil)
	p := newTestProvider(t, srv.URL, "test-key")

	_, err := p.Generate(context.Background(), "hi", llm.WithModel("missing"))
	if !llm.IsModelNotFoundError(err) {
		t.Fatalf("err = %v, want model not found", err)
	}
}

func TestListModels(t *testing.T) {
	srv := mockOpenAI(t, nil)

	models, err := newTestProvider(t, srv.URL, "test-key").ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(models) != 2 {
		t.Errorf("models = %v", models)
	}

	err = newTestProvider(t, srv.URL, "bad").Heartbeat(context.Background())
	if !llm.IsAuthenticationError(err) {
		t.Errorf("Heartbeat err = %v, want authentication error", err)
	}
}
