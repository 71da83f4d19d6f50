package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/llm"
	"go.uber.org/zap"
)

type textBlock struct {
	Text string `json:"text"`
}

type sentMessage struct {
	Role    string      `json:"role"`
	Content []textBlock `json:"content"`
}

type capturedRequest struct {
	Model     string        `json:"model"`
	System    []textBlock   `json:"system"`
	Messages  []sentMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

func mockAnthropic(t *testing.T, got *capturedRequest) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/messages", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "test-key" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)) //nolint:errcheck
			return
		}
		if got != nil {
			json.NewDecoder(r.Body).Decode(got) //nolint:errcheck
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [{"type": "text", "text": "Here are three picks."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 12, "output_tokens": 5}
		}`)) //nolint:errcheck
	})
	mux.HandleFunc("GET /v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [{"id": "claude-test", "type": "model", "display_name": "Claude Test", "created_at": "2025-01-01T00:00:00Z"}],
			"has_more": false,
			"first_id": "claude-test",
			"last_id": "claude-test"
		}`)) //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(t *testing.T, baseURL, key string) *Provider {
	t.Helper()
	p, err := New(Config{Model: "claude-test", BaseURL: baseURL, APIKey: key, Timeout: 5 * time.Second}, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := New(DefaultConfig(), zap.NewNop()); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestChat_SystemAndLeadingAssistantFolded(t *testing.T) {
	var got capturedRequest
	srv := mockAnthropic(t, &got)
	p := newTestProvider(t, srv.URL, "test-key")

	resp, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleAssistant, Content: "Movie assistant, I am!."},
		{Role: llm.RoleUser, Content: "what's trending?"},
	}, llm.WithSystem("You route requests."), llm.WithMaxTokens(256))
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	if resp.Content != "Here are three picks." {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 17 {
		t.Errorf("TotalTokens = %d, want 17", resp.Usage.TotalTokens)
	}
	if len(got.System) != 1 || got.System[0].Text != "You route requests." {
		t.Errorf("system = %+v", got.System)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Fatalf("messages = %+v, want a single user turn", got.Messages)
	}
	want := "[Earlier assistant message]: Movie assistant, I am!.\n\nwhat's trending?"
	if c := got.Messages[0].Content; len(c) != 1 || c[0].Text != want {
		t.Errorf("content = %+v, want %q", c, want)
	}
	if got.MaxTokens != 256 {
		t.Errorf("max_tokens = %d, want 256", got.MaxTokens)
	}
}

func TestFoldLeadingAssistant(t *testing.T) {
	memory := llm.Message{Role: llm.RoleAssistant, Content: "[HIDDEN MEMORY]: {\"title\":\"Heat\"}"}
	in := []llm.Message{
		memory,
		{Role: llm.RoleUser, Content: "add it to my watchlist"},
		{Role: llm.RoleAssistant, Content: "Done."},
		{Role: llm.RoleUser, Content: "thanks"},
	}
	out := foldLeadingAssistant(in)
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	if out[0].Role != llm.RoleUser || !strings.Contains(out[0].Content, memory.Content) ||
		!strings.HasSuffix(out[0].Content, "add it to my watchlist") {
		t.Errorf("first = %+v, want the memory folded into the user turn", out[0])
	}
	if out[1].Content != "Done." || out[2].Content != "thanks" {
		t.Errorf("rest = %+v", out[1:])
	}
	if in[1].Content != "add it to my watchlist" {
		t.Error("input was modified")
	}

	user := []llm.Message{{Role: llm.RoleUser, Content: "hi"}}
	if got := foldLeadingAssistant(user); len(got) != 1 || got[0].Content != "hi" {
		t.Errorf("user-first input changed: %+v", got)
	}
}

func TestChat_NoUserTurn(t *testing.T) {
	srv := mockAnthropic(t, nil)
	p := newTestProvider(t, srv.URL, "test-key")

	_, err := p.Chat(context.Background(), []llm.Message{{Role: llm.RoleAssistant, Content: "hi"}})
	if !llm.IsInvalidRequestError(err) {
		t.Fatalf("err = %v, want invalid request", err)
	}
}

func TestChat_AuthenticationError(t *testing.T) {
	srv := mockAnthropic(t, nil)
	p := newTestProvider(t, srv.URL, "wrong-key")

	_, err := p.Generate(context.Background(), "hello")
	if !llm.IsAuthenticationError(err) {
		t.Fatalf("err = %v, want authentication error", err)
	}
}

func TestListModels(t *testing.T) {
	srv := mockAnthropic(t, nil)
	p := newTestProvider(t, srv.URL, "test-key")

	models, err := p.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(models) != 1 || models[0] != "claude-test" {
		t.Errorf("models = %v", models)
	}
	if err := p.Heartbeat(context.Background()); err != nil {
		t.Errorf("Heartbeat: %v", err)
	}
}
