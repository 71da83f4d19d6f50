package trakt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MattTPin/movie-reccomendation-agent/internal/config"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/models"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin/plugintest"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func TestContract(t *testing.T) {
	plugintest.TestPluginContract(t, func() plugin.Plugin { return New() }, nil)
}

func initModule(t *testing.T, url, token string) *Module {
	t.Helper()
	v := viper.New()
	v.Set("base_url", url)
	v.Set("client_id", testClientID)
	v.Set("access_token", token)
	v.Set("requests_per_second", 1000.0)
	v.Set("burst", 1000)

	m := New()
	err := m.Init(context.Background(), plugin.Dependencies{
		Config: config.New(v),
		Logger: zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return m
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		init   func(t *testing.T) *Module
		status string
	}{
		{"no client id", func(t *testing.T) *Module {
			m := New()
			if err := m.Init(context.Background(), plugin.Dependencies{Logger: zap.NewNop()}); err != nil {
				t.Fatal(err)
			}
			return m
		}, "unhealthy"},
		{"no token", func(t *testing.T) *Module { return initModule(t, "http://trakt.invalid", "") }, "degraded"},
		{"configured", func(t *testing.T) *Module { return initModule(t, "http://trakt.invalid", testToken) }, "healthy"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.init(t).Health(context.Background()).Status; got != tc.status {
				t.Errorf("Health() = %q, want %q", got, tc.status)
			}
		})
	}
}

func TestHandleSearch(t *testing.T) {
	_, srv := newFakeTrakt(t)
	m := initModule(t, srv.URL, testToken)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLookup models.LookupStatus
	}{
		{"title", "?title=Heat", http.StatusOK, models.LookupMatch},
		{"id", "?trakt_id=1", http.StatusOK, models.LookupMatch},
		{"ambiguous", "?title=The+Batman", http.StatusOK, models.LookupMultiple},
		{"missing", "", http.StatusBadRequest, ""},
		{"bad year", "?title=Heat&year=soon", http.StatusBadRequest, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			m.handleSearch(rec, httptest.NewRequest(http.MethodGet, "/search"+tc.query, nil))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if tc.wantStatus != http.StatusOK {
				if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
					t.Errorf("Content-Type = %q, want problem+json", ct)
				}
				return
			}
			var resp SearchResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tc.wantLookup {
				t.Errorf("lookup = %s, want %s", resp.Status, tc.wantLookup)
			}
		})
	}
}

func TestHandleStatus(t *testing.T) {
	m := initModule(t, "http://trakt.invalid", "")
	rec := httptest.NewRecorder()
	m.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	var resp StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.ClientIDSet || resp.AccessTokenSet || resp.ClientSecretSet {
		t.Errorf("status = %+v, want client id set and no token", resp)
	}
}

func TestHandleStatus_NeverEchoesSecrets(t *testing.T) {
	v := viper.New()
	v.Set("client_id", testClientID)
	v.Set("client_secret", "shh-secret")
	v.Set("access_token", "tok-secret")
	m := New()
	if err := m.Init(context.Background(), plugin.Dependencies{Config: config.New(v), Logger: zap.NewNop()}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	rec := httptest.NewRecorder()
	m.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	body := rec.Body.String()
	for _, secret := range []string{"shh-secret", "tok-secret", testClientID} {
		if strings.Contains(body, secret) {
			t.Errorf("status body leaks %q: %s", secret, body)
		}
	}
	var resp StatusResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.ClientSecretSet || !resp.AccessTokenSet {
		t.Errorf("status = %+v, want every credential reported as set", resp)
	}
}
