package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	v, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := v.GetInt("server.port"); got != 8080 {
		t.Errorf("server.port = %d, want 8080", got)
	}
	if got := v.GetString("plugins.llm.provider"); got != "anthropic" {
		t.Errorf("plugins.llm.provider = %q", got)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movieagent.yaml")
	content := []byte("server:\n  port: 9000\nplugins:\n  trakt:\n    timeout: 5s\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MOVIEAGENT_LOGGING_LEVEL", "debug")
	t.Setenv("TRAKT_CLIENT_ID", "client-123")

	v, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := v.GetInt("server.port"); got != 9000 {
		t.Errorf("server.port = %d, want 9000", got)
	}
	if got := v.GetString("logging.level"); got != "debug" {
		t.Errorf("logging.level = %q, want debug", got)
	}

	trakt := New(v).Sub("plugins.trakt")
	if got := trakt.GetString("client_id"); got != "client-123" {
		t.Errorf("client_id = %q, want credential from env", got)
	}
	if got := trakt.GetDuration("timeout"); got != 5*time.Second {
		t.Errorf("timeout = %v, want 5s from file", got)
	}
	if got := trakt.GetString("base_url"); got != "https://api.trakt.tv" {
		t.Errorf("base_url = %q, want default kept next to credential", got)
	}
}

func TestLoad_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestSub_MissingSection(t *testing.T) {
	cfg := New(viper.New()).Sub("plugins.nothing")
	if cfg.IsSet("anything") {
		t.Error("empty section reports keys as set")
	}
}
