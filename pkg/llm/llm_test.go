package llm

import "testing"

func TestApplyOptions_Defaults(t *testing.T) {
	cfg := ApplyOptions()
	if cfg.Temperature != DefaultTemperature {
		t.Errorf("Temperature = %v, want %v", cfg.Temperature, DefaultTemperature)
	}
	if cfg.MaxTokens != DefaultMaxTokens {
		t.Errorf("MaxTokens = %d, want %d", cfg.MaxTokens, DefaultMaxTokens)
	}
}

func TestApplyOptions_Overrides(t *testing.T) {
	cfg := ApplyOptions(WithModel("m"), WithSystem("sys"), WithTemperature(0.1), WithMaxTokens(64))
	if cfg.Model != "m" || cfg.System != "sys" || cfg.Temperature != 0.1 || cfg.MaxTokens != 64 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestSplitSystem(t *testing.T) {
	msgs := []Message{
		{Role: RoleSystem, Content: "inline"},
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	}

	system, rest := SplitSystem(msgs, CallConfig{System: "option"})
	if system != "option\n\ninline" {
		t.Errorf("system = %q", system)
	}
	if len(rest) != 2 || rest[0].Role != RoleUser {
		t.Errorf("rest = %+v", rest)
	}
}

func TestProviderError_Classification(t *testing.T) {
	err := NewProviderError(ErrCodeRateLimit, "slow down", nil)
	if !IsRateLimitError(err) {
		t.Error("IsRateLimitError = false")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable = false for rate limit")
	}
	if IsAuthenticationError(err) {
		t.Error("IsAuthenticationError = true for rate limit")
	}
}
