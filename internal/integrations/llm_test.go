package integrations

import (
	"context"
	"testing"

	"kajianhub/backend/internal/config"
)

func TestNewLLMClientDefaults(t *testing.T) {
	client := NewLLMClient(config.LLMConfig{APIKey: "test-key"})
	if client == nil {
		t.Fatalf("expected client with api key")
	}
	if client.model != "gpt-4o-mini" {
		t.Fatalf("unexpected default model: %q", client.model)
	}

	custom := NewLLMClient(config.LLMConfig{APIKey: "test-key", Model: "gpt-4.1"})
	if custom.model != "gpt-4.1" {
		t.Fatalf("unexpected model override: %q", custom.model)
	}
}

func TestLLMClientNilWhenUnconfigured(t *testing.T) {
	if client := NewLLMClient(config.LLMConfig{}); client != nil {
		t.Fatalf("expected nil client without api key")
	}
	var client *LLMClient
	if _, err := client.ExtractEntries(context.Background(), "some text"); err == nil {
		t.Fatalf("nil client must error, not panic")
	}
}
