package audio

import (
	"context"
	"errors"
	"os"
	"testing"
)

// mockProvider implements Provider interface for testing
type mockProvider struct {
	name          string
	data          []byte // written to the output file when set
	generateErr   error
	availableErr  error
	generateCalls int
	lastLang      string
	lastFile      string
}

func (m *mockProvider) GenerateAudio(ctx context.Context, text, lang, outputFile string) error {
	m.generateCalls++
	m.lastLang = lang
	m.lastFile = outputFile
	if m.data != nil {
		if err := os.WriteFile(outputFile, m.data, 0644); err != nil {
			return err
		}
	}
	return m.generateErr
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) IsAvailable() error {
	return m.availableErr
}

func TestDefaultProviderConfig(t *testing.T) {
	config := DefaultProviderConfig()

	if config.Provider != "gtts" {
		t.Errorf("Expected provider 'gtts', got '%s'", config.Provider)
	}

	if config.GTTSEndpoint != DefaultGTTSEndpoint {
		t.Errorf("Expected gtts endpoint '%s', got '%s'", DefaultGTTSEndpoint, config.GTTSEndpoint)
	}

	if config.OpenAIModel != "gpt-4o-mini-tts" {
		t.Errorf("Expected OpenAI model 'gpt-4o-mini-tts', got '%s'", config.OpenAIModel)
	}

	if config.OpenAIVoice != "alloy" {
		t.Errorf("Expected OpenAI voice 'alloy', got '%s'", config.OpenAIVoice)
	}

	if config.OpenAISpeed != 1.0 {
		t.Errorf("Expected OpenAI speed 1.0, got %f", config.OpenAISpeed)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		wantName string
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "nil config uses defaults",
			config:   nil,
			wantName: "gtts",
		},
		{
			name:     "gtts provider",
			config:   &Config{Provider: "gtts"},
			wantName: "gtts",
		},
		{
			name:     "openai provider with key",
			config:   &Config{Provider: "openai", OpenAIKey: "test-key"},
			wantName: "openai",
		},
		{
			name: "openai provider without key",
			config: &Config{
				Provider: "openai",
			},
			wantErr: true,
			errMsg:  "OpenAI API key is required",
		},
		{
			name:     "gtts with openai fallback",
			config:   &Config{Provider: "gtts", Fallback: "openai", OpenAIKey: "test-key"},
			wantName: "gtts (fallback: openai)",
		},
		{
			name:    "fallback without key",
			config:  &Config{Provider: "gtts", Fallback: "openai"},
			wantErr: true,
			errMsg:  "fallback provider: OpenAI API key is required",
		},
		{
			name:     "fallback same as primary",
			config:   &Config{Provider: "gtts", Fallback: "gtts"},
			wantName: "gtts",
		},
		{
			name: "unknown provider",
			config: &Config{
				Provider: "unknown",
			},
			wantErr: true,
			errMsg:  "unknown audio provider: unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if err.Error() != tt.errMsg {
					t.Errorf("NewProvider() error = %v, want %v", err.Error(), tt.errMsg)
				}
				return
			}
			if provider.Name() != tt.wantName {
				t.Errorf("Name() = %v, want %v", provider.Name(), tt.wantName)
			}
		})
	}
}

func TestProviderWithFallback(t *testing.T) {
	primary := &mockProvider{name: "primary"}
	fallback := &mockProvider{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback)

	// Test successful primary
	ctx := context.Background()
	err := provider.GenerateAudio(ctx, "test", "pt", "output.mp3")
	if err != nil {
		t.Errorf("GenerateAudio() unexpected error: %v", err)
	}
	if primary.generateCalls != 1 {
		t.Errorf("Expected 1 primary call, got %d", primary.generateCalls)
	}
	if fallback.generateCalls != 0 {
		t.Errorf("Expected 0 fallback calls, got %d", fallback.generateCalls)
	}

	// Test primary failure, fallback success
	primary.generateErr = errors.New("primary failed")
	primary.generateCalls = 0

	err = provider.GenerateAudio(ctx, "test", "pt", "output.mp3")
	if err != nil {
		t.Errorf("GenerateAudio() unexpected error: %v", err)
	}
	if primary.generateCalls != 1 {
		t.Errorf("Expected 1 primary call, got %d", primary.generateCalls)
	}
	if fallback.generateCalls != 1 {
		t.Errorf("Expected 1 fallback call, got %d", fallback.generateCalls)
	}
	if fallback.lastLang != "pt" {
		t.Errorf("Expected fallback to receive lang 'pt', got '%s'", fallback.lastLang)
	}

	// Test both fail
	fallback.generateErr = errors.New("fallback failed")
	primary.generateCalls = 0
	fallback.generateCalls = 0

	err = provider.GenerateAudio(ctx, "test", "pt", "output.mp3")
	if err == nil {
		t.Error("GenerateAudio() expected error when both providers fail")
	}
	if !errors.Is(err, fallback.generateErr) {
		t.Errorf("Expected fallback error to be wrapped, got %v", err)
	}
}

func TestProviderWithFallbackName(t *testing.T) {
	primary := &mockProvider{name: "primary"}
	fallback := &mockProvider{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback)

	expected := "primary (fallback: fallback)"
	if provider.Name() != expected {
		t.Errorf("Name() = %v, want %v", provider.Name(), expected)
	}
}

func TestProviderWithFallbackSupportsLanguage(t *testing.T) {
	gtts := NewGTTSProvider(&Config{})
	openaiLike := &mockProvider{name: "any"}

	if NewProviderWithFallback(gtts, gtts).(LanguageSupporter).SupportsLanguage("xx") {
		t.Error("Expected 'xx' to be unsupported by gtts alone")
	}
	if !NewProviderWithFallback(gtts, openaiLike).(LanguageSupporter).SupportsLanguage("xx") {
		t.Error("Expected a provider without a language list to accept 'xx'")
	}
}

func TestProviderWithFallbackIsAvailable(t *testing.T) {
	primary := &mockProvider{name: "primary"}
	fallback := &mockProvider{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback)

	// Both available
	err := provider.IsAvailable()
	if err != nil {
		t.Errorf("IsAvailable() unexpected error: %v", err)
	}

	// Primary unavailable, fallback available
	primary.availableErr = errors.New("primary unavailable")
	err = provider.IsAvailable()
	if err != nil {
		t.Errorf("IsAvailable() unexpected error when fallback available: %v", err)
	}

	// Primary available, fallback unavailable
	primary.availableErr = nil
	fallback.availableErr = errors.New("fallback unavailable")
	err = provider.IsAvailable()
	if err != nil {
		t.Errorf("IsAvailable() unexpected error when primary available: %v", err)
	}

	// Both unavailable
	primary.availableErr = errors.New("primary unavailable")
	err = provider.IsAvailable()
	if err == nil {
		t.Error("IsAvailable() expected error when both providers unavailable")
	}
}
