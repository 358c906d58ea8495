package caption

import (
	"context"
	"errors"
	stdimage "image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBackend implements Backend for testing
type mockBackend struct {
	text     string
	err      error
	calls    int
	payloads [][]byte
	configs  []GenerationConfig
}

func (m *mockBackend) Generate(ctx context.Context, payload []byte, cfg GenerationConfig) (string, error) {
	m.calls++
	m.payloads = append(m.payloads, payload)
	m.configs = append(m.configs, cfg)
	return m.text, m.err
}

func (m *mockBackend) Name() string { return "mock" }

func testImage() stdimage.Image {
	return stdimage.NewRGBA(stdimage.Rect(0, 0, 40, 20))
}

func TestGenerationConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *GenerationConfig)
		wantErr string
	}{
		{"defaults", func(c *GenerationConfig) {}, ""},
		{"greedy", func(c *GenerationConfig) { c.NumBeams = 1 }, ""},
		{"min equals max", func(c *GenerationConfig) { c.MinLength = c.MaxLength }, ""},
		{"zero max", func(c *GenerationConfig) { c.MaxLength = 0; c.MinLength = 0 }, "max length"},
		{"min above max", func(c *GenerationConfig) { c.MinLength = c.MaxLength + 1 }, "min length"},
		{"negative min", func(c *GenerationConfig) { c.MinLength = -1 }, "min length"},
		{"zero beams", func(c *GenerationConfig) { c.NumBeams = 0 }, "beams"},
		{"zero penalty", func(c *GenerationConfig) { c.LengthPenalty = 0 }, "length penalty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultGenerationConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCleanCaption(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"a ship sailing in the ocean", "a ship sailing in the ocean"},
		{"[CLS] a ship in the water [SEP]", "a ship in the water"},
		{"<s>a boat</s><pad><pad>", "a boat"},
		{"  \"a large ship\"\n", "a large ship"},
		{"[PAD] [SEP]", ""},
		{"a\tship\n\non  water", "a ship on water"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CleanCaption(tt.raw), "raw %q", tt.raw)
	}
}

func TestGenerator_Caption(t *testing.T) {
	backend := &mockBackend{text: "[CLS] a ship sailing on the sea [SEP]"}
	gen := NewGenerator(backend, 16)

	text, err := gen.Caption(context.Background(), testImage(), DefaultGenerationConfig())
	require.NoError(t, err)
	assert.Equal(t, "a ship sailing on the sea", text)
	assert.Equal(t, 1, backend.calls)
	assert.Equal(t, DefaultGenerationConfig(), backend.configs[0])
	assert.True(t, len(backend.payloads[0]) > 2 && backend.payloads[0][0] == 0xFF && backend.payloads[0][1] == 0xD8,
		"payload should be a JPEG")
}

func TestGenerator_Deterministic(t *testing.T) {
	backend := &mockBackend{text: "a boat on the water"}
	gen := NewGenerator(backend, 0)

	first, err := gen.Caption(context.Background(), testImage(), DefaultGenerationConfig())
	require.NoError(t, err)
	second, err := gen.Caption(context.Background(), testImage(), DefaultGenerationConfig())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, backend.payloads[0], backend.payloads[1])
}

func TestGenerator_Failures(t *testing.T) {
	backendErr := errors.New("model exploded")

	tests := []struct {
		name      string
		backend   *mockBackend
		img       stdimage.Image
		cfg       GenerationConfig
		wantCalls int
		wantCause error
	}{
		{"backend error", &mockBackend{err: backendErr}, testImage(), DefaultGenerationConfig(), 1, backendErr},
		{"empty caption", &mockBackend{text: "[SEP] "}, testImage(), DefaultGenerationConfig(), 1, nil},
		{"invalid config", &mockBackend{text: "x"}, testImage(), GenerationConfig{}, 0, nil},
		{"nil image", &mockBackend{text: "x"}, nil, DefaultGenerationConfig(), 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := NewGenerator(tt.backend, 0).Caption(context.Background(), tt.img, tt.cfg)
			assert.Empty(t, text)

			var capErr *Error
			require.ErrorAs(t, err, &capErr)
			assert.Equal(t, "mock", capErr.Backend)
			assert.Equal(t, tt.wantCalls, tt.backend.calls)
			if tt.wantCause != nil {
				assert.ErrorIs(t, err, tt.wantCause)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr string
		wantPfx string
	}{
		{"nil config needs token", nil, "Hugging Face token is required", ""},
		{"huggingface", &Config{Provider: "huggingface", HuggingFaceToken: "hf_x"}, "", "huggingface:" + DefaultHuggingFaceModel},
		{"empty provider is huggingface", &Config{HuggingFaceToken: "hf_x", Model: "Salesforce/blip-image-captioning-base"}, "", "huggingface:Salesforce/blip-image-captioning-base"},
		{"openai without key", &Config{Provider: "openai"}, "OpenAI API key is required", ""},
		{"openai", &Config{Provider: "openai", OpenAIKey: "sk-x", Model: DefaultHuggingFaceModel}, "", "openai:gpt-4o-mini"},
		{"gemini without key", &Config{Provider: "gemini"}, "Gemini API key is required", ""},
		{"unknown", &Config{Provider: "clip"}, "unknown caption provider: clip", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := New(context.Background(), tt.config)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(gen.Name(), tt.wantPfx), "name %q", gen.Name())
		})
	}
}
