package caption

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"codeberg.org/snonux/imgspeak/internal/log"
)

// DefaultGeminiModel is used when no model is configured for Gemini
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiBackend captions images with a Gemini model
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend creates a Gemini backend
func NewGeminiBackend(ctx context.Context, config *Config) (*GeminiBackend, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.GeminiBaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.GeminiBaseURL}
	}
	if config.HTTPClient != nil {
		clientConfig.HTTPClient = config.HTTPClient
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" || model == DefaultHuggingFaceModel {
		model = DefaultGeminiModel
	}

	return &GeminiBackend{client: client, model: model}, nil
}

// Name returns the backend name
func (b *GeminiBackend) Name() string {
	return "gemini:" + b.model
}

// Generate asks Gemini for a description with temperature 0
func (b *GeminiBackend) Generate(ctx context.Context, payload []byte, cfg GenerationConfig) (string, error) {
	if cfg.NumBeams > 1 {
		log.Debugf("gemini caption backend ignores num_beams=%d", cfg.NumBeams)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(payload, "image/jpeg"),
			genai.NewPartFromText(captionPrompt),
		}, genai.RoleUser),
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0),
		MaxOutputTokens: int32(cfg.MaxLength),
		CandidateCount:  1,
	})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	return resp.Text(), nil
}
