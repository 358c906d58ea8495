package caption

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/imgspeak/internal/log"
)

const captionPrompt = "Describe this image in one short, plain English sentence. Respond with only the description."

// OpenAIBackend captions images with an OpenAI vision model
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend creates an OpenAI vision backend
func NewOpenAIBackend(config *Config) (*OpenAIBackend, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	model := config.Model
	if model == "" || model == DefaultHuggingFaceModel {
		model = openai.GPT4oMini
	}

	return &OpenAIBackend{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Name returns the backend name
func (b *OpenAIBackend) Name() string {
	return "openai:" + b.model
}

// Generate asks the chat model for a description. Beam settings have no
// equivalent in the chat API; temperature 0 keeps decoding greedy.
func (b *OpenAIBackend) Generate(ctx context.Context, payload []byte, cfg GenerationConfig) (string, error) {
	if cfg.NumBeams > 1 {
		log.Debugf("openai caption backend ignores num_beams=%d", cfg.NumBeams)
	}

	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(payload)
	req := openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: captionPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURI,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
		MaxTokens:   cfg.MaxLength,
		Temperature: 0,
	}

	resp, err := b.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no caption returned")
	}
	return resp.Choices[0].Message.Content, nil
}
