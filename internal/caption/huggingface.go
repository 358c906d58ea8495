package caption

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	// DefaultHuggingFaceModel is the BLIP captioning checkpoint
	DefaultHuggingFaceModel = "Salesforce/blip-image-captioning-large"

	// DefaultHuggingFaceEndpoint is the inference router prefix; the model
	// name is appended to it.
	DefaultHuggingFaceEndpoint = "https://router.huggingface.co/hf-inference/models/"
)

// HuggingFaceBackend calls the Hugging Face inference API
type HuggingFaceBackend struct {
	endpoint string
	model    string
	token    string
	client   *http.Client
}

// NewHuggingFaceBackend creates a Hugging Face inference backend
func NewHuggingFaceBackend(config *Config) (*HuggingFaceBackend, error) {
	if config.HuggingFaceToken == "" {
		return nil, fmt.Errorf("Hugging Face token is required")
	}

	endpoint := config.HuggingFaceEndpoint
	if endpoint == "" {
		endpoint = DefaultHuggingFaceEndpoint
	}
	model := config.Model
	if model == "" {
		model = DefaultHuggingFaceModel
	}
	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &HuggingFaceBackend{
		endpoint: strings.TrimSuffix(endpoint, "/") + "/",
		model:    model,
		token:    config.HuggingFaceToken,
		client:   client,
	}, nil
}

// Name returns the backend name
func (b *HuggingFaceBackend) Name() string {
	return "huggingface:" + b.model
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int              `json:"max_new_tokens"`
	GenerateKwargs hfGenerateKwargs `json:"generate_kwargs"`
}

type hfGenerateKwargs struct {
	NumBeams      int     `json:"num_beams"`
	MinLength     int     `json:"min_length"`
	MaxLength     int     `json:"max_length"`
	LengthPenalty float64 `json:"length_penalty"`
	DoSample      bool    `json:"do_sample"`
}

type hfResult struct {
	GeneratedText string `json:"generated_text"`
}

type hfError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// Generate runs beam search decoding on the hosted model. Sampling is
// disabled so the same image and parameters give the same caption.
func (b *HuggingFaceBackend) Generate(ctx context.Context, payload []byte, cfg GenerationConfig) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: base64.StdEncoding.EncodeToString(payload),
		Parameters: hfParameters{
			MaxNewTokens: cfg.MaxLength,
			GenerateKwargs: hfGenerateKwargs{
				NumBeams:      cfg.NumBeams,
				MinLength:     cfg.MinLength,
				MaxLength:     cfg.MaxLength,
				LengthPenalty: cfg.LengthPenalty,
				DoSample:      false,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint+b.model, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+b.token)
	req.Header.Set("Content-Type", "application/json")
	// Block until the model is loaded instead of getting a 503.
	req.Header.Set("x-wait-for-model", "true")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read inference response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr hfError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("inference API error (HTTP %d): %s", resp.StatusCode, apiErr.Error)
		}
		return "", fmt.Errorf("inference API error: HTTP %d", resp.StatusCode)
	}

	var results []hfResult
	if err := json.Unmarshal(data, &results); err != nil {
		// Some deployments answer with a single object instead of a list
		var single hfResult
		if err2 := json.Unmarshal(data, &single); err2 != nil {
			return "", fmt.Errorf("failed to decode inference response: %w", err)
		}
		results = []hfResult{single}
	}

	if len(results) == 0 {
		return "", fmt.Errorf("no caption returned")
	}
	return results[0].GeneratedText, nil
}
