package caption

import (
	"context"
	"fmt"
	stdimage "image"
	"net/http"

	"codeberg.org/snonux/imgspeak/internal/image"
	"codeberg.org/snonux/imgspeak/internal/log"
)

// Captioner produces an English description of an image
type Captioner interface {
	Caption(ctx context.Context, img stdimage.Image, cfg GenerationConfig) (string, error)
}

// Backend is a hosted image-to-text model. payload is a JPEG produced by
// image.EncodeForModel; the returned text may still contain special tokens.
type Backend interface {
	Generate(ctx context.Context, payload []byte, cfg GenerationConfig) (string, error)

	// Name returns the backend name
	Name() string
}

// GenerationConfig holds the decoding parameters
type GenerationConfig struct {
	MaxLength     int     // Upper bound on generated tokens
	MinLength     int     // Lower bound on generated tokens
	NumBeams      int     // Beam search width, 1 = greedy
	LengthPenalty float64 // >1 favors longer captions, <1 shorter ones
}

// DefaultGenerationConfig returns the decoding parameters used by the CLI
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		MaxLength:     30,
		MinLength:     5,
		NumBeams:      3,
		LengthPenalty: 1.0,
	}
}

// Validate checks the decoding parameters for consistency
func (c GenerationConfig) Validate() error {
	if c.MaxLength < 1 {
		return fmt.Errorf("max length must be at least 1, got %d", c.MaxLength)
	}
	if c.MinLength < 0 || c.MinLength > c.MaxLength {
		return fmt.Errorf("min length must be between 0 and max length %d, got %d", c.MaxLength, c.MinLength)
	}
	if c.NumBeams < 1 {
		return fmt.Errorf("number of beams must be at least 1, got %d", c.NumBeams)
	}
	if c.LengthPenalty <= 0 {
		return fmt.Errorf("length penalty must be positive, got %g", c.LengthPenalty)
	}
	return nil
}

// Error is returned for every caption failure. It is fatal for the run.
type Error struct {
	Backend string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("caption generation failed (%s): %v", e.Backend, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Config selects and configures the captioning backend
type Config struct {
	Provider string // "huggingface", "openai" or "gemini"
	Model    string // Backend model name, empty selects the backend default

	// Hugging Face settings
	HuggingFaceToken    string
	HuggingFaceEndpoint string

	// OpenAI settings
	OpenAIKey     string
	OpenAIBaseURL string

	// Gemini settings
	GeminiKey     string
	GeminiBaseURL string

	MaxImageSide int          // Longest side of the uploaded image
	HTTPClient   *http.Client // Used by the Hugging Face backend
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:     "huggingface",
		Model:        DefaultHuggingFaceModel,
		MaxImageSide: image.DefaultMaxSide,
	}
}

// Generator wraps a Backend with validation, image encoding and output
// cleanup. It implements Captioner.
type Generator struct {
	backend Backend
	maxSide int
}

// NewGenerator creates a generator around an existing backend
func NewGenerator(backend Backend, maxSide int) *Generator {
	return &Generator{backend: backend, maxSide: maxSide}
}

// New creates the generator for the configured backend. Model clients are
// created here once; Caption only issues requests.
func New(ctx context.Context, config *Config) (*Generator, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var (
		backend Backend
		err     error
	)
	switch config.Provider {
	case "huggingface", "":
		backend, err = NewHuggingFaceBackend(config)
	case "openai":
		backend, err = NewOpenAIBackend(config)
	case "gemini":
		backend, err = NewGeminiBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unknown caption provider: %s", config.Provider)
	}
	if err != nil {
		return nil, err
	}

	return NewGenerator(backend, config.MaxImageSide), nil
}

// Name returns the backend name
func (g *Generator) Name() string {
	return g.backend.Name()
}

// Caption describes img. The result is never empty on success.
func (g *Generator) Caption(ctx context.Context, img stdimage.Image, cfg GenerationConfig) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", &Error{Backend: g.backend.Name(), Cause: err}
	}

	payload, err := image.EncodeForModel(img, g.maxSide)
	if err != nil {
		return "", &Error{Backend: g.backend.Name(), Cause: err}
	}

	log.Debugf("captioning %d byte image with %s (beams=%d, length %d..%d, penalty %.2f)",
		len(payload), g.backend.Name(), cfg.NumBeams, cfg.MinLength, cfg.MaxLength, cfg.LengthPenalty)

	raw, err := g.backend.Generate(ctx, payload, cfg)
	if err != nil {
		return "", &Error{Backend: g.backend.Name(), Cause: err}
	}

	text := CleanCaption(raw)
	if text == "" {
		return "", &Error{Backend: g.backend.Name(), Cause: fmt.Errorf("model returned an empty caption (raw output %q)", raw)}
	}
	return text, nil
}
