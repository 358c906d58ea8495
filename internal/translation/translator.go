package translation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/imgspeak/internal/log"
)

// AutoDetect as source language asks the translator to detect it
const AutoDetect = "auto"

// ErrQuotaExceeded is the cause when the backend refuses further requests
var ErrQuotaExceeded = errors.New("translation quota exceeded")

// Translator converts text from a source to a target language
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Backend is an external translation service
type Backend interface {
	Translate(ctx context.Context, text, source, target string) (string, error)

	// Name returns the backend name
	Name() string
}

// Error is returned for every translation failure
type Error struct {
	Source string
	Target string
	Cause  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("translation %s->%s failed: %v", e.Source, e.Target, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Config selects and configures the translation backend
type Config struct {
	Provider string // "mymemory" or "openai"

	// MyMemory settings
	MyMemoryEndpoint string
	MyMemoryEmail    string // Raises the anonymous daily quota when set

	// OpenAI settings
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	HTTPClient *http.Client
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:         "mymemory",
		MyMemoryEndpoint: DefaultMyMemoryEndpoint,
	}
}

// Service validates input, resolves auto-detected source languages and
// calls the backend through a circuit breaker. It implements Translator.
type Service struct {
	backend  Backend
	breaker  *gobreaker.CircuitBreaker
	detector Detector
}

// NewService wraps backend. A nil detector uses lingua-based detection.
func NewService(backend Backend, detector Detector) *Service {
	if detector == nil {
		detector = NewLinguaDetector()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        backend.Name(),
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("translation backend %s: circuit %s -> %s", name, from, to)
		},
	})

	return &Service{backend: backend, breaker: breaker, detector: detector}
}

// New creates the translator for the configured backend
func New(config *Config) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var backend Backend
	switch config.Provider {
	case "mymemory", "":
		backend = NewMyMemoryBackend(config)
	case "openai":
		b, err := NewOpenAIBackend(config)
		if err != nil {
			return nil, err
		}
		backend = b
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}

	return NewService(backend, nil), nil
}

// Name returns the backend name
func (s *Service) Name() string {
	return s.backend.Name()
}

// Translate translates text. Identical source and target languages return
// the text unchanged without calling the backend.
func (s *Service) Translate(ctx context.Context, text, source, target string) (string, error) {
	text = strings.TrimSpace(text)
	source = normalizeLang(source)
	target = normalizeLang(target)

	if text == "" {
		return "", &Error{Source: source, Target: target, Cause: fmt.Errorf("text cannot be empty")}
	}
	if target == "" || target == AutoDetect {
		return "", &Error{Source: source, Target: target, Cause: fmt.Errorf("target language is required")}
	}

	if source == "" || source == AutoDetect {
		detected, ok := s.detector.Detect(text)
		if !ok {
			return "", &Error{Source: AutoDetect, Target: target, Cause: fmt.Errorf("could not detect source language")}
		}
		log.Debugf("detected source language %q", detected)
		source = detected
	}

	if source == target {
		return text, nil
	}

	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.backend.Translate(ctx, text, source, target)
	})
	if err != nil {
		return "", &Error{Source: source, Target: target, Cause: err}
	}

	translated := strings.TrimSpace(result.(string))
	if translated == "" {
		return "", &Error{Source: source, Target: target, Cause: fmt.Errorf("backend %s returned an empty translation", s.backend.Name())}
	}
	return translated, nil
}

func normalizeLang(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
