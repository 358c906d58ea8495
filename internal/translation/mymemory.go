package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultMyMemoryEndpoint is the public MyMemory translation API
const DefaultMyMemoryEndpoint = "https://api.mymemory.translated.net/get"

// MyMemoryBackend translates with the MyMemory REST API
type MyMemoryBackend struct {
	endpoint string
	email    string
	client   *http.Client
}

// NewMyMemoryBackend creates a MyMemory backend
func NewMyMemoryBackend(config *Config) *MyMemoryBackend {
	endpoint := config.MyMemoryEndpoint
	if endpoint == "" {
		endpoint = DefaultMyMemoryEndpoint
	}
	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &MyMemoryBackend{endpoint: endpoint, email: config.MyMemoryEmail, client: client}
}

// Name returns the backend name
func (b *MyMemoryBackend) Name() string {
	return "mymemory"
}

// responseStatus is sent as a number or as a string depending on the error
type responseStatus int

func (s *responseStatus) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid responseStatus %s: %w", data, err)
	}
	*s = responseStatus(n)
	return nil
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	QuotaFinished   bool           `json:"quotaFinished"`
	ResponseDetails string         `json:"responseDetails"`
	ResponseStatus  responseStatus `json:"responseStatus"`
}

// Translate calls the MyMemory API
func (b *MyMemoryBackend) Translate(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", source+"|"+target)
	if b.email != "" {
		params.Set("de", b.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("MyMemory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: MyMemory answered %s", ErrQuotaExceeded, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read MyMemory response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("MyMemory API error: HTTP %d", resp.StatusCode)
	}

	var result myMemoryResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("failed to decode MyMemory response: %w", err)
	}

	translated := result.ResponseData.TranslatedText
	switch {
	case result.QuotaFinished,
		result.ResponseStatus == http.StatusTooManyRequests,
		strings.HasPrefix(strings.ToUpper(translated), "MYMEMORY WARNING"):
		return "", fmt.Errorf("%w: %s", ErrQuotaExceeded, firstNonEmpty(result.ResponseDetails, translated))
	case result.ResponseStatus != 0 && result.ResponseStatus != http.StatusOK:
		return "", fmt.Errorf("MyMemory API error (status %d): %s", result.ResponseStatus,
			firstNonEmpty(result.ResponseDetails, translated))
	}

	return translated, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
