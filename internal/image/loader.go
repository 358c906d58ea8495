package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	stdimage "image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"codeberg.org/snonux/imgspeak/internal/log"
)

// LoadError is returned for every image acquisition failure.
type LoadError struct {
	URL        string
	StatusCode int // HTTP status, 0 if no response was received
	Cause      error
}

func (e *LoadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to load image from %s (HTTP %d): %v", e.URL, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("failed to load image from %s: %v", e.URL, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// ErrTooLarge is the cause when the body exceeds LoaderOptions.MaxSizeBytes.
var ErrTooLarge = errors.New("image exceeds maximum size")

// ErrTooManyPixels is the cause when the declared dimensions exceed
// LoaderOptions.MaxPixels.
var ErrTooManyPixels = errors.New("image dimensions exceed maximum pixel count")

// LoaderOptions configures image download behavior
type LoaderOptions struct {
	MaxSizeBytes int64  // Maximum body size to read (0 = no limit)
	MaxPixels    int64  // Maximum decoded width*height (0 = no limit)
	UserAgent    string // Sent with the request when not empty
}

// DefaultLoaderOptions returns sensible defaults for image downloads
func DefaultLoaderOptions() *LoaderOptions {
	return &LoaderOptions{
		MaxSizeBytes: 10 * 1024 * 1024, // 10MB
		MaxPixels:    50 * 1000 * 1000, // 50MP
		UserAgent:    "imgspeak",
	}
}

// Loader downloads and decodes images
type Loader struct {
	client  *http.Client
	options *LoaderOptions
}

// NewLoader creates a new image loader
func NewLoader(client *http.Client, options *LoaderOptions) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	if options == nil {
		options = DefaultLoaderOptions()
	}
	return &Loader{client: client, options: options}
}

// LoadImage fetches rawURL and decodes the body. The format is detected from
// the content. On failure no image is returned.
func (l *Loader) LoadImage(ctx context.Context, rawURL string) (stdimage.Image, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, &LoadError{URL: rawURL, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &LoadError{URL: rawURL, Cause: err}
	}
	if l.options.UserAgent != "" {
		req.Header.Set("User-Agent", l.options.UserAgent)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &LoadError{URL: rawURL, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &LoadError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	data, err := l.readBody(resp.Body)
	if err != nil {
		return nil, &LoadError{URL: rawURL, StatusCode: resp.StatusCode, Cause: err}
	}

	// The header is checked first so a small body cannot declare a huge
	// canvas and force the full allocation.
	if err := l.checkDimensions(data); err != nil {
		return nil, &LoadError{URL: rawURL, StatusCode: resp.StatusCode, Cause: err}
	}

	img, format, err := stdimage.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &LoadError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("failed to decode image: %w", err),
		}
	}
	b := img.Bounds()
	log.Debugf("decoded %s image %dx%d from %s", format, b.Dx(), b.Dy(), rawURL)

	return img, nil
}

func (l *Loader) readBody(body io.Reader) ([]byte, error) {
	if l.options.MaxSizeBytes <= 0 {
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
		return data, nil
	}

	// Read one byte past the limit to tell "exactly at limit" from "over".
	data, err := io.ReadAll(io.LimitReader(body, l.options.MaxSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(data)) > l.options.MaxSizeBytes {
		return nil, fmt.Errorf("%w of %d bytes", ErrTooLarge, l.options.MaxSizeBytes)
	}
	return data, nil
}

func (l *Loader) checkDimensions(data []byte) error {
	cfg, format, err := stdimage.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}
	if l.options.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > l.options.MaxPixels {
		return fmt.Errorf("%w: %s image is %dx%d, limit %d", ErrTooManyPixels, format, cfg.Width, cfg.Height, l.options.MaxPixels)
	}
	return nil
}

// ValidateURL checks that rawURL is an absolute http(s) URL with a host.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", rawURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", rawURL)
	}
	return nil
}
