package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DefaultEndpoint is the Hugging Face account lookup used to verify a token.
const DefaultEndpoint = "https://huggingface.co/api/whoami-v2"

// ErrMissingToken is returned when no token was configured.
var ErrMissingToken = errors.New("authentication token is missing")

// Kind classifies authentication failures
type Kind int

const (
	// Missing means no token was supplied; no request was made.
	Missing Kind = iota
	// Invalid means the service rejected the token.
	Invalid
	// Unavailable means the service could not be asked.
	Unavailable
)

func (k Kind) String() string {
	switch k {
	case Missing:
		return "missing token"
	case Invalid:
		return "invalid token"
	default:
		return "service unavailable"
	}
}

// Error is returned by Login for every failure.
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("authentication failed (%s): %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Identity is the account a token belongs to.
type Identity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Authenticator logs in to the model hosting service
type Authenticator struct {
	endpoint string
	client   *http.Client
}

// NewAuthenticator creates an authenticator. An empty endpoint selects
// DefaultEndpoint and a nil client selects http.DefaultClient.
func NewAuthenticator(endpoint string, client *http.Client) *Authenticator {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Authenticator{endpoint: endpoint, client: client}
}

// Login verifies the token. A blank token fails without network I/O.
func (a *Authenticator) Login(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, &Error{Kind: Missing, Cause: ErrMissingToken}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint, nil)
	if err != nil {
		return nil, &Error{Kind: Unavailable, Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: Unavailable, Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &Error{Kind: Invalid, Cause: fmt.Errorf("server answered %s", resp.Status)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &Error{Kind: Unavailable, Cause: fmt.Errorf("server answered %s", resp.Status)}
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, &Error{Kind: Unavailable, Cause: fmt.Errorf("failed to decode account info: %w", err)}
	}
	return &id, nil
}
