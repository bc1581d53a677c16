package google

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

var ErrInvalidIDToken = errors.New("invalid google id token")

// Identity is the verified subset of a Google ID token.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// tokenValidator is the part of *idtoken.Validator the client needs.
type tokenValidator interface {
	Validate(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

// Client checks ID token signatures, expiry and audience locally against
// Google's published certificates.
type Client struct {
	clientID  string
	validator tokenValidator
}

func NewClient(ctx context.Context, clientID string) (*Client, error) {
	if clientID == "" {
		return nil, errors.New("google client id is empty")
	}
	v, err := idtoken.NewValidator(ctx, option.WithHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	if err != nil {
		return nil, fmt.Errorf("create id token validator: %w", err)
	}
	return &Client{clientID: clientID, validator: v}, nil
}

func (c *Client) Verify(ctx context.Context, idToken string) (*Identity, error) {
	if idToken == "" {
		return nil, ErrInvalidIDToken
	}

	payload, err := c.validator.Validate(ctx, idToken, c.clientID)
	if err != nil {
		if isTransport(err) {
			return nil, fmt.Errorf("fetch google certificates: %w", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}

	email := claim[string](payload, "email")
	if email == "" || !emailVerified(payload) {
		return nil, fmt.Errorf("%w: email not verified", ErrInvalidIDToken)
	}

	return &Identity{
		Subject: payload.Subject,
		Email:   email,
		Name:    claim[string](payload, "name"),
		Picture: claim[string](payload, "picture"),
	}, nil
}

func claim[T any](p *idtoken.Payload, name string) T {
	v, _ := p.Claims[name].(T)
	return v
}

// email_verified arrives as a bool, though some issuers send the string "true".
func emailVerified(p *idtoken.Payload) bool {
	switch v := p.Claims["email_verified"].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

func isTransport(err error) bool {
	var uerr *url.Error
	var nerr net.Error
	return errors.As(err, &uerr) || errors.As(err, &nerr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
