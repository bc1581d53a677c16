package google

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

type stubValidator struct {
	payloads map[string]*idtoken.Payload
	err      error
	audience string
}

func (s *stubValidator) Validate(_ context.Context, token, audience string) (*idtoken.Payload, error) {
	s.audience = audience
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.payloads[token]
	if !ok {
		return nil, errors.New("idtoken: invalid token")
	}
	return p, nil
}

func TestClient_Verify(t *testing.T) {
	t.Parallel()

	stub := &stubValidator{payloads: map[string]*idtoken.Payload{
		"good": {Subject: "g-1", Audience: "client-1", Claims: map[string]any{
			"email": "a@example.com", "email_verified": true, "name": "Alice", "picture": "https://pic",
		}},
		"string-verified": {Subject: "g-2", Claims: map[string]any{"email": "b@example.com", "email_verified": "true"}},
		"unverified":      {Subject: "g-3", Claims: map[string]any{"email": "c@example.com", "email_verified": false}},
		"no-email":        {Subject: "g-4", Claims: map[string]any{"email_verified": true}},
	}}
	c := &Client{clientID: "client-1", validator: stub}

	id, err := c.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, &Identity{Subject: "g-1", Email: "a@example.com", Name: "Alice", Picture: "https://pic"}, id)
	assert.Equal(t, "client-1", stub.audience)

	id, err = c.Verify(context.Background(), "string-verified")
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", id.Email)

	for _, tok := range []string{"", "unknown", "unverified", "no-email"} {
		t.Run("reject "+tok, func(t *testing.T) {
			_, err := c.Verify(context.Background(), tok)
			assert.ErrorIs(t, err, ErrInvalidIDToken)
		})
	}
}

func TestClient_CertificateFetchFailure(t *testing.T) {
	t.Parallel()

	stub := &stubValidator{err: &url.Error{Op: "Get", URL: "https://www.googleapis.com/oauth2/v3/certs", Err: errors.New("connection refused")}}
	c := &Client{clientID: "client-1", validator: stub}

	_, err := c.Verify(context.Background(), "tok")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidIDToken)
}

func TestNewClient_RequiresClientID(t *testing.T) {
	t.Parallel()

	_, err := NewClient(context.Background(), "")
	assert.Error(t, err)
}
