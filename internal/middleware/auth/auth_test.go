package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/electronics_store/internal/domain"
	"github.com/Skotchmaster/electronics_store/pkg/tokens"
)

var secret = []byte("test-secret")

func signed(t *testing.T, ttl time.Duration, roles ...string) string {
	t.Helper()
	iss := &tokens.Issuer{Secret: secret, Name: "test", TTL: ttl}
	tok, _, err := iss.SignAccess("alice@example.com", "user-1", roles)
	require.NoError(t, err)
	return tok
}

func newServer(guards ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.Use(Bearer(secret))
	handler := func(c echo.Context) error {
		p, ok := PrincipalFrom(c.Request().Context())
		if !ok {
			return c.String(http.StatusOK, "anonymous")
		}
		return c.String(http.StatusOK, p.UserID+":"+p.Email)
	}
	e.GET("/resource", handler, guards...)
	e.GET("/auth/login", handler)
	return e
}

func do(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBearer_AttachesPrincipal(t *testing.T) {
	t.Parallel()

	rec := do(newServer(), "/resource", signed(t, time.Minute, "USER"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1:alice@example.com", rec.Body.String())
}

func TestBearer_BadTokensStayAnonymous(t *testing.T) {
	t.Parallel()

	e := newServer()
	for name, tok := range map[string]string{
		"missing": "",
		"garbage": "not.a.jwt",
		"expired": signed(t, -time.Minute, "USER"),
	} {
		rec := do(e, "/resource", tok)
		assert.Equal(t, http.StatusOK, rec.Code, name)
		assert.Equal(t, "anonymous", rec.Body.String(), name)
	}
}

func TestBearer_SkipsPublicPaths(t *testing.T) {
	t.Parallel()

	rec := do(newServer(), "/auth/login", signed(t, time.Minute, "USER"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		guard echo.MiddlewareFunc
		token string
		want  int
	}{
		{"anonymous on admin route", AdminOnly, "", http.StatusUnauthorized},
		{"invalid token on admin route", AdminOnly, "bogus", http.StatusUnauthorized},
		{"user on admin route", AdminOnly, signed(t, time.Minute, "USER"), http.StatusForbidden},
		{"admin on admin route", AdminOnly, signed(t, time.Minute, "ADMIN"), http.StatusOK},
		{"prefixed role name", AdminOnly, signed(t, time.Minute, "ROLE_ADMIN"), http.StatusOK},
		{"user on account route", AnyAccount, signed(t, time.Minute, "USER"), http.StatusOK},
		{"no roles on account route", AnyAccount, signed(t, time.Minute), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newServer(tt.guard), "/resource", tt.token)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestPrincipalContext(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := PrincipalFrom(req.Context())
	assert.False(t, ok)

	ctx := WithPrincipal(req.Context(), Principal{UserID: "u", Roles: []domain.Role{domain.RoleAdmin}})
	p, ok := PrincipalFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "u", p.UserID)
}
