package auth

import (
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/electronics_store/internal/domain"
	"github.com/Skotchmaster/electronics_store/pkg/logging"
	loggingmw "github.com/Skotchmaster/electronics_store/pkg/middleware/logging"
	"github.com/Skotchmaster/electronics_store/pkg/tokens"
)

const tokenContextKey = "user"

// PublicPrefixes are never inspected for a bearer token.
var PublicPrefixes = []string{"/auth/", "/health/"}

// Bearer reads an optional "Authorization: Bearer <jwt>" header. A valid token
// attaches a Principal to the request; a missing or bad one leaves it anonymous
// and RequireRoles decides what that means for the route.
func Bearer(secret []byte) echo.MiddlewareFunc {
	parse := echojwt.WithConfig(echojwt.Config{
		Skipper:     skipPublic,
		ContextKey:  tokenContextKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(_ echo.Context, raw string) (any, error) {
			return tokens.AccessClaimsFromToken(raw, secret)
		},
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) != "" {
				logging.FromContext(c.Request().Context()).Debug("bearer_token_rejected", "error", err)
			}
			return nil
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return parse(attachPrincipal(next))
	}
}

func skipPublic(c echo.Context) bool {
	path := c.Request().URL.Path
	for _, p := range PublicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func attachPrincipal(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(tokenContextKey).(*tokens.AccessClaims)
		if !ok || claims.UserID == "" {
			return next(c)
		}

		p := Principal{
			UserID: claims.UserID,
			Email:  claims.Subject,
			Roles:  domain.ParseRoles(claims.Roles),
		}
		c.Set(loggingmw.UserIDKey, p.UserID)
		c.SetRequest(c.Request().WithContext(WithPrincipal(c.Request().Context(), p)))
		return next(c)
	}
}
