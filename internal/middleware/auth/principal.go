package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/electronics_store/internal/domain"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Email  string
	Roles  []domain.Role
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// RequireRoles rejects anonymous callers with 401 and callers holding none of
// roles with 403.
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "full authentication is required to access this resource")
			}
			if !domain.HasAnyRole(p.Roles, roles...) {
				return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights to access this resource")
			}
			return next(c)
		}
	}
}

var (
	AdminOnly  = RequireRoles(domain.RoleAdmin)
	AnyAccount = RequireRoles(domain.RoleUser, domain.RoleAdmin)
)

// CanActFor reports whether p may act on the account userID.
func (p Principal) CanActFor(userID string) bool {
	return p.UserID == userID || domain.HasAnyRole(p.Roles, domain.RoleAdmin)
}

// RequireSelfOrAdmin lets a caller through only when the path parameter param
// is the caller's own user id, unless the caller is an ADMIN.
func RequireSelfOrAdmin(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "full authentication is required to access this resource")
			}
			if !p.CanActFor(c.Param(param)) {
				return echo.NewHTTPError(http.StatusForbidden, "you can only access your own account")
			}
			return next(c)
		}
	}
}
