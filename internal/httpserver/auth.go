package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/electronics_store/internal/service"
	"github.com/Skotchmaster/electronics_store/internal/transport"
	"github.com/Skotchmaster/electronics_store/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func jwtResponse(res *service.LoginResult) transport.JwtResponse {
	return transport.JwtResponse{
		JwtToken:  res.AccessToken,
		ExpiresAt: res.AccessExp,
		User:      res.User,
		RefreshToken: transport.RefreshTokenResponse{
			Token:     res.Refresh.Token,
			ExpiresAt: res.Refresh.ExpiresAt,
		},
	}
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bindValid(c, &req); err != nil {
		return fail(l, "login_failed", err)
	}
	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	l.Info("login_successful", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, jwtResponse(res))
}

func (h *AuthHTTP) LoginWithGoogle(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login_with_google")

	var req transport.GoogleLoginRequest
	if err := bindValid(c, &req); err != nil {
		return fail(l, "google_login_failed", err)
	}
	res, err := h.Svc.LoginWithGoogle(ctx, req.IDToken)
	if err != nil {
		return fail(l, "google_login_failed", err)
	}

	l.Info("google_login_successful", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, jwtResponse(res))
}

func (h *AuthHTTP) Regenerate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.regenerate")

	var req transport.RefreshRequest
	if err := bindValid(c, &req); err != nil {
		return fail(l, "regenerate_failed", err)
	}
	res, err := h.Svc.Regenerate(ctx, req.RefreshToken)
	if err != nil {
		return fail(l, "regenerate_failed", err)
	}
	return c.JSON(http.StatusOK, jwtResponse(res))
}
