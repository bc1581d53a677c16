package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/electronics_store/internal/service"
	"github.com/Skotchmaster/electronics_store/internal/transport"
	"github.com/Skotchmaster/electronics_store/pkg/logging"
)

// statusName turns 404 into "NOT_FOUND".
func statusName(code int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))
}

func apiResponse(code int, msg string, ok bool) transport.APIResponse {
	return transport.APIResponse{Message: msg, Success: ok, Status: statusName(code)}
}

// statusOf maps an error returned by a handler to its HTTP status and client message.
func statusOf(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Error()
	}

	var se *service.Error
	if errors.As(err, &se) {
		switch {
		case errors.Is(se, service.ErrBadRequest):
			return http.StatusBadRequest, se.Msg
		case errors.Is(se, service.ErrUnauthorized):
			return http.StatusUnauthorized, se.Msg
		case errors.Is(se, service.ErrForbidden):
			return http.StatusForbidden, se.Msg
		case errors.Is(se, service.ErrNotFound):
			return http.StatusNotFound, se.Msg
		case errors.Is(se, service.ErrConflict):
			return http.StatusConflict, se.Msg
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

// HTTPErrorHandler renders every error as {message, success, status}.
// Validation failures are rendered as the bare field map.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var ve ValidationErrors
	if errors.As(err, &ve) {
		_ = c.JSON(http.StatusBadRequest, ve)
		return
	}

	code, msg := statusOf(err)
	if code >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", code, "error", err)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, apiResponse(code, msg, false))
}

// fail logs a handler failure at a level matching its status and returns err
// for HTTPErrorHandler to render.
func fail(l *slog.Logger, event string, err error) error {
	code, msg := statusOf(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "reason", msg, "error", err)
	} else {
		l.Warn(event, "status", code, "reason", msg, "error", err)
	}
	return err
}
