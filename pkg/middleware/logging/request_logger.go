package loggingmw

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/electronics_store/pkg/logging"
)

// UserIDKey is the echo context key the auth layer stores the caller's id under.
const UserIDKey = "user_id"

// RequestLogger puts a request-scoped logger into the request context and
// writes one completion line per request. Handler errors are rendered here so
// the logged status is the one the client sees.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := scoped(base, c)
			c.SetRequest(c.Request().WithContext(logging.IntoContext(c.Request().Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}

			res := c.Response()
			attrs := []any{"status", res.Status, "duration_ms", time.Since(start).Milliseconds()}
			if uid, ok := c.Get(UserIDKey).(string); ok && uid != "" {
				attrs = append(attrs, "user_id", uid)
			}

			switch level := levelFor(res.Status); level {
			case slog.LevelError:
				if err != nil {
					attrs = append(attrs, "error", err.Error())
				}
				l.Error("request completed", attrs...)
			case slog.LevelWarn:
				l.Warn("request completed", attrs...)
			default:
				l.Info("request completed", append(attrs, "bytes", res.Size)...)
			}
			return nil
		}
	}
}

func scoped(base *slog.Logger, c echo.Context) *slog.Logger {
	req := c.Request()
	l := base.With(
		"method", req.Method,
		"path", c.Path(),
		"url", req.URL.Path,
		"remote_ip", c.RealIP(),
		"user_agent", req.UserAgent(),
	)

	rid := req.Header.Get(echo.HeaderXRequestID)
	if rid == "" {
		rid = c.Response().Header().Get(echo.HeaderXRequestID)
	}
	if rid != "" {
		c.Response().Header().Set(echo.HeaderXRequestID, rid)
		l = l.With("request_id", rid)
	}
	return l
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
