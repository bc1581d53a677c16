package loggingmw

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/electronics_store/pkg/logging"
)

func runLogged(t *testing.T, h echo.HandlerFunc) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	base := logging.NewWithFormat("debug", "json", &buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/products/1", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, RequestLogger(base)(h)(c))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return rec, line
}

func TestRequestLogger_Success(t *testing.T) {
	t.Parallel()

	rec, line := runLogged(t, func(c echo.Context) error {
		assert.NotNil(t, logging.FromContext(c.Request().Context()))
		c.Set(UserIDKey, "user-42")
		return c.String(http.StatusOK, "ok")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rid-1", rec.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "rid-1", line["request_id"])
	assert.Equal(t, "user-42", line["user_id"])
	assert.EqualValues(t, 200, line["status"])
}

func TestRequestLogger_ErrorIsRendered(t *testing.T) {
	t.Parallel()

	rec, line := runLogged(t, func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "missing")
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "WARN", line["level"])
	assert.EqualValues(t, 404, line["status"])
}

func TestLevelFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   slog.Level
	}{
		{http.StatusOK, slog.LevelInfo},
		{http.StatusCreated, slog.LevelInfo},
		{http.StatusUnauthorized, slog.LevelWarn},
		{http.StatusConflict, slog.LevelWarn},
		{http.StatusInternalServerError, slog.LevelError},
		{http.StatusServiceUnavailable, slog.LevelError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levelFor(tt.status), "status %d", tt.status)
	}
}
