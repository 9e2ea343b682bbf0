package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestRequestLogger_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/users/login", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequestLogger(log)(func(c echo.Context) error {
		return c.NoContent(http.StatusUnauthorized)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if line["level"] != "warn" {
		t.Fatalf("expected warn level for 401, got %v", line["level"])
	}
	if line["status"] != float64(http.StatusUnauthorized) || line["method"] != http.MethodPost {
		t.Fatalf("unexpected log line: %v", line)
	}
	if line["request_id"] != "req-1" {
		t.Fatalf("expected request id, got %v", line["request_id"])
	}
}

func TestRequestLogger_InfoForSuccess(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	handler := RequestLogger(log)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("invalid log line: %v", err)
	}
	if line["level"] != "info" {
		t.Fatalf("expected info level, got %v", line["level"])
	}
}
