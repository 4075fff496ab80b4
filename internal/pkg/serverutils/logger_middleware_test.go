package serverutils

import (
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedLine struct {
	message string
	details map[string]interface{}
}

type captureLogger struct {
	mu    sync.Mutex
	lines []capturedLine
}

func (l *captureLogger) add(message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, capturedLine{message: message, details: details})
}

func (l *captureLogger) Debug(_, message string, details map[string]interface{}) {
	l.add(message, details)
}

func (l *captureLogger) Info(_, message string, details map[string]interface{}) {
	l.add(message, details)
}

func (l *captureLogger) Warn(_, message string, details map[string]interface{}) {
	l.add(message, details)
}

func (l *captureLogger) Error(_, message string, details map[string]interface{}) {
	l.add(message, details)
}

func (l *captureLogger) Sync() error { return nil }

func TestRequestLoggerMiddleware_CarriesFormSession(t *testing.T) {
	tests := []struct {
		name        string
		header      string
		wantSession interface{}
	}{
		{name: "with session header", header: "sess-1", wantSession: "sess-1"},
		{name: "without session", header: "", wantSession: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &captureLogger{}
			app := fiber.New()
			app.Use(RequestLoggerMiddleware(log))
			app.Get("/users", FormSessionMiddleware, func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusNoContent)
			})

			req := httptest.NewRequest("GET", "/users", nil)
			if tt.header != "" {
				req.Header.Set(SessionHeader, tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

			require.Len(t, log.lines, 1)
			line := log.lines[0]
			assert.Equal(t, "Request served", line.message)
			assert.Equal(t, "/users", line.details["path"])
			assert.Equal(t, tt.wantSession, line.details["session_id"])
		})
	}
}
