package serverutils

import (
	"time"

	"user-directory-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

func RequestLoggerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		details := map[string]interface{}{
			"method":     ctx.Method(),
			"path":       ctx.Path(),
			"status":     ctx.Response().StatusCode(),
			"latency_ms": time.Since(start).Milliseconds(),
		}
		if sessionID, ok := ctx.Locals(sessionLocal).(string); ok {
			details["session_id"] = sessionID
		}
		log.Debug("HTTP", "Request served", details)
		return err
	}
}
