package logging

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const RequestIDHeader = "X-Request-ID"

// FiberMiddleware tags each request with an ID, attaches a child logger to
// the request context and logs the outcome once the handler returns.
func FiberMiddleware(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDHeader, requestID)

		reqLogger := logger.With().Str("request_id", requestID).Logger()
		c.SetUserContext(reqLogger.WithContext(c.UserContext()))

		err := c.Next()

		// The app ErrorHandler writes the status after we return.
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		var evt *zerolog.Event
		switch {
		case status >= 500:
			evt = reqLogger.Error().Err(err)
		case status >= 400:
			evt = reqLogger.Warn().Err(err)
		default:
			evt = reqLogger.Info()
		}
		evt.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request completed")

		return err
	}
}
