package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rangbhumi-booking/internal/logger"
)

// RequestLogger tags every request with an ID, stores a request-scoped
// logger in the request context and logs one line when the handler
// returns.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = logger.NewRequestID()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			log := logger.Get().With("request_id", id)
			c.SetRequest(req.WithContext(logger.IntoContext(req.Context(), log)))

			start := time.Now()
			err := next(c)
			if err != nil {
				// let echo write the response so the status below is final
				c.Error(err)
			}

			status := c.Response().Status
			attrs := []any{
				"method", req.Method,
				"path", c.Path(),
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", c.RealIP(),
			}
			switch {
			case status >= 500:
				log.Error("request failed", append(attrs, "error", err)...)
			case status >= 400:
				log.Warn("request rejected", attrs...)
			default:
				log.Info("request completed", attrs...)
			}
			return nil
		}
	}
}
