package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rangbhumi-booking/internal/booking"
)

// Health is the liveness check used by load balancers.  It returns "ok"
// while bookings are accepted and 503 once the engine has halted on a bad
// seat store.
func Health(engine *booking.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		if engine != nil {
			if err := engine.Halted(); err != nil {
				return c.String(http.StatusServiceUnavailable, "booking halted")
			}
		}
		return c.String(http.StatusOK, "ok")
	}
}
