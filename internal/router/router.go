package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/rangbhumi-booking/internal/booking"
	"github.com/iliyamo/rangbhumi-booking/internal/config"
	"github.com/iliyamo/rangbhumi-booking/internal/handler"
	"github.com/iliyamo/rangbhumi-booking/internal/metrics"
	"github.com/iliyamo/rangbhumi-booking/internal/middleware"
)

// RegisterRoutes registers the health check and the metrics endpoint.
func RegisterRoutes(e *echo.Echo, engine *booking.Engine) {
	e.GET("/healthz", handler.Health(engine))
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// RegisterPublic registers the unauthenticated browse and booking routes.
// The show catalog is served through the Redis response cache; booking is
// behind the token bucket.  Seat availability is never cached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, b *handler.BookingHandler, rdb *redis.Client, cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig) {
	cache := middleware.NewRedisCache(cacheCfg, rdb)
	e.GET("/v1/shows", p.ListShows, cache)
	e.GET("/v1/shows/:id", p.GetShow, cache)
	e.GET("/v1/shows/:id/seats", p.GetSeats)

	e.POST("/v1/book", b.Book, middleware.NewTokenBucket(rlCfg, rdb))
}

// RegisterOperator registers the box office routes.  All require a valid
// JWT carrying the OPERATOR role.  Nothing is registered without a secret.
func RegisterOperator(e *echo.Echo, o *handler.OperatorHandler, jwtSecret string) {
	if jwtSecret == "" {
		return
	}
	g := e.Group(
		"/v1/ops",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleOperator),
	)
	g.GET("/shows/:id/seats", o.GetSeatStates)
	g.POST("/bookings/:id/ticket", o.ReissueTicket)
}
