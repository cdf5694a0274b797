package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-reservation/internal/config"
	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/middleware"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Menu         *handler.MenuHandler
	Members      *handler.MemberHandler
	Reservations *handler.ReservationHandler
	Orders       *handler.OnlineOrderHandler
	Transactions *handler.TransactionHandler
}

// Register mounts all routes.  Booking creation sits behind the Redis
// token bucket because each create opens a transaction at the payment
// gateway; the public menu sits behind the response cache.
func Register(e *echo.Echo, h Handlers, rdb *redis.Client) {
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.ExtractCredential())

	e.GET("/healthz", handler.Health)

	limited := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cached := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	v1 := e.Group("/v1")

	v1.GET("/menu", h.Menu.List, cached)

	v1.POST("/members", h.Members.Register, limited)
	v1.POST("/members/login", h.Members.Login, limited)

	v1.POST("/reservations", h.Reservations.Create, limited)
	v1.PUT("/reservations/:id/confirm", h.Reservations.Confirm)
	v1.PUT("/reservations/:id/cancel", h.Reservations.Cancel)
	v1.PUT("/reservations/:id/schedule", h.Reservations.Reschedule)
	v1.GET("/reservations/:id", h.Reservations.Get)

	v1.POST("/orders", h.Orders.Create, limited)
	v1.PUT("/orders/:id/confirm", h.Orders.Confirm)
	v1.PUT("/orders/:id/status", h.Orders.Advance)
	v1.GET("/orders/:id", h.Orders.Get)

	v1.GET("/transactions", h.Transactions.Get)
}
