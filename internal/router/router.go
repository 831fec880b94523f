// Package router registers the HTTP routes on the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/agx/bookmyseat/internal/config"
	"github.com/agx/bookmyseat/internal/handler"
	"github.com/agx/bookmyseat/internal/middleware"
)

// Handlers bundles all route handlers the router wires up.
type Handlers struct {
	Movies    *handler.MovieHandler
	Theaters  *handler.TheaterHandler
	Users     *handler.UserHandler
	Showtimes *handler.ShowtimeHandler
	Bookings  *handler.BookingHandler
}

// Register wires every route.  Browse endpoints sit behind the Redis
// response cache; the booking write endpoints sit behind the token-bucket
// rate limiter.  Both middlewares degrade to pass-through when Redis is
// unavailable.
func Register(e *echo.Echo, h Handlers, rdb *redis.Client, cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig) {
	e.GET("/healthz", handler.Health)

	cached := middleware.NewRedisCache(cacheCfg, rdb)
	limited := middleware.NewTokenBucket(rlCfg, rdb)

	v1 := e.Group("/v1")

	// Movie catalog.
	v1.POST("/movies", h.Movies.Create)
	v1.GET("/movies", h.Movies.List, cached)
	v1.GET("/movies/:id", h.Movies.Get, cached)
	v1.PUT("/movies/:id", h.Movies.Update)
	v1.DELETE("/movies/:id", h.Movies.Delete)
	v1.GET("/movies/:id/showtimes", h.Showtimes.ListByMovie, cached)

	// Theaters and screens.
	v1.POST("/theaters", h.Theaters.Create)
	v1.GET("/theaters", h.Theaters.List, cached)
	v1.GET("/theaters/:id", h.Theaters.Get, cached)
	v1.PUT("/theaters/:id", h.Theaters.Update)
	v1.DELETE("/theaters/:id", h.Theaters.Delete)
	v1.POST("/theaters/:id/screens", h.Theaters.CreateScreen)
	v1.GET("/theaters/:id/screens", h.Theaters.ListScreens, cached)
	v1.GET("/screens/:id", h.Theaters.GetScreen, cached)
	v1.DELETE("/screens/:id", h.Theaters.DeleteScreen)

	// Users.
	v1.POST("/users", h.Users.Create)
	v1.GET("/users", h.Users.List)
	v1.GET("/users/:id", h.Users.Get)
	v1.DELETE("/users/:id", h.Users.Delete)
	v1.GET("/users/:id/bookings", h.Bookings.ListByUser)

	// Showtimes and seats.
	v1.POST("/showtimes", h.Showtimes.Create)
	v1.GET("/showtimes", h.Showtimes.List, cached)
	v1.GET("/showtimes/:id", h.Showtimes.Get, cached)
	v1.DELETE("/showtimes/:id", h.Showtimes.Delete)
	v1.GET("/showtimes/:id/seats", h.Showtimes.ListSeats)
	v1.GET("/showtimes/:id/seats/available", h.Showtimes.ListAvailableSeats)

	// Bookings.  Seat state is never cached; writes are rate limited.
	v1.POST("/bookings", h.Bookings.Create, limited)
	v1.GET("/bookings/:token", h.Bookings.Get)
	v1.DELETE("/bookings/:token", h.Bookings.Cancel, limited)
}
