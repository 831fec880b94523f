package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/agx/bookmyseat/internal/config"
	"github.com/agx/bookmyseat/internal/database"
	"github.com/agx/bookmyseat/internal/handler"
	"github.com/agx/bookmyseat/internal/queue"
	"github.com/agx/bookmyseat/internal/repository"
	"github.com/agx/bookmyseat/internal/router"
	"github.com/agx/bookmyseat/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	movieRepo := repository.NewMovieRepo(db.DB)
	theaterRepo := repository.NewTheaterRepo(db.DB)
	screenRepo := repository.NewScreenRepo(db.DB)
	userRepo := repository.NewUserRepo(db.DB)
	showtimeRepo := repository.NewShowtimeRepo(db.DB)
	seatRepo := repository.NewSeatRepo(db.DB)
	bookingRepo := repository.NewBookingRepo(db.DB)

	inventory := service.NewSeatInventory(db, seatRepo, showtimeRepo)
	scheduler := service.NewScheduler(db, movieRepo, screenRepo, showtimeRepo, bookingRepo, inventory, cfg.GridRows, cfg.SeatsPerRow)
	publisher := &service.RabbitPublisher{URL: queue.BrokerURL()}
	bookings := service.NewBookingManager(db, userRepo, movieRepo, showtimeRepo, bookingRepo, inventory, publisher)

	// Background consumer writes confirmed bookings to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger(), echomw.Recover())
	router.Register(e, router.Handlers{
		Movies:    handler.NewMovieHandler(movieRepo),
		Theaters:  handler.NewTheaterHandler(theaterRepo, screenRepo),
		Users:     handler.NewUserHandler(userRepo, cfg.BcryptCost),
		Showtimes: handler.NewShowtimeHandler(scheduler, inventory, showtimeRepo),
		Bookings:  handler.NewBookingHandler(bookings),
	}, rdb, cacheCfg, rlCfg)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
