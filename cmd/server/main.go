package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/matchpoint/court-reservation/internal/config"
	"github.com/matchpoint/court-reservation/internal/database"
	"github.com/matchpoint/court-reservation/internal/handler"
	"github.com/matchpoint/court-reservation/internal/middleware"
	"github.com/matchpoint/court-reservation/internal/queue"
	"github.com/matchpoint/court-reservation/internal/repository"
	"github.com/matchpoint/court-reservation/internal/router"
	"github.com/matchpoint/court-reservation/internal/schedule"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: caching and rate limiting degrade to no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	complexRepo := repository.NewComplexRepo(db)
	courtRepo := repository.NewCourtRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	recurringRepo := repository.NewRecurringRepo(db)
	tournamentRepo := repository.NewTournamentRepo(db)

	// The three repositories double as the engine's occupancy sources in
	// precedence order; the booking repository is also the admission store.
	resolver := &schedule.Resolver{
		OneOff:    bookingRepo,
		Recurring: recurringRepo,
		Blackout:  tournamentRepo,
	}
	admitter := &schedule.Admitter{
		Resolver: resolver,
		Store:    bookingRepo,
		Now:      time.Now,
	}

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	publicHandler := &handler.PublicHandler{
		ComplexRepo: complexRepo,
		CourtRepo:   courtRepo,
		Resolver:    resolver,
	}
	bookingHandler := handler.NewBookingHandler(admitter, bookingRepo, courtRepo, complexRepo)
	ownerHandler := handler.NewOwnerHandler(complexRepo, courtRepo, bookingRepo, recurringRepo, tournamentRepo)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler, cache)
	router.RegisterBookings(e, bookingHandler, cfg.JWTSecret)
	router.RegisterOwner(e, ownerHandler, cfg.JWTSecret)

	// Background consumer appends admitted bookings to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
