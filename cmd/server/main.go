package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/kinozal/ticket-office/internal/booking"
	"github.com/kinozal/ticket-office/internal/clock"
	"github.com/kinozal/ticket-office/internal/config"
	"github.com/kinozal/ticket-office/internal/database"
	"github.com/kinozal/ticket-office/internal/handler"
	"github.com/kinozal/ticket-office/internal/middleware"
	"github.com/kinozal/ticket-office/internal/queue"
	"github.com/kinozal/ticket-office/internal/repository"
	"github.com/kinozal/ticket-office/internal/router"
	"github.com/kinozal/ticket-office/internal/schedule"
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

	store := repository.NewStore(db)
	halls := repository.NewHallRepo(store)
	showtimes := repository.NewShowtimeRepo(store)
	tickets := repository.NewTicketRepo(store)
	users := repository.NewUserRepo(store)
	tokens := repository.NewTokenRepo(store)

	clk := clock.NewSystem()
	validator := schedule.NewValidator(clk, showtimes, tickets)
	hallGuard := schedule.NewHallGuard(tickets)
	accountant := booking.NewAccountant(repository.NewPurchaseStore(store, halls, tickets, users), clk)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	adminH := handler.NewAdminHandler(halls, showtimes, validator, hallGuard)
	browseH := handler.NewBrowseHandler(halls, showtimes, clk)
	purchaseH := handler.NewPurchaseHandler(accountant, tickets, users, showtimes, halls)

	e := echo.New()

	// Redis backs the token-bucket rate limiter and the browse cache. A nil
	// client disables both so the server still runs without Redis.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: rate limiting and response cache disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	var browseCache echo.MiddlewareFunc
	if rdb != nil {
		browseCache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, browseH, browseCache)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)
	router.RegisterCustomer(e, purchaseH, cfg.JWTSecret)

	// Background consumer that appends purchase events to logs/sales.log.
	go func() {
		if err := queue.StartSalesConsumer(); err != nil {
			log.Printf("sales consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
