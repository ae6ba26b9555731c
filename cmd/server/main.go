package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/restaurant-pos/internal/config"
	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/handler"
	"github.com/iliyamo/restaurant-pos/internal/middleware"
	"github.com/iliyamo/restaurant-pos/internal/queue"
	"github.com/iliyamo/restaurant-pos/internal/repository"
	"github.com/iliyamo/restaurant-pos/internal/router"
	"github.com/iliyamo/restaurant-pos/internal/service"
)

func main() {
	_ = godotenv.Load() // local .env is optional; real deployments set env directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db, cfg.SeedTables); err != nil {
		log.Fatalf("schema: %v", err)
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	tableRepo := repository.NewTableRepo(db)
	menuRepo := repository.NewMenuRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)

	events := service.NewPublisher()

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	tableHandler := handler.NewTableHandler(tableRepo)
	menuHandler := handler.NewMenuHandler(menuRepo)
	orderHandler := handler.NewOrderHandler(orderRepo, events)
	paymentHandler := handler.NewPaymentHandler(paymentRepo, events)

	e := echo.New()
	e.Use(echomw.Recover()) // unexpected panics become generic 500s, never raw traces
	e.Use(echomw.Logger())

	// Distributed rate limiting; degrades to a no-op without redis.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e, menuHandler)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterTables(e, tableHandler, cfg.JWTSecret)
	router.RegisterMenuAdmin(e, menuHandler, cfg.JWTSecret)
	router.RegisterOrders(e, orderHandler, paymentHandler, cfg.JWTSecret)

	// Kitchen ticket consumer; reconnects on its own if the broker drops.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("kitchen consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
