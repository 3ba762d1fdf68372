package main // Entry point package

import (
	"context"
	"log" // Logging library
	"os"
	"time"

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/event-seat-reservation/internal/config"     // Internal config loader
	"github.com/iliyamo/event-seat-reservation/internal/handler"    // HTTP handlers
	"github.com/iliyamo/event-seat-reservation/internal/middleware" // Rate limiting middleware
	"github.com/iliyamo/event-seat-reservation/internal/queue"      // Broker payloads and consumer
	"github.com/iliyamo/event-seat-reservation/internal/repository" // Seat state machine
	"github.com/iliyamo/event-seat-reservation/internal/router"     // Route registration
	queue_publisher "github.com/iliyamo/event-seat-reservation/internal/service"
	"github.com/iliyamo/event-seat-reservation/internal/store" // Record store over Redis
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load() // Load and validate environment config

	rdb, err := config.NewRedisClient()
	if err != nil {
		log.Fatalf("redis connect failed: %v", err) // The store is mandatory
	}
	recordStore := store.New(rdb)

	eventRepo := repository.NewEventRepo(recordStore, cfg.MaxSeatsPerEvent)
	holdRepo := repository.NewSeatHoldRepo(recordStore, time.Duration(cfg.HoldDurationSec)*time.Second, cfg.MaxHoldsPerUser)
	reservationRepo := repository.NewReservationRepo(recordStore)
	seatRepo := repository.NewSeatRepo(recordStore)

	// Reservation fan-out over RabbitMQ; disabled with QUEUE_ENABLED=false.
	var publish handler.Publisher
	if os.Getenv("QUEUE_ENABLED") != "false" {
		publish = func(ev queue.ReservationConfirmedEvent) {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = queue_publisher.PublishReservationConfirmed(ctx, ev)
			}()
		}
		go func() {
			if err := queue.StartReservationConsumer(); err != nil {
				log.Printf("reservation consumer stopped: %v", err)
			}
		}()
	}

	eventHandler := handler.NewEventHandler(eventRepo)
	seatHandler := handler.NewSeatHandler(eventRepo, holdRepo, reservationRepo, seatRepo, publish)

	e := echo.New() // Create Echo instance
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterRoutes(e, eventHandler, seatHandler)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
