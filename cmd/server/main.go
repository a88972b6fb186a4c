package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sunvoyage/tour-booking/internal/booking"
	"github.com/sunvoyage/tour-booking/internal/config"
	"github.com/sunvoyage/tour-booking/internal/database"
	"github.com/sunvoyage/tour-booking/internal/handler"
	"github.com/sunvoyage/tour-booking/internal/middleware"
	"github.com/sunvoyage/tour-booking/internal/queue"
	"github.com/sunvoyage/tour-booking/internal/repository"
	"github.com/sunvoyage/tour-booking/internal/router"
	queue_publisher "github.com/sunvoyage/tour-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	tours := repository.NewTourRepo(db)
	orders := repository.NewOrderRepo(db)
	reviews := repository.NewReviewRepo(db)
	destinations := repository.NewDestinationRepo(db)

	// Booking engine.
	events := queue_publisher.New()
	ledger := booking.NewLedger(tours, orders, logger)
	orderSvc := booking.NewOrderService(db, orders, ledger, events, logger)
	tourSvc := booking.NewTourService(db, tours, orders, reviews, ledger, events, logger)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(tourSvc, tours, destinations)
	bookingH := handler.NewBookingHandler(orderSvc, orders)
	staffH := handler.NewStaffHandler(orderSvc, tourSvc, orders, destinations)

	// Redis is optional: without it the catalog cache and the rate
	// limiter are skipped and every request hits the database.
	rdb := config.NewRedisClient()
	var cacheMW, limitMW []echo.MiddlewareFunc
	if rdb != nil {
		if cacheCfg := config.LoadCacheConfig(); cacheCfg.Enabled {
			cacheMW = append(cacheMW, middleware.NewRedisCache(cacheCfg, rdb))
		}
		if rlCfg := config.LoadRateLimitConfig(); rlCfg.Enabled {
			limitMW = append(limitMW, middleware.NewTokenBucket(rlCfg, rdb))
		}
	} else {
		logger.Warn("redis unavailable, cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, cacheMW...)
	router.RegisterBooking(e, bookingH, cfg.JWTSecret, limitMW...)
	router.RegisterStaff(e, staffH, cfg.JWTSecret)

	// Lifecycle events are consumed into an audit log. The consumer
	// reconnects on its own; a returned error means it gave up for good.
	go func() {
		if err := queue.StartLifecycleConsumer(); err != nil {
			logger.Error("lifecycle consumer stopped", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	fields := zap.Fields(zap.String("service", "tour-booking"))
	if env == "prod" {
		return zap.NewProduction(fields)
	}
	return zap.NewDevelopment(fields)
}
