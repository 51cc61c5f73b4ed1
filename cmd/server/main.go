package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/lmittmann/tint"

	"github.com/rasanjula/hobby-planner/internal/config"
	"github.com/rasanjula/hobby-planner/internal/database"
	"github.com/rasanjula/hobby-planner/internal/handler"
	"github.com/rasanjula/hobby-planner/internal/middleware"
	"github.com/rasanjula/hobby-planner/internal/queue"
	"github.com/rasanjula/hobby-planner/internal/repository"
	"github.com/rasanjula/hobby-planner/internal/router"
	queue_publisher "github.com/rasanjula/hobby-planner/internal/service"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "error", err)
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.AutoMigrate)
	if err != nil {
		slog.Error("can't open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	sessionRepo := repository.NewSessionRepo(db)
	attendeeRepo := repository.NewAttendeeRepo(db)

	sessionHandler := handler.NewSessionHandler(sessionRepo, validator.New())
	attendeeHandler := handler.NewAttendeeHandler(attendeeRepo, sessionRepo)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	// Redis-backed middleware; both are no-ops when Redis is absent.
	rdb := config.NewRedisClient()
	if rdb == nil {
		slog.Warn("redis unavailable; rate limiting and response cache disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewResponseCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterSessions(e, sessionHandler, attendeeHandler)

	// Background consumer mirroring joins into logs/attendance.log.
	go queue.StartAttendanceConsumer(queue_publisher.BrokerURL())

	addr := ":" + cfg.Port
	slog.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
