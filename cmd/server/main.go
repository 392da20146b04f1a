package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/rangbhumi-booking/internal/app"
	"github.com/iliyamo/rangbhumi-booking/internal/booking"
	"github.com/iliyamo/rangbhumi-booking/internal/config"
	"github.com/iliyamo/rangbhumi-booking/internal/database"
	"github.com/iliyamo/rangbhumi-booking/internal/handler"
	"github.com/iliyamo/rangbhumi-booking/internal/logger"
	"github.com/iliyamo/rangbhumi-booking/internal/middleware"
	"github.com/iliyamo/rangbhumi-booking/internal/repository"
	"github.com/iliyamo/rangbhumi-booking/internal/router"
	"github.com/iliyamo/rangbhumi-booking/internal/service"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal("failed to read .env", "error", err)
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	ctx := context.Background()
	core, err := app.NewCore(cfg)
	if err != nil {
		logger.Fatal("failed to load catalog", "error", err)
	}
	// A corrupt store stops startup here; it is never reseeded.
	seeded, err := core.Seed(ctx)
	if err != nil {
		logger.Fatal("seat store unusable", "path", cfg.StorePath, "error", err)
	}
	if len(seeded) > 0 {
		log.Info("seeded seat maps", "shows", seeded, "path", cfg.StorePath)
	}

	opts := []booking.Option{}
	var db *sql.DB
	dbCfg := database.Config{User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName}
	if dbCfg.Enabled() {
		if db, err = database.Open(dbCfg); err != nil {
			logger.Fatal("failed to connect to database", "error", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("failed to migrate database", "error", err)
		}
		opts = append(opts, booking.WithBookingLog(repository.NewBookingLogRepo(db)))
		log.Info("booking log: mysql", "host", cfg.DBHost, "db", cfg.DBName)
	} else {
		opts = append(opts, booking.WithBookingLog(repository.NewMemoryBookingLog()))
		log.Info("booking log: in memory")
	}

	var publisher *service.Publisher
	if cfg.AMQPURL != "" {
		publisher = service.NewPublisher(cfg.AMQPURL)
		opts = append(opts, booking.WithNotifier(publisher))
	}

	var rdb *redis.Client
	if config.RedisEnabled() {
		if rdb = config.NewRedisClient(ctx); rdb == nil {
			log.Warn("redis unreachable, running without cache and rate limit")
		}
	}

	engine := booking.NewEngine(core.Store, core.Catalog, core.Pricing, opts...)
	tickets, err := core.Tickets()
	if err != nil {
		logger.Fatal("failed to load ticket font", "path", cfg.TicketFont, "error", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger())
	router.RegisterRoutes(e, engine)
	router.RegisterPublic(e,
		&handler.PublicHandler{Catalog: core.Catalog, Engine: engine, Layout: core.Layout, Pricing: core.Pricing},
		&handler.BookingHandler{Engine: engine, Tickets: tickets},
		rdb, config.LoadCacheConfig(), config.LoadRateLimitConfig(),
	)
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, operator endpoints disabled")
	}
	router.RegisterOperator(e, &handler.OperatorHandler{Engine: engine, Tickets: tickets}, cfg.JWTSecret)

	go func() {
		log.Info("listening", "addr", ":"+cfg.Port, "env", cfg.Env)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
	if publisher != nil {
		_ = publisher.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if db != nil {
		_ = db.Close()
	}
	log.Info("server stopped")
}
