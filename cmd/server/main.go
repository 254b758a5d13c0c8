package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fyyur/internal/config"
	"github.com/iliyamo/fyyur/internal/database"
	"github.com/iliyamo/fyyur/internal/handler"
	"github.com/iliyamo/fyyur/internal/middleware"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/router"
	"github.com/iliyamo/fyyur/internal/service"
	"github.com/iliyamo/fyyur/internal/web"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg := config.Load()
	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("logger setup failed")
	}
	defer func() { _ = closeLog() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		logger.WithError(err).Fatal("database migration failed")
	}

	rdb := config.NewRedisClient(logger)
	if rdb != nil {
		defer rdb.Close()
	}

	publisher := service.NewPublisher(cfg.AMQPURL, cfg.ActivityQueue, logger)
	defer publisher.Close()
	if cfg.AMQPURL != "" {
		consumer := &queue.ActivityConsumer{
			URL:     cfg.AMQPURL,
			Queue:   cfg.ActivityQueue,
			LogPath: cfg.ActivityLog,
			Logger:  logger,
		}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err).Error("activity consumer stopped")
			}
		}()
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.WithError(err).Fatal("templates failed to parse")
	}

	venueRepo := repository.NewVenueRepo(db)
	artistRepo := repository.NewArtistRepo(db)
	showRepo := repository.NewShowRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(logger)

	e.Pre(echomw.MethodOverrideWithConfig(echomw.MethodOverrideConfig{
		Getter: echomw.MethodFromForm("_method"),
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(requestLogger(logger)))
	e.Use(middleware.FormToken(middleware.FormTokenConfig{
		Secret: cfg.FormSecret,
		TTL:    cfg.FormTokenTTL,
		Exempt: router.SearchPaths,
		Secure: !cfg.IsDev(),
		Logger: logger,
	}))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger))
	cacheCfg := config.LoadCacheConfig()
	cacheCfg.NoPurge = router.SearchPaths
	e.Use(middleware.NewRedisCache(cacheCfg, rdb, logger))

	router.RegisterRoutes(e, handler.NewHomeHandler(venueRepo, artistRepo, logger), db, logger)
	router.RegisterVenues(e, handler.NewVenueHandler(venueRepo, showRepo, publisher, logger))
	router.RegisterArtists(e, handler.NewArtistHandler(artistRepo, showRepo, publisher, logger))
	router.RegisterShows(e, handler.NewShowHandler(showRepo, publisher, logger))

	addr := ":" + cfg.Port
	go func() {
		logger.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}

// requestLogger feeds echo's access log into logrus.
func requestLogger(logger logrus.FieldLogger) echomw.RequestLoggerConfig {
	return echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
				"remote_ip":  v.RemoteIP,
			})
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("request")
			return nil
		},
	}
}
