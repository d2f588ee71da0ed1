package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-booking/internal/app"
	"github.com/iliyamo/hotel-booking/internal/catalog"
	"github.com/iliyamo/hotel-booking/internal/config"
	"github.com/iliyamo/hotel-booking/internal/database"
	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/payment"
	"github.com/iliyamo/hotel-booking/internal/queue"
	"github.com/iliyamo/hotel-booking/internal/router"
	"github.com/iliyamo/hotel-booking/internal/service"
	"github.com/iliyamo/hotel-booking/internal/session"
	"github.com/iliyamo/hotel-booking/internal/storage"
	"github.com/iliyamo/hotel-booking/internal/wizard"
)

func main() {
	cfg, err := config.Load()
	logger := app.NewLogger(cfg.Env, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	if cfg.UsesDevSecret() {
		logger.Warn("VISITOR_TOKEN_SECRET not set, using the development key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.LoadFile(cfg.HotelConfig)
	if err != nil {
		logger.Fatal("load hotel catalog", zap.String("path", cfg.HotelConfig), zap.Error(err))
	}

	rdb := config.NewRedisClient(cfg.Redis, logger)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	store, closeStore, err := openStore(ctx, cfg, rdb, logger)
	if err != nil {
		logger.Fatal("open storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer closeStore()

	var events service.Publisher = service.LogPublisher{Logger: logger}
	if cfg.EventsEnabled {
		amqpPub := service.NewAMQPPublisher(cfg.RabbitURL, logger)
		async := service.NewAsyncPublisher(amqpPub, 256, 5*time.Second, logger)
		defer amqpPub.Close()
		defer async.Close()
		events = async

		if cfg.ConsumeEvents {
			go func() {
				if err := queue.StartBookingConsumer(ctx, cfg.RabbitURL, cfg.BookingLogPath, logger); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("booking consumer stopped", zap.Error(err))
				}
			}()
		}
	}

	sessions := session.NewManager(cfg.SessionTTL)
	go sessions.Run(ctx, cfg.SessionSweepEvery)

	scope := handler.NewScope(store, cfg.ReferencePrefix, cfg.ReferenceFallbackPrefix, events, logger)
	e := router.New(router.Deps{
		Catalog:       handler.NewCatalogHandler(cat),
		Wizard:        handler.NewWizardHandler(wizard.NewMachine(cat), sessions, scope, logger),
		Bookings:      handler.NewBookingHandler(payment.NewService(cat), scope, cfg.DemoVerification, cfg.MaxUploadBytes, logger),
		VisitorSecret: cfg.VisitorSecret,
		VisitorTTL:    cfg.VisitorTTL,
		SecureCookie:  cfg.IsProduction(),
		RateLimit:     cfg.RateLimit,
		Cache:         cfg.Cache,
		Redis:         rdb,
		Logger:        logger,
	})

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening",
			zap.String("addr", addr),
			zap.String("env", cfg.Env),
			zap.String("storage", cfg.StorageDriver),
			zap.Bool("redis", rdb != nil),
			zap.Bool("events", cfg.EventsEnabled))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("stopped")
}

// openStore picks the backing store for every visitor ledger.
func openStore(ctx context.Context, cfg config.Config, rdb *redis.Client, logger *zap.Logger) (storage.Store, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverRedis:
		if rdb == nil {
			return nil, nil, errors.New("STORAGE_DRIVER=redis but redis is unreachable")
		}
		return storage.NewRedis(rdb, cfg.Redis.KeyPrefix), func() {}, nil
	case config.DriverMySQL:
		db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, nil, err
		}
		s := storage.NewSQL(db)
		if err := s.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return s, func() { _ = db.Close() }, nil
	default:
		logger.Info("using in-memory storage; bookings are lost on restart")
		return storage.NewMemory(), func() {}, nil
	}
}
