// Package studynotesmarket собирает основное HTTP-приложение:
// хранилище, миграции, кеш, объектное хранилище, брокер сообщений,
// бизнес-сервисы и маршруты.
package studynotesmarket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/study-notes-market/internal/blobstore"
	"github.com/magabrotheeeer/study-notes-market/internal/cache"
	"github.com/magabrotheeeer/study-notes-market/internal/config"
	jwtlib "github.com/magabrotheeeer/study-notes-market/internal/lib/jwt"
	"github.com/magabrotheeeer/study-notes-market/internal/migrations"
	"github.com/magabrotheeeer/study-notes-market/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/study-notes-market/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/study-notes-market/internal/services/catalog"
	paymentservice "github.com/magabrotheeeer/study-notes-market/internal/services/payment"
	"github.com/magabrotheeeer/study-notes-market/internal/storage/repository"
)

// App содержит зависимости основного приложения.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn *amqp.Connection
	rabbitCh   *amqp.Channel
}

// New инициализирует все зависимости и возвращает готовое приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, fmt.Errorf("check database ready: %w", err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}

	blobs, err := blobstore.New(ctx, cfg.S3Storage)
	if err != nil {
		return nil, fmt.Errorf("init blob storage: %w", err)
	}

	rabbitConn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	rabbitCh, err := rabbitmq.SetupChannel(rabbitConn)
	if err != nil {
		_ = rabbitConn.Close()
		return nil, fmt.Errorf("setup rabbitmq channel: %w", err)
	}
	publisher := rabbitmq.NewPublisher(rabbitCh)

	jwtMaker := jwtlib.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.New(db, jwtMaker, logger)
	catalogService := catalogservice.New(db, blobs, cacheRedis, cfg.FixedPrice, logger)
	paymentService := paymentservice.New(db, db, publisher, logger)

	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return nil, fmt.Errorf("ensure admin account: %w", err)
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, catalogService, paymentService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
		rabbitCh:   rabbitCh,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.rabbitCh.Close(); closeErr != nil {
			a.logger.Error("failed to close rabbitmq channel", slog.Any("err", closeErr))
		}
		if closeErr := a.rabbitConn.Close(); closeErr != nil {
			a.logger.Error("failed to close rabbitmq connection", slog.Any("err", closeErr))
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
