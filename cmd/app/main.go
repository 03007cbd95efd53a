package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	nats "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"CoffeeMill/internal/auth"
	"CoffeeMill/internal/config"
	"CoffeeMill/internal/repository"
	"CoffeeMill/internal/service"
	externalHttp "CoffeeMill/internal/transport/http"
	"CoffeeMill/pkg/blob"
	"CoffeeMill/pkg/cache"
	"CoffeeMill/pkg/logger"
	"CoffeeMill/pkg/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatalf("JWT_SECRET is required")
	}

	// подключаем Postgres
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Fatalf("failed to connect to Postgres: %v", err)
	}
	defer func() { _ = db.Close() }()
	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping Postgres: %v", err)
	}

	// применяем миграции Postgres
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatalf("failed to create migrate driver: %v", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations/postgres", "postgres", driver)
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	// Redis - кэш списков товаров
	cacheClient := cache.NewRedisClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() { _ = cacheClient.Close() }()

	// NATS: события аудита и хранилище изображений JetStream
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to NATS: %v", err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		log.Fatalf("failed to create JetStream context: %v", err)
	}
	initCtx, initCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	images, err := blob.Open(initCtx, js, cfg.ImageBucket)
	initCancel()
	if err != nil {
		log.Fatalf("failed to open image bucket %s: %v", cfg.ImageBucket, err)
	}
	audit := logger.NewClient(nc, cfg.NATSSubject)

	notifier := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
		To:       cfg.EmailTo,
		AdminURL: cfg.AdminURL,
	})
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	// репозитории и сервисы
	catalog := service.NewCatalogService(repository.NewProductRepository(db), cacheClient, audit, cfg.CacheTTL)
	messages := service.NewMessageService(repository.NewMessageRepository(db), notifier, audit)
	login := service.NewAuthService(repository.NewUserRepository(db), auth.NewPasswordHasher(), tokens)

	h := externalHttp.NewHandler(externalHttp.Services{
		Catalog:  catalog,
		Messages: messages,
		Auth:     login,
		Images:   service.NewImageService(images),
		Tokens:   tokens,
		Ready: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			if err := cacheClient.Ping(ctx); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			if !nc.IsConnected() {
				return fmt.Errorf("nats: %s", nc.Status())
			}
			return nil
		},
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: externalHttp.NewRouter(h, cfg.CORSOrigin)}
	go func() {
		log.Printf("starting server at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	// ожидаем сигнал для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Printf("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown failed: %v", err)
	}
	// дожидаем уведомления, отправленные после ответа
	messages.Wait()
	if err := nc.Drain(); err != nil {
		log.Printf("failed to drain NATS connection: %v", err)
	}
	log.Printf("server exited properly")
}
