package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/ClickHouse/clickhouse-go"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/clickhouse"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/nats-io/nats.go"

	"CoffeeMill/internal/config"
	"CoffeeMill/internal/consumer"
	"CoffeeMill/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to NATS: %v", err)
	}
	defer nc.Close()

	// ClickHouse: база должна существовать, таблицу создают миграции
	db, err := sql.Open("clickhouse", cfg.ClickhouseDSN)
	if err != nil {
		log.Fatalf("failed to connect to ClickHouse: %v", err)
	}
	defer func() { _ = db.Close() }()

	driver, err := clickhouse.WithInstance(db, &clickhouse.Config{})
	if err != nil {
		log.Fatalf("failed to create ClickHouse migrate driver: %v", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations/clickhouse", "clickhouse", driver)
	if err != nil {
		log.Fatalf("failed to create ClickHouse migrate instance: %v", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("failed to apply ClickHouse migrations: %v", err)
	}

	cons := consumer.NewConsumer(repository.NewClickhouseRepo(db), cfg.BatchSize)

	// healthz и readyz
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{"status": "ok"})
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil || !nc.IsConnected() {
			writeStatus(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "unavailable"})
			return
		}
		writeStatus(w, http.StatusOK, map[string]interface{}{"status": "ready", "pending": cons.Pending()})
	})
	healthSrv := &http.Server{Addr: ":" + cfg.ConsumerPort, Handler: mux}
	go func() {
		log.Printf("starting health server on :%s", cfg.ConsumerPort)
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("health server failed: %v", err)
		}
	}()

	sub, err := nc.Subscribe(cfg.NATSSubject, func(msg *nats.Msg) {
		if err := cons.HandleMessage(context.Background(), msg.Data); err != nil {
			log.Printf("[audit] failed to handle message: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("failed to subscribe to subject %s: %v", cfg.NATSSubject, err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Printf("shutting down consumer...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := healthSrv.Shutdown(ctx); err != nil {
		log.Printf("health server shutdown failed: %v", err)
	}
	// отписываемся и сбрасываем остаток буфера
	if err := sub.Unsubscribe(); err != nil {
		log.Printf("failed to unsubscribe: %v", err)
	}
	if err := cons.Flush(ctx); err != nil {
		log.Printf("failed to flush consumer events: %v", err)
	}
}

func writeStatus(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
