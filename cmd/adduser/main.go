package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"CoffeeMill/internal/auth"
	"CoffeeMill/internal/config"
	"CoffeeMill/internal/repository"
	"CoffeeMill/internal/service"
)

// adduser заводит администратора в таблице users.
// Логин и пароль берутся из ADMIN_USERNAME и ADMIN_PASSWORD, имя из ADMIN_NAME,
// подключение к Postgres из тех же переменных, что и у сервиса
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Fatalf("failed to connect to Postgres: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping Postgres: %v", err)
	}

	u, err := service.SeedAdmin(ctx,
		repository.NewUserRepository(db),
		auth.NewPasswordHasher(),
		os.Getenv("ADMIN_NAME"),
		os.Getenv("ADMIN_USERNAME"),
		os.Getenv("ADMIN_PASSWORD"),
	)
	if err != nil {
		log.Fatalf("failed to add admin: %v", err)
	}
	log.Printf("admin %s is ready", u.Username)
}
