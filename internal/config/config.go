// Пакет config собирает настройки сервисов из переменных окружения
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит настройки API-сервера и консьюмера аудита
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr string
	CacheTTL  time.Duration

	NATSURL     string
	NATSSubject string
	ImageBucket string

	JWTSecret string
	TokenTTL  time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string
	EmailTo      string
	AdminURL     string

	CORSOrigin string

	ClickhouseDSN string
	BatchSize     int
	ConsumerPort  string
}

// DSN возвращает строку подключения к Postgres
func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func durenv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// Load читает окружение и подставляет значения по умолчанию.
// Некорректные числа и длительности возвращаются ошибкой
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        getenv("DB_NAME", "appdb"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		NATSURL:       getenv("NATS_URL", "nats://localhost:4222"),
		NATSSubject:   getenv("NATS_SUBJECT", "audit"),
		ImageBucket:   getenv("IMAGE_BUCKET", "images"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SMTPHost:      getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		EmailFrom:     os.Getenv("EMAIL_FROM"),
		EmailTo:       os.Getenv("EMAIL_TO"),
		AdminURL:      getenv("ADMIN_URL", "http://www.coffeemillandcakes.co.uk/messages"),
		CORSOrigin:    getenv("CORS_ORIGIN", "*"),
		ClickhouseDSN: os.Getenv("CLICKHOUSE_DSN"),
		ConsumerPort:  getenv("CONSUMER_PORT", "8081"),
	}
	var err error
	if cfg.ShutdownTimeout, err = durenv("SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	// 30 минут
	if cfg.CacheTTL, err = durenv("CACHE_TTL", 1800*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.TokenTTL, err = durenv("TOKEN_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.SMTPPort, err = atoienv("SMTP_PORT", 587); err != nil {
		return Config{}, err
	}
	if cfg.BatchSize, err = atoienv("BATCH_SIZE", 10); err != nil {
		return Config{}, err
	}
	if cfg.BatchSize <= 0 {
		return Config{}, fmt.Errorf("invalid BATCH_SIZE: must be positive, got %d", cfg.BatchSize)
	}
	return cfg, nil
}
