// Пакет cache предоставляет обёртку для работы с Redis как кешем
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss возвращается, когда запрошенный ключ отсутствует в кеше Redis.
// Используется для явного отличия ситуации кэш-промаха от других ошибок Redis.
var ErrCacheMiss = errors.New("cache miss")

// RedisClient представляет собой обёртку над *redis.Client,
// упрощающую работу с методами Set, Get и Del и обработку ошибок.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient создаёт новый RedisClient с заданными опциями подключения.
func NewRedisClient(opts *redis.Options) *RedisClient {
	return &RedisClient{client: redis.NewClient(opts)}
}

// Set сохраняет значение value под ключом key с указанным временем жизни expiration.
func (r *RedisClient) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

// Get пытается получить значение по ключу key из кеша.
// Если ключ не найден (Redis возвращает redis.Nil), возвращается ErrCacheMiss,
// иначе при других ошибках возвращается оригинальная ошибка.
func (r *RedisClient) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Invalidate удаляет ключи из кеша Redis одной командой DEL.
// Без ключей ничего не делает.
func (r *RedisClient) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// Ping проверяет доступность Redis (для /readyz)
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close закрывает соединение с Redis
func (r *RedisClient) Close() error {
	return r.client.Close()
}
