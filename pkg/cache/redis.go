// Пакет cache предоставляет обёртку для работы с Redis как кешем ответов API
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss возвращается, когда запрошенный ключ отсутствует в кеше Redis.
// Позволяет отличить кэш-промах от прочих ошибок Redis.
var ErrCacheMiss = errors.New("cache miss")

// RedisClient — обёртка над *redis.Client с методами Set, Get и Invalidate
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient создаёт новый RedisClient с заданными опциями подключения
func NewRedisClient(opts *redis.Options) *RedisClient {
	return &RedisClient{client: redis.NewClient(opts)}
}

// Set сохраняет значение value под ключом key со временем жизни expiration
func (r *RedisClient) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

// Get читает значение по ключу key.
// Если ключ не найден (Redis возвращает redis.Nil), возвращается ErrCacheMiss,
// прочие ошибки Redis возвращаются как есть.
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

// Invalidate удаляет ключи keys из кеша одной командой.
// Мутации каталога и списков сбрасывают по несколько ключей сразу.
func (r *RedisClient) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}
