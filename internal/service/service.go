// Пакет service реализует бизнес-логику трекера: валидацию входных данных,
// правила ведения журнала цен, сборку связанных сущностей при чтении,
// кэширование ответов и публикацию событий изменения цен
package service

import (
	"context"
	"os"
	"time"
)

// Cache определяет интерфейс кэширования результатов чтения (Redis)
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Invalidate(ctx context.Context, keys ...string) error
}

// EventPublisher определяет интерфейс публикации событий изменения цен (NATS)
type EventPublisher interface {
	Publish(data []byte) error
}

// Ключи кэша
const (
	cacheKeyProducts = "products:list"
	cacheKeyCatalog  = "catalog"
	cacheKeyLists    = "lists:index"
)

// cacheTTL задаёт время жизни записей в кэше, по умолчанию 1 минута или из REDIS_TTL
var cacheTTL = time.Minute

func init() {
	if v := os.Getenv("REDIS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cacheTTL = d
		}
	}
}
