package consumer

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ShoppingTracker/internal/model"
)

// Repo описывает интерфейс репозитория ClickHouse для пакетной записи событий цен
type Repo interface {
	BatchInsertPriceEvents(ctx context.Context, events []model.PriceEvent) error
}

// Consumer буферизует события изменения цен и отправляет их пакетно в ClickHouse
// batchSize определяет макс. количество событий до отправки
// mutex защищает доступ к буферу events
type Consumer struct {
	repo      Repo
	batchSize int
	events    []model.PriceEvent
	mu        sync.Mutex
}

// NewConsumer создаёт Consumer с указанным репозиторием и размером пакета
func NewConsumer(repo Repo, batchSize int) *Consumer {
	return &Consumer{repo: repo, batchSize: batchSize, events: make([]model.PriceEvent, 0, batchSize)}
}

// HandleMessage обрабатывает сообщение из NATS: парсит JSON, добавляет событие
// в буфер и при достижении batchSize отправляет пакет в ClickHouse
func (c *Consumer) HandleMessage(ctx context.Context, data []byte) error {
	var e model.PriceEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	log.Printf("Получено событие изменения цены: %+v", e)
	c.mu.Lock()
	c.events = append(c.events, e)
	if len(c.events) >= c.batchSize {
		eventsCopy := make([]model.PriceEvent, len(c.events))
		copy(eventsCopy, c.events)
		c.events = c.events[:0]
		c.mu.Unlock()
		return c.repo.BatchInsertPriceEvents(ctx, eventsCopy)
	}
	c.mu.Unlock()
	return nil
}

// Flush отправляет все накопленные события, если они есть
func (c *Consumer) Flush(ctx context.Context) error {
	c.mu.Lock()
	if len(c.events) == 0 {
		c.mu.Unlock()
		return nil
	}
	eventsCopy := make([]model.PriceEvent, len(c.events))
	copy(eventsCopy, c.events)
	c.events = c.events[:0]
	c.mu.Unlock()
	return c.repo.BatchInsertPriceEvents(ctx, eventsCopy)
}
