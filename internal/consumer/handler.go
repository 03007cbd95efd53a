package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"CoffeeMill/internal/model"
)

// Repo описывает хранилище, принимающее события аудита пачками
type Repo interface {
	BatchInsertEvents(ctx context.Context, events []model.AuditEvent) error
}

// Consumer копит события из NATS и сбрасывает их в ClickHouse пачками по batchSize
type Consumer struct {
	repo      Repo
	batchSize int

	mu     sync.Mutex
	events []model.AuditEvent
}

// NewConsumer создаёт Consumer; batchSize < 1 трактуется как 1
func NewConsumer(repo Repo, batchSize int) *Consumer {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Consumer{repo: repo, batchSize: batchSize, events: make([]model.AuditEvent, 0, batchSize)}
}

// HandleMessage разбирает событие и добавляет в буфер; при заполнении буфера пишет пачку
func (c *Consumer) HandleMessage(ctx context.Context, data []byte) error {
	var e model.AuditEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return fmt.Errorf("failed to decode audit event: %w", err)
	}
	log.Printf("[audit] received %s %s %s by %q", e.Entity, e.Action, e.ID, e.Actor)

	c.mu.Lock()
	c.events = append(c.events, e)
	if len(c.events) < c.batchSize {
		c.mu.Unlock()
		return nil
	}
	batch := c.drainLocked()
	c.mu.Unlock()
	return c.repo.BatchInsertEvents(ctx, batch)
}

// Flush пишет всё накопленное, пустой буфер - no-op
func (c *Consumer) Flush(ctx context.Context) error {
	c.mu.Lock()
	if len(c.events) == 0 {
		c.mu.Unlock()
		return nil
	}
	batch := c.drainLocked()
	c.mu.Unlock()
	return c.repo.BatchInsertEvents(ctx, batch)
}

// Pending возвращает число событий в буфере
func (c *Consumer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func (c *Consumer) drainLocked() []model.AuditEvent {
	batch := make([]model.AuditEvent, len(c.events))
	copy(batch, c.events)
	c.events = c.events[:0]
	return batch
}
