package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"CoffeeMill/internal/model"
)

// ClickhouseRepo реализует пакетную запись событий аудита в ClickHouse
type ClickhouseRepo struct {
	db *sql.DB
}

// NewClickhouseRepo создаёт новый репозиторий для ClickHouse
func NewClickhouseRepo(db *sql.DB) *ClickhouseRepo {
	return &ClickhouseRepo{db: db}
}

// BatchInsertEvents записывает пакет событий в таблицу events_log
func (r *ClickhouseRepo) BatchInsertEvents(ctx context.Context, events []model.AuditEvent) error {
	// clickhouse-go собирает блок из всех Exec внутри «транзакции»
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin clickhouse batch: %w", err)
	}
	log.Printf("[audit] inserting %d events into ClickHouse", len(events))
	query := `INSERT INTO events_log (Id, Entity, Action, Actor, Name, Priority, Visible, EventTime) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare clickhouse batch: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for _, e := range events {
		_, err := stmt.ExecContext(ctx,
			e.ID, e.Entity, e.Action, e.Actor, e.Name,
			int32(e.Priority), boolToUInt8(e.Visible), e.EventTime,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to append event %s: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clickhouse batch: %w", err)
	}
	log.Printf("[audit] inserted %d events into ClickHouse", len(events))
	return nil
}

// boolToUInt8 конвертирует bool в UInt8 (0/1)
func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
