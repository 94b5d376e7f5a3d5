package repository

import (
	"context"
	"database/sql"
	"log"

	"ShoppingTracker/internal/model"
)

// ClickhouseRepo реализует пакетную запись событий изменения цен в ClickHouse
type ClickhouseRepo struct {
	db *sql.DB
}

// NewClickhouseRepo создаёт новый репозиторий для ClickHouse
func NewClickhouseRepo(db *sql.DB) *ClickhouseRepo {
	return &ClickhouseRepo{db: db}
}

// BatchInsertPriceEvents записывает пакет событий в таблицу price_events_log
func (r *ClickhouseRepo) BatchInsertPriceEvents(ctx context.Context, events []model.PriceEvent) error {
	// начинаем 'транзакцию' для batch insert (clickhouse-go собирает блок при PrepareContext)
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	log.Printf("Начало пакетной вставки %d событий цен в ClickHouse", len(events))
	// PrepareContext для одной строки; clickhouse-go соберёт несколько Exec в один блок
	query := `INSERT INTO price_events_log (ProductId, ProductName, Price, RecordedAt) VALUES (?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()
	for _, e := range events {
		if _, err := stmt.ExecContext(ctx, e.ProductID, e.ProductName, e.Price, e.RecordedAt); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("Успешно вставлено %d событий цен в ClickHouse", len(events))
	return nil
}
