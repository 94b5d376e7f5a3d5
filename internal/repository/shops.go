package repository

import (
	"context"
	"database/sql"
	"fmt"

	"ShoppingTracker/internal/model"
)

// ShopRepository реализует доступ к таблице shops
type ShopRepository struct {
	db *sql.DB
}

// NewShopRepository создает новый репозиторий магазинов
func NewShopRepository(db *sql.DB) *ShopRepository {
	return &ShopRepository{db: db}
}

// CreateShop добавляет новый магазин; при повторе имени возвращает ErrConflict
func (r *ShopRepository) CreateShop(ctx context.Context, name string) (*model.Shop, error) {
	query := `INSERT INTO shops(name) VALUES($1) RETURNING id`
	var id int
	err := r.db.QueryRowContext(ctx, query, name).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to insert shop: %w", err)
	}
	return &model.Shop{ID: id, Name: name}, nil
}

// ListShops возвращает все магазины, отсортированные по имени
func (r *ShopRepository) ListShops(ctx context.Context) ([]model.Shop, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM shops ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select shops: %w", err)
	}
	defer rows.Close()
	var shops []model.Shop
	for rows.Next() {
		var s model.Shop
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan shop: %w", err)
		}
		shops = append(shops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shops: %w", err)
	}
	return shops, nil
}

// DeleteShop удаляет магазин по id; shop_id у товаров обнуляется по ON DELETE SET NULL
// Возвращает ErrNotFound, если магазина нет
func (r *ShopRepository) DeleteShop(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shops WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shop: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
