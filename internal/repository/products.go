package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"ShoppingTracker/internal/model"
)

// ProductRepository реализует доступ к таблицам products и price_history
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// CreateProduct добавляет товар и первую запись журнала цен в одной транзакции
// Возвращает товар с заполненным History (одна запись с ценой создания)
func (r *ProductRepository) CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	// вставляем товар, updated_at заполняется дефолтом now()
	insertProduct := `INSERT INTO products(name, price, weight, calories, quantity, shop_id)
		VALUES($1, $2, $3, $4, $5, $6) RETURNING id, updated_at`
	err = tx.QueryRowContext(ctx, insertProduct, p.Name, p.Price, p.Weight, p.Calories, p.Quantity, p.ShopID).
		Scan(&p.ID, &p.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	// первая запись журнала цен с ценой создания
	var h model.PriceHistory
	h.ProductID = p.ID
	h.Price = p.Price
	insertHistory := `INSERT INTO price_history(product_id, price) VALUES($1, $2) RETURNING id, created_at`
	if err := tx.QueryRowContext(ctx, insertHistory, p.ID, p.Price).Scan(&h.ID, &h.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert price history: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	p.History = []model.PriceHistory{h}
	return p, nil
}

// GetProduct возвращает товар по id без связанных сущностей
func (r *ProductRepository) GetProduct(ctx context.Context, id int) (*model.Product, error) {
	query := `SELECT id, name, price, weight, calories, quantity, shop_id, updated_at
		FROM products WHERE id=$1`
	row := r.db.QueryRowContext(ctx, query, id)
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Weight, &p.Calories, &p.Quantity, &p.ShopID, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// UpdateProduct перезаписывает поля товара и обновляет updated_at, в транзакции
// с блокировкой строки; при recordPrice добавляет запись журнала цен с новой ценой
func (r *ProductRepository) UpdateProduct(ctx context.Context, p *model.Product, recordPrice bool) (*model.Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	// блокируем строку на время обновления
	var existingID int
	row := tx.QueryRowContext(ctx, `SELECT id FROM products WHERE id=$1 FOR UPDATE`, p.ID)
	if err := row.Scan(&existingID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to select product for update: %w", err)
	}
	updateQuery := `UPDATE products SET name=$1, price=$2, weight=$3, calories=$4, quantity=$5, shop_id=$6, updated_at=now()
		WHERE id=$7 RETURNING updated_at`
	err = tx.QueryRowContext(ctx, updateQuery, p.Name, p.Price, p.Weight, p.Calories, p.Quantity, p.ShopID, p.ID).
		Scan(&p.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if recordPrice {
		_, err = tx.ExecContext(ctx, `INSERT INTO price_history(product_id, price) VALUES($1, $2)`, p.ID, p.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to insert price history: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return p, nil
}

// ListProducts возвращает все товары без связанных сущностей,
// последние измененные первыми
func (r *ProductRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	query := `SELECT id, name, price, weight, calories, quantity, shop_id, updated_at
		FROM products ORDER BY updated_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}
	defer rows.Close()
	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Weight, &p.Calories, &p.Quantity, &p.ShopID, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// ListProductsByIDs возвращает товары по набору id одним запросом
func (r *ProductRepository) ListProductsByIDs(ctx context.Context, ids []int) (map[int]model.Product, error) {
	query := `SELECT id, name, price, weight, calories, quantity, shop_id, updated_at
		FROM products WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to select products by ids: %w", err)
	}
	defer rows.Close()
	products := make(map[int]model.Product)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Weight, &p.Calories, &p.Quantity, &p.ShopID, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// ListHistoryByProducts возвращает журналы цен для набора товаров одним запросом,
// свежие записи первыми
func (r *ProductRepository) ListHistoryByProducts(ctx context.Context, productIDs []int) (map[int][]model.PriceHistory, error) {
	query := `SELECT id, product_id, price, created_at FROM price_history
		WHERE product_id = ANY($1) ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(productIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to select price history: %w", err)
	}
	defer rows.Close()
	history := make(map[int][]model.PriceHistory)
	for rows.Next() {
		var h model.PriceHistory
		if err := rows.Scan(&h.ID, &h.ProductID, &h.Price, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price history: %w", err)
		}
		history[h.ProductID] = append(history[h.ProductID], h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate price history: %w", err)
	}
	return history, nil
}

// ListShopsByIDs возвращает магазины по набору id одним запросом
func (r *ProductRepository) ListShopsByIDs(ctx context.Context, shopIDs []int) (map[int]model.Shop, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM shops WHERE id = ANY($1)`, pq.Array(shopIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to select shops: %w", err)
	}
	defer rows.Close()
	shops := make(map[int]model.Shop)
	for rows.Next() {
		var s model.Shop
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan shop: %w", err)
		}
		shops[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shops: %w", err)
	}
	return shops, nil
}

// ExportCatalog собирает публичную выгрузку каталога одним JOIN-запросом
func (r *ProductRepository) ExportCatalog(ctx context.Context) ([]model.CatalogEntry, error) {
	query := `SELECT p.name, p.price, s.name, p.updated_at
		FROM products p LEFT JOIN shops s ON s.id = p.shop_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select catalog: %w", err)
	}
	defer rows.Close()
	var entries []model.CatalogEntry
	for rows.Next() {
		var e model.CatalogEntry
		var shopName sql.NullString
		if err := rows.Scan(&e.Product, &e.Price, &shopName, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
		}
		e.Currency = model.Currency
		if shopName.Valid {
			name := shopName.String
			e.Shop = &name
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog: %w", err)
	}
	return entries, nil
}
