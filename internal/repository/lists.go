package repository

import (
	"context"
	"database/sql"
	"fmt"

	"ShoppingTracker/internal/model"
)

// ListRepository реализует доступ к таблицам shopping_lists и shopping_list_items
type ListRepository struct {
	db *sql.DB
}

// NewListRepository создает новый репозиторий списков покупок
func NewListRepository(db *sql.DB) *ListRepository {
	return &ListRepository{db: db}
}

// CreateList добавляет новый список покупок
func (r *ListRepository) CreateList(ctx context.Context, name string) (*model.ShoppingList, error) {
	query := `INSERT INTO shopping_lists(name) VALUES($1) RETURNING id, created_at`
	var l model.ShoppingList
	l.Name = name
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&l.ID, &l.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert shopping list: %w", err)
	}
	return &l, nil
}

// ListLists возвращает все списки покупок, новые первыми
func (r *ListRepository) ListLists(ctx context.Context) ([]model.ShoppingList, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM shopping_lists ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select shopping lists: %w", err)
	}
	defer rows.Close()
	var lists []model.ShoppingList
	for rows.Next() {
		var l model.ShoppingList
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shopping list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shopping lists: %w", err)
	}
	return lists, nil
}

// GetList возвращает список покупок по id без позиций
func (r *ListRepository) GetList(ctx context.Context, id int) (*model.ShoppingList, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM shopping_lists WHERE id=$1`, id)
	var l model.ShoppingList
	if err := row.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get shopping list: %w", err)
	}
	return &l, nil
}

// DeleteList удаляет список; позиции удаляются каскадно по ON DELETE CASCADE
// Отсутствующий список не считается ошибкой
func (r *ListRepository) DeleteList(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shopping_lists WHERE id=$1`, id); err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	return nil
}

// ListItems возвращает позиции списка в порядке добавления
func (r *ListRepository) ListItems(ctx context.Context, listID int) ([]model.ShoppingListItem, error) {
	query := `SELECT id, shopping_list_id, product_id, quantity, is_bought
		FROM shopping_list_items WHERE shopping_list_id=$1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to select list items: %w", err)
	}
	defer rows.Close()
	var items []model.ShoppingListItem
	for rows.Next() {
		var it model.ShoppingListItem
		if err := rows.Scan(&it.ID, &it.ShoppingListID, &it.ProductID, &it.Quantity, &it.IsBought); err != nil {
			return nil, fmt.Errorf("failed to scan list item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate list items: %w", err)
	}
	return items, nil
}

// AddItem добавляет позицию в список; если пара (список, товар) уже есть,
// увеличивает существующий quantity на запрошенное количество
// Ссылка на несуществующий список или товар дает ErrNotFound
func (r *ListRepository) AddItem(ctx context.Context, listID, productID, quantity int) (*model.ShoppingListItem, error) {
	query := `INSERT INTO shopping_list_items(shopping_list_id, product_id, quantity)
		VALUES($1, $2, $3)
		ON CONFLICT (shopping_list_id, product_id)
		DO UPDATE SET quantity = shopping_list_items.quantity + EXCLUDED.quantity
		RETURNING id, quantity, is_bought`
	var it model.ShoppingListItem
	it.ShoppingListID = listID
	it.ProductID = productID
	err := r.db.QueryRowContext(ctx, query, listID, productID, quantity).
		Scan(&it.ID, &it.Quantity, &it.IsBought)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to upsert list item: %w", err)
	}
	return &it, nil
}

// SetItemBought устанавливает отметку о покупке позиции
func (r *ListRepository) SetItemBought(ctx context.Context, itemID int, bought bool) (*model.ShoppingListItem, error) {
	query := `UPDATE shopping_list_items SET is_bought=$1 WHERE id=$2
		RETURNING id, shopping_list_id, product_id, quantity, is_bought`
	row := r.db.QueryRowContext(ctx, query, bought, itemID)
	var it model.ShoppingListItem
	err := row.Scan(&it.ID, &it.ShoppingListID, &it.ProductID, &it.Quantity, &it.IsBought)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update list item: %w", err)
	}
	return &it, nil
}

// RemoveItem удаляет позицию; отсутствующая позиция не считается ошибкой
func (r *ListRepository) RemoveItem(ctx context.Context, itemID int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shopping_list_items WHERE id=$1`, itemID); err != nil {
		return fmt.Errorf("failed to delete list item: %w", err)
	}
	return nil
}
