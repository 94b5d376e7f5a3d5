package service

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"ShoppingTracker/internal/model"
	"ShoppingTracker/internal/repository"
)

// mockListRepo реализует интерфейс репозитория списков покупок для тестирования ListsService
type mockListRepo struct {
	createFn    func(ctx context.Context, name string) (*model.ShoppingList, error)
	listFn      func(ctx context.Context) ([]model.ShoppingList, error)
	getFn       func(ctx context.Context, id int) (*model.ShoppingList, error)
	deleteFn    func(ctx context.Context, id int) error
	itemsFn     func(ctx context.Context, listID int) ([]model.ShoppingListItem, error)
	addItemFn   func(ctx context.Context, listID, productID, quantity int) (*model.ShoppingListItem, error)
	setBoughtFn func(ctx context.Context, itemID int, bought bool) (*model.ShoppingListItem, error)
	removeFn    func(ctx context.Context, itemID int) error
}

func (m *mockListRepo) CreateList(ctx context.Context, name string) (*model.ShoppingList, error) {
	return m.createFn(ctx, name)
}
func (m *mockListRepo) ListLists(ctx context.Context) ([]model.ShoppingList, error) {
	return m.listFn(ctx)
}
func (m *mockListRepo) GetList(ctx context.Context, id int) (*model.ShoppingList, error) {
	return m.getFn(ctx, id)
}
func (m *mockListRepo) DeleteList(ctx context.Context, id int) error {
	return m.deleteFn(ctx, id)
}
func (m *mockListRepo) ListItems(ctx context.Context, listID int) ([]model.ShoppingListItem, error) {
	return m.itemsFn(ctx, listID)
}
func (m *mockListRepo) AddItem(ctx context.Context, listID, productID, quantity int) (*model.ShoppingListItem, error) {
	return m.addItemFn(ctx, listID, productID, quantity)
}
func (m *mockListRepo) SetItemBought(ctx context.Context, itemID int, bought bool) (*model.ShoppingListItem, error) {
	return m.setBoughtFn(ctx, itemID, bought)
}
func (m *mockListRepo) RemoveItem(ctx context.Context, itemID int) error {
	return m.removeFn(ctx, itemID)
}

// mockProductReader реализует выборку товаров и магазинов для сборки списка
type mockProductReader struct {
	byIDsFn func(ctx context.Context, ids []int) (map[int]model.Product, error)
	shopsFn func(ctx context.Context, shopIDs []int) (map[int]model.Shop, error)
}

func (m *mockProductReader) ListProductsByIDs(ctx context.Context, ids []int) (map[int]model.Product, error) {
	return m.byIDsFn(ctx, ids)
}
func (m *mockProductReader) ListShopsByIDs(ctx context.Context, shopIDs []int) (map[int]model.Shop, error) {
	return m.shopsFn(ctx, shopIDs)
}

// TestListsCreate_Success: создание списка сбрасывает кэш перечня списков
func TestListsCreate_Success(t *testing.T) {
	list := &model.ShoppingList{ID: 1, Name: "Выходные"}
	repo := &mockListRepo{createFn: func(ctx context.Context, name string) (*model.ShoppingList, error) {
		return list, nil
	}}
	var keysInvalidated []string
	cache := &mockCache{inval: func(ctx context.Context, keys ...string) error {
		keysInvalidated = append(keysInvalidated, keys...)
		return nil
	}}
	s := NewListsService(repo, &mockProductReader{}, cache)
	got, err := s.Create(context.Background(), "Выходные")
	if err != nil || !reflect.DeepEqual(got, list) {
		t.Fatalf("Create returned %v, %v; want %v, nil", got, err, list)
	}
	if !reflect.DeepEqual(keysInvalidated, []string{"lists:index"}) {
		t.Fatalf("unexpected invalidated keys: %v", keysInvalidated)
	}
}

// TestListsCreate_EmptyName: пустое имя отклоняется до обращения к репозиторию
func TestListsCreate_EmptyName(t *testing.T) {
	repo := &mockListRepo{createFn: func(ctx context.Context, name string) (*model.ShoppingList, error) {
		t.Fatal("repo must not be called for empty name")
		return nil, nil
	}}
	s := NewListsService(repo, &mockProductReader{}, &mockCache{})
	var vErr *ValidationError
	if _, err := s.Create(context.Background(), ""); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// TestListsList_CacheHit: перечень списков берётся из кэша
func TestListsList_CacheHit(t *testing.T) {
	exp := []model.ShoppingList{{ID: 1, Name: "Будни"}}
	data, _ := json.Marshal(exp)
	repo := &mockListRepo{listFn: func(ctx context.Context) ([]model.ShoppingList, error) {
		t.Fatal("repo must not be called on cache hit")
		return nil, nil
	}}
	cache := &mockCache{get: func(ctx context.Context, key string) ([]byte, error) { return data, nil }}
	s := NewListsService(repo, &mockProductReader{}, cache)
	got, err := s.List(context.Background())
	if err != nil || !reflect.DeepEqual(got, exp) {
		t.Fatalf("List cache hit returned %v, %v; want %v, nil", got, err, exp)
	}
}

// TestListsGet_Hydration: позиции получают товары, товары — магазины,
// всё пакетными запросами
func TestListsGet_Hydration(t *testing.T) {
	repo := &mockListRepo{
		getFn: func(ctx context.Context, id int) (*model.ShoppingList, error) {
			return &model.ShoppingList{ID: 1, Name: "Выходные"}, nil
		},
		itemsFn: func(ctx context.Context, listID int) ([]model.ShoppingListItem, error) {
			return []model.ShoppingListItem{
				{ID: 1, ShoppingListID: 1, ProductID: 10, Quantity: 2},
				{ID: 2, ShoppingListID: 1, ProductID: 11, Quantity: 1, IsBought: true},
			}, nil
		},
	}
	products := &mockProductReader{
		byIDsFn: func(ctx context.Context, ids []int) (map[int]model.Product, error) {
			if !reflect.DeepEqual(ids, []int{10, 11}) {
				t.Fatalf("unexpected product ids: %v", ids)
			}
			return map[int]model.Product{
				10: {ID: 10, Name: "Молоко", Price: 1.35, ShopID: iptr(7)},
				11: {ID: 11, Name: "Хлеб", Price: 0.99},
			}, nil
		},
		shopsFn: func(ctx context.Context, shopIDs []int) (map[int]model.Shop, error) {
			if !reflect.DeepEqual(shopIDs, []int{7}) {
				t.Fatalf("unexpected shop ids: %v", shopIDs)
			}
			return map[int]model.Shop{7: {ID: 7, Name: "Lidl"}}, nil
		},
	}
	s := NewListsService(repo, products, &mockCache{})
	l, err := s.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(l.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(l.Items))
	}
	first := l.Items[0]
	if first.Product == nil || first.Product.Name != "Молоко" || first.Product.Shop == nil || first.Product.Shop.Name != "Lidl" {
		t.Fatalf("first item not hydrated: %+v", first)
	}
	second := l.Items[1]
	if second.Product == nil || second.Product.Shop != nil {
		t.Fatalf("second item hydration mismatch: %+v", second)
	}
}

// TestListsGet_Empty: пустой список не дергает выборку товаров
func TestListsGet_Empty(t *testing.T) {
	repo := &mockListRepo{
		getFn: func(ctx context.Context, id int) (*model.ShoppingList, error) {
			return &model.ShoppingList{ID: 1, Name: "Пустой"}, nil
		},
		itemsFn: func(ctx context.Context, listID int) ([]model.ShoppingListItem, error) {
			return nil, nil
		},
	}
	products := &mockProductReader{byIDsFn: func(ctx context.Context, ids []int) (map[int]model.Product, error) {
		t.Fatal("products must not be fetched for an empty list")
		return nil, nil
	}}
	s := NewListsService(repo, products, &mockCache{})
	l, err := s.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(l.Items) != 0 {
		t.Fatalf("expected no items, got %+v", l.Items)
	}
}

// TestListsGet_NotFound проверяет возврат ErrNotFound
func TestListsGet_NotFound(t *testing.T) {
	repo := &mockListRepo{getFn: func(ctx context.Context, id int) (*model.ShoppingList, error) {
		return nil, repository.ErrNotFound
	}}
	s := NewListsService(repo, &mockProductReader{}, &mockCache{})
	if _, err := s.Get(context.Background(), 99); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestListsDelete_Success: удаление сбрасывает кэш перечня списков
func TestListsDelete_Success(t *testing.T) {
	repo := &mockListRepo{deleteFn: func(ctx context.Context, id int) error { return nil }}
	var keysInvalidated []string
	cache := &mockCache{inval: func(ctx context.Context, keys ...string) error {
		keysInvalidated = append(keysInvalidated, keys...)
		return nil
	}}
	s := NewListsService(repo, &mockProductReader{}, cache)
	if err := s.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !reflect.DeepEqual(keysInvalidated, []string{"lists:index"}) {
		t.Fatalf("unexpected invalidated keys: %v", keysInvalidated)
	}
}

// TestListsAddItem_Success проверяет добавление позиции
func TestListsAddItem_Success(t *testing.T) {
	item := &model.ShoppingListItem{ID: 1, ShoppingListID: 1, ProductID: 10, Quantity: 2}
	repo := &mockListRepo{addItemFn: func(ctx context.Context, listID, productID, quantity int) (*model.ShoppingListItem, error) {
		if listID != 1 || productID != 10 || quantity != 2 {
			t.Fatalf("unexpected args: %d %d %d", listID, productID, quantity)
		}
		return item, nil
	}}
	s := NewListsService(repo, &mockProductReader{}, &mockCache{})
	got, err := s.AddItem(context.Background(), 1, 10, 2)
	if err != nil || !reflect.DeepEqual(got, item) {
		t.Fatalf("AddItem returned %v, %v; want %v, nil", got, err, item)
	}
}

// TestListsAddItem_BadQuantity: количество меньше единицы отклоняется до записи
func TestListsAddItem_BadQuantity(t *testing.T) {
	repo := &mockListRepo{addItemFn: func(ctx context.Context, listID, productID, quantity int) (*model.ShoppingListItem, error) {
		t.Fatal("repo must not be called for bad quantity")
		return nil, nil
	}}
	s := NewListsService(repo, &mockProductReader{}, &mockCache{})
	var vErr *ValidationError
	if _, err := s.AddItem(context.Background(), 1, 10, 0); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// TestListsSetItemBought проверяет отметку о покупке
func TestListsSetItemBought(t *testing.T) {
	item := &model.ShoppingListItem{ID: 1, ShoppingListID: 1, ProductID: 10, Quantity: 2, IsBought: true}
	repo := &mockListRepo{setBoughtFn: func(ctx context.Context, itemID int, bought bool) (*model.ShoppingListItem, error) {
		if itemID != 1 || !bought {
			t.Fatalf("unexpected args: %d %v", itemID, bought)
		}
		return item, nil
	}}
	s := NewListsService(repo, &mockProductReader{}, &mockCache{})
	got, err := s.SetItemBought(context.Background(), 1, true)
	if err != nil || !got.IsBought {
		t.Fatalf("SetItemBought returned %v, %v", got, err)
	}
}

// TestListsRemoveItem проверяет удаление позиции
func TestListsRemoveItem(t *testing.T) {
	var removed int
	repo := &mockListRepo{removeFn: func(ctx context.Context, itemID int) error {
		removed = itemID
		return nil
	}}
	s := NewListsService(repo, &mockProductReader{}, &mockCache{})
	if err := s.RemoveItem(context.Background(), 5); err != nil {
		t.Fatalf("RemoveItem returned error: %v", err)
	}
	if removed != 5 {
		t.Fatalf("expected item 5 removed, got %d", removed)
	}
}
