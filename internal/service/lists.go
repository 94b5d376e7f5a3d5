package service

import (
	"context"
	"encoding/json"

	"ShoppingTracker/internal/model"
)

// ListRepo определяет интерфейс репозитория списков покупок
type ListRepo interface {
	CreateList(ctx context.Context, name string) (*model.ShoppingList, error)
	ListLists(ctx context.Context) ([]model.ShoppingList, error)
	GetList(ctx context.Context, id int) (*model.ShoppingList, error)
	DeleteList(ctx context.Context, id int) error
	ListItems(ctx context.Context, listID int) ([]model.ShoppingListItem, error)
	AddItem(ctx context.Context, listID, productID, quantity int) (*model.ShoppingListItem, error)
	SetItemBought(ctx context.Context, itemID int, bought bool) (*model.ShoppingListItem, error)
	RemoveItem(ctx context.Context, itemID int) error
}

// ListProductReader — часть репозитория товаров, нужная для сборки списка
type ListProductReader interface {
	ListProductsByIDs(ctx context.Context, ids []int) (map[int]model.Product, error)
	ListShopsByIDs(ctx context.Context, shopIDs []int) (map[int]model.Shop, error)
}

// ListsService реализует операции над списками покупок и их позициями
type ListsService struct {
	repo     ListRepo
	products ListProductReader
	cache    Cache
}

// NewListsService создаёт новый сервис списков покупок
func NewListsService(r ListRepo, p ListProductReader, c Cache) *ListsService {
	return &ListsService{repo: r, products: p, cache: c}
}

// Create добавляет список покупок
func (s *ListsService) Create(ctx context.Context, name string) (*model.ShoppingList, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	l, err := s.repo.CreateList(ctx, name)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, cacheKeyLists)
	return l, nil
}

// List возвращает все списки без позиций, новые первыми; ответ кэшируется
// Кэшируются только имена и даты, поэтому изменения товаров его не трогают
func (s *ListsService) List(ctx context.Context) ([]model.ShoppingList, error) {
	if data, err := s.cache.Get(ctx, cacheKeyLists); err == nil {
		var lists []model.ShoppingList
		if err := json.Unmarshal(data, &lists); err == nil {
			return lists, nil
		}
	}
	lists, err := s.repo.ListLists(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(lists); err == nil {
		_ = s.cache.Set(ctx, cacheKeyLists, data, cacheTTL)
	}
	return lists, nil
}

// Get возвращает список с трёхуровневой сборкой:
// позиции, их товары и магазины товаров подтягиваются пакетными запросами
func (s *ListsService) Get(ctx context.Context, id int) (*model.ShoppingList, error) {
	l, err := s.repo.GetList(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		l.Items = items
		return l, nil
	}
	productIDs := make([]int, 0, len(items))
	for _, it := range items {
		productIDs = append(productIDs, it.ProductID)
	}
	products, err := s.products.ListProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	var shopIDs []int
	seen := make(map[int]bool)
	for _, p := range products {
		if p.ShopID != nil && !seen[*p.ShopID] {
			seen[*p.ShopID] = true
			shopIDs = append(shopIDs, *p.ShopID)
		}
	}
	shops := make(map[int]model.Shop)
	if len(shopIDs) > 0 {
		shops, err = s.products.ListShopsByIDs(ctx, shopIDs)
		if err != nil {
			return nil, err
		}
	}
	for i := range items {
		if p, ok := products[items[i].ProductID]; ok {
			if p.ShopID != nil {
				if shop, ok := shops[*p.ShopID]; ok {
					sh := shop
					p.Shop = &sh
				}
			}
			prod := p
			items[i].Product = &prod
		}
	}
	l.Items = items
	return l, nil
}

// Delete удаляет список вместе с позициями; отсутствующий список — не ошибка
func (s *ListsService) Delete(ctx context.Context, id int) error {
	if err := s.repo.DeleteList(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Invalidate(ctx, cacheKeyLists)
	return nil
}

// AddItem добавляет товар в список; количество меньше единицы отклоняется,
// повторное добавление того же товара увеличивает количество существующей позиции
func (s *ListsService) AddItem(ctx context.Context, listID, productID, quantity int) (*model.ShoppingListItem, error) {
	if quantity < 1 {
		return nil, &ValidationError{Field: "quantity", Message: "must be at least 1"}
	}
	return s.repo.AddItem(ctx, listID, productID, quantity)
}

// SetItemBought выставляет отметку о покупке позиции
func (s *ListsService) SetItemBought(ctx context.Context, itemID int, bought bool) (*model.ShoppingListItem, error) {
	return s.repo.SetItemBought(ctx, itemID, bought)
}

// RemoveItem удаляет позицию из списка; отсутствующая позиция — не ошибка
func (s *ListsService) RemoveItem(ctx context.Context, itemID int) error {
	return s.repo.RemoveItem(ctx, itemID)
}
