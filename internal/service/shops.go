package service

import (
	"context"

	"ShoppingTracker/internal/model"
)

// ShopRepo определяет интерфейс репозитория магазинов
type ShopRepo interface {
	CreateShop(ctx context.Context, name string) (*model.Shop, error)
	ListShops(ctx context.Context) ([]model.Shop, error)
	DeleteShop(ctx context.Context, id int) error
}

// ShopsService реализует операции реестра магазинов
type ShopsService struct {
	repo  ShopRepo
	cache Cache
}

// NewShopsService создаёт новый сервис магазинов
func NewShopsService(r ShopRepo, c Cache) *ShopsService {
	return &ShopsService{repo: r, cache: c}
}

// Create добавляет магазин; пустое имя отклоняется до обращения к БД,
// повтор имени даёт repository.ErrConflict
func (s *ShopsService) Create(ctx context.Context, name string) (*model.Shop, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	return s.repo.CreateShop(ctx, name)
}

// List возвращает магазины по алфавиту
func (s *ShopsService) List(ctx context.Context) ([]model.Shop, error) {
	return s.repo.ListShops(ctx)
}

// Delete удаляет магазин; ссылки товаров на него обнуляются на уровне БД,
// поэтому сбрасываем кэш товаров и каталога
func (s *ShopsService) Delete(ctx context.Context, id int) error {
	if err := s.repo.DeleteShop(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Invalidate(ctx, cacheKeyProducts, cacheKeyCatalog)
	return nil
}
