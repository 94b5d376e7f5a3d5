package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"ShoppingTracker/internal/model"
)

// priceEpsilon — минимальное изменение цены, которое попадает в журнал
const priceEpsilon = 0.001

// ProductRepo определяет интерфейс репозитория товаров и журнала цен
type ProductRepo interface {
	CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error)
	GetProduct(ctx context.Context, id int) (*model.Product, error)
	UpdateProduct(ctx context.Context, p *model.Product, recordPrice bool) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListProductsByIDs(ctx context.Context, ids []int) (map[int]model.Product, error)
	ListHistoryByProducts(ctx context.Context, productIDs []int) (map[int][]model.PriceHistory, error)
	ListShopsByIDs(ctx context.Context, shopIDs []int) (map[int]model.Shop, error)
	ExportCatalog(ctx context.Context) ([]model.CatalogEntry, error)
}

// ProductInput — поля создания товара
type ProductInput struct {
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Weight   *float64 `json:"weight"`
	Calories *float64 `json:"calories"`
	Quantity *int     `json:"quantity"`
	ShopID   *int     `json:"shopId"`
}

// ProductUpdate — поля частичного обновления товара
// nil означает «оставить прежнее значение»
type ProductUpdate struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Weight   *float64 `json:"weight"`
	Calories *float64 `json:"calories"`
	Quantity *int     `json:"quantity"`
	ShopID   *int     `json:"shopId"`
}

// CatalogService реализует операции каталога товаров и журнала цен
type CatalogService struct {
	repo   ProductRepo
	cache  Cache
	events EventPublisher
}

// NewCatalogService создаёт новый сервис каталога
func NewCatalogService(r ProductRepo, c Cache, e EventPublisher) *CatalogService {
	return &CatalogService{repo: r, cache: c, events: e}
}

// validateProduct проверяет числовые инварианты: все значения либо nil, либо >= 0
func validateProduct(price float64, weight, calories *float64, quantity *int) error {
	if price < 0 {
		return negativeField("price")
	}
	if weight != nil && *weight < 0 {
		return negativeField("weight")
	}
	if calories != nil && *calories < 0 {
		return negativeField("calories")
	}
	if quantity != nil && *quantity < 0 {
		return negativeField("quantity")
	}
	return nil
}

// Create создаёт товар:
// 1. Валидирует числовые поля до любой записи
// 2. Вставляет товар вместе с первой записью журнала цен
// 3. Подтягивает магазин, сбрасывает кэш и публикует событие цены
func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	if in.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if err := validateProduct(in.Price, in.Weight, in.Calories, in.Quantity); err != nil {
		return nil, err
	}
	p := &model.Product{
		Name:     in.Name,
		Price:    in.Price,
		Weight:   in.Weight,
		Calories: in.Calories,
		Quantity: in.Quantity,
		ShopID:   in.ShopID,
	}
	p, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.attachShops(ctx, []*model.Product{p}); err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, cacheKeyProducts, cacheKeyCatalog)
	s.publishPriceEvent(p)
	return p, nil
}

// Update частично обновляет товар:
// 1. Читает текущее состояние, накладывает только переданные поля
// 2. Перепроверяет числовые инварианты
// 3. Пишет журнал цен, только если |старая − новая| > 0.001
// 4. Возвращает товар с магазином и полным журналом цен
func (s *CatalogService) Update(ctx context.Context, id int, upd ProductUpdate) (*model.Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	oldPrice := p.Price
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Weight != nil {
		p.Weight = upd.Weight
	}
	if upd.Calories != nil {
		p.Calories = upd.Calories
	}
	if upd.Quantity != nil {
		p.Quantity = upd.Quantity
	}
	if upd.ShopID != nil {
		p.ShopID = upd.ShopID
	}
	if p.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if err := validateProduct(p.Price, p.Weight, p.Calories, p.Quantity); err != nil {
		return nil, err
	}
	priceChanged := math.Abs(oldPrice-p.Price) > priceEpsilon
	p, err = s.repo.UpdateProduct(ctx, p, priceChanged)
	if err != nil {
		return nil, err
	}
	if err := s.attachShops(ctx, []*model.Product{p}); err != nil {
		return nil, err
	}
	history, err := s.repo.ListHistoryByProducts(ctx, []int{p.ID})
	if err != nil {
		return nil, err
	}
	p.History = history[p.ID]
	_ = s.cache.Invalidate(ctx, cacheKeyProducts, cacheKeyCatalog)
	if priceChanged {
		s.publishPriceEvent(p)
	}
	return p, nil
}

// List возвращает все товары с магазинами и журналами цен,
// последние изменённые первыми; ответ кэшируется
func (s *CatalogService) List(ctx context.Context) ([]model.Product, error) {
	if data, err := s.cache.Get(ctx, cacheKeyProducts); err == nil {
		var products []model.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
	}
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) > 0 {
		ids := make([]int, 0, len(products))
		refs := make([]*model.Product, 0, len(products))
		for i := range products {
			ids = append(ids, products[i].ID)
			refs = append(refs, &products[i])
		}
		history, err := s.repo.ListHistoryByProducts(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range products {
			products[i].History = history[products[i].ID]
		}
		if err := s.attachShops(ctx, refs); err != nil {
			return nil, err
		}
	}
	if data, err := json.Marshal(products); err == nil {
		_ = s.cache.Set(ctx, cacheKeyProducts, data, cacheTTL)
	}
	return products, nil
}

// Export возвращает публичную выгрузку каталога; ответ кэшируется
func (s *CatalogService) Export(ctx context.Context) ([]model.CatalogEntry, error) {
	if data, err := s.cache.Get(ctx, cacheKeyCatalog); err == nil {
		var entries []model.CatalogEntry
		if err := json.Unmarshal(data, &entries); err == nil {
			return entries, nil
		}
	}
	entries, err := s.repo.ExportCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(entries); err == nil {
		_ = s.cache.Set(ctx, cacheKeyCatalog, data, cacheTTL)
	}
	return entries, nil
}

// attachShops подтягивает магазины для набора товаров одним запросом
func (s *CatalogService) attachShops(ctx context.Context, products []*model.Product) error {
	var shopIDs []int
	seen := make(map[int]bool)
	for _, p := range products {
		if p.ShopID != nil && !seen[*p.ShopID] {
			seen[*p.ShopID] = true
			shopIDs = append(shopIDs, *p.ShopID)
		}
	}
	if len(shopIDs) == 0 {
		return nil
	}
	shops, err := s.repo.ListShopsByIDs(ctx, shopIDs)
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.ShopID != nil {
			if shop, ok := shops[*p.ShopID]; ok {
				sh := shop
				p.Shop = &sh
			}
		}
	}
	return nil
}

// publishPriceEvent отправляет событие изменения цены в NATS
// Ошибка публикации не прерывает операцию
func (s *CatalogService) publishPriceEvent(p *model.Product) {
	event := model.PriceEvent{
		ProductID:   p.ID,
		ProductName: p.Name,
		Price:       p.Price,
		RecordedAt:  time.Now(),
	}
	data, _ := json.Marshal(event)
	_ = s.events.Publish(data)
}
