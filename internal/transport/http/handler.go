package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"ShoppingTracker/internal/model"
	"ShoppingTracker/internal/repository"
	"ShoppingTracker/internal/service"
)

// ShopsService задаёт интерфейс реестра магазинов для HTTP-слоя
type ShopsService interface {
	Create(ctx context.Context, name string) (*model.Shop, error)
	List(ctx context.Context) ([]model.Shop, error)
	Delete(ctx context.Context, id int) error
}

// CatalogService задаёт интерфейс каталога товаров для HTTP-слоя
type CatalogService interface {
	Create(ctx context.Context, in service.ProductInput) (*model.Product, error)
	Update(ctx context.Context, id int, upd service.ProductUpdate) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Export(ctx context.Context) ([]model.CatalogEntry, error)
}

// ListsService задаёт интерфейс списков покупок для HTTP-слоя
type ListsService interface {
	Create(ctx context.Context, name string) (*model.ShoppingList, error)
	List(ctx context.Context) ([]model.ShoppingList, error)
	Get(ctx context.Context, id int) (*model.ShoppingList, error)
	Delete(ctx context.Context, id int) error
	AddItem(ctx context.Context, listID, productID, quantity int) (*model.ShoppingListItem, error)
	SetItemBought(ctx context.Context, itemID int, bought bool) (*model.ShoppingListItem, error)
	RemoveItem(ctx context.Context, itemID int) error
}

// NotifyService задаёт интерфейс уведомлений для HTTP-слоя
type NotifyService interface {
	SendList(ctx context.Context, listID int) error
	SaveConfig(ctx context.Context, token string) (*model.TelegramConfig, error)
	GetConfig(ctx context.Context) (*model.TelegramConfig, error)
	AddUser(ctx context.Context, name, chatID string) (*model.TelegramUser, error)
	ListUsers(ctx context.Context) ([]model.TelegramUser, error)
	RemoveUser(ctx context.Context, id int) error
}

// Handler содержит зависимости и реализует HTTP-эндпоинты трекера
type Handler struct {
	shops   ShopsService
	catalog CatalogService
	lists   ListsService
	notify  NotifyService
}

// NewHandler создаёт новый HTTP Handler
func NewHandler(shops ShopsService, catalog CatalogService, lists ListsService, notify NotifyService) *Handler {
	return &Handler{shops: shops, catalog: catalog, lists: lists, notify: notify}
}

// RegisterRoutes регистрирует маршруты API
// Маршруты /lists/items регистрируются раньше /lists/{id}
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", h.Healthz).Methods("GET")
	r.HandleFunc("/readyz", h.Readyz).Methods("GET")

	r.HandleFunc("/shops", h.ListShops).Methods("GET")
	r.HandleFunc("/shops", h.CreateShop).Methods("POST")
	r.HandleFunc("/shops/{id}", h.DeleteShop).Methods("DELETE")

	r.HandleFunc("/products", h.ListProducts).Methods("GET")
	r.HandleFunc("/products", h.CreateProduct).Methods("POST")
	r.HandleFunc("/products/{id}", h.UpdateProduct).Methods("PUT")

	r.HandleFunc("/catalog", h.ExportCatalog).Methods("GET")

	r.HandleFunc("/lists/items", h.AddListItem).Methods("POST")
	r.HandleFunc("/lists/items/{id}", h.SetItemBought).Methods("PATCH")
	r.HandleFunc("/lists/items/{id}", h.RemoveListItem).Methods("DELETE")
	r.HandleFunc("/lists", h.ListLists).Methods("GET")
	r.HandleFunc("/lists", h.CreateList).Methods("POST")
	r.HandleFunc("/lists/{id}", h.GetList).Methods("GET")
	r.HandleFunc("/lists/{id}", h.DeleteList).Methods("DELETE")

	r.HandleFunc("/telegram/config", h.GetTelegramConfig).Methods("GET")
	r.HandleFunc("/telegram/config", h.SaveTelegramConfig).Methods("POST")
	r.HandleFunc("/telegram/users", h.ListTelegramUsers).Methods("GET")
	r.HandleFunc("/telegram/users", h.AddTelegramUser).Methods("POST")
	r.HandleFunc("/telegram/users/{id}", h.RemoveTelegramUser).Methods("DELETE")
	r.HandleFunc("/telegram/send/{id}", h.SendList).Methods("POST")
}

// ErrorResponse модель ошибки API
type ErrorResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

func writeError(w http.ResponseWriter, status int, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeOK возвращает подтверждение для операций удаления и рассылки
func writeOK(w http.ResponseWriter) {
	writeJSON(w, map[string]bool{"ok": true})
}

// writeServiceError переводит ошибку сервиса в HTTP-статус:
// NotFound — 404, Conflict — 409, валидация и отсутствующая конфигурация — 400,
// всё остальное — 500
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, ErrorResponse{3, "errors.common.notFound", map[string]interface{}{}})
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, ErrorResponse{2, "errors.common.alreadyExists", map[string]interface{}{}})
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ErrorResponse{1, ve.Error(), map[string]interface{}{"field": ve.Field}})
	case errors.Is(err, service.ErrNoConfig), errors.Is(err, service.ErrNoUsers):
		writeError(w, http.StatusBadRequest, ErrorResponse{4, err.Error(), map[string]interface{}{}})
	default:
		writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
	}
}

// parsePathID извлекает и валидирует {id} из пути
func parsePathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ListShops обрабатывает GET /shops
func (h *Handler) ListShops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.shops.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if shops == nil {
		shops = []model.Shop{}
	}
	writeJSON(w, shops)
}

// CreateShop обрабатывает POST /shops
func (h *Handler) CreateShop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid request body", map[string]interface{}{}})
		return
	}
	shop, err := h.shops.Create(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, shop)
}

// DeleteShop обрабатывает DELETE /shops/{id}
// Отсутствующий магазин — 404: магазин является справочной записью,
// и молчаливый промах скрывал бы опечатку в id
func (h *Handler) DeleteShop(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid id", map[string]interface{}{}})
		return
	}
	if err := h.shops.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeOK(w)
}

// ListProducts обрабатывает GET /products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	writeJSON(w, products)
}

// CreateProduct обрабатывает POST /products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req service.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid request body", map[string]interface{}{}})
		return
	}
	product, err := h.catalog.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, product)
}

// UpdateProduct обрабатывает PUT /products/{id}
// Непереданные поля сохраняют прежние значения
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid id", map[string]interface{}{}})
		return
	}
	var req service.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid request body", map[string]interface{}{}})
		return
	}
	product, err := h.catalog.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, product)
}

// ExportCatalog обрабатывает GET /catalog
func (h *Handler) ExportCatalog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.catalog.Export(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []model.CatalogEntry{}
	}
	writeJSON(w, entries)
}

// ListLists обрабатывает GET /lists
func (h *Handler) ListLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if lists == nil {
		lists = []model.ShoppingList{}
	}
	writeJSON(w, lists)
}

// CreateList обрабатывает POST /lists
func (h *Handler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid request body", map[string]interface{}{}})
		return
	}
	list, err := h.lists.Create(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, list)
}

// GetList обрабатывает GET /lists/{id}, список возвращается с позициями,
// товарами и магазинами
func (h *Handler) GetList(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid id", map[string]interface{}{}})
		return
	}
	list, err := h.lists.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, list)
}

// DeleteList обрабатывает DELETE /lists/{id}; удаление идемпотентно
func (h *Handler) DeleteList(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid id", map[string]interface{}{}})
		return
	}
	if err := h.lists.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeOK(w)
}

// AddListItem обрабатывает POST /lists/items
// Количество по умолчанию — 1; повтор пары (список, товар) суммирует количество
func (h *Handler) AddListItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShoppingListID int  `json:"shoppingListId"`
		ProductID      int  `json:"productId"`
		Quantity       *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid request body", map[string]interface{}{}})
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	item, err := h.lists.AddItem(r.Context(), req.ShoppingListID, req.ProductID, quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, item)
}

// SetItemBought обрабатывает PATCH /lists/items/{id}
func (h *Handler) SetItemBought(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid id", map[string]interface{}{}})
		return
	}
	var req struct {
		IsBought bool `json:"isBought"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid request body", map[string]interface{}{}})
		return
	}
	item, err := h.lists.SetItemBought(r.Context(), id, req.IsBought)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, item)
}

// RemoveListItem обрабатывает DELETE /lists/items/{id}; удаление идемпотентно
func (h *Handler) RemoveListItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid id", map[string]interface{}{}})
		return
	}
	if err := h.lists.RemoveItem(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeOK(w)
}

// GetTelegramConfig обрабатывает GET /telegram/config
// Возвращает null, если конфигурация ещё не сохранена
func (h *Handler) GetTelegramConfig(w http.ResponseWriter, r *http.Request) {
	config, err := h.notify.GetConfig(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, config)
}

// SaveTelegramConfig обрабатывает POST /telegram/config
// Токен проверяется живым запросом к провайдеру до сохранения
func (h *Handler) SaveTelegramConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BotToken string `json:"botToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid request body", map[string]interface{}{}})
		return
	}
	config, err := h.notify.SaveConfig(r.Context(), req.BotToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, config)
}

// ListTelegramUsers обрабатывает GET /telegram/users
func (h *Handler) ListTelegramUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.notify.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if users == nil {
		users = []model.TelegramUser{}
	}
	writeJSON(w, users)
}

// AddTelegramUser обрабатывает POST /telegram/users
func (h *Handler) AddTelegramUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		ChatID string `json:"chatId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid request body", map[string]interface{}{}})
		return
	}
	user, err := h.notify.AddUser(r.Context(), req.Name, req.ChatID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, user)
}

// RemoveTelegramUser обрабатывает DELETE /telegram/users/{id}; удаление идемпотентно
func (h *Handler) RemoveTelegramUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid id", map[string]interface{}{}})
		return
	}
	if err := h.notify.RemoveUser(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeOK(w)
}

// SendList обрабатывает POST /telegram/send/{id}
// Ответ возвращается сразу после планирования рассылки
func (h *Handler) SendList(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid id", map[string]interface{}{}})
		return
	}
	if err := h.notify.SendList(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeOK(w)
}

// Healthz возвращает статус работы сервиса
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Readyz возвращает готовность сервиса
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}
