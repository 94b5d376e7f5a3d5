package model

import "time"

// Currency — валюта всех цен в каталоге
const Currency = "EUR"

// Shop представляет магазин (таблица shops), имя уникально
type Shop struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Product представляет товар (таблица products)
// Необязательные числовые атрибуты хранятся как указатели: nil — значение не задано
type Product struct {
	ID        int            `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Price     float64        `db:"price" json:"price"`
	Weight    *float64       `db:"weight" json:"weight,omitempty"`
	Calories  *float64       `db:"calories" json:"calories,omitempty"`
	Quantity  *int           `db:"quantity" json:"quantity,omitempty"`
	ShopID    *int           `db:"shop_id" json:"shopId,omitempty"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
	Shop      *Shop          `json:"shop,omitempty"`
	History   []PriceHistory `json:"history,omitempty"`
}

// PriceHistory представляет запись журнала цен товара (таблица price_history)
// Записи только добавляются; удаляются каскадно вместе с товаром
type PriceHistory struct {
	ID        int       `db:"id" json:"id"`
	ProductID int       `db:"product_id" json:"productId"`
	Price     float64   `db:"price" json:"price"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ShoppingList представляет список покупок (таблица shopping_lists)
type ShoppingList struct {
	ID        int                `db:"id" json:"id"`
	Name      string             `db:"name" json:"name"`
	CreatedAt time.Time          `db:"created_at" json:"createdAt"`
	Items     []ShoppingListItem `json:"items,omitempty"`
}

// ShoppingListItem представляет позицию списка покупок (таблица shopping_list_items)
// Пара (shopping_list_id, product_id) уникальна: повторное добавление увеличивает quantity
type ShoppingListItem struct {
	ID             int      `db:"id" json:"id"`
	ShoppingListID int      `db:"shopping_list_id" json:"shoppingListId"`
	ProductID      int      `db:"product_id" json:"productId"`
	Quantity       int      `db:"quantity" json:"quantity"`
	IsBought       bool     `db:"is_bought" json:"isBought"`
	Product        *Product `json:"product,omitempty"`
}

// TelegramUser представляет получателя уведомлений (таблица telegram_users)
type TelegramUser struct {
	ID     int    `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	ChatID string `db:"chat_id" json:"chatId"`
}

// TelegramConfig хранит токен бота (таблица telegram_config, не более одной строки)
type TelegramConfig struct {
	ID       int    `db:"id" json:"id"`
	BotToken string `db:"bot_token" json:"botToken"`
}

// CatalogEntry — строка публичной выгрузки каталога, не хранится в БД
// Shop равен nil, если товар не привязан к магазину
type CatalogEntry struct {
	Product   string    `json:"product"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	Shop      *string   `json:"shop"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PriceEvent — событие изменения цены: публикуется в NATS при каждой записи
// в журнал цен и складывается консьюмером в ClickHouse
type PriceEvent struct {
	ProductID   int       `json:"productId"`
	ProductName string    `json:"productName"`
	Price       float64   `json:"price"`
	RecordedAt  time.Time `json:"recordedAt"`
}
