package notify

import (
	"strings"
	"testing"

	"ShoppingTracker/internal/model"
)

// TestRenderList_Full проверяет заголовок, строки позиций, отметки о покупке,
// магазин и итоговую сумму
func TestRenderList_Full(t *testing.T) {
	list := &model.ShoppingList{
		Name: "Выходные",
		Items: []model.ShoppingListItem{
			{
				Quantity: 2,
				Product:  &model.Product{Name: "Молоко", Price: 1.35, Shop: &model.Shop{Name: "Lidl"}},
			},
			{
				Quantity: 1,
				IsBought: true,
				Product:  &model.Product{Name: "Хлеб", Price: 0.99},
			},
		},
	}
	text := RenderList(list)

	if !strings.Contains(text, "🛒 <b>Выходные</b>") {
		t.Errorf("missing header: %q", text)
	}
	if !strings.Contains(text, "▫️ <b>Молоко</b> (Lidl)") {
		t.Errorf("missing unbought item line: %q", text)
	}
	if !strings.Contains(text, "2 шт x 1.35 = 2.70 €") {
		t.Errorf("missing quantity line: %q", text)
	}
	if !strings.Contains(text, "✅ <b>Хлеб</b>") {
		t.Errorf("missing bought item line: %q", text)
	}
	// 2*1.35 + 0.99
	if !strings.Contains(text, "💰 <b>Итого: 3.69 €</b>") {
		t.Errorf("missing total: %q", text)
	}
}

// TestRenderList_Escaping: имена с HTML-символами экранируются
func TestRenderList_Escaping(t *testing.T) {
	list := &model.ShoppingList{
		Name: "Список <важный>",
		Items: []model.ShoppingListItem{
			{Quantity: 1, Product: &model.Product{Name: "Чай & кофе", Price: 3.00}},
		},
	}
	text := RenderList(list)

	if strings.Contains(text, "<важный>") {
		t.Errorf("list name not escaped: %q", text)
	}
	if !strings.Contains(text, "&lt;важный&gt;") {
		t.Errorf("expected escaped list name: %q", text)
	}
	if !strings.Contains(text, "Чай &amp; кофе") {
		t.Errorf("expected escaped product name: %q", text)
	}
}

// TestRenderList_SkipsMissingProduct: позиция без товара пропускается и в сумму не входит
func TestRenderList_SkipsMissingProduct(t *testing.T) {
	list := &model.ShoppingList{
		Name: "Будни",
		Items: []model.ShoppingListItem{
			{Quantity: 3},
			{Quantity: 1, Product: &model.Product{Name: "Сыр", Price: 4.50}},
		},
	}
	text := RenderList(list)

	if !strings.Contains(text, "Сыр") {
		t.Errorf("expected product line: %q", text)
	}
	if !strings.Contains(text, "Итого: 4.50 €") {
		t.Errorf("total must ignore items without product: %q", text)
	}
}

// TestRenderList_Empty: пустой список даёт заголовок и нулевой итог
func TestRenderList_Empty(t *testing.T) {
	text := RenderList(&model.ShoppingList{Name: "Пустой"})
	if !strings.Contains(text, "🛒 <b>Пустой</b>") {
		t.Errorf("missing header: %q", text)
	}
	if !strings.Contains(text, "Итого: 0.00 €") {
		t.Errorf("expected zero total: %q", text)
	}
}
