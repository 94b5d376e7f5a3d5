// Пакет notify отвечает за формирование текста уведомления по списку покупок
// и его фоновую рассылку получателям
package notify

import (
	"fmt"
	"html"
	"strings"

	"ShoppingTracker/internal/model"
)

// RenderList собирает HTML-сообщение по списку покупок:
// заголовок, строка на позицию (отметка, товар, магазин, количество и сумма)
// и итоговая сумма. Имена товаров и магазинов экранируются,
// так как сообщение уходит с parse_mode=HTML.
func RenderList(list *model.ShoppingList) string {
	lines := []string{fmt.Sprintf("🛒 <b>%s</b>\n", html.EscapeString(list.Name))}
	var total float64
	for _, item := range list.Items {
		p := item.Product
		if p == nil {
			continue
		}
		lineTotal := p.Price * float64(item.Quantity)
		total += lineTotal
		shop := ""
		if p.Shop != nil {
			shop = fmt.Sprintf(" (%s)", html.EscapeString(p.Shop.Name))
		}
		icon := "▫️"
		if item.IsBought {
			icon = "✅"
		}
		lines = append(lines, fmt.Sprintf("%s <b>%s</b>%s", icon, html.EscapeString(p.Name), shop))
		lines = append(lines, fmt.Sprintf("   %d шт x %.2f = %.2f €", item.Quantity, p.Price, lineTotal))
	}
	lines = append(lines, fmt.Sprintf("\n💰 <b>Итого: %.2f €</b>", total))
	return strings.Join(lines, "\n")
}
