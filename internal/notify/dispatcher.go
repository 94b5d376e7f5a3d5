package notify

import (
	"context"
	"log"

	"ShoppingTracker/internal/model"
)

// Sender определяет интерфейс исходящей отправки сообщения одному получателю
// Реализация — клиент Telegram Bot API
type Sender interface {
	SendMessage(ctx context.Context, token, chatID, text string) error
}

// Dispatcher рассылает готовый текст получателям в фоне.
// Доставка best-effort: без повторов, без подтверждений, без гарантий порядка.
type Dispatcher struct {
	sender Sender
}

// NewDispatcher создает диспетчер поверх заданного Sender
func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

// Dispatch запускает по горутине на получателя и сразу возвращает управление.
// Горутины не используют контекст исходного запроса: токен, адреса и текст
// уже разрешены к моменту вызова. Ошибки отправки только логируются.
func (d *Dispatcher) Dispatch(token, text string, users []model.TelegramUser) {
	for _, u := range users {
		go func(u model.TelegramUser) {
			if err := d.sender.SendMessage(context.Background(), token, u.ChatID, text); err != nil {
				log.Printf("Ошибка фоновой отправки Telegram получателю %q: %v", u.Name, err)
			}
		}(u)
	}
}
