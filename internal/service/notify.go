package service

import (
	"context"
	"errors"
	"fmt"

	"ShoppingTracker/internal/model"
	"ShoppingTracker/internal/notify"
	"ShoppingTracker/internal/repository"
)

// TelegramRepo определяет интерфейс репозитория настроек и получателей Telegram
type TelegramRepo interface {
	GetConfig(ctx context.Context) (*model.TelegramConfig, error)
	SaveConfig(ctx context.Context, botToken string) (*model.TelegramConfig, error)
	CreateUser(ctx context.Context, name, chatID string) (*model.TelegramUser, error)
	ListUsers(ctx context.Context) ([]model.TelegramUser, error)
	DeleteUser(ctx context.Context, id int) error
}

// TokenVerifier проверяет токен бота живым запросом к провайдеру
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) error
}

// ListGetter возвращает список покупок с собранными позициями
type ListGetter interface {
	Get(ctx context.Context, id int) (*model.ShoppingList, error)
}

// Dispatcher рассылает готовый текст получателям в фоне
type Dispatcher interface {
	Dispatch(token, text string, users []model.TelegramUser)
}

// NotifyService реализует настройку канала уведомлений и рассылку списков
type NotifyService struct {
	repo       TelegramRepo
	lists      ListGetter
	verifier   TokenVerifier
	dispatcher Dispatcher
}

// NewNotifyService создаёт новый сервис уведомлений
func NewNotifyService(r TelegramRepo, l ListGetter, v TokenVerifier, d Dispatcher) *NotifyService {
	return &NotifyService{repo: r, lists: l, verifier: v, dispatcher: d}
}

// SendList формирует сообщение по списку покупок и планирует рассылку:
// 1. Без токена — ErrNoConfig, без получателей — ErrNoUsers (до сетевых вызовов)
// 2. Список собирается целиком: позиции, товары, магазины
// 3. Текст и адресаты разрешены здесь же; доставка уходит в фон и не влияет на ответ
func (s *NotifyService) SendList(ctx context.Context, listID int) error {
	config, err := s.repo.GetConfig(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoConfig
		}
		return err
	}
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return ErrNoUsers
	}
	list, err := s.lists.Get(ctx, listID)
	if err != nil {
		return err
	}
	text := notify.RenderList(list)
	s.dispatcher.Dispatch(config.BotToken, text, users)
	return nil
}

// SaveConfig проверяет токен запросом getMe и сохраняет его единственной строкой
// Любой отказ проверки (сеть, таймаут, отказ провайдера) делает токен негодным
func (s *NotifyService) SaveConfig(ctx context.Context, token string) (*model.TelegramConfig, error) {
	if token == "" {
		return nil, &ValidationError{Field: "botToken", Message: "must not be empty"}
	}
	if err := s.verifier.VerifyToken(ctx, token); err != nil {
		return nil, &ValidationError{Field: "botToken", Message: fmt.Sprintf("verification failed: %v", err)}
	}
	return s.repo.SaveConfig(ctx, token)
}

// GetConfig возвращает сохранённую конфигурацию или nil, если её ещё нет
func (s *NotifyService) GetConfig(ctx context.Context) (*model.TelegramConfig, error) {
	config, err := s.repo.GetConfig(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return config, nil
}

// AddUser добавляет получателя уведомлений
func (s *NotifyService) AddUser(ctx context.Context, name, chatID string) (*model.TelegramUser, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if chatID == "" {
		return nil, &ValidationError{Field: "chatId", Message: "must not be empty"}
	}
	return s.repo.CreateUser(ctx, name, chatID)
}

// ListUsers возвращает всех получателей
func (s *NotifyService) ListUsers(ctx context.Context) ([]model.TelegramUser, error) {
	return s.repo.ListUsers(ctx)
}

// RemoveUser удаляет получателя; отсутствующий получатель — не ошибка
func (s *NotifyService) RemoveUser(ctx context.Context, id int) error {
	return s.repo.DeleteUser(ctx, id)
}
