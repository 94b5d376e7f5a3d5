package service

import (
	"errors"
	"fmt"
)

// ErrNoConfig возвращается при попытке рассылки без сохранённого токена бота
var ErrNoConfig = errors.New("telegram bot is not configured")

// ErrNoUsers возвращается при попытке рассылки с пустым набором получателей
var ErrNoUsers = errors.New("no telegram users configured")

// ValidationError описывает отвергнутое поле входных данных
// Проверка выполняется до любого обращения к хранилищу
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// negativeField строит ошибку для отрицательного числового поля
func negativeField(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "must not be negative"}
}
