package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound возвращается при отсутствии записи
var ErrNotFound = errors.New("record not found")

// ErrConflict возвращается при нарушении уникальности (например, повтор имени магазина)
var ErrConflict = errors.New("record already exists")

// Коды ошибок Postgres, которые мы различаем
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// isUniqueViolation проверяет, что ошибка — нарушение уникального индекса
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation
}

// isForeignKeyViolation проверяет, что ошибка — нарушение внешнего ключа
// (вставка ссылки на несуществующую запись)
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgForeignKeyViolation
}
