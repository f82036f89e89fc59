// Package storage описывает хранилища магазина и их реализацию поверх PostgreSQL.
// Реализация для MongoDB находится в пакете mongostore и удовлетворяет тем же интерфейсам.
package storage

import (
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)

// Storage объединяет все хранилища, которые нужны приложению
type Storage interface {
	UserStorage
	ProductStorage
	OrderStorage
	PaymentStorage
	Close() error
}

// NewID генерирует непрозрачный идентификатор записи
func NewID() string {
	return uuid.NewString()
}

// нарушение уникального ограничения
const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
