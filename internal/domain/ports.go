package domain

import (
	"context"
	"errors"
)

// CatalogSource — порт загрузки сырых записей товаров при старте.
type CatalogSource interface {
	LoadAll(ctx context.Context, fn func(id string, raw []byte) error) error
}

// Catalog — порт чтения загруженных товаров.
type Catalog interface {
	Get(id string) (Product, bool)
	All() []Product
}

// CatalogCache — Catalog, заполняемый при старте.
type CatalogCache interface {
	Catalog
	Set(p Product)
}

// SessionStore — порт хранения сессий по токену.
type SessionStore interface {
	// Resolve возвращает сессию по token, создавая новую для пустого или неизвестного.
	Resolve(token string) (sess *Session, created bool)
	// Lookup ничего не создаёт.
	Lookup(token string) (*Session, bool)
}

// OrderArchive — порт архива оформленных заказов.
type OrderArchive interface {
	Upsert(ctx context.Context, id string, raw []byte) error
}

// OrderPublisher — порт публикации оформленных заказов.
type OrderPublisher interface {
	Publish(ctx context.Context, raw []byte) error
}

// MessageSubscriber — порт подписчика на сообщения заказов.
type MessageSubscriber interface {
	// Subscribe регистрирует обработчик; ack/повторные доставки реализует адаптер.
	Subscribe(ctx context.Context, handler func(ctx context.Context, raw []byte) error) error
}

// OrderIDGenerator — порт генерации уникальных id заказов.
type OrderIDGenerator interface {
	NextOrderID() string
}

// Общие доменные ошибки
var (
	ErrProductNotFound = notFoundError("Product not found")
	ErrOrderNotFound   = notFoundError("Order not found")

	ErrEmptyCart       = softError("Cart is empty")
	ErrLineNotFound    = softError("Item not found in cart")
	ErrInvalidQuantity = softError("Invalid quantity change")

	ErrValidation = validationError("invalid data")
)

// notFoundError — отдаётся как HTTP 404.
type notFoundError string

func (e notFoundError) Error() string { return string(e) }

// softError — ожидаемая ситуация, отдаётся как success=false.
type softError string

func (e softError) Error() string { return string(e) }

type validationError string

func (e validationError) Error() string { return string(e) }

func IsNotFound(err error) bool {
	var nf notFoundError
	return errors.As(err, &nf)
}

func IsSoft(err error) bool {
	var se softError
	return errors.As(err, &se)
}
