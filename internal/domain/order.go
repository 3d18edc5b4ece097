package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCountry — страна, если покупатель её не указал.
const DefaultCountry = "USA"

// OrderItem — замороженная копия строки корзины.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
}

// Buyer — контактные поля и адрес в том виде, как их прислали.
type Buyer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
}

// Payment — платёжные данные; не списываются, не хранятся и не сериализуются.
type Payment struct {
	CardNumber string
	Expiry     string
	CVV        string
}

// Order — доменная сущность заказа, неизменяемый снимок оформления.
type Order struct {
	ID      string          `json:"id"`
	Revenue decimal.Decimal `json:"revenue"`
	Items   []OrderItem     `json:"items"`
	Buyer
	Payment   Payment   `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	SessionID string    `json:"sessionId"`
}

// NewOrder — заморозить строки в заказ; Revenue — их сумма.
func NewOrder(id, sessionID string, lines []CartLine, buyer Buyer, pay Payment, now time.Time) Order {
	items := make([]OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, OrderItem{
			ProductID: l.ProductID,
			Name:      l.ProductName,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Color:     l.Color,
			Size:      l.Size,
		})
	}
	if buyer.Country == "" {
		buyer.Country = DefaultCountry
	}
	return Order{
		ID:        id,
		Revenue:   SumLines(lines),
		Items:     items,
		Buyer:     buyer,
		Payment:   pay,
		CreatedAt: now.UTC(),
		SessionID: sessionID,
	}
}

// Clone — копия, не разделяющая срезы с o.
func (o Order) Clone() Order {
	o.Items = append([]OrderItem(nil), o.Items...)
	return o
}
