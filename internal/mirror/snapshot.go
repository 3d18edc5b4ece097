package mirror

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/example/aurora-storefront/internal/domain"
)

const Currency = "USD"

// Line — строка корзины в ответе API витрины.
type Line struct {
	domain.CartLine
	Image string `json:"image,omitempty"`
	Name  string `json:"name,omitempty"`
}

func (l Line) DisplayName() string {
	if l.ProductName != "" {
		return l.ProductName
	}
	return l.Name
}

type SnapshotItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// CartSnapshot — нормализованная корзина для аналитики и локального хранения.
type CartSnapshot struct {
	Items         []SnapshotItem  `json:"items"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	Currency      string          `json:"currency"`
}

// EmptySnapshot — во что восстанавливается отсутствующая или битая сохранённая корзина.
func EmptySnapshot() CartSnapshot {
	return CartSnapshot{Items: []SnapshotItem{}, TotalValue: decimal.Zero, Currency: Currency}
}

func BuildSnapshot(lines []Line) CartSnapshot {
	snap := EmptySnapshot()
	for _, l := range lines {
		snap.Items = append(snap.Items, SnapshotItem{
			ProductID: l.ProductID,
			Name:      l.DisplayName(),
			Price:     l.Price,
			Quantity:  l.Quantity,
		})
		snap.TotalQuantity += l.Quantity
		snap.TotalValue = snap.TotalValue.Add(l.Subtotal())
	}
	return snap
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err == nil && i < 0 {
		return 0, strconv.ErrRange
	}
	return i, err
}
