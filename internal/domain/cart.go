package domain

import "github.com/shopspring/decimal"

// LineKey — ключ строки корзины; строки совпадают, только если равны все три поля.
type LineKey struct {
	ProductID string
	Color     string
	Size      string
}

// CartLine — строка корзины с полями товара на момент добавления.
type CartLine struct {
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductCategory string          `json:"productCategory"`
	Brand           string          `json:"brand"`
	Price           decimal.Decimal `json:"price"`
	Color           string          `json:"color"`
	Size            string          `json:"size"`
	Quantity        int             `json:"quantity"`
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Color: l.Color, Size: l.Size}
}

// Subtotal is price × quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// NewCartLine — строка из p на qty единиц.
func NewCartLine(p Product, color, size string, qty int) CartLine {
	return CartLine{
		ProductID:       p.ProductID,
		ProductName:     p.ProductName,
		ProductCategory: p.ProductCategory,
		Brand:           p.Brand,
		Price:           p.Price,
		Color:           color,
		Size:            size,
		Quantity:        qty,
	}
}

// Cart — упорядоченные строки с уникальными ключами, количество каждой >= 1.
// Не потокобезопасна, вызывающий держит блокировку сессии.
type Cart struct {
	lines []CartLine
}

func (c *Cart) index(k LineKey) int {
	for i := range c.lines {
		if c.lines[i].Key() == k {
			return i
		}
	}
	return -1
}

// MaxLineQuantity — предел количества в одной строке корзины.
const MaxLineQuantity = 9999

// Add — увеличить строку p/color/size на qty или добавить новую.
// Количество вне 1..MaxLineQuantity, в том числе после сложения, даёт ErrInvalidQuantity.
func (c *Cart) Add(p Product, color, size string, qty int) error {
	if qty < 1 || qty > MaxLineQuantity {
		return ErrInvalidQuantity
	}
	k := LineKey{ProductID: p.ProductID, Color: color, Size: size}
	if i := c.index(k); i >= 0 {
		if c.lines[i].Quantity > MaxLineQuantity-qty {
			return ErrInvalidQuantity
		}
		c.lines[i].Quantity += qty
		return nil
	}
	c.lines = append(c.lines, NewCartLine(p, color, size, qty))
	return nil
}

// Adjust — применить delta к строке k; строка с результатом <= 0 удаляется.
// found=false, если строки нет. Рост выше MaxLineQuantity даёт ErrInvalidQuantity, корзина не меняется.
func (c *Cart) Adjust(k LineKey, delta int) (found bool, err error) {
	i := c.index(k)
	if i < 0 {
		return false, nil
	}
	q := c.lines[i].Quantity
	if delta > MaxLineQuantity-q {
		return true, ErrInvalidQuantity
	}
	// q <= MaxLineQuantity, поэтому q+delta не переполняется и при отрицательном delta
	c.lines[i].Quantity = q + delta
	if c.lines[i].Quantity <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
	return true, nil
}

// Remove — удалить строку k, если она есть.
func (c *Cart) Remove(k LineKey) {
	if i := c.index(k); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Lines — копия строк в порядке добавления.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) Clear() { c.lines = nil }

// Total — пересчитывается по строкам при каждом вызове.
func (c *Cart) Total() decimal.Decimal {
	return SumLines(c.lines)
}

// Count — общее число единиц.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// SumLines returns Σ price × quantity.
func SumLines(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
