package domain

import "github.com/shopspring/decimal"

func init() {
	// клиенты читают цены и суммы как JSON-числа
	decimal.MarshalJSONWithoutQuotes = true
}

// Product — неизменяемая позиция каталога.
type Product struct {
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductCategory string          `json:"productCategory"`
	Brand           string          `json:"brand"`
	Price           decimal.Decimal `json:"price"`
	Description     string          `json:"description"`
	Image           string          `json:"image"`
	Colors          []string        `json:"colors"`
	Sizes           []string        `json:"sizes"`
}
