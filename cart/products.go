package cart

import "github.com/shopspring/decimal"

// Product is an entry of the fixed store catalog. Stock is a ceiling checked
// when items are added; the ledger never decrements it.
type Product struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     int             `json:"stock"`
}

// DefaultProducts is the seed catalog of the store.
func DefaultProducts() []Product {
	return []Product{
		{ID: 1, Name: "Notebook", UnitPrice: decimal.NewFromInt(2500), Stock: 10},
		{ID: 2, Name: "Mouse", UnitPrice: decimal.NewFromInt(50), Stock: 50},
		{ID: 3, Name: "Teclado", UnitPrice: decimal.NewFromInt(150), Stock: 30},
		{ID: 4, Name: "Monitor", UnitPrice: decimal.NewFromInt(800), Stock: 15},
		{ID: 5, Name: "Webcam", UnitPrice: decimal.NewFromInt(200), Stock: 25},
		{ID: 6, Name: "Headset", UnitPrice: decimal.NewFromInt(120), Stock: 40},
	}
}
