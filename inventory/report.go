// Package inventory values a list of stocked items and derives discount views.
package inventory

import (
	"github.com/shopspring/decimal"
)

// DefaultDiscount is the percentage applied by Summarize.
var DefaultDiscount = decimal.NewFromInt(10)

// DefaultThreshold is the price above which Summarize counts an item as premium.
var DefaultThreshold = decimal.NewFromInt(50)

type Item struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

func (i Item) Value() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func DefaultItems() []Item {
	return []Item{
		{Name: "Camisa", Price: decimal.NewFromInt(50), Quantity: 10},
		{Name: "Calça", Price: decimal.NewFromInt(80), Quantity: 5},
		{Name: "Tênis", Price: decimal.NewFromInt(120), Quantity: 3},
		{Name: "Boné", Price: decimal.NewFromInt(30), Quantity: 15},
		{Name: "Jaqueta", Price: decimal.NewFromInt(150), Quantity: 2},
	}
}

// StockValue is the sum of price times quantity.
func StockValue(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Value())
	}
	return total
}

// ApplyDiscount takes percent off price, rounded to cents.
func ApplyDiscount(price, percent decimal.Decimal) decimal.Decimal {
	off := price.Mul(percent).Div(decimal.NewFromInt(100))
	return price.Sub(off).Round(2)
}

type DiscountedItem struct {
	Item
	Discounted decimal.Decimal
	Savings    decimal.Decimal
}

func Discounted(items []Item, percent decimal.Decimal) []DiscountedItem {
	out := make([]DiscountedItem, 0, len(items))
	for _, it := range items {
		d := ApplyDiscount(it.Price, percent)
		out = append(out, DiscountedItem{Item: it, Discounted: d, Savings: it.Price.Sub(d)})
	}
	return out
}

// PricedAbove keeps items strictly more expensive than threshold, in order.
func PricedAbove(items []Item, threshold decimal.Decimal) []Item {
	var out []Item
	for _, it := range items {
		if it.Price.GreaterThan(threshold) {
			out = append(out, it)
		}
	}
	return out
}

type Report struct {
	Items              int
	Units              int
	StockValue         decimal.Decimal
	DiscountPercent    decimal.Decimal
	DiscountedValue    decimal.Decimal
	Threshold          decimal.Decimal
	Premium            []Item
	DiscountedListings []DiscountedItem
}

// Summarize builds the report with DefaultDiscount and DefaultThreshold.
func Summarize(items []Item) Report {
	r := Report{
		Items:           len(items),
		StockValue:      StockValue(items),
		DiscountPercent: DefaultDiscount,
		Threshold:       DefaultThreshold,
		Premium:         PricedAbove(items, DefaultThreshold),
	}
	for _, it := range items {
		r.Units += it.Quantity
	}
	r.DiscountedValue = ApplyDiscount(r.StockValue, DefaultDiscount)
	r.DiscountedListings = Discounted(items, DefaultDiscount)
	return r
}
