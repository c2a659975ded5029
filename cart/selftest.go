package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"catalog-cart/apperr"
	"catalog-cart/logger"
	"catalog-cart/store"
)

// Check is the outcome of one self-test step.
type Check struct {
	Name   string
	Passed bool
	Detail string
}

// SelfTest exercises the ledger rules against a throwaway in-memory cart.
func SelfTest(ctx context.Context) ([]Check, error) {
	products := []Product{
		{ID: 1, Name: "Notebook", UnitPrice: decimal.NewFromInt(2500), Stock: 10},
		{ID: 2, Name: "Mouse", UnitPrice: decimal.NewFromInt(50), Stock: 50},
		{ID: 3, Name: "Teclado", UnitPrice: decimal.NewFromInt(150), Stock: 30},
	}
	l, err := NewLedger(ctx, store.NewMemory(), products, logger.Nop())
	if err != nil {
		return nil, err
	}

	var checks []Check
	record := func(name string, ok bool, format string, args ...any) {
		checks = append(checks, Check{Name: name, Passed: ok, Detail: fmt.Sprintf(format, args...)})
	}
	qty := func(id int) int {
		for _, line := range l.Lines() {
			if line.ProductID == id {
				return line.Quantity
			}
		}
		return 0
	}

	err = l.AddItem(ctx, 1, 2)
	record("add within stock", err == nil && qty(1) == 2, "qty=%d err=%v", qty(1), err)

	err = l.AddItem(ctx, 1, 9)
	record("add beyond stock is rejected", errors.Is(err, apperr.ErrInsufficientStock) && qty(1) == 2,
		"qty=%d err=%v", qty(1), err)

	err = l.AddItem(ctx, 1, 0)
	record("zero quantity is rejected", errors.Is(err, apperr.ErrInvalidQuantity), "err=%v", err)

	err = l.AddItem(ctx, 99, 1)
	record("unknown product is rejected", errors.Is(err, apperr.ErrProductNotFound), "err=%v", err)

	err = l.RemoveItem(ctx, 1, 2)
	record("remove whole line", err == nil && len(l.Lines()) == 0, "lines=%d err=%v", len(l.Lines()), err)

	err = l.RemoveItem(ctx, 1, 1)
	record("remove missing line is rejected", errors.Is(err, apperr.ErrItemNotInCart), "err=%v", err)

	_ = l.AddItem(ctx, 2, 5)
	_ = l.AddItem(ctx, 3, 1)
	total := l.Total()
	record("total is price times quantity", total.Equal(decimal.NewFromInt(400)), "total=%s", total.StringFixed(2))

	err = l.Clear(ctx)
	record("clear empties the cart", err == nil && len(l.Lines()) == 0, "lines=%d err=%v", len(l.Lines()), err)

	return checks, nil
}
