// Package cart implements the shopping-cart ledger over a fixed product
// catalog. The cart is persisted as one blob after every applied change.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"catalog-cart/apperr"
	"catalog-cart/logger"
	"catalog-cart/store"
)

// Line is one product in the cart. UnitPrice is copied from the catalog when
// the line is created.
type Line struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Ledger owns the cart lines. At most one line exists per product.
type Ledger struct {
	mu       sync.Mutex
	kv       store.KV
	log      *logger.Logger
	products []Product
	byID     map[int]Product
	lines    []Line
}

// NewLedger loads the persisted cart from kv.
func NewLedger(ctx context.Context, kv store.KV, products []Product, log *logger.Logger) (*Ledger, error) {
	if kv == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if log == nil {
		log = logger.Nop()
	}
	lines, err := store.Load[Line](ctx, kv, store.KeyCart)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	l := &Ledger{
		kv:       kv,
		log:      log.Named("cart"),
		products: append([]Product(nil), products...),
		byID:     make(map[int]Product, len(products)),
		lines:    lines,
	}
	for _, p := range products {
		l.byID[p.ID] = p
	}
	return l, nil
}

// Products returns the catalog in its configured order.
func (l *Ledger) Products() []Product {
	return append([]Product(nil), l.products...)
}

func (l *Ledger) Product(id int) (Product, bool) {
	p, ok := l.byID[id]
	return p, ok
}

// Lines returns a copy of the cart.
func (l *Ledger) Lines() []Line {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Line{}, l.lines...)
}

func (l *Ledger) find(productID int) int {
	for i, line := range l.lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem adds quantity units of a product, creating its line or growing it.
// The cart is left unchanged on any failure.
func (l *Ledger) AddItem(ctx context.Context, productID, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx = l.log.WithFields(ctx, map[string]any{"product_id": productID, "quantity": quantity})

	if quantity <= 0 {
		return l.reject(ctx, apperr.New(apperr.ReasonInvalidQuantity, "quantity must be greater than zero"))
	}
	product, ok := l.byID[productID]
	if !ok {
		return l.reject(ctx, apperr.Newf(apperr.ReasonProductNotFound, "product %d not found", productID))
	}
	if quantity > product.Stock {
		return l.reject(ctx, apperr.Newf(apperr.ReasonInsufficientStock,
			"insufficient stock, available: %d", product.Stock))
	}

	next := append([]Line{}, l.lines...)
	if i := l.find(productID); i >= 0 {
		total := next[i].Quantity + quantity
		if total > product.Stock {
			return l.reject(ctx, apperr.Newf(apperr.ReasonInsufficientStock,
				"insufficient stock, you already have %d in the cart, available: %d", next[i].Quantity, product.Stock))
		}
		next[i].Quantity = total
	} else {
		next = append(next, Line{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.UnitPrice,
			Quantity:  quantity,
		})
	}

	if err := l.commit(ctx, next); err != nil {
		return err
	}
	l.log.Info(ctx, "item added")
	return nil
}

// RemoveItem takes quantity units out of a line; the line is dropped when
// quantity reaches or exceeds what is in the cart.
func (l *Ledger) RemoveItem(ctx context.Context, productID, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx = l.log.WithFields(ctx, map[string]any{"product_id": productID, "quantity": quantity})

	if quantity <= 0 {
		return l.reject(ctx, apperr.New(apperr.ReasonInvalidQuantity, "quantity must be greater than zero"))
	}
	i := l.find(productID)
	if i < 0 {
		return l.reject(ctx, apperr.Newf(apperr.ReasonItemNotInCart, "product %d is not in the cart", productID))
	}

	var next []Line
	if quantity >= l.lines[i].Quantity {
		next = make([]Line, 0, len(l.lines)-1)
		next = append(next, l.lines[:i]...)
		next = append(next, l.lines[i+1:]...)
	} else {
		next = append([]Line{}, l.lines...)
		next[i].Quantity -= quantity
	}

	if err := l.commit(ctx, next); err != nil {
		return err
	}
	l.log.Info(ctx, "item removed")
	return nil
}

// Total is the sum of unit price times quantity over all lines.
func (l *Ledger) Total() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Total(l.lines)
}

// Total folds lines into their price sum.
func Total(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.Subtotal())
	}
	return sum
}

// Clear empties the cart and removes its persisted blob.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := store.Clear(ctx, l.kv, store.KeyCart); err != nil {
		return apperr.Wrap(apperr.ReasonStorage, err, "clear cart")
	}
	l.lines = []Line{}
	l.log.Info(ctx, "cart cleared")
	return nil
}

// commit persists next and only then swaps it in.
func (l *Ledger) commit(ctx context.Context, next []Line) error {
	if err := store.Save(ctx, l.kv, store.KeyCart, next); err != nil {
		l.log.Error(ctx, "persist cart", err)
		return apperr.Wrap(apperr.ReasonStorage, err, "persist cart")
	}
	l.lines = next
	return nil
}

func (l *Ledger) reject(ctx context.Context, err *apperr.Error) error {
	l.log.Warn(ctx, "cart change rejected", err)
	return err
}
