// Package cart holds one buyer session's tentative purchases. Adding an
// item reserves stock on the session's product snapshot immediately;
// checkout reconciles against the authoritative catalog document and the
// reservation state plays no part in what gets persisted.
package cart

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/Skotchmaster/shop_cli/internal/catalog"
	"github.com/Skotchmaster/shop_cli/internal/logging"
	"github.com/Skotchmaster/shop_cli/internal/models"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrCheckoutDeclined  = errors.New("checkout declined")
)

// Line is one reserved purchase. Product points into the session's catalog
// snapshot, so the reservation is visible wherever that snapshot is shown.
type Line struct {
	Product  *models.Product
	Quantity int
}

type SummaryLine struct {
	Name     string
	Price    float64
	Quantity int
	Subtotal float64
}

// Summary is the read-only view of the cart, with amounts rounded to two
// decimal places for display.
type Summary struct {
	Lines []SummaryLine
	Total float64
}

// Cart lives for a single buyer session and is never persisted. The ID only
// correlates log events.
type Cart struct {
	id    uuid.UUID
	lines []Line
}

func New() *Cart {
	return &Cart{id: uuid.New()}
}

func (c *Cart) ID() uuid.UUID { return c.id }

func (c *Cart) Empty() bool { return len(c.lines) == 0 }

func (c *Cart) Lines() []Line { return c.lines }

// AddItem reserves quantity units of p: the snapshot's stock is decremented
// right away and one line is appended. Asking for more than the snapshot
// has in stock fails without touching anything.
func (c *Cart) AddItem(ctx context.Context, p *models.Product, quantity int) error {
	l := logging.FromContext(ctx).With("svc", "cart.add_item", "cart_id", c.id, "name", p.Name)

	if quantity < 1 {
		l.Warn("add_item_failed", "reason", "non-positive quantity")
		return fmt.Errorf("%d: %w", quantity, ErrInvalidQuantity)
	}
	if quantity > p.Stock {
		l.Warn("add_item_failed", "reason", "insufficient stock", "stock", p.Stock, "quantity", quantity)
		return fmt.Errorf("%s has %d in stock, want %d: %w", p.Name, p.Stock, quantity, ErrInsufficientStock)
	}

	p.Stock -= quantity
	c.lines = append(c.lines, Line{Product: p, Quantity: quantity})

	l.Info("add_item_success", "quantity", quantity)
	return nil
}

// Summary computes per-line subtotals and the grand total.
func (c *Cart) Summary() Summary {
	var sum Summary
	total := 0.0
	for _, line := range c.lines {
		subtotal := line.Product.Price * float64(line.Quantity)
		total += subtotal
		sum.Lines = append(sum.Lines, SummaryLine{
			Name:     line.Product.Name,
			Price:    line.Product.Price,
			Quantity: line.Quantity,
			Subtotal: round2(subtotal),
		})
	}
	sum.Total = round2(total)
	return sum
}

// Release abandons the cart: every reservation is handed back to its
// snapshot and the cleared lines are returned for reporting.
func (c *Cart) Release(ctx context.Context) []Line {
	l := logging.FromContext(ctx).With("svc", "cart.release", "cart_id", c.id)

	released := c.lines
	for _, line := range released {
		line.Product.Stock += line.Quantity
	}
	c.lines = nil

	if len(released) > 0 {
		l.Info("release_success", "lines", len(released))
	}
	return released
}

// Checkout asks confirm with the rounded total and, when accepted, applies
// every line's decrement against the freshly loaded authoritative catalog
// in one all-or-nothing transaction. The cart is cleared only on success;
// a declined confirmation or a failed reconcile keeps it intact.
func (c *Cart) Checkout(ctx context.Context, cat *catalog.Service, confirm func(total float64) bool) error {
	l := logging.FromContext(ctx).With("svc", "cart.checkout", "cart_id", c.id)

	if c.Empty() {
		return ErrEmptyCart
	}

	total := c.Summary().Total
	if !confirm(total) {
		l.Info("checkout_declined", "total", total)
		return ErrCheckoutDeclined
	}

	decs := make([]catalog.StockDecrement, 0, len(c.lines))
	for _, line := range c.lines {
		decs = append(decs, catalog.StockDecrement{
			Key:      catalog.Key{Name: line.Product.Name, Category: line.Product.Category},
			Quantity: line.Quantity,
		})
	}

	if err := cat.DecrementStock(ctx, decs); err != nil {
		l.Warn("checkout_failed", "error", err)
		return err
	}

	c.lines = nil
	l.Info("checkout_success", "total", total)
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
