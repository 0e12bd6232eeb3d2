package cart

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_cli/internal/catalog"
	"github.com/Skotchmaster/shop_cli/internal/models"
	"github.com/Skotchmaster/shop_cli/internal/store"
)

func newTestCatalog(t *testing.T, products ...models.Product) *catalog.Service {
	t.Helper()
	svc := catalog.NewService(store.New[[]models.CategoryGroup](filepath.Join(t.TempDir(), "products.json")))
	require.NoError(t, svc.SaveAll(context.Background(), products))
	return svc
}

func confirmYes(float64) bool { return true }
func confirmNo(float64) bool  { return false }

func TestCart_AddItem_ReservesStock(t *testing.T) {
	t.Parallel()

	c := New()
	p := &models.Product{Name: "Widget", Price: 9.99, Stock: 10, Category: "Tools"}

	require.NoError(t, c.AddItem(context.Background(), p, 3))

	assert.Equal(t, 7, p.Stock, "reservation decrements the snapshot immediately")
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, 3, c.Lines()[0].Quantity)
}

func TestCart_AddItem_InsufficientStock(t *testing.T) {
	t.Parallel()

	c := New()
	p := &models.Product{Name: "Widget", Price: 9.99, Stock: 2, Category: "Tools"}

	err := c.AddItem(context.Background(), p, 3)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 2, p.Stock)
	assert.True(t, c.Empty())
}

func TestCart_AddItem_InvalidQuantity(t *testing.T) {
	t.Parallel()

	c := New()
	p := &models.Product{Name: "Widget", Price: 9.99, Stock: 2, Category: "Tools"}

	require.ErrorIs(t, c.AddItem(context.Background(), p, 0), ErrInvalidQuantity)
	require.ErrorIs(t, c.AddItem(context.Background(), p, -1), ErrInvalidQuantity)
	assert.Equal(t, 2, p.Stock)
	assert.True(t, c.Empty())
}

func TestCart_Summary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := New()
	widget := &models.Product{Name: "Widget", Price: 9.99, Stock: 10, Category: "Tools"}
	gadget := &models.Product{Name: "Gadget", Price: 0.1, Stock: 10, Category: "Tools"}

	require.NoError(t, c.AddItem(ctx, widget, 3))
	require.NoError(t, c.AddItem(ctx, gadget, 3))

	sum := c.Summary()
	require.Len(t, sum.Lines, 2)
	assert.Equal(t, 29.97, sum.Lines[0].Subtotal)
	assert.Equal(t, 0.3, sum.Lines[1].Subtotal)
	assert.Equal(t, 30.27, sum.Total)
}

func TestCart_Release_RestoresStock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := New()
	p := &models.Product{Name: "Widget", Price: 9.99, Stock: 10, Category: "Tools"}

	require.NoError(t, c.AddItem(ctx, p, 4))
	require.Equal(t, 6, p.Stock)

	released := c.Release(ctx)
	require.Len(t, released, 1)
	assert.Equal(t, 10, p.Stock)
	assert.True(t, c.Empty())

	assert.Empty(t, c.Release(ctx), "releasing an empty cart is a no-op")
}

func TestCart_Checkout_Confirmed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cat := newTestCatalog(t, models.Product{Name: "Widget", Price: 9.99, Stock: 10, Category: "Tools", SellerID: "alice"})

	products, err := cat.LoadAll(ctx)
	require.NoError(t, err)

	c := New()
	require.NoError(t, c.AddItem(ctx, &products[0], 3))

	var confirmedTotal float64
	err = c.Checkout(ctx, cat, func(total float64) bool {
		confirmedTotal = total
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, 29.97, confirmedTotal)
	assert.True(t, c.Empty())

	persisted, err := cat.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, persisted[0].Stock)
}

func TestCart_Checkout_Declined(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cat := newTestCatalog(t, models.Product{Name: "Widget", Price: 9.99, Stock: 10, Category: "Tools", SellerID: "alice"})

	products, err := cat.LoadAll(ctx)
	require.NoError(t, err)

	c := New()
	require.NoError(t, c.AddItem(ctx, &products[0], 3))

	err = c.Checkout(ctx, cat, confirmNo)
	require.ErrorIs(t, err, ErrCheckoutDeclined)
	require.Len(t, c.Lines(), 1, "a declined checkout keeps the cart")

	persisted, err := cat.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, persisted[0].Stock, "a declined checkout persists nothing")
}

func TestCart_Checkout_EmptyCart(t *testing.T) {
	t.Parallel()

	cat := newTestCatalog(t)
	err := New().Checkout(context.Background(), cat, confirmYes)
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCart_Checkout_VanishedProduct_SurfacesReconcileError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cat := newTestCatalog(t, models.Product{Name: "Widget", Price: 9.99, Stock: 10, Category: "Tools", SellerID: "alice"})

	products, err := cat.LoadAll(ctx)
	require.NoError(t, err)

	c := New()
	require.NoError(t, c.AddItem(ctx, &products[0], 3))

	// The product disappears from the authoritative document between
	// add-to-cart and checkout.
	require.NoError(t, cat.SaveAll(ctx, nil))

	err = c.Checkout(ctx, cat, confirmYes)
	require.ErrorIs(t, err, catalog.ErrReconcile)
	require.Len(t, c.Lines(), 1, "a failed checkout keeps the cart for retry or release")
}

func TestCart_Checkout_ReservationDoesNotDoubleDecrement(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cat := newTestCatalog(t, models.Product{Name: "Widget", Price: 9.99, Stock: 10, Category: "Tools", SellerID: "alice"})

	products, err := cat.LoadAll(ctx)
	require.NoError(t, err)

	c := New()
	require.NoError(t, c.AddItem(ctx, &products[0], 3))
	require.Equal(t, 7, products[0].Stock, "session snapshot reflects the reservation")

	require.NoError(t, c.Checkout(ctx, cat, confirmYes))

	persisted, err := cat.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, persisted[0].Stock, "persisted stock drops by the cart quantity exactly once")
}
