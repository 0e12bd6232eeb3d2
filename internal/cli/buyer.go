package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/shop_cli/internal/cart"
	"github.com/Skotchmaster/shop_cli/internal/catalog"
	"github.com/Skotchmaster/shop_cli/internal/models"
)

// catalogProductView is one row of the browse listing, with stock adjusted
// for this session's reservations.
type catalogProductView struct {
	Key   catalog.Key
	Price float64
	Stock int
}

// cartLineFor returns the session snapshot to reserve against: the product
// already in the cart when the buyer adds the same item again, otherwise a
// fresh snapshot at the displayed stock. Sharing the snapshot keeps repeat
// reservations cumulative.
func (a *App) cartLineFor(c *cart.Cart, v catalogProductView) *models.Product {
	for _, line := range c.Lines() {
		if line.Product.Name == v.Key.Name && line.Product.Category == v.Key.Category {
			return line.Product
		}
	}
	return &models.Product{Name: v.Key.Name, Price: v.Price, Stock: v.Stock, Category: v.Key.Category}
}

const buyerMenu = `
Welcome to buyer interface
1. Browse Products by Category
2. View Cart
3. Checkout
4. Logout
Select an option: `

func (a *App) buyerMenu(ctx context.Context) {
	c := cart.New()
	for {
		choice, err := a.prompt(buyerMenu)
		if err != nil {
			c.Release(ctx)
			return
		}

		switch choice {
		case "1":
			a.browse(ctx, c)
		case "2":
			a.viewCart(c)
		case "3":
			a.checkout(ctx, c)
		case "4":
			// Abandoning the session hands reservations back.
			c.Release(ctx)
			fmt.Fprintln(a.out, "Logging out...")
			return
		default:
			fmt.Fprintln(a.out, "Invalid choice. Please select a valid option.")
		}
	}
}

func (a *App) browse(ctx context.Context, c *cart.Cart) {
	groups, err := a.catalog.ByCategory(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load products: %v\n", err)
		return
	}
	if len(groups) == 0 {
		fmt.Fprintln(a.out, "No products available.")
		return
	}

	fmt.Fprintln(a.out, "Available Categories:")
	for i, g := range groups {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, g.Category)
	}

	gi, ok, err := a.promptIndex("Select a category (or type 'back' to return): ", len(groups))
	if err != nil || !ok {
		return
	}
	selected := groups[gi-1]

	// Reapply reservations from the cart so the listing shows what is
	// actually still available this session.
	products := make([]catalogProductView, 0, len(selected.Products))
	for _, item := range selected.Products {
		products = append(products, catalogProductView{
			Key:   catalog.Key{Name: item.Name, Category: selected.Category},
			Price: item.Price,
			Stock: item.Stock,
		})
	}
	lines := c.Lines()
	for i := range products {
		for _, line := range lines {
			if line.Product.Name == products[i].Key.Name && line.Product.Category == products[i].Key.Category {
				products[i].Stock = line.Product.Stock
			}
		}
	}

	fmt.Fprintf(a.out, "Products in %s:\n", selected.Category)
	for i, p := range products {
		fmt.Fprintf(a.out, "%d. %s - $%v (Stock: %d)\n", i+1, p.Key.Name, p.Price, p.Stock)
	}

	pi, ok, err := a.promptIndex("Select a product to add to cart (or type 'back' to return): ", len(products))
	if err != nil || !ok {
		return
	}
	picked := products[pi-1]

	quantity, err := a.promptInt(fmt.Sprintf("How many %ss would you like to add? ", picked.Key.Name))
	if err != nil {
		return
	}

	line := a.cartLineFor(c, picked)
	switch err := c.AddItem(ctx, line, quantity); {
	case err == nil:
		fmt.Fprintf(a.out, "Added %d x %s to cart.\n", quantity, picked.Key.Name)
	case errors.Is(err, cart.ErrInsufficientStock):
		fmt.Fprintf(a.out, "Sorry, %s is out of stock.\n", picked.Key.Name)
	case errors.Is(err, cart.ErrInvalidQuantity):
		fmt.Fprintln(a.out, "Quantity must be at least 1.")
	default:
		fmt.Fprintf(a.out, "Could not add to cart: %v\n", err)
	}
}

func (a *App) viewCart(c *cart.Cart) {
	if c.Empty() {
		fmt.Fprintln(a.out, "Your cart is empty.")
		return
	}
	sum := c.Summary()
	fmt.Fprintln(a.out, "Your Cart:")
	for _, line := range sum.Lines {
		fmt.Fprintf(a.out, "%s - $%v x %d = $%.2f\n", line.Name, line.Price, line.Quantity, line.Subtotal)
	}
	fmt.Fprintf(a.out, "Total: $%.2f\n", sum.Total)
}

func (a *App) checkout(ctx context.Context, c *cart.Cart) {
	if c.Empty() {
		fmt.Fprintln(a.out, "Your cart is empty. Add items before checkout.")
		return
	}

	err := c.Checkout(ctx, a.catalog, func(total float64) bool {
		fmt.Fprintf(a.out, "Total amount: $%.2f\n", total)
		answer, err := a.prompt("Do you want to confirm the purchase? (yes/no): ")
		if err != nil {
			return false
		}
		return strings.EqualFold(answer, "yes")
	})

	switch {
	case err == nil:
		fmt.Fprintln(a.out, "Purchase confirmed. Thank you for shopping!")
	case errors.Is(err, cart.ErrCheckoutDeclined):
		fmt.Fprintln(a.out, "Purchase cancelled.")
	case errors.Is(err, catalog.ErrReconcile):
		fmt.Fprintf(a.out, "Purchase failed, your cart is unchanged: %v\n", err)
	default:
		fmt.Fprintf(a.out, "Purchase failed: %v\n", err)
	}
}
