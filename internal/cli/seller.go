package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cast"

	"github.com/Skotchmaster/shop_cli/internal/catalog"
	"github.com/Skotchmaster/shop_cli/internal/models"
)

const sellerMenu = `
Welcome to seller interface
1. Add product
2. View/Edit products
3. Logout
Select an option: `

func (a *App) sellerMenu(ctx context.Context, sellerID string) {
	for {
		choice, err := a.prompt(sellerMenu)
		if err != nil {
			return
		}

		switch choice {
		case "1":
			a.addProduct(ctx, sellerID)
		case "2":
			a.editProducts(ctx, sellerID)
		case "3":
			fmt.Fprintln(a.out, "Logging out...")
			return
		default:
			fmt.Fprintln(a.out, "Invalid choice. Please select a valid option.")
		}
	}
}

func (a *App) addProduct(ctx context.Context, sellerID string) {
	name, err := a.prompt("Enter product name: ")
	if err != nil {
		return
	}
	price, err := a.promptFloat("Enter product price: ")
	if err != nil {
		return
	}
	stock, err := a.promptInt("Enter product stock: ")
	if err != nil {
		return
	}
	category, err := a.prompt("Enter product category (or leave blank for Uncategorized): ")
	if err != nil {
		return
	}

	p := models.Product{Name: name, Price: price, Stock: stock, Category: category, SellerID: sellerID}
	if err := a.catalog.Add(ctx, p); err != nil {
		fmt.Fprintf(a.out, "Could not add product: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Product added successfully!")
}

func (a *App) editProducts(ctx context.Context, sellerID string) {
	products, err := a.catalog.BySeller(ctx, sellerID)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load products: %v\n", err)
		return
	}
	if len(products) == 0 {
		fmt.Fprintln(a.out, "No products found.")
		return
	}

	fmt.Fprintln(a.out, "Your Products:")
	for i, p := range products {
		fmt.Fprintf(a.out, "%d. %s - $%v (Stock: %d)\n", i+1, p.Name, p.Price, p.Stock)
		fmt.Fprintf(a.out, "Category: %s\n", p.Category)
		fmt.Fprintln(a.out, "----------------------------------")
	}

	idx, ok, err := a.promptIndex("Select a product to edit (or type 'back' to return): ", len(products))
	if err != nil || !ok {
		return
	}
	selected := products[idx-1]
	fmt.Fprintf(a.out, "Editing product: %s\n", selected.Name)

	patch, err := a.promptPatch()
	if err != nil {
		return
	}

	key := catalog.Key{Name: selected.Name, Category: selected.Category}
	if err := a.catalog.Update(ctx, sellerID, key, patch); err != nil {
		fmt.Fprintf(a.out, "Could not update product: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Product updated successfully!")
}

// promptPatch collects the edit fields; blank answers keep prior values.
func (a *App) promptPatch() (catalog.Patch, error) {
	var patch catalog.Patch

	name, err := a.prompt("Enter new product name (or leave blank to keep unchanged): ")
	if err != nil {
		return patch, err
	}
	if name != "" {
		patch.Name = &name
	}

	priceRaw, err := a.prompt("Enter new product price (or leave blank to keep unchanged): ")
	if err != nil {
		return patch, err
	}
	if priceRaw != "" {
		if price, err := cast.ToFloat64E(priceRaw); err == nil {
			patch.Price = &price
		} else {
			fmt.Fprintln(a.out, "Invalid price, keeping prior value.")
		}
	}

	stockRaw, err := a.prompt("Enter new product stock (or leave blank to keep unchanged): ")
	if err != nil {
		return patch, err
	}
	if stockRaw != "" {
		if stock, err := cast.ToIntE(stockRaw); err == nil {
			patch.Stock = &stock
		} else {
			fmt.Fprintln(a.out, "Invalid stock, keeping prior value.")
		}
	}

	category, err := a.prompt("Enter new product category (or leave blank to keep unchanged): ")
	if err != nil {
		return patch, err
	}
	if category != "" {
		patch.Category = &category
	}

	return patch, nil
}
