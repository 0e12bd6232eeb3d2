// Package catalog owns the persisted product collection. The document on
// disk groups products by category; the service exposes flat product lists
// and converts between the two layouts on every load and save.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/shop_cli/internal/logging"
	"github.com/Skotchmaster/shop_cli/internal/models"
	"github.com/Skotchmaster/shop_cli/internal/store"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("product not found")
	ErrReconcile  = errors.New("catalog reconciliation failed")
)

// Key identifies a product inside the document. There is no surrogate ID:
// the (name, category) pair is the identity used for matching.
type Key struct {
	Name     string
	Category string
}

func (k Key) String() string { return fmt.Sprintf("%s/%s", k.Category, k.Name) }

// Patch holds the optional replacement values for an edit-in-place. A nil
// field keeps the prior value.
type Patch struct {
	Name     *string
	Price    *float64
	Stock    *int
	Category *string
}

// StockDecrement is one line of a checkout reconcile.
type StockDecrement struct {
	Key      Key
	Quantity int
}

type Service struct {
	Store *store.Store[[]models.CategoryGroup]
}

func NewService(s *store.Store[[]models.CategoryGroup]) *Service {
	return &Service{Store: s}
}

// LoadAll returns the catalog as a flat list. Blank categories denormalize
// to the default; absent seller attribution stays empty.
func (s *Service) LoadAll(ctx context.Context) ([]models.Product, error) {
	groups, err := s.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return flatten(groups), nil
}

// SaveAll overwrites the document with products, re-grouped by category.
func (s *Service) SaveAll(ctx context.Context, products []models.Product) error {
	return s.Store.Save(ctx, group(products))
}

// Add validates and appends one product, rewriting the whole document (the
// persisted layout is category-grouped, so there is no incremental append).
func (s *Service) Add(ctx context.Context, p models.Product) error {
	l := logging.FromContext(ctx).With("svc", "catalog.add", "name", p.Name, "category", p.Category)

	if p.Name == "" {
		l.Warn("add_product_failed", "reason", "empty name")
		return fmt.Errorf("product name must not be empty: %w", ErrValidation)
	}
	if p.Price < 0 {
		l.Warn("add_product_failed", "reason", "negative price")
		return fmt.Errorf("price must not be negative: %w", ErrValidation)
	}
	if p.Stock < 0 {
		l.Warn("add_product_failed", "reason", "negative stock")
		return fmt.Errorf("stock must not be negative: %w", ErrValidation)
	}
	if p.Category == "" {
		p.Category = models.DefaultCategory
	}

	err := s.Store.Update(ctx, func(groups []models.CategoryGroup) ([]models.CategoryGroup, error) {
		return group(append(flatten(groups), p)), nil
	})
	if err != nil {
		l.Error("add_product_error", "error", err)
		return err
	}

	l.Info("add_product_success")
	return nil
}

// BySeller returns the products attributed to sellerID, in document order.
func (s *Service) BySeller(ctx context.Context, sellerID string) ([]models.Product, error) {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Product
	for _, p := range all {
		if p.SellerID != "" && p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ByCategory returns the catalog grouped for browsing, with defaults
// already applied to every product.
func (s *Service) ByCategory(ctx context.Context) ([]models.CategoryGroup, error) {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return group(all), nil
}

// Update edits one of sellerID's products in place. Fields left nil in the
// patch retain their prior values. Products of other sellers are invisible
// to the edit and report ErrNotFound.
func (s *Service) Update(ctx context.Context, sellerID string, key Key, patch Patch) error {
	l := logging.FromContext(ctx).With("svc", "catalog.update", "seller", sellerID, "product", key.String())

	if patch.Price != nil && *patch.Price < 0 {
		l.Warn("update_product_failed", "reason", "negative price")
		return fmt.Errorf("price must not be negative: %w", ErrValidation)
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		l.Warn("update_product_failed", "reason", "negative stock")
		return fmt.Errorf("stock must not be negative: %w", ErrValidation)
	}
	if patch.Name != nil && *patch.Name == "" {
		l.Warn("update_product_failed", "reason", "empty name")
		return fmt.Errorf("product name must not be empty: %w", ErrValidation)
	}

	err := s.Store.Update(ctx, func(groups []models.CategoryGroup) ([]models.CategoryGroup, error) {
		products := flatten(groups)
		idx := -1
		for i := range products {
			if products[i].Name == key.Name && products[i].Category == key.Category && products[i].SellerID == sellerID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}

		p := &products[idx]
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.Stock != nil {
			p.Stock = *patch.Stock
		}
		if patch.Category != nil && *patch.Category != "" {
			p.Category = *patch.Category
		}
		return group(products), nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			l.Warn("update_product_failed", "reason", "not found")
		} else {
			l.Error("update_product_error", "error", err)
		}
		return err
	}

	l.Info("update_product_success")
	return nil
}

// DecrementStock applies all decrements against the authoritative document
// in one transaction. Any unmatched product or insufficient stock fails the
// whole call with ErrReconcile and persists nothing.
func (s *Service) DecrementStock(ctx context.Context, decs []StockDecrement) error {
	l := logging.FromContext(ctx).With("svc", "catalog.decrement_stock", "lines", len(decs))

	err := s.Store.Update(ctx, func(groups []models.CategoryGroup) ([]models.CategoryGroup, error) {
		products := flatten(groups)
		for _, d := range decs {
			if d.Quantity <= 0 {
				return nil, fmt.Errorf("quantity must be positive for %s: %w", d.Key, ErrValidation)
			}
			idx := -1
			for i := range products {
				if products[i].Name == d.Key.Name && products[i].Category == d.Key.Category {
					idx = i
					break
				}
			}
			if idx < 0 {
				return nil, fmt.Errorf("%s no longer in catalog: %w", d.Key, ErrReconcile)
			}
			if products[idx].Stock < d.Quantity {
				return nil, fmt.Errorf("%s has %d in stock, need %d: %w",
					d.Key, products[idx].Stock, d.Quantity, ErrReconcile)
			}
			products[idx].Stock -= d.Quantity
		}
		return group(products), nil
	})
	if err != nil {
		if errors.Is(err, ErrReconcile) {
			l.Warn("decrement_stock_failed", "error", err)
		} else {
			l.Error("decrement_stock_error", "error", err)
		}
		return err
	}

	l.Info("decrement_stock_success")
	return nil
}

// flatten denormalizes the persisted groups into a flat list, applying the
// default category to blank group names.
func flatten(groups []models.CategoryGroup) []models.Product {
	var out []models.Product
	for _, g := range groups {
		category := g.Category
		if category == "" {
			category = models.DefaultCategory
		}
		for _, item := range g.Products {
			out = append(out, models.Product{
				Name:     item.Name,
				Price:    item.Price,
				Stock:    item.Stock,
				Category: category,
				SellerID: item.SellerID,
			})
		}
	}
	return out
}

// group re-groups a flat list by category, preserving the order categories
// are first seen and the product order within each category.
func group(products []models.Product) []models.CategoryGroup {
	var groups []models.CategoryGroup
	index := make(map[string]int)
	for _, p := range products {
		category := p.Category
		if category == "" {
			category = models.DefaultCategory
		}
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, models.CategoryGroup{Category: category})
		}
		groups[i].Products = append(groups[i].Products, models.GroupItem{
			Name:     p.Name,
			Price:    p.Price,
			Stock:    p.Stock,
			SellerID: p.SellerID,
		})
	}
	return groups
}
