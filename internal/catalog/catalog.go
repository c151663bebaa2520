// Package catalog validates product identifiers against the product catalog
// service before they enter a wishlist.
package catalog

import "context"

// Catalog answers whether a product id refers to a known product.
type Catalog interface {
	// Exists reports whether the product id is known to the catalog. An
	// error means the catalog could not be consulted, not that the product
	// is unknown.
	Exists(ctx context.Context, productID string) (bool, error)
}

// Static is a fixed in-memory catalog for tests and local development.
type Static map[string]bool

// Exists reports membership in the fixed set.
func (s Static) Exists(_ context.Context, productID string) (bool, error) {
	return s[productID], nil
}
