// internal/catalog/catalog.go
package catalog

import (
	"context"
	"errors"

	"emailbuilder/internal/models"
)

var (
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
	ErrCatalogUnavailable = errors.New("CATALOG_UNAVAILABLE")
)

// Store resolves SKUs against the product catalog.
//
// Related returns resolved related products in the order the primary
// product's related list names them; SKUs that resolve to nothing are
// skipped without error.
type Store interface {
	Lookup(ctx context.Context, sku string) (*models.Product, error)
	Related(ctx context.Context, sku string, limit int) ([]models.Product, error)
}

const DefaultRelatedLimit = 3
