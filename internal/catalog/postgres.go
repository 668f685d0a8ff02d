// internal/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"emailbuilder/internal/models"
)

// PostgresStore serves the catalog from a products table with the same
// columns as the CSV source; related_skus is stored comma-separated.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Lookup(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	var relatedRaw sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT sku, name, category, price, brand, description, image_placeholder, related_skus
		FROM products
		WHERE sku = $1`, sku).Scan(
		&product.SKU, &product.Name, &product.Category, &product.Price,
		&product.Brand, &product.Description, &product.ImagePlaceholder, &relatedRaw,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: Product with SKU %s not found", ErrProductNotFound, sku)
		}
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	if relatedRaw.Valid {
		product.RelatedSKUs = splitSKUs(relatedRaw.String)
	}
	return &product, nil
}

func (s *PostgresStore) Related(ctx context.Context, sku string, limit int) ([]models.Product, error) {
	primary, err := s.Lookup(ctx, sku)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	relatedSKUs := primary.RelatedSKUs
	if len(relatedSKUs) > limit {
		relatedSKUs = relatedSKUs[:limit]
	}
	if len(relatedSKUs) == 0 {
		return []models.Product{}, nil
	}

	placeholders := make([]string, len(relatedSKUs))
	args := make([]interface{}, len(relatedSKUs))
	for i, relatedSKU := range relatedSKUs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = relatedSKU
	}

	query := `SELECT sku, name, category, price, brand, description, image_placeholder
	          FROM products WHERE sku IN (` + strings.Join(placeholders, ",") + `)`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	found := make(map[string]models.Product, len(relatedSKUs))
	for rows.Next() {
		var product models.Product
		if err := rows.Scan(
			&product.SKU, &product.Name, &product.Category, &product.Price,
			&product.Brand, &product.Description, &product.ImagePlaceholder,
		); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		}
		found[product.SKU] = product
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	// Reassemble in the order the primary product lists them.
	related := make([]models.Product, 0, len(found))
	for _, relatedSKU := range relatedSKUs {
		if product, ok := found[relatedSKU]; ok {
			related = append(related, product)
		}
	}
	return related, nil
}
