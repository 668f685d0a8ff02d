// internal/catalog/csv.go
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"emailbuilder/internal/models"
)

// CSVStore serves the catalog from a products CSV loaded once at startup.
// Expected columns: sku, name, category, price, brand, description,
// image_placeholder, related_skus (comma-separated).
type CSVStore struct {
	bySKU map[string]models.Product
	order []string
}

func NewCSVStore(path string) (*CSVStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open catalog: %v", ErrCatalogUnavailable, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read catalog: %v", ErrCatalogUnavailable, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: catalog file is empty", ErrCatalogUnavailable)
	}

	header := records[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"sku", "name", "category", "price"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%w: catalog missing column %q", ErrCatalogUnavailable, required)
		}
	}

	store := &CSVStore{bySKU: make(map[string]models.Product, len(records)-1)}
	for _, record := range records[1:] {
		product := models.Product{
			SKU:              field(record, col, "sku"),
			Name:             field(record, col, "name"),
			Category:         field(record, col, "category"),
			Price:            field(record, col, "price"),
			Brand:            field(record, col, "brand"),
			Description:      field(record, col, "description"),
			ImagePlaceholder: field(record, col, "image_placeholder"),
			RelatedSKUs:      splitSKUs(field(record, col, "related_skus")),
		}
		if product.SKU == "" {
			continue
		}
		store.bySKU[product.SKU] = product
		store.order = append(store.order, product.SKU)
	}

	return store, nil
}

func (s *CSVStore) Lookup(_ context.Context, sku string) (*models.Product, error) {
	product, ok := s.bySKU[sku]
	if !ok {
		return nil, fmt.Errorf("%w: Product with SKU %s not found", ErrProductNotFound, sku)
	}
	return &product, nil
}

func (s *CSVStore) Related(ctx context.Context, sku string, limit int) ([]models.Product, error) {
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

	related := make([]models.Product, 0, len(relatedSKUs))
	for _, relatedSKU := range relatedSKUs {
		if product, ok := s.bySKU[relatedSKU]; ok {
			related = append(related, product)
		}
	}
	return related, nil
}

// Len reports how many products the store loaded.
func (s *CSVStore) Len() int {
	return len(s.order)
}

// Products returns every product in file order.
func (s *CSVStore) Products() []models.Product {
	products := make([]models.Product, 0, len(s.order))
	for _, sku := range s.order {
		products = append(products, s.bySKU[sku])
	}
	return products
}

func field(record []string, col map[string]int, name string) string {
	idx, ok := col[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func splitSKUs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	skus := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			skus = append(skus, trimmed)
		}
	}
	return skus
}
