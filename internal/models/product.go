// internal/models/product.go
package models

// Product mirrors one row of the catalog. Price stays a string so the
// catalog's formatting (e.g. "49.99") survives into rendered output.
type Product struct {
	SKU              string   `json:"sku"`
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	Price            string   `json:"price"`
	Brand            string   `json:"brand"`
	Description      string   `json:"description"`
	ImagePlaceholder string   `json:"imagePlaceholder"`
	RelatedSKUs      []string `json:"relatedSkus,omitempty"`
}

// ProductBundle is what the retrieval stage hands downstream: the primary
// product (nil when the SKU was not found) plus resolved related products
// in the order the catalog listed them.
type ProductBundle struct {
	Primary             *Product  `json:"primaryProduct,omitempty"`
	Related             []Product `json:"relatedProducts"`
	RecommendationCount int       `json:"recommendationCount"`
}
