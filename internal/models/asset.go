// internal/models/asset.go
package models

type AssetType string

const (
	AssetTypeHero    AssetType = "hero"
	AssetTypeGrid    AssetType = "grid"
	AssetTypeProduct AssetType = "product"
)

// AssetReference describes one curated image. URLs point at the stock pool
// or, for fallbacks, at a fixed safe image.
type AssetReference struct {
	URL          string    `json:"url"`
	Type         AssetType `json:"type"`
	Category     string    `json:"category"`
	TemplateType string    `json:"templateType"`
	AltText      string    `json:"altText"`
	Priority     int       `json:"priority"`
	Fallback     bool      `json:"fallback,omitempty"`
}

// AssetRequirements is the per-template-type curation plan before any
// brand-style adjustment is applied.
type AssetRequirements struct {
	HeroCount    int    `json:"heroCount"`
	GridCount    int    `json:"gridCount"`
	ProductCount int    `json:"productCount"`
	Focus        string `json:"focus"`
}

// AssetSelection is the curation stage output consumed by layout and render.
type AssetSelection struct {
	Hero           *AssetReference  `json:"hero,omitempty"`
	Grid           []AssetReference `json:"grid"`
	Products       []AssetReference `json:"products"`
	Focus          string           `json:"focus,omitempty"`
	Strategy       string           `json:"strategy,omitempty"`
	BrandAlignment int              `json:"brandAlignment,omitempty"`
	Fallback       bool             `json:"fallback,omitempty"`
}
