// internal/template/composer.go

// Package template composes the block tree of an email from copy, products
// and curated assets, and validates the result. Composition is fully
// deterministic: the same inputs always produce the same template.
package template

import (
	"emailbuilder/internal/models"
)

// Compose builds the canonical template: hero first, items when a primary
// product resolved, recommendations when related products exist, footer
// last.
func Compose(templateType models.TemplateType, copySet models.EmailCopy, bundle models.ProductBundle, assets models.AssetSelection, locale string) models.EmailTemplate {
	blocks := []models.Block{heroBlock(copySet, assets.Hero)}

	if bundle.Primary != nil {
		blocks = append(blocks, itemsBlock(*bundle.Primary, ItemsTitle(templateType)))
	}

	if len(bundle.Related) > 0 {
		blocks = append(blocks, recommendationsBlock(bundle.Related, templateType))
	}

	blocks = append(blocks, footerBlock())

	return models.EmailTemplate{
		Subject:      defaultString(copySet.Subject, "Email Subject"),
		Preheader:    defaultString(copySet.Preheader, "Email preview text"),
		Locale:       locale,
		TemplateType: templateType,
		Blocks:       blocks,
	}
}

// Fallback builds the degraded template used when composition inputs are
// incomplete: hero without image, optional items, footer without social
// links.
func Fallback(templateType models.TemplateType, copySet models.EmailCopy, bundle models.ProductBundle) models.EmailTemplate {
	blocks := []models.Block{heroBlock(copySet, nil)}

	if bundle.Primary != nil {
		blocks = append(blocks, itemsBlock(*bundle.Primary, "Featured Item"))
	}

	blocks = append(blocks, models.Block{
		Type:           models.BlockTypeFooter,
		CompanyName:    "Your Company",
		Address:        "123 Main St, City, State 12345",
		UnsubscribeURL: "#unsubscribe",
		SocialLinks:    []models.SocialLink{},
	})

	return models.EmailTemplate{
		Subject:      defaultString(copySet.Subject, "Email Subject"),
		Preheader:    defaultString(copySet.Preheader, "Email preview"),
		Locale:       "en",
		TemplateType: templateType,
		Blocks:       blocks,
		Fallback:     true,
	}
}

func heroBlock(copySet models.EmailCopy, hero *models.AssetReference) models.Block {
	imageURL := ""
	if hero != nil {
		imageURL = hero.URL
	}

	return models.Block{
		Type:     models.BlockTypeHero,
		Headline: defaultString(copySet.Headline, "Welcome"),
		Subcopy:  defaultString(copySet.Subcopy, "Discover our products"),
		ImageURL: imageURL,
		CTALabel: defaultString(copySet.CTAPrimary, "Shop Now"),
		CTAURL:   "#",
	}
}

func itemsBlock(primary models.Product, title string) models.Block {
	return models.Block{
		Type:  models.BlockTypeItems,
		Title: title,
		Items: []models.Item{productItem(primary)},
	}
}

func recommendationsBlock(related []models.Product, templateType models.TemplateType) models.Block {
	items := make([]models.Item, 0, len(related))
	for _, p := range related {
		items = append(items, productItem(p))
	}

	return models.Block{
		Type:  models.BlockTypeRecommendations,
		Title: RecommendationsTitle(templateType),
		Items: items,
	}
}

func footerBlock() models.Block {
	return models.Block{
		Type:           models.BlockTypeFooter,
		CompanyName:    "Your Company",
		Address:        "123 Main St, City, State 12345",
		UnsubscribeURL: "#unsubscribe",
		SocialLinks: []models.SocialLink{
			{Platform: "facebook", URL: "#"},
			{Platform: "instagram", URL: "#"},
			{Platform: "twitter", URL: "#"},
		},
	}
}

func productItem(p models.Product) models.Item {
	return models.Item{
		Name:        defaultString(p.Name, "Product"),
		SKU:         p.SKU,
		Price:       p.Price,
		ImageURL:    p.ImagePlaceholder,
		Description: p.Description,
	}
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
