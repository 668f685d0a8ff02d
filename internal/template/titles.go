// internal/template/titles.go
package template

import "emailbuilder/internal/models"

// Section titles live here and nowhere else; the composer and the fallback
// path both read these tables.

var itemsTitles = map[models.TemplateType]string{
	models.TemplateTypeCartAbandon:       "Your Item",
	models.TemplateTypePostPurchase:      "Your Purchase",
	models.TemplateTypeOrderConfirmation: "Your Order",
}

var recommendationsTitles = map[models.TemplateType]string{
	models.TemplateTypeCartAbandon:       "Complete your look",
	models.TemplateTypePostPurchase:      "You might also like",
	models.TemplateTypeOrderConfirmation: "Recommended for you",
}

// ItemsTitle names the primary product section for a template type.
func ItemsTitle(templateType models.TemplateType) string {
	if title, ok := itemsTitles[templateType]; ok {
		return title
	}
	return "Featured Item"
}

// RecommendationsTitle names the related products section.
func RecommendationsTitle(templateType models.TemplateType) string {
	if title, ok := recommendationsTitles[templateType]; ok {
		return title
	}
	return "Recommendations"
}
