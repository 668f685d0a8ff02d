// internal/tokens/defaults.go
package tokens

import "emailbuilder/internal/models"

// Defaults returns the built-in design tokens used whenever a template
// type has no token file of its own.
func Defaults() models.DesignTokens {
	return models.DesignTokens{
		Version: "1.0.0",
		Colors: models.TokenColors{
			Primary:       "#dc2626",
			Secondary:     "#64748b",
			Surface:       "#ffffff",
			Background:    "#f8fafc",
			Text:          "#1e293b",
			TextSecondary: "#64748b",
		},
		Fonts: models.TokenFonts{
			Primary: "Arial, sans-serif",
			Heading: models.FontScale{
				Size:       "24px",
				Weight:     "700",
				LineHeight: "1.2",
			},
			Body: models.FontScale{
				Size:       "16px",
				Weight:     "400",
				LineHeight: "1.5",
			},
		},
		Spacing: models.TokenSpacing{
			XS: "4px",
			SM: "8px",
			MD: "16px",
			LG: "24px",
			XL: "32px",
		},
		Radius: models.TokenRadius{
			Card:   "8px",
			Button: "6px",
		},
	}
}
