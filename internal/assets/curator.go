// internal/assets/curator.go

package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/llm"
	"emailbuilder/internal/models"
)

var baseRequirements = map[models.TemplateType]models.AssetRequirements{
	models.TemplateTypeCartAbandon: {
		HeroCount:    1,
		GridCount:    1,
		ProductCount: 2,
		Focus:        "urgency_and_product",
	},
	models.TemplateTypePostPurchase: {
		HeroCount:    1,
		GridCount:    2,
		ProductCount: 3,
		Focus:        "celebration_and_recommendations",
	},
	models.TemplateTypeOrderConfirmation: {
		HeroCount:    1,
		GridCount:    1,
		ProductCount: 1,
		Focus:        "trust_and_confirmation",
	},
}

// RequirementsFor returns the curation plan for a template type, adjusted
// by the brand's image style. Minimal brands drop a grid slot (never below
// one), rich or luxury brands gain one. Unknown template types use the
// cart_abandon plan.
func RequirementsFor(templateType models.TemplateType, brand models.BrandProfile) models.AssetRequirements {
	req, ok := baseRequirements[templateType]
	if !ok {
		req = baseRequirements[models.TemplateTypeCartAbandon]
	}

	style := strings.ToLower(brand.Style)
	if strings.Contains(style, "minimal") {
		if req.GridCount > 1 {
			req.GridCount--
		}
	} else if strings.Contains(style, "rich") || strings.Contains(style, "luxury") {
		req.GridCount++
	}

	return req
}

type CuratorConfig struct {
	Model       string
	Temperature float64
}

// Curator selects images for each template section and runs an optional
// model-driven optimization pass over the picks. Curation itself never
// fails; a nil completer skips optimization entirely.
type Curator struct {
	config   CuratorConfig
	llm      llm.Completer
	selector *Selector
	logger   logger.Logger
}

func NewCurator(cfg CuratorConfig, completer llm.Completer, selector *Selector, log logger.Logger) *Curator {
	return &Curator{
		config:   cfg,
		llm:      completer,
		selector: selector,
		logger:   log.With(map[string]interface{}{"component": "assets"}),
	}
}

// Curate builds the asset selection for one email.
func (c *Curator) Curate(ctx context.Context, templateType models.TemplateType, category string, brand models.BrandProfile) models.AssetSelection {
	req := RequirementsFor(templateType, brand)

	heroes := c.selector.Select(templateType, category, models.AssetTypeHero, req.HeroCount)
	grid := c.selector.Select(templateType, category, models.AssetTypeGrid, req.GridCount)
	products := []models.AssetReference{}
	if req.ProductCount > 0 {
		products = c.selector.Select(templateType, category, models.AssetTypeProduct, req.ProductCount)
	}

	return c.optimize(ctx, heroes, grid, products, templateType, brand, req.Focus)
}

// optimizeReply is what the model is asked to return. Index lists refer to
// the candidate slices passed in; out-of-range entries are discarded.
type optimizeReply struct {
	HeroSelection       *int   `json:"hero_selection"`
	GridSelection       []int  `json:"grid_selection"`
	ProductSelection    []int  `json:"product_selection"`
	StrategyReasoning   string `json:"strategy_reasoning"`
	BrandAlignmentScore int    `json:"brand_alignment_score"`
}

func (c *Curator) optimize(ctx context.Context, heroes, grid, products []models.AssetReference, templateType models.TemplateType, brand models.BrandProfile, focus string) models.AssetSelection {
	selection := models.AssetSelection{
		Grid:     grid,
		Products: products,
		Focus:    focus,
	}
	if len(heroes) > 0 {
		selection.Hero = &heroes[0]
	}

	if c.llm == nil {
		selection.Strategy = "Standard selection"
		selection.BrandAlignment = 7
		return selection
	}

	style := brand.Style
	if style == "" {
		style = "modern"
	}
	tone := brand.Tone
	if tone == "" {
		tone = "professional"
	}

	contextJSON, _ := json.Marshal(map[string]interface{}{
		"templateType":   templateType,
		"heroOptions":    len(heroes),
		"gridOptions":    len(grid),
		"productOptions": len(products),
		"brandStyle":     style,
		"brandTone":      tone,
	})

	systemParts := []string{
		"You are an email design specialist optimizing image selection.",
		"Based on the template type and brand guidelines, select the best assets and provide reasoning.",
		"",
		fmt.Sprintf("Template type: %s", templateType),
		fmt.Sprintf("Brand context: %s style, %s tone", style, tone),
		"",
		"Provide selection strategy as JSON with:",
		"- hero_selection: index of best hero image (0-based)",
		"- grid_selection: list of indices for grid images",
		"- product_selection: list of indices for product images",
		"- strategy_reasoning: explanation of choices",
		"- brand_alignment_score: 1-10 rating of brand alignment",
	}
	userPrompt := fmt.Sprintf("Available assets context: %s\n\nSelect optimal assets for maximum email effectiveness.", contextJSON)

	reply, err := c.llm.Complete(ctx, llm.Request{
		Model: c.config.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: strings.Join(systemParts, "\n")},
			{Role: llm.RoleUser, Content: userPrompt},
		},
		Temperature: c.config.Temperature,
	})
	if err != nil {
		c.logger.Warn("Asset optimization failed, keeping initial selection", map[string]interface{}{
			"templateType": templateType,
			"error":        err.Error(),
		})
		selection.Strategy = fmt.Sprintf("Fallback selection due to optimization error: %v", err)
		selection.BrandAlignment = 5
		return selection
	}

	var opt optimizeReply
	if err := llm.DecodeInto(reply, &opt); err != nil {
		selection.Strategy = "Default selection strategy"
		selection.BrandAlignment = 7
		return selection
	}

	if opt.HeroSelection != nil && *opt.HeroSelection >= 0 && *opt.HeroSelection < len(heroes) {
		selection.Hero = &heroes[*opt.HeroSelection]
	}

	selection.Grid = pickByIndex(grid, opt.GridSelection)
	selection.Products = pickByIndex(products, opt.ProductSelection)

	selection.Strategy = opt.StrategyReasoning
	if selection.Strategy == "" {
		selection.Strategy = "Standard selection"
	}
	selection.BrandAlignment = opt.BrandAlignmentScore
	if selection.BrandAlignment == 0 {
		selection.BrandAlignment = 7
	}

	return selection
}

func pickByIndex(candidates []models.AssetReference, indices []int) []models.AssetReference {
	picked := make([]models.AssetReference, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(candidates) {
			picked = append(picked, candidates[idx])
		}
	}
	return picked
}

// ImageClassification scores one image for a given template context.
type ImageClassification struct {
	SuitabilityScore   int    `json:"suitability_score"`
	RecommendedUsage   string `json:"recommended_usage"`
	StyleMatch         string `json:"style_match"`
	EmotionalImpact    string `json:"emotional_impact"`
	AccessibilityNotes string `json:"accessibility_notes"`
}

// ClassifyImage rates how well an image suits a template section. Errors
// degrade to a neutral classification rather than failing.
func (c *Curator) ClassifyImage(ctx context.Context, imageURL string, templateType models.TemplateType, section string) ImageClassification {
	if c.llm == nil {
		return ImageClassification{
			SuitabilityScore:   5,
			RecommendedUsage:   "general",
			StyleMatch:         "unknown",
			EmotionalImpact:    "neutral",
			AccessibilityNotes: "manual review needed",
		}
	}

	contextJSON, _ := json.Marshal(map[string]interface{}{
		"templateType": templateType,
		"section":      section,
	})

	systemParts := []string{
		"You are an image classification specialist for email marketing.",
		"Analyze the image URL and context to determine suitability.",
		"",
		"Provide classification as JSON with:",
		"- suitability_score: 1-10 rating",
		"- recommended_usage: hero/grid/product/decorative",
		"- style_match: how well it matches the brand style",
		"- emotional_impact: expected emotional response",
		"- accessibility_notes: any accessibility considerations",
	}
	userPrompt := fmt.Sprintf("Image URL: %s\nContext: %s\n\nClassify this image for email template usage.", imageURL, contextJSON)

	reply, err := c.llm.Complete(ctx, llm.Request{
		Model: c.config.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: strings.Join(systemParts, "\n")},
			{Role: llm.RoleUser, Content: userPrompt},
		},
		Temperature: c.config.Temperature,
	})
	if err != nil {
		return ImageClassification{
			SuitabilityScore:   5,
			RecommendedUsage:   "general",
			StyleMatch:         "unknown",
			EmotionalImpact:    "neutral",
			AccessibilityNotes: "manual review needed",
		}
	}

	var classification ImageClassification
	if err := llm.DecodeInto(reply, &classification); err != nil {
		return ImageClassification{
			SuitabilityScore:   7,
			RecommendedUsage:   "general",
			StyleMatch:         "good",
			EmotionalImpact:    "neutral positive",
			AccessibilityNotes: "ensure alt text is provided",
		}
	}
	return classification
}

// FallbackAssets is the fixed selection used when curation itself blows
// up: one safe hero, one decorative grid image, no products.
func FallbackAssets(templateType models.TemplateType, category string) models.AssetSelection {
	return models.AssetSelection{
		Hero: &models.AssetReference{
			URL:          "https://images.unsplash.com/photo-1556742049-0cfed4f6a45d?w=600&h=300&fit=crop&q=80",
			Type:         models.AssetTypeHero,
			Category:     category,
			TemplateType: string(templateType),
			AltText:      fmt.Sprintf("Hero image for %s email", templateType),
			Priority:     1,
			Fallback:     true,
		},
		Grid: []models.AssetReference{
			{
				URL:          "https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=300&h=200&fit=crop&q=80",
				Type:         models.AssetTypeGrid,
				Category:     category,
				TemplateType: string(templateType),
				AltText:      "Decorative image",
				Priority:     1,
				Fallback:     true,
			},
		},
		Products: []models.AssetReference{},
		Fallback: true,
	}
}
