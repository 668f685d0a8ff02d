// internal/copywrite/writer.go

// Package copywrite generates subject lines, body copy and microcopy for a
// template type. Generation degrades to deterministic per-type fallback copy
// whenever the model cannot deliver.
package copywrite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/llm"
	"emailbuilder/internal/models"
)

const DefaultVariationCount = 3

type Config struct {
	Model       string
	Temperature float64
}

type Writer struct {
	config Config
	llm    llm.Completer
	logger logger.Logger
}

func NewWriter(config Config, completer llm.Completer, log logger.Logger) *Writer {
	return &Writer{
		config: config,
		llm:    completer,
		logger: log.With(map[string]interface{}{
			"component": "copywrite",
		}),
	}
}

// ContextFor frames the emotional register for a template type. Unknown
// types take the cart abandonment framing.
func ContextFor(templateType models.TemplateType) models.CopyContext {
	contexts := map[models.TemplateType]models.CopyContext{
		models.TemplateTypeCartAbandon: {
			UrgencyLevel:  "medium",
			PrimaryGoal:   "conversion",
			EmotionalTone: "helpful urgency",
			KeyMessage:    "complete your purchase",
		},
		models.TemplateTypePostPurchase: {
			UrgencyLevel:  "low",
			PrimaryGoal:   "engagement",
			EmotionalTone: "gratitude and excitement",
			KeyMessage:    "thank you and next steps",
		},
		models.TemplateTypeOrderConfirmation: {
			UrgencyLevel:  "low",
			PrimaryGoal:   "information",
			EmotionalTone: "professional and reassuring",
			KeyMessage:    "confirmation and details",
		},
	}

	if cc, ok := contexts[templateType]; ok {
		return cc
	}
	return contexts[models.TemplateTypeCartAbandon]
}

// Generate produces the full copy set for one email. The returned copy is
// always usable; fallback copy carries Fallback=true.
func (w *Writer) Generate(ctx context.Context, templateType models.TemplateType, product *models.Product, brand models.BrandProfile, locale string) models.EmailCopy {
	copyCtx := ContextFor(templateType)

	generated, err := w.structuredCopy(ctx, templateType, product, brand, copyCtx)
	if err != nil {
		w.logger.Warn("structured copy generation failed", map[string]interface{}{
			"templateType": string(templateType),
			"error":        err.Error(),
		})
		return FallbackCopy(templateType, product)
	}

	microcopy, err := w.microcopy(ctx, templateType, brand)
	if err != nil {
		w.logger.Warn("microcopy generation failed", map[string]interface{}{
			"templateType": string(templateType),
			"error":        err.Error(),
		})
		return FallbackCopy(templateType, product)
	}

	generated.Microcopy = microcopy
	generated.CTAPrimary = primaryCTA(templateType, microcopy)
	return generated
}

func (w *Writer) structuredCopy(ctx context.Context, templateType models.TemplateType, product *models.Product, brand models.BrandProfile, copyCtx models.CopyContext) (models.EmailCopy, error) {
	name, category, description := "Product", "General", ""
	if product != nil {
		name, category, description = product.Name, product.Category, product.Description
	}

	tone := brand.Tone
	if tone == "" {
		tone = "professional"
	}
	messaging := brand.Messaging
	if messaging == "" {
		messaging = "quality and reliability"
	}

	var system []string
	system = append(system, "You are an expert email copywriter specializing in e-commerce emails.")
	system = append(system, "Generate compelling, brand-aligned copy that drives action while maintaining authenticity.")
	system = append(system, "")
	system = append(system, fmt.Sprintf("Brand tone: %s", tone))
	system = append(system, fmt.Sprintf("Brand messaging: %s", messaging))
	system = append(system, fmt.Sprintf("Template type: %s", templateType))
	system = append(system, fmt.Sprintf("Template goal: %s", copyCtx.PrimaryGoal))
	system = append(system, fmt.Sprintf("Product: %s (%s)", name, category))
	system = append(system, "")
	system = append(system, "Requirements:")
	system = append(system, "- Subject line: 30-50 characters, compelling and clear")
	system = append(system, "- Preheader: 80-100 characters, complements subject")
	system = append(system, "- Headline: Clear, benefit-focused, matches brand tone")
	system = append(system, "- Subcopy: Supporting details, create desire")
	system = append(system, "- Primary CTA: 2-4 words, action-oriented")
	system = append(system, "- Keep all copy concise and scannable")
	system = append(system, "- No CSS or formatting, just text content")
	system = append(system, "")
	system = append(system, "Return a JSON object with fields: subject, preheader, headline, subcopy, ctaPrimary, ctaSecondary, bodyText, footerText.")

	var user []string
	user = append(user, "Generate email copy for:")
	user = append(user, fmt.Sprintf("Template: %s", templateType))
	user = append(user, fmt.Sprintf("Product: %s - %s", name, description))
	user = append(user, fmt.Sprintf("Brand tone: %s", tone))
	user = append(user, fmt.Sprintf("Goal: %s", copyCtx.PrimaryGoal))
	user = append(user, fmt.Sprintf("Emotional tone: %s", copyCtx.EmotionalTone))

	reply, err := w.llm.Complete(ctx, llm.Request{
		Model:       w.config.Model,
		Temperature: w.config.Temperature,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: strings.Join(system, "\n")},
			{Role: llm.RoleUser, Content: strings.Join(user, "\n")},
		},
	})
	if err != nil {
		return models.EmailCopy{}, err
	}

	var generated models.EmailCopy
	if err := llm.DecodeInto(reply, &generated); err != nil {
		return models.EmailCopy{}, err
	}
	return generated, nil
}

func (w *Writer) microcopy(ctx context.Context, templateType models.TemplateType, brand models.BrandProfile) (map[string]string, error) {
	tone := brand.Tone
	if tone == "" {
		tone = "professional"
	}

	var system []string
	system = append(system, "Generate microcopy elements for email template.")
	system = append(system, "Return as JSON with specific microcopy for buttons, links, and labels.")
	system = append(system, "")
	system = append(system, fmt.Sprintf("Template type: %s", templateType))
	system = append(system, fmt.Sprintf("Brand tone: %s", tone))
	system = append(system, "")
	system = append(system, "Provide microcopy for:")
	system = append(system, "- view_product: Link text to view product details")
	system = append(system, "- add_to_cart: Add to cart button text")
	system = append(system, "- shop_now: General shopping CTA")
	system = append(system, "- learn_more: Learn more link text")
	system = append(system, "- unsubscribe: Unsubscribe link text")
	system = append(system, "- view_online: View online version text")
	system = append(system, "- contact_support: Contact support link")
	system = append(system, "- social_follow: Social media follow text")

	reply, err := w.llm.Complete(ctx, llm.Request{
		Model:       w.config.Model,
		Temperature: w.config.Temperature,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: strings.Join(system, "\n")},
			{Role: llm.RoleUser, Content: fmt.Sprintf("Generate appropriate microcopy for %s email with %s tone.", templateType, tone)},
		},
	})
	if err != nil {
		return nil, err
	}

	var microcopy map[string]string
	if err := llm.DecodeInto(reply, &microcopy); err != nil {
		return DefaultMicrocopy(), nil
	}
	return microcopy, nil
}

// Variations produces reworded alternatives of base copy for A/B testing.
// The base copy comes back alone when the model cannot produce usable
// variations.
func (w *Writer) Variations(ctx context.Context, base models.EmailCopy, count int) []models.EmailCopy {
	if count <= 0 {
		count = DefaultVariationCount
	}

	var system []string
	system = append(system, fmt.Sprintf("Generate %d variations of the provided email copy.", count))
	system = append(system, "Each variation should:")
	system = append(system, "- Maintain the same core message and brand tone")
	system = append(system, "- Use different wording and approaches")
	system = append(system, "- Test different emotional appeals or urgency levels")
	system = append(system, "- Keep the same structure but vary the language")
	system = append(system, "")
	system = append(system, "Return as JSON array with each variation containing all copy elements.")

	baseJSON, err := json.Marshal(base)
	if err != nil {
		return []models.EmailCopy{base}
	}

	reply, err := w.llm.Complete(ctx, llm.Request{
		Model:       w.config.Model,
		Temperature: w.config.Temperature,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: strings.Join(system, "\n")},
			{Role: llm.RoleUser, Content: fmt.Sprintf("Create variations of this copy: %s", baseJSON)},
		},
	})
	if err != nil {
		return []models.EmailCopy{base}
	}

	var variations []models.EmailCopy
	if err := json.Unmarshal([]byte(reply), &variations); err == nil {
		if len(variations) > count {
			variations = variations[:count]
		}
		if len(variations) > 0 {
			return variations
		}
		return []models.EmailCopy{base}
	}

	var single models.EmailCopy
	if err := llm.DecodeInto(reply, &single); err == nil {
		return []models.EmailCopy{single}
	}

	return []models.EmailCopy{base}
}

// primaryCTA applies the per-type CTA override on top of generated
// microcopy.
func primaryCTA(templateType models.TemplateType, microcopy map[string]string) string {
	lookup := func(key, fallback string) string {
		if v, ok := microcopy[key]; ok && v != "" {
			return v
		}
		return fallback
	}

	switch templateType {
	case models.TemplateTypePostPurchase:
		return lookup("view_product", "View Order")
	case models.TemplateTypeOrderConfirmation:
		return lookup("view_product", "Track Order")
	default:
		return lookup("add_to_cart", "Complete Purchase")
	}
}

// FallbackCopy is the deterministic copy set used when generation fails.
func FallbackCopy(templateType models.TemplateType, product *models.Product) models.EmailCopy {
	name := "Product"
	if product != nil && product.Name != "" {
		name = product.Name
	}

	var copySet models.EmailCopy
	switch templateType {
	case models.TemplateTypePostPurchase:
		copySet = models.EmailCopy{
			Subject:      "Thank you for your purchase!",
			Preheader:    "Your order is confirmed",
			Headline:     fmt.Sprintf("Thanks for choosing %s!", name),
			Subcopy:      "Your order is being processed and will ship soon.",
			CTAPrimary:   "Track Order",
			CTASecondary: "Shop More",
		}
	case models.TemplateTypeOrderConfirmation:
		copySet = models.EmailCopy{
			Subject:      "Order confirmed - We're preparing your items",
			Preheader:    "Order details inside",
			Headline:     "Your order is confirmed!",
			Subcopy:      fmt.Sprintf("We're preparing %s for shipment.", name),
			CTAPrimary:   "View Order Details",
			CTASecondary: "Contact Support",
		}
	default:
		copySet = models.EmailCopy{
			Subject:      fmt.Sprintf("Don't forget about %s", name),
			Preheader:    "Complete your purchase today",
			Headline:     fmt.Sprintf("Still thinking about %s?", name),
			Subcopy:      "Complete your purchase now and enjoy fast shipping.",
			CTAPrimary:   "Complete Purchase",
			CTASecondary: "View Product",
		}
	}

	copySet.Microcopy = DefaultMicrocopy()
	copySet.Fallback = true
	return copySet
}

// DefaultMicrocopy is the standing label set for buttons and links.
func DefaultMicrocopy() map[string]string {
	return map[string]string{
		"view_product":    "View Product",
		"add_to_cart":     "Add to Cart",
		"shop_now":        "Shop Now",
		"learn_more":      "Learn More",
		"unsubscribe":     "Unsubscribe",
		"view_online":     "View Online",
		"contact_support": "Contact Support",
		"social_follow":   "Follow Us",
	}
}
