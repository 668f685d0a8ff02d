// internal/guidelines/extractor.go

// Package guidelines turns uploaded brand guideline documents into the
// structured profile the copywriting and layout stages consume. Extraction
// never fails outright: every error path degrades to a usable profile.
package guidelines

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/llm"
	"emailbuilder/internal/models"
)

const (
	// Guideline documents can be arbitrarily long; only the head goes to
	// the model.
	maxContentLength = 3000
	// Sample passed alongside the initial profile during enhancement.
	enhanceSampleLength = 1000
)

type Config struct {
	Model       string
	Temperature float64
}

type Extractor struct {
	config Config
	llm    llm.Completer
	logger logger.Logger
}

func NewExtractor(config Config, completer llm.Completer, log logger.Logger) *Extractor {
	return &Extractor{
		config: config,
		llm:    completer,
		logger: log.With(map[string]interface{}{
			"component": "guidelines",
		}),
	}
}

// Extract analyzes raw file content and returns a brand profile. A transport
// failure or an unparseable reply both produce deterministic stand-in
// profiles rather than an error.
func (e *Extractor) Extract(ctx context.Context, fileContent string) models.BrandProfile {
	content := fileContent
	if len(content) > maxContentLength {
		content = content[:maxContentLength]
	}

	reply, err := e.llm.Complete(ctx, llm.Request{
		Model:       e.config.Model,
		Temperature: e.config.Temperature,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: extractionSystemPrompt},
			{Role: llm.RoleUser, Content: "Analyze this content for brand guidelines:\n\n" + content},
		},
	})
	if err != nil {
		e.logger.Warn("guideline extraction call failed", map[string]interface{}{
			"error": err.Error(),
		})
		return models.BrandProfile{
			Tone:          "professional",
			Colors:        []string{"brand primary", "brand secondary"},
			Style:         "clean and modern",
			Messaging:     "quality products and customer focus",
			Restrictions:  "maintain brand consistency",
			TemplateFocus: "highlight product value and brand trust",
			Error:         fmt.Sprintf("Could not fully analyze guidelines: %v", err),
		}
	}

	var profile models.BrandProfile
	if err := llm.DecodeInto(reply, &profile); err != nil {
		e.logger.Warn("guideline reply was not structured", map[string]interface{}{
			"error": err.Error(),
		})
		return models.BrandProfile{
			Tone:          "professional",
			Colors:        []string{"primary", "secondary"},
			Style:         "modern",
			Messaging:     "quality and reliability",
			Restrictions:  "none specified",
			TemplateFocus: "product quality and brand trust",
			ExtractedText: reply,
		}
	}

	return profile
}

// Enhance layers email-specific recommendations on top of an extracted
// profile. The base profile is returned untouched when the model call fails.
func (e *Extractor) Enhance(ctx context.Context, base models.BrandProfile, fileContent string) models.BrandProfile {
	sample := fileContent
	if len(sample) > enhanceSampleLength {
		sample = sample[:enhanceSampleLength]
	}

	baseJSON, err := json.Marshal(base)
	if err != nil {
		return base
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("Initial guidelines: %s", baseJSON))
	parts = append(parts, fmt.Sprintf("\nFile content sample: %s", sample))
	parts = append(parts, "\nProvide enhanced email-specific recommendations.")

	reply, err := e.llm.Complete(ctx, llm.Request{
		Model:       e.config.Model,
		Temperature: e.config.Temperature,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: enhancementSystemPrompt},
			{Role: llm.RoleUser, Content: strings.Join(parts, "\n")},
		},
	})
	if err != nil {
		e.logger.Warn("guideline enhancement call failed", map[string]interface{}{
			"error": err.Error(),
		})
		return base
	}

	enhanced := base
	enhanced.Enhanced = true

	var emailSpecific map[string]string
	if err := llm.DecodeInto(reply, &emailSpecific); err != nil {
		enhanced.AdditionalInsights = reply
		return enhanced
	}

	enhanced.EmailSpecific = emailSpecific
	return enhanced
}

// DefaultProfile is the profile used when no guideline file was supplied or
// extraction could not run at all.
func DefaultProfile() models.BrandProfile {
	return models.BrandProfile{
		Tone:          "professional and friendly",
		Colors:        []string{"#007bff", "#6c757d"},
		Style:         "clean and modern",
		Messaging:     "customer-focused and trustworthy",
		Restrictions:  "maintain professional appearance",
		TemplateFocus: "clear product presentation and strong call-to-action",
		EmailSpecific: map[string]string{
			"cart_abandon":       "create urgency while remaining helpful",
			"post_purchase":      "express gratitude and build loyalty",
			"order_confirmation": "provide clear information and build trust",
		},
		Fallback: true,
	}
}

const extractionSystemPrompt = `You are a brand guideline analyzer. Extract key brand information from the provided content and return it as a JSON object with these fields:
- tone: brand tone and voice (professional, casual, friendly, etc.)
- colors: primary and secondary brand colors if mentioned
- style: visual style preferences (modern, classic, minimal, etc.)
- messaging: key messaging themes or values
- restrictions: any specific restrictions or requirements
- templateFocus: what should be emphasized in email templates

If the content doesn't contain brand guidelines, analyze the overall style and tone to infer brand characteristics.`

const enhancementSystemPrompt = `You are a brand analyst. Based on the initial guidelines and file content, provide enhanced insights for email template generation. Focus on:
1. Email-specific tone recommendations
2. Key messaging priorities for different email types (cart abandon, post-purchase, order confirmation)
3. Visual style preferences that translate to email design
4. Customer communication preferences

Return your analysis as a JSON object with enhanced insights.`
