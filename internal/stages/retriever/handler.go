// internal/stages/retriever/handler.go

// Package retriever implements the second pipeline stage: primary and
// related product resolution plus brand guideline extraction. Every failure
// in this stage degrades the bundle or the profile; none aborts the run.
package retriever

import (
	"context"
	"errors"
	"fmt"

	"emailbuilder/internal/catalog"
	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/guidelines"
	"emailbuilder/internal/models"
	"emailbuilder/internal/pipeline"
)

// Extractor narrows guidelines.Extractor to what the stage calls so tests
// can stub it.
type Extractor interface {
	Extract(ctx context.Context, fileContent string) models.BrandProfile
	Enhance(ctx context.Context, base models.BrandProfile, fileContent string) models.BrandProfile
}

// Config tunes the stage. RelatedLimit zero falls back to the catalog
// default.
type Config struct {
	RelatedLimit int
}

type Handler struct {
	config    Config
	store     catalog.Store
	extractor Extractor
	logger    logger.Logger
}

func NewHandler(cfg Config, store catalog.Store, extractor Extractor, log logger.Logger) *Handler {
	if cfg.RelatedLimit <= 0 {
		cfg.RelatedLimit = catalog.DefaultRelatedLimit
	}
	return &Handler{
		config:    cfg,
		store:     store,
		extractor: extractor,
		logger: log.With(map[string]interface{}{
			"stage": pipeline.StageRetriever,
		}),
	}
}

func (h *Handler) Name() string {
	return pipeline.StageRetriever
}

// Run resolves the product bundle and the brand profile. A missing product
// leaves the bundle empty; guideline extraction only happens when the
// request carried uploaded content, otherwise the default profile stands in.
func (h *Handler) Run(ctx context.Context, state pipeline.State) (pipeline.State, error) {
	sku := state.Request.PrimarySKU()

	bundle := models.ProductBundle{Related: []models.Product{}}
	product, err := h.store.Lookup(ctx, sku)
	switch {
	case err == nil:
		bundle.Primary = product
	case errors.Is(err, catalog.ErrProductNotFound):
		h.logger.Warn("primary product not found", map[string]interface{}{
			"requestId": state.RequestID,
			"sku":       sku,
		})
		state = state.WithWarning(pipeline.StageRetriever,
			fmt.Sprintf("product %s not found in catalog", sku))
	default:
		h.logger.Error("catalog lookup failed", map[string]interface{}{
			"requestId": state.RequestID,
			"sku":       sku,
			"error":     err.Error(),
		})
		state = state.WithWarning(pipeline.StageRetriever,
			fmt.Sprintf("catalog unavailable for %s: %v", sku, err))
	}

	if bundle.Primary != nil {
		related, err := h.store.Related(ctx, sku, h.config.RelatedLimit)
		if err != nil {
			h.logger.Warn("related products lookup failed", map[string]interface{}{
				"requestId": state.RequestID,
				"sku":       sku,
				"error":     err.Error(),
			})
			state = state.WithWarning(pipeline.StageRetriever,
				fmt.Sprintf("related products unavailable for %s: %v", sku, err))
		} else {
			bundle.Related = related
		}
		bundle.RecommendationCount = len(bundle.Related)
	}
	state.Bundle = bundle

	state = h.resolveBrand(ctx, state)

	h.logger.Info("retrieval finished", map[string]interface{}{
		"requestId":         state.RequestID,
		"hasPrimaryProduct": bundle.Primary != nil,
		"relatedCount":      len(bundle.Related),
		"brandFallback":     state.Brand.Fallback,
	})

	return state.WithMessage("Retrieved product data and processed brand guidelines"), nil
}

// resolveBrand runs extraction and, when the extracted profile is clean,
// the enhancement pass. Degraded profiles are kept as-is; enhancing a
// synthetic stand-in would only spend another model call on it.
func (h *Handler) resolveBrand(ctx context.Context, state pipeline.State) pipeline.State {
	if state.GuidelineContent == "" {
		state.Brand = guidelines.DefaultProfile()
		return state
	}

	profile := h.extractor.Extract(ctx, state.GuidelineContent)
	switch {
	case profile.Error != "":
		state = state.WithFallback(pipeline.StageRetriever,
			"guideline extraction degraded: "+profile.Error)
	case profile.ExtractedText != "":
		state = state.WithFallback(pipeline.StageRetriever,
			"guideline reply was unstructured, using inferred profile")
	default:
		profile = h.extractor.Enhance(ctx, profile, state.GuidelineContent)
	}

	state.Brand = profile
	return state
}
