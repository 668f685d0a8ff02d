// internal/stages/asset-curator/handler.go

// Package assetcurator implements the third pipeline stage: hero, grid and
// product image selection tuned by the brand profile.
package assetcurator

import (
	"context"

	"emailbuilder/internal/assets"
	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/models"
	"emailbuilder/internal/pipeline"
)

// Curator narrows assets.Curator to the single call the stage makes.
type Curator interface {
	Curate(ctx context.Context, templateType models.TemplateType, category string, brand models.BrandProfile) models.AssetSelection
}

type Handler struct {
	curator Curator
	logger  logger.Logger
}

func NewHandler(curator Curator, log logger.Logger) *Handler {
	return &Handler{
		curator: curator,
		logger: log.With(map[string]interface{}{
			"stage": pipeline.StageAssetCurator,
		}),
	}
}

func (h *Handler) Name() string {
	return pipeline.StageAssetCurator
}

// Run curates the asset selection for the template. A selection without a
// hero cannot style the template, so the whole set is swapped for the
// static fallback assets instead.
func (h *Handler) Run(ctx context.Context, state pipeline.State) (pipeline.State, error) {
	selection := h.curator.Curate(ctx, state.TemplateType, state.Category, state.Brand)

	if selection.Hero == nil {
		h.logger.Warn("curation produced no hero asset", map[string]interface{}{
			"requestId": state.RequestID,
			"category":  state.Category,
		})
		selection = assets.FallbackAssets(state.TemplateType, state.Category)
	}

	if selection.Fallback {
		state = state.WithFallback(pipeline.StageAssetCurator, "substituted fallback asset set")
	}
	state.Assets = selection

	h.logger.Info("assets curated", map[string]interface{}{
		"requestId":    state.RequestID,
		"gridCount":    len(selection.Grid),
		"productCount": len(selection.Products),
		"fallback":     selection.Fallback,
	})

	return state.WithMessage("Selected hero and grid images for template"), nil
}
