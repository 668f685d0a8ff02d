// internal/stages/supervisor/handler.go

// Package supervisor implements the first pipeline stage: request analysis.
// It validates the inbound request shape and seeds the run log before any
// retrieval happens.
package supervisor

import (
	"context"
	"fmt"

	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/pipeline"
)

type Handler struct {
	logger logger.Logger
}

func NewHandler(log logger.Logger) *Handler {
	return &Handler{
		logger: log.With(map[string]interface{}{
			"stage": pipeline.StageSupervisor,
		}),
	}
}

func (h *Handler) Name() string {
	return pipeline.StageSupervisor
}

// Run analyzes the request. An unknown template type is not fatal: every
// downstream table degrades to its cart_abandon defaults, so the stage
// records a warning and keeps going.
func (h *Handler) Run(ctx context.Context, state pipeline.State) (pipeline.State, error) {
	sku := state.Request.PrimarySKU()

	if !state.TemplateType.IsValid() {
		h.logger.Warn("unknown template type", map[string]interface{}{
			"requestId":    state.RequestID,
			"templateType": string(state.TemplateType),
		})
		state = state.WithWarning(pipeline.StageSupervisor,
			fmt.Sprintf("unknown template type %q, continuing with default styling", state.TemplateType))
	}

	if len(state.Request.SKUs) == 0 {
		state = state.WithWarning(pipeline.StageSupervisor,
			"no SKUs in request, continuing with placeholder "+sku)
	} else if sku == "" {
		state = state.WithWarning(pipeline.StageSupervisor, "primary SKU is empty")
	}

	h.logger.Info("request analyzed", map[string]interface{}{
		"requestId":    state.RequestID,
		"templateType": string(state.TemplateType),
		"sku":          sku,
		"locale":       state.Locale,
		"category":     state.Category,
	})

	return state.WithMessage(fmt.Sprintf("Analyzing %s template request for SKU: %s", state.TemplateType, sku)), nil
}
