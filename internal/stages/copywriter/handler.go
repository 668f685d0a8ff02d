// internal/stages/copywriter/handler.go

// Package copywriter implements the fourth pipeline stage: subject, body and
// microcopy generation. The writer itself degrades to per-type fallback copy,
// so the stage only has to record when that happened.
package copywriter

import (
	"context"

	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/models"
	"emailbuilder/internal/pipeline"
)

// Writer narrows copywrite.Writer to the single call the stage makes.
type Writer interface {
	Generate(ctx context.Context, templateType models.TemplateType, product *models.Product, brand models.BrandProfile, locale string) models.EmailCopy
}

type Handler struct {
	writer Writer
	logger logger.Logger
}

func NewHandler(writer Writer, log logger.Logger) *Handler {
	return &Handler{
		writer: writer,
		logger: log.With(map[string]interface{}{
			"stage": pipeline.StageCopywriter,
		}),
	}
}

func (h *Handler) Name() string {
	return pipeline.StageCopywriter
}

func (h *Handler) Run(ctx context.Context, state pipeline.State) (pipeline.State, error) {
	copySet := h.writer.Generate(ctx, state.TemplateType, state.Bundle.Primary, state.Brand, state.Locale)

	if copySet.Fallback {
		h.logger.Warn("copy generation degraded to fallback set", map[string]interface{}{
			"requestId":    state.RequestID,
			"templateType": string(state.TemplateType),
		})
		state = state.WithFallback(pipeline.StageCopywriter, "substituted fallback copy")
	}
	state.Copy = copySet

	h.logger.Info("copy generated", map[string]interface{}{
		"requestId": state.RequestID,
		"subject":   copySet.Subject,
		"fallback":  copySet.Fallback,
	})

	return state.WithMessage("Generated email copy content"), nil
}
