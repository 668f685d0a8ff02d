// internal/stages/template-layout/handler.go

// Package templatelayout implements the fifth pipeline stage: design token
// resolution, block composition and template validation. Validation is
// advisory; a failed report is recorded on the state and the template ships
// anyway.
package templatelayout

import (
	"context"
	"fmt"

	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/models"
	"emailbuilder/internal/pipeline"
	"emailbuilder/internal/template"
)

// TokenSource narrows tokens.Loader to the single call the stage makes.
type TokenSource interface {
	Load(ctx context.Context, templateType models.TemplateType) (models.DesignTokens, error)
}

// Validator narrows template.Validator.
type Validator interface {
	Validate(tmpl models.EmailTemplate) models.ValidationReport
}

type Handler struct {
	tokens    TokenSource
	validator Validator
	logger    logger.Logger
}

func NewHandler(tokens TokenSource, validator Validator, log logger.Logger) *Handler {
	return &Handler{
		tokens:    tokens,
		validator: validator,
		logger: log.With(map[string]interface{}{
			"stage": pipeline.StageTemplateLayout,
		}),
	}
}

func (h *Handler) Name() string {
	return pipeline.StageTemplateLayout
}

func (h *Handler) Run(ctx context.Context, state pipeline.State) (pipeline.State, error) {
	designTokens, err := h.tokens.Load(ctx, state.TemplateType)
	if err != nil {
		// Load already substituted the builtin defaults; the error only
		// explains why.
		h.logger.Warn("design token load degraded to defaults", map[string]interface{}{
			"requestId":    state.RequestID,
			"templateType": string(state.TemplateType),
			"error":        err.Error(),
		})
		state = state.WithWarning(pipeline.StageTemplateLayout,
			fmt.Sprintf("design tokens degraded to defaults: %v", err))
	}
	state.Tokens = designTokens

	tmpl := template.Compose(state.TemplateType, state.Copy, state.Bundle, state.Assets, state.Locale)
	state.Template = &tmpl

	report := h.validator.Validate(tmpl)
	state.Validation = &report
	if !report.Valid {
		h.logger.Warn("composed template failed validation", map[string]interface{}{
			"requestId": state.RequestID,
			"errors":    report.Errors,
		})
		state = state.WithWarning(pipeline.StageTemplateLayout, report.Summary)
	}

	h.logger.Info("template composed", map[string]interface{}{
		"requestId":     state.RequestID,
		"blocks":        len(tmpl.Blocks),
		"tokensVersion": designTokens.Version,
		"valid":         report.Valid,
	})

	return state.WithMessage(fmt.Sprintf("Composed template JSON with %d blocks", len(tmpl.Blocks))), nil
}
