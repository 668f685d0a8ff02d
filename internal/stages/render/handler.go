// internal/stages/render/handler.go

// Package render implements the sixth and final pipeline stage: deterministic
// MJML compilation plus the HTML render call against the compiler sidecar.
// This is the only stage that can fail a run, and only when no template
// reached it.
package render

import (
	"context"
	"fmt"

	apperrors "emailbuilder/internal/common/errors"
	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/mjml"
	"emailbuilder/internal/pipeline"
	"emailbuilder/internal/renderer"
)

// Compiler narrows renderer.Client to the single call the stage makes.
type Compiler interface {
	Compile(ctx context.Context, doc string) (renderer.CompileResult, error)
}

type Handler struct {
	renderer Compiler
	logger   logger.Logger
}

func NewHandler(compiler Compiler, log logger.Logger) *Handler {
	return &Handler{
		renderer: compiler,
		logger: log.With(map[string]interface{}{
			"stage": pipeline.StageRender,
		}),
	}
}

func (h *Handler) Name() string {
	return pipeline.StageRender
}

// Run compiles the composed template to MJML and renders it to HTML. A
// sidecar failure swaps in the fallback documents and keeps the run alive;
// a missing template cannot be rendered at all and fails the pipeline.
func (h *Handler) Run(ctx context.Context, state pipeline.State) (pipeline.State, error) {
	if state.Template == nil {
		h.logger.Error("no template available for rendering", map[string]interface{}{
			"requestId": state.RequestID,
		})
		return state, apperrors.NewTemplateMissingError(state.RequestID)
	}

	doc := mjml.Compile(*state.Template, state.Tokens)

	result, err := h.renderer.Compile(ctx, doc)
	if err != nil {
		h.logger.Warn("HTML compilation failed, substituting fallback document", map[string]interface{}{
			"requestId": state.RequestID,
			"error":     err.Error(),
		})
		state.MJML = mjml.FallbackMJML(*state.Template)
		state.HTML = mjml.FallbackHTML(*state.Template)
		state.RenderWarnings = append(state.RenderWarnings, fmt.Sprintf("HTML compilation failed: %v", err))
		state = state.WithFallback(pipeline.StageRender, "renderer unavailable, substituted fallback HTML")
		return state.WithMessage("Template rendering completed"), nil
	}

	state.MJML = doc
	state.HTML = mjml.AddMetaTags(result.HTML)
	state.RenderWarnings = result.Warnings

	h.logger.Info("template rendered", map[string]interface{}{
		"requestId": state.RequestID,
		"htmlBytes": len(state.HTML),
		"warnings":  len(result.Warnings),
	})

	return state.WithMessage("Template rendering completed"), nil
}
