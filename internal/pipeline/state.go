// internal/pipeline/state.go

// Package pipeline runs the six-stage email generation sequence over a
// shared typed state. Stages receive the state by value and return an
// augmented copy; a stage never rewrites fields an earlier stage owns.
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"emailbuilder/internal/models"
)

// StageWarning is a non-fatal degradation recorded by a stage.
type StageWarning struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// StageStatus summarizes one finished stage execution. The runner appends
// one per stage in execution order.
type StageStatus struct {
	Stage      string `json:"stage"`
	Status     string `json:"status"`
	Fallback   bool   `json:"fallback,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

// State carries everything one generation accumulates. Field groups map
// onto the stage that owns them.
type State struct {
	RequestID    string
	Request      models.GenerateRequest
	TemplateType models.TemplateType
	Locale       string
	Category     string

	// Raw uploaded brand guideline text, resolved before the run starts.
	GuidelineContent string

	// retriever
	Brand  models.BrandProfile
	Bundle models.ProductBundle

	// asset_curator
	Assets models.AssetSelection

	// copywriter
	Copy models.EmailCopy

	// template_layout
	Tokens     models.DesignTokens
	Template   *models.EmailTemplate
	Validation *models.ValidationReport

	// render
	MJML           string
	HTML           string
	RenderWarnings []string

	Messages       []string
	Warnings       []StageWarning
	FallbackStages []string
	Stages         []StageStatus
}

// NewState seeds a fresh request-scoped state. Locale defaults to "en" and
// category to "general" when the request leaves them blank.
func NewState(req models.GenerateRequest) State {
	locale := req.Locale
	if locale == "" {
		locale = "en"
	}
	category := req.Category
	if category == "" {
		category = "general"
	}

	return State{
		RequestID:    uuid.NewString(),
		Request:      req,
		TemplateType: req.TemplateType,
		Locale:       locale,
		Category:     category,
	}
}

// WithMessage appends to the ordered stage log.
func (s State) WithMessage(msg string) State {
	s.Messages = append(s.Messages, msg)
	return s
}

// WithWarning records a non-fatal degradation for a stage.
func (s State) WithWarning(stage, msg string) State {
	s.Warnings = append(s.Warnings, StageWarning{Stage: stage, Message: msg})
	return s
}

// WithFallback records that a stage substituted fallback content, with the
// reason doubling as a warning.
func (s State) WithFallback(stage, reason string) State {
	s.FallbackStages = append(s.FallbackStages, stage)
	return s.WithWarning(stage, reason)
}

// UsedFallback reports whether the named stage substituted fallback content.
func (s State) UsedFallback(stage string) bool {
	for _, name := range s.FallbackStages {
		if name == stage {
			return true
		}
	}
	return false
}

// Result builds the success payload from the accumulated state.
func (s State) Result() models.GenerateResult {
	result := models.GenerateResult{
		Success:       true,
		HTML:          s.HTML,
		MJML:          s.MJML,
		TokensVersion: s.Tokens.Version,
	}
	if s.Template != nil {
		result.JSONTemplate = *s.Template
	}
	return result
}

// Record flattens the finished state into its archive document.
func (s State) Record(duration time.Duration) models.GenerationRecord {
	record := models.GenerationRecord{
		RequestID:      s.RequestID,
		TemplateType:   s.TemplateType,
		Locale:         s.Locale,
		Success:        true,
		FallbackStages: s.FallbackStages,
		DurationMs:     duration.Milliseconds(),
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if s.Template != nil {
		record.Subject = s.Template.Subject
		record.Preheader = s.Template.Preheader
		record.BlockCount = len(s.Template.Blocks)
	}
	return record
}
