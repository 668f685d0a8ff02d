// internal/pipeline/runner.go

package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	apperrors "emailbuilder/internal/common/errors"
	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/common/metrics"
	"emailbuilder/internal/models"
)

// Stage names double as SSE step identifiers.
const (
	StageSupervisor     = "supervisor"
	StageRetriever      = "retriever"
	StageAssetCurator   = "asset_curator"
	StageCopywriter     = "copywriter"
	StageTemplateLayout = "template_layout"
	StageRender         = "render"

	StepComplete = "complete"
	StepResult   = "result"
	StepError    = "error"
)

// Checkpoints are the fixed progress values reported as each stage starts.
var Checkpoints = map[string]int{
	StageSupervisor:     10,
	StageRetriever:      25,
	StageAssetCurator:   45,
	StageCopywriter:     65,
	StageTemplateLayout: 80,
	StageRender:         95,
}

var stageMessages = map[string]string{
	StageSupervisor:     "Initializing generation workflow...",
	StageRetriever:      "Retrieving products and analyzing brand guidelines...",
	StageAssetCurator:   "Selecting images for each section...",
	StageCopywriter:     "Generating email copy...",
	StageTemplateLayout: "Composing structured email template...",
	StageRender:         "Rendering MJML to final HTML...",
}

const completeMessage = "Email generated successfully!"

// Stage is one step of the pipeline. Run returns the augmented state; an
// error aborts the whole generation, so stages with a local fallback must
// swallow their collaborator failures and return nil.
type Stage interface {
	Name() string
	Run(ctx context.Context, state State) (State, error)
}

// RunnerConfig tunes the runner. StreamDelay spaces progress emission from
// stage execution on the streaming path; stage timeouts bound each stage's
// context, zero meaning unbounded.
type RunnerConfig struct {
	StreamDelay   time.Duration
	StageTimeouts map[string]time.Duration
}

// Runner executes the stages strictly in order.
type Runner struct {
	stages []Stage
	config RunnerConfig
	logger logger.Logger
}

func NewRunner(stages []Stage, cfg RunnerConfig, log logger.Logger) (*Runner, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("pipeline needs at least one stage")
	}
	return &Runner{
		stages: stages,
		config: cfg,
		logger: log.With(map[string]interface{}{"component": "pipeline"}),
	}, nil
}

// Run executes the full pipeline and returns the final state.
func (r *Runner) Run(ctx context.Context, initial State) (State, error) {
	metrics.GenerationsActive.WithLabelValues(string(initial.TemplateType)).Inc()
	defer metrics.GenerationsActive.WithLabelValues(string(initial.TemplateType)).Dec()

	state := initial
	for _, stage := range r.stages {
		var err error
		state, err = r.runStage(ctx, stage, state)
		if err != nil {
			return state, err
		}
	}
	return state, nil
}

// Stream executes the pipeline while emitting progress frames. One frame
// precedes every stage; the stream always ends with exactly one terminal
// event: complete+result on success, error on failure.
func (r *Runner) Stream(ctx context.Context, initial State, emit func(event interface{})) (State, error) {
	if emit == nil {
		emit = func(interface{}) {}
	}

	metrics.GenerationsActive.WithLabelValues(string(initial.TemplateType)).Inc()
	defer metrics.GenerationsActive.WithLabelValues(string(initial.TemplateType)).Dec()

	state := initial
	for _, stage := range r.stages {
		name := stage.Name()
		emit(models.ProgressEvent{
			Step:     name,
			Agent:    name,
			Message:  stageMessages[name],
			Progress: Checkpoints[name],
		})

		if r.config.StreamDelay > 0 {
			select {
			case <-time.After(r.config.StreamDelay):
			case <-ctx.Done():
				err := apperrors.NewPipelineError(name, ctx.Err())
				emit(models.ProgressEvent{Step: StepError, Message: errorMessage(err), Progress: 0})
				return state, err
			}
		}

		var err error
		state, err = r.runStage(ctx, stage, state)
		if err != nil {
			emit(models.ProgressEvent{Step: StepError, Message: errorMessage(err), Progress: 0})
			return state, err
		}
	}

	emit(models.ProgressEvent{
		Step:     StepComplete,
		Agent:    StageSupervisor,
		Message:  completeMessage,
		Progress: 100,
	})
	emit(models.ResultEvent{Step: StepResult, Result: state.Result()})

	return state, nil
}

func (r *Runner) runStage(ctx context.Context, stage Stage, state State) (State, error) {
	name := stage.Name()

	stageCtx := ctx
	if timeout := r.config.StageTimeouts[name]; timeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	next, err := stage.Run(stageCtx, state)
	elapsed := time.Since(start)
	metrics.StageDuration.WithLabelValues(name).Observe(elapsed.Seconds())

	if err != nil {
		pipeErr := apperrors.NewPipelineError(name, err)
		metrics.StageFailed.WithLabelValues(name, string(pipeErr.Code)).Inc()
		r.logger.Error("Stage failed", map[string]interface{}{
			"stage":     name,
			"requestId": state.RequestID,
			"code":      string(pipeErr.Code),
			"error":     err.Error(),
		})
		return next, pipeErr
	}

	status := StageStatus{Stage: name, Status: "completed", DurationMs: elapsed.Milliseconds()}
	if next.UsedFallback(name) {
		status.Fallback = true
		metrics.StageFallbacks.WithLabelValues(name).Inc()
	}
	next.Stages = append(next.Stages, status)

	metrics.StageCompleted.WithLabelValues(name).Inc()
	r.logger.Debug("Stage completed", map[string]interface{}{
		"stage":      name,
		"requestId":  state.RequestID,
		"durationMs": elapsed.Milliseconds(),
		"fallback":   status.Fallback,
	})
	return next, nil
}

// errorMessage keeps the user-facing frame free of wrapper noise.
func errorMessage(err error) string {
	var pipeErr *apperrors.PipelineError
	if stderrors.As(err, &pipeErr) {
		return fmt.Sprintf("Error: %s", pipeErr.Message)
	}
	return fmt.Sprintf("Error: %v", err)
}
