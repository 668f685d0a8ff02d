package supervisor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/models"
	"emailbuilder/internal/pipeline"
)

// ==========================
// Helpers
// ==========================

func newHandler(t *testing.T) *Handler {
	return NewHandler(logger.NewTestLogger(t))
}

func stateFor(req models.GenerateRequest) pipeline.State {
	return pipeline.NewState(req)
}

// ==========================
// Tests
// ==========================

func TestName(t *testing.T) {
	assert.Equal(t, "supervisor", newHandler(t).Name())
}

func TestRun_RecordsAnalysisMessage(t *testing.T) {
	state := stateFor(models.GenerateRequest{
		TemplateType: models.TemplateTypeCartAbandon,
		SKUs:         []string{"SKU-1"},
	})

	next, err := newHandler(t).Run(context.Background(), state)

	require.NoError(t, err)
	require.Len(t, next.Messages, 1)
	assert.Equal(t, "Analyzing cart_abandon template request for SKU: SKU-1", next.Messages[0])
	assert.Empty(t, next.Warnings)
}

func TestRun_UnknownTemplateTypeWarnsAndContinues(t *testing.T) {
	state := stateFor(models.GenerateRequest{
		TemplateType: models.TemplateType("winback"),
		SKUs:         []string{"SKU-9"},
	})

	next, err := newHandler(t).Run(context.Background(), state)

	require.NoError(t, err)
	require.Len(t, next.Warnings, 1)
	assert.Equal(t, "supervisor", next.Warnings[0].Stage)
	assert.Contains(t, next.Warnings[0].Message, `unknown template type "winback"`)
	require.Len(t, next.Messages, 1)
	assert.Equal(t, "Analyzing winback template request for SKU: SKU-9", next.Messages[0])
}

func TestRun_MissingSKUsUsesPlaceholder(t *testing.T) {
	state := stateFor(models.GenerateRequest{
		TemplateType: models.TemplateTypePostPurchase,
	})

	next, err := newHandler(t).Run(context.Background(), state)

	require.NoError(t, err)
	require.Len(t, next.Warnings, 1)
	assert.Contains(t, next.Warnings[0].Message, "DEFAULT-SKU")
	require.Len(t, next.Messages, 1)
	assert.Equal(t, "Analyzing post_purchase template request for SKU: DEFAULT-SKU", next.Messages[0])
}

func TestRun_EmptyPrimarySKUWarns(t *testing.T) {
	state := stateFor(models.GenerateRequest{
		TemplateType: models.TemplateTypeOrderConfirmation,
		SKUs:         []string{""},
	})

	next, err := newHandler(t).Run(context.Background(), state)

	require.NoError(t, err)
	require.Len(t, next.Warnings, 1)
	assert.Equal(t, "primary SKU is empty", next.Warnings[0].Message)
}

func TestRun_DoesNotMarkFallback(t *testing.T) {
	state := stateFor(models.GenerateRequest{
		TemplateType: models.TemplateType("winback"),
	})

	next, err := newHandler(t).Run(context.Background(), state)

	require.NoError(t, err)
	assert.Empty(t, next.FallbackStages)
}
