package copywriter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/copywrite"
	"emailbuilder/internal/models"
	"emailbuilder/internal/pipeline"
)

// ==========================
// Stub Collaborators
// ==========================

type stubWriter struct {
	copySet models.EmailCopy

	templateType models.TemplateType
	product      *models.Product
	brand        models.BrandProfile
	locale       string
}

func (s *stubWriter) Generate(ctx context.Context, templateType models.TemplateType, product *models.Product, brand models.BrandProfile, locale string) models.EmailCopy {
	s.templateType = templateType
	s.product = product
	s.brand = brand
	s.locale = locale
	return s.copySet
}

// ==========================
// Helpers
// ==========================

func postPurchaseState() pipeline.State {
	state := pipeline.NewState(models.GenerateRequest{
		TemplateType: models.TemplateTypePostPurchase,
		SKUs:         []string{"SKU-1"},
		Locale:       "it",
	})
	state.Bundle = models.ProductBundle{
		Primary: &models.Product{SKU: "SKU-1", Name: "Trail Backpack"},
		Related: []models.Product{},
	}
	state.Brand = models.BrandProfile{Tone: "warm"}
	return state
}

// ==========================
// Tests
// ==========================

func TestName(t *testing.T) {
	handler := NewHandler(&stubWriter{}, logger.NewTestLogger(t))
	assert.Equal(t, "copywriter", handler.Name())
}

func TestRun_StoresGeneratedCopy(t *testing.T) {
	writer := &stubWriter{copySet: models.EmailCopy{
		Subject:    "Thanks for your order",
		Preheader:  "It ships soon",
		Headline:   "Grazie!",
		CTAPrimary: "Track Order",
	}}
	handler := NewHandler(writer, logger.NewTestLogger(t))

	next, err := handler.Run(context.Background(), postPurchaseState())

	require.NoError(t, err)
	assert.Equal(t, models.TemplateTypePostPurchase, writer.templateType)
	require.NotNil(t, writer.product)
	assert.Equal(t, "SKU-1", writer.product.SKU)
	assert.Equal(t, "warm", writer.brand.Tone)
	assert.Equal(t, "it", writer.locale)

	assert.Equal(t, "Thanks for your order", next.Copy.Subject)
	assert.Empty(t, next.FallbackStages)
	assert.Contains(t, next.Messages, "Generated email copy content")
}

func TestRun_NilProductPassesThrough(t *testing.T) {
	writer := &stubWriter{copySet: models.EmailCopy{Subject: "Hello"}}
	handler := NewHandler(writer, logger.NewTestLogger(t))

	state := postPurchaseState()
	state.Bundle.Primary = nil

	_, err := handler.Run(context.Background(), state)

	require.NoError(t, err)
	assert.Nil(t, writer.product)
}

func TestRun_FallbackCopyMarksStage(t *testing.T) {
	writer := &stubWriter{
		copySet: copywrite.FallbackCopy(models.TemplateTypePostPurchase, &models.Product{Name: "Trail Backpack"}),
	}
	handler := NewHandler(writer, logger.NewTestLogger(t))

	next, err := handler.Run(context.Background(), postPurchaseState())

	require.NoError(t, err)
	assert.True(t, next.UsedFallback("copywriter"))
	assert.Equal(t, "Thank you for your purchase!", next.Copy.Subject)
	require.Len(t, next.Warnings, 1)
	assert.Equal(t, "substituted fallback copy", next.Warnings[0].Message)
}
