// internal/guidelines/extractor_test.go
package guidelines

import (
	"context"
	"errors"
	"strings"
	"testing"

	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/llm"
	"emailbuilder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type stubCompleter struct {
	reply    string
	err      error
	lastReq  llm.Request
	requests int
}

func (s *stubCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	s.lastReq = req
	s.requests++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newExtractor(t *testing.T, stub *stubCompleter) *Extractor {
	return NewExtractor(Config{Model: "gpt-3.5-turbo", Temperature: 0.1}, stub, logger.NewTestLogger(t))
}

// ==========================
// Extract Tests
// ==========================

func TestExtractor_Extract_StructuredReply(t *testing.T) {
	stub := &stubCompleter{reply: `{
		"tone": "playful",
		"colors": ["#ff4081", "#3f51b5"],
		"style": "bold",
		"messaging": "adventure first",
		"restrictions": "no discount language",
		"templateFocus": "outdoor lifestyle"
	}`}

	profile := newExtractor(t, stub).Extract(context.Background(), "Our brand voice is playful...")

	assert.Equal(t, "playful", profile.Tone)
	assert.Equal(t, []string{"#ff4081", "#3f51b5"}, profile.Colors)
	assert.Equal(t, "outdoor lifestyle", profile.TemplateFocus)
	assert.False(t, profile.Fallback)
	assert.Empty(t, profile.Error)

	assert.Equal(t, "gpt-3.5-turbo", stub.lastReq.Model)
	assert.InDelta(t, 0.1, stub.lastReq.Temperature, 0.0001)
}

func TestExtractor_Extract_TruncatesLongContent(t *testing.T) {
	stub := &stubCompleter{reply: `{"tone": "calm"}`}
	long := strings.Repeat("x", maxContentLength+500)

	newExtractor(t, stub).Extract(context.Background(), long)

	userMsg := stub.lastReq.Messages[1].Content
	assert.LessOrEqual(t, len(userMsg), maxContentLength+len("Analyze this content for brand guidelines:\n\n"))
}

func TestExtractor_Extract_UnparseableReply(t *testing.T) {
	stub := &stubCompleter{reply: "The brand feels warm and trustworthy overall."}

	profile := newExtractor(t, stub).Extract(context.Background(), "content")

	assert.Equal(t, "professional", profile.Tone)
	assert.Equal(t, []string{"primary", "secondary"}, profile.Colors)
	assert.Equal(t, "modern", profile.Style)
	assert.Equal(t, "quality and reliability", profile.Messaging)
	assert.Equal(t, "none specified", profile.Restrictions)
	assert.Equal(t, "product quality and brand trust", profile.TemplateFocus)
	assert.Equal(t, stub.reply, profile.ExtractedText)
}

func TestExtractor_Extract_TransportError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("connection refused")}

	profile := newExtractor(t, stub).Extract(context.Background(), "content")

	assert.Equal(t, "professional", profile.Tone)
	assert.Equal(t, []string{"brand primary", "brand secondary"}, profile.Colors)
	assert.Equal(t, "clean and modern", profile.Style)
	assert.Equal(t, "quality products and customer focus", profile.Messaging)
	assert.Equal(t, "maintain brand consistency", profile.Restrictions)
	assert.Equal(t, "highlight product value and brand trust", profile.TemplateFocus)
	assert.Contains(t, profile.Error, "Could not fully analyze guidelines")
	assert.Contains(t, profile.Error, "connection refused")
}

// ==========================
// Enhance Tests
// ==========================

func TestExtractor_Enhance_MergesEmailSpecific(t *testing.T) {
	stub := &stubCompleter{reply: `{
		"cart_abandon": "lean on scarcity",
		"post_purchase": "celebrate the purchase"
	}`}

	base := models.BrandProfile{Tone: "playful", Style: "bold"}
	enhanced := newExtractor(t, stub).Enhance(context.Background(), base, "file content")

	assert.True(t, enhanced.Enhanced)
	assert.Equal(t, "playful", enhanced.Tone)
	assert.Equal(t, "bold", enhanced.Style)
	assert.Equal(t, "lean on scarcity", enhanced.EmailSpecific["cart_abandon"])
	assert.Equal(t, "celebrate the purchase", enhanced.EmailSpecific["post_purchase"])
}

func TestExtractor_Enhance_FreeformReplyKeptAsInsights(t *testing.T) {
	stub := &stubCompleter{reply: "Lean into urgency for abandoned carts."}

	base := models.BrandProfile{Tone: "calm"}
	enhanced := newExtractor(t, stub).Enhance(context.Background(), base, "file content")

	assert.True(t, enhanced.Enhanced)
	assert.Equal(t, "calm", enhanced.Tone)
	assert.Empty(t, enhanced.EmailSpecific)
	assert.Equal(t, stub.reply, enhanced.AdditionalInsights)
}

func TestExtractor_Enhance_TransportErrorReturnsBase(t *testing.T) {
	stub := &stubCompleter{err: errors.New("timeout")}

	base := models.BrandProfile{Tone: "calm", Colors: []string{"#111111"}}
	enhanced := newExtractor(t, stub).Enhance(context.Background(), base, "file content")

	assert.Equal(t, base, enhanced)
	assert.False(t, enhanced.Enhanced)
}

func TestExtractor_Enhance_SamplesFileContent(t *testing.T) {
	stub := &stubCompleter{reply: `{"cart_abandon": "x"}`}
	long := strings.Repeat("y", enhanceSampleLength+2000)

	newExtractor(t, stub).Enhance(context.Background(), models.BrandProfile{}, long)

	assert.NotContains(t, stub.lastReq.Messages[1].Content, strings.Repeat("y", enhanceSampleLength+1))
}

// ==========================
// Default Profile Tests
// ==========================

func TestDefaultProfile(t *testing.T) {
	profile := DefaultProfile()

	require.True(t, profile.Fallback)
	assert.Equal(t, "professional and friendly", profile.Tone)
	assert.Equal(t, []string{"#007bff", "#6c757d"}, profile.Colors)
	assert.Equal(t, "clean and modern", profile.Style)
	assert.Equal(t, "customer-focused and trustworthy", profile.Messaging)
	assert.Equal(t, "maintain professional appearance", profile.Restrictions)
	assert.Equal(t, "clear product presentation and strong call-to-action", profile.TemplateFocus)
	assert.Equal(t, "create urgency while remaining helpful", profile.EmailSpecific["cart_abandon"])
	assert.Equal(t, "express gratitude and build loyalty", profile.EmailSpecific["post_purchase"])
	assert.Equal(t, "provide clear information and build trust", profile.EmailSpecific["order_confirmation"])
}
