// internal/tokens/loader_test.go
package tokens

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"emailbuilder/internal/common/config"
	"emailbuilder/internal/common/database"
	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func setupCache(t *testing.T) (*database.RedisClient, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func writeTokensFile(t *testing.T, dir string, templateType models.TemplateType, content string) {
	t.Helper()
	path := filepath.Join(dir, string(templateType)+".json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const customTokensJSON = `{
	"version": "2.4.0",
	"colors": {
		"primary": "#0f766e",
		"secondary": "#475569",
		"surface": "#ffffff",
		"background": "#f0fdfa",
		"text": "#134e4a",
		"textSecondary": "#64748b"
	},
	"fonts": {
		"primary": "Helvetica, Arial, sans-serif",
		"heading": {"size": "28px", "weight": "800", "lineHeight": "1.1"},
		"body": {"size": "15px", "weight": "400", "lineHeight": "1.6"}
	},
	"spacing": {"xs": "2px", "sm": "6px", "md": "12px", "lg": "20px", "xl": "28px"},
	"radius": {"card": "10px", "button": "4px"}
}`

// ==========================
// Defaults Tests
// ==========================

func TestDefaults(t *testing.T) {
	tokens := Defaults()

	assert.Equal(t, "1.0.0", tokens.Version)
	assert.Equal(t, "#dc2626", tokens.Colors.Primary)
	assert.Equal(t, "#64748b", tokens.Colors.Secondary)
	assert.Equal(t, "#f8fafc", tokens.Colors.Background)
	assert.Equal(t, "Arial, sans-serif", tokens.Fonts.Primary)
	assert.Equal(t, "24px", tokens.Fonts.Heading.Size)
	assert.Equal(t, "700", tokens.Fonts.Heading.Weight)
	assert.Equal(t, "16px", tokens.Spacing.MD)
	assert.Equal(t, "6px", tokens.Radius.Button)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestLoader_Load_FromFile(t *testing.T) {
	dir := t.TempDir()
	writeTokensFile(t, dir, models.TemplateTypeCartAbandon, customTokensJSON)

	loader := NewLoader(dir, nil, time.Minute, logger.NewTestLogger(t))
	tokens, err := loader.Load(context.Background(), models.TemplateTypeCartAbandon)

	require.NoError(t, err)
	assert.Equal(t, "2.4.0", tokens.Version)
	assert.Equal(t, "#0f766e", tokens.Colors.Primary)
	assert.Equal(t, "Helvetica, Arial, sans-serif", tokens.Fonts.Primary)
	assert.Equal(t, "28px", tokens.Fonts.Heading.Size)
	assert.Equal(t, "12px", tokens.Spacing.MD)
	assert.Equal(t, "10px", tokens.Radius.Card)
}

func TestLoader_Load_MissingFile(t *testing.T) {
	loader := NewLoader(t.TempDir(), nil, time.Minute, logger.NewTestLogger(t))

	tokens, err := loader.Load(context.Background(), models.TemplateTypePostPurchase)

	require.NoError(t, err)
	assert.Equal(t, Defaults(), tokens)
	assert.Equal(t, "1.0.0", tokens.Version)
}

func TestLoader_Load_UnknownTemplateType(t *testing.T) {
	loader := NewLoader(t.TempDir(), nil, time.Minute, logger.NewTestLogger(t))

	tokens, err := loader.Load(context.Background(), models.TemplateType("holiday_sale"))

	require.NoError(t, err)
	assert.Equal(t, "1.0.0", tokens.Version)
	assert.Equal(t, "#dc2626", tokens.Colors.Primary)
}

func TestLoader_Load_BadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "corrupt json",
			content: `{"version": "2.0.0", "colors": {`,
		},
		{
			name:    "invalid hex color",
			content: `{"version": "2.0.0", "colors": {"primary": "red"}}`,
		},
		{
			name:    "hex color missing hash",
			content: `{"version": "2.0.0", "colors": {"secondary": "64748b"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeTokensFile(t, dir, models.TemplateTypeOrderConfirmation, tt.content)

			loader := NewLoader(dir, nil, time.Minute, logger.NewTestLogger(t))
			tokens, err := loader.Load(context.Background(), models.TemplateTypeOrderConfirmation)

			assert.Error(t, err)
			assert.Equal(t, Defaults(), tokens)
		})
	}
}

func TestLoader_Load_EmptyVersionGetsDefault(t *testing.T) {
	dir := t.TempDir()
	writeTokensFile(t, dir, models.TemplateTypeCartAbandon, `{
		"colors": {"primary": "#111827"},
		"spacing": {"md": "14px"}
	}`)

	loader := NewLoader(dir, nil, time.Minute, logger.NewTestLogger(t))
	tokens, err := loader.Load(context.Background(), models.TemplateTypeCartAbandon)

	require.NoError(t, err)
	assert.Equal(t, "1.0.0", tokens.Version)
	assert.Equal(t, "#111827", tokens.Colors.Primary)
	assert.Equal(t, "14px", tokens.Spacing.MD)
}

// ==========================
// Cache Tests
// ==========================

func TestLoader_Load_CachesResult(t *testing.T) {
	cache, mr := setupCache(t)
	dir := t.TempDir()
	writeTokensFile(t, dir, models.TemplateTypeCartAbandon, customTokensJSON)

	loader := NewLoader(dir, cache, time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	first, err := loader.Load(ctx, models.TemplateTypeCartAbandon)
	require.NoError(t, err)
	assert.Equal(t, "2.4.0", first.Version)
	assert.True(t, mr.Exists("tokens:cart_abandon"))

	// A changed file must not be picked up while the cache entry lives.
	writeTokensFile(t, dir, models.TemplateTypeCartAbandon, `{"version": "9.9.9"}`)

	second, err := loader.Load(ctx, models.TemplateTypeCartAbandon)
	require.NoError(t, err)
	assert.Equal(t, "2.4.0", second.Version)
	assert.Equal(t, first.Colors, second.Colors)
}

func TestLoader_Load_CacheCommandSequence(t *testing.T) {
	dir := t.TempDir()
	writeTokensFile(t, dir, models.TemplateTypeCartAbandon, customTokensJSON)

	var loaded models.DesignTokens
	require.NoError(t, json.Unmarshal([]byte(customTokensJSON), &loaded))
	payload, err := json.Marshal(loaded)
	require.NoError(t, err)

	client, mock := redismock.NewClientMock()
	mock.ExpectGet("tokens:cart_abandon").RedisNil()
	mock.ExpectSet("tokens:cart_abandon", payload, time.Minute).SetVal("OK")

	loader := NewLoader(dir, &database.RedisClient{Client: client}, time.Minute, logger.NewTestLogger(t))
	tokens, err := loader.Load(context.Background(), models.TemplateTypeCartAbandon)

	require.NoError(t, err)
	assert.Equal(t, "2.4.0", tokens.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoader_Load_CacheExpiry(t *testing.T) {
	cache, mr := setupCache(t)
	dir := t.TempDir()
	writeTokensFile(t, dir, models.TemplateTypeCartAbandon, customTokensJSON)

	loader := NewLoader(dir, cache, time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	_, err := loader.Load(ctx, models.TemplateTypeCartAbandon)
	require.NoError(t, err)

	writeTokensFile(t, dir, models.TemplateTypeCartAbandon, `{"version": "3.0.0"}`)
	mr.FastForward(2 * time.Minute)

	tokens, err := loader.Load(ctx, models.TemplateTypeCartAbandon)
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", tokens.Version)
}

func TestLoader_Load_CorruptCacheEntryFallsThrough(t *testing.T) {
	cache, mr := setupCache(t)
	dir := t.TempDir()
	writeTokensFile(t, dir, models.TemplateTypeCartAbandon, customTokensJSON)

	require.NoError(t, mr.Set("tokens:cart_abandon", "not-json"))

	loader := NewLoader(dir, cache, time.Minute, logger.NewTestLogger(t))
	tokens, err := loader.Load(context.Background(), models.TemplateTypeCartAbandon)

	require.NoError(t, err)
	assert.Equal(t, "2.4.0", tokens.Version)
}

func TestLoader_Load_CacheUnavailable(t *testing.T) {
	cache, mr := setupCache(t)
	dir := t.TempDir()
	writeTokensFile(t, dir, models.TemplateTypeCartAbandon, customTokensJSON)

	// Tokens still come from disk when Redis is down.
	mr.Close()

	loader := NewLoader(dir, cache, time.Minute, logger.NewTestLogger(t))
	tokens, err := loader.Load(context.Background(), models.TemplateTypeCartAbandon)

	require.NoError(t, err)
	assert.Equal(t, "2.4.0", tokens.Version)
}

func TestLoader_Load_NilCache(t *testing.T) {
	dir := t.TempDir()
	writeTokensFile(t, dir, models.TemplateTypeCartAbandon, customTokensJSON)

	loader := NewLoader(dir, nil, time.Minute, logger.NewTestLogger(t))

	for i := 0; i < 2; i++ {
		tokens, err := loader.Load(context.Background(), models.TemplateTypeCartAbandon)
		require.NoError(t, err)
		assert.Equal(t, "2.4.0", tokens.Version)
	}
}
