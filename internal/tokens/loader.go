// internal/tokens/loader.go
package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"emailbuilder/internal/common/database"
	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/common/validation"
	"emailbuilder/internal/models"

	"github.com/redis/go-redis/v9"
)

// Loader resolves design tokens per template type from {dir}/{type}.json,
// optionally caching resolved sets in Redis. Load always returns usable
// tokens: a missing file yields the defaults, a corrupt file yields the
// defaults plus the error so callers can log it.
type Loader struct {
	dir    string
	cache  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewLoader(dir string, cache *database.RedisClient, ttl time.Duration, log logger.Logger) *Loader {
	return &Loader{
		dir:    dir,
		cache:  cache,
		ttl:    ttl,
		logger: log,
	}
}

func (l *Loader) Load(ctx context.Context, templateType models.TemplateType) (models.DesignTokens, error) {
	if tokens, ok := l.fromCache(ctx, templateType); ok {
		return tokens, nil
	}

	path := filepath.Join(l.dir, string(templateType)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return Defaults(), fmt.Errorf("read tokens for %s: %w", templateType, err)
	}

	var tokens models.DesignTokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		return Defaults(), fmt.Errorf("parse tokens for %s: %w", templateType, err)
	}

	if err := validateColors(tokens.Colors); err != nil {
		return Defaults(), fmt.Errorf("tokens for %s: %w", templateType, err)
	}

	if tokens.Version == "" {
		tokens.Version = Defaults().Version
	}

	l.toCache(ctx, templateType, tokens)
	return tokens, nil
}

func (l *Loader) fromCache(ctx context.Context, templateType models.TemplateType) (models.DesignTokens, bool) {
	if l.cache == nil {
		return models.DesignTokens{}, false
	}

	raw, err := l.cache.Get(ctx, cacheKey(templateType))
	if err != nil {
		if err != redis.Nil {
			l.logger.Warn("tokens cache read failed", map[string]interface{}{
				"templateType": templateType,
				"error":        err.Error(),
			})
		}
		return models.DesignTokens{}, false
	}

	var tokens models.DesignTokens
	if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
		l.logger.Warn("tokens cache entry corrupt", map[string]interface{}{
			"templateType": templateType,
		})
		return models.DesignTokens{}, false
	}
	return tokens, true
}

func (l *Loader) toCache(ctx context.Context, templateType models.TemplateType, tokens models.DesignTokens) {
	if l.cache == nil {
		return
	}

	data, err := json.Marshal(tokens)
	if err != nil {
		return
	}
	if err := l.cache.Set(ctx, cacheKey(templateType), string(data), l.ttl); err != nil {
		l.logger.Warn("tokens cache write failed", map[string]interface{}{
			"templateType": templateType,
			"error":        err.Error(),
		})
	}
}

func cacheKey(templateType models.TemplateType) string {
	return "tokens:" + string(templateType)
}

func validateColors(colors models.TokenColors) error {
	named := map[string]string{
		"primary":       colors.Primary,
		"secondary":     colors.Secondary,
		"surface":       colors.Surface,
		"background":    colors.Background,
		"text":          colors.Text,
		"textSecondary": colors.TextSecondary,
	}
	for name, value := range named {
		if value == "" {
			continue
		}
		if !validation.ValidateHexColor(value) {
			return fmt.Errorf("color %q is not a hex value: %s", name, value)
		}
	}
	return nil
}
