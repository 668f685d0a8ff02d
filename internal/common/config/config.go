// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig              `mapstructure:"app"`
	Server   ServerConfig           `mapstructure:"server"`
	Database DatabaseConfig         `mapstructure:"database"`
	Catalog  CatalogConfig          `mapstructure:"catalog"`
	Assets   AssetsConfig           `mapstructure:"assets"`
	Tokens   TokensConfig           `mapstructure:"tokens"`
	Template TemplateConfig         `mapstructure:"template"`
	Pipeline PipelineConfig         `mapstructure:"pipeline"`
	Stages   map[string]StageConfig `mapstructure:"stages"`
	APIs     APIsConfig             `mapstructure:"apis"`
	Renderer RendererConfig         `mapstructure:"renderer"`
	History  HistoryConfig          `mapstructure:"history"`
	Delivery DeliveryConfig         `mapstructure:"delivery"`
	Uploads  UploadsConfig          `mapstructure:"uploads"`
	Logging  LoggingConfig          `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address       string   `mapstructure:"address"`
	HealthAddress string   `mapstructure:"health_address"`
	ReadTimeout   int      `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout  int      `mapstructure:"write_timeout"` // milliseconds
	AllowOrigins  []string `mapstructure:"allow_origins"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StageConfig holds the core settings applicable to every pipeline stage.
type StageConfig struct {
	Timeout    int `mapstructure:"timeout"`     // milliseconds
	MaxRetries int `mapstructure:"max_retries"` // LLM attempt count before fallback
}

// --- Specific Configuration Sections ---

// CatalogConfig holds settings for the product catalog backend.
type CatalogConfig struct {
	Source       string `mapstructure:"source"` // "csv" or "postgres"
	CSVPath      string `mapstructure:"csv_path"`
	RelatedLimit int    `mapstructure:"related_limit"`
}

// AssetsConfig holds settings for stock asset selection.
type AssetsConfig struct {
	Seed int64 `mapstructure:"seed"` // 0 means time-seeded
}

// TokensConfig holds settings for the design token store.
type TokensConfig struct {
	Dir          string `mapstructure:"dir"`
	CacheEnabled bool   `mapstructure:"cache_enabled"`
	CacheTTL     int    `mapstructure:"cache_ttl"` // milliseconds
}

// PipelineConfig holds settings for the generation pipeline runner.
type PipelineConfig struct {
	StreamDelay int `mapstructure:"stream_delay"` // milliseconds between progress emission and stage start
}

// TemplateConfig holds settings for template composition and validation.
type TemplateConfig struct {
	RegistryPath  string `mapstructure:"registry_path"`
	DefaultLocale string `mapstructure:"default_locale"`
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	GenAI struct {
		BaseURL     string  `mapstructure:"base_url"`
		APIKey      string  `mapstructure:"api_key"`
		Model       string  `mapstructure:"model"`
		Temperature float64 `mapstructure:"temperature"`
		Timeout     int     `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"genai"`
}

// RendererConfig holds settings for the MJML compile sidecar.
type RendererConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// HistoryConfig holds settings for the generation history archive.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Index   string `mapstructure:"index"`
}

// DeliveryConfig holds settings for outbound email delivery and completion events.
type DeliveryConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled  bool   `mapstructure:"enabled"`
			TopicARN string `mapstructure:"topic_arn"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// UploadsConfig holds settings for brand guideline uploads.
type UploadsConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
