// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	YouTube   YouTubeConfig   `mapstructure:"youtube"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Rotation  RotationConfig  `mapstructure:"rotation"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Keywords  KeywordsConfig  `mapstructure:"keywords"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Search    SearchConfig    `mapstructure:"search"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name          string `mapstructure:"name"`
	Version       string `mapstructure:"version"`
	Environment   string `mapstructure:"environment"`
	CycleInterval int    `mapstructure:"cycle_interval"` // milliseconds
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
	URL        string   `mapstructure:"url"`
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

// --- Provider Configuration Sections ---

// YouTubeConfig holds settings for the YouTube Data API provider.
type YouTubeConfig struct {
	APIKey             string `mapstructure:"api_key"`
	BaseURL            string `mapstructure:"base_url"`
	TranscriptBaseURL  string `mapstructure:"transcript_base_url"`
	Timeout            int    `mapstructure:"timeout"` // milliseconds
	DailyQuotaUnits    int    `mapstructure:"daily_quota_units"`
	MaxResultsPerCycle int    `mapstructure:"max_results_per_cycle"`
	Region             string `mapstructure:"region"`
}

// OpenAIConfig holds settings for the completion provider.
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	MaxRetries  int     `mapstructure:"max_retries"`
}

// RotationConfig controls keyword rotation selection.
type RotationConfig struct {
	MaxKeywordBudget int                `mapstructure:"max_keyword_budget"`
	CategoryWeights  map[string]float64 `mapstructure:"category_weights"`
}

// ScoringConfig controls the contextual scoring engine.
type ScoringConfig struct {
	TranscriptMaxChars int  `mapstructure:"transcript_max_chars"`
	HeuristicOnly      bool `mapstructure:"heuristic_only"`
	Timeout            int  `mapstructure:"timeout"` // milliseconds
	Concurrency        int  `mapstructure:"concurrency"`
}

// KeywordsConfig controls AI keyword generation counts per category.
type KeywordsConfig struct {
	CoreCount        int `mapstructure:"core_count"`
	LongTailCount    int `mapstructure:"long_tail_count"`
	RelatedCount     int `mapstructure:"related_count"`
	IntentBasedCount int `mapstructure:"intent_based_count"`
}

// CacheConfig controls the Redis-backed channel statistics cache.
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	TTL     int  `mapstructure:"ttl"` // milliseconds
}

// SearchConfig controls the optional Elasticsearch score index.
type SearchConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ScoreIndex string `mapstructure:"score_index"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
