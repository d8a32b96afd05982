// internal/common/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	cfg := &Config{}
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Postgres.Database = "contextual_pipeline"
	cfg.Database.Postgres.User = "pipeline"
	cfg.Database.Redis.Address = "localhost:6379"
	cfg.YouTube.APIKey = "yt-key"
	cfg.OpenAI.APIKey = "sk-key"
	applyDefaults(cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, 3600000, cfg.App.CycleInterval)
	assert.Equal(t, 25, cfg.Database.Postgres.MaxConnections)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "https://www.googleapis.com/youtube/v3", cfg.YouTube.BaseURL)
	assert.Equal(t, 10000, cfg.YouTube.DailyQuotaUnits)
	assert.Equal(t, 100, cfg.YouTube.MaxResultsPerCycle)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 3, cfg.OpenAI.MaxRetries)
	assert.Equal(t, 20, cfg.Rotation.MaxKeywordBudget)
	assert.Equal(t, 0.4, cfg.Rotation.CategoryWeights["core"])
	assert.Equal(t, 0.3, cfg.Rotation.CategoryWeights["long_tail"])
	assert.Equal(t, 0.2, cfg.Rotation.CategoryWeights["related"])
	assert.Equal(t, 0.1, cfg.Rotation.CategoryWeights["intent_based"])
	assert.Equal(t, 5000, cfg.Scoring.TranscriptMaxChars)
	assert.Equal(t, 4, cfg.Scoring.Concurrency)
	assert.Equal(t, 10, cfg.Keywords.CoreCount)
	assert.Equal(t, 15, cfg.Keywords.LongTailCount)
	assert.Equal(t, "video_scores", cfg.Search.ScoreIndex)
	assert.Equal(t, 9090, cfg.Metrics.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.App.CycleInterval = 600000
	cfg.Rotation.MaxKeywordBudget = 5
	cfg.Rotation.CategoryWeights = map[string]float64{"core": 1.0}
	applyDefaults(cfg)

	assert.Equal(t, 600000, cfg.App.CycleInterval)
	assert.Equal(t, 5, cfg.Rotation.MaxKeywordBudget)
	assert.Equal(t, map[string]float64{"core": 1.0}, cfg.Rotation.CategoryWeights)
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, validateConfig(validTestConfig()))
}

func TestValidateConfigRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing postgres host", func(c *Config) { c.Database.Postgres.Host = "" }},
		{"missing postgres database", func(c *Config) { c.Database.Postgres.Database = "" }},
		{"missing postgres user", func(c *Config) { c.Database.Postgres.User = "" }},
		{"missing redis address", func(c *Config) { c.Database.Redis.Address = "" }},
		{"missing youtube key", func(c *Config) { c.YouTube.APIKey = "" }},
		{"missing openai key", func(c *Config) { c.OpenAI.APIKey = "" }},
		{"zero keyword budget", func(c *Config) { c.Rotation.MaxKeywordBudget = 0 }},
		{"negative category weight", func(c *Config) { c.Rotation.CategoryWeights["core"] = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}
}

func TestValidateConfigHeuristicOnlySkipsOpenAIKey(t *testing.T) {
	cfg := validTestConfig()
	cfg.OpenAI.APIKey = ""
	cfg.Scoring.HeuristicOnly = true

	assert.NoError(t, validateConfig(cfg))
}

func TestValidateConfigSearchRequiresElasticsearch(t *testing.T) {
	cfg := validTestConfig()
	cfg.Search.Enabled = true
	cfg.Database.Elasticsearch.Addresses = nil
	cfg.Database.Elasticsearch.URL = ""
	assert.Error(t, validateConfig(cfg))

	cfg.Database.Elasticsearch.Addresses = []string{"http://localhost:9200"}
	assert.NoError(t, validateConfig(cfg))
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 15*time.Second, GetDuration(15000))
	assert.Equal(t, time.Hour, GetDuration(3600000))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "db", Port: 5432, User: "u", Password: "p",
		Database: "pipeline", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=pipeline sslmode=disable", p.GetDSN())
}

func TestElasticsearchGetURL(t *testing.T) {
	assert.Equal(t, "http://explicit:9200", ElasticsearchConfig{URL: "http://explicit:9200"}.GetURL())
	assert.Equal(t, "http://first:9200", ElasticsearchConfig{Addresses: []string{"http://first:9200", "http://second:9200"}}.GetURL())
	assert.Equal(t, "", ElasticsearchConfig{}.GetURL())
}
