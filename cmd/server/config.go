package main

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds server configuration, loaded from hackboard.yaml (if
// present) with environment-variable overrides.
type Config struct {
	Port                    string `mapstructure:"port"`
	DataDir                 string `mapstructure:"data_dir"`
	GithubToken             string `mapstructure:"github_token"`
	AnthropicAPIKey         string `mapstructure:"anthropic_api_key"`
	LLMModel                string `mapstructure:"llm_model"`
	ScoringBackend          string `mapstructure:"scoring_backend"` // "heuristic" or "llm"
	RedisURL                string `mapstructure:"redis_url"`
	AnalysisCacheTTLMinutes int    `mapstructure:"analysis_cache_ttl_minutes"`
	RateLimitPerMinute      int    `mapstructure:"rate_limit_per_minute"`
}

// LoadConfig reads configuration with sane defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("llm_model", "")
	v.SetDefault("scoring_backend", "heuristic")
	v.SetDefault("analysis_cache_ttl_minutes", 15)
	v.SetDefault("rate_limit_per_minute", 30)

	v.SetConfigName("hackboard")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/hackboard")

	v.SetEnvPrefix("HACKBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
