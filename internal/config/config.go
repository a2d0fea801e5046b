// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	// RedisURL enables the Redis event mirror when set. Empty disables it;
	// the hub then delivers events directly in-process.
	RedisURL string `mapstructure:"REDIS_URL"`

	SeedDemoPosts  bool `mapstructure:"SEED_DEMO_POSTS"`
	SeedExtraPosts int  `mapstructure:"SEED_EXTRA_POSTS"`

	TrendingLimit        int `mapstructure:"TRENDING_LIMIT"`
	StatsIntervalSeconds int `mapstructure:"STATS_INTERVAL_SECONDS"`

	TracingEnabled      bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter     string  `mapstructure:"TRACING_EXPORTER"`
	TracingOTLPEndpoint string  `mapstructure:"TRACING_OTLP_ENDPOINT"`
	TracingSamplerRatio float64 `mapstructure:"TRACING_SAMPLER_RATIO"`

	SlackWebhookURL string `mapstructure:"SLACK_WEBHOOK_URL"`
	SlackChannel    string `mapstructure:"SLACK_CHANNEL"`
	JiraHost        string `mapstructure:"JIRA_HOST"`
	JiraUsername    string `mapstructure:"JIRA_USERNAME"`
	JiraAPIToken    string `mapstructure:"JIRA_API_TOKEN"`
	JiraProjectKey  string `mapstructure:"JIRA_PROJECT_KEY"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// Initial read to get APP_ENV if set in base config
	// We intentionally ignore this error as the config file may not exist yet
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	// Set default values for development
	viper.SetDefault("PORT", "3000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("SEED_DEMO_POSTS", true)
	viper.SetDefault("SEED_EXTRA_POSTS", 0)
	viper.SetDefault("TRENDING_LIMIT", 5)
	viper.SetDefault("STATS_INTERVAL_SECONDS", 30)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("TRACING_OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)
	viper.SetDefault("SLACK_WEBHOOK_URL", "")
	viper.SetDefault("SLACK_CHANNEL", "#social-clone-testing")
	viper.SetDefault("JIRA_HOST", "")
	viper.SetDefault("JIRA_USERNAME", "")
	viper.SetDefault("JIRA_API_TOKEN", "")
	viper.SetDefault("JIRA_PROJECT_KEY", "SOCIAL")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and sane.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.TrendingLimit <= 0 {
		return errors.New("TRENDING_LIMIT must be positive")
	}
	if c.StatsIntervalSeconds <= 0 {
		return errors.New("STATS_INTERVAL_SECONDS must be positive")
	}

	isProduction := c.Env == "production" || c.Env == "prod"
	if isProduction {
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
		if c.TracingEnabled && c.TracingExporter == "otlp" && c.TracingOTLPEndpoint == "" {
			return errors.New("TRACING_OTLP_ENDPOINT is required when TRACING_EXPORTER is otlp")
		}
	}

	return nil
}
