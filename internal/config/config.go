package config

import (
	"fmt"
	"time"

	dataconfig "ignitrack/internal/data/config"
	"ignitrack/internal/logger"
	"ignitrack/internal/retry"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the complete run configuration
type Config struct {
	Repository RepositoryConfig   `mapstructure:"repository"`
	Log        logger.Config      `mapstructure:"log"`
	Data       *dataconfig.Config `mapstructure:"data"`
	Notify     NotifyConfig       `mapstructure:"notify"`
}

// RepositoryConfig represents the immutable run configuration for one
// tracked repository. Built once at load time, read-only thereafter.
type RepositoryConfig struct {
	Path                      string        `mapstructure:"path" validate:"required"`
	GitEnabled                bool          `mapstructure:"git_enabled"`
	AutoTrackChanges          bool          `mapstructure:"auto_track_changes"`
	ConflictPredictionEnabled bool          `mapstructure:"conflict_prediction_enabled"`
	ImpactAnalysisEnabled     bool          `mapstructure:"impact_analysis_enabled"`
	ReleasePlanningEnabled    bool          `mapstructure:"release_planning_enabled"`
	RiskThreshold             float64       `mapstructure:"risk_threshold" validate:"gte=0,lte=1"`
	CacheEnabled              bool          `mapstructure:"cache_enabled"`
	CacheTTL                  time.Duration `mapstructure:"cache_ttl"`
	Patterns                  []string      `mapstructure:"patterns"`
	DetectDeletions           bool          `mapstructure:"detect_deletions"`
}

// NotifyConfig represents change-alert configuration
type NotifyConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MinRiskLevel string        `mapstructure:"min_risk_level"` // low, medium, high, critical
	Webhook      WebhookConfig `mapstructure:"webhook"`
	Slack        SlackConfig   `mapstructure:"slack"`
	Retry        *retry.Config `mapstructure:"retry"`
}

// WebhookConfig represents the webhook alert channel configuration
type WebhookConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	URL     string            `mapstructure:"url"`
	Secret  string            `mapstructure:"secret"`
	Timeout time.Duration     `mapstructure:"timeout"`
	Headers map[string]string `mapstructure:"headers"`
}

// SlackConfig represents the Slack alert channel configuration
type SlackConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`
	Username   string `mapstructure:"username"`
	IconEmoji  string `mapstructure:"icon_emoji"`
}

// LoadConfig loads configuration from file
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setViperDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	setDefaults(&config)

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setViperDefaults sets defaults that must exist before unmarshalling,
// notably the capability flags that default on.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("repository.git_enabled", true)
	v.SetDefault("repository.auto_track_changes", true)
	v.SetDefault("repository.conflict_prediction_enabled", true)
	v.SetDefault("repository.impact_analysis_enabled", true)
	v.SetDefault("repository.release_planning_enabled", true)
	v.SetDefault("repository.cache_enabled", true)
}

// setDefaults sets default values for configuration
func setDefaults(config *Config) {
	if config.Repository.RiskThreshold == 0 {
		config.Repository.RiskThreshold = 0.7
	}
	if config.Repository.CacheTTL == 0 {
		config.Repository.CacheTTL = 5 * time.Minute
	}
	if config.Notify.MinRiskLevel == "" {
		config.Notify.MinRiskLevel = "high"
	}
	if config.Notify.Webhook.Timeout == 0 {
		config.Notify.Webhook.Timeout = 10 * time.Second
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.MaxSize == 0 {
		config.Log.MaxSize = 100
	}
	if config.Log.MaxBackups == 0 {
		config.Log.MaxBackups = 3
	}
	if config.Log.MaxAge == 0 {
		config.Log.MaxAge = 28
	}
}

// Validate validates the configuration
func Validate(config *Config) error {
	if err := validator.New().Struct(config); err != nil {
		return err
	}

	switch config.Notify.MinRiskLevel {
	case "low", "medium", "high", "critical":
	default:
		return fmt.Errorf("invalid min_risk_level: %s", config.Notify.MinRiskLevel)
	}

	if config.Notify.Webhook.Enabled && config.Notify.Webhook.URL == "" {
		return fmt.Errorf("webhook URL is required when the webhook channel is enabled")
	}
	if config.Notify.Slack.Enabled && config.Notify.Slack.WebhookURL == "" {
		return fmt.Errorf("slack webhook URL is required when the slack channel is enabled")
	}

	if err := config.Data.Validate(); err != nil {
		return err
	}

	return config.Log.Validate()
}
