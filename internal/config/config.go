// Package config provides configuration management for the Pitch Edge application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App           AppConfig           `mapstructure:"app" validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database" validate:"required"`
	Provider      ProviderConfig      `mapstructure:"provider" validate:"required"`
	Model         ModelConfig         `mapstructure:"model" validate:"required"`
	Pipeline      PipelineConfig      `mapstructure:"pipeline" validate:"required"`
	DataIngestion DataIngestionConfig `mapstructure:"data_ingestion" validate:"required"`
	Metrics       MetricsConfig       `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ProviderConfig represents the football data provider configuration
type ProviderConfig struct {
	BaseURL            string `mapstructure:"base_url" validate:"required,url"`
	StreamURL          string `mapstructure:"stream_url"`
	APIKey             string `mapstructure:"api_key" validate:"required"`
	Leagues            []int  `mapstructure:"leagues" validate:"required,min=1,dive,gt=0"`
	TimeoutSeconds     int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts      int    `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimitPerMinute int    `mapstructure:"rate_limit_per_minute" validate:"required,gt=0"`
	CacheTTLSeconds    int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// ModelConfig represents the prediction model artifact configuration
type ModelConfig struct {
	ArtifactPath   string  `mapstructure:"artifact_path" validate:"required"`
	CalibratorPath string  `mapstructure:"calibrator_path"`
	ClipLow        float64 `mapstructure:"clip_low" validate:"gte=0,lt=1"`
	ClipHigh       float64 `mapstructure:"clip_high" validate:"gt=0,lte=1"`
}

// PipelineConfig represents prediction pipeline configuration
type PipelineConfig struct {
	UpcomingDays     int     `mapstructure:"upcoming_days" validate:"required,gt=0"`
	MinExpectedValue float64 `mapstructure:"min_expected_value" validate:"gte=0"`
	HistoryStartDate string  `mapstructure:"history_start_date" validate:"required,datetime=2006-01-02"`
}

// DataIngestionConfig represents data ingestion configuration
type DataIngestionConfig struct {
	Sources  []DataSourceConfig `mapstructure:"sources" validate:"required,min=1"`
	Schedule ScheduleConfig     `mapstructure:"schedule" validate:"required"`
}

// DataSourceConfig represents a single data source configuration
type DataSourceConfig struct {
	Name      string `mapstructure:"name" validate:"required"`
	Enabled   bool   `mapstructure:"enabled"`
	BatchSize int    `mapstructure:"batch_size" validate:"omitempty,gt=0"`
	APIKey    string `mapstructure:"api_key"`
	Dir       string `mapstructure:"dir"` // local directory for file-based sources
}

// ScheduleConfig represents data ingestion and pipeline scheduling
type ScheduleConfig struct {
	ResultsSync                string `mapstructure:"results_sync" validate:"required,cronspec"`
	FixtureSync                string `mapstructure:"fixture_sync" validate:"required,cronspec"`
	PipelineRun                string `mapstructure:"pipeline_run" validate:"required,cronspec"`
	OddsPollingIntervalSeconds int    `mapstructure:"odds_polling_interval_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
