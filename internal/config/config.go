// Package config provides configuration management for the SGP builder.
package config

import "fmt"

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	OddsAPI  OddsAPIConfig  `mapstructure:"odds_api" validate:"required"`
	Stats    StatsConfig    `mapstructure:"stats"`
	Engine   EngineConfig   `mapstructure:"engine" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Server   ServerConfig   `mapstructure:"server"`
	Prewarm  PrewarmConfig  `mapstructure:"prewarm"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// OddsAPIConfig represents The Odds API client configuration
type OddsAPIConfig struct {
	BaseURL        string   `mapstructure:"base_url" validate:"required,url"`
	APIKey         string   `mapstructure:"api_key" validate:"required"`
	SportKey       string   `mapstructure:"sport_key" validate:"required"`
	Regions        string   `mapstructure:"regions" validate:"required"`
	Bookmaker      string   `mapstructure:"bookmaker"`
	Markets        []string `mapstructure:"markets"`
	RateLimitRPS   float64  `mapstructure:"rate_limit_rps" validate:"gte=0"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" validate:"gt=0"`
}

// StatsConfig represents the player stats provider configuration.
// Optional: with no API key the scorer runs on its odds-only prior.
type StatsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// EngineConfig represents the selection and pricing engine knobs
type EngineConfig struct {
	DefaultTargetCount int     `mapstructure:"default_target_count" validate:"required,gte=1"`
	MaxLegs            int     `mapstructure:"max_legs" validate:"required,gte=1"`
	CacheTTLMinutes    int     `mapstructure:"cache_ttl_minutes" validate:"required,gt=0"`
	ScorerPriorWeight  float64 `mapstructure:"scorer_prior_weight" validate:"gte=0,lte=1"`
}

// DatabaseConfig represents the optional parlay-history database.
// History is disabled when Enabled is false; the engine never needs it.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownSeconds int `mapstructure:"shutdown_seconds"`
}

// PrewarmConfig represents the cache prewarm scheduler configuration
type PrewarmConfig struct {
	Enabled  bool             `mapstructure:"enabled"`
	Schedule string           `mapstructure:"schedule"`
	Games    []PrewarmGameRef `mapstructure:"games"`
}

// PrewarmGameRef names a game the scheduler keeps warm.
type PrewarmGameRef struct {
	HomeTeam string `mapstructure:"home_team"`
	AwayTeam string `mapstructure:"away_team"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
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
