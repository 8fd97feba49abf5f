package config

import (
	"fmt"
	"math"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for fleet-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values. Secrets (the database
// password) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Input spreadsheet locations
	Sources SourcesConfig `yaml:"sources"`

	// Output table locations
	Output OutputConfig `yaml:"output"`

	// Database configuration (PostgreSQL, optional)
	Database DatabaseConfig `yaml:"database"`

	// Priority scoring weights
	Scoring ScoringConfig `yaml:"scoring"`
}

// SourcesConfig holds the paths of the four input sources. All four are
// semicolon-delimited spreadsheet exports.
type SourcesConfig struct {
	LegacyOrdersPath string `yaml:"legacy_orders_path" env:"LEGACY_ORDERS_PATH" env-default:"data/legacy_orders.csv"`
	RecentOrdersPath string `yaml:"recent_orders_path" env:"RECENT_ORDERS_PATH" env-default:"data/recent_orders.csv"`
	CriticalityPath  string `yaml:"criticality_path" env:"CRITICALITY_PATH" env-default:"data/criticality.csv"`
	InventoryPath    string `yaml:"inventory_path" env:"INVENTORY_PATH" env-default:"data/inventory.csv"`
}

// OutputConfig holds the destinations of the intermediate and final tables.
type OutputConfig struct {
	UnifiedOrdersPath      string `yaml:"unified_orders_path" env:"UNIFIED_ORDERS_PATH" env-default:"out/unified_orders.csv"`
	ConsolidatedAssetsPath string `yaml:"consolidated_assets_path" env:"CONSOLIDATED_ASSETS_PATH" env-default:"out/consolidated_assets.csv"`
}

// DatabaseConfig holds PostgreSQL database configuration. When Enabled is
// false the service runs file-to-file without persistence.
type DatabaseConfig struct {
	Enabled        bool   `yaml:"enabled" env:"DB_ENABLED" env-default:"false"`
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"fleet"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"fleet_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// URL builds a PostgreSQL connection URL from the configuration.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// ScoringConfig holds the fixed feature weights of the priority score.
// The four weights must sum to 1.
type ScoringConfig struct {
	WeightCriticality float64 `yaml:"weight_criticality" env:"SCORE_WEIGHT_CRITICALITY" env-default:"0.40"`
	WeightCost        float64 `yaml:"weight_cost" env:"SCORE_WEIGHT_COST" env-default:"0.25"`
	WeightAge         float64 `yaml:"weight_age" env:"SCORE_WEIGHT_AGE" env-default:"0.20"`
	WeightFrequency   float64 `yaml:"weight_frequency" env:"SCORE_WEIGHT_FREQUENCY" env-default:"0.15"`
}

// Validate checks that the scoring weights are non-negative and sum to 1.
func (c *ScoringConfig) Validate() error {
	for name, w := range map[string]float64{
		"weight_criticality": c.WeightCriticality,
		"weight_cost":        c.WeightCost,
		"weight_age":         c.WeightAge,
		"weight_frequency":   c.WeightFrequency,
	} {
		if w < 0 {
			return fmt.Errorf("scoring %s must be non-negative, got %v", name, w)
		}
	}
	sum := c.WeightCriticality + c.WeightCost + c.WeightAge + c.WeightFrequency
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1, got %v", sum)
	}
	return nil
}

// Load reads configuration from config.yaml with environment variable
// overrides. When config.yaml does not exist, configuration comes from
// environment variables and defaults alone. The version parameter is
// injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment config: %w", err)
		}
	}

	if err := cfg.Scoring.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}
	return cfg, nil
}
