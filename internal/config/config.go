package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Hex        HexConfig        `yaml:"hex" mapstructure:"hex"`
	Zones      ZonesConfig      `yaml:"zones" mapstructure:"zones"`
	Categories CategoriesConfig `yaml:"categories" mapstructure:"categories"`
	Distance   DistanceConfig   `yaml:"distance" mapstructure:"distance"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// HexConfig configures the hex-grid indexing resolutions.
type HexConfig struct {
	Resolution       int `yaml:"resolution" mapstructure:"resolution"`
	ParentResolution int `yaml:"parent_resolution" mapstructure:"parent_resolution"`
}

// ZonesConfig configures cost-of-living zone classification.
type ZonesConfig struct {
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`
}

// CategoriesConfig points at an optional YAML file overriding the
// built-in category tag lists and reference-set filters.
type CategoriesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// DistanceConfig configures distance-feature computation.
type DistanceConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the health server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("HEXFEAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("hex.resolution", 8)
	v.SetDefault("hex.parent_resolution", 6)
	v.SetDefault("zones.threshold", 0.5)
	v.SetDefault("distance.concurrency", 8)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "hexfeat.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configuration errors up front: they are fatal, never
// retried.
func (c *Config) Validate() error {
	if c.Hex.Resolution < 0 || c.Hex.Resolution > 15 {
		return eris.Errorf("config: hex.resolution %d out of range [0, 15]", c.Hex.Resolution)
	}
	if c.Hex.ParentResolution < 0 || c.Hex.ParentResolution > 15 {
		return eris.Errorf("config: hex.parent_resolution %d out of range [0, 15]", c.Hex.ParentResolution)
	}
	if c.Hex.ParentResolution >= c.Hex.Resolution {
		return eris.Errorf("config: hex.parent_resolution %d must be coarser than hex.resolution %d",
			c.Hex.ParentResolution, c.Hex.Resolution)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
