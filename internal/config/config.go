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
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Dataset  DatasetConfig  `yaml:"dataset" mapstructure:"dataset"`
	Catalog  CatalogConfig  `yaml:"catalog" mapstructure:"catalog"`
	Notion   NotionConfig   `yaml:"notion" mapstructure:"notion"`
	Docstore DocstoreConfig `yaml:"docstore" mapstructure:"docstore"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the session/feedback persistence backend.
// Driver is one of sqlite, postgres, or file (JSON array, feedback
// only). For the file driver, DatabaseURL is the file path.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// DatasetConfig configures the one-time bulk dataset load.
type DatasetConfig struct {
	Path             string `yaml:"path" mapstructure:"path"`
	MaxIndividuals   int    `yaml:"max_individuals" mapstructure:"max_individuals"`
	MaxOrganizations int    `yaml:"max_organizations" mapstructure:"max_organizations"`
}

// CatalogConfig points at an optional product catalog override file.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// NotionConfig holds the Notion integration token and the catalog
// database id. When unset, the catalog comes from the file or the
// built-in table.
type NotionConfig struct {
	Token     string `yaml:"token" mapstructure:"token"`
	CatalogDB string `yaml:"catalog_db" mapstructure:"catalog_db"`
}

// DocstoreConfig holds the document-similarity service settings.
type DocstoreConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Collection  string  `yaml:"collection" mapstructure:"collection"`
	TopK        int     `yaml:"top_k" mapstructure:"top_k"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// BatchConfig configures batch workflow execution.
type BatchConfig struct {
	MaxConcurrentSessions int `yaml:"max_concurrent_sessions" mapstructure:"max_concurrent_sessions"`
}

// ServerConfig configures the HTTP API server.
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
	v.SetEnvPrefix("AGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("dataset.path", "assurance-data.json")
	v.SetDefault("dataset.max_individuals", 1000)
	v.SetDefault("dataset.max_organizations", 10)
	v.SetDefault("docstore.base_url", "http://localhost:8000")
	v.SetDefault("docstore.collection", "insurance_documents")
	v.SetDefault("docstore.top_k", 5)
	v.SetDefault("docstore.timeout_secs", 10)
	v.SetDefault("docstore.rate_limit", 5)
	v.SetDefault("batch.max_concurrent_sessions", 5)
	v.SetDefault("server.port", 3001)
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

	return &cfg, nil
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
