// Package config loads application settings from defaults, an optional YAML
// file, a .env file, EXPENSES_* environment variables and command flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. EXPENSES_SERVER_ADDR.
const EnvPrefix = "EXPENSES"

// Config represents the full application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
	Parser  ParserConfig  `mapstructure:"parser"`
	Extract ExtractConfig `mapstructure:"extract"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// StorageConfig selects the expense store.
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // "csv" or "sqlite"
	Path   string `mapstructure:"path"`
}

// ParserConfig controls transaction extraction.
type ParserConfig struct {
	FlushUntyped bool `mapstructure:"flush_untyped"`
}

// ExtractConfig controls PDF text extraction.
type ExtractConfig struct {
	Pdftotext bool          `mapstructure:"pdftotext"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// flagKeys maps command flag names to config keys.
var flagKeys = map[string]string{
	"addr":          "server.addr",
	"log-level":     "log.level",
	"storage":       "storage.driver",
	"storage-path":  "storage.path",
	"flush-untyped": "parser.flush_untyped",
	"pdftotext":     "extract.pdftotext",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.driver", "csv")
	v.SetDefault("storage.path", "expenses.csv")
	v.SetDefault("parser.flush_untyped", false)
	v.SetDefault("extract.pdftotext", true)
	v.SetDefault("extract.timeout", "30s")
}

// Load builds the configuration. cfgFile may be empty, in which case
// config.yaml in the working directory is used if present. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Driver) {
	case "csv", "sqlite":
	default:
		return fmt.Errorf("invalid storage.driver %q: use csv or sqlite", c.Storage.Driver)
	}
	if c.Storage.Path == "" {
		return errors.New("storage.path is required")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid server.max_upload_mb %d", c.Server.MaxUploadMB)
	}
	return nil
}
