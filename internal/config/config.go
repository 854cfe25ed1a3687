package config

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Shop     ShopConfig     `mapstructure:"shop"`
	Exporter ExporterConfig `mapstructure:"exporter"`
	Log      LogConfig      `mapstructure:"log"`
}

// ShopConfig holds PrestaShop web service configuration
type ShopConfig struct {
	Host                 string `mapstructure:"host"`
	Scheme               string `mapstructure:"scheme"`
	LanguageID           string `mapstructure:"language_id"`
	Timeout              int    `mapstructure:"timeout"`
	MaxRetries           int    `mapstructure:"max_retries"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
	Proxy                string `mapstructure:"proxy"`

	// Authentication
	AuthKey string `mapstructure:"auth_key"`
}

// BaseURL returns the shop root, e.g. http://www.example.com
func (c ShopConfig) BaseURL() string {
	return c.Scheme + "://" + c.Host
}

// ExporterConfig holds catalogue export rules
type ExporterConfig struct {
	// Rewritten names of categories left out of every item
	CategoryIgnore []string `mapstructure:"category_ignore"`
	// Regex patterns of product references excluded from the catalogue
	ReferenceIgnorePatterns []string `mapstructure:"reference_ignore_patterns"`

	Output   string `mapstructure:"output"`
	Template string `mapstructure:"template"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from YAML file with environment variable overrides.
// An empty path searches for config.yaml in the current directory.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Shop.Host == "" {
		errs = append(errs, errors.New("shop.host is required"))
	}
	if c.Shop.AuthKey == "" {
		errs = append(errs, errors.New("shop.auth_key is required"))
	}
	if c.Shop.LanguageID == "" {
		errs = append(errs, errors.New("shop.language_id is required"))
	}
	if c.Exporter.Output == "" {
		errs = append(errs, errors.New("exporter.output is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// SetupLogging applies level and format to the standard logrus logger
func (c LogConfig) SetupLogging() error {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	log.SetLevel(level)

	switch c.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("shop.host", "")
	viper.SetDefault("shop.scheme", "http")
	viper.SetDefault("shop.language_id", "1")
	viper.SetDefault("shop.timeout", 30)
	viper.SetDefault("shop.max_retries", 3)
	viper.SetDefault("shop.max_requests_per_second", 0)
	viper.SetDefault("shop.proxy", "")
	viper.SetDefault("shop.auth_key", "")

	viper.SetDefault("exporter.category_ignore", []string{})
	viper.SetDefault("exporter.reference_ignore_patterns", []string{})
	viper.SetDefault("exporter.output", "catalogue.xml")
	viper.SetDefault("exporter.template", "")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}
