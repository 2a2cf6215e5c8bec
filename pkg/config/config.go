package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Search engine configuration
	Search SearchConfig `mapstructure:"search"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// SearchConfig holds search engine connection configuration
type SearchConfig struct {
	Hosts    []string `mapstructure:"hosts"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	// Index is the default target index for queries that do not name one.
	Index string `mapstructure:"index"`
	// HighlightClass is the CSS class applied to highlight wrapper tags.
	HighlightClass string `mapstructure:"highlight_class"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Search defaults
	viper.SetDefault("search.hosts", []string{"http://localhost:9200"})
	viper.SetDefault("search.username", "")
	viper.SetDefault("search.password", "")
	viper.SetDefault("search.index", "")
	viper.SetDefault("search.highlight_class", "highlight")
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	if hosts := os.Getenv("ELASTICSEARCH_HOSTS"); hosts != "" {
		config.Search.Hosts = strings.Split(hosts, ",")
	}
	if username := os.Getenv("ELASTICSEARCH_USERNAME"); username != "" {
		config.Search.Username = username
	}
	if password := os.Getenv("ELASTICSEARCH_PASSWORD"); password != "" {
		config.Search.Password = password
	}
	if index := os.Getenv("ELASTICSEARCH_INDEX"); index != "" {
		config.Search.Index = index
	}
}
