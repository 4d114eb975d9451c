// Package config loads widgetkit configuration with Viper from a YAML file,
// WIDGETKIT_ environment variables and command-line flags.
//
// The configuration covers the demo host (listen address, allowed websocket
// origins, session lifetime), the fixtures document and its watcher, the
// defaults applied to data tables, and the logger.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the working directory and home.
const FileName = ".widgetkit"

type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Fixtures FixturesConfig `mapstructure:"fixtures" yaml:"fixtures"`
	Table    TableConfig    `mapstructure:"table" yaml:"table"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

type ServerConfig struct {
	Host           string        `mapstructure:"host" yaml:"host"`
	Port           int           `mapstructure:"port" yaml:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	SessionTTL     time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type FixturesConfig struct {
	// Path of the YAML fixtures document. Empty selects the embedded one.
	Path  string `mapstructure:"path" yaml:"path"`
	Watch bool   `mapstructure:"watch" yaml:"watch"`
}

type TableConfig struct {
	EmptyText  string `mapstructure:"empty_text" yaml:"empty_text"`
	Selectable bool   `mapstructure:"selectable" yaml:"selectable"`
	// RowKey names the field that identifies a row for selection. Empty
	// keeps positional selection.
	RowKey string `mapstructure:"row_key" yaml:"row_key"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.session_ttl", 30*time.Minute)
	v.SetDefault("fixtures.path", "")
	v.SetDefault("fixtures.watch", false)
	v.SetDefault("table.empty_text", "No data")
	v.SetDefault("table.selectable", true)
	v.SetDefault("table.row_key", "id")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	// viper hands back nil for an empty list default
	if config.Server.AllowedOrigins == nil {
		config.Server.AllowedOrigins = []string{}
	}

	if result := Validate(&config); result.HasErrors() {
		return nil, fmt.Errorf("invalid configuration: %w", result.Err())
	}

	return &config, nil
}
