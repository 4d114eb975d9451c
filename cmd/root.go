// Package cmd provides the widgetkit command-line interface.
//
// Configuration is read from several sources, highest priority first:
//  1. Command-line flags (--port, --fixtures, ...)
//  2. Environment variables following WIDGETKIT_<SECTION>_<KEY>, such as
//     WIDGETKIT_SERVER_PORT or WIDGETKIT_TABLE_EMPTY_TEXT
//  3. The configuration file: --config, else WIDGETKIT_CONFIG_FILE, else
//     .widgetkit.yml in the working directory
//  4. Built-in defaults
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/widgetkit/internal/config"
	"github.com/conneroisu/widgetkit/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "widgetkit",
	Short: "Interactive table, input and carousel widgets for templ",
	Long: `Widgetkit renders a sortable, selectable data table, a controlled text
input and a testimonial carousel as templ components, and hosts them in a
small htmx demo application.

Quick Start:
  widgetkit serve                 Start the demo host
  widgetkit render table --sort name --select 0,2
  widgetkit audit                 Check every widget for accessibility issues
  widgetkit version               Show build information`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .widgetkit.yml, can also use WIDGETKIT_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig points viper at the configuration file and enables the
// environment overrides.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("WIDGETKIT_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(config.FileName)
	}

	viper.SetEnvPrefix("WIDGETKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// a missing file is fine, defaults apply
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger from the logging section.
func newLogger(cfg config.LoggingConfig) logging.Logger {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Format,
		Output: os.Stderr,
	})
}
