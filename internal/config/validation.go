package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/conneroisu/widgetkit/internal/errors"
	"github.com/conneroisu/widgetkit/internal/logging"
)

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Errors   errors.ValidationErrorCollection
	Warnings []*errors.FieldValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return vr.Errors.HasErrors()
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// Err returns the errors as a config WidgetError, or nil.
func (vr *ValidationResult) Err() error {
	if we := vr.Errors.ToWidgetError(); we != nil {
		return we
	}
	return nil
}

func (vr *ValidationResult) warn(field string, value interface{}, message string, suggestions ...string) {
	vr.Warnings = append(vr.Warnings, errors.NewFieldValidationError(field, value, message, suggestions...))
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	if vr.HasErrors() {
		builder.WriteString("❌ Validation Errors:\n")
		writeIssues(&builder, vr.Errors.Errors)
		builder.WriteString("\n")
	}
	if vr.HasWarnings() {
		builder.WriteString("⚠️  Validation Warnings:\n")
		writeIssues(&builder, vr.Warnings)
	}

	return builder.String()
}

func writeIssues(b *strings.Builder, issues []*errors.FieldValidationError) {
	for _, issue := range issues {
		fmt.Fprintf(b, "  • %s: %s\n", issue.FieldName, issue.ErrorMessage)
		for _, suggestion := range issue.HelpText {
			fmt.Fprintf(b, "    💡 %s\n", suggestion)
		}
	}
}

// Validate checks every section and collects errors and warnings.
func Validate(config *Config) *ValidationResult {
	result := &ValidationResult{}

	validateServer(&config.Server, result)
	validateFixtures(&config.Fixtures, result)
	validateTable(&config.Table, result)
	validateLogging(&config.Logging, result)

	return result
}

func validateServer(config *ServerConfig, result *ValidationResult) {
	// port 0 lets the system pick one, which tests rely on
	if config.Port < 0 || config.Port > 65535 {
		result.Errors.AddField("server.port", config.Port,
			fmt.Sprintf("port %d is not in valid range 0-65535", config.Port),
			"Common development ports: 3000, 8080, 8000")
	} else if config.Port > 0 && config.Port < 1024 {
		result.warn("server.port", config.Port, "port below 1024 requires elevated privileges")
	}

	if config.Host != "" && strings.ContainsAny(config.Host, ";&|$`()<>\"'\\ ") {
		result.Errors.AddField("server.host", config.Host, "host contains invalid characters",
			"Use 'localhost' for local development",
			"Use '0.0.0.0' to bind to all interfaces")
	}

	for _, origin := range config.AllowedOrigins {
		if origin == "*" {
			result.warn("server.allowed_origins", origin, "any origin may open the event stream")
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			result.Errors.AddField("server.allowed_origins", origin,
				"origin must be an http or https URL",
				"Example: http://localhost:3000")
		}
	}

	if config.SessionTTL < time.Second {
		result.Errors.AddField("server.session_ttl", config.SessionTTL,
			"session lifetime must be at least one second",
			"Use a duration such as 30m or 2h")
	}
}

func validateFixtures(config *FixturesConfig, result *ValidationResult) {
	if config.Path == "" {
		if config.Watch {
			result.Errors.AddField("fixtures.watch", config.Watch,
				"watching requires a fixtures path",
				"Set fixtures.path or pass --fixtures")
		}
		return
	}

	info, err := os.Stat(config.Path)
	switch {
	case err != nil:
		result.Errors.AddField("fixtures.path", config.Path, "fixtures file cannot be read: "+err.Error())
	case info.IsDir():
		result.Errors.AddField("fixtures.path", config.Path, "fixtures path is a directory")
	}
}

func validateTable(config *TableConfig, result *ValidationResult) {
	if strings.TrimSpace(config.EmptyText) == "" {
		result.warn("table.empty_text", config.EmptyText, "empty tables will render a blank row")
	}
	if config.RowKey == "" && config.Selectable {
		result.warn("table.row_key", config.RowKey,
			"selection is positional and does not follow rows across reloads")
	}
}

func validateLogging(config *LoggingConfig, result *ValidationResult) {
	if _, err := logging.ParseLevel(config.Level); err != nil {
		result.Errors.AddField("logging.level", config.Level, err.Error(),
			"Use debug, info, warn or error")
	}
	switch config.Format {
	case "text", "json":
	default:
		result.Errors.AddField("logging.format", config.Format, "unknown log format",
			"Use text or json")
	}
}
