package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost:8080", cfg.Server.Addr())
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
	assert.Empty(t, cfg.Server.AllowedOrigins)
	assert.NotNil(t, cfg.Server.AllowedOrigins)
	assert.Equal(t, "No data", cfg.Table.EmptyText)
	assert.True(t, cfg.Table.Selectable)
	assert.Equal(t, "id", cfg.Table.RowKey)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.False(t, cfg.Fixtures.Watch)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	fixtures := filepath.Join(dir, "fixtures.yml")
	require.NoError(t, os.WriteFile(fixtures, []byte("rows: []\n"), 0o644))

	file := filepath.Join(dir, ".widgetkit.yml")
	content := `server:
  port: 3000
  session_ttl: 2h
  allowed_origins:
    - http://localhost:3000
fixtures:
  path: ` + fixtures + `
  watch: true
table:
  empty_text: Nothing here
  selectable: false
  row_key: ""
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	v := viper.New()
	v.SetConfigFile(file)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Server.SessionTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, fixtures, cfg.Fixtures.Path)
	assert.True(t, cfg.Fixtures.Watch)
	assert.Equal(t, "Nothing here", cfg.Table.EmptyText)
	assert.False(t, cfg.Table.Selectable)
	assert.Empty(t, cfg.Table.RowKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WIDGETKIT_SERVER_PORT", "9090")
	t.Setenv("WIDGETKIT_TABLE_EMPTY_TEXT", "Empty")

	v := viper.New()
	v.SetEnvPrefix("WIDGETKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "Empty", cfg.Table.EmptyText)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value interface{}
		field string
	}{
		{name: "port out of range", key: "server.port", value: 70000, field: "server.port"},
		{name: "host with shell characters", key: "server.host", value: "localhost;rm", field: "server.host"},
		{name: "bad origin", key: "server.allowed_origins", value: []string{"ftp://x"}, field: "server.allowed_origins"},
		{name: "zero session ttl", key: "server.session_ttl", value: "0s", field: "server.session_ttl"},
		{name: "watch without path", key: "fixtures.watch", value: true, field: "fixtures.watch"},
		{name: "missing fixtures file", key: "fixtures.path", value: "/does/not/exist.yml", field: "fixtures.path"},
		{name: "unknown level", key: "logging.level", value: "loud", field: "logging.level"},
		{name: "unknown format", key: "logging.format", value: "xml", field: "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)

			_, err := LoadFrom(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoadRejectsUndecodable(t *testing.T) {
	v := viper.New()
	v.Set("server.port", "not-a-port")

	_, err := LoadFrom(v)
	assert.Error(t, err)
}

func TestValidationWarnings(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Host: "localhost", Port: 80, SessionTTL: time.Minute, AllowedOrigins: []string{"*"}},
		Table:   TableConfig{EmptyText: "", Selectable: true},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}

	result := Validate(cfg)
	assert.False(t, result.HasErrors())
	assert.NoError(t, result.Err())
	require.True(t, result.HasWarnings())
	assert.Len(t, result.Warnings, 4)

	out := result.String()
	assert.Contains(t, out, "Validation Warnings")
	assert.Contains(t, out, "server.port")
	assert.NotContains(t, out, "Validation Errors")
}
