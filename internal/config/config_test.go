package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[development]
environment = "development"
log_level = "debug"
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "overload"
redis_host = "localhost"
redis_port = "6379"
history_store = "file"
history_file_path = "/tmp/overload/history.json"
workers = 8
port = 9300
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "9301"
allowed_origins = ["http://localhost:3000", "https://coach.overload.app"]

[production]
environment = "production"
log_level = "info"
logs_path = "/var/log/overload/overload.log"
postgres_host = "db"
postgres_port = "5432"
postgres_db_name = "overload"
history_store = "postgres"
lookback_weeks = 3
min_sets = 3
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	cfg, err := Load("dev", writeConfig(t, testConfig))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.LogToStdout)
	assert.Equal(t, HistoryStoreFile, cfg.HistoryStore)
	assert.Equal(t, "/tmp/overload/history.json", cfg.HistoryFilePath)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 9300, cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://coach.overload.app"}, cfg.AllowedOrigins)

	// defaults
	assert.Equal(t, 2, cfg.LookbackWeeks)
	assert.Equal(t, 1, cfg.MinSets)
	assert.Equal(t, 60, cfg.RateLimitAllowedPerMin)
	assert.Positive(t, cfg.HistoryCacheSize)
}

func TestLoad_Production(t *testing.T) {
	cfg, err := Load("production", writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, HistoryStorePostgres, cfg.HistoryStore)
	assert.Equal(t, 3, cfg.LookbackWeeks)
	assert.Equal(t, 3, cfg.MinSets)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("staging", writeConfig(t, testConfig))
	assert.EqualError(t, err, "unknown env: staging")

	_, err = Load("dev", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load("prod", writeConfig(t, "[development]\nlog_level = \"debug\"\n"))
	assert.EqualError(t, err, "config section for env [prod] missing")

	_, err = Load("dev", writeConfig(t, "[development]\nhistory_store = \"file\"\n"))
	assert.ErrorContains(t, err, "history_file_path must be set")

	_, err = Load("dev", writeConfig(t, "[development]\nhistory_store = \"mongo\"\n"))
	assert.ErrorContains(t, err, "unknown history store: mongo")
}
