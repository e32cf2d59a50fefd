package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadJSONConfig_GroupedSections(t *testing.T) {
	path := writeConfig(t, `{
		"app": {"AppPort": "9000", "JWTSecret": "s3cret", "RateLimitPerMinute": 30,
		        "AllowedOrigins": ["http://localhost:5173"], "AdminEmails": ["root@example.com"]},
		"database": {"Driver": "sqlite", "DBPath": "/tmp/x.db"},
		"redis": {"Enabled": true, "RedisPort": 6380},
		"upload": {"MaxSizeMB": 4, "RetentionDays": 30},
		"register": {"MaxPerIPPerDay": 2}
	}`)

	var c AppConfig
	require.NoError(t, loadJSONConfig(path, &c))

	assert.Equal(t, "9000", c.AppPort)
	assert.Equal(t, "s3cret", c.JWTSecret)
	assert.Equal(t, 30, c.RateLimitPerMinute)
	assert.Equal(t, []string{"http://localhost:5173"}, c.AllowedOrigins)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "/tmp/x.db", c.DBPath)
	assert.True(t, c.RedisEnabled)
	assert.Equal(t, 6380, c.RedisPort)
	assert.Equal(t, 4, c.MaxUploadSizeMB)
	assert.Equal(t, 30, c.UploadRetentionDays)
	assert.Equal(t, 2, c.RegisterMaxPerIPPerDay)
	assert.True(t, c.IsAdminEmail("ROOT@example.com"))
}

func TestLoadJSONConfig_MissingFileIsIgnored(t *testing.T) {
	var c AppConfig
	assert.NoError(t, loadJSONConfig(filepath.Join(t.TempDir(), "nope.json"), &c))
	assert.Equal(t, AppConfig{}, c)
}

func TestLoadJSONConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{"app": `)
	var c AppConfig
	assert.Error(t, loadJSONConfig(path, &c))
}

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	assert.Equal(t, "5000", c.AppPort)
	assert.Equal(t, "mysql", c.DBDriver)
	assert.Equal(t, 10, c.MaxUploadSizeMB)
	assert.Equal(t, 1024, c.MaxChartDataKB)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, 0, c.UploadRetentionDays)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("MONGO_URI", "legacy")
	t.Setenv("DATABASE_URI", "file::memory:")
	t.Setenv("ADMIN_EMAILS", " a@x.io , b@x.io ,")
	t.Setenv("ALLOW_ADMIN_REGISTRATION", "true")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "25")

	var c AppConfig
	applyDefaults(&c)
	applyEnvOverrides(&c)

	assert.Equal(t, "7000", c.AppPort)
	assert.Equal(t, "from-env", c.JWTSecret)
	assert.Equal(t, "file::memory:", c.DatabaseURI)
	assert.Equal(t, []string{"a@x.io", "b@x.io"}, c.AdminEmails)
	assert.True(t, c.AllowAdminRegistration)
	assert.True(t, c.RedisEnabled)
	assert.Equal(t, 25, c.MaxUploadSizeMB)
}

func TestApplyEnvOverrides_AppPortWinsOverPort(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("APP_PORT", "7001")

	var c AppConfig
	applyEnvOverrides(&c)
	assert.Equal(t, "7001", c.AppPort)
}

func TestOverrideFillsDefaults(t *testing.T) {
	c := Override(AppConfig{JWTSecret: "x"})
	assert.Equal(t, "x", Get().JWTSecret)
	assert.Equal(t, "5000", c.AppPort)
	assert.Equal(t, 120, Get().RateLimitPerMinute)
}

func TestOpenDatabase_UnsupportedDriver(t *testing.T) {
	_, err := OpenDatabase("oracle", "dsn", "silent")
	assert.Error(t, err)
}

func TestOpenDatabase_SQLiteInMemory(t *testing.T) {
	conn, err := OpenDatabase("sqlite", "file::memory:", "silent")
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	assert.NoError(t, sqlDB.Ping())
}

func TestExampleConfigDocumentsAdminBootstrap(t *testing.T) {
	var c AppConfig
	require.NoError(t, loadJSONConfig("config.example.json", &c))
	applyDefaults(&c)

	assert.False(t, c.AllowAdminRegistration, "self-service admin registration stays off by default")
	require.NotEmpty(t, c.AdminEmails)
	assert.True(t, c.IsAdminEmail(c.AdminEmails[0]))
	assert.Equal(t, 10, c.MaxUploadSizeMB)
}

func TestDefaultsKeepAdminRegistrationOff(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)
	assert.False(t, c.AllowAdminRegistration)
	assert.Empty(t, c.AdminEmails)
}
