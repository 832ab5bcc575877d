package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTOML = `
[server]
http_port = 8080
shutdown_timeout = 10

[database]
host = "localhost"
port = 5432
user = "reservations"
password = "secret"
dbname = "reservations"

[logs]
level = "info"

[metrics]
enabled = true
path = "/metrics"
service_name = "reservation_service"

[business]
timezone = "Europe/Moscow"
max_availability_days = 14

[scheduler]
enabled = true
interval_seconds = 60
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeFile(t, "config.toml", validTOML)

	cfg, err := load(path, filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 14, cfg.Business.MaxAvailabilityDays)
	assert.Equal(t, time.Minute, cfg.Scheduler.Interval())
	assert.Equal(t, "host=localhost port=5432 user=reservations password=secret dbname=reservations sslmode=disable",
		cfg.Database.DSN())

	loc, err := cfg.Business.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "config.toml", validTOML)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_PASSWORD", "from-env")

	cfg, err := load(path, filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "from-env", cfg.Database.Password)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := writeFile(t, "config.toml", validTOML)
	envFile := writeFile(t, ".env", "DB_PASSWORD=dotenv-secret\n")
	// godotenv не перезаписывает уже заданные переменные, t.Setenv восстановит значение
	t.Setenv("DB_PASSWORD", "")
	require.NoError(t, os.Unsetenv("DB_PASSWORD"))

	cfg, err := load(path, envFile)

	require.NoError(t, err)
	assert.Equal(t, "dotenv-secret", cfg.Database.Password)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"missing port", `
[database]
host = "localhost"
port = 5432
user = "u"
dbname = "d"
[business]
timezone = "UTC"
`},
		{"unknown timezone", `
[server]
http_port = 8080
[database]
host = "localhost"
port = 5432
user = "u"
dbname = "d"
[business]
timezone = "Mars/Olympus"
`},
		{"scheduler without interval", `
[server]
http_port = 8080
[database]
host = "localhost"
port = 5432
user = "u"
dbname = "d"
[business]
timezone = "UTC"
[scheduler]
enabled = true
`},
		{"broken toml", `[server`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "config.toml", tt.toml)
			_, err := load(path, filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}

func TestLoad_BadHTTPPortEnv(t *testing.T) {
	path := writeFile(t, "config.toml", validTOML)
	t.Setenv("HTTP_PORT", "eighty")

	_, err := load(path, filepath.Join(t.TempDir(), "missing.env"))

	assert.Error(t, err)
}
