package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears every key Load reads so host variables do not leak in.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
		"APP_PORT", "APP_ENV", "LOG_LEVEL", "JWT_SECRET_KEY", "JWT_ACCESS_EXPIRATION_TIME",
		"CORS_ALLOWED_ORIGINS", "CIVIL_TIMEZONE", "REPAIR_WINDOW_DAYS", "REPAIR_SCHEDULE", "SUMMARY_MAX_DAYS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	t.Setenv("JWT_SECRET_KEY", "secret")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "fieldwork", cfg.Database.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "Europe/Prague", cfg.Civil.Timezone)
	assert.Equal(t, 30, cfg.Repair.WindowDays)
	assert.Equal(t, "0 3 * * *", cfg.Repair.Schedule)
	assert.Equal(t, 180, cfg.Payroll.SummaryMaxDays)
	assert.Equal(t, "1h", cfg.JWT.AccessExpiration)
}

func TestLoad_Overrides(t *testing.T) {
	isolate(t)
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REPAIR_WINDOW_DAYS", "7")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 7, cfg.Repair.WindowDays)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "postgres://postgres:pw@db.internal:5432/fieldwork?sslmode=disable", cfg.DatabaseURL())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"JWT_SECRET_KEY": ""}},
		{"bad port", map[string]string{"DB_PORT": "abc"}},
		{"bad zone", map[string]string{"CIVIL_TIMEZONE": "Mars/Olympus"}},
		{"bad expiration", map[string]string{"JWT_ACCESS_EXPIRATION_TIME": "soon"}},
		{"zero repair window", map[string]string{"REPAIR_WINDOW_DAYS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv("JWT_SECRET_KEY", "secret")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()

			assert.Error(t, err)
		})
	}
}
