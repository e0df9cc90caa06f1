package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "DB_PORT", "PORT", "SESSION_SECRET", "REMINDER_TIMEZONE", "CORS_ALLOWED_ORIGINS", "JOB_LOOKUP_REFRESH_MIN", "JOB_REMINDER_DIGEST_HOURS"} {
		t.Setenv(key, "")
	}

	require.NoError(t, LoadConfig())

	assert.Equal(t, DriverMySQL, Cfg.DBDriver)
	assert.Equal(t, 3306, Cfg.DBPort)
	assert.Equal(t, "8081", Cfg.Port)
	assert.Equal(t, 12*time.Hour, Cfg.SessionMaxAge)
	assert.True(t, Cfg.SessionSecretGenerated)
	assert.Len(t, Cfg.SessionSecret, 64)
	assert.Equal(t, 7, Cfg.ReminderDefaultDays)
	assert.Equal(t, time.UTC, ReminderLocation())
	assert.NotEmpty(t, Cfg.CORSAllowedOrigins)
	assert.Equal(t, 15*time.Minute, Cfg.LookupRefreshInterval)
	assert.Equal(t, 24*time.Hour, Cfg.ReminderDigestInterval)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_PORT", "")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("REMINDER_TIMEZONE", "Asia/Kolkata")
	t.Setenv("REG_NUM_MAX_RETRIES", "3")

	require.NoError(t, LoadConfig())

	assert.Equal(t, DriverPostgres, Cfg.DBDriver)
	assert.Equal(t, 5432, Cfg.DBPort)
	assert.Equal(t, "s3cret", Cfg.SessionSecret)
	assert.False(t, Cfg.SessionSecretGenerated)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, Cfg.CORSAllowedOrigins)
	assert.Equal(t, "Asia/Kolkata", ReminderLocation().String())
	assert.Equal(t, 3, Cfg.RegNumMaxRetries)
}

func TestValidate(t *testing.T) {
	valid := func() AppConfig {
		return AppConfig{
			DBDriver: DriverSQLite, ReminderTimezone: "UTC", PageSizeDefault: 10, PageSizeMax: 100, RegNumMaxRetries: 5,
			LookupRefreshInterval: 15 * time.Minute, ReminderDigestInterval: 24 * time.Hour,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr bool
	}{
		{"valid", func(c *AppConfig) {}, false},
		{"unknown driver", func(c *AppConfig) { c.DBDriver = "oracle" }, true},
		{"bad timezone", func(c *AppConfig) { c.ReminderTimezone = "Mars/Base" }, true},
		{"negative reminder days", func(c *AppConfig) { c.ReminderDefaultDays = -1 }, true},
		{"max below default", func(c *AppConfig) { c.PageSizeMax = 5 }, true},
		{"zero job interval", func(c *AppConfig) { c.LookupRefreshInterval = 0 }, true},
		{"zero retries clamps", func(c *AppConfig) { c.RegNumMaxRetries = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, c.RegNumMaxRetries, 1)
		})
	}
}

func TestDialectorPerDriver(t *testing.T) {
	saved := Cfg
	t.Cleanup(func() { Cfg = saved })

	for _, driver := range []string{DriverMySQL, DriverMemory, DriverPostgres, DriverSQLite} {
		Cfg = AppConfig{DBDriver: driver, DBHost: "localhost", DBPort: 1, DBUser: "u", DBName: "file::memory:"}
		d, err := Dialector()
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}

	Cfg.DBDriver = "oracle"
	_, err := Dialector()
	assert.Error(t, err)
}
