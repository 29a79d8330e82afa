package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	unsetEnv(t, "DB_PATH")
	t.Setenv("TURSO_DATABASE_URL", "")
	t.Setenv("WEBHOOK_TIMEOUT", "")
	t.Setenv("EMAIL_TEST_MODE", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "db/coldemail.db", cfg.DBPath)
	assert.Equal(t, WebhookURL, cfg.WebhookURL)
	assert.Equal(t, 10*time.Second, cfg.WebhookTimeout)
	assert.True(t, cfg.EmailTestMode)
	assert.True(t, cfg.ComingSoonMode)
	assert.True(t, cfg.DeliveryLogEnabled())
}

// unsetEnv removes key for the duration of the test
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestDeliveryLogSwitch(t *testing.T) {
	t.Run("Empty DB_PATH disables the log", func(t *testing.T) {
		t.Setenv("DB_PATH", "")
		t.Setenv("TURSO_DATABASE_URL", "")

		cfg := Load()
		assert.Equal(t, "", cfg.DBPath)
		assert.False(t, cfg.DeliveryLogEnabled())
	})

	t.Run("Turso alone enables the log", func(t *testing.T) {
		t.Setenv("DB_PATH", "")
		t.Setenv("TURSO_DATABASE_URL", "libsql://leads.turso.io")

		assert.True(t, Load().DeliveryLogEnabled())
	})

	t.Run("Custom path", func(t *testing.T) {
		t.Setenv("DB_PATH", "/var/lib/coldemail/leads.db")
		t.Setenv("TURSO_DATABASE_URL", "")

		cfg := Load()
		assert.Equal(t, "/var/lib/coldemail/leads.db", cfg.DBPath)
		assert.True(t, cfg.DeliveryLogEnabled())
	})
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("WEBHOOK_TIMEOUT", "3s")
	t.Setenv("VIEW_IDLE_TIMEOUT", "5m")
	t.Setenv("EMAIL_TEST_MODE", "off")
	t.Setenv("LEAD_NOTIFY_TO", "sales@coldemail.com")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 3*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 5*time.Minute, cfg.ViewIdleTimeout)
	assert.False(t, cfg.EmailTestMode)
	assert.Equal(t, "sales@coldemail.com", cfg.LeadNotifyTo)
}

func TestWebhookURLIsNotRuntimeConfigurable(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "http://example.invalid")
	assert.Equal(t, WebhookURL, Load().WebhookURL)
}

func TestGetEnvDurationInvalid(t *testing.T) {
	t.Setenv("SOME_DURATION", "soon")
	assert.Equal(t, time.Minute, getEnvDuration("SOME_DURATION", time.Minute))

	t.Setenv("SOME_DURATION", "-1s")
	assert.Equal(t, time.Minute, getEnvDuration("SOME_DURATION", time.Minute))
}

func TestComingSoonModeFlag(t *testing.T) {
	old := comingSoonMode
	defer func() { comingSoonMode = old }()

	comingSoonMode = "false"
	assert.False(t, ComingSoonMode())

	comingSoonMode = "garbage"
	assert.True(t, ComingSoonMode())
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"true", "1", "YES", " on "} {
		assert.True(t, parseBool(v, false), v)
	}
	for _, v := range []string{"false", "0", "no", "OFF"} {
		assert.False(t, parseBool(v, true), v)
	}
	assert.True(t, parseBool("", true))
}
