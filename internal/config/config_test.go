package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func devConfig() *Config {
	return &Config{
		Port:         "8080",
		Env:          "development",
		JWTSecret:    "dev-secret",
		PageSize:     10,
		CodeTTLHours: 24,
		MinTitleYear: 1800,
	}
}

func prodConfig() *Config {
	return &Config{
		Port:         "8080",
		Env:          "production",
		JWTSecret:    strings.Repeat("s", 32),
		DBPassword:   "genuinely-strong-password",
		DBSSLMode:    "require",
		SMTPHost:     "smtp.example.com",
		PageSize:     10,
		CodeTTLHours: 24,
		MinTitleYear: 1800,
	}
}

func TestValidate_Development(t *testing.T) {
	require.NoError(t, devConfig().Validate())

	c := devConfig()
	c.Port = ""
	assert.Error(t, c.Validate())

	c = devConfig()
	c.JWTSecret = ""
	assert.Error(t, c.Validate())

	c = devConfig()
	c.PageSize = 0
	assert.Error(t, c.Validate())

	c = devConfig()
	c.CodeTTLHours = -1
	assert.Error(t, c.Validate())

	c = devConfig()
	c.MinTitleYear = -5
	assert.Error(t, c.Validate())
}

func TestValidate_ProductionHardening(t *testing.T) {
	require.NoError(t, prodConfig().Validate())

	c := prodConfig()
	c.JWTSecret = "your-secret-key-change-in-production"
	assert.Error(t, c.Validate(), "default secret must be rejected")

	c = prodConfig()
	c.JWTSecret = "short"
	assert.Error(t, c.Validate())

	c = prodConfig()
	c.DBPassword = "password"
	assert.Error(t, c.Validate())

	c = prodConfig()
	c.SMTPHost = ""
	assert.Error(t, c.Validate(), "production cannot run without a mail transport")

	// "prod" is treated the same as "production".
	c = prodConfig()
	c.Env = "prod"
	c.JWTSecret = "short"
	assert.Error(t, c.Validate())
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 24, cfg.CodeTTLHours)
	assert.Equal(t, 1800, cfg.MinTitleYear)
	assert.NotEmpty(t, cfg.RedisURL)
}
