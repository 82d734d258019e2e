package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "/app/data/shortlinks.db", cfg.Database.Path)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, "admin123", cfg.Admin.Password)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "./logs/app.log", cfg.Log.Path)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_PATH", "/tmp/test.db")
	t.Setenv("ADMIN_USERNAME", "boss")
	t.Setenv("PORT", "8080")
	t.Setenv("APP_MODE", "development")
	t.Setenv("LOG_PATH", "/var/log/shortlink/app.log")

	cfg := Load()

	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, "boss", cfg.Admin.Username)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/var/log/shortlink/app.log", cfg.Log.Path)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg := Load()
	assert.Equal(t, 5000, cfg.Server.Port, "非法端口回退到默认值")
}
