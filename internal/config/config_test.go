package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.HTTPPort)
	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.True(t, cfg.App.IsDevelopment())
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window())
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
	assert.Equal(t, time.Minute, cfg.RateLimit.StrictWindow())
	assert.Equal(t, 10, cfg.RateLimit.StrictMaxRequests)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	assert.Equal(t, 30000, cfg.Retry.MaxWaitMS)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout())
	assert.False(t, cfg.RapidAPI.Enabled)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
[app]
environment = "production"

[server]
http_port = 8080

[telegram]
default_bot_token = "from-file"

[rapidapi]
enabled = true
proxy_secret = "file-secret"
premium_tiers = ["PRO"]

[rate_limit]
window_ms = 60000
max_requests = 30
`)
	t.Setenv("PORT", "9090")
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("RAPIDAPI_PREMIUM_TIERS", "PRO, ULTRA")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, EnvProduction, cfg.App.Environment)
	assert.Equal(t, "from-env", cfg.Telegram.DefaultBotToken)
	assert.Equal(t, "file-secret", cfg.RapidAPI.ProxySecret)
	assert.Equal(t, []string{"PRO", "ULTRA"}, cfg.RapidAPI.PremiumTiers)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window())
	assert.Equal(t, 30, cfg.RateLimit.MaxRequests)
	assert.Equal(t, "debug", cfg.Logs.Level)
}

func TestLoad_HTTPPortWinsOverPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "7000")
	t.Setenv("PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.HTTPPort)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
		want string
	}{
		{
			name: "marketplace without secret",
			env:  map[string]string{"RAPIDAPI_ENABLED": "true"},
			want: "ProxySecret",
		},
		{
			name: "unknown environment",
			env:  map[string]string{"APP_ENV": "staging"},
			want: "Environment",
		},
		{
			name: "port not a number",
			env:  map[string]string{"PORT": "eighty"},
			want: "PORT",
		},
		{
			name: "zero rate limit",
			env:  map[string]string{"RATE_LIMIT_MAX_REQUESTS": "0"},
			want: "MaxRequests",
		},
		{
			name: "endpoint without placeholders",
			file: "[telegram]\napi_endpoint = \"https://api.telegram.org\"\n",
			want: "api_endpoint",
		},
		{
			name: "broken toml",
			file: "[server\n",
			want: "failed to decode TOML config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
