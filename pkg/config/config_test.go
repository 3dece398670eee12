package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithPath_DefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "APP_NAME=extranet-test\nBACKEND_BASE_URL=http://backend.local/api/\nSESSION_STORE=memory\nCORS_ALLOW_ORIGINS=http://a.local, http://b.local\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadWithPath(path)
	require.NoError(t, err)

	assert.Equal(t, "extranet-test", cfg.App.Name)
	assert.Equal(t, "http://backend.local/api", cfg.Backend.BaseURL)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Zero(t, cfg.Backend.ReadRetries)
	assert.Equal(t, "TOKEN_EXPIRED", cfg.Auth.ExpiredCode)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.CORS.AllowOrigins)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadWithPath_MissingFile(t *testing.T) {
	_, err := LoadWithPath(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:     AppConfig{Name: "extranet-api"},
			Server:  ServerConfig{Port: 8080},
			Backend: BackendConfig{BaseURL: "http://backend"},
			Session: SessionConfig{Store: "redis"},
			Media:   MediaConfig{Driver: "disk", Dir: "./media"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing app name", func(c *Config) { c.App.Name = "" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"missing backend", func(c *Config) { c.Backend.BaseURL = "" }, true},
		{"unknown store", func(c *Config) { c.Session.Store = "file" }, true},
		{"http media without url", func(c *Config) { c.Media.Driver = "http" }, true},
		{"http media with url", func(c *Config) {
			c.Media.Driver = "http"
			c.Media.UploadURL = "https://bucket.local"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := &RedisConfig{Host: "redis.example.com", Port: 6380}
	assert.Equal(t, "redis.example.com:6380", cfg.Addr())
}
