package config

import (
	"testing"

	"github.com/dmorgan81/pixelproxy/internal/image"
	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"STABILITY_API_HOST", "STABILITY_ENGINE", "STABILITY_API_KEY_PARAM",
		"BUCKET", "DISTRIBUTION", "PROXY_ENDPOINT", "LISTEN_ADDR", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	assert.Equal(t, image.DefaultConfig(), cfg.Provider)
	assert.Equal(t, "https://api.stability.ai", cfg.Provider.Host)
	assert.Equal(t, "stable-diffusion-v1-6", cfg.Provider.Engine)
	assert.Equal(t, image.Params{CfgScale: 7, Height: 1024, Width: 1024, Steps: 30, Samples: 1}, cfg.Provider.Params)
	assert.Empty(t, cfg.KeyParam)
	assert.Equal(t, "/generate-image", cfg.Endpoint)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STABILITY_API_HOST", "http://localhost:9999")
	t.Setenv("STABILITY_ENGINE", "stable-diffusion-xl-1024-v1-0")
	t.Setenv("STABILITY_API_KEY_PARAM", "/pixelproxy/key")
	t.Setenv("BUCKET", "site")
	t.Setenv("DISTRIBUTION", "E123")
	t.Setenv("PROXY_ENDPOINT", "https://fn.example.com/")
	t.Setenv("LISTEN_ADDR", "127.0.0.1:3000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, "http://localhost:9999", cfg.Provider.Host)
	assert.Equal(t, "stable-diffusion-xl-1024-v1-0", cfg.Provider.Engine)
	assert.Equal(t, image.DefaultParams(), cfg.Provider.Params)
	assert.Equal(t, "/pixelproxy/key", cfg.KeyParam)
	assert.Equal(t, "site", cfg.Bucket)
	assert.Equal(t, "E123", cfg.Distribution)
	assert.Equal(t, "https://fn.example.com/", cfg.Endpoint)
	assert.Equal(t, "127.0.0.1:3000", cfg.ListenAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}
