package config

import (
	"os"

	"github.com/dmorgan81/pixelproxy/internal/image"
	"github.com/samber/lo"
)

// KeyEnv names the environment variable holding the Stability credential.
const KeyEnv = "STABILITY_API_KEY"

// Config holds everything read from the environment at startup. The
// credential itself is not part of it; it is resolved per request.
type Config struct {
	Provider image.Config

	// KeyParam, when set, is the SSM parameter path of the credential and
	// takes precedence over KeyEnv.
	KeyParam string

	Bucket       string
	Distribution string
	Endpoint     string
	ListenAddr   string
	LogLevel     string
}

// Load reads the configuration from the environment, falling back to
// defaults for anything unset.
func Load() Config {
	provider := image.DefaultConfig()
	provider.Host = getenv("STABILITY_API_HOST", provider.Host)
	provider.Engine = getenv("STABILITY_ENGINE", provider.Engine)

	return Config{
		Provider:     provider,
		KeyParam:     os.Getenv("STABILITY_API_KEY_PARAM"),
		Bucket:       os.Getenv("BUCKET"),
		Distribution: os.Getenv("DISTRIBUTION"),
		Endpoint:     getenv("PROXY_ENDPOINT", "/generate-image"),
		ListenAddr:   getenv("LISTEN_ADDR", ":8080"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
	}
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	return lo.Ternary(v != "", v, fallback)
}
