package image

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoImage is returned when the provider answers successfully but without
// any artifact.
var ErrNoImage = errors.New("no image returned")

// Params are the fixed generation settings sent with every prompt.
type Params struct {
	CfgScale int `json:"cfg_scale"`
	Height   int `json:"height"`
	Width    int `json:"width"`
	Steps    int `json:"steps"`
	Samples  int `json:"samples"`
}

// Config describes the upstream provider.
type Config struct {
	Host   string
	Engine string
	Params Params
}

const (
	DefaultHost   = "https://api.stability.ai"
	DefaultEngine = "stable-diffusion-v1-6"
)

func DefaultParams() Params {
	return Params{
		CfgScale: 7,
		Height:   1024,
		Width:    1024,
		Steps:    30,
		Samples:  1,
	}
}

func DefaultConfig() Config {
	return Config{
		Host:   DefaultHost,
		Engine: DefaultEngine,
		Params: DefaultParams(),
	}
}

// StatusError is a non-2xx answer from the provider. Its message embeds the
// response body for diagnosis.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Non-200 response: %s", e.Body)
}

// Generator turns a prompt into a base64 encoded PNG.
type Generator interface {
	Generate(ctx context.Context, key, prompt string) (string, error)
}
