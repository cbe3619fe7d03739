package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmorgan81/pixelproxy/internal/log"
	"github.com/samber/do"
)

type textPrompt struct {
	Text string `json:"text"`
}

type textToImageRequest struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	Params
}

type artifact struct {
	Base64       string `json:"base64"`
	Seed         int64  `json:"seed"`
	FinishReason string `json:"finishReason"`
}

type textToImageResponse struct {
	Artifacts []artifact `json:"artifacts"`
}

type StabilityGenerator struct {
	Client *http.Client
	Config Config
}

func NewStabilityGenerator(i *do.Injector) (Generator, error) {
	return &StabilityGenerator{
		Client: do.MustInvoke[*http.Client](i),
		Config: do.MustInvoke[Config](i),
	}, nil
}

func (g *StabilityGenerator) url() string {
	return fmt.Sprintf("%s/v1/generation/%s/text-to-image", strings.TrimRight(g.Config.Host, "/"), g.Config.Engine)
}

func (g *StabilityGenerator) Generate(ctx context.Context, key, prompt string) (string, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("stability").With("engine", g.Config.Engine)
	log.Info("generating image", "params", g.Config.Params)

	body, err := json.Marshal(textToImageRequest{
		TextPrompts: []textPrompt{{Text: prompt}},
		Params:      g.Config.Params,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("reading error response: %w", err)
		}
		log.Warn("upstream rejected request", "status", resp.StatusCode)
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(text)}
	}

	var out textToImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Artifacts) == 0 {
		return "", ErrNoImage
	}

	first := out.Artifacts[0]
	log.Info("received image", "seed", first.Seed, "finish_reason", first.FinishReason)
	return first.Base64, nil
}
