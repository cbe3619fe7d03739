package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/dmorgan81/pixelproxy/internal/image"
	"github.com/dmorgan81/pixelproxy/internal/log"
	"github.com/dmorgan81/pixelproxy/internal/param"
	"github.com/samber/do"
	"github.com/samber/lo"
)

var (
	ErrMissingKey    = errors.New("Missing STABILITY_API_KEY.")
	ErrMissingPrompt = errors.New("Prompt is required")
)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
}

// Input is the body accepted by the proxy.
type Input struct {
	Prompt string `json:"prompt"`
}

// Output is the envelope returned for every non-preflight request. Exactly
// one field is set.
type Output struct {
	Image string `json:"image,omitempty"`
	Error string `json:"error,omitempty"`
}

// KeySource yields the upstream credential for one request.
type KeySource interface {
	Get(context.Context) (string, error)
}

type Handler struct {
	generator image.Generator
	key       KeySource
}

func New(generator image.Generator, key KeySource) *Handler {
	return &Handler{generator: generator, key: key}
}

func NewHandler(i *do.Injector) (*Handler, error) {
	return New(
		do.MustInvoke[image.Generator](i),
		do.MustInvoke[param.Credential](i),
	), nil
}

func (h *Handler) Handle(ctx context.Context, request events.APIGatewayV2HTTPRequest) (resp events.APIGatewayV2HTTPResponse, err error) {
	ctx = log.WithRequestID(ctx, request.RequestContext.RequestID)
	log := log.FromContextOrDiscard(ctx).WithGroup("Handler").With(
		"method", request.RequestContext.HTTP.Method,
		"path", request.RawPath,
	)

	if request.RequestContext.HTTP.Method == http.MethodOptions {
		log.Debug("answering preflight")
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusOK,
			Headers:    headers(false),
			Body:       "ok",
		}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("recovered from panic", "panic", r)
			resp = respond(http.StatusInternalServerError, Output{Error: fmt.Sprint(r)})
		}
	}()

	log.Info("handling generate request")
	img, genErr := h.generate(ctx, request)
	if genErr != nil {
		status := lo.Ternary(errors.Is(genErr, ErrMissingPrompt), http.StatusBadRequest, http.StatusInternalServerError)
		log.Error("generate failed", "status", status, "error", genErr)
		return respond(status, Output{Error: genErr.Error()}), nil
	}
	return respond(http.StatusOK, Output{Image: img}), nil
}

func (h *Handler) generate(ctx context.Context, request events.APIGatewayV2HTTPRequest) (string, error) {
	key, err := h.key.Get(ctx)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", ErrMissingKey
	}

	body := []byte(request.Body)
	if request.IsBase64Encoded {
		if body, err = base64.StdEncoding.DecodeString(request.Body); err != nil {
			return "", err
		}
	}

	var input Input
	if err := json.Unmarshal(body, &input); err != nil {
		return "", err
	}
	if input.Prompt == "" {
		return "", ErrMissingPrompt
	}

	return h.generator.Generate(ctx, key, input.Prompt)
}

func headers(withJSON bool) map[string]string {
	h := make(map[string]string, len(corsHeaders)+1)
	for k, v := range corsHeaders {
		h[k] = v
	}
	if withJSON {
		h["Content-Type"] = "application/json"
	}
	return h
}

func respond(status int, out Output) events.APIGatewayV2HTTPResponse {
	data, _ := json.Marshal(out)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    headers(true),
		Body:       string(data),
	}
}
