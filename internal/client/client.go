// Package client holds the prompt form's state machine: prompt text, the
// image to show, a loading flag and an error message.
package client

import (
	"context"
	"strings"
	"sync"

	"github.com/dmorgan81/pixelproxy/internal/log"
	"github.com/samber/lo"
)

const (
	EmptyPromptMessage = "Please enter a prompt."
	EmptyStateMessage  = "Image will appear here"
	imagePrefix        = "data:image/png;base64,"
)

type Request struct {
	Prompt string `json:"prompt"`
}

type Result struct {
	Image string `json:"image,omitempty"`
	Error string `json:"error,omitempty"`
}

// Invoker carries a request to the image proxy. A returned error is a
// transport failure; application errors arrive in Result.Error.
type Invoker interface {
	Invoke(context.Context, Request) (Result, error)
}

// View is what the form renders, in priority order.
type View int

const (
	ViewEmpty View = iota
	ViewError
	ViewLoading
	ViewImage
)

func (v View) String() string {
	switch v {
	case ViewError:
		return "error"
	case ViewLoading:
		return "loading"
	case ViewImage:
		return "image"
	default:
		return "empty"
	}
}

type State struct {
	Prompt   string
	ImageURL string
	Loading  bool
	Error    *string
}

// View applies the render rule: error, then loading, then image, then the
// empty-state message.
func (s State) View() View {
	switch {
	case s.Error != nil:
		return ViewError
	case s.Loading:
		return ViewLoading
	case s.ImageURL != "":
		return ViewImage
	default:
		return ViewEmpty
	}
}

type Client struct {
	invoker Invoker

	mu    sync.Mutex
	state State
}

func New(invoker Invoker) *Client {
	return &Client{invoker: invoker}
}

func (c *Client) SetPrompt(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Loading {
		c.state.Prompt = prompt
	}
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CanSubmit reports whether the generate control is enabled.
func (c *Client) CanSubmit() bool {
	return !c.State().Loading
}

// Submit sends the current prompt and blocks until the proxy answers. It
// returns false without doing anything while a previous submission is still
// in flight.
func (c *Client) Submit(ctx context.Context) bool {
	c.mu.Lock()
	if c.state.Loading {
		c.mu.Unlock()
		return false
	}
	prompt := c.state.Prompt
	if strings.TrimSpace(prompt) == "" {
		c.state.Error = lo.ToPtr(EmptyPromptMessage)
		c.mu.Unlock()
		return true
	}
	c.state.Loading = true
	c.state.Error = nil
	c.state.ImageURL = ""
	c.mu.Unlock()

	log := log.FromContextOrDiscard(ctx).WithGroup("client")
	log.Info("submitting prompt", "prompt", prompt)

	result, err := c.invoker.Invoke(ctx, Request{Prompt: prompt})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false
	switch {
	case err != nil:
		log.Warn("proxy unreachable", "error", err)
		c.state.Error = lo.ToPtr(err.Error())
	case result.Error != "":
		log.Warn("proxy returned error", "error", result.Error)
		c.state.Error = lo.ToPtr(result.Error)
	default:
		c.state.ImageURL = imagePrefix + result.Image
	}
	return true
}
