// Command pixelproxy runs the image proxy and its prompt page away from
// Lambda.
//
//	pixelproxy serve                 serve the page and proxy locally
//	pixelproxy generate -o cat.png a cat on a laptop
//	pixelproxy publish               upload the page to S3 and invalidate CloudFront
package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dmorgan81/pixelproxy/internal/client"
	"github.com/dmorgan81/pixelproxy/internal/config"
	"github.com/dmorgan81/pixelproxy/internal/inject"
	"github.com/dmorgan81/pixelproxy/internal/log"
	"github.com/dmorgan81/pixelproxy/internal/publish"
	"github.com/dmorgan81/pixelproxy/internal/server"
	"github.com/dmorgan81/pixelproxy/internal/store"
	"github.com/joho/godotenv"
	"github.com/samber/do"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pixelproxy <serve|generate|publish> [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	// .env is optional
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger := log.New(os.Stderr, cfg.LogLevel)
	ctx = log.NewContext(ctx, logger)

	injector := inject.Setup(ctx, cfg)
	defer func() { _ = injector.Shutdown() }()

	var err error
	switch os.Args[1] {
	case "serve":
		err = serve(ctx, injector, os.Args[2:])
	case "generate":
		err = generate(ctx, cfg, os.Args[2:])
	case "publish":
		err = publishPage(ctx, injector, cfg)
	default:
		usage()
	}
	if err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, injector *do.Injector, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "listen address, overrides LISTEN_ADDR")
	_ = fs.Parse(args)
	if *addr != "" {
		do.OverrideNamedValue[string](injector, "listen_addr", *addr)
	}
	return do.MustInvoke[*server.Server](injector).Run(ctx)
}

func generate(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	endpoint := fs.String("endpoint", defaultEndpoint(cfg), "proxy endpoint")
	out := fs.String("o", "image.png", "output file")
	_ = fs.Parse(args)

	c := client.New(&client.HTTPInvoker{Endpoint: *endpoint})
	c.SetPrompt(strings.Join(fs.Args(), " "))
	c.Submit(ctx)

	state := c.State()
	if state.Error != nil {
		return errors.New(*state.Error)
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(state.ImageURL, "data:image/png;base64,"))
	if err != nil {
		return fmt.Errorf("decoding image: %w", err)
	}
	uploader := &store.FileUploader{Dir: filepath.Dir(*out)}
	return uploader.Upload(ctx, store.UploadParams{
		Name:        filepath.Base(*out),
		Data:        data,
		ContentType: "image/png",
	})
}

// defaultEndpoint points at PROXY_ENDPOINT when it is absolute, otherwise at
// the local server.
func defaultEndpoint(cfg config.Config) string {
	if strings.HasPrefix(cfg.Endpoint, "http://") || strings.HasPrefix(cfg.Endpoint, "https://") {
		return cfg.Endpoint
	}
	host := cfg.ListenAddr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	return "http://" + host + cfg.Endpoint
}

func publishPage(ctx context.Context, injector *do.Injector, cfg config.Config) error {
	if cfg.Bucket == "" {
		return errors.New("BUCKET is required to publish")
	}
	return do.MustInvoke[*publish.Publisher](injector).Publish(ctx)
}
