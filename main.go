package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/dmorgan81/pixelproxy/internal/config"
	"github.com/dmorgan81/pixelproxy/internal/handler"
	"github.com/dmorgan81/pixelproxy/internal/inject"
	"github.com/dmorgan81/pixelproxy/internal/log"
	"github.com/samber/do"
)

func main() {
	cfg := config.Load()
	ctx := log.NewContext(context.Background(), log.New(os.Stderr, cfg.LogLevel))
	injector := inject.Setup(ctx, cfg)
	handler := do.MustInvoke[*handler.Handler](injector)
	lambda.StartWithOptions(handler.Handle, lambda.WithContext(ctx), lambda.WithEnableSIGTERM(func() {
		_ = injector.Shutdown()
	}))
}
