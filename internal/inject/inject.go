package inject

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/dmorgan81/pixelproxy/internal/config"
	"github.com/dmorgan81/pixelproxy/internal/handler"
	"github.com/dmorgan81/pixelproxy/internal/image"
	"github.com/dmorgan81/pixelproxy/internal/log"
	"github.com/dmorgan81/pixelproxy/internal/page"
	"github.com/dmorgan81/pixelproxy/internal/param"
	"github.com/dmorgan81/pixelproxy/internal/publish"
	"github.com/dmorgan81/pixelproxy/internal/server"
	"github.com/dmorgan81/pixelproxy/internal/store"
	"github.com/samber/do"
)

// Setup registers every provider lazily; AWS clients are only built when
// something that needs them is invoked.
func Setup(ctx context.Context, cfg config.Config) *do.Injector {
	log := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		},
	})
	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return awsconfig.LoadDefaultConfig(ctx)
	})
	do.Provide[*ssm.Client](injector, func(i *do.Injector) (*ssm.Client, error) {
		return ssm.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*s3.Client](injector, func(i *do.Injector) (*s3.Client, error) {
		return s3.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*cloudfront.Client](injector, func(i *do.Injector) (*cloudfront.Client, error) {
		return cloudfront.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.ProvideValue[*http.Client](injector, http.DefaultClient)

	do.ProvideValue[config.Config](injector, cfg)
	do.ProvideValue[image.Config](injector, cfg.Provider)
	do.ProvideNamedValue[string](injector, "bucket", cfg.Bucket)
	do.ProvideNamedValue[string](injector, "distribution", cfg.Distribution)
	do.ProvideNamedValue[string](injector, "endpoint", cfg.Endpoint)
	do.ProvideNamedValue[string](injector, "listen_addr", cfg.ListenAddr)

	do.Provide[param.Credential](injector, func(i *do.Injector) (param.Credential, error) {
		if cfg.KeyParam != "" {
			fetcher, err := param.NewParameterStoreFetcher(i)
			if err != nil {
				return param.Credential{}, err
			}
			return param.Credential{Fetcher: fetcher, Name: cfg.KeyParam}, nil
		}
		return param.Credential{Fetcher: &param.EnvFetcher{}, Name: config.KeyEnv}, nil
	})
	do.Provide[image.Generator](injector, image.NewStabilityGenerator)
	do.Provide[*handler.Handler](injector, handler.NewHandler)

	do.Provide[*page.Templator](injector, page.NewTemplator)
	do.Provide[store.Uploader](injector, store.NewS3Uploader)
	do.Provide[store.Invalidator](injector, store.NewCloudFrontInvalidator)
	do.Provide[*publish.Publisher](injector, publish.NewPublisher)
	do.Provide[*server.Server](injector, server.NewServer)

	return injector
}
