package publish

import (
	"context"
	"fmt"

	"github.com/dmorgan81/pixelproxy/internal/log"
	"github.com/dmorgan81/pixelproxy/internal/page"
	"github.com/dmorgan81/pixelproxy/internal/store"
	"github.com/samber/do"
	"github.com/samber/lo"
)

// Publisher renders the prompt page and pushes it to static hosting.
type Publisher struct {
	templator   *page.Templator
	uploader    store.Uploader
	invalidator store.Invalidator
	endpoint    string
}

func New(templator *page.Templator, uploader store.Uploader, invalidator store.Invalidator, endpoint string) *Publisher {
	return &Publisher{templator, uploader, invalidator, endpoint}
}

func NewPublisher(i *do.Injector) (*Publisher, error) {
	return New(
		do.MustInvoke[*page.Templator](i),
		do.MustInvoke[store.Uploader](i),
		do.MustInvoke[store.Invalidator](i),
		do.MustInvokeNamed[string](i, "endpoint"),
	), nil
}

func (p *Publisher) Publish(ctx context.Context) error {
	log := log.FromContextOrDiscard(ctx).WithGroup("Publisher").With("endpoint", p.endpoint)
	log.Info("publishing prompt page")

	html, err := p.templator.Template(ctx, page.Params{Endpoint: p.endpoint})
	if err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}

	err = p.uploader.Upload(ctx, store.UploadParams{
		Name:         "index.html",
		Data:         html,
		ContentType:  "text/html",
		CacheControl: "no-cache",
	})
	if err != nil {
		return fmt.Errorf("uploading page: %w", err)
	}

	paths := lo.Map([]string{"", "index.html"}, func(name string, _ int) string {
		return "/" + name
	})
	if err := p.invalidator.Invalidate(ctx, paths); err != nil {
		return fmt.Errorf("invalidating %v: %w", paths, err)
	}
	return nil
}
