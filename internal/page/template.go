package page

import (
	"bytes"
	"context"
	_ "embed"
	"html/template"
	"sync"

	"github.com/dmorgan81/pixelproxy/internal/client"
	"github.com/dmorgan81/pixelproxy/internal/log"
	"github.com/samber/do"
)

//go:embed assets/index.html
var indexTmpl string

type Params struct {
	Endpoint    string
	Placeholder string
}

type pageData struct {
	Params
	EmptyPrompt string
	EmptyState  string
}

type Templator struct {
	tmpl *template.Template
	once sync.Once
}

func NewTemplator(*do.Injector) (*Templator, error) {
	return &Templator{}, nil
}

func (g *Templator) Template(ctx context.Context, params Params) ([]byte, error) {
	g.once.Do(func() {
		g.tmpl = template.Must(template.New("index").Parse(indexTmpl))
	})

	log := log.FromContextOrDiscard(ctx).WithGroup("templator")
	log.Info("generating page", "endpoint", params.Endpoint)

	if params.Placeholder == "" {
		params.Placeholder = "e.g., A cute cat programming on a laptop"
	}

	var data bytes.Buffer
	if err := g.tmpl.Execute(&data, pageData{
		Params:      params,
		EmptyPrompt: client.EmptyPromptMessage,
		EmptyState:  client.EmptyStateMessage,
	}); err != nil {
		return nil, err
	}
	return data.Bytes(), nil
}
