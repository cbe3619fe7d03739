package param

import (
	"context"
	"os"
)

// Fetcher resolves a named secret. An absent value is reported as "" with a
// nil error.
type Fetcher interface {
	Fetch(context.Context, string) (string, error)
}

// EnvFetcher reads values from the process environment at call time.
type EnvFetcher struct {
	Lookup func(string) (string, bool)
}

func (f *EnvFetcher) Fetch(_ context.Context, name string) (string, error) {
	lookup := f.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, _ := lookup(name)
	return v, nil
}

// Credential binds a Fetcher to the name of one secret.
type Credential struct {
	Fetcher Fetcher
	Name    string
}

func (c Credential) Get(ctx context.Context) (string, error) {
	return c.Fetcher.Fetch(ctx, c.Name)
}
