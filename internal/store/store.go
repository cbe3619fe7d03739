package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dmorgan81/pixelproxy/internal/log"
)

type UploadParams struct {
	Name         string
	Data         []byte
	ContentType  string
	CacheControl string
	Metadata     map[string]string
}

type Uploader interface {
	Upload(context.Context, UploadParams) error
}

// Invalidator purges cached copies of the given paths.
type Invalidator interface {
	Invalidate(context.Context, []string) error
}

// FileUploader writes uploads below Dir on the local filesystem.
type FileUploader struct {
	Dir string
}

func (u *FileUploader) Upload(ctx context.Context, params UploadParams) error {
	path := filepath.Join(u.Dir, params.Name)
	log := log.FromContextOrDiscard(ctx).WithGroup("file")
	log.Info("writing", "file", path, "bytes", len(params.Data))
	return os.WriteFile(path, params.Data, 0600)
}
