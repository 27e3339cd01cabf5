package catalog

import (
	"context"
	"io"
)

// ObjectStorage stores item images. Keys are relative object names such as
// "items/<id>/<uuid>.png".
type ObjectStorage interface {
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// PresignGet returns a time-limited URL for reading the object
	PresignGet(ctx context.Context, key string) (string, error)
	DeleteObject(ctx context.Context, key string) error
}
