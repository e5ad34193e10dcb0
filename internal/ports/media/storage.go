package media

import (
	"context"
	"io"
)

// Storage persists uploaded files and returns their stored path, relative to the
// media root (e.g. "posts/cat.gif").
type Storage interface {
	Save(ctx context.Context, dir, filename string, content io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}
