package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"yatube/internal/config"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// LocalStorage keeps media files under Root on the local disk.
type LocalStorage struct {
	Root string
}

func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{Root: root}
}

// Save writes content to Root/dir/filename and returns "dir/filename". A taken
// name gets a random suffix instead of being overwritten.
func (s *LocalStorage) Save(ctx context.Context, dir, filename string, content io.Reader) (string, error) {
	name := cleanName(filename)
	if err := os.MkdirAll(filepath.Join(s.Root, dir), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	for attempt := 0; attempt < 5; attempt++ {
		candidate := name
		if attempt > 0 {
			ext := filepath.Ext(name)
			suffix := strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", "")[:7]
			candidate = strings.TrimSuffix(name, ext) + "_" + suffix + ext
		}

		f, err := os.OpenFile(filepath.Join(s.Root, dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}

		if _, err := io.Copy(f, content); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", fmt.Errorf("write media file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", err
		}

		stored := path.Join(dir, candidate)
		config.Logger.Info("Stored media file", zap.String("path", stored))
		return stored, nil
	}
	return "", fmt.Errorf("could not find a free name for %q", name)
}

// Delete removes a stored file. A file that is already gone is not an error.
func (s *LocalStorage) Delete(ctx context.Context, name string) error {
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(name)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	config.Logger.Info("Deleted media file", zap.String("path", name))
	return nil
}

func cleanName(filename string) string {
	name := unsafeChars.ReplaceAllString(filepath.Base(filename), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "upload"
	}
	return name
}
