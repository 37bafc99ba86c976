package local

import (
	"context"
	"errors"
	"fmt"
	"imageResizer/internal/blobstore"
	"imageResizer/internal/variant"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidKey = errors.New("key escapes storage directory")

// Storage keeps derivatives on the local filesystem. It is meant for
// development; objects are served by Handler.
type Storage struct {
	dir           string
	publicBaseURL string
}

func New(dir, publicBaseURL string) (*Storage, error) {
	const op = "blobstore.local.New"

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = os.MkdirAll(abs, os.ModePerm); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{dir: abs, publicBaseURL: publicBaseURL}, nil
}

func (s *Storage) Store(_ context.Context, data []byte, id string, v variant.Name) (string, error) {
	const op = "blobstore.local.Store"

	key := blobstore.Key(id, v)

	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if !strings.HasPrefix(path, s.dir+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w: %q", op, ErrInvalidKey, key)
	}

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return blobstore.PublicURL(s.publicBaseURL, key), nil
}

// Handler serves stored objects with the same headers the object store uses.
func (s *Storage) Handler() http.Handler {
	fs := http.FileServer(http.Dir(s.dir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", blobstore.ContentType)
		w.Header().Set("Content-Disposition", blobstore.ContentDisposition)
		w.Header().Set("Cache-Control", blobstore.CacheControl)
		fs.ServeHTTP(w, r)
	})
}
