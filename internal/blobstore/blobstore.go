// Package blobstore holds the naming rules shared by derivative storage backends.
package blobstore

import (
	"fmt"
	"imageResizer/internal/variant"
	"strings"
)

const (
	ContentType        = "image/jpeg"
	ContentDisposition = "inline"
	CacheControl       = "public, max-age=31536000"
)

// Key is the storage key of a derivative. It depends only on id and v, so
// repeated uploads overwrite the same object.
func Key(id string, v variant.Name) string {
	return fmt.Sprintf("images/%s_%s.jpg", id, v)
}

func PublicURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + key
}
