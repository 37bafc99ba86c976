package models

import (
	"imageResizer/internal/variant"
	"time"
)

type Image struct {
	ID              string    `json:"id" db:"id" bson:"_id"`
	ImageURL        string    `json:"image_url" db:"image_url" bson:"image_url"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty" db:"thumbnail_url" bson:"thumbnail_url,omitempty"`
	LargeURL        string    `json:"large_url,omitempty" db:"large_url" bson:"large_url,omitempty"`
	IndexedToSearch bool      `json:"indexed_to_search" db:"indexed_to_search" bson:"indexed_to_search"`
	CreatedAt       time.Time `json:"created_at" db:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at" bson:"updated_at"`
}

// DerivativeURL returns the stored public URL for v, if it has been computed.
func (i *Image) DerivativeURL(v variant.Name) (string, bool) {
	var u string

	switch v {
	case variant.Thumbnail:
		u = i.ThumbnailURL
	case variant.Large:
		u = i.LargeURL
	}

	return u, u != ""
}

func (i *Image) SetDerivativeURL(v variant.Name, u string) {
	switch v {
	case variant.Thumbnail:
		i.ThumbnailURL = u
	case variant.Large:
		i.LargeURL = u
	}
}

// PrewarmRequest asks the worker to compute a derivative ahead of the first request.
type PrewarmRequest struct {
	ImageID string `json:"image_id"`
	Size    string `json:"size"`
}
