package storage

import "errors"

var ErrImageNotFound = errors.New("image not found")
