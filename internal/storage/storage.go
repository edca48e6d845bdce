// Package storage keeps uploaded product images.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrUnsupportedImage = errors.New("unsupported image type")

type PutInput struct {
	Filename    string
	ContentType string
	Size        int64
}

type PutResult struct {
	Key string
	URL string
}

type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
}

// ImageExt returns the normalized extension for an accepted image upload.
func ImageExt(in PutInput) (string, error) {
	if ct := strings.ToLower(in.ContentType); ct != "" && !strings.HasPrefix(ct, "image/") {
		return "", ErrUnsupportedImage
	}
	ext := strings.ToLower(filepath.Ext(in.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return ext, nil
	default:
		return "", ErrUnsupportedImage
	}
}

func newKey(ext string) string { return uuid.NewString() + ext }
