package model

import (
	"context"
	"io"
)

// ObjectStat describes a stored object.
type ObjectStat struct {
	Size        int64
	ContentType string
}

// Storage abstracts the object storage backend used for user files.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, ObjectStat, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
