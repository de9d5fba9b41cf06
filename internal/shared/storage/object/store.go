package object

import (
	"context"
	"io"
)

// Stored describes an object written by Save.
type Stored struct {
	Key      string
	Size     int64
	MimeType string
}

// ObjectStore saves uploaded plans and derived artifacts such as extracted text.
type ObjectStore interface {
	Save(ctx context.Context, namespace string, fileName string, r io.Reader) (Stored, error)
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
