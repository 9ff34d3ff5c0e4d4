package ports

import (
	"context"
	"io"
)

type FileStorage interface {
	// Save stores the content under a generated name and returns its public URL.
	Save(ctx context.Context, originalName string, content io.Reader) (string, error)
}
