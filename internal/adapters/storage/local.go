package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

// PublicPrefix is the URL path the upload directory is served under.
const PublicPrefix = "/uploads/"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// LocalStorage keeps uploads on the local filesystem under a uuid name.
type LocalStorage struct {
	dir      string
	maxBytes int64
}

var _ ports.FileStorage = (*LocalStorage)(nil)

func NewLocalStorage(dir string, maxBytes int64) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir, maxBytes: maxBytes}, nil
}

func (s *LocalStorage) Dir() string { return s.dir }

func (s *LocalStorage) Save(ctx context.Context, originalName string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", domain.Invalid("image", "only jpg, jpeg, png and pdf files are allowed")
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}

	written, err := io.Copy(dst, io.LimitReader(content, s.maxBytes+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > s.maxBytes {
		err = domain.Invalid("image", fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}

	return PublicPrefix + name, nil
}
