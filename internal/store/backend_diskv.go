package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

type diskvBackend struct {
	d        *diskv.Diskv
	basePath string
}

// NewDiskvBackend stores each key as one file under basePath.
func NewDiskvBackend(basePath string) (Backend, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("diskv: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("diskv: ensure base path: %w", err)
	}
	return &diskvBackend{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			TempDir:      filepath.Join(basePath, ".tmp"),
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		basePath: basePath,
	}, nil
}

func (b *diskvBackend) Name() string { return BackendDiskv }

func (b *diskvBackend) Read(_ context.Context, key string) ([]byte, error) {
	if !b.d.Has(key) {
		return nil, ErrNotExist
	}
	v, err := b.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	return v, nil
}

func (b *diskvBackend) Write(_ context.Context, key string, value []byte) error {
	// TempDir makes diskv write a temp file and rename it into place.
	return b.d.Write(key, value)
}

func (b *diskvBackend) Close() error { return nil }
