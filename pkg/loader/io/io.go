package io

import (
	"context"
	"encoding/base64"
	"os"
	"sync"

	"plexus/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// IOGraphFileLoader loads files from the local filesystem with caching.
type IOGraphFileLoader struct {
	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewIOGraphFileLoader creates a new filesystem-based file loader.
func NewIOGraphFileLoader() *IOGraphFileLoader {
	return &IOGraphFileLoader{
		cache: make(map[string][]byte),
	}
}

// GetFileText reads the file content from the filesystem. Results are cached.
func (l *IOGraphFileLoader) GetFileText(ctx context.Context, file loader.GraphFile) ([]byte, error) {
	key := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		result, err := os.ReadFile(file.FilePath)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = result
		l.cacheMu.Unlock()

		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// GetBase64 reads the file and returns it encoded as base64 with the
// MIME type derived from its extension.
func (l *IOGraphFileLoader) GetBase64(ctx context.Context, file loader.GraphFile) (loader.GraphBase64, error) {
	f, err := l.GetFileText(ctx, file)
	if err != nil {
		return loader.GraphBase64{}, err
	}

	return loader.GraphBase64{
		Base64:   base64.StdEncoding.EncodeToString(f),
		FileType: loader.Base64Prefix(file.FilePath),
	}, nil
}
