package web

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"

	"plexus/pkg/loader"

	"codeberg.org/readeck/go-readability/v2"
	"golang.org/x/sync/singleflight"
)

// WebGraphLoader fetches URLs and extracts readable text. HTML pages go
// through readability to pull out the main article content; other
// content types are handed to the fallback loader when one is set.
type WebGraphLoader struct {
	fallback loader.GraphFileLoader

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewWebGraphLoader creates a new web loader without a fallback loader.
func NewWebGraphLoader() *WebGraphLoader {
	return &WebGraphLoader{
		cache: make(map[string][]byte),
	}
}

// NewWebGraphLoaderWithFallback creates a web loader that delegates
// non-HTML content to the given loader.
func NewWebGraphLoaderWithFallback(fallback loader.GraphFileLoader) *WebGraphLoader {
	return &WebGraphLoader{
		fallback: fallback,
		cache:    make(map[string][]byte),
	}
}

// GetFileText fetches the file's URL and extracts readable text content.
func (l *WebGraphLoader) GetFileText(ctx context.Context, file loader.GraphFile) ([]byte, error) {
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

		text, err := l.fetch(ctx, file)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = text
		l.cacheMu.Unlock()

		return text, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

func (l *WebGraphLoader) fetch(ctx context.Context, file loader.GraphFile) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.FilePath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d fetching url", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/html") {
		pageURL, err := url.Parse(file.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse url: %w", err)
		}
		article, err := readability.FromReader(resp.Body, pageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse html: %w", err)
		}
		var builder strings.Builder
		if err := article.RenderText(&builder); err != nil {
			return nil, fmt.Errorf("failed to render article text: %w", err)
		}

		return []byte(builder.String()), nil
	}

	if l.fallback != nil {
		return l.fallback.GetFileText(ctx, file)
	}

	return io.ReadAll(resp.Body)
}

// GetBase64 fetches the file's URL and returns its content as base64.
func (l *WebGraphLoader) GetBase64(ctx context.Context, file loader.GraphFile) (loader.GraphBase64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.FilePath, nil)
	if err != nil {
		return loader.GraphBase64{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return loader.GraphBase64{}, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return loader.GraphBase64{}, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		u, _ := url.Parse(file.FilePath)
		ext := path.Ext(u.Path)
		contentType = mime.TypeByExtension(ext)
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	}

	return loader.GraphBase64{
		Base64:   base64.StdEncoding.EncodeToString(data),
		FileType: fmt.Sprintf("data:%s;base64,", contentType),
	}, nil
}
