package doc

import (
	"context"
	"encoding/base64"
	"io"
	"sync"

	"plexus/pkg/loader"

	"golang.org/x/sync/singleflight"
)

const docXMLMax = 50 << 20

// DocGraphLoader loads Word documents (.docx) and extracts their text
// content from the embedded document XML. The raw bytes come from the
// wrapped loader, so documents can live on disk or in object storage.
type DocGraphLoader struct {
	loader loader.GraphFileLoader

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewDocGraphLoader creates a document loader on top of a raw byte loader.
func NewDocGraphLoader(loader loader.GraphFileLoader) *DocGraphLoader {
	return &DocGraphLoader{
		loader: loader,
		cache:  make(map[string][]byte),
	}
}

// GetFileText extracts the text content from a Word document.
func (l *DocGraphLoader) GetFileText(ctx context.Context, file loader.GraphFile) ([]byte, error) {
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

		content, err := l.loader.GetFileText(ctx, file)
		if err != nil {
			return nil, err
		}

		text, err := parseDocx(content)
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

// GetFileTextFromIO extracts text from a Word document provided as an io.Reader.
func GetFileTextFromIO(ctx context.Context, input io.Reader) ([]byte, error) {
	content, err := io.ReadAll(input)
	if err != nil {
		return nil, err
	}

	return parseDocx(content)
}

// GetBase64 returns the raw document encoded as base64.
func (l *DocGraphLoader) GetBase64(ctx context.Context, file loader.GraphFile) (loader.GraphBase64, error) {
	content, err := l.loader.GetFileText(ctx, file)
	if err != nil {
		return loader.GraphBase64{}, err
	}

	return loader.GraphBase64{
		Base64:   base64.StdEncoding.EncodeToString(content),
		FileType: "data:application/vnd.openxmlformats-officedocument.wordprocessingml.document;base64,",
	}, nil
}
