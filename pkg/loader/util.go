package loader

import (
	"fmt"
	"mime"
	"path"
)

// CacheKey generates a unique cache key for a GraphFile based on its ID and path.
func CacheKey(file GraphFile) string {
	return file.ID + ":" + file.FilePath
}

// Base64Prefix returns the data-URI prefix for a file path based on its
// extension, falling back to application/octet-stream.
func Base64Prefix(filePath string) string {
	ext := path.Ext(filePath)
	mimeType := ""
	if ext != "" {
		mimeType = mime.TypeByExtension(ext)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return fmt.Sprintf("data:%s;base64,", mimeType)
}
