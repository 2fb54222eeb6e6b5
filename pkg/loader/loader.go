package loader

import (
	"context"
)

type GraphFileType string

const (
	GraphFileTypeText     GraphFileType = "text"
	GraphFileTypeDocument GraphFileType = "document"
	GraphFileTypeWeb      GraphFileType = "web"
)

type GraphBase64 struct {
	Base64   string `json:"base64"`
	FileType string `json:"file_type"`
}

// GraphFile describes a source that can be turned into text for entity
// extraction. FilePath is a filesystem path, an object key, or a URL
// depending on the configured Loader.
type GraphFile struct {
	ID        string
	FilePath  string
	FileType  GraphFileType
	MaxTokens int
	Loader    GraphFileLoader
}

// NewGraphFileParams carries the input for the GraphFile constructors.
type NewGraphFileParams struct {
	ID        string
	FilePath  string
	MaxTokens int
	Loader    GraphFileLoader
}

// NewGraphTextFile creates a GraphFile for plain text or markdown
// sources whose bytes are already readable text.
func NewGraphTextFile(params NewGraphFileParams) GraphFile {
	return GraphFile{
		ID:        params.ID,
		FilePath:  params.FilePath,
		FileType:  GraphFileTypeText,
		MaxTokens: params.MaxTokens,
		Loader:    params.Loader,
	}
}

// NewGraphDocumentFile creates a GraphFile for binary documents such as
// Word files that need text extraction before use.
func NewGraphDocumentFile(params NewGraphFileParams) GraphFile {
	return GraphFile{
		ID:        params.ID,
		FilePath:  params.FilePath,
		FileType:  GraphFileTypeDocument,
		MaxTokens: params.MaxTokens,
		Loader:    params.Loader,
	}
}

// NewGraphWebFile creates a GraphFile whose FilePath is a URL.
func NewGraphWebFile(params NewGraphFileParams) GraphFile {
	return GraphFile{
		ID:        params.ID,
		FilePath:  params.FilePath,
		FileType:  GraphFileTypeWeb,
		MaxTokens: params.MaxTokens,
		Loader:    params.Loader,
	}
}

// GetText retrieves the text content of the file using its Loader.
func (f *GraphFile) GetText(ctx context.Context) ([]byte, error) {
	return f.Loader.GetFileText(ctx, *f)
}

// GetBase64 retrieves the base64-encoded content of the file using its
// Loader. Useful for transmitting binary contents in a text-safe format.
func (f *GraphFile) GetBase64(ctx context.Context) (GraphBase64, error) {
	return f.Loader.GetBase64(ctx, *f)
}

// GraphFileLoader loads the contents of a GraphFile. Implementations
// may read from disk, object storage, or the network.
type GraphFileLoader interface {
	GetFileText(ctx context.Context, file GraphFile) ([]byte, error)
	GetBase64(ctx context.Context, file GraphFile) (GraphBase64, error)
}
