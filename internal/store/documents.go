package store

import (
	"context"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Document statuses tracked through the extraction pipeline.
const (
	DocumentStatusPending    = "pending"
	DocumentStatusProcessing = "processing"
	DocumentStatusProcessed  = "processed"
	DocumentStatusFailed     = "failed"
)

type Document struct {
	ID         int64     `json:"-"`
	PublicID   string    `json:"id"`
	NotebookID int64     `json:"-"`
	Name       string    `json:"name"`
	ObjectKey  string    `json:"object_key"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

const documentColumns = `id, public_id, notebook_id, name, object_key, status, created_at`

func scanDocument(row interface{ Scan(dest ...any) error }) (Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.PublicID, &d.NotebookID, &d.Name, &d.ObjectKey, &d.Status, &d.CreatedAt)
	return d, err
}

// CreateDocument records an uploaded file for a notebook. The object
// key points at the stored S3 object.
func (s *Store) CreateDocument(ctx context.Context, notebookPublicID string, name string, objectKey string) (Document, error) {
	publicID, err := gonanoid.New()
	if err != nil {
		return Document{}, err
	}

	row := s.conn.QueryRow(ctx, `
		INSERT INTO documents (public_id, notebook_id, name, object_key, status)
		SELECT $1, n.id, $3, $4, $5
		FROM notebooks n
		WHERE n.public_id = $2
		RETURNING `+documentColumns,
		publicID, notebookPublicID, name, objectKey, DocumentStatusPending,
	)
	d, err := scanDocument(row)
	if err != nil {
		return Document{}, notFoundOr(err)
	}
	return d, nil
}

// GetDocument fetches a document by its public id.
func (s *Store) GetDocument(ctx context.Context, publicID string) (Document, error) {
	row := s.conn.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE public_id = $1`,
		publicID,
	)
	d, err := scanDocument(row)
	if err != nil {
		return Document{}, notFoundOr(err)
	}
	return d, nil
}

// ListDocuments returns a notebook's documents in upload order.
func (s *Store) ListDocuments(ctx context.Context, notebookPublicID string) ([]Document, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE notebook_id = (SELECT id FROM notebooks WHERE public_id = $1)
		ORDER BY created_at ASC`,
		notebookPublicID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	documents := make([]Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

// SetDocumentStatus updates a document's pipeline status.
func (s *Store) SetDocumentStatus(ctx context.Context, publicID string, status string) error {
	tag, err := s.conn.Exec(ctx, `
		UPDATE documents
		SET status = $2
		WHERE public_id = $1`,
		publicID, status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDocument removes a single document row.
func (s *Store) DeleteDocument(ctx context.Context, publicID string) error {
	tag, err := s.conn.Exec(ctx, `
		DELETE FROM documents
		WHERE public_id = $1`,
		publicID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
