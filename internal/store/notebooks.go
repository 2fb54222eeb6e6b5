package store

import (
	"context"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Notebook statuses as surfaced by the API.
const (
	NotebookStatusEmpty      = "empty"
	NotebookStatusProcessing = "processing"
	NotebookStatusReady      = "ready"
	NotebookStatusFailed     = "failed"
)

type Notebook struct {
	ID          int64     `json:"-"`
	PublicID    string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const notebookColumns = `id, public_id, name, description, status, created_at, updated_at`

func scanNotebook(row interface{ Scan(dest ...any) error }) (Notebook, error) {
	var n Notebook
	err := row.Scan(&n.ID, &n.PublicID, &n.Name, &n.Description, &n.Status, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

// CreateNotebook inserts a new empty notebook and returns it.
func (s *Store) CreateNotebook(ctx context.Context, name string, description string) (Notebook, error) {
	publicID, err := gonanoid.New()
	if err != nil {
		return Notebook{}, err
	}

	row := s.conn.QueryRow(ctx, `
		INSERT INTO notebooks (public_id, name, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+notebookColumns,
		publicID, name, description, NotebookStatusEmpty,
	)
	return scanNotebook(row)
}

// GetNotebook fetches a notebook by its public id.
func (s *Store) GetNotebook(ctx context.Context, publicID string) (Notebook, error) {
	row := s.conn.QueryRow(ctx, `
		SELECT `+notebookColumns+`
		FROM notebooks
		WHERE public_id = $1`,
		publicID,
	)
	n, err := scanNotebook(row)
	if err != nil {
		return Notebook{}, notFoundOr(err)
	}
	return n, nil
}

// ListNotebooks returns all notebooks, newest first.
func (s *Store) ListNotebooks(ctx context.Context) ([]Notebook, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT `+notebookColumns+`
		FROM notebooks
		ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notebooks := make([]Notebook, 0)
	for rows.Next() {
		n, err := scanNotebook(rows)
		if err != nil {
			return nil, err
		}
		notebooks = append(notebooks, n)
	}
	return notebooks, rows.Err()
}

// ListNotebooksByStatus returns notebooks currently in the given status.
func (s *Store) ListNotebooksByStatus(ctx context.Context, status string) ([]Notebook, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT `+notebookColumns+`
		FROM notebooks
		WHERE status = $1
		ORDER BY created_at ASC`,
		status,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notebooks := make([]Notebook, 0)
	for rows.Next() {
		n, err := scanNotebook(rows)
		if err != nil {
			return nil, err
		}
		notebooks = append(notebooks, n)
	}
	return notebooks, rows.Err()
}

// UpdateNotebook changes a notebook's name and description.
func (s *Store) UpdateNotebook(ctx context.Context, publicID string, name string, description string) (Notebook, error) {
	row := s.conn.QueryRow(ctx, `
		UPDATE notebooks
		SET name = $2, description = $3, updated_at = now()
		WHERE public_id = $1
		RETURNING `+notebookColumns,
		publicID, name, description,
	)
	n, err := scanNotebook(row)
	if err != nil {
		return Notebook{}, notFoundOr(err)
	}
	return n, nil
}

// SetNotebookStatus updates the processing status of a notebook.
func (s *Store) SetNotebookStatus(ctx context.Context, publicID string, status string) error {
	tag, err := s.conn.Exec(ctx, `
		UPDATE notebooks
		SET status = $2, updated_at = now()
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

// DeleteNotebook removes a notebook; documents, graph rows, and layout
// snapshots go with it via foreign key cascades.
func (s *Store) DeleteNotebook(ctx context.Context, publicID string) error {
	tag, err := s.conn.Exec(ctx, `
		DELETE FROM notebooks
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
