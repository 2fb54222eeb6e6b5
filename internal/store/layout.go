package store

import (
	"context"
	"encoding/json"
	"time"

	"plexus/pkg/layout"
)

// LayoutSnapshot captures a finished or in-progress layout so clients
// can restore the arrangement without re-running the simulation.
type LayoutSnapshot struct {
	Seed      int64             `json:"seed"`
	Ticks     int               `json:"ticks"`
	Positions []layout.Position `json:"positions"`
	Viewport  layout.Viewport   `json:"viewport"`
	CreatedAt time.Time         `json:"created_at"`
}

// SaveLayout upserts the layout snapshot for a notebook. One snapshot
// per notebook; a new save replaces the old one.
func (s *Store) SaveLayout(ctx context.Context, notebookPublicID string, snap LayoutSnapshot) error {
	positions, err := json.Marshal(snap.Positions)
	if err != nil {
		return err
	}
	viewport, err := json.Marshal(snap.Viewport)
	if err != nil {
		return err
	}

	tag, err := s.conn.Exec(ctx, `
		INSERT INTO layout_snapshots (notebook_id, seed, ticks, positions, viewport)
		SELECT n.id, $2, $3, $4, $5
		FROM notebooks n
		WHERE n.public_id = $1
		ON CONFLICT (notebook_id) DO UPDATE
		SET seed = EXCLUDED.seed,
		    ticks = EXCLUDED.ticks,
		    positions = EXCLUDED.positions,
		    viewport = EXCLUDED.viewport,
		    created_at = now()`,
		notebookPublicID, snap.Seed, snap.Ticks, positions, viewport,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetLayout loads the stored layout snapshot for a notebook.
func (s *Store) GetLayout(ctx context.Context, notebookPublicID string) (LayoutSnapshot, error) {
	var (
		snap      LayoutSnapshot
		positions []byte
		viewport  []byte
	)
	err := s.conn.QueryRow(ctx, `
		SELECT ls.seed, ls.ticks, ls.positions, ls.viewport, ls.created_at
		FROM layout_snapshots ls
		JOIN notebooks n ON n.id = ls.notebook_id
		WHERE n.public_id = $1`,
		notebookPublicID,
	).Scan(&snap.Seed, &snap.Ticks, &positions, &viewport, &snap.CreatedAt)
	if err != nil {
		return LayoutSnapshot{}, notFoundOr(err)
	}

	if err := json.Unmarshal(positions, &snap.Positions); err != nil {
		return LayoutSnapshot{}, err
	}
	if err := json.Unmarshal(viewport, &snap.Viewport); err != nil {
		return LayoutSnapshot{}, err
	}
	return snap, nil
}

// DeleteLayout drops the stored snapshot for a notebook if present.
func (s *Store) DeleteLayout(ctx context.Context, notebookPublicID string) error {
	_, err := s.conn.Exec(ctx, `
		DELETE FROM layout_snapshots
		WHERE notebook_id = (SELECT id FROM notebooks WHERE public_id = $1)`,
		notebookPublicID,
	)
	return err
}
