package store

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"plexus/pkg/common"
)

// ReplaceGraph swaps a notebook's graph for a new one inside a single
// transaction. Prior nodes and links are discarded, never merged.
// embeddings is aligned with data.Nodes; a nil entry stores NULL.
func (s *Store) ReplaceGraph(ctx context.Context, notebookPublicID string, data *common.GraphData, embeddings [][]float32) error {
	if embeddings != nil && len(embeddings) != len(data.Nodes) {
		return fmt.Errorf("embeddings length %d does not match %d nodes", len(embeddings), len(data.Nodes))
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var notebookID int64
	err = tx.QueryRow(ctx, `
		SELECT id FROM notebooks WHERE public_id = $1`,
		notebookPublicID,
	).Scan(&notebookID)
	if err != nil {
		return notFoundOr(err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM graph_links WHERE notebook_id = $1`, notebookID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM graph_nodes WHERE notebook_id = $1`, notebookID); err != nil {
		return err
	}

	for i, n := range data.Nodes {
		var embedding *pgvector.Vector
		if embeddings != nil && embeddings[i] != nil {
			v := pgvector.NewVector(embeddings[i])
			embedding = &v
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO graph_nodes (notebook_id, public_id, label, type, description, cluster, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			notebookID, n.ID, n.Label, string(n.Type), n.Description, n.Cluster, embedding,
		)
		if err != nil {
			return fmt.Errorf("failed to insert node %s: %w", n.ID, err)
		}
	}

	for _, l := range data.Links {
		_, err := tx.Exec(ctx, `
			INSERT INTO graph_links (notebook_id, source_id, target_id, label, strength)
			VALUES ($1, $2, $3, $4, $5)`,
			notebookID, l.Source.ID, l.Target.ID, l.Label, l.Strength,
		)
		if err != nil {
			return fmt.Errorf("failed to insert link %s->%s: %w", l.Source.ID, l.Target.ID, err)
		}
	}

	return tx.Commit(ctx)
}

// GetGraph loads a notebook's graph. A notebook without extracted
// nodes yields an empty graph, not an error.
func (s *Store) GetGraph(ctx context.Context, notebookPublicID string) (*common.GraphData, error) {
	var notebookID int64
	err := s.conn.QueryRow(ctx, `
		SELECT id FROM notebooks WHERE public_id = $1`,
		notebookPublicID,
	).Scan(&notebookID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	nodeRows, err := s.conn.Query(ctx, `
		SELECT public_id, label, type, description, cluster
		FROM graph_nodes
		WHERE notebook_id = $1
		ORDER BY id ASC`,
		notebookID,
	)
	if err != nil {
		return nil, err
	}
	defer nodeRows.Close()

	data := &common.GraphData{}
	for nodeRows.Next() {
		var n common.Node
		var typ string
		if err := nodeRows.Scan(&n.ID, &n.Label, &typ, &n.Description, &n.Cluster); err != nil {
			return nil, err
		}
		n.Type = common.NodeType(typ)
		data.Nodes = append(data.Nodes, n)
	}
	if err := nodeRows.Err(); err != nil {
		return nil, err
	}

	linkRows, err := s.conn.Query(ctx, `
		SELECT source_id, target_id, label, strength
		FROM graph_links
		WHERE notebook_id = $1
		ORDER BY id ASC`,
		notebookID,
	)
	if err != nil {
		return nil, err
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var l common.Link
		if err := linkRows.Scan(&l.Source.ID, &l.Target.ID, &l.Label, &l.Strength); err != nil {
			return nil, err
		}
		data.Links = append(data.Links, l)
	}
	if err := linkRows.Err(); err != nil {
		return nil, err
	}

	return data, nil
}

// FindSimilarNodes returns up to topK nodes of a notebook ordered by
// cosine distance to the given embedding.
func (s *Store) FindSimilarNodes(ctx context.Context, notebookPublicID string, embedding []float32, topK int) ([]common.Node, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT n.public_id, n.label, n.type, n.description, n.cluster
		FROM graph_nodes n
		JOIN notebooks nb ON nb.id = n.notebook_id
		WHERE nb.public_id = $1 AND n.embedding IS NOT NULL
		ORDER BY n.embedding <=> $2
		LIMIT $3`,
		notebookPublicID, pgvector.NewVector(embedding), topK,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nodes := make([]common.Node, 0, topK)
	for rows.Next() {
		var n common.Node
		var typ string
		if err := rows.Scan(&n.ID, &n.Label, &typ, &n.Description, &n.Cluster); err != nil {
			return nil, err
		}
		n.Type = common.NodeType(typ)
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}
