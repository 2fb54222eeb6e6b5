package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"

	"plexus/internal/storage"
	"plexus/internal/store"
	"plexus/pkg/logger"
)

// ProcessDeleteMessage removes a notebook's uploaded objects from S3
// and then its database rows. Graph, documents, and layout snapshots
// fall with the notebook via cascades.
func ProcessDeleteMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	conn *pgxpool.Pool,
	msg string,
) error {
	data := new(DeleteJobMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}

	if data.S3Prefix != "" {
		if err := storage.DeleteFolder(ctx, s3Client, data.S3Prefix); err != nil {
			return fmt.Errorf("failed to delete notebook objects: %w", err)
		}
	}

	st := store.New(conn)
	if err := st.DeleteNotebook(ctx, data.NotebookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Debug("[Queue] Notebook already gone", "notebook_id", data.NotebookID)
			return nil
		}
		return err
	}

	logger.Info("[Queue] Notebook deleted", "notebook_id", data.NotebookID)
	return nil
}
