package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"

	"plexus/internal/store"
	"plexus/pkg/logger"
)

// RecoverStaleNotebooks re-enqueues extraction for notebooks left in
// the processing state, e.g. after a worker crash. Called on worker
// startup before consuming begins.
func RecoverStaleNotebooks(
	ctx context.Context,
	ch *amqp091.Channel,
	conn *pgxpool.Pool,
) error {
	st := store.New(conn)

	stale, err := st.ListNotebooksByStatus(ctx, store.NotebookStatusProcessing)
	if err != nil {
		return fmt.Errorf("failed to list stale notebooks: %w", err)
	}

	if len(stale) == 0 {
		logger.Debug("[Queue] No stale notebooks found")
		return nil
	}

	logger.Info("[Queue] Found stale notebooks", "count", len(stale))

	for _, notebook := range stale {
		if err := PublishExtractJob(ch, ExtractJobMsg{NotebookID: notebook.PublicID}); err != nil {
			logger.Error("[Queue] Failed to re-enqueue stale notebook", "notebook_id", notebook.PublicID, "err", err)
			continue
		}
		logger.Info("[Queue] Re-enqueued stale notebook", "notebook_id", notebook.PublicID)
	}

	return nil
}

// ResetStatusForRetry moves a notebook back to processing before a
// message re-enters its queue, so status reflects the pending retry.
func ResetStatusForRetry(
	ctx context.Context,
	conn *pgxpool.Pool,
	queueName string,
	msgBody []byte,
) {
	st := store.New(conn)

	switch queueName {
	case ExtractQueue:
		var data ExtractJobMsg
		if err := json.Unmarshal(msgBody, &data); err != nil || data.NotebookID == "" {
			return
		}
		_ = st.SetNotebookStatus(ctx, data.NotebookID, store.NotebookStatusProcessing)
	case LayoutQueue:
		var data LayoutJobMsg
		if err := json.Unmarshal(msgBody, &data); err != nil || data.NotebookID == "" {
			return
		}
		_ = st.SetNotebookStatus(ctx, data.NotebookID, store.NotebookStatusProcessing)
	}
}
