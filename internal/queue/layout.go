package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"

	"plexus/internal/store"
	"plexus/internal/timing"
	"plexus/internal/util"
	"plexus/pkg/layout"
	"plexus/pkg/leaselock"
	"plexus/pkg/logger"
)

// ProcessLayoutMessage runs the force simulation for a notebook's graph
// to convergence and persists the resulting snapshot. A lease lock
// keeps two workers from laying out the same notebook concurrently.
func ProcessLayoutMessage(
	ctx context.Context,
	ch *amqp091.Channel,
	conn *pgxpool.Pool,
	msg string,
) (err error) {
	data := new(LayoutJobMsg)
	if err = json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}

	st := store.New(conn)

	defer func() {
		if err == nil || errors.Is(err, leaselock.ErrBusy) {
			return
		}
		updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if updateErr := st.SetNotebookStatus(updateCtx, data.NotebookID, store.NotebookStatusFailed); updateErr != nil {
			logger.Warn("[Queue] Failed to mark notebook as failed", "notebook_id", data.NotebookID, "err", updateErr)
		}
	}()

	locks := leaselock.New(conn)
	err = locks.WithLease(ctx, "layout:"+data.NotebookID, leaselock.Options{
		TTL: 5 * time.Minute,
	}, func(ctx context.Context) error {
		return runLayout(ctx, st, conn, data)
	})
	return err
}

func runLayout(ctx context.Context, st *store.Store, conn *pgxpool.Pool, data *LayoutJobMsg) error {
	started := time.Now()

	graph, err := st.GetGraph(ctx, data.NotebookID)
	if err != nil {
		return err
	}
	if len(graph.Nodes) == 0 {
		logger.Info("[Queue] Notebook has no graph, skipping layout", "notebook_id", data.NotebookID)
		if err := st.DeleteLayout(ctx, data.NotebookID); err != nil {
			return err
		}
		return st.SetNotebookStatus(ctx, data.NotebookID, store.NotebookStatusReady)
	}

	seed := data.Seed
	if seed == 0 {
		prior, err := st.GetLayout(ctx, data.NotebookID)
		switch {
		case err == nil:
			seed = prior.Seed
		case errors.Is(err, store.ErrNotFound):
			seed = time.Now().UnixNano()
		default:
			return err
		}
	}

	cfg := layout.DefaultConfig()
	cfg.Seed = seed
	cfg.MaxTicks = util.GetEnvInt("LAYOUT_MAX_TICKS", cfg.MaxTicks)

	engine, err := layout.New(graph, cfg)
	if err != nil {
		return fmt.Errorf("failed to build layout engine: %w", err)
	}

	if err := engine.Run(ctx, 0); err != nil {
		return fmt.Errorf("layout run failed: %w", err)
	}

	snap := store.LayoutSnapshot{
		Seed:      seed,
		Ticks:     engine.Ticks(),
		Positions: engine.Positions(),
		Viewport:  *engine.Viewport(),
	}
	if err := st.SaveLayout(ctx, data.NotebookID, snap); err != nil {
		return fmt.Errorf("failed to save layout snapshot: %w", err)
	}

	if err := st.SetNotebookStatus(ctx, data.NotebookID, store.NotebookStatusReady); err != nil {
		return err
	}

	if recordErr := timing.RecordJobDuration(ctx, conn, timing.JobTypeLayout, time.Since(started), len(graph.Nodes)); recordErr != nil {
		logger.Warn("[Queue] Failed to record layout duration", "err", recordErr)
	}

	logger.Info("[Queue] Layout stored", "notebook_id", data.NotebookID, "nodes", len(graph.Nodes), "ticks", snap.Ticks, "seed", seed)
	return nil
}
