package timing

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Job types tracked in job_stats.
const (
	JobTypeExtract = "extract"
	JobTypeLayout  = "layout"
)

// RecordJobDuration stores how long a worker job took together with
// the graph size it produced, feeding duration predictions.
func RecordJobDuration(
	ctx context.Context,
	conn *pgxpool.Pool,
	jobType string,
	duration time.Duration,
	nodeCount int,
) error {
	_, err := conn.Exec(ctx, `
		INSERT INTO job_stats (job_type, duration_ms, node_count)
		VALUES ($1, $2, $3)`,
		jobType, duration.Milliseconds(), nodeCount,
	)
	return err
}

// PredictJobDuration estimates how long a job of the given type will
// take, based on the average of the most recent runs. Returns zero when
// no history exists.
func PredictJobDuration(ctx context.Context, conn *pgxpool.Pool, jobType string) (time.Duration, error) {
	var avgMs *float64
	err := conn.QueryRow(ctx, `
		SELECT avg(duration_ms)
		FROM (
			SELECT duration_ms
			FROM job_stats
			WHERE job_type = $1
			ORDER BY created_at DESC
			LIMIT 20
		) recent`,
		jobType,
	).Scan(&avgMs)
	if err != nil {
		return 0, err
	}
	if avgMs == nil {
		return 0, nil
	}
	return time.Duration(*avgMs) * time.Millisecond, nil
}
