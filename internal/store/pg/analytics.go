package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/musenest/internal/store/core"
)

type analyticsRepo struct{ pool *pgxpool.Pool }

func (r *analyticsRepo) Record(ctx context.Context, ev *core.AnalyticsEvent) error {
	const q = `INSERT INTO analytics_events (id, model_id, kind, path, occurred_at)
	           VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, q, ev.ID, ev.ModelID, ev.Kind, ev.Path, ev.OccurredAt)
	return mapErr(err)
}

func (r *analyticsRepo) CountByKind(ctx context.Context, modelID string, from, to time.Time) (map[string]int64, error) {
	const q = `SELECT kind, COUNT(*) FROM analytics_events
	           WHERE model_id = $1 AND occurred_at >= $2 AND occurred_at < $3
	           GROUP BY kind`
	rows, err := r.pool.Query(ctx, q, modelID, from, to)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, mapErr(err)
		}
		out[kind] = n
	}
	return out, mapErr(rows.Err())
}

func (r *analyticsRepo) TopPaths(ctx context.Context, modelID string, from, to time.Time, limit int) ([]core.PathCount, error) {
	const q = `SELECT path, COUNT(*) AS n FROM analytics_events
	           WHERE model_id = $1 AND kind = 'page_view' AND occurred_at >= $2 AND occurred_at < $3
	           GROUP BY path ORDER BY n DESC LIMIT $4`
	rows, err := r.pool.Query(ctx, q, modelID, from, to, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.PathCount
	for rows.Next() {
		var pc core.PathCount
		if err := rows.Scan(&pc.Path, &pc.Count); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, pc)
	}
	return out, mapErr(rows.Err())
}

func (r *analyticsRepo) ListRange(ctx context.Context, modelID string, from, to time.Time) ([]core.AnalyticsEvent, error) {
	const q = `SELECT id, model_id, kind, path, occurred_at FROM analytics_events
	           WHERE model_id = $1 AND occurred_at >= $2 AND occurred_at < $3
	           ORDER BY occurred_at`
	rows, err := r.pool.Query(ctx, q, modelID, from, to)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.AnalyticsEvent
	for rows.Next() {
		var ev core.AnalyticsEvent
		if err := rows.Scan(&ev.ID, &ev.ModelID, &ev.Kind, &ev.Path, &ev.OccurredAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, ev)
	}
	return out, mapErr(rows.Err())
}

func (r *analyticsRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM analytics_events WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, mapErr(err)
	}
	return tag.RowsAffected(), nil
}
