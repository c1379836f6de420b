package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/musenest/internal/store/core"
)

type calendarEventRepo struct{ pool *pgxpool.Pool }

const eventCols = `id, model_id, title, starts_at, ends_at, kind, notes, created_at`

func scanEvent(row interface{ Scan(...any) error }) (*core.CalendarEvent, error) {
	var ev core.CalendarEvent
	err := row.Scan(&ev.ID, &ev.ModelID, &ev.Title, &ev.StartsAt, &ev.EndsAt, &ev.Kind, &ev.Notes, &ev.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &ev, nil
}

func (r *calendarEventRepo) Create(ctx context.Context, ev *core.CalendarEvent) error {
	const q = `INSERT INTO calendar_events (id, model_id, title, starts_at, ends_at, kind, notes, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, now())`
	_, err := r.pool.Exec(ctx, q, ev.ID, ev.ModelID, ev.Title, ev.StartsAt, ev.EndsAt, ev.Kind, ev.Notes)
	return mapErr(err)
}

func (r *calendarEventRepo) GetByID(ctx context.Context, modelID, id string) (*core.CalendarEvent, error) {
	const q = `SELECT ` + eventCols + ` FROM calendar_events WHERE model_id = $1 AND id = $2`
	return scanEvent(r.pool.QueryRow(ctx, q, modelID, id))
}

func (r *calendarEventRepo) ListRange(ctx context.Context, modelID string, from, to time.Time) ([]core.CalendarEvent, error) {
	const q = `SELECT ` + eventCols + ` FROM calendar_events
	           WHERE model_id = $1 AND starts_at < $3 AND ends_at > $2
	           ORDER BY starts_at`
	rows, err := r.pool.Query(ctx, q, modelID, from, to)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.CalendarEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	return out, mapErr(rows.Err())
}

func (r *calendarEventRepo) Update(ctx context.Context, ev *core.CalendarEvent) error {
	const q = `UPDATE calendar_events SET title = $3, starts_at = $4, ends_at = $5, kind = $6, notes = $7
	           WHERE model_id = $1 AND id = $2`
	tag, err := r.pool.Exec(ctx, q, ev.ModelID, ev.ID, ev.Title, ev.StartsAt, ev.EndsAt, ev.Kind, ev.Notes)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *calendarEventRepo) Delete(ctx context.Context, modelID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM calendar_events WHERE model_id = $1 AND id = $2`, modelID, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
