package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/musenest/internal/store/core"
)

type rateCardRepo struct{ pool *pgxpool.Pool }

const rateCardCols = `id, model_id, title, description, duration_minutes, price_cents, currency, sort_order, active, created_at`

func scanRateCard(row interface{ Scan(...any) error }) (*core.RateCard, error) {
	var rc core.RateCard
	err := row.Scan(&rc.ID, &rc.ModelID, &rc.Title, &rc.Description, &rc.DurationMinutes,
		&rc.PriceCents, &rc.Currency, &rc.SortOrder, &rc.Active, &rc.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &rc, nil
}

func (r *rateCardRepo) Create(ctx context.Context, rc *core.RateCard) error {
	const q = `INSERT INTO rate_cards
	           (id, model_id, title, description, duration_minutes, price_cents, currency, sort_order, active, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())`
	_, err := r.pool.Exec(ctx, q, rc.ID, rc.ModelID, rc.Title, rc.Description,
		rc.DurationMinutes, rc.PriceCents, rc.Currency, rc.SortOrder, rc.Active)
	return mapErr(err)
}

func (r *rateCardRepo) GetByID(ctx context.Context, modelID, id string) (*core.RateCard, error) {
	const q = `SELECT ` + rateCardCols + ` FROM rate_cards WHERE model_id = $1 AND id = $2`
	return scanRateCard(r.pool.QueryRow(ctx, q, modelID, id))
}

func (r *rateCardRepo) List(ctx context.Context, modelID string, activeOnly bool) ([]core.RateCard, error) {
	cond := `model_id = $1`
	if activeOnly {
		cond += ` AND active`
	}
	q := `SELECT ` + rateCardCols + ` FROM rate_cards WHERE ` + cond + ` ORDER BY sort_order, created_at`
	rows, err := r.pool.Query(ctx, q, modelID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.RateCard
	for rows.Next() {
		rc, err := scanRateCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rc)
	}
	return out, mapErr(rows.Err())
}

func (r *rateCardRepo) Update(ctx context.Context, rc *core.RateCard) error {
	const q = `UPDATE rate_cards SET title = $3, description = $4, duration_minutes = $5,
	           price_cents = $6, currency = $7, sort_order = $8, active = $9
	           WHERE model_id = $1 AND id = $2`
	tag, err := r.pool.Exec(ctx, q, rc.ModelID, rc.ID, rc.Title, rc.Description,
		rc.DurationMinutes, rc.PriceCents, rc.Currency, rc.SortOrder, rc.Active)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *rateCardRepo) Delete(ctx context.Context, modelID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rate_cards WHERE model_id = $1 AND id = $2`, modelID, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
