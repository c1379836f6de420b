package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/musenest/internal/store/core"
)

type siteSettingRepo struct{ pool *pgxpool.Pool }

func (r *siteSettingRepo) Upsert(ctx context.Context, s *core.SiteSetting) error {
	const q = `INSERT INTO site_settings (model_id, key, value, type, updated_at)
	           VALUES ($1, $2, $3, $4, now())
	           ON CONFLICT (model_id, key)
	           DO UPDATE SET value = EXCLUDED.value, type = EXCLUDED.type, updated_at = now()`
	_, err := r.pool.Exec(ctx, q, s.ModelID, s.Key, s.Value, s.Type)
	return mapErr(err)
}

// BulkUpsert escribe todos los settings en una transacción: o entran todos
// o no entra ninguno.
func (r *siteSettingRepo) BulkUpsert(ctx context.Context, modelID string, items []core.SiteSetting) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback(ctx)

	const q = `INSERT INTO site_settings (model_id, key, value, type, updated_at)
	           VALUES ($1, $2, $3, $4, now())
	           ON CONFLICT (model_id, key)
	           DO UPDATE SET value = EXCLUDED.value, type = EXCLUDED.type, updated_at = now()`
	for _, s := range items {
		if _, err := tx.Exec(ctx, q, modelID, s.Key, s.Value, s.Type); err != nil {
			return mapErr(err)
		}
	}
	return mapErr(tx.Commit(ctx))
}

func (r *siteSettingRepo) Get(ctx context.Context, modelID, key string) (*core.SiteSetting, error) {
	const q = `SELECT model_id, key, value, type, updated_at FROM site_settings WHERE model_id = $1 AND key = $2`
	var s core.SiteSetting
	err := r.pool.QueryRow(ctx, q, modelID, key).Scan(&s.ModelID, &s.Key, &s.Value, &s.Type, &s.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

func (r *siteSettingRepo) ListByModel(ctx context.Context, modelID string) ([]core.SiteSetting, error) {
	const q = `SELECT model_id, key, value, type, updated_at FROM site_settings WHERE model_id = $1 ORDER BY key`
	rows, err := r.pool.Query(ctx, q, modelID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.SiteSetting
	for rows.Next() {
		var s core.SiteSetting
		if err := rows.Scan(&s.ModelID, &s.Key, &s.Value, &s.Type, &s.UpdatedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, s)
	}
	return out, mapErr(rows.Err())
}

func (r *siteSettingRepo) Delete(ctx context.Context, modelID, key string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM site_settings WHERE model_id = $1 AND key = $2`, modelID, key)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
