package pg

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/musenest/internal/store/core"
)

type modelRepo struct{ pool *pgxpool.Pool }

const modelCols = `id, slug, display_name, email, theme_set_id, status, created_at, updated_at`

func scanModel(row interface{ Scan(...any) error }) (*core.Model, error) {
	var m core.Model
	err := row.Scan(&m.ID, &m.Slug, &m.DisplayName, &m.Email, &m.ThemeSetID, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (r *modelRepo) Create(ctx context.Context, m *core.Model) error {
	const q = `INSERT INTO models (id, slug, display_name, email, theme_set_id, status, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, now(), now())`
	_, err := r.pool.Exec(ctx, q, m.ID, strings.ToLower(m.Slug), m.DisplayName, m.Email, m.ThemeSetID, m.Status)
	return mapErr(err)
}

func (r *modelRepo) CreateWithOwner(ctx context.Context, m *core.Model, owner *core.ModelUser) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback(ctx)

	const qm = `INSERT INTO models (id, slug, display_name, email, theme_set_id, status, created_at, updated_at)
	            VALUES ($1, $2, $3, $4, $5, $6, now(), now())`
	if _, err := tx.Exec(ctx, qm, m.ID, strings.ToLower(m.Slug), m.DisplayName, m.Email, m.ThemeSetID, m.Status); err != nil {
		return mapErr(err)
	}

	const qu = `INSERT INTO model_users (id, model_id, email, password_hash, role, created_at)
	            VALUES ($1, $2, LOWER($3), $4, $5, now())`
	if _, err := tx.Exec(ctx, qu, owner.ID, owner.ModelID, owner.Email, owner.PasswordHash, owner.Role); err != nil {
		return mapErr(err)
	}
	return mapErr(tx.Commit(ctx))
}

func (r *modelRepo) GetByID(ctx context.Context, id string) (*core.Model, error) {
	const q = `SELECT ` + modelCols + ` FROM models WHERE id = $1`
	return scanModel(r.pool.QueryRow(ctx, q, id))
}

func (r *modelRepo) GetBySlug(ctx context.Context, slug string) (*core.Model, error) {
	const q = `SELECT ` + modelCols + ` FROM models WHERE slug = LOWER($1)`
	return scanModel(r.pool.QueryRow(ctx, q, slug))
}

func (r *modelRepo) List(ctx context.Context, p core.ListParams) ([]core.Model, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM models`).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	const q = `SELECT ` + modelCols + ` FROM models ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, q, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	var out []core.Model
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *m)
	}
	return out, total, mapErr(rows.Err())
}

func (r *modelRepo) Update(ctx context.Context, m *core.Model) error {
	const q = `UPDATE models SET display_name = $2, email = $3, theme_set_id = $4, updated_at = now()
	           WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, m.ID, m.DisplayName, m.Email, m.ThemeSetID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *modelRepo) SetStatus(ctx context.Context, id, status string) error {
	const q = `UPDATE models SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id, status)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
