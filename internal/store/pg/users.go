package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/musenest/internal/store/core"
)

type modelUserRepo struct{ pool *pgxpool.Pool }

const userCols = `id, model_id, email, password_hash, role, last_login_at, created_at`

func scanUser(row interface{ Scan(...any) error }) (*core.ModelUser, error) {
	var u core.ModelUser
	err := row.Scan(&u.ID, &u.ModelID, &u.Email, &u.PasswordHash, &u.Role, &u.LastLoginAt, &u.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *modelUserRepo) Create(ctx context.Context, u *core.ModelUser) error {
	const q = `INSERT INTO model_users (id, model_id, email, password_hash, role, created_at)
	           VALUES ($1, $2, LOWER($3), $4, $5, now())`
	_, err := r.pool.Exec(ctx, q, u.ID, u.ModelID, u.Email, u.PasswordHash, u.Role)
	return mapErr(err)
}

func (r *modelUserRepo) GetByID(ctx context.Context, id string) (*core.ModelUser, error) {
	const q = `SELECT ` + userCols + ` FROM model_users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, q, id))
}

func (r *modelUserRepo) GetByEmail(ctx context.Context, email string) (*core.ModelUser, error) {
	const q = `SELECT ` + userCols + ` FROM model_users WHERE email = LOWER($1)`
	return scanUser(r.pool.QueryRow(ctx, q, email))
}

func (r *modelUserRepo) ListByModel(ctx context.Context, modelID string) ([]core.ModelUser, error) {
	const q = `SELECT ` + userCols + ` FROM model_users WHERE model_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, q, modelID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.ModelUser
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, mapErr(rows.Err())
}

func (r *modelUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE model_users SET password_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *modelUserRepo) TouchLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE model_users SET last_login_at = $2 WHERE id = $1`, id, at)
	return mapErr(err)
}
