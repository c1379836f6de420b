package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/musenest/internal/store/core"
)

type testimonialRepo struct{ pool *pgxpool.Pool }

const testimonialCols = `id, model_id, author_name, quote, rating, approved, sort_order, created_at, deleted_at`

func scanTestimonial(row interface{ Scan(...any) error }) (*core.Testimonial, error) {
	var t core.Testimonial
	err := row.Scan(&t.ID, &t.ModelID, &t.AuthorName, &t.Quote, &t.Rating, &t.Approved,
		&t.SortOrder, &t.CreatedAt, &t.DeletedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}

func (r *testimonialRepo) Create(ctx context.Context, t *core.Testimonial) error {
	const q = `INSERT INTO testimonials (id, model_id, author_name, quote, rating, approved, sort_order, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, now())`
	_, err := r.pool.Exec(ctx, q, t.ID, t.ModelID, t.AuthorName, t.Quote, t.Rating, t.Approved, t.SortOrder)
	return mapErr(err)
}

func (r *testimonialRepo) GetByID(ctx context.Context, modelID, id string) (*core.Testimonial, error) {
	const q = `SELECT ` + testimonialCols + ` FROM testimonials
	           WHERE model_id = $1 AND id = $2 AND deleted_at IS NULL`
	return scanTestimonial(r.pool.QueryRow(ctx, q, modelID, id))
}

func (r *testimonialRepo) List(ctx context.Context, modelID string, approvedOnly bool, p core.ListParams) ([]core.Testimonial, int64, error) {
	cond := `model_id = $1 AND deleted_at IS NULL`
	if approvedOnly {
		cond += ` AND approved`
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM testimonials WHERE `+cond, modelID).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	q := `SELECT ` + testimonialCols + ` FROM testimonials WHERE ` + cond +
		` ORDER BY sort_order, created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, q, modelID, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	var out []core.Testimonial
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *t)
	}
	return out, total, mapErr(rows.Err())
}

func (r *testimonialRepo) Update(ctx context.Context, t *core.Testimonial) error {
	const q = `UPDATE testimonials SET author_name = $3, quote = $4, rating = $5, approved = $6, sort_order = $7
	           WHERE model_id = $1 AND id = $2 AND deleted_at IS NULL`
	tag, err := r.pool.Exec(ctx, q, t.ModelID, t.ID, t.AuthorName, t.Quote, t.Rating, t.Approved, t.SortOrder)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *testimonialRepo) SoftDelete(ctx context.Context, modelID, id string) error {
	const q = `UPDATE testimonials SET deleted_at = now()
	           WHERE model_id = $1 AND id = $2 AND deleted_at IS NULL`
	tag, err := r.pool.Exec(ctx, q, modelID, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
