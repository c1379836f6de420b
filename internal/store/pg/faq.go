package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/musenest/internal/store/core"
)

type faqRepo struct{ pool *pgxpool.Pool }

const faqCols = `id, model_id, question, answer, sort_order, published, created_at`

func scanFAQ(row interface{ Scan(...any) error }) (*core.FAQEntry, error) {
	var f core.FAQEntry
	err := row.Scan(&f.ID, &f.ModelID, &f.Question, &f.Answer, &f.SortOrder, &f.Published, &f.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &f, nil
}

func (r *faqRepo) Create(ctx context.Context, f *core.FAQEntry) error {
	const q = `INSERT INTO faq_entries (id, model_id, question, answer, sort_order, published, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6, now())`
	_, err := r.pool.Exec(ctx, q, f.ID, f.ModelID, f.Question, f.Answer, f.SortOrder, f.Published)
	return mapErr(err)
}

func (r *faqRepo) GetByID(ctx context.Context, modelID, id string) (*core.FAQEntry, error) {
	const q = `SELECT ` + faqCols + ` FROM faq_entries WHERE model_id = $1 AND id = $2`
	return scanFAQ(r.pool.QueryRow(ctx, q, modelID, id))
}

func (r *faqRepo) List(ctx context.Context, modelID string, publishedOnly bool) ([]core.FAQEntry, error) {
	cond := `model_id = $1`
	if publishedOnly {
		cond += ` AND published`
	}
	q := `SELECT ` + faqCols + ` FROM faq_entries WHERE ` + cond + ` ORDER BY sort_order, created_at`
	rows, err := r.pool.Query(ctx, q, modelID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.FAQEntry
	for rows.Next() {
		f, err := scanFAQ(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, mapErr(rows.Err())
}

func (r *faqRepo) Update(ctx context.Context, f *core.FAQEntry) error {
	const q = `UPDATE faq_entries SET question = $3, answer = $4, sort_order = $5, published = $6
	           WHERE model_id = $1 AND id = $2`
	tag, err := r.pool.Exec(ctx, q, f.ModelID, f.ID, f.Question, f.Answer, f.SortOrder, f.Published)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *faqRepo) Delete(ctx context.Context, modelID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM faq_entries WHERE model_id = $1 AND id = $2`, modelID, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
