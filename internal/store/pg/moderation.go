package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/musenest/internal/store/core"
)

type moderationRepo struct{ pool *pgxpool.Pool }

const reviewCols = `id, model_id, image_id, nudity_score, pose_class, caption, status,
	human_review_required, confidence, reviewed_by, created_at`

func scanReview(row interface{ Scan(...any) error }) (*core.ModerationReview, error) {
	var m core.ModerationReview
	err := row.Scan(&m.ID, &m.ModelID, &m.ImageID, &m.NudityScore, &m.PoseClass, &m.Caption,
		&m.Status, &m.HumanReviewRequired, &m.Confidence, &m.ReviewedBy, &m.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (r *moderationRepo) Create(ctx context.Context, m *core.ModerationReview) error {
	const q = `INSERT INTO moderation_reviews
	           (id, model_id, image_id, nudity_score, pose_class, caption, status,
	            human_review_required, confidence, reviewed_by, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())`
	_, err := r.pool.Exec(ctx, q, m.ID, m.ModelID, m.ImageID, m.NudityScore, m.PoseClass,
		m.Caption, m.Status, m.HumanReviewRequired, m.Confidence, m.ReviewedBy)
	return mapErr(err)
}

func (r *moderationRepo) GetByID(ctx context.Context, modelID, id string) (*core.ModerationReview, error) {
	const q = `SELECT ` + reviewCols + ` FROM moderation_reviews WHERE model_id = $1 AND id = $2`
	return scanReview(r.pool.QueryRow(ctx, q, modelID, id))
}

func (r *moderationRepo) GetLatestByImage(ctx context.Context, modelID, imageID string) (*core.ModerationReview, error) {
	const q = `SELECT ` + reviewCols + ` FROM moderation_reviews
	           WHERE model_id = $1 AND image_id = $2
	           ORDER BY created_at DESC LIMIT 1`
	return scanReview(r.pool.QueryRow(ctx, q, modelID, imageID))
}

func (r *moderationRepo) ListPending(ctx context.Context, modelID string, p core.ListParams) ([]core.ModerationReview, int64, error) {
	const cond = `model_id = $1 AND human_review_required AND reviewed_by IS NULL`

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM moderation_reviews WHERE `+cond, modelID).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	const q = `SELECT ` + reviewCols + ` FROM moderation_reviews WHERE ` + cond +
		` ORDER BY created_at LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, q, modelID, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	var out []core.ModerationReview
	for rows.Next() {
		m, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *m)
	}
	return out, total, mapErr(rows.Err())
}

func (r *moderationRepo) SetReviewed(ctx context.Context, modelID, id, status, reviewerID string) error {
	const q = `UPDATE moderation_reviews SET status = $3, reviewed_by = $4, human_review_required = false
	           WHERE model_id = $1 AND id = $2`
	tag, err := r.pool.Exec(ctx, q, modelID, id, status, reviewerID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
