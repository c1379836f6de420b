package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/musenest/internal/store/core"
)

// ====================== SECCIONES ======================

type gallerySectionRepo struct{ pool *pgxpool.Pool }

const sectionCols = `id, model_id, title, slug, sort_order, visibility, created_at`

func scanSection(row interface{ Scan(...any) error }) (*core.GallerySection, error) {
	var s core.GallerySection
	err := row.Scan(&s.ID, &s.ModelID, &s.Title, &s.Slug, &s.SortOrder, &s.Visibility, &s.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

func (r *gallerySectionRepo) Create(ctx context.Context, s *core.GallerySection) error {
	const q = `INSERT INTO gallery_sections (id, model_id, title, slug, sort_order, visibility, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6, now())`
	_, err := r.pool.Exec(ctx, q, s.ID, s.ModelID, s.Title, strings.ToLower(s.Slug), s.SortOrder, s.Visibility)
	return mapErr(err)
}

func (r *gallerySectionRepo) GetByID(ctx context.Context, modelID, id string) (*core.GallerySection, error) {
	const q = `SELECT ` + sectionCols + ` FROM gallery_sections WHERE model_id = $1 AND id = $2`
	return scanSection(r.pool.QueryRow(ctx, q, modelID, id))
}

func (r *gallerySectionRepo) ListByModel(ctx context.Context, modelID string) ([]core.GallerySection, error) {
	const q = `SELECT ` + sectionCols + ` FROM gallery_sections WHERE model_id = $1 ORDER BY sort_order, created_at`
	rows, err := r.pool.Query(ctx, q, modelID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.GallerySection
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, mapErr(rows.Err())
}

func (r *gallerySectionRepo) Update(ctx context.Context, s *core.GallerySection) error {
	const q = `UPDATE gallery_sections SET title = $3, slug = $4, visibility = $5
	           WHERE model_id = $1 AND id = $2`
	tag, err := r.pool.Exec(ctx, q, s.ModelID, s.ID, s.Title, strings.ToLower(s.Slug), s.Visibility)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *gallerySectionRepo) Delete(ctx context.Context, modelID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM gallery_sections WHERE model_id = $1 AND id = $2`, modelID, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *gallerySectionRepo) Reorder(ctx context.Context, modelID string, orderedIDs []string) error {
	return reorderRows(ctx, r.pool, "gallery_sections", "model_id = $2", []any{modelID}, orderedIDs)
}

// ====================== IMÁGENES ======================

type galleryImageRepo struct{ pool *pgxpool.Pool }

const imageCols = `id, model_id, section_id, filename, storage_key, mime_type, size_bytes,
	caption, alt_text, sort_order, status, created_at, deleted_at`

func scanImage(row interface{ Scan(...any) error }) (*core.GalleryImage, error) {
	var img core.GalleryImage
	err := row.Scan(&img.ID, &img.ModelID, &img.SectionID, &img.Filename, &img.StorageKey,
		&img.MimeType, &img.SizeBytes, &img.Caption, &img.AltText, &img.SortOrder,
		&img.Status, &img.CreatedAt, &img.DeletedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &img, nil
}

func (r *galleryImageRepo) Create(ctx context.Context, img *core.GalleryImage) error {
	const q = `INSERT INTO gallery_images
	           (id, model_id, section_id, filename, storage_key, mime_type, size_bytes,
	            caption, alt_text, sort_order, status, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())`
	_, err := r.pool.Exec(ctx, q, img.ID, img.ModelID, img.SectionID, img.Filename, img.StorageKey,
		img.MimeType, img.SizeBytes, img.Caption, img.AltText, img.SortOrder, img.Status)
	return mapErr(err)
}

func (r *galleryImageRepo) GetByID(ctx context.Context, modelID, id string) (*core.GalleryImage, error) {
	const q = `SELECT ` + imageCols + ` FROM gallery_images
	           WHERE model_id = $1 AND id = $2 AND deleted_at IS NULL`
	return scanImage(r.pool.QueryRow(ctx, q, modelID, id))
}

func (r *galleryImageRepo) List(ctx context.Context, modelID string, f core.ImageListFilter, p core.ListParams) ([]core.GalleryImage, int64, error) {
	where := []string{"model_id = $1", "deleted_at IS NULL"}
	args := []any{modelID}
	if f.SectionID != nil {
		args = append(args, *f.SectionID)
		where = append(where, fmt.Sprintf("section_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM gallery_images WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	q := fmt.Sprintf(`SELECT `+imageCols+` FROM gallery_images WHERE %s
		ORDER BY sort_order, created_at LIMIT $%d OFFSET $%d`, cond, len(args)+1, len(args)+2)
	args = append(args, p.Limit, p.Offset)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	var out []core.GalleryImage
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *img)
	}
	return out, total, mapErr(rows.Err())
}

func (r *galleryImageRepo) Update(ctx context.Context, img *core.GalleryImage) error {
	const q = `UPDATE gallery_images SET section_id = $3, caption = $4, alt_text = $5
	           WHERE model_id = $1 AND id = $2 AND deleted_at IS NULL`
	tag, err := r.pool.Exec(ctx, q, img.ModelID, img.ID, img.SectionID, img.Caption, img.AltText)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *galleryImageRepo) SetStatus(ctx context.Context, modelID, id, status string) error {
	const q = `UPDATE gallery_images SET status = $3 WHERE model_id = $1 AND id = $2 AND deleted_at IS NULL`
	tag, err := r.pool.Exec(ctx, q, modelID, id, status)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *galleryImageRepo) SoftDelete(ctx context.Context, modelID, id string) error {
	const q = `UPDATE gallery_images SET deleted_at = now()
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

func (r *galleryImageRepo) Restore(ctx context.Context, modelID, id string) error {
	const q = `UPDATE gallery_images SET deleted_at = NULL, status = $3
	           WHERE model_id = $1 AND id = $2 AND deleted_at IS NOT NULL`
	tag, err := r.pool.Exec(ctx, q, modelID, id, core.ImageStatusPending)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *galleryImageRepo) Reorder(ctx context.Context, modelID, sectionID string, orderedIDs []string) error {
	return reorderRows(ctx, r.pool, "gallery_images", "model_id = $2 AND section_id = $3", []any{modelID, sectionID}, orderedIDs)
}

// reorderRows asigna sort_order = posición dentro de orderedIDs, en una transacción.
func reorderRows(ctx context.Context, pool *pgxpool.Pool, table, cond string, condArgs []any, orderedIDs []string) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback(ctx)

	q := fmt.Sprintf(`UPDATE %s SET sort_order = $%d WHERE id = $1 AND %s`, table, len(condArgs)+2, cond)
	for i, id := range orderedIDs {
		args := append([]any{id}, condArgs...)
		args = append(args, i)
		if _, err := tx.Exec(ctx, q, args...); err != nil {
			return mapErr(err)
		}
	}
	return mapErr(tx.Commit(ctx))
}
