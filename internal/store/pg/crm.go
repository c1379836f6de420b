package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/musenest/internal/store/core"
)

// ====================== CONTACTOS ======================

type crmContactRepo struct{ pool *pgxpool.Pool }

const contactCols = `id, model_id, name, email, phone, tags, notes, created_at, updated_at`

func scanContact(row interface{ Scan(...any) error }) (*core.CRMContact, error) {
	var c core.CRMContact
	err := row.Scan(&c.ID, &c.ModelID, &c.Name, &c.Email, &c.Phone, &c.Tags, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return &c, nil
}

func (r *crmContactRepo) Create(ctx context.Context, c *core.CRMContact) error {
	const q = `INSERT INTO crm_contacts (id, model_id, name, email, phone, tags, notes, created_at, updated_at)
	           VALUES ($1, $2, $3, LOWER($4), $5, $6, $7, now(), now())`
	_, err := r.pool.Exec(ctx, q, c.ID, c.ModelID, c.Name, c.Email, c.Phone, c.Tags, c.Notes)
	return mapErr(err)
}

func (r *crmContactRepo) GetByID(ctx context.Context, modelID, id string) (*core.CRMContact, error) {
	const q = `SELECT ` + contactCols + ` FROM crm_contacts WHERE model_id = $1 AND id = $2`
	return scanContact(r.pool.QueryRow(ctx, q, modelID, id))
}

func (r *crmContactRepo) GetByEmail(ctx context.Context, modelID, email string) (*core.CRMContact, error) {
	const q = `SELECT ` + contactCols + ` FROM crm_contacts WHERE model_id = $1 AND email = LOWER($2)`
	return scanContact(r.pool.QueryRow(ctx, q, modelID, email))
}

func (r *crmContactRepo) List(ctx context.Context, modelID, search string, p core.ListParams) ([]core.CRMContact, int64, error) {
	cond := `model_id = $1`
	args := []any{modelID}
	if search != "" {
		cond += ` AND (name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')`
		args = append(args, search)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM crm_contacts WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	q := `SELECT ` + contactCols + ` FROM crm_contacts WHERE ` + cond + ` ORDER BY name`
	if search != "" {
		q += ` LIMIT $3 OFFSET $4`
	} else {
		q += ` LIMIT $2 OFFSET $3`
	}
	args = append(args, p.Limit, p.Offset)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	var out []core.CRMContact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, mapErr(rows.Err())
}

func (r *crmContactRepo) Update(ctx context.Context, c *core.CRMContact) error {
	const q = `UPDATE crm_contacts SET name = $3, email = LOWER($4), phone = $5, tags = $6, notes = $7, updated_at = now()
	           WHERE model_id = $1 AND id = $2`
	tag, err := r.pool.Exec(ctx, q, c.ModelID, c.ID, c.Name, c.Email, c.Phone, c.Tags, c.Notes)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *crmContactRepo) Delete(ctx context.Context, modelID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM crm_contacts WHERE model_id = $1 AND id = $2`, modelID, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ====================== INQUIRIES ======================

type crmInquiryRepo struct{ pool *pgxpool.Pool }

const inquiryCols = `id, model_id, contact_id, subject, message, status, source, from_name, from_email, created_at`

func scanInquiry(row interface{ Scan(...any) error }) (*core.CRMInquiry, error) {
	var q core.CRMInquiry
	err := row.Scan(&q.ID, &q.ModelID, &q.ContactID, &q.Subject, &q.Message, &q.Status,
		&q.Source, &q.FromName, &q.FromEmail, &q.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &q, nil
}

func (r *crmInquiryRepo) Create(ctx context.Context, q *core.CRMInquiry) error {
	const sql = `INSERT INTO crm_inquiries
	             (id, model_id, contact_id, subject, message, status, source, from_name, from_email, created_at)
	             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, LOWER($9), now())`
	_, err := r.pool.Exec(ctx, sql, q.ID, q.ModelID, q.ContactID, q.Subject, q.Message,
		q.Status, q.Source, q.FromName, q.FromEmail)
	return mapErr(err)
}

func (r *crmInquiryRepo) GetByID(ctx context.Context, modelID, id string) (*core.CRMInquiry, error) {
	const q = `SELECT ` + inquiryCols + ` FROM crm_inquiries WHERE model_id = $1 AND id = $2`
	return scanInquiry(r.pool.QueryRow(ctx, q, modelID, id))
}

func (r *crmInquiryRepo) List(ctx context.Context, modelID, status string, p core.ListParams) ([]core.CRMInquiry, int64, error) {
	cond := `model_id = $1`
	args := []any{modelID}
	if status != "" {
		cond += ` AND status = $2`
		args = append(args, status)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM crm_inquiries WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	q := `SELECT ` + inquiryCols + ` FROM crm_inquiries WHERE ` + cond + ` ORDER BY created_at DESC`
	if status != "" {
		q += ` LIMIT $3 OFFSET $4`
	} else {
		q += ` LIMIT $2 OFFSET $3`
	}
	args = append(args, p.Limit, p.Offset)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	var out []core.CRMInquiry
	for rows.Next() {
		inq, err := scanInquiry(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *inq)
	}
	return out, total, mapErr(rows.Err())
}

func (r *crmInquiryRepo) SetStatus(ctx context.Context, modelID, id, status string) error {
	const q = `UPDATE crm_inquiries SET status = $3 WHERE model_id = $1 AND id = $2`
	tag, err := r.pool.Exec(ctx, q, modelID, id, status)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *crmInquiryRepo) CountSince(ctx context.Context, modelID string, since time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM crm_inquiries WHERE model_id = $1 AND created_at >= $2`,
		modelID, since).Scan(&n)
	return n, mapErr(err)
}
