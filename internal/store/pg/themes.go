package pg

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/musenest/internal/store/core"
)

type themeSetRepo struct{ pool *pgxpool.Pool }

func scanThemeSet(row interface{ Scan(...any) error }) (*core.ThemeSet, error) {
	var (
		t       core.ThemeSet
		palette []byte
		tmpls   []byte
	)
	if err := row.Scan(&t.ID, &t.Slug, &t.Name, &palette, &tmpls, &t.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	if len(palette) > 0 {
		_ = json.Unmarshal(palette, &t.Palette)
	}
	if len(tmpls) > 0 {
		_ = json.Unmarshal(tmpls, &t.Templates)
	}
	return &t, nil
}

func (r *themeSetRepo) Create(ctx context.Context, t *core.ThemeSet) error {
	palette, err := json.Marshal(t.Palette)
	if err != nil {
		return err
	}
	tmpls, err := json.Marshal(t.Templates)
	if err != nil {
		return err
	}
	const q = `INSERT INTO theme_sets (id, slug, name, palette, templates, created_at)
	           VALUES ($1, $2, $3, $4, $5, now())`
	_, err = r.pool.Exec(ctx, q, t.ID, strings.ToLower(t.Slug), t.Name, palette, tmpls)
	return mapErr(err)
}

func (r *themeSetRepo) GetByID(ctx context.Context, id string) (*core.ThemeSet, error) {
	const q = `SELECT id, slug, name, palette, templates, created_at FROM theme_sets WHERE id = $1`
	return scanThemeSet(r.pool.QueryRow(ctx, q, id))
}

func (r *themeSetRepo) GetBySlug(ctx context.Context, slug string) (*core.ThemeSet, error) {
	const q = `SELECT id, slug, name, palette, templates, created_at FROM theme_sets WHERE slug = LOWER($1)`
	return scanThemeSet(r.pool.QueryRow(ctx, q, slug))
}

func (r *themeSetRepo) List(ctx context.Context) ([]core.ThemeSet, error) {
	const q = `SELECT id, slug, name, palette, templates, created_at FROM theme_sets ORDER BY name`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.ThemeSet
	for rows.Next() {
		t, err := scanThemeSet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, mapErr(rows.Err())
}
