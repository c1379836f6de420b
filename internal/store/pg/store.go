// Package pg implementa core.Store sobre PostgreSQL usando pgxpool.
package pg

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/musenest/internal/observability/logger"
	"github.com/dropDatabas3/musenest/internal/store/core"
)

// Config son los parámetros de tuning del pool.
type Config struct {
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
}

type Store struct{ pool *pgxpool.Pool }

var _ core.Store = (*Store)(nil)

// New crea el pool y hace un ping best-effort: la app puede arrancar
// aunque la DB esté momentáneamente caída.
func New(ctx context.Context, dsn string, cfg Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pcfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.ConnMaxLifetime
		pcfg.MaxConnIdleTime = cfg.ConnMaxLifetime
	}
	if pcfg.MaxConns == 0 {
		pcfg.MaxConns = 8
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	log := logger.From(ctx).With(logger.Component("store"))
	if err := pool.Ping(ctx); err != nil {
		log.Warn("pg pool startup ping failed", logger.Err(err))
	} else {
		log.Info("pg pool ready", logger.Int("max_conns", int(pcfg.MaxConns)))
	}
	return &Store{pool: pool}, nil
}

// Pool expone el pool interno para usos avanzados (metrics, migraciones).
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) Models() core.ModelRepository                   { return &modelRepo{s.pool} }
func (s *Store) ModelUsers() core.ModelUserRepository           { return &modelUserRepo{s.pool} }
func (s *Store) ThemeSets() core.ThemeSetRepository             { return &themeSetRepo{s.pool} }
func (s *Store) SiteSettings() core.SiteSettingRepository       { return &siteSettingRepo{s.pool} }
func (s *Store) GallerySections() core.GallerySectionRepository { return &gallerySectionRepo{s.pool} }
func (s *Store) GalleryImages() core.GalleryImageRepository     { return &galleryImageRepo{s.pool} }
func (s *Store) Testimonials() core.TestimonialRepository       { return &testimonialRepo{s.pool} }
func (s *Store) RateCards() core.RateCardRepository             { return &rateCardRepo{s.pool} }
func (s *Store) CalendarEvents() core.CalendarEventRepository   { return &calendarEventRepo{s.pool} }
func (s *Store) FAQs() core.FAQRepository                       { return &faqRepo{s.pool} }
func (s *Store) CRMContacts() core.CRMContactRepository         { return &crmContactRepo{s.pool} }
func (s *Store) CRMInquiries() core.CRMInquiryRepository        { return &crmInquiryRepo{s.pool} }
func (s *Store) Moderation() core.ModerationRepository          { return &moderationRepo{s.pool} }
func (s *Store) Analytics() core.AnalyticsRepository            { return &analyticsRepo{s.pool} }

// ====================== MIGRACIONES ======================

// migrationLockID genera un ID estable para pg_advisory_lock.
func migrationLockID() int64 {
	h := sha256.Sum256([]byte("musenest_schema_migration"))
	return int64(binary.BigEndian.Uint64(h[:8]))
}

// RunMigrations aplica los *_up.sql embebidos (ordenados lexicográficamente)
// bajo un advisory lock para evitar races entre instancias.
// Devuelve cuántos scripts se ejecutaron.
func (s *Store) RunMigrations(ctx context.Context, fsys fs.FS, dir string) (int, error) {
	lockID := migrationLockID()

	// lock, DDL y unlock sobre la misma sesión: un advisory lock es por
	// conexión, con el pool el unlock podría caer en otra sesión
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire migration conn: %w", err)
	}
	defer conn.Release()

	lockCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var acquired bool
	if err := conn.QueryRow(lockCtx, "SELECT pg_try_advisory_lock($1)", lockID).Scan(&acquired); err != nil {
		return 0, fmt.Errorf("acquire migration lock: %w", err)
	}
	if !acquired {
		if _, err := conn.Exec(lockCtx, "SELECT pg_advisory_lock($1)", lockID); err != nil {
			return 0, fmt.Errorf("wait for migration lock: %w", err)
		}
	}
	defer func() {
		if _, err := conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", lockID); err != nil {
			logger.From(ctx).Warn("release migration lock failed", logger.Err(err))
		}
	}()

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return 0, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), "_up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	var applied int
	for _, name := range files {
		b, err := fs.ReadFile(fsys, dir+"/"+name)
		if err != nil {
			return applied, err
		}
		if _, err := conn.Exec(ctx, string(b)); err != nil {
			return applied, fmt.Errorf("exec %s: %w", name, err)
		}
		applied++
	}
	return applied, nil
}

// ====================== HELPERS ======================

// mapErr traduce errores de pgx a los errores del dominio.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return core.ErrConflict
		case "23503", "23514": // foreign_key_violation, check_violation
			return core.ErrInvalidInput
		}
	}
	return err
}
