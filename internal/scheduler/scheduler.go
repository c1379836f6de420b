// Package scheduler corre las tareas periódicas del servicio con cron:
// purga de eventos de analytics viejos y limpieza del cache en memoria.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dropDatabas3/musenest/internal/observability/logger"
	"github.com/dropDatabas3/musenest/internal/store/core"
)

// Cleaner es cualquier cache con limpieza manual de expirados (driver memory).
type Cleaner interface {
	Cleanup()
}

// Config del scheduler.
type Config struct {
	AnalyticsRetentionDays int    // eventos más viejos se purgan (0 = no purgar)
	PurgeSpec              string // cron spec de la purga (default: 03:30 diario)
	CacheCleanupSpec       string // cron spec de limpieza del cache memory
}

// Scheduler encapsula el cron del servicio.
type Scheduler struct {
	cron  *cron.Cron
	store core.Store
	cfg   Config
}

func New(store core.Store, cfg Config) *Scheduler {
	if cfg.PurgeSpec == "" {
		cfg.PurgeSpec = "30 3 * * *"
	}
	if cfg.CacheCleanupSpec == "" {
		cfg.CacheCleanupSpec = "*/10 * * * *"
	}
	return &Scheduler{
		cron:  cron.New(),
		store: store,
		cfg:   cfg,
	}
}

// Start registra los jobs y arranca el cron. cleaner puede ser nil
// (cache redis no necesita limpieza manual).
func (s *Scheduler) Start(cleaner Cleaner) error {
	log := logger.L().With(logger.Component("scheduler"))

	if s.cfg.AnalyticsRetentionDays > 0 {
		if _, err := s.cron.AddFunc(s.cfg.PurgeSpec, s.purgeAnalytics); err != nil {
			return err
		}
		log.Info("analytics purge scheduled",
			logger.String("spec", s.cfg.PurgeSpec),
			logger.Int("retention_days", s.cfg.AnalyticsRetentionDays))
	}

	if cleaner != nil {
		if _, err := s.cron.AddFunc(s.cfg.CacheCleanupSpec, cleaner.Cleanup); err != nil {
			return err
		}
		log.Info("cache cleanup scheduled", logger.String("spec", s.cfg.CacheCleanupSpec))
	}

	s.cron.Start()
	return nil
}

// Stop detiene el cron y espera a que terminen los jobs en curso.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) purgeAnalytics() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log := logger.L().With(logger.Component("scheduler"), logger.Op("purgeAnalytics"))
	cutoff := time.Now().UTC().AddDate(0, 0, -s.cfg.AnalyticsRetentionDays)

	n, err := s.store.Analytics().DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Error("analytics purge failed", logger.Err(err))
		return
	}
	if n > 0 {
		log.Info("analytics events purged", logger.Count(int(n)))
	}
}
