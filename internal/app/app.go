// Package app arma el contenedor de dependencias del servicio: store,
// cache, limiters, media, servicios y controllers, y expone el handler
// HTTP listo para servir.
package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/musenest/internal/ai"
	"github.com/dropDatabas3/musenest/internal/batch"
	"github.com/dropDatabas3/musenest/internal/cache"
	"github.com/dropDatabas3/musenest/internal/config"
	"github.com/dropDatabas3/musenest/internal/email"
	"github.com/dropDatabas3/musenest/internal/httpx"
	analyticsctl "github.com/dropDatabas3/musenest/internal/httpx/controllers/analytics"
	authctl "github.com/dropDatabas3/musenest/internal/httpx/controllers/auth"
	contentctl "github.com/dropDatabas3/musenest/internal/httpx/controllers/content"
	crmctl "github.com/dropDatabas3/musenest/internal/httpx/controllers/crm"
	galleryctl "github.com/dropDatabas3/musenest/internal/httpx/controllers/gallery"
	modelsctl "github.com/dropDatabas3/musenest/internal/httpx/controllers/models"
	publicctl "github.com/dropDatabas3/musenest/internal/httpx/controllers/public"
	"github.com/dropDatabas3/musenest/internal/httpx/router"
	svcanalytics "github.com/dropDatabas3/musenest/internal/httpx/services/analytics"
	svcauth "github.com/dropDatabas3/musenest/internal/httpx/services/auth"
	svccontent "github.com/dropDatabas3/musenest/internal/httpx/services/content"
	svccrm "github.com/dropDatabas3/musenest/internal/httpx/services/crm"
	svcgallery "github.com/dropDatabas3/musenest/internal/httpx/services/gallery"
	svcmodels "github.com/dropDatabas3/musenest/internal/httpx/services/models"
	svcpublic "github.com/dropDatabas3/musenest/internal/httpx/services/public"
	jwtx "github.com/dropDatabas3/musenest/internal/jwt"
	"github.com/dropDatabas3/musenest/internal/media"
	"github.com/dropDatabas3/musenest/internal/observability/logger"
	"github.com/dropDatabas3/musenest/internal/rate"
	"github.com/dropDatabas3/musenest/internal/scheduler"
	"github.com/dropDatabas3/musenest/internal/security/password"
	"github.com/dropDatabas3/musenest/internal/store/core"
	"github.com/dropDatabas3/musenest/internal/store/pg"
	migrations "github.com/dropDatabas3/musenest/migrations/postgres"
)

// Container agrupa todas las dependencias vivas del servicio.
type Container struct {
	Cfg    *config.Config
	Store  core.Store
	Cache  cache.Client
	Media  media.Storage
	Issuer *jwtx.Issuer
	Batch  *batch.Engine
	Sched  *scheduler.Scheduler

	handler http.Handler
}

// New construye el contenedor completo a partir de la configuración.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	log := logger.L().With(logger.Component("app"))

	// Store
	store, err := pg.New(ctx, cfg.Storage.DSN, pg.Config{
		MaxConns:        int32(cfg.Storage.Postgres.MaxOpenConns),
		MinConns:        int32(cfg.Storage.Postgres.MaxIdleConns),
		ConnMaxLifetime: config.Dur(cfg.Storage.Postgres.ConnMaxLifetime, time.Hour),
	})
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	if cfg.Flags.Migrate {
		n, err := store.RunMigrations(ctx, migrations.SchemaFS, migrations.SchemaDir)
		if err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		log.Info("migrations applied", logger.Count(n))
	}

	// Cache (el driver redis también respalda los limiters)
	cacheClient, redisRaw, err := newCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	// Limiters
	var loginLimiter, inquiryLimiter rate.Limiter
	if cfg.Rate.Enabled {
		loginLimiter = newLimiter(redisRaw, "rl:login:",
			cfg.Rate.Login.Limit, config.Dur(cfg.Rate.Login.Window, time.Minute))
		inquiryLimiter = newLimiter(redisRaw, "rl:inquiry:",
			cfg.Rate.Inquiry.Limit, config.Dur(cfg.Rate.Inquiry.Window, 10*time.Minute))
	}

	// Media
	mediaStorage, err := media.New(ctx, media.Config{
		Driver:    cfg.Media.Driver,
		Root:      cfg.Media.Root,
		Bucket:    cfg.Media.S3.Bucket,
		Region:    cfg.Media.S3.Region,
		Endpoint:  cfg.Media.S3.Endpoint,
		KeyPrefix: cfg.Media.S3.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("media: %w", err)
	}

	// JWT
	issuer := jwtx.NewIssuer(cfg.JWT.Issuer, []byte(cfg.JWT.Secret),
		config.Dur(cfg.JWT.AccessTTL, 15*time.Minute),
		config.Dur(cfg.JWT.RefreshTTL, 720*time.Hour))

	// Email
	notifier := email.NewNotifier(email.New(email.Config{
		Enabled: cfg.SMTP.Enabled,
		Host:    cfg.SMTP.Host,
		Port:    cfg.SMTP.Port,
		From:    cfg.SMTP.From,
		User:    cfg.SMTP.User,
		Pass:    cfg.SMTP.Pass,
		TLSMode: cfg.SMTP.TLS,
	}))

	// AI simulada
	thresholds := ai.DefaultThresholds
	moderator := ai.NewModerator(thresholds)
	quality := ai.NewQualityAssessor(thresholds)
	assistant := ai.NewAssistant()
	detector := ai.NewBottleneckDetector()

	// Batch
	engine := batch.NewEngine(
		config.Dur(cfg.Batch.Retention, time.Hour),
		cfg.Batch.Concurrency)

	policy := password.Policy{
		MinLength:    cfg.Security.PasswordPolicy.MinLength,
		RequireUpper: cfg.Security.PasswordPolicy.RequireUpper,
		RequireLower: cfg.Security.PasswordPolicy.RequireLower,
		RequireDigit: cfg.Security.PasswordPolicy.RequireDigit,
	}

	// Services
	authSvc := svcauth.NewService(svcauth.Deps{Store: store, Issuer: issuer, Policy: policy})
	modelsSvc := svcmodels.NewService(svcmodels.Deps{Store: store, Cache: cacheClient, Policy: policy})
	gallerySvc := svcgallery.NewService(svcgallery.Deps{
		Store:     store,
		Media:     mediaStorage,
		Cache:     cacheClient,
		Moderator: moderator,
		Quality:   quality,
		Batch:     engine,
	})
	contentSvc := svccontent.NewService(svccontent.Deps{Store: store, Cache: cacheClient})
	crmSvc := svccrm.NewService(svccrm.Deps{Store: store, Assistant: assistant})
	publicSvc := svcpublic.NewService(svcpublic.Deps{
		Store:    store,
		Cache:    cacheClient,
		Notifier: notifier,
		PageTTL:  config.Dur(cfg.Cache.PublicPageTTL, 5*time.Minute),
	})
	analyticsSvc := svcanalytics.NewService(svcanalytics.Deps{
		Store:    store,
		Detector: detector,
		Snapshot: metricsSnapshot(store.Pool()),
	})

	// Métricas
	metricsHandler, err := httpx.RegisterMetrics(httpx.MetricsConfig{
		GlobalPool: store.Pool,
	})
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	// Scheduler
	sched := scheduler.New(store, scheduler.Config{
		AnalyticsRetentionDays: cfg.Scheduler.AnalyticsRetentionDays,
		PurgeSpec:              cfg.Scheduler.PurgeSpec,
	})

	maxUpload := int64(cfg.Media.MaxUploadMB) << 20

	handler := router.New(router.Deps{
		Store:  store,
		Issuer: issuer,

		Auth:      authctl.NewController(authSvc),
		Models:    modelsctl.NewController(modelsSvc, publicSvc),
		Gallery:   galleryctl.NewController(gallerySvc, maxUpload),
		Content:   contentctl.NewController(contentSvc),
		CRM:       crmctl.NewController(crmSvc),
		Public:    publicctl.NewController(publicSvc, gallerySvc),
		Analytics: analyticsctl.NewController(analyticsSvc),

		LoginLimiter:   loginLimiter,
		InquiryLimiter: inquiryLimiter,

		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,

		Metrics: metricsHandler,
		Readyz:  readyz(store, cacheClient),
	})

	return &Container{
		Cfg:     cfg,
		Store:   store,
		Cache:   cacheClient,
		Media:   mediaStorage,
		Issuer:  issuer,
		Batch:   engine,
		Sched:   sched,
		handler: handler,
	}, nil
}

// Handler devuelve el handler HTTP raíz.
func (c *Container) Handler() http.Handler { return c.handler }

// StartScheduler arranca las tareas periódicas. El cleaner del cache
// memory se detecta por interfaz; redis no necesita limpieza manual.
func (c *Container) StartScheduler() error {
	cleaner, _ := c.Cache.(scheduler.Cleaner)
	return c.Sched.Start(cleaner)
}

// Close libera recursos en orden inverso al arranque.
func (c *Container) Close() {
	if c.Sched != nil {
		c.Sched.Stop()
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

// newCache crea el cliente de cache y, si es redis, expone el cliente
// crudo para que los limiters compartan conexión.
func newCache(cfg *config.Config) (cache.Client, rawRedis, error) {
	host, port := splitHostPort(cfg.Cache.Redis.Addr)
	ccfg := cache.Config{
		Driver: cfg.Cache.Kind,
		Host:   host,
		Port:   port,
		DB:     cfg.Cache.Redis.DB,
		Prefix: cfg.Cache.Redis.Prefix,
	}
	client, err := cache.New(ccfg)
	if err != nil {
		return nil, nil, err
	}
	raw, _ := client.(rawRedis)
	return client, raw, nil
}

// rawRedis lo implementa el driver redis del cache.
type rawRedis interface {
	Raw() *rdb.Client
}

// newLimiter elige backend según haya redis disponible.
func newLimiter(raw rawRedis, prefix string, max int, window time.Duration) rate.Limiter {
	if max <= 0 {
		return nil
	}
	if raw != nil {
		return rate.NewRedisLimiter(raw.Raw(), prefix, max, window)
	}
	return rate.NewMemoryLimiter(max, window)
}

func splitHostPort(addr string) (string, int) {
	if addr == "" {
		return "localhost", 6379
	}
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 6379
	}
	var port int
	_, _ = fmt.Sscanf(portStr, "%d", &port)
	if port == 0 {
		port = 6379
	}
	return host, port
}

// readyz responde 200 solo si store y cache contestan el ping.
func readyz(store core.Store, c cache.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
		if c != nil {
			if err := c.Ping(ctx); err != nil {
				http.Error(w, "cache unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}
}

// metricsSnapshot arma la snapshot de métricas de proceso que consume el
// detector de bottlenecks: tráfico HTTP del último minuto y estado del pool.
func metricsSnapshot(pool *pgxpool.Pool) func() ai.MetricsSnapshot {
	return func() ai.MetricsSnapshot {
		var snap ai.MetricsSnapshot
		snap.AvgLatencyMS, snap.P95LatencyMS, snap.ErrorRate, snap.RequestsPerMin = httpx.HTTPStats()
		if pool != nil {
			if stat := pool.Stat(); stat != nil {
				snap.DBPoolInUse = int(stat.AcquiredConns())
				snap.DBPoolMax = int(stat.MaxConns())
			}
		}
		return snap
	}
}
