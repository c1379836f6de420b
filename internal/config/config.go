// Package config carga la configuración del servicio desde YAML con
// overrides por variables de entorno. El YAML es la base; el entorno
// siempre gana (útil en contenedores y CI).
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Storage struct {
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MaxIdleConns    int    `yaml:"max_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
		// TTL del cache de páginas públicas renderizadas.
		PublicPageTTL string `yaml:"public_page_ttl"`
	} `yaml:"cache"`

	JWT struct {
		Issuer     string `yaml:"issuer"`
		Secret     string `yaml:"secret"`
		AccessTTL  string `yaml:"access_ttl"`
		RefreshTTL string `yaml:"refresh_ttl"`
	} `yaml:"jwt"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
		Inquiry struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"inquiry"`
	} `yaml:"rate"`

	Media struct {
		Driver      string `yaml:"driver"` // fs | s3
		Root        string `yaml:"root"`
		MaxUploadMB int    `yaml:"max_upload_mb"`
		S3          struct {
			Bucket    string `yaml:"bucket"`
			Region    string `yaml:"region"`
			Endpoint  string `yaml:"endpoint"`
			KeyPrefix string `yaml:"key_prefix"`
		} `yaml:"s3"`
	} `yaml:"media"`

	Batch struct {
		Concurrency int    `yaml:"concurrency"`
		Retention   string `yaml:"retention"`
	} `yaml:"batch"`

	Scheduler struct {
		AnalyticsRetentionDays int    `yaml:"analytics_retention_days"`
		PurgeSpec              string `yaml:"purge_spec"`
	} `yaml:"scheduler"`

	SMTP struct {
		Enabled bool   `yaml:"enabled"`
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
		From    string `yaml:"from"`
		User    string `yaml:"user"`
		Pass    string `yaml:"pass"`
		// auto | starttls | ssl | none
		TLS string `yaml:"tls"`
	} `yaml:"smtp"`

	Security struct {
		PasswordPolicy struct {
			MinLength    int  `yaml:"min_length"`
			RequireUpper bool `yaml:"require_upper"`
			RequireLower bool `yaml:"require_lower"`
			RequireDigit bool `yaml:"require_digit"`
		} `yaml:"password_policy"`
	} `yaml:"security"`

	Flags struct {
		Migrate bool `yaml:"migrate"`
	} `yaml:"flags"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "2m"
	}
	if c.Cache.PublicPageTTL == "" {
		c.Cache.PublicPageTTL = "5m"
	}
	if c.JWT.AccessTTL == "" {
		c.JWT.AccessTTL = "15m"
	}
	if c.JWT.RefreshTTL == "" {
		c.JWT.RefreshTTL = "720h" // 30d
	}
	// Endpoint-specific rate limit defaults
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
	if c.Rate.Inquiry.Limit == 0 {
		c.Rate.Inquiry.Limit = 5
	}
	if c.Rate.Inquiry.Window == "" {
		c.Rate.Inquiry.Window = "10m"
	}
	// Media defaults
	if c.Media.Driver == "" {
		c.Media.Driver = "fs"
	}
	if c.Media.Root == "" {
		c.Media.Root = "./data/media"
	}
	if c.Media.MaxUploadMB == 0 {
		c.Media.MaxUploadMB = 10
	}
	// Batch defaults
	if c.Batch.Concurrency == 0 {
		c.Batch.Concurrency = 4
	}
	if c.Batch.Retention == "" {
		c.Batch.Retention = "1h"
	}
	// Scheduler defaults
	if c.Scheduler.AnalyticsRetentionDays == 0 {
		c.Scheduler.AnalyticsRetentionDays = 90
	}
	// Password policy default
	if c.Security.PasswordPolicy.MinLength == 0 {
		c.Security.PasswordPolicy.MinLength = 10
	}
	// SMTP defaults
	if c.SMTP.TLS == "" {
		c.SMTP.TLS = "auto"
	}

	// validate string durations
	for _, d := range []string{
		c.Storage.Postgres.ConnMaxLifetime,
		c.Cache.Memory.DefaultTTL,
		c.Cache.PublicPageTTL,
		c.JWT.AccessTTL,
		c.JWT.RefreshTTL,
		c.Rate.Login.Window,
		c.Rate.Inquiry.Window,
		c.Batch.Retention,
	} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			return nil, err
		}
	}

	// Overrides por env + salvaguarda prod
	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	// Normalizar root de media (si relativo) respecto al directorio del YAML
	if p := strings.TrimSpace(c.Media.Root); p != "" && c.Media.Driver == "fs" {
		if !filepath.IsAbs(p) && !strings.HasPrefix(p, "./") {
			base := filepath.Dir(path)
			c.Media.Root = filepath.Clean(filepath.Join(base, p))
		}
	}

	return &c, nil
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_OPEN_CONNS"); ok {
		c.Storage.Postgres.MaxOpenConns = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_IDLE_CONNS"); ok {
		c.Storage.Postgres.MaxIdleConns = v
	}
	if v, ok := getEnvStr("POSTGRES_CONN_MAX_LIFETIME"); ok {
		// validación ya existe más arriba
		c.Storage.Postgres.ConnMaxLifetime = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}
	if v, ok := getEnvStr("CACHE_MEMORY_DEFAULT_TTL"); ok {
		c.Cache.Memory.DefaultTTL = v
	}
	if v, ok := getEnvStr("CACHE_PUBLIC_PAGE_TTL"); ok {
		c.Cache.PublicPageTTL = v
	}

	// JWT
	if v, ok := getEnvStr("JWT_ISSUER"); ok {
		c.JWT.Issuer = v
	}
	if v, ok := getEnvStr("JWT_SECRET"); ok {
		c.JWT.Secret = v
	}
	if v, ok := getEnvStr("JWT_ACCESS_TTL"); ok {
		c.JWT.AccessTTL = v
	}
	if v, ok := getEnvStr("JWT_REFRESH_TTL"); ok {
		c.JWT.RefreshTTL = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvInt("RATE_LOGIN_LIMIT"); ok {
		c.Rate.Login.Limit = v
	}
	if v, ok := getEnvStr("RATE_LOGIN_WINDOW"); ok {
		c.Rate.Login.Window = v
	}
	if v, ok := getEnvInt("RATE_INQUIRY_LIMIT"); ok {
		c.Rate.Inquiry.Limit = v
	}
	if v, ok := getEnvStr("RATE_INQUIRY_WINDOW"); ok {
		c.Rate.Inquiry.Window = v
	}

	// MEDIA
	if v, ok := getEnvStr("MEDIA_DRIVER"); ok {
		c.Media.Driver = v
	}
	if v, ok := getEnvStr("MEDIA_ROOT"); ok {
		c.Media.Root = v
	}
	if v, ok := getEnvInt("MEDIA_MAX_UPLOAD_MB"); ok {
		c.Media.MaxUploadMB = v
	}
	if v, ok := getEnvStr("MEDIA_S3_BUCKET"); ok {
		c.Media.S3.Bucket = v
	}
	if v, ok := getEnvStr("MEDIA_S3_REGION"); ok {
		c.Media.S3.Region = v
	}
	if v, ok := getEnvStr("MEDIA_S3_ENDPOINT"); ok {
		c.Media.S3.Endpoint = v
	}
	if v, ok := getEnvStr("MEDIA_S3_KEY_PREFIX"); ok {
		c.Media.S3.KeyPrefix = v
	}

	// BATCH
	if v, ok := getEnvInt("BATCH_CONCURRENCY"); ok {
		c.Batch.Concurrency = v
	}
	if v, ok := getEnvStr("BATCH_RETENTION"); ok {
		c.Batch.Retention = v
	}

	// SCHEDULER
	if v, ok := getEnvInt("ANALYTICS_RETENTION_DAYS"); ok {
		c.Scheduler.AnalyticsRetentionDays = v
	}
	if v, ok := getEnvStr("SCHEDULER_PURGE_SPEC"); ok {
		c.Scheduler.PurgeSpec = v
	}

	// SMTP
	if v, ok := getEnvBool("SMTP_ENABLED"); ok {
		c.SMTP.Enabled = v
	}
	if v, ok := getEnvStr("SMTP_HOST"); ok {
		c.SMTP.Host = v
	}
	if v, ok := getEnvInt("SMTP_PORT"); ok {
		c.SMTP.Port = v
	}
	if v, ok := getEnvStr("SMTP_FROM"); ok {
		c.SMTP.From = v
	}
	if v, ok := getEnvStr("SMTP_USER"); ok {
		c.SMTP.User = v
	}
	if v, ok := getEnvStr("SMTP_PASS"); ok {
		c.SMTP.Pass = v
	}
	if v, ok := getEnvStr("SMTP_TLS"); ok {
		c.SMTP.TLS = v
	}

	// SECURITY
	if v, ok := getEnvInt("PASSWORD_MIN_LENGTH"); ok {
		c.Security.PasswordPolicy.MinLength = v
	}

	// FLAGS
	if v, ok := getEnvBool("FLAG_MIGRATE"); ok {
		c.Flags.Migrate = v
	}
}

func (c *Config) Validate() error {
	if strings.EqualFold(c.App.Env, "prod") {
		if strings.TrimSpace(c.JWT.Secret) == "" {
			return errors.New("config: jwt.secret is required in prod")
		}
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return errors.New("config: storage.dsn is required in prod")
		}
	}
	switch c.Cache.Kind {
	case "memory", "redis":
	default:
		return errors.New("config: cache.kind must be memory or redis")
	}
	switch c.Media.Driver {
	case "fs", "s3":
	default:
		return errors.New("config: media.driver must be fs or s3")
	}
	if c.Media.Driver == "s3" && strings.TrimSpace(c.Media.S3.Bucket) == "" {
		return errors.New("config: media.s3.bucket is required with driver s3")
	}
	return nil
}

// Dur parsea una duración ya validada en Load. Cadena vacía → def.
func Dur(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		if strings.TrimSpace(s) == "" {
			return []string{}, true
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}
