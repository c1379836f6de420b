package httpx

import (
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricsOnce sync.Once
	metricsErr  error

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec

	// Domain metrics
	batchJobsTotal     *prometheus.CounterVec
	moderationTotal    *prometheus.CounterVec
	publicPageRenders  *prometheus.CounterVec
	rateRejectionTotal *prometheus.CounterVec
)

// MetricsConfig agrupa dependencias necesarias para exponer /metrics.
type MetricsConfig struct {
	Registry   prometheus.Registerer
	GlobalPool func() *pgxpool.Pool
}

// RegisterMetrics inicializa las métricas HTTP y de dominio y, opcionalmente,
// registra un collector para el pool de base de datos. Devuelve el handler
// para /metrics.
func RegisterMetrics(cfg MetricsConfig) (http.Handler, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	metricsOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		httpInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo por método y ruta",
		}, []string{"method", "path"})

		batchJobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_jobs_total",
			Help: "Jobs batch lanzados por acción",
		}, []string{"action"})

		moderationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moderation_results_total",
			Help: "Resultados de moderación por estado",
		}, []string{"status"}) // status: approved|flagged|rejected

		publicPageRenders = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "public_page_renders_total",
			Help: "Páginas públicas renderizadas por resultado de cache",
		}, []string{"page", "cache"}) // cache: hit|miss

		rateRejectionTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Requests rechazadas por rate limit",
		}, []string{"scope"})

		for _, c := range []prometheus.Collector{
			httpRequestsTotal, httpRequestDuration, httpInflight,
			batchJobsTotal, moderationTotal, publicPageRenders, rateRejectionTotal,
		} {
			if err := registerCollector(registry, c); err != nil {
				metricsErr = err
				return
			}
		}
	})
	if metricsErr != nil {
		return nil, metricsErr
	}

	if cfg.GlobalPool != nil {
		if err := registerCollector(registry, newDBPoolCollector(cfg.GlobalPool)); err != nil {
			return nil, err
		}
	}

	// Usamos el gatherer global por compatibilidad, ya que las métricas se registran allí.
	return promhttp.Handler(), nil
}

// WithMetrics instrumenta requests HTTP con métricas Prometheus (contadores, latencia, inflight).
func WithMetrics(next http.Handler) http.Handler {
	if next == nil {
		return nil
	}
	if httpRequestsTotal == nil || httpRequestDuration == nil || httpInflight == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := strings.ToUpper(r.Method)
		pathLabel := normalizePath(r.URL.Path)

		httpInflight.WithLabelValues(method, pathLabel).Inc()
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			httpInflight.WithLabelValues(method, pathLabel).Dec()
			duration := time.Since(start).Seconds()
			httpRequestDuration.WithLabelValues(method, pathLabel).Observe(duration)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			httpRequestsTotal.WithLabelValues(method, pathLabel, strconv.Itoa(status)).Inc()
			statsWin.add(duration*1000, status)
		}()

		next.ServeHTTP(rec, r)
	})
}

// statusRecorder captura el status final para la métrica de requests.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// registerCollector registra el collector en el registry indicado, ignorando duplicados.
func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if err := reg.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// dbPoolCollector expone gauges del pool de pgx.
type dbPoolCollector struct {
	pool func() *pgxpool.Pool

	acquiredDesc *prometheus.Desc
	idleDesc     *prometheus.Desc
	totalDesc    *prometheus.Desc
}

func newDBPoolCollector(pool func() *pgxpool.Pool) *dbPoolCollector {
	return &dbPoolCollector{
		pool:         pool,
		acquiredDesc: prometheus.NewDesc("pg_pool_acquired", "Conexiones adquiridas", nil, nil),
		idleDesc:     prometheus.NewDesc("pg_pool_idle", "Conexiones inactivas", nil, nil),
		totalDesc:    prometheus.NewDesc("pg_pool_total", "Conexiones totales", nil, nil),
	}
}

func (c *dbPoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredDesc
	ch <- c.idleDesc
	ch <- c.totalDesc
}

func (c *dbPoolCollector) Collect(ch chan<- prometheus.Metric) {
	if c.pool == nil {
		return
	}
	pool := c.pool()
	if pool == nil {
		return
	}
	if stat := pool.Stat(); stat != nil {
		ch <- prometheus.MustNewConstMetric(c.acquiredDesc, prometheus.GaugeValue, float64(stat.AcquiredConns()))
		ch <- prometheus.MustNewConstMetric(c.idleDesc, prometheus.GaugeValue, float64(stat.IdleConns()))
		ch <- prometheus.MustNewConstMetric(c.totalDesc, prometheus.GaugeValue, float64(stat.TotalConns()))
	}
}

var (
	uuidSegmentRE  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F-]{4}-[0-9a-fA-F-]{4,}$`)
	hexSegmentRE   = regexp.MustCompile(`^[0-9a-fA-F]{16,}$`)
	tokenSegmentRE = regexp.MustCompile(`^[A-Za-z0-9_-]{24,}$`)
)

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	clean := strings.SplitN(p, "?", 2)[0]
	if clean == "" {
		return "/"
	}
	if !strings.HasPrefix(clean, "/") {
		clean = "/" + clean
	}

	segments := strings.Split(clean, "/")
	var out []string
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if isDynamicSegment(seg) {
			out = append(out, ":param")
		} else {
			out = append(out, seg)
		}
	}
	if len(out) == 0 {
		return "/"
	}
	return "/" + strings.Join(out, "/")
}

func isDynamicSegment(seg string) bool {
	if len(seg) > 48 {
		return true
	}
	if uuidSegmentRE.MatchString(seg) {
		return true
	}
	if hexSegmentRE.MatchString(seg) {
		return true
	}
	if tokenSegmentRE.MatchString(seg) {
		return true
	}
	if _, err := strconv.Atoi(seg); err == nil {
		return true
	}
	return false
}

// ---- ventana de stats recientes ----

// La ventana alimenta el detector de bottlenecks con agregados del último
// minuto; prometheus acumula desde el arranque y no sirve para eso.
const (
	statsWindow     = time.Minute
	statsMaxSamples = 4096
)

type httpSample struct {
	at      time.Time
	ms      float64
	isError bool
}

type httpStatsWindow struct {
	mu      sync.Mutex
	samples []httpSample
}

var statsWin httpStatsWindow

func (w *httpStatsWindow) add(ms float64, status int) {
	now := time.Now()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.samples = append(w.samples, httpSample{at: now, ms: ms, isError: status >= 500})
	w.trim(now)
}

// trim descarta muestras fuera de ventana y acota el buffer. Caller holds mu.
func (w *httpStatsWindow) trim(now time.Time) {
	cut := now.Add(-statsWindow)
	i := 0
	for i < len(w.samples) && w.samples[i].at.Before(cut) {
		i++
	}
	if i > 0 {
		w.samples = append(w.samples[:0], w.samples[i:]...)
	}
	if over := len(w.samples) - statsMaxSamples; over > 0 {
		w.samples = append(w.samples[:0], w.samples[over:]...)
	}
}

func (w *httpStatsWindow) stats() (avgMS, p95MS, errorRate, perMin float64) {
	now := time.Now()
	w.mu.Lock()
	w.trim(now)
	samples := make([]httpSample, len(w.samples))
	copy(samples, w.samples)
	w.mu.Unlock()

	n := len(samples)
	if n == 0 {
		return 0, 0, 0, 0
	}
	lat := make([]float64, n)
	var sum float64
	var errs int
	for i, s := range samples {
		lat[i] = s.ms
		sum += s.ms
		if s.isError {
			errs++
		}
	}
	sort.Float64s(lat)
	idx := (n * 95) / 100
	if idx >= n {
		idx = n - 1
	}
	perMin = float64(n) * float64(time.Minute) / float64(statsWindow)
	return sum / float64(n), lat[idx], float64(errs) / float64(n), perMin
}

// HTTPStats devuelve agregados del tráfico del último minuto: latencia media
// y p95 en ms, tasa de errores 5xx y requests por minuto.
func HTTPStats() (avgMS, p95MS, errorRate, perMin float64) {
	return statsWin.stats()
}

// RecordBatchJob registra el lanzamiento de un job batch.
func RecordBatchJob(action string) {
	if batchJobsTotal != nil {
		batchJobsTotal.WithLabelValues(action).Inc()
	}
}

// RecordModeration registra el resultado de una moderación.
func RecordModeration(status string) {
	if moderationTotal != nil {
		moderationTotal.WithLabelValues(status).Inc()
	}
}

// RecordPublicRender registra el render de una página pública (hit|miss de cache).
func RecordPublicRender(page string, cacheHit bool) {
	if publicPageRenders != nil {
		res := "miss"
		if cacheHit {
			res = "hit"
		}
		publicPageRenders.WithLabelValues(page, res).Inc()
	}
}

// RecordRateReject registra un rechazo por rate limit.
func RecordRateReject(scope string) {
	if rateRejectionTotal != nil {
		rateRejectionTotal.WithLabelValues(scope).Inc()
	}
}
