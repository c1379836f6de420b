package ai

// MetricsSnapshot es la vista de métricas recientes que analiza el detector.
type MetricsSnapshot struct {
	AvgLatencyMS   float64
	P95LatencyMS   float64
	ErrorRate      float64 // 0..1
	RequestsPerMin float64
	DBPoolInUse    int
	DBPoolMax      int
}

// Bottleneck es un problema de performance detectado.
type Bottleneck struct {
	Component string  `json:"component"`
	Severity  string  `json:"severity"` // warning|critical
	Metric    string  `json:"metric"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Advice    string  `json:"advice"`
}

// BottleneckDetector evalúa la snapshot contra umbrales fijos.
type BottleneckDetector struct{}

func NewBottleneckDetector() *BottleneckDetector { return &BottleneckDetector{} }

// Umbrales literales del detector.
const (
	latencyWarnMS = 500.0
	latencyCritMS = 2000.0
	errorRateWarn = 0.02
	errorRateCrit = 0.10
	poolUsageWarn = 0.80
)

// Detect devuelve los cuellos de botella presentes en la snapshot.
func (d *BottleneckDetector) Detect(s MetricsSnapshot) []Bottleneck {
	var out []Bottleneck

	if s.P95LatencyMS >= latencyCritMS {
		out = append(out, Bottleneck{
			Component: "http", Severity: "critical", Metric: "p95_latency_ms",
			Value: s.P95LatencyMS, Threshold: latencyCritMS,
			Advice: "Revisar queries lentas y tamaño de respuestas; considerar cache de páginas públicas.",
		})
	} else if s.P95LatencyMS >= latencyWarnMS {
		out = append(out, Bottleneck{
			Component: "http", Severity: "warning", Metric: "p95_latency_ms",
			Value: s.P95LatencyMS, Threshold: latencyWarnMS,
			Advice: "Latencia p95 elevada; revisar endpoints de listado con paginación grande.",
		})
	}

	if s.ErrorRate >= errorRateCrit {
		out = append(out, Bottleneck{
			Component: "http", Severity: "critical", Metric: "error_rate",
			Value: s.ErrorRate, Threshold: errorRateCrit,
			Advice: "Tasa de errores crítica; revisar logs de los últimos despliegues.",
		})
	} else if s.ErrorRate >= errorRateWarn {
		out = append(out, Bottleneck{
			Component: "http", Severity: "warning", Metric: "error_rate",
			Value: s.ErrorRate, Threshold: errorRateWarn,
			Advice: "Tasa de errores sobre lo normal.",
		})
	}

	if s.DBPoolMax > 0 {
		usage := float64(s.DBPoolInUse) / float64(s.DBPoolMax)
		if usage >= poolUsageWarn {
			out = append(out, Bottleneck{
				Component: "database", Severity: "warning", Metric: "pool_usage",
				Value: usage, Threshold: poolUsageWarn,
				Advice: "Pool de conexiones cerca del límite; subir MaxConns o reducir queries por request.",
			})
		}
	}
	return out
}
