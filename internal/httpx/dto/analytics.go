package dto

import (
	"time"

	"github.com/dropDatabas3/musenest/internal/ai"
	"github.com/dropDatabas3/musenest/internal/store/core"
)

// AnalyticsSummary es el dashboard de un model para un rango de fechas.
type AnalyticsSummary struct {
	From         time.Time        `json:"from"`
	To           time.Time        `json:"to"`
	CountsByKind map[string]int64 `json:"counts_by_kind"`
	TopPaths     []core.PathCount `json:"top_paths"`
}

// BottleneckReport es la salida del detector de performance.
type BottleneckReport struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Snapshot    ai.MetricsSnapshot `json:"snapshot"`
	Bottlenecks []ai.Bottleneck    `json:"bottlenecks"`
}
