// Package analytics arma el dashboard de un model a partir de los eventos
// registrados, exporta el rango crudo a CSV y corre el detector de
// cuellos de botella sobre una snapshot de métricas.
package analytics

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/dropDatabas3/musenest/internal/ai"
	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	"github.com/dropDatabas3/musenest/internal/store/core"
)

// Deps contiene las dependencias del servicio.
type Deps struct {
	Store    core.Store
	Detector *ai.BottleneckDetector

	// Snapshot provee las métricas recientes del proceso para el detector.
	// nil = snapshot vacía (sin bottlenecks).
	Snapshot func() ai.MetricsSnapshot
}

type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	return &Service{deps: deps}
}

// Summary agrega los eventos del rango directamente desde el store.
func (s *Service) Summary(ctx context.Context, modelID string, from, to time.Time) (*dto.AnalyticsSummary, error) {
	counts, err := s.deps.Store.Analytics().CountByKind(ctx, modelID, from, to)
	if err != nil {
		return nil, err
	}
	top, err := s.deps.Store.Analytics().TopPaths(ctx, modelID, from, to, 10)
	if err != nil {
		return nil, err
	}
	return &dto.AnalyticsSummary{
		From:         from,
		To:           to,
		CountsByKind: counts,
		TopPaths:     top,
	}, nil
}

// WriteCSV vuelca los eventos crudos del rango como CSV al writer.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, modelID string, from, to time.Time) error {
	events, err := s.deps.Store.Analytics().ListRange(ctx, modelID, from, to)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "kind", "path", "occurred_at"}); err != nil {
		return err
	}
	for _, ev := range events {
		rec := []string{ev.ID, ev.Kind, ev.Path, ev.OccurredAt.UTC().Format(time.RFC3339)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Bottlenecks corre el detector sobre la snapshot actual de métricas.
func (s *Service) Bottlenecks(_ context.Context) (*dto.BottleneckReport, error) {
	if s.deps.Detector == nil {
		return nil, fmt.Errorf("bottleneck detector not configured")
	}
	var snap ai.MetricsSnapshot
	if s.deps.Snapshot != nil {
		snap = s.deps.Snapshot()
	}
	return &dto.BottleneckReport{
		GeneratedAt: time.Now().UTC(),
		Snapshot:    snap,
		Bottlenecks: s.deps.Detector.Detect(snap),
	}, nil
}
