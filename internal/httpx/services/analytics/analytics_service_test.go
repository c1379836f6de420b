package analytics

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/musenest/internal/ai"
	"github.com/dropDatabas3/musenest/internal/store/core"
	"github.com/dropDatabas3/musenest/internal/store/storetest"
)

const modelID = "model-1"

func seedEvents(t *testing.T, st *storetest.Store, base time.Time) {
	t.Helper()
	ctx := context.Background()
	record := func(id, kind, path string, at time.Time) {
		require.NoError(t, st.Analytics().Record(ctx, &core.AnalyticsEvent{
			ID: id, ModelID: modelID, Kind: kind, Path: path, OccurredAt: at,
		}))
	}
	record("ev-1", core.AnalyticsPageView, "/m/vera/home", base)
	record("ev-2", core.AnalyticsPageView, "/m/vera/home", base.Add(time.Minute))
	record("ev-3", core.AnalyticsPageView, "/m/vera/gallery", base.Add(2*time.Minute))
	record("ev-4", core.AnalyticsInquiry, "/m/vera/contact", base.Add(3*time.Minute))
	// fuera de rango
	record("ev-old", core.AnalyticsPageView, "/m/vera/home", base.Add(-48*time.Hour))
	// otro model
	require.NoError(t, st.Analytics().Record(ctx, &core.AnalyticsEvent{
		ID: "ev-other", ModelID: "model-2", Kind: core.AnalyticsPageView, Path: "/m/otra/home", OccurredAt: base,
	}))
}

func TestSummary(t *testing.T) {
	st := storetest.New()
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	seedEvents(t, st, base)

	svc := NewService(Deps{Store: st})
	sum, err := svc.Summary(context.Background(), modelID, base.Add(-time.Hour), base.Add(time.Hour))
	require.NoError(t, err)

	assert.EqualValues(t, 3, sum.CountsByKind[core.AnalyticsPageView])
	assert.EqualValues(t, 1, sum.CountsByKind[core.AnalyticsInquiry])

	require.NotEmpty(t, sum.TopPaths)
	assert.Equal(t, "/m/vera/home", sum.TopPaths[0].Path)
	assert.EqualValues(t, 2, sum.TopPaths[0].Count)
}

func TestWriteCSV(t *testing.T) {
	st := storetest.New()
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	seedEvents(t, st, base)

	svc := NewService(Deps{Store: st})
	var buf bytes.Buffer
	err := svc.WriteCSV(context.Background(), &buf, modelID, base.Add(-time.Hour), base.Add(time.Hour))
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, []string{"id", "kind", "path", "occurred_at"}, records[0])
	assert.Len(t, records, 5) // header + 4 eventos en rango
}

func TestBottlenecks(t *testing.T) {
	svc := NewService(Deps{
		Store:    storetest.New(),
		Detector: ai.NewBottleneckDetector(),
		Snapshot: func() ai.MetricsSnapshot {
			return ai.MetricsSnapshot{DBPoolInUse: 10, DBPoolMax: 10, ErrorRate: 0.5}
		},
	})

	report, err := svc.Bottlenecks(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, report.Bottlenecks)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestBottlenecks_NoDetector(t *testing.T) {
	svc := NewService(Deps{Store: storetest.New()})
	_, err := svc.Bottlenecks(context.Background())
	assert.Error(t, err)
}
