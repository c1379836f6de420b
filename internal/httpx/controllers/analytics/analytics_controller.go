// Package analytics expone el resumen del dashboard, el export CSV y el
// detector de cuellos de botella.
package analytics

import (
	"net/http"
	"time"

	httperrors "github.com/dropDatabas3/musenest/internal/httpx/errors"
	"github.com/dropDatabas3/musenest/internal/httpx/helpers"
	"github.com/dropDatabas3/musenest/internal/httpx/middlewares"
	svc "github.com/dropDatabas3/musenest/internal/httpx/services/analytics"
	"github.com/dropDatabas3/musenest/internal/observability/logger"
)

// Controller maneja los endpoints de analytics del back office.
type Controller struct {
	service *svc.Service
}

func NewController(service *svc.Service) *Controller {
	return &Controller{service: service}
}

// parseRange lee ?from y ?to (RFC3339). El default son los últimos 30 días.
func parseRange(r *http.Request) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	from, to := now.AddDate(0, 0, -30), now

	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return from, to, false
		}
		from = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return from, to, false
		}
		to = t
	}
	return from, to, true
}

// Summary maneja GET /api/v1/admin/analytics/summary. Con ?format=csv
// exporta los eventos crudos del rango en vez del resumen JSON.
func (c *Controller) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	modelID := middlewares.GetModelID(ctx)

	from, to, ok := parseRange(r)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("from/to deben ser RFC3339"))
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="analytics.csv"`)
		if err := c.service.WriteCSV(ctx, w, modelID, from, to); err != nil {
			// el header ya salió, solo queda loguear
			logger.From(ctx).Error("csv export failed", logger.Err(err))
		}
		return
	}

	summary, err := c.service.Summary(ctx, modelID, from, to)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, summary)
}

// Bottlenecks maneja GET /api/v1/admin/ai/bottlenecks.
func (c *Controller) Bottlenecks(w http.ResponseWriter, r *http.Request) {
	report, err := c.service.Bottlenecks(r.Context())
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, report)
}
