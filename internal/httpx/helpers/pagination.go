package helpers

import (
	"net/http"
	"strconv"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// Page representa los parámetros de paginación ya saneados.
type Page struct {
	Page    int
	PerPage int
}

// Offset devuelve el offset SQL correspondiente.
func (p Page) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// ParsePage extrae ?page y ?per_page del request.
// Valores fuera de rango se ajustan silenciosamente (page>=1, 1<=per_page<=100).
func ParsePage(r *http.Request) Page {
	p := Page{Page: 1, PerPage: defaultPerPage}

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Page = n
		}
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.PerPage = n
		}
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	return p
}

// PagedResponse es el envelope estándar para listados paginados.
type PagedResponse struct {
	Items   any   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

// NewPagedResponse arma el envelope a partir de items + total + Page.
func NewPagedResponse(items any, total int64, p Page) PagedResponse {
	return PagedResponse{Items: items, Total: total, Page: p.Page, PerPage: p.PerPage}
}
