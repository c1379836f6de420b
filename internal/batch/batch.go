// Package batch implementa el motor de operaciones batch sobre imágenes:
// un job aplica una acción a una lista de IDs, contando éxitos y fallos.
// Los jobs viven en un registry en memoria con TTL; no hay durabilidad.
package batch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/musenest/internal/observability/logger"
)

// Acciones soportadas.
const (
	ActionApprove  = "approve"
	ActionReject   = "reject"
	ActionDelete   = "delete"
	ActionRestore  = "restore"
	ActionModerate = "moderate"
)

// Estados de un job.
const (
	StatusQueued  = "queued"
	StatusRunning = "running"
	StatusDone    = "done"
)

var (
	ErrNotFound      = errors.New("batch: job not found")
	ErrInvalidAction = errors.New("batch: invalid action")
	ErrEmptyBatch    = errors.New("batch: no items")
)

// ItemFunc aplica la acción a un item. Error → item fallido.
type ItemFunc func(ctx context.Context, imageID string) error

// ItemError es el fallo de un item individual.
type ItemError struct {
	ImageID string `json:"image_id"`
	Error   string `json:"error"`
}

// Job es el estado observable de una operación batch.
type Job struct {
	ID         string      `json:"id"`
	ModelID    string      `json:"model_id"`
	Action     string      `json:"action"`
	Status     string      `json:"status"`
	Total      int         `json:"total"`
	Processed  int         `json:"processed"`
	Succeeded  int         `json:"succeeded"`
	Failed     int         `json:"failed"`
	Errors     []ItemError `json:"errors,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
}

// jobState es el estado mutable interno, protegido por mutex.
type jobState struct {
	mu  sync.Mutex
	job Job
}

// snapshot devuelve una copia consistente del job.
func (s *jobState) snapshot() Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	j := s.job
	j.Errors = append([]ItemError(nil), s.job.Errors...)
	return j
}

// Engine corre jobs y mantiene el registry con TTL.
type Engine struct {
	registry    *gocache.Cache
	concurrency int
}

// NewEngine crea el motor. retention define cuánto tiempo queda consultable
// un job terminado.
func NewEngine(retention time.Duration, concurrency int) *Engine {
	if retention <= 0 {
		retention = time.Hour
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Engine{
		registry:    gocache.New(retention, 10*time.Minute),
		concurrency: concurrency,
	}
}

// ValidAction devuelve true si la acción es una de las soportadas.
func ValidAction(a string) bool {
	switch a {
	case ActionApprove, ActionReject, ActionDelete, ActionRestore, ActionModerate:
		return true
	}
	return false
}

// Submit registra y lanza un job en background. Devuelve el snapshot inicial.
func (e *Engine) Submit(ctx context.Context, modelID, action string, imageIDs []string, fn ItemFunc) (Job, error) {
	if !ValidAction(action) {
		return Job{}, ErrInvalidAction
	}
	if len(imageIDs) == 0 {
		return Job{}, ErrEmptyBatch
	}

	st := &jobState{job: Job{
		ID:        uuid.NewString(),
		ModelID:   modelID,
		Action:    action,
		Status:    StatusQueued,
		Total:     len(imageIDs),
		CreatedAt: time.Now().UTC(),
	}}
	e.registry.Set(st.job.ID, st, gocache.DefaultExpiration)

	// El job sobrevive al request que lo creó: contexto propio, logger del request.
	runCtx := logger.ToContext(context.Background(), logger.From(ctx))
	go e.run(runCtx, st, imageIDs, fn)

	return st.snapshot(), nil
}

// Get devuelve el estado de un job por ID.
func (e *Engine) Get(modelID, jobID string) (Job, error) {
	v, ok := e.registry.Get(jobID)
	if !ok {
		return Job{}, ErrNotFound
	}
	st := v.(*jobState)
	j := st.snapshot()
	// Ownership: un model no ve jobs de otro.
	if j.ModelID != modelID {
		return Job{}, ErrNotFound
	}
	return j, nil
}

func (e *Engine) run(ctx context.Context, st *jobState, imageIDs []string, fn ItemFunc) {
	log := logger.From(ctx).With(logger.Component("batch"), logger.JobID(st.job.ID))
	log.Info("batch job started",
		logger.String("action", st.job.Action), logger.Count(len(imageIDs)))

	st.mu.Lock()
	st.job.Status = StatusRunning
	st.mu.Unlock()

	reporter := newProgressReporter(st)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for _, id := range imageIDs {
		id := id
		g.Go(func() error {
			err := fn(gctx, id)

			st.mu.Lock()
			st.job.Processed++
			if err != nil {
				st.job.Failed++
				st.job.Errors = append(st.job.Errors, ItemError{ImageID: id, Error: err.Error()})
			} else {
				st.job.Succeeded++
			}
			processed, total := st.job.Processed, st.job.Total
			st.mu.Unlock()

			reporter.Report(processed, total)
			return nil
		})
	}
	_ = g.Wait()

	now := time.Now().UTC()
	st.mu.Lock()
	st.job.Status = StatusDone
	st.job.FinishedAt = &now
	succeeded, failed := st.job.Succeeded, st.job.Failed
	st.mu.Unlock()

	log.Info("batch job finished",
		logger.Int("succeeded", succeeded), logger.Int("failed", failed))
}
