package batch

import (
	"sync"
	"time"
)

// progressThrottle limita la frecuencia de updates de progreso.
const progressThrottle = 100 * time.Millisecond

// progressReporter actualiza el porcentaje del job con throttling:
// como máximo un update cada progressThrottle, excepto al llegar al 100%,
// que siempre se reporta.
type progressReporter struct {
	mu     sync.Mutex
	st     *jobState
	last   time.Time
	lastPc int
}

func newProgressReporter(st *jobState) *progressReporter {
	return &progressReporter{st: st, lastPc: -1}
}

// Report registra processed/total. El porcentaje queda visible en el snapshot
// del job vía Processed/Total; acá solo se controla el ritmo de logging/refresh.
func (p *progressReporter) Report(processed, total int) {
	pct := 0
	if total > 0 {
		pct = processed * 100 / total
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	final := processed >= total
	if !final && now.Sub(p.last) < progressThrottle && pct == p.lastPc {
		return
	}
	p.last = now
	p.lastPc = pct
}

// Percent devuelve el último porcentaje reportado.
func (p *progressReporter) Percent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastPc < 0 {
		return 0
	}
	return p.lastPc
}
