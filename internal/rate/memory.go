package rate

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter implementa el mismo algoritmo fixed-window en memoria.
// Para desarrollo o despliegues de una sola instancia sin Redis.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	Max     int64
	Window  time.Duration
}

type bucket struct {
	hits     int64
	winStart time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		buckets: make(map[string]*bucket),
		Max:     int64(max),
		Window:  window,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(l.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || b.winStart.Before(winStart) {
		b = &bucket{winStart: winStart}
		l.buckets[key] = b
	}
	b.hits++

	// purga oportunista de buckets viejos
	if len(l.buckets) > 10000 {
		for k, v := range l.buckets {
			if v.winStart.Before(winStart) {
				delete(l.buckets, k)
			}
		}
	}

	remaining := l.Max - b.hits
	if remaining < 0 {
		remaining = 0
	}
	ttl := b.winStart.Add(l.Window).Sub(now)

	res := Result{
		Allowed:     b.hits <= l.Max,
		Remaining:   remaining,
		CurrentHits: b.hits,
		WindowTTL:   ttl,
	}
	if !res.Allowed {
		res.RetryAfter = ttl
	}
	return res, nil
}
