package httpx

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatsWindow_Aggregates(t *testing.T) {
	var w httpStatsWindow

	for i := 1; i <= 100; i++ {
		status := http.StatusOK
		if i <= 5 {
			status = http.StatusInternalServerError
		}
		w.add(float64(i), status)
	}

	avg, p95, errRate, perMin := w.stats()
	assert.InDelta(t, 50.5, avg, 0.01)
	assert.InDelta(t, 96.0, p95, 0.01)
	assert.InDelta(t, 0.05, errRate, 0.001)
	assert.InDelta(t, 100.0, perMin, 0.01)
}

func TestHTTPStatsWindow_EmptyIsZero(t *testing.T) {
	var w httpStatsWindow
	avg, p95, errRate, perMin := w.stats()
	assert.Zero(t, avg)
	assert.Zero(t, p95)
	assert.Zero(t, errRate)
	assert.Zero(t, perMin)
}

func TestHTTPStatsWindow_DropsOldSamples(t *testing.T) {
	var w httpStatsWindow
	w.samples = append(w.samples, httpSample{at: time.Now().Add(-2 * statsWindow), ms: 1000})
	w.add(10, http.StatusOK)

	avg, _, _, perMin := w.stats()
	assert.InDelta(t, 10.0, avg, 0.01)
	assert.InDelta(t, 1.0, perMin, 0.01)
}

func TestHTTPStatsWindow_OnlyServerErrorsCount(t *testing.T) {
	var w httpStatsWindow
	w.add(5, http.StatusNotFound)
	w.add(5, http.StatusBadGateway)

	_, _, errRate, _ := w.stats()
	assert.InDelta(t, 0.5, errRate, 0.001)
}
