package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, e *Engine, modelID, jobID string) Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		j, err := e.Get(modelID, jobID)
		require.NoError(t, err)
		if j.Status == StatusDone {
			return j
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not finish in time")
	return Job{}
}

func TestEngine_CountsSuccessesAndFailures(t *testing.T) {
	e := NewEngine(time.Minute, 4)

	fn := func(ctx context.Context, id string) error {
		if id == "bad-1" || id == "bad-2" {
			return errors.New("boom")
		}
		return nil
	}

	j, err := e.Submit(context.Background(), "model-1", ActionApprove,
		[]string{"a", "bad-1", "b", "bad-2", "c"}, fn)
	require.NoError(t, err)
	assert.Equal(t, 5, j.Total)

	done := waitDone(t, e, "model-1", j.ID)
	assert.Equal(t, 5, done.Processed)
	assert.Equal(t, 3, done.Succeeded)
	assert.Equal(t, 2, done.Failed)
	assert.Len(t, done.Errors, 2)
	require.NotNil(t, done.FinishedAt)
}

func TestEngine_RejectsInvalidAction(t *testing.T) {
	e := NewEngine(time.Minute, 4)
	_, err := e.Submit(context.Background(), "m", "explode", []string{"a"}, nil)
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestEngine_RejectsEmptyBatch(t *testing.T) {
	e := NewEngine(time.Minute, 4)
	_, err := e.Submit(context.Background(), "m", ActionDelete, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestEngine_OwnershipOnGet(t *testing.T) {
	e := NewEngine(time.Minute, 4)
	j, err := e.Submit(context.Background(), "model-1", ActionApprove, []string{"a"},
		func(ctx context.Context, id string) error { return nil })
	require.NoError(t, err)

	waitDone(t, e, "model-1", j.ID)

	_, err = e.Get("model-2", j.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEngine_GetUnknownJob(t *testing.T) {
	e := NewEngine(time.Minute, 4)
	_, err := e.Get("m", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProgressReporter_FinalAlwaysReported(t *testing.T) {
	st := &jobState{job: Job{Total: 10}}
	p := newProgressReporter(st)

	p.Report(1, 10)
	assert.Equal(t, 10, p.Percent())

	// dentro de la ventana de throttle y mismo pct: no cambia
	p.Report(1, 10)
	assert.Equal(t, 10, p.Percent())

	// 100% siempre pasa, aunque no haya pasado el throttle
	p.Report(10, 10)
	assert.Equal(t, 100, p.Percent())
}

func TestValidAction(t *testing.T) {
	for _, a := range []string{ActionApprove, ActionReject, ActionDelete, ActionRestore, ActionModerate} {
		assert.True(t, ValidAction(a))
	}
	assert.False(t, ValidAction("publish"))
}
