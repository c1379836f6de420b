package gallery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/musenest/internal/ai"
	"github.com/dropDatabas3/musenest/internal/batch"
	"github.com/dropDatabas3/musenest/internal/cache"
	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	"github.com/dropDatabas3/musenest/internal/media"
	"github.com/dropDatabas3/musenest/internal/store/core"
	"github.com/dropDatabas3/musenest/internal/store/storetest"
)

const modelID = "model-1"

// memStorage es un media.Storage en memoria para los tests.
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) Put(_ context.Context, key string, r io.Reader, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return nil
}

func (m *memStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

type fixture struct {
	svc     *Service
	store   *storetest.Store
	storage *memStorage
}

func newFixture() *fixture {
	st := storetest.New()
	ms := newMemStorage()
	svc := NewService(Deps{
		Store:     st,
		Media:     ms,
		Cache:     cache.NewMemory("test:"),
		Moderator: ai.NewModerator(ai.DefaultThresholds),
		Quality:   ai.NewQualityAssessor(ai.DefaultThresholds),
		Batch:     batch.NewEngine(time.Minute, 2),
	})
	return &fixture{svc: svc, store: st, storage: ms}
}

func TestSections_CreateAndConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateSection(ctx, modelID, dto.CreateSectionRequest{Slug: "bad slug!"})
	assert.ErrorIs(t, err, ErrInvalidSlug)

	_, err = f.svc.CreateSection(ctx, modelID, dto.CreateSectionRequest{Slug: "editorial", Visibility: "secret"})
	assert.ErrorIs(t, err, ErrInvalidVisibility)

	sec, err := f.svc.CreateSection(ctx, modelID, dto.CreateSectionRequest{Slug: "Editorial"})
	require.NoError(t, err)
	assert.Equal(t, "editorial", sec.Slug)
	assert.Equal(t, "public", sec.Visibility)
	assert.Equal(t, 0, sec.SortOrder)

	_, err = f.svc.CreateSection(ctx, modelID, dto.CreateSectionRequest{Slug: "editorial"})
	assert.ErrorIs(t, err, ErrSlugTaken)

	second, err := f.svc.CreateSection(ctx, modelID, dto.CreateSectionRequest{Slug: "retratos"})
	require.NoError(t, err)
	assert.Equal(t, 1, second.SortOrder)
}

func TestSections_Reorder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, _ := f.svc.CreateSection(ctx, modelID, dto.CreateSectionRequest{Slug: "uno"})
	b, _ := f.svc.CreateSection(ctx, modelID, dto.CreateSectionRequest{Slug: "dos"})

	require.NoError(t, f.svc.ReorderSections(ctx, modelID, []string{b.ID, a.ID}))

	got, err := f.svc.ListSections(ctx, modelID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
}

func upload(t *testing.T, f *fixture, sectionID *string) *dto.UploadResponse {
	t.Helper()
	out, err := f.svc.Upload(context.Background(), modelID, sectionID, &media.Upload{
		Filename:    "portrait.jpg",
		ContentType: "image/jpeg",
		Size:        4,
		Data:        []byte{0xff, 0xd8, 0xff, 0xd9},
	})
	require.NoError(t, err)
	return out
}

func TestUpload_Pipeline(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	unknown := "nope"
	_, err := f.svc.Upload(ctx, modelID, &unknown, &media.Upload{Filename: "a.jpg"})
	assert.ErrorIs(t, err, ErrUnknownSection)

	out := upload(t, f, nil)
	img := out.Image

	// el objeto quedó en storage bajo la key registrada
	rc, err := f.storage.Get(ctx, img.StorageKey)
	require.NoError(t, err)
	_ = rc.Close()

	// el estado de la imagen refleja el resultado del pipeline
	assert.Equal(t, out.Moderation.ModerationStatus, img.Status)
	assert.Equal(t, out.Moderation.GeneratedCaption, img.Caption)

	// y quedó una review registrada para la imagen
	review, err := f.store.Moderation().GetLatestByImage(ctx, modelID, img.ID)
	require.NoError(t, err)
	assert.Equal(t, img.Status, review.Status)
}

func TestImages_StatusAndDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	img := upload(t, f, nil).Image

	assert.ErrorIs(t, f.svc.SetImageStatus(ctx, modelID, img.ID, "banned"), ErrInvalidStatus)
	require.NoError(t, f.svc.SetImageStatus(ctx, modelID, img.ID, core.ImageStatusApproved))

	got, err := f.svc.GetImage(ctx, modelID, img.ID)
	require.NoError(t, err)
	assert.Equal(t, core.ImageStatusApproved, got.Status)

	// soft delete: desaparece de listados pero el objeto sigue
	require.NoError(t, f.svc.DeleteImage(ctx, modelID, img.ID))
	imgs, total, err := f.svc.ListImages(ctx, modelID, core.ImageListFilter{}, core.ListParams{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, imgs)
	assert.EqualValues(t, 0, total)

	// otro model no puede tocar la imagen
	assert.ErrorIs(t, f.svc.SetImageStatus(ctx, "model-2", img.ID, core.ImageStatusApproved), core.ErrNotFound)
}

func TestBatch_ApproveFlow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := upload(t, f, nil).Image
	b := upload(t, f, nil).Image

	job, err := f.svc.SubmitBatch(ctx, modelID, dto.BatchRequest{Action: batch.ActionApprove, ImageIDs: []string{a.ID, b.ID}})
	require.NoError(t, err)
	assert.Equal(t, 2, job.Total)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		j, err := f.svc.GetBatch(modelID, job.ID)
		require.NoError(t, err)
		if j.Status == batch.StatusDone {
			assert.Equal(t, 2, j.Succeeded)
			got, err := f.svc.GetImage(ctx, modelID, a.ID)
			require.NoError(t, err)
			assert.Equal(t, core.ImageStatusApproved, got.Status)
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("batch did not finish in time")
}

func waitBatch(t *testing.T, f *fixture, jobID string) batch.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		j, err := f.svc.GetBatch(modelID, jobID)
		require.NoError(t, err)
		if j.Status == batch.StatusDone {
			return j
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("batch did not finish in time")
	return batch.Job{}
}

func TestBatch_DeleteAndRestore(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	img := upload(t, f, nil).Image

	require.NoError(t, f.svc.DeleteImage(ctx, modelID, img.ID))

	// una imagen borrada no admite cambio de estado directo
	assert.ErrorIs(t, f.svc.SetImageStatus(ctx, modelID, img.ID, core.ImageStatusApproved), core.ErrNotFound)

	job, err := f.svc.SubmitBatch(ctx, modelID, dto.BatchRequest{Action: batch.ActionRestore, ImageIDs: []string{img.ID}})
	require.NoError(t, err)
	j := waitBatch(t, f, job.ID)
	assert.Equal(t, 1, j.Succeeded)

	got, err := f.svc.GetImage(ctx, modelID, img.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DeletedAt)
	assert.Equal(t, core.ImageStatusPending, got.Status)

	// restaurar una imagen que no está borrada falla por item
	job2, err := f.svc.SubmitBatch(ctx, modelID, dto.BatchRequest{Action: batch.ActionRestore, ImageIDs: []string{img.ID}})
	require.NoError(t, err)
	j2 := waitBatch(t, f, job2.ID)
	assert.Equal(t, 1, j2.Failed)
}

func TestBatch_OwnershipOnGet(t *testing.T) {
	f := newFixture()
	img := upload(t, f, nil).Image

	job, err := f.svc.SubmitBatch(context.Background(), modelID, dto.BatchRequest{Action: batch.ActionApprove, ImageIDs: []string{img.ID}})
	require.NoError(t, err)

	_, err = f.svc.GetBatch("model-2", job.ID)
	assert.ErrorIs(t, err, batch.ErrNotFound)
}

func TestRemoderate_CreatesNewReview(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	img := upload(t, f, nil).Image

	review, err := f.svc.Remoderate(ctx, modelID, img.ID)
	require.NoError(t, err)
	assert.Equal(t, img.ID, review.ImageID)

	_, err = f.svc.Remoderate(ctx, modelID, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestResolveReview(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// forzamos una review pendiente de decisión humana
	img := upload(t, f, nil).Image
	review := &core.ModerationReview{
		ID:                  "rev-1",
		ModelID:             modelID,
		ImageID:             img.ID,
		Status:              core.ImageStatusFlagged,
		HumanReviewRequired: true,
	}
	require.NoError(t, f.store.Moderation().Create(ctx, review))

	pending, total, err := f.svc.ListPendingReviews(ctx, modelID, core.ListParams{Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, pending)
	assert.GreaterOrEqual(t, total, int64(1))

	assert.ErrorIs(t, f.svc.ResolveReview(ctx, modelID, review.ID, "pending", "user-1"), ErrInvalidStatus)
	require.NoError(t, f.svc.ResolveReview(ctx, modelID, review.ID, core.ImageStatusApproved, "user-1"))

	// la decisión se propaga a la imagen
	got, err := f.svc.GetImage(ctx, modelID, img.ID)
	require.NoError(t, err)
	assert.Equal(t, core.ImageStatusApproved, got.Status)

	// y la review sale de la cola
	assert.ErrorIs(t, f.svc.ResolveReview(ctx, modelID, review.ID, core.ImageStatusApproved, "user-1"), core.ErrNotFound)
}

func TestResolveReview_LargeQueue(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	img := upload(t, f, nil).Image

	// una cola grande no debe impedir resolver las reviews del fondo
	var lastID string
	for i := 0; i < 520; i++ {
		lastID = fmt.Sprintf("rev-%03d", i)
		require.NoError(t, f.store.Moderation().Create(ctx, &core.ModerationReview{
			ID:                  lastID,
			ModelID:             modelID,
			ImageID:             img.ID,
			Status:              core.ImageStatusFlagged,
			HumanReviewRequired: true,
		}))
	}

	require.NoError(t, f.svc.ResolveReview(ctx, modelID, lastID, core.ImageStatusRejected, "user-1"))

	got, err := f.svc.GetImage(ctx, modelID, img.ID)
	require.NoError(t, err)
	assert.Equal(t, core.ImageStatusRejected, got.Status)
}

func TestAIEndpoints_Deterministic(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	img := upload(t, f, nil).Image

	q1, err := f.svc.AssessQuality(ctx, modelID, img.ID)
	require.NoError(t, err)
	q2, err := f.svc.AssessQuality(ctx, modelID, img.ID)
	require.NoError(t, err)
	assert.Equal(t, q1, q2)

	labels, err := f.svc.ClassifyImage(ctx, modelID, img.ID, 3)
	require.NoError(t, err)
	assert.Len(t, labels, 3)

	_, err = f.svc.AssessQuality(ctx, modelID, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
