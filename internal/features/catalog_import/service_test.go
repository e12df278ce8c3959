package catalog_import

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	common_models "go-catalog/internal/common/models"
	"go-catalog/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memoryImportRepo struct {
	mu   sync.Mutex
	jobs map[string]ImportJob
}

func newMemoryImportRepo() *memoryImportRepo {
	return &memoryImportRepo{jobs: make(map[string]ImportJob)}
}

func (r *memoryImportRepo) Create(ctx context.Context, job *ImportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID.IsZero() {
		job.ID = primitive.NewObjectID()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	job.Status = ImportStatusPending
	r.jobs[job.ID.Hex()] = *job
	return nil
}

func (r *memoryImportRepo) Get(ctx context.Context, id string) (*ImportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return &job, nil
}

func (r *memoryImportRepo) Update(ctx context.Context, id string, job *ImportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[id] = *job
	return nil
}

func (r *memoryImportRepo) List(ctx context.Context, limit int) ([]ImportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	jobs := make([]ImportJob, 0, len(r.jobs))
	for _, j := range r.jobs {
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	if len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

func (r *memoryImportRepo) FindCreatedBefore(ctx context.Context, before time.Time) ([]ImportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var jobs []ImportJob
	for _, j := range r.jobs {
		if j.CreatedAt.Before(before) {
			jobs = append(jobs, j)
		}
	}
	return jobs, nil
}

func (r *memoryImportRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
	return nil
}

type recordingSink struct {
	batches [][]common_models.Product
	report  common_models.SubmitReport
	err     error
}

func (s *recordingSink) SubmitProducts(ctx context.Context, batch []common_models.Product) (common_models.SubmitReport, error) {
	s.batches = append(s.batches, batch)
	return s.report, s.err
}

func newTestService(repo ImportRepository, sink CatalogSink, policy string) *ImportServiceImpl {
	return &ImportServiceImpl{
		ImportRepo:   repo,
		Sink:         sink,
		Pipeline:     newTestPipeline(zap.NewNop()),
		CommitPolicy: policy,
		Logger:       zap.NewNop(),
	}
}

func writeUpload(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func mixedFile() string {
	return csvFile(
		header,
		csvLine(simpleProduct("A", "Alpha")),
		csvLine(variantRow("B", "Beta", "Taille:S", "", "1")),
		csvLine(variantRow("C", "Gamma", "Taille:S", "0", "1")),
		csvLine(variantRow("C", "Gamma", "Taille:M", "2", "3")),
	)
}

func TestImportPartialCommitsSuccesses(t *testing.T) {
	repo := newMemoryImportRepo()
	sink := &recordingSink{report: common_models.SubmitReport{ImportedCount: 2, ImportedVariantsCount: 2}}
	svc := newTestService(repo, sink, config.CommitPartial)

	job, err := svc.Import(context.Background(), ImportRequest{FileName: "mixed.csv", FilePath: writeUpload(t, "mixed.csv", mixedFile())})
	require.NoError(t, err)

	require.Len(t, sink.batches, 1)
	assert.Len(t, sink.batches[0], 2)

	assert.Equal(t, ImportStatusCompleted, job.Status)
	assert.True(t, job.Committed)
	assert.Equal(t, 2, job.ProductCount)
	assert.Equal(t, 2, job.VariantCount)
	assert.Equal(t, 2, job.ImportedCount)
	assert.Equal(t, 1, job.ErrorCount)
	assert.Equal(t, ColImpactPrice, job.Errors[0].Field)
	assert.NotNil(t, job.CompletedAt)

	stored, err := repo.Get(context.Background(), job.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, ImportStatusCompleted, stored.Status)
}

func TestImportOutOfRangePriceOnlyFailsItsGroup(t *testing.T) {
	huge := simpleProduct("H", "Huge")
	huge[ColSellPriceTaxExcl] = "1e999999"
	precise := simpleProduct("X", "Precise")
	precise[ColCostPrice] = "0.1234567890123456789012345678901234567"

	file := csvFile(
		header,
		csvLine(simpleProduct("A", "Alpha")),
		csvLine(huge),
		csvLine(precise),
		csvLine(simpleProduct("B", "Beta")),
	)

	sink := &recordingSink{report: common_models.SubmitReport{ImportedCount: 2}}
	svc := newTestService(newMemoryImportRepo(), sink, config.CommitPartial)

	job, err := svc.Import(context.Background(), ImportRequest{FileName: "range.csv", FilePath: writeUpload(t, "range.csv", file)})
	require.NoError(t, err)

	require.Len(t, sink.batches, 1)
	require.Len(t, sink.batches[0], 2)
	assert.Equal(t, "A", sink.batches[0][0].Code)
	assert.Equal(t, "B", sink.batches[0][1].Code)

	assert.Equal(t, ImportStatusCompleted, job.Status)
	assert.True(t, job.Committed)
	require.Len(t, job.Errors, 2)
	assert.Equal(t, ColSellPriceTaxExcl, job.Errors[0].Field)
	assert.Equal(t, 3, job.Errors[0].Row)
	assert.Equal(t, ColCostPrice, job.Errors[1].Field)
	assert.Equal(t, 4, job.Errors[1].Row)
}

func TestImportAllOrNothingBlocksOnErrors(t *testing.T) {
	sink := &recordingSink{}
	svc := newTestService(newMemoryImportRepo(), sink, config.CommitAllOrNothing)

	job, err := svc.Import(context.Background(), ImportRequest{FileName: "mixed.csv", FilePath: writeUpload(t, "mixed.csv", mixedFile())})
	require.NoError(t, err)

	assert.Empty(t, sink.batches)
	assert.Equal(t, ImportStatusFailed, job.Status)
	assert.False(t, job.Committed)
	assert.Contains(t, job.Message, "nothing was committed")
}

func TestImportFallsBackToProductCount(t *testing.T) {
	sink := &recordingSink{}
	svc := newTestService(newMemoryImportRepo(), sink, config.CommitAllOrNothing)

	text := csvFile(header, csvLine(simpleProduct("A", "Alpha")))
	job, err := svc.Import(context.Background(), ImportRequest{FileName: "a.csv", FilePath: writeUpload(t, "a.csv", text)})
	require.NoError(t, err)

	assert.True(t, job.Committed)
	assert.Equal(t, 1, job.ImportedCount)
}

func TestImportBatchFatalFile(t *testing.T) {
	repo := newMemoryImportRepo()
	sink := &recordingSink{}
	svc := newTestService(repo, sink, config.CommitPartial)

	text := csvFile(header, "A,B", csvLine(simpleProduct("A", "Alpha")), "C")
	job, err := svc.Import(context.Background(), ImportRequest{FileName: "bad.csv", FilePath: writeUpload(t, "bad.csv", text)})

	require.Error(t, err)
	assert.True(t, IsBatchFatal(err))
	require.NotNil(t, job)
	assert.Equal(t, ImportStatusFailed, job.Status)
	assert.Len(t, job.Errors, 2)
	assert.Empty(t, sink.batches)

	stored, _ := repo.Get(context.Background(), job.ID.Hex())
	assert.Equal(t, ImportStatusFailed, stored.Status)
}

func TestImportSinkFailure(t *testing.T) {
	sink := &recordingSink{err: errors.New("connection refused")}
	svc := newTestService(newMemoryImportRepo(), sink, config.CommitPartial)

	text := csvFile(header, csvLine(simpleProduct("A", "Alpha")))
	job, err := svc.Import(context.Background(), ImportRequest{FileName: "a.csv", FilePath: writeUpload(t, "a.csv", text)})

	require.Error(t, err)
	assert.False(t, IsBatchFatal(err))
	assert.Equal(t, ImportStatusFailed, job.Status)
	assert.False(t, job.Committed)
	assert.Contains(t, job.Message, "connection refused")
}

func TestImportMissingFile(t *testing.T) {
	svc := newTestService(newMemoryImportRepo(), &recordingSink{}, config.CommitPartial)

	job, err := svc.Import(context.Background(), ImportRequest{FileName: "gone.csv", FilePath: filepath.Join(t.TempDir(), "gone.csv")})
	require.Error(t, err)
	assert.Equal(t, ImportStatusFailed, job.Status)
}

func TestPreviewDoesNotCommit(t *testing.T) {
	repo := newMemoryImportRepo()
	sink := &recordingSink{}
	svc := newTestService(repo, sink, config.CommitPartial)

	result, err := svc.Preview(context.Background(), "mixed.csv", []byte(mixedFile()))
	require.NoError(t, err)

	assert.Equal(t, 2, result.ProductCount)
	assert.Empty(t, sink.batches)
	assert.Empty(t, repo.jobs)
}

func TestPurgeExpired(t *testing.T) {
	repo := newMemoryImportRepo()
	svc := newTestService(repo, &recordingSink{}, config.CommitPartial)

	oldFile := writeUpload(t, "old.csv", "x")
	now := time.Now()
	old := &ImportJob{FilePath: oldFile, CreatedAt: now.Add(-48 * time.Hour)}
	recent := &ImportJob{FilePath: writeUpload(t, "new.csv", "x"), CreatedAt: now}
	require.NoError(t, repo.Create(context.Background(), old))
	require.NoError(t, repo.Create(context.Background(), recent))

	purged, err := svc.PurgeExpired(context.Background(), now.Add(-24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 1, purged)
	_, err = os.Stat(oldFile)
	assert.True(t, os.IsNotExist(err))
	_, err = repo.Get(context.Background(), old.ID.Hex())
	assert.ErrorIs(t, err, ErrJobNotFound)
	_, err = repo.Get(context.Background(), recent.ID.Hex())
	assert.NoError(t, err)
}

func TestListJobsDefaultLimit(t *testing.T) {
	repo := newMemoryImportRepo()
	svc := newTestService(repo, &recordingSink{}, config.CommitPartial)
	for i := 0; i < defaultJobListLimit+5; i++ {
		require.NoError(t, repo.Create(context.Background(), &ImportJob{}))
	}

	jobs, err := svc.ListJobs(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, jobs, defaultJobListLimit)
}
