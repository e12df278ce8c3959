package catalog_import

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	common_models "go-catalog/internal/common/models"
	"go-catalog/internal/config"

	"go.uber.org/zap"
)

// CatalogSink receives the validated batch of an import.
type CatalogSink interface {
	SubmitProducts(ctx context.Context, batch []common_models.Product) (common_models.SubmitReport, error)
}

type ImportService interface {
	Preview(ctx context.Context, fileName string, data []byte) (*ImportResult, error)
	Import(ctx context.Context, req ImportRequest) (*ImportJob, error)
	GetJob(ctx context.Context, id string) (*ImportJob, error)
	ListJobs(ctx context.Context, limit int) ([]ImportJob, error)
	PurgeExpired(ctx context.Context, before time.Time) (int, error)
}

// ImportRequest points at an uploaded file already stored on disk.
type ImportRequest struct {
	FileName string
	FilePath string
}

type ImportServiceImpl struct {
	ImportRepo   ImportRepository
	Sink         CatalogSink
	Pipeline     *Pipeline
	CommitPolicy string
	Logger       *zap.Logger
}

func NewImportService(
	importRepo ImportRepository,
	sink CatalogSink,
	pipeline *Pipeline,
	cfg *config.Config,
	logger *zap.Logger,
) ImportService {
	return &ImportServiceImpl{
		ImportRepo:   importRepo,
		Sink:         sink,
		Pipeline:     pipeline,
		CommitPolicy: cfg.ImportCommitPolicy,
		Logger:       logger.Named("import_service"),
	}
}

// Preview runs the pipeline without committing anything.
func (s *ImportServiceImpl) Preview(ctx context.Context, fileName string, data []byte) (*ImportResult, error) {
	return s.Pipeline.Run(fileName, data)
}

// Import runs the pipeline over the stored file and submits the batch
// according to the commit policy. The returned job is persisted in every
// outcome; the error is set for batch-fatal files and backend failures.
func (s *ImportServiceImpl) Import(ctx context.Context, req ImportRequest) (*ImportJob, error) {
	job := &ImportJob{
		FileName:     req.FileName,
		FilePath:     req.FilePath,
		CommitPolicy: s.CommitPolicy,
	}
	if err := s.ImportRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create import job: %w", err)
	}
	log := s.Logger.With(zap.String("job_id", job.ID.Hex()), zap.String("file", req.FileName))

	job.Status = ImportStatusProcessing
	s.save(ctx, job, log)

	data, err := os.ReadFile(req.FilePath)
	if err != nil {
		return s.fail(ctx, job, log, fmt.Errorf("failed to read uploaded file: %w", err))
	}

	result, err := s.Pipeline.Run(req.FileName, data)
	if err != nil {
		var structural *StructuralParseError
		if errors.As(err, &structural) {
			for _, issue := range structural.Issues {
				job.Errors = append(job.Errors, ImportError{Row: issue.Row, Message: issue.String()})
			}
			job.ErrorCount = len(job.Errors)
		}
		return s.fail(ctx, job, log, err)
	}

	job.Format = result.Format
	job.ProductCount = result.ProductCount
	job.VariantCount = result.VariantCount
	job.ErrorCount = len(result.Errors)
	job.Errors = result.Errors
	job.SkippedRows = result.SkippedRows

	switch {
	case s.CommitPolicy == config.CommitAllOrNothing && len(result.Errors) > 0:
		job.Status = ImportStatusFailed
		job.Message = fmt.Sprintf("%d product group(s) failed validation; nothing was committed", len(result.Errors))
		log.Warn("Import blocked by commit policy", zap.Int("errors", len(result.Errors)))
	case result.ProductCount == 0:
		job.Status = ImportStatusCompleted
		job.Message = "no valid products to import"
	default:
		report, err := s.Sink.SubmitProducts(ctx, result.Products)
		if err != nil {
			return s.fail(ctx, job, log, fmt.Errorf("catalog backend rejected the batch: %w", err))
		}
		job.Committed = true
		job.ImportedCount = report.ImportedCount
		job.ImportedVariantsCount = report.ImportedVariantsCount
		if job.ImportedCount == 0 {
			job.ImportedCount = result.ProductCount
		}
		job.Status = ImportStatusCompleted
		job.Message = fmt.Sprintf("imported %d products and %d variants", job.ImportedCount, job.ImportedVariantsCount)
	}

	now := time.Now()
	job.CompletedAt = &now
	s.save(ctx, job, log)

	log.Info("Import finished",
		zap.String("status", string(job.Status)),
		zap.Bool("committed", job.Committed),
		zap.Int("products", job.ProductCount),
		zap.Int("errors", job.ErrorCount))

	return job, nil
}

func (s *ImportServiceImpl) GetJob(ctx context.Context, id string) (*ImportJob, error) {
	return s.ImportRepo.Get(ctx, id)
}

func (s *ImportServiceImpl) ListJobs(ctx context.Context, limit int) ([]ImportJob, error) {
	if limit <= 0 {
		limit = defaultJobListLimit
	}
	return s.ImportRepo.List(ctx, limit)
}

// PurgeExpired removes jobs created before the cutoff along with their
// uploaded files.
func (s *ImportServiceImpl) PurgeExpired(ctx context.Context, before time.Time) (int, error) {
	jobs, err := s.ImportRepo.FindCreatedBefore(ctx, before)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, job := range jobs {
		if job.FilePath != "" {
			if err := os.Remove(job.FilePath); err != nil && !os.IsNotExist(err) {
				s.Logger.Warn("Failed to remove import file", zap.String("path", job.FilePath), zap.Error(err))
			}
		}
		if err := s.ImportRepo.Delete(ctx, job.ID.Hex()); err != nil {
			return purged, fmt.Errorf("failed to delete import job %s: %w", job.ID.Hex(), err)
		}
		purged++
	}
	return purged, nil
}

func (s *ImportServiceImpl) fail(ctx context.Context, job *ImportJob, log *zap.Logger, err error) (*ImportJob, error) {
	job.Status = ImportStatusFailed
	job.Message = err.Error()
	now := time.Now()
	job.CompletedAt = &now
	s.save(ctx, job, log)

	log.Warn("Import failed", zap.Bool("batch_fatal", IsBatchFatal(err)), zap.Error(err))
	return job, err
}

func (s *ImportServiceImpl) save(ctx context.Context, job *ImportJob, log *zap.Logger) {
	if err := s.ImportRepo.Update(ctx, job.ID.Hex(), job); err != nil {
		log.Error("Failed to update import job", zap.Error(err))
	}
}
