package warehouse

import (
	"context"
	"fmt"
	"math"
	"time"

	common_models "go-catalog/internal/common/models"
	"go-catalog/internal/config"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type WarehouseSource interface {
	ListWarehouses(ctx context.Context) ([]common_models.Warehouse, error)
}

// CatalogSource lists products with their current product-level stock.
type CatalogSource interface {
	ListStockedProducts(ctx context.Context) ([]common_models.Product, error)
}

// StockApplier writes stock lines. AddStock is additive; SetStock replaces
// the quantity and creates the line when missing.
type StockApplier interface {
	AddStock(ctx context.Context, productID, warehouseID string, quantity int) error
	SetStock(ctx context.Context, productID, warehouseID string, quantity int) error
}

type ShareEditor interface {
	SetPercentage(ctx context.Context, warehouseID string, percentage float64) error
}

// WarehouseStore is everything a warehouse backend provides except the
// product listing.
type WarehouseStore interface {
	WarehouseSource
	StockApplier
	ShareEditor
}

type Backend interface {
	WarehouseStore
	CatalogSource
}

type composedBackend struct {
	WarehouseStore
	CatalogSource
}

// ComposeBackend joins a warehouse store and a product source kept in
// different places.
func ComposeBackend(store WarehouseStore, catalog CatalogSource) Backend {
	return composedBackend{WarehouseStore: store, CatalogSource: catalog}
}

type WarehouseService interface {
	ListWarehouses(ctx context.Context) ([]common_models.Warehouse, error)
	SetPercentage(ctx context.Context, warehouseID string, percentage float64) error
	SetStockQuantity(ctx context.Context, warehouseID, productID string, quantity int) error
	Plan(ctx context.Context) (*DistributionPlan, error)
	Distribute(ctx context.Context, opts DistributeOptions) (*DistributionRun, error)
	ExportWarehouse(ctx context.Context, warehouseID string) (*excelize.File, string, error)
}

type WarehouseServiceImpl struct {
	Backend     Backend
	Lock        DistributionLock
	Concurrency int
	Logger      *zap.Logger
}

func NewWarehouseService(backend Backend, lock DistributionLock, cfg *config.Config, logger *zap.Logger) WarehouseService {
	return &WarehouseServiceImpl{
		Backend:     backend,
		Lock:        lock,
		Concurrency: cfg.DistributionConcurrency,
		Logger:      logger.Named("warehouse_service"),
	}
}

func (s *WarehouseServiceImpl) ListWarehouses(ctx context.Context) ([]common_models.Warehouse, error) {
	return s.Backend.ListWarehouses(ctx)
}

func (s *WarehouseServiceImpl) SetPercentage(ctx context.Context, warehouseID string, percentage float64) error {
	if math.IsNaN(percentage) || percentage < 0 || percentage > 100 {
		return &InvalidPercentageError{Value: percentage}
	}
	if err := s.Backend.SetPercentage(ctx, warehouseID, percentage); err != nil {
		return err
	}
	s.Logger.Info("Warehouse percentage updated",
		zap.String("warehouse_id", warehouseID), zap.Float64("percentage", percentage))
	return nil
}

func (s *WarehouseServiceImpl) SetStockQuantity(ctx context.Context, warehouseID, productID string, quantity int) error {
	if quantity < 0 {
		return &InvalidQuantityError{Value: quantity}
	}
	return s.Backend.SetStock(ctx, productID, warehouseID, quantity)
}

// Plan computes the allocations a distribution would write, without writing.
func (s *WarehouseServiceImpl) Plan(ctx context.Context) (*DistributionPlan, error) {
	warehouses, err := s.Backend.ListWarehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	products, err := s.Backend.ListStockedProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	shares := make([]common_models.WarehouseShare, 0, len(warehouses))
	for _, w := range warehouses {
		shares = append(shares, w.Share())
	}
	return BuildPlan(products, shares), nil
}

// Distribute plans and applies stock concurrently. Each (product, warehouse)
// pair succeeds or fails on its own; the returned error combines every
// failure. Without Reset, running twice adds the quantities twice. Runs never
// overlap: a second call fails with ErrDistributionInProgress.
func (s *WarehouseServiceImpl) Distribute(ctx context.Context, opts DistributeOptions) (*DistributionRun, error) {
	run := &DistributionRun{
		ID:        uuid.NewString(),
		Reset:     opts.Reset,
		Applied:   []common_models.Allocation{},
		Failures:  []AllocationFailure{},
		StartedAt: time.Now(),
	}
	log := s.Logger.With(zap.String("run_id", run.ID))

	if s.Lock != nil {
		release, err := s.Lock.Acquire(ctx, run.ID)
		if err != nil {
			log.Warn("Stock distribution not started", zap.Error(err))
			return nil, err
		}
		defer release()
	}

	plan, err := s.Plan(ctx)
	if err != nil {
		return nil, err
	}
	run.Plan = plan

	limit := opts.Concurrency
	if limit <= 0 {
		limit = s.Concurrency
	}
	if limit <= 0 {
		limit = 1
	}

	var errs []error
	pending := plan.Allocations

	if opts.Reset {
		outcomes := s.apply(ctx, pending, limit, func(ctx context.Context, a common_models.Allocation) error {
			return s.Backend.SetStock(ctx, a.ProductID, a.WarehouseID, 0)
		})
		var next []common_models.Allocation
		for i, o := range outcomes {
			switch {
			case !o.issued:
				run.Pending++
			case o.err != nil:
				run.Failures = append(run.Failures, s.failure(log, pending[i], StageReset, o.err))
				errs = append(errs, stageError(pending[i], StageReset, o.err))
			default:
				next = append(next, pending[i])
			}
		}
		pending = next
	}

	outcomes := s.apply(ctx, pending, limit, func(ctx context.Context, a common_models.Allocation) error {
		return s.Backend.AddStock(ctx, a.ProductID, a.WarehouseID, a.Quantity)
	})
	for i, o := range outcomes {
		switch {
		case !o.issued:
			run.Pending++
		case o.err != nil:
			run.Failures = append(run.Failures, s.failure(log, pending[i], StageAdd, o.err))
			errs = append(errs, stageError(pending[i], StageAdd, o.err))
		default:
			run.Applied = append(run.Applied, pending[i])
		}
	}

	if run.Pending > 0 {
		errs = append(errs, fmt.Errorf("distribution interrupted with %d allocation(s) not issued: %w", run.Pending, ctx.Err()))
	}
	run.FinishedAt = time.Now()

	log.Info("Stock distribution finished",
		zap.Bool("reset", run.Reset),
		zap.Int("planned", len(plan.Allocations)),
		zap.Int("applied", len(run.Applied)),
		zap.Int("failed", len(run.Failures)),
		zap.Int("pending", run.Pending),
		zap.Duration("took", run.FinishedAt.Sub(run.StartedAt)))

	return run, multierr.Combine(errs...)
}

type applyOutcome struct {
	issued bool
	err    error
}

// apply runs op for every allocation with at most limit calls in flight.
// Once ctx is done no further call is issued; outcomes keep input order.
func (s *WarehouseServiceImpl) apply(
	ctx context.Context,
	allocations []common_models.Allocation,
	limit int,
	op func(context.Context, common_models.Allocation) error,
) []applyOutcome {
	outcomes := make([]applyOutcome, len(allocations))

	g := new(errgroup.Group)
	g.SetLimit(limit)
	for i, a := range allocations {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			outcomes[i] = applyOutcome{issued: true, err: op(ctx, a)}
			return nil
		})
	}
	g.Wait()

	return outcomes
}

func (s *WarehouseServiceImpl) failure(log *zap.Logger, a common_models.Allocation, stage string, err error) AllocationFailure {
	log.Warn("Stock allocation failed",
		zap.String("stage", stage),
		zap.String("product_id", a.ProductID),
		zap.String("warehouse_id", a.WarehouseID),
		zap.Int("quantity", a.Quantity),
		zap.Error(err))
	return AllocationFailure{Allocation: a, Stage: stage, Error: err.Error()}
}

func stageError(a common_models.Allocation, stage string, err error) error {
	return fmt.Errorf("%s stock of product %s in warehouse %s: %w", stage, a.ProductID, a.WarehouseID, err)
}

// ExportWarehouse renders the warehouse stock in the import file format.
func (s *WarehouseServiceImpl) ExportWarehouse(ctx context.Context, warehouseID string) (*excelize.File, string, error) {
	warehouses, err := s.Backend.ListWarehouses(ctx)
	if err != nil {
		return nil, "", err
	}

	var target *common_models.Warehouse
	for i := range warehouses {
		if warehouses[i].ID == warehouseID {
			target = &warehouses[i]
			break
		}
	}
	if target == nil {
		return nil, "", ErrWarehouseNotFound
	}

	products, err := s.Backend.ListStockedProducts(ctx)
	if err != nil {
		return nil, "", err
	}

	f, err := ExportStock(*target, products)
	if err != nil {
		return nil, "", err
	}
	return f, ExportFileName(*target), nil
}
