package warehouse

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	common_models "go-catalog/internal/common/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// memoryBackend is an additive in-memory stock backend.
type memoryBackend struct {
	mu         sync.Mutex
	warehouses []common_models.Warehouse
	products   []common_models.Product
	failAdd    map[string]error
	delay      time.Duration

	calls       int
	inFlight    int
	maxInFlight int
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{
		warehouses: []common_models.Warehouse{
			{ID: "w1", Name: "Paris", Percentage: 60},
			{ID: "w2", Name: "Lyon", Percentage: 40},
		},
		products: []common_models.Product{
			{ID: "p1", Designation: "Chaise", Stock: 100},
			{ID: "p2", Designation: "Table", Stock: 0},
		},
		failAdd: map[string]error{},
	}
}

func (b *memoryBackend) ListWarehouses(ctx context.Context) ([]common_models.Warehouse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]common_models.Warehouse, len(b.warehouses))
	for i, w := range b.warehouses {
		w.Stock = append([]common_models.StockLine(nil), w.Stock...)
		out[i] = w
	}
	return out, nil
}

func (b *memoryBackend) ListStockedProducts(ctx context.Context) ([]common_models.Product, error) {
	return b.products, nil
}

func (b *memoryBackend) SetPercentage(ctx context.Context, warehouseID string, percentage float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w := b.find(warehouseID)
	if w == nil {
		return ErrWarehouseNotFound
	}
	w.Percentage = percentage
	return nil
}

func (b *memoryBackend) AddStock(ctx context.Context, productID, warehouseID string, quantity int) error {
	b.enter()
	defer b.leave()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.failAdd[productID+"/"+warehouseID]; err != nil {
		return err
	}
	return b.write(productID, warehouseID, func(q int) int { return q + quantity })
}

func (b *memoryBackend) SetStock(ctx context.Context, productID, warehouseID string, quantity int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.write(productID, warehouseID, func(int) int { return quantity })
}

func (b *memoryBackend) enter() {
	b.mu.Lock()
	b.calls++
	b.inFlight++
	if b.inFlight > b.maxInFlight {
		b.maxInFlight = b.inFlight
	}
	b.mu.Unlock()
	time.Sleep(b.delay)
}

func (b *memoryBackend) leave() {
	b.mu.Lock()
	b.inFlight--
	b.mu.Unlock()
}

func (b *memoryBackend) write(productID, warehouseID string, next func(int) int) error {
	w := b.find(warehouseID)
	if w == nil {
		return ErrWarehouseNotFound
	}
	for i := range w.Stock {
		if w.Stock[i].ProductID == productID {
			w.Stock[i].Quantity = next(w.Stock[i].Quantity)
			return nil
		}
	}
	w.Stock = append(w.Stock, common_models.StockLine{ProductID: productID, Quantity: next(0)})
	return nil
}

func (b *memoryBackend) find(id string) *common_models.Warehouse {
	for i := range b.warehouses {
		if b.warehouses[i].ID == id {
			return &b.warehouses[i]
		}
	}
	return nil
}

func (b *memoryBackend) quantity(t *testing.T, warehouseID, productID string) int {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	q, _ := b.find(warehouseID).QuantityOf(productID)
	return q
}

func newTestWarehouseService(b Backend, logger *zap.Logger) *WarehouseServiceImpl {
	return &WarehouseServiceImpl{Backend: b, Lock: NewLocalLock(), Concurrency: 4, Logger: logger}
}

func TestPlan(t *testing.T) {
	svc := newTestWarehouseService(newMemoryBackend(), zap.NewNop())

	plan, err := svc.Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []common_models.Allocation{
		{ProductID: "p1", WarehouseID: "w1", Quantity: 60},
		{ProductID: "p1", WarehouseID: "w2", Quantity: 40},
	}, plan.Allocations)
}

func TestDistributeIsAdditive(t *testing.T) {
	backend := newMemoryBackend()
	svc := newTestWarehouseService(backend, zap.NewNop())

	run, err := svc.Distribute(context.Background(), DistributeOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Len(t, run.Applied, 2)
	assert.Equal(t, 60, backend.quantity(t, "w1", "p1"))
	assert.Equal(t, 40, backend.quantity(t, "w2", "p1"))

	second, err := svc.Distribute(context.Background(), DistributeOptions{})
	require.NoError(t, err)
	assert.NotEqual(t, run.ID, second.ID)
	assert.Equal(t, 120, backend.quantity(t, "w1", "p1"))
	assert.Equal(t, 80, backend.quantity(t, "w2", "p1"))
}

func TestDistributeWithResetReplaces(t *testing.T) {
	backend := newMemoryBackend()
	svc := newTestWarehouseService(backend, zap.NewNop())

	for i := 0; i < 2; i++ {
		run, err := svc.Distribute(context.Background(), DistributeOptions{Reset: true})
		require.NoError(t, err)
		assert.True(t, run.Reset)
	}

	assert.Equal(t, 60, backend.quantity(t, "w1", "p1"))
	assert.Equal(t, 40, backend.quantity(t, "w2", "p1"))
}

func TestDistributeRecordsPairFailures(t *testing.T) {
	backend := newMemoryBackend()
	backend.failAdd["p1/w2"] = errors.New("backend unavailable")
	core, logs := observer.New(zapcore.WarnLevel)
	svc := newTestWarehouseService(backend, zap.New(core))

	run, err := svc.Distribute(context.Background(), DistributeOptions{})

	require.Error(t, err)
	require.NotNil(t, run)
	assert.Len(t, multierr.Errors(err), 1)
	assert.Contains(t, err.Error(), "backend unavailable")

	assert.Equal(t, []common_models.Allocation{{ProductID: "p1", WarehouseID: "w1", Quantity: 60}}, run.Applied)
	require.Len(t, run.Failures, 1)
	assert.Equal(t, "w2", run.Failures[0].WarehouseID)
	assert.Equal(t, StageAdd, run.Failures[0].Stage)
	assert.Equal(t, 60, backend.quantity(t, "w1", "p1"), "sibling pair still applied")

	entries := logs.FilterMessage("Stock allocation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, run.ID, entries[0].ContextMap()["run_id"])
}

func TestDistributeRespectsConcurrencyLimit(t *testing.T) {
	backend := newMemoryBackend()
	backend.delay = 5 * time.Millisecond
	backend.products = nil
	for i := 0; i < 10; i++ {
		backend.products = append(backend.products, common_models.Product{ID: string(rune('a' + i)), Stock: 10})
	}
	svc := newTestWarehouseService(backend, zap.NewNop())

	run, err := svc.Distribute(context.Background(), DistributeOptions{Concurrency: 2})
	require.NoError(t, err)

	assert.Len(t, run.Applied, 20)
	assert.Equal(t, 20, backend.calls)
	assert.LessOrEqual(t, backend.maxInFlight, 2)
}

func TestDistributeCancelled(t *testing.T) {
	backend := newMemoryBackend()
	svc := newTestWarehouseService(backend, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := svc.Distribute(ctx, DistributeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, run.Pending)
	assert.Empty(t, run.Applied)
	assert.Zero(t, backend.calls)
}

func TestSetPercentage(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		invalid bool
	}{
		{"zero", 0, false},
		{"hundred", 100, false},
		{"fraction", 55.5, false},
		{"negative", -1, true},
		{"above hundred", 100.5, true},
		{"nan", math.NaN(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newMemoryBackend()
			svc := newTestWarehouseService(backend, zap.NewNop())

			err := svc.SetPercentage(context.Background(), "w1", tt.value)
			if tt.invalid {
				var invalid *InvalidPercentageError
				assert.ErrorAs(t, err, &invalid)
				assert.Equal(t, 60.0, backend.warehouses[0].Percentage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, backend.warehouses[0].Percentage)
		})
	}
}

func TestSetPercentageUnknownWarehouse(t *testing.T) {
	svc := newTestWarehouseService(newMemoryBackend(), zap.NewNop())
	assert.ErrorIs(t, svc.SetPercentage(context.Background(), "nope", 10), ErrWarehouseNotFound)
}

func TestSetStockQuantity(t *testing.T) {
	backend := newMemoryBackend()
	svc := newTestWarehouseService(backend, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.SetStockQuantity(ctx, "w1", "p1", 7))
	assert.Equal(t, 7, backend.quantity(t, "w1", "p1"))

	require.NoError(t, svc.SetStockQuantity(ctx, "w1", "p1", 3))
	assert.Equal(t, 3, backend.quantity(t, "w1", "p1"))

	var invalid *InvalidQuantityError
	assert.ErrorAs(t, svc.SetStockQuantity(ctx, "w1", "p1", -1), &invalid)
}

func TestComposeBackend(t *testing.T) {
	store := newMemoryBackend()
	catalog := &memoryBackend{products: []common_models.Product{{ID: "x", Stock: 10}}}

	svc := newTestWarehouseService(ComposeBackend(store, catalog), zap.NewNop())
	plan, err := svc.Plan(context.Background())
	require.NoError(t, err)

	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, "x", plan.Allocations[0].ProductID)
}

func TestDistributeRefusesOverlappingRuns(t *testing.T) {
	backend := newMemoryBackend()
	svc := newTestWarehouseService(backend, zap.NewNop())

	release, err := svc.Lock.Acquire(context.Background(), "other-run")
	require.NoError(t, err)

	run, err := svc.Distribute(context.Background(), DistributeOptions{})
	assert.Nil(t, run)
	assert.ErrorIs(t, err, ErrDistributionInProgress)
	assert.Zero(t, backend.calls)

	release()
	_, err = svc.Distribute(context.Background(), DistributeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 60, backend.quantity(t, "w1", "p1"))
}
