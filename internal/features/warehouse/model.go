package warehouse

import (
	"errors"
	"fmt"
	"time"

	common_models "go-catalog/internal/common/models"
)

var ErrWarehouseNotFound = errors.New("warehouse not found")

// InvalidPercentageError rejects a share outside [0, 100].
type InvalidPercentageError struct {
	Value float64
}

func (e *InvalidPercentageError) Error() string {
	return fmt.Sprintf("invalid percentage %v: must be between 0 and 100", e.Value)
}

type InvalidQuantityError struct {
	Value int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d: must be zero or positive", e.Value)
}

// DistributionPlan lists allocations ordered by product, then by warehouse
// order.
type DistributionPlan struct {
	Allocations   []common_models.Allocation `json:"allocations"`
	ProductCount  int                        `json:"product_count"`
	TotalQuantity int                        `json:"total_quantity"`
}

type DistributeOptions struct {
	// Reset zeroes every planned stock line before adding, making the run
	// replace the previous distribution instead of adding to it.
	Reset       bool `json:"reset"`
	Concurrency int  `json:"concurrency"`
}

const (
	StageReset = "reset"
	StageAdd   = "add"
)

type AllocationFailure struct {
	common_models.Allocation
	Stage string `json:"stage"`
	Error string `json:"error"`
}

// DistributionRun reports one write-back. Pending counts allocations never
// issued because the context was cancelled.
type DistributionRun struct {
	ID         string                     `json:"id"`
	Reset      bool                       `json:"reset"`
	Plan       *DistributionPlan          `json:"plan"`
	Applied    []common_models.Allocation `json:"applied"`
	Failures   []AllocationFailure        `json:"failures"`
	Pending    int                        `json:"pending"`
	StartedAt  time.Time                  `json:"started_at"`
	FinishedAt time.Time                  `json:"finished_at"`
}
