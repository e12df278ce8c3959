package warehouse

import (
	common_models "go-catalog/internal/common/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Allocate splits totalStock across shares: round(total * pct / 100), half
// rounded up. Percentages need not sum to 100, so the result is not a
// partition of the total. A non-positive total yields no entries.
func Allocate(totalStock int, shares []common_models.WarehouseShare) map[string]int {
	out := make(map[string]int, len(shares))
	if totalStock <= 0 {
		return out
	}

	total := decimal.NewFromInt(int64(totalStock))
	for _, share := range shares {
		q := total.Mul(decimal.NewFromFloat(share.Percentage)).Div(hundred).Round(0)
		out[share.WarehouseID] = int(q.IntPart())
	}
	return out
}

// BuildPlan allocates the stock of every product with positive stock.
func BuildPlan(products []common_models.Product, shares []common_models.WarehouseShare) *DistributionPlan {
	plan := &DistributionPlan{Allocations: []common_models.Allocation{}}

	for _, p := range products {
		if p.Stock <= 0 {
			continue
		}
		quantities := Allocate(p.Stock, shares)
		plan.ProductCount++
		for _, share := range shares {
			q := quantities[share.WarehouseID]
			plan.Allocations = append(plan.Allocations, common_models.Allocation{
				ProductID:   p.ID,
				WarehouseID: share.WarehouseID,
				Quantity:    q,
			})
			plan.TotalQuantity += q
		}
	}
	return plan
}
