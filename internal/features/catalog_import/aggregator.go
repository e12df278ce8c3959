package catalog_import

import (
	common_models "go-catalog/internal/common/models"
)

// GroupOutcome is the result of building one group: exactly one of Product
// or Err is set.
type GroupOutcome struct {
	Product *common_models.Product
	Err     *ImportError
}

// Aggregate collects outcomes in group order. Failed groups never discard
// successful ones.
func Aggregate(outcomes []GroupOutcome, skippedRows []int) *ImportResult {
	result := &ImportResult{
		Products:    make([]common_models.Product, 0, len(outcomes)),
		Errors:      make([]ImportError, 0),
		SkippedRows: skippedRows,
	}

	for _, o := range outcomes {
		if o.Err != nil {
			result.Errors = append(result.Errors, *o.Err)
			continue
		}
		if o.Product == nil {
			continue
		}
		result.Products = append(result.Products, *o.Product)
		result.VariantCount += o.Product.VariantCount()
	}
	result.ProductCount = len(result.Products)

	return result
}
