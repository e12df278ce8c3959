package catalog_import

import (
	"testing"

	common_models "go-catalog/internal/common/models"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	outcomes := []GroupOutcome{
		{Product: &common_models.Product{Designation: "A"}},
		{Err: &ImportError{Row: 3, Reference: "B", Field: ColImpactPrice, Message: "missing"}},
		{Product: &common_models.Product{Designation: "C", HasVariants: true, Variants: make([]common_models.Variant, 3)}},
	}

	result := Aggregate(outcomes, []int{9})

	assert.Equal(t, 2, result.ProductCount)
	assert.Equal(t, 3, result.VariantCount)
	assert.Equal(t, "A", result.Products[0].Designation)
	assert.Equal(t, "C", result.Products[1].Designation)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, []int{9}, result.SkippedRows)
}

func TestAggregateEmpty(t *testing.T) {
	result := Aggregate(nil, nil)

	assert.NotNil(t, result.Products)
	assert.NotNil(t, result.Errors)
	assert.Zero(t, result.ProductCount)
}
