package models

import (
	"github.com/shopspring/decimal"
)

// Product is a catalog entry built from one import group. Stock is only
// meaningful when HasVariants is false; variant products carry stock per
// variant.
type Product struct {
	ID           string          `json:"id,omitempty"`
	Code         string          `json:"code"`
	Designation  string          `json:"designation"`
	CategoryName string          `json:"category_name"`
	Brand        string          `json:"brand,omitempty"`
	Description  string          `json:"description,omitempty"`
	Image        string          `json:"image,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	PriceExclTax decimal.Decimal `json:"prix_ht"`
	TaxRate      decimal.Decimal `json:"taxe"`
	PriceInclTax decimal.Decimal `json:"prix_ttc"`
	Sellable     bool            `json:"sellable"`
	HasVariants  bool            `json:"has_variants"`
	Stock        int             `json:"stock"`
	Variants     []Variant       `json:"variants,omitempty"`
}

type Variant struct {
	CombinationName string            `json:"combination_name"`
	Attributes      map[string]string `json:"attributes"`
	PriceImpact     decimal.Decimal   `json:"price_impact"`
	Price           decimal.Decimal   `json:"price"`
	Stock           int               `json:"stock"`
	DefaultVariant  bool              `json:"default_variant"`
	Image           string            `json:"image,omitempty"`
	RowNumber       int               `json:"row_number"`
}

// VariantCount returns the number of variants carried by p.
func (p Product) VariantCount() int {
	return len(p.Variants)
}

// Warehouse is a stock location with its distribution share and current
// stock lines.
type Warehouse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Percentage float64     `json:"percentage"`
	Stock      []StockLine `json:"stock"`
}

type StockLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// QuantityOf returns the stock held for productID, and whether a line exists.
func (w Warehouse) QuantityOf(productID string) (int, bool) {
	for _, line := range w.Stock {
		if line.ProductID == productID {
			return line.Quantity, true
		}
	}
	return 0, false
}

// Share projects the warehouse onto its distribution share.
func (w Warehouse) Share() WarehouseShare {
	return WarehouseShare{WarehouseID: w.ID, Percentage: w.Percentage}
}

type WarehouseShare struct {
	WarehouseID string  `json:"warehouse_id"`
	Percentage  float64 `json:"percentage"`
}

// Allocation is one planned (product, warehouse) stock quantity.
type Allocation struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int    `json:"quantity"`
}

// SubmitReport is what a catalog backend returns after accepting a batch.
type SubmitReport struct {
	ImportedCount         int `json:"imported_count"`
	ImportedVariantsCount int `json:"imported_variants_count"`
}
