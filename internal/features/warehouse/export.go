package warehouse

import (
	"fmt"
	"strings"

	common_models "go-catalog/internal/common/models"
	"go-catalog/internal/features/catalog_import"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Produits"

// ExportStock writes one row per stocked product (one per variant for
// variant products) using the import column layout, so the workbook can be
// imported again. Decimals use a comma separator.
func ExportStock(w common_models.Warehouse, products []common_models.Product) (*excelize.File, error) {
	byID := make(map[string]common_models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, err
	}

	rowNum := 1
	if err := writeRow(f, rowNum, catalog_import.Columns); err != nil {
		f.Close()
		return nil, err
	}

	for _, line := range w.Stock {
		p, ok := byID[line.ProductID]
		if !ok {
			continue
		}
		for _, values := range exportRows(p, line.Quantity) {
			rowNum++
			if err := writeRow(f, rowNum, values); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	return f, nil
}

func ExportFileName(w common_models.Warehouse) string {
	name := strings.ReplaceAll(strings.TrimSpace(w.Name), " ", "_")
	if name == "" {
		name = w.ID
	}
	return fmt.Sprintf("produits_entrepot_%s.xlsx", name)
}

func exportRows(p common_models.Product, quantity int) [][]string {
	base := map[string]string{
		catalog_import.ColAction:           "CREATE",
		catalog_import.ColImage:            p.Image,
		catalog_import.ColProductName:      p.Designation,
		catalog_import.ColReference:        p.Code,
		catalog_import.ColCategory:         p.CategoryName,
		catalog_import.ColBrand:            p.Brand,
		catalog_import.ColDescription:      p.Description,
		catalog_import.ColCostPrice:        decimalComma(p.CostPrice),
		catalog_import.ColSellPriceTaxExcl: decimalComma(p.PriceExclTax),
		catalog_import.ColVAT:              decimalComma(p.TaxRate),
		catalog_import.ColSellPriceTaxIncl: decimalComma(p.PriceInclTax),
		catalog_import.ColQuantity:         fmt.Sprint(quantity),
		catalog_import.ColSellable:         boolMarker(p.Sellable),
		catalog_import.ColSimpleProduct:    boolMarker(!p.HasVariants),
	}

	if !p.HasVariants || len(p.Variants) == 0 {
		return [][]string{orderedRow(base)}
	}

	rows := make([][]string, 0, len(p.Variants))
	for _, v := range p.Variants {
		values := make(map[string]string, len(base)+5)
		for k, val := range base {
			values[k] = val
		}
		values[catalog_import.ColVariantName] = v.CombinationName
		values[catalog_import.ColDefaultVariant] = boolMarker(v.DefaultVariant)
		values[catalog_import.ColVariantImage] = v.Image
		values[catalog_import.ColImpactPrice] = decimalComma(v.PriceImpact)
		values[catalog_import.ColQuantityVariant] = fmt.Sprint(v.Stock)
		rows = append(rows, orderedRow(values))
	}
	return rows
}

func orderedRow(values map[string]string) []string {
	row := make([]string, len(catalog_import.Columns))
	for i, col := range catalog_import.Columns {
		row[i] = values[col]
	}
	return row
}

func writeRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(exportSheet, cell, &values)
}

func decimalComma(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1)
}

func boolMarker(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
